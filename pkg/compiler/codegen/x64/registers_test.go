package x64

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skeetcha/multi-c-compiler/pkg/compiler/diag"
)

func TestRegisterBankFirstFree(t *testing.T) {
	var b registerBank

	for want := 0; want < NumRegisters; want++ {
		r, err := b.alloc()
		require.NoError(t, err)
		require.Equal(t, want, r)
	}
	require.Equal(t, NumRegisters, b.live())

	_, err := b.alloc()
	require.True(t, diag.IsInternal(err))
	require.EqualError(t, err, "internal error: out of registers")

	require.NoError(t, b.free(1))
	r, err := b.alloc()
	require.NoError(t, err)
	require.Equal(t, 1, r)
}

func TestRegisterBankDoubleFree(t *testing.T) {
	var b registerBank

	r, err := b.alloc()
	require.NoError(t, err)
	require.NoError(t, b.free(r))

	err = b.free(r)
	require.True(t, diag.IsInternal(err))
	require.EqualError(t, err, "internal error: error trying to free register %r8")

	require.True(t, diag.IsInternal(b.free(NumRegisters)))
}

func TestRegisterBankFreeAll(t *testing.T) {
	var b registerBank
	for i := 0; i < 3; i++ {
		_, err := b.alloc()
		require.NoError(t, err)
	}
	b.freeAll()
	require.Equal(t, 0, b.live())
}
