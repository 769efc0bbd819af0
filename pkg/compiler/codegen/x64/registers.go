package x64

import "github.com/skeetcha/multi-c-compiler/pkg/compiler/diag"

// NumRegisters is the size of the scratch register bank.
const NumRegisters = 4

var regNames = [NumRegisters]string{"%r8", "%r9", "%r10", "%r11"}

// registerBank tracks which scratch registers hold live values. There is no
// spilling: a fifth live value is an internal error.
type registerBank struct {
	busy [NumRegisters]bool
}

func (b *registerBank) freeAll() {
	b.busy = [NumRegisters]bool{}
}

// alloc hands out the first free register.
func (b *registerBank) alloc() (int, error) {
	for r := range b.busy {
		if !b.busy[r] {
			b.busy[r] = true
			return r, nil
		}
	}
	return 0, diag.Internal("out of registers")
}

func (b *registerBank) free(r int) error {
	if r < 0 || r >= NumRegisters {
		return diag.Internal("no such register %d", r)
	}
	if !b.busy[r] {
		return diag.Internal("error trying to free register %s", regNames[r])
	}
	b.busy[r] = false
	return nil
}

func (b *registerBank) live() int {
	n := 0
	for _, busy := range b.busy {
		if busy {
			n++
		}
	}
	return n
}
