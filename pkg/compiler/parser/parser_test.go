package parser_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skeetcha/multi-c-compiler/pkg/compiler/ast"
	"github.com/skeetcha/multi-c-compiler/pkg/compiler/diag"
	"github.com/skeetcha/multi-c-compiler/pkg/compiler/lexer"
	"github.com/skeetcha/multi-c-compiler/pkg/compiler/parser"
)

func sexpr(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return fmt.Sprint(n.Value)
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", n.Op.Symbol(), sexpr(n.Left), sexpr(n.Right))
	}
	return "?"
}

func parseExpr(src string) (ast.Expr, error) {
	return parser.NewParser(lexer.NewScanner([]byte(src))).ParseExpr()
}

func TestPrecedenceClimbing(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{src: "7", want: "7"},
		{src: "2 + 3 * 4", want: "(+ 2 (* 3 4))"},
		{src: "2 * 3 + 4", want: "(+ (* 2 3) 4)"},
		{src: "10 - 2 - 3", want: "(- (- 10 2) 3)"},
		{src: "100 / 10 / 5", want: "(/ (/ 100 10) 5)"},
		{src: "1 + 2 * 3 - 4 / 2", want: "(- (+ 1 (* 2 3)) (/ 4 2))"},
		{src: "8 / 2 * 3", want: "(* (/ 8 2) 3)"},
		{src: "1 - 2 + 3 * 4 * 5 - 6", want: "(- (+ (- 1 2) (* (* 3 4) 5)) 6)"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			expr, err := parseExpr(tt.src)
			require.NoError(t, err)
			require.Equal(t, tt.want, sexpr(expr))
		})
	}
}

func TestPrecedenceTable(t *testing.T) {
	require.Equal(t, 10, parser.Precedence(lexer.KindPlus))
	require.Equal(t, 10, parser.Precedence(lexer.KindMinus))
	require.Equal(t, 20, parser.Precedence(lexer.KindStar))
	require.Equal(t, 20, parser.Precedence(lexer.KindSlash))
	require.Equal(t, 0, parser.Precedence(lexer.KindEOF))
	require.Equal(t, 0, parser.Precedence(lexer.KindIntLit))
}

func TestParseProgram(t *testing.T) {
	src := []byte("print 1+2;\nprint 3*4;")
	prog, err := parser.NewParser(lexer.NewScanner(src)).ParseProgram()
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 2)

	first := prog.Stmts[0].(*ast.PrintStmt)
	require.Equal(t, "(+ 1 2)", sexpr(first.Expr))
	require.Equal(t, 1, first.Pos().Line)

	second := prog.Stmts[1].(*ast.PrintStmt)
	require.Equal(t, "(* 3 4)", sexpr(second.Expr))
	require.Equal(t, 2, second.Pos().Line)
}

func TestParseEmptyInput(t *testing.T) {
	for _, g := range []parser.Grammar{parser.GrammarAuto, parser.GrammarStmt} {
		prog, err := parser.NewParser(lexer.NewScanner(nil)).Parse(g)
		require.NoError(t, err)
		require.Empty(t, prog.Stmts)
	}
}

func TestParseGrammarSelection(t *testing.T) {
	prog, err := parser.NewParser(lexer.NewScanner([]byte("2 + 3"))).Parse(parser.GrammarAuto)
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)
	require.Equal(t, "(+ 2 3)", sexpr(prog.Stmts[0].(*ast.PrintStmt).Expr))

	prog, err = parser.NewParser(lexer.NewScanner([]byte("print 5;"))).Parse(parser.GrammarAuto)
	require.NoError(t, err)
	require.Len(t, prog.Stmts, 1)

	_, err = parser.NewParser(lexer.NewScanner([]byte("print 5;"))).Parse(parser.GrammarExpr)
	require.True(t, diag.IsSyntax(err))

	_, err = parser.NewParser(lexer.NewScanner([]byte("5"))).Parse(parser.GrammarStmt)
	require.True(t, diag.IsSyntax(err))
	require.EqualError(t, err, "print expected on line 1: found intlit 5")

	g, ok := parser.ParseGrammar("stmt")
	require.True(t, ok)
	require.Equal(t, parser.GrammarStmt, g)
	require.Equal(t, "stmt", g.String())
	_, ok = parser.ParseGrammar("lisp")
	require.False(t, ok)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		grammar parser.Grammar
		line    int
		msg     string
	}{
		{
			name:    "Missing right operand",
			src:     "1 +",
			grammar: parser.GrammarExpr,
			line:    1,
			msg:     "integer literal expected on line 1: found EOF",
		},
		{
			name:    "Two literals in a row",
			src:     "1 2",
			grammar: parser.GrammarExpr,
			line:    1,
			msg:     "operator expected on line 1: found intlit 2",
		},
		{
			name:    "Leading operator",
			src:     "* 3",
			grammar: parser.GrammarExpr,
			line:    1,
			msg:     "integer literal expected on line 1: found *",
		},
		{
			name:    "Missing semicolon",
			src:     "print 1 + 2",
			grammar: parser.GrammarStmt,
			line:    1,
			msg:     "; expected on line 1: found EOF",
		},
		{
			name:    "Missing semicolon before next print",
			src:     "print 1\nprint 2;",
			grammar: parser.GrammarStmt,
			line:    2,
			msg:     "operator expected on line 2: found print",
		},
		{
			name:    "Trailing semicolon in expression mode",
			src:     "1 + 2;",
			grammar: parser.GrammarExpr,
			line:    1,
			msg:     "end of input expected on line 1: found ;",
		},
		{
			name:    "Missing expression",
			src:     "print ;",
			grammar: parser.GrammarStmt,
			line:    1,
			msg:     "integer literal expected on line 1: found ;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.NewParser(lexer.NewScanner([]byte(tt.src))).Parse(tt.grammar)
			require.Error(t, err)
			require.True(t, diag.IsSyntax(err))
			require.Equal(t, tt.line, diag.Line(err))
			require.EqualError(t, err, tt.msg)
		})
	}
}

func TestParseLexicalErrorPropagates(t *testing.T) {
	_, err := parseExpr("$")
	require.True(t, diag.IsLexical(err))
	require.Equal(t, 1, diag.Line(err))

	_, err = parseExpr("1 + @")
	require.True(t, diag.IsLexical(err))
}
