package parser

import (
	"github.com/skeetcha/multi-c-compiler/pkg/compiler/ast"
	"github.com/skeetcha/multi-c-compiler/pkg/compiler/diag"
	"github.com/skeetcha/multi-c-compiler/pkg/compiler/lexer"
)

// Grammar selects which top-level form the parser accepts.
type Grammar uint8

const (
	// GrammarAuto picks statements when the input starts with `print` or is
	// empty, and a bare expression otherwise.
	GrammarAuto Grammar = iota
	// GrammarExpr accepts one expression terminated by end of input.
	GrammarExpr
	// GrammarStmt accepts zero or more `print EXPR ;` statements.
	GrammarStmt
)

var grammarNames = map[string]Grammar{
	"auto": GrammarAuto,
	"expr": GrammarExpr,
	"stmt": GrammarStmt,
}

// ParseGrammar resolves a grammar name from configuration.
func ParseGrammar(name string) (Grammar, bool) {
	g, ok := grammarNames[name]
	return g, ok
}

func (g Grammar) String() string {
	for name, v := range grammarNames {
		if v == g {
			return name
		}
	}
	return "unknown"
}

// Precedence returns the binding strength of an operator token. Tokens that
// are not binary operators bind with strength 0.
func Precedence(k lexer.Kind) int {
	switch k {
	case lexer.KindPlus, lexer.KindMinus:
		return 10
	case lexer.KindStar, lexer.KindSlash:
		return 20
	}
	return 0
}

type Parser struct {
	scanner *lexer.Scanner
	curTok  lexer.Token
}

func NewParser(s *lexer.Scanner) *Parser {
	return &Parser{scanner: s}
}

// Parse reads the whole input in the requested grammar. A bare expression is
// returned as a program holding one implicit print statement.
func (p *Parser) Parse(g Grammar) (*ast.Program, error) {
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	if g == GrammarAuto {
		g = GrammarExpr
		if p.curTok.Kind == lexer.KindPrint || p.curTok.Kind == lexer.KindEOF {
			g = GrammarStmt
		}
	}

	if g == GrammarStmt {
		return p.statements()
	}

	tok := p.curTok
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.Program{Stmts: []ast.Statement{&ast.PrintStmt{Token: tok, Expr: expr}}}, nil
}

// ParseExpr parses a single expression terminated by end of input.
func (p *Parser) ParseExpr() (ast.Expr, error) {
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	return p.expression()
}

// ParseProgram parses `print EXPR ;` statements until end of input.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	return p.statements()
}

func (p *Parser) nextToken() error {
	_, err := p.scanner.Scan()
	if err != nil {
		return err
	}
	p.curTok = p.scanner.Token()
	return nil
}

func (p *Parser) expression() (ast.Expr, error) {
	expr, err := p.binexpr(0)
	if err != nil {
		return nil, err
	}
	if p.curTok.Kind != lexer.KindEOF {
		return nil, diag.Syntax(p.curTok.Line, p.curTok.String(), "end of input expected")
	}
	return expr, nil
}

func (p *Parser) statements() (*ast.Program, error) {
	program := &ast.Program{}

	for p.curTok.Kind != lexer.KindEOF {
		stmt, err := p.printStatement()
		if err != nil {
			return nil, err
		}
		program.Stmts = append(program.Stmts, stmt)
	}

	return program, nil
}

func (p *Parser) printStatement() (*ast.PrintStmt, error) {
	tok := p.curTok
	if err := p.match(lexer.KindPrint); err != nil {
		return nil, err
	}

	expr, err := p.binexpr(0)
	if err != nil {
		return nil, err
	}

	if err := p.match(lexer.KindSemi); err != nil {
		return nil, err
	}
	return &ast.PrintStmt{Token: tok, Expr: expr}, nil
}

// match consumes the current token if it is of the given kind.
func (p *Parser) match(k lexer.Kind) error {
	if p.curTok.Kind != k {
		return diag.Syntax(p.curTok.Line, p.curTok.String(), "%s expected", k)
	}
	return p.nextToken()
}

// binexpr parses an expression whose operators bind tighter than ptp.
// Equal-precedence operators are folded in this loop, which keeps them
// left-associative.
func (p *Parser) binexpr(ptp int) (ast.Expr, error) {
	left, err := p.primary()
	if err != nil {
		return nil, err
	}

	tok := p.curTok
	if tok.Kind == lexer.KindEOF || tok.Kind == lexer.KindSemi {
		return left, nil
	}

	for {
		prec, err := p.operatorPrecedence(tok)
		if err != nil {
			return nil, err
		}
		if prec <= ptp {
			return left, nil
		}

		if err := p.nextToken(); err != nil {
			return nil, err
		}
		right, err := p.binexpr(prec)
		if err != nil {
			return nil, err
		}

		op, _ := ast.OpFor(tok.Kind)
		left = &ast.BinaryExpr{Token: tok, Op: op, Left: left, Right: right}

		tok = p.curTok
		if tok.Kind == lexer.KindEOF || tok.Kind == lexer.KindSemi {
			return left, nil
		}
	}
}

func (p *Parser) operatorPrecedence(tok lexer.Token) (int, error) {
	prec := Precedence(tok.Kind)
	if prec == 0 {
		return 0, diag.Syntax(tok.Line, tok.String(), "operator expected")
	}
	return prec, nil
}

func (p *Parser) primary() (ast.Expr, error) {
	tok := p.curTok
	if tok.Kind != lexer.KindIntLit {
		return nil, diag.Syntax(tok.Line, tok.String(), "integer literal expected")
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	return &ast.IntLiteral{Token: tok, Value: tok.Value}, nil
}
