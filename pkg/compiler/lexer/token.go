package lexer

import "strconv"

// Kind represents the type of token identified by the scanner.
type Kind uint8

const (
	KindEOF Kind = iota
	KindPlus
	KindMinus
	KindStar
	KindSlash
	KindIntLit
	KindSemi
	KindPrint // print
)

var kindNames = [...]string{
	KindEOF:    "EOF",
	KindPlus:   "+",
	KindMinus:  "-",
	KindStar:   "*",
	KindSlash:  "/",
	KindIntLit: "intlit",
	KindSemi:   ";",
	KindPrint:  "print",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Token is one lexical unit. Value is only meaningful for KindIntLit.
type Token struct {
	Kind  Kind
	Value int64
	Line  int
}

func (t Token) String() string {
	if t.Kind == KindIntLit {
		return "intlit " + strconv.FormatInt(t.Value, 10)
	}
	return t.Kind.String()
}

// keywords resolves identifiers to keyword kinds.
var keywords = map[string]Kind{
	"print": KindPrint,
}
