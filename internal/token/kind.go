package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Comment represents a line (//) or block (/* */) comment.
	Comment

	// Ident represents an identifier token.
	Ident
	// KwFn represents the 'fn' keyword.
	KwFn // fn
	// KwInt represents the 'int' keyword.
	KwInt // int
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwWhile represents the 'while' keyword.
	KwWhile // while
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwFloat represents the 'float' keyword.
	KwFloat // float
	// KwBool represents the 'bool' keyword.
	KwBool // bool
	// KwVoid represents the 'void' keyword.
	KwVoid // void
	// KwStruct represents the 'struct' keyword.
	KwStruct // struct

	// IntLit represents an unsigned integer literal; Token.Value holds the value.
	IntLit
	// FloatLit represents a float literal.
	FloatLit
	// StringLit represents a string literal, quotes included in Text.
	StringLit
	// BoolLit represents 'true' or 'false'.
	BoolLit

	Plus        // +
	Minus       // -
	Star        // *
	Slash       // /
	Percent     // %
	Assign      // =
	PlusAssign  // +=
	MinusAssign // -=
	StarAssign  // *=
	SlashAssign // /=
	EqEq        // ==
	Bang        // !
	BangEq      // !=
	Lt          // <
	LtEq        // <=
	Gt          // >
	GtEq        // >=
	AndAnd      // &&
	OrOr        // ||

	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	Semicolon // ;
	Comma     // ,
	Colon     // :

	kindCount
)

var kindNames = [kindCount]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Comment:     "Comment",
	Ident:       "Ident",
	KwFn:        "KwFn",
	KwInt:       "KwInt",
	KwReturn:    "KwReturn",
	KwIf:        "KwIf",
	KwElse:      "KwElse",
	KwWhile:     "KwWhile",
	KwFor:       "KwFor",
	KwFloat:     "KwFloat",
	KwBool:      "KwBool",
	KwVoid:      "KwVoid",
	KwStruct:    "KwStruct",
	IntLit:      "IntLit",
	FloatLit:    "FloatLit",
	StringLit:   "StringLit",
	BoolLit:     "BoolLit",
	Plus:        "Plus",
	Minus:       "Minus",
	Star:        "Star",
	Slash:       "Slash",
	Percent:     "Percent",
	Assign:      "Assign",
	PlusAssign:  "PlusAssign",
	MinusAssign: "MinusAssign",
	StarAssign:  "StarAssign",
	SlashAssign: "SlashAssign",
	EqEq:        "EqEq",
	Bang:        "Bang",
	BangEq:      "BangEq",
	Lt:          "Lt",
	LtEq:        "LtEq",
	Gt:          "Gt",
	GtEq:        "GtEq",
	AndAnd:      "AndAnd",
	OrOr:        "OrOr",
	LParen:      "LParen",
	RParen:      "RParen",
	LBrace:      "LBrace",
	RBrace:      "RBrace",
	LBracket:    "LBracket",
	RBracket:    "RBracket",
	Semicolon:   "Semicolon",
	Comma:       "Comma",
	Colon:       "Colon",
}

var kindSymbols = map[Kind]string{
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	Assign: "=", PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=", SlashAssign: "/=",
	EqEq: "==", Bang: "!", BangEq: "!=",
	Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=",
	AndAnd: "&&", OrOr: "||",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	Semicolon: ";", Comma: ",", Colon: ":",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Symbol returns the fixed source text of punctuation, operator and keyword kinds,
// and a descriptive placeholder for the rest. Used in "expected X" messages.
func (k Kind) Symbol() string {
	if s, ok := kindSymbols[k]; ok {
		return s
	}
	if kw, ok := keywordText[k]; ok {
		return kw
	}
	switch k {
	case Ident:
		return "identifier"
	case IntLit:
		return "integer literal"
	case FloatLit:
		return "float literal"
	case StringLit:
		return "string literal"
	case BoolLit:
		return "boolean literal"
	case Comment:
		return "comment"
	case EOF:
		return "end of file"
	default:
		return "invalid token"
	}
}

// Kinds returns every defined kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}
