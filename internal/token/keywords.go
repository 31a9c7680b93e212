package token

var keywords = map[string]Kind{
	"fn":     KwFn,
	"int":    KwInt,
	"return": KwReturn,
	"if":     KwIf,
	"else":   KwElse,
	"while":  KwWhile,
	"for":    KwFor,
	"float":  KwFloat,
	"bool":   KwBool,
	"void":   KwVoid,
	"struct": KwStruct,
	"true":   BoolLit,
	"false":  BoolLit,
}

var keywordText = func() map[Kind]string {
	out := make(map[Kind]string, len(keywords))
	for text, k := range keywords {
		if k != BoolLit {
			out[k] = text
		}
	}
	return out
}()

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые — только lowercase версии распознаются.
// true/false возвращают BoolLit.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// Keywords returns the reserved words in a stable order.
func Keywords() []string {
	return []string{"fn", "int", "return", "if", "else", "while", "for", "float", "bool", "void", "struct", "true", "false"}
}
