package pattern

// Ready-made nodes for common classes. Each call returns a fresh node.

func Digit() *RawNode       { return Raw(`\d`) }
func Digits() *RawNode      { return Raw(`\d+`) }
func MaybeDigits() *RawNode { return Raw(`\d*`) }
func NonDigit() *RawNode    { return Raw(`\D`) }

// Number and friends are aliases of the digit nodes.
func Number() *RawNode       { return Digit() }
func Numbers() *RawNode      { return Digits() }
func MaybeNumbers() *RawNode { return MaybeDigits() }
func NonNumber() *RawNode    { return NonDigit() }

func Word() *RawNode             { return Raw(`\w`) }
func Words() *RawNode            { return Raw(`\w+`) }
func MaybeWords() *RawNode       { return Raw(`\w*`) }
func NonWord() *RawNode          { return Raw(`\W`) }
func Whitespace() *RawNode       { return Raw(`\s`) }
func Whitespaces() *RawNode      { return Raw(`\s+`) }
func MaybeWhitespaces() *RawNode { return Raw(`\s*`) }
func NonWhitespace() *RawNode    { return Raw(`\S`) }
func Space() *RawNode            { return Raw(" ") }
func Spaces() *RawNode           { return Raw(" +") }
func MaybeSpaces() *RawNode      { return Raw(" *") }
func Tab() *RawNode              { return Raw(`\t`) }

// Dot matches a literal full stop; AnyChar is the wildcard.
func Dot() *RawNode { return Raw(`\.`) }

func AnyChar() *RawNode         { return Raw(".") }
func AnyChars() *RawNode        { return Raw(".+") }
func MaybeAnyChars() *RawNode   { return Raw(".*") }
func Letter() *RawNode          { return Raw("[a-zA-Z]") }
func Letters() *RawNode         { return Raw("[a-zA-Z]+") }
func MaybeLetters() *RawNode    { return Raw("[a-zA-Z]*") }
func Lowercase() *RawNode       { return Raw("[a-z]") }
func Lowercases() *RawNode      { return Raw("[a-z]+") }
func MaybeLowercases() *RawNode { return Raw("[a-z]*") }
func Uppercase() *RawNode       { return Raw("[A-Z]") }
func Uppercases() *RawNode      { return Raw("[A-Z]+") }
func MaybeUppercases() *RawNode { return Raw("[A-Z]*") }
func Alnum() *RawNode           { return Raw("[a-zA-Z0-9]") }
func Alnums() *RawNode          { return Raw("[a-zA-Z0-9]+") }
func MaybeAlnums() *RawNode     { return Raw("[a-zA-Z0-9]*") }

var predefined = map[string]func() *RawNode{
	"digit":             Digit,
	"digits":            Digits,
	"maybe_digits":      MaybeDigits,
	"non_digit":         NonDigit,
	"number":            Number,
	"numbers":           Numbers,
	"maybe_numbers":     MaybeNumbers,
	"non_number":        NonNumber,
	"word":              Word,
	"words":             Words,
	"maybe_words":       MaybeWords,
	"non_word":          NonWord,
	"whitespace":        Whitespace,
	"whitespaces":       Whitespaces,
	"maybe_whitespaces": MaybeWhitespaces,
	"non_whitespace":    NonWhitespace,
	"space":             Space,
	"spaces":            Spaces,
	"maybe_spaces":      MaybeSpaces,
	"tab":               Tab,
	"dot":               Dot,
	"any_char":          AnyChar,
	"any_chars":         AnyChars,
	"maybe_any_chars":   MaybeAnyChars,
	"letter":            Letter,
	"letters":           Letters,
	"maybe_letters":     MaybeLetters,
	"lowercase":         Lowercase,
	"lowercases":        Lowercases,
	"maybe_lowercases":  MaybeLowercases,
	"uppercase":         Uppercase,
	"uppercases":        Uppercases,
	"maybe_uppercases":  MaybeUppercases,
	"alnum":             Alnum,
	"alnums":            Alnums,
	"maybe_alnums":      MaybeAlnums,
}

// Predefined looks up a ready-made node by its snake_case name, e.g.
// "maybe_digits".
func Predefined(name string) (Node, bool) {
	f, ok := predefined[name]
	if !ok {
		return nil, false
	}
	return f(), true
}
