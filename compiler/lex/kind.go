package lex

type (
	Kind int
)

const (
	None Kind = iota
	Number
	Name
	NumberedName
	Brace
	String
	Symbol
)

var kindNames = []string{
	None:         "None",
	Number:       "Number",
	Name:         "Name",
	NumberedName: "NumberedName",
	Brace:        "Brace",
	String:       "String",
	Symbol:       "Symbol",
}

// Classify returns the syntactic category of a single word.
// None means w is not one valid word.
func Classify(w string) Kind {
	if w == "" {
		return None
	}

	first, last := w[0], w[len(w)-1]

	if len(w) >= 2 && closer(first) != 0 && closer(first) == last {
		return Brace
	}

	if len(w) >= 2 && first == '"' && last == '"' {
		return String
	}

	switch {
	case isAlpha(first) || first == '_':
		if skipIdent(w, 1) == len(w) {
			return Name
		}
	case isDigit(first):
		end, alpha, point := skipNumber(w, 0)
		if end != len(w) {
			return None
		}

		if !alpha || point {
			return Number
		}

		return NumberedName
	case isSymbol(first):
		if len(w) == 1 || len(w) == 2 && isSymbol(last) {
			return Symbol
		}
	}

	return None
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(?)"
	}

	return kindNames[k]
}
