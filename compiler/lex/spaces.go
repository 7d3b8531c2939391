package lex

type (
	Spaces uint64
)

var Whitespace = NewSpaces(' ', '\t', '\n', '\r', '\f', '\v')

func NewSpaces(skip ...byte) (ss Spaces) {
	for _, q := range skip {
		if q >= 64 {
			panic("too high char code")
		}

		ss |= 1 << q
	}

	return
}

func (s Spaces) Is(c byte) bool {
	return c < 64 && s&(1<<c) != 0
}

func (s Spaces) Skip(b string, st int) (i int) {
	i = st

	for i < len(b) && s.Is(b[i]) {
		i++
	}

	return
}

// SkipBack returns the smallest j <= end such that b[j:end] is all spaces.
func (s Spaces) SkipBack(b string, end int) (j int) {
	j = end

	for j > 0 && s.Is(b[j-1]) {
		j--
	}

	return
}
