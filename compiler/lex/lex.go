package lex

import (
	"fmt"
	"strings"
)

type (
	Word struct {
		Pos  int
		Text string
	}

	// Error is a scan failure. The scanner returns it with the cursor left where the call started.
	Error struct {
		Pos int
		Msg string
	}
)

// Next extracts the word following st.
// Comments are skipped. Empty w and i == len(b) means the input is exhausted.
func Next(b string, st int) (w string, i int, err error) {
	i = Whitespace.Skip(b, st)
	if i >= len(b) {
		return "", len(b), nil
	}

	ws := i
	c := b[i]

	switch {
	case isAlpha(c) || c == '_':
		i = skipIdent(b, i+1)

		return b[ws:i], i, nil
	case isDigit(c):
		i, _, _ = skipNumber(b, i)

		return b[ws:i], i, nil
	}

	switch c {
	case '(', '[', '{':
		i, err = skipGroup(b, i)
	case '"':
		i, err = skipString(b, i)
	case '/':
		if i+1 < len(b) && (b[i+1] == '/' || b[i+1] == '*') {
			i, err = skipComment(b, i)
			if err != nil {
				return "", st, err
			}

			w, i, err = Next(b, i)
			if err != nil {
				return "", st, err
			}

			return w, i, nil
		}

		i = skipSymbol(b, i)
	default:
		if !isSymbol(c) {
			return "", st, &Error{Pos: ws, Msg: fmt.Sprintf("Broken character found: %#02x", c)}
		}

		i = skipSymbol(b, i)
	}

	if err != nil {
		return "", st, err
	}

	return b[ws:i], i, nil
}

// NextWord is Next returning the word with its position.
func NextWord(b string, st int) (w Word, i int, err error) {
	w.Text, i, err = Next(b, st)
	w.Pos = i - len(w.Text)

	return
}

// Words splits b into words.
func Words(b string) (ws []Word, err error) {
	for i := 0; ; {
		var w Word

		w, i, err = NextWord(b, i)
		if err != nil {
			return ws, err
		}

		if w.Text == "" {
			return ws, nil
		}

		ws = append(ws, w)
	}
}

// Contents returns the text inside the brace word w with surrounding spaces trimmed,
// and the offset of that text inside w.
func Contents(w string) (c string, off int) {
	if len(w) < 2 {
		return "", 0
	}

	st := Whitespace.Skip(w, 1)
	end := Whitespace.SkipBack(w, len(w)-1)

	if st >= end {
		return "", 1
	}

	return w[st:end], st
}

func (w Word) End() int { return w.Pos + len(w.Text) }

func (w Word) Kind() Kind { return Classify(w.Text) }

// Opens reports whether w is a brace group opened by c.
func (w Word) Opens(c byte) bool {
	return len(w.Text) != 0 && w.Text[0] == c && w.Kind() == Brace
}

func (e *Error) Error() string {
	return e.Msg
}

func skipGroup(b string, st int) (i int, err error) {
	open := b[st]
	cl := closer(open)

	d := 1
	i = st + 1

	for d != 0 {
		if i >= len(b) {
			return st, &Error{Pos: st, Msg: fmt.Sprintf("Expected '%c' to close '%c'", cl, open)}
		}

		switch b[i] {
		case open:
			d++
		case cl:
			d--
		}

		i++
	}

	return i, nil
}

func skipString(b string, st int) (i int, err error) {
	for i = st + 1; i < len(b); i++ {
		switch b[i] {
		case '\\':
			i++
		case '"':
			return i + 1, nil
		}
	}

	return st, &Error{Pos: st, Msg: "Expected closing quotes"}
}

func skipComment(b string, st int) (i int, err error) {
	if b[st+1] == '/' {
		return skipLine(b, st), nil
	}

	j := strings.Index(b[st+2:], "*/")
	if j < 0 {
		return st, &Error{Pos: st, Msg: "Expected '*/' to close comment"}
	}

	return st + 2 + j + 2, nil
}

func skipSymbol(b string, i int) int {
	if i+1 < len(b) && b[i+1] == '=' && strings.IndexByte("=!+-<>", b[i]) >= 0 {
		return i + 2
	}

	return i + 1
}

func skipIdent(b string, i int) int {
	for i < len(b) && (isAlnum(b[i]) || b[i] == '_') {
		i++
	}

	return i
}

func skipLine(b string, i int) int {
	for i < len(b) && b[i] != '\n' {
		i++
	}

	return i
}

// skipNumber scans a numeric literal starting at the digit b[st].
// At most one point is accepted and only before any letter.
// An 'f' after the point ends the literal.
func skipNumber(b string, st int) (i int, alpha, point bool) {
	for i = st + 1; i < len(b); i++ {
		c := b[i]

		switch {
		case c == '.' && !alpha && !point:
			point = true
		case c == 'f' && point:
			return i + 1, alpha, point
		case isAlpha(c):
			alpha = true
		case isDigit(c):
		default:
			return i, alpha, point
		}
	}

	return i, alpha, point
}

func closer(c byte) byte {
	switch c {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	case '<':
		return '>'
	}

	return 0
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlnum(c byte) bool {
	return isAlpha(c) || isDigit(c)
}

func isSymbol(c byte) bool {
	return c > ' ' && c < 0x7f && !isAlnum(c)
}
