package front

import (
	"fmt"
	"strings"

	"nikand.dev/go/heap"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"
	"tlog.app/go/tlog/tlwire"

	"github.com/slowlang/shade/compiler/lex"
)

type (
	// SourceError is a lexical or structural error. Line and Column are 0-based.
	SourceError struct {
		Pos    int
		Line   int
		Column int
		Msg    string

		// File is Builder.Name or the include path of the source.
		File string

		from loc.PC
	}

	ErrorList []*SourceError

	// lineError is a failure to parse one statement. Pos is relative to the statement text.
	lineError struct {
		Pos int
		Msg string
	}
)

func (b *Builder) addError(src string, pos int, msg string) {
	e := &SourceError{
		Pos:  pos,
		Msg:  msg,
		File: b.file().name,
		from: loc.Caller(1),
	}

	e.Line, e.Column = position(src, pos)

	b.Errors = append(b.Errors, e)

	tlog.V("front_errors").Printw("source error", "file", e.File, "err", e, "from", e.from)
}

func (b *Builder) errorf(src string, pos int, f string, args ...any) {
	b.addError(src, pos, fmt.Sprintf(f, args...))
}

func (b *Builder) scanError(src string, err error) {
	pos := len(src)

	switch e := err.(type) {
	case *lex.Error:
		pos = e.Pos
	case *lineError:
		pos = e.Pos
	}

	b.addError(src, pos, err.Error())
}

// rebase moves errors recorded since the from-th one
// from coordinates of a text embedded into src at off to coordinates of src.
func (b *Builder) rebase(from int, src string, off int) {
	for _, e := range b.Errors[from:] {
		e.Pos += off
		e.Line, e.Column = position(src, e.Pos)
	}
}

func position(src string, pos int) (line, col int) {
	if pos > len(src) {
		pos = len(src)
	}

	for i := 0; i < pos; i++ {
		col++

		if src[i] == '\n' {
			line++
			col = 0
		}
	}

	return
}

func (e *SourceError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line+1, e.Column+1, e.Msg)
	}

	return fmt.Sprintf("%d:%d: %s", e.Line+1, e.Column+1, e.Msg)
}

// Context renders the error with the failing line of src and a caret under the column.
func (e *SourceError) Context(src string) string {
	lines := strings.Split(src, "\n")
	if e.Line >= len(lines) {
		return e.Error() + "\n"
	}

	line := lines[e.Line]
	col := e.Column
	if col > len(line) {
		col = len(line)
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "%v\n", e)
	fmt.Fprintf(&sb, "%4d| %s\n", e.Line+1, line)
	fmt.Fprintf(&sb, "    | %s^\n", strings.Repeat(" ", col))

	return sb.String()
}

func (e *SourceError) TlogAppend(b []byte) []byte {
	var w tlwire.Encoder

	b = w.AppendMap(b, 4)

	b = w.AppendKeyInt(b, "line", e.Line)
	b = w.AppendKeyInt(b, "col", e.Column)
	b = w.AppendKeyInt(b, "pos", e.Pos)

	b = w.AppendString(b, "msg")
	b = w.AppendString(b, e.Msg)

	return b
}

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}

	return fmt.Sprintf("%v (and %d more errors)", l[0], len(l)-1)
}

// Sorted returns the errors ordered by file and position.
func (l ErrorList) Sorted() ErrorList {
	h := heap.Heap[*SourceError]{Less: errorsLess}

	for _, e := range l {
		h.Push(e)
	}

	r := make(ErrorList, 0, len(l))

	for h.Len() != 0 {
		r = append(r, h.Pop())
	}

	return r
}

func errorsLess(d []*SourceError, i, j int) bool {
	if d[i].File != d[j].File {
		return d[i].File < d[j].File
	}

	return d[i].Pos < d[j].Pos
}

func errorAt(pos int, f string, args ...any) *lineError {
	return &lineError{Pos: pos, Msg: fmt.Sprintf(f, args...)}
}

func (e *lineError) Error() string {
	return e.Msg
}
