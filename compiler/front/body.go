package front

import (
	"context"

	"github.com/slowlang/shade/compiler/ir"
	"github.com/slowlang/shade/compiler/lex"
)

type (
	splitter struct {
		decl bool // after var
		cond bool // after if or while
	}
)

// buildBody splits body into statements and parses them.
// Statements which fail to parse are recorded as errors and skipped.
func (b *Builder) buildBody(ctx context.Context, name, body string) (lines []ir.Line) {
	cur, i, err := lex.NextWord(body, 0)

	for err == nil && cur.Text != "" {
		var s splitter

		st := cur.Pos
		var end int

		for {
			var next lex.Word

			next, i, err = lex.NextWord(body, i)
			if err != nil || !s.continues(cur, next) {
				end = cur.End()
				cur = next

				break
			}

			cur = next
		}

		text := body[st:end]
		n := len(b.Errors)

		l, lerr := b.parseStatement(ctx, name, text)
		if lerr != nil {
			b.scanError(text, lerr)
		} else {
			lines = append(lines, l)
		}

		b.rebase(n, body, st)
	}

	if err != nil {
		b.scanError(body, err)
	}

	return lines
}

func (b *Builder) parseStatement(ctx context.Context, name, text string) (ir.Line, error) {
	w, i, err := lex.Next(text, 0)
	if err != nil || w != "return" {
		return b.parseLine(ctx, name, text)
	}

	ops, err := b.parseExpr(text[i:], i)
	if err != nil {
		return nil, err
	}

	return ir.Stmt{Ops: append(ops, ir.Return{})}, nil
}

// continues reports whether next belongs to the same statement as w.
func (s *splitter) continues(w, next lex.Word) bool {
	if next.Text == "" {
		return false
	}

	nk := next.Kind()

	switch w.Kind() {
	case lex.Name, lex.Number, lex.NumberedName, lex.String:
		more := nk == lex.Symbol || nk == lex.Brace || s.decl || s.cond

		switch w.Text {
		case "return", "var", "if", "while":
			more = true
		}

		s.decl = w.Text == "var"
		s.cond = w.Text == "if" || w.Text == "while"

		return more
	case lex.Brace:
		switch nk {
		case lex.Brace:
			return next.Opens('[') || w.Text[len(w.Text)-1] == ')' && next.Opens('{')
		case lex.Symbol:
			return true
		}

		return false
	case lex.Symbol:
		return nk != lex.Brace || next.Opens('(')
	}

	return true
}
