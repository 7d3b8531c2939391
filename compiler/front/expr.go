package front

import (
	"context"
	"fmt"

	"github.com/slowlang/shade/compiler/ir"
	"github.com/slowlang/shade/compiler/lex"
)

// precedence lists binary operators from the lowest priority.
// Indexing binds tighter than all of them.
var precedence = [][]string{
	{","},
	{"="},
	{"==", "!=", "+=", "-=", "<=", ">=", "<", ">"},
	{"+", "-"},
	{"*", "/"},
	{"."},
}

// parseLine parses one statement.
// Error positions are relative to text.
func (b *Builder) parseLine(ctx context.Context, name, text string) (ir.Line, error) {
	ws, err := tokenize(text, 0)
	if err != nil {
		return nil, err
	}

	if len(ws) == 0 {
		return ir.Stmt{}, nil
	}

	first := ws[0]

	switch first.Kind() {
	case lex.Name, lex.NumberedName:
	case lex.Number, lex.String:
		if len(ws) == 1 {
			return ir.Stmt{Ops: ir.Ops{ir.Operand(first.Text)}}, nil
		}

		fallthrough
	default:
		return nil, errorAt(first.Pos, "Unexpected token at beginning of line")
	}

	var ops ir.Ops

	switch first.Text {
	case "if", "while":
		return b.parseBranch(ctx, name, text, ws)
	case "var":
		ops, err = b.parseVar(ws)
	default:
		ops, err = b.parseWordList(ws)
	}

	if err != nil {
		return nil, err
	}

	return ir.Stmt{Ops: ops}, nil
}

func (b *Builder) parseBranch(ctx context.Context, name, text string, ws []lex.Word) (ir.Line, error) {
	kw := ws[0]

	if len(ws) != 3 || !ws[1].Opens('(') || !ws[2].Opens('{') {
		return nil, errorAt(kw.Pos, "Expected condition and body after `%s`", kw.Text)
	}

	flow := ir.If
	if kw.Text == "while" {
		flow = ir.While
	}

	cond, argc, err := b.parseInner(ws[1])
	if err != nil {
		return nil, err
	}

	if argc != 1 {
		return nil, errorAt(ws[1].Pos, "Expected one condition")
	}

	pname := fmt.Sprintf("%s::%d%s", name, b.count, kw.Text)
	b.count++

	body, off := lex.Contents(ws[2].Text)
	n := len(b.Errors)

	lines := b.buildBody(ctx, pname, body)
	b.rebase(n, text, ws[2].Pos+off)

	b.PseudoFuncs[pname] = &ir.Func{
		Name:  pname,
		Lines: lines,
	}

	return ir.Branch{
		Flow: flow,
		Func: pname,
		Cond: cond,
	}, nil
}

// parseVar parses var <type> <name> [= <value>].
func (b *Builder) parseVar(ws []lex.Word) (ir.Ops, error) {
	if len(ws) < 3 || ws[1].Kind() != lex.Name || ws[2].Kind() != lex.Name {
		return nil, errorAt(ws[0].Pos, "Expected variable type and name after `var`")
	}

	d := ir.VarDecl{
		Type: ws[1].Text,
		Name: ws[2].Text,
	}

	if len(ws) == 3 {
		return ir.Ops{d}, nil
	}

	if ws[3].Text != "=" {
		return nil, errorAt(ws[3].Pos, "Unknown token after variable declaration. Expected '=' assignment operator")
	}

	if len(ws) == 4 {
		return nil, errorAt(ws[3].Pos, "Expected value after '='")
	}

	ops, err := b.parseWordList(ws[4:])
	if err != nil {
		return nil, err
	}

	d.Init = true

	return append(ops, d), nil
}

// parseExpr parses an expression. Error positions are relative to text.
func (b *Builder) parseExpr(text string, base int) (ir.Ops, error) {
	ws, err := tokenize(text, base)
	if err != nil {
		return nil, err
	}

	return b.parseWordList(ws)
}

func (b *Builder) parseWordList(ws []lex.Word) (ops ir.Ops, err error) {
	switch {
	case len(ws) == 0:
		return nil, nil
	case len(ws) == 1:
		return b.parseWord(ws[0])
	case len(ws) == 2 && ws[1].Opens('('):
		switch ws[0].Kind() {
		case lex.Name, lex.NumberedName:
			ops, argc, err := b.parseInner(ws[1])
			if err != nil {
				return nil, err
			}

			return append(ops, ir.Call{Name: ws[0].Text, Argc: argc}), nil
		}
	}

	for _, level := range precedence {
		r, ok, err := b.splitBy(ws, level)
		if err != nil {
			return nil, err
		}

		if ok {
			return r, nil
		}
	}

	if last := ws[len(ws)-1]; last.Opens('[') {
		ops, err = b.parseWordList(ws[:len(ws)-1])
		if err != nil {
			return nil, err
		}

		idx, argc, err := b.parseInner(last)
		if err != nil {
			return nil, err
		}

		if argc != 1 {
			return nil, errorAt(last.Pos, "Expected one index")
		}

		ops = append(ops, idx...)

		return append(ops, ir.BinaryOp("[]")), nil
	}

	return nil, errorAt(ws[1].Pos, "Expected some operator")
}

// splitBy splits ws by every operator of one priority level.
// Operands are emitted in order, each operator after its right operand.
// Commas only separate.
func (b *Builder) splitBy(ws []lex.Word, level []string) (ops ir.Ops, ok bool, err error) {
	comma := level[0] == ","

	var op string
	last := 0

	emit := func(operand []lex.Word) error {
		sub, err := b.parseWordList(operand)
		if err != nil {
			return err
		}

		ops = append(ops, sub...)

		if op != "" && !comma {
			ops = append(ops, ir.BinaryOp(op))
		}

		return nil
	}

	for j, w := range ws {
		if w.Kind() != lex.Symbol || !contains(level, w.Text) {
			continue
		}

		err = emit(ws[last:j])
		if err != nil {
			return nil, false, err
		}

		op = w.Text
		last = j + 1
	}

	if op == "" {
		return nil, false, nil
	}

	err = emit(ws[last:])
	if err != nil {
		return nil, false, err
	}

	return ops, true, nil
}

func (b *Builder) parseWord(w lex.Word) (ir.Ops, error) {
	switch w.Kind() {
	case lex.Name, lex.NumberedName, lex.Number, lex.String:
		return ir.Ops{ir.Operand(w.Text)}, nil
	}

	if w.Opens('(') {
		ops, argc, err := b.parseInner(w)
		if err != nil {
			return nil, err
		}

		return append(ops, ir.Group{Argc: argc}), nil
	}

	return nil, errorAt(w.Pos, "Unexpected token %q", w.Text)
}

// parseInner parses the comma separated list inside the brace word w.
func (b *Builder) parseInner(w lex.Word) (ops ir.Ops, argc int, err error) {
	c, off := lex.Contents(w.Text)

	ws, err := tokenize(c, w.Pos+off)
	if err != nil {
		return nil, 0, err
	}

	if len(ws) == 0 {
		return nil, 0, nil
	}

	argc = 1

	for _, x := range ws {
		if x.Text == "," {
			argc++
		}
	}

	ops, err = b.parseWordList(ws)
	if err != nil {
		return nil, 0, err
	}

	return ops, argc, nil
}

// tokenize splits text into words adding base to their positions.
func tokenize(text string, base int) ([]lex.Word, error) {
	ws, err := lex.Words(text)
	if err != nil {
		if e, ok := err.(*lex.Error); ok {
			return nil, errorAt(base+e.Pos, "%s", e.Msg)
		}

		return nil, err
	}

	for i := range ws {
		ws[i].Pos += base
	}

	return ws, nil
}

func contains(l []string, s string) bool {
	for _, x := range l {
		if x == s {
			return true
		}
	}

	return false
}
