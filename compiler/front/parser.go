package front

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/slowlang/shade/compiler/ir"
	"github.com/slowlang/shade/compiler/lex"
)

type (
	expect struct {
		kind lex.Kind
		msg  string
	}
)

// match scans one word per expectation.
// On the first failure it records an error and returns ok == false.
// Nothing after a broken word can be scanned, so in that case i is len(src).
func (b *Builder) match(src string, st int, want ...expect) (ws []lex.Word, i int, ok bool) {
	i = st
	ws = make([]lex.Word, 0, len(want))

	for _, x := range want {
		var w lex.Word
		var err error

		w, i, err = lex.NextWord(src, i)
		if err != nil {
			b.scanError(src, err)
			return nil, len(src), false
		}

		if w.Kind() != x.kind {
			b.addError(src, w.Pos, x.msg)
			return nil, i, false
		}

		ws = append(ws, w)
	}

	return ws, i, true
}

func (b *Builder) parseStruct(ctx context.Context, src string, st int) int {
	ws, i, ok := b.match(src, st,
		expect{lex.Name, "Expected name of struct"},
		expect{lex.Brace, "Expected struct body"},
	)
	if !ok {
		return i
	}

	name, body := ws[0], ws[1]

	if !body.Opens('{') {
		b.addError(src, body.Pos, "Expected struct body")
		return i
	}

	s := &ir.Struct{
		Members: make(map[string]ir.Member),
	}

	c, off := lex.Contents(body.Text)
	n := len(b.Errors)

	b.parseMembers(c, s)
	b.rebase(n, src, body.Pos+off)

	b.Structs[name.Text] = s
	b.AddType(name.Text)

	tlog.SpanFromContext(ctx).Printw("struct", "name", name.Text, "members", len(s.Members))

	return i
}

func (b *Builder) parseMembers(src string, s *ir.Struct) {
	for i := 0; ; {
		w, _, err := lex.NextWord(src, i)
		if err != nil {
			b.scanError(src, err)
			return
		}

		if w.Text == "" {
			return
		}

		ws, end, ok := b.match(src, i,
			expect{lex.Name, "Expected member type"},
			expect{lex.Name, "Expected member name after type"},
		)
		if !ok {
			return
		}

		typ, name := ws[0], ws[1]

		if _, dup := s.Members[name.Text]; dup {
			b.errorf(src, name.Pos, "Member %q redeclared", name.Text)
		} else {
			s.Members[name.Text] = ir.Member{Type: typ.Text}
		}

		i = end

		w, end, err = lex.NextWord(src, i)
		if err == nil && w.Text == "," {
			i = end
		}
	}
}

func (b *Builder) parseBuffer(ctx context.Context, src string, st int) int {
	ws, i, ok := b.match(src, st,
		expect{lex.Name, "Expected a type name after `buffer`"},
		expect{lex.Name, "Expected buffer name after type"},
	)
	if !ok {
		return i
	}

	loc := b.file().base + ws[0].Pos

	b.Buffers[loc] = ir.Buffer{
		Name: ws[1].Text,
		Type: ws[0].Text,
	}

	tlog.SpanFromContext(ctx).Printw("buffer", "name", ws[1].Text, "type", ws[0].Text, "loc", loc)

	return i
}

func (b *Builder) parseParameter(ctx context.Context, src string, st int) int {
	ws, i, ok := b.match(src, st,
		expect{lex.Name, "Expected a type after `parameter`"},
		expect{lex.Name, "Expected parameter name after type"},
	)
	if !ok {
		return i
	}

	b.Parameters[ws[1].Text] = ir.Parameter{Type: ws[0].Text}

	tlog.SpanFromContext(ctx).Printw("parameter", "name", ws[1].Text, "type", ws[0].Text)

	return i
}

func (b *Builder) parseTexture(ctx context.Context, src string, st int) int {
	ws, i, ok := b.match(src, st,
		expect{lex.Brace, "Expected dimension and location specifiers after `texture`"},
		expect{lex.Name, "Expected texture name"},
	)
	if !ok {
		return i
	}

	specs, off := lex.Contents(ws[0].Text)
	n := len(b.Errors)

	sw, _, ok := b.match(specs, 0,
		expect{lex.NumberedName, "Expected dimensions (2D/3D)"},
	)

	b.rebase(n, src, ws[0].Pos+off)

	if !ok {
		return i
	}

	dims := 2
	if sw[0].Text == "3D" {
		dims = 3
	}

	b.Textures[ws[1].Text] = ir.Texture{Dimensions: dims}

	tlog.SpanFromContext(ctx).Printw("texture", "name", ws[1].Text, "dims", dims)

	return i
}

func (b *Builder) parseFunc(ctx context.Context, src string, st int) int {
	ws, i, ok := b.match(src, st,
		expect{lex.Name, "Expected return type after `func`"},
		expect{lex.Name, "Expected function name after return type"},
		expect{lex.Brace, "Expected function parameters after function name"},
		expect{lex.Brace, "Expected function body after the parameters"},
	)
	if !ok {
		return i
	}

	params, body := ws[2], ws[3]

	switch {
	case !params.Opens('('):
		b.addError(src, params.Pos, "Expected function parameters after function name")
		return i
	case !body.Opens('{'):
		b.addError(src, body.Pos, "Expected function body after the parameters")
		return i
	}

	f := &ir.Func{
		Name:   ws[1].Text,
		Return: ws[0].Text,
	}

	c, off := lex.Contents(params.Text)
	n := len(b.Errors)

	ok = b.parseParams(c, f)
	b.rebase(n, src, params.Pos+off)

	if !ok {
		return i
	}

	c, off = lex.Contents(body.Text)
	n = len(b.Errors)

	f.Lines = b.buildBody(ctx, f.Name, c)
	b.rebase(n, src, body.Pos+off)

	b.Funcs[f.Name] = f

	tlog.SpanFromContext(ctx).Printw("func", "name", f.Name, "ret", f.Return, "params", len(f.Params), "lines", len(f.Lines))

	return i
}

func (b *Builder) parseParams(src string, f *ir.Func) bool {
	if src == "" {
		return true
	}

	for i := 0; ; {
		ws, end, ok := b.match(src, i,
			expect{lex.Name, "Expected parameter type"},
			expect{lex.Name, "Expected parameter name after type"},
		)
		if !ok {
			return false
		}

		f.Params = append(f.Params, ir.Param{
			Name: ws[1].Text,
			Type: ws[0].Text,
		})

		// anything but a comma ends the list
		w, end, err := lex.NextWord(src, end)
		if err != nil {
			b.scanError(src, err)
			return false
		}

		switch w.Text {
		case "":
			return true
		case ",":
			i = end
		default:
			return true
		}
	}
}
