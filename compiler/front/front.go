package front

import (
	"context"
	"strconv"

	"tlog.app/go/tlog"

	"github.com/slowlang/shade/compiler/ir"
	"github.com/slowlang/shade/compiler/lex"
)

type (
	// Builder turns shader source into ir.Shader.
	// It is not safe for concurrent use.
	Builder struct {
		*ir.Shader

		Errors ErrorList

		// Name is reported as the file of errors found in the source passed to Build.
		Name string

		// Load returns the text of an included file or "" if it doesn't exist.
		Load LoadFunc

		files []file
		size  int // of all built sources, for unique buffer locations

		count int // pseudo-functions created by this Build
	}

	LoadFunc func(path string) string

	file struct {
		name string
		base int
	}
)

func New() *Builder {
	return &Builder{
		Shader: ir.NewShader(),
	}
}

// Build parses src adding its declarations to b.
// It returns the errors found in src, which are also appended to b.Errors.
func (b *Builder) Build(ctx context.Context, src string) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "front: build", "name", b.Name, "size", len(src))
	defer tr.Finish("err", &err)

	n := len(b.Errors)
	b.count = 0

	b.build(ctx, b.Name, src)

	if tr.If("dump_ir") {
		for name, f := range b.Funcs {
			b.dumpFunc(tr, name, f)
		}

		for name, f := range b.PseudoFuncs {
			b.dumpFunc(tr, name, f)
		}
	}

	if len(b.Errors) == n {
		return nil
	}

	return b.Errors[n:]
}

func (b *Builder) build(ctx context.Context, name, src string) {
	b.files = append(b.files, file{name: name, base: b.size})
	b.size += len(src)

	defer func() {
		b.files = b.files[:len(b.files)-1]
	}()

	for i := 0; i < len(src); {
		w, end, err := lex.NextWord(src, i)
		if err != nil {
			b.scanError(src, err)
			return
		}

		if w.Text == "" {
			return
		}

		switch w.Text {
		case "struct":
			i = b.parseStruct(ctx, src, end)
		case "buffer":
			i = b.parseBuffer(ctx, src, end)
		case "parameter":
			i = b.parseParameter(ctx, src, end)
		case "texture":
			i = b.parseTexture(ctx, src, end)
		case "func":
			i = b.parseFunc(ctx, src, end)
		case "include":
			i = b.parseInclude(ctx, src, end)
		default:
			b.errorf(src, w.Pos, "Unknown word %q", w.Text)

			i = end
		}
	}
}

func (b *Builder) parseInclude(ctx context.Context, src string, st int) int {
	ws, i, ok := b.match(src, st,
		expect{lex.String, "Expected file path after `include`"},
	)
	if !ok {
		return i
	}

	pos := ws[0].Pos

	path, err := strconv.Unquote(ws[0].Text)
	if err != nil {
		path = ws[0].Text[1 : len(ws[0].Text)-1]
	}

	if b.Load == nil {
		b.errorf(src, pos, "Cannot include %q: no load function", path)
		return i
	}

	for _, f := range b.files {
		if f.name == path {
			b.errorf(src, pos, "Include cycle through %q", path)
			return i
		}
	}

	text := b.Load(path)
	if text == "" {
		b.errorf(src, pos, "Cannot load %q", path)
		return i
	}

	tlog.SpanFromContext(ctx).Printw("include", "path", path, "size", len(text), "depth", len(b.files))

	b.build(ctx, path, text)

	return i
}

func (b *Builder) file() file {
	if len(b.files) == 0 {
		return file{name: b.Name}
	}

	return b.files[len(b.files)-1]
}

func (b *Builder) dumpFunc(tr tlog.Span, name string, f *ir.Func) {
	tr.Printw("func", "name", name, "ret", f.Return, "params", f.Params)

	for i, l := range f.Lines {
		tr.Printw("line", "func", name, "i", i, "typ", tlog.NextAsType, l, "line", l)
	}
}
