package front

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/shade/compiler/ir"
)

func build(t *testing.T, src string) (*Builder, error) {
	t.Helper()

	b := New()
	err := b.Build(context.Background(), src)

	return b, err
}

func stmt(t *testing.T, l ir.Line) []string {
	t.Helper()

	s, ok := l.(ir.Stmt)
	require.True(t, ok, "want statement, got %T", l)

	return s.Ops.Strings()
}

func TestParameter(t *testing.T) {
	b, err := build(t, "parameter float brightness")
	require.NoError(t, err)

	assert.Equal(t, ir.Parameter{Type: "float"}, b.Parameters["brightness"])
	assert.Empty(t, b.Errors)
}

func TestUnknownWord(t *testing.T) {
	b, err := build(t, "frobnicate x")
	require.Error(t, err)

	require.Len(t, b.Errors, 2)
	assert.Contains(t, b.Errors[0].Msg, "Unknown word")
	assert.Equal(t, `Unknown word "frobnicate"`, b.Errors[0].Msg)
	assert.Equal(t, 0, b.Errors[0].Pos)
	assert.Equal(t, 11, b.Errors[1].Pos)

	var l ErrorList
	require.IsType(t, l, err)
	assert.Len(t, err.(ErrorList), 2)
}

func TestErrorsContinue(t *testing.T) {
	b, err := build(t, `parameter 1 x
parameter float ok
buffer
`)
	require.Error(t, err)

	assert.Equal(t, ir.Parameter{Type: "float"}, b.Parameters["ok"])

	require.Len(t, b.Errors, 3)
	assert.Equal(t, "Expected a type after `parameter`", b.Errors[0].Msg)
	assert.Equal(t, 0, b.Errors[0].Line)
	assert.Equal(t, 10, b.Errors[0].Column)
	assert.Equal(t, `Unknown word "x"`, b.Errors[1].Msg)
	assert.Equal(t, "Expected a type name after `buffer`", b.Errors[2].Msg)
	assert.Equal(t, 3, b.Errors[2].Line)
}

func TestComments(t *testing.T) {
	b, err := build(t, `// settings
parameter float a /* inline */ parameter int32 b
/* trailing */`)
	require.NoError(t, err)

	assert.Len(t, b.Parameters, 2)
	assert.Equal(t, "int32", b.Parameters["b"].Type)
}

func TestBuiltinTypes(t *testing.T) {
	b := New()

	for _, name := range ir.BuiltinTypes {
		assert.True(t, b.IsType(name), name)
	}

	assert.False(t, b.IsType("Light"))
}

func TestStruct(t *testing.T) {
	b, err := build(t, `struct Light { vec3 color, float power }
struct Empty {}
parameter Light sun`)
	require.NoError(t, err)

	require.Contains(t, b.Structs, "Light")
	assert.Equal(t, map[string]ir.Member{
		"color": {Type: "vec3"},
		"power": {Type: "float"},
	}, b.Structs["Light"].Members)

	assert.Empty(t, b.Structs["Empty"].Members)

	assert.True(t, b.IsType("Light"))
	assert.True(t, b.IsType("Empty"))
	assert.Equal(t, "Light", b.Parameters["sun"].Type)
}

func TestStructErrors(t *testing.T) {
	src := "struct S {\n\tfloat a\n\tfloat a\n}"

	b, err := build(t, src)
	require.Error(t, err)

	require.Len(t, b.Errors, 1)
	assert.Equal(t, `Member "a" redeclared`, b.Errors[0].Msg)
	assert.Equal(t, strings.LastIndex(src, "a"), b.Errors[0].Pos)
	assert.Equal(t, 2, b.Errors[0].Line)
	assert.Equal(t, 7, b.Errors[0].Column)
	assert.True(t, b.IsType("S"))

	src = "struct T { float }"

	b, err = build(t, src)
	require.Error(t, err)
	require.Len(t, b.Errors, 1)
	assert.Equal(t, "Expected member name after type", b.Errors[0].Msg)
	assert.Equal(t, strings.Index(src, "float")+len("float"), b.Errors[0].Pos)

	b, err = build(t, "struct (x)")
	require.Error(t, err)
	assert.Equal(t, "Expected name of struct", b.Errors[0].Msg)
	assert.Empty(t, b.Structs)
}

func TestBuffer(t *testing.T) {
	b, err := build(t, "buffer Light lights\nbuffer Light more")
	require.NoError(t, err)

	assert.Equal(t, map[int]ir.Buffer{
		7:  {Name: "lights", Type: "Light"},
		27: {Name: "more", Type: "Light"},
	}, b.Buffers)
}

func TestTexture(t *testing.T) {
	b, err := build(t, `texture (2D) albedo
texture (3D) volume
texture (4D) odd`)
	require.NoError(t, err)

	assert.Equal(t, 2, b.Textures["albedo"].Dimensions)
	assert.Equal(t, 3, b.Textures["volume"].Dimensions)
	assert.Equal(t, 2, b.Textures["odd"].Dimensions)

	b, err = build(t, "texture (x) t")
	require.Error(t, err)
	require.Len(t, b.Errors, 1)
	assert.Equal(t, "Expected dimensions (2D/3D)", b.Errors[0].Msg)
	assert.Equal(t, 9, b.Errors[0].Pos)
	assert.Empty(t, b.Textures)
}

func TestFunc(t *testing.T) {
	b, err := build(t, `func vec4 shade(vec2 uv, float t) {
	var vec4 c = sample(uv) * t
	return c
}`)
	require.NoError(t, err)

	f := b.Funcs["shade"]
	require.NotNil(t, f)

	assert.Equal(t, "vec4", f.Return)
	assert.Equal(t, []ir.Param{{Name: "uv", Type: "vec2"}, {Name: "t", Type: "float"}}, f.Params)

	require.Len(t, f.Lines, 2)
	assert.Equal(t, []string{"uv", "sample", "1", "()", "t", "*", "c", "vec4", "var"}, stmt(t, f.Lines[0]))
	assert.Equal(t, []string{"c", "return"}, stmt(t, f.Lines[1]))
}

func TestFuncBadParams(t *testing.T) {
	for _, tc := range []struct {
		src string
		msg string
		at  string
	}{
		{"func void f(float) {}", "Expected parameter name after type", ") {}"},
		{"func void f(float a, 1 b) {}", "Expected parameter type", "1 b"},
		{"func void f[a] {}", "Expected function parameters after function name", "[a]"},
		{"func void f() (x)", "Expected function body after the parameters", "(x)"},
	} {
		b, err := build(t, tc.src)
		require.Error(t, err, tc.src)

		require.Len(t, b.Errors, 1, tc.src)
		assert.Equal(t, tc.msg, b.Errors[0].Msg, tc.src)
		assert.Equal(t, strings.Index(tc.src, tc.at), b.Errors[0].Pos, tc.src)
		assert.Empty(t, b.Funcs, tc.src)
	}
}

func TestFuncParamsEndAtNonComma(t *testing.T) {
	b, err := build(t, "func void f(float a float b) { x = 1 }")
	require.NoError(t, err)

	assert.Empty(t, b.Errors)

	f := b.Funcs["f"]
	require.NotNil(t, f)

	assert.Equal(t, []ir.Param{{Name: "a", Type: "float"}}, f.Params)
	require.Len(t, f.Lines, 1)
	assert.Equal(t, []string{"x", "1", "="}, stmt(t, f.Lines[0]))
}

func TestControlFlow(t *testing.T) {
	b, err := build(t, "func void test() { if (x) { y = 1 } }")
	require.NoError(t, err)

	require.Len(t, b.PseudoFuncs, 1)

	var name string
	for name = range b.PseudoFuncs {
	}

	assert.True(t, strings.HasSuffix(name, "if"), name)
	assert.Equal(t, "test::0if", name)

	p := b.PseudoFuncs[name]
	require.Len(t, p.Lines, 1)
	assert.Equal(t, []string{"y", "1", "="}, stmt(t, p.Lines[0]))

	lines := b.Funcs["test"].Lines
	require.Len(t, lines, 1)

	br, ok := lines[0].(ir.Branch)
	require.True(t, ok, "%T", lines[0])

	assert.Equal(t, ir.If, br.Flow)
	assert.Equal(t, name, br.Func)
	assert.Equal(t, ir.Ops{ir.Operand("x")}, br.Cond)
}

func TestControlFlowNames(t *testing.T) {
	b, err := build(t, `func void f() {
	if (a) { x = 1 }
	while (b < 10) {
		b += 1
		if (b == 5) { c = b }
	}
}`)
	require.NoError(t, err)

	require.Len(t, b.PseudoFuncs, 3)
	assert.Contains(t, b.PseudoFuncs, "f::0if")
	assert.Contains(t, b.PseudoFuncs, "f::1while")
	assert.Contains(t, b.PseudoFuncs, "f::1while::2if")

	lines := b.Funcs["f"].Lines
	require.Len(t, lines, 2)

	br := lines[1].(ir.Branch)
	assert.Equal(t, ir.While, br.Flow)
	assert.Equal(t, []string{"b", "10", "<"}, br.Cond.Strings())

	flow, ok := ir.FlowOf(br.Func)
	assert.True(t, ok)
	assert.Equal(t, ir.While, flow)

	w := b.PseudoFuncs["f::1while"]
	require.Len(t, w.Lines, 2)
	assert.Equal(t, []string{"b", "1", "+="}, stmt(t, w.Lines[0]))
	assert.Equal(t, "f::1while::2if", w.Lines[1].(ir.Branch).Func)

	b2, err := build(t, "func void g() { if (a) { x = 1 } }")
	require.NoError(t, err)
	assert.Contains(t, b2.PseudoFuncs, "g::0if")

	err = b2.Build(context.Background(), "func void h() { while (a) { x = 1 } }")
	require.NoError(t, err)
	assert.Contains(t, b2.PseudoFuncs, "h::0while")
	assert.Len(t, b2.PseudoFuncs, 2)
}

func TestErrorRebase(t *testing.T) {
	src := "parameter float p\n\nfunc void f() {\n\tx = 1 $\n}"

	b, err := build(t, src)
	require.Error(t, err)

	require.Len(t, b.Errors, 1)

	e := b.Errors[0]
	assert.Equal(t, "Expected some operator", e.Msg)

	bodyStart := strings.Index(src, "x = 1")
	k := strings.Index("x = 1 $", "$")

	assert.Equal(t, bodyStart+k, e.Pos)
	assert.Equal(t, 3, e.Line)
	assert.Equal(t, 7, e.Column)

	require.Contains(t, b.Funcs, "f")
	assert.Empty(t, b.Funcs["f"].Lines)
}

func TestErrorRebaseNested(t *testing.T) {
	src := "func void f() {\n\tif (a) {\n\t\tb = 1\n\t\tc = 2 @\n\t}\n}"

	b, err := build(t, src)
	require.Error(t, err)

	require.Len(t, b.Errors, 1)

	e := b.Errors[0]
	assert.Equal(t, strings.Index(src, "@"), e.Pos)
	assert.Equal(t, 3, e.Line)
	assert.Equal(t, 8, e.Column)

	assert.Len(t, b.PseudoFuncs["f::0if"].Lines, 1)
}

func TestBodyErrors(t *testing.T) {
	for _, tc := range []struct {
		body string
		msg  string
		at   string
	}{
		{"var x", "Expected variable type and name after `var`", "var"},
		{"var float x + 1", "Unknown token after variable declaration. Expected '=' assignment operator", "+"},
		{"var float x =", "Expected value after '='", "="},
		{"1 + 2", "Unexpected token at beginning of line", "1 + 2"},
		{"if (x)", "Expected condition and body after `if`", "if"},
		{"while (a, b) { c = 1 }", "Expected one condition", "(a, b)"},
		{"a = b[1, 2]", "Expected one index", "[1, 2]"},
		{"a = (b c)", "Expected some operator", "c)"},
		{"x = 1\ny = \"open", "Expected closing quotes", "\"open"},
		{"x = 1\ny = \x01", "Broken character found", "\x01"},
	} {
		src := "func void f() {\n" + tc.body + "\n}"

		b, err := build(t, src)
		require.Error(t, err, tc.body)

		require.Len(t, b.Errors, 1, tc.body)
		assert.Contains(t, b.Errors[0].Msg, tc.msg, tc.body)
		assert.Equal(t, strings.Index(src, tc.at), b.Errors[0].Pos, tc.body)
	}
}

func TestStatements(t *testing.T) {
	for _, tc := range []struct {
		text string
		ops  []string
	}{
		{"a + b * c", []string{"a", "b", "c", "*", "+"}},
		{"a * b + c", []string{"a", "b", "*", "c", "+"}},
		{"a + b - c", []string{"a", "b", "+", "c", "-"}},
		{"x = (a + b) * c", []string{"x", "a", "b", "+", "", "1", "()", "c", "*", "="}},
		{"y = f(a, b + c) * (d)", []string{"y", "a", "b", "c", "+", "f", "2", "()", "d", "", "1", "()", "*", "="}},
		{"f()", []string{"f", "0", "()"}},
		{"c = m[i][j].x", []string{"c", "m", "i", "[]", "j", "[]", "x", ".", "="}},
		{"v.x += 2.5f", []string{"v", "x", ".", "2.5f", "+="}},
		{"ok = a <= b", []string{"ok", "a", "b", "<=", "="}},
		{"c = vec3(1, 2D, \"s\")", []string{"c", "1", "2D", `"s"`, "vec3", "3", "()", "="}},
		{"var float x = a + 1", []string{"a", "1", "+", "x", "float", "var"}},
		{"var vec3 v", []string{"", "v", "vec3", "var"}},
		{"foo", []string{"foo"}},
		{"42", []string{"42"}},
		{`"str"`, []string{`"str"`}},
	} {
		b := New()

		l, err := b.parseLine(context.Background(), "f", tc.text)
		require.NoError(t, err, tc.text)

		assert.Equal(t, tc.ops, stmt(t, l), tc.text)
	}
}

func TestStatementOps(t *testing.T) {
	b := New()

	l, err := b.parseLine(context.Background(), "f", "a = g(b)[2]")
	require.NoError(t, err)

	assert.Equal(t, ir.Stmt{Ops: ir.Ops{
		ir.Operand("a"),
		ir.Operand("b"),
		ir.Call{Name: "g", Argc: 1},
		ir.Operand("2"),
		ir.BinaryOp("[]"),
		ir.BinaryOp("="),
	}}, l)

	l, err = b.parseLine(context.Background(), "f", "var int32 n = 1")
	require.NoError(t, err)

	assert.Equal(t, ir.Stmt{Ops: ir.Ops{
		ir.Operand("1"),
		ir.VarDecl{Name: "n", Type: "int32", Init: true},
	}}, l)
}

func TestSplitStatements(t *testing.T) {
	b, err := build(t, `func float f(float a) {
	var float x = a + 1
	var vec3 v
	x = x * 2 y = x
	v[0] = y
	g(x) h(v)
	// comment
	return
}`)
	require.NoError(t, err)

	lines := b.Funcs["f"].Lines
	require.Len(t, lines, 8)

	assert.Equal(t, []string{"a", "1", "+", "x", "float", "var"}, stmt(t, lines[0]))
	assert.Equal(t, []string{"", "v", "vec3", "var"}, stmt(t, lines[1]))
	assert.Equal(t, []string{"x", "x", "2", "*", "="}, stmt(t, lines[2]))
	assert.Equal(t, []string{"y", "x", "="}, stmt(t, lines[3]))
	assert.Equal(t, []string{"v", "0", "[]", "y", "="}, stmt(t, lines[4]))
	assert.Equal(t, []string{"x", "g", "1", "()"}, stmt(t, lines[5]))
	assert.Equal(t, []string{"v", "h", "1", "()"}, stmt(t, lines[6]))
	assert.Equal(t, []string{"return"}, stmt(t, lines[7]))
}

func TestStatementEndingWithSymbol(t *testing.T) {
	b, err := build(t, "func void f() { a = b + }")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "+", "="}, stmt(t, b.Funcs["f"].Lines[0]))
}

func TestScanErrorAtTopLevel(t *testing.T) {
	b, err := build(t, "parameter float a\nfunc void f() {")
	require.Error(t, err)

	require.Len(t, b.Errors, 1)
	assert.Equal(t, "Expected '}' to close '{'", b.Errors[0].Msg)
	assert.Equal(t, 1, b.Errors[0].Line)
	assert.Contains(t, b.Parameters, "a")
}

func TestInclude(t *testing.T) {
	files := map[string]string{
		"common.sh": "parameter float gamma\nbuffer Light lights\nfrobnicate",
		"self.sh":   `include "self.sh"`,
	}

	b := New()
	b.Name = "main.sh"
	b.Load = func(path string) string { return files[path] }

	src := `include "common.sh"
include "missing.sh"
include "self.sh"
buffer Light local`

	err := b.Build(context.Background(), src)
	require.Error(t, err)

	assert.Equal(t, "float", b.Parameters["gamma"].Type)

	require.Len(t, b.Errors, 3)

	assert.Equal(t, `Unknown word "frobnicate"`, b.Errors[0].Msg)
	assert.Equal(t, "common.sh", b.Errors[0].File)
	assert.Equal(t, 2, b.Errors[0].Line)
	assert.Equal(t, "common.sh:3:1: Unknown word \"frobnicate\"", b.Errors[0].Error())

	assert.Equal(t, `Cannot load "missing.sh"`, b.Errors[1].Msg)
	assert.Equal(t, "main.sh", b.Errors[1].File)

	assert.Equal(t, `Include cycle through "self.sh"`, b.Errors[2].Msg)
	assert.Equal(t, "self.sh", b.Errors[2].File)

	included := len(src) + strings.Index(files["common.sh"], "Light")
	local := strings.Index(src, "Light local")

	assert.Equal(t, map[int]ir.Buffer{
		included: {Name: "lights", Type: "Light"},
		local:    {Name: "local", Type: "Light"},
	}, b.Buffers)
}

func TestIncludeWithoutLoader(t *testing.T) {
	b, err := build(t, `include "x.sh"`)
	require.Error(t, err)

	require.Len(t, b.Errors, 1)
	assert.Equal(t, `Cannot include "x.sh": no load function`, b.Errors[0].Msg)
}

func TestErrorList(t *testing.T) {
	l := ErrorList{
		{Pos: 5, Msg: "c", File: ""},
		{Pos: 1, Msg: "b", File: "b.sh"},
		{Pos: 3, Msg: "a", File: ""},
		{Pos: 0, Msg: "d", File: "b.sh"},
	}

	var msgs []string
	for _, e := range l.Sorted() {
		msgs = append(msgs, e.Msg)
	}

	assert.Equal(t, []string{"a", "c", "d", "b"}, msgs)
	assert.Equal(t, "1:1: c (and 3 more errors)", l.Error())
	assert.Equal(t, "no errors", ErrorList{}.Error())
}

func TestErrorContext(t *testing.T) {
	e := &SourceError{Line: 1, Column: 2, Msg: "boom"}

	assert.Equal(t, "2:3: boom\n   2| cdef\n    |   ^\n", e.Context("ab\ncdef"))
	assert.Equal(t, "2:3: boom\n", e.Context(""))
}

func TestSourceErrorTlogAppend(t *testing.T) {
	e := &SourceError{Pos: 7, Line: 1, Column: 2, Msg: "boom"}

	b := e.TlogAppend(nil)
	require.NotEmpty(t, b)

	assert.Contains(t, string(b), "boom")
	assert.Contains(t, string(b), "msg")
	assert.Contains(t, string(b), "col")
}
