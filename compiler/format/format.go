package format

import (
	"context"
	"slices"
	"strings"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/shade/compiler/ir"
)

type (
	value struct {
		text string
		prec int
	}
)

const (
	precStmt = iota
	precAssign
	precCompare
	precAdd
	precMul
	precMember
	precIndex
	precAtom
)

var binary = map[string]int{
	"=":  precAssign,
	"==": precCompare,
	"!=": precCompare,
	"+=": precCompare,
	"-=": precCompare,
	"<=": precCompare,
	">=": precCompare,
	"<":  precCompare,
	">":  precCompare,
	"+":  precAdd,
	"-":  precAdd,
	"*":  precMul,
	"/":  precMul,
	".":  precMember,
}

// Format appends the source form of x to b.
// x is *ir.Shader or ir.Ops.
func Format(ctx context.Context, b []byte, x any) ([]byte, error) {
	switch x := x.(type) {
	case *ir.Shader:
		return formatShader(ctx, b, x)
	case ir.Ops:
		s, err := Expr(x)
		if err != nil {
			return nil, err
		}

		return append(b, s...), nil
	default:
		return nil, errors.New("unsupported type: %T", x)
	}
}

func formatShader(ctx context.Context, b []byte, x *ir.Shader) (_ []byte, err error) {
	for _, name := range sorted(x.Structs) {
		b = app(b, 0, "struct %v {\n", name)

		s := x.Structs[name]

		for _, m := range sorted(s.Members) {
			b = app(b, 1, "%v %v\n", s.Members[m].Type, m)
		}

		b = app(b, 0, "}\n")
	}

	for _, name := range sorted(x.Parameters) {
		b = app(b, 0, "parameter %v %v\n", x.Parameters[name].Type, name)
	}

	for _, name := range sorted(x.Textures) {
		b = app(b, 0, "texture (%dD) %v\n", x.Textures[name].Dimensions, name)
	}

	locs := make([]int, 0, len(x.Buffers))
	for loc := range x.Buffers {
		locs = append(locs, loc)
	}

	slices.Sort(locs)

	for _, loc := range locs {
		buf := x.Buffers[loc]
		b = app(b, 0, "buffer %v %v\n", buf.Type, buf.Name)
	}

	for _, name := range sorted(x.Funcs) {
		b = append(b, '\n')

		b, err = formatFunc(ctx, b, x, x.Funcs[name])
		if err != nil {
			return nil, errors.Wrap(err, "func %v", name)
		}
	}

	return b, nil
}

func formatFunc(ctx context.Context, b []byte, sh *ir.Shader, x *ir.Func) (_ []byte, err error) {
	b = app(b, 0, "func %v %v(", x.Return, x.Name)

	for i, p := range x.Params {
		if i != 0 {
			b = append(b, ", "...)
		}

		b = app(b, 0, "%v %v", p.Type, p.Name)
	}

	b = append(b, ") {\n"...)

	b, err = formatLines(ctx, b, sh, x.Lines, 1)
	if err != nil {
		return nil, errors.Wrap(err, "body")
	}

	b = app(b, 0, "}\n")

	return b, nil
}

func formatLines(ctx context.Context, b []byte, sh *ir.Shader, lines []ir.Line, d int) (_ []byte, err error) {
	for i, l := range lines {
		switch l := l.(type) {
		case ir.Stmt:
			s, err := Expr(l.Ops)
			if err != nil {
				return nil, errors.Wrap(err, "line %d", i)
			}

			b = app(b, d, "%s\n", s)
		case ir.Branch:
			f, ok := sh.PseudoFuncs[l.Func]
			if !ok {
				return nil, errors.New("line %d: no pseudo-function %v", i, l.Func)
			}

			cond, err := Expr(l.Cond)
			if err != nil {
				return nil, errors.Wrap(err, "line %d: condition", i)
			}

			b = app(b, d, "%s (%s) {\n", l.Flow.String(), cond)

			b, err = formatLines(ctx, b, sh, f.Lines, d+1)
			if err != nil {
				return nil, errors.Wrap(err, "%v", l.Func)
			}

			b = app(b, d, "}\n")
		default:
			return nil, errors.New("line %d: unsupported line: %T", i, l)
		}
	}

	return b, nil
}

// Expr reconstructs the infix text of an operation stream.
func Expr(ops ir.Ops) (string, error) {
	var st []value

	pop := func(i, n int) ([]value, error) {
		if len(st) < n {
			return nil, errors.New("op %d (%v): need %d values, have %d", i, ops[i], n, len(st))
		}

		r := st[len(st)-n:]
		st = st[:len(st)-n]

		return r, nil
	}

	for i, op := range ops {
		switch op := op.(type) {
		case ir.Operand:
			st = append(st, value{string(op), precAtom})
		case ir.BinaryOp:
			x, err := pop(i, 2)
			if err != nil {
				return "", err
			}

			l, r := x[0], x[1]

			switch op {
			case "[]":
				st = append(st, value{paren(l, precIndex) + "[" + r.text + "]", precIndex})
				continue
			case ".":
				st = append(st, value{paren(l, precMember) + "." + paren(r, precAtom), precMember})
				continue
			}

			p, ok := binary[string(op)]
			if !ok {
				return "", errors.New("op %d: unsupported operator %q", i, string(op))
			}

			st = append(st, value{paren(l, p) + " " + string(op) + " " + paren(r, p+1), p})
		case ir.Call:
			args, err := pop(i, op.Argc)
			if err != nil {
				return "", err
			}

			st = append(st, value{op.Name + "(" + join(args) + ")", precAtom})
		case ir.Group:
			args, err := pop(i, op.Argc)
			if err != nil {
				return "", err
			}

			st = append(st, value{"(" + join(args) + ")", precAtom})
		case ir.VarDecl:
			s := "var " + op.Type + " " + op.Name

			if op.Init {
				x, err := pop(i, 1)
				if err != nil {
					return "", err
				}

				s += " = " + x[0].text
			}

			st = append(st, value{s, precStmt})
		case ir.Return:
			s := "return"

			if len(st) != 0 {
				x, _ := pop(i, 1)
				s += " " + x[0].text
			}

			st = append(st, value{s, precStmt})
		default:
			return "", errors.New("op %d: unsupported op: %T", i, op)
		}
	}

	switch len(st) {
	case 0:
		return "", nil
	case 1:
		return st[0].text, nil
	default:
		return "", errors.New("unbalanced stream: %d values left", len(st))
	}
}

func paren(v value, p int) string {
	if v.prec >= p {
		return v.text
	}

	return "(" + v.text + ")"
}

func join(vs []value) string {
	var b strings.Builder

	for i, v := range vs {
		if i != 0 {
			b.WriteString(", ")
		}

		b.WriteString(v.text)
	}

	return b.String()
}

func sorted[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))

	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"
	b = append(b, tabs[:d]...)
	b = hfmt.Appendf(b, f, args...)
	return b
}
