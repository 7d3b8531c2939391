package ir

import (
	"strconv"

	"tlog.app/go/tlog/tlwire"
)

type (
	// Op is one instruction of a postfix operation stream.
	// Streams are evaluated bottom to top with a stack.
	Op interface {
		op()
	}

	Ops []Op

	// Operand pushes a name, number, numbered name or string literal.
	Operand string

	// BinaryOp pops right then left and pushes the result.
	// Index is "[]", member access is ".".
	BinaryOp string

	// Call pops Argc arguments and pushes Name(args).
	Call struct {
		Name string
		Argc int
	}

	// Group pops Argc values and pushes them parenthesized.
	Group struct {
		Argc int
	}

	// VarDecl declares a variable. If Init, it pops the initial value.
	VarDecl struct {
		Name string
		Type string
		Init bool
	}

	// Return pops the returned value, if any.
	Return struct{}
)

func (Operand) op()  {}
func (BinaryOp) op() {}
func (Call) op()     {}
func (Group) op()    {}
func (VarDecl) op()  {}
func (Return) op()   {}

// Strings renders the stream as a flat token list
// where calls are "name", "argc", "()" and declarations are "value", "name", "type", "var".
func (ops Ops) Strings() (r []string) {
	for _, op := range ops {
		switch op := op.(type) {
		case Operand:
			r = append(r, string(op))
		case BinaryOp:
			r = append(r, string(op))
		case Call:
			r = append(r, op.Name, strconv.Itoa(op.Argc), "()")
		case Group:
			r = append(r, "", strconv.Itoa(op.Argc), "()")
		case VarDecl:
			if !op.Init {
				r = append(r, "")
			}

			r = append(r, op.Name, op.Type, "var")
		case Return:
			r = append(r, "return")
		default:
			panic(op)
		}
	}

	return r
}

func (ops Ops) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	if ops == nil {
		return e.AppendNil(b)
	}

	b = e.AppendTag(b, tlwire.Array, -1)

	for _, s := range ops.Strings() {
		b = e.AppendString(b, s)
	}

	b = e.AppendBreak(b)

	return b
}
