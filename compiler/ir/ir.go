package ir

import "strings"

type (
	// Shader is everything the front end discovers in a source.
	Shader struct {
		Structs    map[string]*Struct
		Buffers    map[int]Buffer // by declaration location
		Parameters map[string]Parameter
		Textures   map[string]Texture

		Funcs       map[string]*Func
		PseudoFuncs map[string]*Func

		// Types is the set of type names declarations may use.
		Types map[string]struct{}
	}

	Struct struct {
		Members map[string]Member
	}

	Member struct {
		Type string
	}

	Buffer struct {
		Name string
		Type string
	}

	Parameter struct {
		Type string
	}

	Texture struct {
		Dimensions int
	}

	Func struct {
		Name   string
		Return string
		Params []Param

		Lines []Line
	}

	Param struct {
		Name string
		Type string
	}

	// Line is Stmt or Branch.
	Line interface {
		line()
	}

	Stmt struct {
		Ops Ops
	}

	// Branch is an if or while. Its body is the pseudo-function named Func.
	Branch struct {
		Flow Flow
		Func string
		Cond Ops
	}

	Flow int
)

const (
	If Flow = iota
	While
)

var BuiltinTypes = []string{
	"float", "double",
	"int8", "int16", "int32", "int64",
	"uint8", "uint16", "uint32", "uint64",
	"vec2", "vec3", "vec4",
	"vec2d", "vec3d", "vec4d",
	"mat2", "mat3", "mat4",
	"mat2d", "mat3d", "mat4d",
}

func NewShader() *Shader {
	s := &Shader{
		Structs:     make(map[string]*Struct),
		Buffers:     make(map[int]Buffer),
		Parameters:  make(map[string]Parameter),
		Textures:    make(map[string]Texture),
		Funcs:       make(map[string]*Func),
		PseudoFuncs: make(map[string]*Func),
		Types:       make(map[string]struct{}, len(BuiltinTypes)),
	}

	for _, t := range BuiltinTypes {
		s.AddType(t)
	}

	return s
}

func (s *Shader) AddType(name string) {
	s.Types[name] = struct{}{}
}

func (s *Shader) IsType(name string) bool {
	_, ok := s.Types[name]
	return ok
}

func (Stmt) line()   {}
func (Branch) line() {}

// FlowOf tells the kind of a pseudo-function by its name suffix.
func FlowOf(name string) (Flow, bool) {
	switch {
	case strings.HasSuffix(name, "while"):
		return While, true
	case strings.HasSuffix(name, "if"):
		return If, true
	}

	return 0, false
}

func (f Flow) String() string {
	switch f {
	case If:
		return "if"
	case While:
		return "while"
	}

	return "flow?"
}
