// Package syntax turns Python source into a small closed syntax tree and
// extracts identifier names from it.
package syntax

import "fmt"

// Node is one node of a parsed source file. The set of variants is closed:
// *Reference, *FunctionDef and *Other.
type Node interface {
	// Children returns the child nodes in document order
	Children() []Node
	node()
}

// Reference is an identifier used in expression position
// (a variable, a called name, an assignment target).
type Reference struct {
	Name string
	Line int
}

// FunctionDef is a function or method definition.
type FunctionDef struct {
	Name  string // as written in source
	Line  int
	Async bool
	Nodes []Node // parameters, return type, body
}

// Other is any node that is neither a reference nor a function definition.
type Other struct {
	Type  string // tree-sitter node type
	Nodes []Node
}

func (*Reference) Children() []Node     { return nil }
func (f *FunctionDef) Children() []Node { return f.Nodes }
func (o *Other) Children() []Node       { return o.Nodes }

func (*Reference) node()   {}
func (*FunctionDef) node() {}
func (*Other) node()       {}

// Unit is the syntax tree of one source file
type Unit struct {
	Path string
	Root Node
}

// ParseError reports source that is not valid Python
type ParseError struct {
	Path   string
	Line   int
	Column int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: invalid syntax", e.Path, e.Line, e.Column)
}
