package syntax

import "strings"

// Walk visits root and every descendant breadth-first, siblings in document
// order. Walking stops early when fn returns false.
func Walk(root Node, fn func(Node) bool) {
	if root == nil {
		return
	}
	queue := []Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if !fn(n) {
			return
		}
		queue = append(queue, n.Children()...)
	}
}

// Visitor receives the node variants that carry identifier names
type Visitor interface {
	VisitReference(*Reference)
	VisitFunctionDef(*FunctionDef)
}

// Visit walks the unit and dispatches references and function definitions
// to v in walk order.
func Visit(u *Unit, v Visitor) {
	if u == nil {
		return
	}
	Walk(u.Root, func(n Node) bool {
		switch n := n.(type) {
		case *Reference:
			v.VisitReference(n)
		case *FunctionDef:
			v.VisitFunctionDef(n)
		}
		return true
	})
}

type nameCollector struct {
	refs  []string
	funcs []string
}

func (c *nameCollector) VisitReference(r *Reference) {
	c.refs = append(c.refs, r.Name)
}

func (c *nameCollector) VisitFunctionDef(f *FunctionDef) {
	c.funcs = append(c.funcs, strings.ToLower(f.Name))
}

// ReferenceNames returns the name of every variable reference in the unit,
// in walk order and with original case.
func ReferenceNames(u *Unit) []string {
	c := &nameCollector{}
	Visit(u, c)
	return c.refs
}

// FunctionNames returns the lowercased name of every function definition
// in the unit, in walk order.
func FunctionNames(u *Unit) []string {
	c := &nameCollector{}
	Visit(u, c)
	return c.funcs
}
