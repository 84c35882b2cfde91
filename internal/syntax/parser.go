package syntax

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Extension is the file extension of Python source files
const Extension = ".py"

// Parser parses Python source using tree-sitter.
// A Parser is not safe for concurrent use; create one per goroutine.
type Parser struct {
	pyParser *sitter.Parser
}

// NewParser creates a new Python parser
func NewParser() *Parser {
	pyParser := sitter.NewParser()
	pyParser.SetLanguage(python.GetLanguage())

	return &Parser{pyParser: pyParser}
}

// IsSource reports whether path names a Python source file
func IsSource(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == Extension
}

// ParseFile reads and parses a single file
func (p *Parser) ParseFile(ctx context.Context, filePath string) (*Unit, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return p.ParseContent(ctx, filePath, content)
}

// ParseContent parses source code content. Source containing syntax errors
// yields a *ParseError, and so do the Python 2 print and exec statements.
func (p *Parser) ParseContent(ctx context.Context, filePath string, content []byte) (*Unit, error) {
	tree, err := p.pyParser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		perr := &ParseError{Path: filePath, Line: 1, Column: 1}
		if bad := firstErrorNode(root); bad != nil {
			perr.Line = int(bad.StartPoint().Row) + 1
			perr.Column = int(bad.StartPoint().Column) + 1
		}
		return nil, perr
	}
	if legacy := firstNodeOfType(root, "print_statement", "exec_statement"); legacy != nil {
		return nil, &ParseError{
			Path:   filePath,
			Line:   int(legacy.StartPoint().Row) + 1,
			Column: int(legacy.StartPoint().Column) + 1,
		}
	}

	return &Unit{
		Path: filePath,
		Root: build(root, content, false),
	}, nil
}

// build converts a tree-sitter subtree into the closed node model.
// Anonymous nodes (keywords, punctuation) are dropped.
func build(n *sitter.Node, source []byte, inParams bool) Node {
	switch n.Type() {
	case "identifier":
		return &Reference{
			Name: n.Content(source),
			Line: int(n.StartPoint().Row) + 1,
		}
	case "function_definition":
		return buildFunction(n, source)
	case "decorated_definition":
		// Decorators belong to the definition, which takes the wrapper's place
		def := n.ChildByFieldName("definition")
		if def == nil {
			break
		}
		var decorators []Node
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() != "decorator" {
				continue
			}
			for j := 0; j < int(child.NamedChildCount()); j++ {
				decorators = append(decorators, build(child.NamedChild(j), source, false))
			}
		}
		switch node := build(def, source, false).(type) {
		case *FunctionDef:
			node.Nodes = append(node.Nodes, decorators...)
			return node
		case *Other:
			node.Nodes = append(node.Nodes, decorators...)
			return node
		}
	}

	childInParams := startsParams(n.Type()) || (inParams && continuesParams(n.Type()))

	other := &Other{Type: n.Type()}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if !child.IsNamed() {
			continue
		}
		if n.Type() == "except_clause" {
			if child.Type() == "as_pattern" {
				// except E as err: only E is an expression
				if child.NamedChildCount() > 0 {
					other.Nodes = append(other.Nodes, build(child.NamedChild(0), source, false))
				}
				continue
			}
			if child.Type() == "identifier" && isHandlerName(child) {
				continue
			}
		}
		if child.Type() == "identifier" && isBinding(n.Type(), n.FieldNameForChild(i), childInParams) {
			other.Nodes = append(other.Nodes, &Other{Type: "identifier"})
			continue
		}
		other.Nodes = append(other.Nodes, build(child, source, childInParams))
	}
	return other
}

func buildFunction(n *sitter.Node, source []byte) *FunctionDef {
	fn := &FunctionDef{Line: int(n.StartPoint().Row) + 1}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() == "async" {
			fn.Async = true
			continue
		}
		if !child.IsNamed() {
			continue
		}
		if n.FieldNameForChild(i) == "name" {
			fn.Name = child.Content(source)
			continue
		}
		fn.Nodes = append(fn.Nodes, build(child, source, false))
	}
	return fn
}

// isHandlerName reports whether an identifier directly under an
// except_clause is the name the exception is bound to
func isHandlerName(n *sitter.Node) bool {
	prev := n.PrevSibling()
	return prev != nil && !prev.IsNamed() && (prev.Type() == "as" || prev.Type() == ",")
}

func startsParams(nodeType string) bool {
	return nodeType == "parameters" || nodeType == "lambda_parameters"
}

func continuesParams(nodeType string) bool {
	switch nodeType {
	case "typed_parameter", "list_splat_pattern", "dictionary_splat_pattern":
		return true
	}
	return false
}

// isBinding reports whether an identifier child of a node of parentType,
// attached under field, names something other than a variable reference:
// a declaration, a parameter, an attribute member, a keyword argument or
// an import path.
func isBinding(parentType, field string, inParams bool) bool {
	switch parentType {
	case "class_definition", "keyword_argument", "default_parameter", "typed_default_parameter":
		return field == "name"
	case "attribute":
		return field == "attribute"
	case "parameters", "lambda_parameters":
		return true
	case "typed_parameter", "list_splat_pattern", "dictionary_splat_pattern":
		return inParams
	case "dotted_name", "aliased_import", "global_statement", "nonlocal_statement":
		return true
	}
	return false
}

// firstErrorNode returns the first ERROR or missing node in document order
func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if !child.HasError() && !child.IsMissing() {
			continue
		}
		if bad := firstErrorNode(child); bad != nil {
			return bad
		}
	}
	return nil
}

// firstNodeOfType returns the first node, in document order, whose type is
// one of types
func firstNodeOfType(n *sitter.Node, types ...string) *sitter.Node {
	for _, t := range types {
		if n.Type() == t {
			return n
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if found := firstNodeOfType(n.NamedChild(i), types...); found != nil {
			return found
		}
	}
	return nil
}
