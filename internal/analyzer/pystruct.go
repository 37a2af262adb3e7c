package analyzer

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Structure counts the statements that shape a Python module.
//
// async def and async for are counted alongside def and for. An ast-based
// count that only visits FunctionDef and For nodes reports fewer for
// coroutine-heavy code.
type Structure struct {
	Functions   int // def and async def, nested ones included
	Classes     int
	ControlFlow int // if, elif, for, async for, while, try
}

// structureNodes maps tree-sitter python node types to the counter they bump.
var structureNodes = map[string]func(*Structure){
	"function_definition": func(s *Structure) { s.Functions++ },
	"class_definition":    func(s *Structure) { s.Classes++ },
	"if_statement":        func(s *Structure) { s.ControlFlow++ },
	"elif_clause":         func(s *Structure) { s.ControlFlow++ },
	"for_statement":       func(s *Structure) { s.ControlFlow++ },
	"while_statement":     func(s *Structure) { s.ControlFlow++ },
	"try_statement":       func(s *Structure) { s.ControlFlow++ },
}

// ScanStructure parses src with the tree-sitter Python grammar and counts
// definitions and control-flow statements. Source that does not parse is
// reported as an error naming the first offending line.
func ScanStructure(src string) (Structure, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, []byte(src))
	if err != nil {
		return Structure{}, fmt.Errorf("parse python: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return Structure{}, syntaxError(root)
	}

	var st Structure
	countStructure(root, &st)
	return st, nil
}

func countStructure(n *sitter.Node, st *Structure) {
	if bump, ok := structureNodes[n.Type()]; ok {
		bump(st)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		countStructure(n.NamedChild(i), st)
	}
}

// syntaxError locates the first ERROR or MISSING node below n.
func syntaxError(n *sitter.Node) error {
	if bad := firstBadNode(n); bad != nil {
		line := bad.StartPoint().Row + 1
		if bad.IsMissing() {
			return fmt.Errorf("line %d: missing %q", line, bad.Type())
		}
		return fmt.Errorf("line %d: invalid syntax", line)
	}
	return errors.New("invalid syntax")
}

func firstBadNode(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if bad := firstBadNode(n.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}
