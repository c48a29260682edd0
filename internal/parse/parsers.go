// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// parsers.go - Per-language symbol extraction.
package parse

import (
	"go/ast"
	"go/parser"
	"go/token"
	"regexp"
	"strings"

	"github.com/jeranaias/codevox/internal/cancel"
	"github.com/jeranaias/codevox/internal/voxel"
)

// cancelPollInterval is how many lines the regex parsers process between
// token checks on large inputs.
const cancelPollInterval = 256

// =============================================================================
// GO PARSER
// =============================================================================

// GoParser extracts symbols from Go source via go/ast.
type GoParser struct{}

// Parse implements LanguageParser for Go files.
func (p *GoParser) Parse(content string, tok *cancel.Token) ([]symbol, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "", content, 0)
	if err != nil {
		return nil, err
	}

	if tok != nil && tok.Cancelled() {
		return nil, cancel.ErrCanceled
	}

	var symbols []symbol

	if f.Name != nil {
		symbols = append(symbols, symbol{
			Name: f.Name.Name,
			Kind: voxel.KindPackage,
			Line: fset.Position(f.Name.Pos()).Line,
		})
	}

	for _, imp := range f.Imports {
		symbols = append(symbols, symbol{
			Name: strings.Trim(imp.Path.Value, `"`),
			Kind: voxel.KindImport,
			Line: fset.Position(imp.Pos()).Line,
		})
	}

	ast.Inspect(f, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.FuncDecl:
			sym := symbol{
				Name: node.Name.Name,
				Kind: voxel.KindFunction,
				Line: fset.Position(node.Pos()).Line,
			}
			if node.Recv != nil && len(node.Recv.List) > 0 {
				sym.Kind = voxel.KindMethod
				sym.Parent = receiverName(node.Recv.List[0].Type)
			}
			symbols = append(symbols, sym)

		case *ast.GenDecl:
			for _, spec := range node.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					sym := symbol{
						Name: s.Name.Name,
						Line: fset.Position(s.Pos()).Line,
					}
					switch s.Type.(type) {
					case *ast.StructType:
						sym.Kind = voxel.KindStruct
					case *ast.InterfaceType:
						sym.Kind = voxel.KindInterface
					default:
						sym.Kind = voxel.KindType
					}
					symbols = append(symbols, sym)

				case *ast.ValueSpec:
					kind := voxel.KindVar
					if node.Tok == token.CONST {
						kind = voxel.KindConst
					}
					for _, name := range s.Names {
						symbols = append(symbols, symbol{
							Name: name.Name,
							Kind: kind,
							Line: fset.Position(name.Pos()).Line,
						})
					}
				}
			}
		}
		return true
	})

	return symbols, nil
}

// receiverName extracts the receiver type name from a method declaration.
func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.IndexExpr:
		return receiverName(t.X)
	default:
		return ""
	}
}

// =============================================================================
// JAVASCRIPT/TYPESCRIPT PARSER
// =============================================================================

// JSParser extracts symbols from JS/TS files using regex-based extraction.
type JSParser struct{}

var (
	jsFuncPattern      = regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?function\s+(\w+)\s*\(`)
	jsClassPattern     = regexp.MustCompile(`^\s*(?:export\s+)?class\s+(\w+)`)
	jsMethodPattern    = regexp.MustCompile(`^\s+(?:async\s+)?(\w+)\s*\([^)]*\)\s*\{`)
	jsConstPattern     = regexp.MustCompile(`^\s*(?:export\s+)?const\s+(\w+)\s*=`)
	jsArrowFuncPattern = regexp.MustCompile(`^\s*(?:export\s+)?const\s+(\w+)\s*=\s*(?:async\s*)?\([^)]*\)\s*=>`)
	jsImportPattern    = regexp.MustCompile(`^import\s+(?:.*?from\s+)?['"]([^'"]+)['"]`)
)

// jsMethodKeywords are statements the method pattern would otherwise match.
var jsMethodKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"return": true, "function": true,
}

// Parse implements LanguageParser for JavaScript/TypeScript files.
func (p *JSParser) Parse(content string, tok *cancel.Token) ([]symbol, error) {
	var symbols []symbol

	lines := strings.Split(content, "\n")
	var currentClass string

	for i, line := range lines {
		if tok != nil && i%cancelPollInterval == 0 && tok.Cancelled() {
			return nil, cancel.ErrCanceled
		}
		lineNum := i + 1

		if matches := jsImportPattern.FindStringSubmatch(line); matches != nil {
			symbols = append(symbols, symbol{Name: matches[1], Kind: voxel.KindImport, Line: lineNum})
			continue
		}

		if matches := jsClassPattern.FindStringSubmatch(line); matches != nil {
			currentClass = matches[1]
			symbols = append(symbols, symbol{Name: currentClass, Kind: voxel.KindStruct, Line: lineNum})
			continue
		}

		if matches := jsFuncPattern.FindStringSubmatch(line); matches != nil {
			currentClass = ""
			symbols = append(symbols, symbol{Name: matches[1], Kind: voxel.KindFunction, Line: lineNum})
			continue
		}

		if matches := jsArrowFuncPattern.FindStringSubmatch(line); matches != nil {
			currentClass = ""
			symbols = append(symbols, symbol{Name: matches[1], Kind: voxel.KindFunction, Line: lineNum})
			continue
		}

		if matches := jsConstPattern.FindStringSubmatch(line); matches != nil {
			currentClass = ""
			symbols = append(symbols, symbol{Name: matches[1], Kind: voxel.KindConst, Line: lineNum})
			continue
		}

		// Methods only count inside a class body.
		if currentClass != "" {
			if matches := jsMethodPattern.FindStringSubmatch(line); matches != nil {
				if !jsMethodKeywords[matches[1]] {
					symbols = append(symbols, symbol{
						Name:   matches[1],
						Kind:   voxel.KindMethod,
						Line:   lineNum,
						Parent: currentClass,
					})
				}
			}
		}

		// A brace in column zero closes the class body.
		if strings.HasPrefix(line, "}") {
			currentClass = ""
		}
	}

	return symbols, nil
}

// =============================================================================
// PYTHON PARSER
// =============================================================================

// PythonParser extracts symbols from Python files using regex-based
// extraction.
type PythonParser struct{}

var (
	pyFuncPattern   = regexp.MustCompile(`^(\s*)def\s+(\w+)\s*\(`)
	pyClassPattern  = regexp.MustCompile(`^(\s*)class\s+(\w+)`)
	pyImportPattern = regexp.MustCompile(`^(?:from\s+(\S+)\s+)?import\s+(\S+)`)
)

// Parse implements LanguageParser for Python files.
func (p *PythonParser) Parse(content string, tok *cancel.Token) ([]symbol, error) {
	var symbols []symbol

	lines := strings.Split(content, "\n")
	var currentClass string
	var classIndent int

	for i, line := range lines {
		if tok != nil && i%cancelPollInterval == 0 && tok.Cancelled() {
			return nil, cancel.ErrCanceled
		}
		lineNum := i + 1

		if matches := pyImportPattern.FindStringSubmatch(line); matches != nil {
			path := matches[1]
			if path == "" {
				path = matches[2]
			}
			symbols = append(symbols, symbol{Name: path, Kind: voxel.KindImport, Line: lineNum})
			continue
		}

		if matches := pyClassPattern.FindStringSubmatch(line); matches != nil {
			currentClass = matches[2]
			classIndent = len(matches[1])
			symbols = append(symbols, symbol{Name: currentClass, Kind: voxel.KindStruct, Line: lineNum})
			continue
		}

		if matches := pyFuncPattern.FindStringSubmatch(line); matches != nil {
			indent := len(matches[1])
			sym := symbol{Name: matches[2], Kind: voxel.KindFunction, Line: lineNum}

			if currentClass != "" && indent > classIndent {
				sym.Kind = voxel.KindMethod
				sym.Parent = currentClass
			} else {
				currentClass = ""
			}
			symbols = append(symbols, sym)
		}
	}

	return symbols, nil
}
