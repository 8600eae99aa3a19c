// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"path/filepath"

	"golang.org/x/tools/go/packages"
)

// key identifies a message by context and source text.
type key struct {
	ctx    string
	source string
}

type ref struct {
	file string
	line int
}

// extractor holds the shared state and context for AST analysis within a package.
type extractor struct {
	refs     map[key][]ref
	baseDir  string
	fset     *token.FileSet
	info     *types.Info
	i18nPkgs map[string]struct{}
}

// extractRefs traverses all Go source files in the given packages,
// looking for i18n calls and Key literals to extract.
// Reference file names are made relative to baseDir.
func extractRefs(pkgs []*packages.Package, baseDir string, i18nPkgPaths map[string]struct{}) map[key][]ref {
	refs := map[key][]ref{}

	for _, p := range pkgs {
		if p.TypesInfo == nil {
			continue
		}

		e := &extractor{
			refs:     refs,
			baseDir:  baseDir,
			fset:     p.Fset,
			info:     p.TypesInfo,
			i18nPkgs: i18nPkgPaths,
		}

		for _, f := range p.Syntax {
			ast.Inspect(f, func(n ast.Node) bool {
				switch x := n.(type) {
				case *ast.CallExpr:
					e.handleCallExpr(x)
				case *ast.CompositeLit:
					e.handleCompositeLit(x)
				}

				return true
			})
		}
	}

	return refs
}

// findI18nPkgPaths returns the set of package paths in this build that
// define the i18n package with a Key struct of Context and Source strings.
// This lets us require that matched calls and Key literals come from our
// i18n package, regardless of how it is imported or aliased.
func findI18nPkgPaths(pkgs []*packages.Package) map[string]struct{} {
	out := make(map[string]struct{})

	for _, p := range pkgs {
		if p.Name != "i18n" || p.Types == nil {
			continue
		}

		tn, ok := p.Types.Scope().Lookup("Key").(*types.TypeName)
		if !ok {
			continue
		}

		st, ok := tn.Type().Underlying().(*types.Struct)
		if ok && hasStringField(st, "Context") && hasStringField(st, "Source") {
			out[p.PkgPath] = struct{}{}
		}
	}

	return out
}

func hasStringField(st *types.Struct, name string) bool {
	for i := range st.NumFields() {
		f := st.Field(i)
		if f.Name() != name {
			continue
		}

		basic, ok := f.Type().Underlying().(*types.Basic)

		return ok && basic.Kind() == types.String
	}

	return false
}

// constString evaluates expr to a constant string if possible using types.Info.
// Handles string literals, const identifiers, and constant expressions like "a" + "b".
// Non-constant expressions return false.
func constString(info *types.Info, expr ast.Expr) (string, bool) {
	tv, ok := info.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return "", false
	}

	return constant.StringVal(tv.Value), true
}

// isKeyTypeInI18n reports whether t is exactly the named type i18n.Key,
// with package path present in i18nPkgs.
func isKeyTypeInI18n(t types.Type, i18nPkgs map[string]struct{}) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}

	obj := named.Obj()
	if obj == nil || obj.Pkg() == nil {
		return false
	}

	if _, ok := i18nPkgs[obj.Pkg().Path()]; !ok {
		return false
	}

	return obj.Name() == "Key"
}

// handleCompositeLit records i18n.Key literals, keyed or positional.
func (e *extractor) handleCompositeLit(x *ast.CompositeLit) {
	tv, ok := e.info.Types[x]
	if !ok || tv.Type == nil {
		return
	}

	// Unwrap one level of pointer so &T{...} is treated as T{...}.
	t := tv.Type
	if p, ok := t.Underlying().(*types.Pointer); ok && p.Elem() != nil {
		t = p.Elem()
	}

	if !isKeyTypeInI18n(t, e.i18nPkgs) {
		return
	}

	u, ok := t.Underlying().(*types.Struct)
	if !ok {
		return
	}

	fields := make(map[string]ast.Expr, 2)

	for i, elt := range x.Elts {
		// Keyed field: FieldName: "..."
		if kv, ok := elt.(*ast.KeyValueExpr); ok {
			if id, ok := kv.Key.(*ast.Ident); ok {
				fields[id.Name] = kv.Value
			}

			continue
		}

		// Positional field: rely on declared field order.
		if i < u.NumFields() {
			fields[u.Field(i).Name()] = elt
		}
	}

	sourceExpr, ok := fields["Source"]
	if !ok {
		return
	}

	source, ok := constString(e.info, sourceExpr)
	if !ok {
		return
	}

	var ctx string
	if ctxExpr, ok := fields["Context"]; ok {
		if ctx, ok = constString(e.info, ctxExpr); !ok {
			return
		}
	}

	e.addRef(sourceExpr.Pos(), ctx, source)
}

// handleCallExpr records TrC and NewUserError calls, and Resolve method calls
// on i18n values, whose context and source arguments are constant.
func (e *extractor) handleCallExpr(x *ast.CallExpr) {
	sel, ok := x.Fun.(*ast.SelectorExpr)
	if !ok {
		return
	}

	fn, ok := e.info.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil {
		return
	}

	if _, ok := e.i18nPkgs[fn.Pkg().Path()]; !ok {
		return
	}

	// Index of the context argument; the source follows it.
	var ctxArg int

	switch fn.Name() {
	case "TrC", "NewUserError": // TrC(ctx, "context", "source", ...)
		ctxArg = 1
	case "Resolve": // loc.Resolve("context", "source")
		ctxArg = 0
	default:
		return
	}

	if len(x.Args) < ctxArg+2 {
		return
	}

	ctx, ok1 := constString(e.info, x.Args[ctxArg])

	source, ok2 := constString(e.info, x.Args[ctxArg+1])
	if ok1 && ok2 {
		e.addRef(x.Args[ctxArg+1].Pos(), ctx, source)
	}
}

// addRef records a reference to a message, normalising the file path relative
// to the base directory.
func (e *extractor) addRef(pos token.Pos, ctx, source string) {
	if source == "" {
		return
	}

	p := e.fset.Position(pos)

	file := p.Filename
	if rel, err := filepath.Rel(e.baseDir, file); err == nil {
		file = rel
	}

	file = filepath.ToSlash(file)

	k := key{ctx: ctx, source: source}

	e.refs[k] = append(e.refs[k], ref{file: file, line: p.Line})
}
