package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Resolver maps locally visible names to fully-qualified ones using the
// unit's import statements. Resolution is best-effort and purely static:
// a name whose root segment is not bound by an import stays unresolved,
// which biases the analysis toward under-reporting rather than guessing.
type Resolver struct {
	bindings map[string]string
}

// NewResolver walks the whole tree (imports may be inline, inside function
// bodies) and records every name an import statement binds.
func NewResolver(t *Tree) *Resolver {
	r := &Resolver{bindings: make(map[string]string)}
	r.collect(t.Root(), t.source)
	return r
}

func (r *Resolver) collect(node *sitter.Node, source []byte) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "import_statement":
		r.collectImport(node, source)
		return
	case "import_from_statement":
		r.collectFromImport(node, source)
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		r.collect(node.Child(i), source)
	}
}

// collectImport handles `import a.b` and `import a.b as c`.
func (r *Resolver) collectImport(node *sitter.Node, source []byte) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "dotted_name":
			path := child.Content(source)
			// `import a.b` binds the root name `a`.
			root := path
			if idx := strings.IndexByte(path, '.'); idx >= 0 {
				root = path[:idx]
			}
			r.bindings[root] = root
		case "aliased_import":
			path, alias := splitAliased(child, source)
			if path != "" && alias != "" {
				r.bindings[alias] = path
			}
		}
	}
}

// collectFromImport handles `from m import x`, `from m import x as y`.
// Relative imports (`from . import x`) have no statically known module
// path and bind nothing.
func (r *Resolver) collectFromImport(node *sitter.Node, source []byte) {
	module := ""
	sawImport := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "import":
			sawImport = true
		case "relative_import":
			return
		case "dotted_name":
			name := child.Content(source)
			if !sawImport {
				module = name
			} else if module != "" {
				r.bindings[name] = module + "." + name
			}
		case "identifier":
			if sawImport && module != "" {
				name := child.Content(source)
				r.bindings[name] = module + "." + name
			}
		case "aliased_import":
			name, alias := splitAliased(child, source)
			if module != "" && name != "" && alias != "" {
				r.bindings[alias] = module + "." + name
			}
		}
	}
}

func splitAliased(node *sitter.Node, source []byte) (path, alias string) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "dotted_name":
			path = child.Content(source)
		case "identifier":
			alias = child.Content(source)
		}
	}
	return path, alias
}

// Resolve returns the fully-qualified form of a written call name, or ""
// when it is not statically determinable. Only the root segment is
// rewritten: `np.loadtxt` with `import numpy as np` becomes
// `numpy.loadtxt`.
func (r *Resolver) Resolve(written string) string {
	if written == "" {
		return ""
	}
	root := written
	rest := ""
	if idx := strings.IndexByte(written, '.'); idx >= 0 {
		root = written[:idx]
		rest = written[idx:]
	}
	qualified, ok := r.bindings[root]
	if !ok {
		return ""
	}
	return qualified + rest
}

// Bindings exposes the alias table for import records.
func (r *Resolver) Bindings() map[string]string {
	out := make(map[string]string, len(r.bindings))
	for k, v := range r.bindings {
		out[k] = v
	}
	return out
}
