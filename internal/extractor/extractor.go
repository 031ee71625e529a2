package extractor

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"pyperfcheck/internal/parser"
)

// Extraction is the structural model of one parsed source unit: four flat
// record collections plus the concat records the loop rule needs. It is
// computed eagerly by Extract and immutable afterwards, so one instance can
// be shared freely across goroutines and repeated accessor calls always
// see the same collections.
type Extraction struct {
	tree      *parser.Tree
	functions []FunctionInfo
	loops     []LoopInfo
	imports   []ImportInfo
	calls     []CallInfo
	concats   []ConcatInfo
}

// Extract runs all extraction passes over a parsed tree. Each pass is an
// independent depth-first walk maintaining its own scope and loop-nesting
// state.
func Extract(t *parser.Tree) *Extraction {
	resolver := parser.NewResolver(t)
	return &Extraction{
		tree:      t,
		functions: extractFunctions(t),
		loops:     extractLoops(t),
		imports:   extractImports(t),
		calls:     extractCalls(t, resolver),
		concats:   extractConcats(t),
	}
}

func (e *Extraction) Functions() []FunctionInfo { return e.functions }
func (e *Extraction) Loops() []LoopInfo         { return e.loops }
func (e *Extraction) Imports() []ImportInfo     { return e.imports }
func (e *Extraction) Calls() []CallInfo         { return e.calls }
func (e *Extraction) Concats() []ConcatInfo     { return e.concats }

// SourceSegment returns the literal source text of an inclusive 1-based
// line range, for use as an issue's code snippet.
func (e *Extraction) SourceSegment(startLine, endLine int) string {
	return e.tree.Segment(startLine, endLine)
}

// Node-kind helpers shared by the passes.

func isLoopNode(nodeType string) bool {
	switch nodeType {
	case "for_statement", "while_statement",
		"list_comprehension", "set_comprehension",
		"dictionary_comprehension", "generator_expression":
		return true
	}
	return false
}

func loopKind(nodeType string) LoopKind {
	switch nodeType {
	case "for_statement":
		return LoopFor
	case "while_statement":
		return LoopWhile
	default:
		return LoopComprehension
	}
}

func isScopeNode(nodeType string) bool {
	return nodeType == "function_definition" || nodeType == "lambda"
}

// isAsyncDef reports whether a function_definition carries the async
// keyword. Lambdas are never asynchronous.
func isAsyncDef(node *sitter.Node) bool {
	if node.Type() != "function_definition" {
		return false
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "async" {
			return true
		}
	}
	return false
}

func scopeName(node *sitter.Node, source []byte) string {
	if node.Type() == "lambda" {
		return "<lambda>"
	}
	if name := node.ChildByFieldName("name"); name != nil {
		return name.Content(source)
	}
	return ""
}

// --- function pass ---

type functionPass struct {
	source    []byte
	functions []FunctionInfo
}

func extractFunctions(t *parser.Tree) []FunctionInfo {
	p := &functionPass{source: t.Source(), functions: make([]FunctionInfo, 0)}
	p.walk(t.Root())
	return p.functions
}

func (p *functionPass) walk(node *sitter.Node) {
	switch node.Type() {
	case "decorated_definition":
		def := node.ChildByFieldName("definition")
		if def != nil && def.Type() == "function_definition" {
			p.emit(def, p.decoratorNames(node))
			return
		}
	case "function_definition":
		p.emit(node, nil)
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		p.walk(node.Child(i))
	}
}

func (p *functionPass) decoratorNames(decorated *sitter.Node) []string {
	var names []string
	for i := 0; i < int(decorated.ChildCount()); i++ {
		child := decorated.Child(i)
		if child.Type() == "decorator" {
			name := strings.TrimPrefix(child.Content(p.source), "@")
			names = append(names, strings.TrimSpace(name))
		}
	}
	return names
}

func (p *functionPass) emit(fn *sitter.Node, decorators []string) {
	info := FunctionInfo{
		Name:          scopeName(fn, p.source),
		StartLine:     parser.StartLine(fn),
		EndLine:       parser.EndLine(fn),
		IsAsync:       isAsyncDef(fn),
		Decorators:    decorators,
		InferredTypes: make(map[string]string),
	}

	if params := fn.ChildByFieldName("parameters"); params != nil {
		info.Params = paramNames(params, p.source)
		annotateParams(params, p.source, info.InferredTypes)
	}
	if ret := fn.ChildByFieldName("return_type"); ret != nil {
		info.ReturnType = ret.Content(p.source)
	}

	body := fn.ChildByFieldName("body")
	if body != nil {
		info.Docstring = docstring(body, p.source)
		inferAssignedTypes(body, p.source, info.InferredTypes)
	}

	p.functions = append(p.functions, info)

	// Nested defs are functions too.
	if body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			p.walk(body.Child(i))
		}
	}
}

func paramNames(params *sitter.Node, source []byte) []string {
	names := make([]string, 0, params.NamedChildCount())
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)
		switch child.Type() {
		case "identifier":
			names = append(names, child.Content(source))
		case "typed_parameter", "default_parameter", "typed_default_parameter":
			if name := firstIdentifier(child, source); name != "" {
				names = append(names, name)
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			if name := firstIdentifier(child, source); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

func firstIdentifier(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "identifier" {
			return child.Content(source)
		}
	}
	return ""
}

// annotateParams records explicit parameter annotations into the inferred
// type map (e.g. `def f(n: int)` yields n -> int).
func annotateParams(params *sitter.Node, source []byte, types map[string]string) {
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)
		switch child.Type() {
		case "typed_parameter", "typed_default_parameter":
			name := firstIdentifier(child, source)
			annotation := child.ChildByFieldName("type")
			if name != "" && annotation != nil {
				types[name] = annotation.Content(source)
			}
		}
	}
}

// inferAssignedTypes scans a function body for literal assignments and
// records the obvious type of each target. Nested defs keep their own
// scope and are not descended into. Inference misses simply leave the map
// entry absent.
func inferAssignedTypes(node *sitter.Node, source []byte, types map[string]string) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "function_definition", "lambda", "class_definition":
			continue
		case "assignment":
			left := child.ChildByFieldName("left")
			right := child.ChildByFieldName("right")
			if left != nil && right != nil && left.Type() == "identifier" {
				if typ := literalType(right, source); typ != "" {
					types[left.Content(source)] = typ
				}
			}
		}
		inferAssignedTypes(child, source, types)
	}
}

func literalType(node *sitter.Node, source []byte) string {
	switch node.Type() {
	case "string", "concatenated_string":
		return "str"
	case "integer":
		return "int"
	case "float":
		return "float"
	case "true", "false":
		return "bool"
	case "none":
		return "None"
	case "list", "list_comprehension":
		return "list"
	case "dictionary", "dictionary_comprehension":
		return "dict"
	case "set", "set_comprehension":
		return "set"
	case "tuple":
		return "tuple"
	case "call":
		// str(...), int(...) and friends are as good as literals.
		fn := node.ChildByFieldName("function")
		if fn != nil && fn.Type() == "identifier" {
			switch fn.Content(source) {
			case "str", "int", "float", "bool", "list", "dict", "set", "tuple":
				return fn.Content(source)
			}
		}
	}
	return ""
}

func docstring(body *sitter.Node, source []byte) string {
	first := body.NamedChild(0)
	if first == nil || first.Type() != "expression_statement" {
		return ""
	}
	str := first.NamedChild(0)
	if str == nil || str.Type() != "string" {
		return ""
	}
	return stripStringLiteral(str.Content(source))
}

func stripStringLiteral(s string) string {
	s = strings.TrimLeft(s, "rRbBuUfF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return s[len(q) : len(s)-len(q)]
		}
	}
	return s
}

// --- loop pass ---

type loopPass struct {
	source   []byte
	loops    []LoopInfo
	funcName string
	inAsync  bool
	depth    int
}

func extractLoops(t *parser.Tree) []LoopInfo {
	p := &loopPass{source: t.Source(), loops: make([]LoopInfo, 0)}
	p.walk(t.Root())
	return p.loops
}

func (p *loopPass) walk(node *sitter.Node) {
	nodeType := node.Type()

	if isScopeNode(nodeType) {
		// Parameter defaults evaluate in the enclosing scope, not as part
		// of the new function's body.
		if params := node.ChildByFieldName("parameters"); params != nil {
			p.walk(params)
		}
		oldName, oldAsync := p.funcName, p.inAsync
		p.funcName = scopeName(node, p.source)
		p.inAsync = isAsyncDef(node)
		if body := node.ChildByFieldName("body"); body != nil {
			p.walk(body)
		}
		p.funcName, p.inAsync = oldName, oldAsync
		return
	}

	if isLoopNode(nodeType) {
		p.loops = append(p.loops, LoopInfo{
			Kind:            loopKind(nodeType),
			StartLine:       parser.StartLine(node),
			EndLine:         parser.EndLine(node),
			FunctionName:    p.funcName,
			NestingLevel:    p.depth,
			InAsyncFunction: p.inAsync,
		})
		p.depth++
		for i := 0; i < int(node.ChildCount()); i++ {
			p.walk(node.Child(i))
		}
		p.depth--
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		p.walk(node.Child(i))
	}
}

// --- import pass ---

type importPass struct {
	source  []byte
	imports []ImportInfo
}

func extractImports(t *parser.Tree) []ImportInfo {
	p := &importPass{source: t.Source(), imports: make([]ImportInfo, 0)}
	p.walk(t.Root())
	return p.imports
}

func (p *importPass) walk(node *sitter.Node) {
	switch node.Type() {
	case "import_statement":
		p.emitImport(node)
		return
	case "import_from_statement":
		p.emitFromImport(node)
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		p.walk(node.Child(i))
	}
}

// emitImport handles `import a.b, c as d`: one record per imported module.
func (p *importPass) emitImport(node *sitter.Node) {
	line := parser.StartLine(node)
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "dotted_name":
			module := child.Content(p.source)
			p.imports = append(p.imports, ImportInfo{
				Module:         module,
				Line:           line,
				Aliases:        map[string]string{},
				ResolvedModule: module,
			})
		case "aliased_import":
			module, alias := aliasedParts(child, p.source)
			if module == "" {
				continue
			}
			aliases := map[string]string{}
			if alias != "" {
				aliases[alias] = module
			}
			p.imports = append(p.imports, ImportInfo{
				Module:         module,
				Line:           line,
				Aliases:        aliases,
				ResolvedModule: module,
			})
		}
	}
}

func (p *importPass) emitFromImport(node *sitter.Node) {
	info := ImportInfo{
		Line:    parser.StartLine(node),
		IsFrom:  true,
		Names:   make([]string, 0),
		Aliases: map[string]string{},
	}
	relative := false
	sawImport := false

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "import":
			sawImport = true
		case "relative_import":
			relative = true
			info.Module = child.Content(p.source)
		case "dotted_name":
			name := child.Content(p.source)
			if !sawImport {
				info.Module = name
			} else {
				info.Names = append(info.Names, name)
			}
		case "identifier":
			if sawImport {
				info.Names = append(info.Names, child.Content(p.source))
			}
		case "wildcard_import":
			info.Names = append(info.Names, "*")
		case "aliased_import":
			name, alias := aliasedParts(child, p.source)
			if name == "" {
				continue
			}
			info.Names = append(info.Names, name)
			if alias != "" && info.Module != "" {
				info.Aliases[alias] = info.Module + "." + name
			}
		}
	}

	if !relative {
		info.ResolvedModule = info.Module
	}
	if info.Module != "" || relative {
		p.imports = append(p.imports, info)
	}
}

func aliasedParts(node *sitter.Node, source []byte) (name, alias string) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "dotted_name":
			name = child.Content(source)
		case "identifier":
			alias = child.Content(source)
		}
	}
	return name, alias
}

// --- call pass ---

type callPass struct {
	source   []byte
	resolver *parser.Resolver
	calls    []CallInfo
	funcName string
	inAsync  bool
	loops    int
}

func extractCalls(t *parser.Tree, resolver *parser.Resolver) []CallInfo {
	p := &callPass{source: t.Source(), resolver: resolver, calls: make([]CallInfo, 0)}
	p.walk(t.Root())
	return p.calls
}

func (p *callPass) walk(node *sitter.Node) {
	nodeType := node.Type()

	if isScopeNode(nodeType) {
		// Decorators are siblings of the definition and parameter defaults
		// are walked here, so calls in either are attributed to the
		// enclosing context rather than the new function's body.
		if params := node.ChildByFieldName("parameters"); params != nil {
			p.walk(params)
		}
		oldName, oldAsync := p.funcName, p.inAsync
		p.funcName = scopeName(node, p.source)
		// A nested def does not inherit the outer async context; the loop
		// counter, by contrast, is a single walk-wide counter.
		p.inAsync = isAsyncDef(node)
		if body := node.ChildByFieldName("body"); body != nil {
			p.walk(body)
		}
		p.funcName, p.inAsync = oldName, oldAsync
		return
	}

	if isLoopNode(nodeType) {
		p.loops++
		for i := 0; i < int(node.ChildCount()); i++ {
			p.walk(node.Child(i))
		}
		p.loops--
		return
	}

	if nodeType == "call" {
		if fn := node.ChildByFieldName("function"); fn != nil {
			name := fn.Content(p.source)
			p.calls = append(p.calls, CallInfo{
				Name:            name,
				Line:            parser.StartLine(node),
				FunctionName:    p.funcName,
				InLoop:          p.loops > 0,
				InAsyncFunction: p.inAsync,
				ResolvedName:    p.resolver.Resolve(name),
			})
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		p.walk(node.Child(i))
	}
}

// --- concat pass ---

type loopFrame struct {
	startLine int
	snapshot  map[string]bool
}

type concatPass struct {
	source   []byte
	concats  []ConcatInfo
	funcName string
	vars     map[string]string
	frames   []loopFrame
}

func extractConcats(t *parser.Tree) []ConcatInfo {
	p := &concatPass{
		source:  t.Source(),
		concats: make([]ConcatInfo, 0),
		vars:    make(map[string]string),
	}
	p.walk(t.Root())
	return p.concats
}

func (p *concatPass) walk(node *sitter.Node) {
	nodeType := node.Type()

	if isScopeNode(nodeType) {
		oldName, oldVars, oldFrames := p.funcName, p.vars, p.frames
		p.funcName = scopeName(node, p.source)
		p.vars = make(map[string]string)
		p.frames = nil
		if params := node.ChildByFieldName("parameters"); params != nil {
			for _, name := range paramNames(params, p.source) {
				p.vars[name] = ""
			}
			annotateParams(params, p.source, p.vars)
		}
		if body := node.ChildByFieldName("body"); body != nil {
			p.walk(body)
		}
		p.funcName, p.vars, p.frames = oldName, oldVars, oldFrames
		return
	}

	if isLoopNode(nodeType) {
		snapshot := make(map[string]bool, len(p.vars))
		for name := range p.vars {
			snapshot[name] = true
		}
		p.frames = append(p.frames, loopFrame{
			startLine: parser.StartLine(node),
			snapshot:  snapshot,
		})
		for i := 0; i < int(node.ChildCount()); i++ {
			p.walk(node.Child(i))
		}
		p.frames = p.frames[:len(p.frames)-1]
		return
	}

	switch nodeType {
	case "assignment":
		left := node.ChildByFieldName("left")
		right := node.ChildByFieldName("right")
		if left != nil && left.Type() == "identifier" {
			typ := ""
			if right != nil {
				typ = literalType(right, p.source)
			}
			name := left.Content(p.source)
			if existing, ok := p.vars[name]; !ok || existing == "" {
				p.vars[name] = typ
			}
		}
	case "augmented_assignment":
		p.recordConcat(node)
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		p.walk(node.Child(i))
	}
}

// hasAugmentOp checks the operator of an augmented_assignment, via the
// grammar field when present and by scanning children otherwise.
func hasAugmentOp(node *sitter.Node, source []byte, want string) bool {
	if op := node.ChildByFieldName("operator"); op != nil {
		return op.Content(source) == want
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == want {
			return true
		}
	}
	return false
}

func (p *concatPass) recordConcat(node *sitter.Node) {
	if len(p.frames) == 0 {
		return
	}
	if !hasAugmentOp(node, p.source, "+=") {
		return
	}
	left := node.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		return
	}
	name := left.Content(p.source)
	frame := p.frames[len(p.frames)-1]

	p.concats = append(p.concats, ConcatInfo{
		Target:             name,
		TargetType:         p.vars[name],
		Line:               parser.StartLine(node),
		LoopStartLine:      frame.startLine,
		FunctionName:       p.funcName,
		DefinedOutsideLoop: frame.snapshot[name],
	})
}
