package extractor

// Record types produced by the extraction passes. All of them are plain
// data, built once per source unit and never mutated afterwards.

type FunctionInfo struct {
	Name          string
	StartLine     int
	EndLine       int
	IsAsync       bool
	Params        []string
	Decorators    []string
	ReturnType    string
	Docstring     string
	InferredTypes map[string]string
}

type LoopKind string

const (
	LoopFor           LoopKind = "for"
	LoopWhile         LoopKind = "while"
	LoopComprehension LoopKind = "comprehension"
)

type LoopInfo struct {
	Kind            LoopKind
	StartLine       int
	EndLine         int
	FunctionName    string // empty for top-level loops
	NestingLevel    int    // number of enclosing loops, 0 at top level
	InAsyncFunction bool
}

type ImportInfo struct {
	Module         string
	Names          []string
	Line           int
	IsFrom         bool
	Aliases        map[string]string
	ResolvedModule string // empty for relative imports
}

type CallInfo struct {
	Name            string // as written, e.g. "db.objects.filter"
	Line            int
	FunctionName    string // empty outside any function
	InLoop          bool
	InAsyncFunction bool
	ResolvedName    string // fully-qualified, empty when inference fails
}

// ConcatInfo records an augmented `+=` assignment found inside a loop body.
// The inefficient-loop rule needs to know whether the target existed before
// the loop started and whether it looks like a string.
type ConcatInfo struct {
	Target             string
	TargetType         string // inferred literal type, "" when unknown
	Line               int
	LoopStartLine      int
	FunctionName       string
	DefinedOutsideLoop bool
}
