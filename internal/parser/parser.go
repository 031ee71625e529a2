package parser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

var (
	// ErrAmbiguousSource is returned when a caller supplies both or neither
	// of an in-memory source and a file path.
	ErrAmbiguousSource = errors.New("exactly one of source text or file path must be provided")

	// ErrSyntax is returned when the source does not parse. The message is
	// deliberately generic: the raw source is never echoed back.
	ErrSyntax = errors.New("source contains syntax errors")
)

// Options selects the source unit to parse. Exactly one of Source or Path
// must be set.
type Options struct {
	Source []byte
	Path   string
}

// Tree is a parsed Python source unit: the tree-sitter CST plus the raw
// bytes it was parsed from. It is immutable after Parse returns.
type Tree struct {
	tree   *sitter.Tree
	source []byte
	lines  []string
}

// Parse parses one Python source unit. A missing file surfaces as a
// resource error (wrapping fs.ErrNotExist) distinct from ErrSyntax, so
// callers can tell bad input from bad code.
func Parse(opts Options) (*Tree, error) {
	hasSource := opts.Source != nil
	hasPath := opts.Path != ""
	if hasSource == hasPath {
		return nil, ErrAmbiguousSource
	}

	source := opts.Source
	if hasPath {
		data, err := os.ReadFile(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", opts.Path, err)
		}
		source = data
	}

	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())

	tree, err := p.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}

	root := tree.RootNode()
	if root == nil || root.HasError() {
		return nil, ErrSyntax
	}

	return &Tree{
		tree:   tree,
		source: source,
		lines:  strings.Split(string(source), "\n"),
	}, nil
}

func (t *Tree) Root() *sitter.Node {
	return t.tree.RootNode()
}

func (t *Tree) Source() []byte {
	return t.source
}

// LineCount reports the number of lines in the source unit.
func (t *Tree) LineCount() int {
	return len(t.lines)
}

// Segment returns the literal source text of an inclusive 1-based line
// range, clamped to the unit's bounds. An empty string means the range is
// entirely outside the source.
func (t *Tree) Segment(startLine, endLine int) string {
	if startLine < 1 {
		startLine = 1
	}
	if endLine > len(t.lines) {
		endLine = len(t.lines)
	}
	if startLine > endLine {
		return ""
	}
	return strings.Join(t.lines[startLine-1:endLine], "\n")
}

// Content returns the source text covered by a node.
func (t *Tree) Content(n *sitter.Node) string {
	return n.Content(t.source)
}

// StartLine and EndLine convert a node's zero-based points to 1-based lines.
func StartLine(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

func EndLine(n *sitter.Node) int {
	return int(n.EndPoint().Row) + 1
}
