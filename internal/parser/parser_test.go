package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequiresExactlyOneInput(t *testing.T) {
	_, err := Parse(Options{})
	require.ErrorIs(t, err, ErrAmbiguousSource)

	_, err = Parse(Options{Source: []byte("x = 1\n"), Path: "whatever.py"})
	require.ErrorIs(t, err, ErrAmbiguousSource)
}

func TestParseSource(t *testing.T) {
	tree, err := Parse(Options{Source: []byte("def greet():\n    return 'hi'\n")})
	require.NoError(t, err)
	require.NotNil(t, tree.Root())
	assert.Equal(t, "module", tree.Root().Type())
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse(Options{Source: []byte("def broken(:\n    pass\n")})
	require.ErrorIs(t, err, ErrSyntax)
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(Options{Path: filepath.Join(t.TempDir(), "nope.py")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, ErrSyntax)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ok.py")
	require.NoError(t, os.WriteFile(path, []byte("value = 42\n"), 0o644))

	tree, err := Parse(Options{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "value = 42", tree.Segment(1, 1))
}

func TestSegment(t *testing.T) {
	tree, err := Parse(Options{Source: []byte("a = 1\nb = 2\nc = 3\n")})
	require.NoError(t, err)

	assert.Equal(t, "a = 1\nb = 2", tree.Segment(1, 2))
	assert.Equal(t, "c = 3", tree.Segment(3, 3))
	// Out-of-range requests clamp instead of panicking.
	assert.Equal(t, "a = 1\nb = 2\nc = 3\n", tree.Segment(0, 99))
	assert.Equal(t, "", tree.Segment(10, 20))
}

func TestResolverImportAliases(t *testing.T) {
	src := `import os
import numpy as np
from os.path import join as j, exists
import requests
`
	tree, err := Parse(Options{Source: []byte(src)})
	require.NoError(t, err)

	r := NewResolver(tree)

	assert.Equal(t, "numpy.loadtxt", r.Resolve("np.loadtxt"))
	assert.Equal(t, "os.path.join", r.Resolve("j"))
	assert.Equal(t, "os.path.exists", r.Resolve("exists"))
	assert.Equal(t, "os.system", r.Resolve("os.system"))
	assert.Equal(t, "requests.get", r.Resolve("requests.get"))

	// Unbound roots are not guessed at.
	assert.Equal(t, "", r.Resolve("session.query"))
	assert.Equal(t, "", r.Resolve("open"))
}

func TestResolverRelativeImportBindsNothing(t *testing.T) {
	tree, err := Parse(Options{Source: []byte("from . import sibling\n")})
	require.NoError(t, err)

	r := NewResolver(tree)
	assert.Equal(t, "", r.Resolve("sibling.helper"))
}

func TestResolverInlineImport(t *testing.T) {
	src := `def lazy():
    import pickle
    return pickle.load
`
	tree, err := Parse(Options{Source: []byte(src)})
	require.NoError(t, err)

	r := NewResolver(tree)
	assert.Equal(t, "pickle.load", r.Resolve("pickle.load"))
}
