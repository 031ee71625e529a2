package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEveryPatternHasLabelAndEntries(t *testing.T) {
	tables := map[string][]Pattern{
		"orm":      ORMQueries,
		"blocking": BlockingCalls,
		"memory":   MemoryLoads,
	}
	for name, table := range tables {
		for _, p := range table {
			assert.NotEmpty(t, p.Label, "%s pattern without label", name)
			assert.NotEmpty(t, append(p.Qualified, p.Written...), "%s pattern %q matches nothing", name, p.Label)
		}
	}
}

func TestMatchORMQueryWrittenFallback(t *testing.T) {
	framework, ok := MatchORMQuery("Profile.objects.get", "")
	assert.True(t, ok)
	assert.Equal(t, "Django ORM", framework)

	framework, ok = MatchORMQuery("self.session.query", "")
	assert.True(t, ok)
	assert.Equal(t, "SQLAlchemy", framework)

	_, ok = MatchORMQuery("json.dumps", "")
	assert.False(t, ok)
}

func TestMatchResolvedNameIsAuthoritative(t *testing.T) {
	// Resolved to a known module: qualified prefix matching applies.
	alt, ok := MatchBlockingCall("requests.get", "requests.get")
	assert.True(t, ok)
	assert.Equal(t, "aiohttp.ClientSession", alt)

	// Resolved to an unknown module: written-name heuristics are skipped,
	// even though the bare name would match.
	_, ok = MatchBlockingCall("open", "mylib.open")
	assert.False(t, ok)

	// Unresolved: the heuristic fallback fires.
	_, ok = MatchBlockingCall("open", "")
	assert.True(t, ok)
}

func TestMatchBlockingCallAlternatives(t *testing.T) {
	alt, ok := MatchBlockingCall("time.sleep", "time.sleep")
	assert.True(t, ok)
	assert.Equal(t, "asyncio.sleep", alt)

	alt, ok = MatchBlockingCall("subprocess.run", "")
	assert.True(t, ok)
	assert.Equal(t, "asyncio.create_subprocess_exec", alt)
}

func TestMatchMemoryLoad(t *testing.T) {
	_, ok := MatchMemoryLoad("handle.read", "")
	assert.True(t, ok)

	_, ok = MatchMemoryLoad("config.readlines", "")
	assert.True(t, ok)

	_, ok = MatchMemoryLoad("json.load", "json.load")
	assert.True(t, ok)

	// json.loads parses an in-memory string; it is not a whole-file load.
	_, ok = MatchMemoryLoad("json.loads", "json.loads")
	assert.False(t, ok)
	_, ok = MatchMemoryLoad("json.loads", "")
	assert.False(t, ok)

	// Suffix matching respects the dot boundary.
	_, ok = MatchMemoryLoad("table.spread", "")
	assert.False(t, ok)
}
