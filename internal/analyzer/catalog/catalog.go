// Package catalog holds the data-driven name-matching tables used to
// classify call sites. The tables are plain data: adding a framework or a
// blocking call is a slice entry, never a code change in the matcher.
package catalog

import "strings"

// Pattern classifies one family of calls. Qualified entries are compared
// against the resolved (fully-qualified) callee name; Written entries are
// the heuristic fallback compared against the name as it appears in the
// source. Label carries the category-specific payload: the framework name
// for ORM queries, the asynchronous alternative for blocking calls, the
// streaming suggestion for memory loads.
type Pattern struct {
	Qualified []string
	Written   []string
	Label     string
}

// Match classifies a call against a pattern table. A present resolved name
// is authoritative: it is matched exactly or by dotted prefix against the
// Qualified entries and the written-name heuristics are skipped, which
// keeps false positives down at the cost of under-reporting when
// resolution misses (the accepted bias). Without a resolved name the
// written name is matched by suffix against the Written entries.
func Match(written, resolved string, patterns []Pattern) (string, bool) {
	if resolved != "" {
		for _, p := range patterns {
			for _, q := range p.Qualified {
				if resolved == q || strings.HasPrefix(resolved, q+".") {
					return p.Label, true
				}
			}
		}
		return "", false
	}
	for _, p := range patterns {
		for _, w := range p.Written {
			if matchWritten(written, w) {
				return p.Label, true
			}
		}
	}
	return "", false
}

func matchWritten(name, pattern string) bool {
	if strings.HasPrefix(pattern, ".") {
		return strings.HasSuffix(name, pattern)
	}
	return name == pattern || strings.HasSuffix(name, "."+pattern)
}

// ORMQueries matches data-query calls that multiply with loop iterations.
var ORMQueries = []Pattern{
	{
		Label:     "Django ORM",
		Qualified: []string{"django.db.models"},
		Written: []string{
			".objects.filter", ".objects.get", ".objects.all",
			".objects.exclude", ".objects.create", ".objects.count",
			".objects.aggregate", ".objects.annotate",
		},
	},
	{
		Label:     "SQLAlchemy",
		Qualified: []string{"sqlalchemy"},
		Written: []string{
			"session.query", ".query.filter", ".query.filter_by",
			".query.all", ".query.first", "session.execute", "session.scalars",
		},
	},
	{
		Label:     "peewee",
		Qualified: []string{"peewee"},
		Written:   []string{".select().where", ".get_or_none", ".get_by_id"},
	},
	{
		Label:     "raw SQL",
		Qualified: []string{"sqlite3"},
		Written:   []string{"cursor.execute", ".executemany", "cursor.fetchall"},
	},
}

// BlockingCalls matches synchronous calls that stall an event loop. The
// label is the asynchronous replacement, when one exists.
var BlockingCalls = []Pattern{
	{
		Label:     "aiofiles.open",
		Qualified: []string{"io.open"},
		Written:   []string{"open"},
	},
	{
		Label:     "asyncio.sleep",
		Qualified: []string{"time.sleep"},
		Written:   []string{"time.sleep"},
	},
	{
		Label:     "aiohttp.ClientSession",
		Qualified: []string{"requests"},
		Written: []string{
			"requests.get", "requests.post", "requests.put",
			"requests.delete", "requests.head", "requests.request",
		},
	},
	{
		Label:     "aiohttp.ClientSession",
		Qualified: []string{"urllib.request"},
		Written:   []string{"urllib.request.urlopen", "urlopen"},
	},
	{
		Label:     "asyncio.open_connection",
		Qualified: []string{"socket.create_connection"},
		Written:   []string{"socket.create_connection"},
	},
	{
		Label:     "asyncio.create_subprocess_exec",
		Qualified: []string{"subprocess"},
		Written: []string{
			"subprocess.run", "subprocess.call", "subprocess.check_output",
			"subprocess.check_call", "subprocess.Popen",
		},
	},
	{
		Label:     "asyncio.create_subprocess_shell",
		Qualified: []string{"os.system"},
		Written:   []string{"os.system"},
	},
}

// MemoryLoads matches calls that pull an entire file or serialized
// structure into memory at once. The label is the streaming alternative.
var MemoryLoads = []Pattern{
	{
		Label:     "Read in chunks with .read(size) or iterate the file object",
		Qualified: []string{},
		Written:   []string{"read"},
	},
	{
		Label:     "Iterate over the file object line by line instead of readlines()",
		Qualified: []string{},
		Written:   []string{"readlines"},
	},
	{
		Label:     "Parse incrementally (e.g. ijson) instead of json.load on large files",
		Qualified: []string{"json.load"},
		Written:   []string{"json.load"},
	},
	{
		Label:     "Deserialize in bounded pieces; pickle.load holds the whole object in memory",
		Qualified: []string{"pickle.load"},
		Written:   []string{"pickle.load"},
	},
	{
		Label:     "Pass chunksize= and iterate the reader instead of loading the whole frame",
		Qualified: []string{"pandas.read_csv", "pandas.read_json"},
		Written:   []string{"read_csv", "read_json"},
	},
	{
		Label:     "Stream documents with yaml.safe_load_all",
		Qualified: []string{"yaml.safe_load", "yaml.load"},
		Written:   []string{"yaml.safe_load", "yaml.load"},
	},
}

// MatchORMQuery reports whether a call is an object-relational-mapping
// query and which framework it belongs to.
func MatchORMQuery(written, resolved string) (framework string, ok bool) {
	return Match(written, resolved, ORMQueries)
}

// MatchBlockingCall reports whether a call blocks the calling thread and
// the asynchronous alternative when known.
func MatchBlockingCall(written, resolved string) (alternative string, ok bool) {
	return Match(written, resolved, BlockingCalls)
}

// MatchMemoryLoad reports whether a call loads a whole structure into
// memory, with a streaming suggestion.
func MatchMemoryLoad(written, resolved string) (suggestion string, ok bool) {
	return Match(written, resolved, MemoryLoads)
}
