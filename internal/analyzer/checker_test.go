package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyperfcheck/internal/models"
	"pyperfcheck/internal/parser"
)

func mustChecker(t *testing.T, src string) *Checker {
	t.Helper()
	checker, err := NewChecker(parser.Options{Source: []byte(src)})
	require.NoError(t, err)
	return checker
}

func TestCheckAllEmptyForCleanSource(t *testing.T) {
	checker := mustChecker(t, `def add(a, b):
    return a + b


def greet(name):
    return "hello " + name
`)
	assert.Empty(t, checker.CheckAll())
	assert.Equal(t, 0, checker.GetSummary().TotalIssues)
}

func TestBlockingOpenInAsync(t *testing.T) {
	checker := mustChecker(t, `async def fetch(path):
    handle = open(path)
    return handle
`)
	issues := checker.CheckAll()
	require.Len(t, issues, 1)

	issue := issues[0]
	assert.Equal(t, models.CategoryBlockingAsync, issue.Category)
	assert.Equal(t, models.SeverityCritical, issue.Severity)
	assert.Equal(t, 2, issue.Line)
	assert.Equal(t, "fetch", issue.Function)
	assert.Contains(t, issue.Suggestion, "aiofiles.open")
}

func TestRepeatedQueryInLoop(t *testing.T) {
	checker := mustChecker(t, `def sync_users(users):
    for user in users:
        profile = Profile.objects.get(user=user)
`)
	issues := checker.CheckAll()
	require.Len(t, issues, 1)

	issue := issues[0]
	assert.Equal(t, models.CategoryRepeatedQuery, issue.Category)
	assert.Equal(t, models.SeverityHigh, issue.Severity)
	assert.Equal(t, 3, issue.Line)
	assert.Contains(t, issue.Description, "Django ORM")
}

func TestRepeatedQueryOutsideLoopNotFlagged(t *testing.T) {
	checker := mustChecker(t, `def load_user(pk):
    return Profile.objects.get(pk=pk)
`)
	assert.Empty(t, checker.CheckRepeatedQueries())
}

func TestOneIssuePerORMCallInLoop(t *testing.T) {
	checker := mustChecker(t, `def a(xs):
    for x in xs:
        One.objects.filter(x=x)


def b(xs):
    for x in xs:
        Two.objects.filter(x=x)


def c(xs):
    for x in xs:
        Three.objects.filter(x=x)
`)
	issues := checker.CheckRepeatedQueries()
	require.Len(t, issues, 3)
	for _, issue := range issues {
		assert.Equal(t, models.SeverityHigh, issue.Severity)
		assert.Equal(t, models.CategoryRepeatedQuery, issue.Category)
	}
}

func TestStringConcatInLoop(t *testing.T) {
	checker := mustChecker(t, `def render(items):
    result = ""
    for item in items:
        result += str(item)
    return result
`)
	issues := checker.CheckAll()
	require.Len(t, issues, 1)

	issue := issues[0]
	assert.Equal(t, models.CategoryInefficientLoop, issue.Category)
	assert.Equal(t, models.SeverityMedium, issue.Severity)
	assert.Equal(t, 4, issue.Line)
}

func TestNumericAccumulationNotFlagged(t *testing.T) {
	checker := mustChecker(t, `def total(items):
    count = 0
    for item in items:
        count += 1
    return count
`)
	assert.Empty(t, checker.CheckInefficientLoops())
}

func TestDeepNestingReportedOncePerChain(t *testing.T) {
	checker := mustChecker(t, `def cube(a, b, c, d):
    for i in a:
        for j in b:
            for k in c:
                for l in d:
                    pass
`)
	issues := checker.CheckInefficientLoops()
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Description, "4 deep")
}

func TestDoubleNestingNotFlagged(t *testing.T) {
	checker := mustChecker(t, `def pairs(a, b):
    for i in a:
        for j in b:
            pass
`)
	assert.Empty(t, checker.CheckInefficientLoops())
}

func TestMemoryLoadOutsideLoop(t *testing.T) {
	checker := mustChecker(t, `def slurp(path):
    with open(path) as handle:
        data = handle.read()
    return data
`)
	issues := checker.CheckAll()
	require.Len(t, issues, 1)

	issue := issues[0]
	assert.Equal(t, models.CategoryMemoryLoad, issue.Category)
	assert.Equal(t, models.SeverityMedium, issue.Severity)
	assert.Equal(t, 3, issue.Line)
}

func TestResolvedImportSuppressesHeuristicMatch(t *testing.T) {
	// `open` here resolves to mylib.open, which is not a known blocking
	// call; the bare-name heuristic must not fire.
	checker := mustChecker(t, `from mylib import open


async def fetch(path):
    return open(path)
`)
	assert.Empty(t, checker.CheckBlockingCalls())
}

const mixedSource = `import requests


async def poll(urls):
    for url in urls:
        requests.get(url)


def collect(users):
    rows = ""
    for user in users:
        Profile.objects.filter(user=user)
        rows += str(user)
    return rows
`

func TestCheckAllSortedBySeverityThenLine(t *testing.T) {
	checker := mustChecker(t, mixedSource)
	issues := checker.CheckAll()
	require.NotEmpty(t, issues)

	for i := 1; i < len(issues); i++ {
		prev, cur := issues[i-1], issues[i]
		assert.GreaterOrEqual(t, int(prev.Severity), int(cur.Severity))
		if prev.Severity == cur.Severity {
			assert.LessOrEqual(t, prev.Line, cur.Line)
		}
	}

	assert.Equal(t, models.CategoryBlockingAsync, issues[0].Category)
}

func TestCheckAllIdempotent(t *testing.T) {
	checker := mustChecker(t, mixedSource)
	first := checker.CheckAll()
	second := checker.CheckAll()
	assert.Equal(t, first, second)
}

func TestSummaryCountsAgree(t *testing.T) {
	checker := mustChecker(t, mixedSource)
	summary := checker.GetSummary()

	assert.Equal(t, summary.TotalIssues, summary.BySeverity.Total())

	categoryTotal := 0
	for _, count := range summary.ByCategory {
		categoryTotal += count
	}
	assert.Equal(t, summary.TotalIssues, categoryTotal)
}

func TestFilters(t *testing.T) {
	checker := mustChecker(t, mixedSource)

	for _, issue := range checker.FilterBySeverity(models.SeverityCritical) {
		assert.Equal(t, models.SeverityCritical, issue.Severity)
	}
	critical := checker.FilterBySeverity(models.SeverityCritical)
	require.Len(t, critical, 1)

	queries := checker.FilterByCategory(models.CategoryRepeatedQuery)
	require.Len(t, queries, 1)
	assert.Equal(t, "collect", queries[0].Function)
}

func TestSyntaxErrorIsFatal(t *testing.T) {
	_, err := NewChecker(parser.Options{Source: []byte("def broken(:\n")})
	require.ErrorIs(t, err, parser.ErrSyntax)
}

func TestUsageErrorIsFatal(t *testing.T) {
	_, err := NewChecker(parser.Options{})
	require.ErrorIs(t, err, parser.ErrAmbiguousSource)
}
