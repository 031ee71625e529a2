package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, SeverityCritical > SeverityHigh)
	assert.True(t, SeverityHigh > SeverityMedium)
	assert.True(t, SeverityMedium > SeverityLow)
}

func TestSeverityStrings(t *testing.T) {
	assert.Equal(t, "CRITICAL", SeverityCritical.String())
	assert.Equal(t, "critical", SeverityCritical.Key())
	assert.Equal(t, "low", SeverityLow.Key())
}

func TestIssueJSONShape(t *testing.T) {
	issue := Issue{
		Category:    CategoryBlockingAsync,
		Severity:    SeverityCritical,
		Line:        4,
		EndLine:     4,
		Description: "blocking call",
		Suggestion:  "use aiofiles.open",
		Function:    "fetch",
	}

	data, err := json.Marshal(issue)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "blocking_io_in_async", decoded["category"])
	assert.Equal(t, "critical", decoded["severity"])
	assert.Equal(t, float64(4), decoded["line_number"])
	assert.Equal(t, float64(4), decoded["end_line_number"])
	assert.Equal(t, "fetch", decoded["function_name"])
	// Empty snippet is omitted, not serialized as null text.
	_, present := decoded["code_snippet"]
	assert.False(t, present)
}

func TestSummarizeCountsAgree(t *testing.T) {
	issues := []Issue{
		{Category: CategoryRepeatedQuery, Severity: SeverityHigh},
		{Category: CategoryRepeatedQuery, Severity: SeverityHigh},
		{Category: CategoryBlockingAsync, Severity: SeverityCritical},
		{Category: CategoryInefficientLoop, Severity: SeverityMedium},
		{Category: CategoryMemoryLoad, Severity: SeverityMedium},
	}

	summary := Summarize(issues)
	assert.Equal(t, 5, summary.TotalIssues)
	assert.Equal(t, 5, summary.BySeverity.Total())
	assert.Equal(t, 1, summary.BySeverity.Critical)
	assert.Equal(t, 2, summary.BySeverity.High)
	assert.Equal(t, 2, summary.BySeverity.Medium)

	categoryTotal := 0
	for _, count := range summary.ByCategory {
		categoryTotal += count
	}
	assert.Equal(t, summary.TotalIssues, categoryTotal)
	assert.Equal(t, 2, summary.ByCategory[string(CategoryRepeatedQuery)])
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.TotalIssues)
	assert.Equal(t, 0, summary.BySeverity.Total())
	// All categories are present even when empty.
	assert.Len(t, summary.ByCategory, len(AllCategories()))
}

func TestCalculateScore(t *testing.T) {
	result := NewAnalysisResult()
	result.CalculateScore()
	assert.Equal(t, 100, result.PerformanceScore)

	result.AddIssue(Issue{Category: CategoryBlockingAsync, Severity: SeverityCritical})
	result.CalculateScore()
	assert.Less(t, result.PerformanceScore, 100)
	assert.GreaterOrEqual(t, result.PerformanceScore, 0)
}

func TestAddIssueTracksCounts(t *testing.T) {
	result := NewAnalysisResult()
	result.AddIssue(Issue{Category: CategoryMemoryLoad, Severity: SeverityMedium})
	result.AddIssue(Issue{Category: CategoryMemoryLoad, Severity: SeverityMedium})

	assert.Equal(t, 2, result.TotalIssues)
	assert.Equal(t, 2, result.IssuesBySeverity["MEDIUM"])
	assert.Equal(t, 2, result.IssuesByCategory[string(CategoryMemoryLoad)])
}
