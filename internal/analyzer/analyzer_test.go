package analyzer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyperfcheck/internal/config"
	"pyperfcheck/internal/models"
)

func TestAnalyzeSampleFile(t *testing.T) {
	engine := NewAnalyzer()
	result, err := engine.AnalyzeFiles([]string{filepath.Join("..", "..", "testdata", "sample.py")})
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, 5, result.TotalIssues)
	assert.Equal(t, 1, result.IssuesBySeverity["CRITICAL"])
	assert.Equal(t, 1, result.IssuesBySeverity["HIGH"])
	assert.Equal(t, 3, result.IssuesBySeverity["MEDIUM"])
	assert.Equal(t, 1, result.IssuesByCategory[string(models.CategoryRepeatedQuery)])
	assert.Equal(t, 1, result.IssuesByCategory[string(models.CategoryBlockingAsync)])
	assert.Equal(t, 2, result.IssuesByCategory[string(models.CategoryInefficientLoop)])
	assert.Equal(t, 1, result.IssuesByCategory[string(models.CategoryMemoryLoad)])
	assert.Less(t, result.PerformanceScore, 100)
}

func TestAnalyzeFilesSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.py")
	bad := filepath.Join(dir, "bad.py")
	require.NoError(t, os.WriteFile(good, []byte("def ok():\n    return 1\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("def broken(:\n"), 0o644))

	engine := NewAnalyzer()
	result, err := engine.AnalyzeFiles([]string{good, bad})
	require.NoError(t, err)

	assert.Equal(t, []string{good}, result.Files)
	assert.Equal(t, 0, result.TotalIssues)
	assert.Equal(t, 100, result.PerformanceScore)
}

func TestAnalyzeSource(t *testing.T) {
	engine := NewAnalyzer()
	issues, err := engine.AnalyzeSource([]byte(`async def wait():
    time.sleep(1)
`))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, models.CategoryBlockingAsync, issues[0].Category)
}

func TestDetectorNames(t *testing.T) {
	engine := NewAnalyzer()
	assert.Equal(t, 4, engine.GetDetectorCount())
	assert.Contains(t, engine.GetDetectorNames(), "Repeated Query Detector")
}

func TestJSONReport(t *testing.T) {
	result := models.NewAnalysisResult()
	result.Files = append(result.Files, "app.py")
	result.AddIssue(models.Issue{
		Category:    models.CategoryMemoryLoad,
		Severity:    models.SeverityMedium,
		Line:        3,
		EndLine:     3,
		Description: "whole-file read",
		Suggestion:  "stream it",
	})
	result.CalculateScore()
	result.AnalysisDuration = "1ms"

	report := NewReportGenerator("json").Generate(result)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(report), &decoded))
	assert.Equal(t, float64(1), decoded["total_issues"])

	issues, ok := decoded["issues"].([]any)
	require.True(t, ok)
	require.Len(t, issues, 1)
	first := issues[0].(map[string]any)
	assert.Equal(t, "memory_load", first["category"])
	assert.Equal(t, "medium", first["severity"])
}

func TestConsoleReportWithoutColors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.Colors = false

	result := models.NewAnalysisResult()
	result.Files = append(result.Files, "app.py")
	result.AddIssue(models.Issue{
		Category:    models.CategoryRepeatedQuery,
		Severity:    models.SeverityHigh,
		Line:        7,
		EndLine:     7,
		Description: "query in loop",
		Suggestion:  "batch it",
		Function:    "sync_users",
	})
	result.CalculateScore()
	result.AnalysisDuration = "2ms"

	report := NewReportGeneratorWithConfig(cfg).Generate(result)

	assert.Contains(t, report, "Performance Score")
	assert.Contains(t, report, "REPEATED_QUERY_IN_LOOP")
	assert.Contains(t, report, "in function 'sync_users'")
	assert.Contains(t, report, "batch it")
}
