package models

import "encoding/json"

type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Key is the lowercase wire form used in JSON output and summary maps.
func (s Severity) Key() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Key())
}

type IssueCategory string

const (
	CategoryRepeatedQuery   IssueCategory = "repeated_query_in_loop"
	CategoryBlockingAsync   IssueCategory = "blocking_io_in_async"
	CategoryInefficientLoop IssueCategory = "inefficient_loop"
	CategoryMemoryLoad      IssueCategory = "memory_load"
)

// AllCategories is the closed category set. Adding a category is a schema
// change, not a runtime registration.
func AllCategories() []IssueCategory {
	return []IssueCategory{
		CategoryRepeatedQuery,
		CategoryBlockingAsync,
		CategoryInefficientLoop,
		CategoryMemoryLoad,
	}
}

type Issue struct {
	Category    IssueCategory `json:"category"`
	Severity    Severity      `json:"severity"`
	Line        int           `json:"line_number"`
	EndLine     int           `json:"end_line_number"`
	Description string        `json:"description"`
	Suggestion  string        `json:"suggestion"`
	CodeSnippet string        `json:"code_snippet,omitempty"`
	Function    string        `json:"function_name,omitempty"`
}

type Summary struct {
	TotalIssues int            `json:"total_issues"`
	BySeverity  SeverityCounts `json:"by_severity"`
	ByCategory  map[string]int `json:"by_category"`
}

type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

func (sc SeverityCounts) Total() int {
	return sc.Critical + sc.High + sc.Medium + sc.Low
}

// Summarize builds the summary shape consumed by callers. Both the severity
// and category breakdowns always sum to TotalIssues.
func Summarize(issues []Issue) Summary {
	s := Summary{
		TotalIssues: len(issues),
		ByCategory:  make(map[string]int, 4),
	}
	for _, cat := range AllCategories() {
		s.ByCategory[string(cat)] = 0
	}
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityCritical:
			s.BySeverity.Critical++
		case SeverityHigh:
			s.BySeverity.High++
		case SeverityMedium:
			s.BySeverity.Medium++
		case SeverityLow:
			s.BySeverity.Low++
		}
		s.ByCategory[string(issue.Category)]++
	}
	return s
}

type AnalysisResult struct {
	Files            []string       `json:"files_analyzed"`
	TotalIssues      int            `json:"total_issues"`
	IssuesBySeverity map[string]int `json:"issues_by_severity"`
	IssuesByCategory map[string]int `json:"issues_by_category"`
	Issues           []Issue        `json:"issues"`
	PerformanceScore int            `json:"performance_score"` // 0-100 scale
	AnalysisDuration string         `json:"analysis_duration"`
}

func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		Files:            make([]string, 0),
		Issues:           make([]Issue, 0),
		IssuesBySeverity: make(map[string]int),
		IssuesByCategory: make(map[string]int),
	}
}

func (ar *AnalysisResult) AddIssue(issue Issue) {
	ar.Issues = append(ar.Issues, issue)
	ar.TotalIssues++
	ar.IssuesBySeverity[issue.Severity.String()]++
	ar.IssuesByCategory[string(issue.Category)]++
}

func (ar *AnalysisResult) CalculateScore() {
	if ar.TotalIssues == 0 {
		ar.PerformanceScore = 100
		return
	}

	penalty := 0
	for _, issue := range ar.Issues {
		basePenalty := 0
		switch issue.Severity {
		case SeverityLow:
			basePenalty = 5
		case SeverityMedium:
			basePenalty = 15
		case SeverityHigh:
			basePenalty = 30
		case SeverityCritical:
			basePenalty = 50
		}

		// Weight database and event-loop issues harder: they multiply with
		// request volume, unlike purely local inefficiencies.
		switch issue.Category {
		case CategoryRepeatedQuery:
			basePenalty = int(float64(basePenalty) * 1.5)
		case CategoryBlockingAsync:
			basePenalty = int(float64(basePenalty) * 1.2)
		}

		penalty += basePenalty
	}

	score := max(100-penalty, 0)
	ar.PerformanceScore = score
}
