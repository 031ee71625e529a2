package detectors

import (
	"fmt"

	"pyperfcheck/internal/analyzer/catalog"
	"pyperfcheck/internal/config"
	"pyperfcheck/internal/extractor"
	"pyperfcheck/internal/models"
)

type RepeatedQueryDetector struct {
	config *config.Config
}

func NewRepeatedQueryDetector() *RepeatedQueryDetector {
	return &RepeatedQueryDetector{}
}

func NewRepeatedQueryDetectorWithConfig(cfg *config.Config) *RepeatedQueryDetector {
	return &RepeatedQueryDetector{config: cfg}
}

func (d *RepeatedQueryDetector) Name() string {
	return "Repeated Query Detector"
}

// Detect flags every ORM-classified call that sits inside a loop: one
// query per iteration instead of one query in aggregate.
func (d *RepeatedQueryDetector) Detect(ex *extractor.Extraction) []models.Issue {
	if d.config != nil && !d.config.IsRuleEnabled("repeated_query") {
		return nil
	}

	issues := make([]models.Issue, 0)
	for _, call := range ex.Calls() {
		if !call.InLoop {
			continue
		}
		framework, ok := catalog.MatchORMQuery(call.Name, call.ResolvedName)
		if !ok {
			continue
		}
		issues = append(issues, models.Issue{
			Category:    models.CategoryRepeatedQuery,
			Severity:    models.SeverityHigh,
			Line:        call.Line,
			EndLine:     call.Line,
			Description: fmt.Sprintf("%s query '%s' executed on every loop iteration", framework, call.Name),
			Suggestion: "Fetch the rows once before the loop (query on the full key set, " +
				"use select_related/prefetch_related or an IN clause) and index the results in a dict.",
			CodeSnippet: ex.SourceSegment(call.Line, call.Line),
			Function:    call.FunctionName,
		})
	}
	return issues
}
