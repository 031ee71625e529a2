package detectors

import (
	"fmt"

	"pyperfcheck/internal/analyzer/catalog"
	"pyperfcheck/internal/config"
	"pyperfcheck/internal/extractor"
	"pyperfcheck/internal/models"
)

type MemoryLoadDetector struct {
	config *config.Config
}

func NewMemoryLoadDetector() *MemoryLoadDetector {
	return &MemoryLoadDetector{}
}

func NewMemoryLoadDetectorWithConfig(cfg *config.Config) *MemoryLoadDetector {
	return &MemoryLoadDetector{config: cfg}
}

func (d *MemoryLoadDetector) Name() string {
	return "Memory Load Detector"
}

// Detect flags calls that read a whole file or deserialize a whole
// structure in one shot, independent of loop or async context.
func (d *MemoryLoadDetector) Detect(ex *extractor.Extraction) []models.Issue {
	if d.config != nil && !d.config.IsRuleEnabled("memory_load") {
		return nil
	}

	issues := make([]models.Issue, 0)
	for _, call := range ex.Calls() {
		suggestion, ok := catalog.MatchMemoryLoad(call.Name, call.ResolvedName)
		if !ok {
			continue
		}
		issues = append(issues, models.Issue{
			Category:    models.CategoryMemoryLoad,
			Severity:    models.SeverityMedium,
			Line:        call.Line,
			EndLine:     call.Line,
			Description: fmt.Sprintf("Call '%s' loads the entire content into memory at once", call.Name),
			Suggestion:  suggestion,
			CodeSnippet: ex.SourceSegment(call.Line, call.Line),
			Function:    call.FunctionName,
		})
	}
	return issues
}
