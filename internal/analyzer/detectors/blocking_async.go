package detectors

import (
	"fmt"

	"pyperfcheck/internal/analyzer/catalog"
	"pyperfcheck/internal/config"
	"pyperfcheck/internal/extractor"
	"pyperfcheck/internal/models"
)

type BlockingCallDetector struct {
	config *config.Config
}

func NewBlockingCallDetector() *BlockingCallDetector {
	return &BlockingCallDetector{}
}

func NewBlockingCallDetectorWithConfig(cfg *config.Config) *BlockingCallDetector {
	return &BlockingCallDetector{config: cfg}
}

func (d *BlockingCallDetector) Name() string {
	return "Blocking Call Detector"
}

// Detect flags synchronous I/O issued from inside an asynchronous
// function, where it stalls the whole event loop.
func (d *BlockingCallDetector) Detect(ex *extractor.Extraction) []models.Issue {
	if d.config != nil && !d.config.IsRuleEnabled("blocking_async") {
		return nil
	}

	issues := make([]models.Issue, 0)
	for _, call := range ex.Calls() {
		if !call.InAsyncFunction {
			continue
		}
		alternative, ok := catalog.MatchBlockingCall(call.Name, call.ResolvedName)
		if !ok {
			continue
		}

		suggestion := "Move the call off the event loop with loop.run_in_executor."
		if alternative != "" {
			suggestion = fmt.Sprintf("Use %s instead, or move the call off the event loop with loop.run_in_executor.", alternative)
		}

		issues = append(issues, models.Issue{
			Category:    models.CategoryBlockingAsync,
			Severity:    models.SeverityCritical,
			Line:        call.Line,
			EndLine:     call.Line,
			Description: fmt.Sprintf("Blocking call '%s' inside async function '%s' stalls the event loop", call.Name, call.FunctionName),
			Suggestion:  suggestion,
			CodeSnippet: ex.SourceSegment(call.Line, call.Line),
			Function:    call.FunctionName,
		})
	}
	return issues
}
