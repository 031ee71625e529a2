package analyzer

import (
	"sort"

	"pyperfcheck/internal/analyzer/detectors"
	"pyperfcheck/internal/config"
	"pyperfcheck/internal/extractor"
	"pyperfcheck/internal/models"
	"pyperfcheck/internal/parser"
)

type Detector interface {
	Name() string
	Detect(ex *extractor.Extraction) []models.Issue
}

// Checker runs the detection rules over one parsed source unit. The
// extraction is computed once at construction and never mutated, so a
// Checker is safe to share and every check method is idempotent.
type Checker struct {
	extraction *extractor.Extraction

	repeatedQuery   Detector
	blockingCall    Detector
	inefficientLoop Detector
	memoryLoad      Detector
}

// NewChecker parses one source unit (exactly one of source text or file
// path, per parser.Options) and prepares all detection rules. Parse and
// usage errors propagate unmodified; no partial checker is returned.
func NewChecker(opts parser.Options) (*Checker, error) {
	return NewCheckerWithConfig(opts, nil)
}

func NewCheckerWithConfig(opts parser.Options, cfg *config.Config) (*Checker, error) {
	tree, err := parser.Parse(opts)
	if err != nil {
		return nil, err
	}
	return newChecker(extractor.Extract(tree), cfg), nil
}

func newChecker(ex *extractor.Extraction, cfg *config.Config) *Checker {
	return &Checker{
		extraction:      ex,
		repeatedQuery:   detectors.NewRepeatedQueryDetectorWithConfig(cfg),
		blockingCall:    detectors.NewBlockingCallDetectorWithConfig(cfg),
		inefficientLoop: detectors.NewInefficientLoopDetectorWithConfig(cfg),
		memoryLoad:      detectors.NewMemoryLoadDetectorWithConfig(cfg),
	}
}

// Extraction exposes the structural model, mainly for callers that want
// the raw function/loop/import/call records.
func (c *Checker) Extraction() *extractor.Extraction {
	return c.extraction
}

func (c *Checker) CheckRepeatedQueries() []models.Issue {
	return c.repeatedQuery.Detect(c.extraction)
}

func (c *Checker) CheckBlockingCalls() []models.Issue {
	return c.blockingCall.Detect(c.extraction)
}

func (c *Checker) CheckInefficientLoops() []models.Issue {
	return c.inefficientLoop.Detect(c.extraction)
}

func (c *Checker) CheckMemoryLoads() []models.Issue {
	return c.memoryLoad.Detect(c.extraction)
}

// CheckAll runs every rule, concatenates the findings and sorts them by
// severity (critical first) then by ascending start line. The sort is
// stable, so issues equal on both keys keep rule order.
func (c *Checker) CheckAll() []models.Issue {
	all := make([]models.Issue, 0)
	all = append(all, c.CheckRepeatedQueries()...)
	all = append(all, c.CheckBlockingCalls()...)
	all = append(all, c.CheckInefficientLoops()...)
	all = append(all, c.CheckMemoryLoads()...)

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Severity != all[j].Severity {
			return all[i].Severity > all[j].Severity
		}
		return all[i].Line < all[j].Line
	})
	return all
}

func (c *Checker) FilterBySeverity(severity models.Severity) []models.Issue {
	filtered := make([]models.Issue, 0)
	for _, issue := range c.CheckAll() {
		if issue.Severity == severity {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

func (c *Checker) FilterByCategory(category models.IssueCategory) []models.Issue {
	filtered := make([]models.Issue, 0)
	for _, issue := range c.CheckAll() {
		if issue.Category == category {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

func (c *Checker) GetSummary() models.Summary {
	return models.Summarize(c.CheckAll())
}
