package analyzer

import (
	"time"

	"pyperfcheck/internal/analyzer/detectors"
	"pyperfcheck/internal/config"
	"pyperfcheck/internal/models"
	"pyperfcheck/internal/parser"
)

// Analyzer aggregates single-unit checks across many files for the CLI.
type Analyzer struct {
	config *config.Config
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

func NewAnalyzerWithConfig(cfg *config.Config) *Analyzer {
	return &Analyzer{config: cfg}
}

func (a *Analyzer) AnalyzeFiles(filenames []string) (*models.AnalysisResult, error) {
	startTime := time.Now()
	result := models.NewAnalysisResult()

	for _, filename := range filenames {
		checker, err := NewCheckerWithConfig(parser.Options{Path: filename}, a.config)
		if err != nil {
			// Unparseable or unreadable files are skipped; the run
			// continues with the remaining files.
			continue
		}
		result.Files = append(result.Files, filename)
		for _, issue := range checker.CheckAll() {
			result.AddIssue(issue)
		}
	}

	result.AnalysisDuration = time.Since(startTime).String()
	result.CalculateScore()
	return result, nil
}

// AnalyzeSource checks a single in-memory source unit.
func (a *Analyzer) AnalyzeSource(source []byte) ([]models.Issue, error) {
	checker, err := NewCheckerWithConfig(parser.Options{Source: source}, a.config)
	if err != nil {
		return nil, err
	}
	return checker.CheckAll(), nil
}

func (a *Analyzer) GetDetectorCount() int {
	return len(a.GetDetectorNames())
}

func (a *Analyzer) GetDetectorNames() []string {
	return []string{
		detectors.NewRepeatedQueryDetector().Name(),
		detectors.NewBlockingCallDetector().Name(),
		detectors.NewInefficientLoopDetector().Name(),
		detectors.NewMemoryLoadDetector().Name(),
	}
}
