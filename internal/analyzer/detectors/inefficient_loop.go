package detectors

import (
	"fmt"
	"strings"

	"pyperfcheck/internal/config"
	"pyperfcheck/internal/extractor"
	"pyperfcheck/internal/models"
)

type InefficientLoopDetector struct {
	config *config.Config
}

func NewInefficientLoopDetector() *InefficientLoopDetector {
	return &InefficientLoopDetector{}
}

func NewInefficientLoopDetectorWithConfig(cfg *config.Config) *InefficientLoopDetector {
	return &InefficientLoopDetector{config: cfg}
}

func (d *InefficientLoopDetector) Name() string {
	return "Inefficient Loop Detector"
}

// Detect covers two loop pathologies: quadratic string building via `+=`
// on a variable that outlives the loop, and deep loop nesting.
func (d *InefficientLoopDetector) Detect(ex *extractor.Extraction) []models.Issue {
	if d.config != nil && !d.config.IsRuleEnabled("inefficient_loop") {
		return nil
	}

	issues := make([]models.Issue, 0)
	issues = append(issues, d.detectStringConcat(ex)...)
	issues = append(issues, d.detectDeepNesting(ex)...)
	return issues
}

func (d *InefficientLoopDetector) detectStringConcat(ex *extractor.Extraction) []models.Issue {
	detectConcat := true
	if d.config != nil {
		detectConcat = d.config.Rules.Loops.DetectStringConcat
	}
	if !detectConcat {
		return nil
	}

	issues := make([]models.Issue, 0)
	for _, concat := range ex.Concats() {
		if !concat.DefinedOutsideLoop {
			continue
		}
		if !isStringTarget(concat) {
			continue
		}
		issues = append(issues, models.Issue{
			Category:    models.CategoryInefficientLoop,
			Severity:    models.SeverityMedium,
			Line:        concat.Line,
			EndLine:     concat.Line,
			Description: fmt.Sprintf("String concatenation '%s +=' in a loop copies the whole string each iteration", concat.Target),
			Suggestion:  "Collect the pieces in a list and join once after the loop: parts.append(piece); result = ''.join(parts).",
			CodeSnippet: ex.SourceSegment(concat.Line, concat.Line),
			Function:    concat.FunctionName,
		})
	}
	return issues
}

// isStringTarget trusts literal-based inference when it produced an
// answer; otherwise it falls back to naming heuristics, the same
// best-effort surface the catalog uses for unresolved calls.
func isStringTarget(concat extractor.ConcatInfo) bool {
	if concat.TargetType != "" {
		return concat.TargetType == "str"
	}
	name := strings.ToLower(concat.Target)
	for _, hint := range []string{"str", "text", "result", "output", "content", "message", "html", "body", "sql"} {
		if strings.Contains(name, hint) {
			return true
		}
	}
	return false
}

func (d *InefficientLoopDetector) detectDeepNesting(ex *extractor.Extraction) []models.Issue {
	threshold := 3
	if d.config != nil && d.config.Rules.Loops.MaxNestingDepth > 0 {
		threshold = d.config.Rules.Loops.MaxNestingDepth
	}

	loops := ex.Loops()
	issues := make([]models.Issue, 0)
	for i, loop := range loops {
		depth := loop.NestingLevel + 1
		if depth < threshold {
			continue
		}
		// Report once per chain: only the loop at the maximal depth
		// reached, not one issue per level.
		if hasDeeperInside(loops, i) {
			continue
		}
		issues = append(issues, models.Issue{
			Category:    models.CategoryInefficientLoop,
			Severity:    models.SeverityMedium,
			Line:        loop.StartLine,
			EndLine:     loop.EndLine,
			Description: fmt.Sprintf("Loops nested %d deep - complexity grows as O(n^%d)", depth, depth),
			Suggestion:  "Pre-index the inner collections in dicts or sets so lookups are O(1) instead of re-scanning per iteration.",
			CodeSnippet: ex.SourceSegment(loop.StartLine, loop.StartLine),
			Function:    loop.FunctionName,
		})
	}
	return issues
}

func hasDeeperInside(loops []extractor.LoopInfo, i int) bool {
	outer := loops[i]
	for j, inner := range loops {
		if j == i {
			continue
		}
		if inner.NestingLevel > outer.NestingLevel &&
			inner.StartLine >= outer.StartLine && inner.EndLine <= outer.EndLine {
			return true
		}
	}
	return false
}
