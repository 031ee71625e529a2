package analyzer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"pyperfcheck/internal/config"
	"pyperfcheck/internal/models"

	"github.com/fatih/color"
)

// ReportGenerator handles formatting and displaying analysis results
type ReportGenerator struct {
	format string
	config *config.Config
}

func NewReportGenerator(format string) *ReportGenerator {
	return &ReportGenerator{
		format: format,
		config: config.DefaultConfig(),
	}
}

func NewReportGeneratorWithConfig(cfg *config.Config) *ReportGenerator {
	return &ReportGenerator{
		format: cfg.Output.Format,
		config: cfg,
	}
}

// Generate creates a formatted report from analysis results
func (r *ReportGenerator) Generate(result *models.AnalysisResult) string {
	switch r.format {
	case "json":
		return r.generateJSON(result)
	default:
		return r.generateConsole(result)
	}
}

func (r *ReportGenerator) generateJSON(result *models.AnalysisResult) string {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error generating JSON report: %v", err)
	}
	return string(data)
}

func (r *ReportGenerator) generateConsole(result *models.AnalysisResult) string {
	var report strings.Builder

	useColors := true
	verbose := false
	showSuggestions := true

	if r.config != nil {
		useColors = r.config.Output.Colors
		verbose = r.config.Output.Verbose
		showSuggestions = r.config.Output.ShowSuggestions
	}

	if useColors {
		report.WriteString(color.CyanString("🔍 pyperfcheck Analysis Report\n"))
		report.WriteString(color.WhiteString("═══════════════════════════════════════\n\n"))
	} else {
		report.WriteString("pyperfcheck Analysis Report\n")
		report.WriteString("=======================================\n\n")
	}

	if verbose && r.config != nil {
		r.writeConfigInfo(&report, useColors)
	}

	r.writeSummary(&report, result, useColors)
	r.writePerformanceScore(&report, result)

	if len(result.Issues) > 0 {
		r.writeSeverityBreakdown(&report, result, useColors)
		r.writeCategoryBreakdown(&report, result, useColors)

		if showSuggestions {
			report.WriteString("\n")
			r.writeDetailedIssues(&report, result, useColors)
		}
	} else {
		if useColors {
			report.WriteString(color.GreenString("🎉 No performance issues detected! Great job!\n\n"))
		} else {
			report.WriteString("No performance issues detected! Great job!\n\n")
		}
	}

	if useColors {
		report.WriteString(color.WhiteString("Analysis completed in %s\n", result.AnalysisDuration))
	} else {
		report.WriteString(fmt.Sprintf("Analysis completed in %s\n", result.AnalysisDuration))
	}

	return report.String()
}

func (r *ReportGenerator) writePerformanceScore(report *strings.Builder, result *models.AnalysisResult) {
	score := result.PerformanceScore
	var scoreColor func(a ...interface{}) string
	var emoji string
	var excellent, good, fair int
	if r.config != nil {
		excellent = r.config.Analysis.ScoreThresholds.Excellent
		good = r.config.Analysis.ScoreThresholds.Good
		fair = r.config.Analysis.ScoreThresholds.Fair
	} else {
		excellent = 90
		good = 75
		fair = 50
	}

	switch {
	case score >= excellent:
		scoreColor = color.New(color.FgGreen).SprintFunc()
		emoji = "🌟"
	case score >= good:
		scoreColor = color.New(color.FgYellow).SprintFunc()
		emoji = "⚡"
	case score >= fair:
		scoreColor = color.New(color.FgHiYellow).SprintFunc()
		emoji = "⚠️"
	default:
		scoreColor = color.New(color.FgRed).SprintFunc()
		emoji = "🚨"
	}
	useColors := true
	if r.config != nil {
		useColors = r.config.Output.Colors
	}

	if useColors {
		scoreText := scoreColor(fmt.Sprintf("%d", score))
		report.WriteString(fmt.Sprintf("%s Performance Score: %s/100\n\n", emoji, scoreText))
	} else {
		report.WriteString(fmt.Sprintf("Performance Score: %d/100\n\n", score))
	}
}

func (r *ReportGenerator) getSeverityDisplay(severity string) (string, func(a ...interface{}) string) {
	switch severity {
	case "CRITICAL":
		return "🚨", color.New(color.FgRed, color.Bold).SprintFunc()
	case "HIGH":
		return "❌", color.New(color.FgRed).SprintFunc()
	case "MEDIUM":
		return "⚠️", color.New(color.FgYellow).SprintFunc()
	case "LOW":
		return "ℹ️", color.New(color.FgBlue).SprintFunc()
	default:
		return "❓", color.New(color.FgWhite).SprintFunc()
	}
}

func (r *ReportGenerator) writeConfigInfo(report *strings.Builder, useColors bool) {
	if useColors {
		report.WriteString(color.WhiteString("📋 Configuration:\n"))
		report.WriteString(fmt.Sprintf("   Enabled categories: %s\n",
			color.CyanString(strings.Join(r.config.Analysis.EnabledCategories, ", "))))
		report.WriteString(fmt.Sprintf("   Score thresholds: %s\n",
			color.CyanString("%d/%d/%d",
				r.config.Analysis.ScoreThresholds.Excellent,
				r.config.Analysis.ScoreThresholds.Good,
				r.config.Analysis.ScoreThresholds.Fair)))
	} else {
		report.WriteString("Configuration:\n")
		report.WriteString(fmt.Sprintf("   Enabled categories: %s\n", strings.Join(r.config.Analysis.EnabledCategories, ", ")))
		report.WriteString(fmt.Sprintf("   Score thresholds: %d/%d/%d\n",
			r.config.Analysis.ScoreThresholds.Excellent,
			r.config.Analysis.ScoreThresholds.Good,
			r.config.Analysis.ScoreThresholds.Fair))
	}
	report.WriteString("\n")
}

func (r *ReportGenerator) writeSummary(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if useColors {
		report.WriteString(color.WhiteString("📊 Summary:\n"))
	} else {
		report.WriteString("Summary:\n")
	}
	report.WriteString(fmt.Sprintf("   Files analyzed: %d\n", len(result.Files)))
	report.WriteString(fmt.Sprintf("   Issues found: %d\n", result.TotalIssues))
	report.WriteString("\n")
}

func (r *ReportGenerator) writeSeverityBreakdown(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if useColors {
		report.WriteString(color.WhiteString("📋 Issues by Severity:\n"))
	} else {
		report.WriteString("Issues by Severity:\n")
	}

	severities := []string{"CRITICAL", "HIGH", "MEDIUM", "LOW"}
	for _, severity := range severities {
		count := result.IssuesBySeverity[severity]
		if count > 0 {
			if useColors {
				emoji, colorFunc := r.getSeverityDisplay(severity)
				countText := colorFunc(fmt.Sprintf("%d", count))
				report.WriteString(fmt.Sprintf("   %s %s: %s\n", emoji, severity, countText))
			} else {
				report.WriteString(fmt.Sprintf("   %s: %d\n", severity, count))
			}
		}
	}
}

func (r *ReportGenerator) writeCategoryBreakdown(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if useColors {
		report.WriteString(color.WhiteString("\n📂 Issues by Category:\n"))
	} else {
		report.WriteString("\nIssues by Category:\n")
	}

	for _, category := range models.AllCategories() {
		count := result.IssuesByCategory[string(category)]
		if count > 0 {
			if useColors {
				report.WriteString(fmt.Sprintf("   %s: %s\n", category, color.CyanString("%d", count)))
			} else {
				report.WriteString(fmt.Sprintf("   %s: %d\n", category, count))
			}
		}
	}
}

func (r *ReportGenerator) writeDetailedIssues(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if useColors {
		report.WriteString(color.WhiteString("\n🔍 Detailed Issues:\n"))
	} else {
		report.WriteString("\nDetailed Issues:\n")
	}
	report.WriteString(strings.Repeat("─", 50) + "\n\n")

	sortedIssues := make([]models.Issue, len(result.Issues))
	copy(sortedIssues, result.Issues)

	sort.SliceStable(sortedIssues, func(i, j int) bool {
		if sortedIssues[i].Severity != sortedIssues[j].Severity {
			return sortedIssues[i].Severity > sortedIssues[j].Severity
		}
		return sortedIssues[i].Line < sortedIssues[j].Line
	})

	for i, issue := range sortedIssues {
		r.writeIssueDetail(report, issue, i+1, useColors)
		report.WriteString("\n")
	}
}

func (r *ReportGenerator) writeIssueDetail(report *strings.Builder, issue models.Issue, index int, useColors bool) {
	if useColors {
		emoji, severityColor := r.getSeverityDisplay(issue.Severity.String())

		report.WriteString(fmt.Sprintf("%s Issue #%d - %s %s\n",
			emoji, index, severityColor(issue.Severity.String()),
			color.WhiteString(strings.ToUpper(string(issue.Category)))))

		report.WriteString(color.CyanString("   📍 Location: line %d", issue.Line))
		if issue.EndLine > issue.Line {
			report.WriteString(color.CyanString("-%d", issue.EndLine))
		}
		if issue.Function != "" {
			report.WriteString(color.CyanString(" in function '%s'", issue.Function))
		}
		report.WriteString("\n")

		report.WriteString(color.WhiteString("   💭 Issue: %s\n", issue.Description))

		if issue.CodeSnippet != "" {
			report.WriteString(color.YellowString("   📜 Code: %s\n", strings.TrimSpace(issue.CodeSnippet)))
		}

		report.WriteString(color.GreenString("   💡 Suggestion:\n"))
		for _, line := range strings.Split(issue.Suggestion, "\n") {
			if strings.TrimSpace(line) != "" {
				report.WriteString(color.GreenString("      %s\n", strings.TrimSpace(line)))
			}
		}
	} else {
		report.WriteString(fmt.Sprintf("Issue #%d - %s %s\n",
			index, issue.Severity.String(), strings.ToUpper(string(issue.Category))))

		report.WriteString(fmt.Sprintf("   Location: line %d", issue.Line))
		if issue.EndLine > issue.Line {
			report.WriteString(fmt.Sprintf("-%d", issue.EndLine))
		}
		if issue.Function != "" {
			report.WriteString(fmt.Sprintf(" in function '%s'", issue.Function))
		}
		report.WriteString("\n")

		report.WriteString(fmt.Sprintf("   Issue: %s\n", issue.Description))

		if issue.CodeSnippet != "" {
			report.WriteString(fmt.Sprintf("   Code: %s\n", strings.TrimSpace(issue.CodeSnippet)))
		}

		report.WriteString("   Suggestion:\n")
		for _, line := range strings.Split(issue.Suggestion, "\n") {
			if strings.TrimSpace(line) != "" {
				report.WriteString(fmt.Sprintf("      %s\n", strings.TrimSpace(line)))
			}
		}
	}
}
