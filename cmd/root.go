package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pyperfcheck/internal/analyzer"
	"pyperfcheck/internal/config"
	"pyperfcheck/internal/watcher"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	formatFlag         string
	watchFlag          bool
	configFlag         string
	generateConfigFlag bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pyperfcheck [files or directories]",
	Short: "A Python performance analyzer that detects anti-patterns",
	Long: `pyperfcheck is a static analysis tool that scans Python code for common
performance anti-patterns - repeated ORM queries in loops, blocking I/O in
async functions, quadratic string building, whole-file memory loads - and
provides actionable suggestions.

Examples:
  pyperfcheck .                            # Analyze current directory
  pyperfcheck app.py tasks.py              # Analyze specific files
  pyperfcheck --format=json .              # Output results in JSON format
  pyperfcheck --config=.pyperfcheck.yml .  # Use custom config
  pyperfcheck --watch .                    # Re-analyze on file changes
  pyperfcheck --generate-config            # Generate sample config file`,
	Run: runAnalysis,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&formatFlag, "format", "f", "console", "Output format (console, json)")
	rootCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch mode for development")
	rootCmd.Flags().StringVarP(&configFlag, "config", "c", "", "Path to configuration file")
	rootCmd.Flags().BoolVar(&generateConfigFlag, "generate-config", false, "Generate sample configuration file")
}

func runAnalysis(cmd *cobra.Command, args []string) {
	if generateConfigFlag {
		generateConfig()
		return
	}

	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		color.Red("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if formatFlag != "" {
		cfg.Output.Format = formatFlag
	}

	if len(args) == 0 {
		args = []string{"."}
	}

	pyFiles := collectAll(args, cfg)
	if len(pyFiles) == 0 {
		color.Yellow("⚠️  No Python files found to analyze\n")
		return
	}

	analyzerEngine := analyzer.NewAnalyzerWithConfig(cfg)
	reportGen := analyzer.NewReportGeneratorWithConfig(cfg)

	if cfg.Output.Verbose {
		color.Cyan("🔍 Analyzing %d Python files with %d detectors...\n", len(pyFiles), analyzerEngine.GetDetectorCount())
		if configFlag != "" {
			color.Cyan("📋 Using configuration: %s\n", configFlag)
		}
		color.Cyan("🎯 Enabled categories: %s\n\n", strings.Join(cfg.Analysis.EnabledCategories, ", "))
	} else {
		color.Cyan("🔍 Analyzing %d Python files...\n\n", len(pyFiles))
	}

	analyzeAndReport(analyzerEngine, reportGen, cfg, pyFiles)

	if watchFlag {
		runWatchMode(analyzerEngine, reportGen, cfg, args)
	}
}

func analyzeAndReport(engine *analyzer.Analyzer, reportGen *analyzer.ReportGenerator, cfg *config.Config, files []string) {
	result, err := engine.AnalyzeFiles(files)
	if err != nil {
		color.Red("Analysis failed: %v\n", err)
		return
	}

	report := reportGen.Generate(result)

	if cfg.Output.OutputFile != "" {
		if err := writeReportToFile(report, cfg.Output.OutputFile); err != nil {
			color.Red("Failed to write report to file: %v\n", err)
		} else {
			color.Green("📄 Report saved to: %s\n", cfg.Output.OutputFile)
		}
	} else {
		fmt.Print(report)
	}
}

func runWatchMode(engine *analyzer.Analyzer, reportGen *analyzer.ReportGenerator, cfg *config.Config, paths []string) {
	fw, err := watcher.NewFileWatcher(cfg)
	if err != nil {
		color.Red("Failed to start watch mode: %v\n", err)
		os.Exit(1)
	}
	defer fw.Close()

	err = fw.Watch(paths, func(changed []string) error {
		color.Cyan("\n🔄 Changes detected, re-analyzing %d files...\n\n", len(changed))
		analyzeAndReport(engine, reportGen, cfg, changed)
		return nil
	})
	if err != nil {
		color.Red("Failed to watch paths: %v\n", err)
		os.Exit(1)
	}

	color.Cyan("👀 Watching for changes (Ctrl+C to stop)...\n")
	select {}
}

func writeReportToFile(report, filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(filePath, []byte(report), 0644)
}

func generateConfig() {
	configPath := ".pyperfcheck.yml"
	if err := config.GenerateConfig(configPath); err != nil {
		color.Red("Failed to generate config file: %v\n", err)
		os.Exit(1)
	}
	color.Green("✅ Generated sample configuration file: %s\n", configPath)
	color.Cyan("📝 Edit this file to customize pyperfcheck behavior\n")
	color.Cyan("🚀 Run 'pyperfcheck --config=%s .' to use it\n", configPath)
}

func collectAll(args []string, cfg *config.Config) []string {
	var pyFiles []string
	for _, arg := range args {
		files, err := collectPythonFiles(arg, cfg)
		if err != nil {
			color.Red("Error collecting files from %s: %v\n", arg, err)
			continue
		}
		pyFiles = append(pyFiles, files...)
	}
	return pyFiles
}

// collectPythonFiles recursively finds all .py files in the given path
func collectPythonFiles(path string, cfg *config.Config) ([]string, error) {
	var pyFiles []string

	err := filepath.Walk(path, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip virtualenvs, caches, and other common directories
		if info.IsDir() {
			name := info.Name()
			switch name {
			case "venv", ".venv", ".git", "__pycache__", "node_modules", ".tox", ".mypy_cache":
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(filePath, ".py") {
			return nil
		}

		base := filepath.Base(filePath)
		isTest := strings.HasPrefix(base, "test_") || strings.HasSuffix(base, "_test.py")
		if isTest && (cfg == nil || !cfg.Files.IncludeTests) {
			return nil
		}

		pyFiles = append(pyFiles, filePath)
		return nil
	})

	return pyFiles, err
}
