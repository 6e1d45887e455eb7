package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"stacklens/internal/analyze"
	"stacklens/internal/repo"
)

var (
	analyzeRepoURL   string
	analyzePath      string
	analyzeTraceFile string
	analyzeToken     string
	analyzeDepth     int
	analyzeMaxFiles  int
	analyzeJSON      bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a Java stack trace against a repository",
	Long: `Analyze parses a Java stack trace, indexes the target repository,
and reports the root cause frame, ranked related methods, and any
handlers for the thrown exception type.

The trace is read from --trace-file, or from stdin when the flag is
omitted:

  stacklens analyze --path ./my-service --trace-file crash.txt
  pbpaste | stacklens analyze --repo https://github.com/acme/shop.git`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeRepoURL, "repo", "", "git repository URL to clone and analyze")
	analyzeCmd.Flags().StringVar(&analyzePath, "path", "", "local directory containing the Java sources")
	analyzeCmd.Flags().StringVar(&analyzeTraceFile, "trace-file", "", "file holding the stack trace (default: stdin)")
	analyzeCmd.Flags().StringVar(&analyzeToken, "token", "", "access token for private repositories")
	analyzeCmd.Flags().IntVar(&analyzeDepth, "depth", 0, "call-graph exploration depth (default from config)")
	analyzeCmd.Flags().IntVar(&analyzeMaxFiles, "max-files", 0, "maximum Java files to index (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "emit the full result as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeRepoURL == "" && analyzePath == "" {
		return fmt.Errorf("one of --repo or --path is required")
	}
	if analyzeRepoURL != "" && analyzePath != "" {
		return fmt.Errorf("--repo and --path are mutually exclusive")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	trace, err := readTrace(analyzeTraceFile)
	if err != nil {
		return err
	}

	token := analyzeToken
	if token == "" && cfg.Git.TokenEnv != "" {
		token = os.Getenv(cfg.Git.TokenEnv)
	}

	req := &analyze.Request{
		RepoURL:        analyzeRepoURL,
		Path:           analyzePath,
		Token:          token,
		CloneDepth:     cfg.Git.CloneDepth,
		Stacktrace:     trace,
		Depth:          cfg.Analysis.Depth,
		MaxFiles:       cfg.Analysis.MaxFiles,
		IgnorePatterns: cfg.Source.Ignore,
	}
	if analyzeDepth > 0 {
		req.Depth = analyzeDepth
	}
	if analyzeMaxFiles > 0 {
		req.MaxFiles = analyzeMaxFiles
	}

	progress := newIndexProgress(quiet || analyzeJSON)
	req.OnFile = progress.OnFile

	result := analyze.New(repo.NewProvider()).AnalyzeError(context.Background(), req)
	progress.Finish()

	if analyzeJSON {
		return printJSON(result)
	}
	printAnalyzeResult(result)

	if result.Status == analyze.StatusError {
		return fmt.Errorf("analysis failed: %s", result.Message)
	}
	return nil
}

// readTrace loads the stack trace from a file, or stdin when path is empty.
func readTrace(path string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read trace file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read trace from stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("no stack trace provided: pass --trace-file or pipe the trace on stdin")
	}
	return string(data), nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// printAnalyzeResult renders a human-readable summary of the analysis.
func printAnalyzeResult(result *analyze.Result) {
	fmt.Printf("Status: %s", result.Status)
	if result.Message != "" {
		fmt.Printf(" (%s)", result.Message)
	}
	fmt.Println()

	if result.ExceptionInfo != nil && result.ExceptionInfo.ExceptionType != "" {
		fmt.Printf("Exception: %s", result.ExceptionInfo.ExceptionType)
		if result.ExceptionInfo.Message != "" {
			fmt.Printf(": %s", result.ExceptionInfo.Message)
		}
		fmt.Println()
	}

	if result.RootCause != nil {
		fmt.Printf("Root cause: %s.%s (line %d)\n",
			result.RootCause.Class, result.RootCause.Method, result.RootCause.Line)
	}

	if len(result.RelatedMethods) > 0 {
		fmt.Println()
		fmt.Println("Related methods:")
		for _, m := range result.RelatedMethods {
			flags := ""
			if m.HasExceptionHandling {
				flags += " [handles]"
			}
			if m.HasNullCheck {
				flags += " [null-safe]"
			}
			fmt.Printf("  %2d  %s.%s%s\n", m.Weight, m.Class, m.Method, flags)
		}
	}

	if len(result.ExceptionHandlers) > 0 {
		fmt.Println()
		fmt.Println("Exception handlers:")
		for _, h := range result.ExceptionHandlers {
			fmt.Printf("  %s.%s (%s)\n", h.Class, h.Method, h.FilePath)
		}
	}

	fmt.Println()
	fmt.Printf("Analysis %s completed in %dms\n", result.AnalysisID, result.TookMs)
}
