package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stacklens/internal/analyze"
	"stacklens/internal/repo"
)

var (
	callgraphRepoURL  string
	callgraphPath     string
	callgraphToken    string
	callgraphMaxFiles int
	callgraphJSON     bool
)

// callgraphCmd represents the callgraph command
var callgraphCmd = &cobra.Command{
	Use:   "callgraph <class>",
	Short: "Show the call graph for one Java class",
	Long: `Callgraph indexes the repository and prints, for the named class,
each declared method with the calls its body makes. The class may be
fully qualified or a simple-name suffix:

  stacklens callgraph OrderService --path ./my-service`,
	Args: cobra.ExactArgs(1),
	RunE: runCallgraph,
}

func init() {
	rootCmd.AddCommand(callgraphCmd)

	callgraphCmd.Flags().StringVar(&callgraphRepoURL, "repo", "", "git repository URL to clone and analyze")
	callgraphCmd.Flags().StringVar(&callgraphPath, "path", "", "local directory containing the Java sources")
	callgraphCmd.Flags().StringVar(&callgraphToken, "token", "", "access token for private repositories")
	callgraphCmd.Flags().IntVar(&callgraphMaxFiles, "max-files", 0, "maximum Java files to index (default from config)")
	callgraphCmd.Flags().BoolVar(&callgraphJSON, "json", false, "emit the full result as JSON")
}

func runCallgraph(cmd *cobra.Command, args []string) error {
	if callgraphRepoURL == "" && callgraphPath == "" {
		return fmt.Errorf("one of --repo or --path is required")
	}
	if callgraphRepoURL != "" && callgraphPath != "" {
		return fmt.Errorf("--repo and --path are mutually exclusive")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	token := callgraphToken
	if token == "" && cfg.Git.TokenEnv != "" {
		token = os.Getenv(cfg.Git.TokenEnv)
	}

	req := &analyze.CallGraphRequest{
		RepoURL:        callgraphRepoURL,
		Path:           callgraphPath,
		Token:          token,
		CloneDepth:     cfg.Git.CloneDepth,
		ClassName:      args[0],
		MaxFiles:       cfg.Analysis.MaxFiles,
		IgnorePatterns: cfg.Source.Ignore,
	}
	if callgraphMaxFiles > 0 {
		req.MaxFiles = callgraphMaxFiles
	}

	result := analyze.New(repo.NewProvider()).BuildCallGraph(context.Background(), req)

	if callgraphJSON {
		return printJSON(result)
	}
	printCallGraphResult(result)

	if result.Status == analyze.StatusError {
		return fmt.Errorf("call graph failed: %s", result.Message)
	}
	return nil
}

func printCallGraphResult(result *analyze.CallGraphResult) {
	fmt.Printf("Status: %s", result.Status)
	if result.Message != "" {
		fmt.Printf(" (%s)", result.Message)
	}
	fmt.Println()

	for class, methods := range result.CallGraph {
		fmt.Printf("\n%s\n", class)
		for method, callees := range methods {
			fmt.Printf("  %s\n", method)
			for _, callee := range callees {
				fmt.Printf("    -> %s\n", callee)
			}
		}
	}

	fmt.Println()
	fmt.Printf("Graph: %d nodes, %d edges\n", result.GraphNodes, result.GraphEdges)
}
