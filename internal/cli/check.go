package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/veritas/internal/model"
	"github.com/ppiankov/veritas/internal/pipeline"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	userAgent   string
	paperLimit  int
	noEnrich    bool
	noFooter    bool
	llmProvider string
	llmModel    string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <claim>",
	Short: "Fact-check a single claim against academic research",
	Long: `Check runs the complete fact-check pipeline for one claim:
- Extract search keywords from the claim
- Retrieve candidate academic papers
- Annotate each paper with relevance, position, and key findings
- Synthesize an overall verdict with supporting explanation

Example:
  veritas check "Vaccines cause autism in children"
  veritas check "Coffee reduces the risk of liver disease" --json report.json
  veritas check "..." --llm-provider openai --llm-model gpt-4o-mini --limit 8`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Output flags
	checkCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	checkCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	checkCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Pipeline flags
	checkCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall check timeout")
	checkCmd.Flags().StringVar(&userAgent, "ua", "Veritas/0.1 (+https://github.com/ppiankov/veritas)", "HTTP User-Agent")
	checkCmd.Flags().IntVar(&paperLimit, "limit", 5, "maximum papers to retrieve")
	checkCmd.Flags().BoolVar(&noEnrich, "no-enrich", false, "disable abstract enrichment for short snippets")

	// LLM flags
	checkCmd.Flags().StringVar(&llmProvider, "llm-provider", "gemini", "LLM provider (gemini, openai, ollama)")
	checkCmd.Flags().StringVar(&llmModel, "llm-model", "gemini-2.0-flash", "LLM model name")
}

// buildConfig assembles configuration from flags and environment
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	cfg.HTTP.UserAgent = userAgent
	cfg.Search.PaperLimit = paperLimit
	cfg.Search.EnrichShort = !noEnrich
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if err := resolveCredentials(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	claim := args[0]
	if err := model.ValidateClaim(claim); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Claim: %s\n", claim)
		fmt.Fprintf(os.Stderr, "LLM: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Fprintf(os.Stderr, "Paper limit: %d\n", cfg.Search.PaperLimit)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	result, papers, err := p.FactCheck(ctx, claim)
	if err != nil {
		return err
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	if outJSON != "" {
		if err := renderer.RenderJSON(result, papers, outJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result, papers, outMD); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}

	if outJSON == "" && outMD == "" {
		fmt.Println(pipeline.RenderHumanFriendly(result, papers))
	} else {
		renderer.RenderSummary(result)
	}

	return nil
}
