package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/veritas/internal/model"
)

// Checker runs one complete fact-check for one claim
type Checker interface {
	FactCheck(ctx context.Context, claim string) (*model.Result, []model.Paper, error)
}

// CheckJob represents a single-claim fact-check job
type CheckJob struct {
	Claim   string
	Checker Checker
}

// Execute runs the fact-check for this job's claim
func (j *CheckJob) Execute(ctx context.Context) Result {
	if err := model.ValidateClaim(j.Claim); err != nil {
		return &CheckResult{Claim: j.Claim, Error: err}
	}

	result, papers, err := j.Checker.FactCheck(ctx, j.Claim)
	if err != nil {
		return &CheckResult{Claim: j.Claim, Error: err}
	}
	return &CheckResult{
		Claim:  j.Claim,
		Result: result,
		Papers: papers,
	}
}

// CheckResult represents the outcome of one fact-check job
type CheckResult struct {
	Claim  string
	Result *model.Result
	Papers []model.Paper
	Error  error
}

// GetError returns the error from the check result
func (r *CheckResult) GetError() error {
	return r.Error
}

// BatchProcessor fact-checks multiple claims concurrently. Each claim
// is still one independent pipeline invocation; nothing is shared
// between them beyond configuration.
type BatchProcessor struct {
	checker     Checker
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(checker Checker, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
	}
}

// ProcessClaims fact-checks all claims and returns results in input order
func (b *BatchProcessor) ProcessClaims(ctx context.Context, claims []string) []*CheckResult {
	if len(claims) == 0 {
		return []*CheckResult{}
	}

	jobs := make([]Job, len(claims))
	for i, claim := range claims {
		jobs[i] = &CheckJob{
			Claim:   claim,
			Checker: b.checker,
		}
	}

	pool := NewPool(b.concurrency)
	results := pool.Run(ctx, jobs)

	checkResults := make([]*CheckResult, len(results))
	for i, result := range results {
		checkResults[i] = result.(*CheckResult)
	}

	return checkResults
}

// ProcessFile reads claims from a file and fact-checks them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*CheckResult, error) {
	claims, err := ReadClaimsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}

	return b.ProcessClaims(ctx, claims), nil
}

// ReadClaimsFromFile reads claims from a file (one per line), skipping
// blank lines and # comments and dropping duplicates
func ReadClaimsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var claims []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			claims = append(claims, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return claims, nil
}
