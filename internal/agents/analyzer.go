package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cvtailor-backend/internal/llm"
)

// maxJobContent bounds how much cleaned posting text reaches the prompt.
const maxJobContent = 8000

// maxKeywords caps the ATS keyword list.
const maxKeywords = 25

// ErrNoJobInput reports that neither a URL nor raw text was provided.
var ErrNoJobInput = errors.New("either job URL or job text must be provided")

// JobAnalyzer extracts structured requirements from a job posting through a
// remote chat-completion call.
type JobAnalyzer struct {
	Client  llm.Client
	Fetcher *Fetcher
	Cleaner *Cleaner
}

// NewJobAnalyzer wires an analyzer with default fetching and cleaning.
func NewJobAnalyzer(client llm.Client, fetcher *Fetcher, cleaner *Cleaner) *JobAnalyzer {
	if fetcher == nil {
		fetcher = NewFetcher(0)
	}
	if cleaner == nil {
		cleaner = NewCleaner()
	}
	return &JobAnalyzer{Client: client, Fetcher: fetcher, Cleaner: cleaner}
}

// Analyze fetches (when a URL is given), cleans, and analyzes a job posting.
// A reply that does not parse as JSON degrades to a raw_analysis object
// instead of failing.
func (a *JobAnalyzer) Analyze(ctx context.Context, jobURL, jobText string) (map[string]any, error) {
	var content string
	switch {
	case strings.TrimSpace(jobURL) != "":
		fetched, err := a.Fetcher.FetchJobContent(ctx, jobURL)
		if err != nil {
			return nil, err
		}
		content = fetched
	case strings.TrimSpace(jobText) != "":
		content = jobText
	default:
		return nil, ErrNoJobInput
	}

	content = a.Cleaner.Clean(content)
	if len(content) > maxJobContent {
		content = content[:maxJobContent]
	}

	reply, err := a.Client.Complete(ctx, llm.JobAnalyzerInstructions(), llm.JobAnalysisPrompt(content))
	if err != nil {
		return nil, fmt.Errorf("job analysis: %w", err)
	}

	parsed, err := sliceJSON(reply)
	if err != nil {
		return map[string]any{
			"raw_analysis": reply,
			"error":        fmt.Sprintf("Failed to parse structured analysis: %v", err),
		}, nil
	}
	return parsed, nil
}

// ExtractKeywords asks for ATS keywords from a stored analysis and parses the
// comma-separated reply.
func (a *JobAnalyzer) ExtractKeywords(ctx context.Context, analysis map[string]any) ([]string, error) {
	serialized, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("keyword extraction: %w", err)
	}

	reply, err := a.Client.Complete(ctx, llm.JobAnalyzerInstructions(), llm.JobKeywordsPrompt(string(serialized)))
	if err != nil {
		return nil, fmt.Errorf("keyword extraction: %w", err)
	}

	parts := strings.Split(strings.TrimSpace(reply), ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		if kw := strings.TrimSpace(part); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords, nil
}
