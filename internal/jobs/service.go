package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"cvtailor-backend/internal/agents"
	"cvtailor-backend/internal/shared/metrics"
)

const defaultListLimit = 50

type Service struct {
	Repo     Repo
	Analyzer *agents.JobAnalyzer
}

func NewService(repo Repo, analyzer *agents.JobAnalyzer) *Service {
	return &Service{Repo: repo, Analyzer: analyzer}
}

// AnalyzeRequest carries the posting source plus optional caller overrides.
type AnalyzeRequest struct {
	JobURL      string
	JobText     string
	JobTitle    string
	CompanyName string
}

// Analyze runs the analysis agent and stores the result. Parse failures are
// stored as raw_analysis rows, never surfaced as errors.
func (s *Service) Analyze(ctx context.Context, userID string, req AnalyzeRequest) (Analysis, error) {
	if strings.TrimSpace(req.JobURL) == "" && strings.TrimSpace(req.JobText) == "" {
		return Analysis{}, fmt.Errorf("%w: either jobUrl or jobText must be provided", ErrInvalidInput)
	}

	result, err := s.Analyzer.Analyze(ctx, req.JobURL, req.JobText)
	if err != nil {
		return Analysis{}, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return Analysis{}, fmt.Errorf("serialize analysis: %w", err)
	}

	analysis := Analysis{
		ID:           uuid.NewString(),
		UserID:       userID,
		JobURL:       strings.TrimSpace(req.JobURL),
		JobTitle:     firstNonEmpty(req.JobTitle, stringField(result, "job_title"), "Unknown Position"),
		CompanyName:  firstNonEmpty(req.CompanyName, stringField(result, "company_name"), "Unknown Company"),
		AnalysisData: data,
	}
	if err := s.Repo.Create(ctx, analysis); err != nil {
		return Analysis{}, err
	}
	metrics.IncJobAnalysis()
	return s.Repo.GetByID(ctx, userID, analysis.ID)
}

func (s *Service) Get(ctx context.Context, userID, analysisID string) (Analysis, error) {
	return s.Repo.GetByID(ctx, userID, analysisID)
}

func (s *Service) History(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.List(ctx, userID, limit, offset)
}

func (s *Service) Delete(ctx context.Context, userID, analysisID string) error {
	return s.Repo.Delete(ctx, userID, analysisID)
}

// Keywords asks the analyzer for ATS keywords from a stored analysis.
func (s *Service) Keywords(ctx context.Context, userID, analysisID string) (Analysis, []string, error) {
	analysis, err := s.Repo.GetByID(ctx, userID, analysisID)
	if err != nil {
		return Analysis{}, nil, err
	}
	var parsed map[string]any
	if err := json.Unmarshal(analysis.AnalysisData, &parsed); err != nil {
		return Analysis{}, nil, fmt.Errorf("decode stored analysis: %w", err)
	}
	keywords, err := s.Analyzer.ExtractKeywords(ctx, parsed)
	if err != nil {
		return Analysis{}, nil, err
	}
	return analysis, keywords, nil
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
