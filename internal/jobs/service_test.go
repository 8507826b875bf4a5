package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"cvtailor-backend/internal/agents"
)

type scriptedClient struct {
	replies []string
	calls   int
}

func (s *scriptedClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	idx := s.calls
	s.calls++
	if idx >= len(s.replies) {
		return "", errors.New("no scripted reply")
	}
	return s.replies[idx], nil
}

func newTestService(replies ...string) *Service {
	analyzer := agents.NewJobAnalyzer(&scriptedClient{replies: replies}, nil, nil)
	return NewService(NewMemoryRepo(), analyzer)
}

func TestAnalyzeStoresStructuredResult(t *testing.T) {
	svc := newTestService(`{"job_title": "Platform Engineer", "company_name": "Acme", "keywords": ["go"]}`)

	analysis, err := svc.Analyze(context.Background(), "user-1", AnalyzeRequest{JobText: "Qualifications: Go"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analysis.JobTitle != "Platform Engineer" || analysis.CompanyName != "Acme" {
		t.Fatalf("expected title/company from analysis, got %q / %q", analysis.JobTitle, analysis.CompanyName)
	}

	var data map[string]any
	if err := json.Unmarshal(analysis.AnalysisData, &data); err != nil {
		t.Fatalf("stored analysis not JSON: %v", err)
	}
	if data["job_title"] != "Platform Engineer" {
		t.Fatalf("unexpected stored analysis: %v", data)
	}
}

func TestAnalyzeCallerOverridesWin(t *testing.T) {
	svc := newTestService(`{"job_title": "Detected Title", "company_name": "Detected Co"}`)

	analysis, err := svc.Analyze(context.Background(), "user-1", AnalyzeRequest{
		JobText:     "posting",
		JobTitle:    "Given Title",
		CompanyName: "Given Co",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analysis.JobTitle != "Given Title" || analysis.CompanyName != "Given Co" {
		t.Fatalf("caller overrides lost: %q / %q", analysis.JobTitle, analysis.CompanyName)
	}
}

func TestAnalyzeMalformedReplyStoredWithErrorMarker(t *testing.T) {
	svc := newTestService("This reply is not JSON at all.")

	analysis, err := svc.Analyze(context.Background(), "user-1", AnalyzeRequest{JobText: "posting"})
	if err != nil {
		t.Fatalf("Analyze must not fail on malformed reply: %v", err)
	}

	var data map[string]any
	if err := json.Unmarshal(analysis.AnalysisData, &data); err != nil {
		t.Fatalf("stored analysis not JSON: %v", err)
	}
	if data["raw_analysis"] != "This reply is not JSON at all." {
		t.Fatalf("expected raw_analysis field, got %v", data)
	}
	if _, ok := data["error"]; !ok {
		t.Fatalf("expected error field, got %v", data)
	}
	if analysis.JobTitle != "Unknown Position" || analysis.CompanyName != "Unknown Company" {
		t.Fatalf("expected fallback title/company, got %q / %q", analysis.JobTitle, analysis.CompanyName)
	}
}

func TestAnalyzeRequiresInput(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Analyze(context.Background(), "user-1", AnalyzeRequest{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestKeywordsFromStoredAnalysis(t *testing.T) {
	svc := newTestService(
		`{"job_title": "SRE", "company_name": "Acme"}`,
		"kubernetes, go, incident response",
	)

	analysis, err := svc.Analyze(context.Background(), "user-1", AnalyzeRequest{JobText: "posting"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	got, keywords, err := svc.Keywords(context.Background(), "user-1", analysis.ID)
	if err != nil {
		t.Fatalf("Keywords: %v", err)
	}
	if got.ID != analysis.ID {
		t.Fatalf("expected same analysis back")
	}
	if len(keywords) != 3 || keywords[0] != "kubernetes" {
		t.Fatalf("unexpected keywords: %v", keywords)
	}
}

func TestHistoryNewestFirstAndOwnership(t *testing.T) {
	svc := newTestService(
		`{"job_title": "A"}`,
		`{"job_title": "B"}`,
	)
	ctx := context.Background()

	first, err := svc.Analyze(ctx, "user-1", AnalyzeRequest{JobText: "one"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	second, err := svc.Analyze(ctx, "user-1", AnalyzeRequest{JobText: "two"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	history, err := svc.History(ctx, "user-1", 0, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 || history[0].ID != second.ID || history[1].ID != first.ID {
		t.Fatalf("history not newest first: %v", history)
	}

	if _, err := svc.Get(ctx, "user-2", first.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for foreign user, got %v", err)
	}
	if err := svc.Delete(ctx, "user-1", first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, "user-1", first.ID); err != ErrNotFound {
		t.Fatalf("expected deleted analysis gone, got %v", err)
	}
}
