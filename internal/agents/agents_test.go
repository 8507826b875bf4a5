package agents

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// stubClient replays canned replies in order.
type stubClient struct {
	replies []string
	errs    []error
	calls   int
	prompts []string
	systems []string
}

func (s *stubClient) Complete(ctx context.Context, system string, prompt string) (string, error) {
	idx := s.calls
	s.calls++
	s.systems = append(s.systems, system)
	s.prompts = append(s.prompts, prompt)
	var err error
	if idx < len(s.errs) {
		err = s.errs[idx]
	}
	reply := ""
	if idx < len(s.replies) {
		reply = s.replies[idx]
	}
	if err != nil {
		return "", err
	}
	return reply, nil
}

func TestAnalyzeParsesStructuredReply(t *testing.T) {
	client := &stubClient{replies: []string{`Sure! {"job_title": "Backend Engineer", "company_name": "Acme"} hope that helps`}}
	analyzer := NewJobAnalyzer(client, nil, nil)

	got, err := analyzer.Analyze(context.Background(), "", "Qualifications: Go, Postgres")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got["job_title"] != "Backend Engineer" {
		t.Fatalf("unexpected analysis: %v", got)
	}
	if !strings.Contains(client.prompts[0], "Qualifications: Go, Postgres") {
		t.Fatalf("job text missing from prompt")
	}
}

func TestAnalyzeMalformedReplyFallsBack(t *testing.T) {
	client := &stubClient{replies: []string{"I could not produce JSON, sorry."}}
	analyzer := NewJobAnalyzer(client, nil, nil)

	got, err := analyzer.Analyze(context.Background(), "", "some posting text")
	if err != nil {
		t.Fatalf("Analyze should not fail on malformed reply: %v", err)
	}
	if got["raw_analysis"] != "I could not produce JSON, sorry." {
		t.Fatalf("expected raw_analysis fallback, got %v", got)
	}
	if _, ok := got["error"]; !ok {
		t.Fatalf("expected error field in fallback")
	}
}

func TestAnalyzeRequiresInput(t *testing.T) {
	analyzer := NewJobAnalyzer(&stubClient{}, nil, nil)
	if _, err := analyzer.Analyze(context.Background(), "", "  "); !errors.Is(err, ErrNoJobInput) {
		t.Fatalf("expected ErrNoJobInput, got %v", err)
	}
}

func TestExtractKeywordsCapsAtTwentyFive(t *testing.T) {
	parts := make([]string, 30)
	for i := range parts {
		parts[i] = "kw" + string(rune('a'+i%26))
	}
	client := &stubClient{replies: []string{strings.Join(parts, ", ")}}
	analyzer := NewJobAnalyzer(client, nil, nil)

	keywords, err := analyzer.ExtractKeywords(context.Background(), map[string]any{"job_title": "x"})
	if err != nil {
		t.Fatalf("ExtractKeywords: %v", err)
	}
	if len(keywords) != 25 {
		t.Fatalf("expected 25 keywords, got %d", len(keywords))
	}
	if keywords[0] != "kwa" {
		t.Fatalf("unexpected first keyword %q", keywords[0])
	}
}

func TestGenerateCVWithGapAnalysis(t *testing.T) {
	client := &stubClient{replies: []string{
		"# Jane Doe\n\nSenior Engineer",
		`{"technical_skills_gaps": [], "match_percentage": "85%"}`,
	}}
	tailor := NewCVTailor(client)

	result, err := tailor.GenerateCV(context.Background(), json.RawMessage(`{"name":"Jane"}`), json.RawMessage(`{"job_title":"SE"}`), CVRequest{IncludeGaps: true})
	if err != nil {
		t.Fatalf("GenerateCV: %v", err)
	}
	if !strings.HasPrefix(result.CVContent, "# Jane Doe") {
		t.Fatalf("unexpected cv content %q", result.CVContent)
	}
	if result.GapAnalysis["match_percentage"] != "85%" {
		t.Fatalf("unexpected gap analysis: %v", result.GapAnalysis)
	}
	if client.calls != 2 {
		t.Fatalf("expected 2 sequential calls, got %d", client.calls)
	}
}

func TestGenerateCVGapFailureDoesNotFailRequest(t *testing.T) {
	client := &stubClient{
		replies: []string{"# CV body", ""},
		errs:    []error{nil, errors.New("remote blew up")},
	}
	tailor := NewCVTailor(client)

	result, err := tailor.GenerateCV(context.Background(), json.RawMessage(`{}`), json.RawMessage(`{}`), CVRequest{IncludeGaps: true})
	if err != nil {
		t.Fatalf("GenerateCV: %v", err)
	}
	if result.CVContent != "# CV body" {
		t.Fatalf("unexpected cv content %q", result.CVContent)
	}
	if result.GapAnalysis["match_percentage"] != "Unable to analyze" {
		t.Fatalf("expected empty gap structure, got %v", result.GapAnalysis)
	}
}

func TestGenerateCVFailurePropagates(t *testing.T) {
	client := &stubClient{errs: []error{errors.New("remote down")}}
	tailor := NewCVTailor(client)

	if _, err := tailor.GenerateCV(context.Background(), json.RawMessage(`{}`), json.RawMessage(`{}`), CVRequest{}); err == nil {
		t.Fatalf("expected error when cv call fails")
	}
}

func TestBioContextSelection(t *testing.T) {
	for _, tc := range []struct {
		context string
		want    string
	}{
		{context: "presentation", want: "presentation"},
		{context: "linkedin", want: "linkedin"},
		{context: "executive", want: "executive"},
		{context: "elevator", want: "elevator"},
		{context: "company", want: "general"},
		{context: "", want: "general"},
	} {
		client := &stubClient{replies: []string{"  A professional bio.  "}}
		gen := NewBioGenerator(client)
		bio, used, err := gen.Generate(context.Background(), json.RawMessage(`{"name":"Jane"}`), nil, BioOptions{Context: tc.context})
		if err != nil {
			t.Fatalf("Generate(%s): %v", tc.context, err)
		}
		if used != tc.want {
			t.Fatalf("context %q: expected variant %q, got %q", tc.context, tc.want, used)
		}
		if bio != "A professional bio." {
			t.Fatalf("expected trimmed bio, got %q", bio)
		}
	}
}

func TestStripHTMLRemovesChrome(t *testing.T) {
	html := `<html><head><style>.x{}</style><script>alert(1)</script></head>
<body><nav>Menu</nav><h1>Backend Engineer</h1><p>We build APIs.</p><li>Go</li><footer>legal</footer></body></html>`
	got := StripHTML(html)
	if strings.Contains(got, "alert(1)") || strings.Contains(got, "Menu") || strings.Contains(got, "legal") {
		t.Fatalf("chrome not removed: %q", got)
	}
	if !strings.Contains(got, "Backend Engineer") || !strings.Contains(got, "We build APIs.") {
		t.Fatalf("content missing: %q", got)
	}
}
