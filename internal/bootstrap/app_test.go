package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cvtailor-backend/internal/agents"
	"cvtailor-backend/internal/shared/config"
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

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := Build(config.Config{
		Env:             "dev",
		JWTSecret:       "test-secret",
		TokenTTLMinutes: 60,
		LocalStoreDir:   t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return app
}

func doJSON(t *testing.T, app *App, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", resp.Body.String(), err)
	}
	return payload
}

func registerAndLogin(t *testing.T, app *App) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":     "alice@example.com",
		"password":  "Password123",
		"firstName": "Alice",
		"lastName":  "Smith",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("register expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "Password123",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("login expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	payload := decode(t, resp)
	token, _ := payload["accessToken"].(string)
	if token == "" {
		t.Fatalf("login response missing accessToken: %v", payload)
	}
	if payload["tokenType"] != "bearer" {
		t.Fatalf("unexpected tokenType: %v", payload["tokenType"])
	}
	return token
}

func TestRegisterLoginProfileLifecycle(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app)

	resp := doJSON(t, app, http.MethodGet, "/api/auth/me", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("me expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if me := decode(t, resp); me["email"] != "alice@example.com" {
		t.Fatalf("unexpected me payload: %v", me)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/profile/", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("empty profile expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	empty := decode(t, resp)
	if empty["version"] != float64(0) || empty["isActive"] != false {
		t.Fatalf("expected empty profile structure, got %v", empty)
	}

	resp = doJSON(t, app, http.MethodPost, "/api/profile/", token, map[string]any{
		"profileData": map[string]any{"professional_summary": "v1 summary"},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create profile expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if created := decode(t, resp); created["version"] != float64(1) {
		t.Fatalf("expected version 1, got %v", created["version"])
	}

	resp = doJSON(t, app, http.MethodPut, "/api/profile/", token, map[string]any{
		"profileData": map[string]any{"professional_summary": "v2 summary"},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("update profile expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if updated := decode(t, resp); updated["version"] != float64(2) {
		t.Fatalf("expected version 2, got %v", updated["version"])
	}

	resp = doJSON(t, app, http.MethodGet, "/api/profile/history", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("history expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var history []map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history) != 2 || history[0]["version"] != float64(2) || history[1]["version"] != float64(1) {
		t.Fatalf("expected history [2, 1], got %v", history)
	}

	if resp := doJSON(t, app, http.MethodGet, "/api/profile/", "", nil); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}
}

func TestAnalyzeMalformedReplyReturns200(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app)

	stub := &scriptedClient{replies: []string{"not json at all"}}
	app.JobsService.Analyzer = agents.NewJobAnalyzer(stub, nil, nil)

	resp := doJSON(t, app, http.MethodPost, "/api/jobs/analyze", token, map[string]string{
		"jobText": "Qualifications: Go, PostgreSQL",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("analyze expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	payload := decode(t, resp)
	data, ok := payload["analysisData"].(map[string]any)
	if !ok {
		t.Fatalf("missing analysisData: %v", payload)
	}
	if data["raw_analysis"] != "not json at all" {
		t.Fatalf("expected raw_analysis fallback, got %v", data)
	}
	if _, ok := data["error"]; !ok {
		t.Fatalf("expected error field, got %v", data)
	}
}

func TestAnalyzeRequiresInput(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app)

	resp := doJSON(t, app, http.MethodPost, "/api/jobs/analyze", token, map[string]string{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without jobUrl or jobText, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestGenerateCVEndToEnd(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app)

	stub := &scriptedClient{replies: []string{
		`{"job_title": "Platform Engineer", "company_name": "Acme"}`,
		"# Alice Smith\n\n## Experience",
		`{"match_percentage": "75%"}`,
	}}
	app.JobsService.Analyzer = agents.NewJobAnalyzer(stub, nil, nil)
	app.GenerateService.Tailor = agents.NewCVTailor(stub)

	resp := doJSON(t, app, http.MethodPost, "/api/profile/", token, map[string]any{
		"profileData": map[string]any{"personal_info": map[string]any{"full_name": "Alice Smith"}},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create profile expected 201, got %d", resp.Code)
	}

	resp = doJSON(t, app, http.MethodPost, "/api/jobs/analyze", token, map[string]string{
		"jobText": "About The Role: platform work",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("analyze expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	analysisID, _ := decode(t, resp)["id"].(string)
	if analysisID == "" {
		t.Fatalf("missing analysis id")
	}

	resp = doJSON(t, app, http.MethodPost, "/api/generate/cv", token, map[string]string{
		"jobAnalysisId": analysisID,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("generate cv expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	content := decode(t, resp)
	if content["contentType"] != "cv" {
		t.Fatalf("unexpected content row: %v", content)
	}
	if key, _ := content["storageKey"].(string); key == "" {
		t.Fatalf("expected archived storage key, got %v", content["storageKey"])
	}

	contentID, _ := content["id"].(string)
	resp = doJSON(t, app, http.MethodGet, "/api/generate/"+contentID+"/export?export_format=txt", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("export expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if bytes.ContainsAny(resp.Body.Bytes(), "#*") {
		t.Fatalf("txt export kept markdown markers: %q", resp.Body.String())
	}
}

func TestGenerateCVWithoutProfileReturns404(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app)

	stub := &scriptedClient{replies: []string{`{"job_title": "SRE"}`}}
	app.JobsService.Analyzer = agents.NewJobAnalyzer(stub, nil, nil)

	resp := doJSON(t, app, http.MethodPost, "/api/jobs/analyze", token, map[string]string{"jobText": "posting"})
	if resp.Code != http.StatusOK {
		t.Fatalf("analyze expected 200, got %d", resp.Code)
	}
	analysisID, _ := decode(t, resp)["id"].(string)

	resp = doJSON(t, app, http.MethodPost, "/api/generate/cv", token, map[string]string{"jobAnalysisId": analysisID})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without profile, got %d: %s", resp.Code, resp.Body.String())
	}
}
