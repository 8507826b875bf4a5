package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newExportRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(router.Group("/api/generate"))
	return router
}

func TestExportFormats(t *testing.T) {
	client := &scriptedClient{replies: []string{"# Title\n\n**Bold** text", `{}`}}
	svc := newFixture(t, client)
	analysisID := seedProfileAndAnalysis(t, svc, "user-1")

	content, err := svc.GenerateCV(context.Background(), "user-1", CVParams{JobAnalysisID: analysisID})
	if err != nil {
		t.Fatalf("GenerateCV: %v", err)
	}
	router := newExportRouter(t, svc)

	t.Run("markdown", func(t *testing.T) {
		resp := doExport(t, router, content.ID, "markdown")
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
		}
		if resp.Body.String() != "# Title\n\n**Bold** text" {
			t.Fatalf("markdown body altered: %q", resp.Body.String())
		}
		disposition := resp.Header().Get("Content-Disposition")
		if !strings.Contains(disposition, "cv_"+content.ID+".md") {
			t.Fatalf("unexpected disposition %q", disposition)
		}
	})

	t.Run("txt strips markers", func(t *testing.T) {
		resp := doExport(t, router, content.ID, "txt")
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
		body := resp.Body.String()
		if strings.ContainsAny(body, "*#_`") {
			t.Fatalf("markdown markers left in txt export: %q", body)
		}
		if !strings.Contains(body, "Bold") {
			t.Fatalf("text content lost: %q", body)
		}
	})

	t.Run("json envelope", func(t *testing.T) {
		resp := doExport(t, router, content.ID, "json")
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
		var payload map[string]any
		if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
			t.Fatalf("json export not JSON: %v", err)
		}
		if payload["id"] != content.ID || payload["content_type"] != "cv" {
			t.Fatalf("unexpected json payload: %v", payload)
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		resp := doExport(t, router, content.ID, "docx")
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.Code)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		resp := doExport(t, router, "missing", "markdown")
		if resp.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", resp.Code)
		}
	})
}

func doExport(t *testing.T, router *gin.Engine, id, format string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/generate/"+id+"/export?export_format="+format, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}
