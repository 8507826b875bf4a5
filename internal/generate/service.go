package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"cvtailor-backend/internal/agents"
	"cvtailor-backend/internal/jobs"
	"cvtailor-backend/internal/profiles"
	"cvtailor-backend/internal/shared/metrics"
	"cvtailor-backend/internal/shared/storage/object"
	"cvtailor-backend/internal/shared/telemetry"
)

const defaultListLimit = 50

type Service struct {
	Repo     Repo
	Profiles *profiles.Service
	Jobs     *jobs.Service
	Tailor   *agents.CVTailor
	Bios     *agents.BioGenerator
	Store    object.ObjectStore
}

// CVParams selects the analysis to tailor against plus presentation knobs.
type CVParams struct {
	JobAnalysisID          string
	Format                 string
	Style                  string
	Template               string
	AdditionalInstructions string
}

// BioParams selects the bio variant and an optional analysis for context.
type BioParams struct {
	JobAnalysisID string
	Context       string
	Length        string
	Style         string
}

// GenerateCV tailors a CV against a stored job analysis and the user's active
// profile, runs the gap analysis, and stores the result.
func (s *Service) GenerateCV(ctx context.Context, userID string, params CVParams) (Content, error) {
	if strings.TrimSpace(params.JobAnalysisID) == "" {
		return Content{}, fmt.Errorf("%w: jobAnalysisId is required", ErrInvalidInput)
	}

	analysis, err := s.Jobs.Get(ctx, userID, params.JobAnalysisID)
	if err != nil {
		return Content{}, err
	}
	profile, err := s.Profiles.Active(ctx, userID)
	if err != nil {
		return Content{}, err
	}

	result, err := s.Tailor.GenerateCV(ctx, profile.ProfileData, analysis.AnalysisData, agents.CVRequest{
		Style:        params.Style,
		Template:     params.Template,
		Instructions: params.AdditionalInstructions,
		IncludeGaps:  true,
	})
	if err != nil {
		return Content{}, err
	}

	format := params.Format
	if format == "" {
		format = "markdown"
	}
	metadata, err := json.Marshal(map[string]any{
		"style":                   params.Style,
		"template":                params.Template,
		"additional_instructions": params.AdditionalInstructions,
		"gap_analysis":            result.GapAnalysis,
	})
	if err != nil {
		return Content{}, fmt.Errorf("serialize cv metadata: %w", err)
	}

	content := Content{
		ID:            uuid.NewString(),
		UserID:        userID,
		JobAnalysisID: analysis.ID,
		ContentType:   TypeCV,
		Content:       result.CVContent,
		Format:        format,
		Metadata:      metadata,
	}
	content.StorageKey = s.archive(ctx, content)
	if err := s.Repo.Create(ctx, content); err != nil {
		return Content{}, err
	}
	metrics.IncCVGenerated()
	return s.Repo.GetByID(ctx, userID, content.ID)
}

// GenerateBio writes a professional bio, optionally informed by a stored job
// analysis, and stores the result.
func (s *Service) GenerateBio(ctx context.Context, userID string, params BioParams) (Content, error) {
	profile, err := s.Profiles.Active(ctx, userID)
	if err != nil {
		return Content{}, err
	}

	jobContext := json.RawMessage(`{}`)
	jobAnalysisID := ""
	if strings.TrimSpace(params.JobAnalysisID) != "" {
		analysis, err := s.Jobs.Get(ctx, userID, params.JobAnalysisID)
		if err != nil {
			return Content{}, err
		}
		jobContext = analysis.AnalysisData
		jobAnalysisID = analysis.ID
	}

	bio, usedContext, err := s.Bios.Generate(ctx, profile.ProfileData, jobContext, agents.BioOptions{
		Context: params.Context,
		Length:  params.Length,
		Style:   params.Style,
	})
	if err != nil {
		return Content{}, err
	}

	metadata, err := json.Marshal(map[string]any{
		"length":    params.Length,
		"bio_style": params.Style,
		"context":   usedContext,
	})
	if err != nil {
		return Content{}, fmt.Errorf("serialize bio metadata: %w", err)
	}

	content := Content{
		ID:            uuid.NewString(),
		UserID:        userID,
		JobAnalysisID: jobAnalysisID,
		ContentType:   TypeBio,
		Content:       bio,
		Format:        "text",
		Metadata:      metadata,
	}
	content.StorageKey = s.archive(ctx, content)
	if err := s.Repo.Create(ctx, content); err != nil {
		return Content{}, err
	}
	metrics.IncBioGenerated()
	return s.Repo.GetByID(ctx, userID, content.ID)
}

// archive writes a copy of the document to the object store. Failures are
// logged and leave the storage key empty; the request itself never fails.
func (s *Service) archive(ctx context.Context, content Content) string {
	if s.Store == nil {
		return ""
	}
	fileName := fmt.Sprintf("%s_%s%s", content.ContentType, content.ID, extensionForFormat(content.Format))
	key, err := object.ArchiveKey(content.UserID, fileName)
	if err != nil {
		telemetry.Error("archive key build failed", map[string]any{"contentId": content.ID, "err": err.Error()})
		return ""
	}
	if _, err := s.Store.Save(ctx, key, mimeForFormat(content.Format), strings.NewReader(content.Content)); err != nil {
		telemetry.Error("archive write failed", map[string]any{"contentId": content.ID, "storageKey": key, "err": err.Error()})
		return ""
	}
	return key
}

func (s *Service) Get(ctx context.Context, userID, contentID string) (Content, error) {
	return s.Repo.GetByID(ctx, userID, contentID)
}

func (s *Service) History(ctx context.Context, userID string, filter ListFilter) ([]Content, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.Repo.List(ctx, userID, filter)
}

func (s *Service) Delete(ctx context.Context, userID, contentID string) error {
	return s.Repo.Delete(ctx, userID, contentID)
}

func extensionForFormat(format string) string {
	switch format {
	case "markdown":
		return ".md"
	case "json":
		return ".json"
	default:
		return ".txt"
	}
}

func mimeForFormat(format string) string {
	switch format {
	case "markdown":
		return "text/markdown"
	case "json":
		return "application/json"
	default:
		return "text/plain"
	}
}
