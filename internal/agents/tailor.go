package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"cvtailor-backend/internal/llm"
)

// CVResult carries the generated markdown CV and an optional gap analysis.
// GapAnalysis is nil when the second call fails or is skipped.
type CVResult struct {
	CVContent   string
	GapAnalysis map[string]any
}

// CVTailor generates a tailored CV from a profile and a job analysis.
type CVTailor struct {
	Client llm.Client
}

func NewCVTailor(client llm.Client) *CVTailor {
	return &CVTailor{Client: client}
}

// CVRequest parameterizes a CV generation run.
type CVRequest struct {
	Style        string
	Template     string
	Instructions string
	IncludeGaps  bool
}

// GenerateCV issues one prompt for the markdown CV and, when requested, a
// second sequential prompt for the gap analysis. A gap-analysis failure never
// fails the CV.
func (t *CVTailor) GenerateCV(ctx context.Context, profile, analysis json.RawMessage, req CVRequest) (CVResult, error) {
	style := req.Style
	if style == "" {
		style = "professional"
	}
	template := req.Template
	if template == "" {
		template = "ats_optimized"
	}

	prompt := llm.CVPrompt(string(profile), string(analysis), style, template)
	if req.Instructions != "" {
		prompt += "\n\nAdditional instructions:\n" + req.Instructions
	}
	content, err := t.Client.Complete(ctx, llm.CVTailorInstructions(), prompt)
	if err != nil {
		return CVResult{}, fmt.Errorf("cv generation: %w", err)
	}

	result := CVResult{CVContent: content}
	if req.IncludeGaps {
		result.GapAnalysis = t.analyzeGaps(ctx, profile, analysis)
	}
	return result, nil
}

// analyzeGaps returns the parsed gap structure, or the documented empty
// structure when the call or parse fails.
func (t *CVTailor) analyzeGaps(ctx context.Context, profile, analysis json.RawMessage) map[string]any {
	reply, err := t.Client.Complete(ctx, llm.CVTailorInstructions(), llm.GapAnalysisPrompt(string(profile), string(analysis)))
	if err != nil {
		return emptyGapAnalysis()
	}
	parsed, err := sliceJSON(reply)
	if err != nil {
		return emptyGapAnalysis()
	}
	return parsed
}

func emptyGapAnalysis() map[string]any {
	return map[string]any{
		"technical_skills_gaps": []any{},
		"experience_gaps":       []any{},
		"certification_gaps":    []any{},
		"soft_skills_gaps":      []any{},
		"overall_strengths":     []any{},
		"match_percentage":      "Unable to analyze",
	}
}
