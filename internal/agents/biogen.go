package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cvtailor-backend/internal/llm"
)

// BioGenerator produces professional bios in a handful of context-specific
// variants. Replies are plain text, trimmed.
type BioGenerator struct {
	Client llm.Client
}

func NewBioGenerator(client llm.Client) *BioGenerator {
	return &BioGenerator{Client: client}
}

// BioOptions selects the prompt variant and its knobs.
type BioOptions struct {
	Context string // presentation, linkedin, executive, elevator, or general
	Length  string // short, medium, long
	Style   string
}

// Generate writes a bio for the profile, optionally informed by a job
// analysis. Returns the bio text and the context variant actually used.
func (g *BioGenerator) Generate(ctx context.Context, profile json.RawMessage, jobContext json.RawMessage, opts BioOptions) (string, string, error) {
	if opts.Length == "" {
		opts.Length = "medium"
	}
	if opts.Style == "" {
		opts.Style = "professional"
	}

	prompt, used := llm.BioPrompt(opts.Context, string(profile), string(jobContext), opts.Length, opts.Style)
	reply, err := g.Client.Complete(ctx, llm.BioInstructions(), prompt)
	if err != nil {
		return "", used, fmt.Errorf("bio generation: %w", err)
	}
	return strings.TrimSpace(reply), used, nil
}
