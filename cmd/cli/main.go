package main

// Manual harness for the agent pipeline:
//   go run ./cmd/cli status
//   go run ./cmd/cli create-sample -out profile.json
//   go run ./cmd/cli load-profile -file profile.json
//   go run ./cmd/cli analyze-job -url https://... | -file posting.pdf
//   go run ./cmd/cli generate-cv -analysis <id>
//   go run ./cmd/cli generate-bio -context linkedin
//   go run ./cmd/cli quick-test

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"cvtailor-backend/internal/bootstrap"
	"cvtailor-backend/internal/extract"
	"cvtailor-backend/internal/generate"
	"cvtailor-backend/internal/jobs"
	"cvtailor-backend/internal/profiles"
	"cvtailor-backend/internal/shared/config"
)

const cliUserID = "cli-local-user"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		exitErr(fmt.Sprintf("bootstrap: %v", err))
	}
	ctx := context.Background()

	switch os.Args[1] {
	case "status":
		runStatus(ctx, app)
	case "create-sample":
		runCreateSample(os.Args[2:])
	case "load-profile":
		runLoadProfile(ctx, app, os.Args[2:])
	case "analyze-job":
		runAnalyzeJob(ctx, app, os.Args[2:])
	case "generate-cv":
		runGenerateCV(ctx, app, os.Args[2:])
	case "generate-bio":
		runGenerateBio(ctx, app, os.Args[2:])
	case "quick-test":
		runQuickTest(ctx, app)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: cli <status|create-sample|load-profile|analyze-job|generate-cv|generate-bio|quick-test> [flags]")
}

func runStatus(ctx context.Context, app *bootstrap.App) {
	dbState := "in-memory"
	if app.DB != nil {
		dbState = "postgres"
	}
	fmt.Printf("env:          %s\n", app.Config.Env)
	fmt.Printf("storage:      %s (%s)\n", dbState, app.Config.ObjectStoreType)
	fmt.Printf("llm provider: %s (%s)\n", app.Config.LLMProvider, app.Config.LLMModel)

	profile, err := app.ProfilesService.Active(ctx, cliUserID)
	if err != nil {
		fmt.Println("profile:      none loaded")
		return
	}
	fmt.Printf("profile:      version %d\n", profile.Version)
}

func runCreateSample(args []string) {
	fs := flag.NewFlagSet("create-sample", flag.ExitOnError)
	outPath := fs.String("out", "sample_profile.json", "Path to write the sample profile")
	_ = fs.Parse(args)

	data, err := json.MarshalIndent(sampleProfile(), "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("encode sample profile: %v", err))
	}
	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		exitErr(fmt.Sprintf("write sample profile: %v", err))
	}
	fmt.Printf("Sample profile written to %s\n", *outPath)
}

func runLoadProfile(ctx context.Context, app *bootstrap.App, args []string) {
	fs := flag.NewFlagSet("load-profile", flag.ExitOnError)
	filePath := fs.String("file", "", "Path to a profile JSON document")
	_ = fs.Parse(args)

	if strings.TrimSpace(*filePath) == "" {
		exitErr("load-profile: -file is required")
	}
	data, err := os.ReadFile(*filePath)
	if err != nil {
		exitErr(fmt.Sprintf("read profile: %v", err))
	}

	profile, err := app.ProfilesService.Import(ctx, cliUserID, json.RawMessage(data))
	if err != nil {
		exitErr(fmt.Sprintf("import profile: %v", err))
	}
	fmt.Printf("Profile loaded as version %d\n", profile.Version)
}

func runAnalyzeJob(ctx context.Context, app *bootstrap.App, args []string) {
	fs := flag.NewFlagSet("analyze-job", flag.ExitOnError)
	jobURL := fs.String("url", "", "Job posting URL")
	filePath := fs.String("file", "", "Path to a job posting file (txt, pdf, docx)")
	_ = fs.Parse(args)

	jobText := ""
	if strings.TrimSpace(*filePath) != "" {
		text, err := extract.TextFromFile(ctx, *filePath)
		if err != nil {
			exitErr(fmt.Sprintf("extract job text: %v", err))
		}
		jobText = text
	}

	analysis, err := app.JobsService.Analyze(ctx, cliUserID, jobs.AnalyzeRequest{
		JobURL:  *jobURL,
		JobText: jobText,
	})
	if err != nil {
		exitErr(fmt.Sprintf("analyze job: %v", err))
	}

	fmt.Printf("Analysis id: %s\n", analysis.ID)
	fmt.Printf("Job:         %s at %s\n\n", analysis.JobTitle, analysis.CompanyName)
	printJSON(analysis.AnalysisData)
}

func runGenerateCV(ctx context.Context, app *bootstrap.App, args []string) {
	fs := flag.NewFlagSet("generate-cv", flag.ExitOnError)
	analysisID := fs.String("analysis", "", "Job analysis id")
	style := fs.String("style", "", "CV style")
	template := fs.String("template", "", "CV template")
	instructions := fs.String("instructions", "", "Additional instructions")
	outPath := fs.String("out", "", "Path to write the CV markdown (optional)")
	_ = fs.Parse(args)

	content, err := app.GenerateService.GenerateCV(ctx, cliUserID, generate.CVParams{
		JobAnalysisID:          *analysisID,
		Style:                  *style,
		Template:               *template,
		AdditionalInstructions: *instructions,
	})
	if err != nil {
		exitErr(fmt.Sprintf("generate cv: %v", err))
	}

	if strings.TrimSpace(*outPath) != "" {
		if err := os.WriteFile(*outPath, []byte(content.Content), 0o644); err != nil {
			exitErr(fmt.Sprintf("write cv: %v", err))
		}
		fmt.Printf("CV %s written to %s\n", content.ID, *outPath)
		return
	}
	fmt.Println(content.Content)
}

func runGenerateBio(ctx context.Context, app *bootstrap.App, args []string) {
	fs := flag.NewFlagSet("generate-bio", flag.ExitOnError)
	analysisID := fs.String("analysis", "", "Job analysis id (optional)")
	bioContext := fs.String("context", "general", "Bio context: general, presentation, linkedin, executive, elevator")
	length := fs.String("length", "medium", "Bio length: short, medium, long")
	style := fs.String("style", "professional", "Bio style")
	_ = fs.Parse(args)

	content, err := app.GenerateService.GenerateBio(ctx, cliUserID, generate.BioParams{
		JobAnalysisID: *analysisID,
		Context:       *bioContext,
		Length:        *length,
		Style:         *style,
	})
	if err != nil {
		exitErr(fmt.Sprintf("generate bio: %v", err))
	}
	fmt.Println(content.Content)
}

func runQuickTest(ctx context.Context, app *bootstrap.App) {
	if _, err := app.ProfilesService.Active(ctx, cliUserID); err != nil {
		if err != profiles.ErrNoActiveProfile {
			exitErr(fmt.Sprintf("load profile: %v", err))
		}
		data, err := json.Marshal(sampleProfile())
		if err != nil {
			exitErr(fmt.Sprintf("encode sample profile: %v", err))
		}
		if _, err := app.ProfilesService.Import(ctx, cliUserID, data); err != nil {
			exitErr(fmt.Sprintf("import sample profile: %v", err))
		}
		fmt.Println("Loaded sample profile")
	}

	analysis, err := app.JobsService.Analyze(ctx, cliUserID, jobs.AnalyzeRequest{JobText: sampleJobPosting})
	if err != nil {
		exitErr(fmt.Sprintf("analyze sample job: %v", err))
	}
	fmt.Printf("Analyzed sample job: %s at %s\n", analysis.JobTitle, analysis.CompanyName)

	content, err := app.GenerateService.GenerateCV(ctx, cliUserID, generate.CVParams{JobAnalysisID: analysis.ID})
	if err != nil {
		exitErr(fmt.Sprintf("generate cv: %v", err))
	}
	fmt.Printf("Generated CV %s (%d chars)\n", content.ID, len(content.Content))
}

func printJSON(raw json.RawMessage) {
	var buf map[string]any
	if err := json.Unmarshal(raw, &buf); err != nil {
		fmt.Println(string(raw))
		return
	}
	pretty, err := json.MarshalIndent(buf, "", "  ")
	if err != nil {
		fmt.Println(string(raw))
		return
	}
	fmt.Println(string(pretty))
}

func sampleProfile() map[string]any {
	return map[string]any{
		"personal_info": map[string]any{
			"full_name": "Jane Doe",
			"email":     "jane.doe@example.com",
			"location":  "Berlin, Germany",
		},
		"professional_summary": "Backend engineer with eight years of experience building data-heavy services in Go and Python.",
		"work_experience": []map[string]any{
			{
				"company":  "Acme Analytics",
				"title":    "Senior Backend Engineer",
				"duration": "2021 - present",
				"highlights": []string{
					"Led migration of the ingestion pipeline to event-driven processing",
					"Cut p99 API latency from 900ms to 120ms",
				},
			},
		},
		"skills": map[string]any{
			"technical": []string{"Go", "Python", "PostgreSQL", "AWS", "Kubernetes"},
			"soft":      []string{"Mentoring", "Incident command"},
		},
		"education": []map[string]any{
			{"degree": "BSc Computer Science", "institution": "TU Berlin", "year": "2016"},
		},
	}
}

const sampleJobPosting = `Acme hiring Senior Platform Engineer in Berlin | LinkedIn

About The Role
We are looking for a Senior Platform Engineer to own our deployment platform.

Qualifications
- 5+ years building backend services in Go
- Experience with Kubernetes and AWS
- Strong PostgreSQL skills

Apply now and join our team.`

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
