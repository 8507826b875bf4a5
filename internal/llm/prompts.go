package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/job_analyzer_instructions.txt
	jobAnalyzerInstructions string
	//go:embed prompts/job_analysis.txt
	jobAnalysisTemplate string
	//go:embed prompts/job_keywords.txt
	jobKeywordsTemplate string
	//go:embed prompts/cv_tailor_instructions.txt
	cvTailorInstructions string
	//go:embed prompts/cv_tailor.txt
	cvTailorTemplate string
	//go:embed prompts/gap_analysis.txt
	gapAnalysisTemplate string
	//go:embed prompts/bio_instructions.txt
	bioInstructions string
	//go:embed prompts/bio_general.txt
	bioGeneralTemplate string
	//go:embed prompts/bio_presentation.txt
	bioPresentationTemplate string
	//go:embed prompts/bio_linkedin.txt
	bioLinkedInTemplate string
	//go:embed prompts/bio_executive.txt
	bioExecutiveTemplate string
	//go:embed prompts/bio_elevator.txt
	bioElevatorTemplate string
)

// JobAnalyzerInstructions returns the system instructions for the job analyzer.
func JobAnalyzerInstructions() string { return jobAnalyzerInstructions }

// JobAnalysisPrompt fills the analysis template with cleaned job content.
func JobAnalysisPrompt(jobContent string) string {
	return strings.NewReplacer("{{JOB_CONTENT}}", jobContent).Replace(jobAnalysisTemplate)
}

// JobKeywordsPrompt fills the ATS keyword template with a serialized analysis.
func JobKeywordsPrompt(analysisJSON string) string {
	return strings.NewReplacer("{{JOB_ANALYSIS}}", analysisJSON).Replace(jobKeywordsTemplate)
}

// CVTailorInstructions returns the system instructions for the CV tailor.
func CVTailorInstructions() string { return cvTailorInstructions }

// CVPrompt fills the CV template with profile, analysis, and rendering options.
func CVPrompt(profileJSON, analysisJSON, style, template string) string {
	return strings.NewReplacer(
		"{{JOB_ANALYSIS}}", analysisJSON,
		"{{USER_PROFILE}}", profileJSON,
		"{{STYLE}}", style,
		"{{FORMAT}}", template,
	).Replace(cvTailorTemplate)
}

// GapAnalysisPrompt fills the gap-analysis template.
func GapAnalysisPrompt(profileJSON, analysisJSON string) string {
	return strings.NewReplacer(
		"{{JOB_ANALYSIS}}", analysisJSON,
		"{{USER_PROFILE}}", profileJSON,
	).Replace(gapAnalysisTemplate)
}

// BioInstructions returns the system instructions for the bio generator.
func BioInstructions() string { return bioInstructions }

// BioPrompt selects the template for the requested context and fills it.
// Unknown contexts fall back to the general template.
func BioPrompt(context, profileJSON, jobContextJSON, length, style string) (string, string) {
	template := bioGeneralTemplate
	used := "general"
	switch context {
	case "presentation":
		template = bioPresentationTemplate
		used = "presentation"
	case "linkedin":
		template = bioLinkedInTemplate
		used = "linkedin"
	case "executive":
		template = bioExecutiveTemplate
		used = "executive"
	case "elevator":
		template = bioElevatorTemplate
		used = "elevator"
	}
	if strings.TrimSpace(jobContextJSON) == "" {
		jobContextJSON = "General professional bio"
	}
	prompt := strings.NewReplacer(
		"{{USER_PROFILE}}", profileJSON,
		"{{JOB_CONTEXT}}", jobContextJSON,
		"{{LENGTH}}", lengthGuideline(length),
		"{{STYLE}}", style,
	).Replace(template)
	return prompt, used
}

func lengthGuideline(length string) string {
	switch length {
	case "short":
		return "50-75 words (elevator pitch)"
	case "long":
		return "200-300 words (multiple paragraphs)"
	default:
		return "100-150 words (one paragraph)"
	}
}
