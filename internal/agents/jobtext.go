package agents

import (
	"fmt"
	"regexp"
	"strings"
)

// synthesizedHeader recognizes a header produced by a previous cleaning pass,
// which keeps the pipeline idempotent.
var synthesizedHeader = regexp.MustCompile(`(?s)^Company: (.*?)\nJob Title: (.*?)\nLocation: (.*?)\n\n(.*)$`)

// Cleaner prepares scraped job-posting text for analysis. The header patterns
// are data, not logic: each must capture company, role, and location in order.
type Cleaner struct {
	headerPatterns []*regexp.Regexp
	startMarkers   []*regexp.Regexp
	noisePatterns  []*regexp.Regexp
}

// NewCleaner returns a Cleaner with defaults tuned to LinkedIn-style postings.
func NewCleaner() *Cleaner {
	return &Cleaner{
		headerPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)([A-Za-z][A-Za-z0-9.&'-]*(?: [A-Za-z][A-Za-z0-9.&'-]*)?) hiring (.+?) in (.+?) \|`),
		},
		startMarkers: []*regexp.Regexp{
			regexp.MustCompile(`(?is)Overview.*?About The Role`),
			regexp.MustCompile(`(?i)About The Role`),
			regexp.MustCompile(`(?i)In this role you will`),
			regexp.MustCompile(`(?i)Required experience`),
			regexp.MustCompile(`(?i)Qualifications`),
			regexp.MustCompile(`(?i)We are looking for`),
			regexp.MustCompile(`(?i)Job Description`),
		},
		noisePatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?is)Apply now.*$`),
			regexp.MustCompile(`(?is)Share this job.*$`),
			regexp.MustCompile(`(?is)Cookie policy.*$`),
			regexp.MustCompile(`(?is)Privacy policy.*$`),
			regexp.MustCompile(`(?is)Join to apply.*?Join now`),
			regexp.MustCompile(`(?is)Similar jobs.*$`),
			regexp.MustCompile(`(?is)People also viewed.*$`),
			regexp.MustCompile(`(?is)Show more.*?Show less.*$`),
		},
	}
}

// WithHeaderPatterns replaces the header patterns. Each pattern must capture
// company, role, and location as its first three groups.
func (c *Cleaner) WithHeaderPatterns(patterns ...*regexp.Regexp) *Cleaner {
	c.headerPatterns = patterns
	return c
}

// Clean runs the full pipeline: whitespace normalization, header extraction,
// section-start slicing, and boilerplate stripping. Cleaning is idempotent.
func (c *Cleaner) Clean(text string) string {
	s := normalizeWhitespace(text)

	header, rest := c.extractHeader(s)

	content := c.sliceFromMarker(rest)
	content = c.stripNoise(content)
	content = strings.TrimSpace(content)

	if header != "" && content != "" {
		return header + "\n\n" + content
	}
	if header != "" {
		return header
	}
	return content
}

func (c *Cleaner) extractHeader(s string) (string, string) {
	if m := synthesizedHeader.FindStringSubmatch(s); m != nil {
		header := fmt.Sprintf("Company: %s\nJob Title: %s\nLocation: %s", m[1], m[2], m[3])
		return header, m[4]
	}
	for _, pattern := range c.headerPatterns {
		m := pattern.FindStringSubmatch(s)
		if m == nil || len(m) < 4 {
			continue
		}
		header := fmt.Sprintf("Company: %s\nJob Title: %s\nLocation: %s", m[1], m[2], m[3])
		return header, s
	}
	return "", s
}

func (c *Cleaner) sliceFromMarker(s string) string {
	for _, marker := range c.startMarkers {
		if loc := marker.FindStringIndex(s); loc != nil {
			return s[loc[0]:]
		}
	}
	return s
}

func (c *Cleaner) stripNoise(s string) string {
	for _, pattern := range c.noisePatterns {
		s = pattern.ReplaceAllString(s, "")
	}
	return s
}

var horizontalWS = regexp.MustCompile(`[ \t]+`)

// normalizeWhitespace collapses runs of spaces within lines and runs of blank
// lines down to a single blank line.
func normalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(horizontalWS.ReplaceAllString(line, " "))
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
