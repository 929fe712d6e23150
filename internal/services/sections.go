package services

import (
	"regexp"
	"strings"
)

// Section keys produced by Segment.
const (
	SectionName       = "name"
	SectionEmail      = "email"
	SectionPhone      = "phone"
	SectionSummary    = "summary"
	SectionEducation  = "education"
	SectionExperience = "experience"
	SectionSkills     = "skills"
)

var (
	nameRe  = regexp.MustCompile(`^[A-Z][a-zA-Z\s]+$`)
	emailRe = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	phoneRe = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

	// Header patterns. Summary and education headers may carry trailing
	// content on the same line; experience and skills headers must stand
	// alone.
	sectionHeaderPatterns = []struct {
		name string
		re   *regexp.Regexp
	}{
		{SectionSummary, regexp.MustCompile(`(?i)^(professional\s*)?(summary|profile|objective)[\s:]*`)},
		{SectionEducation, regexp.MustCompile(`(?i)^(education|degree|university|college)[\s:]*`)},
		{SectionExperience, regexp.MustCompile(`(?i)^(work\s*(experience|history)|experience|employment history)[\s:]*$`)},
		{SectionSkills, regexp.MustCompile(`(?i)^(skills|technical skills|core competencies)[\s:]*$`)},
	}

	keywordSplitRe = regexp.MustCompile(`[\n,]`)
	labelPrefixRe  = regexp.MustCompile(`(?s)^.*[:\-]`)
)

// SectionExtractor segments raw resume or job text into named sections using
// header patterns, and pulls contact fields from the preamble.
type SectionExtractor struct{}

func NewSectionExtractor() *SectionExtractor {
	return &SectionExtractor{}
}

// Segment scans line by line. A line matching a section header switches the
// current section; subsequent lines accumulate into it until the next header.
// Lines before any header are matched against contact patterns, each
// populated at most once (first match wins). A header with no content lines
// still yields an empty string, not an absent key.
func (e *SectionExtractor) Segment(text string) map[string]string {
	collected := make(map[string][]string)
	contact := make(map[string]string)

	currSection := ""
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		isHeader := false
		for _, header := range sectionHeaderPatterns {
			if header.re.MatchString(line) {
				currSection = header.name
				if _, ok := collected[currSection]; !ok {
					collected[currSection] = []string{}
				}
				isHeader = true
				break
			}
		}
		if isHeader {
			continue
		}

		if currSection == "" {
			if _, ok := contact[SectionName]; !ok {
				if match := nameRe.FindString(line); match != "" {
					contact[SectionName] = match
				}
			}
			if _, ok := contact[SectionEmail]; !ok {
				if match := emailRe.FindString(line); match != "" {
					contact[SectionEmail] = match
				}
			}
			if _, ok := contact[SectionPhone]; !ok {
				if match := phoneRe.FindString(line); match != "" {
					contact[SectionPhone] = match
				}
			}
			continue
		}

		collected[currSection] = append(collected[currSection], strings.TrimSpace(line))
	}

	sections := make(map[string]string, len(collected)+len(contact))
	for name, value := range contact {
		sections[name] = value
	}
	for name, lines := range collected {
		sections[name] = strings.Join(lines, "\n")
	}
	return sections
}

// ExtractKeywords turns a raw skills blob into a keyword list. Strings are
// split on newlines and commas, label prefixes (anything up to a trailing
// colon or dash) are stripped, and whitespace trimmed. A value that is
// already a list is returned unchanged; any other type yields an empty list.
func ExtractKeywords(value any) []string {
	switch v := value.(type) {
	case string:
		parts := keywordSplitRe.Split(v, -1)
		keywords := make([]string, 0, len(parts))
		for _, part := range parts {
			part = labelPrefixRe.ReplaceAllString(part, "")
			part = strings.TrimSpace(part)
			if part != "" {
				keywords = append(keywords, part)
			}
		}
		return keywords
	case []string:
		return v
	default:
		return []string{}
	}
}
