package latex

import (
	"strings"

	"resumeforge/pkg/models"
)

// BuildFragments converts structured resume data into one LaTeX fragment
// per section marker. Every marker gets an entry, so Compose never leaves
// a placeholder dangling; empty collections produce an empty fragment and
// the template's section header renders a visually empty section.
func BuildFragments(data models.ResumeData) map[string]string {
	return map[string]string{
		MarkerInfo:       buildInfo(data.Info),
		MarkerSummary:    Escape(strings.TrimSpace(data.Info.Summary)),
		MarkerEducation:  buildEducation(data.Education),
		MarkerExperience: buildExperience(data.Experience),
		MarkerProjects:   buildProjects(data.Projects),
		MarkerTechSkills: buildTechSkills(data.TechnicalSkills),
		MarkerSoftSkills: buildSoftSkills(data.SoftSkills),
	}
}

// buildInfo renders the heading block: name plus whichever contact fields
// are present, separated by ~ spacers. Link targets are passed to \href
// raw; only the visible text is escaped.
func buildInfo(info models.PersonalInfo) string {
	var b strings.Builder

	b.WriteString(`{\Huge \scshape ` + Escape(info.Name) + `} \\ \vspace{1pt}` + "\n")

	var contacts []string
	if info.Address != "" {
		contacts = append(contacts, `\small `+Escape(info.Address))
	}
	if info.Phone != "" {
		contacts = append(contacts, `\raisebox{-0.1\height}\faPhone\ `+Escape(info.Phone))
	}
	if info.Email != "" {
		contacts = append(contacts,
			`\href{`+mailtoURL(info.Email)+`}{\raisebox{-0.2\height}\faEnvelope\ \underline{`+Escape(info.Email)+`}}`)
	}
	if info.LinkedIn != "" {
		contacts = append(contacts,
			`\href{`+linkURL(info.LinkedIn)+`}{\raisebox{-0.2\height}\faLinkedin\ \underline{`+Escape(info.LinkedIn)+`}}`)
	}
	if info.Github != "" {
		contacts = append(contacts,
			`\href{`+linkURL(info.Github)+`}{\raisebox{-0.2\height}\faGithub\ \underline{`+Escape(info.Github)+`}}`)
	}

	if len(contacts) > 0 {
		b.WriteString(`\small ` + strings.Join(contacts, ` ~ `) + "\n")
	}
	b.WriteString(`\vspace{-8pt}`)
	return b.String()
}

func buildEducation(entries []models.Education) string {
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`\resumeSubHeadingListStart` + "\n")
	for _, edu := range entries {
		degree := Escape(edu.Degree)
		if edu.GPA != "" {
			degree += `, GPA: ` + Escape(edu.GPA)
		}
		b.WriteString(`\resumeEduSubheading` +
			`{` + Escape(edu.School) + `}` +
			`{` + dateRange(edu.StartDate, edu.EndDate, "") + `}` +
			`{` + degree + `}` +
			`{` + Escape(edu.Location) + `}` + "\n")
	}
	b.WriteString(`\resumeSubHeadingListEnd`)
	return b.String()
}

func buildExperience(entries []models.Experience) string {
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`\resumeSubHeadingListStart` + "\n")
	for _, exp := range entries {
		b.WriteString(`\resumeSubheading` +
			`{` + Escape(exp.Title) + `}` +
			`{` + dateRange(exp.StartDate, exp.EndDate, "Present") + `}` +
			`{` + Escape(exp.Company) + `}` +
			`{` + Escape(exp.Location) + `}` + "\n")
		writeItemList(&b, bulletPoints(exp.Highlights, exp.Description))
	}
	b.WriteString(`\resumeSubHeadingListEnd`)
	return b.String()
}

func buildProjects(entries []models.Project) string {
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`\resumeSubHeadingListStart` + "\n")
	for _, proj := range entries {
		heading := `\textbf{` + Escape(proj.Name) + `}`
		if proj.Tagline != "" {
			heading += ` $|$ \emph{` + Escape(proj.Tagline) + `}`
		}
		b.WriteString(`\resumeProjectHeading` +
			`{` + heading + `}` +
			`{` + Escape(proj.EndDate) + `}` + "\n")
		writeItemList(&b, bulletPoints(proj.Highlights, proj.Description))
	}
	b.WriteString(`\resumeSubHeadingListEnd`)
	return b.String()
}

func buildTechSkills(categories []models.SkillCategory) string {
	if len(categories) == 0 {
		return ""
	}

	lines := make([]string, 0, len(categories))
	for _, cat := range categories {
		lines = append(lines,
			`\textbf{`+Escape(cat.Category)+`}{: `+EscapeJoin(cat.Skills, ", ")+`}`)
	}
	return strings.Join(lines, ` \\`+"\n")
}

func buildSoftSkills(skills []string) string {
	if len(skills) == 0 {
		return ""
	}
	return `\emph{` + EscapeJoin(skills, ", ") + `}`
}

// writeItemList renders bullet points as a resumeItem list. No bullets
// means no list environment at all - an empty itemize is invalid LaTeX.
func writeItemList(b *strings.Builder, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(`\resumeItemListStart` + "\n")
	for _, item := range items {
		b.WriteString(`\resumeItem{` + Escape(item) + `}` + "\n")
	}
	b.WriteString(`\resumeItemListEnd` + "\n")
}

// bulletPoints prefers caller-segmented highlights; a prose description is
// split into sentences as a fallback.
func bulletPoints(highlights []string, description string) []string {
	if len(highlights) > 0 {
		out := make([]string, 0, len(highlights))
		for _, h := range highlights {
			if h = strings.TrimSpace(h); h != "" {
				out = append(out, ensurePeriod(h))
			}
		}
		return out
	}

	var out []string
	for _, sentence := range strings.Split(description, ". ") {
		if sentence = strings.TrimSpace(sentence); sentence != "" {
			out = append(out, ensurePeriod(sentence))
		}
	}
	return out
}

func ensurePeriod(s string) string {
	if strings.HasSuffix(s, ".") {
		return s
	}
	return s + "."
}

// dateRange formats a start/end pair. A missing end date falls back to
// openEnded ("Present" for experience, blank for education).
func dateRange(start, end, openEnded string) string {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)

	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return Escape(end)
	case end == "":
		if openEnded == "" {
			return Escape(start)
		}
		return Escape(start) + ` -- ` + openEnded
	default:
		return Escape(start) + ` -- ` + Escape(end)
	}
}

// hrefEscaper percent-encodes the characters that would terminate an \href
// URL group early or reintroduce a command token. RFC 5322 permits most of
// these in an email local part, so the mailto target needs it as much as a
// profile link does. The replacement is single-pass, so the inserted %XX
// sequences are not re-encoded.
var hrefEscaper = strings.NewReplacer(
	"%", "%25",
	`\`, "%5C",
	"{", "%7B",
	"}", "%7D",
	"#", "%23",
	"&", "%26",
	"$", "%24",
	" ", "%20",
)

// linkURL normalizes a user-supplied profile link into an \href target.
// The target is a URL, not rendered text, so it is percent-encoded rather
// than LaTeX-escaped.
func linkURL(raw string) string {
	url := hrefEscaper.Replace(strings.TrimSpace(raw))
	if !strings.Contains(url, "://") {
		url = "https://" + url
	}
	return url
}

// mailtoURL builds the \href target for an email address
func mailtoURL(email string) string {
	return "mailto:" + hrefEscaper.Replace(strings.TrimSpace(email))
}
