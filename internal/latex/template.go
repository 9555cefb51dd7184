package latex

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Section markers a valid template must contain exactly once each. The
// marker is the usage occurrence of the placeholder command; the
// \newcommand definition that keeps an unfilled template compilable is not
// a marker.
const (
	MarkerInfo       = "infoPlaceholder"
	MarkerSummary    = "summaryPlaceholder"
	MarkerEducation  = "eduPlaceholder"
	MarkerExperience = "expPlaceholder"
	MarkerProjects   = "projectsPlaceholder"
	MarkerTechSkills = "techSkillsPlaceholder"
	MarkerSoftSkills = "softSkillsPlaceholder"
)

// SectionMarkers lists every marker the substitution engine resolves
var SectionMarkers = []string{
	MarkerInfo,
	MarkerSummary,
	MarkerEducation,
	MarkerExperience,
	MarkerProjects,
	MarkerTechSkills,
	MarkerSoftSkills,
}

// DefaultTemplateID is used when a request does not select a template
const DefaultTemplateID = "classic"

//go:embed templates/*.tex
var embeddedTemplates embed.FS

type markerSpan struct {
	name  string
	start int
	end   int
}

// Template is an immutable named LaTeX skeleton with resolved marker
// positions. Instances are shared read-only across concurrent requests.
type Template struct {
	ID      string
	source  string
	markers []markerSpan // sorted by start offset
}

// Source returns the raw template skeleton
func (t *Template) Source() string {
	return t.source
}

// Compose replaces every section marker with its fragment and returns the
// final LaTeX source. Markers without a fragment are replaced with the
// empty string, never left dangling. Bytes outside marker spans are
// preserved exactly.
func (t *Template) Compose(fragments map[string]string) string {
	var b strings.Builder
	b.Grow(len(t.source) + composedGrowth(fragments))

	pos := 0
	for _, m := range t.markers {
		b.WriteString(t.source[pos:m.start])
		b.WriteString(fragments[m.name])
		pos = m.end
	}
	b.WriteString(t.source[pos:])
	return b.String()
}

func composedGrowth(fragments map[string]string) int {
	n := 0
	for _, f := range fragments {
		n += len(f)
	}
	return n
}

// ParseTemplate validates a template skeleton and resolves its marker
// spans. A marker that is absent or occurs more than once is a
// configuration error: no request using the template could ever succeed.
func ParseTemplate(id, source string) (*Template, error) {
	var spans []markerSpan
	for _, name := range SectionMarkers {
		found := findMarkerUsages(source, name)
		switch len(found) {
		case 1:
			spans = append(spans, markerSpan{name: name, start: found[0][0], end: found[0][1]})
		case 0:
			return nil, &Error{
				Kind: KindTemplateIntegrity,
				Msg:  fmt.Sprintf("template %q is missing marker \\%s", id, name),
			}
		default:
			return nil, &Error{
				Kind: KindTemplateIntegrity,
				Msg:  fmt.Sprintf("template %q contains marker \\%s %d times, want exactly once", id, name, len(found)),
			}
		}
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	return &Template{ID: id, source: source, markers: spans}, nil
}

// findMarkerUsages returns the [start,end) spans of every usage occurrence
// of \name in src. Matching is markup-aware: the name must be a complete
// command token (the following character is not a letter, so
// \eduPlaceholderX never matches \eduPlaceholder), occurrences inside a
// \newcommand definition are skipped, and a trailing empty brace group is
// folded into the span.
func findMarkerUsages(src, name string) [][2]int {
	token := `\` + name
	var spans [][2]int

	for i := 0; i+len(token) <= len(src); {
		idx := strings.Index(src[i:], token)
		if idx < 0 {
			break
		}
		start := i + idx
		end := start + len(token)
		i = end

		// Reject a longer command that merely starts with the marker name
		if end < len(src) && isCommandLetter(src[end]) {
			continue
		}
		// Skip the \newcommand{\name} definition occurrence
		if isDefinition(src, start) {
			continue
		}
		// Fold an immediately following empty group into the marker span
		if end+1 < len(src) && src[end] == '{' && src[end+1] == '}' {
			end += 2
		}
		spans = append(spans, [2]int{start, end})
	}
	return spans
}

func isCommandLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isDefinition reports whether the command starting at off is the argument
// of \newcommand or \renewcommand, e.g. \newcommand{\eduPlaceholder}{}.
func isDefinition(src string, off int) bool {
	if off == 0 || src[off-1] != '{' {
		return false
	}
	head := src[:off-1]
	return strings.HasSuffix(head, `\newcommand`) || strings.HasSuffix(head, `\renewcommand`)
}

// Store holds every registered template. It is populated once at startup
// and read-only afterwards, so concurrent lookups need no locking.
type Store struct {
	templates map[string]*Template
}

// NewStore loads the embedded templates plus any *.tex files found in
// extraDir (file name without extension becomes the template id). Every
// template is integrity-checked here so a corrupt template fails the
// process at boot instead of corrupting every request that selects it.
func NewStore(extraDir string) (*Store, error) {
	s := &Store{templates: make(map[string]*Template)}

	entries, err := embeddedTemplates.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}
	for _, entry := range entries {
		data, err := embeddedTemplates.ReadFile("templates/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read embedded template %s: %w", entry.Name(), err)
		}
		if err := s.register(templateID(entry.Name()), string(data)); err != nil {
			return nil, err
		}
	}

	if extraDir != "" {
		matches, err := filepath.Glob(filepath.Join(extraDir, "*.tex"))
		if err != nil {
			return nil, fmt.Errorf("scan template dir %s: %w", extraDir, err)
		}
		for _, path := range matches {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read template %s: %w", path, err)
			}
			if err := s.register(templateID(filepath.Base(path)), string(data)); err != nil {
				return nil, err
			}
		}
	}

	if _, ok := s.templates[DefaultTemplateID]; !ok {
		return nil, fmt.Errorf("default template %q not registered", DefaultTemplateID)
	}
	return s, nil
}

func (s *Store) register(id, source string) error {
	tmpl, err := ParseTemplate(id, source)
	if err != nil {
		return err
	}
	s.templates[id] = tmpl
	return nil
}

// Get returns the template with the given id, or the default template when
// id is empty.
func (s *Store) Get(id string) (*Template, bool) {
	if id == "" {
		id = DefaultTemplateID
	}
	tmpl, ok := s.templates[id]
	return tmpl, ok
}

// IDs returns the registered template ids in sorted order
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.templates))
	for id := range s.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func templateID(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
