package gemini

import (
	"regexp"
	"strings"
)

// Reply section headings. The prompt instructs the model to answer in
// exactly this shape.
const (
	sectionTitle   = "## Novo Título:"
	sectionExcerpt = "## Novo Resumo:"
	sectionContent = "## Novo Conteúdo:"
)

// Rewrite is a fully parsed model reply.
type Rewrite struct {
	Title   string
	Excerpt string
	Content string
}

var (
	titlePattern   = regexp.MustCompile(`(?s)## Novo Título:[ \t]*\n(.*?)(?:\n## |$)`)
	excerptPattern = regexp.MustCompile(`(?s)## Novo Resumo:[ \t]*\n(.*?)(?:\n## |$)`)
	contentPattern = regexp.MustCompile(`(?s)## Novo Conteúdo:[ \t]*\n(.*)$`)
)

// ParseReply extracts the three sections from a model reply. Returns nil
// when any section is missing or empty; a nil result means the reply is
// unusable and must not be written back.
func ParseReply(text string) *Rewrite {
	title := matchSection(titlePattern, text)
	excerpt := matchSection(excerptPattern, text)
	content := matchSection(contentPattern, text)

	if title == "" || excerpt == "" || content == "" {
		return nil
	}
	return &Rewrite{Title: title, Excerpt: excerpt, Content: content}
}

func matchSection(pattern *regexp.Regexp, text string) string {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
