package gemini

import (
	"errors"
	"strings"
	"testing"
	"time"

	"seopress/internal/media"
)

func TestBuildPromptIncludesContentAndMedia(t *testing.T) {
	in := Input{
		Title:   "Stranger Things retorna",
		Excerpt: "A série volta em maio.",
		Content: "<p>Detalhes da nova temporada.</p>",
		Tags:    []string{"stranger-things", "netflix"},
		Domain:  "exemplo.com.br",
		Media: media.Bundle{
			Images: []media.Image{
				{URL: "https://image.tmdb.org/t/p/w500/st.jpg", Alt: "Poster da série Stranger Things", Kind: "poster", Title: "Stranger Things"},
			},
			Trailers: []media.Trailer{
				{URL: "https://www.youtube.com/watch?v=abc123", Title: "Trailer: Stranger Things - Oficial", Kind: "Trailer", YouTubeKey: "abc123"},
			},
		},
	}
	prompt := BuildPrompt(in)

	for _, want := range []string{
		"Stranger Things retorna",
		"stranger-things, netflix",
		`https://exemplo.com.br/tag/NOME-DA-TAG`,
		"### IMAGENS DISPONÍVEIS:",
		"### TRAILERS DISPONÍVEIS:",
		"YouTube ID = abc123",
		sectionTitle,
		sectionExcerpt,
		sectionContent,
		`<img src="URL"`,
		`<iframe width="560"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptWithoutMedia(t *testing.T) {
	prompt := BuildPrompt(Input{Title: "t", Excerpt: "e", Content: "c", Domain: "exemplo.com.br"})
	if !strings.Contains(prompt, "Nenhuma mídia encontrada") {
		t.Error("prompt should state no media was found")
	}
}

func TestParseReplyRoundTrip(t *testing.T) {
	reply := "## Novo Título:\nStranger Things: data de estreia confirmada\n\n" +
		"## Novo Resumo:\nA Netflix confirmou a estreia da nova temporada.\n\n" +
		"## Novo Conteúdo:\n<p>Primeiro parágrafo.</p>\n<p>Segundo parágrafo.</p>"

	rewrite := ParseReply(reply)
	if rewrite == nil {
		t.Fatal("expected rewrite, got nil")
	}
	if rewrite.Title != "Stranger Things: data de estreia confirmada" {
		t.Errorf("title = %q", rewrite.Title)
	}
	if rewrite.Excerpt != "A Netflix confirmou a estreia da nova temporada." {
		t.Errorf("excerpt = %q", rewrite.Excerpt)
	}
	if !strings.Contains(rewrite.Content, "<p>Segundo parágrafo.</p>") {
		t.Errorf("content = %q", rewrite.Content)
	}
}

func TestParseReplyMissingSection(t *testing.T) {
	reply := "## Novo Título:\nTítulo novo\n\n## Novo Resumo:\nResumo novo"
	if got := ParseReply(reply); got != nil {
		t.Fatalf("expected nil for missing content section, got %#v", got)
	}
}

func TestParseReplyEmptySection(t *testing.T) {
	reply := "## Novo Título:\n\n## Novo Resumo:\nResumo\n\n## Novo Conteúdo:\nConteúdo"
	if got := ParseReply(reply); got != nil {
		t.Fatalf("expected nil for empty title, got %#v", got)
	}
}

func TestParseReplyPreservesMultilineContent(t *testing.T) {
	reply := "## Novo Título:\nT\n\n## Novo Resumo:\nR\n\n## Novo Conteúdo:\n<p>a</p>\n\n<h2>Subtítulo</h2>\n<p>b</p>"
	rewrite := ParseReply(reply)
	if rewrite == nil {
		t.Fatal("expected rewrite")
	}
	if !strings.Contains(rewrite.Content, "<h2>Subtítulo</h2>") {
		t.Errorf("content lost interior headings: %q", rewrite.Content)
	}
}

func TestIsQuotaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"quota text", errors.New("googleapi: Error 429: quota exceeded for metric"), true},
		{"429 without quota", errors.New("http 429 too many requests"), false},
		{"other error", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsQuotaError(tt.err); got != tt.want {
				t.Errorf("IsQuotaError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryDelay(t *testing.T) {
	err := errors.New("429 quota exceeded. retry_delay { seconds: 42 }")
	delay, ok := RetryDelay(err)
	if !ok {
		t.Fatal("expected a delay suggestion")
	}
	if delay != 43*time.Second {
		t.Errorf("delay = %v, want 43s", delay)
	}

	if _, ok := RetryDelay(errors.New("429 quota exceeded")); ok {
		t.Error("expected no delay suggestion")
	}
}
