package extract_test

import (
	"reflect"
	"testing"

	"seopress/internal/extract"
)

func TestMainTitleFranchise(t *testing.T) {
	tests := []struct {
		name     string
		headline string
		want     string
	}{
		{"walking dead normalized", "Walking Dead: nova temporada surpreende fãs", "The Walking Dead"},
		{"stranger things", "Stranger Things retorna em maio", "Stranger Things"},
		{"mcu normalized", "MCU anuncia nova fase com 10 filmes", "Marvel"},
		{"velozes normalized", "Velozes e Furiosos ganha data de estreia", "Fast and Furious"},
		{"missao normalized", "Missão Impossível tem novo trailer divulgado", "Mission Impossible"},
		{"case insensitive", "game of thrones completa dez anos", "Game of Thrones"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extract.MainTitle(tt.headline); got != tt.want {
				t.Fatalf("MainTitle(%q) = %q, want %q", tt.headline, got, tt.want)
			}
		})
	}
}

func TestMainTitleStructural(t *testing.T) {
	tests := []struct {
		name     string
		headline string
		want     string
	}{
		{"quoted title", `Por que "Dark Matter" é a melhor estreia do ano`, "Dark Matter"},
		{"colon prefix", "Ruptura: o que esperar dos novos episódios", "Ruptura"},
		{"html entities", "Crítica &#8220;Pantanal Selvagem&#8221; encanta", "Pantanal Selvagem"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extract.MainTitle(tt.headline); got != tt.want {
				t.Fatalf("MainTitle(%q) = %q, want %q", tt.headline, got, tt.want)
			}
		})
	}
}

func TestMainTitleFallbackMeaningfulWords(t *testing.T) {
	got := extract.MainTitle("Duna Parte Dois impressiona crítica internacional")
	if got != "Duna Parte Dois impressiona" {
		t.Fatalf("MainTitle fallback = %q", got)
	}
}

func TestMainTitleRejectsFiller(t *testing.T) {
	if got := extract.MainTitle("Em alta"); got != "" {
		t.Fatalf("expected empty title, got %q", got)
	}
}

func TestContentTitlesFranchisePriority(t *testing.T) {
	content := `<p>A nova temporada de Stranger Things chega em breve. ` +
		`Enquanto isso, o filme "Gladiador Dois" estreia nos cinemas.</p>`
	got := extract.ContentTitles(content)
	// Structural matches are skipped once a franchise was found.
	if !reflect.DeepEqual(got, []string{"Stranger Things"}) {
		t.Fatalf("ContentTitles = %#v", got)
	}
}

func TestContentTitlesStudioPrefix(t *testing.T) {
	// A studio brand in the body must not become the candidate itself; the
	// work's title following it is what gets extracted.
	got := extract.ContentTitles("<p>A Marvel Thunderbolts chega em maio.</p>")
	if len(got) != 1 || got[0] != "Thunderbolts chega em maio" {
		t.Fatalf("ContentTitles = %#v", got)
	}

	// A brand mention with no capitalized title after it yields nothing.
	if got := extract.ContentTitles("<p>O universo Marvel segue em expansão.</p>"); len(got) != 0 {
		t.Fatalf("ContentTitles = %#v, want none", got)
	}
}

func TestContentTitlesStructuralFallback(t *testing.T) {
	content := `<p>O filme "Gladiador Dois" estreia em novembro. ` +
		`Também chega <b>Wicked Parte Um</b> (2024).</p>`
	got := extract.ContentTitles(content)
	if len(got) == 0 || got[0] != "Gladiador Dois" {
		t.Fatalf("ContentTitles = %#v", got)
	}
	if len(got) > 2 {
		t.Fatalf("expected at most 2 titles, got %d", len(got))
	}
}

func TestCandidatesDeduplicatesAndCaps(t *testing.T) {
	headline := "Stranger Things: tudo sobre os novos episódios"
	content := `Game of Thrones e The Boys também aparecem. Avatar idem.`
	got := extract.Candidates(headline, content)
	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %#v", got)
	}
	if got[0] != "Stranger Things" {
		t.Fatalf("headline title should come first: %#v", got)
	}
	seen := map[string]bool{}
	for _, c := range got {
		if seen[c] {
			t.Fatalf("duplicate candidate %q in %#v", c, got)
		}
		seen[c] = true
	}
}

func TestCandidatesFoldsDiacritics(t *testing.T) {
	headline := "Missão Impossível tem novo recorde"
	content := `O próximo Mission Impossible já está em produção.`
	got := extract.Candidates(headline, content)
	if !reflect.DeepEqual(got, []string{"Mission Impossible"}) {
		t.Fatalf("Candidates = %#v", got)
	}
}

func TestIsValidTitle(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"Stranger Things", true},
		{"ab", false},
		{"nova temporada incrível", false},
		{"12345 678", false},
		{"The Boys", true},
		{"of in at", false},
	}
	for _, tt := range tests {
		if got := extract.IsValidTitle(tt.title); got != tt.want {
			t.Errorf("IsValidTitle(%q) = %v, want %v", tt.title, got, tt.want)
		}
	}
}
