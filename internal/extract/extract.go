package extract

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxContentTitles   = 2
	maxCandidateTitles = 3
	maxFallbackWords   = 4
)

// franchisePatterns match well-known franchises. Ordered by priority.
var franchisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(The Walking Dead|Walking Dead)\b`),
	regexp.MustCompile(`(?i)\b(Stranger Things)\b`),
	regexp.MustCompile(`(?i)\b(Game of Thrones)\b`),
	regexp.MustCompile(`(?i)\b(House of the Dragon)\b`),
	regexp.MustCompile(`(?i)\b(The Last of Us)\b`),
	regexp.MustCompile(`(?i)\b(Marvel|MCU)\b`),
	regexp.MustCompile(`(?i)\b(DC Comics|DC Universe)\b`),
	regexp.MustCompile(`(?i)\b(Star Wars)\b`),
	regexp.MustCompile(`(?i)\b(Harry Potter)\b`),
	regexp.MustCompile(`(?i)\b(Breaking Bad|Better Call Saul)\b`),
	regexp.MustCompile(`(?i)\b(The Boys)\b`),
	regexp.MustCompile(`(?i)\b(Wednesday|Wandinha)\b`),
	regexp.MustCompile(`(?i)\b(Euphoria)\b`),
	regexp.MustCompile(`(?i)\b(Avatar)\b`),
	regexp.MustCompile(`(?i)\b(John Wick)\b`),
	regexp.MustCompile(`(?i)\b(Fast (?:and|&) Furious|Velozes e Furiosos)\b`),
	regexp.MustCompile(`(?i)\b(Mission Impossible|Missão Impossível)\b`),
}

// canonicalNames maps every franchise variant, case folded, to the exact
// name worth searching for.
var canonicalNames = map[string]string{
	"walking dead":        "The Walking Dead",
	"the walking dead":    "The Walking Dead",
	"stranger things":     "Stranger Things",
	"game of thrones":     "Game of Thrones",
	"house of the dragon": "House of the Dragon",
	"the last of us":      "The Last of Us",
	"marvel":              "Marvel",
	"mcu":                 "Marvel",
	"dc comics":           "DC",
	"dc universe":         "DC",
	"star wars":           "Star Wars",
	"harry potter":        "Harry Potter",
	"breaking bad":        "Breaking Bad",
	"better call saul":    "Better Call Saul",
	"the boys":            "The Boys",
	"wednesday":           "Wednesday",
	"wandinha":            "Wednesday",
	"euphoria":            "Euphoria",
	"avatar":              "Avatar",
	"john wick":           "John Wick",
	"fast and furious":    "Fast and Furious",
	"fast & furious":      "Fast and Furious",
	"velozes e furiosos":  "Fast and Furious",
	"mission impossible":  "Mission Impossible",
	"missão impossível":   "Mission Impossible",
}

// contentFranchisePatterns is the shorter franchise list used for body
// scanning. Studio brands (Marvel, DC, Star Wars, Harry Potter) are left
// out so the studio-prefix content pattern can capture the actual work's
// title instead of the brand name.
var contentFranchisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(The Walking Dead|Walking Dead)\b`),
	regexp.MustCompile(`(?i)\b(Stranger Things)\b`),
	regexp.MustCompile(`(?i)\b(Game of Thrones)\b`),
	regexp.MustCompile(`(?i)\b(House of the Dragon)\b`),
	regexp.MustCompile(`(?i)\b(The Last of Us)\b`),
	regexp.MustCompile(`(?i)\b(Breaking Bad|Better Call Saul)\b`),
	regexp.MustCompile(`(?i)\b(The Boys)\b`),
	regexp.MustCompile(`(?i)\b(Wednesday|Wandinha)\b`),
	regexp.MustCompile(`(?i)\b(Euphoria)\b`),
	regexp.MustCompile(`(?i)\b(Avatar)\b`),
	regexp.MustCompile(`(?i)\b(John Wick)\b`),
	regexp.MustCompile(`(?i)\b(Fast (?:and|&) Furious|Velozes e Furiosos)\b`),
	regexp.MustCompile(`(?i)\b(Mission Impossible|Missão Impossível)\b`),
}

// titlePatterns pull a title out of a post headline by structure alone.
var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`"([^"]{3,50})"`),
	regexp.MustCompile(`“([^”]{3,50})”`),
	regexp.MustCompile(`'([^']{3,50})'`),
	regexp.MustCompile(`(?:série|filme|season|temporada)\s+"?([A-Z][^",.!?]{2,40})"?`),
	regexp.MustCompile(`^([^:]{3,50}):`),
	regexp.MustCompile(`\(([^)]{3,50})\)`),
	regexp.MustCompile(`\[([^\]]{3,50})\]`),
	regexp.MustCompile(`^([A-Z][A-Za-z0-9\s\-\.]{2,40})(?:\s*[:\-–—]|\s*\(|\s*\[)`),
}

// contentPatterns pull titles out of post bodies when no franchise matched.
var contentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"([A-Z][^"]{3,40})"`),
	regexp.MustCompile(`'([A-Z][^']{3,40})'`),
	regexp.MustCompile(`(?i:filme|série|season|temporada)\s+["']?([A-Z][A-Za-z\s]{2,35})["']?`),
	regexp.MustCompile(`(?i:<b>)\s*([A-Z][A-Za-z\s]{3,35})\s*(?i:</b>)`),
	regexp.MustCompile(`([A-Z][A-Za-z\s]{3,35})\s*\(\d{4}\)`),
	regexp.MustCompile(`(?i:Marvel|DC|Netflix|HBO|Amazon|Disney)\s+([A-Z][A-Za-z\s]{3,35})`),
}

var contentCleaner = regexp.MustCompile(`[^\w\s\-:()]`)

// skipPhrases disqualify extracted fragments that are headline filler
// rather than searchable titles.
var skipPhrases = []string{
	"nova temporada", "surpreende", "rotten tomatoes", "temporada de",
	"filme de", "série de", "nova série", "novo filme", "trailer",
	"primeira temporada", "segunda temporada", "terceira temporada",
	"maiores reviravoltas", "da amc", "de grandes", "grandes vilões",
	"vilões implacáveis", "implacáveis", "reviravoltas", "maiores",
	"nova fase", "novo episódio", "episódio de", "temporada final",
	"final de", "estreia de", "lançamento de", "crítica de",
	"análise de", "review de", "comentário sobre", "opinião sobre",
	"sobre a", "sobre o", "em alta", "em cartaz", "nos cinemas",
	"na netflix", "na amazon", "na hbo", "no disney", "streaming",
	"plataforma de", "disponível em", "assistir em", "onde assistir",
}

var genericWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"of": {}, "in": {}, "on": {}, "at": {}, "to": {}, "for": {},
	"with": {}, "by": {},
}

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "o": {}, "e": {}, "de": {}, "da": {},
	"do": {}, "em": {}, "com": {}, "para": {}, "por": {},
	"nova": {}, "novo": {}, "uma": {}, "um": {}, "sua": {}, "seu": {},
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldKey lowercases and strips diacritics so "Missão" and "missao"
// deduplicate to the same candidate.
func foldKey(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

func canonical(match string) string {
	if mapped, ok := canonicalNames[strings.ToLower(strings.TrimSpace(match))]; ok {
		return mapped
	}
	return match
}

// MainTitle extracts the most likely media title from a post headline.
// Returns an empty string when nothing searchable was found.
func MainTitle(postTitle string) string {
	clean := html.UnescapeString(postTitle)

	for _, pattern := range franchisePatterns {
		if m := pattern.FindStringSubmatch(clean); m != nil {
			return canonical(m[1])
		}
	}

	for _, pattern := range titlePatterns {
		if m := pattern.FindStringSubmatch(clean); m != nil {
			title := strings.TrimSpace(m[1])
			if IsValidTitle(title) {
				return title
			}
		}
	}

	// Fallback: collect the leading meaningful words.
	words := strings.Fields(clean)
	if len(words) < 2 {
		return ""
	}
	var meaningful []string
	for _, word := range words {
		if len(meaningful) >= maxFallbackWords {
			break
		}
		if isMeaningfulWord(word) && len([]rune(word)) > 2 {
			meaningful = append(meaningful, word)
		}
	}
	if len(meaningful) >= 2 {
		extracted := strings.Join(meaningful, " ")
		if IsValidTitle(extracted) {
			return extracted
		}
	}
	return ""
}

// ContentTitles extracts up to two candidate titles from a post body.
// Franchise mentions take priority; structural patterns only run when no
// franchise matched.
func ContentTitles(content string) []string {
	var titles []string
	seen := map[string]struct{}{}

	add := func(title string) {
		key := foldKey(title)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		titles = append(titles, title)
	}

	for _, pattern := range contentFranchisePatterns {
		for _, m := range pattern.FindAllStringSubmatch(content, -1) {
			if len([]rune(m[1])) > 2 {
				add(canonical(m[1]))
			}
		}
	}

	if len(titles) == 0 {
		for _, pattern := range contentPatterns {
			for _, m := range pattern.FindAllStringSubmatch(content, -1) {
				title := contentCleaner.ReplaceAllString(strings.TrimSpace(m[1]), " ")
				title = strings.Join(strings.Fields(title), " ")
				if IsValidTitle(title) {
					add(title)
				}
			}
		}
	}

	if len(titles) > maxContentTitles {
		titles = titles[:maxContentTitles]
	}
	return titles
}

// Candidates returns the combined, deduplicated search candidates for a
// post: the headline title first, then content titles, capped at three.
func Candidates(postTitle, content string) []string {
	var candidates []string
	seen := map[string]struct{}{}

	add := func(title string) {
		if title == "" {
			return
		}
		key := foldKey(title)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		candidates = append(candidates, title)
	}

	add(MainTitle(postTitle))
	for _, title := range ContentTitles(content) {
		add(title)
	}

	if len(candidates) > maxCandidateTitles {
		candidates = candidates[:maxCandidateTitles]
	}
	return candidates
}

// IsValidTitle reports whether a fragment is worth searching on TMDB.
func IsValidTitle(title string) bool {
	title = strings.TrimSpace(title)
	runeCount := len([]rune(title))
	if runeCount < 3 || runeCount > 50 {
		return false
	}

	lower := strings.ToLower(title)
	for _, phrase := range skipPhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}

	letters := 0
	for _, r := range title {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			letters++
		}
	}
	if letters == 0 {
		return false
	}
	if float64(letters) < float64(runeCount)*0.5 {
		return false
	}

	meaningful := 0
	for _, word := range strings.Fields(lower) {
		if _, generic := genericWords[word]; generic {
			continue
		}
		if len([]rune(word)) > 2 {
			meaningful++
		}
	}
	return meaningful >= 1
}

func isMeaningfulWord(word string) bool {
	if len([]rune(word)) <= 1 {
		return false
	}
	_, stop := stopWords[strings.ToLower(word)]
	return !stop
}
