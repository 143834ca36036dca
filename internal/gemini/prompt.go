package gemini

import (
	"fmt"
	"strings"

	"seopress/internal/media"
)

// Input carries everything the rewrite prompt needs for one post.
type Input struct {
	Title   string
	Excerpt string
	Content string
	Tags    []string
	Domain  string
	Media   media.Bundle
}

// BuildPrompt renders the SEO rewrite prompt sent to Gemini. The reply
// format section pins the exact headings ParseReply looks for.
func BuildPrompt(in Input) string {
	var b strings.Builder

	b.WriteString("Você é um jornalista especialista em cultura pop, cinema e séries. ")
	b.WriteString("Sua tarefa é revisar o conteúdo abaixo para SEO no Google News, sem alterar a essência do texto. ")
	b.WriteString("A revisão deve seguir as diretrizes abaixo:\n\n")
	b.WriteString("1. Otimize o título, mantendo a clareza e adicionando palavras-chave relevantes para melhorar o desempenho nos mecanismos de busca.\n")
	b.WriteString("2. Reescreva o resumo (excerpt) tornando-o mais atrativo e informativo, com foco em engajamento e SEO.\n")
	b.WriteString("3. Reestruture o conteúdo completo sem mudar o sentido original:\n")
	b.WriteString("   - Separe parágrafos muito grandes em blocos menores e mais escaneáveis.\n")
	b.WriteString("   - Mantenha o tom jornalístico e informativo.\n")
	b.WriteString("4. Destaque com tags HTML <b>negrito</b> os principais nomes, termos e expressões importantes (títulos de filmes, nomes de personagens, diretores, datas etc.).\n")
	b.WriteString("5. Insira links internos em HTML em termos relacionados a outras matérias, com base nas tags fornecidas. Use esta estrutura de link:\n")
	fmt.Fprintf(&b, "   <a href=\"https://%s/tag/NOME-DA-TAG\">Texto âncora</a>\n\n", in.Domain)
	b.WriteString("Exemplo:\n")
	fmt.Fprintf(&b, "<b><a href=\"https://%s/tag/stranger-things\">Stranger Things</a></b>\n\n", in.Domain)
	b.WriteString("Importante:\n")
	b.WriteString("- Use APENAS HTML: <b> para negrito e <a href=\"\"> para links\n")
	b.WriteString("- NÃO use markdown (**texto** ou [texto](link))\n")
	b.WriteString("- Inclua imagens e trailers quando disponíveis (dados fornecidos abaixo)\n")
	b.WriteString("- Para imagens: use <img src=\"URL\" alt=\"DESCRIÇÃO\" style=\"width:100%;max-width:500px;height:auto;margin:10px 0;\">\n")
	b.WriteString("- Para trailers: use <iframe width=\"560\" height=\"315\" src=\"https://www.youtube.com/embed/ID_DO_VIDEO\" frameborder=\"0\" allowfullscreen style=\"margin:10px 0;\"></iframe>\n")
	b.WriteString("- Não mude o conteúdo nem o sentido original, apenas melhore a estrutura, o SEO e a escaneabilidade para o Google News.\n\n")

	b.WriteString("## MÍDIA DISPONÍVEL:\n")
	b.WriteString(formatMedia(in.Media))
	b.WriteString("\n\n## CONTEÚDO ORIGINAL:\n\n")
	fmt.Fprintf(&b, "**Título:** %s\n\n", in.Title)
	fmt.Fprintf(&b, "**Resumo:** %s\n\n", in.Excerpt)
	fmt.Fprintf(&b, "**Tags disponíveis:** %s\n\n", strings.Join(in.Tags, ", "))
	fmt.Fprintf(&b, "**Conteúdo:**\n%s\n\n", in.Content)

	b.WriteString("## FORMATO DA RESPOSTA (responda EXATAMENTE neste formato):\n\n")
	b.WriteString(sectionTitle + "\n(título otimizado)\n\n")
	b.WriteString(sectionExcerpt + "\n(resumo otimizado)\n\n")
	b.WriteString(sectionContent + "\n(conteúdo revisado com parágrafos curtos, negrito e links internos)")

	return b.String()
}

func formatMedia(bundle media.Bundle) string {
	if bundle.Empty() {
		return "Nenhuma mídia encontrada"
	}

	var lines []string
	if len(bundle.Images) > 0 {
		lines = append(lines, "### IMAGENS DISPONÍVEIS:")
		for _, img := range bundle.Images {
			lines = append(lines, fmt.Sprintf("- %s (%s): %s - Alt: %s", img.Title, img.Kind, img.URL, img.Alt))
		}
	}
	if len(bundle.Trailers) > 0 {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, "### TRAILERS DISPONÍVEIS:")
		for _, trailer := range bundle.Trailers {
			lines = append(lines, fmt.Sprintf("- %s: YouTube ID = %s", trailer.Title, trailer.YouTubeKey))
		}
	}
	if len(lines) == 0 {
		return "Nenhuma mídia encontrada"
	}
	return strings.Join(lines, "\n")
}
