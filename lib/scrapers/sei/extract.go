package sei

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"sei-exporter/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var processNumberRegex = regexp.MustCompile(`\d{4}\.\s?\d{2}\.\s?\d{7}\s*/\s*\d{4}\s*[-–—]\s*\d{2}`)
var tooltipRegex = regexp.MustCompile(`infraTooltipMostrar\('([^']*)',\s*'([^']*)'\)`)
var markerTooltipRegex = regexp.MustCompile(`infraTooltipMostrar\('([^']*)'`)

var dotSpaceRegex = regexp.MustCompile(`\.\s+`)
var slashSpaceRegex = regexp.MustCompile(`\s*/\s*`)
var dashSpaceRegex = regexp.MustCompile(`\s*-\s*`)

const assigneePrefix = "Atribuído para "

func asciiSpaces(s string) string {
	return strings.ReplaceAll(s, "\u00a0", " ")
}

// CanonicalProcessNumber strips the inconsistent spacing (including NBSP)
// the portal renders inside process numbers.
func CanonicalProcessNumber(s string) string {
	s = asciiSpaces(s)
	s = dotSpaceRegex.ReplaceAllString(s, ".")
	s = slashSpaceRegex.ReplaceAllString(s, "/")
	s = dashSpaceRegex.ReplaceAllString(s, "-")
	return strings.TrimSpace(s)
}

// ExtractRecords reads every process row of one category's listing table out
// of a control-page snapshot. A row without a recognizable process number is
// skipped with a warning; a missing listing table means the whole category
// is unreadable and fails with *LayoutChangedError.
func (c *Client) ExtractRecords(html string, category Category) ([]ProcessRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	marker := "#tblProcessos" + string(category)
	table := doc.Find(marker).First()
	if table.Length() == 0 {
		return nil, &LayoutChangedError{Marker: marker}
	}

	var records []ProcessRecord
	table.Find(`tr[id^="P"]`).Each(func(_ int, row *goquery.Selection) {
		record, ok := c.extractRow(row, category)
		if !ok {
			slog.Warn(
				"skipping listing row without a process number",
				"category", string(category),
				"row_id", row.AttrOr("id", ""),
			)
			return
		}
		records = append(records, record)
	})
	return records, nil
}

func (c *Client) extractRow(row *goquery.Selection, category Category) (ProcessRecord, bool) {
	link := row.Find(`a[href*="acao=procedimento_trabalhar"]`).First()
	if link.Length() == 0 {
		return ProcessRecord{}, false
	}

	// NBSP inside process numbers would defeat the \s in the pattern
	href := link.AttrOr("href", "")
	numero := processNumberRegex.FindString(asciiSpaces(htmlutil.CleanText(link)))
	if numero == "" {
		numero = processNumberRegex.FindString(asciiSpaces(link.AttrOr("title", "")))
	}
	if numero == "" {
		numero = processNumberRegex.FindString(href)
	}
	if numero == "" || href == "" {
		return ProcessRecord{}, false
	}

	recordUrl := c.absoluteUrl(href)
	var query url.Values
	if parsed, err := url.Parse(recordUrl); err == nil {
		query = parsed.Query()
	}

	titulo, tipo := parseTooltip(link.AttrOr("onmouseover", ""))

	var responsavelNome, responsavelCpf string
	assignee := row.Find(`a[href*="acao=procedimento_atribuicao_listar"]`).First()
	if assignee.Length() > 0 {
		responsavelNome = strings.TrimPrefix(assignee.AttrOr("title", ""), assigneePrefix)
		responsavelCpf = strings.TrimSpace(assignee.Text())
	}

	var marcadores []string
	row.Find("img.imagemStatus").Each(func(_ int, img *goquery.Selection) {
		parent := img.ParentsFiltered("a").First()
		if parent.Length() == 0 {
			return
		}
		match := markerTooltipRegex.FindStringSubmatch(parent.AttrOr("onmouseover", ""))
		if len(match) == 2 && strings.TrimSpace(match[1]) != "" {
			marcadores = append(marcadores, strings.TrimSpace(match[1]))
		}
	})

	return ProcessRecord{
		NumeroProcesso:     CanonicalProcessNumber(numero),
		Categoria:          category,
		Visualizado:        link.HasClass("processoVisualizado"),
		Titulo:             titulo,
		TipoEspecificidade: tipo,
		ResponsavelNome:    responsavelNome,
		ResponsavelCpf:     responsavelCpf,
		Marcadores:         marcadores,
		TemDocumentosNovos: row.Find(`img[src*="exclamacao.svg"]`).Length() > 0,
		TemAnotacoes:       row.Find(`img[src*="anotacao"]`).Length() > 0,
		IdProcedimento:     query.Get("id_procedimento"),
		Hash:               query.Get("infra_hash"),
		Url:                recordUrl,
	}, true
}

func parseTooltip(onmouseover string) (string, string) {
	match := tooltipRegex.FindStringSubmatch(onmouseover)
	if len(match) != 3 {
		return "", ""
	}
	return strings.TrimSpace(match[1]), strings.TrimSpace(match[2])
}
