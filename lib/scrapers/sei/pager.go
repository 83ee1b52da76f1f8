package sei

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"sei-exporter/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

var captionTotalRegex = regexp.MustCompile(`(\d+)\s+registros`)
var captionRangeRegex = regexp.MustCompile(`-\s*(\d+)\s*a\s*(\d+)`)

// Pager walks one category's listing forward, one page per Next call. It is
// finite and not restartable: build a fresh one with Pages to start over.
type Pager struct {
	client   *Client
	category Category

	html  string
	next  int
	total int
	done  bool
}

// Pages returns a pager over one category of the Controle de Processos
// screen. The client must be logged in before the first Next call.
func (c *Client) Pages(category Category) *Pager {
	return &Pager{
		client:   c,
		category: category,
		next:     1,
	}
}

// Next fetches and extracts the next page. It returns nil, nil once the
// listing is exhausted.
func (p *Pager) Next(ctx context.Context) (*ResultPage, error) {
	if p.done {
		return nil, nil
	}

	ctx, span := tracer.Start(ctx, "pager:Next")
	defer span.End()

	var html string
	if p.next == 1 {
		if p.client.controlHtml == "" {
			span.SetStatus(codes.Error, "no control page")
			return nil, fmt.Errorf("no control page loaded, login first")
		}
		html = p.client.controlHtml
	} else {
		var err error
		html, err = p.client.submitPagination(ctx, p.html, p.category, p.next-1)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	records, err := p.client.ExtractRecords(html, p.category)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if p.next == 1 {
		p.total = readPaginationInfo(html, p.category, len(records))
	} else if len(records) == 0 {
		// the portal wrapped around or the listing shrank mid-run, stop
		slog.WarnContext(
			ctx, "empty listing page before the expected end",
			"category", string(p.category),
			"page", p.next,
		)
		p.done = true
		return nil, nil
	}

	page := &ResultPage{
		Category: p.category,
		Index:    p.next,
		Records:  records,
		HasNext:  p.next < p.total,
	}

	p.html = html
	p.next++
	if !page.HasNext {
		p.done = true
	}
	return page, nil
}

// submitPagination replays the control form asking for a specific page of one
// category. `page` is the portal's own 0-based index.
func (c *Client) submitPagination(ctx context.Context, html string, category Category, page int) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	form := doc.Find("form#frmProcedimentoControlar").First()
	if form.Length() == 0 {
		return "", &LayoutChangedError{Marker: "form#frmProcedimentoControlar"}
	}

	pageField := "hdn" + string(category) + "PaginaAtual"
	data := htmlutil.SerializeForm(form)
	if _, ok := data[pageField]; !ok {
		return "", &LayoutChangedError{Marker: pageField}
	}

	target := strconv.Itoa(page)
	data[pageField] = target
	data["sel"+string(category)+"PaginacaoSuperior"] = target
	data["sel"+string(category)+"PaginacaoInferior"] = target

	actionUrl := c.controlUrl
	if action := form.AttrOr("action", ""); action != "" {
		actionUrl = c.absoluteUrl(action)
	}
	return c.postForm(ctx, "pagination", actionUrl, data, c.controlUrl)
}

// readPaginationInfo derives the category's page count from the first page.
// The caption usually says "N registros" and "- X a Y", giving the total and
// the per-page size; hidden fields and the row count are fallbacks.
func readPaginationInfo(html string, category Category, pageRows int) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 1
	}

	table := doc.Find("#tblProcessos" + string(category)).First()
	caption := htmlutil.CleanText(table.Find("caption"))

	total := 0
	if match := captionTotalRegex.FindStringSubmatch(caption); len(match) == 2 {
		total, _ = strconv.Atoi(match[1])
	}
	if total == 0 {
		if n, err := strconv.Atoi(hiddenValue(doc, "hdn"+string(category)+"NroItens")); err == nil {
			total = n
		}
	}
	if total == 0 {
		if items := hiddenValue(doc, "hdn"+string(category)+"Itens"); items != "" {
			total = strings.Count(items, ",") + 1
		}
	}
	if total == 0 {
		total = pageRows
	}

	perPage := 0
	if match := captionRangeRegex.FindStringSubmatch(caption); len(match) == 3 {
		from, _ := strconv.Atoi(match[1])
		to, _ := strconv.Atoi(match[2])
		perPage = to - from + 1
	}
	if perPage <= 0 {
		perPage = pageRows
	}
	if perPage <= 0 {
		return 1
	}

	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		pages = 1
	}
	return pages
}

func hiddenValue(doc *goquery.Document, id string) string {
	return strings.TrimSpace(doc.Find("#" + id).AttrOr("value", ""))
}
