package sei

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"sei-exporter/lib/htmlutil"
	"sei-exporter/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

var onclickRedirectRegex = regexp.MustCompile(`window\.location\.href='([^']+)'`)

// the unit switch is exposed through an onclick redirect on #lnkInfraUnidade
func (c *Client) readActiveUnit(html string) {
	c.activeUnit = ""
	c.switchUrl = ""

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return
	}
	anchor := doc.Find("#lnkInfraUnidade").First()
	if anchor.Length() == 0 {
		slog.Debug("active unit anchor not found on control page")
		return
	}

	c.activeUnit = htmlutil.CleanText(anchor)
	match := onclickRedirectRegex.FindStringSubmatch(anchor.AttrOr("onclick", ""))
	if len(match) == 2 {
		c.switchUrl = c.absoluteUrl(match[1])
	}
}

type unitOption struct {
	Name  string
	Value string
}

func parseUnitTable(html string) ([]unitOption, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	table := doc.Find("table[id^='infraTable'], table.infraTable").First()
	if table.Length() == 0 {
		doc.Find("table").EachWithBreak(func(_ int, candidate *goquery.Selection) bool {
			caption := strings.ToLower(htmlutil.CleanText(candidate.Find("caption")))
			if strings.Contains(caption, "unidade") {
				table = candidate
				return false
			}
			return true
		})
	}
	if table.Length() == 0 {
		return nil, &LayoutChangedError{Marker: "table.infraTable (unidades)"}
	}

	rows := table.Find("tbody tr")
	if rows.Length() == 0 {
		rows = table.Find("tr")
	}

	var units []unitOption
	rows.Each(func(_ int, row *goquery.Selection) {
		if row.Find("th").Length() > 0 {
			return
		}
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		units = append(units, unitOption{
			Name:  htmlutil.CleanText(cells.Eq(1)),
			Value: row.Find(`input[type="radio"][name="chkInfraItem"]`).AttrOr("value", ""),
		})
	})
	return units, nil
}

// EnsureUnit makes the session's active unit match `desired`, switching when
// needed. Comparison is exact after case/whitespace normalization. Idempotent:
// a second call with the same target is a no-op.
func (c *Client) EnsureUnit(ctx context.Context, desired string) error {
	ctx, span := tracer.Start(ctx, "client:EnsureUnit")
	defer span.End()

	if textutil.EqualNames(c.activeUnit, desired) {
		slog.DebugContext(ctx, "unit already active", "unit", c.activeUnit)
		return nil
	}
	slog.InfoContext(
		ctx, "switching unit",
		"active", c.activeUnit,
		"desired", desired,
	)

	if c.switchUrl == "" {
		span.SetStatus(codes.Error, "unit switch url unavailable")
		return &LayoutChangedError{Marker: "#lnkInfraUnidade"}
	}

	selection, err := c.get(ctx, "unit selection page", c.switchUrl)
	if err != nil {
		return err
	}
	units, err := parseUnitTable(selection)
	if err != nil {
		return err
	}

	var target unitOption
	for _, unit := range units {
		if unit.Value != "" && textutil.EqualNames(unit.Name, desired) {
			target = unit
			break
		}
	}
	if target.Value == "" {
		available := make([]string, len(units))
		for i, unit := range units {
			available[i] = unit.Name
		}
		span.SetStatus(codes.Error, "unit not found")
		return &UnitNotFoundError{Unit: desired, Available: available}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(selection))
	if err != nil {
		return err
	}
	form := doc.Find("form#frmInfraSelecaoUnidade").First()
	if form.Length() == 0 {
		form = doc.Find("form").First()
	}
	if form.Length() == 0 {
		return &LayoutChangedError{Marker: "form#frmInfraSelecaoUnidade"}
	}

	data := htmlutil.SerializeForm(form)
	data["selInfraUnidades"] = target.Value
	data["chkInfraItem"] = target.Value

	actionUrl := c.switchUrl
	if action := form.AttrOr("action", ""); action != "" {
		actionUrl = c.absoluteUrl(action)
	}

	html, err := c.postForm(ctx, "unit switch", actionUrl, data, c.switchUrl)
	if err != nil {
		return err
	}
	if !strings.Contains(html, "Controle de Processos") && !strings.Contains(html, "procedimento_controlar") {
		span.SetStatus(codes.Error, "unit switch not confirmed")
		return &LayoutChangedError{Marker: "Controle de Processos"}
	}

	// reload the control screen so the cached paging state is consistent
	err = c.openControl(ctx, html)
	if err != nil {
		return err
	}
	if !textutil.EqualNames(c.activeUnit, desired) {
		span.SetStatus(codes.Error, "active unit mismatch after switch")
		return &LayoutChangedError{Marker: "#lnkInfraUnidade"}
	}

	slog.InfoContext(ctx, "unit switched", "unit", c.activeUnit)
	return nil
}

// Units lists the unit names available to the authenticated user. Users
// with a single unit have no selection screen, only the active one.
func (c *Client) Units(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "client:Units")
	defer span.End()

	if c.switchUrl == "" {
		if c.activeUnit == "" {
			return nil, nil
		}
		return []string{c.activeUnit}, nil
	}

	selection, err := c.get(ctx, "unit selection page", c.switchUrl)
	if err != nil {
		return nil, err
	}
	units, err := parseUnitTable(selection)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(units))
	for i, unit := range units {
		names[i] = unit.Name
	}
	return names, nil
}
