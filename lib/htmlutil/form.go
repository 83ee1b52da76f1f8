package htmlutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SerializeForm flattens a <form> into a POST payload: inputs (radio and
// checkbox only when checked), selects (selected option, else the first one)
// and textareas. Radio groups with no checked member fall back to the first
// value, since the portal expects the field to be present either way.
func SerializeForm(form *goquery.Selection) map[string]string {
	data := map[string]string{}

	form.Find("input").Each(func(_ int, input *goquery.Selection) {
		name := input.AttrOr("name", "")
		if name == "" {
			return
		}
		itype := strings.ToLower(input.AttrOr("type", ""))
		value := input.AttrOr("value", "")
		if itype == "radio" || itype == "checkbox" {
			if _, checked := input.Attr("checked"); checked {
				data[name] = value
			}
			return
		}
		data[name] = value
	})

	form.Find("select").Each(func(_ int, sel *goquery.Selection) {
		name := sel.AttrOr("name", "")
		if name == "" {
			return
		}
		option := sel.Find("option[selected]").First()
		if option.Length() == 0 {
			option = sel.Find("option").First()
		}
		data[name] = option.AttrOr("value", "")
	})

	form.Find("textarea").Each(func(_ int, area *goquery.Selection) {
		name := area.AttrOr("name", "")
		if name == "" {
			return
		}
		data[name] = strings.TrimSpace(area.Text())
	})

	form.Find(`input[type="radio"]`).Each(func(_ int, radio *goquery.Selection) {
		name := radio.AttrOr("name", "")
		if name == "" {
			return
		}
		if _, ok := data[name]; !ok {
			data[name] = radio.AttrOr("value", "")
		}
	})

	return data
}
