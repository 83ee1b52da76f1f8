package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const fixtureForm = `
<form id="frm" action="controlador.php?acao=teste">
	<input type="hidden" name="hdnPagina" value="0"/>
	<input type="text" name="txtBusca" value="abc"/>
	<input type="radio" name="rdoMarcado" value="1"/>
	<input type="radio" name="rdoMarcado" value="2" checked/>
	<input type="radio" name="rdoSolto" value="a"/>
	<input type="radio" name="rdoSolto" value="b"/>
	<input type="checkbox" name="chkDesmarcado" value="x"/>
	<input type="checkbox" name="chkMarcado" value="y" checked/>
	<input type="text" value="sem-nome"/>
	<select name="selPagina">
		<option value="0">1</option>
		<option value="1" selected>2</option>
	</select>
	<select name="selVazio"></select>
	<textarea name="txaObs">  observacao  </textarea>
</form>`

func TestSerializeForm(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fixtureForm))
	require.NoError(t, err)

	data := SerializeForm(doc.Find("form#frm"))

	require.Equal(t, "0", data["hdnPagina"])
	require.Equal(t, "abc", data["txtBusca"])
	require.Equal(t, "2", data["rdoMarcado"])
	// unchecked groups still submit their first value
	require.Equal(t, "a", data["rdoSolto"])
	require.Equal(t, "y", data["chkMarcado"])
	require.Equal(t, "1", data["selPagina"])
	require.Equal(t, "", data["selVazio"])
	require.Equal(t, "observacao", data["txaObs"])

	_, ok := data["chkDesmarcado"]
	require.False(t, ok)
}

func TestCleanText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<a id="lnk">  SEPLAG/` + "\n\t" + `AUTOMATIZAMG  </a>`,
	))
	require.NoError(t, err)
	require.Equal(t, "SEPLAG/AUTOMATIZAMG", CleanText(doc.Find("#lnk")))
}

func TestCleanTextTreatsNbspAsSpace(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<a id="lnk">UNIDADE&nbsp;A</a><a id="pad">&nbsp; UNIDADE &nbsp;B&nbsp;</a>`,
	))
	require.NoError(t, err)
	require.Equal(t, "UNIDADE A", CleanText(doc.Find("#lnk")))
	require.Equal(t, "UNIDADE B", CleanText(doc.Find("#pad")))
}
