package sei

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

// the real portal serves ISO-8859-1, so the fake one must too
func writeLatin1(t testing.TB, w http.ResponseWriter, body string) {
	t.Helper()

	encoded, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(body))
	require.NoError(t, err)
	w.Header().Set("Content-Type", "text/html; charset=ISO-8859-1")
	_, err = w.Write(encoded)
	require.NoError(t, err)
}

func newTestClient(t testing.TB, baseUrl string) *Client {
	t.Helper()

	client, err := NewClient(ClientOptions{
		BaseUrl:   baseUrl,
		LoginPath: "/sip/login.php",
		Orgao:     "28",
	})
	require.NoError(t, err)
	return client
}

const loginPage = `<html><body>
<form id="frmLogin" action="login.php" method="post">
<input type="text" id="txtUsuario" name="txtUsuario" />
<input type="password" id="pwdSenha" name="pwdSenha" />
<select id="selOrgao" name="selOrgao"><option value="28">GOVMG</option></select>
<input type="hidden" id="hdnAcao" name="hdnAcao" value="2" />
</form>
</body></html>`

func loggedInPage() string {
	return `<html><body>
<a href="controlador.php?acao=procedimento_controlar&infra_sistema=100000100">Controle de Processos</a>
<a href="controlador.php?acao=sair">Sair</a>
</body></html>`
}

func processRow(id, numero string) string {
	return fmt.Sprintf(
		`<tr id="P%s"><td><a class="protocoloNormal" `+
			`href="controlador.php?acao=procedimento_trabalhar&id_procedimento=%s&infra_hash=h%s" `+
			`onmouseover="return infraTooltipMostrar('T&iacute;tulo %s','Tipo %s');">%s</a></td></tr>`,
		id, id, id, id, id, numero,
	)
}

// controlPage renders a Controle de Processos snapshot with a Recebidos
// listing: `caption` feeds the pagination math, `page` the 0-based hidden
// field the portal keeps between requests.
func controlPage(unit, caption, rows string, page int) string {
	return fmt.Sprintf(`<html><body>
<a id="lnkInfraUnidade" href="#" onclick="window.location.href='controlador.php?acao=infra_unidade_selecionar';">%s</a>
<form id="frmProcedimentoControlar" action="controlador.php?acao=procedimento_controlar" method="post">
<input type="hidden" id="hdnRecebidosPaginaAtual" name="hdnRecebidosPaginaAtual" value="%d" />
<table id="tblProcessosRecebidos"><caption>%s</caption>
%s
</table>
</form>
</body></html>`, unit, page, caption, rows)
}
