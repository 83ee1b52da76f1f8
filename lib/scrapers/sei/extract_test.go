package sei

import (
	"testing"

	"sei-exporter/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const recebidosFixture = `<html><body>
<table id="tblProcessosRecebidos">
<caption>3 registros - 1 a 3</caption>
<tr><th>Recebidos</th></tr>
<tr id="P100001">
<td><a href="#" onmouseover="return infraTooltipMostrar('Urgente','');"><img class="imagemStatus" src="svg/marcador_vermelho.svg" /></a></td>
<td><img src="svg/exclamacao.svg" /><img src="svg/anotacao_amarela.svg" /></td>
<td><a class="processoVisualizado" href="controlador.php?acao=procedimento_trabalhar&id_procedimento=100001&infra_hash=abc123" onmouseover="return infraTooltipMostrar('Pagamento de bolsas','Bolsas: concess&atilde;o');">1500.01. 0000123 / 2024 - 56</a></td>
<td><a href="controlador.php?acao=procedimento_atribuicao_listar&id_procedimento=100001" title="Atribu&iacute;do para Maria Silva">12345678900</a></td>
</tr>
<tr id="P100002">
<td><a class="processoNaoVisualizado" href="controlador.php?acao=procedimento_trabalhar&id_procedimento=100002&infra_hash=def456">1500.01.0000456/2024-78</a></td>
</tr>
<tr id="P100003">
<td><a href="controlador.php?acao=procedimento_trabalhar">sem protocolo</a></td>
</tr>
</table>
</body></html>`

func TestExtractRecords(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:sei")
	defer cleanup()

	client := newTestClient(t, DefaultBaseUrl)

	records, err := client.ExtractRecords(recebidosFixture, CategoryReceived)
	require.NoError(t, err)
	// the anchor without a process number is dropped
	require.Len(t, records, 2)

	diff := cmp.Diff(ProcessRecord{
		NumeroProcesso:     "1500.01.0000123/2024-56",
		Categoria:          CategoryReceived,
		Visualizado:        true,
		Titulo:             "Pagamento de bolsas",
		TipoEspecificidade: "Bolsas: concessão",
		ResponsavelNome:    "Maria Silva",
		ResponsavelCpf:     "12345678900",
		Marcadores:         []string{"Urgente"},
		TemDocumentosNovos: true,
		TemAnotacoes:       true,
		IdProcedimento:     "100001",
		Hash:               "abc123",
		Url:                DefaultBaseUrl + "/sei/controlador.php?acao=procedimento_trabalhar&id_procedimento=100001&infra_hash=abc123",
	}, records[0])
	if diff != "" {
		t.Fatal(diff)
	}

	minimal := records[1]
	require.Equal(t, "1500.01.0000456/2024-78", minimal.NumeroProcesso)
	require.False(t, minimal.Visualizado)
	require.Empty(t, minimal.Titulo)
	require.Empty(t, minimal.ResponsavelNome)
	require.Empty(t, minimal.Marcadores)
	require.False(t, minimal.TemDocumentosNovos)
	require.False(t, minimal.TemAnotacoes)
	require.Equal(t, "100002", minimal.IdProcedimento)
	require.Equal(t, "def456", minimal.Hash)
}

func TestExtractRecordsMissingTable(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:sei")
	defer cleanup()

	client := newTestClient(t, DefaultBaseUrl)

	_, err := client.ExtractRecords(recebidosFixture, CategoryGenerated)
	var layoutErr *LayoutChangedError
	require.ErrorAs(t, err, &layoutErr)
	require.Equal(t, "#tblProcessosGerados", layoutErr.Marker)
}

func TestCanonicalProcessNumber(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"1500.01.0000123/2024-56", "1500.01.0000123/2024-56"},
		{"1500.01. 0000123 / 2024 - 56", "1500.01.0000123/2024-56"},
		{"1500. 01. 0000123/2024-56", "1500.01.0000123/2024-56"},
		{"  1500.01.0000123/2024-56  ", "1500.01.0000123/2024-56"},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, CanonicalProcessNumber(test.input))
	}
}
