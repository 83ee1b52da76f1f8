package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sei-exporter/lib/scrapers/sei"

	"github.com/stretchr/testify/require"
)

var sampleRecords = []sei.ProcessRecord{
	{
		NumeroProcesso:     "1500.01.0000123/2024-56",
		Categoria:          sei.CategoryReceived,
		Visualizado:        true,
		Titulo:             "Pagamento de bolsas, exercício 2024",
		TipoEspecificidade: "Bolsas: concessão",
		ResponsavelNome:    "Maria Silva",
		ResponsavelCpf:     "12345678900",
		Marcadores:         []string{"Urgente", "Aguardando resposta"},
		TemDocumentosNovos: true,
		TemAnotacoes:       false,
		IdProcedimento:     "100001",
		Hash:               "abc123",
		Url:                "https://www.sei.mg.gov.br/sei/controlador.php?id_procedimento=100001",
	},
	{
		NumeroProcesso: "1500.01.0000456/2024-78",
		Categoria:      sei.CategoryGenerated,
		IdProcedimento: "100002",
	},
}

func parseCsvFile(t *testing.T, path string) [][]string {
	t.Helper()

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(string(contents))).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteCSV(t *testing.T) {
	out, err := WriteCSV(sampleRecords, filepath.Join(t.TempDir(), "processos.csv"))
	require.NoError(t, err)

	rows := parseCsvFile(t, out)
	require.Len(t, rows, 3)
	require.Equal(t, Columns, rows[0])

	full := rows[1]
	require.Equal(t, "1500.01.0000123/2024-56", full[0])
	require.Equal(t, "Recebidos", full[1])
	require.Equal(t, "Sim", full[2])
	require.Equal(t, "Pagamento de bolsas, exercício 2024", full[3])
	require.Equal(t, "Bolsas: concessão", full[4])
	require.Equal(t, "Maria Silva", full[5])
	require.Equal(t, "12345678900", full[6])
	require.Equal(t, "Urgente; Aguardando resposta", full[7])
	require.Equal(t, "Sim", full[8])
	require.Equal(t, "Não", full[9])
	require.Equal(t, "100001", full[10])
	require.Equal(t, "abc123", full[11])

	empty := rows[2]
	require.Equal(t, "Gerados", empty[1])
	require.Equal(t, "Não", empty[2])
	require.Equal(t, "", empty[7])
}

func TestWriteCSVIntoDirectory(t *testing.T) {
	dir := t.TempDir()
	out, err := WriteCSV(sampleRecords, dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "processos.csv"), out)

	rows := parseCsvFile(t, out)
	require.Len(t, rows, 3)
}

func TestWriteCSVCoercesExtension(t *testing.T) {
	dir := t.TempDir()
	out, err := WriteCSV(sampleRecords, filepath.Join(dir, "processos.xlsx"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "processos.csv"), out)
}

func TestWriteCSVCreatesMissingDirectories(t *testing.T) {
	dir := t.TempDir()
	out, err := WriteCSV(sampleRecords, filepath.Join(dir, "saida", "processos.csv"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "saida", "processos.csv"), out)

	_, err = os.Stat(out)
	require.NoError(t, err)
}
