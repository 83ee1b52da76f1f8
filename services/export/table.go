package export

import (
	"os"
	"path/filepath"
	"strings"

	"sei-exporter/lib/scrapers/sei"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Columns is the output column order, stable across formats.
var Columns = []string{
	"numero_processo",
	"categoria",
	"visualizado",
	"titulo",
	"tipo_especificidade",
	"responsavel_nome",
	"responsavel_cpf",
	"marcadores",
	"tem_documentos_novos",
	"tem_anotacoes",
	"id_procedimento",
	"hash",
	"url",
}

const defaultFileName = "processos.csv"

func ToTable(records []sei.ProcessRecord) table.Writer {
	header := make(table.Row, len(Columns))
	for i, column := range Columns {
		header[i] = column
	}

	t := table.NewWriter()
	t.AppendHeader(header)
	for _, r := range records {
		t.AppendRow(table.Row{
			r.NumeroProcesso,
			string(r.Categoria),
			simNao(r.Visualizado),
			r.Titulo,
			r.TipoEspecificidade,
			r.ResponsavelNome,
			r.ResponsavelCpf,
			strings.Join(r.Marcadores, "; "),
			simNao(r.TemDocumentosNovos),
			simNao(r.TemAnotacoes),
			r.IdProcedimento,
			r.Hash,
			r.Url,
		})
	}
	return t
}

func simNao(value bool) string {
	if value {
		return "Sim"
	}
	return "Não"
}

// WriteCSV renders records to a csv file and reports the path actually
// written. `path` may name a directory (processos.csv goes inside) or a
// file; a foreign extension is coerced to .csv. The file only appears once
// the whole record set rendered.
func WriteCSV(records []sei.ProcessRecord, path string) (string, error) {
	out := path
	if out == "" {
		out = defaultFileName
	}
	if strings.HasSuffix(out, string(os.PathSeparator)) {
		out = filepath.Join(out, defaultFileName)
	} else if info, err := os.Stat(out); err == nil && info.IsDir() {
		out = filepath.Join(out, defaultFileName)
	}
	if !strings.EqualFold(filepath.Ext(out), ".csv") {
		out = strings.TrimSuffix(out, filepath.Ext(out)) + ".csv"
	}

	if dir := filepath.Dir(out); dir != "." {
		err := os.MkdirAll(dir, 0777)
		if err != nil {
			return "", err
		}
	}

	csv := ToTable(records).RenderCSV()
	err := os.WriteFile(out, []byte(csv+"\n"), 0666)
	if err != nil {
		return "", err
	}
	return out, nil
}
