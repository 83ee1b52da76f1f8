package sei

// Category is one of the two listing views on the Controle de Processos
// screen. The values double as the group infix of the portal's pagination
// field names (hdnRecebidosPaginaAtual, selGeradosPaginacaoSuperior, ...).
type Category string

const (
	CategoryReceived  Category = "Recebidos"
	CategoryGenerated Category = "Gerados"
)

// ProcessRecord holds the metadata of one process as listed under a unit.
// Built from a single table row; immutable afterwards. Optional fields
// default to zero values instead of failing the row.
type ProcessRecord struct {
	NumeroProcesso     string
	Categoria          Category
	Visualizado        bool
	Titulo             string
	TipoEspecificidade string
	ResponsavelNome    string
	ResponsavelCpf     string
	Marcadores         []string
	TemDocumentosNovos bool
	TemAnotacoes       bool
	IdProcedimento     string
	Hash               string
	Url                string
}

// ResultPage is one page of a category's listing. Transient, discarded
// once its records are consumed.
type ResultPage struct {
	Category Category
	// 1-based position in fetch order
	Index   int
	Records []ProcessRecord
	HasNext bool
}
