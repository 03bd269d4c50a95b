package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Remessa represents a bank remittance file and its títulos
type Remessa struct {
	Filename      string    `json:"filename"`
	Timestamp     string    `json:"timestamp,omitempty"`
	CompanyPrefix string    `json:"companyPrefix,omitempty"`
	Titulos       []Titulo  `json:"titulos"`
	Situacao      *Situacao `json:"situacao,omitempty"`
}

// Titulo represents a billing line item of a remessa
type Titulo struct {
	NumeroDocumento            string `json:"numeroDocumento,omitempty"`
	IdentificacaoTituloEmpresa string `json:"identificacaoTituloEmpresa,omitempty"`
	ChaveNotaFiscal            string `json:"chaveNotaFiscal,omitempty"`
	SacadorAvalista            string `json:"sacadorAvalista,omitempty"`
	ValorTitulo                Amount `json:"valorTitulo,omitempty"`
}

// HasKey reports whether the título carries a fiscal key
func (t Titulo) HasKey() bool {
	return strings.TrimSpace(t.ChaveNotaFiscal) != ""
}

// Amount is a monetary value that may arrive as a JSON string or number
type Amount string

// UnmarshalJSON accepts "12.50", 12.5 and null
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*a = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(strings.TrimSpace(s))
		return nil
	}
	*a = Amount(data)
	return nil
}

// Float returns the numeric value; empty or unparsable amounts are zero
func (a Amount) Float() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(a)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Situacao is the approval sub-record of a remessa
type Situacao struct {
	Aprovada  bool            `json:"aprovada"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
}

// Decided reports whether the approval carries a timestamp
func (s *Situacao) Decided() bool {
	if s == nil {
		return false
	}
	ts := bytes.TrimSpace(s.Timestamp)
	switch string(ts) {
	case "", "null", `""`, "0", "false":
		return false
	}
	return true
}

// ItemDetail is the per-título trail of a summary
type ItemDetail struct {
	Index           int      `json:"indice"`
	NumeroDocumento string   `json:"numeroDocumento"`
	Identificacao   string   `json:"identificacao"`
	HasKey          bool     `json:"temChave"`
	KeyValid        bool     `json:"chaveValida"`
	RawKey          string   `json:"chave,omitempty"`
	Verdict         *Verdict `json:"validacao"`
}

// Summary aggregates key validation over every título of a remessa.
// TotalItems == ItemsWithKey + ItemsWithoutKey and
// ItemsWithKey == ValidKeys + InvalidKeys.
type Summary struct {
	TotalItems      int          `json:"totalTitulos"`
	ItemsWithKey    int          `json:"titulosComChave"`
	ItemsWithoutKey int          `json:"titulosSemChave"`
	ValidKeys       int          `json:"chavesValidas"`
	InvalidKeys     int          `json:"chavesInvalidas"`
	Details         []ItemDetail `json:"detalhes"`
}

// DocumentCategory is the predominant document type of a remessa
type DocumentCategory string

const (
	CategoryNFe              DocumentCategory = "nfe"
	CategoryCTe              DocumentCategory = "cte"
	CategoryServiceNote      DocumentCategory = "ns"
	CategoryMixed            DocumentCategory = "misto"
	CategoryNaoIdentificados DocumentCategory = "nao-identificados"
	CategorySemDocumentos    DocumentCategory = "sem-documentos"
)

// DocumentStatus is the identification status of a remessa
type DocumentStatus string

const (
	DocumentStatusSemTitulos       DocumentStatus = "sem-titulos"
	DocumentStatusSemDocumentos    DocumentStatus = "sem-documentos"
	DocumentStatusIdentificados    DocumentStatus = "identificados"
	DocumentStatusNaoIdentificados DocumentStatus = "nao-identificados"
	DocumentStatusParcial          DocumentStatus = "parcial"
)

// SituacaoStatus is the approval status of a remessa
type SituacaoStatus string

const (
	SituacaoAprovada  SituacaoStatus = "aprovada"
	SituacaoReprovada SituacaoStatus = "reprovada"
	SituacaoPendente  SituacaoStatus = "pendente"
)

// Assessment bundles a summary with every tag derived from it
type Assessment struct {
	Filename       string           `json:"filename"`
	Summary        Summary          `json:"validacao"`
	Predominant    DocumentCategory `json:"tipoDocumentoPredominante"`
	DocumentStatus DocumentStatus   `json:"documentStatus"`
	Situacao       SituacaoStatus   `json:"situacaoStatus"`
	ValorTotal     float64          `json:"valorTotal"`
}

// FilterAll disables a filter criterion
const FilterAll = "todos"

// Filters holds the list filters applied to remessas
type Filters struct {
	Search   string `json:"search"`
	Document string `json:"document"`
	Company  string `json:"company"`
	Status   string `json:"status"`
}

// SortColumn is a remessa list column that can be sorted
type SortColumn string

const (
	SortByTimestamp       SortColumn = "timestamp"
	SortByTitulos         SortColumn = "titulos"
	SortByValorTotal      SortColumn = "valorTotal"
	SortByFilename        SortColumn = "filename"
	SortBySacadorAvalista SortColumn = "sacadorAvalista"
	SortBySituacao        SortColumn = "situacao"
)

// SortOrder is either SortAsc or SortDesc
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)
