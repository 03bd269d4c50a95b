package models

import (
	"encoding/json"
	"strconv"
)

// KeyLength is the length of an electronic fiscal access key
const KeyLength = 44

// Subtype identifies the fiscal document model carried by an electronic key
type Subtype string

const (
	SubtypeNFe     Subtype = "NFe"
	SubtypeCTe     Subtype = "CTe"
	SubtypeNFCe    Subtype = "NFCe"
	SubtypeUnknown Subtype = "DESCONHECIDO"
)

// Classification tags used on the wire
const (
	TipoNotaServico     = "NOTA_SERVICO"
	TipoChaveEletronica = "CHAVE_ELETRONICA"
	TipoDesconhecido    = "DESCONHECIDO"
)

// Classification is the coarse document type assigned to a raw key.
// It is one of ServiceNote, ElectronicKey or Unrecognized.
type Classification interface {
	// Tipo returns the wire tag of the variant
	Tipo() string
	// Descricao returns a human-readable description
	Descricao() string
	isClassification()
}

// ServiceNote is any non-empty key shorter than 44 characters
type ServiceNote struct {
	Length int
}

// ElectronicKey is a 44-digit numeric access key
type ElectronicKey struct {
	ModelCode string
	Subtype   Subtype
	Valid     bool
}

// Unrecognized covers every other input. NotProvided marks an absent key.
type Unrecognized struct {
	Length      int
	NotProvided bool
}

func (ServiceNote) isClassification()   {}
func (ElectronicKey) isClassification() {}
func (Unrecognized) isClassification()  {}

func (ServiceNote) Tipo() string   { return TipoNotaServico }
func (ElectronicKey) Tipo() string { return TipoChaveEletronica }
func (Unrecognized) Tipo() string  { return TipoDesconhecido }

func (ServiceNote) Descricao() string { return "Nota de Serviço" }

func (k ElectronicKey) Descricao() string {
	if !k.Valid {
		return "Chave eletrônica com modelo desconhecido (" + k.ModelCode + ")"
	}
	return string(k.Subtype)
}

func (u Unrecognized) Descricao() string {
	if u.NotProvided {
		return "Chave não fornecida"
	}
	return "Formato não reconhecido (" + strconv.Itoa(u.Length) + " dígitos)"
}

// MarshalJSON renders the variant with its type tag
func (s ServiceNote) MarshalJSON() ([]byte, error) {
	return json.Marshal(classificationJSON{
		Tipo:        s.Tipo(),
		Descricao:   s.Descricao(),
		Valido:      true,
		Comprimento: s.Length,
	})
}

// MarshalJSON renders the variant with its type tag
func (k ElectronicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(classificationJSON{
		Tipo:        k.Tipo(),
		Subtipo:     string(k.Subtype),
		Descricao:   k.Descricao(),
		Modelo:      k.ModelCode,
		Valido:      k.Valid,
		Comprimento: KeyLength,
	})
}

// MarshalJSON renders the variant with its type tag
func (u Unrecognized) MarshalJSON() ([]byte, error) {
	return json.Marshal(classificationJSON{
		Tipo:        u.Tipo(),
		Descricao:   u.Descricao(),
		Comprimento: u.Length,
	})
}

type classificationJSON struct {
	Tipo        string `json:"tipo"`
	Subtipo     string `json:"subtipo,omitempty"`
	Descricao   string `json:"descricao"`
	Modelo      string `json:"modelo,omitempty"`
	Valido      bool   `json:"valido"`
	Comprimento int    `json:"comprimento"`
}

// KeyComponents holds the nine fixed-width fields of an electronic key
type KeyComponents struct {
	CUF    string `json:"cuf"`
	AAMM   string `json:"aamm"`
	CNPJ   string `json:"cnpj"`
	Modelo string `json:"modelo"`
	Serie  string `json:"serie"`
	Numero string `json:"numero"`
	TpEmis string `json:"tpEmis"`
	CNF    string `json:"cnf"`
	DV     string `json:"dv"`
}

// Verdict is the result of validating one raw key
type Verdict struct {
	Valid          bool           `json:"valida"`
	Errors         []string       `json:"erros"`
	Components     *KeyComponents `json:"componentes"`
	Classification Classification `json:"tipoDocumento"`
}

// NotProvided reports whether the verdict was produced for an absent key
func (v Verdict) NotProvided() bool {
	u, ok := v.Classification.(Unrecognized)
	return ok && u.NotProvided
}
