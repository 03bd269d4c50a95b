package nfe

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// ErrKeyNotFound is returned when a document carries no access key
var ErrKeyNotFound = errors.New("chave de acesso não encontrada no XML")

// XMLDocument holds the identification data read from an NFe, NFCe or CTe XML
type XMLDocument struct {
	Chave        string `json:"chave"`
	ChaveInfo    string `json:"chaveInfo,omitempty"`
	ChaveProt    string `json:"chaveProtocolo,omitempty"`
	Modelo       string `json:"modelo,omitempty"`
	Serie        string `json:"serie,omitempty"`
	Numero       string `json:"numero,omitempty"`
	EmitenteCNPJ string `json:"emitenteCnpj,omitempty"`
}

// Id attribute prefixes of the info elements
var infoPrefixes = map[string]string{
	"infNFe": "NFe",
	"infCte": "CTe",
}

// ExtractFromXML reads the access key and identification fields of a fiscal
// document XML. The key comes from the info element Id (prefix stripped) or,
// when absent, from the authorization protocol.
func ExtractFromXML(r io.Reader) (XMLDocument, error) {
	var doc XMLDocument

	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charsetReader

	var stack []string
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return doc, fmt.Errorf("falha ao fazer parse do XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if prefix, ok := infoPrefixes[name]; ok && doc.ChaveInfo == "" {
				for _, attr := range t.Attr {
					if attr.Name.Local == "Id" {
						doc.ChaveInfo = strings.TrimPrefix(strings.TrimSpace(attr.Value), prefix)
					}
				}
			}
			stack = append(stack, name)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			doc.collect(stack, strings.TrimSpace(string(t)))
		}
	}

	doc.Chave = doc.ChaveInfo
	if doc.Chave == "" {
		doc.Chave = doc.ChaveProt
	}
	if doc.Chave == "" {
		return doc, ErrKeyNotFound
	}
	return doc, nil
}

func (d *XMLDocument) collect(stack []string, text string) {
	if text == "" {
		return
	}

	current := stack[len(stack)-1]
	parent := ""
	if len(stack) > 1 {
		parent = stack[len(stack)-2]
	}

	switch {
	case (current == "chNFe" || current == "chCTe") && parent == "infProt":
		setOnce(&d.ChaveProt, text)
	case parent == "ide" && current == "mod":
		setOnce(&d.Modelo, text)
	case parent == "ide" && current == "serie":
		setOnce(&d.Serie, text)
	case parent == "ide" && (current == "nNF" || current == "nCT"):
		setOnce(&d.Numero, text)
	case parent == "emit" && current == "CNPJ":
		setOnce(&d.EmitenteCNPJ, text)
	}
}

func setOnce(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// charsetReader decodes non-UTF-8 documents, usually ISO-8859-1
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("charset não suportado %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}
