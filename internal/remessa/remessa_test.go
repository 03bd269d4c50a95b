package remessa

import (
	"encoding/json"

	"github.com/nexconsult/remessa-chaves/internal/models"
)

const (
	nfeKey     = "35230112345678000195550010000000011123456785"
	cteKey     = "35230112345678000195570010000000011123456784"
	nfceKey    = "35230112345678000195650010000000011123456780"
	badKey     = "35230112345678000195990010000000011123456785"
	serviceKey = "123"
)

func titulos(keys ...string) []models.Titulo {
	ts := make([]models.Titulo, len(keys))
	for i, k := range keys {
		ts[i] = models.Titulo{ChaveNotaFiscal: k}
	}
	return ts
}

func remessaWith(keys ...string) *models.Remessa {
	return &models.Remessa{Filename: "remessa.json", Titulos: titulos(keys...)}
}

func decided(aprovada bool) *models.Situacao {
	return &models.Situacao{Aprovada: aprovada, Timestamp: json.RawMessage(`"2024-03-01T10:00:00Z"`)}
}
