package nfe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexconsult/remessa-chaves/internal/models"
)

const (
	validNFeKey = "35" + "2301" + "12345678000195" + "55" + "001" + "000000001" + "1" + "12345678" + "5"
	validCTeKey = "35" + "2301" + "12345678000195" + "57" + "001" + "000000001" + "1" + "12345678" + "4"
	validNFCKey = "35" + "2301" + "12345678000195" + "65" + "001" + "000000001" + "1" + "12345678" + "0"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.Classification
	}{
		{"empty", "", models.Unrecognized{NotProvided: true}},
		{"blank", "   ", models.Unrecognized{NotProvided: true}},
		{"service note", "ABC1234567", models.ServiceNote{Length: 10}},
		{"service note trimmed", "  123  ", models.ServiceNote{Length: 3}},
		{"43 digits", validNFeKey[:43], models.ServiceNote{Length: 43}},
		{"nfe", validNFeKey, models.ElectronicKey{ModelCode: "55", Subtype: models.SubtypeNFe, Valid: true}},
		{"cte", validCTeKey, models.ElectronicKey{ModelCode: "57", Subtype: models.SubtypeCTe, Valid: true}},
		{"nfce", validNFCKey, models.ElectronicKey{ModelCode: "65", Subtype: models.SubtypeNFCe, Valid: true}},
		{"unknown model", validNFeKey[:20] + "99" + validNFeKey[22:], models.ElectronicKey{ModelCode: "99", Subtype: models.SubtypeUnknown, Valid: false}},
		{"44 non numeric", strings.Repeat("A", 44), models.Unrecognized{Length: 44}},
		{"50 digits", strings.Repeat("1", 50), models.Unrecognized{Length: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.raw))
		})
	}
}

func TestClassify_UnknownModelsAreInvalidElectronicKeys(t *testing.T) {
	for m := 0; m < 100; m++ {
		code := string([]byte{byte('0' + m/10), byte('0' + m%10)})
		if code == "55" || code == "57" || code == "65" {
			continue
		}
		key := validNFeKey[:20] + code + validNFeKey[22:]

		c, ok := Classify(key).(models.ElectronicKey)
		if assert.True(t, ok, code) {
			assert.False(t, c.Valid, code)
			assert.Equal(t, models.SubtypeUnknown, c.Subtype)
		}
	}
}

func TestClassify_Descricao(t *testing.T) {
	assert.Equal(t, "Chave não fornecida", Classify("").Descricao())
	assert.Equal(t, "Nota de Serviço", Classify("123").Descricao())
	assert.Equal(t, "NFe", Classify(validNFeKey).Descricao())
	assert.Equal(t, "Formato não reconhecido (45 dígitos)", Classify(validNFeKey+"1").Descricao())
}
