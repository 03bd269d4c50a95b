package remessa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexconsult/remessa-chaves/internal/models"
	"github.com/nexconsult/remessa-chaves/internal/nfe"
)

func TestSummarize_MixedItems(t *testing.T) {
	summary := Summarize(remessaWith(nfeKey, "", serviceKey))

	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, 2, summary.ItemsWithKey)
	assert.Equal(t, 1, summary.ItemsWithoutKey)
	assert.Equal(t, 2, summary.ValidKeys)
	assert.Equal(t, 0, summary.InvalidKeys)

	require.Len(t, summary.Details, 3)
	for i, d := range summary.Details {
		assert.Equal(t, i, d.Index)
	}

	assert.True(t, summary.Details[0].HasKey)
	assert.True(t, summary.Details[0].KeyValid)
	assert.Equal(t, nfeKey, summary.Details[0].RawKey)
	require.NotNil(t, summary.Details[0].Verdict)

	assert.False(t, summary.Details[1].HasKey)
	assert.False(t, summary.Details[1].KeyValid)
	assert.Nil(t, summary.Details[1].Verdict)

	assert.Equal(t, models.ServiceNote{Length: 3}, summary.Details[2].Verdict.Classification)
}

func TestSummarize_Empty(t *testing.T) {
	for name, r := range map[string]*models.Remessa{
		"nil":         nil,
		"no titulos":  {Filename: "a.json"},
		"empty slice": {Titulos: []models.Titulo{}},
	} {
		t.Run(name, func(t *testing.T) {
			summary := Summarize(r)
			assert.Zero(t, summary.TotalItems)
			assert.Zero(t, summary.ItemsWithKey)
			assert.NotNil(t, summary.Details)
			assert.Empty(t, summary.Details)
		})
	}
}

func TestSummarize_Labels(t *testing.T) {
	r := &models.Remessa{Titulos: []models.Titulo{
		{NumeroDocumento: "DOC-1", IdentificacaoTituloEmpresa: "ID-1"},
		{},
	}}

	summary := Summarize(r)

	assert.Equal(t, "DOC-1", summary.Details[0].NumeroDocumento)
	assert.Equal(t, "ID-1", summary.Details[0].Identificacao)
	assert.Equal(t, "Título 2", summary.Details[1].NumeroDocumento)
	assert.Equal(t, "Título 2", summary.Details[1].Identificacao)
}

func TestSummarize_WhitespaceKeyIsAbsent(t *testing.T) {
	summary := Summarize(remessaWith("   "))

	assert.Equal(t, 1, summary.ItemsWithoutKey)
	assert.Zero(t, summary.InvalidKeys)
}

func TestSummarize_Invariants(t *testing.T) {
	pool := []string{nfeKey, cteKey, nfceKey, badKey, serviceKey, "", "ABC", "9999999999999999999999999999999999999999999999"}

	// every combination of three items drawn from the pool
	for _, a := range pool {
		for _, b := range pool {
			for _, c := range pool {
				s := Summarize(remessaWith(a, b, c))
				assert.Equal(t, s.TotalItems, s.ItemsWithKey+s.ItemsWithoutKey)
				assert.Equal(t, s.ItemsWithKey, s.ValidKeys+s.InvalidKeys)
				assert.Len(t, s.Details, s.TotalItems)
			}
		}
	}
}

func TestSummarizeWith_StrictValidator(t *testing.T) {
	strict := nfe.NewValidator(nfe.WithStrictCheckDigit(true))

	summary := SummarizeWith(strict, remessaWith(nfeKey, cteKey))

	assert.Equal(t, 1, summary.InvalidKeys)
	assert.Equal(t, 1, summary.ValidKeys)
	assert.False(t, summary.Details[0].KeyValid)
	assert.True(t, summary.Details[1].KeyValid)
}
