package remessa

import (
	"strconv"

	"github.com/nexconsult/remessa-chaves/internal/models"
	"github.com/nexconsult/remessa-chaves/internal/nfe"
)

// Summarize validates the fiscal key of every título with the default validator
func Summarize(r *models.Remessa) models.Summary {
	return SummarizeWith(nil, r)
}

// SummarizeWith validates the fiscal key of every título using v.
// A nil v falls back to the default validator. A nil remessa or one
// without títulos yields the zero summary.
func SummarizeWith(v *nfe.Validator, r *models.Remessa) models.Summary {
	validate := nfe.Validate
	if v != nil {
		validate = v.Validate
	}

	summary := models.Summary{Details: []models.ItemDetail{}}
	if r == nil || len(r.Titulos) == 0 {
		return summary
	}

	summary.TotalItems = len(r.Titulos)
	summary.Details = make([]models.ItemDetail, 0, len(r.Titulos))

	for i, titulo := range r.Titulos {
		detail := models.ItemDetail{
			Index:           i,
			NumeroDocumento: labelOr(titulo.NumeroDocumento, i),
			Identificacao:   labelOr(titulo.IdentificacaoTituloEmpresa, i),
		}

		if titulo.HasKey() {
			verdict := validate(titulo.ChaveNotaFiscal)
			detail.HasKey = true
			detail.RawKey = titulo.ChaveNotaFiscal
			detail.KeyValid = verdict.Valid
			detail.Verdict = &verdict

			summary.ItemsWithKey++
			if verdict.Valid {
				summary.ValidKeys++
			} else {
				summary.InvalidKeys++
			}
		} else {
			summary.ItemsWithoutKey++
		}

		summary.Details = append(summary.Details, detail)
	}

	return summary
}

// labelOr returns label, or "Título N" (1-based) when it is empty
func labelOr(label string, index int) string {
	if label != "" {
		return label
	}
	return "Título " + strconv.Itoa(index+1)
}
