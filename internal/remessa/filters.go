package remessa

import (
	"strings"

	"github.com/nexconsult/remessa-chaves/internal/models"
	"github.com/nexconsult/remessa-chaves/internal/nfe"
)

// ApplyFilters returns the remessas matching every active criterion of f
func ApplyFilters(remessas []models.Remessa, f models.Filters) []models.Remessa {
	return ApplyFiltersWith(nil, remessas, f)
}

// ApplyFiltersWith is ApplyFilters with an explicit validator for the
// document criterion. Input order is preserved.
func ApplyFiltersWith(v *nfe.Validator, remessas []models.Remessa, f models.Filters) []models.Remessa {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	result := make([]models.Remessa, 0, len(remessas))
	for i := range remessas {
		r := &remessas[i]

		if search != "" && !matchesSearch(r, search) {
			continue
		}
		if active(f.Document) && string(PredominantType(SummarizeWith(v, r))) != f.Document {
			continue
		}
		if active(f.Company) && r.CompanyPrefix != f.Company {
			continue
		}
		if active(f.Status) && string(SituacaoStatus(r)) != f.Status {
			continue
		}

		result = append(result, *r)
	}
	return result
}

// active reports whether a filter criterion restricts the list
func active(criterion string) bool {
	return criterion != "" && criterion != models.FilterAll
}

// matchesSearch looks for the lowercased term in the first título's
// sacador/avalista and in the filename
func matchesSearch(r *models.Remessa, term string) bool {
	if len(r.Titulos) > 0 && strings.Contains(strings.ToLower(r.Titulos[0].SacadorAvalista), term) {
		return true
	}
	return strings.Contains(strings.ToLower(r.Filename), term)
}
