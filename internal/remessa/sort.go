package remessa

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nexconsult/remessa-chaves/internal/models"
)

// Sort returns a copy of remessas ordered by column. Text columns use
// Portuguese collation. Unknown columns keep the input order.
func Sort(remessas []models.Remessa, column models.SortColumn, order models.SortOrder) []models.Remessa {
	sorted := make([]models.Remessa, len(remessas))
	copy(sorted, remessas)

	less := lessFunc(sorted, column)
	if less == nil {
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if order == models.SortDesc {
			return less(j, i)
		}
		return less(i, j)
	})
	return sorted
}

func lessFunc(rs []models.Remessa, column models.SortColumn) func(i, j int) bool {
	switch column {
	case models.SortByTimestamp:
		return func(i, j int) bool {
			return parseTimestamp(rs[i].Timestamp).Before(parseTimestamp(rs[j].Timestamp))
		}
	case models.SortByTitulos:
		return func(i, j int) bool { return len(rs[i].Titulos) < len(rs[j].Titulos) }
	case models.SortByValorTotal:
		return func(i, j int) bool { return TotalValue(&rs[i]) < TotalValue(&rs[j]) }
	case models.SortByFilename:
		c := collate.New(language.BrazilianPortuguese)
		return func(i, j int) bool { return c.CompareString(rs[i].Filename, rs[j].Filename) < 0 }
	case models.SortBySacadorAvalista:
		c := collate.New(language.BrazilianPortuguese)
		return func(i, j int) bool { return c.CompareString(sacador(&rs[i]), sacador(&rs[j])) < 0 }
	case models.SortBySituacao:
		return func(i, j int) bool { return !approved(&rs[i]) && approved(&rs[j]) }
	}
	return nil
}

// parseTimestamp accepts RFC3339 and plain dates; anything else sorts first
func parseTimestamp(ts string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t
		}
	}
	return time.Time{}
}

func sacador(r *models.Remessa) string {
	if len(r.Titulos) == 0 {
		return ""
	}
	return r.Titulos[0].SacadorAvalista
}

func approved(r *models.Remessa) bool {
	return r.Situacao != nil && r.Situacao.Aprovada
}
