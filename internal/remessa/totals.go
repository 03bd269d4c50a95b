package remessa

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nexconsult/remessa-chaves/internal/models"
)

// TotalValue sums the valorTitulo of every título. Unparsable values count as zero.
func TotalValue(r *models.Remessa) float64 {
	if r == nil {
		return 0
	}

	total := 0.0
	for _, t := range r.Titulos {
		total += t.ValorTitulo.Float()
	}
	return total
}

// FormatBRL renders v as Brazilian currency, e.g. R$ 1.234,56
func FormatBRL(v float64) string {
	p := message.NewPrinter(language.BrazilianPortuguese)
	return p.Sprintf("R$ %.2f", v)
}
