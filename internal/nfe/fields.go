package nfe

import (
	"strconv"
	"time"

	"github.com/nexconsult/remessa-chaves/internal/models"
	"github.com/nexconsult/remessa-chaves/internal/utils"
)

// FirstKeyYear is the year the electronic invoice system started
const FirstKeyYear = 2006

// validUFs holds the IBGE codes of the 27 federative units
var validUFs = map[int]struct{}{
	11: {}, 12: {}, 13: {}, 14: {}, 15: {}, 16: {}, 17: {}, // Norte
	21: {}, 22: {}, 23: {}, 24: {}, 25: {}, 26: {}, 27: {}, 28: {}, 29: {}, // Nordeste
	31: {}, 32: {}, 33: {}, 35: {}, // Sudeste
	41: {}, 42: {}, 43: {}, // Sul
	50: {}, 51: {}, 52: {}, 53: {}, // Centro-Oeste
}

// modelSubtypes maps the document model code to its subtype
var modelSubtypes = map[string]models.Subtype{
	"55": models.SubtypeNFe,
	"57": models.SubtypeCTe,
	"65": models.SubtypeNFCe,
}

// validModelCodes is the ordered list used in error messages
var validModelCodes = []string{"55", "57", "65"}

// SubtypeForModel returns the subtype of a model code, or SubtypeUnknown
func SubtypeForModel(code string) models.Subtype {
	if st, ok := modelSubtypes[code]; ok {
		return st
	}
	return models.SubtypeUnknown
}

// numericField reports whether s has exactly n digits and returns its value
func numericField(s string, n int) (int, bool) {
	if len(s) != n || !utils.IsNumeric(s) {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ValidUF validates the 2-digit state code
func ValidUF(cuf string) bool {
	v, ok := numericField(cuf, 2)
	if !ok {
		return false
	}
	_, found := validUFs[v]
	return found
}

// ValidYearMonth validates the 4-digit AAMM emission period against now
func ValidYearMonth(aamm string, now time.Time) bool {
	if _, ok := numericField(aamm, 4); !ok {
		return false
	}

	year, _ := strconv.Atoi(aamm[:2])
	month, _ := strconv.Atoi(aamm[2:])
	if month < 1 || month > 12 {
		return false
	}

	fullYear := 2000 + year
	if year >= 50 {
		fullYear = 1900 + year
	}

	return fullYear >= FirstKeyYear && fullYear <= now.Year()
}

// ValidCNPJ checks the emitter CNPJ shape. Check digits are not verified.
func ValidCNPJ(cnpj string) bool {
	return utils.IsCNPJShape(cnpj)
}

// ValidModel validates the 2-digit document model
func ValidModel(modelo string) bool {
	if _, ok := numericField(modelo, 2); !ok {
		return false
	}
	_, found := modelSubtypes[modelo]
	return found
}

// ValidSeries validates the 3-digit series
func ValidSeries(serie string) bool {
	v, ok := numericField(serie, 3)
	return ok && v >= 0 && v <= 999
}

// ValidNumber validates the 9-digit document number; zero is rejected
func ValidNumber(numero string) bool {
	v, ok := numericField(numero, 9)
	return ok && v >= 1 && v <= 999999999
}

// ValidEmissionType validates the 1-digit tpEmis
func ValidEmissionType(tpEmis string) bool {
	v, ok := numericField(tpEmis, 1)
	return ok && v >= 1 && v <= 9
}

// ValidNumericCode validates the 8-digit cNF
func ValidNumericCode(cnf string) bool {
	_, ok := numericField(cnf, 8)
	return ok
}

// ValidCheckDigit checks the check digit shape only
func ValidCheckDigit(dv string) bool {
	_, ok := numericField(dv, 1)
	return ok
}
