package utils

import (
	"regexp"
)

var nonDigit = regexp.MustCompile(`\D`)

var (
	cnpjFirstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjSecondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// CleanDigits removes all non-numeric characters
func CleanDigits(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

// FormatCNPJ formats CNPJ with dots, slash and dash (XX.XXX.XXX/XXXX-XX)
func FormatCNPJ(cnpj string) string {
	cleaned := CleanDigits(cnpj)
	if len(cleaned) != 14 {
		return cnpj // Return original if invalid length
	}

	return cleaned[:2] + "." + cleaned[2:5] + "." + cleaned[5:8] + "/" + cleaned[8:12] + "-" + cleaned[12:14]
}

// IsCNPJShape reports whether cnpj is 14 digits that are not all the same.
// No check digit is verified.
func IsCNPJShape(cnpj string) bool {
	return len(cnpj) == 14 && IsNumeric(cnpj) && !IsAllSameDigit(cnpj)
}

// IsValidCNPJ validates CNPJ using the official algorithm
func IsValidCNPJ(cnpj string) bool {
	cleaned := CleanDigits(cnpj)

	if !IsCNPJShape(cleaned) {
		return false
	}

	digits := Digits(cleaned)

	if Modulo11(digits[:12], cnpjFirstWeights) != digits[12] {
		return false
	}

	return Modulo11(digits[:13], cnpjSecondWeights) == digits[13]
}

// IsAllSameDigit checks if all characters in the string are the same
func IsAllSameDigit(s string) bool {
	if len(s) == 0 {
		return false
	}

	first := s[0]
	for i := 1; i < len(s); i++ {
		if s[i] != first {
			return false
		}
	}
	return true
}
