package utils

import "strings"

// IsNumeric reports whether s is non-empty and made only of ASCII digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Digits converts a numeric string into its digit values.
// Callers must check IsNumeric first.
func Digits(s string) []int {
	digits := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		digits[i] = int(s[i] - '0')
	}
	return digits
}

// Modulo11 calculates a check digit using the given weights
func Modulo11(digits []int, weights []int) int {
	sum := 0
	for i, digit := range digits {
		sum += digit * weights[i]
	}

	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}

// AccessKeyCheckDigit calculates the check digit of the first 43 digits of
// an electronic fiscal access key. Weights cycle 2..9 from the rightmost digit.
func AccessKeyCheckDigit(body string) (int, bool) {
	if len(body) != 43 || !IsNumeric(body) {
		return 0, false
	}

	digits := Digits(body)
	weights := make([]int, len(digits))
	w := 2
	for i := len(digits) - 1; i >= 0; i-- {
		weights[i] = w
		w++
		if w > 9 {
			w = 2
		}
	}

	return Modulo11(digits, weights), true
}

// GroupDigits splits s into blocks of size separated by a single space.
func GroupDigits(s string, size int) string {
	if size <= 0 || len(s) <= size {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/size)
	for i := 0; i < len(s); i += size {
		if i > 0 {
			b.WriteByte(' ')
		}
		end := i + size
		if end > len(s) {
			end = len(s)
		}
		b.WriteString(s[i:end])
	}
	return b.String()
}
