package nfe

import (
	"strings"
	"unicode/utf8"

	"github.com/nexconsult/remessa-chaves/internal/models"
	"github.com/nexconsult/remessa-chaves/internal/utils"
)

// FormatKey groups a 44-character key in blocks of four for display.
// Any other input is returned trimmed. Only call it on ungrouped keys.
func FormatKey(raw string) string {
	key := strings.TrimSpace(raw)
	if utf8.RuneCountInString(key) != models.KeyLength || len(key) != models.KeyLength {
		return key
	}
	return utils.GroupDigits(key, 4)
}

// UnformatKey removes the whitespace inserted by FormatKey
func UnformatKey(formatted string) string {
	return strings.Join(strings.Fields(formatted), "")
}
