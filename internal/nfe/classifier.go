package nfe

import (
	"strings"
	"unicode/utf8"

	"github.com/nexconsult/remessa-chaves/internal/models"
	"github.com/nexconsult/remessa-chaves/internal/utils"
)

// Model code offsets inside a 44-digit key
const (
	modelStart = 20
	modelEnd   = 22
)

// Classify assigns a document type to a raw key. It never fails.
func Classify(raw string) models.Classification {
	key := strings.TrimSpace(raw)
	if key == "" {
		return models.Unrecognized{NotProvided: true}
	}

	length := utf8.RuneCountInString(key)
	if length < models.KeyLength {
		return models.ServiceNote{Length: length}
	}

	if length == models.KeyLength && utils.IsNumeric(key) {
		code := key[modelStart:modelEnd]
		subtype := SubtypeForModel(code)
		return models.ElectronicKey{
			ModelCode: code,
			Subtype:   subtype,
			Valid:     subtype != models.SubtypeUnknown,
		}
	}

	return models.Unrecognized{Length: length}
}
