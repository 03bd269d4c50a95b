package nfe

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nexconsult/remessa-chaves/internal/models"
	"github.com/nexconsult/remessa-chaves/internal/utils"
)

// Structural error messages
const (
	ErrKeyNotProvided = "Chave não fornecida"
	ErrKeyNotNumeric  = "Chave deve conter apenas números"
)

// Validator validates fiscal document keys. The zero value is not usable;
// create one with NewValidator. A Validator is immutable and safe for
// concurrent use.
type Validator struct {
	now              func() time.Time
	strictCheckDigit bool
}

// Option configures a Validator
type Option func(*Validator)

// WithClock sets the clock used as reference for the emission year
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// WithStrictCheckDigit enables modulo-11 verification of the last digit.
// Off by default: only the digit shape is checked.
func WithStrictCheckDigit(strict bool) Option {
	return func(v *Validator) {
		v.strictCheckDigit = strict
	}
}

// NewValidator creates a new key validator
func NewValidator(opts ...Option) *Validator {
	v := &Validator{now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var defaultValidator = NewValidator()

// Validate validates a raw key with the default validator
func Validate(raw string) models.Verdict {
	return defaultValidator.Validate(raw)
}

// Validate classifies a raw key and, for electronic keys, checks every
// fixed-width field. Every failing field adds one error; none short-circuits.
func (v *Validator) Validate(raw string) models.Verdict {
	classification := Classify(raw)
	verdict := models.Verdict{
		Errors:         []string{},
		Classification: classification,
	}

	switch c := classification.(type) {
	case models.ServiceNote:
		verdict.Valid = true
		return verdict
	case models.Unrecognized:
		switch {
		case c.NotProvided:
			verdict.Errors = append(verdict.Errors, ErrKeyNotProvided)
		case c.Length == models.KeyLength:
			verdict.Errors = append(verdict.Errors, ErrKeyNotNumeric)
		default:
			verdict.Errors = append(verdict.Errors,
				fmt.Sprintf("Chave eletrônica deve ter %d dígitos, encontrados %d", models.KeyLength, c.Length))
		}
		return verdict
	case models.ElectronicKey:
		key := strings.TrimSpace(raw)
		components := SplitKey(key)
		verdict.Components = &components
		verdict.Errors = v.fieldErrors(key, components)
		verdict.Valid = len(verdict.Errors) == 0
		return verdict
	}

	return verdict
}

// fieldErrors runs every field validator, in field order
func (v *Validator) fieldErrors(key string, c models.KeyComponents) []string {
	errs := []string{}

	if !ValidUF(c.CUF) {
		errs = append(errs, "Código da UF inválido: "+c.CUF)
	}
	if !ValidYearMonth(c.AAMM, v.now()) {
		errs = append(errs, "Ano/Mês inválido: "+c.AAMM)
	}
	if !ValidCNPJ(c.CNPJ) {
		errs = append(errs, "CNPJ inválido: "+c.CNPJ)
	}
	if !ValidModel(c.Modelo) {
		errs = append(errs, fmt.Sprintf("Modelo inválido: %s (deve ser %s)", c.Modelo, strings.Join(validModelCodes, ", ")))
	}
	if !ValidSeries(c.Serie) {
		errs = append(errs, "Série inválida: "+c.Serie)
	}
	if !ValidNumber(c.Numero) {
		errs = append(errs, "Número inválido: "+c.Numero)
	}
	if !ValidEmissionType(c.TpEmis) {
		errs = append(errs, "Tipo de emissão inválido: "+c.TpEmis)
	}
	if !ValidNumericCode(c.CNF) {
		errs = append(errs, "Código numérico inválido: "+c.CNF)
	}
	if msg, ok := v.checkDigit(key, c.DV); !ok {
		errs = append(errs, msg)
	}

	return errs
}

func (v *Validator) checkDigit(key, dv string) (string, bool) {
	if !ValidCheckDigit(dv) {
		return "Dígito verificador inválido: " + dv, false
	}
	if !v.strictCheckDigit {
		return "", true
	}

	expected, ok := utils.AccessKeyCheckDigit(key[:models.KeyLength-1])
	if !ok || strconv.Itoa(expected) != dv {
		return fmt.Sprintf("Dígito verificador inválido: %s (esperado %d)", dv, expected), false
	}
	return "", true
}

// SplitKey slices a 44-digit key into its nine components.
// Offsets: 0-2, 2-6, 6-20, 20-22, 22-25, 25-34, 34-35, 35-43, 43-44.
func SplitKey(key string) models.KeyComponents {
	return models.KeyComponents{
		CUF:    key[0:2],
		AAMM:   key[2:6],
		CNPJ:   key[6:20],
		Modelo: key[20:22],
		Serie:  key[22:25],
		Numero: key[25:34],
		TpEmis: key[34:35],
		CNF:    key[35:43],
		DV:     key[43:44],
	}
}
