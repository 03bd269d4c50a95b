package remessa

import (
	"github.com/nexconsult/remessa-chaves/internal/models"
	"github.com/nexconsult/remessa-chaves/internal/nfe"
)

// PredominantType reduces the valid classifications of a summary to one
// document category. NFCe keys count toward no single bucket, so a remessa
// made only of NFCe keys is misto.
func PredominantType(s models.Summary) models.DocumentCategory {
	if s.TotalItems == 0 || s.ItemsWithKey == 0 {
		return models.CategorySemDocumentos
	}
	if s.InvalidKeys > 0 {
		return models.CategoryNaoIdentificados
	}

	var nfeCount, cteCount, nsCount int
	for _, d := range s.Details {
		if !d.KeyValid || d.Verdict == nil {
			continue
		}

		switch c := d.Verdict.Classification.(type) {
		case models.ServiceNote:
			nsCount++
		case models.ElectronicKey:
			switch c.Subtype {
			case models.SubtypeNFe:
				nfeCount++
			case models.SubtypeCTe:
				cteCount++
			}
		}
	}

	switch {
	case nfeCount > 0 && cteCount == 0 && nsCount == 0:
		return models.CategoryNFe
	case cteCount > 0 && nfeCount == 0 && nsCount == 0:
		return models.CategoryCTe
	case nsCount > 0 && nfeCount == 0 && cteCount == 0:
		return models.CategoryServiceNote
	}
	return models.CategoryMixed
}

// DocumentStatus returns the identification status of a summary
func DocumentStatus(s models.Summary) models.DocumentStatus {
	switch {
	case s.TotalItems == 0:
		return models.DocumentStatusSemTitulos
	case s.ItemsWithKey == 0:
		return models.DocumentStatusSemDocumentos
	case s.ValidKeys == s.ItemsWithKey:
		return models.DocumentStatusIdentificados
	case s.InvalidKeys > 0:
		return models.DocumentStatusNaoIdentificados
	}
	return models.DocumentStatusParcial
}

// SituacaoStatus returns the approval status of a remessa. Without a
// decision timestamp the remessa is pending, whatever the aprovada flag says.
func SituacaoStatus(r *models.Remessa) models.SituacaoStatus {
	if r == nil || !r.Situacao.Decided() {
		return models.SituacaoPendente
	}
	if r.Situacao.Aprovada {
		return models.SituacaoAprovada
	}
	return models.SituacaoReprovada
}

// Evaluate summarizes r with the default validator and derives every tag
// from that single summary
func Evaluate(r *models.Remessa) models.Assessment {
	return EvaluateWith(nil, r)
}

// EvaluateWith is Evaluate with an explicit validator
func EvaluateWith(v *nfe.Validator, r *models.Remessa) models.Assessment {
	summary := SummarizeWith(v, r)

	assessment := models.Assessment{
		Summary:        summary,
		Predominant:    PredominantType(summary),
		DocumentStatus: DocumentStatus(summary),
		Situacao:       SituacaoStatus(r),
		ValorTotal:     TotalValue(r),
	}
	if r != nil {
		assessment.Filename = r.Filename
	}
	return assessment
}
