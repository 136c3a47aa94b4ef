package ocr

import (
	"strings"

	"github.com/mj1618/novelclick/internal/model"
	"github.com/mj1618/novelclick/internal/textnorm"
)

// FindMatch returns the first candidate, in OCR order, whose normalized text
// contains the normalized step text. Matching is case-sensitive.
//
// An empty step matches the first candidate, since every string contains "".
func FindMatch(step string, candidates []model.Candidate) (model.Candidate, bool) {
	target := textnorm.Normalize(step)
	for _, c := range candidates {
		if strings.Contains(textnorm.Normalize(c.Text), target) {
			return c, true
		}
	}
	return model.Candidate{}, false
}
