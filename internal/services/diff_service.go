package services

import (
	"github.com/sergi/go-diff/diffmatchpatch"

	"redline/internal/models"
)

// DiffService renders the original-vs-rewrite comparison the frontend shows.
type DiffService struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

func NewDiffService() *DiffService {
	return &DiffService{dmp: diffmatchpatch.New()}
}

func (s *DiffService) Generate(original, rewritten string) *models.DiffResult {
	diffs := s.dmp.DiffMain(original, rewritten, false)
	diffs = s.dmp.DiffCleanupSemantic(diffs)

	result := &models.DiffResult{
		HTML: s.dmp.DiffPrettyHtml(diffs),
	}
	var common, total int
	for _, d := range diffs {
		n := len(d.Text)
		total += n
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			result.Insertions++
		case diffmatchpatch.DiffDelete:
			result.Deletions++
		case diffmatchpatch.DiffEqual:
			result.Unchanged++
			common += n
		}
	}
	if total > 0 {
		result.Similarity = float64(common) / float64(total)
	}
	return result
}
