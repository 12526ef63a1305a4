package services

import (
	"regexp"
	"sort"
	"strconv"

	"redline/internal/models"
)

// riskCategory is one family of contract language we flag. Categories with
// thresholdCheck capture a number (days or percent) and only count when the
// captured value crosses the threshold.
type riskCategory struct {
	tag            string
	patterns       []*regexp.Regexp
	score          int
	rationale      string
	thresholdCheck func(captured string) bool
}

type RiskService struct {
	categories []riskCategory
}

func NewRiskService() *RiskService {
	shortNotice := func(captured string) bool {
		days, err := strconv.Atoi(captured)
		return err == nil && days < 30
	}
	highPenalty := func(captured string) bool {
		pct, err := strconv.ParseFloat(captured, 64)
		return err == nil && pct > 5
	}

	return &RiskService{categories: []riskCategory{
		{
			tag: "auto_renew",
			patterns: compileAll(
				`auto(?:matic)?(?:ally)?\s*renew`,
				`renews?\s*(?:automatically|unless)`,
				`automatic\s*(?:extension|renewal)`,
				`shall\s*continue\s*unless\s*terminated`,
			),
			score:     3,
			rationale: "Auto-renewal clauses can trap parties in unwanted contract extensions.",
		},
		{
			tag: "unilateral_change",
			patterns: compileAll(
				`(?:provider|company|we)\s*(?:may|can|shall)\s*modify.*without\s*(?:notice|consent)`,
				`unilateral(?:ly)?\s*(?:change|modify|alter)`,
				`at\s*(?:our|company's)\s*(?:sole\s*)?discretion`,
				`right\s*to\s*(?:change|modify).*without\s*(?:notice|consent)`,
			),
			score:     4,
			rationale: "Unilateral modification rights create power imbalances and unpredictability.",
		},
		{
			tag: "short_notice",
			patterns: compileAll(
				`(?:notice|notification)\s*(?:period\s*)?(?:of\s*)?(?:less\s*than\s*)?(\d+)\s*days?`,
				`(\d+)\s*days?\s*(?:prior\s*)?notice`,
				`terminate.*(?:with|upon)\s*(\d+)\s*days?\s*notice`,
			),
			score:          2,
			rationale:      "Short notice periods may not provide adequate time to respond or find alternatives.",
			thresholdCheck: shortNotice,
		},
		{
			tag: "high_penalty",
			patterns: compileAll(
				`(?:penalty|fee|charge).*?(\d+(?:\.\d+)?)%`,
				`liquidated\s*damages.*?(\d+(?:\.\d+)?)%`,
				`late\s*(?:payment\s*)?(?:fee|charge).*?(\d+(?:\.\d+)?)%`,
			),
			score:          3,
			rationale:      "High penalty percentages can result in disproportionate financial consequences.",
			thresholdCheck: highPenalty,
		},
		{
			tag: "exclusive_jurisdiction",
			patterns: compileAll(
				`exclusive\s*jurisdiction`,
				`binding\s*arbitration`,
				`waive.*right.*jury\s*trial`,
				`disputes\s*shall\s*be\s*resolved\s*(?:exclusively\s*)?in`,
			),
			score:     2,
			rationale: "Exclusive jurisdiction clauses may limit legal options and increase costs.",
		},
		{
			tag: "liability_limitation",
			patterns: compileAll(
				`(?:limit|exclude|disclaim).*liability`,
				`in\s*no\s*event.*liable`,
				`maximum\s*liability.*(?:shall\s*not\s*exceed|limited\s*to)`,
				`consequential\s*damages.*(?:excluded|disclaimed)`,
			),
			score:     3,
			rationale: "Liability limitations may prevent fair compensation for damages.",
		},
		{
			tag: "broad_termination",
			patterns: compileAll(
				`terminate.*(?:for\s*any\s*reason|at\s*any\s*time)`,
				`(?:immediate|without\s*cause)\s*termination`,
				`terminate.*without.*(?:notice|cause|reason)`,
			),
			score:     3,
			rationale: "Broad termination rights create uncertainty and potential for abuse.",
		},
	}}
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`(?is)`+p))
	}
	return out
}

// AnalyzeClause scores one clause: each matched category adds its score once.
func (s *RiskService) AnalyzeClause(clause *models.Clause) *models.RiskAnalysis {
	analysis := &models.RiskAnalysis{Tags: []string{}, Rationales: []string{}}

	for _, cat := range s.categories {
		matched := false
		for _, re := range cat.patterns {
			m := re.FindStringSubmatch(clause.Text)
			if m == nil {
				continue
			}
			if cat.thresholdCheck != nil {
				if len(m) < 2 || !cat.thresholdCheck(m[1]) {
					continue
				}
			}
			matched = true
			break
		}
		if matched {
			analysis.Score += cat.score
			analysis.Tags = append(analysis.Tags, cat.tag)
			analysis.Rationales = append(analysis.Rationales, cat.rationale)
		}
	}

	return analysis
}

// AnalyzeDocument returns the clauses that scored at all, riskiest first.
func (s *RiskService) AnalyzeDocument(doc *models.Document) []models.Clause {
	var risky []models.Clause
	for _, clause := range doc.Clauses {
		risk := s.AnalyzeClause(&clause)
		if risk.Score >= 1 {
			clause.Risk = risk
			risky = append(risky, clause)
		}
	}
	sort.SliceStable(risky, func(i, j int) bool {
		return risky[i].Risk.Score > risky[j].Risk.Score
	})
	return risky
}
