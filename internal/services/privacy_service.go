package services

import (
	"regexp"

	"redline/internal/models"
)

// infoType mirrors the DLP categories the product redacts. Order matters:
// card numbers before phone numbers, or a 16-digit card reads as two phones.
type infoType struct {
	name string
	re   *regexp.Regexp
}

type PrivacyService struct {
	infoTypes []infoType
}

func NewPrivacyService() *PrivacyService {
	return &PrivacyService{infoTypes: []infoType{
		{
			name: "EMAIL_ADDRESS",
			re:   regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
		},
		{
			name: "US_SOCIAL_SECURITY_NUMBER",
			re:   regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
		},
		{
			name: "CREDIT_CARD_NUMBER",
			re:   regexp.MustCompile(`\b(?:\d[ \-]?){13,16}\b`),
		},
		{
			name: "PHONE_NUMBER",
			re:   regexp.MustCompile(`(?:\+?\d{1,2}[ \-.]?)?\(?\d{3}\)?[ \-.]?\d{3}[ \-.]?\d{4}\b`),
		},
	}}
}

// Redact replaces every match with its info-type placeholder and counts them.
func (s *PrivacyService) Redact(text string) *models.RedactResult {
	counts := make(map[string]int)
	redacted := text
	for _, it := range s.infoTypes {
		matches := it.re.FindAllString(redacted, -1)
		if len(matches) == 0 {
			continue
		}
		counts[it.name] = len(matches)
		redacted = it.re.ReplaceAllString(redacted, "["+it.name+"]")
	}
	return &models.RedactResult{Redacted: redacted, Counts: counts}
}
