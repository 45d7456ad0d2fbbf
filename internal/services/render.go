package services

import (
	"strings"

	"parishlaunch/internal/domain"
)

// renderPlaceholders substitutes the two recognized placeholder tokens with
// the recipient's details. Substitution is case-sensitive and verbatim: the
// values are not HTML-escaped, so template bodies render whatever the
// recipient record contains. Unrecognized tokens are left untouched; a body
// without tokens comes back unchanged.
func renderPlaceholders(body string, recipient *domain.WaitlistEntry) string {
	body = strings.ReplaceAll(body, "{{name}}", recipient.FullName)
	body = strings.ReplaceAll(body, "{{email}}", recipient.Email)
	return body
}
