package docurl

import (
	"fmt"
	"strings"

	"TaxNewsletter/internal/domain"
)

const (
	circularTemplate     = "https://incometaxindia.gov.in/communications/circular/circular-%s.pdf"
	notificationTemplate = "https://incometaxindia.gov.in/communications/notification/notification-%s.pdf"

	circularLabel     = "Circular No."
	notificationLabel = "Notification No."
)

// Resolve turns a raw, inconsistently formatted document reference into
// the canonical PDF download URL for its category. Pure: identical input
// always yields the identical URL.
func Resolve(cat domain.Category, rawReference string) (string, error) {
	switch cat {
	case domain.CategoryCircular:
		return fmt.Sprintf(circularTemplate, token(rawReference, circularLabel)), nil
	case domain.CategoryNotification:
		t := token(rawReference, notificationLabel)
		return fmt.Sprintf(notificationTemplate, stripSequenceZeros(t)), nil
	default:
		return "", fmt.Errorf("category %s has no document URL scheme", cat)
	}
}

// token strips the category label and any bracketed trailing annotation,
// removes spaces and colons, maps / to - and lower-cases the remainder.
func token(raw, label string) string {
	s := strings.ReplaceAll(raw, label, "")
	if i := strings.Index(s, "["); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ":", "")
	s = strings.ReplaceAll(s, "/", "-")
	return strings.ToLower(strings.TrimSpace(s))
}

// stripSequenceZeros drops leading zeros from the sequence segment of a
// notification token (05-2026 becomes 5-2026). The source renumbers
// sequence identifiers without leading zeros in its URL scheme, but
// upstream capture sometimes includes them.
func stripSequenceZeros(t string) string {
	parts := strings.Split(t, "-")
	if len(parts) < 2 {
		return t
	}
	parts[0] = strings.TrimLeft(parts[0], "0")
	if parts[0] == "" {
		parts[0] = "0"
	}
	return strings.Join(parts, "-")
}
