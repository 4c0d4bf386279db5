package handlers

import (
	"strings"
	"time"
)

var fatwahCategories = map[string]bool{
	"aqeedah":  true,
	"salah":    true,
	"fasting":  true,
	"zakah":    true,
	"hajj":     true,
	"marriage": true,
	"business": true,
	"general":  true,
}

func validFatwahCategory(category string) bool {
	return fatwahCategories[strings.ToLower(strings.TrimSpace(category))]
}

// publishStampFor computes the publishedAt value after a status change: it is
// set on the first transition into the published status and never again.
func publishStampFor(existing *time.Time, newStatus, publishedStatus string, now time.Time) *time.Time {
	if newStatus == publishedStatus && existing == nil {
		return &now
	}
	return existing
}

// slugify builds a URL slug from a title.
func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
