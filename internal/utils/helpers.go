package utils

import (
	"regexp"
	"strings"
)

var (
	emailRegex      = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9]+`)
	repeatedHyphens = regexp.MustCompile(`-{2,}`)
)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Slugify derives the lowercase URL slug from a display name.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	slug = repeatedHyphens.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// FilterFields copies only the allowed keys from a request body map. Used by
// self-service updates so that fields like role or password cannot ride along.
func FilterFields(body map[string]interface{}, allowed ...string) map[string]interface{} {
	filtered := make(map[string]interface{})
	for _, field := range allowed {
		if value, ok := body[field]; ok {
			filtered[field] = value
		}
	}
	return filtered
}

func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// Round1 rounds to one decimal place, the precision kept for rating averages.
func Round1(v float64) float64 {
	if v < 0 {
		return float64(int(v*10-0.5)) / 10
	}
	return float64(int(v*10+0.5)) / 10
}
