// Package feature provides the Feature catalog (amenities an apart can offer).
package feature

import (
	"context"
	"regexp"
	"strings"

	"dormdesk/internal/core/apperror"
	"dormdesk/internal/core/entity"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Feature is a toggleable amenity.
type Feature struct {
	entity.Base

	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
	IsActive    bool    `json:"is_active"`
}

// Validate implements entity.Validatable interface.
func (f *Feature) Validate(ctx context.Context) error {
	fields := map[string][]string{}
	if strings.TrimSpace(f.Name) == "" {
		fields["name"] = []string{"name is required"}
	}
	if f.Slug != "" && !slugPattern.MatchString(f.Slug) {
		fields["slug"] = []string{"slug may contain lowercase letters, digits and single dashes"}
	}
	if len(fields) > 0 {
		return apperror.NewFieldValidation("feature is invalid", fields)
	}
	return nil
}

// Slugify derives a slug from a display name.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
