// Package slugs provides the slug forms used to address campaigns and
// entities from the command line.
//
// Campaign slugs come from the document path, so two campaigns with the same
// title in different files stay distinct. Entity slugs come from names.
package slugs

import (
	"path/filepath"
	"strings"

	goslug "github.com/gosimple/slug"
)

// ComponentSlug converts a string to a URL-safe slug for one path component.
func ComponentSlug(s string) string {
	s = strings.TrimSuffix(s, filepath.Ext(s))
	slugged := goslug.Make(s)
	if slugged == "" {
		slugged = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "-"))
	}
	return slugged
}

// CampaignSlug slugifies each component of a workspace-relative document
// path and drops the extension: "Logs/Iron Vow.md" becomes "logs/iron-vow".
func CampaignSlug(path string) string {
	path = strings.ReplaceAll(path, `\`, "/")
	path = strings.TrimSuffix(path, filepath.Ext(path))

	parts := strings.Split(path, "/")
	for i, part := range parts {
		parts[i] = ComponentSlug(part)
	}
	return strings.Join(parts, "/")
}

// EntitySlug slugifies an entity name: "Old Jonah" becomes "old-jonah".
func EntitySlug(name string) string {
	return goslug.Make(name)
}

// Matches reports whether query addresses the campaign at path, either by
// its full slug or by the slug of its file name alone.
func Matches(query, path string) bool {
	q := CampaignSlug(query)
	full := CampaignSlug(path)
	if q == full {
		return true
	}
	base := full[strings.LastIndex(full, "/")+1:]
	return q == base
}
