// Package avatar generates the default profile images assigned at user
// creation. The image is a deterministic function of the username, so
// regenerating it never changes what a user already has.
package avatar

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// palette holds the background colours an avatar can take. Text is always
// white on top.
var palette = []string{
	"#1abc9c", "#2ecc71", "#3498db", "#9b59b6", "#34495e",
	"#f39c12", "#d35400", "#e74c3c", "#16a085", "#8e44ad",
}

// Generate renders an initials avatar as SVG for the given username. The
// same username always yields byte-identical output.
func Generate(username string) []byte {
	sum := sha256.Sum256([]byte(strings.ToLower(username)))
	colour := palette[int(sum[0])%len(palette)]

	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="128" height="128" viewBox="0 0 128 128">`+
		`<rect width="128" height="128" fill="%s"/>`+
		`<text x="64" y="64" font-family="sans-serif" font-size="56" fill="#ffffff" text-anchor="middle" dominant-baseline="central">%s</text>`+
		`</svg>`, colour, initials(username))
	return []byte(svg)
}

// ContentType is the MIME type of generated avatars.
const ContentType = "image/svg+xml"

// ObjectKey is the storage key an avatar lives under.
func ObjectKey(userID string) string {
	return "avatars/" + userID + ".svg"
}

// initials picks up to two leading letters from the username, split on the
// separators usernames commonly carry.
func initials(username string) string {
	parts := strings.FieldsFunc(username, func(r rune) bool {
		return r == '.' || r == '-' || r == '_' || r == ' '
	})

	var out []rune
	for _, part := range parts {
		runes := []rune(part)
		if len(runes) == 0 {
			continue
		}
		out = append(out, runes[0])
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return strings.ToUpper(string(out))
}
