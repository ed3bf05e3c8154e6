package avatar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		require.Equal(t, Generate("alice"), Generate("alice"))
	})

	t.Run("CaseInsensitiveColour", func(t *testing.T) {
		// Colour derives from the lowercased name; the initials still
		// reflect the original casing.
		a := string(Generate("alice"))
		b := string(Generate("ALICE"))
		require.Equal(t, colourOf(t, a), colourOf(t, b))
	})

	t.Run("ValidSVG", func(t *testing.T) {
		svg := string(Generate("alice"))
		require.True(t, strings.HasPrefix(svg, "<svg"))
		require.Contains(t, svg, "</svg>")
	})
}

func colourOf(t *testing.T, svg string) string {
	t.Helper()
	i := strings.Index(svg, `fill="`)
	require.GreaterOrEqual(t, i, 0)
	return svg[i+6 : i+13]
}

func TestInitials(t *testing.T) {
	cases := map[string]string{
		"alice":          "A",
		"john.doe":       "JD",
		"mary-jane_watson": "MJ",
		"":               "?",
		"...":            "?",
	}
	for in, want := range cases {
		require.Equal(t, want, initials(in), "initials(%q)", in)
	}
}

func TestObjectKey(t *testing.T) {
	require.Equal(t, "avatars/u1.svg", ObjectKey("u1"))
}
