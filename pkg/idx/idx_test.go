package idx

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
)

func TestNewProducesValidULIDs(t *testing.T) {
	t.Parallel()

	seen := make(map[ID]bool)
	for range 100 {
		id := New()
		require.NotContains(t, seen, id, "duplicate id generated")
		seen[id] = true

		_, err := ulid.ParseStrict(id.String())
		require.NoError(t, err)
	}
}

func TestIDsAreSortable(t *testing.T) {
	t.Parallel()

	earlier := New()
	later := New()
	require.Less(t, earlier.String(), later.String())
}
