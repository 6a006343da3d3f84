package tardelta

import (
	"crypto/sha1" //nolint:gosec // fingerprint construction for tests
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(content string, headerSum uint32) Fingerprint {
	return Fingerprint{ContentHash: sha1.Sum([]byte(content)), HeaderSum: headerSum}
}

func TestComputeDiff(t *testing.T) {
	tests := []struct {
		name        string
		oldIdx      Index
		newIdx      Index
		wantChanged []string
		wantAdded   []string
		wantRemoved []string
	}{
		{
			name: "both empty",
			oldIdx: Index{}, newIdx: Index{},
			wantChanged: []string{}, wantAdded: []string{}, wantRemoved: []string{},
		},
		{
			name: "identical",
			oldIdx: Index{"a.txt": fp("hello", 1), "b.txt": fp("world", 2)},
			newIdx: Index{"a.txt": fp("hello", 1), "b.txt": fp("world", 2)},
			wantChanged: []string{}, wantAdded: []string{}, wantRemoved: []string{},
		},
		{
			name: "content change",
			oldIdx: Index{"a.txt": fp("hello", 1)},
			newIdx: Index{"a.txt": fp("HELLO", 1)},
			wantChanged: []string{"a.txt"}, wantAdded: []string{}, wantRemoved: []string{},
		},
		{
			name: "header-only change",
			oldIdx: Index{"a.txt": fp("hello", 1)},
			newIdx: Index{"a.txt": fp("hello", 2)},
			wantChanged: []string{"a.txt"}, wantAdded: []string{}, wantRemoved: []string{},
		},
		{
			name: "added and removed",
			oldIdx: Index{"gone.txt": fp("x", 1), "kept.txt": fp("y", 2)},
			newIdx: Index{"kept.txt": fp("y", 2), "fresh.txt": fp("z", 3)},
			wantChanged: []string{}, wantAdded: []string{"fresh.txt"}, wantRemoved: []string{"gone.txt"},
		},
		{
			name: "mixed",
			oldIdx: Index{
				"a.txt": fp("hello", 1),
				"b.txt": fp("world", 2),
				"c.txt": fp("stale", 3),
			},
			newIdx: Index{
				"a.txt": fp("hello", 1),
				"b.txt": fp("WORLD", 2),
				"d.txt": fp("new", 4),
			},
			wantChanged: []string{"b.txt"}, wantAdded: []string{"d.txt"}, wantRemoved: []string{"c.txt"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ComputeDiff(tt.oldIdx, tt.newIdx)
			assert.Equal(t, tt.wantChanged, m.Changed)
			assert.Equal(t, tt.wantAdded, m.Added)
			assert.Equal(t, tt.wantRemoved, m.Removed)
			assertDisjoint(t, m)
		})
	}
}

func TestComputeDiffSortedOutput(t *testing.T) {
	newIdx := Index{
		"zebra.txt": fp("z", 1),
		"alpha.txt": fp("a", 2),
		"mango.txt": fp("m", 3),
	}
	m := ComputeDiff(Index{}, newIdx)
	assert.Equal(t, []string{"alpha.txt", "mango.txt", "zebra.txt"}, m.Added)
}

func TestManifestJSONEmptyArrays(t *testing.T) {
	data, err := json.Marshal(ComputeDiff(Index{}, Index{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"changed":[],"added":[],"removed":[]}`, string(data))
}

func assertDisjoint(t *testing.T, m *Manifest) {
	t.Helper()
	seen := map[string]int{}
	for _, p := range m.Changed {
		seen[p]++
	}
	for _, p := range m.Added {
		seen[p]++
	}
	for _, p := range m.Removed {
		seen[p]++
	}
	for p, n := range seen {
		assert.Equal(t, 1, n, "path %s appears in more than one set", p)
	}
}
