package neopronoun

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

const seedOne = `sets:
  - label: "zy/zym"
    subject: "zy"
    object: "zym"
    possessive: "zyr"
    possessive_pronoun: "zyrs"
    reflexive: "zymself"
`

const seedTwo = seedOne + `  - label: "vy/vym"
    subject: "vy"
    object: "vym"
    possessive: "vyr"
    possessive_pronoun: "vyrs"
    reflexive: "vymself"
    popularity: moderate
    origin: "Local usage"
`

func writeSeed(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "community.yaml")
	writeSeed(t, path, seedTwo)

	sets, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, sets, 2)

	assert.Equal(t, PopularityEmerging, sets[0].Popularity)
	assert.Equal(t, CommunityOrigin, sets[0].Origin)
	assert.Equal(t, PopularityModerate, sets[1].Popularity)
	assert.Equal(t, "Local usage", sets[1].Origin)

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRegisterAll(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	sets := []Set{
		testSet("a/b", "a1", "b1", "c1", "d1", "e1"),
		testSet("", "a2", "b2", "c2", "d2", "e2"),
		testSet("a/b", "a1", "b1", "c1", "d1", "e1"),
	}
	added, err := r.RegisterAll(sets)
	assert.Equal(t, 1, added)
	assert.ErrorIs(t, err, ErrInvalidSet)
	assert.Equal(t, 1, r.Len())
}

func TestSeedWatcher(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "community.yaml")
	writeSeed(t, path, seedOne)

	r, err := NewRegistry()
	require.NoError(t, err)

	w, err := NewSeedWatcher(path, r, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	assert.True(t, r.IsKnownForm("zym"))
	assert.Equal(t, 1, r.Len())

	writeSeed(t, path, seedTwo)
	assert.Eventually(t, func() bool {
		return r.IsKnownForm("vym")
	}, 5*time.Second, 20*time.Millisecond)

	// Unrelated files in the directory are ignored.
	writeSeed(t, filepath.Join(dir, "other.yaml"), "sets: []\n")

	w.Stop()
	w.Stop()
	assert.Equal(t, 2, r.Len())
}

func TestNewSeedWatcherValidation(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	_, err = NewSeedWatcher("", r, nil)
	assert.Error(t, err)

	_, err = NewSeedWatcher("/tmp/x.yaml", nil, nil)
	assert.Error(t, err)
}
