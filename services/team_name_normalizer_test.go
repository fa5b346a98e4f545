package services

import (
	"context"
	"errors"
	"testing"

	"cfb-pickem-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func southFloridaAliases() []*models.TeamAlias {
	return []*models.TeamAlias{
		models.NewTeamAlias("USF", "South Florida"),
		models.NewTeamAlias("S. Florida", "South Florida"),
		models.NewTeamAlias("Ole Miss", "Mississippi"),
	}
}

func TestTeamNameNormalizer_Normalize(t *testing.T) {
	ctx := context.Background()
	n := newFixture(southFloridaAliases()...).normalizer

	tests := []struct {
		in   string
		want string
	}{
		{"USF", "South Florida"},
		{"usf", "South Florida"},
		{"  S.   Florida ", "South Florida"},
		{"South Florida", "South Florida"},
		{"south florida", "South Florida"},
		{"Ole Miss", "Mississippi"},
		{"  Boise State ", "Boise State"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(ctx, tt.in))
		})
	}
}

func TestTeamNameNormalizer_Idempotent(t *testing.T) {
	ctx := context.Background()
	n := newFixture(southFloridaAliases()...).normalizer

	for _, name := range []string{"USF", "S. Florida", "Ole Miss", "Boise State", " Utah "} {
		once := n.Normalize(ctx, name)
		assert.Equal(t, once, n.Normalize(ctx, once), name)
	}
}

func TestTeamNameNormalizer_AreEqual(t *testing.T) {
	ctx := context.Background()
	n := newFixture(southFloridaAliases()...).normalizer

	assert.True(t, n.AreEqual(ctx, "USF", "South Florida"))
	assert.True(t, n.AreEqual(ctx, "S. Florida", "usf"))
	assert.False(t, n.AreEqual(ctx, "USF", "Florida"))
}

func TestTeamNameNormalizer_Cache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(southFloridaAliases()...)

	t.Run("loads once", func(t *testing.T) {
		f.normalizer.Normalize(ctx, "USF")
		f.normalizer.NormalizeBatch(ctx, []string{"Ole Miss", "USF", "Utah"})
		f.normalizer.Normalize(ctx, "Utah")
		assert.Equal(t, 1, f.aliases.Loads)
	})

	t.Run("set alias reloads", func(t *testing.T) {
		alias, err := f.normalizer.SetAlias(ctx, "Bama", "Alabama")
		require.NoError(t, err)
		assert.Equal(t, "bama", alias.Key)
		assert.Equal(t, 2, f.aliases.Loads)
		assert.Equal(t, "Alabama", f.normalizer.Normalize(ctx, "BAMA"))
	})

	t.Run("remove alias reloads", func(t *testing.T) {
		require.NoError(t, f.normalizer.RemoveAlias(ctx, "bama"))
		assert.Equal(t, "Bama", f.normalizer.Normalize(ctx, "Bama"))
	})

	t.Run("remove unknown alias", func(t *testing.T) {
		err := f.normalizer.RemoveAlias(ctx, "nobody")
		assert.True(t, errors.Is(err, models.ErrAliasNotFound))
	})

	t.Run("blank alias rejected", func(t *testing.T) {
		_, err := f.normalizer.SetAlias(ctx, " ", "Alabama")
		assert.True(t, IsSubmissionError(err))
	})
}

func TestDefaultTeamAliases(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	count, err := SeedAliases(ctx, f.aliases, f.normalizer, DefaultTeamAliases())
	require.NoError(t, err)
	assert.Equal(t, len(DefaultTeamAliases()), count)

	assert.Equal(t, "South Florida", f.normalizer.Normalize(ctx, "USF"))
	assert.Equal(t, "Miami (FL)", f.normalizer.Normalize(ctx, "Miami"))
	assert.Equal(t, "Miami (OH)", f.normalizer.Normalize(ctx, "miami oh"))
	assert.True(t, f.normalizer.AreEqual(ctx, "LSU", "Louisiana State"))
}

func TestTeamNameNormalizer_AliasChain(t *testing.T) {
	ctx := context.Background()
	n := newFixture().normalizer

	_, err := n.SetAlias(ctx, "USF", "S. Florida")
	require.NoError(t, err)
	_, err = n.SetAlias(ctx, "S. Florida", "South Florida")
	require.NoError(t, err)

	assert.Equal(t, "South Florida", n.Normalize(ctx, "USF"))
	assert.Equal(t, "South Florida", n.Normalize(ctx, "S. Florida"))
	assert.Equal(t, n.Normalize(ctx, "USF"), n.Normalize(ctx, n.Normalize(ctx, "USF")))
	assert.True(t, n.AreEqual(ctx, "USF", "South Florida"))
	assert.True(t, n.AreEqual(ctx, "usf", "s. florida"))
}

func TestTeamNameNormalizer_SetAliasRejectsLoop(t *testing.T) {
	ctx := context.Background()
	n := newFixture(southFloridaAliases()...).normalizer

	_, err := n.SetAlias(ctx, "South Florida", "USF")
	var rejection *SubmissionError
	require.ErrorAs(t, err, &rejection)
	assert.Contains(t, rejection.Reason, "would loop")
	assert.Equal(t, "South Florida", n.Normalize(ctx, "USF"))

	// Case-only respelling of the canonical name is not a loop.
	_, err = n.SetAlias(ctx, "SOUTH FLORIDA", "South Florida")
	assert.NoError(t, err)
}

func TestResolveChains_StopsOnCycle(t *testing.T) {
	table := resolveChains(map[string]string{
		"a": "B",
		"b": "A",
		"c": "A",
	})
	assert.Len(t, table, 3)
	assert.Equal(t, "A", table["a"])
	assert.Equal(t, "B", table["b"])
}
