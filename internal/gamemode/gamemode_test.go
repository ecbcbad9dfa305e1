package gamemode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	comp, ok := Lookup("5v5")
	require.True(t, ok)
	assert.Equal(t, 5, comp.Total())
	assert.False(t, comp.AnyOnly())
	assert.Equal(t, 1, comp.Capacity("Tank"))
	assert.Equal(t, 2, comp.Capacity("DPS"))
	assert.Equal(t, 2, comp.Capacity("Support"))
	assert.False(t, comp.HasRole("Any"))

	classic, ok := Lookup("6v6")
	require.True(t, ok)
	assert.True(t, classic.AnyOnly())
	assert.Equal(t, 6, classic.Total())

	_, ok = Lookup("1v1")
	assert.False(t, ok)
}

func TestNamedRoles(t *testing.T) {
	assert.Equal(t, []string{"Tank", "DPS", "Support"}, NamedRoles())
	assert.True(t, ValidRatingRole("Tank"))
	assert.False(t, ValidRatingRole("Any"))
	assert.False(t, ValidRatingRole("Healer"))
}

func TestRankValue(t *testing.T) {
	cases := []struct {
		rank     string
		division int
		want     int
	}{
		{"Bronze", 5, 1},
		{"Bronze", 1, 5},
		{"Silver", 5, 11},
		{"Gold", 3, 23},
		{"Platinum", 3, 33},
		{"Diamond", 5, 41},
		{"Champion", 1, 75},
		{"Wood", 3, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RankValue(tc.rank, tc.division), "%s %d", tc.rank, tc.division)
	}

	// Each division step within a rank is worth exactly one point, and rank
	// tiers never overlap.
	assert.Greater(t, RankValue("Silver", 5), RankValue("Bronze", 1))
	assert.Equal(t, 1, RankValue("Gold", 2)-RankValue("Gold", 3))
}

func TestDivisions(t *testing.T) {
	assert.Equal(t, []int{5, 4, 3, 2, 1}, Divisions("Gold"))
	assert.Equal(t, []int{1}, Divisions("Champion"))
	assert.Nil(t, Divisions("Wood"))

	assert.True(t, ValidDivision("Gold", 3))
	assert.False(t, ValidDivision("Gold", 0))
	assert.False(t, ValidDivision("Champion", 2))
}

func TestFormatRank(t *testing.T) {
	assert.Equal(t, "Gold 3", FormatRank("Gold", 3))
	assert.Equal(t, "Unranked", FormatRank("", 0))
}
