package gamemode

import "fmt"

// ladder lists ranks from lowest to highest. Divisions within a rank count
// down from 5 to 1, so division 1 is the strongest.
var ladder = []string{
	"Bronze",
	"Silver",
	"Gold",
	"Platinum",
	"Diamond",
	"Master",
	"Grandmaster",
	"Champion",
}

// Divisions returns the valid divisions for a rank, highest number first.
func Divisions(rank string) []int {
	if rank == "Champion" {
		return []int{1}
	}
	if !ValidRank(rank) {
		return nil
	}
	return []int{5, 4, 3, 2, 1}
}

// ValidRank reports whether rank is on the ladder.
func ValidRank(rank string) bool {
	for _, r := range ladder {
		if r == rank {
			return true
		}
	}
	return false
}

// ValidDivision reports whether division is valid for rank.
func ValidDivision(rank string, division int) bool {
	for _, d := range Divisions(rank) {
		if d == division {
			return true
		}
	}
	return false
}

// RankValue maps a rank/division pair onto a single comparable scale.
// Each rank tier spans ten points and lower divisions are worth more.
// Unknown ranks map to 0.
func RankValue(rank string, division int) int {
	for i, r := range ladder {
		if r == rank {
			return i*10 + (6 - division)
		}
	}
	return 0
}

// FormatRank renders a rank/division pair for display.
func FormatRank(rank string, division int) string {
	if rank == "" || division == 0 {
		return "Unranked"
	}
	return fmt.Sprintf("%s %d", rank, division)
}
