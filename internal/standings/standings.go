// Package standings turns raw team season records into a ranked, display-ready table.
//
// Ranking is a pure function of its input: records are sorted by wins with a
// stable tie-break, then each row gets a 1-based rank, win percentage, games
// back relative to the first sorted row, and the current streak read from the
// team's form string.
//
// Tied teams keep sequential ranks and games back is computed from wins only.
// Both are deliberate simplifications; the ordering policy lives in a single
// [Comparator] so it can be replaced with [RankWith].
package standings

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/desertthunder/courtside/internal/models"
)

// StreakUnavailable is reported for teams without form data.
const StreakUnavailable = "N/A"

// Comparator orders two records, returning a negative number when a ranks above b.
type Comparator func(a, b models.TeamStanding) int

// ByWins ranks records by descending win count. Equal counts compare as 0,
// so the stable sort keeps input order for ties.
func ByWins(a, b models.TeamStanding) int {
	return ParseCount(b.Wins) - ParseCount(a.Wins)
}

// Rank sorts records with [ByWins] and derives the display rows.
func Rank(records []models.TeamStanding) []models.RankedTeam {
	return RankWith(records, ByWins)
}

// RankWith sorts a copy of records with cmp and derives the display rows.
//
// The result always has the same length as records. The input is not modified.
func RankWith(records []models.TeamStanding, cmp Comparator) []models.RankedTeam {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, cmp)

	ranked := make([]models.RankedTeam, 0, len(sorted))
	if len(sorted) == 0 {
		return ranked
	}

	leaderWins := ParseCount(sorted[0].Wins)

	for i, record := range sorted {
		wins := ParseCount(record.Wins)
		losses := ParseCount(record.Losses)

		ranked = append(ranked, models.RankedTeam{
			Rank:          i + 1,
			Name:          record.Team,
			Wins:          wins,
			Losses:        losses,
			WinPercentage: WinPercentage(wins, losses),
			GamesBack:     max(leaderWins-wins, 0),
			Streak:        Streak(record.Form),
			Form:          record.Form,
			Badge:         record.Badge,
		})
	}

	return ranked
}

// WinPercentage returns wins / (wins + losses), or 0 when no games were played.
func WinPercentage(wins, losses int) float64 {
	total := wins + losses
	if total <= 0 {
		return 0
	}
	return float64(wins) / float64(total)
}

// Streak reads the current run from a chronological form string.
//
// "WLWWL" is "L1", "WWWLW" is "W1" and "LLLLL" is "L5". An empty form yields [StreakUnavailable].
func Streak(form string) string {
	results := []rune(strings.TrimSpace(form))
	if len(results) == 0 {
		return StreakUnavailable
	}

	last := results[len(results)-1]
	count := 1
	for i := len(results) - 2; i >= 0 && results[i] == last; i-- {
		count++
	}

	return string(last) + strconv.Itoa(count)
}

// ParseCount reads a non-negative count from feed text.
//
// Missing, malformed and negative values are 0, as are values above [math.MaxInt32],
// so sums of two counts cannot overflow. Decimal text such as "41.0" is truncated.
func ParseCount(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || math.IsNaN(f) || f > math.MaxInt32 {
			return 0
		}
		n = int(f)
	}
	if n > math.MaxInt32 {
		return 0
	}

	return max(n, 0)
}
