package scoring

import (
	"sort"

	"github.com/Dosada05/seqel-esports/models"
)

// FinalsEntry is one finals run: the award row, its student and raw metric.
type FinalsEntry struct {
	AwardID  int
	UID4     int
	MetricMs int64
}

// FinalsPlacement is the 1-based place decided for an award row. Place 0
// marks a repeat run of a student who is already placed by a better run.
type FinalsPlacement struct {
	AwardID int
	Place   int
}

// RankFinalists places each student once, by their best run in the game's
// direction. An empty direction means lower is better (lap times). Equal
// metrics keep the earlier entry (lower award id) ahead. Repeat runs follow
// the placed rows with Place 0.
func RankFinalists(entries []FinalsEntry, direction models.FinalsMetric) []FinalsPlacement {
	sorted := make([]FinalsEntry, len(entries))
	copy(sorted, entries)

	higher := direction == models.HigherIsBetter
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.MetricMs != b.MetricMs {
			if higher {
				return a.MetricMs > b.MetricMs
			}
			return a.MetricMs < b.MetricMs
		}
		return a.AwardID < b.AwardID
	})

	placed := make(map[int]bool, len(sorted))
	placements := make([]FinalsPlacement, 0, len(sorted))
	var repeats []FinalsPlacement
	for _, e := range sorted {
		if placed[e.UID4] {
			repeats = append(repeats, FinalsPlacement{AwardID: e.AwardID})
			continue
		}
		placed[e.UID4] = true
		placements = append(placements, FinalsPlacement{AwardID: e.AwardID, Place: len(placements) + 1})
	}
	return append(placements, repeats...)
}

// PlaceCode is the outcome code for a finishing place: "1st".."4th" for the
// podium, "Participation" for everyone after.
func PlaceCode(place int) string {
	if place >= 1 && place <= len(models.PlaceCodes) {
		return models.PlaceCodes[place-1]
	}
	return models.CodeParticipation
}
