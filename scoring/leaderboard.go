package scoring

import (
	"sort"

	"github.com/Dosada05/seqel-esports/models"
)

// Total is a summed score for one public identifier.
type Total struct {
	UID4  int
	Total int
}

// AggregateTotals sums points per UID4 and returns the totals in descending
// order. Equal totals keep the order in which their UID4 first appeared in
// awards. A limit <= 0 returns every total.
func AggregateTotals(awards []models.AwardPoints, limit int) []Total {
	index := make(map[int]int)
	totals := make([]Total, 0)
	for _, a := range awards {
		i, ok := index[a.UID4]
		if !ok {
			i = len(totals)
			index[a.UID4] = i
			totals = append(totals, Total{UID4: a.UID4})
		}
		totals[i].Total += a.Points
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total > totals[j].Total
	})

	if limit > 0 && len(totals) > limit {
		totals = totals[:limit]
	}
	return totals
}
