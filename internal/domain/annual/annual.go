// Package annual maintains the long-running per-player ledger that weekly
// results fold into.
package annual

import (
	"strings"

	"github.com/okian/liga/internal/domain/week"
)

// Record is one player's row in the annual ledger. Total starts out equal
// to the sum of Weeks but is thereafter maintained by delta patches, which
// preserves manually seeded historical totals that predate the ledger.
type Record struct {
	Player string         `json:"player"`
	Weeks  map[string]int `json:"weeks"`
	Total  int            `json:"total"`
}

// Merge folds a computed week summary into the ledger. The week label is
// registered first (backfilling a zero entry on every existing record), then
// each participant's total either creates a fresh record or patches the
// existing one by the delta between the new and previously stored value.
// Inputs are never mutated; the returned slices are fresh.
func Merge(records []Record, labels []string, summary week.Summary) ([]Record, []string) {
	out := cloneRecords(records)
	outLabels := append([]string(nil), labels...)

	label := strings.TrimSpace(summary.Meta.Label)
	if label == "" {
		return out, outLabels
	}

	if !containsLabel(outLabels, label) {
		outLabels = append(outLabels, label)
		for i := range out {
			out[i].Weeks[label] = 0
		}
	}

	for _, p := range summary.Participants {
		idx := indexOfPlayer(out, p.Name)
		if idx < 0 {
			weeks := make(map[string]int, len(outLabels))
			for _, l := range outLabels {
				weeks[l] = 0
			}
			weeks[label] = p.TotalPoints
			out = append(out, Record{Player: p.Name, Weeks: weeks, Total: p.TotalPoints})
			continue
		}
		prev := out[idx].Weeks[label]
		out[idx].Weeks[label] = p.TotalPoints
		out[idx].Total += p.TotalPoints - prev
	}
	return out, outLabels
}

func cloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		weeks := make(map[string]int, len(r.Weeks))
		for k, v := range r.Weeks {
			weeks[k] = v
		}
		out[i] = Record{Player: r.Player, Weeks: weeks, Total: r.Total}
	}
	return out
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

func indexOfPlayer(records []Record, player string) int {
	for i := range records {
		if records[i].Player == player {
			return i
		}
	}
	return -1
}
