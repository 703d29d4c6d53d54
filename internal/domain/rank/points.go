package rank

// Table maps a dense rank to awarded points. Ranks past the table score the
// zero value, so every table carries an implicit "else: 0".
type Table map[int]int

// Points returns the award for rank, or 0 when the rank is off the table.
func (t Table) Points(rank int) int {
	return t[rank]
}

// Fixed award tables, one per scoring dimension.
var (
	// TeamPlacement awards a team's final placement.
	TeamPlacement = Table{1: 4, 2: 3, 3: 2}
	// Quantity awards the podium of the per-participant quantity rank.
	// Ranks past the podium fall through to QuantityPoints' media rule.
	Quantity = Table{1: 4, 2: 3, 3: 2}
	// SpeedBonus is the intermediate team-level award by finish order,
	// shared by every member of the finishing team.
	SpeedBonus = Table{1: 3, 2: 2, 3: 1}
	// Speed awards the per-participant rank over speed bonuses.
	Speed = Table{1: 4, 2: 3, 3: 2}
)

// QuantityPoints resolves a participant's quantity award. Podium ranks use
// the Quantity table; anyone slower still earns a single point by reaching
// the week's media quantity. The mediaQuantity > 0 guard matters: without it
// a zero objective would hand every zero-quantity participant a point.
func QuantityPoints(rank, quantity int, mediaQuantity float64) int {
	if rank <= 3 {
		return Quantity.Points(rank)
	}
	if mediaQuantity > 0 && float64(quantity) >= mediaQuantity {
		return 1
	}
	return 0
}

// SpeedPoints resolves a participant's speed award. Only participants whose
// team actually finished (bonus > 0) can score, regardless of dense rank.
func SpeedPoints(rank, speedBonus int) int {
	if speedBonus <= 0 {
		return 0
	}
	return Speed.Points(rank)
}
