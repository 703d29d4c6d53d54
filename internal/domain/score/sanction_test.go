package score_test

import (
	"testing"

	score "github.com/okian/liga/internal/domain/score"
	. "github.com/smartystreets/goconvey/convey"
)

func TestApply_NoCorrection(t *testing.T) {
	Convey("Given a team without a usable objective", t, func() {
		roster := []string{"Ana", "Beto"}

		Convey("When the objective is zero", func() {
			res := score.Apply(roster, map[string]float64{"Ana": 12, "Beto": 3}, 0)

			Convey("Then sanitized raw points pass through", func() {
				So(res.Points, ShouldResemble, map[string]int{"Ana": 12, "Beto": 3})
				So(res.Sanctions["Ana"], ShouldResemble, score.Sanction{})
				So(res.Sanctions["Beto"], ShouldResemble, score.Sanction{})
			})
		})

		Convey("When the roster has a single player", func() {
			res := score.Apply([]string{"Ana"}, map[string]float64{"Ana": 99}, 30)

			Convey("Then nothing is corrected either", func() {
				So(res.Points, ShouldResemble, map[string]int{"Ana": 99})
				So(res.Sanctions["Ana"], ShouldResemble, score.Sanction{})
			})
		})

		Convey("When raw values are malformed", func() {
			res := score.Apply(roster, map[string]float64{"Ana": -7.5}, 0)

			Convey("Then they sanitize to zero, never erroring", func() {
				So(res.Points, ShouldResemble, map[string]int{"Ana": 0, "Beto": 0})
			})
		})
	})
}

func TestApply_SoloScorer(t *testing.T) {
	Convey("Given a player who completed the objective alone", t, func() {
		roster := []string{"A", "B", "C"}

		Convey("When the objective divides evenly among teammates", func() {
			res := score.Apply(roster, map[string]float64{"A": 50, "B": 0, "C": 0}, 30)

			Convey("Then the solo scorer is zeroed and the objective split", func() {
				So(res.Points, ShouldResemble, map[string]int{"A": 0, "B": 15, "C": 15})
				So(res.Sanctions["A"].Removed, ShouldEqual, 50)
				So(res.Sanctions["B"].Added, ShouldEqual, 15)
				So(res.Sanctions["C"].Added, ShouldEqual, 15)
			})

			Convey("And no leftover message is logged", func() {
				So(len(res.Sanctions["A"].Messages), ShouldEqual, 1)
			})
		})

		Convey("When the objective does not divide evenly", func() {
			res := score.Apply([]string{"A", "B", "C", "D"}, map[string]float64{"A": 31}, 31)

			Convey("Then the remainder is lost and logged on the solo scorer", func() {
				So(res.Points, ShouldResemble, map[string]int{"A": 0, "B": 10, "C": 10, "D": 10})
				So(len(res.Sanctions["A"].Messages), ShouldEqual, 2)
				So(res.Sanctions["A"].Messages[1], ShouldContainSubstring, "1 puntos")
			})
		})

		Convey("When the solo scorer falls short of the objective", func() {
			res := score.Apply(roster, map[string]float64{"A": 20, "B": 0, "C": 0}, 30)

			Convey("Then only the half-objective cap applies", func() {
				// cap is 15; the 5-point excess goes to the lowest teammates.
				So(res.Points, ShouldResemble, map[string]int{"A": 15, "B": 3, "C": 2})
				So(res.Sanctions["A"].Removed, ShouldEqual, 5)
			})
		})
	})
}

func TestApply_HalfObjectiveCap(t *testing.T) {
	Convey("Given an offender above half the objective", t, func() {
		roster := []string{"A", "B", "C", "D"}
		raw := map[string]float64{"A": 30, "B": 5, "C": 5, "D": 0}

		Convey("When sanctions are applied with objective 40", func() {
			res := score.Apply(roster, raw, 40)

			Convey("Then the excess flows to the lowest teammates round by round", func() {
				So(res.Points, ShouldResemble, map[string]int{"A": 20, "B": 7, "C": 7, "D": 6})
			})

			Convey("And the audit trail balances", func() {
				So(res.Sanctions["A"].Removed, ShouldEqual, 10)
				So(res.Sanctions["B"].Added, ShouldEqual, 2)
				So(res.Sanctions["C"].Added, ShouldEqual, 2)
				So(res.Sanctions["D"].Added, ShouldEqual, 6)
			})

			Convey("And points are conserved", func() {
				So(teamTotal(res.Points), ShouldEqual, 40)
			})
		})

		Convey("When every teammate already sits at the cap", func() {
			res := score.Apply([]string{"A", "B"}, map[string]float64{"A": 9, "B": 5}, 10)

			Convey("Then the undistributable remainder is logged, not dropped silently", func() {
				So(res.Points, ShouldResemble, map[string]int{"A": 5, "B": 5})
				So(res.Sanctions["A"].Removed, ShouldEqual, 4)
				So(res.Sanctions["A"].Messages[1], ShouldContainSubstring, "No se pudieron reasignar 4")
			})

			Convey("And conservation holds counting the logged loss", func() {
				So(teamTotal(res.Points)+4, ShouldEqual, 14)
			})
		})

		Convey("When there are several offenders", func() {
			res := score.Apply(roster, map[string]float64{"A": 25, "B": 25, "C": 0, "D": 0}, 40)

			Convey("Then later offenders observe earlier redistributions", func() {
				So(teamTotal(res.Points), ShouldEqual, 50)
				So(res.Points["A"], ShouldEqual, 20)
				So(res.Points["B"], ShouldEqual, 20)
				So(res.Points["C"]+res.Points["D"], ShouldEqual, 10)
			})
		})
	})
}

func TestApply_Idempotence(t *testing.T) {
	Convey("Given a sanctioned result", t, func() {
		first := score.Apply([]string{"A", "B", "C", "D"}, map[string]float64{"A": 30, "B": 5, "C": 5, "D": 0}, 40)

		Convey("When the engine runs again on its own output", func() {
			asRaw := make(map[string]float64, len(first.Points))
			for name, v := range first.Points {
				asRaw[name] = float64(v)
			}
			second := score.Apply([]string{"A", "B", "C", "D"}, asRaw, 40)

			Convey("Then no further correction happens", func() {
				So(second.Points, ShouldResemble, first.Points)
				for _, s := range second.Sanctions {
					So(s.Removed, ShouldEqual, 0)
					So(s.Added, ShouldEqual, 0)
				}
			})
		})
	})
}

func TestApply_Deterministic(t *testing.T) {
	Convey("Given fixed inputs", t, func() {
		roster := []string{"Zoe", "ana", "Óscar", "Beto"}
		raw := map[string]float64{"Zoe": 28, "ana": 3, "Óscar": 3, "Beto": 0}

		Convey("When the engine runs repeatedly", func() {
			first := score.Apply(roster, raw, 40)
			second := score.Apply(roster, raw, 40)

			Convey("Then the outputs are identical", func() {
				So(second, ShouldResemble, first)
			})
		})
	})
}

func teamTotal(points map[string]int) int {
	total := 0
	for _, v := range points {
		total += v
	}
	return total
}
