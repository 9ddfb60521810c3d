package viability

import (
	"math"
	"time"

	"github.com/xyston/caseload/internal/model"
)

// minTrajectoryWeeks is the shortest horizon a trajectory covers.
const minTrajectoryWeeks = 5

// TrajectoryWeeks returns the last week index plotted for m: five weeks past
// the plan end, and never fewer than five.
func TrajectoryWeeks(m model.Metrics) int {
	return max(int(math.Floor(m.WeeksRemaining))+5, minTrajectoryWeeks)
}

// Trajectory projects the actual burn (at the current weekly cost) against
// the ideal burn that would land exactly on zero at plan end.
func Trajectory(m model.Metrics, today time.Time) []model.TrajectoryPoint {
	today = Today(today)
	n := TrajectoryWeeks(m)

	idealBurn := 0.0
	if m.WeeksRemaining > 0 {
		idealBurn = m.Balance / m.WeeksRemaining
	}

	pts := make([]model.TrajectoryPoint, 0, n+1)
	for i := 0; i <= n; i++ {
		ideal := 0.0
		if m.WeeksRemaining > 0 {
			ideal = math.Max(0, m.Balance-float64(i)*idealBurn)
		}
		pts = append(pts, model.TrajectoryPoint{
			Week:   i,
			Date:   AddDays(today, i*7),
			Actual: math.Round(math.Max(0, m.Balance-float64(i)*m.WeeklyCost)),
			Ideal:  math.Round(ideal),
		})
	}
	return pts
}
