package chart

import (
	"io"

	"github.com/xyston/caseload/internal/model"
)

// Line colours for projections.
const (
	ActualColor = "#3AA99F"
	IdealColor  = "#8B7EC8"
)

// RenderTrajectory plots a participant's projected balance against the
// burn that would exactly exhaust funds at plan end.
func RenderTrajectory(w io.Writer, title string, pts []model.TrajectoryPoint, opts Options) error {
	actual := make([]float64, len(pts))
	ideal := make([]float64, len(pts))
	labels := make([]string, len(pts))
	for i, p := range pts {
		actual[i] = p.Actual
		ideal[i] = p.Ideal
		labels[i] = p.Date.Format("02 Jan")
	}
	opts.Title = title
	opts.XLabels = labels
	return Render(w, opts,
		Series{Label: "Actual", Color: ActualColor, Values: actual},
		Series{Label: "Ideal", Color: IdealColor, Values: ideal, Dashed: true},
	)
}

// RenderForecast plots the summed portfolio balance by week.
func RenderForecast(w io.Writer, title string, pts []model.ForecastPoint, opts Options) error {
	bal := make([]float64, len(pts))
	labels := make([]string, len(pts))
	for i, p := range pts {
		bal[i] = p.Balance
		labels[i] = p.Date.Format("02 Jan")
	}
	opts.Title = title
	opts.XLabels = labels
	return Render(w, opts, Series{Label: "Funds under management", Color: ActualColor, Values: bal})
}
