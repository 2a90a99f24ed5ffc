// Package interpolate answers "what is each series' value at this horizontal
// position?" for a hover position in normalized coordinates.
//
// Every function assumes points are sorted ascending by X and scans segments in
// index order, taking the first one whose bounds contain the query. Unsorted input is
// not detected.
package interpolate

import "github.com/christophergentle/hourstats-chart/internal/series"

// Reading is one series' interpolated value at a hover position.
type Reading struct {
	SeriesID string
	Label    string
	Color    string
	Value    float64
	Primary  bool
}

// ValueAt linearly interpolates the y value at x. Empty input yields 0 and queries
// outside the sampled range clamp to the nearest endpoint.
func ValueAt(points []series.DataPoint, x float64) float64 {
	n := len(points)
	if n == 0 {
		return 0
	}
	if x <= points[0].X {
		return points[0].Y
	}
	if x >= points[n-1].X {
		return points[n-1].Y
	}
	for i := 0; i < n-1; i++ {
		left, right := points[i], points[i+1]
		if left.X <= x && x <= right.X {
			span := right.X - left.X
			if span == 0 {
				return left.Y
			}
			t := (x - left.X) / span
			return left.Y + t*(right.Y-left.Y)
		}
	}
	return points[n-1].Y
}

// LabelAt returns the label of the primary series' sample nearest to x. Within a
// segment the left label wins while the fractional position is below 0.5; exactly
// 0.5 goes to the right sample.
func LabelAt(all []series.Series, x float64) string {
	primary, ok := series.Primary(all)
	if !ok || len(primary.Data) == 0 {
		return ""
	}
	points := primary.Data
	for i := 0; i < len(points)-1; i++ {
		left, right := points[i], points[i+1]
		if left.X <= x && x <= right.X {
			span := right.X - left.X
			if span == 0 {
				return left.Label
			}
			if (x-left.X)/span < 0.5 {
				return left.Label
			}
			return right.Label
		}
	}
	// No bracketing segment, including queries left of the first sample.
	return points[len(points)-1].Label
}

// ValuesAt reads every series at x, in collection order.
func ValuesAt(all []series.Series, x float64) []Reading {
	if len(all) == 0 {
		return nil
	}
	primary := series.PrimaryIndex(all)
	out := make([]Reading, len(all))
	for i, s := range all {
		out[i] = Reading{
			SeriesID: s.ID,
			Label:    s.Label,
			Color:    s.Color,
			Value:    ValueAt(s.Data, x),
			Primary:  i == primary,
		}
	}
	return out
}
