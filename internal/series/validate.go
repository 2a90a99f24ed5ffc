package series

import "fmt"

// ValidationError reports why a series was rejected at ingestion.
type ValidationError struct {
	SeriesID string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.SeriesID == "" {
		return "invalid series: " + e.Reason
	}
	return fmt.Sprintf("invalid series %q: %s", e.SeriesID, e.Reason)
}

// IsSorted reports whether points are in ascending X order. Equal X values are allowed.
func IsSorted(points []DataPoint) bool {
	for i := 1; i < len(points); i++ {
		if points[i].X < points[i-1].X {
			return false
		}
	}
	return true
}

// Validate checks the preconditions the render path relies on.
func Validate(s Series) error {
	if s.ID == "" {
		return &ValidationError{Reason: "missing id"}
	}
	if s.LineOpacity < 0 || s.LineOpacity > 1 {
		return &ValidationError{SeriesID: s.ID, Reason: fmt.Sprintf("line opacity %.2f outside [0,1]", s.LineOpacity)}
	}
	if s.LineWidth <= 0 {
		return &ValidationError{SeriesID: s.ID, Reason: fmt.Sprintf("line width %.2f must be positive", s.LineWidth)}
	}
	for i, p := range s.Data {
		if p.X < 0 || p.X > 100 || p.Y < 0 || p.Y > 100 {
			return &ValidationError{SeriesID: s.ID, Reason: fmt.Sprintf("point %d (%.2f, %.2f) outside [0,100]", i, p.X, p.Y)}
		}
	}
	if !IsSorted(s.Data) {
		return &ValidationError{SeriesID: s.ID, Reason: "points are not sorted by x"}
	}
	return nil
}

// ValidateAll validates every series and rejects duplicate ids.
func ValidateAll(all []Series) error {
	seen := make(map[string]bool, len(all))
	for _, s := range all {
		if err := Validate(s); err != nil {
			return err
		}
		if seen[s.ID] {
			return &ValidationError{SeriesID: s.ID, Reason: "duplicate id"}
		}
		seen[s.ID] = true
	}
	return nil
}
