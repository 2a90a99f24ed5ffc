package series

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(id string, primary bool) Series {
	return Series{ID: id, LineOpacity: 1, LineWidth: 1, IsPrimary: primary}
}

func TestPrimary(t *testing.T) {
	tests := []struct {
		name   string
		series []Series
		wantID string
		wantOK bool
	}{
		{name: "empty collection", series: nil, wantOK: false},
		{name: "no flag falls back to first", series: []Series{line("a", false), line("b", false)}, wantID: "a", wantOK: true},
		{name: "flagged series wins", series: []Series{line("a", false), line("b", true)}, wantID: "b", wantOK: true},
		{name: "first flagged wins", series: []Series{line("a", true), line("b", true)}, wantID: "a", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Primary(tt.series)
			if ok != tt.wantOK {
				t.Fatalf("Primary() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				if got != nil {
					t.Fatalf("Primary() = %v, want nil", got)
				}
				return
			}
			if got.ID != tt.wantID {
				t.Errorf("Primary() id = %s, want %s", got.ID, tt.wantID)
			}
		})
	}
}

func TestPrimaryReturnsReferenceIntoCollection(t *testing.T) {
	all := []Series{line("a", false), line("b", true)}
	got, ok := Primary(all)
	require.True(t, ok)
	assert.Same(t, &all[1], got)
}

func TestDrawOrder(t *testing.T) {
	tests := []struct {
		name   string
		series []Series
		want   []int
	}{
		{name: "empty", series: nil, want: nil},
		{name: "single", series: []Series{line("a", false)}, want: []int{0}},
		{name: "implicit primary drawn last", series: []Series{line("a", false), line("b", false), line("c", false)}, want: []int{2, 1, 0}},
		{name: "flagged primary drawn last", series: []Series{line("a", false), line("b", true), line("c", false), line("d", false)}, want: []int{3, 2, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DrawOrder(tt.series))
		})
	}
}

func TestValidate(t *testing.T) {
	valid := Series{ID: "cpu", LineOpacity: 0.5, LineWidth: 2, Data: []DataPoint{{X: 0, Y: 10}, {X: 50, Y: 20}, {X: 50, Y: 25}, {X: 100, Y: 5}}}
	require.NoError(t, Validate(valid))

	tests := []struct {
		name   string
		mutate func(s *Series)
	}{
		{name: "missing id", mutate: func(s *Series) { s.ID = "" }},
		{name: "opacity above one", mutate: func(s *Series) { s.LineOpacity = 1.5 }},
		{name: "zero width", mutate: func(s *Series) { s.LineWidth = 0 }},
		{name: "point out of range", mutate: func(s *Series) { s.Data = []DataPoint{{X: 0, Y: 120}} }},
		{name: "unsorted", mutate: func(s *Series) { s.Data = []DataPoint{{X: 60, Y: 1}, {X: 10, Y: 2}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			s.Data = append([]DataPoint(nil), valid.Data...)
			tt.mutate(&s)

			err := Validate(s)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
		})
	}
}

func TestValidateAllRejectsDuplicates(t *testing.T) {
	err := ValidateAll([]Series{line("a", false), line("a", false)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id")
}
