// Package series holds the data model shared by every chart component.
//
// Coordinates are normalized: X and Y are percentages in [0,100] of the plotting
// area. Points inside a series must be sorted ascending by X. Nothing in the render
// path checks this; ingestion code calls Validate before handing data to a chart.
package series

// DataPoint is one sample of one series at a normalized position.
type DataPoint struct {
	X     float64 `json:"x" yaml:"x" dynamodbav:"x"`
	Y     float64 `json:"y" yaml:"y" dynamodbav:"y"`
	Label string  `json:"label,omitempty" yaml:"label,omitempty" dynamodbav:"label,omitempty"`
}

// Series is one named, colored curve.
type Series struct {
	ID          string      `json:"id" yaml:"id" dynamodbav:"seriesId"`
	Label       string      `json:"label" yaml:"label" dynamodbav:"label"`
	Color       string      `json:"color" yaml:"color" dynamodbav:"color"`
	LineOpacity float64     `json:"lineOpacity" yaml:"lineOpacity" dynamodbav:"lineOpacity"`
	LineWidth   float64     `json:"lineWidth" yaml:"lineWidth" dynamodbav:"lineWidth"`
	IsPrimary   bool        `json:"isPrimary,omitempty" yaml:"isPrimary,omitempty" dynamodbav:"isPrimary"`
	Data        []DataPoint `json:"data" yaml:"data" dynamodbav:"data"`
}

// Primary returns the series used for label lookup and visual emphasis: the first
// flagged series, otherwise the first series. It reports false for an empty collection.
func Primary(all []Series) (*Series, bool) {
	if len(all) == 0 {
		return nil, false
	}
	for i := range all {
		if all[i].IsPrimary {
			return &all[i], true
		}
	}
	return &all[0], true
}

// PrimaryIndex is Primary expressed as an index, -1 when the collection is empty.
func PrimaryIndex(all []Series) int {
	if len(all) == 0 {
		return -1
	}
	for i := range all {
		if all[i].IsPrimary {
			return i
		}
	}
	return 0
}

// DrawOrder returns collection indexes in paint order: every non-primary series in
// reverse collection order, then the primary series so it ends up on top.
func DrawOrder(all []Series) []int {
	primary := PrimaryIndex(all)
	if primary < 0 {
		return nil
	}
	order := make([]int, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if i != primary {
			order = append(order, i)
		}
	}
	return append(order, primary)
}
