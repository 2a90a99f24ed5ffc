package publish

import (
	"fmt"
	"strings"

	"github.com/christophergentle/hourstats-chart/internal/chart"
	"github.com/christophergentle/hourstats-chart/internal/series"
)

// Caption builds the post text for a chart: title and date label on the first line,
// headline and stats on the second.
func Caption(cfg chart.Config) string {
	var first []string
	if cfg.Title != "" {
		first = append(first, cfg.Title)
	}
	if cfg.DateLabel != "" {
		first = append(first, cfg.DateLabel)
	}

	var second []string
	if cfg.Title != "" || cfg.HeadlineValue != 0 {
		second = append(second, cfg.FormatValue(cfg.HeadlineValue))
	}
	for _, s := range cfg.Stats {
		second = append(second, s.Label+" "+s.Value)
	}

	lines := make([]string, 0, 2)
	if len(first) > 0 {
		lines = append(lines, strings.Join(first, " · "))
	}
	if len(second) > 0 {
		lines = append(lines, strings.Join(second, " · "))
	}
	return strings.Join(lines, "\n")
}

// AltText describes each series by its first and last value, primary first.
func AltText(cfg chart.Config, all []series.Series) string {
	var b strings.Builder
	if cfg.Title != "" {
		b.WriteString("Line chart: " + cfg.Title + ".")
	} else {
		b.WriteString("Line chart.")
	}

	order := series.DrawOrder(all)
	for i := len(order) - 1; i >= 0; i-- {
		s := all[order[i]]
		name := s.Label
		if name == "" {
			name = s.ID
		}
		if len(s.Data) == 0 {
			fmt.Fprintf(&b, " %s has no data.", name)
			continue
		}
		first, last := s.Data[0], s.Data[len(s.Data)-1]
		fmt.Fprintf(&b, " %s goes from %s to %s.", name, cfg.FormatValue(first.Y), cfg.FormatValue(last.Y))
	}
	return b.String()
}
