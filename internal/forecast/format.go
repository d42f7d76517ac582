package forecast

import (
	"fmt"
	"strings"

	"github.com/mtcodes/zipweather/internal/nws"
)

// Render produces the single-period text summary for a report. It is a pure
// function of its input.
func Render(r Report) string {
	return RenderPeriods(r, 1)
}

// RenderPeriods renders up to n forecast periods, first period first. n below
// one is treated as one; n beyond the available periods is clamped.
func RenderPeriods(r Report, n int) string {
	if n < 1 {
		n = 1
	}
	if n > len(r.Periods) {
		n = len(r.Periods)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Weather forecast for %s\n", r.Location.DisplayName())

	for _, p := range r.Periods[:n] {
		fmt.Fprintf(&b, "\n>> %s:\n", p.Name)
		fmt.Fprintf(&b, "   Temperature: %d°%s\n", p.Temperature, p.TemperatureUnit)
		fmt.Fprintf(&b, "   Chance of Precipitation: %s\n", formatPrecip(p))
		fmt.Fprintf(&b, "   Wind: %s %s\n", p.WindSpeed, p.WindDirection)
		fmt.Fprintf(&b, "   Forecast: %s\n", p.ShortForecast)
	}

	return b.String()
}

// The upstream reports a null probability when there is no measurable chance
// of precipitation; that renders as "0%".
func formatPrecip(p nws.Period) string {
	if p.PrecipChance == nil {
		return "0%"
	}
	return fmt.Sprintf("%d%%", *p.PrecipChance)
}
