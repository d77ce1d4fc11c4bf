package display

import (
	"fmt"
	"math"
)

// FormatDistance renders meters as "<n> م" below one kilometer and as
// "<x.y> كم" from one kilometer up.
func FormatDistance(meters float64) string {
	if math.IsNaN(meters) || meters < 0 {
		meters = 0
	}
	if m := math.Round(meters); m < 1000 {
		return fmt.Sprintf("%d م", int(m))
	}
	return fmt.Sprintf("%.1f كم", meters/1000)
}

// FormatDuration renders seconds as "<n> ث" below one minute and as whole
// minutes (floored) from one minute up.
func FormatDuration(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		return fmt.Sprintf("%d ث", int(math.Floor(seconds)))
	}
	return fmt.Sprintf("%d د", int(math.Floor(seconds/60)))
}
