package schedule

import (
	"fmt"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
)

// Countdown returns the seconds left until target, clamped at zero.
// elapsed is true once the target has been reached (or there is none); the
// caller must then rebuild the schedule instead of rendering the value.
func Countdown(target *model.NextTarget, nowSeconds int) (remaining int, elapsed bool) {
	if target == nil {
		return 0, true
	}
	remaining = target.Remaining(nowSeconds)
	if remaining <= 0 {
		return 0, true
	}
	return remaining, false
}

// FormatCountdown prints seconds as HH:MM:SS. Negative input prints as zero.
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds / 60) % 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
