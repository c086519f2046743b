package service

import (
	"fmt"
	"time"

	apperrors "medcamp/internal/errors"
)

const localDateTimeLayout = "2006-01-02T15:04:05"

// LocalDateTime joins a form date and time the way the submission form always has:
// "{date}T{time}:00", with no zone.
func LocalDateTime(date, clock string) string {
	return fmt.Sprintf("%sT%s:00", date, clock)
}

// ScheduleInstant reads date ("2006-01-02") and clock ("15:04") as wall-clock time in loc
// and returns the UTC instant. Every camp is stored this way; loc is the configured camp
// timezone, never the server's.
func ScheduleInstant(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(localDateTimeLayout, LocalDateTime(date, clock), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q %q", apperrors.ErrInvalidSchedule, date, clock)
	}
	return t.UTC(), nil
}
