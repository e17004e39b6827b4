package watchrequest

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"visa_slot_watcher/internal/domain/schedule"
)

// AppointmentType is the intent behind a watch request.
type AppointmentType string

const (
	AppointmentNew        AppointmentType = "new"
	AppointmentReschedule AppointmentType = "reschedule"
)

func (t AppointmentType) Valid() bool {
	return t == AppointmentNew || t == AppointmentReschedule
}

var ErrInvalidTargetWindow = fmt.Errorf("invalid target window")

// WatchRequest is one person's desired appointment window.
// Corresponds to the 'watch_requests' table.
type WatchRequest struct {
	ID              int64           `db:"id" json:"id"`
	Email           string          `db:"email" json:"email"`
	SecretHash      string          `db:"secret_hash" json:"-"` // bcrypt hash, never the plain secret
	UniqueID        string          `db:"unique_id" json:"unique_id"`
	FirstName       string          `db:"first_name" json:"first_name"`
	LastName        string          `db:"last_name" json:"last_name"`
	AppointmentType AppointmentType `db:"appointment_type" json:"appointment_type"`
	TargetMonthYear string          `db:"target_month_year" json:"target_month_year"` // YYYY-MM
	TargetDayStart  int             `db:"target_day_start" json:"target_day_start"`
	TargetDayEnd    sql.NullInt32   `db:"target_day_end" json:"-"`
	LastChecked     time.Time       `db:"last_checked" json:"last_checked"`
}

// MarshalJSON renders TargetDayEnd as a number, or null when the window is a single day.
func (w WatchRequest) MarshalJSON() ([]byte, error) {
	type plain WatchRequest
	var dayEnd *int32
	if w.TargetDayEnd.Valid {
		dayEnd = &w.TargetDayEnd.Int32
	}
	return json.Marshal(struct {
		plain
		TargetDayEnd *int32 `json:"target_day_end"`
	}{plain: plain(w), TargetDayEnd: dayEnd})
}

// FullName joins first and last name.
func (w *WatchRequest) FullName() string {
	return strings.TrimSpace(w.FirstName + " " + w.LastName)
}

// ReferenceDate is the earliest date of the target window; only slots strictly before it qualify.
func (w *WatchRequest) ReferenceDate() (time.Time, error) {
	year, month, err := ParseMonthYear(w.TargetMonthYear)
	if err != nil {
		return time.Time{}, err
	}
	last := schedule.Date(year, month+1, 0).Day()
	if w.TargetDayStart < 1 || w.TargetDayStart > last {
		return time.Time{}, fmt.Errorf("%w: day %d out of range for %s", ErrInvalidTargetWindow, w.TargetDayStart, w.TargetMonthYear)
	}
	return schedule.Date(year, month, w.TargetDayStart), nil
}

// ParseMonthYear parses a "YYYY-MM" value.
func ParseMonthYear(value string) (int, time.Month, error) {
	parts := strings.Split(strings.TrimSpace(value), "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q is not YYYY-MM", ErrInvalidTargetWindow, value)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad year in %q: %v", ErrInvalidTargetWindow, value, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad month in %q: %v", ErrInvalidTargetWindow, value, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: month %d out of range", ErrInvalidTargetWindow, month)
	}
	return year, time.Month(month), nil
}
