package store

import (
	"fmt"
	"time"
)

// Dimension is one of the fixed game worlds a claim can belong to.
type Dimension int

const (
	Overworld Dimension = 0
	Nether    Dimension = 1
	TheEnd    Dimension = 2
)

// ParseDimension maps user-facing dimension names to the enum. The zero
// value, Overworld, is the default everywhere a dimension is optional.
func ParseDimension(s string) (Dimension, error) {
	switch s {
	case "overworld", "ow":
		return Overworld, nil
	case "nether":
		return Nether, nil
	case "the_end", "end", "the end":
		return TheEnd, nil
	}
	return Overworld, fmt.Errorf("unknown dimension %q", s)
}

func (d Dimension) String() string {
	switch d {
	case Nether:
		return "nether"
	case TheEnd:
		return "the_end"
	default:
		return "overworld"
	}
}

// Claim is a user-owned spatial reservation keyed by coordinates and
// dimension. Claims never expire; they are deleted explicitly.
type Claim struct {
	UserID    int64
	X         int
	Y         int
	Dimension Dimension
	ClaimedAt time.Time
}

// RemindType selects how an overdue task is announced.
type RemindType int

const (
	RemindNone    RemindType = 0
	RemindChannel RemindType = 1
	RemindDM      RemindType = 2
)

// ParseRemindType maps the UI select labels to their stored values.
func ParseRemindType(label string) (RemindType, error) {
	switch label {
	case "Mention (this channel)":
		return RemindChannel, nil
	case "Direct Message":
		return RemindDM, nil
	case "None", "Not Set [None]", "":
		return RemindNone, nil
	}
	return RemindNone, fmt.Errorf("unknown remind type %q", label)
}

func (r RemindType) String() string {
	switch r {
	case RemindChannel:
		return "Mention (this channel)"
	case RemindDM:
		return "Direct Message"
	default:
		return "None"
	}
}

// TimeOfDay is a wall-clock time with no date attached, as stored in the
// todo table's time column.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay parses the stored "15:04:05" form.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// On anchors the time of day to a calendar date.
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, t.Second, 0, date.Location())
}

// Task is a single todo item. Date and Time are independently optional; a
// task with neither has no due moment and is never swept.
type Task struct {
	ID      int64
	UserID  int64
	Text    string
	Date    *time.Time
	Time    *TimeOfDay
	Remind  RemindType
	Created time.Time
}

// DueAt combines the task's date and time into the moment it falls due. A
// missing date counts as the reference day, a missing time as midnight. The
// second return is false when the task has no due moment at all.
func (t *Task) DueAt(ref time.Time) (time.Time, bool) {
	if t.Date == nil && t.Time == nil {
		return time.Time{}, false
	}
	date := ref
	if t.Date != nil {
		date = *t.Date
	}
	tod := TimeOfDay{}
	if t.Time != nil {
		tod = *t.Time
	}
	return tod.On(date), true
}
