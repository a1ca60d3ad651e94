package models

import (
	"time"

	"github.com/RoaringBitmap/roaring/v2"
)

const dateLayout = "2006-01-02"

// DateOf formats a timestamp as the ISO day bucket key (UTC).
func DateOf(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// ActivityCalendar is a compact set of days with recorded activity, stored
// as a bitmap of days-since-epoch ordinals.
type ActivityCalendar struct {
	days *roaring.Bitmap
}

func NewActivityCalendar() *ActivityCalendar {
	return &ActivityCalendar{days: roaring.New()}
}

func dayOrdinal(date string) (uint32, bool) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0, false
	}
	return uint32(t.Unix() / 86400), true
}

// Add marks an ISO date as active. Unparseable dates are ignored.
func (c *ActivityCalendar) Add(date string) {
	if ord, ok := dayOrdinal(date); ok {
		c.days.Add(ord)
	}
}

// AddHistory marks every day of a history that has nonzero activity.
func (c *ActivityCalendar) AddHistory(h History) {
	for date, rec := range h {
		if rec != nil && rec.Seconds > 0 {
			c.Add(date)
		}
	}
}

// ActiveDays returns the number of distinct days with activity.
func (c *ActivityCalendar) ActiveDays() int {
	return int(c.days.GetCardinality())
}

// Streak returns the number of consecutive active days ending at the given
// date (inclusive). 0 if the date itself has no activity.
func (c *ActivityCalendar) Streak(today string) int {
	ord, ok := dayOrdinal(today)
	if !ok {
		return 0
	}
	streak := 0
	for c.days.Contains(ord) {
		streak++
		if ord == 0 {
			break
		}
		ord--
	}
	return streak
}
