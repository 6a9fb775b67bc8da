package fitness

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

type DailyAggregate struct {
	Steps    int     `json:"steps"`
	Distance float64 `json:"distance"`
	Calories float64 `json:"calories"`
	// activity type -> number of records
	Activities map[string]int `json:"activities"`
}

func NewDailyAggregate() DailyAggregate {
	return DailyAggregate{
		Activities: map[string]int{},
	}
}

// Aggregate sums the records as they are, without any validation.
func Aggregate(records []Record) DailyAggregate {
	agg := NewDailyAggregate()
	for _, r := range records {
		agg.Steps += r.Steps
		agg.Distance += r.Distance
		agg.Calories += r.Calories
		agg.Activities[r.ActivityType]++
	}
	return agg
}

// DayWindow returns the first and the last millisecond of the date's day in loc.
func DayWindow(date time.Time, loc *time.Location) (from, to time.Time) {
	y, m, d := date.In(loc).Date()
	from = time.Date(y, m, d, 0, 0, 0, 0, loc)
	to = time.Date(y, m, d+1, 0, 0, 0, 0, loc).Add(-time.Millisecond)
	return from, to
}

type Timeframe string

const (
	TimeframeDaily   Timeframe = "daily"
	TimeframeWeekly  Timeframe = "weekly"
	TimeframeMonthly Timeframe = "monthly"
)

var timeframeDays = map[Timeframe]int{
	TimeframeDaily:   1,
	TimeframeWeekly:  7,
	TimeframeMonthly: 30,
}

func (tf Timeframe) Days() int {
	return timeframeDays[tf]
}

// ParseTimeframe defaults to daily.
func ParseTimeframe(s string) (Timeframe, error) {
	if s == "" {
		return TimeframeDaily, nil
	}
	tf := Timeframe(s)
	if _, ok := timeframeDays[tf]; !ok {
		return "", fmt.Errorf("invalid timeframe: %q", s)
	}
	return tf, nil
}

// RangeWindow covers the timeframe's number of days, ending with the date's day.
func RangeWindow(tf Timeframe, date time.Time, loc *time.Location) (from, to time.Time) {
	_, to = DayWindow(date, loc)
	y, m, d := date.In(loc).Date()
	from, _ = DayWindow(time.Date(y, m, d-(tf.Days()-1), 12, 0, 0, 0, loc), loc)
	return from, to
}

// ParseDate parses a YYYY-MM-DD date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return date, nil
}
