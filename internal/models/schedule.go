package models

import (
	"fmt"

	"github.com/julianstephens/habhub/internal/constants"
)

// Schedule is the closed set of scheduling policies a habit can follow.
// Exactly one of DailySchedule, WeeklySchedule, MonthlySchedule,
// FlexibleSchedule or OnceSchedule.
type Schedule interface {
	Frequency() constants.Frequency
	isSchedule()
}

// DailySchedule is due every day.
type DailySchedule struct{}

// WeeklySchedule is due on the listed weekday indexes (0 = Sunday).
type WeeklySchedule struct {
	WeekDays []int
}

// MonthlySchedule is due on the listed days of month. constants.MonthEnd
// stands for the last calendar day.
type MonthlySchedule struct {
	MonthDays []int
}

// FlexibleSchedule is due until TargetCount completions land in the
// current week or month bucket.
type FlexibleSchedule struct {
	Interval    constants.Interval
	TargetCount int
}

// OnceSchedule is due on a single date.
type OnceSchedule struct {
	TargetDate string
}

func (DailySchedule) Frequency() constants.Frequency    { return constants.FrequencyDaily }
func (WeeklySchedule) Frequency() constants.Frequency   { return constants.FrequencyWeeklySpecific }
func (MonthlySchedule) Frequency() constants.Frequency  { return constants.FrequencyMonthlySpecific }
func (FlexibleSchedule) Frequency() constants.Frequency { return constants.FrequencyFlexible }
func (OnceSchedule) Frequency() constants.Frequency     { return constants.FrequencyOnce }

func (DailySchedule) isSchedule()    {}
func (WeeklySchedule) isSchedule()   {}
func (MonthlySchedule) isSchedule()  {}
func (FlexibleSchedule) isSchedule() {}
func (OnceSchedule) isSchedule()     {}

// Normalized fills in the defaults older records may lack: a week bucket and
// a target of one.
func (s FlexibleSchedule) Normalized() FlexibleSchedule {
	if s.Interval == "" {
		s.Interval = constants.IntervalWeek
	}
	if s.TargetCount == 0 {
		s.TargetCount = constants.DefaultFlexibleTarget
	}
	return s
}

// WireSchedule is the JSON object stored next to a habit's frequency. It is
// the shape export files and the database schedule column use.
type WireSchedule struct {
	WeekDays            []int  `json:"weekDays,omitempty"`
	MonthDays           []int  `json:"monthDays,omitempty"`
	TargetIntervalCount int    `json:"targetIntervalCount,omitempty"`
	TargetDate          string `json:"targetDate,omitempty"`
	Interval            string `json:"interval,omitempty"`
	AccentColor         string `json:"accentColor,omitempty"`
}

// ScheduleFromWire builds the policy variant named by freq.
func ScheduleFromWire(freq constants.Frequency, w WireSchedule) (Schedule, error) {
	switch freq {
	case constants.FrequencyDaily, "":
		return DailySchedule{}, nil
	case constants.FrequencyWeeklySpecific:
		return WeeklySchedule{WeekDays: append([]int(nil), w.WeekDays...)}, nil
	case constants.FrequencyMonthlySpecific:
		return MonthlySchedule{MonthDays: append([]int(nil), w.MonthDays...)}, nil
	case constants.FrequencyFlexible:
		return FlexibleSchedule{
			Interval:    constants.Interval(w.Interval),
			TargetCount: w.TargetIntervalCount,
		}, nil
	case constants.FrequencyOnce:
		return OnceSchedule{TargetDate: w.TargetDate}, nil
	default:
		return nil, fmt.Errorf("unknown frequency %q", freq)
	}
}

// ScheduleToWire flattens a policy variant into its frequency name and
// schedule object. A nil schedule is daily.
func ScheduleToWire(s Schedule) (constants.Frequency, WireSchedule) {
	switch s := s.(type) {
	case WeeklySchedule:
		return s.Frequency(), WireSchedule{WeekDays: s.WeekDays}
	case MonthlySchedule:
		return s.Frequency(), WireSchedule{MonthDays: s.MonthDays}
	case FlexibleSchedule:
		return s.Frequency(), WireSchedule{
			TargetIntervalCount: s.TargetCount,
			Interval:            string(s.Interval),
		}
	case OnceSchedule:
		return s.Frequency(), WireSchedule{TargetDate: s.TargetDate}
	default:
		return constants.FrequencyDaily, WireSchedule{}
	}
}
