package constants

// Frequency is the wire name of a habit's scheduling policy
type Frequency string

// Interval is the bucket a flexible habit counts completions in
type Interval string

const (
	FrequencyDaily           Frequency = "daily"
	FrequencyWeeklySpecific  Frequency = "weekly_specific"
	FrequencyMonthlySpecific Frequency = "monthly_specific"
	FrequencyFlexible        Frequency = "flexible"
	FrequencyOnce            Frequency = "once"

	IntervalWeek  Interval = "week"
	IntervalMonth Interval = "month"

	// MonthEnd is the month-days token meaning "last calendar day of the month"
	MonthEnd = 32

	DefaultGoalCount      = 1
	DefaultFlexibleTarget = 1
	DefaultAccentColor    = "#111111"
)
