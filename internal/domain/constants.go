package domain

// Default configuration values
const (
	DefaultStepMinutes             = 30
	DefaultMinBookingNoticeMinutes = 0
	DefaultReminderCadenceMinutes  = 30
	DefaultReminderLeaseMinutes    = 10
)

// Business validation constants
const (
	MinStepMinutes              = 5
	MaxStepMinutes              = 240
	MaxServiceDurationMinutes   = 720
	MaxClientNameLength         = 200
	MaxPhoneLength              = 32
	MaxCancellationReasonLength = 500
	MaxBlockedRangeReasonLength = 500
	MaxListRangeDays            = 92
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatusStrings returns ActiveStatuses as plain strings for SQL filters
func ActiveStatusStrings() []string {
	out := make([]string, 0, len(ActiveStatuses))
	for _, s := range ActiveStatuses {
		out = append(out, string(s))
	}
	return out
}
