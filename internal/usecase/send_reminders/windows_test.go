package send_reminders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayBeforeWindow(t *testing.T) {
	now := time.Date(2025, time.March, 3, 10, 20, 0, 0, time.UTC)

	w := dayBeforeWindow(now, time.UTC)
	assert.Equal(t, time.Date(2025, time.March, 4, 10, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2025, time.March, 4, 11, 0, 0, 0, time.UTC), w.End)
}

func TestDayBeforeWindow_HalfHourZone(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)
	now := time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)

	w := dayBeforeWindow(now, ist)
	assert.True(t, w.Start.Equal(time.Date(2025, time.March, 4, 9, 30, 0, 0, time.UTC)))
	assert.True(t, w.End.Equal(time.Date(2025, time.March, 4, 10, 30, 0, 0, time.UTC)))
}

func TestHourBeforeWindow(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "on boundary",
			now:       time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC),
			wantStart: time.Date(2025, time.March, 3, 10, 30, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, time.March, 3, 11, 30, 0, 0, time.UTC),
		},
		{
			name:      "inside period",
			now:       time.Date(2025, time.March, 3, 10, 44, 59, 0, time.UTC),
			wantStart: time.Date(2025, time.March, 3, 11, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := hourBeforeWindow(tt.now, 30*time.Minute, time.UTC)
			assert.Equal(t, tt.wantStart, w.Start)
			assert.Equal(t, tt.wantEnd, w.End)
		})
	}
}

// Окна соседних запусков покрывают время без пропусков
func TestHourBeforeWindow_ConsecutiveRunsHaveNoGaps(t *testing.T) {
	cadence := 30 * time.Minute
	now := time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC)

	prev := hourBeforeWindow(now, cadence, time.UTC)
	for i := 1; i < 10; i++ {
		next := hourBeforeWindow(now.Add(time.Duration(i)*cadence), cadence, time.UTC)
		assert.False(t, next.Start.After(prev.End), "gap between %s and %s", prev.End, next.Start)
		prev = next
	}
}
