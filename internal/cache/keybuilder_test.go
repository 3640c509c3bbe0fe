package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyBuilder_Currencies(t *testing.T) {
	kb := NewKeyBuilder()

	assert.Equal(t, "CURRENCIES", kb.Currencies())
	assert.Equal(t, kb.Currencies(), kb.Currencies())
}

func TestKeyBuilder_Latest(t *testing.T) {
	kb := NewKeyBuilder()

	tests := []struct {
		name     string
		now      time.Time
		expected string
	}{
		{
			name:     "utc time",
			now:      time.Date(2023, 4, 1, 13, 59, 59, 0, time.UTC),
			expected: "2023-04-01:13",
		},
		{
			name:     "start of hour",
			now:      time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
			expected: "2023-04-01:00",
		},
		{
			name:     "non utc zone is normalized",
			now:      time.Date(2023, 4, 1, 1, 30, 0, 0, time.FixedZone("CEST", 2*60*60)),
			expected: "2023-03-31:23",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, kb.Latest(tt.now))
		})
	}
}

func TestKeyBuilder_Latest_SameHourSameKey(t *testing.T) {
	kb := NewKeyBuilder()
	base := time.Date(2023, 4, 1, 13, 0, 0, 0, time.UTC)

	assert.Equal(t, kb.Latest(base), kb.Latest(base.Add(59*time.Minute)))
	assert.NotEqual(t, kb.Latest(base), kb.Latest(base.Add(time.Hour)))
}

func TestKeyBuilder_Historical(t *testing.T) {
	kb := NewKeyBuilder()

	assert.Equal(t, "2023-04-01", kb.Historical("2023-04-01"))
	// Malformed dates pass through untouched
	assert.Equal(t, "not-a-date", kb.Historical("not-a-date"))
}
