package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeOfDayValid(t *testing.T) {
	valid := []string{"00:00", "09:30", "17:00", "23:59"}
	for _, value := range valid {
		assert.True(t, timeOfDayValid(value), value)
	}

	invalid := []string{"9:00", "24:00", "12:60", "12-30", "1200", "", "12:3"}
	for _, value := range invalid {
		assert.False(t, timeOfDayValid(value), value)
	}
}

func TestWindowsOverlap(t *testing.T) {
	cases := []struct {
		name                         string
		candidateStart, candidateEnd string
		existingStart, existingEnd   string
		overlap                      bool
	}{
		{"identical windows", "09:00", "17:00", "09:00", "17:00", true},
		{"candidate starts inside existing", "16:00", "18:00", "09:00", "17:00", true},
		{"candidate ends inside existing", "08:00", "10:00", "09:00", "17:00", true},
		{"candidate contains existing", "08:00", "18:00", "09:00", "17:00", true},
		{"candidate inside existing", "10:00", "12:00", "09:00", "17:00", true},
		{"candidate before existing", "06:00", "08:00", "09:00", "17:00", false},
		{"candidate after existing", "18:00", "20:00", "09:00", "17:00", false},
		{"abuts at existing end", "17:00", "19:00", "09:00", "17:00", false},
		{"abuts at existing start", "07:00", "09:00", "09:00", "17:00", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlap, windowsOverlap(tc.candidateStart, tc.candidateEnd, tc.existingStart, tc.existingEnd))
			// 重疊是對稱關係，交換兩個窗結果不變
			assert.Equal(t, tc.overlap, windowsOverlap(tc.existingStart, tc.existingEnd, tc.candidateStart, tc.candidateEnd))
		})
	}
}

func TestDayBounds(t *testing.T) {
	day := time.Date(2024, 5, 17, 14, 23, 5, 0, time.UTC)
	start, end := dayBounds(day)

	assert.Equal(t, time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 5, 17, 23, 59, 59, 999000000, time.UTC), end)
}

func TestParseDay(t *testing.T) {
	day, err := parseDay("2024-05-17")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), day)

	// RFC3339 一律換算成 UTC 後截到日曆日
	day, err = parseDay("2024-05-17T23:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), day)

	_, err = parseDay("17/05/2024")
	assert.Error(t, err)
}

func TestMinutesBetween(t *testing.T) {
	assert.Equal(t, 480, minutesBetween("09:00", "17:00"))
	assert.Equal(t, 30, minutesBetween("23:00", "23:30"))
	assert.Equal(t, 0, minutesBetween("12:00", "12:00"))
}
