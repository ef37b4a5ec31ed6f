package journal

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	assert.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.February, Day: 29}, d)

	_, err = ParseDate("2023-02-29")
	assert.Error(t, err, "2023 is not a leap year")
	_, err = ParseDate("15/01/2024")
	assert.Error(t, err)
	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestDate_Compare(t *testing.T) {
	a := MustParseDate("2024-01-15")
	b := MustParseDate("2024-01-16")
	c := MustParseDate("2024-02-01")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.Before(c))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, c.Compare(b))
}

func TestDate_AddDays(t *testing.T) {
	d := MustParseDate("2024-02-28")
	assert.Equal(t, MustParseDate("2024-02-29"), d.AddDays(1))
	assert.Equal(t, MustParseDate("2024-03-01"), d.AddDays(2))
	assert.Equal(t, MustParseDate("2024-02-27"), d.AddDays(-1))
}

func TestDate_DaysSince(t *testing.T) {
	sell := MustParseDate("2024-05-01")
	assert.Equal(t, 30, MustParseDate("2024-05-31").DaysSince(sell))
	assert.Equal(t, 31, MustParseDate("2024-06-01").DaysSince(sell))
	assert.Equal(t, 0, sell.DaysSince(sell))
	assert.Equal(t, -1, MustParseDate("2024-04-30").DaysSince(sell))

	assert.Equal(t, 31, MustParseDate("2024-04-01").DaysSince(MustParseDate("2024-03-01")))
	assert.Equal(t, 366, MustParseDate("2025-01-01").DaysSince(MustParseDate("2024-01-01")))
}

func TestDate_String(t *testing.T) {
	assert.Equal(t, "2024-01-05", MustParseDate("2024-01-05").String())
	assert.Equal(t, "0950-12-31", NewDate(950, time.December, 31).String())
}

func TestDate_IsZero(t *testing.T) {
	assert.True(t, Date{}.IsZero())
	assert.False(t, MustParseDate("2024-01-05").IsZero())
}
