package fields

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateSeparators(t *testing.T) {
	want := time.Date(2027, time.December, 31, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{"31/12/2027", "31-12-2027", "31.12.2027"} {
		got, ok := ParseDate(raw, nil)
		require.True(t, ok, raw)
		assert.True(t, want.Equal(got), raw)
	}
}

func TestParseDateYearFirst(t *testing.T) {
	got, ok := ParseDate("2027-12-31", nil)
	require.True(t, ok)
	assert.Equal(t, 2027, got.Year())
	assert.Equal(t, time.December, got.Month())
	assert.Equal(t, 31, got.Day())

	got, ok = ParseDate("2027/12/31", nil)
	require.True(t, ok)
	assert.Equal(t, 31, got.Day())
}

func TestParseDateDayFirstWinsOverMonthFirst(t *testing.T) {
	// 05/03 is the 5th of March, not the 3rd of May.
	got, ok := ParseDate("05/03/2024", nil)
	require.True(t, ok)
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 5, got.Day())
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not a date", "31/13/2027", "2027"} {
		_, ok := ParseDate(raw, nil)
		assert.False(t, ok, raw)
	}
}
