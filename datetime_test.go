package forthic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDatetimeLiteralPlainDate(t *testing.T) {
	dt, ok := parseDatetimeLiteral("2025-05-24")
	assert.True(t, ok)
	assert.Equal(t, DateTime{Year: 2025, Month: 5, Day: 24}, dt)
}

func TestParseDatetimeLiteralWithTime(t *testing.T) {
	dt, ok := parseDatetimeLiteral("2025-05-24T10:15:00")
	assert.True(t, ok)
	assert.Equal(t, DateTime{Year: 2025, Month: 5, Day: 24, Hour: 10, Minute: 15}, dt)
}

func TestParseDatetimeLiteralWithZoneSuffix(t *testing.T) {
	dt, ok := parseDatetimeLiteral("2025-05-24T10:15:00[UTC]")
	assert.True(t, ok)
	assert.Equal(t, DateTime{Year: 2025, Month: 5, Day: 24, Hour: 10, Minute: 15}, dt)
}

func TestParseDatetimeLiteralRejectsGarbage(t *testing.T) {
	_, ok := parseDatetimeLiteral("not-a-date")
	assert.False(t, ok)
	_, ok = parseDatetimeLiteral("DUP")
	assert.False(t, ok)
}

func TestSplitZoneSuffixRejectsUnmatchedBracket(t *testing.T) {
	_, _, ok := splitZoneSuffix("2025-05-24T10:00:00]bad]")
	assert.False(t, ok)
}
