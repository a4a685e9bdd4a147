package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocation_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultTimezone, Location("").String())
	assert.Equal(t, DefaultTimezone, Location("Mars/Olympus").String())
	assert.Equal(t, "UTC", Location("UTC").String())
}

func TestToday_UsesClinicDay(t *testing.T) {
	today := Today("UTC")
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), today.String())
	assert.Equal(t, time.UTC, today.Time().Location())
}
