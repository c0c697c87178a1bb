package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVisibleAtInactiveAlwaysHidden(t *testing.T) {
	now := time.Now()
	end := now.Add(time.Hour)

	assert.False(t, VisibleAt(false, now.Add(-time.Hour), &end, now))
	assert.False(t, VisibleAt(false, time.Time{}, nil, now))
	assert.False(t, VisibleAt(false, now, &now, now))
}

func TestVisibleAtOpenEndedWindow(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, VisibleAt(true, start, nil, start))
	assert.True(t, VisibleAt(true, start, nil, start.Add(time.Minute)))
	assert.True(t, VisibleAt(true, start, nil, start.AddDate(10, 0, 0)))
	assert.False(t, VisibleAt(true, start, nil, start.Add(-time.Millisecond)))
}

func TestVisibleAtInclusiveBoundaries(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	assert.True(t, VisibleAt(true, start, &end, start), "visible at exact start")
	assert.True(t, VisibleAt(true, start, &end, end), "visible at exact end")
	assert.False(t, VisibleAt(true, start, &end, end.Add(time.Millisecond)), "hidden one ms after end")
	assert.False(t, VisibleAt(true, start, &end, start.Add(-time.Millisecond)), "hidden one ms before start")
}

func TestVisibleAtZeroStartAlwaysStarted(t *testing.T) {
	now := time.Now()
	end := now.Add(time.Hour)

	assert.True(t, VisibleAt(true, time.Time{}, &end, now))
	assert.True(t, VisibleAt(true, time.Time{}, nil, now))
}

func TestVisibleAtInvertedWindowNeverVisible(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)

	for _, now := range []time.Time{
		start.Add(-2 * time.Hour),
		end,
		start,
		start.Add(time.Hour),
	} {
		assert.False(t, VisibleAt(true, start, &end, now), "now=%s", now)
	}
}

func TestComputeDerived(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	banner := Banner{IsActive: true, StartDate: start}

	banner.ComputeDerived(start.Add(time.Hour))
	assert.True(t, banner.IsCurrentlyActive)

	banner.IsActive = false
	banner.ComputeDerived(start.Add(time.Hour))
	assert.False(t, banner.IsCurrentlyActive)
}
