package generator

import (
	"time"
)

const (
	// nightlyWindowDays is the width of the rolling nightly window.
	nightlyWindowDays = 7
)

// InitialLoadStart is the first day of the historical backfill window.
var InitialLoadStart = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// InitialLoadPartitionDate maps a job index onto a day of the historical window
// [2020-01-01, today-7d].
func InitialLoadPartitionDate(jobIndex int, today time.Time) time.Time {
	end := truncateDay(today).AddDate(0, 0, -nightlyWindowDays)
	totalDays := int(end.Sub(InitialLoadStart).Hours()/24) + 1
	if totalDays <= 0 {
		return InitialLoadStart
	}
	offset := HashSeed(uint64(jobIndex)) % uint64(totalDays)
	return InitialLoadStart.AddDate(0, 0, int(offset))
}

// NightlyPartitionDate maps an array index onto one of the seven most recent days.
func NightlyPartitionDate(arrayIndex int, today time.Time) time.Time {
	start := truncateDay(today).AddDate(0, 0, -nightlyWindowDays)
	offset := arrayIndex % nightlyWindowDays
	if offset < 0 {
		offset += nightlyWindowDays
	}
	return start.AddDate(0, 0, offset+1)
}

// PartitionDate picks the partition day for a job according to the load mode.
func PartitionDate(initialLoad bool, jobIndex, arrayIndex int, today time.Time) time.Time {
	if initialLoad {
		return InitialLoadPartitionDate(jobIndex, today)
	}
	return NightlyPartitionDate(arrayIndex, today)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
