package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQuoteOfDayRecord_ValidOn(t *testing.T) {
	day := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
	rec := QuoteOfDayRecord{
		Quote: Quote{ID: 7, Text: "x", Author: "y"},
		Date:  day.Format(DateLayout),
	}

	assert.True(t, rec.ValidOn(day))
	assert.True(t, rec.ValidOn(day.Add(14*time.Hour)), "same calendar day, later hour")
	assert.False(t, rec.ValidOn(day.AddDate(0, 0, 1)), "next day supersedes the record")
}

func TestCacheMetadata_Age(t *testing.T) {
	now := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	meta := CacheMetadata{TimestampMillis: now.Add(-90 * time.Minute).UnixMilli(), Count: 30}

	assert.Equal(t, 90*time.Minute, meta.Age(now))
}
