// Package domain contains core business entities and rules.
package domain

import "time"

// DateLayout is the calendar-day format used to scope the quote of the
// day. Two timestamps on the same device-local day produce the same
// string.
const DateLayout = "2006-01-02"

// Quote is a single quotation as served by the remote source.
// Quotes are immutable once fetched and are identified by the
// source-assigned ID.
type Quote struct {
	// ID is the source-assigned identifier, unique within the source.
	ID int64 `json:"id"`

	// Text is the body of the quote.
	Text string `json:"text"`

	// Author is who said or wrote the quote.
	Author string `json:"author"`

	// Tags are categories or themes associated with the quote.
	Tags []string `json:"tags,omitempty"`
}

// FavoriteMarker records that a quote is a favorite of a user. It
// references the quote by ID only; the quote itself may have been
// removed from local storage, in which case the marker is orphaned and
// resolution treats it as absent.
type FavoriteMarker struct {
	QuoteID int64  `json:"quoteId"`
	UserID  string `json:"userId"`
}

// QuoteOfDayRecord is the cached quote of the day for one user. It is
// valid only while Date equals the current device-local calendar day;
// when the day rolls over the record is superseded, never merged.
type QuoteOfDayRecord struct {
	Quote Quote  `json:"quote"`
	Date  string `json:"date"`
}

// ValidOn reports whether the record covers the given instant.
func (r QuoteOfDayRecord) ValidOn(t time.Time) bool {
	return r.Date == t.Format(DateLayout)
}

// CacheMetadata records the last bulk preload: when it ran and how many
// quotes it fetched. Used to decide whether the local corpus is stale.
type CacheMetadata struct {
	TimestampMillis int64 `json:"timestamp"`
	Count           int   `json:"count"`
}

// Age returns how long ago the preload ran relative to now.
func (m CacheMetadata) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(m.TimestampMillis))
}
