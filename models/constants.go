package models

import "time"

const (
	// LikeTTL is how long a like stays eligible to form a match and to
	// appear in the recipient's pending list.
	LikeTTL = 24 * time.Hour

	// SkipTTL is how long a skip hides the target from discovery.
	SkipTTL = 3 * time.Hour

	// VerificationTokenTTL is the lifetime of an email verification token.
	VerificationTokenTTL = time.Hour

	// RejoinCooldown is how long a deleted account's email is blocked
	// from signing up again.
	RejoinCooldown = 7 * 24 * time.Hour

	// DiscoveryPoolSize caps the random sample returned to the swipe deck.
	DiscoveryPoolSize = 50

	// ReportThreshold is the default report count at which a user is
	// surfaced to admins.
	ReportThreshold = 3
)

// TimeLayout is the canonical timestamp encoding for all persisted records.
const TimeLayout = time.RFC3339Nano

// FormatTime encodes a timestamp for storage.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime decodes a stored timestamp. A malformed or empty value parses
// to the zero time, which every TTL check treats as expired.
func ParseTime(s string) time.Time {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
