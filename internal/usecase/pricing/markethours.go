package pricing

import "time"

// MarketHours is the daily trading session in the market's time zone.
// Open and Close are offsets from midnight and both ends are inclusive.
type MarketHours struct {
	Location *time.Location
	Open     time.Duration
	Close    time.Duration
}

// NSEHours returns the 09:15 to 15:30 session in loc
func NSEHours(loc *time.Location) MarketHours {
	return MarketHours{
		Location: loc,
		Open:     9*time.Hour + 15*time.Minute,
		Close:    15*time.Hour + 30*time.Minute,
	}
}

// IsOpen reports whether t falls inside the session.
// Only the wall clock is checked; weekends and holidays are not excluded.
func (h MarketHours) IsOpen(t time.Time) bool {
	loc := h.Location
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	sinceMidnight := time.Duration(local.Hour())*time.Hour + time.Duration(local.Minute())*time.Minute
	return sinceMidnight >= h.Open && sinceMidnight <= h.Close
}
