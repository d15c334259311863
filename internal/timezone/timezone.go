package timezone

import "time"

const DefaultTimezone = "UTC"

// ISOLayout matches the millisecond ISO-8601 form written into every document.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

const displayLayout = "2006-01-02 15:04"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}

func Now() time.Time {
	return time.Now().UTC()
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// ISO renders t in UTC, e.g. 2024-05-01T10:00:00.000Z.
func ISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

func ParseISO(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// Display renders a stored ISO timestamp for humans in tz.
func Display(iso, tz string) string {
	t, err := ParseISO(iso)
	if err != nil {
		return "Invalid Date"
	}
	return t.In(Location(tz)).Format(displayLayout)
}
