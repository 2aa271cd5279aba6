package forthic

import (
	"fmt"
	"time"
)

// DateTime is the payload of a KindDatetime Value: a wall-clock reading
// with no timezone retained post-parse.
type DateTime struct {
	Year   int32
	Month  uint8
	Day    uint8
	Hour   uint8
	Minute uint8
	Second uint8
}

func (dt DateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d",
		dt.Year, dt.Month, dt.Day, dt.Hour, dt.Minute, dt.Second)
}

// parseDatetimeLiteral recognizes RFC 3339 dates/datetimes and their RFC
// 9557 extension with a bracketed IANA zone suffix, e.g.
// "2025-05-24T10:15:00[America/Los_Angeles]". The bracket suffix, if
// present, is used only to resolve the wall-clock reading in that zone; no
// timezone is retained in the resulting DateTime.
//
// Returns ok=false (never an error) for anything that isn't recognizably
// date/datetime shaped, so callers can cheaply fall through to other
// literal handlers.
func parseDatetimeLiteral(text string) (DateTime, bool) {
	body, zone, hasZone := splitZoneSuffix(text)
	if body == "" {
		return DateTime{}, false
	}

	layouts := []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02",
	}

	var loc *time.Location = time.UTC
	if hasZone {
		l, err := time.LoadLocation(zone)
		if err != nil {
			return DateTime{}, false
		}
		loc = l
	}

	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, body, loc)
		if err != nil {
			continue
		}
		return DateTime{
			Year:   int32(t.Year()),
			Month:  uint8(t.Month()),
			Day:    uint8(t.Day()),
			Hour:   uint8(t.Hour()),
			Minute: uint8(t.Minute()),
			Second: uint8(t.Second()),
		}, true
	}
	return DateTime{}, false
}

// splitZoneSuffix splits "2025-05-24T10:15:00[America/Los_Angeles]" into
// its body and the "America/Los_Angeles" zone name. If text has no
// bracket suffix, hasZone is false and body is text unchanged. If text is
// shorter than a date, or ends in ']' without a single matching '[',
// hasZone is false and body is "".
func splitZoneSuffix(text string) (body, zone string, hasZone bool) {
	if len(text) < len("2000-01-01") {
		return "", "", false
	}
	if text[len(text)-1] == ']' {
		open := -1
		for i := len(text) - 2; i >= 0; i-- {
			if text[i] == '[' {
				open = i
				break
			}
			if text[i] == ']' {
				return "", "", false
			}
		}
		if open < 0 {
			return "", "", false
		}
		return text[:open], text[open+1 : len(text)-1], true
	}
	return text, "", false
}
