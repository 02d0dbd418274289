package donation

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var dateTimeRe = regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2}) (\d{1,2}):(\d{1,2}):(\d{1,2})$`)

// parseLayout accepts both padded and unpadded month/day/time fields.
const parseLayout = "2006/1/2 15:4:5"

// NormalizeDate zero-pads the month, day and time fields of a
// "YYYY/M/D H:M:S" timestamp to two digits. Input that doesn't match the
// pattern is returned unchanged.
func NormalizeDate(s string) string {
	m := dateTimeRe.FindStringSubmatch(s)
	if m == nil {
		return s
	}

	n := make([]int, 6)
	for i, v := range m[1:] {
		n[i], _ = strconv.Atoi(v)
	}

	return fmt.Sprintf("%04d/%02d/%02d %02d:%02d:%02d", n[0], n[1], n[2], n[3], n[4], n[5])
}

// ParseDate parses a timestamp in the notification mail's date format. The
// second return is false when the input is not parseable.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(parseLayout, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}
