// Package donation extracts structured donation details from the plain-text
// body of a donation notification email.
package donation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Details is one parsed donation notification.
type Details struct {
	Date      string // normalized "YYYY/MM/DD HH:MM:SS"
	Name      string
	Amount    int
	Frequency string
}

var (
	dateRe      = regexp.MustCompile(`寄付日時[：:][ \t]*(.+)`)
	nameRe      = regexp.MustCompile(`寄付者名[：:][ \t]*(.+)`)
	amountRe    = regexp.MustCompile(`([0-9][0-9,]*)円`)
	frequencyRe = regexp.MustCompile(`寄付頻度[：:][ \t]*(.+)`)

	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
)

// ExtractDetails parses the four labelled donation fields out of an email
// body. All four must be present; a missing field or an unparseable amount
// returns an error, in which case the message should be skipped and left
// unread.
func ExtractDetails(body string) (Details, error) {
	rawDate := submatch(dateRe, body)
	if rawDate == "" {
		return Details{}, errors.New("date line missing")
	}

	rawName := submatch(nameRe, body)
	if rawName == "" {
		return Details{}, errors.New("supporter name line missing")
	}

	rawAmount := submatch(amountRe, body)
	if rawAmount == "" {
		return Details{}, errors.New("amount missing")
	}

	rawFrequency := submatch(frequencyRe, body)
	if rawFrequency == "" {
		return Details{}, errors.New("frequency line missing")
	}

	amount, err := strconv.Atoi(strings.ReplaceAll(rawAmount, ",", ""))
	if err != nil {
		return Details{}, fmt.Errorf("amount %q doesn't parse as an integer: %w", rawAmount, err)
	}

	return Details{
		Date:      NormalizeDate(strings.TrimSpace(rawDate)),
		Name:      trimName(rawName),
		Amount:    amount,
		Frequency: trimFrequency(rawFrequency),
	}, nil
}

func submatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}

	return m[1]
}

// trimName drops the metadata the donation platform appends after the
// supporter name, separated by a run of two or more whitespace characters.
func trimName(s string) string {
	if loc := multiSpaceRe.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}

	return strings.TrimSpace(s)
}

// trimFrequency keeps only the first word; the platform appends the payment
// method after a single space.
func trimFrequency(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, " "); i != -1 {
		s = s[:i]
	}

	return strings.TrimSpace(s)
}
