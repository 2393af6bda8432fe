// Package dateinput parses the free-form dates users type into chat.
package dateinput

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PabloGalante/farum-oracle/internal/domain"
)

// Format is the date layout shown to users when asking for a date.
const Format = "YYYY-MM-DD"

var datePattern = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})$`)

// Parse accepts year-month-day separated by '-' or '/'.
// Only the shape is checked; 1995-02-31 is accepted.
func Parse(text string) (domain.BirthDate, error) {
	in := strings.TrimSpace(text)
	m := datePattern.FindStringSubmatch(in)
	if m == nil {
		return domain.BirthDate{}, &domain.ValidationError{
			Input:  text,
			Reason: "expected " + Format,
		}
	}

	// The groups are all digits and at most 4 long, Atoi cannot fail.
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	return domain.BirthDate{Year: year, Month: month, Day: day}, nil
}
