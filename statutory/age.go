/*
age.go - Calendar age and birthday validation

Age is exact month/day comparison (one year subtracted when the
reference's month/day precedes the birth month/day), not days/365.
Birthday validation is the one place in the engine where user input is
rejected rather than silently zeroed; the result is a value, not a
raised error, so UI code can render the message directly.
*/
package statutory

import (
	"time"

	"github.com/lioncity/timegrid/sgcal"
)

// Age limits accepted for a worker record.
const (
	MinWorkerAge = 16
	MaxWorkerAge = 100
)

// ComputeAge returns the calendar age at a reference instant.
func ComputeAge(birthday, reference time.Time) int {
	years := reference.Year() - birthday.Year()
	if reference.Month() < birthday.Month() ||
		(reference.Month() == birthday.Month() && reference.Day() < birthday.Day()) {
		years--
	}
	return years
}

// ComputeAgeToday returns the calendar age as of today in Singapore.
func ComputeAgeToday(birthday time.Time) int {
	return ComputeAge(birthday, sgcal.Today().Time())
}

// =============================================================================
// BIRTHDAY VALIDATION
// =============================================================================

// BirthdayValidation carries a validation verdict to the caller. Field
// names match what the form layer renders.
type BirthdayValidation struct {
	IsValid bool   `json:"isValid"`
	Error   string `json:"error,omitempty"`
}

func invalidBirthday(msg string) BirthdayValidation {
	return BirthdayValidation{IsValid: false, Error: msg}
}

// ValidateBirthday checks a birthday against a reference date. The
// birthday must be present, not in the future, and imply an age within
// [MinWorkerAge, MaxWorkerAge].
func ValidateBirthday(birthday *time.Time, reference time.Time) BirthdayValidation {
	if birthday == nil || birthday.IsZero() {
		return invalidBirthday("birthday is required")
	}
	if birthday.After(reference) {
		return invalidBirthday("birthday cannot be in the future")
	}

	age := ComputeAge(*birthday, reference)
	if age < MinWorkerAge || age > MaxWorkerAge {
		return invalidBirthday("age must be between 16 and 100")
	}

	return BirthdayValidation{IsValid: true}
}
