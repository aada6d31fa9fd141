/*
calendar.go - Gazetted public-holiday table

PURPOSE:
  Public holidays in Singapore are gazetted by the Ministry of Manpower,
  not computable from a formula. The table is therefore literal data,
  versioned by year: shipping a new year means appending its date set.

LOOKUP SEMANTICS:
  Strict by default: a date whose year has no table entry is not a
  holiday. The Lenient flag restores the historic behavior of checking
  every known year's set, which older stored shifts were classified
  with. New callers should leave it off.

EXTENSION:
  Either append a year to the literal tables below, or ship a YAML file
  and load it with FromYAMLFile:

    2027:
      "2027-01-01": "New Year's Day"

SEE ALSO:
  - sgcal.go: Date type and SGT conversion
*/
package sgcal

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// GAZETTED DATA - One literal map per year
// =============================================================================

var holidays2025 = map[string]string{
	"2025-01-01": "New Year's Day",
	"2025-01-29": "Chinese New Year",
	"2025-01-30": "Chinese New Year",
	"2025-03-31": "Hari Raya Puasa",
	"2025-04-18": "Good Friday",
	"2025-05-01": "Labour Day",
	"2025-05-12": "Vesak Day",
	"2025-06-07": "Hari Raya Haji",
	"2025-08-09": "National Day",
	"2025-10-20": "Deepavali",
	"2025-12-25": "Christmas Day",
}

var holidays2026 = map[string]string{
	"2026-01-01": "New Year's Day",
	"2026-02-17": "Chinese New Year",
	"2026-02-18": "Chinese New Year",
	"2026-03-21": "Hari Raya Puasa",
	"2026-04-03": "Good Friday",
	"2026-05-01": "Labour Day",
	"2026-05-27": "Hari Raya Haji",
	"2026-05-31": "Vesak Day",
	"2026-08-09": "National Day",
	"2026-11-08": "Deepavali",
	"2026-12-25": "Christmas Day",
}

// =============================================================================
// CALENDAR
// =============================================================================

// Holiday is one gazetted public holiday.
type Holiday struct {
	Date Date
	Name string
}

// Calendar maps years to gazetted holiday date sets. It is built once at
// startup and must never be mutated afterwards; every method is read-only.
type Calendar struct {
	// Lenient enables the legacy any-year fallback for dates whose year
	// has no table entry. Set at construction only.
	Lenient bool

	years map[int]map[string]string
}

// Default returns a calendar holding the shipped 2025/2026 tables.
func Default() *Calendar {
	return &Calendar{
		years: map[int]map[string]string{
			2025: holidays2025,
			2026: holidays2026,
		},
	}
}

// FromYAMLFile returns the default calendar extended with years from a
// YAML file (year -> date -> name). File entries replace shipped years
// on collision.
func FromYAMLFile(path string) (*Calendar, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holiday calendar: %w", err)
	}

	var extra map[int]map[string]string
	if err := yaml.Unmarshal(raw, &extra); err != nil {
		return nil, fmt.Errorf("parse holiday calendar: %w", err)
	}

	cal := Default()
	for year, dates := range extra {
		for iso := range dates {
			if _, err := ParseDate(iso); err != nil {
				return nil, fmt.Errorf("holiday calendar year %d: %w", year, err)
			}
		}
		cal.years[year] = dates
	}
	return cal, nil
}

// IsPublicHoliday reports whether the date is a gazetted holiday.
func (c *Calendar) IsPublicHoliday(d Date) bool {
	if dates, ok := c.years[d.Year]; ok {
		_, found := dates[d.ISO()]
		return found
	}
	if !c.Lenient {
		return false
	}
	// Legacy fallback: unknown year, check every known set.
	iso := d.ISO()
	for _, dates := range c.years {
		if _, found := dates[iso]; found {
			return true
		}
	}
	return false
}

// HolidayName returns the gazetted name for a holiday date.
func (c *Calendar) HolidayName(d Date) (string, bool) {
	if dates, ok := c.years[d.Year]; ok {
		name, found := dates[d.ISO()]
		return name, found
	}
	return "", false
}

// Year returns the holidays of one year, sorted by date.
func (c *Calendar) Year(year int) []Holiday {
	dates, ok := c.years[year]
	if !ok {
		return nil
	}
	out := make([]Holiday, 0, len(dates))
	for iso, name := range dates {
		d, err := ParseDate(iso)
		if err != nil {
			continue
		}
		out = append(out, Holiday{Date: d, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Years returns the covered years in ascending order.
func (c *Calendar) Years() []int {
	out := make([]int, 0, len(c.years))
	for y := range c.years {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}
