package statutory_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lioncity/timegrid/statutory"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	if got.Equal(dec(want)) {
		return
	}
	context := ""
	if len(msgAndArgs) > 0 {
		context = " (" + fmt.Sprintf(msgAndArgs[0].(string), msgAndArgs[1:]...) + ")"
	}
	t.Errorf("got %s, want %s%s", got, want, context)
}

// =============================================================================
// CPF RATE BAND TESTS
// =============================================================================

func TestCPFRates_BandBoundariesInclusive(t *testing.T) {
	cases := []struct {
		age      int
		employee string
		employer string
	}{
		{25, "20", "17"},
		{55, "20", "17"}, // upper bound inclusive
		{56, "17", "15.5"},
		{60, "17", "15.5"},
		{61, "11.5", "12"},
		{65, "11.5", "12"},
		{66, "7.5", "9"},
		{70, "7.5", "9"},
		{71, "5", "7.5"},
		{85, "5", "7.5"},
	}

	for _, tc := range cases {
		assertDecimal(t, tc.employee, statutory.CPFEmployeeRate(tc.age), "employee rate at age %d", tc.age)
		assertDecimal(t, tc.employer, statutory.CPFEmployerRate(tc.age), "employer rate at age %d", tc.age)
	}
}

func TestComputeCPFDeductions_RoundsEachSideIndependently(t *testing.T) {
	// 3333.33 * 20% = 666.666 -> 666.67; * 17% = 566.6661 -> 566.67
	d := statutory.ComputeCPFDeductions(dec("3333.33"), dec("20"), dec("17"))

	assertDecimal(t, "666.67", d.EmployeeDeduction)
	assertDecimal(t, "566.67", d.EmployerContribution)
}

func TestComputeCPFDeductions_FullRateFlow(t *testing.T) {
	// GIVEN: A 58-year-old on $4000/month
	// THEN: Employee 17% = 680, employer 15.5% = 620

	age := 58
	d := statutory.ComputeCPFDeductions(dec("4000"),
		statutory.CPFEmployeeRate(age), statutory.CPFEmployerRate(age))

	assertDecimal(t, "680", d.EmployeeDeduction)
	assertDecimal(t, "620", d.EmployerContribution)
}

// =============================================================================
// SINDA TESTS
// =============================================================================

func TestComputeSINDA_Bands(t *testing.T) {
	cases := []struct {
		wages string
		want  string
	}{
		{"500", "2"},
		{"1000", "2"}, // inclusive upper bound
		{"1001", "3"},
		{"1500", "3"},
		{"2500", "5"},
		{"4500", "7"},
		{"7500", "9"},
		{"10000", "12"},
		{"15000", "18"},
		{"15000.01", "30"},
		{"20000", "30"},
	}

	for _, tc := range cases {
		assertDecimal(t, tc.want, statutory.ComputeSINDA(dec(tc.wages)), "SINDA at wages %s", tc.wages)
	}
}

// =============================================================================
// SDL TESTS
// =============================================================================

func TestComputeSDL(t *testing.T) {
	cases := []struct {
		wages string
		want  string
	}{
		{"500", "2"},      // 1.25 raw, floor applies
		{"800", "2"},      // exactly at the floor: 800 * 0.0025 = 2.00
		{"3000", "7.5"},   // within the band
		{"4500", "11.25"}, // ceiling wage hits the cap exactly
		{"10000", "11.25"}, // wage capped before the rate applies
	}

	for _, tc := range cases {
		assertDecimal(t, tc.want, statutory.ComputeSDL(dec(tc.wages)), "SDL at wages %s", tc.wages)
	}
}

// =============================================================================
// AGE TESTS
// =============================================================================

func TestComputeAge_BirthdayNotYetReached(t *testing.T) {
	birthday := time.Date(2000, time.June, 15, 0, 0, 0, 0, time.UTC)
	reference := time.Date(2025, time.June, 14, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 24, statutory.ComputeAge(birthday, reference))
}

func TestComputeAge_OnBirthday(t *testing.T) {
	birthday := time.Date(2000, time.June, 15, 0, 0, 0, 0, time.UTC)
	reference := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 25, statutory.ComputeAge(birthday, reference))
}

func TestComputeAge_EarlierMonth(t *testing.T) {
	birthday := time.Date(1970, time.December, 1, 0, 0, 0, 0, time.UTC)
	reference := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 54, statutory.ComputeAge(birthday, reference))
}

// =============================================================================
// BIRTHDAY VALIDATION TESTS
// =============================================================================

func TestValidateBirthday(t *testing.T) {
	reference := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	bd := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}

	t.Run("valid adult", func(t *testing.T) {
		v := statutory.ValidateBirthday(bd(1990, time.April, 12), reference)
		require.True(t, v.IsValid)
		assert.Empty(t, v.Error)
	})

	t.Run("missing", func(t *testing.T) {
		v := statutory.ValidateBirthday(nil, reference)
		require.False(t, v.IsValid)
		assert.Contains(t, v.Error, "required")
	})

	t.Run("future", func(t *testing.T) {
		v := statutory.ValidateBirthday(bd(2030, time.January, 1), reference)
		require.False(t, v.IsValid)
		assert.Contains(t, v.Error, "future")
	})

	t.Run("too young", func(t *testing.T) {
		v := statutory.ValidateBirthday(bd(2012, time.June, 2), reference)
		require.False(t, v.IsValid)
		assert.Contains(t, v.Error, "between 16 and 100")
	})

	t.Run("exactly sixteen", func(t *testing.T) {
		v := statutory.ValidateBirthday(bd(2009, time.June, 1), reference)
		assert.True(t, v.IsValid)
	})

	t.Run("too old", func(t *testing.T) {
		v := statutory.ValidateBirthday(bd(1920, time.January, 1), reference)
		require.False(t, v.IsValid)
		assert.Contains(t, v.Error, "between 16 and 100")
	})
}

// =============================================================================
// PAYSLIP ACCUMULATION TESTS
// =============================================================================

func TestAccumulateTotals(t *testing.T) {
	history := []statutory.PayslipRecord{
		{TotalAdditions: dec("2500.50"), CPFEmployeeDeduction: dec("500.10"), CPFEmployerContribution: dec("425.09")},
		{TotalAdditions: dec("2600.25"), CPFEmployeeDeduction: dec("520.05"), CPFEmployerContribution: dec("442.04")},
		{}, // missing fields count as zero
	}

	totals := statutory.AccumulateTotals(history)

	assertDecimal(t, "5100.75", totals.TotalAdditions)
	assertDecimal(t, "1020.15", totals.CPFEmployeeDeduction)
	assertDecimal(t, "867.13", totals.CPFEmployerContribution)
}

func TestAccumulateTotals_EmptyHistory(t *testing.T) {
	totals := statutory.AccumulateTotals(nil)

	assert.True(t, totals.TotalAdditions.IsZero())
	assert.True(t, totals.CPFEmployeeDeduction.IsZero())
	assert.True(t, totals.CPFEmployerContribution.IsZero())
}
