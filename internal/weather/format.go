package weather

import (
	"fmt"
	"math"
)

// Round2 rounds v to two decimal places, halves away from zero. Halving is
// decided on the float64 product v*100, not on the decimal literal: 1.005
// rounds to 1.00 and 0.285 to 0.28, while 2.675 rounds to 2.68.
func Round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		// avoid printing "-0.00"
		return 0
	}
	return r
}

// FormatAverage renders one line of the average temperature report.
func FormatAverage(a DailyAverage) string {
	return fmt.Sprintf("%s average temperature: %.2f degree Celsius", DateKey(a.Date), Round2(a.Temperature))
}

// FormatMissing renders one line of the missing values report.
func FormatMissing(m DailyMissing) string {
	return fmt.Sprintf("%s missing %d values", DateKey(m.Date), m.Missing)
}

// FormatApproved renders the approved values summary line.
func FormatApproved(s ApprovedShare) string {
	return fmt.Sprintf("Approved values between %s and %s : %.2f %%", DateKey(s.From), DateKey(s.To), Round2(s.Percent))
}

func FormatAverages(items []DailyAverage) []string {
	lines := make([]string, 0, len(items))
	for _, a := range items {
		lines = append(lines, FormatAverage(a))
	}
	return lines
}

func FormatMissingValues(items []DailyMissing) []string {
	lines := make([]string, 0, len(items))
	for _, m := range items {
		lines = append(lines, FormatMissing(m))
	}
	return lines
}
