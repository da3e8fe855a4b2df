package builder

import (
	"regexp"
	"strconv"
	"strings"
)

// Period is the billing period inferred from a price_info string.
type Period int

const (
	PeriodNone Period = iota
	PeriodMonthly
	PeriodNightly
	PeriodTwoNights
)

type periodRule struct {
	keyword string
	period  Period
}

// periodRules is the ordered keyword table for billing-period inference.
// First match wins, so the priority order stays auditable in one place.
var periodRules = []periodRule{
	{"per month", PeriodMonthly},
	{"per bulan", PeriodMonthly},
	{"per night", PeriodNightly},
	{"per malam", PeriodNightly},
	{"2 nights", PeriodTwoNights},
	{"2 malam", PeriodTwoNights},
}

// InferPeriod scans price_info for a billing-period keyword. PeriodNone means
// no keyword matched; the formatter falls back to the nightly suffix.
func InferPeriod(priceInfo string) Period {
	lower := strings.ToLower(priceInfo)
	for _, rule := range periodRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.period
		}
	}
	return PeriodNone
}

var priceAmount = regexp.MustCompile(`\$([\d,.]+)`)

// FormatPrice renders the price line for one record. A `$<amount>` pattern is
// converted to Rupiah with the fixed configured rate and suffixed with the
// inferred billing period; without the pattern the raw price_info is shown
// verbatim, and an empty price_info yields an empty line.
func FormatPrice(priceInfo string, usdToIDR float64, lang string) string {
	trimmed := strings.TrimSpace(priceInfo)
	if trimmed == "" {
		return ""
	}

	m := priceAmount.FindStringSubmatch(trimmed)
	if m == nil {
		if lang == "id" {
			return "Informasi harga: " + trimmed
		}
		return trimmed
	}

	usd, err := strconv.ParseFloat(strings.Trim(strings.ReplaceAll(m[1], ",", ""), "."), 64)
	if err != nil {
		if lang == "id" {
			return "Informasi harga: " + trimmed
		}
		return trimmed
	}

	idr := "Rp" + formatRupiah(usd*usdToIDR)
	period := InferPeriod(trimmed)
	if period == PeriodNone {
		period = PeriodNightly
	}

	if lang == "id" {
		suffix := map[Period]string{
			PeriodMonthly:   "/bulan",
			PeriodNightly:   "/malam",
			PeriodTwoNights: "/2 malam",
		}[period]
		return "Harga mulai dari " + idr + suffix
	}

	suffix := map[Period]string{
		PeriodMonthly:   " per month",
		PeriodNightly:   " per night",
		PeriodTwoNights: " for 2 nights",
	}[period]
	return "Price starts from " + idr + suffix
}

// formatRupiah renders a non-negative amount with Indonesian dot grouping,
// e.g. 1681100 -> "1.681.100".
func formatRupiah(v float64) string {
	n := int64(v + 0.5)
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
