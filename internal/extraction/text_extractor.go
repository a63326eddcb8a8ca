package extraction

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// totalLineRe matches the line carrying the amount payable.
var totalLineRe = regexp.MustCompile(
	`(?i)\b(grand\s+total|net\s+total|total\s+due|amount\s+due|total\s+amount|total|net\s+amount|balance\s+due)\b`,
)

// skipTotalRe matches total-like lines that are not the amount payable.
var skipTotalRe = regexp.MustCompile(`(?i)\b(sub\s*-?\s*total|total\s+items|total\s+qty|total\s+savings|cash|change|tendered)\b`)

// amountRe matches money amounts like "1,234.56", "Rs. 450.00" or "LKR 12,000".
var amountRe = regexp.MustCompile(`(?i)(?:rs\.?|lkr|\$)?\s*(\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?|\d+\.\d{2}|\d+)`)

// dateRe finds date candidates anywhere in a line.
var dateRe = regexp.MustCompile(
	`(?i)(\d{1,2}[/\-\.]\d{1,2}[/\-\.]\d{2,4}|\d{4}[/\-]\d{2}[/\-]\d{2}|` +
		`(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2}(?:,?\s+\d{2,4})|` +
		`\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?(?:,?\s+\d{2,4}))`,
)

// headerNoiseRe matches receipt header lines that never name the merchant.
var headerNoiseRe = regexp.MustCompile(`(?i)^(tel|phone|fax|vat|tin|reg|invoice|receipt|bill|date|time|cashier|www\.|http)`)

// dateFormats to try when parsing extracted dates.
var dateFormats = []string{
	"02/01/2006", // DD/MM/YYYY
	"2/1/2006",   // D/M/YYYY
	"02-01-2006", // DD-MM-YYYY
	"02.01.2006", // DD.MM.YYYY
	"2006-01-02", // YYYY-MM-DD
	"2006/01/02", // YYYY/MM/DD
	"Jan 02 2006",
	"Jan 2 2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 02, 2006",
	"Jan 2, 2006",
	"02/01/06", // DD/MM/YY
	"2/1/06",   // D/M/YY
}

// ParsedText is what the rule-based parser could read from receipt text.
type ParsedText struct {
	Merchant string
	Amount   decimal.NullDecimal
	Date     *time.Time
	// Fields counts how many of merchant, amount and date were found.
	Fields int
}

// ParseReceiptText pulls merchant, total and date out of receipt text.
func ParseReceiptText(lines []string) ParsedText {
	var parsed ParsedText

	parsed.Merchant = findMerchant(lines)
	if parsed.Merchant != "" {
		parsed.Fields++
	}

	if amount, ok := findTotal(lines); ok {
		parsed.Amount = decimal.NewNullDecimal(amount)
		parsed.Fields++
	}

	for _, line := range lines {
		match := dateRe.FindString(line)
		if match == "" {
			continue
		}
		if t := parseFlexibleDate(match); !t.IsZero() {
			parsed.Date = &t
			parsed.Fields++
			break
		}
	}
	return parsed
}

// findMerchant returns the first header line that reads like a name.
func findMerchant(lines []string) string {
	limit := len(lines)
	if limit > 5 {
		limit = 5
	}
	for _, line := range lines[:limit] {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) < 3 || headerNoiseRe.MatchString(trimmed) {
			continue
		}
		if letters(trimmed) < len(trimmed)/2 || len(lineAmounts(trimmed)) > 0 {
			continue
		}
		return NormalizeMerchant(trimmed)
	}
	return ""
}

// findTotal prefers the last total line, falling back to the largest amount.
func findTotal(lines []string) (decimal.Decimal, bool) {
	var (
		total    decimal.Decimal
		hasTotal bool
		largest  decimal.Decimal
		hasAny   bool
	)
	for _, line := range lines {
		amounts := lineAmounts(line)
		if len(amounts) == 0 {
			continue
		}
		for _, a := range amounts {
			if !hasAny || a.GreaterThan(largest) {
				largest = a
				hasAny = true
			}
		}
		if totalLineRe.MatchString(line) && !skipTotalRe.MatchString(line) {
			total = amounts[len(amounts)-1]
			hasTotal = true
		}
	}
	if hasTotal {
		return total, true
	}
	return largest, hasAny
}

// lineAmounts returns the positive amounts on a line, skipping date fragments.
func lineAmounts(line string) []decimal.Decimal {
	line = dateRe.ReplaceAllString(line, " ")
	var out []decimal.Decimal
	for _, m := range amountRe.FindAllStringSubmatch(line, -1) {
		amount, ok := parseAmount(m[1])
		if !ok || !amount.IsPositive() {
			continue
		}
		// Bare integers are usually quantities or codes unless the line has a currency.
		if !strings.ContainsAny(m[1], ".,") && !strings.ContainsAny(strings.ToLower(m[0]), "rsk$") {
			continue
		}
		out = append(out, amount)
	}
	return out
}

// parseFlexibleDate tries multiple date formats and returns the parsed time.
func parseFlexibleDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			// Handle 2-digit years
			if t.Year() < 100 {
				t = t.AddDate(2000, 0, 0)
			}
			return t
		}
	}
	return time.Time{}
}

// parseAmount parses strings like "1,234.56" or "Rs. 450.00".
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimPrefix(s, "lkr")
	s = strings.TrimPrefix(s, "rs.")
	s = strings.TrimPrefix(s, "rs")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

func letters(s string) int {
	n := 0
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			n++
		}
	}
	return n
}
