package extraction

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// merchantNames maps known merchant keywords to their display names.
// Matching walks the list in order so longer keywords come first.
var merchantNames = []struct {
	keyword string
	name    string
}{
	{"house of fashions", "House of Fashions"},
	{"burger king", "Burger King"},
	{"mcdonald's", "McDonald's"},
	{"mcdonalds", "McDonald's"},
	{"food city", "Cargills Food City"},
	{"lanka ioc", "Lanka IOC"},
	{"pizza hut", "Pizza Hut"},
	{"softlogic", "Softlogic"},
	{"cargills", "Cargills Food City"},
	{"ceypetco", "Ceypetco"},
	{"glomark", "Glomark"},
	{"mobitel", "SLT-Mobitel"},
	{"keells", "Keells"},
	{"arpico", "Arpico Supercentre"},
	{"dialog", "Dialog"},
	{"pickme", "PickMe"},
	{"laugfs", "LAUGFS Super"},
	{"singer", "Singer"},
	{"abans", "Abans"},
	{"daraz", "Daraz"},
	{"spar", "SPAR"},
	{"uber", "Uber"},
	{"odel", "ODEL"},
	{"kfc", "KFC"},
}

var (
	// Patterns for cleaning merchant names
	prefixPattern = regexp.MustCompile(`(?i)^(pos |visa |mastercard |amex |paypal \*)`)
	suffixPattern = regexp.MustCompile(`(?i)\s+(pvt|ltd|plc|inc|\(pvt\)|\(private\))\.?(\s+ltd\.?)?$`)
	longNumbers   = regexp.MustCompile(`\d{6,}`)
	specialChars  = regexp.MustCompile(`[*#]+`)
)

// NormalizeMerchant turns a raw receipt header into a display name.
func NormalizeMerchant(rawMerchant string) string {
	cleaned := cleanMerchant(strings.ToLower(strings.TrimSpace(rawMerchant)))
	if cleaned == "" {
		return ""
	}

	for _, m := range merchantNames {
		if containsWord(cleaned, m.keyword) {
			return m.name
		}
	}
	return formatMerchantName(rawMerchant)
}

func cleanMerchant(s string) string {
	cleaned := prefixPattern.ReplaceAllString(s, "")
	cleaned = suffixPattern.ReplaceAllString(cleaned, "")
	cleaned = longNumbers.ReplaceAllString(cleaned, "")
	cleaned = specialChars.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// formatMerchantName formats a raw merchant name for display.
func formatMerchantName(raw string) string {
	cleaned := cleanMerchant(raw)

	caser := cases.Title(language.English)
	words := strings.Fields(cleaned)
	for i, word := range words {
		if len(word) > 2 {
			words[i] = caser.String(strings.ToLower(word))
		} else {
			words[i] = strings.ToUpper(word)
		}
	}

	result := strings.Join(words, " ")
	if len(result) > 50 {
		result = result[:50]
	}
	return result
}

// containsWord reports whether keyword appears in s on word boundaries.
func containsWord(s, keyword string) bool {
	for i := 0; ; {
		idx := strings.Index(s[i:], keyword)
		if idx < 0 {
			return false
		}
		start := i + idx
		end := start + len(keyword)
		before := start == 0 || !isWordByte(s[start-1])
		after := end == len(s) || !isWordByte(s[end])
		if before && after {
			return true
		}
		i = start + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}
