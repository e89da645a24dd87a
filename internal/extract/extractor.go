// Package extract parses unstructured supplier reply text into structured
// quote fields. Parsing is a pure function over the input text: rules are an
// explicit ordered list and the first matching rule wins. A field that no
// rule matches confidently stays nil; it is never guessed.
package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ParsedQuote holds the best-effort extraction result. Nil fields mean
// "insufficient data", not an error.
type ParsedQuote struct {
	UnitPrice      *decimal.Decimal
	DeliveryDays   *int
	StockAvailable *int
	Conditions     []string
}

// Insufficient reports whether the reply lacked a parsable price or delivery
// time. Such quotes are non-competitive until filled in.
func (p *ParsedQuote) Insufficient() bool {
	return p.UnitPrice == nil || p.DeliveryDays == nil
}

// Price rules in precedence order. A currency or per-unit marker adjacent to
// the number beats a bare number near a price keyword, which beats a number
// inside an offer phrase.
var priceRules = []*regexp.Regexp{
	// "$0.16/unit", "Rs 12 per unit", "INR 8.50 per tablet"
	regexp.MustCompile(`(?i)(?:\$|€|£|Rs\.?|INR)\s*(\d+(?:\.\d{1,4})?)\s*(?:per|/)\s*(?:unit|tablet|piece|pc)`),
	// "0.16/unit" without a currency marker
	regexp.MustCompile(`(?i)(\d+(?:\.\d{1,4})?)\s*(?:per|/)\s*(?:unit|tablet|piece|pc)`),
	// "price: $0.18", "quote Rs 12", "rate = 0.20"
	regexp.MustCompile(`(?i)\b(?:price|quote|quoted|cost|rate)\b\s*(?:of\s+|is\s+)?[:=]?\s*(?:\$|€|£|Rs\.?|INR)?\s*(\d+(?:\.\d{1,4})?)`),
	// "we can offer at $0.17", "able to supply for Rs 11"
	regexp.MustCompile(`(?i)\b(?:offer|provide|supply)\b[^.\n]*?(?:\$|€|£|Rs\.?|INR)\s*(\d+(?:\.\d{1,4})?)`),
}

// Delivery rules in precedence order. The first integer followed by a day
// marker wins; weeks are converted to days.
var deliveryRules = []struct {
	re    *regexp.Regexp
	weeks bool
}{
	{re: regexp.MustCompile(`(?i)(\d+)\s*(?:business\s+|working\s+)?days?\b`)},
	{re: regexp.MustCompile(`(?i)(?:within|in)\s+(\d+)\s*(?:business\s+|working\s+)?days?\b`)},
	{re: regexp.MustCompile(`(?i)(?:delivery|deliver|ship|dispatch)[^.\n]*?(\d+)\s*(?:business\s+|working\s+)?days?\b`)},
	{re: regexp.MustCompile(`(?i)(\d+)\s*weeks?\b`), weeks: true},
}

var stockRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d[\d,]*)\s*units?\s+(?:available|in\s+stock)`),
	regexp.MustCompile(`(?i)(\d[\d,]*)\s*(?:units?\s+)?in\s+stock`),
	regexp.MustCompile(`(?i)stock\s*(?:available)?\s*[:=]\s*(\d[\d,]*)`),
}

var conditionKeywords = []string{
	"minimum order",
	"moq",
	"advance payment",
	"payment terms",
	"bulk discount",
	"commitment",
	"contract",
}

// Parse extracts structured quote fields from raw supplier reply text.
func Parse(text string) ParsedQuote {
	return ParsedQuote{
		UnitPrice:      extractPrice(text),
		DeliveryDays:   extractDeliveryDays(text),
		StockAvailable: extractStock(text),
		Conditions:     extractConditions(text),
	}
}

func extractPrice(text string) *decimal.Decimal {
	for _, rule := range priceRules {
		m := rule.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		price, err := decimal.NewFromString(m[1])
		if err != nil {
			continue
		}
		return &price
	}
	return nil
}

func extractDeliveryDays(text string) *int {
	for _, rule := range deliveryRules {
		m := rule.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		days, err := decimal.NewFromString(m[1])
		if err != nil {
			continue
		}
		d := int(days.IntPart())
		if rule.weeks {
			d *= 7
		}
		if d < 0 {
			continue
		}
		return &d
	}
	return nil
}

func extractStock(text string) *int {
	for _, rule := range stockRules {
		m := rule.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			continue
		}
		s := int(n.IntPart())
		return &s
	}
	return nil
}

// extractConditions collects sentences mentioning commercial terms. At most
// one sentence per keyword, in keyword order.
func extractConditions(text string) []string {
	sentences := strings.Split(text, ".")
	var conditions []string
	seen := make(map[string]struct{})

	for _, keyword := range conditionKeywords {
		for _, sentence := range sentences {
			trimmed := strings.TrimSpace(sentence)
			if trimmed == "" {
				continue
			}
			if !strings.Contains(strings.ToLower(trimmed), keyword) {
				continue
			}
			if _, dup := seen[trimmed]; !dup {
				seen[trimmed] = struct{}{}
				conditions = append(conditions, trimmed)
			}
			break
		}
	}
	return conditions
}
