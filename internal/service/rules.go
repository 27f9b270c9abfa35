package service

import (
	"regexp"
	"strings"

	"invoice-converter/internal/models"
)

// CombineMode decides how several occurrences of the same label merge.
type CombineMode int

const (
	// CombineJoin concatenates distinct values in document order.
	CombineJoin CombineMode = iota
	// CombineLargest keeps the largest amount.
	CombineLargest
)

const joinSeparator = "; "

// Matcher finds an unlabeled value in the text, or "" when there is none.
type Matcher func(text string) string

// FieldRule locates one InvoiceRecord field. Labels are tried in order and
// the first label that yields a value wins; every occurrence of that label
// is combined. Fallbacks run only when no label matched.
type FieldRule struct {
	Name   string
	Labels []*regexp.Regexp
	// Value, when set, must match the text after the label; its first
	// capture group (or the whole match) is the value.
	Value *regexp.Regexp
	// Until turns the field into a span: the value runs across line breaks
	// up to the first terminator.
	Until []*regexp.Regexp
	// Exclude, when set, drops a label occurrence whose preceding text
	// matches it, for labels that are also the tail of another label.
	Exclude   *regexp.Regexp
	Fallbacks []Matcher
	Combine   CombineMode
	Clean     func(value, text string) string
	Set       func(r *models.InvoiceRecord, value string)
}

func label(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + pattern)
}

// stopLabels end a value without being fields themselves.
var stopLabels = []*regexp.Regexp{
	label(`Invoice\s+Date\s*:`),
	label(`Billing\s+Address\s*:`),
	label(`Sold\s+By\s*:`),
	label(`PAN\s+No\s*:`),
	label(`GST\s+Registration\s+No\s*:`),
	label(`State/UT\s+Code\s*:`),
	label(`Place\s+of\s+(?:supply|delivery)\s*:`),
	label(`Sub\s*-?\s*Total\s*:`),
}

var (
	amountPattern  = regexp.MustCompile(`(?:[₹$€£]|Rs\.?|INR|USD|EUR|GBP)?\s?\d[\d,]*(?:\.\d{1,2})?`)
	orderIDPattern = regexp.MustCompile(`\b(\d{3}-\d{7}-\d{7})\b`)
)

// DefaultRules is the rule table for Amazon invoices, covering the Amazon
// India tax invoice layout and the plain "Label: value" order summaries.
func DefaultRules() []FieldRule {
	return []FieldRule{
		{
			Name:      "order_number",
			Labels:    []*regexp.Regexp{label(`Order\s+(?:Number|No\.?|ID)\s*:`), label(`Order\s*#\s*:?`)},
			Value:     regexp.MustCompile(`^\s*#?\s*(\S+)`),
			Fallbacks: []Matcher{firstSubmatch(orderIDPattern)},
			Set:       func(r *models.InvoiceRecord, v string) { r.OrderNumber = v },
		},
		{
			Name:   "order_date",
			Labels: []*regexp.Regexp{label(`Order\s+Date\s*:`), label(`Order\s+Placed\s*:`)},
			Fallbacks: []Matcher{
				firstSubmatch(regexp.MustCompile(`\b(\d{2}\.\d{2}\.\d{4})\b`)),
			},
			Set: func(r *models.InvoiceRecord, v string) { r.OrderDate = v },
		},
		{
			Name:   "invoice_number",
			Labels: []*regexp.Regexp{label(`Invoice\s+(?:Number|No\.?)\s*:`)},
			Value:  regexp.MustCompile(`^\s*(\S+)`),
			Fallbacks: []Matcher{
				firstSubmatch(regexp.MustCompile(`\b(IN-\d+)\b`)),
				firstSubmatch(regexp.MustCompile(`\b([A-Z]{3,4}\d?-\d{3,})\b`)),
			},
			Set: func(r *models.InvoiceRecord, v string) { r.InvoiceNumber = v },
		},
		{
			Name:   "customer_address",
			Labels: []*regexp.Regexp{label(`Shipping\s+Address\s*:?`), label(`Ship\s+To\s*:`), label(`Delivery\s+Address\s*:`)},
			Until: []*regexp.Regexp{
				label(`State/UT\s+Code`),
				label(`Place\s+of\s+(?:supply|delivery)`),
				regexp.MustCompile(`\n[ \t]*\n`),
			},
			Clean: func(v, _ string) string { return flatten(v) },
			Set:   func(r *models.InvoiceRecord, v string) { r.CustomerAddress = v },
		},
		{
			Name:   "invoice_details",
			Labels: []*regexp.Regexp{label(`Invoice\s+Details\s*:`)},
			Value:  regexp.MustCompile(`^\s*(\S+)`),
			Fallbacks: []Matcher{
				firstSubmatch(regexp.MustCompile(`\b([A-Z]{2}-[A-Z0-9]+-\d+(?:-\d+)*)\b`)),
			},
			Set: func(r *models.InvoiceRecord, v string) { r.InvoiceDetails = v },
		},
		{
			Name:      "description",
			Labels:    []*regexp.Regexp{label(`(?:Item\s+)?Description\s*:`)},
			Fallbacks: []Matcher{tableItems},
			Clean:     func(v, _ string) string { return cleanDescription(v) },
			Set:       func(r *models.InvoiceRecord, v string) { r.Description = v },
		},
		{
			Name: "total_amount",
			Labels: []*regexp.Regexp{
				label(`Invoice\s+Value\s*:?`),
				label(`Grand\s+Total\s*:`),
				label(`(?:^|[^\pL])(?:Order\s+)?Total(?:\s+Amount)?\s*:`),
			},
			Exclude:   label(`Sub\s*-?\s*$`),
			Value:     amountPattern,
			Combine:   CombineLargest,
			Fallbacks: []Matcher{largestRupeeAmount},
			Clean:     withCurrency,
			Set:       func(r *models.InvoiceRecord, v string) { r.TotalAmount = v },
		},
	}
}

func firstSubmatch(re *regexp.Regexp) Matcher {
	return func(text string) string {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return ""
		}
		if len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
		return strings.TrimSpace(m[0])
	}
}

var whitespace = regexp.MustCompile(`\s+`)

func flatten(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

var descriptionNoise = []*regexp.Regexp{
	regexp.MustCompile(`(?i)HSN[\s:]*\d+`),
	regexp.MustCompile(`₹\s*[\d,]+(?:\.\d+)?`),
	regexp.MustCompile(`(?i)\d+(?:\.\d+)?%\s*(?:CGST|SGST|IGST|UTGST)`),
	regexp.MustCompile(`(?i)Sl\.?\s*No\.?`),
	regexp.MustCompile(`(?i)Unit\s*Price`),
	regexp.MustCompile(`(?i)Qty\s*Net`),
	regexp.MustCompile(`(?i)Tax\s*(?:Rate|Type|Amount)`),
	regexp.MustCompile(`(?i)Total\s*Amount`),
}

var (
	leadingPunct  = regexp.MustCompile(`^[\s\-|,.:;]+`)
	trailingPunct = regexp.MustCompile(`[\s\-|,.:;]+$`)
)

func cleanDescription(s string) string {
	s = flatten(s)
	for _, re := range descriptionNoise {
		s = re.ReplaceAllString(s, "")
	}
	s = flatten(s)
	s = leadingPunct.ReplaceAllString(s, "")
	return trailingPunct.ReplaceAllString(s, "")
}

var (
	tableHeader = regexp.MustCompile(`(?i)\bDescription\b`)
	tableEnd    = regexp.MustCompile(`(?i)^\s*(?:TOTAL\s*:|Amount\s+in\s+Words)`)
	rowIndex    = regexp.MustCompile(`^\s*(\d{1,3})(?:\s+(.*))?$`)
	cellBreak   = regexp.MustCompile(`(?i)\||HSN\s*:|₹|^\s*\d+(?:\.\d+)?%`)
	hasLetter   = regexp.MustCompile(`\pL`)
)

// tableItems reads the item description cells of the invoice table: a row
// index followed by text that runs until the SKU, HSN or price cell.
func tableItems(text string) string {
	loc := tableHeader.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	lines := strings.Split(text[loc[1]:], "\n")

	var items []string
	var current []string
	inItem := false
	flush := func() {
		if item := cleanDescription(strings.Join(current, " ")); len(item) >= 3 && hasLetter.MatchString(item) {
			items = append(items, item)
		}
		current = nil
		inItem = false
	}

	for _, line := range lines {
		if tableEnd.MatchString(line) {
			break
		}
		if !inItem {
			m := rowIndex.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			inItem = true
			line = m[2]
			if line == "" {
				continue
			}
		}
		if br := cellBreak.FindStringIndex(line); br != nil {
			current = append(current, line[:br[0]])
			flush()
			continue
		}
		current = append(current, line)
	}
	if inItem {
		flush()
	}

	return joinDistinct(items)
}

var (
	rupeeAmount = regexp.MustCompile(`₹\s*([\d,]{4,}\.00)`)
	taxLine     = regexp.MustCompile(`(?i)CGST|SGST|IGST|Tax`)
)

// largestRupeeAmount picks the largest whole-rupee amount printed outside
// the tax lines.
func largestRupeeAmount(text string) string {
	var candidates []string
	for _, line := range strings.Split(text, "\n") {
		if taxLine.MatchString(line) {
			continue
		}
		for _, m := range rupeeAmount.FindAllStringSubmatch(line, -1) {
			candidates = append(candidates, m[1])
		}
	}
	return largestAmount(candidates)
}

var currencyMark = regexp.MustCompile(`[₹$€£]|Rs\.?|INR|USD|EUR|GBP`)

// withCurrency prefixes the rupee sign to bare amounts on rupee invoices.
func withCurrency(v, text string) string {
	v = strings.TrimSpace(v)
	if v == "" || currencyMark.MatchString(v) {
		return v
	}
	if strings.Contains(text, "₹") {
		return "₹" + v
	}
	return v
}
