package service

import (
	"regexp"
	"sort"
	"strings"

	"invoice-converter/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FieldParser pulls InvoiceRecord fields out of extracted invoice text by
// label-anchored matching. It never fails: a field it cannot find is left
// empty.
type FieldParser struct {
	rules  []FieldRule
	stop   []*regexp.Regexp
	logger *zap.Logger
}

// NewFieldParser builds a parser over rules. Every rule label also ends the
// values of the other rules.
func NewFieldParser(rules []FieldRule, logger *zap.Logger) *FieldParser {
	stop := append([]*regexp.Regexp{}, stopLabels...)
	for _, rule := range rules {
		stop = append(stop, rule.Labels...)
	}
	return &FieldParser{
		rules:  rules,
		stop:   stop,
		logger: logger,
	}
}

// Parse extracts every field from the text of one invoice.
func (p *FieldParser) Parse(text string) models.InvoiceRecord {
	text = normalizeText(text)

	var record models.InvoiceRecord
	for _, rule := range p.rules {
		value := p.parseField(rule, text)
		if value == "" {
			p.logger.Debug("Field not found", zap.String("field", rule.Name))
			continue
		}
		rule.Set(&record, value)
	}
	return record
}

func (p *FieldParser) parseField(rule FieldRule, text string) string {
	for _, re := range rule.Labels {
		values := p.labelValues(rule, re, text)
		if len(values) == 0 {
			continue
		}
		var value string
		if rule.Combine == CombineLargest {
			value = largestAmount(values)
		} else {
			value = joinDistinct(values)
		}
		if value = finish(rule, value, text); value != "" {
			return value
		}
	}

	for _, match := range rule.Fallbacks {
		if value := finish(rule, match(text), text); value != "" {
			return value
		}
	}
	return ""
}

func finish(rule FieldRule, value, text string) string {
	if rule.Clean != nil {
		value = rule.Clean(value, text)
	}
	return strings.TrimSpace(value)
}

// excludeWindow is how far back FieldRule.Exclude looks before a label.
const excludeWindow = 16

// labelValues returns the values following every occurrence of re, in
// document order.
func (p *FieldParser) labelValues(rule FieldRule, re *regexp.Regexp, text string) []string {
	var values []string
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if rule.Exclude != nil && rule.Exclude.MatchString(text[max(0, loc[0]-excludeWindow):loc[0]]) {
			continue
		}
		rest := text[loc[1]:]

		var raw string
		switch {
		case len(rule.Until) > 0:
			raw = p.span(rule, rest)
		case rule.Combine == CombineLargest && rule.Value != nil:
			raw = p.amountBlock(rule.Value, rest)
		default:
			raw = p.lineValue(rest)
		}

		for _, v := range extractValues(rule, raw) {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
	}
	return values
}

// lineValue is the text after a label up to the line break or the next
// known label. A label alone on its line takes its value from the next line.
func (p *FieldParser) lineValue(rest string) string {
	line, next, _ := strings.Cut(rest, "\n")
	if strings.TrimSpace(line) == "" {
		line, _, _ = strings.Cut(next, "\n")
	}
	return strings.TrimSpace(line[:p.nextLabel(line)])
}

// amountBlock is like lineValue, except that a label alone on its line
// collects every following line that holds only an amount, as in table
// footers where the tax and grand totals are printed one per line.
func (p *FieldParser) amountBlock(amount *regexp.Regexp, rest string) string {
	lines := strings.Split(rest, "\n")
	if first := strings.TrimSpace(lines[0][:p.nextLabel(lines[0])]); first != "" {
		return first
	}
	var block []string
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			if len(block) == 0 {
				continue
			}
			break
		}
		if amount.FindString(line) != line {
			break
		}
		block = append(block, line)
	}
	return strings.Join(block, " ")
}

// span is the text after a label up to the first terminator, next known
// label or end of text.
func (p *FieldParser) span(rule FieldRule, rest string) string {
	end := p.nextLabel(rest)
	for _, re := range rule.Until {
		if loc := re.FindStringIndex(rest); loc != nil && loc[0] < end {
			end = loc[0]
		}
	}
	return rest[:end]
}

// nextLabel returns the offset of the first known label in s, or len(s).
func (p *FieldParser) nextLabel(s string) int {
	end := len(s)
	for _, re := range p.stop {
		if loc := re.FindStringIndex(s); loc != nil && loc[0] < end {
			end = loc[0]
		}
	}
	return end
}

func extractValues(rule FieldRule, raw string) []string {
	if rule.Value == nil {
		return []string{raw}
	}
	if rule.Combine == CombineLargest {
		return rule.Value.FindAllString(raw, -1)
	}
	m := rule.Value.FindStringSubmatch(raw)
	switch {
	case m == nil:
		return nil
	case len(m) > 1:
		return []string{m[1]}
	default:
		return []string{m[0]}
	}
}

// joinDistinct concatenates values in order, dropping repeats such as the
// header fields printed again on every page.
func joinDistinct(values []string) string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return strings.Join(out, joinSeparator)
}

var nonNumeric = regexp.MustCompile(`[^\d.]`)

// largestAmount returns the printed amount with the largest value. Ties keep
// the first occurrence; values that do not parse are ignored.
func largestAmount(values []string) string {
	type candidate struct {
		printed string
		amount  decimal.Decimal
	}
	var candidates []candidate
	for _, v := range values {
		amount, err := decimal.NewFromString(strings.Trim(nonNumeric.ReplaceAllString(v, ""), "."))
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{printed: strings.TrimSpace(v), amount: amount})
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].amount.GreaterThan(candidates[j].amount)
	})
	return candidates[0].printed
}

var crlf = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\u00a0", " ", "\u200b", "")

func normalizeText(text string) string {
	return crlf.Replace(sanitizeUTF8(text))
}
