// Package parse turns a statement's raw layout-preserved text into ordered
// transaction drafts. Lines that don't look like transactions (headers,
// footers, page breaks) are skipped silently.
package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"finsight/internal/store"
)

// Config carries the parser's heuristics as immutable values.
type Config struct {
	// PaymentPhrases mark credit-card bill payments. Matched
	// case-insensitively; a matching description keeps the parser's
	// natural sign instead of being negated.
	PaymentPhrases []string
}

// Draft is a parsed transaction before it gets an identity or a label.
type Draft struct {
	Date        time.Time
	Description string
	Amount      float64
}

// txnPattern recognizes "<date> <description> <amount>" with the amount
// anchored to the end of the line: MM/DD date with optional year, greedy
// description, optionally negative amount with thousands commas and exactly
// two decimals.
var txnPattern = regexp.MustCompile(`(\d{2}/\d{2}(?:/\d{2,4})?)\s+(.+?)\s+(-?\d{1,3}(?:,\d{3})*(?:\.\d{2}))$`)

// cleanDescPattern strips a duplicated leading date token or a trailing
// "9999 9999" card-number fragment from the raw description.
var cleanDescPattern = regexp.MustCompile(`^\d{2}/\d{2}(?:/\d{2,4})?\s*|\d{4}\s\d{4}$`)

// Statement parses raw statement text into drafts, in source line order.
// kind selects the sign-normalization rule: credit-card charges are stored
// negated unless the description carries a payment phrase; bank-account
// amounts pass through with their natural sign.
func Statement(rawText string, kind store.StatementKind, cfg Config) ([]Draft, error) {
	var drafts []Draft
	for _, line := range splitLines(rawText) {
		m := txnPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		date, err := parseDate(m[1], time.Now())
		if err != nil {
			return nil, fmt.Errorf("parse.Statement: line %q: %w", line, err)
		}

		amount, err := parseAmount(m[3])
		if err != nil {
			return nil, fmt.Errorf("parse.Statement: line %q: %w", line, err)
		}

		desc := strings.TrimSpace(cleanDescPattern.ReplaceAllString(m[2], ""))
		if strings.HasPrefix(strings.ToLower(desc), "page") {
			// page-footer artifact that happens to match the pattern
			continue
		}
		desc = titleCase(desc)

		if kind == store.KindCreditCard && !containsAnyFold(desc, cfg.PaymentPhrases) {
			// liabilities become spend-negative; card payments keep their sign
			amount = -amount
		}

		drafts = append(drafts, Draft{Date: date, Description: desc, Amount: amount})
	}
	return drafts, nil
}

// splitLines breaks text into lines with internal whitespace runs collapsed
// to single spaces, dropping blank lines.
func splitLines(text string) []string {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			continue
		}
		lines = append(lines, strings.Join(fields, " "))
	}
	return lines
}

// parseDate reads MM/DD, MM/DD/YY or MM/DD/YYYY. A missing year defaults to
// the current year.
func parseDate(token string, now time.Time) (time.Time, error) {
	switch strings.Count(token, "/") {
	case 1:
		d, err := time.Parse("01/02", token)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", token, err)
		}
		return time.Date(now.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
	case 2:
		layout := "01/02/2006"
		if len(token) <= 8 {
			layout = "01/02/06"
		}
		d, err := time.Parse(layout, token)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", token, err)
		}
		return d, nil
	default:
		return time.Time{}, fmt.Errorf("invalid date %q", token)
	}
}

// parseAmount strips thousands separators and parses a signed decimal.
func parseAmount(token string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(token, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", token, err)
	}
	return v, nil
}

// titleCase capitalizes the first rune of each space-separated token and
// lowercases the rest.
func titleCase(s string) string {
	words := strings.Split(strings.ToLower(s), " ")
	for i, w := range words {
		r := []rune(w)
		if len(r) == 0 {
			continue
		}
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// containsAnyFold reports whether s contains any of the phrases,
// case-insensitively.
func containsAnyFold(s string, phrases []string) bool {
	lower := strings.ToLower(s)
	for _, p := range phrases {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
