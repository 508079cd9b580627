// Package extract reads statement PDFs into the text and account metadata
// the parser works on. Extraction is layout-preserving: words of a visual
// row are joined with spaces, rows become lines.
package extract

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"finsight/internal/store"
)

// Config carries the extractor's heuristics as immutable values.
type Config struct {
	// CurrencySymbols are probed against page 1 in slice order; the first
	// symbol present wins. The order is a fixed priority, so a statement
	// showing several symbols resolves deterministically.
	CurrencySymbols []string
}

// Result holds what was pulled out of one document. Currency and
// AccountLast4 stay nil when page 1 carries neither; that is not an error.
type Result struct {
	PageCount    int
	RawText      string
	Currency     *string
	AccountLast4 *string
}

// accountPattern finds the masked account line on page 1; the capture is
// the visible last four digits at the end of the line.
var accountPattern = regexp.MustCompile(`Account [Nn]umber:\s+.*\b(\d{4})$`)

// File extracts a statement from a PDF on disk.
func File(path string, cfg Config) (*Result, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("extract.File: open %q: %w", path, err)
	}
	defer f.Close()

	res, err := fromReader(r, cfg)
	if err != nil {
		return nil, fmt.Errorf("extract.File: %q: %w", path, err)
	}
	return res, nil
}

// Bytes extracts a statement from an in-memory PDF, e.g. one fetched from
// object storage.
func Bytes(data []byte, cfg Config) (*Result, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("extract.Bytes: open reader: %w", err)
	}

	res, err := fromReader(r, cfg)
	if err != nil {
		return nil, fmt.Errorf("extract.Bytes: %w", err)
	}
	return res, nil
}

// NewStatement builds an unpersisted statement row from an extraction
// result plus the caller-declared kind and source name.
func NewStatement(res *Result, kind store.StatementKind, sourceName string, userID uint) *store.Statement {
	return &store.Statement{
		Kind:         kind,
		SourceName:   sourceName,
		PageCount:    res.PageCount,
		RawText:      res.RawText,
		Currency:     res.Currency,
		AccountLast4: res.AccountLast4,
		UserID:       userID,
	}
}

func fromReader(r *pdf.Reader, cfg Config) (res *Result, err error) {
	// the pdf library panics on some malformed documents
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf library crashed: %v", rec)
		}
	}()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, pageText(page))
	}

	res = &Result{
		PageCount: numPages,
		RawText:   strings.Join(pages, "\n"),
	}
	res.AccountLast4, res.Currency = ScanFirstPage(pages[0], cfg.CurrencySymbols)
	return res, nil
}

// pageText renders one page as layout-preserving text rows.
func pageText(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil {
		return ""
	}

	var lines []string
	for _, row := range rows {
		var parts []string
		for _, word := range row.Content {
			parts = append(parts, word.S)
		}
		line := strings.TrimSpace(strings.Join(parts, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// ScanFirstPage pulls the account last-4 digits and currency symbol out of
// page-1 text. The account scan collapses whitespace per line and stops at
// the first matching line; the currency scan probes the raw text for each
// configured symbol in priority order. Either may come back nil.
func ScanFirstPage(text string, currencySymbols []string) (last4 *string, currency *string) {
	for _, raw := range strings.Split(text, "\n") {
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			continue
		}
		line := strings.Join(fields, " ")
		if m := accountPattern.FindStringSubmatch(line); m != nil {
			digits := m[1]
			last4 = &digits
			break
		}
	}

	for _, symbol := range currencySymbols {
		if strings.Contains(text, symbol) {
			s := symbol
			currency = &s
			break
		}
	}

	return last4, currency
}
