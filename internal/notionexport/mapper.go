package notionexport

import (
	"strconv"
	"time"

	"github.com/jomei/notionapi"

	"finsight/internal/store"
)

// rowToProperties maps one labeled transaction row onto the Notion
// transaction database schema: Description (title), Transaction ID, Date,
// Amount, Category, Place, Account, Currency.
func rowToProperties(row store.TransactionRow) notionapi.Properties {
	props := notionapi.Properties{
		"Description": notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{Content: row.Description},
				},
			},
		},
		"Transaction ID": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{Content: strconv.FormatUint(uint64(row.TransactionID), 10)},
				},
			},
		},
		"Date": notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: func() *notionapi.Date {
					d := notionapi.Date(time.Date(
						row.Date.Year(), row.Date.Month(), row.Date.Day(),
						0, 0, 0, 0, time.UTC,
					))
					return &d
				}(),
			},
		},
		"Amount": notionapi.NumberProperty{
			Number: row.Amount,
		},
		"Account Type": notionapi.SelectProperty{
			Select: notionapi.Option{Name: string(row.Kind)},
		},
	}

	if row.Category != "" {
		props["Category"] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: row.Category},
		}
	}

	if row.Place != nil && *row.Place != "" {
		props["Place"] = notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{Content: *row.Place},
				},
			},
		}
	}

	if row.Currency != nil && *row.Currency != "" {
		props["Currency"] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: *row.Currency},
		}
	}

	if row.AccountLast4 != nil && *row.AccountLast4 != "" {
		props["Account"] = notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{Content: "xxxx " + *row.AccountLast4},
				},
			},
		}
	}

	return props
}

// pageTransactionID reads the Transaction ID property back off an existing
// Notion page. Empty when the page was not created by this exporter.
func pageTransactionID(page notionapi.Page) string {
	prop, ok := page.Properties["Transaction ID"]
	if !ok {
		return ""
	}
	richText, ok := prop.(*notionapi.RichTextProperty)
	if !ok || len(richText.RichText) == 0 {
		return ""
	}
	return richText.RichText[0].PlainText
}
