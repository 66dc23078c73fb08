// Package sheets republishes the consolidated ledger to a Google Sheets tab.
package sheets

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"finledger/internal/logging"
	"finledger/internal/store"
)

// Publisher writes ledger rows to one tab of a spreadsheet, replacing its
// previous contents on every run.
type Publisher struct {
	service       *sheets.Service
	spreadsheetID string
	tabName       string
	log           logging.Logger
}

// NewPublisher authenticates with a service account credentials file and
// returns a publisher for the given spreadsheet tab.
func NewPublisher(ctx context.Context, credentialsFile, spreadsheetID, tabName string, log logging.Logger) (*Publisher, error) {
	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &Publisher{
		service:       service,
		spreadsheetID: spreadsheetID,
		tabName:       tabName,
		log:           log,
	}, nil
}

// Publish clears the target tab (creating it if missing) and uploads the
// ledger, header row first. Stored cent amounts are rendered back to units.
func (p *Publisher) Publish(ctx context.Context, ledger []store.LedgerRow) error {
	if err := p.ensureTab(ctx); err != nil {
		return err
	}

	// Clear existing data to avoid mixing old and new rows.
	_, err := p.service.Spreadsheets.Values.
		Clear(p.spreadsheetID, p.tabName, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clearing tab %q: %w", p.tabName, err)
	}

	_, err = p.service.Spreadsheets.Values.
		Update(p.spreadsheetID, p.tabName+"!A1", &sheets.ValueRange{Values: ledgerValues(ledger)}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("uploading ledger: %w", err)
	}

	p.log.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(ledger)},
		logging.Field{Key: "tab", Value: p.tabName},
	).Info("Ledger published to Google Sheets")
	return nil
}

// ledgerValues renders the ledger as sheet rows, header first. Stored cent
// amounts are rendered back to units with two decimal places.
func ledgerValues(ledger []store.LedgerRow) [][]interface{} {
	values := make([][]interface{}, 0, len(ledger)+1)
	values = append(values, []interface{}{"hash_id", "date", "amount", "description", "note", "category", "account"})
	for _, row := range ledger {
		amount := decimal.New(row.AmountCents, -2)
		values = append(values, []interface{}{
			row.HashID, row.Date, amount.StringFixed(2),
			row.Description, row.Note, row.Category, row.Account,
		})
	}
	return values
}

func (p *Publisher) ensureTab(ctx context.Context) error {
	spreadsheet, err := p.service.Spreadsheets.Get(p.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("fetching spreadsheet %q: %w", p.spreadsheetID, err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == p.tabName {
			return nil
		}
	}

	p.log.WithField("tab", p.tabName).Info("Tab not found, creating it")
	_, err = p.service.Spreadsheets.BatchUpdate(p.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: p.tabName},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("creating tab %q: %w", p.tabName, err)
	}
	return nil
}
