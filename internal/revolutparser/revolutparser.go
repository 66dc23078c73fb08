// Package revolutparser parses Revolut bank statement CSV exports into
// normalized transactions.
package revolutparser

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"finledger/internal/common"
	"finledger/internal/logging"
	"finledger/internal/models"
)

// CSVRow maps the columns of a Revolut statement export.
type CSVRow struct {
	Type          string `csv:"Type"`
	Product       string `csv:"Product"`
	StartedDate   string `csv:"Started Date"`
	CompletedDate string `csv:"Completed Date"`
	Description   string `csv:"Description"`
	Amount        string `csv:"Amount"`
	Fee           string `csv:"Fee"`
	Currency      string `csv:"Currency"`
	State         string `csv:"State"`
	Balance       string `csv:"Balance"`
}

// Parser parses Revolut statement files.
type Parser struct {
	log logging.Logger
}

// New creates a Revolut parser.
func New(log logging.Logger) *Parser {
	return &Parser{log: log}
}

// ParseFile reads a Revolut CSV export and returns normalized transactions.
// Only COMPLETED transactions are kept; pending and reverted entries have no
// settled amount.
func (p *Parser) ParseFile(filePath string) ([]models.Transaction, error) {
	p.log.WithField(logging.FieldFile, filePath).Info("Parsing Revolut CSV file")

	rows, err := common.ReadCSVFile[CSVRow](filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading Revolut CSV: %w", err)
	}

	var transactions []models.Transaction
	for _, row := range rows {
		if row.CompletedDate == "" || row.State != "COMPLETED" {
			continue
		}

		tx, err := convertRow(row)
		if err != nil {
			p.log.WithError(err).WithField("row", row.Description).Warn("Failed to convert Revolut row")
			continue
		}
		transactions = append(transactions, tx)
	}

	p.log.WithField(logging.FieldCount, len(transactions)).Info("Successfully parsed Revolut CSV file")
	return transactions, nil
}

func convertRow(row CSVRow) (models.Transaction, error) {
	date, err := common.NormalizeDate(row.CompletedDate)
	if err != nil {
		return models.Transaction{}, err
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(row.Amount, ",", ""))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid amount %q: %w", row.Amount, err)
	}

	tx := models.Transaction{
		Date:        date,
		Amount:      amount,
		Description: row.Description,
		Note:        row.Currency,
	}
	tx.HashID = models.NewHashID(tx.Date, tx.Amount, tx.Description)
	return tx, nil
}
