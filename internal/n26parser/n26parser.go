// Package n26parser parses N26 bank statement CSV exports into normalized
// transactions.
package n26parser

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"finledger/internal/common"
	"finledger/internal/logging"
	"finledger/internal/models"
)

// CSVRow maps the columns of an N26 statement export.
type CSVRow struct {
	BookingDate      string `csv:"Booking Date"`
	ValueDate        string `csv:"Value Date"`
	PartnerName      string `csv:"Partner Name"`
	PartnerIBAN      string `csv:"Partner Iban"`
	Type             string `csv:"Type"`
	PaymentReference string `csv:"Payment Reference"`
	AccountName      string `csv:"Account Name"`
	AmountEUR        string `csv:"Amount (EUR)"`
	OriginalAmount   string `csv:"Original Amount"`
	OriginalCurrency string `csv:"Original Currency"`
	ExchangeRate     string `csv:"Exchange Rate"`
}

// Parser parses N26 statement files.
type Parser struct {
	log logging.Logger
}

// New creates an N26 parser.
func New(log logging.Logger) *Parser {
	return &Parser{log: log}
}

// ParseFile reads an N26 CSV export and returns normalized transactions.
// Rows that cannot be converted are skipped with a warning rather than
// failing the file.
func (p *Parser) ParseFile(filePath string) ([]models.Transaction, error) {
	p.log.WithField(logging.FieldFile, filePath).Info("Parsing N26 CSV file")

	rows, err := common.ReadCSVFile[CSVRow](filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading N26 CSV: %w", err)
	}

	var transactions []models.Transaction
	for _, row := range rows {
		if row.ValueDate == "" {
			continue
		}

		tx, err := convertRow(row)
		if err != nil {
			p.log.WithError(err).WithField("row", row.PartnerName).Warn("Failed to convert N26 row")
			continue
		}
		transactions = append(transactions, tx)
	}

	p.log.WithField(logging.FieldCount, len(transactions)).Info("Successfully parsed N26 CSV file")
	return transactions, nil
}

func convertRow(row CSVRow) (models.Transaction, error) {
	date, err := common.NormalizeDate(row.ValueDate)
	if err != nil {
		return models.Transaction{}, err
	}

	// N26 formats thousands with commas.
	amount, err := decimal.NewFromString(strings.ReplaceAll(row.AmountEUR, ",", ""))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid amount %q: %w", row.AmountEUR, err)
	}

	tx := models.Transaction{
		Date:        date,
		Amount:      amount,
		Description: row.PartnerName,
		Note:        row.PaymentReference,
	}
	tx.HashID = models.NewHashID(tx.Date, tx.Amount, tx.Description)
	return tx, nil
}
