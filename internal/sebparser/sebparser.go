// Package sebparser parses SEB (Lithuania) bank statement CSV exports into
// normalized transactions.
package sebparser

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"finledger/internal/common"
	"finledger/internal/logging"
	"finledger/internal/models"
)

// CSVRow maps the columns of a SEB statement export. The file is
// semicolon-separated with one report metadata line above the header.
type CSVRow struct {
	Date          string `csv:"DATA"`
	DocumentNo    string `csv:"DOK NR."`
	PartyName     string `csv:"MOKĖTOJO ARBA GAVĖJO PAVADINIMAS"`
	PartyCode     string `csv:"MOKĖTOJO ARBA GAVĖJO IDENTIFIKACINIS KODAS"`
	Purpose       string `csv:"MOKĖJIMO PASKIRTIS"`
	AccountAmount string `csv:"SUMA SĄSKAITOS VALIUTA"`
	Currency      string `csv:"VALIUTA"`
	DebitCredit   string `csv:"DEBETAS/KREDITAS"`
}

// Parser parses SEB statement files.
type Parser struct {
	log logging.Logger
}

// New creates a SEB parser.
func New(log logging.Logger) *Parser {
	return &Parser{log: log}
}

// ParseFile reads a SEB CSV export and returns normalized transactions.
func (p *Parser) ParseFile(filePath string) ([]models.Transaction, error) {
	p.log.WithField(logging.FieldFile, filePath).Info("Parsing SEB CSV file")

	rows, err := common.ReadCSVFileDelim[CSVRow](filePath, ';', 1)
	if err != nil {
		return nil, fmt.Errorf("error reading SEB CSV: %w", err)
	}

	var transactions []models.Transaction
	for _, row := range rows {
		if row.Date == "" {
			continue
		}

		tx, err := convertRow(row)
		if err != nil {
			p.log.WithError(err).WithField("row", row.PartyName).Warn("Failed to convert SEB row")
			continue
		}
		transactions = append(transactions, tx)
	}

	p.log.WithField(logging.FieldCount, len(transactions)).Info("Successfully parsed SEB CSV file")
	return transactions, nil
}

func convertRow(row CSVRow) (models.Transaction, error) {
	date, err := common.NormalizeDate(row.Date)
	if err != nil {
		return models.Transaction{}, err
	}

	// SEB uses decimal commas.
	amount, err := decimal.NewFromString(strings.ReplaceAll(row.AccountAmount, ",", "."))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid amount %q: %w", row.AccountAmount, err)
	}

	// The amount column is unsigned; the D/K column carries the direction.
	if row.DebitCredit == "D" {
		amount = amount.Neg()
	}

	note := row.Purpose
	if row.Currency != "" {
		note = note + "; " + row.Currency
	}

	tx := models.Transaction{
		Date:        date,
		Amount:      amount,
		Description: row.PartyName,
		Note:        note,
	}
	tx.HashID = models.NewHashID(tx.Date, tx.Amount, tx.Description)
	return tx, nil
}
