// Package common provides shared CSV reading helpers for the bank parsers.
package common

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// ReadCSVFile reads a comma-separated CSV file into a slice of structs using
// gocsv. TCSVRow is the struct type whose csv tags map to the file's columns.
func ReadCSVFile[TCSVRow any](filePath string) ([]TCSVRow, error) {
	return ReadCSVFileDelim[TCSVRow](filePath, ',', 0)
}

// ReadCSVFileDelim reads a CSV file with a custom delimiter, optionally
// discarding leading lines before the header row (some banks prepend report
// metadata above the actual table).
func ReadCSVFileDelim[TCSVRow any](filePath string, delimiter rune, skipLines int) ([]TCSVRow, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	reader := bufio.NewReader(file)
	for i := 0; i < skipLines; i++ {
		if _, err := reader.ReadString('\n'); err != nil {
			return nil, fmt.Errorf("error skipping header lines: %w", err)
		}
	}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(csvReader, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	return rows, nil
}
