// Package scanner discovers bank statement files in the input directory and
// identifies the exporting bank from each file's header content.
package scanner

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"finledger/internal/logging"
)

// BankType identifies the bank format of a statement file.
type BankType string

const (
	BankN26     BankType = "n26"
	BankSEB     BankType = "seb"
	BankRevolut BankType = "revolut"
	BankUnknown BankType = "unknown"
)

const revolutHeader = "Type,Product,Started Date,Completed Date,Description,Amount,Fee,Currency,State,Balance"

// Scanner finds statement files and sniffs their bank format.
type Scanner struct {
	log logging.Logger
}

// New creates a Scanner.
func New(log logging.Logger) *Scanner {
	return &Scanner{log: log}
}

// IdentifyBank reads the first few lines of a file and decides which bank
// exported it based on characteristic header columns.
func (s *Scanner) IdentifyBank(filePath string) BankType {
	file, err := os.Open(filePath)
	if err != nil {
		s.log.WithError(err).WithField(logging.FieldFile, filePath).Error("Failed to open file for bank identification")
		return BankUnknown
	}
	defer func() {
		_ = file.Close()
	}()

	var lines []string
	reader := bufio.NewScanner(file)
	for i := 0; i < 5 && reader.Scan(); i++ {
		lines = append(lines, reader.Text())
	}
	content := strings.Join(lines, "\n")

	switch {
	case strings.Contains(content, `"Booking Date"`) && strings.Contains(content, `"Value Date"`):
		return BankN26
	case strings.Contains(content, "SĄSKAITOS") || strings.Contains(content, "SUMA SĄSKAITOS VALIUTA"):
		return BankSEB
	case strings.Contains(content, revolutHeader):
		return BankRevolut
	}

	return BankUnknown
}

// ScanDirectory walks the input directory and groups CSV files by identified
// bank. Files of unknown format are skipped with a log line; a missing input
// directory yields an empty result, not an error.
func (s *Scanner) ScanDirectory(inputDir string) (map[BankType][]string, error) {
	if _, err := os.Stat(inputDir); os.IsNotExist(err) {
		s.log.WithField("directory", inputDir).Warn("Input directory does not exist")
		return map[BankType][]string{}, nil
	}

	paths, err := filepath.Glob(filepath.Join(inputDir, "*.csv"))
	if err != nil {
		return nil, err
	}

	banksFiles := make(map[BankType][]string)
	for _, path := range paths {
		bankType := s.IdentifyBank(path)
		if bankType == BankUnknown {
			s.log.WithField(logging.FieldFile, path).Info("Skipping file of unknown format")
			continue
		}
		banksFiles[bankType] = append(banksFiles[bankType], path)
	}

	return banksFiles, nil
}
