// Package journalcsv parses general-ledger CSV exports into ledger
// entries.
//
// The expected columns are, in order: posting date, journal reference,
// account, debit, credit, remarks. The first line is a header and is
// skipped.
package journalcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zakaah-management/backend/internal/importer/helpers"
	"github.com/zakaah-management/backend/internal/models"
	"github.com/zakaah-management/backend/internal/types"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Column indexes of the export format.
const (
	Date = iota
	Reference
	Account
	Debit
	Credit
	Remarks
)

var errColumnCount = errors.New("the line does not have exactly 6 columns")

// Parse reads a ledger CSV export for a company.
//
// charset selects the file encoding: "" and "utf-8" are used as is,
// "windows-1256" is decoded from the Arabic Windows codepage that older
// ERP exports use.
func Parse(f io.Reader, companyID uuid.UUID, charset string) ([]models.LedgerEntry, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8":
	case "windows-1256":
		f = transform.NewReader(f, charmap.Windows1256.NewDecoder())
	default:
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}

	reader := csv.NewReader(f)

	// We can reuse the array in the background to improve performance
	reader.ReuseRecord = true

	var entries []models.LedgerEntry

	// Skip the header line
	_, err := reader.Read()
	if err == io.EOF {
		return []models.LedgerEntry{}, nil
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return csvReadError(reader, fmt.Errorf("could not read line in CSV: %w", err))
		}

		if len(record) != 6 {
			return csvReadError(reader, errColumnCount)
		}

		date, err := types.ParseDay(record[Date])
		if err != nil {
			return csvReadError(reader, fmt.Errorf("could not parse posting date: %w", err))
		}

		debit, err := parseAmount(record[Debit])
		if err != nil {
			return csvReadError(reader, fmt.Errorf("could not parse debit: %w", err))
		}

		credit, err := parseAmount(record[Credit])
		if err != nil {
			return csvReadError(reader, fmt.Errorf("could not parse credit: %w", err))
		}

		reference := strings.TrimSpace(record[Reference])
		if reference == "" {
			// Exports without voucher numbers still need a stable
			// reference for duplicate detection
			reference = helpers.Sha256String(strings.Join(record, ","))
		}

		entries = append(entries, models.LedgerEntry{
			CompanyID:        companyID,
			Account:          strings.TrimSpace(record[Account]),
			JournalReference: reference,
			PostingDate:      date,
			Debit:            debit,
			Credit:           credit,
			Remarks:          strings.TrimSpace(record[Remarks]),
		})
	}

	return entries, nil
}

// parseAmount parses a decimal column, treating an empty cell as zero.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}

	return decimal.NewFromString(s)
}

// csvReadError returns an error including the line of the input the
// error occurred in.
func csvReadError(r *csv.Reader, err error) ([]models.LedgerEntry, error) {
	// always use the first field, we are only interested in the line
	line, _ := r.FieldPos(1)

	return []models.LedgerEntry{}, fmt.Errorf("error in line %d of the CSV: %w", line, err)
}
