// Package importer loads spreadsheet exports into the directory.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"net/mail"
	"sort"
	"strings"

	"github.com/civictechdc/electrify-dmv/api/internal/public/domain"
)

const companyColumn = "Company Name"

// Store is what the importer needs from persistence.
type Store interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
	EnsureService(ctx context.Context, name, description string) error
	EnsureCertification(ctx context.Context, name, shortName, description string) error
	Create(ctx context.Context, listing domain.NewListing) (*domain.Contractor, error)
}

// Result counts what an import did.
type Result struct {
	Processed int
	Skipped   int
}

// Importer turns contractor spreadsheet rows into published listings.
type Importer struct {
	store  Store
	logger *log.Logger
}

func New(store Store, logger *log.Logger) *Importer {
	if logger == nil {
		logger = log.Default()
	}
	return &Importer{store: store, logger: logger}
}

// ReadRows parses the export. The header is the first row carrying a
// "Company Name" column; rows above it are title lines.
func ReadRows(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var header []string
	rows := make([]map[string]string, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if header == nil {
			for _, cell := range record {
				if strings.TrimSpace(cell) == companyColumn {
					header = record
					break
				}
			}
			continue
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			name = strings.TrimSpace(name)
			if name == "" || i >= len(record) {
				continue
			}
			row[name] = strings.TrimSpace(record[i])
		}
		rows = append(rows, row)
	}
	if header == nil {
		return nil, fmt.Errorf("read csv: no %q header found", companyColumn)
	}
	return rows, nil
}

// Import creates every service and certification the rows mention, then one
// published listing per row. Rows without a company name, or whose name is
// already listed, are skipped, as are rows the store rejects.
func (i *Importer) Import(ctx context.Context, r io.Reader) (Result, error) {
	rows, err := ReadRows(r)
	if err != nil {
		return Result{}, err
	}
	i.logger.Printf("found %d records", len(rows))

	if err := i.ensureTags(ctx, rows); err != nil {
		return Result{}, err
	}

	var result Result
	for _, row := range rows {
		name := row[companyColumn]
		if name == "" {
			result.Skipped++
			continue
		}
		exists, err := i.store.ExistsByName(ctx, name)
		if err != nil {
			return result, fmt.Errorf("lookup %q: %w", name, err)
		}
		if exists {
			i.logger.Printf("skipping %q: already listed", name)
			result.Skipped++
			continue
		}
		if _, err := i.store.Create(ctx, BuildListing(row)); err != nil {
			i.logger.Printf("error importing %q: %v", name, err)
			result.Skipped++
			continue
		}
		result.Processed++
		if result.Processed%10 == 0 {
			i.logger.Printf("processed %d contractors", result.Processed)
		}
	}
	return result, nil
}

func (i *Importer) ensureTags(ctx context.Context, rows []map[string]string) error {
	services := make(map[string]struct{})
	certs := make(map[string]Certification)
	for _, row := range rows {
		if row[companyColumn] == "" {
			continue
		}
		for _, s := range Services(row) {
			services[s] = struct{}{}
		}
		for _, c := range ParseCertifications(row["Certifications"]) {
			certs[c.ShortName] = c
		}
	}

	for _, name := range sortedKeys(services) {
		if err := i.store.EnsureService(ctx, name, ServiceDescription(name)); err != nil {
			return fmt.Errorf("ensure service %q: %w", name, err)
		}
	}
	for _, short := range sortedKeys(certs) {
		c := certs[short]
		if err := i.store.EnsureCertification(ctx, c.Name, c.ShortName, c.Description); err != nil {
			i.logger.Printf("failed to create certification %s: %v", short, err)
		}
	}
	return nil
}

// BuildListing maps one spreadsheet row to a published listing.
func BuildListing(row map[string]string) domain.NewListing {
	addr := ParseAddress(row["Address"])
	certs := ParseCertifications(row["Certifications"])
	codes := make([]string, 0, len(certs))
	seen := make(map[string]struct{}, len(certs))
	for _, c := range certs {
		if _, ok := seen[c.ShortName]; ok {
			continue
		}
		seen[c.ShortName] = struct{}{}
		codes = append(codes, c.ShortName)
	}

	email := strings.TrimSpace(row["Email"])
	if _, err := mail.ParseAddress(email); err != nil {
		email = ""
	}

	return domain.NewListing{
		Name:           strings.TrimSpace(row[companyColumn]),
		Email:          email,
		Phone:          CleanPhone(row["Phone Number"]),
		Website:        CleanWebsite(row["Website"]),
		AddressLine1:   addr.Line1,
		City:           addr.City,
		State:          addr.State,
		Zip:            addr.Zip,
		IsDraft:        false,
		StatesServed:   StatesServed(row["Address"]),
		Services:       Services(row),
		Certifications: codes,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
