package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/civictechdc/electrify-dmv/api/internal/public/application"
	"github.com/civictechdc/electrify-dmv/api/internal/public/domain"
)

// ReadZipCoordinates parses "zip,lat,lng" rows. A leading header row is
// skipped; later rows must be valid.
func ReadZipCoordinates(r io.Reader) ([]domain.ZipCoordinate, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	entries := make([]domain.ZipCoordinate, 0)
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read zip csv: %w", err)
		}
		line++
		if line == 1 && len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "zip") {
			continue
		}
		if len(record) < 3 {
			return nil, fmt.Errorf("line %d: want zip,lat,lng", line)
		}

		zip := application.NormalizeZip(record[0])
		if zip == "" {
			return nil, fmt.Errorf("line %d: invalid zip %q", line, record[0])
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil || lat < -90 || lat > 90 {
			return nil, fmt.Errorf("line %d: invalid latitude %q", line, record[1])
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil || lng < -180 || lng > 180 {
			return nil, fmt.Errorf("line %d: invalid longitude %q", line, record[2])
		}
		entries = append(entries, domain.ZipCoordinate{Zip: zip, Coordinate: domain.Coordinate{Lat: lat, Lng: lng}})
	}
	return entries, nil
}
