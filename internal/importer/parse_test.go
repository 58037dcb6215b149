package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in   string
		want Address
	}{
		{"", Address{}},
		{"1200 First St NE, Suite 4, Washington, DC 20002", Address{"1200 First St NE, Suite 4", "Washington", "DC", "20002"}},
		{"55 Main St, Annapolis, MD 21401-1234", Address{"55 Main St", "Annapolis", "MD", "21401"}},
		{"55 Main St, Annapolis, Maryland", Address{"55 Main St", "Annapolis", "Maryland", ""}},
		{"PO Box 12", Address{Line1: "PO Box 12"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseAddress(tt.in), tt.in)
	}
}

func TestParseCertifications(t *testing.T) {
	certs := ParseCertifications("Daikin Comfort Pro, BPI Air Conditioning & Heat Pump, HEP, BBB, Energy Star, Air Leakage Control, ???")
	codes := make([]string, 0, len(certs))
	for _, c := range certs {
		codes = append(codes, c.ShortName)
	}
	assert.Equal(t, []string{"DCP", "BPI-ACHPP", "HEP", "BBB", "ESTAR", "BPI-ALCI", "CERT"}, codes)
	assert.Empty(t, ParseCertifications(" , "))
}

func TestStatesServed(t *testing.T) {
	assert.Equal(t, []string{"MD"}, StatesServed("1 Main St, Bethesda, MD 20814"))
	assert.Equal(t, []string{"VA"}, StatesServed("Arlington, Virginia"))
	assert.Equal(t, []string{"DC"}, StatesServed("Washington"))
	assert.Equal(t, []string{"DC", "MD", "VA"}, StatesServed(""))
}

func TestCleanPhoneAndWebsite(t *testing.T) {
	assert.Equal(t, "2025550142", CleanPhone("+1 (202) 555-0142"))
	assert.Empty(t, CleanPhone("555-0142"))
	assert.Equal(t, "https://example.com", CleanWebsite(" example.com "))
	assert.Equal(t, "http://example.com", CleanWebsite("http://example.com"))
	assert.Empty(t, CleanWebsite(""))
}

func TestServiceDescription(t *testing.T) {
	assert.Equal(t, "Electrical tasks and upgrades", ServiceDescription("Electrical"))
	assert.Equal(t, "Solar services", ServiceDescription("Solar"))
}

func TestReadZipCoordinates(t *testing.T) {
	entries, err := ReadZipCoordinates(strings.NewReader("zip,lat,lng\n20001,38.9109,-77.0177\n21201-1234, 39.2946, -76.6252\n"))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "21201", entries[1].Zip)
	assert.InDelta(t, 39.2946, entries[1].Lat, 1e-9)

	_, err = ReadZipCoordinates(strings.NewReader("2000,1,1\n"))
	assert.Error(t, err)
	_, err = ReadZipCoordinates(strings.NewReader("20001,91,1\n"))
	assert.Error(t, err)
}
