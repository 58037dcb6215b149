package domain

import "time"

// Tag is the common shape of every vocabulary entry attached to a listing.
type Tag struct {
	ID   string
	Name string
}

// Service is a kind of work a contractor offers.
type Service struct {
	Tag
	Description string
}

// Certification is matched by ShortName; Name is the full display title.
type Certification struct {
	Tag
	ShortName   string
	Description string
}

// Contractor represents a listing visible in the public directory.
type Contractor struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	Website        string
	AddressLine1   string
	AddressLine2   string
	City           string
	State          string
	Zip            string
	IsDraft        bool
	StatesServed   []Tag
	Services       []Service
	Certifications []Certification
	// Distance is set only after proximity annotation, in miles.
	Distance    *float64
	CreatedAt   time.Time
	PublishedAt *time.Time
}

// StateNames returns the codes of the states served.
func (c Contractor) StateNames() []string {
	names := make([]string, 0, len(c.StatesServed))
	for _, s := range c.StatesServed {
		names = append(names, s.Name)
	}
	return names
}

// ServiceNames returns the names of the services offered.
func (c Contractor) ServiceNames() []string {
	names := make([]string, 0, len(c.Services))
	for _, s := range c.Services {
		names = append(names, s.Name)
	}
	return names
}

// CertificationCodes returns the certification short codes.
func (c Contractor) CertificationCodes() []string {
	codes := make([]string, 0, len(c.Certifications))
	for _, cert := range c.Certifications {
		codes = append(codes, cert.ShortName)
	}
	return codes
}

// NewListing is the write-side shape of a contractor: tags are referenced by
// name (states, services) or short code (certifications).
type NewListing struct {
	Name           string
	Email          string
	Phone          string
	Website        string
	AddressLine1   string
	AddressLine2   string
	City           string
	State          string
	Zip            string
	IsDraft        bool
	StatesServed   []string
	Services       []string
	Certifications []string
}

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64
	Lng float64
}

// ZipCoordinate ties a five digit zip code to its centroid.
type ZipCoordinate struct {
	Zip string
	Coordinate
}
