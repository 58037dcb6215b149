package importer

import (
	"regexp"
	"strings"
)

// Address is the result of splitting a one-line spreadsheet address.
type Address struct {
	Line1 string
	City  string
	State string
	Zip   string
}

var stateZipPattern = regexp.MustCompile(`([A-Z]{2})\s+(\d{5}(?:-\d{4})?)`)

// ParseAddress splits "street, city, ST 12345" into its parts. When the last
// part carries no state and zip, the first three comma-separated parts are
// taken as street, city and state.
func ParseAddress(address string) Address {
	if strings.TrimSpace(address) == "" {
		return Address{}
	}

	raw := strings.Split(address, ",")
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		parts = append(parts, strings.TrimSpace(p))
	}

	if len(parts) >= 3 {
		if m := stateZipPattern.FindStringSubmatch(parts[len(parts)-1]); m != nil {
			return Address{
				Line1: strings.Join(parts[:len(parts)-2], ", "),
				City:  parts[len(parts)-2],
				State: m[1],
				Zip:   strings.SplitN(m[2], "-", 2)[0],
			}
		}
	}

	addr := Address{Line1: parts[0]}
	if len(parts) > 1 {
		addr.City = parts[1]
	}
	if len(parts) > 2 {
		addr.State = parts[2]
	}
	return addr
}

// serviceColumns maps spreadsheet Yes/No columns to service names.
var serviceColumns = []struct {
	column  string
	service string
}{
	{"Energy Audit", "Energy Audit"},
	{"Weatherization", "Weatherization"},
	{"HVAC/Heat Pump", "HVAC / Heat Pump"},
	{"Electrical", "Electrical"},
	{"Water Heater", "Water Heater"},
	{"Appliances", "Appliances"},
}

var serviceDescriptions = map[string]string{
	"Energy Audit":     "Evaluate your house to determine its efficiency at holding heat or cold",
	"Weatherization":   "Fix or repair issues that prevent your house from holding heat or cold",
	"HVAC / Heat Pump": "Install and maintain efficiency central air systems that will cool and heat your home",
	"Electrical":       "Electrical tasks and upgrades",
	"Water Heater":     "Install and maintain water heating systems",
	"Appliances":       "Install and maintain home appliances",
}

// Services lists the services whose column says "yes".
func Services(row map[string]string) []string {
	services := make([]string, 0, len(serviceColumns))
	for _, c := range serviceColumns {
		if strings.EqualFold(strings.TrimSpace(row[c.column]), "yes") {
			services = append(services, c.service)
		}
	}
	return services
}

// ServiceDescription returns the stock description for a service name.
func ServiceDescription(name string) string {
	if d, ok := serviceDescriptions[name]; ok {
		return d
	}
	return name + " services"
}

// Certification is a certification recognised in free text.
type Certification struct {
	Name        string
	ShortName   string
	Description string
}

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]`)

// ParseCertifications maps a comma-separated free text list onto known
// certifications. Unrecognised entries become certifications of their own,
// coded by their first ten letters and digits.
func ParseCertifications(text string) []Certification {
	certs := make([]Certification, 0)
	for _, raw := range strings.Split(text, ",") {
		item := strings.TrimSpace(raw)
		if item == "" {
			continue
		}
		lower := strings.ToLower(item)
		switch {
		case strings.Contains(lower, "mitsubishi") && strings.Contains(lower, "diamond"):
			certs = append(certs, Certification{"Mitsubishi Electric Diamond Contractor", "MEDC", "Mitsubishi Electric Diamond Contractor certification"})
		case strings.Contains(lower, "daikin") && strings.Contains(lower, "comfort"):
			certs = append(certs, Certification{"Daikin Comfort Pro", "DCP", "Daikin Comfort Pro certification"})
		case strings.Contains(lower, "bpi") && strings.Contains(lower, "air conditioning"):
			certs = append(certs, Certification{"BPI Air Conditioning & Heat Pump Professional", "BPI-ACHPP", "Install and repair refrigerant-based heating and cooling equipment"})
		case strings.Contains(lower, "certified energy auditor") || strings.Contains(lower, "cea"):
			certs = append(certs, Certification{"Certified Energy Auditor", "CEA", "Evaluate how well your home holds heat or cold"})
		case strings.Contains(lower, "home energy professional") || strings.Contains(lower, "hep"):
			certs = append(certs, Certification{"Home Energy Professional", "HEP", "Evaluate how well your home holds heat or cold"})
		case strings.Contains(lower, "air leakage control") || strings.Contains(lower, "bpi-alci"):
			certs = append(certs, Certification{"Air Leakage Control Installer", "BPI-ALCI", "Fix or repair issues that prevent your house from holding heat or cold"})
		case strings.Contains(lower, "bbb") || strings.Contains(lower, "better business bureau"):
			certs = append(certs, Certification{"Better Business Bureau Accredited", "BBB", "Better Business Bureau accredited business"})
		case strings.Contains(lower, "energy star"):
			certs = append(certs, Certification{"Energy Star Partner", "ESTAR", "Energy Star certified partner"})
		default:
			short := strings.ToUpper(nonAlnum.ReplaceAllString(item, ""))
			if len(short) > 10 {
				short = short[:10]
			}
			if short == "" {
				short = "CERT"
			}
			certs = append(certs, Certification{item, short, item})
		}
	}
	return certs
}

// StatesServed guesses the served state from the address and falls back to
// the whole region.
func StatesServed(address string) []string {
	lower := strings.ToLower(address)
	switch {
	case strings.Contains(lower, " md ") || strings.Contains(lower, "maryland"):
		return []string{"MD"}
	case strings.Contains(lower, " va ") || strings.Contains(lower, "virginia"):
		return []string{"VA"}
	case strings.Contains(lower, " dc ") || strings.Contains(lower, "washington"):
		return []string{"DC"}
	}
	return []string{"DC", "MD", "VA"}
}

// CleanPhone keeps the last ten digits, or returns "" when there are fewer.
func CleanPhone(value string) string {
	digits := make([]byte, 0, len(value))
	for i := 0; i < len(value); i++ {
		if value[i] >= '0' && value[i] <= '9' {
			digits = append(digits, value[i])
		}
	}
	if len(digits) < 10 {
		return ""
	}
	return string(digits[len(digits)-10:])
}

// CleanWebsite adds an https scheme to bare domains.
func CleanWebsite(value string) string {
	website := strings.TrimSpace(value)
	if website != "" && !strings.HasPrefix(website, "http") {
		website = "https://" + website
	}
	return website
}
