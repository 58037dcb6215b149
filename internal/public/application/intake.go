package application

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/civictechdc/electrify-dmv/api/internal/public/domain"
)

// FieldErrors maps a form field name to the message shown next to it.
type FieldErrors map[string]string

// ApplicationForm is the raw contractor self-application as submitted.
type ApplicationForm struct {
	Name           string
	Email          string
	Phone          string
	Website        string
	AddressLine1   string
	AddressLine2   string
	City           string
	State          string
	Zip            string
	StatesServed   []string
	Services       []string
	Certifications []string
}

const (
	msgInvalidEmail   = "Please provide a valid email."
	msgInvalidWebsite = "Please provide a valid website URL."
	msgNoState        = "Please select at least one state."
	msgNoService      = "Please select at least one service."
)

type requiredField struct {
	key   string
	label string
	value string
}

// ValidateApplication checks a submitted application against the required
// field rules and the vocabulary. On success it returns the normalized draft
// listing; otherwise it returns the per-field messages and a zero listing.
func ValidateApplication(form ApplicationForm, vocab Vocabulary) (domain.NewListing, FieldErrors) {
	errs := FieldErrors{}

	phone := FormatPhoneNumber(form.Phone)
	zip := DigitsOnly(form.Zip)

	listing := domain.NewListing{
		Name:         strings.TrimSpace(form.Name),
		Email:        strings.TrimSpace(form.Email),
		Phone:        phone,
		Website:      strings.TrimSpace(form.Website),
		AddressLine1: strings.TrimSpace(form.AddressLine1),
		AddressLine2: strings.TrimSpace(form.AddressLine2),
		City:         strings.TrimSpace(form.City),
		State:        strings.TrimSpace(form.State),
		Zip:          zip,
		IsDraft:      true,
	}

	for _, f := range []requiredField{
		{key: "name", label: "name", value: listing.Name},
		{key: "email", label: "email", value: listing.Email},
		{key: "phone", label: "phone number", value: listing.Phone},
		{key: "website", label: "website", value: listing.Website},
		{key: "addressLine1", label: "street address", value: listing.AddressLine1},
		{key: "city", label: "city", value: listing.City},
		{key: "state", label: "state", value: listing.State},
		{key: "zip", label: "zip code", value: listing.Zip},
	} {
		if f.value == "" {
			errs[f.key] = fmt.Sprintf("Please provide %s.", f.label)
		}
	}

	if listing.Email != "" && !ValidEmail(listing.Email) {
		errs["email"] = msgInvalidEmail
	}
	if listing.Website != "" && !ValidWebsite(listing.Website) {
		errs["website"] = msgInvalidWebsite
	}
	if listing.State != "" && !vocab.HasState(listing.State) {
		errs["state"] = fmt.Sprintf("Unknown state: %s.", listing.State)
	}

	states, unknown := normalizeSelection(form.StatesServed, vocab.HasState)
	switch {
	case unknown != "":
		errs["statesServed"] = fmt.Sprintf("Unknown state: %s.", unknown)
	case len(states) == 0:
		errs["statesServed"] = msgNoState
	}

	services, unknown := normalizeSelection(form.Services, vocab.HasService)
	switch {
	case unknown != "":
		errs["services"] = fmt.Sprintf("Unknown service: %s.", unknown)
	case len(services) == 0:
		errs["services"] = msgNoService
	}

	certifications, unknown := normalizeSelection(form.Certifications, vocab.HasCertification)
	if unknown != "" {
		errs["certifications"] = fmt.Sprintf("Unknown certification: %s.", unknown)
	}

	if len(errs) > 0 {
		return domain.NewListing{}, errs
	}

	listing.StatesServed = states
	listing.Services = services
	listing.Certifications = certifications
	return listing, nil
}

// normalizeSelection trims and de-duplicates values, preserving order. It
// reports the first value the vocabulary does not know.
func normalizeSelection(values []string, known func(string) bool) ([]string, string) {
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		if !known(value) {
			return nil, value
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result, ""
}

// ValidEmail requires more than three characters and an @.
func ValidEmail(email string) bool {
	return len(email) > 3 && strings.Contains(email, "@")
}

// ValidWebsite accepts absolute http and https URLs.
func ValidWebsite(website string) bool {
	u, err := url.Parse(website)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// FormatPhoneNumber strips non-digits and renders up to ten of them as
// (XXX)XXX-XXXX, emitting the partial form for shorter inputs.
func FormatPhoneNumber(value string) string {
	digits := DigitsOnly(value)
	switch {
	case len(digits) <= 3:
		return digits
	case len(digits) <= 6:
		return "(" + digits[:3] + ")" + digits[3:]
	default:
		end := len(digits)
		if end > 10 {
			end = 10
		}
		return "(" + digits[:3] + ")" + digits[3:6] + "-" + digits[6:end]
	}
}

// DigitsOnly drops every character that is not an ASCII digit.
func DigitsOnly(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
