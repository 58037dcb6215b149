package domain

import (
	"fmt"
	"net/url"
	"strings"
)

type StateCode string

// NewStateCode accepts a two letter postal abbreviation such as "DC".
func NewStateCode(value string) (StateCode, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return "", fmt.Errorf("state is required")
	}
	if len(trimmed) != 2 || trimmed[0] < 'A' || trimmed[0] > 'Z' || trimmed[1] < 'A' || trimmed[1] > 'Z' {
		return "", fmt.Errorf("invalid state code: %s", trimmed)
	}
	return StateCode(trimmed), nil
}

func (s StateCode) String() string {
	return string(s)
}

type StateCodeList []StateCode

func NewStateCodeList(values []string) (StateCodeList, error) {
	if len(values) == 0 {
		return nil, nil
	}
	result := make([]StateCode, 0, len(values))
	seen := make(map[StateCode]struct{})
	for _, raw := range values {
		value, err := NewStateCode(raw)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return StateCodeList(result), nil
}

func (l StateCodeList) Strings() []string {
	result := make([]string, 0, len(l))
	for _, v := range l {
		result = append(result, string(v))
	}
	return result
}

// TagName is a service name or certification short code.
type TagName string

func NewTagName(value string) (TagName, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("tag is required")
	}
	return TagName(trimmed), nil
}

type TagNameList []TagName

func NewTagNameList(values []string) (TagNameList, error) {
	if len(values) == 0 {
		return nil, nil
	}
	result := make([]TagName, 0, len(values))
	seen := make(map[TagName]struct{})
	for _, raw := range values {
		tag, err := NewTagName(raw)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return TagNameList(result), nil
}

func (l TagNameList) Strings() []string {
	result := make([]string, 0, len(l))
	for _, v := range l {
		result = append(result, string(v))
	}
	return result
}

type Email string

// NewEmail applies the same rule as the public apply form: more than three
// characters and an @.
func NewEmail(value string) (Email, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if len(trimmed) > 254 {
		return "", fmt.Errorf("email too long")
	}
	if len(trimmed) <= 3 || !strings.Contains(trimmed, "@") {
		return "", fmt.Errorf("invalid email: %s", trimmed)
	}
	return Email(trimmed), nil
}

func (e Email) String() string {
	return string(e)
}

type URL string

func NewURL(value string) (URL, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	return URL(trimmed), nil
}

func (u URL) String() string {
	return string(u)
}

// Status is the review state of a listing.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// NewStatus accepts "draft", "published" or an empty value meaning any.
func NewStatus(value string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return "", nil
	case string(StatusDraft):
		return StatusDraft, nil
	case string(StatusPublished):
		return StatusPublished, nil
	}
	return "", fmt.Errorf("invalid status: %s", value)
}
