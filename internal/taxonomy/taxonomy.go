// Package taxonomy holds the controlled vocabularies a contractor listing may
// be tagged with: states served, services and certifications.
package taxonomy

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yaml
var defaultVocabulary []byte

// StateEntry is a state a contractor can serve.
type StateEntry struct {
	Name  string `yaml:"name" json:"name"`
	Title string `yaml:"title" json:"title"`
}

// ServiceEntry is a kind of electrification work.
type ServiceEntry struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// CertificationEntry is a credential, matched by its short code.
type CertificationEntry struct {
	Name        string `yaml:"name" json:"name"`
	ShortName   string `yaml:"shortName" json:"shortName"`
	Description string `yaml:"description" json:"description"`
}

// Vocabulary is the full set of accepted tag values.
type Vocabulary struct {
	States         []StateEntry         `yaml:"states" json:"states"`
	Services       []ServiceEntry       `yaml:"services" json:"services"`
	Certifications []CertificationEntry `yaml:"certifications" json:"certifications"`

	states         map[string]struct{}
	services       map[string]struct{}
	certifications map[string]struct{}
}

// Default returns the vocabulary compiled into the binary.
func Default() *Vocabulary {
	vocab, err := Parse(defaultVocabulary)
	if err != nil {
		panic(fmt.Sprintf("embedded vocabulary is invalid: %v", err))
	}
	return vocab
}

// Load reads a vocabulary file, falling back to the embedded one when path is empty.
func Load(path string) (*Vocabulary, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes and validates a YAML vocabulary document.
func Parse(raw []byte) (*Vocabulary, error) {
	var vocab Vocabulary
	if err := yaml.Unmarshal(raw, &vocab); err != nil {
		return nil, fmt.Errorf("decode vocabulary: %w", err)
	}
	if err := vocab.index(); err != nil {
		return nil, err
	}
	return &vocab, nil
}

func (v *Vocabulary) index() error {
	v.states = make(map[string]struct{}, len(v.States))
	for i, s := range v.States {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return fmt.Errorf("state #%d has no name", i+1)
		}
		if !isPostalCode(name) {
			return fmt.Errorf("state %q is not a two-letter postal code", name)
		}
		v.States[i].Name = name
		v.states[name] = struct{}{}
	}

	v.services = make(map[string]struct{}, len(v.Services))
	for i, s := range v.Services {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return fmt.Errorf("service #%d has no name", i+1)
		}
		v.Services[i].Name = name
		v.services[name] = struct{}{}
	}

	v.certifications = make(map[string]struct{}, len(v.Certifications))
	for i, c := range v.Certifications {
		short := strings.TrimSpace(c.ShortName)
		if short == "" {
			return fmt.Errorf("certification %q has no short name", c.Name)
		}
		if _, dup := v.certifications[short]; dup {
			return fmt.Errorf("certification short name %q is declared twice", short)
		}
		v.Certifications[i].ShortName = short
		v.certifications[short] = struct{}{}
	}

	if len(v.states) == 0 || len(v.services) == 0 {
		return errors.New("vocabulary must declare at least one state and one service")
	}
	return nil
}

func isPostalCode(name string) bool {
	return len(name) == 2 && name[0] >= 'A' && name[0] <= 'Z' && name[1] >= 'A' && name[1] <= 'Z'
}

// HasState reports whether name is a known state code.
func (v *Vocabulary) HasState(name string) bool {
	_, ok := v.states[name]
	return ok
}

// HasService reports whether name is a known service.
func (v *Vocabulary) HasService(name string) bool {
	_, ok := v.services[name]
	return ok
}

// HasCertification reports whether shortName is a known certification code.
func (v *Vocabulary) HasCertification(shortName string) bool {
	_, ok := v.certifications[shortName]
	return ok
}

// ServiceDescription returns the configured description of a service, if any.
func (v *Vocabulary) ServiceDescription(name string) (string, bool) {
	for _, s := range v.Services {
		if s.Name == name {
			return s.Description, true
		}
	}
	return "", false
}

// StateNames lists state codes in declaration order.
func (v *Vocabulary) StateNames() []string {
	names := make([]string, 0, len(v.States))
	for _, s := range v.States {
		names = append(names, s.Name)
	}
	return names
}
