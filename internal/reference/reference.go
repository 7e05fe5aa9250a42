package reference

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/reference.yaml
var defaultYAML []byte

type Symptom struct {
	Code    string   `yaml:"code" json:"code"`
	Phrases []string `yaml:"phrases" json:"phrases"`
}

type Intent struct {
	Name     string `yaml:"name"`
	Pattern  string `yaml:"pattern"`
	Response string `yaml:"response"`
}

type Dialogue struct {
	Instruction        string   `yaml:"instruction"`
	AdvisoryHeader     string   `yaml:"advisory_header"`
	Fallback           string   `yaml:"fallback"`
	MaxQuestions       int      `yaml:"max_questions"`
	CannedSuggestions  []string `yaml:"canned_suggestions"`
	GenericSuggestions []string `yaml:"generic_suggestions"`
}

type Disease struct {
	Name     string   `yaml:"name"`
	Symptoms []string `yaml:"symptoms"`
}

// Data is loaded once at start and never mutated afterwards.
type Data struct {
	Symptoms  []Symptom           `yaml:"symptoms"`
	Intents   []Intent            `yaml:"intents"`
	Questions map[string][]string `yaml:"questions"`
	Advice    map[string]string   `yaml:"advice"`
	Dialogue  Dialogue            `yaml:"dialogue"`
	Diseases  []Disease           `yaml:"diseases"`
}

const defaultMaxQuestions = 3

// Load reads the reference document at path, or the embedded default when
// path is empty.
func Load(path string) (*Data, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Parse(defaultYAML)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference data: %w", err)
	}
	return Parse(raw)
}

func Default() (*Data, error) {
	return Parse(defaultYAML)
}

func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse reference data: %w", err)
	}
	if d.Dialogue.MaxQuestions <= 0 {
		d.Dialogue.MaxQuestions = defaultMaxQuestions
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Data) Validate() error {
	if len(d.Symptoms) == 0 {
		return fmt.Errorf("reference data: no symptoms")
	}
	codes := make(map[string]struct{}, len(d.Symptoms))
	for i, s := range d.Symptoms {
		code := strings.TrimSpace(s.Code)
		if code == "" {
			return fmt.Errorf("reference data: symptom #%d has empty code", i)
		}
		if _, dup := codes[code]; dup {
			return fmt.Errorf("reference data: duplicate symptom code %q", code)
		}
		codes[code] = struct{}{}
		if len(s.Phrases) == 0 {
			return fmt.Errorf("reference data: symptom %q has no phrases", code)
		}
		for _, p := range s.Phrases {
			if strings.TrimSpace(p) == "" {
				return fmt.Errorf("reference data: symptom %q has a blank phrase", code)
			}
		}
	}

	for code, qs := range d.Questions {
		if _, ok := codes[code]; !ok {
			return fmt.Errorf("reference data: questions for unknown symptom %q", code)
		}
		if len(qs) == 0 {
			return fmt.Errorf("reference data: empty question set for %q", code)
		}
	}
	for code, text := range d.Advice {
		if _, ok := codes[code]; !ok {
			return fmt.Errorf("reference data: advice for unknown symptom %q", code)
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("reference data: empty advice for %q", code)
		}
	}

	for _, in := range d.Intents {
		if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Response) == "" {
			return fmt.Errorf("reference data: intent %q needs a name and a response", in.Name)
		}
		if _, err := regexp.Compile(in.Pattern); err != nil {
			return fmt.Errorf("reference data: intent %q pattern: %w", in.Name, err)
		}
	}

	if strings.TrimSpace(d.Dialogue.Instruction) == "" || strings.TrimSpace(d.Dialogue.AdvisoryHeader) == "" || strings.TrimSpace(d.Dialogue.Fallback) == "" {
		return fmt.Errorf("reference data: dialogue instruction, advisory_header and fallback are required")
	}
	if len(d.Dialogue.CannedSuggestions) == 0 || len(d.Dialogue.GenericSuggestions) == 0 {
		return fmt.Errorf("reference data: dialogue suggestions are required")
	}

	names := make(map[string]struct{}, len(d.Diseases))
	listed := make(map[string]struct{}, len(codes))
	for _, dis := range d.Diseases {
		name := strings.TrimSpace(dis.Name)
		if name == "" {
			return fmt.Errorf("reference data: disease with empty name")
		}
		if _, dup := names[name]; dup {
			return fmt.Errorf("reference data: duplicate disease %q", name)
		}
		names[name] = struct{}{}
		for _, code := range dis.Symptoms {
			if _, ok := codes[code]; !ok {
				return fmt.Errorf("reference data: disease %q lists unknown symptom %q", name, code)
			}
			listed[code] = struct{}{}
		}
	}

	// Every code has to lead somewhere: a question, an advice passage or a disease.
	for _, s := range d.Symptoms {
		code := strings.TrimSpace(s.Code)
		_, asked := d.Questions[code]
		_, advised := d.Advice[code]
		_, ranked := listed[code]
		if !asked && !advised && !ranked {
			return fmt.Errorf("reference data: symptom %q has no questions, advice or disease", code)
		}
	}
	return nil
}

// DiseaseSymptoms maps disease name to a copy of its symptom codes.
func (d *Data) DiseaseSymptoms() map[string][]string {
	out := make(map[string][]string, len(d.Diseases))
	for _, dis := range d.Diseases {
		out[dis.Name] = append([]string(nil), dis.Symptoms...)
	}
	return out
}
