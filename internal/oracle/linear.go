package oracle

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type linearFile struct {
	Classes    []string    `yaml:"classes"`
	Vocabulary []string    `yaml:"vocabulary"`
	Weights    [][]float64 `yaml:"weights"`
	Bias       []float64   `yaml:"bias"`
}

// LinearModel is a multinomial logistic regression over a binary indicator
// encoding of the symptom vocabulary.
type LinearModel struct {
	classes []string
	index   map[string]int
	weights [][]float64
	bias    []float64
	tag     string
}

func LoadLinearModel(path string) (*LinearModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return ParseLinearModel(raw)
}

func ParseLinearModel(raw []byte) (*LinearModel, error) {
	var f linearFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	if len(f.Classes) == 0 || len(f.Vocabulary) == 0 {
		return nil, fmt.Errorf("model: classes and vocabulary are required")
	}
	if len(f.Weights) != len(f.Classes) {
		return nil, fmt.Errorf("model: %d weight rows for %d classes", len(f.Weights), len(f.Classes))
	}
	for i, row := range f.Weights {
		if len(row) != len(f.Vocabulary) {
			return nil, fmt.Errorf("model: weight row %d has %d columns, vocabulary has %d", i, len(row), len(f.Vocabulary))
		}
	}
	if len(f.Bias) == 0 {
		f.Bias = make([]float64, len(f.Classes))
	}
	if len(f.Bias) != len(f.Classes) {
		return nil, fmt.Errorf("model: %d bias terms for %d classes", len(f.Bias), len(f.Classes))
	}

	index := make(map[string]int, len(f.Vocabulary))
	for i, term := range f.Vocabulary {
		if _, dup := index[term]; dup {
			return nil, fmt.Errorf("model: duplicate vocabulary term %q", term)
		}
		index[term] = i
	}
	return &LinearModel{
		classes: append([]string(nil), f.Classes...),
		index:   index,
		weights: f.Weights,
		bias:    f.Bias,
		tag:     digest("linear", string(raw)),
	}, nil
}

func (m *LinearModel) Fingerprint() string {
	return m.tag
}

func (m *LinearModel) Classes() []string {
	return append([]string(nil), m.classes...)
}

func (m *LinearModel) Score(_ context.Context, in Input) (map[string]float64, error) {
	active := make([]int, 0, len(in.Terms))
	for _, t := range in.Terms {
		if i, ok := m.index[t]; ok {
			active = append(active, i)
		}
	}
	if len(active) == 0 {
		return nil, ErrDegenerateInput
	}

	logits := make([]float64, len(m.classes))
	for c := range m.classes {
		z := m.bias[c]
		for _, i := range active {
			z += m.weights[c][i]
		}
		logits[c] = z
	}
	probs := softmax(logits)
	out := make(map[string]float64, len(m.classes))
	for c, name := range m.classes {
		out[name] = probs[c]
	}
	return out, nil
}
