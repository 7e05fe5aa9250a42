package oracle

import (
	"context"
	"sort"
	"strings"

	"sehat/internal/reference"
)

const referenceSharpness = 5.0

// ReferenceModel scores diseases by the share of their listed symptoms the
// input covers, then softmaxes the shares. Used when no trained model is
// deployed. Any vocabulary code is accepted, even one no disease lists.
type ReferenceModel struct {
	classes  []string
	symptoms []map[string]struct{}
	known    map[string]struct{}
	tag      string
}

func NewReferenceModel(symptoms []reference.Symptom, diseases []reference.Disease) *ReferenceModel {
	m := &ReferenceModel{known: make(map[string]struct{}, len(symptoms))}
	for _, s := range symptoms {
		m.known[s.Code] = struct{}{}
	}
	for _, d := range diseases {
		set := make(map[string]struct{}, len(d.Symptoms))
		for _, s := range d.Symptoms {
			set[s] = struct{}{}
			m.known[s] = struct{}{}
		}
		m.classes = append(m.classes, d.Name)
		m.symptoms = append(m.symptoms, set)
	}

	parts := make([]string, 0, len(diseases)+1)
	for _, d := range diseases {
		codes := append([]string(nil), d.Symptoms...)
		sort.Strings(codes)
		parts = append(parts, d.Name+"="+strings.Join(codes, ","))
	}
	vocab := make([]string, 0, len(m.known))
	for code := range m.known {
		vocab = append(vocab, code)
	}
	sort.Strings(vocab)
	parts = append(parts, strings.Join(vocab, ","))
	m.tag = digest("reference", parts...)
	return m
}

func (m *ReferenceModel) Fingerprint() string {
	return m.tag
}

func (m *ReferenceModel) Classes() []string {
	return append([]string(nil), m.classes...)
}

func (m *ReferenceModel) Score(_ context.Context, in Input) (map[string]float64, error) {
	if len(m.classes) == 0 {
		return nil, ErrDegenerateInput
	}
	hit := false
	for _, t := range in.Terms {
		if _, ok := m.known[t]; ok {
			hit = true
			break
		}
	}
	if !hit {
		return nil, ErrDegenerateInput
	}

	logits := make([]float64, len(m.classes))
	for c, set := range m.symptoms {
		if len(set) == 0 {
			continue
		}
		overlap := 0
		for _, t := range in.Terms {
			if _, ok := set[t]; ok {
				overlap++
			}
		}
		logits[c] = referenceSharpness * float64(overlap) / float64(len(set))
	}
	probs := softmax(logits)
	out := make(map[string]float64, len(m.classes))
	for c, name := range m.classes {
		out[name] = probs[c]
	}
	return out, nil
}
