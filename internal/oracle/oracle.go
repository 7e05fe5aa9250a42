package oracle

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math"
	"sort"
	"strings"
)

// ErrDegenerateInput means the input has no term the model can encode.
var ErrDegenerateInput = errors.New("degenerate input encoding")

// Oracle scores a symptom set. Score returns one probability per entry of
// Classes and the probabilities sum to 1.
type Oracle interface {
	Classes() []string
	Score(ctx context.Context, in Input) (map[string]float64, error)
}

// Fingerprinter identifies the parameters an oracle scores with.
type Fingerprinter interface {
	Fingerprint() string
}

func fingerprintOf(o Oracle) string {
	if f, ok := o.(Fingerprinter); ok {
		return f.Fingerprint()
	}
	return "model"
}

func digest(kind string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return kind + "-" + hex.EncodeToString(h.Sum(nil))[:16]
}

// Input is the canonical, sorted term list of one request.
type Input struct {
	Terms []string
}

func NewInput(terms []string) Input {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return Input{Terms: out}
}

// Key is stable across term order.
func (in Input) Key() string {
	return strings.Join(in.Terms, ",")
}

func softmax(logits []float64) []float64 {
	if len(logits) == 0 {
		return nil
	}
	peak := logits[0]
	for _, v := range logits[1:] {
		if v > peak {
			peak = v
		}
	}
	out := make([]float64, len(logits))
	sum := 0.0
	for i, v := range logits {
		out[i] = math.Exp(v - peak)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
