package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrServiceUnavailable = errors.New("linguistic service unavailable")
	ErrPredictionFailed   = errors.New("prediction failed")
)

// ConversationContext is owned by the caller and resent on every turn.
type ConversationContext struct {
	MedicalTerms []string `json:"medical_terms"`
}

type TurnRequest struct {
	Text    string               `json:"text"`
	Context *ConversationContext `json:"context,omitempty"`
}

type ChatResponse struct {
	Response    string              `json:"response"`
	Suggestions []string            `json:"suggestions"`
	Context     ConversationContext `json:"context"`
}

type RankedPrediction struct {
	Disease    string   `json:"disease"`
	Confidence float64  `json:"confidence"`
	Symptoms   []string `json:"symptoms"`
}

type ProcessedText struct {
	MedicalTerms []string `json:"medical_terms"`
	Tokens       []string `json:"tokens"`
}

type PredictResponse struct {
	Predictions   []RankedPrediction `json:"predictions"`
	ProcessedText ProcessedText      `json:"processed_text"`
}

// Triage event payloads

const (
	EventKindChat    = "chat"
	EventKindPredict = "predict"
)

type TriageEvent struct {
	EventID      string             `json:"event_id"`
	Kind         string             `json:"kind"`
	MedicalTerms []string           `json:"medical_terms"`
	Predictions  []RankedPrediction `json:"predictions,omitempty"`
	Intent       string             `json:"intent,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}
