package http

import (
	"github.com/fyrsmithlabs/inklude/internal/engine"
	"github.com/fyrsmithlabs/inklude/internal/lexicon"
	"github.com/fyrsmithlabs/inklude/internal/neopronoun"
	"github.com/fyrsmithlabs/inklude/internal/pronoun"
)

// AnalyzeRequest is the body of POST /api/v1/analyze/text.
type AnalyzeRequest struct {
	Text string `json:"text"`
	Tone string `json:"tone,omitempty"`
}

// BatchRequest is the body of POST /api/v1/analyze/batch.
type BatchRequest struct {
	Texts []string `json:"texts"`
	Tone  string   `json:"tone,omitempty"`
}

// BatchResponse wraps batch results, in request order.
type BatchResponse struct {
	Results []*engine.Result `json:"results"`
}

// PronounCheckRequest is the body of POST /api/v1/analyze/check-pronouns.
// Identities maps a person's name to the pronoun sets they use.
type PronounCheckRequest struct {
	Text       string                     `json:"text"`
	Tone       string                     `json:"tone,omitempty"`
	Identities map[string][]pronoun.Forms `json:"identities"`
}

// NeoPronounListResponse is the body of GET /api/v1/neo-pronouns.
type NeoPronounListResponse struct {
	Count int              `json:"count"`
	Sets  []neopronoun.Set `json:"sets"`
}

// NeoPronounCheckResponse is the body of GET /api/v1/neo-pronouns/check.
type NeoPronounCheckResponse struct {
	Token        string             `json:"token"`
	IsNeoPronoun bool               `json:"is_neo_pronoun"`
	Matches      []neopronoun.Match `json:"matches"`
}

// LexiconResponse is the body of GET /api/v1/lexicon.
type LexiconResponse struct {
	Count   int             `json:"count"`
	Entries []lexicon.Entry `json:"entries"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
}

// ReadinessResponse is the body of GET /health/ready.
type ReadinessResponse struct {
	Status         string `json:"status"`
	EngineReady    bool   `json:"engine_ready"`
	NeoPronounSets int    `json:"neopronoun_sets"`
	LexiconEntries int    `json:"lexicon_entries"`
}
