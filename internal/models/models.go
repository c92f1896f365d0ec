package models

import (
	"fmt"
	"time"
)

// Verdict is the categorical outcome of scoring a claim
type Verdict string

const (
	VerdictVerified   Verdict = "VERIFIED"
	VerdictFalse      Verdict = "FALSE"
	VerdictMixed      Verdict = "MIXED"
	VerdictUnverified Verdict = "UNVERIFIED"
)

// ClaimStatus tracks where a claim is in the verification lifecycle
type ClaimStatus string

const (
	StatusUnverified ClaimStatus = "unverified"
	StatusVerified   ClaimStatus = "verified"
	StatusProcessing ClaimStatus = "processing"
	StatusFalse      ClaimStatus = "false"
)

// Evidence is one supporting or refuting data point attached to a claim
type Evidence struct {
	Source  string `json:"source"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// ScoreResponse is the result of scoring a claim against its evidence.
// All sub-scores are 0-100.
type ScoreResponse struct {
	FinalScore        int     `json:"final_score"`
	SourceReliability int     `json:"source_reliability"`
	EvidenceStrength  int     `json:"evidence_strength"`
	Consistency       int     `json:"consistency"`
	Verdict           Verdict `json:"verdict"`
}

// Validate treats the scoring model as an untrusted producer: every
// sub-score must be within 0-100 and the verdict must be one of the four
// known literals. Anything else is a contract violation.
func (s ScoreResponse) Validate() error {
	for name, v := range map[string]int{
		"final_score":        s.FinalScore,
		"source_reliability": s.SourceReliability,
		"evidence_strength":  s.EvidenceStrength,
		"consistency":        s.Consistency,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%s out of range: %d", name, v)
		}
	}
	switch s.Verdict {
	case VerdictVerified, VerdictFalse, VerdictMixed, VerdictUnverified:
		return nil
	}
	return fmt.Errorf("unknown verdict: %q", s.Verdict)
}

// UnverifiedScore is the deterministic fallback used whenever the scoring
// model is unreachable, misconfigured, or returns invalid output.
func UnverifiedScore() ScoreResponse {
	return ScoreResponse{Verdict: VerdictUnverified}
}

// Claim is a unit of information under evaluation
type Claim struct {
	ID        string         `json:"id,omitempty"`
	Text      string         `json:"text"`
	Source    string         `json:"source,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Status    ClaimStatus    `json:"status"`
	Evidence  []Evidence     `json:"evidence"`
	Score     *ScoreResponse `json:"score,omitempty"`
}

// NewClaim creates an unverified claim with the creation time defaulted
func NewClaim(text, source string) Claim {
	return Claim{
		Text:      text,
		Source:    source,
		Timestamp: time.Now().UTC(),
		Status:    StatusUnverified,
		Evidence:  []Evidence{},
	}
}

// AddEvidence appends one evidence entry. Evidence only grows during
// verification; existing entries are never mutated.
func (c *Claim) AddEvidence(source, content, url string) {
	c.Evidence = append(c.Evidence, Evidence{Source: source, Content: content, URL: url})
}

// CrisisAlert flags a claim whose text matched crisis vocabulary
type CrisisAlert struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Severity    string   `json:"severity"`
	Region      string   `json:"region,omitempty"`
	Verified    bool     `json:"verified"`
	Keywords    []string `json:"keywords"`
	Description string   `json:"description,omitempty"`
}

// CrisisResponse is recomputed on each request, never persisted
type CrisisResponse struct {
	CrisisDetected     bool          `json:"crisis_detected"`
	Alerts             []CrisisAlert `json:"alerts"`
	RecommendedActions []string      `json:"recommended_actions"`
}

// ScanRequest triggers a background scan of a source
type ScanRequest struct {
	SourceURL string `json:"source_url"`
}

// ScoreRequest scores an arbitrary claim text plus evidence directly,
// bypassing the scanner and verifier
type ScoreRequest struct {
	ClaimID   string     `json:"claim_id,omitempty"`
	ClaimText string     `json:"claim_text"`
	Evidence  []Evidence `json:"evidence"`
}

// ExplainRequest asks for a natural-language explanation of a verdict
type ExplainRequest struct {
	ClaimText string `json:"claim_text"`
	Verdict   string `json:"verdict"`
	Lang      string `json:"lang,omitempty"`
}

type ExplainResponse struct {
	Explanation string `json:"explanation"`
}

// NewsResponse carries a category scan without persisting its results
type NewsResponse struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Articles []Claim `json:"articles"`
}

// VerifyResult is the response to a verification request; fields are set
// depending on which inputs (text, link, image) were supplied
type VerifyResult struct {
	Claim         *Claim         `json:"claim"`
	Score         *ScoreResponse `json:"score"`
	ImageAnalysis *ImageAnalysis `json:"image_analysis"`
}
