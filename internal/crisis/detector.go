package crisis

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/cruxlabs/cruxd/internal/models"
)

// crisisKeywords spans disaster, conflict, and emergency vocabulary.
// Matching is a case-insensitive substring check; alert keywords are
// reported in this order.
var crisisKeywords = []string{
	"earthquake", "pandemic", "violence", "tsunami", "terror", "flood", "war", "attack", "assassinated",
	"airstrike", "conflict", "dead", "killed", "crisis", "warning", "strike", "military", "navy",
	"russia", "israel", "lebanon", "gaza", "ukraine", "iran", "missile", "bomb", "blast", "explosion",
	"fire", "wildfire", "storm", "hurricane", "tornado", "typhoon", "cyclone", "weather", "heat",
	"emergency", "rescue", "police", "arrest", "shoot", "gun", "crime", "murder", "crash", "accident",
	"disaster", "danger", "threat", "alert", "breaking",
}

var recommendedActions = []string{"Monitor situation", "Verify sources"}

// Detector scans claim batches for crisis-related vocabulary.
// It is pure: no side effects, no network access.
type Detector struct{}

// NewDetector creates a new crisis detector
func NewDetector() *Detector {
	return &Detector{}
}

// Detect emits one alert per claim whose text contains any crisis keyword.
// Alert ordering follows the scanned claim order.
func (d *Detector) Detect(claims []models.Claim) models.CrisisResponse {
	alerts := []models.CrisisAlert{}

	for _, claim := range claims {
		text := strings.ToLower(claim.Text)
		var matched []string
		for _, keyword := range crisisKeywords {
			if strings.Contains(text, keyword) {
				matched = append(matched, keyword)
			}
		}
		if len(matched) == 0 {
			continue
		}

		alerts = append(alerts, models.CrisisAlert{
			ID:          alertID(claim.Text),
			Title:       "Potential Crisis Detected",
			Severity:    "HIGH",    // no real severity classification
			Region:      "Unknown", // would need NER for this
			Verified:    claim.Status == models.StatusVerified,
			Keywords:    matched,
			Description: claim.Text,
		})
	}

	resp := models.CrisisResponse{
		CrisisDetected:     len(alerts) > 0,
		Alerts:             alerts,
		RecommendedActions: []string{},
	}
	if resp.CrisisDetected {
		resp.RecommendedActions = recommendedActions
	}
	return resp
}

// alertID derives a stable identifier from the claim text. FNV-64a keeps it
// deterministic for identical text within a process run and across runs.
func alertID(text string) string {
	h := fnv.New64a()
	h.Write([]byte(text))
	return fmt.Sprintf("%016x", h.Sum64())
}
