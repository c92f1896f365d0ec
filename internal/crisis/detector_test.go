package crisis

import (
	"testing"

	"github.com/cruxlabs/cruxd/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetector_Detect_EarthquakeKeyword(t *testing.T) {
	detector := NewDetector()

	tests := []struct {
		name string
		text string
	}{
		{name: "Lowercase", text: "earthquake hits coastal region"},
		{name: "Uppercase", text: "EARTHQUAKE Hits Coastal Region"},
		{name: "Mixed case", text: "Major Earthquake reported overnight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := detector.Detect([]models.Claim{models.NewClaim(tt.text, "test")})

			assert.True(t, resp.CrisisDetected)
			require.Len(t, resp.Alerts, 1)
			assert.Contains(t, resp.Alerts[0].Keywords, "earthquake")
			assert.Equal(t, "HIGH", resp.Alerts[0].Severity)
			assert.Equal(t, "Unknown", resp.Alerts[0].Region)
			assert.Equal(t, tt.text, resp.Alerts[0].Description)
		})
	}
}

func TestDetector_Detect_NoMatches(t *testing.T) {
	detector := NewDetector()

	resp := detector.Detect([]models.Claim{
		models.NewClaim("Local bakery wins regional pastry contest", "test"),
		models.NewClaim("New library opens downtown", "test"),
	})

	assert.False(t, resp.CrisisDetected)
	assert.Empty(t, resp.Alerts)
	assert.Empty(t, resp.RecommendedActions)
}

func TestDetector_Detect_KeywordsInListOrder(t *testing.T) {
	detector := NewDetector()

	// "war" precedes "missile" in the keyword list even though the text
	// mentions them in the opposite order
	resp := detector.Detect([]models.Claim{
		models.NewClaim("Missile strikes escalate the war", "test"),
	})

	require.Len(t, resp.Alerts, 1)
	assert.Equal(t, []string{"war", "strike", "missile"}, resp.Alerts[0].Keywords)
}

func TestDetector_Detect_VerifiedMirrorsClaimStatus(t *testing.T) {
	detector := NewDetector()

	verified := models.NewClaim("Flood warning issued for valley towns", "test")
	verified.Status = models.StatusVerified
	unverified := models.NewClaim("Tsunami watch lifted", "test")

	resp := detector.Detect([]models.Claim{verified, unverified})

	require.Len(t, resp.Alerts, 2)
	assert.True(t, resp.Alerts[0].Verified)
	assert.False(t, resp.Alerts[1].Verified)
	assert.Equal(t, []string{"Monitor situation", "Verify sources"}, resp.RecommendedActions)
}

func TestDetector_Detect_Idempotent(t *testing.T) {
	detector := NewDetector()
	claims := []models.Claim{
		models.NewClaim("Wildfire forces evacuations", "test"),
		models.NewClaim("Quiet day in local politics", "test"),
	}

	first := detector.Detect(claims)
	second := detector.Detect(claims)

	assert.Equal(t, first.CrisisDetected, second.CrisisDetected)
	require.Len(t, second.Alerts, len(first.Alerts))
	for i := range first.Alerts {
		assert.Equal(t, first.Alerts[i].Keywords, second.Alerts[i].Keywords)
		assert.Equal(t, first.Alerts[i].ID, second.Alerts[i].ID)
	}
}

func TestAlertID_DeterministicPerText(t *testing.T) {
	assert.Equal(t, alertID("same text"), alertID("same text"))
	assert.NotEqual(t, alertID("one claim"), alertID("another claim"))
}
