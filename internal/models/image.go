package models

// AIDetection is the AI-generation likelihood verdict for an uploaded image
type AIDetection struct {
	AIProbability   float64            `json:"ai_probability"`
	RealProbability float64            `json:"real_probability"`
	Verdict         string             `json:"verdict"`
	Confidence      string             `json:"confidence"`
	Model           string             `json:"model"`
	Details         map[string]float64 `json:"details,omitempty"`
}

// ImageDescription is a caption for an uploaded image
type ImageDescription struct {
	Description string `json:"description"`
	Model       string `json:"model"`
	Confidence  string `json:"confidence"`
}

// ReverseSearchResult points at a search engine where the image can be traced
type ReverseSearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Source  string `json:"source"`
	Snippet string `json:"snippet"`
}

// ImageMetadata holds basic image properties. Absence of embedded camera
// metadata is a commonly cited signal for synthetic imagery.
type ImageMetadata struct {
	Format  string `json:"format,omitempty"`
	Size    string `json:"size,omitempty"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	HasEXIF bool   `json:"has_exif"`
	Note    string `json:"note,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ImageAnalysis is the combined result of all image checks
type ImageAnalysis struct {
	AIDetection   AIDetection           `json:"ai_detection"`
	ReverseSearch []ReverseSearchResult `json:"reverse_search"`
	Description   ImageDescription      `json:"description"`
	Metadata      ImageMetadata         `json:"metadata"`
}
