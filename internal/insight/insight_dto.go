package insight

type InsightResponse struct {
	Text       string `json:"text"`
	Generated  bool   `json:"generated"`
	SampleSize int    `json:"sampleSize"`
}
