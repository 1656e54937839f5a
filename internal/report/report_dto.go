package report

type RangeQuery struct {
	Start string `form:"start" binding:"required,datetime=2006-01-02"`
	End   string `form:"end" binding:"required,datetime=2006-01-02"`
}

type PreviewResponse struct {
	FileName string  `json:"fileName"`
	Start    string  `json:"start"`
	End      string  `json:"end"`
	Sheets   []Sheet `json:"sheets"`
}

// Export is a rendered workbook ready to download.
type Export struct {
	FileName string
	Body     []byte
}
