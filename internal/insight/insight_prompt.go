package insight

import (
	"encoding/json"
	"fmt"

	"go-otta/internal/domain"
)

const sampleSize = 50

// SampleLog is the reduced shape sent upstream.
type SampleLog struct {
	Employee string `json:"employee"`
	Date     string `json:"date"`
	Hours    string `json:"hours"`
	Start    string `json:"start"`
}

// Sample keeps the first 50 logs in ledger order. Start is the UTC clock
// time of the check-in.
func Sample(logs []domain.TimeLog) []SampleLog {
	n := len(logs)
	if n > sampleSize {
		n = sampleSize
	}
	out := make([]SampleLog, n)
	for i, l := range logs[:n] {
		hours := "Active"
		if m := l.Minutes(); m > 0 {
			hours = fmt.Sprintf("%.1f", float64(m)/60)
		}
		out[i] = SampleLog{
			Employee: l.UserName,
			Date:     l.Date,
			Hours:    hours,
			Start:    l.CheckIn.UTC().Format("15:04"),
		}
	}
	return out
}

func BuildPrompt(sample []SampleLog) (string, error) {
	data, err := json.Marshal(sample)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`You are an expert HR Analyst. Analyze the following attendance data for a company.
Provide a concise, premium-style summary of:
1. Overall attendance trends.
2. Any employees working excessive hours (burnout risk).
3. Any patterns of lateness (assuming 9:00 AM start).
4. A positive observation.

Data: %s

Format the response in professional markdown with clear headings. Keep it brief.`, data), nil
}
