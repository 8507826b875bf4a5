package jobs

import (
	"encoding/json"
	"time"
)

type Analysis struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	JobURL       string          `json:"jobUrl,omitempty"`
	JobTitle     string          `json:"jobTitle"`
	CompanyName  string          `json:"companyName"`
	AnalysisData json.RawMessage `json:"analysisData"`
	CreatedAt    time.Time       `json:"createdAt"`
}
