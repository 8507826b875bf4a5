package profiles

import (
	"encoding/json"
	"time"
)

type Profile struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	ProfileData json.RawMessage `json:"profileData"`
	Version     int             `json:"version"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// EmptyProfileData is the structure returned when a user has no profile yet.
func EmptyProfileData() json.RawMessage {
	return json.RawMessage(`{
  "personal_info": {},
  "professional_summary": "",
  "technical_skills": {},
  "soft_skills": [],
  "work_experience": [],
  "education": [],
  "projects": [],
  "certifications": [],
  "languages": []
}`)
}
