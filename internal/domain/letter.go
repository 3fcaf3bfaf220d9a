package domain

import "time"

// EstimatedMinutesPerLetter is the fixed time-saved credit for one generated letter.
const EstimatedMinutesPerLetter = 30

// CoverLetter is a generated letter owned by a single user. Immutable once stored.
type CoverLetter struct {
	ID             string
	UserID         string
	CompanyName    string
	JobTitle       string
	JobDescription string
	Content        string
	CreatedAt      time.Time
}

// UsageStats summarizes a user's generation activity.
type UsageStats struct {
	TotalGenerated        int
	GeneratedLast14Days   int
	EstimatedMinutesSaved int
}
