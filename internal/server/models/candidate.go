package models

import "time"

// Experience bands a candidate may claim, in years.
var ExperienceBands = []string{"0-1", "1-3", "3-5", "5-10", "10+"}

// Work-authorization statuses.
var VisaStatuses = []string{"citizen", "permanent-resident", "work-visa", "needs-sponsorship"}

// CandidateProfile holds the role-specific data for a candidate account,
// owned 1:1 by its Account. Every optional field defaults to an empty or
// neutral value so a profile can be created from a minimal registration
// payload and completed later.
type CandidateProfile struct {
	ID                string
	AccountID         string
	FullName          string
	Phone             string
	Location          string
	DesiredRole       string
	ExperienceBand    string
	Skills            string
	Education         string
	Industries        []string
	SalaryExpectation *float64
	AvailableFrom     *time.Time
	VisaStatus        string
	ResumePath        string
	PortfolioURL      string
	LinkedInURL       string
	OpenToWork        bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ValidExperienceBand accepts the empty string (band not stated yet).
func ValidExperienceBand(band string) bool {
	if band == "" {
		return true
	}
	for _, b := range ExperienceBands {
		if b == band {
			return true
		}
	}
	return false
}

// ValidVisaStatus accepts the empty string (status not stated yet).
func ValidVisaStatus(status string) bool {
	if status == "" {
		return true
	}
	for _, s := range VisaStatuses {
		if s == status {
			return true
		}
	}
	return false
}
