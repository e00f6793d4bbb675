package models

import "time"

// Company size bands, in headcount.
var CompanySizeBands = []string{"1-10", "11-50", "51-200", "201-500", "500+"}

// FoundedYearMin bounds EmployerProfile.FoundedYear from below; the upper
// bound is the current year at validation time.
const FoundedYearMin = 1800

// EmployerProfile holds the role-specific data for an employer account,
// owned 1:1 by its Account. Verified is administrator-controlled and
// always starts false.
type EmployerProfile struct {
	ID           string
	AccountID    string
	CompanyName  string
	Description  string
	Website      string
	LogoPath     string
	SizeBand     string
	FoundedYear  *int
	Industries   []string
	Location     string
	ContactEmail string
	ContactPhone string
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidSizeBand accepts the empty string (band not stated yet).
func ValidSizeBand(band string) bool {
	if band == "" {
		return true
	}
	for _, b := range CompanySizeBands {
		if b == band {
			return true
		}
	}
	return false
}
