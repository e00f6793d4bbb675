package services

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// FormValue carries a raw scalar from the registration payload. Multipart
// form fields always arrive as text; JSON payloads may carry the same field
// as a string, number, or boolean. FormValue keeps the raw text either way
// and leaves coercion to the profile builders.
type FormValue string

func (v *FormValue) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = FormValue(s)
		return nil
	}
	// numbers and booleans keep their literal text
	*v = FormValue(strings.TrimSpace(string(b)))
	return nil
}

func (v FormValue) String() string {
	return strings.TrimSpace(string(v))
}

func (v FormValue) Empty() bool {
	return v.String() == ""
}

// StringSet accepts a single string or a collection and normalizes to a
// de-duplicated set with order preserved.
type StringSet []string

func (s *StringSet) UnmarshalJSON(b []byte) error {
	var many []string
	if err := json.Unmarshal(b, &many); err == nil {
		*s = many
		return nil
	}
	var one string
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	if one == "" {
		*s = nil
		return nil
	}
	*s = StringSet{one}
	return nil
}

// Normalize trims entries, drops empties, and removes duplicates while
// preserving first-seen order.
func (s StringSet) Normalize() []string {
	seen := make(map[string]struct{}, len(s))
	out := make([]string, 0, len(s))
	for _, v := range s {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// CandidateForm is the nested candidate.* registration group. All fields
// are optional; absent values produce a profile with empty/neutral values.
type CandidateForm struct {
	FullName        FormValue `json:"fullName"`
	Phone           FormValue `json:"phone"`
	Location        FormValue `json:"location"`
	DesiredRole     FormValue `json:"desiredRole"`
	YearsExperience FormValue `json:"yearsExperience"`
	Skills          FormValue `json:"skills"`
	Education       FormValue `json:"education"`
	Industries      StringSet `json:"industries"`
	Salary          FormValue `json:"salaryExpectation"`
	AvailableFrom   FormValue `json:"availableFrom"`
	VisaStatus      FormValue `json:"visaStatus"`
	Portfolio       FormValue `json:"portfolio"`
	LinkedIn        FormValue `json:"linkedin"`
	OpenToWork      FormValue `json:"openToWork"`
}

// CompanyForm is the nested company.* registration group.
type CompanyForm struct {
	Name         FormValue `json:"name"`
	Description  FormValue `json:"description"`
	Website      FormValue `json:"website"`
	Size         FormValue `json:"size"`
	FoundedYear  FormValue `json:"foundedYear"`
	Industries   StringSet `json:"industries"`
	Location     FormValue `json:"location"`
	ContactEmail FormValue `json:"contactEmail"`
	ContactPhone FormValue `json:"contactPhone"`
}

// Empty reports whether no organizational data was supplied, which steers
// the nextStep hint for employers.
func (f *CompanyForm) Empty() bool {
	if f == nil {
		return true
	}
	return f.Name.Empty() && f.Description.Empty() && f.Website.Empty() &&
		f.Size.Empty() && f.FoundedYear.Empty() && len(f.Industries) == 0 &&
		f.Location.Empty() && f.ContactEmail.Empty() && f.ContactPhone.Empty()
}

// --- coercion helpers ---

// parseOptionalBool coerces "true"/"false" text; the empty value is false.
func parseOptionalBool(v FormValue) (bool, error) {
	s := v.String()
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(strings.ToLower(s))
}

// parseOptionalFloat coerces numeric text; the empty value is nil.
func parseOptionalFloat(v FormValue) (*float64, error) {
	s := v.String()
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// parseOptionalInt coerces integer text; the empty value is nil.
func parseOptionalInt(v FormValue) (*int, error) {
	s := v.String()
	if s == "" {
		return nil, nil
	}
	// tolerate a JSON number that arrived as "1995.0"
	if i := strings.IndexByte(s, '.'); i >= 0 && strings.Trim(s[i+1:], "0") == "" {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// parseOptionalDate coerces date text; the empty value is nil.
func parseOptionalDate(v FormValue) (*time.Time, error) {
	s := v.String()
	if s == "" {
		return nil, nil
	}
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return &t, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
