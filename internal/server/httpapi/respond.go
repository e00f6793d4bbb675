package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/avolkovs/talentdesk/internal/common"
	"github.com/avolkovs/talentdesk/internal/server/models"
	"github.com/avolkovs/talentdesk/internal/server/services"
	"github.com/gin-gonic/gin"
)

// Error categories exposed to clients. Registration failures all answer
// 400; the category is the stable contract that disambiguates them,
// messages are advisory.
const (
	categoryRequestRejected  = "request_rejected"
	categoryDuplicateAccount = "duplicate_account"
	categoryProfileInvalid   = "profile_validation_failed"
	categoryUploadRejected   = "upload_rejected"
	categoryUnauthorized     = "unauthorized"
	categoryNotFound         = "not_found"
	categoryStorage          = "storage_unavailable"
)

type errorBody struct {
	Category string   `json:"category"`
	Message  string   `json:"message"`
	Fields   []string `json:"fields,omitempty"`
	Debug    string   `json:"debug,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// respondError maps a service error to its HTTP status and category. Unknown
// errors are reported as a storage outage without leaking internals; DevMode
// attaches the underlying error text.
func (s *Server) respondError(c *gin.Context, err error) {
	var reqErr *common.RequestError
	var verr *common.ValidationError

	switch {
	case errors.As(err, &reqErr):
		s.respond(c, http.StatusBadRequest, categoryRequestRejected, reqErr.Message, nil, nil)
	case errors.Is(err, common.ErrPasswordMissing):
		s.respond(c, http.StatusBadRequest, categoryRequestRejected, common.ErrPasswordMissing.Error(), nil, nil)
	case errors.As(err, &verr):
		s.respond(c, http.StatusBadRequest, categoryProfileInvalid,
			"profile data failed validation", verr.Messages(), nil)
	case errors.Is(err, common.ErrAccountExists):
		s.respond(c, http.StatusBadRequest, categoryDuplicateAccount, common.ErrAccountExists.Error(), nil, nil)
	case errors.Is(err, common.ErrUploadRejected):
		s.respond(c, http.StatusBadRequest, categoryUploadRejected, err.Error(), nil, nil)
	case errors.Is(err, common.ErrInvalidAssertion):
		s.respond(c, http.StatusUnauthorized, categoryUnauthorized, common.ErrInvalidAssertion.Error(), nil, nil)
	case errors.Is(err, common.ErrRefreshTokenExpired):
		s.respond(c, http.StatusUnauthorized, categoryUnauthorized, common.ErrRefreshTokenExpired.Error(), nil, nil)
	case errors.Is(err, common.ErrTokenExpired):
		s.respond(c, http.StatusUnauthorized, categoryUnauthorized, common.ErrTokenExpired.Error(), nil, nil)
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorUnauthorized):
		s.respondUnauthorized(c, "authentication failed")
	case errors.Is(err, common.ErrorNotFound):
		s.respond(c, http.StatusNotFound, categoryNotFound, "not found", nil, nil)
	default:
		s.logger.Error(c.Request.Context(), "request failed", "error", err.Error())
		s.respond(c, http.StatusServiceUnavailable, categoryStorage,
			"a backing service is unavailable, try again later", nil, err)
	}
}

func (s *Server) respondUnauthorized(c *gin.Context, message string) {
	s.respond(c, http.StatusUnauthorized, categoryUnauthorized, message, nil, nil)
}

func (s *Server) respond(c *gin.Context, status int, category, message string, fields []string, cause error) {
	body := errorBody{Category: category, Message: message, Fields: fields}
	if cause != nil && s.config.DevMode {
		body.Debug = cause.Error()
	}
	c.JSON(status, errorResponse{Error: body})
}

// --- response views ---

type accountView struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	GivenName     string    `json:"givenName,omitempty"`
	FamilyName    string    `json:"familyName,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Role          string    `json:"role"`
	Provider      string    `json:"provider"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

func newAccountView(a *models.Account) accountView {
	return accountView{
		ID:            a.ID,
		Email:         a.Email,
		GivenName:     a.GivenName,
		FamilyName:    a.FamilyName,
		Phone:         a.Phone,
		Role:          a.Role,
		Provider:      a.Provider,
		EmailVerified: a.EmailVerified,
		CreatedAt:     a.CreatedAt,
	}
}

type candidateView struct {
	ID                string     `json:"id"`
	FullName          string     `json:"fullName,omitempty"`
	Phone             string     `json:"phone,omitempty"`
	Location          string     `json:"location,omitempty"`
	DesiredRole       string     `json:"desiredRole,omitempty"`
	ExperienceBand    string     `json:"yearsExperience,omitempty"`
	Skills            string     `json:"skills,omitempty"`
	Education         string     `json:"education,omitempty"`
	Industries        []string   `json:"industries,omitempty"`
	SalaryExpectation *float64   `json:"salaryExpectation,omitempty"`
	AvailableFrom     *time.Time `json:"availableFrom,omitempty"`
	VisaStatus        string     `json:"visaStatus,omitempty"`
	ResumePath        string     `json:"resumePath,omitempty"`
	PortfolioURL      string     `json:"portfolio,omitempty"`
	LinkedInURL       string     `json:"linkedin,omitempty"`
	OpenToWork        bool       `json:"openToWork"`
}

func newCandidateView(p *models.CandidateProfile) *candidateView {
	if p == nil {
		return nil
	}
	return &candidateView{
		ID:                p.ID,
		FullName:          p.FullName,
		Phone:             p.Phone,
		Location:          p.Location,
		DesiredRole:       p.DesiredRole,
		ExperienceBand:    p.ExperienceBand,
		Skills:            p.Skills,
		Education:         p.Education,
		Industries:        p.Industries,
		SalaryExpectation: p.SalaryExpectation,
		AvailableFrom:     p.AvailableFrom,
		VisaStatus:        p.VisaStatus,
		ResumePath:        p.ResumePath,
		PortfolioURL:      p.PortfolioURL,
		LinkedInURL:       p.LinkedInURL,
		OpenToWork:        p.OpenToWork,
	}
}

type employerView struct {
	ID           string   `json:"id"`
	CompanyName  string   `json:"name,omitempty"`
	Description  string   `json:"description,omitempty"`
	Website      string   `json:"website,omitempty"`
	SizeBand     string   `json:"size,omitempty"`
	FoundedYear  *int     `json:"foundedYear,omitempty"`
	LogoPath     string   `json:"logoPath,omitempty"`
	Industries   []string `json:"industries,omitempty"`
	Location     string   `json:"location,omitempty"`
	ContactEmail string   `json:"contactEmail,omitempty"`
	ContactPhone string   `json:"contactPhone,omitempty"`
	Verified     bool     `json:"verified"`
}

func newEmployerView(p *models.EmployerProfile) *employerView {
	if p == nil {
		return nil
	}
	return &employerView{
		ID:           p.ID,
		CompanyName:  p.CompanyName,
		Description:  p.Description,
		Website:      p.Website,
		SizeBand:     p.SizeBand,
		FoundedYear:  p.FoundedYear,
		LogoPath:     p.LogoPath,
		Industries:   p.Industries,
		Location:     p.Location,
		ContactEmail: p.ContactEmail,
		ContactPhone: p.ContactPhone,
		Verified:     p.Verified,
	}
}

type registrationResponse struct {
	Account              accountView          `json:"account"`
	ProfileType          string               `json:"profileType,omitempty"`
	Candidate            *candidateView       `json:"candidate,omitempty"`
	Employer             *employerView        `json:"employer,omitempty"`
	Tokens               *services.TokenPair  `json:"tokens"`
	RegistrationComplete bool                 `json:"registrationComplete"`
	NextStep             string               `json:"nextStep"`
}

func newRegistrationResponse(r *services.ProvisionResult) registrationResponse {
	return registrationResponse{
		Account:              newAccountView(r.Account),
		ProfileType:          r.ProfileType,
		Candidate:            newCandidateView(r.Candidate),
		Employer:             newEmployerView(r.Employer),
		Tokens:               r.Tokens,
		RegistrationComplete: r.RegistrationComplete,
		NextStep:             r.NextStep,
	}
}
