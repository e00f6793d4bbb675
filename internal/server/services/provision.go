// Package services contains the server-side business logic. This file
// implements the account provisioning workflow: creating an Account and its
// role-specific Profile as one logical operation over a store without
// multi-document transactions, with compensating cleanup on partial
// failure.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avolkovs/talentdesk/internal/common"
	"github.com/avolkovs/talentdesk/internal/dbx"
	"github.com/avolkovs/talentdesk/internal/logging"
	"github.com/avolkovs/talentdesk/internal/server/auth"
	"github.com/avolkovs/talentdesk/internal/server/config"
	"github.com/avolkovs/talentdesk/internal/server/federation"
	"github.com/avolkovs/talentdesk/internal/server/models"
	"github.com/avolkovs/talentdesk/internal/server/repositories/repomanager"
	"github.com/avolkovs/talentdesk/internal/server/uploads"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

// Next-step hints returned to the client after a successful registration.
const (
	NextStepDashboard      = "dashboard"
	NextStepCompanyProfile = "complete-company-profile"
	ProfileTypeCandidate   = "candidate"
	ProfileTypeEmployer    = "employer"
)

// Credential is the resolved authentication mode, selected before any side
// effect.
type Credential interface {
	credential()
}

// LocalCredential is a password run through bcrypt.
type LocalCredential struct {
	PasswordHash string
}

// FederatedCredential is a verified external identity; no local password
// exists for the account.
type FederatedCredential struct {
	Provider string
	Subject  string
}

func (LocalCredential) credential() {}

func (FederatedCredential) credential() {}

// TokenPair bundles a short-lived access token and a long-lived refresh
// token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RegistrationRequest is the validated transport-agnostic input of the
// provisioning workflow. Exactly one of Password or Assertion is expected;
// Uploads maps a purpose to already-stored object keys.
type RegistrationRequest struct {
	Email      string         `json:"email" binding:"required,email"`
	Password   string         `json:"password"`
	Assertion  string         `json:"assertion"`
	GivenName  string         `json:"givenName"`
	FamilyName string         `json:"familyName"`
	Phone      string         `json:"phone"`
	Role       string         `json:"role" binding:"required"`
	Candidate  *CandidateForm `json:"candidate"`
	Company    *CompanyForm   `json:"company"`

	Uploads map[string][]string `json:"-"`
}

// ProvisionResult is the discriminated outcome of a successful
// registration: exactly one of Candidate/Employer is set for those roles,
// neither for administrators.
type ProvisionResult struct {
	Account              *models.Account
	Candidate            *models.CandidateProfile
	Employer             *models.EmployerProfile
	ProfileType          string
	Tokens               *TokenPair
	RegistrationComplete bool
	NextStep             string
}

// AccountService implements provisioning and session operations over the
// repository manager.
type AccountService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	verifier                     federation.Verifier
	files                        uploads.Store
	notifier                     *Notifier
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	bcryptCost                   int
}

// NewAccountService constructs an AccountService from its collaborators and
// server config.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, verifier federation.Verifier,
	files uploads.Store, notifier *Notifier, logger logging.Logger, cfg *config.Config) *AccountService {
	return &AccountService{
		db:                           db,
		repomanager:                  m,
		verifier:                     verifier,
		files:                        files,
		notifier:                     notifier,
		logger:                       logger.With("module", "accounts"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		bcryptCost:                   cfg.BcryptCost,
	}
}

var validate = validator.New()

// Provision runs the registration workflow:
//
//	Validating → CreatingAccount → CreatingProfile → Success
//	                             ↘ (profile failed) RollingBackAccount → Failed
//
// The account insert and the profile insert are not one atomic unit; on an
// observed profile failure the account (and any stored uploads) are
// deleted before the error is reported, so no headless account survives.
// A crash between the two writes can still leave an orphan — accepted and
// documented, not silently repaired here.
func (s *AccountService) Provision(ctx context.Context, req *RegistrationRequest) (*ProvisionResult, error) {
	cred, identity, err := s.resolveCredential(ctx, req)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" && identity != nil {
		email = strings.ToLower(strings.TrimSpace(identity.Email))
	}
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, &common.RequestError{Message: "a valid email address is required"}
	}
	if !models.ValidRole(req.Role) {
		return nil, &common.RequestError{Message: fmt.Sprintf("unknown role %q", req.Role)}
	}

	account := &models.Account{
		Email:      email,
		GivenName:  strings.TrimSpace(req.GivenName),
		FamilyName: strings.TrimSpace(req.FamilyName),
		Phone:      strings.TrimSpace(req.Phone),
		Role:       req.Role,
	}
	switch c := cred.(type) {
	case LocalCredential:
		account.PasswordHash = c.PasswordHash
		account.Provider = models.ProviderLocal
		account.VerifyToken = uuid.NewString()
	case FederatedCredential:
		account.Provider = models.ProviderFederated
		account.EmailVerified = true
	}
	if identity != nil {
		if account.GivenName == "" {
			account.GivenName = identity.GivenName
		}
		if account.FamilyName == "" {
			account.FamilyName = identity.FamilyName
		}
	}

	repo := s.repomanager.Accounts(s.db)

	// Fast feedback only; the unique index decides the race.
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrAccountExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	created, err := repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	tokens, err := s.generateTokenPair(created)
	if err != nil {
		return nil, s.rollback(ctx, created, req.Uploads, err)
	}

	// Profile creation and refresh-token persistence touch disjoint
	// records and run concurrently; both must finish before we answer.
	var candidate *models.CandidateProfile
	var employer *models.EmployerProfile

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		switch created.Role {
		case models.RoleCandidate:
			p, err := buildCandidateProfile(created.ID, req.Candidate, req.Uploads)
			if err != nil {
				return err
			}
			candidate, err = s.repomanager.CandidateProfiles(s.db).Create(gctx, p)
			return err
		case models.RoleEmployer:
			p, err := buildEmployerProfile(created.ID, req.Company, req.Uploads)
			if err != nil {
				return err
			}
			employer, err = s.repomanager.EmployerProfiles(s.db).Create(gctx, p)
			return err
		}
		return nil
	})
	g.Go(func() error {
		return repo.UpdateRefreshToken(gctx, created.ID, tokens.RefreshToken)
	})

	if err := g.Wait(); err != nil {
		return nil, s.rollback(ctx, created, req.Uploads, err)
	}
	created.RefreshToken = tokens.RefreshToken

	result := &ProvisionResult{
		Account:  created,
		Tokens:   tokens,
		NextStep: NextStepDashboard,
	}
	switch {
	case candidate != nil:
		result.Candidate = candidate
		result.ProfileType = ProfileTypeCandidate
		result.RegistrationComplete = true
	case employer != nil:
		result.Employer = employer
		result.ProfileType = ProfileTypeEmployer
		result.RegistrationComplete = true
		if req.Company.Empty() {
			result.NextStep = NextStepCompanyProfile
		}
	}

	if s.notifier != nil {
		s.notifier.Enqueue(Notification{
			Kind:      NotificationWelcome,
			Recipient: created.Email,
			Token:     created.VerifyToken,
		})
	}

	s.logger.Info(ctx, "account provisioned", "account_id", created.ID, "role", created.Role)
	return result, nil
}

// resolveCredential picks the credential variant before any side effect.
// An identity assertion wins over a password; without either the request
// is rejected.
func (s *AccountService) resolveCredential(ctx context.Context, req *RegistrationRequest) (Credential, *federation.Assertion, error) {
	if req.Assertion != "" {
		identity, err := s.verifier.Verify(ctx, req.Assertion)
		if err != nil {
			return nil, nil, err
		}
		return FederatedCredential{Provider: identity.Provider, Subject: identity.Subject}, identity, nil
	}

	if req.Password == "" {
		return nil, nil, common.ErrPasswordMissing
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hashing password: %w", err)
	}
	return LocalCredential{PasswordHash: string(hash)}, nil, nil
}

// rollback deletes the just-created account and any uploaded objects stored
// for this registration, then returns cause with rollback failures
// appended. errors.Is/As still match cause through the combined error.
func (s *AccountService) rollback(ctx context.Context, account *models.Account, uploaded map[string][]string, cause error) error {
	s.logger.Warn(ctx, "rolling back account after failed provisioning",
		"account_id", account.ID, "cause", cause.Error())

	err := cause
	if delErr := s.repomanager.Accounts(s.db).Delete(ctx, account.ID); delErr != nil {
		err = multierr.Append(err, fmt.Errorf("rollback account %s: %w", account.ID, delErr))
	}
	if s.files != nil {
		for _, keys := range uploaded {
			for _, key := range keys {
				if rmErr := s.files.Remove(ctx, key); rmErr != nil {
					err = multierr.Append(err, fmt.Errorf("rollback upload %s: %w", key, rmErr))
				}
			}
		}
	}
	return err
}

// generateTokenPair mints the access/refresh pair for an account. The
// access token also carries email and role for authorization without a
// re-fetch.
func (s *AccountService) generateTokenPair(account *models.Account) (*TokenPair, error) {
	access, err := auth.GenerateAccessToken(account.ID, account.Email, account.Role,
		s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := auth.GenerateRefreshToken(account.ID, s.jwtSecret, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// issueTokenPair mints a pair and persists the refresh token onto the
// account within the given handle.
func (s *AccountService) issueTokenPair(ctx context.Context, account *models.Account, db dbx.DBTX) (*TokenPair, error) {
	pair, err := s.generateTokenPair(account)
	if err != nil {
		return nil, err
	}
	if err := s.repomanager.Accounts(db).UpdateRefreshToken(ctx, account.ID, pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("persisting refresh token: %w", err)
	}
	return pair, nil
}

func firstUpload(uploaded map[string][]string, purpose string) string {
	if keys := uploaded[purpose]; len(keys) > 0 {
		return keys[0]
	}
	return ""
}

// buildCandidateProfile shapes the candidate profile from the nested form
// group, defaulting every absent field to an empty or neutral value.
func buildCandidateProfile(accountID string, form *CandidateForm, uploaded map[string][]string) (*models.CandidateProfile, error) {
	if form == nil {
		form = &CandidateForm{}
	}
	verr := common.NewValidationError()

	p := &models.CandidateProfile{
		AccountID:    accountID,
		FullName:     form.FullName.String(),
		Phone:        form.Phone.String(),
		Location:     form.Location.String(),
		DesiredRole:  form.DesiredRole.String(),
		Skills:       form.Skills.String(),
		Education:    form.Education.String(),
		Industries:   form.Industries.Normalize(),
		ResumePath:   firstUpload(uploaded, uploads.PurposeResume),
		PortfolioURL: form.Portfolio.String(),
		LinkedInURL:  form.LinkedIn.String(),
	}

	if band := form.YearsExperience.String(); !models.ValidExperienceBand(band) {
		verr.Add("candidate.yearsExperience",
			fmt.Sprintf("must be one of %s", strings.Join(models.ExperienceBands, ", ")))
	} else {
		p.ExperienceBand = band
	}

	if visa := form.VisaStatus.String(); !models.ValidVisaStatus(visa) {
		verr.Add("candidate.visaStatus",
			fmt.Sprintf("must be one of %s", strings.Join(models.VisaStatuses, ", ")))
	} else {
		p.VisaStatus = visa
	}

	if salary, err := parseOptionalFloat(form.Salary); err != nil {
		verr.Add("candidate.salaryExpectation", "must be a number")
	} else if salary != nil && *salary < 0 {
		verr.Add("candidate.salaryExpectation", "must be non-negative")
	} else {
		p.SalaryExpectation = salary
	}

	if available, err := parseOptionalDate(form.AvailableFrom); err != nil {
		verr.Add("candidate.availableFrom", "must be a date (YYYY-MM-DD)")
	} else {
		p.AvailableFrom = available
	}

	if open, err := parseOptionalBool(form.OpenToWork); err != nil {
		verr.Add("candidate.openToWork", "must be true or false")
	} else {
		p.OpenToWork = open
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return p, nil
}

// buildEmployerProfile shapes the employer profile from the nested form
// group. Verified always starts false; only an administrator flips it.
func buildEmployerProfile(accountID string, form *CompanyForm, uploaded map[string][]string) (*models.EmployerProfile, error) {
	if form == nil {
		form = &CompanyForm{}
	}
	verr := common.NewValidationError()

	p := &models.EmployerProfile{
		AccountID:    accountID,
		CompanyName:  form.Name.String(),
		Description:  form.Description.String(),
		Website:      form.Website.String(),
		LogoPath:     firstUpload(uploaded, uploads.PurposeLogo),
		Industries:   form.Industries.Normalize(),
		Location:     form.Location.String(),
		ContactEmail: form.ContactEmail.String(),
		ContactPhone: form.ContactPhone.String(),
	}

	if band := form.Size.String(); !models.ValidSizeBand(band) {
		verr.Add("company.size",
			fmt.Sprintf("must be one of %s", strings.Join(models.CompanySizeBands, ", ")))
	} else {
		p.SizeBand = band
	}

	if year, err := parseOptionalInt(form.FoundedYear); err != nil {
		verr.Add("company.foundedYear", "must be a year")
	} else if year != nil && (*year < models.FoundedYearMin || *year > time.Now().Year()) {
		verr.Add("company.foundedYear",
			fmt.Sprintf("must be between %d and %d", models.FoundedYearMin, time.Now().Year()))
	} else {
		p.FoundedYear = year
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return p, nil
}
