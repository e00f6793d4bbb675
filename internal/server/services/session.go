package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/avolkovs/talentdesk/internal/common"
	"github.com/avolkovs/talentdesk/internal/dbx"
	"github.com/avolkovs/talentdesk/internal/server/auth"
	"github.com/avolkovs/talentdesk/internal/server/models"
	"golang.org/x/crypto/bcrypt"
)

// AccountDetails is an account together with its role profile, if one
// exists.
type AccountDetails struct {
	Account   *models.Account
	Candidate *models.CandidateProfile
	Employer  *models.EmployerProfile
}

// Login verifies a local password and issues a fresh token pair. All
// authentication failures collapse into common.ErrorUnauthorized so the
// response does not reveal whether the email is registered.
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.Account, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, err
	}

	// Federated accounts have no local password to check against.
	if account.Provider != models.ProviderLocal || account.PasswordHash == "" {
		return nil, nil, common.ErrorUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, nil, common.ErrorUnauthorized
	}

	pair, err := s.issueTokenPair(ctx, account, s.db)
	if err != nil {
		return nil, nil, err
	}
	account.RefreshToken = pair.RefreshToken

	s.logger.Info(ctx, "login succeeded", "account_id", account.ID)
	return account, pair, nil
}

// Refresh rotates a refresh token: the presented token must verify, match
// the one stored on the account, and not be expired. The stored token is
// read under a row lock so concurrent rotations serialize and a replayed
// token cannot mint two pairs.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := auth.ParseToken(refreshToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, common.ErrRefreshTokenExpired
		}
		return nil, common.ErrorUnauthorized
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		account, err := s.repomanager.Accounts(tx).GetByIDForUpdate(ctx, claims.AccountID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorUnauthorized
			}
			return err
		}
		if subtle.ConstantTimeCompare([]byte(account.RefreshToken), []byte(refreshToken)) != 1 {
			return common.ErrorUnauthorized
		}

		pair, err = s.issueTokenPair(ctx, account, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "refresh token rotated", "account_id", claims.AccountID)
	return pair, nil
}

// GetAccount loads an account with its role profile. A missing profile is
// not an error; the account may predate profile completion.
func (s *AccountService) GetAccount(ctx context.Context, accountID string) (*AccountDetails, error) {
	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	details := &AccountDetails{Account: account}
	switch account.Role {
	case models.RoleCandidate:
		p, err := s.repomanager.CandidateProfiles(s.db).GetByAccountID(ctx, account.ID)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("loading candidate profile: %w", err)
		}
		details.Candidate = p
	case models.RoleEmployer:
		p, err := s.repomanager.EmployerProfiles(s.db).GetByAccountID(ctx, account.ID)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("loading employer profile: %w", err)
		}
		details.Employer = p
	}
	return details, nil
}
