package httpapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/avolkovs/talentdesk/internal/common"
	"github.com/avolkovs/talentdesk/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// registerAccount accepts either application/json or multipart/form-data.
// The multipart path stores the uploads first so the workflow receives
// stable object keys; if provisioning then fails, the keys are discarded
// again (object deletes are idempotent, so overlapping with the workflow's
// own rollback is harmless).
func (s *Server) registerAccount(c *gin.Context) {
	ctx := c.Request.Context()

	var req *services.RegistrationRequest
	var stored map[string][]string

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		form, err := c.MultipartForm()
		if err != nil {
			s.respondError(c, &common.RequestError{Message: "malformed multipart payload"})
			return
		}

		req, err = requestFromForm(url.Values(form.Value))
		if err != nil {
			s.respondError(c, err)
			return
		}

		if err := checkUploads(form); err != nil {
			s.respondError(c, err)
			return
		}

		stored, err = storeUploads(ctx, form, s.files)
		if err != nil {
			s.discardUploads(ctx, stored)
			s.respondError(c, err)
			return
		}
		req.Uploads = stored
	} else {
		var body services.RegistrationRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			s.respondError(c, &common.RequestError{Message: "malformed registration payload: " + err.Error()})
			return
		}
		req = &body
	}

	result, err := s.service.Provision(ctx, req)
	if err != nil {
		s.discardUploads(ctx, stored)
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newRegistrationResponse(result))
}

func (s *Server) discardUploads(ctx context.Context, stored map[string][]string) {
	for _, keys := range stored {
		for _, key := range keys {
			if err := s.files.Remove(ctx, key); err != nil {
				s.logger.Warn(ctx, "failed to discard upload", "key", key, "error", err.Error())
			}
		}
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var body loginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.respondError(c, &common.RequestError{Message: "email and password are required"})
		return
	}

	account, pair, err := s.service.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account": newAccountView(account),
		"tokens":  pair,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (s *Server) refreshSession(c *gin.Context) {
	var body refreshRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.respondError(c, &common.RequestError{Message: "refreshToken is required"})
		return
	}

	pair, err := s.service.Refresh(c.Request.Context(), body.RefreshToken)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": pair})
}

func (s *Server) currentAccount(c *gin.Context) {
	accountID := c.GetString(ctxAccountID)

	details, err := s.service.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	resp := gin.H{"account": newAccountView(details.Account)}
	if details.Candidate != nil {
		resp["candidate"] = newCandidateView(details.Candidate)
	}
	if details.Employer != nil {
		resp["employer"] = newEmployerView(details.Employer)
	}
	c.JSON(http.StatusOK, resp)
}
