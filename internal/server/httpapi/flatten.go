package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/avolkovs/talentdesk/internal/common"
	"github.com/avolkovs/talentdesk/internal/server/services"
	"github.com/avolkovs/talentdesk/internal/server/uploads"
)

// Multipart payloads flatten the nested registration groups into dotted
// keys ("candidate.fullName", "company.size"). requestFromForm regroups
// them and funnels the result through the same JSON decoding the
// application/json path uses, so both content types share one coercion
// story.
func requestFromForm(form url.Values) (*services.RegistrationRequest, error) {
	req := &services.RegistrationRequest{
		Email:      form.Get("email"),
		Password:   form.Get("password"),
		Assertion:  form.Get("assertion"),
		GivenName:  form.Get("givenName"),
		FamilyName: form.Get("familyName"),
		Phone:      form.Get("phone"),
		Role:       form.Get("role"),
	}

	candidate := map[string]any{}
	company := map[string]any{}
	for key, values := range form {
		if rest, ok := strings.CutPrefix(key, "candidate."); ok {
			setGroupField(candidate, rest, values)
		} else if rest, ok := strings.CutPrefix(key, "company."); ok {
			setGroupField(company, rest, values)
		}
	}

	if len(candidate) > 0 {
		req.Candidate = &services.CandidateForm{}
		if err := regroup(candidate, req.Candidate); err != nil {
			return nil, &common.RequestError{Message: "malformed candidate fields: " + err.Error()}
		}
	}
	if len(company) > 0 {
		req.Company = &services.CompanyForm{}
		if err := regroup(company, req.Company); err != nil {
			return nil, &common.RequestError{Message: "malformed company fields: " + err.Error()}
		}
	}
	return req, nil
}

// setGroupField keeps a repeated form key as a list and a single one as a
// scalar.
func setGroupField(group map[string]any, field string, values []string) {
	if len(values) > 1 {
		group[field] = values
		return
	}
	group[field] = values[0]
}

func regroup(group map[string]any, dst any) error {
	raw, err := json.Marshal(group)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// uploadFields maps the multipart file field name to its storage purpose.
// Candidate and employer registrations share the map; the accept policy is
// per purpose, not per role.
var uploadFields = map[string]string{
	"resume":       uploads.PurposeResume,
	"coverLetter":  uploads.PurposeCoverLetter,
	"certificates": uploads.PurposeCertificates,
	"profilePhoto": uploads.PurposeProfilePhoto,
	"logo":         uploads.PurposeLogo,
}

// checkUploads validates every file against the accept policy before any
// byte is stored, so a rejected third file does not leave the first two
// behind.
func checkUploads(form *multipart.Form) error {
	for field, headers := range form.File {
		purpose, ok := uploadFields[field]
		if !ok {
			return &common.RequestError{Message: fmt.Sprintf("unexpected file field %q", field)}
		}
		for _, h := range headers {
			if err := uploads.CheckPolicy(purpose, h.Filename, h.Size); err != nil {
				return err
			}
		}
	}
	return nil
}

// storeUploads writes the validated files and returns purpose-keyed object
// keys. On a mid-stream failure the keys stored so far are returned along
// with the error so the caller can clean them up.
func storeUploads(ctx context.Context, form *multipart.Form, store uploads.Store) (map[string][]string, error) {
	stored := map[string][]string{}
	for field, headers := range form.File {
		purpose := uploadFields[field]
		for _, h := range headers {
			f, err := h.Open()
			if err != nil {
				return stored, fmt.Errorf("opening %s: %w", h.Filename, err)
			}
			key, err := store.Put(ctx, purpose, h.Filename, h.Size, f)
			f.Close()
			if err != nil {
				return stored, err
			}
			stored[purpose] = append(stored[purpose], key)
		}
	}
	return stored, nil
}
