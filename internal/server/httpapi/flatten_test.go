package httpapi

import (
	"mime/multipart"
	"net/url"
	"testing"

	"github.com/avolkovs/talentdesk/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestFromForm(t *testing.T) {
	form := url.Values{
		"email":                {"anna@example.com"},
		"password":             {"s3cret"},
		"role":                 {"candidate"},
		"candidate.fullName":   {"Anna Ozola"},
		"candidate.industries": {"it", "finance"},
		"candidate.openToWork": {"true"},
	}

	req, err := requestFromForm(form)
	require.NoError(t, err)

	assert.Equal(t, "anna@example.com", req.Email)
	assert.Equal(t, "candidate", req.Role)
	require.NotNil(t, req.Candidate)
	assert.Equal(t, "Anna Ozola", req.Candidate.FullName.String())
	assert.Equal(t, []string{"it", "finance"}, req.Candidate.Industries.Normalize())
	assert.Equal(t, "true", req.Candidate.OpenToWork.String())
	assert.Nil(t, req.Company)
}

func TestRequestFromForm_CompanyGroup(t *testing.T) {
	form := url.Values{
		"email":               {"hr@acme.example"},
		"role":                {"employer"},
		"company.name":        {"Acme"},
		"company.size":        {"51-200"},
		"company.foundedYear": {"1998"},
	}

	req, err := requestFromForm(form)
	require.NoError(t, err)

	require.NotNil(t, req.Company)
	assert.Equal(t, "Acme", req.Company.Name.String())
	assert.Equal(t, "51-200", req.Company.Size.String())
	assert.Equal(t, "1998", req.Company.FoundedYear.String())
	assert.Nil(t, req.Candidate)
}

func TestRequestFromForm_NoGroups(t *testing.T) {
	req, err := requestFromForm(url.Values{"email": {"a@b.example"}, "role": {"administrator"}})
	require.NoError(t, err)
	assert.Nil(t, req.Candidate)
	assert.Nil(t, req.Company)
}

func TestCheckUploads_UnknownField(t *testing.T) {
	form := &multipart.Form{File: map[string][]*multipart.FileHeader{
		"backdoor": {{Filename: "x.pdf", Size: 10}},
	}}

	err := checkUploads(form)
	var reqErr *common.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Contains(t, reqErr.Message, "backdoor")
}

func TestCheckUploads_PolicyApplied(t *testing.T) {
	form := &multipart.Form{File: map[string][]*multipart.FileHeader{
		"resume": {{Filename: "cv.pdf", Size: 10}},
		"logo":   {{Filename: "logo.bmp", Size: 10}},
	}}

	err := checkUploads(form)
	require.ErrorIs(t, err, common.ErrUploadRejected)
}
