package uploads

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/avolkovs/talentdesk/internal/common"
)

// Upload purposes accepted by the registration endpoint.
const (
	PurposeResume       = "resume"
	PurposeCoverLetter  = "coverLetter"
	PurposeCertificates = "certificates"
	PurposeProfilePhoto = "profilePhoto"
	PurposeLogo         = "logo"
)

// MaxFileSize is the per-file ceiling for all purposes.
const MaxFileSize = 10 << 20 // 10MB

var (
	documentExtensions = []string{".pdf", ".doc", ".docx"}
	imageExtensions    = []string{".jpg", ".jpeg", ".png", ".svg"}

	allowedExtensions = map[string][]string{
		PurposeResume:       documentExtensions,
		PurposeCoverLetter:  documentExtensions,
		PurposeCertificates: documentExtensions,
		PurposeProfilePhoto: imageExtensions,
		PurposeLogo:         imageExtensions,
	}
)

// CheckPolicy validates a file against the accept filter for its purpose
// before anything is stored. Violations wrap common.ErrUploadRejected.
func CheckPolicy(purpose, filename string, size int64) error {
	exts, ok := allowedExtensions[purpose]
	if !ok {
		return fmt.Errorf("%w: unknown upload purpose %q", common.ErrUploadRejected, purpose)
	}
	if size > MaxFileSize {
		return fmt.Errorf("%w: %s exceeds the %dMB limit", common.ErrUploadRejected, filename, MaxFileSize>>20)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range exts {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %s files are not accepted for %s (allowed: %s)",
		common.ErrUploadRejected, ext, purpose, strings.Join(exts, ", "))
}
