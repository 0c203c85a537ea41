package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// BlobStore is the contract the registration workflow requires of the
// payment-evidence store. Implementations must treat paths as opaque keys.
type BlobStore interface {
	Upload(ctx context.Context, path string, r io.Reader) error
	Download(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}

// EvidenceContentTypes are the only accepted evidence uploads
var EvidenceContentTypes = []string{
	"image/jpeg",
	"image/png",
	"application/pdf",
}

const (
	// MaxEvidenceSize caps finance-side evidence uploads (10 MB)
	MaxEvidenceSize = 10 * 1024 * 1024
	// MaxSelfServiceEvidenceSize caps participant uploads (5 MB)
	MaxSelfServiceEvidenceSize = 5 * 1024 * 1024
)

// SniffContentType reads up to 512 bytes to detect the real content type,
// then seeks back so the caller can stream the whole file.
func SniffContentType(r io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := r.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}

// AllowedEvidenceType reports whether a sniffed content type is accepted
func AllowedEvidenceType(contentType string) bool {
	for _, t := range EvidenceContentTypes {
		if contentType == t {
			return true
		}
	}
	return false
}

// EvidencePath builds a collision-free blob key for a registration's
// evidence file: evidence/{userID}/{eventID}/{timestamp}_{uuid}{ext}
func EvidencePath(userID, eventID uint, originalName string) string {
	ext := filepath.Ext(originalName)
	name := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), uuid.New().String(), ext)
	return filepath.ToSlash(filepath.Join("evidence",
		fmt.Sprintf("%d", userID),
		fmt.Sprintf("%d", eventID),
		name,
	))
}
