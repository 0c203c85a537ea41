package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"apcb-events/internal/core/domain"
)

func TestEvidencePath(t *testing.T) {
	p1 := EvidencePath(10, 3, "receipt.PDF")
	p2 := EvidencePath(10, 3, "receipt.PDF")

	if !strings.HasPrefix(p1, "evidence/10/3/") {
		t.Errorf("path = %s, want evidence/10/3/ prefix", p1)
	}
	if !strings.HasSuffix(p1, ".PDF") {
		t.Errorf("path = %s, want original extension preserved", p1)
	}
	if p1 == p2 {
		t.Error("two uploads of the same file must get distinct keys")
	}
	if strings.Contains(p1, "\\") {
		t.Errorf("path must use forward slashes: %s", p1)
	}
}

func TestAllowedEvidenceType(t *testing.T) {
	for _, ct := range []string{"image/jpeg", "image/png", "application/pdf"} {
		if !AllowedEvidenceType(ct) {
			t.Errorf("AllowedEvidenceType(%s) = false, want true", ct)
		}
	}
	for _, ct := range []string{"image/gif", "text/html", "application/zip", ""} {
		if AllowedEvidenceType(ct) {
			t.Errorf("AllowedEvidenceType(%s) = true, want false", ct)
		}
	}
}

func TestSniffContentType(t *testing.T) {
	png := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 32)...)
	r := bytes.NewReader(png)

	ct, err := SniffContentType(r)
	if err != nil {
		t.Fatalf("SniffContentType() error = %v", err)
	}
	if ct != "image/png" {
		t.Errorf("content type = %s, want image/png", ct)
	}

	// The reader must be rewound for the subsequent upload
	rest, _ := io.ReadAll(r)
	if len(rest) != len(png) {
		t.Errorf("reader consumed: got %d bytes after sniff, want %d", len(rest), len(png))
	}
}

func TestLocalStoreRoundTrip(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	path := "evidence/1/2/test.png"
	content := []byte("blob-content")

	if err := store.Upload(ctx, path, bytes.NewReader(content)); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	rc, err := store.Download(ctx, path)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	defer rc.Close()

	got, _ := io.ReadAll(rc)
	if !bytes.Equal(got, content) {
		t.Errorf("Download() = %q, want %q", got, content)
	}

	if err := store.Delete(ctx, path); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Download(ctx, path); !errors.Is(err, domain.ErrBlobNotFound) {
		t.Errorf("Download() after delete = %v, want ErrBlobNotFound", err)
	}
}

func TestLocalStoreDeleteMissingIsNoop(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	if err := store.Delete(context.Background(), "evidence/9/9/missing.png"); err != nil {
		t.Errorf("Delete() of missing blob = %v, want nil", err)
	}
}

func TestLocalStoreCreatesNestedDirs(t *testing.T) {
	base := t.TempDir()
	store := NewLocalStore(base)

	path := "evidence/7/8/deep.pdf"
	if err := store.Upload(context.Background(), path, bytes.NewReader([]byte("x"))); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(base, filepath.FromSlash(path))); err != nil {
		t.Errorf("expected file on disk: %v", err)
	}
}
