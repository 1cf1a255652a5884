// Package storage persists uploaded documents and breaks them into per-page
// images for OCR.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const (
	MimePDF  = "application/pdf"
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
)

// allowedMimeTypes is the upload allowlist.
var allowedMimeTypes = map[string]bool{
	MimePDF:  true,
	MimeJPEG: true,
	MimePNG:  true,
}

// StoredFile describes an upload persisted to disk.
type StoredFile struct {
	Path         string
	OriginalName string
	MimeType     string
	SHA256       string
	Size         int64
}

// PageImage is one page of a stored document, ready for OCR.
type PageImage struct {
	Path     string
	MimeType string
}

// FileStore keeps uploads under uploadDir and page scratch files under
// workDir.
type FileStore struct {
	uploadDir string
	workDir   string
}

// NewFileStore creates the store and its directories.
func NewFileStore(uploadDir, workDir string) (*FileStore, error) {
	for _, dir := range []string{uploadDir, workDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: create %s: %w", dir, err)
		}
	}
	return &FileStore{uploadDir: uploadDir, workDir: workDir}, nil
}

// Save streams the upload to disk, hashing it on the way, then sniffs the
// content type from the stored bytes. The declared Content-Type header is
// never trusted. Returns ErrUnsupportedType for anything off the allowlist.
func (s *FileStore) Save(r io.Reader, originalName string) (*StoredFile, error) {
	name := uuid.New().String() + strings.ToLower(filepath.Ext(originalName))
	path := filepath.Join(s.uploadDir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("storage: create upload file: %w", err)
	}

	hasher := sha256.New()
	size, err := io.Copy(f, io.TeeReader(r, hasher))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("storage: write upload: %w", err)
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("storage: detect content type: %w", err)
	}
	if !allowedMimeTypes[mt.String()] {
		os.Remove(path)
		return nil, &UnsupportedTypeError{MimeType: mt.String()}
	}

	return &StoredFile{
		Path:         path,
		OriginalName: originalName,
		MimeType:     mt.String(),
		SHA256:       hex.EncodeToString(hasher.Sum(nil)),
		Size:         size,
	}, nil
}

// PageCount returns the number of pages: the PDF page count for PDFs, 1 for
// images.
func (s *FileStore) PageCount(file *StoredFile) (int, error) {
	if file.MimeType != MimePDF {
		return 1, nil
	}

	f, err := os.Open(file.Path)
	if err != nil {
		return 0, fmt.Errorf("storage: open pdf: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return 0, fmt.Errorf("storage: validate pdf: %w", err)
	}
	return ctx.PageCount, nil
}

// PageImages yields one image per page. Scanned PDFs carry their scan as an
// embedded image per page, which pdfcpu extracts; plain image uploads are a
// single page already.
func (s *FileStore) PageImages(file *StoredFile, pageCount int) ([]PageImage, error) {
	if file.MimeType != MimePDF {
		return []PageImage{{Path: file.Path, MimeType: file.MimeType}}, nil
	}

	scratch := filepath.Join(s.workDir, uuid.New().String())
	pages := make([]PageImage, 0, pageCount)
	conf := model.NewDefaultConfiguration()

	for page := 1; page <= pageCount; page++ {
		outDir := filepath.Join(scratch, strconv.Itoa(page))
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: create page directory: %w", err)
		}
		if err := api.ExtractImagesFile(file.Path, outDir, []string{strconv.Itoa(page)}, conf); err != nil {
			return nil, fmt.Errorf("storage: extract page %d: %w", page, err)
		}

		img, err := firstFile(outDir)
		if err != nil {
			return nil, fmt.Errorf("storage: page %d has no scanned image: %w", page, err)
		}
		mt, err := mimetype.DetectFile(img)
		if err != nil {
			return nil, fmt.Errorf("storage: detect page image type: %w", err)
		}
		pages = append(pages, PageImage{Path: img, MimeType: mt.String()})
	}
	return pages, nil
}

// Cleanup removes page scratch files produced by PageImages.
func (s *FileStore) Cleanup() {
	os.RemoveAll(s.workDir)
	os.MkdirAll(s.workDir, 0o755)
}

// Resolve maps a stored file name to its path under the upload directory.
// Path traversal in name is neutralized.
func (s *FileStore) Resolve(name string) string {
	return filepath.Join(s.uploadDir, filepath.Base(name))
}

func firstFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no files in %s", dir)
	}
	sort.Strings(names)
	return filepath.Join(dir, names[0]), nil
}

// UnsupportedTypeError reports an upload outside the pdf/jpeg/png allowlist.
type UnsupportedTypeError struct {
	MimeType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type %s", e.MimeType)
}
