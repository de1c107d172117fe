package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	// ErrNotPDF rejects files whose name does not end in .pdf.
	ErrNotPDF = errors.New("only PDF files are supported")
	// ErrDuplicate rejects a name already present in the staging set.
	ErrDuplicate = errors.New("file is already in the list")
)

// PendingUpload is a file selected for upload but not yet sent.
type PendingUpload struct {
	Name  string
	Size  int64
	Pages int // 0 when the PDF could not be read

	open func() (io.ReadCloser, error)
}

// Open returns the raw bytes of the file.
func (p PendingUpload) Open() (io.ReadCloser, error) {
	if p.open == nil {
		return nil, fmt.Errorf("no content for %s", p.Name)
	}
	return p.open()
}

// FromBytes wraps an in-memory file, e.g. one posted by the browser.
func FromBytes(name string, data []byte) PendingUpload {
	pages, _ := CountPages(data)
	return PendingUpload{
		Name:  name,
		Size:  int64(len(data)),
		Pages: pages,
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// FromPath stats a file on disk. The file is reopened at upload time.
func FromPath(path string) (PendingUpload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return PendingUpload{}, err
	}
	if info.IsDir() {
		return PendingUpload{}, fmt.Errorf("%s is a directory", path)
	}
	p := PendingUpload{
		Name: filepath.Base(path),
		Size: info.Size(),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
	if IsPDF(p.Name) {
		p.Pages, _ = CountPagesFile(path)
	}
	return p, nil
}

// IsPDF reports whether name ends in .pdf, ignoring case.
func IsPDF(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

// ==================== Staging ====================

// Staging is the set of files waiting for confirmation, keyed by name and
// kept in insertion order.
type Staging struct {
	mu    sync.RWMutex
	files []PendingUpload
}

func NewStaging() *Staging {
	return &Staging{}
}

// Add validates and appends f. Rejected files leave the set untouched.
func (s *Staging) Add(f PendingUpload) error {
	if !IsPDF(f.Name) {
		return ErrNotPDF
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.files {
		if existing.Name == f.Name {
			return ErrDuplicate
		}
	}
	s.files = append(s.files, f)
	return nil
}

// Remove drops the named file. It reports whether anything was removed.
func (s *Staging) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, f := range s.files {
		if f.Name == name {
			s.files = append(s.files[:i:i], s.files[i+1:]...)
			return true
		}
	}
	return false
}

// Files returns a copy of the set in insertion order.
func (s *Staging) Files() []PendingUpload {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]PendingUpload, len(s.files))
	copy(result, s.files)
	return result
}

func (s *Staging) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

func (s *Staging) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = nil
}

// ==================== List rendering ====================

// ListItem is one row of the upload list.
type ListItem struct {
	Name  string `json:"name"`
	Size  string `json:"size"`
	Pages int    `json:"pages,omitempty"`
}

// RenderList builds the visible rows and whether confirm is enabled.
func RenderList(files []PendingUpload) ([]ListItem, bool) {
	items := make([]ListItem, 0, len(files))
	for _, f := range files {
		items = append(items, ListItem{
			Name:  f.Name,
			Size:  FormatKB(f.Size),
			Pages: f.Pages,
		})
	}
	return items, len(items) > 0
}

// FormatKB renders a byte count in kilobytes with one decimal, e.g. "12.3 KB".
func FormatKB(size int64) string {
	return fmt.Sprintf("%.1f KB", float64(size)/1024)
}
