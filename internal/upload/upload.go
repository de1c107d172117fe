package upload

import (
	"context"
	"fmt"
	"io"
)

// Uploader sends one file to the backend.
type Uploader interface {
	Upload(ctx context.Context, fileName string, content io.Reader) error
}

// FileResult is the outcome of one upload.
type FileResult struct {
	Name string `json:"name"`
	Err  error  `json:"-"`
}

func (r FileResult) OK() bool { return r.Err == nil }

// Result tallies a batch. Values are built by folding FileResults and are
// never mutated after UploadAll returns.
type Result struct {
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Files     []FileResult `json:"-"`
}

func (r Result) with(fr FileResult) Result {
	files := make([]FileResult, len(r.Files), len(r.Files)+1)
	copy(files, r.Files)
	next := Result{Succeeded: r.Succeeded, Failed: r.Failed, Files: append(files, fr)}
	if fr.OK() {
		next.Succeeded++
	} else {
		next.Failed++
	}
	return next
}

// Summary is the status line shown after a batch, e.g. "✓ 2 uploaded, ✕ 1 failed".
func (r Result) Summary() string {
	s := fmt.Sprintf("✓ %d uploaded", r.Succeeded)
	if r.Failed > 0 {
		s += fmt.Sprintf(", ✕ %d failed", r.Failed)
	}
	return s
}

// ProgressText is shown while a batch of n files is in flight.
func ProgressText(n int) string {
	return fmt.Sprintf("Uploading %d file(s)...", n)
}

// UploadAll uploads files one after another. A failure never stops the
// batch. onFile, if set, is called after each file.
func UploadAll(ctx context.Context, up Uploader, files []PendingUpload, onFile func(FileResult)) Result {
	var res Result
	for _, f := range files {
		fr := uploadOne(ctx, up, f)
		res = res.with(fr)
		if onFile != nil {
			onFile(fr)
		}
	}
	return res
}

func uploadOne(ctx context.Context, up Uploader, f PendingUpload) FileResult {
	rc, err := f.Open()
	if err != nil {
		return FileResult{Name: f.Name, Err: err}
	}
	defer rc.Close()

	if err := up.Upload(ctx, f.Name, rc); err != nil {
		return FileResult{Name: f.Name, Err: fmt.Errorf("upload %s: %w", f.Name, err)}
	}
	return FileResult{Name: f.Name}
}
