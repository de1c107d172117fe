package session

import (
	"context"
	"errors"

	"documind/internal/upload"
)

// OpenDialog shows the upload dialog with an empty staging set.
func (s *Session) OpenDialog() {
	s.mu.Lock()
	s.dialogOpen = true
	s.resetStagingLocked()
	s.mu.Unlock()
	s.publish()
}

// CloseDialog hides the dialog and discards whatever was staged.
func (s *Session) CloseDialog() {
	s.mu.Lock()
	s.dialogOpen = false
	s.resetStagingLocked()
	s.mu.Unlock()
	s.publish()
}

func (s *Session) resetStagingLocked() {
	s.staging.Clear()
	s.confirmEnabled = false
	s.uploadStatus = ""
	s.uploadState = ""
}

// AddFile stages f. Non-PDF and duplicate names are rejected with an alert.
func (s *Session) AddFile(f upload.PendingUpload) error {
	if err := s.staging.Add(f); err != nil {
		s.alert(alertText(err))
		return err
	}

	s.mu.Lock()
	s.confirmEnabled = s.staging.Len() > 0 && !s.uploading
	s.mu.Unlock()

	s.logger.Debug("Staged file", "name", f.Name, "size", f.Size, "pages", f.Pages)
	s.publish()
	return nil
}

// RemoveFile unstages the named file.
func (s *Session) RemoveFile(name string) bool {
	removed := s.staging.Remove(name)

	s.mu.Lock()
	s.confirmEnabled = s.staging.Len() > 0 && !s.uploading
	s.mu.Unlock()

	s.publish()
	return removed
}

// StagedFiles returns the rendered staging list.
func (s *Session) StagedFiles() []upload.ListItem {
	items, _ := upload.RenderList(s.staging.Files())
	return items
}

// UploadAll sends every staged file, one at a time, to {base}/upload. It
// returns false without doing anything when nothing is staged or a batch is
// already running. With zero failures the dialog closes after the
// auto-close delay.
func (s *Session) UploadAll(ctx context.Context) (upload.Result, bool) {
	s.mu.Lock()
	files := s.staging.Files()
	if len(files) == 0 || s.uploading {
		s.mu.Unlock()
		return upload.Result{}, false
	}
	s.uploading = true
	s.confirmEnabled = false
	s.uploadStatus = upload.ProgressText(len(files))
	s.uploadState = "uploading"
	base := ResolveAPIBase(s.apiBase, s.origin)
	s.mu.Unlock()
	s.publish()

	res := upload.UploadAll(ctx, s.client(base), files, func(fr upload.FileResult) {
		if fr.OK() {
			s.logger.Info("Uploaded file", "name", fr.Name)
		} else {
			s.logger.Warn("Upload failed", "name", fr.Name, "err", fr.Err)
		}
	})

	s.mu.Lock()
	s.uploading = false
	s.confirmEnabled = true
	s.uploadStatus = res.Summary()
	if res.Failed == 0 {
		s.uploadState = "success"
	} else {
		s.uploadState = "error"
	}
	s.mu.Unlock()
	s.publish()

	if res.Failed == 0 {
		s.afterFunc(s.autoCloseDelay, s.CloseDialog)
	}
	return res, true
}

func alertText(err error) string {
	switch {
	case errors.Is(err, upload.ErrNotPDF):
		return "Only PDF files are supported"
	case errors.Is(err, upload.ErrDuplicate):
		return "This file is already in the list"
	default:
		return err.Error()
	}
}
