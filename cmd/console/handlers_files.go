package main

import (
	"io"
	"net/http"

	"documind/internal/upload"
)

// maxStageBytes bounds one staging request.
const maxStageBytes = 100 << 20

// StageResponse reports which files entered the staging set.
type StageResponse struct {
	Accepted []string          `json:"accepted"`
	Rejected []RejectedFile    `json:"rejected"`
	Files    []upload.ListItem `json:"files"`
}

type RejectedFile struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ========== File Staging Endpoint ==========

// handleStageFiles receives files picked or dropped on the page and adds
// them to that page's staging set. Nothing is sent to DocuMind until the
// page confirms the upload.
func (s *Server) handleStageFiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	c, ok := s.client(r.PathValue("id"))
	if !ok {
		jsonErr(w, "Session not found", http.StatusNotFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxStageBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonErr(w, "Failed to parse upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		// Try singular "file" field
		files = r.MultipartForm.File["file"]
	}
	if len(files) == 0 {
		jsonErr(w, "No files uploaded", http.StatusBadRequest)
		return
	}

	resp := StageResponse{Accepted: []string{}, Rejected: []RejectedFile{}}
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			resp.Rejected = append(resp.Rejected, RejectedFile{Name: fh.Filename, Reason: err.Error()})
			continue
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			resp.Rejected = append(resp.Rejected, RejectedFile{Name: fh.Filename, Reason: err.Error()})
			continue
		}

		if err := c.session.AddFile(upload.FromBytes(fh.Filename, data)); err != nil {
			resp.Rejected = append(resp.Rejected, RejectedFile{Name: fh.Filename, Reason: err.Error()})
			continue
		}
		resp.Accepted = append(resp.Accepted, fh.Filename)
	}

	resp.Files = c.session.StagedFiles()
	s.logger.Debug("Staged files", "session", c.session.ID, "accepted", len(resp.Accepted), "rejected", len(resp.Rejected))
	jsonResp(w, resp)
}
