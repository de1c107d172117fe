package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Question string `json:"question"`
}

// QueryResponse is the success body of POST /query. Only Answer is used by
// the client; Sources is kept for backends that return citations.
type QueryResponse struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources,omitempty"`
}

// Source is a citation returned alongside an answer.
type Source struct {
	Page     int    `json:"page,omitempty"`
	Document string `json:"document,omitempty"`
	Content  string `json:"content,omitempty"`
}

// StatusError is returned when the backend answers with a non-2xx status.
// Body holds the raw response text.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("documind api error: %d - %s", e.Code, e.Body)
}

// Client talks to a DocuMind backend rooted at BaseURL.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient returns a client for base. A nil httpClient uses a fresh
// http.Client without its own timeout; deadlines come from the caller's ctx.
func NewClient(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{BaseURL: strings.TrimRight(base, "/"), HTTP: httpClient}
}

// Health issues GET /health. Any 2xx is healthy; the body is ignored.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if !isSuccess(resp.StatusCode) {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

// Query posts a question and decodes the answer.
func (c *Client) Query(ctx context.Context, question string) (*QueryResponse, error) {
	reqBody, err := json.Marshal(QueryRequest{Question: question})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/query", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("build query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, Body: string(bodyBytes)}
	}

	var out QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode query response: %w", err)
	}
	return &out, nil
}

// Upload posts one file as multipart field "file". Only the status class
// decides the outcome; the response body is discarded.
func (c *Client) Upload(ctx context.Context, fileName string, content io.Reader) error {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", fileName)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, content); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload", pr)
	if err != nil {
		pr.Close()
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		pr.Close()
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if !isSuccess(resp.StatusCode) {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

// AsStatusError unwraps err into a *StatusError if it is one.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
