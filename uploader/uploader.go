// Package uploader is the client-side counterpart of the server: it validates
// a file locally, obtains short-lived credentials from the API, streams the
// bytes directly to the media CDN with progress reporting, derives the
// thumbnail URL convention for images, and can register the resulting
// metadata against the API.
package uploader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// MaxUploadSize is the local pre-flight size limit.
const MaxUploadSize = 50 * 1024 * 1024 // 50 MiB

// ErrValidationRejected marks local pre-flight failures. No network call is
// made for a rejected file.
var ErrValidationRejected = errors.New("file rejected by local validation")

var allowedTypes = map[string]bool{
	// images
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	// pdf
	"application/pdf": true,
	// csv
	"text/csv":                 true,
	"application/vnd.ms-excel": true,
	"application/csv":          true,
}

// ValidateFile runs the local pre-flight checks.
func ValidateFile(mimeType string, size int64) error {
	if !allowedTypes[mimeType] {
		return fmt.Errorf("%w: only image, PDF or CSV files are allowed", ErrValidationRejected)
	}
	if size > MaxUploadSize {
		return fmt.Errorf("%w: file size must be less than 50 MB", ErrValidationRejected)
	}
	return nil
}

// Result is handed to the caller's success callback.
type Result struct {
	URL          string
	ThumbnailURL *string
}

// Client talks to the API server for credentials/metadata and to the CDN for
// the bytes themselves.
type Client struct {
	APIBaseURL string // e.g. http://localhost:8080
	UploadURL  string // CDN client-upload endpoint; when empty, the URL from the credentials response is used
	AuthToken  string // bearer token for the API
	HTTPClient *http.Client
}

func NewClient(apiBaseURL, uploadURL, authToken string) *Client {
	return &Client{
		APIBaseURL: apiBaseURL,
		UploadURL:  uploadURL,
		AuthToken:  authToken,
		HTTPClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

type uploadCredentials struct {
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
	Signature string `json:"signature"`
	PublicKey string `json:"publicKey"`
	UploadURL string `json:"uploadUrl"`
}

// Upload validates the file locally, fetches upload credentials and streams
// the bytes to the CDN. onProgress, when non-nil, receives fractions in
// [0, 1] as file bytes are consumed.
func (c *Client) Upload(ctx context.Context, file io.Reader, name, mimeType string, size int64, onProgress func(float64)) (*Result, error) {
	if err := ValidateFile(mimeType, size); err != nil {
		return nil, err
	}

	creds, err := c.fetchCredentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("upload auth failed: %w", err)
	}

	uploadURL := c.UploadURL
	if uploadURL == "" {
		uploadURL = creds.UploadURL
	}
	if uploadURL == "" {
		return nil, errors.New("no upload URL configured or provided by the server")
	}

	url, err := c.uploadToCDN(ctx, uploadURL, file, name, size, creds, onProgress)
	if err != nil {
		return nil, err
	}

	result := &Result{URL: url}
	if strings.HasPrefix(mimeType, "image/") {
		thumb := url + "?tr=w-300,h-300,cm-extract"
		result.ThumbnailURL = &thumb
	}
	return result, nil
}

func (c *Client) fetchCredentials(ctx context.Context) (*uploadCredentials, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIBaseURL+"/api/upload/auth", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.AuthToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Success bool              `json:"success"`
		Data    uploadCredentials `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Data.Token == "" || body.Data.Signature == "" {
		return nil, errors.New("credentials response missing token or signature")
	}
	return &body.Data, nil
}

func (c *Client) uploadToCDN(ctx context.Context, uploadURL string, file io.Reader, name string, size int64, creds *uploadCredentials, onProgress func(float64)) (string, error) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	tracked := &progressReader{
		reader:     file,
		total:      size,
		onProgress: onProgress,
	}

	go func() {
		err := writeUploadForm(writer, tracked, name, creds)
		if closeErr := writer.Close(); err == nil {
			err = closeErr
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, pr)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("upload failed: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("upload response decode failed: %w", err)
	}
	if body.URL == "" {
		return "", errors.New("upload did not return a URL")
	}
	return body.URL, nil
}

func writeUploadForm(writer *multipart.Writer, file io.Reader, name string, creds *uploadCredentials) error {
	fields := map[string]string{
		"fileName":  name,
		"publicKey": creds.PublicKey,
		"token":     creds.Token,
		"expire":    strconv.FormatInt(creds.Expire, 10),
		"signature": creds.Signature,
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return err
		}
	}

	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, file)
	return err
}

// RegisteredFile is the metadata row the API returns after registration.
type RegisteredFile struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Path         string  `json:"path"`
	Type         string  `json:"type"`
	Size         int64   `json:"size"`
	FileURL      string  `json:"fileUrl"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	ParentID     *string `json:"parentId"`
}

// RegisterFile records an uploaded file's metadata with the API server.
func (c *Client) RegisterFile(ctx context.Context, name, mimeType string, size int64, result *Result, parentID *string) (*RegisteredFile, error) {
	payload := map[string]interface{}{
		"name":    name,
		"fileUrl": result.URL,
		"size":    size,
		"type":    mimeType,
	}
	if result.ThumbnailURL != nil {
		payload["thumbnailUrl"] = *result.ThumbnailURL
	}
	if parentID != nil {
		payload["parentId"] = *parentID
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBaseURL+"/api/files", strings.NewReader(string(raw)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.AuthToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file registration failed: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Success bool           `json:"success"`
		File    RegisteredFile `json:"file"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return &body.File, nil
}

// progressReader reports the fraction of file bytes consumed so far.
type progressReader struct {
	reader     io.Reader
	total      int64
	read       int64
	onProgress func(float64)
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.read += int64(n)
		if r.onProgress != nil && r.total > 0 {
			fraction := float64(r.read) / float64(r.total)
			if fraction > 1 {
				fraction = 1
			}
			r.onProgress(fraction)
		}
	}
	return n, err
}
