package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

const uploadFailedMessage = "Image upload failed"

// uploader implements app.Uploader by posting multipart form data to the
// media endpoint. It does not send the bearer token.
type uploader struct {
	client *Client
	path   string
	preset string
}

// NewUploader creates an Uploader posting to path with the given upload preset.
func NewUploader(client *Client, path, preset string) *uploader {
	return &uploader{client: client, path: path, preset: preset}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// Upload sends the file at path and returns its hosted URL.
func (u *uploader) Upload(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return u.UploadReader(ctx, filepath.Base(path), f)
}

// UploadReader sends r as a file named name and returns its hosted URL.
func (u *uploader) UploadReader(ctx context.Context, name string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return "", uploadFailure(err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", uploadFailure(err)
	}
	if err := w.WriteField("upload_preset", u.preset); err != nil {
		return "", uploadFailure(err)
	}
	if err := w.Close(); err != nil {
		return "", uploadFailure(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.client.baseURL+u.path, &buf)
	if err != nil {
		return "", uploadFailure(err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var res uploadResponse
	if err := u.client.send(req, &res); err != nil {
		return "", uploadFailure(err)
	}
	if res.SecureURL == "" {
		return "", uploadFailure(fmt.Errorf("response has no secure_url"))
	}
	return res.SecureURL, nil
}

func uploadFailure(err error) *Failure {
	f := &Failure{Status: StatusFailed, Message: uploadFailedMessage, Kind: KindTransport, Err: err}
	if inner, ok := AsFailure(err); ok {
		f.Code = inner.Code
		f.Kind = inner.Kind
	}
	return f
}
