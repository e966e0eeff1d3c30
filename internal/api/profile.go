package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
	"github.com/groophq/groopsync/internal/model"
	"github.com/groophq/groopsync/pkg/logger"
	"github.com/pkg/errors"
)

func (c *Client) GetProfile(ctx context.Context, username string) (*model.Profile, error) {
	var profile model.Profile
	if err := c.do(ctx, http.MethodGet, "/profiles/"+username, nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	var updated model.Profile
	if err := c.do(ctx, http.MethodPut, "/api/profile", nil, profile, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// RegisterProfile creates the profile for a freshly authenticated user. A
// duplicate username comes back as a conflict error for field-level display.
func (c *Client) RegisterProfile(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	var created model.Profile
	if err := c.do(ctx, http.MethodPost, "/api/profile/register", nil, profile, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UploadAvatar pushes the image in a one-shot multipart request and returns
// the hosted URL. Callers keep the URL even if a later profile save fails, so
// resubmission does not re-upload.
func (c *Client) UploadAvatar(ctx context.Context, filename string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("avatar", filename)
	if err != nil {
		return "", errors.Wrap(err, "failed to build multipart body")
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", errors.Wrap(err, "failed to read avatar content")
	}
	if err := writer.Close(); err != nil {
		return "", errors.Wrap(err, "failed to finalize multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/api/upload-avatar", nil), &buf)
	if err != nil {
		return "", errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Request-ID", uuid.NewString())

	var res struct {
		URL string `json:"url"`
	}
	if err := c.send(req, &res, logger.FromContext(ctx)); err != nil {
		return "", err
	}
	return res.URL, nil
}
