package printrove

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UploadError is fatal to the current submission attempt. The draft is
// preserved so the user can retry; nothing retries automatically.
type UploadError struct {
	Status  int
	Message string
}

func (e *UploadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("design upload failed (%d): %s", e.Status, e.Message)
	}
	return "design upload failed: " + e.Message
}

// Client uploads confirmed designs to the Printrove external designs API.
type Client struct {
	HTTPClient *http.Client
	UploadURL  string
	APIKey     string
}

func NewClient(uploadURL, apiKey string) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		UploadURL:  uploadURL,
		APIKey:     apiKey,
	}
}

// Upload sends the artwork as a multipart file POST with a bearer
// credential and returns Printrove's decoded response. The artwork may be
// a base64 payload (with or without a data: prefix) or an already-hosted
// http(s) URL, which is fetched first.
func (c *Client) Upload(ctx context.Context, artworkRef string) (map[string]interface{}, error) {
	data, err := c.artworkBytes(ctx, artworkRef)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("design_%d_%s.png", time.Now().UnixMilli(), uuid.NewString()[:8])

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, &UploadError{Message: err.Error()}
	}
	if _, err := part.Write(data); err != nil {
		return nil, &UploadError{Message: err.Error()}
	}
	if err := writer.Close(); err != nil {
		return nil, &UploadError{Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.UploadURL, &body)
	if err != nil {
		return nil, &UploadError{Message: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &UploadError{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UploadError{Status: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UploadError{Status: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &UploadError{Status: resp.StatusCode, Message: "unexpected response: " + err.Error()}
	}
	return result, nil
}

func (c *Client) artworkBytes(ctx context.Context, artworkRef string) ([]byte, error) {
	if strings.HasPrefix(artworkRef, "http://") || strings.HasPrefix(artworkRef, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, artworkRef, nil)
		if err != nil {
			return nil, &UploadError{Message: err.Error()}
		}
		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return nil, &UploadError{Message: "fetching hosted artwork: " + err.Error()}
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, &UploadError{Status: resp.StatusCode, Message: "fetching hosted artwork"}
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &UploadError{Message: "fetching hosted artwork: " + err.Error()}
		}
		return data, nil
	}

	// Base64 payload, possibly carrying a data URL prefix.
	payload := artworkRef
	if idx := strings.Index(payload, ";base64,"); idx != -1 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &UploadError{Message: "malformed artwork payload"}
	}
	return data, nil
}
