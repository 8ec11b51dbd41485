package orderclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"tweeshirt-backend/models"
)

// ErrSubmissionInFlight is returned when a submit is attempted for a
// draft whose previous submit has not resolved. At most one backend
// call per draft at a time; other drafts are unaffected.
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

// SubmissionError carries the backend's message verbatim so the user
// sees exactly what the order backend reported.
type SubmissionError struct {
	Status  int
	Message string
}

func (e *SubmissionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("order backend returned status %d", e.Status)
}

// Coords is the placement coordinate pair in the submission payload.
type Coords struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Payload is the merged order document posted to the order backend. The
// customer fields are flattened at the top level and the artwork travels
// both as the partner upload response and as the raw base64 file so the
// backend can reprocess it.
type Payload struct {
	models.Customer
	TshirtColor    string                 `json:"tshirtColor"`
	TshirtSize     string                 `json:"tshirtSize"`
	ImagePosition  string                 `json:"imagePosition"`
	PositionCoords Coords                 `json:"positionCoords"`
	ImageSize      float64                `json:"imageSize"`
	File           string                 `json:"file"`
	FileResponse   map[string]interface{} `json:"fileResponse"`
}

// Confirmation is the backend's response. Anything but Success=true is a
// failure regardless of the HTTP status.
type Confirmation struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	OrderID string `json:"orderId,omitempty"`
}

// Client posts finished orders to the order backend.
type Client struct {
	HTTPClient *http.Client
	SubmitURL  string

	inFlight sync.Map // draft ID -> struct{}
}

func NewClient(submitURL string) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		SubmitURL:  submitURL,
	}
}

// Submit posts the payload exactly once per draft. Concurrent calls for
// the same draft ID fail fast with ErrSubmissionInFlight instead of
// producing a second backend call; calls for other drafts proceed.
func (c *Client) Submit(ctx context.Context, draftID string, payload Payload) (Confirmation, error) {
	if _, loaded := c.inFlight.LoadOrStore(draftID, struct{}{}); loaded {
		return Confirmation{}, ErrSubmissionInFlight
	}
	defer c.inFlight.Delete(draftID)

	body, err := json.Marshal(payload)
	if err != nil {
		return Confirmation{}, &SubmissionError{Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.SubmitURL, bytes.NewReader(body))
	if err != nil {
		return Confirmation{}, &SubmissionError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Confirmation{}, &SubmissionError{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Confirmation{}, &SubmissionError{Status: resp.StatusCode, Message: err.Error()}
	}

	var conf Confirmation
	// The backend may answer non-2xx with a JSON body carrying the
	// message; surface that verbatim when present.
	if jsonErr := json.Unmarshal(respBody, &conf); jsonErr != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return Confirmation{}, &SubmissionError{Status: resp.StatusCode}
		}
		return Confirmation{}, &SubmissionError{Status: resp.StatusCode, Message: "unexpected response: " + jsonErr.Error()}
	}

	if !conf.Success {
		return Confirmation{}, &SubmissionError{Status: resp.StatusCode, Message: conf.Message}
	}
	return conf, nil
}
