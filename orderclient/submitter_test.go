package orderclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tweeshirt-backend/models"
)

func testPayload() Payload {
	return Payload{
		Customer: models.Customer{
			Name:         "Kaushik",
			Email:        "kaushik@example.com",
			MobileNumber: "9876543210",
			Address1:     "12 Church Street",
			Pincode:      "560001",
			City:         "Bengaluru",
			State:        "Karnataka",
			Country:      "India",
		},
		TshirtColor:    "Black",
		TshirtSize:     "2XL",
		ImagePosition:  "custom",
		PositionCoords: Coords{X: 10, Y: 10},
		ImageSize:      50,
		File:           "aGVsbG8=",
		FileResponse:   map[string]interface{}{"design": map[string]interface{}{"id": float64(4521)}},
	}
}

func TestSubmit_Success(t *testing.T) {
	t.Parallel()

	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		json.NewEncoder(w).Encode(Confirmation{Success: true, OrderID: "ord_1", Message: "Order placed"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	conf, err := client.Submit(context.Background(), "draft-1", testPayload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !conf.Success || conf.OrderID != "ord_1" {
		t.Fatalf("confirmation = %+v", conf)
	}

	// Customer fields travel flattened at the top level.
	if got["name"] != "Kaushik" || got["pincode"] != "560001" {
		t.Errorf("customer fields not flattened: %+v", got)
	}
	if got["tshirtSize"] != "2XL" {
		t.Errorf("tshirtSize = %v", got["tshirtSize"])
	}
	coords, ok := got["positionCoords"].(map[string]interface{})
	if !ok {
		t.Fatalf("positionCoords = %v", got["positionCoords"])
	}
	if x, _ := coords["x"].(float64); x != 10 {
		t.Errorf("positionCoords.x = %v, want 10", coords["x"])
	}
	if _, ok := got["fileResponse"]; !ok {
		t.Errorf("fileResponse missing from payload")
	}
	if _, ok := got["file"]; !ok {
		t.Errorf("raw file missing from payload")
	}
}

func TestSubmit_BackendReportsFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Confirmation{Success: false, Message: "pincode not serviceable"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Submit(context.Background(), "draft-1", testPayload())

	var subErr *SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("err = %v, want *SubmissionError", err)
	}
	// The backend message must reach the user verbatim.
	if subErr.Message != "pincode not serviceable" {
		t.Errorf("message = %q", subErr.Message)
	}
}

func TestSubmit_SuccessFalseDespite200(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.Submit(context.Background(), "draft-1", testPayload()); err == nil {
		t.Fatal("expected failure when success flag is absent or false")
	}
}

func TestSubmit_Non2xxWithMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"success":false,"message":"order store unavailable"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Submit(context.Background(), "draft-1", testPayload())

	var subErr *SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("err = %v, want *SubmissionError", err)
	}
	if subErr.Status != http.StatusBadGateway || subErr.Message != "order store unavailable" {
		t.Errorf("got %d %q", subErr.Status, subErr.Message)
	}
}

func TestSubmit_AtMostOneInFlightPerDraft(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		json.NewEncoder(w).Encode(Confirmation{Success: true})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	var wg sync.WaitGroup
	var inFlightErrs atomic.Int32
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := client.Submit(context.Background(), "draft-1", testPayload()); errors.Is(err, ErrSubmissionInFlight) {
				inFlightErrs.Add(1)
			}
		}()
	}

	// Give the racers time to hit the guard, then let the winner finish.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("backend calls = %d, want 1", got)
	}
	if got := inFlightErrs.Load(); got != 4 {
		t.Errorf("in-flight rejections = %d, want 4", got)
	}
}

// One user's slow submission must not lock other users out: the guard
// is keyed by draft, so distinct drafts submit concurrently.
func TestSubmit_DistinctDraftsDoNotBlockEachOther(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	firstIn := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(firstIn)
			<-release
		}
		json.NewEncoder(w).Encode(Confirmation{Success: true})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	done := make(chan error, 1)
	go func() {
		_, err := client.Submit(context.Background(), "draft-1", testPayload())
		done <- err
	}()
	<-firstIn

	// draft-1 is still held open by the backend; draft-2 must go through.
	if _, err := client.Submit(context.Background(), "draft-2", testPayload()); err != nil {
		t.Errorf("second draft blocked: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Errorf("first draft failed: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("backend calls = %d, want 2", got)
	}
}
