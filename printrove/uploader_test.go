package printrove

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const pngBytes = "\x89PNG\r\n\x1a\nfakeimagedata"

func b64Artwork() string {
	return base64.StdEncoding.EncodeToString([]byte(pngBytes))
}

func TestUpload_Base64Payload(t *testing.T) {
	t.Parallel()

	var gotAuth, gotFilename string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file field: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotFilename = header.Filename
		gotBody, _ = io.ReadAll(file)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"design":{"id":4521},"status":"success"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	result, err := client.Upload(context.Background(), b64Artwork())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("authorization header = %q", gotAuth)
	}
	if !strings.HasPrefix(gotFilename, "design_") || !strings.HasSuffix(gotFilename, ".png") {
		t.Errorf("filename = %q, want design_*.png", gotFilename)
	}
	if string(gotBody) != pngBytes {
		t.Errorf("uploaded bytes do not match decoded artwork")
	}
	design, ok := result["design"].(map[string]interface{})
	if !ok {
		t.Fatalf("result = %+v", result)
	}
	if id, _ := design["id"].(float64); id != 4521 {
		t.Errorf("design id = %v, want 4521", design["id"])
	}
}

func TestUpload_DataURLPrefixStripped(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		defer file.Close()
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k")
	_, err := client.Upload(context.Background(), "data:image/png;base64,"+b64Artwork())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpload_HostedURLFetchedFirst(t *testing.T) {
	t.Parallel()

	imageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pngBytes))
	}))
	defer imageSrv.Close()

	var gotBody []byte
	uploadSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotBody, _ = io.ReadAll(file)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer uploadSrv.Close()

	client := NewClient(uploadSrv.URL, "k")
	if _, err := client.Upload(context.Background(), imageSrv.URL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(gotBody) != pngBytes {
		t.Errorf("uploaded bytes do not match hosted artwork")
	}
}

func TestUpload_MalformedPayload(t *testing.T) {
	t.Parallel()

	client := NewClient("http://unused.invalid", "k")
	_, err := client.Upload(context.Background(), "not!!base64%%")

	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatalf("err = %v, want *UploadError", err)
	}
	if uploadErr.Message != "malformed artwork payload" {
		t.Errorf("message = %q", uploadErr.Message)
	}
}

func TestUpload_Non2xxResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid credential", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "bad-key")
	_, err := client.Upload(context.Background(), b64Artwork())

	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatalf("err = %v, want *UploadError", err)
	}
	if uploadErr.Status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", uploadErr.Status)
	}
	if !strings.Contains(uploadErr.Message, "invalid credential") {
		t.Errorf("message = %q", uploadErr.Message)
	}
}

func TestUpload_NetworkFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL, "k")
	_, err := client.Upload(context.Background(), b64Artwork())

	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatalf("err = %v, want *UploadError", err)
	}
}
