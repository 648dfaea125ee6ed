package httpclient

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

type receivedPart struct {
	Filename    string
	ContentType string
	Data        string
}

// multipartServer records the form it receives and answers with a transcript.
func multipartServer(t *testing.T, fields map[string]string, parts map[string]receivedPart) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		for k, v := range r.MultipartForm.Value {
			fields[k] = v[0]
		}
		for name, hdrs := range r.MultipartForm.File {
			f, err := hdrs[0].Open()
			if err != nil {
				t.Errorf("open part %s: %v", name, err)
				continue
			}
			data, _ := io.ReadAll(f)
			f.Close()
			parts[name] = receivedPart{
				Filename:    hdrs[0].Filename,
				ContentType: hdrs[0].Header.Get("Content-Type"),
				Data:        string(data),
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "hello team"})
	}))
}

func TestClient_Do_Multipart(t *testing.T) {
	fields, parts := map[string]string{}, map[string]receivedPart{}
	srv := multipartServer(t, fields, parts)
	defer srv.Close()

	// The JSON default must not override the multipart boundary.
	c, err := New(Config{BaseURL: srv.URL, Headers: map[string]string{"Content-Type": "application/json"}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	resp, err := c.Do(t.Context(), Request{
		Method: http.MethodPost,
		Path:   "/transcribe",
		Body: &MultipartBody{
			Fields: map[string]string{"model": "base", "language": "en"},
			Files: []FileField{
				{FieldName: "audio", FileName: "audio.mp3", ContentType: "audio/mpeg", Path: writeFile(t, "audio.mp3", "ID3 mp3")},
				{FieldName: "notes", FileName: "notes.txt", Path: writeFile(t, "notes.txt", "agenda")},
			},
		},
	})
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if string(resp.Body) != "{\"text\":\"hello team\"}\n" {
		t.Errorf("body = %q", resp.Body)
	}

	if fields["model"] != "base" || fields["language"] != "en" {
		t.Errorf("fields = %v", fields)
	}
	want := map[string]receivedPart{
		"audio": {Filename: "audio.mp3", ContentType: "audio/mpeg", Data: "ID3 mp3"},
		"notes": {Filename: "notes.txt", ContentType: "application/octet-stream", Data: "agenda"},
	}
	for name, w := range want {
		if parts[name] != w {
			t.Errorf("part %s = %+v, want %+v", name, parts[name], w)
		}
	}
}

func TestMultipartBody_EscapesFilename(t *testing.T) {
	fields, parts := map[string]string{}, map[string]receivedPart{}
	srv := multipartServer(t, fields, parts)
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	_, err = c.Do(t.Context(), Request{
		Method: http.MethodPost,
		Path:   "/transcribe",
		Body: &MultipartBody{Files: []FileField{{
			FieldName:   "audio",
			FileName:    `team "sync".mp3`,
			ContentType: "audio/mpeg",
			Path:        writeFile(t, "audio.mp3", "x"),
		}}},
	})
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if got := parts["audio"].Filename; got != `team "sync".mp3` {
		t.Errorf("filename = %q", got)
	}
}

func TestMultipartBody_MissingPath(t *testing.T) {
	mp := &MultipartBody{Files: []FileField{{FieldName: "audio", FileName: "a.mp3", Path: filepath.Join(t.TempDir(), "gone.mp3")}}}
	if _, _, err := mp.encode(); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("encode() error = %v, want not-exist", err)
	}

	c, err := New(Config{BaseURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	_, err = c.Do(t.Context(), Request{Method: http.MethodPost, Path: "/transcribe", Body: mp})
	var e *Error
	if !errors.As(err, &e) || e.Code != ErrCodeValidation {
		t.Errorf("Do() error = %v, want validation error", err)
	}
}
