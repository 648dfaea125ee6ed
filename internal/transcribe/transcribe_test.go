package transcribe

import (
	"context"
	"errors"
	"os"
	"testing"

	apperrors "github.com/kbukum/meetingnotes/errors"
	"github.com/kbukum/meetingnotes/internal/meeting"
	"github.com/kbukum/meetingnotes/storage/local"
	"github.com/kbukum/meetingnotes/transcription"
)

type fakeSpeech struct {
	got  transcription.Request
	text string
	err  error
}

func (f *fakeSpeech) Name() string                     { return "fake-whisper" }
func (f *fakeSpeech) IsAvailable(context.Context) bool { return true }
func (f *fakeSpeech) Execute(_ context.Context, req transcription.Request) (transcription.Response, error) {
	f.got = req
	return transcription.Response{Text: f.text}, f.err
}

type recorder struct{ messages []string }

func (r *recorder) Notify(_ context.Context, msg string) { r.messages = append(r.messages, msg) }

func newFolder(t *testing.T) *meeting.Folder {
	t.Helper()
	store, err := local.NewStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	folder, err := meeting.NewLayout(store, nil, nil).Create(context.Background(), meeting.Metadata{Name: "Demo", Date: "2024"})
	if err != nil {
		t.Fatal(err)
	}
	return folder
}

func TestTranscribe(t *testing.T) {
	folder := newFolder(t)
	backend := &fakeSpeech{text: "hello team"}
	rec := &recorder{}

	text, err := New(backend, "en", rec, nil).Transcribe(context.Background(), "/out/audio.mp3", folder)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "hello team" {
		t.Errorf("text = %q", text)
	}
	if backend.got.AudioPath != "/out/audio.mp3" || backend.got.Language != "en" {
		t.Errorf("request = %+v", backend.got)
	}
	raw, err := os.ReadFile(folder.Path(meeting.TranscriptFile))
	if err != nil || string(raw) != "hello team" {
		t.Errorf("transcript.txt = %q, %v", raw, err)
	}
	if len(rec.messages) != 1 || rec.messages[0] != SavedMessage {
		t.Errorf("notifications = %q", rec.messages)
	}
}

func TestTranscribe_BackendError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperrors.ErrorCode
	}{
		{"plain error is wrapped", errors.New("boom"), apperrors.ErrCodeExternalService},
		{"app error kept", apperrors.RateLimited("openai"), apperrors.ErrCodeRateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			folder := newFolder(t)
			rec := &recorder{}
			_, err := New(&fakeSpeech{err: tt.err}, "", rec, nil).Transcribe(context.Background(), "a.mp3", folder)
			if apperrors.CodeOf(err) != tt.want {
				t.Fatalf("code = %s, want %s (%v)", apperrors.CodeOf(err), tt.want, err)
			}
			if _, statErr := os.Stat(folder.Path(meeting.TranscriptFile)); !os.IsNotExist(statErr) {
				t.Error("transcript.txt must not be written on failure")
			}
			if len(rec.messages) != 0 {
				t.Errorf("no notification expected, got %q", rec.messages)
			}
		})
	}
}
