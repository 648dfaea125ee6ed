// Package transcribe turns an extracted audio file into transcript.txt.
package transcribe

import (
	"context"

	apperrors "github.com/kbukum/meetingnotes/errors"
	"github.com/kbukum/meetingnotes/internal/meeting"
	"github.com/kbukum/meetingnotes/internal/notify"
	"github.com/kbukum/meetingnotes/logger"
	"github.com/kbukum/meetingnotes/provider"
	"github.com/kbukum/meetingnotes/transcription"
)

// SavedMessage is sent after transcript.txt is written.
const SavedMessage = "📝 Transcript generated and saved."

// Transcriber sends audio to a speech-to-text backend in one call and keeps
// the text.
type Transcriber struct {
	speech   provider.RequestResponse[string, string]
	notifier notify.Notifier
	log      *logger.Logger
}

// New wraps a transcription backend. language is passed on every request;
// empty lets the backend detect it.
func New(backend provider.RequestResponse[transcription.Request, transcription.Response], language string, notifier notify.Notifier, log *logger.Logger) *Transcriber {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	speech := provider.Adapt(backend, backend.Name(),
		func(_ context.Context, audioPath string) (transcription.Request, error) {
			return transcription.Request{AudioPath: audioPath, Language: language}, nil
		},
		func(resp transcription.Response) (string, error) {
			return resp.Text, nil
		},
	)
	return &Transcriber{speech: speech, notifier: notifier, log: log.WithComponent("transcribe")}
}

// Transcribe sends audioPath to the backend, writes the text to
// transcript.txt in folder and returns it. The notification is sent on
// success only.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string, folder *meeting.Folder) (string, error) {
	text, err := t.speech.Execute(ctx, audioPath)
	if err != nil {
		if _, ok := apperrors.AsAppError(err); !ok {
			err = apperrors.ExternalServiceError(t.speech.Name(), err)
		}
		return "", err
	}
	if err := folder.WriteString(ctx, meeting.TranscriptFile, text); err != nil {
		return "", err
	}

	t.log.WithContext(ctx).Info("Transcript saved", logger.Fields(
		logger.FieldFolder, folder.Name,
		"chars", len(text),
	))
	t.notifier.Notify(ctx, SavedMessage)
	return text, nil
}
