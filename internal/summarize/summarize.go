// Package summarize turns a transcript into summary.txt through a chat
// model.
package summarize

import (
	"context"

	apperrors "github.com/kbukum/meetingnotes/errors"
	"github.com/kbukum/meetingnotes/internal/meeting"
	"github.com/kbukum/meetingnotes/internal/notify"
	"github.com/kbukum/meetingnotes/llm"
	"github.com/kbukum/meetingnotes/logger"
	"github.com/kbukum/meetingnotes/provider"
)

// SystemPrompt is the fixed instruction sent ahead of every transcript.
const SystemPrompt = "Please provide a detailed, verbose, and thorough summary of the following transcript. " +
	"Include all key action items, contextual insights, and any relevant details. " +
	"Create a section at the end for action items, and ensure the summary is well-structured and easy to read."

// SavedMessage is sent after summary.txt is written.
const SavedMessage = "✅ Summary generated and saved."

// Summarizer sends one chat request per transcript.
type Summarizer struct {
	chat     provider.RequestResponse[llm.CompletionRequest, llm.CompletionResponse]
	notifier notify.Notifier
	log      *logger.Logger
}

// New creates a Summarizer over a chat backend.
func New(chat provider.RequestResponse[llm.CompletionRequest, llm.CompletionResponse], notifier notify.Notifier, log *logger.Logger) *Summarizer {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Summarizer{chat: chat, notifier: notifier, log: log.WithComponent("summarize")}
}

// Summarize sends the transcript with SystemPrompt, writes the reply to
// summary.txt in folder and returns it. The transcript is sent whole and the
// reply is written as returned, even when empty.
func (s *Summarizer) Summarize(ctx context.Context, transcript string, folder *meeting.Folder) (string, error) {
	summary, err := llm.Complete(ctx, s.chat, SystemPrompt, transcript)
	if err != nil {
		if _, ok := apperrors.AsAppError(err); !ok {
			err = apperrors.ExternalServiceError(s.chat.Name(), err)
		}
		return "", err
	}
	if err := folder.WriteString(ctx, meeting.SummaryFile, summary); err != nil {
		return "", err
	}

	log := s.log.WithContext(ctx)
	if summary == "" {
		log.Warn("Model returned an empty summary", logger.Fields(logger.FieldFolder, folder.Name))
	}
	log.Info("Summary saved", logger.Fields(
		logger.FieldFolder, folder.Name,
		"chars", len(summary),
	))
	s.notifier.Notify(ctx, SavedMessage)
	return summary, nil
}
