package workflow

import (
	"context"
	"path"
	"strings"

	apperrors "github.com/kbukum/meetingnotes/errors"
	"github.com/kbukum/meetingnotes/internal/meeting"
	"github.com/kbukum/meetingnotes/storage"
)

// Stage names, in run order.
const (
	StageSave           = "save"
	StageLayout         = "layout"
	StageTranscode      = "transcode"
	StageLoadTranscript = "load-transcript"
	StageTranscribe     = "transcribe"
	StageSummarize      = "summarize"
)

// FolderCreator creates a meeting's output folder.
type FolderCreator interface {
	Create(ctx context.Context, m meeting.Metadata) (*meeting.Folder, error)
}

// AudioExtractor writes the audio track of a video into folder.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, src string, folder *meeting.Folder) (string, error)
}

// Transcriber turns an audio file into transcript.txt.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, folder *meeting.Folder) (string, error)
}

// Summarizer turns a transcript into summary.txt.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string, folder *meeting.Folder) (string, error)
}

// Deps are the collaborators of the standard stage list.
type Deps struct {
	Uploads     storage.LocalStorage
	Layout      FolderCreator
	Transcoder  AudioExtractor
	Transcriber Transcriber
	Summarizer  Summarizer
}

// Stages returns the standard stage list: save, layout, transcode,
// load-transcript, transcribe, summarize.
func Stages(d Deps) []Stage {
	return []Stage{
		&saveStage{uploads: d.Uploads},
		&layoutStage{layout: d.Layout},
		&transcodeStage{transcoder: d.Transcoder},
		&loadTranscriptStage{uploads: storage.NewByteClient(d.Uploads)},
		&transcribeStage{transcriber: d.Transcriber},
		&summarizeStage{summarizer: d.Summarizer},
	}
}

// BaseName strips any directory part from a client-supplied filename,
// accepting both slash styles.
func BaseName(filename string) string {
	return path.Base(strings.ReplaceAll(filename, `\`, "/"))
}

type saveStage struct{ uploads storage.LocalStorage }

func (s *saveStage) Name() string      { return StageSave }
func (s *saveStage) Applies(*Job) bool { return true }

func (s *saveStage) Run(ctx context.Context, job *Job) error {
	name := BaseName(job.Metadata.OriginalFilename)
	if name == "." || name == "/" || name == ".." {
		return apperrors.InvalidInput("file", "filename has no base name")
	}
	if job.Upload == nil {
		return apperrors.MissingField("file")
	}
	if err := s.uploads.Upload(ctx, name, job.Upload); err != nil {
		return err
	}
	p, err := s.uploads.LocalPath(name)
	if err != nil {
		return err
	}
	job.SourceName, job.SourcePath = name, p
	return nil
}

type layoutStage struct{ layout FolderCreator }

func (s *layoutStage) Name() string      { return StageLayout }
func (s *layoutStage) Applies(*Job) bool { return true }

func (s *layoutStage) Run(ctx context.Context, job *Job) error {
	folder, err := s.layout.Create(ctx, job.Metadata)
	if err != nil {
		return err
	}
	job.Folder = folder
	return nil
}

type transcodeStage struct{ transcoder AudioExtractor }

func (s *transcodeStage) Name() string          { return StageTranscode }
func (s *transcodeStage) Applies(job *Job) bool { return job.Kind == KindVideo }

func (s *transcodeStage) Run(ctx context.Context, job *Job) error {
	audio, err := s.transcoder.ExtractAudio(ctx, job.SourcePath, job.Folder)
	if err != nil {
		return err
	}
	job.AudioPath = audio
	return nil
}

// loadTranscriptStage reads a text upload as the transcript. No
// transcript.txt is written for it.
type loadTranscriptStage struct{ uploads storage.ByteClient }

func (s *loadTranscriptStage) Name() string          { return StageLoadTranscript }
func (s *loadTranscriptStage) Applies(job *Job) bool { return job.Kind == KindText }

func (s *loadTranscriptStage) Run(ctx context.Context, job *Job) error {
	data, err := s.uploads.Download(ctx, job.SourceName)
	if err != nil {
		return err
	}
	job.Transcript = string(data)
	return nil
}

type transcribeStage struct{ transcriber Transcriber }

func (s *transcribeStage) Name() string          { return StageTranscribe }
func (s *transcribeStage) Applies(job *Job) bool { return job.Kind == KindVideo }

func (s *transcribeStage) Run(ctx context.Context, job *Job) error {
	text, err := s.transcriber.Transcribe(ctx, job.AudioPath, job.Folder)
	if err != nil {
		return err
	}
	job.Transcript = text
	return nil
}

type summarizeStage struct{ summarizer Summarizer }

func (s *summarizeStage) Name() string { return StageSummarize }

func (s *summarizeStage) Applies(job *Job) bool {
	return job.Kind == KindVideo || job.Kind == KindText
}

func (s *summarizeStage) Run(ctx context.Context, job *Job) error {
	summary, err := s.summarizer.Summarize(ctx, job.Transcript, job.Folder)
	if err != nil {
		return err
	}
	job.Summary = summary
	return nil
}
