// Package transcode extracts the audio track of an uploaded video with
// ffmpeg.
package transcode

import (
	"context"
	"time"

	apperrors "github.com/kbukum/meetingnotes/errors"
	"github.com/kbukum/meetingnotes/internal/meeting"
	"github.com/kbukum/meetingnotes/logger"
	"github.com/kbukum/meetingnotes/process"
	"github.com/kbukum/meetingnotes/provider"
)

// DefaultBinary is the ffmpeg executable looked up on PATH.
const DefaultBinary = "ffmpeg"

// Runner executes a command. *process.Adapter is the production runner.
type Runner = provider.RequestResponse[process.Command, *process.Result]

// Config configures the ffmpeg invocation.
type Config struct {
	Binary string `yaml:"binary" mapstructure:"binary"`
	// Timeout bounds one extraction. Zero means no limit.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Binary == "" {
		c.Binary = DefaultBinary
	}
}

// ProcessConfig returns the process adapter settings for this config.
func (c Config) ProcessConfig() process.Config {
	return process.Config{Name: "ffmpeg", Binary: c.Binary, Timeout: c.Timeout}
}

// Args returns the ffmpeg arguments that write src's audio as MP3 to dst,
// overwriting dst.
func Args(src, dst string) []string {
	return []string{"-y", "-i", src, "-vn", "-f", "mp3", "-acodec", "libmp3lame", dst}
}

// Transcoder runs ffmpeg through a Runner.
type Transcoder struct {
	runner Runner
	binary string
	log    *logger.Logger
}

// New creates a Transcoder. An empty binary uses DefaultBinary.
func New(runner Runner, binary string, log *logger.Logger) *Transcoder {
	if binary == "" {
		binary = DefaultBinary
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Transcoder{runner: runner, binary: binary, log: log.WithComponent("transcode")}
}

// ExtractAudio writes the audio of src to audio.mp3 in folder and returns its
// path. A failed run is an EXTERNAL_SERVICE_ERROR carrying the stderr tail.
func (t *Transcoder) ExtractAudio(ctx context.Context, src string, folder *meeting.Folder) (string, error) {
	dst := folder.Path(meeting.AudioFile)
	cmd := process.Command{Binary: t.binary, Args: Args(src, dst)}
	log := t.log.WithContext(ctx)
	log.Debug("Running ffmpeg", logger.Fields("command", cmd.String()))

	res, err := t.runner.Execute(ctx, cmd)
	if err != nil {
		appErr := apperrors.ExternalServiceError("ffmpeg", err)
		if tail := res.StderrTail(5); tail != "" {
			appErr = appErr.WithDetail("stderr", tail)
		}
		return "", appErr
	}

	log.Info("Audio extracted", logger.Fields(
		logger.FieldFolder, folder.Name,
		logger.FieldDuration, res.Duration.Milliseconds(),
	))
	return dst, nil
}
