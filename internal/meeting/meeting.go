// Package meeting lays out the per-meeting output folder and writes its
// metadata.
package meeting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	apperrors "github.com/kbukum/meetingnotes/errors"
	"github.com/kbukum/meetingnotes/internal/notify"
	"github.com/kbukum/meetingnotes/logger"
	"github.com/kbukum/meetingnotes/storage"
)

// File names inside an output folder.
const (
	MetadataFile   = "metadata.json"
	AudioFile      = "audio.mp3"
	TranscriptFile = "transcript.txt"
	SummaryFile    = "summary.txt"
)

// DefaultName is used when the upload form has no meeting_name field.
const DefaultName = "Unnamed Meeting"

// Metadata describes a meeting as submitted with the upload. It is written
// once and never changed.
type Metadata struct {
	Name             string `json:"name"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	OriginalFilename string `json:"original_filename"`
}

// FolderName derives "<date>_<name>": punctuation is stripped from the date
// and spaces in the name become underscores. Everything else passes through.
func FolderName(m Metadata) string {
	date := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, m.Date)
	return date + "_" + strings.ReplaceAll(m.Name, " ", "_")
}

func validateFolderName(name string) error {
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return apperrors.InvalidInput("folder", fmt.Sprintf("%q must not contain path separators", name))
	}
	return nil
}

// Layout creates output folders under a storage root.
type Layout struct {
	store    storage.LocalStorage
	notifier notify.Notifier
	log      *logger.Logger
}

// NewLayout creates a Layout writing through store.
func NewLayout(store storage.LocalStorage, notifier notify.Notifier, log *logger.Logger) *Layout {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Layout{store: store, notifier: notifier, log: log.WithComponent("meeting")}
}

// Create makes the meeting's folder (reusing an existing one), writes
// metadata.json and announces the folder. An existing folder of the same
// name is reused and its files are overwritten as stages rerun.
func (l *Layout) Create(ctx context.Context, m Metadata) (*Folder, error) {
	name := FolderName(m)
	if err := validateFolderName(name); err != nil {
		return nil, err
	}
	if err := l.store.EnsureDir(ctx, name); err != nil {
		return nil, err
	}
	dir, err := l.store.LocalPath(name)
	if err != nil {
		return nil, err
	}

	f := &Folder{Name: name, dir: dir, files: storage.NewByteClient(l.store)}
	data, err := encodeMetadata(m)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := f.Write(ctx, MetadataFile, data); err != nil {
		return nil, err
	}

	l.log.WithContext(ctx).Info("Created output folder", logger.Fields(logger.FieldFolder, name))
	l.notifier.Notify(ctx, fmt.Sprintf("📂 Created folder `%s` for meeting: %s", name, m.Name))
	return f, nil
}

// encodeMetadata renders the metadata as JSON with a 4-space indent and no
// HTML escaping.
func encodeMetadata(m Metadata) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Folder is one meeting's output directory.
type Folder struct {
	Name  string
	dir   string
	files storage.ByteClient
}

// Path returns the filesystem path of a file inside the folder.
func (f *Folder) Path(file string) string {
	return filepath.Join(f.dir, file)
}

// Write stores data as file inside the folder, replacing any previous content.
func (f *Folder) Write(ctx context.Context, file string, data []byte) error {
	return f.files.Upload(ctx, path.Join(f.Name, file), data)
}

// WriteString stores s as file inside the folder.
func (f *Folder) WriteString(ctx context.Context, file, s string) error {
	return f.Write(ctx, file, []byte(s))
}
