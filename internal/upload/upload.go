// Package upload serves the upload form and runs the processing workflow
// for each submitted file.
package upload

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/kbukum/meetingnotes/internal/meeting"
	"github.com/kbukum/meetingnotes/internal/notify"
	"github.com/kbukum/meetingnotes/internal/workflow"
	"github.com/kbukum/meetingnotes/logger"
)

//go:embed templates/upload.html
var templates embed.FS

// Accept lists the extensions the form offers.
const Accept = ".mp4,.mkv,.avi,.mov,.txt,.md"

// Runner runs the workflow for one job.
type Runner interface {
	Run(ctx context.Context, job *workflow.Job) *workflow.Report
}

// Handler serves GET / and POST /upload.
type Handler struct {
	runner   Runner
	notifier notify.Notifier
	tmpl     *template.Template
	log      *logger.Logger
}

// New creates a Handler. notifier receives the failure message when a stage
// fails and may be nil.
func New(runner Runner, notifier notify.Notifier, log *logger.Logger) (*Handler, error) {
	tmpl, err := template.ParseFS(templates, "templates/upload.html")
	if err != nil {
		return nil, err
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Handler{runner: runner, notifier: notifier, tmpl: tmpl, log: log.WithComponent("upload")}, nil
}

// Register mounts the routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", h.Form)
	r.POST("/upload", h.Upload)
}

// Form renders the upload page.
func (h *Handler) Form(c *gin.Context) {
	c.Render(http.StatusOK, render.HTML{
		Template: h.tmpl,
		Name:     "upload.html",
		Data: gin.H{
			"Title":       "Meeting Notes",
			"DefaultName": meeting.DefaultName,
			"Accept":      Accept,
		},
	})
}

// Upload accepts the multipart form and runs the workflow synchronously.
// The response is always a redirect to the form; outcomes are logged and
// notified. Once the form is read, processing runs to completion even if the
// client disconnects.
func (h *Handler) Upload(c *gin.Context) {
	ctx := context.WithoutCancel(c.Request.Context())
	log := h.log.WithContext(ctx)
	defer c.Redirect(http.StatusFound, "/")

	fh, err := c.FormFile("file")
	if err != nil || fh.Filename == "" {
		log.Warn("Upload rejected: no file")
		return
	}

	meta := meeting.Metadata{
		Name:             c.DefaultPostForm("meeting_name", meeting.DefaultName),
		Date:             c.DefaultPostForm("meeting_date", ""),
		Time:             c.DefaultPostForm("meeting_time", ""),
		OriginalFilename: fh.Filename,
	}

	f, err := fh.Open()
	if err != nil {
		log.Error("Cannot open uploaded file", logger.MergeWithError(
			logger.Fields(logger.FieldFilename, fh.Filename), err))
		return
	}
	defer f.Close()

	job := workflow.NewJob(meta, f)
	log.Info("Processing upload", logger.Fields(
		logger.FieldFilename, fh.Filename,
		"kind", job.Kind,
		"size", fh.Size,
	))

	report := h.runner.Run(ctx, job)
	if res, failed := report.Failure(); failed {
		log.Error("Processing failed", logger.MergeWithError(logger.Fields(
			logger.FieldStage, res.Name,
			logger.FieldFolder, job.FolderName(),
		), res.Err))
		h.notifier.Notify(ctx, workflow.FailureMessage(res))
		return
	}
	log.Info("Processing finished", logger.Fields(
		logger.FieldFolder, job.FolderName(),
		"kind", job.Kind,
	))
}
