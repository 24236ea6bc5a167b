package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/desertthunder/uplink/internal/models"
	"github.com/desertthunder/uplink/internal/repositories"
	"github.com/desertthunder/uplink/internal/session"
	"github.com/desertthunder/uplink/internal/shared"
	"github.com/desertthunder/uplink/internal/transfer"
	"github.com/desertthunder/uplink/internal/ui"
	"github.com/urfave/cli/v3"
)

// Upload submits the named files as one multipart form submission. Large
// submissions get a monitored session with live progress; small ones are
// posted directly.
func (r *Runner) Upload(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("%w: at least one file to upload", shared.ErrMissingArgument)
	}

	config := r.loadConfig(cmd)

	endpoint := cmd.String("endpoint")
	if endpoint == "" {
		endpoint = config.Upload.Endpoint
	}
	if endpoint == "" {
		return fmt.Errorf("%w: no upload endpoint configured", shared.ErrMissingConfig)
	}

	field := cmd.String("field")
	if field == "" {
		field = config.Upload.Field
	}
	if field == "" {
		field = "images"
	}

	files, err := collectFiles(paths)
	if err != nil {
		return err
	}

	sub := models.Submission{
		Encoding: models.EncodingMultipart,
		Action:   endpoint,
		Fields: []models.Field{
			{Name: field, Kind: models.FieldFile, Files: files},
		},
	}

	pageURL := config.Upload.PageURL
	if pageURL == "" {
		pageURL = endpoint
	}

	var recorder session.Recorder
	if config.Database.Path != "" {
		if db, err := r.openDatabase(config); err != nil {
			r.logger.Warn("session history disabled", "error", err)
		} else {
			defer db.Close()
			recorder = repositories.NewSessionRepository(db)
		}
	}

	plain := cmd.Bool("plain") || config.UI.Plain

	var (
		controller *session.Controller
		sink       session.ProgressSink
		modal      *ui.Modal
	)
	logger := r.logger
	if plain {
		sink = &plainSink{r: r}
	} else {
		modal = ui.NewModal(
			func() { controller.Cancel() },
			func() { controller.Dismiss() },
		)
		sink = modal

		// Keep log lines off the overlay.
		if fileLogger, err := shared.NewFileLogger("./tmp/uplink.log"); err == nil {
			logger = fileLogger
		}
	}

	controller = session.NewController(session.ControllerOpts{
		Executor:  transfer.NewHTTPExecutor(r.httpClient, logger),
		Sink:      sink,
		Recorder:  recorder,
		Logger:    logger,
		PageURL:   pageURL,
		Threshold: config.Upload.MinBytes,
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		for range sigCh {
			controller.Cancel()
		}
	}()

	if modal != nil {
		modal.Start()
	}

	result, err := controller.Submit(ctx, sub)
	if modal != nil {
		if result != nil && !result.Intercepted {
			// Passthrough never renders, so the overlay must be torn
			// down here.
			modal.Hide()
		}
		modal.Wait()
	}
	if err != nil {
		return err
	}

	if !result.Intercepted {
		logger.Info("below monitoring threshold, posting directly", "files", len(files))
		return r.submitDirect(ctx, endpoint, pageURL, sub, cmd.Bool("open"))
	}

	if result.Status == session.StatusCancelled {
		r.writePlain("Upload cancelled\n")
		return nil
	}

	r.writePlain("✓ Upload complete\n")
	return r.announce(pageURL, result.Navigation, cmd.Bool("open"))
}

// submitDirect performs the default submission for uploads below the
// monitoring threshold. No session, no progress surface.
func (r *Runner) submitDirect(ctx context.Context, endpoint, pageURL string, sub models.Submission, open bool) error {
	executor := transfer.NewHTTPExecutor(r.httpClient, r.logger)
	handle, err := executor.Start(ctx, endpoint, sub)
	if err != nil {
		return err
	}

	for range handle.Progress {
	}
	outcome := <-handle.Done
	if outcome.Err != nil {
		return outcome.Err
	}

	resp := outcome.Response
	if resp.Status < 200 || resp.Status >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrServerStatus, resp.Status)
	}

	r.writePlain("✓ Upload complete\n")
	return r.announce(pageURL, session.ResolveNavigation(resp, pageURL, endpoint), open)
}

// announce prints the resolved destination and optionally opens it.
func (r *Runner) announce(pageURL, navigation string, open bool) error {
	if navigation == "" {
		return nil
	}

	destination := absoluteURL(pageURL, navigation)
	r.writePlain("Destination: %s\n", destination)

	if open {
		if err := r.openURL(destination); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}
	return nil
}

// collectFiles stats each path and wraps it as a lazily opened form file.
func collectFiles(paths []string) ([]models.File, error) {
	files := make([]models.File, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", shared.ErrFileUnreadable, path)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s is a directory", shared.ErrInvalidArgument, path)
		}

		p := path
		files = append(files, models.File{
			Name: filepath.Base(p),
			Size: info.Size(),
			Open: func() (io.ReadCloser, error) { return os.Open(p) },
		})
	}
	return files, nil
}

// absoluteURL resolves a possibly relative navigation target against base.
func absoluteURL(base, target string) string {
	b, err := url.Parse(base)
	if err != nil {
		return target
	}
	t, err := url.Parse(target)
	if err != nil {
		return target
	}
	return b.ResolveReference(t).String()
}

// plainSink renders session progress as plain output lines, one overwriting
// status line plus standalone messages.
type plainSink struct {
	r     *Runner
	pct   int
	speed string
}

func (s *plainSink) render() {
	line := fmt.Sprintf("\r%3d%%", s.pct)
	if s.speed != "" {
		line += "  " + s.speed
	}
	// Pad out anything left over from a longer previous line.
	s.r.writePlain("%-60s", line)
}

func (s *plainSink) SetPercentage(pct int) {
	s.pct = pct
	s.render()
}

func (s *plainSink) SetMessage(msg string) {
	s.r.writePlain("\n%s\n", msg)
}

func (s *plainSink) SetFileInfo(info string) {
	s.r.writePlain("%s\n", info)
}

func (s *plainSink) SetSpeedInfo(info string) {
	s.speed = info
}

func (s *plainSink) ShowError(msg string) {
	s.r.writePlain("\n✗ %s\n", msg)
}

func (s *plainSink) Hide() {
	s.r.writePlain("\n")
}
