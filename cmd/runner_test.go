package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/uplink/internal/models"
	"github.com/desertthunder/uplink/internal/repositories"
	"github.com/desertthunder/uplink/internal/server"
	"github.com/desertthunder/uplink/internal/shared"
	th "github.com/desertthunder/uplink/internal/testing"
	"github.com/urfave/cli/v3"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "custom.toml",
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "custom.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("with nil openURL uses the system browser", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.openURL == nil {
				t.Error("expected openURL to default to the browser opener")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writeJSON(map[string]string{"status": "succeeded"}, false); err != nil {
			t.Fatalf("writeJSON failed: %v", err)
		}
		if got := output.String(); got != "{\"status\":\"succeeded\"}\n" {
			t.Errorf("unexpected JSON output: %q", got)
		}
	})

	t.Run("writeJSON surfaces writer failures", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &th.FWriter{}})

		if err := runner.writeJSON(map[string]string{"status": "succeeded"}, false); err == nil {
			t.Error("expected a write error")
		}
	})

	t.Run("writePlainHeader", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		runner.writePlainHeader("Upload History")
		if !strings.Contains(output.String(), "Upload History") {
			t.Errorf("expected header to contain title, got %q", output.String())
		}
	})
}

func TestCollectFiles(t *testing.T) {
	t.Run("stats and wraps files", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "photo.jpg")
		if err := os.WriteFile(path, []byte("abcdef"), 0644); err != nil {
			t.Fatalf("failed to write temp file: %v", err)
		}

		files, err := collectFiles([]string{path})
		if err != nil {
			t.Fatalf("collectFiles failed: %v", err)
		}
		if len(files) != 1 {
			t.Fatalf("expected 1 file, got %d", len(files))
		}
		if files[0].Name != "photo.jpg" {
			t.Errorf("expected base name, got %q", files[0].Name)
		}
		if files[0].Size != 6 {
			t.Errorf("expected size 6, got %d", files[0].Size)
		}

		rc, err := files[0].Open()
		if err != nil {
			t.Fatalf("failed to open wrapped file: %v", err)
		}
		defer rc.Close()
		content, _ := io.ReadAll(rc)
		if string(content) != "abcdef" {
			t.Errorf("unexpected content %q", content)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := collectFiles([]string{"/does/not/exist.jpg"})
		if !errors.Is(err, shared.ErrFileUnreadable) {
			t.Errorf("expected ErrFileUnreadable, got %v", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		_, err := collectFiles([]string{t.TempDir()})
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestAbsoluteURL(t *testing.T) {
	cases := []struct {
		name   string
		base   string
		target string
		want   string
	}{
		{"relative path", "http://127.0.0.1:3000/upload", "/calendars/42/", "http://127.0.0.1:3000/calendars/42/"},
		{"absolute target", "http://127.0.0.1:3000/upload", "https://cdn.example.com/done", "https://cdn.example.com/done"},
		{"unparseable base", "://nope", "/calendars/42/", "/calendars/42/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := absoluteURL(tc.base, tc.target); got != tc.want {
				t.Errorf("absoluteURL(%q, %q) = %q, want %q", tc.base, tc.target, got, tc.want)
			}
		})
	}
}

func TestSummarizeSession(t *testing.T) {
	started := time.Now().Add(-2 * time.Hour)
	rec := &models.SessionRecord{
		Status:     "succeeded",
		FileCount:  3,
		TotalBytes: 8 << 20,
		Navigation: "/calendars/42/",
		StartedAt:  started,
		FinishedAt: started.Add(12 * time.Second),
	}

	line := summarizeSession(rec)
	for _, want := range []string{"succeeded", "3 file(s)", "8 MB", "12s", "/calendars/42/"} {
		if !strings.Contains(line, want) {
			t.Errorf("expected summary to contain %q, got %q", want, line)
		}
	}

	rec.Navigation = ""
	rec.Error = "status 500"
	rec.Status = "error"
	line = summarizeSession(rec)
	if !strings.Contains(line, "status 500") {
		t.Errorf("expected summary to carry the error, got %q", line)
	}
}

// newTestApp wires a runner against the given config and returns the app and
// its captured output.
func newTestApp(t *testing.T, config *shared.Config) (*cli.Command, *bytes.Buffer, *bool) {
	t.Helper()

	output := &bytes.Buffer{}
	opened := false
	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: "config.toml",
		Logger:     shared.NewLogger(io.Discard),
		Output:     output,
		OpenURL:    func(string) error { opened = true; return nil },
	})

	app := &cli.Command{Name: "uplink", Commands: runner.register()}
	return app, output, &opened
}

func TestUploadCommand(t *testing.T) {
	receiver := httptest.NewServer(server.NewReceiverHandler(server.ModeJSON, nil))
	defer receiver.Close()

	writeTempFile := func(t *testing.T, size int) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "photo.jpg")
		if err := os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0644); err != nil {
			t.Fatalf("failed to write temp file: %v", err)
		}
		return path
	}

	t.Run("monitored upload", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Upload.MinBytes = 1 // everything is worth monitoring
		config.Database.Path = filepath.Join(t.TempDir(), "uplink.db")
		config.UI.Plain = true

		app, output, opened := newTestApp(t, config)
		path := writeTempFile(t, 4096)

		err := app.Run(context.Background(), []string{
			"uplink", "upload", "--open", "--endpoint", receiver.URL + "/upload", path,
		})
		if err != nil {
			t.Fatalf("upload failed: %v", err)
		}

		if !strings.Contains(output.String(), "Upload complete") {
			t.Errorf("expected completion message, got %q", output.String())
		}
		if !strings.Contains(output.String(), "/calendars/1/") {
			t.Errorf("expected destination in output, got %q", output.String())
		}
		if !*opened {
			t.Error("expected --open to invoke the browser opener")
		}

		// The session landed in history.
		db, err := shared.NewDatabase(config.Database.Path)
		if err != nil {
			t.Fatalf("failed to reopen history database: %v", err)
		}
		defer db.Close()
		records, err := repositories.NewSessionRepository(db).List(0)
		if err != nil {
			t.Fatalf("failed to list history: %v", err)
		}
		if len(records) != 1 || records[0].Status != "succeeded" {
			t.Fatalf("expected one succeeded record, got %+v", records)
		}
	})

	t.Run("small upload posts directly", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(t.TempDir(), "uplink.db")
		config.UI.Plain = true

		app, output, _ := newTestApp(t, config)
		path := writeTempFile(t, 64)

		err := app.Run(context.Background(), []string{
			"uplink", "upload", "--endpoint", receiver.URL + "/upload", path,
		})
		if err != nil {
			t.Fatalf("upload failed: %v", err)
		}
		if !strings.Contains(output.String(), "Upload complete") {
			t.Errorf("expected completion message, got %q", output.String())
		}
	})

	t.Run("transport failure surfaces", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(t.TempDir(), "uplink.db")
		config.UI.Plain = true

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Config:     config,
			ConfigPath: "config.toml",
			HTTPClient: &http.Client{Transport: th.NewMockRoundTripper(nil, errors.New("connection reset"))},
			Logger:     shared.NewLogger(io.Discard),
			Output:     output,
		})
		app := &cli.Command{Name: "uplink", Commands: runner.register()}
		path := writeTempFile(t, 64)

		err := app.Run(context.Background(), []string{
			"uplink", "upload", "--endpoint", "http://127.0.0.1:1/upload", path,
		})
		if !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})

	t.Run("no files", func(t *testing.T) {
		app, _, _ := newTestApp(t, shared.DefaultConfig())

		err := app.Run(context.Background(), []string{"uplink", "upload"})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("no endpoint", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Upload.Endpoint = ""
		app, _, _ := newTestApp(t, config)
		path := writeTempFile(t, 64)

		err := app.Run(context.Background(), []string{"uplink", "upload", path})
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})
}

func TestSetupCommand(t *testing.T) {
	wd := th.MustGetwd(t)
	th.MustChdir(t, t.TempDir())
	t.Cleanup(func() { th.MustChdir(t, wd) })

	app, _, _ := newTestApp(t, shared.DefaultConfig())

	if err := app.Run(context.Background(), []string{"uplink", "setup"}); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	th.AssertFileExists(t, "config.toml")
	th.AssertFileExists(t, "uplink.db")

	if content := th.MustReadFile(t, "config.toml"); !strings.Contains(content, "[upload]") {
		t.Errorf("expected scaffolded config to carry an upload section, got %q", content)
	}

	// Second run is idempotent: config kept, migrations already applied.
	if err := app.Run(context.Background(), []string{"uplink", "setup"}); err != nil {
		t.Fatalf("re-running setup failed: %v", err)
	}
}
