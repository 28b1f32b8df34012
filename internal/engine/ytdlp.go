package engine

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/vmunix/viddown/internal/media"
	"github.com/vmunix/viddown/internal/plan"
	"github.com/vmunix/viddown/pkg/clean"
	"golang.org/x/sync/errgroup"
)

// DefaultBinary is looked up on PATH when no binary is configured.
const DefaultBinary = "yt-dlp"

// stderrLines is how much of the engine's stderr is kept for error messages.
const stderrLines = 8

// YTDLP runs the yt-dlp command line program.
type YTDLP struct {
	binary string
	logger *slog.Logger
}

// NewYTDLP creates an engine that executes binary.
func NewYTDLP(binary string, logger *slog.Logger) *YTDLP {
	if binary == "" {
		binary = DefaultBinary
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &YTDLP{binary: binary, logger: logger}
}

// Binary returns the executable this engine runs.
func (y *YTDLP) Binary() string {
	return y.binary
}

// Version returns the output of yt-dlp --version.
func (y *YTDLP) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, y.binary, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("%w: %s --version: %w", ErrFailed, y.binary, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// ExtractInfo runs a metadata-only extraction.
func (y *YTDLP) ExtractInfo(ctx context.Context, url string, flat bool) (*media.Info, error) {
	args := extractArgs(url, flat)
	y.logger.Debug("extracting info", "url", url, "flat", flat)

	cmd := exec.CommandContext(ctx, y.binary, args...)
	setupProcessGroup(cmd, y.logger)
	var stdout bytes.Buffer
	stderr := newTail(stderrLines)
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	runErr := cmd.Run()
	code, err := exitCode(ctx, runErr)
	if err != nil {
		return nil, y.failure(err, stderr)
	}
	// Exit code 1 with output means some entries failed and were skipped.
	if stdout.Len() == 0 || bytes.Equal(bytes.TrimSpace(stdout.Bytes()), []byte("null")) {
		if code != 0 {
			return nil, y.failure(fmt.Errorf("exit status %d", code), stderr)
		}
		return nil, nil
	}

	var info media.Info
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, fmt.Errorf("parse info for %s: %w", url, err)
	}
	return &info, nil
}

// Download executes spec. Exit code 1 means yt-dlp ignored one or more errors
// and is returned as the return code; anything worse is an error.
func (y *YTDLP) Download(ctx context.Context, spec plan.Spec, progress ProgressFunc) (int, error) {
	target := spec.Source.Target()
	if spec.Source.Info.Loadable() {
		path, cleanup, err := writeInfoFile(spec.Source.Info)
		if err != nil {
			return 0, err
		}
		defer cleanup()
		target = path
	}

	args := downloadArgs(spec, target, spec.Source.Info.Loadable())
	y.logger.Debug("starting download", "target", target, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, y.binary, args...)
	setupProcessGroup(cmd, y.logger)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("stdout pipe: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return 0, fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("%w: start %s: %w", ErrFailed, y.binary, err)
	}

	stderr := newTail(stderrLines)
	var g errgroup.Group
	g.Go(func() error {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			if p, ok := parseProgress(scanner.Text()); ok && progress != nil {
				progress(p)
			}
		}
		return scanner.Err()
	})
	g.Go(func() error {
		_, err := io.Copy(stderr, stderrPipe)
		return err
	})
	if err := g.Wait(); err != nil {
		y.logger.Warn("reading engine output", "error", err)
	}

	code, err := exitCode(ctx, cmd.Wait())
	if err != nil {
		return code, y.failure(err, stderr)
	}
	if code != 0 {
		y.logger.Info("download incomplete", "target", target, "code", code, "stderr", stderr.String())
	}
	return code, nil
}

func (y *YTDLP) failure(err error, stderr *tail) error {
	if msg := stderr.String(); msg != "" {
		return fmt.Errorf("%w: %w: %s", ErrFailed, err, msg)
	}
	return fmt.Errorf("%w: %w", ErrFailed, err)
}

// exitCode maps the result of running the engine to a return code. Codes 0
// and 1 are outcomes; anything else is an error.
func exitCode(ctx context.Context, err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code == 1 {
			return 1, nil
		}
		return code, fmt.Errorf("exit status %d", code)
	}
	return 0, err
}

func extractArgs(url string, flat bool) []string {
	args := []string{"--dump-single-json", "--no-playlist", "--ignore-errors", "--no-warnings", "--no-colors"}
	if flat {
		args = append(args, "--flat-playlist")
	}
	return append(args, "--", url)
}

// downloadArgs renders spec as yt-dlp flags. When fromInfo is set, target is
// a path to an info JSON document instead of a URL.
func downloadArgs(spec plan.Spec, target string, fromInfo bool) []string {
	args := []string{
		"-o", spec.OutputTemplate,
		"--newline",
		"--no-colors",
		"--progress-template", progressTemplate,
	}
	if spec.NoPlaylist {
		args = append(args, "--no-playlist")
	}
	if spec.IgnoreErrors {
		args = append(args, "--ignore-errors")
	}
	if spec.Format != "" {
		args = append(args, "-f", spec.Format)
	}
	if len(spec.FormatSort) > 0 {
		args = append(args, "-S", strings.Join(spec.FormatSort, ","))
	}
	if spec.MergeOutputFormat != "" {
		args = append(args, "--merge-output-format", spec.MergeOutputFormat)
	}
	for _, pp := range spec.PostProcessors {
		switch pp.Kind {
		case plan.Remux:
			args = append(args, "--remux-video", pp.Container)
		case plan.ExtractAudio:
			args = append(args, "-x", "--audio-format", pp.Codec)
			if pp.Quality != "" {
				args = append(args, "--audio-quality", pp.Quality)
			}
		}
	}
	if spec.ConcurrentFragments > 0 {
		args = append(args, "--concurrent-fragments", strconv.Itoa(spec.ConcurrentFragments))
	}
	if spec.FFmpegLocation != "" {
		args = append(args, "--ffmpeg-location", spec.FFmpegLocation)
	}
	for _, ea := range spec.ExtractorArgs {
		args = append(args, "--extractor-args", ea)
	}
	if fromInfo {
		return append(args, "--load-info-json", target)
	}
	return append(args, "--", target)
}

func writeInfoFile(info *media.Info) (string, func(), error) {
	f, err := os.CreateTemp("", "viddown-*.info.json")
	if err != nil {
		return "", nil, fmt.Errorf("create info file: %w", err)
	}
	cleanup := func() { os.Remove(f.Name()) }
	if _, err := f.Write(info.Raw); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("write info file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close info file: %w", err)
	}
	return f.Name(), cleanup, nil
}

// tail keeps the last n lines written to it.
type tail struct {
	mu      sync.Mutex
	n       int
	lines   []string
	partial string
}

func newTail(n int) *tail {
	return &tail{n: n}
}

func (t *tail) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	parts := strings.Split(t.partial+string(p), "\n")
	t.partial = parts[len(parts)-1]
	for _, line := range parts[:len(parts)-1] {
		line = clean.Message(line)
		if line == "" {
			continue
		}
		t.lines = append(t.lines, line)
		if len(t.lines) > t.n {
			t.lines = t.lines[1:]
		}
	}
	return len(p), nil
}

func (t *tail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	lines := t.lines
	if p := clean.Message(t.partial); p != "" {
		lines = append(append([]string(nil), lines...), p)
	}
	return strings.Join(lines, "\n")
}
