package labeling

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"spmaal/internal/config"
	"spmaal/internal/history"
	"spmaal/internal/launcher"
	"spmaal/internal/logging"
	"spmaal/internal/report"
	"spmaal/internal/scraper"
	"spmaal/internal/services"
	"spmaal/internal/tmpl"
)

// LockFileName is created in the working directory when locking is enabled.
const LockFileName = ".spmaal.lock"

// maxStderrDetail caps how much MATLAB stderr is folded into an error.
const maxStderrDetail = 2048

// Config holds everything a Labeler needs; nothing is read from globals.
type Config struct {
	MATLAB    string
	ExtraArgs []string
	AALNii    string
	AALTxt    string
	// Templates defaults to the built-in set.
	Templates      fs.FS
	K              int
	Threshold      float64
	Timeout        time.Duration
	Nice           int
	KeepScripts    bool
	LockWorkingDir bool
	// TempDir is the parent of per-run script directories; empty means os.TempDir.
	TempDir string
}

// ConfigFromSettings maps loaded settings onto a labeling Config.
func ConfigFromSettings(cfg *config.Config) Config {
	return Config{
		MATLAB:         cfg.MATLAB.Binary,
		ExtraArgs:      append([]string(nil), cfg.MATLAB.ExtraArgs...),
		AALNii:         cfg.Paths.AALNii,
		AALTxt:         cfg.Paths.AALTxt,
		Templates:      tmpl.Source(cfg.Paths.TemplateDir),
		K:              cfg.Labeling.K,
		Threshold:      cfg.Labeling.Threshold,
		Timeout:        cfg.MATLABTimeout(),
		Nice:           cfg.MATLAB.Nice,
		KeepScripts:    cfg.MATLAB.KeepScripts,
		LockWorkingDir: cfg.MATLAB.LockWorkingDir,
	}
}

// Request describes a single labeling run.
type Request struct {
	Source    string
	Contrast  int
	Mode      Mode
	K         int
	Threshold float64
}

// Result is the outcome of a successful run.
type Result struct {
	RunID     string
	Mode      Mode
	Lines     []string
	Contrasts []string
	Stdout    string
	Stderr    string
	Duration  time.Duration
	// ScriptDir is set only when scripts were kept.
	ScriptDir string
}

// Table parses the scraped lines into a report table.
func (r *Result) Table() (*report.Table, error) {
	return report.Parse(r.Lines)
}

// Runner launches external commands. *launcher.Launcher satisfies it.
type Runner interface {
	Run(ctx context.Context, cmd launcher.Command) (launcher.Result, error)
}

// Recorder persists run outcomes. *history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, run history.Run) (history.Run, error)
}

// Option configures a Labeler.
type Option func(*Labeler)

// WithLogger sets the logger; the default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Labeler) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithLauncher replaces the process launcher.
func WithLauncher(runner Runner) Option {
	return func(l *Labeler) {
		if runner != nil {
			l.runner = runner
		}
	}
}

// WithRecorder attaches a run history.
func WithRecorder(recorder Recorder) Option {
	return func(l *Labeler) {
		l.recorder = recorder
	}
}

// Labeler runs SPM/AAL labeling through MATLAB.
type Labeler struct {
	cfg      Config
	logger   *slog.Logger
	runner   Runner
	recorder Recorder
	now      func() time.Time
}

// New validates cfg and constructs a Labeler.
func New(cfg Config, opts ...Option) (*Labeler, error) {
	cfg.MATLAB = strings.TrimSpace(cfg.MATLAB)
	if cfg.MATLAB == "" {
		return nil, services.Wrap(services.ErrConfiguration, "labeling", "new", "matlab binary required", nil)
	}
	cfg.AALNii = strings.TrimSpace(cfg.AALNii)
	if cfg.AALNii == "" {
		return nil, services.Wrap(services.ErrConfiguration, "labeling", "new", "aal_nii required", nil)
	}
	if strings.TrimSpace(cfg.AALTxt) == "" {
		cfg.AALTxt = config.AtlasTablePath(cfg.AALNii)
	}
	if cfg.Templates == nil {
		cfg.Templates = tmpl.Builtin()
	}
	if cfg.Nice < -20 || cfg.Nice > 19 {
		return nil, services.Wrap(services.ErrConfiguration, "labeling", "new",
			fmt.Sprintf("nice %d outside -20..19", cfg.Nice), nil)
	}

	l := &Labeler{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logging.NewNop()
	}
	if l.runner == nil {
		l.runner = launcher.New(l.logger)
	}
	l.logger = logging.NewComponentLogger(l.logger, "labeling")
	return l, nil
}

// Config returns the effective configuration.
func (l *Labeler) Config() Config {
	return l.cfg
}

// Request builds a request carrying the configured K and threshold.
func (l *Labeler) Request(source string, contrast int, mode Mode) Request {
	return Request{
		Source:    source,
		Contrast:  contrast,
		Mode:      mode,
		K:         l.cfg.K,
		Threshold: l.cfg.Threshold,
	}
}

// Run executes one labeling run and returns the scraped STATISTICS section.
func (l *Labeler) Run(ctx context.Context, req Request) (*Result, error) {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithStage(ctx, "labeling")
	logger := logging.WithContext(ctx, l.logger)

	started := l.now()
	result, err := l.run(ctx, logger, runID, req)
	if result != nil {
		result.Duration = l.now().Sub(started)
	}
	l.record(ctx, logger, runID, req, started, result, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (l *Labeler) run(ctx context.Context, logger *slog.Logger, runID string, req Request) (*Result, error) {
	source, err := l.validate(req)
	if err != nil {
		return nil, err
	}
	workDir := filepath.Dir(source)

	if l.cfg.LockWorkingDir {
		unlock, err := lockWorkingDir(workDir)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	scriptDir, err := os.MkdirTemp(l.cfg.TempDir, "spmaal-")
	if err != nil {
		return nil, fmt.Errorf("create script dir: %w", err)
	}
	keep := l.cfg.KeepScripts
	defer func() {
		if keep {
			logger.Info("keeping rendered scripts", logging.String("script_dir", scriptDir))
			return
		}
		if rmErr := os.RemoveAll(scriptDir); rmErr != nil {
			logger.Warn("failed to remove script dir", logging.String("script_dir", scriptDir), logging.Error(rmErr))
		}
	}()

	wrapper, err := l.writeScripts(logger, scriptDir, source, req)
	if err != nil {
		return nil, err
	}

	cmd := launcher.Command{
		Binary:  l.cfg.MATLAB,
		Args:    matlabArgs(l.cfg.ExtraArgs, batchStatement(workDir, scriptDir, wrapper)),
		Dir:     workDir,
		Timeout: l.cfg.Timeout,
		Nice:    l.cfg.Nice,
	}
	logger.Info("running labeling",
		logging.String("source", source),
		logging.Int("contrast", req.Contrast),
		logging.String("mode", req.Mode.Title()),
		logging.Int("k", req.K),
		logging.Float64("threshold", req.Threshold),
	)

	out, runErr := l.runner.Run(ctx, cmd)
	if runErr != nil && !errors.Is(runErr, services.ErrExternalTool) {
		return nil, runErr
	}

	section := scraper.Scan(out.Stdout, scraper.WithContrastObserver(func(line string) {
		logger.Info("Contrast: " + line)
	}))
	if section.Empty() {
		msg := fmt.Sprintf("command returned an empty result; make sure %s runs and SPM with the AAL toolbox is on the MATLAB path", l.cfg.MATLAB)
		if stderr := tail(out.Stderr, maxStderrDetail); stderr != "" {
			msg += "; stderr: " + stderr
		}
		return nil, services.Wrap(services.ErrEmptyReport, "labeling", "scrape", msg, runErr)
	}
	if runErr != nil {
		logger.Warn("matlab exited with error but produced statistics",
			logging.Int("exit_code", out.ExitCode),
			logging.Error(runErr),
		)
	}

	result := &Result{
		RunID:     runID,
		Mode:      req.Mode,
		Lines:     section.Lines,
		Contrasts: section.Contrasts,
		Stdout:    out.Stdout,
		Stderr:    out.Stderr,
	}
	if keep {
		result.ScriptDir = scriptDir
	}
	logger.Info("labeling finished", logging.Int("lines", len(section.Lines)))
	return result, nil
}

func (l *Labeler) validate(req Request) (string, error) {
	source := strings.TrimSpace(req.Source)
	if source == "" {
		return "", services.Wrap(services.ErrMissingInput, "labeling", "validate", "source SPM.mat required", nil)
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		return "", fmt.Errorf("resolve source path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return "", services.Wrap(services.ErrMissingInput, "labeling", "validate",
			fmt.Sprintf("%s should be an existing file", abs), err)
	}
	if info, err := os.Stat(l.cfg.AALNii); err != nil || info.IsDir() {
		return "", services.Wrap(services.ErrMissingInput, "labeling", "validate",
			fmt.Sprintf("check path to AAL (%s not found)", l.cfg.AALNii), err)
	}
	if !req.Mode.Valid() {
		_, err := ModeFromInt(int(req.Mode))
		return "", err
	}
	if req.Contrast < 1 {
		return "", services.Wrap(services.ErrValidation, "labeling", "validate",
			fmt.Sprintf("contrast index must be positive, got %d", req.Contrast), nil)
	}
	if req.K < 0 {
		return "", services.Wrap(services.ErrValidation, "labeling", "validate",
			fmt.Sprintf("cluster extent k must be non-negative, got %d", req.K), nil)
	}
	if math.IsNaN(req.Threshold) || math.IsInf(req.Threshold, 0) {
		return "", services.Wrap(services.ErrValidation, "labeling", "validate", "threshold must be finite", nil)
	}
	return abs, nil
}

// writeScripts renders the mode script and the wrapper into dir and returns
// the wrapper's MATLAB name.
func (l *Labeler) writeScripts(logger *slog.Logger, dir, source string, req Request) (string, error) {
	modeName := scriptName()
	modeScript, err := tmpl.RenderFS(l.cfg.Templates, req.Mode.Template(), map[string]string{
		"aal_nii": matlabEscape(l.cfg.AALNii),
		"aal_txt": matlabEscape(l.cfg.AALTxt),
	})
	if err != nil {
		return "", err
	}
	if err := writeScript(dir, modeName, modeScript); err != nil {
		return "", err
	}

	wrapperName := scriptName()
	wrapper, err := tmpl.RenderFS(l.cfg.Templates, tmpl.WrapperTemplate, map[string]string{
		"spm_mat_file": matlabEscape(source),
		"contrast":     strconv.Itoa(req.Contrast),
		"mode":         modeName,
		"threshold":    formatThreshold(req.Threshold),
		"k":            strconv.Itoa(req.K),
	})
	if err != nil {
		return "", err
	}
	if err := writeScript(dir, wrapperName, wrapper); err != nil {
		return "", err
	}
	logger.Debug("rendered scripts",
		logging.String("script_dir", dir),
		logging.String("wrapper", wrapperName),
		logging.String("mode_script", modeName),
	)
	return wrapperName, nil
}

func writeScript(dir, name, content string) error {
	path := filepath.Join(dir, name+".m")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func lockWorkingDir(dir string) (func(), error) {
	lock := flock.New(filepath.Join(dir, LockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock working directory: %w", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrBusy, "labeling", "lock",
			fmt.Sprintf("another run holds %s", lock.Path()), nil)
	}
	return func() { _ = lock.Unlock() }, nil
}

func (l *Labeler) record(ctx context.Context, logger *slog.Logger, runID string, req Request, started time.Time, result *Result, runErr error) {
	if l.recorder == nil {
		return
	}
	run := history.Run{
		ID:         runID,
		Source:     req.Source,
		Contrast:   req.Contrast,
		Mode:       req.Mode.Script(),
		K:          req.K,
		Threshold:  req.Threshold,
		Status:     history.StatusSucceeded,
		StartedAt:  started,
		FinishedAt: l.now(),
	}
	if abs, err := filepath.Abs(req.Source); err == nil && strings.TrimSpace(req.Source) != "" {
		run.Source = abs
	}
	if runErr != nil {
		run.Status = history.StatusFailed
		run.ErrorKind = services.Kind(runErr)
		run.ErrorMessage = runErr.Error()
	}
	if result != nil {
		run.Rows = len(result.Lines)
		if table, err := result.Table(); err == nil {
			run.Rows = len(table.Rows)
		}
	}
	// A detached context still records runs interrupted by Ctrl-C.
	if _, err := l.recorder.Record(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("failed to record run history", logging.Error(err))
	}
}

func tail(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	start := len(s) - limit
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return "..." + s[start:]
}
