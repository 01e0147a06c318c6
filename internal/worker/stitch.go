package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"appsamples/internal/logger"
	"appsamples/internal/model"
	"appsamples/internal/service"
	"appsamples/internal/storage"
)

const (
	stitchOutput = "stitch.jpg"
	stitchThumb  = "stitch-thumb.jpg"
	thumbSize    = "200x200"
)

// StitcherConfig configures a Stitcher.
type StitcherConfig struct {
	WorkDir string
	// LogDir keeps a local copy of every job log; empty disables it.
	LogDir   string
	Location *time.Location
}

// Stitcher turns a photostitch job into a panorama using the hugin command line tools.
type Stitcher struct {
	cfg     StitcherConfig
	store   storage.Storage
	runner  CommandRunner
	log     *zap.Logger
	metrics *Metrics
	now     func() time.Time
}

// NewStitcher builds a Stitcher.
func NewStitcher(cfg StitcherConfig, store storage.Storage, runner CommandRunner, log *zap.Logger, m *Metrics) *Stitcher {
	if cfg.WorkDir == "" {
		cfg.WorkDir = os.TempDir()
	}
	if m == nil {
		m = nopMetrics()
	}
	return &Stitcher{
		cfg:     cfg,
		store:   store,
		runner:  runner,
		log:     log.With(zap.String("component", "stitcher")),
		metrics: m,
		now:     time.Now,
	}
}

// Handle decodes the job carried by a photostitch task and runs it. The task is acknowledged even when
// stitching fails; the FAILED state and the uploaded log report the outcome.
func (s *Stitcher) Handle(ctx context.Context, task model.Task) error {
	var job model.StitchJob
	if err := json.Unmarshal(task.Payload, &job); err != nil {
		s.log.Error("stitch_job_invalid", zap.String("task", task.Name), zap.Error(err))
		return nil
	}
	if job.Base == "" {
		s.log.Error("stitch_job_invalid", zap.String("task", task.Name), zap.String("reason", "missing base"))
		return nil
	}
	status := s.Run(ctx, job)
	s.metrics.stitchJob.WithLabelValues(status).Inc()
	return nil
}

// stitchRun holds the state of one job while it runs.
type stitchRun struct {
	*Stitcher
	job   model.StitchJob
	dir   string
	log   *zap.Logger
	state model.StitchState
}

// Run executes job and returns its final status.
func (s *Stitcher) Run(ctx context.Context, job model.StitchJob) string {
	var buf bytes.Buffer
	log, closeLog := s.jobLogger(job.Base, &buf)

	run := &stitchRun{
		Stitcher: s,
		job:      job,
		log:      log,
		state:    model.StitchState{OutputBase: job.Base + "/output"},
	}

	err := run.execute(ctx)
	if err != nil {
		log.Error("stitch_failed", zap.Error(err))
		run.state.Output = nil
		run.setState(ctx, model.StitchFailed)
	}
	status := run.state.Status

	closeLog()
	if _, perr := storage.PutBytes(ctx, s.store, run.outputKey(service.LogFile), buf.Bytes(), "text/plain"); perr != nil {
		s.log.Error("stitch_log_upload_failed", zap.String("base", job.Base), zap.Error(perr))
	}
	if run.dir != "" {
		if rerr := os.RemoveAll(run.dir); rerr != nil {
			s.log.Warn("stitch_cleanup_failed", zap.String("dir", run.dir), zap.Error(rerr))
		}
	}
	return status
}

// jobLogger tees the worker logger into an in-memory buffer, and into LogDir when configured.
func (s *Stitcher) jobLogger(base string, buf *bytes.Buffer) (*zap.Logger, func()) {
	enc := zapcore.NewJSONEncoder(logger.EncoderConfig(s.cfg.Location))
	sinks := []zapcore.WriteSyncer{zapcore.AddSync(buf)}

	var file *os.File
	if s.cfg.LogDir != "" {
		name := strings.NewReplacer("/", "_", "@", "_at_").Replace(base) + ".log"
		f, err := os.OpenFile(filepath.Join(s.cfg.LogDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			s.log.Warn("stitch_log_file_unavailable", zap.String("base", base), zap.Error(err))
		} else {
			file = f
			sinks = append(sinks, f)
		}
	}

	core := zapcore.NewCore(enc, zapcore.NewMultiWriteSyncer(sinks...), zapcore.DebugLevel)
	log := zap.New(zapcore.NewTee(s.log.Core(), core)).With(zap.String("base", base))
	return log, func() {
		_ = log.Sync()
		if file != nil {
			_ = file.Close()
		}
	}
}

func (r *stitchRun) execute(ctx context.Context) error {
	dir, err := os.MkdirTemp(r.cfg.WorkDir, "stitch-")
	if err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	r.dir = dir
	r.log.Info("stitch_started", zap.String("work_dir", dir), zap.Int("input_files", len(r.job.InputFiles)))

	r.setState(ctx, model.StitchDownloading)

	inputs := make([]string, 0, len(r.job.InputFiles))
	for i, in := range r.job.InputFiles {
		name := fmt.Sprintf("input%03d%s", i, path.Ext(in.Name))
		if err := r.download(ctx, in, name); err != nil {
			return err
		}
		thumb, err := r.thumbnail(ctx, name)
		if err != nil {
			return err
		}
		for _, f := range []string{name, thumb} {
			if err := r.upload(ctx, f); err != nil {
				return err
			}
		}
		inputs = append(inputs, name)
		r.state.Input = append(r.state.Input, model.StitchImagePair{Full: name, Thumb: thumb})
	}

	r.setState(ctx, model.StitchStitching)

	steps := []Command{
		{Name: "match-n-shift", Args: append([]string{"-o", "pano.1.pto"}, inputs...)},
		{Name: "ptoanchor", Args: []string{"--output", "pano.2.pto", "pano.1.pto"}},
		{Name: "pto2mk", Args: []string{"-o", "pano.pto.mk", "-p", "pano", "pano.2.pto"}},
		{Name: "make", Args: []string{"-j", "8", "-e", "-f", "pano.pto.mk", "pano.tif"}},
		{Name: "convert", Args: []string{"-trim", "pano.tif", stitchOutput}},
	}
	for _, cmd := range steps {
		if err := r.run(ctx, cmd); err != nil {
			return err
		}
	}

	if _, err := os.Stat(filepath.Join(dir, stitchOutput)); err != nil {
		return fmt.Errorf("stitch produced no %s: %w", stitchOutput, err)
	}
	if err := r.run(ctx, Command{Name: "convert", Args: []string{stitchOutput, "-thumbnail", thumbSize, stitchThumb}}); err != nil {
		return err
	}
	for _, f := range []string{stitchOutput, stitchThumb} {
		if err := r.upload(ctx, f); err != nil {
			return err
		}
	}

	r.state.Output = &model.StitchImagePair{Full: stitchOutput, Thumb: stitchThumb}
	r.setState(ctx, model.StitchDone)
	r.log.Info("stitch_done")
	return nil
}

// download concatenates the stored chunks of one input photo into the work dir.
func (r *stitchRun) download(ctx context.Context, in model.StitchInputFile, name string) error {
	f, err := os.Create(filepath.Join(r.dir, name))
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	for _, chunk := range in.Chunks {
		rc, _, err := r.store.Get(ctx, r.job.Base+"/input/"+chunk)
		if err != nil {
			return fmt.Errorf("download chunk %s: %w", chunk, err)
		}
		_, err = io.Copy(f, rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("download chunk %s: %w", chunk, err)
		}
	}
	r.log.Debug("stitch_input_downloaded", zap.String("file", in.Name), zap.String("as", name), zap.Int("chunks", len(in.Chunks)))
	return f.Close()
}

func (r *stitchRun) thumbnail(ctx context.Context, name string) (string, error) {
	ext := path.Ext(name)
	thumb := strings.TrimSuffix(name, ext) + "-thumb" + ext
	if err := r.run(ctx, Command{Name: "convert", Args: []string{name, "-thumbnail", thumbSize, thumb}}); err != nil {
		return "", err
	}
	return thumb, nil
}

func (r *stitchRun) run(ctx context.Context, cmd Command) error {
	cmd.Dir = r.dir
	start := time.Now()
	res, err := r.runner.Run(ctx, cmd)
	r.log.Info("stitch_command",
		zap.String("command", cmd.String()),
		zap.String("output", res.Combined()),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return err
}

func (r *stitchRun) upload(ctx context.Context, name string) error {
	f, err := os.Open(filepath.Join(r.dir, name))
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", name, err)
	}
	if _, err := r.store.Put(ctx, r.outputKey(name), f, storage.PutObjectOptions{
		Size:        fi.Size(),
		ContentType: "image/jpeg",
	}); err != nil {
		return fmt.Errorf("upload %s: %w", name, err)
	}
	return nil
}

func (r *stitchRun) outputKey(name string) string {
	return r.job.Base + "/output/" + name
}

// setState publishes the state document. Failures are logged; the job carries on.
func (r *stitchRun) setState(ctx context.Context, status string) {
	r.state.Status = status
	r.state.UpdateTime = service.UnixSeconds(r.now())
	if status == model.StitchDone || status == model.StitchFailed {
		r.state.Log = service.LogFile
	}
	if err := service.WriteStitchState(ctx, r.store, r.job.Base, r.state); err != nil {
		r.log.Error("stitch_state_write_failed", zap.String("status", status), zap.Error(err))
		return
	}
	r.log.Info("stitch_state", zap.String("status", status))
}
