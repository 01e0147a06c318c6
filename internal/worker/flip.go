package worker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"appsamples/internal/auth"
	"appsamples/internal/model"
)

// FlipperConfig configures a Flipper.
type FlipperConfig struct {
	// Command is split on spaces; the image goes to stdin and the result is read from stdout.
	Command   string
	OutputURL string
	Timeout   time.Duration
}

// Flipper converts images queued by the image flipper and posts the result back to the API.
type Flipper struct {
	command []string
	output  string
	runner  CommandRunner
	tokens  *auth.TaskTokens
	client  *http.Client
	log     *zap.Logger
}

// NewFlipper builds a Flipper whose post-back client is traced with otelhttp.
func NewFlipper(cfg FlipperConfig, runner CommandRunner, tokens *auth.TaskTokens, log *zap.Logger) (*Flipper, error) {
	command := strings.Fields(cfg.Command)
	if len(command) == 0 {
		return nil, fmt.Errorf("flip command is empty")
	}
	if cfg.OutputURL == "" {
		return nil, fmt.Errorf("flip output url is empty")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Flipper{
		command: command,
		output:  cfg.OutputURL,
		runner:  runner,
		tokens:  tokens,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log.With(zap.String("component", "flipper")),
	}, nil
}

// Handle converts one imageconvert task. Any error leaves the task leased so it is retried.
func (f *Flipper) Handle(ctx context.Context, task model.Task) error {
	res, err := f.runner.Run(ctx, Command{
		Name:  f.command[0],
		Args:  f.command[1:],
		Stdin: bytes.NewReader(task.Payload),
	})
	if err != nil {
		f.log.Warn("flip_command_failed", zap.String("task", task.Name), zap.ByteString("stderr", res.Stderr))
		return err
	}
	if len(res.Stdout) == 0 {
		return fmt.Errorf("flip command produced no output")
	}

	token, err := f.tokens.Issue("worker", task.Name)
	if err != nil {
		return fmt.Errorf("issue task token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.output+url.QueryEscape(task.Name), bytes.NewReader(res.Stdout))
	if err != nil {
		return fmt.Errorf("build post-back request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("post-back: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post-back: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	f.log.Info("flip_posted", zap.String("task", task.Name), zap.Int("bytes", len(res.Stdout)))
	return nil
}
