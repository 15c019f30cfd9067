package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jt828/hello-observability/pkg/apperror"
)

const (
	DefaultURL      = "http://localhost:8000/hello"
	DefaultRequests = 100
	DefaultInterval = 10 * time.Millisecond
	DefaultTimeout  = 5 * time.Second
)

type Config struct {
	URL      string
	Requests int
	Interval time.Duration
	Timeout  time.Duration
}

type Summary struct {
	Sent      int
	Succeeded int
	Failed    int
}

func (s Summary) String() string {
	return fmt.Sprintf("sent=%d succeeded=%d failed=%d", s.Sent, s.Succeeded, s.Failed)
}

// Simulator issues sequential GET requests. A failed call is reported and
// the loop moves on; nothing is retried.
type Simulator struct {
	cfg    Config
	client *http.Client
	out    io.Writer
}

func New(cfg Config, out io.Writer) (*Simulator, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("url is required: %w", apperror.ErrInvalidArgument)
	}
	if cfg.Requests < 0 {
		return nil, fmt.Errorf("requests must not be negative, got %d: %w", cfg.Requests, apperror.ErrInvalidArgument)
	}
	if cfg.Interval < 0 {
		return nil, fmt.Errorf("interval must not be negative, got %s: %w", cfg.Interval, apperror.ErrInvalidArgument)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Simulator{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		out:    out,
	}, nil
}

// Run stops early when ctx is cancelled and returns what was sent so far.
func (s *Simulator) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	for i := 1; i <= s.cfg.Requests; i++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		sum.Sent++
		status, body, err := s.call(ctx)
		if err != nil {
			sum.Failed++
			fmt.Fprintf(s.out, "Error: %v\n", err)
		} else {
			if status >= 200 && status < 300 {
				sum.Succeeded++
			} else {
				sum.Failed++
			}
			fmt.Fprintf(s.out, "%d: %d %s\n", i, status, body)
		}

		if i == s.cfg.Requests {
			break
		}
		if err := sleep(ctx, s.cfg.Interval); err != nil {
			return sum, err
		}
	}
	return sum, nil
}

func (s *Simulator) call(ctx context.Context) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return 0, "", fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", fmt.Errorf("read body: %w", err)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return 0, "", fmt.Errorf("decode body (status %d): %w", resp.StatusCode, err)
	}
	return resp.StatusCode, compact.String(), nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
