package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jt828/hello-observability/internal/constant"
	"github.com/jt828/hello-observability/pkg/model"
)

const (
	DefaultMinDelay = 100 * time.Millisecond
	DefaultMaxDelay = time.Second
)

type HelloService interface {
	Hello(ctx context.Context) (*model.Greeting, error)
}

type Config struct {
	MinDelay time.Duration
	MaxDelay time.Duration
	// Random returns a value in [0, 1]; it picks where the delay falls in the range.
	Random func() float64
}

type Option func(*Config)

func WithDelayRange(min, max time.Duration) Option {
	return func(c *Config) {
		c.MinDelay = min
		c.MaxDelay = max
	}
}

func WithRandom(fn func() float64) Option {
	return func(c *Config) {
		c.Random = fn
	}
}

type helloService struct {
	minDelay time.Duration
	maxDelay time.Duration
	random   func() float64
}

func NewHelloService(opts ...Option) HelloService {
	cfg := &Config{
		MinDelay: DefaultMinDelay,
		MaxDelay: DefaultMaxDelay,
		Random:   rand.Float64,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay
	}

	return &helloService{minDelay: cfg.MinDelay, maxDelay: cfg.MaxDelay, random: cfg.Random}
}

// Hello waits for a random delay without holding any lock, so concurrent
// requests overlap their waits. A cancelled ctx ends the wait early and
// returns an error; nothing is measured in that case.
func (s *helloService) Hello(ctx context.Context) (*model.Greeting, error) {
	start := time.Now()
	delay := s.drawDelay()

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("simulated work interrupted after %s: %w", time.Since(start), ctx.Err())
	case <-timer.C:
	}

	return &model.Greeting{
		Message:  constant.HelloMessage,
		Delay:    delay.Seconds(),
		Duration: time.Since(start).Seconds(),
	}, nil
}

func (s *helloService) drawDelay() time.Duration {
	r := s.random()
	switch {
	case r < 0:
		r = 0
	case r > 1:
		r = 1
	}
	span := s.maxDelay - s.minDelay
	return s.minDelay + time.Duration(r*float64(span))
}
