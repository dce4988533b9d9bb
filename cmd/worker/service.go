package main

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/detailpro/detailpro-backend/pkg/logger"
)

type pinger func(ctx context.Context) error

type consumer interface {
	Run(ctx context.Context) error
}

type ServiceParams struct {
	Logger    *logger.Logger
	Checks    map[string]pinger
	Consumers map[string]consumer
}

// Service checks dependencies once and then runs every consumer until one
// fails or the context ends. A failing consumer stops the rest.
type Service struct {
	logg      *logger.Logger
	checks    map[string]pinger
	consumers map[string]consumer
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if len(params.Consumers) == 0 {
		return nil, errors.New("at least one consumer is required")
	}
	for name, c := range params.Consumers {
		if c == nil {
			return nil, fmt.Errorf("consumer %q is nil", name)
		}
	}
	return &Service{logg: params.Logger, checks: params.Checks, consumers: params.Consumers}, nil
}

func (s *Service) ensureReadiness(ctx context.Context) error {
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := s.checks[name](ctx); err != nil {
			s.logg.Error(ctx, fmt.Sprintf("%s ping failed", name), err)
			return fmt.Errorf("%s ping failed: %w", name, err)
		}
	}
	s.logg.Info(ctx, "all worker dependencies are ready")
	return nil
}

func (s *Service) Run(ctx context.Context) error {
	if err := s.ensureReadiness(ctx); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(s.consumers))
	for name, c := range s.consumers {
		go func(name string, c consumer) {
			err := c.Run(runCtx)
			if err != nil && !errors.Is(err, context.Canceled) {
				s.logg.Error(ctx, fmt.Sprintf("%s consumer stopped unexpectedly", name), err)
				errCh <- fmt.Errorf("%s: %w", name, err)
				return
			}
			errCh <- nil
		}(name, c)
	}

	var first error
	for range s.consumers {
		if err := <-errCh; err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}
