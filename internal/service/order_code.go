package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/abdulrafay1716/shopflow-automation/internal/repository"
)

// OrderCodeProvider issues unique human-readable order codes.
type OrderCodeProvider interface {
	Next(ctx context.Context, now time.Time) (string, error)
}

type sequenceCodeProvider struct {
	repo   repository.OrderCodeRepository
	prefix string
}

// NewSequenceCodeProvider issues PREFIX-YYYYMMDD-NNNN codes from a per-day
// database counter.
func NewSequenceCodeProvider(repo repository.OrderCodeRepository, prefix string) OrderCodeProvider {
	return &sequenceCodeProvider{
		repo:   repo,
		prefix: prefix,
	}
}

func (p *sequenceCodeProvider) Next(ctx context.Context, now time.Time) (string, error) {
	day := now.UTC().Format("20060102")
	n, err := p.repo.NextSequence(ctx, day)
	if err != nil {
		return "", fmt.Errorf("%w: order code sequence: %v", ErrUpstreamUnavailable, err)
	}

	return fmt.Sprintf("%s-%s-%04d", p.prefix, day, n), nil
}

// FallbackOrderCode is the PREFIX-<epoch millis> code used when the
// sequence cannot be reached or its code collided.
func FallbackOrderCode(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%d", prefix, now.UnixMilli())
}

// nextOrderCode never fails: provider errors degrade to the fallback code.
func nextOrderCode(ctx context.Context, provider OrderCodeProvider, prefix string, now time.Time, log zerolog.Logger) string {
	code, err := provider.Next(ctx, now)
	if err != nil {
		fallback := FallbackOrderCode(prefix, now)
		log.Warn().Err(err).Str("order_code", fallback).Msg("order code provider unavailable, using fallback")
		return fallback
	}
	return code
}
