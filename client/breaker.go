package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/Aashish23092/scorecard-ocr/dto"
)

type recognizer interface {
	Name() string
	Recognize(ctx context.Context, image []byte) (*dto.OCRPayload, error)
}

// Breaker guards a remote OCR provider so that an unavailable service fails
// fast instead of holding every upload until its timeout.
type Breaker struct {
	next    recognizer
	breaker *gobreaker.CircuitBreaker
}

func NewBreaker(next recognizer, maxRequests uint32, timeout time.Duration, log *logrus.Logger) *Breaker {
	settings := gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: maxRequests,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"provider":  name,
				"from":      from.String(),
				"to":        to.String(),
			}).Info("Circuit breaker state changed")
		},
	}

	return &Breaker{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (b *Breaker) Name() string { return b.next.Name() }

func (b *Breaker) Recognize(ctx context.Context, image []byte) (*dto.OCRPayload, error) {
	res, err := b.breaker.Execute(func() (interface{}, error) {
		return b.next.Recognize(ctx, image)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s: %w", b.Name(), dto.ErrOCRUnavailable)
		}
		return nil, err
	}
	return res.(*dto.OCRPayload), nil
}

// State reports the breaker state for health output.
func (b *Breaker) State() string {
	return b.breaker.State().String()
}
