package shopping

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Snapshotter runs fn against a consistent read view of the entity store.
type Snapshotter interface {
	ReadSnapshot(ctx context.Context, fn func(Source) error) error
}

type Service struct {
	store    Snapshotter
	exporter *Exporter
	now      func() time.Time
}

func NewService(store Snapshotter, exporter *Exporter) *Service {
	return &Service{store: store, exporter: exporter, now: time.Now}
}

// WithClock replaces the clock used to stamp generated documents.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Rows aggregates the user's shopping list inside a single read snapshot.
func (s *Service) Rows(ctx context.Context, userID int) ([]Row, error) {
	var rows []Row
	err := s.store.ReadSnapshot(ctx, func(src Source) error {
		var err error
		rows, err = Aggregate(ctx, src, userID)
		return err
	})
	switch {
	case err == nil:
		return rows, nil
	case errors.Is(err, ErrRetrieval), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}
}

// Download aggregates the user's shopping list and renders it in the requested format.
func (s *Service) Download(ctx context.Context, userID int, format Format) (*File, error) {
	rows, err := s.Rows(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.exporter.Export(format, Document{Rows: rows, GeneratedOn: s.now()})
}
