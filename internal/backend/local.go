package backend

import (
	"context"
	"log/slog"

	"strichliste/internal/amqp"
	"strichliste/internal/core"
	"strichliste/internal/ledger"
	"strichliste/internal/storage"
)

// localStore is the local-first backend: writes land in SQLite and a sync
// message nudges the worker to mirror them. Publishing is best effort; the
// worker's periodic sweep covers lost messages.
type localStore struct {
	*storage.SQLiteRepository
	amqpClient *amqp.Client
}

var _ ledger.Store = (*localStore)(nil)

func newLocalStore(repo *storage.SQLiteRepository, amqpClient *amqp.Client) *localStore {
	return &localStore{SQLiteRepository: repo, amqpClient: amqpClient}
}

func (s *localStore) RecordCharge(ctx context.Context, c core.Charge) (string, error) {
	ref, err := s.SQLiteRepository.RecordCharge(ctx, c)
	if err != nil {
		return "", err
	}
	s.notify(ctx, amqp.KindCharge, ref)
	return ref, nil
}

func (s *localStore) RecordPayment(ctx context.Context, p core.Payment) (string, error) {
	ref, err := s.SQLiteRepository.RecordPayment(ctx, p)
	if err != nil {
		return "", err
	}
	s.notify(ctx, amqp.KindPayment, ref)
	return ref, nil
}

func (s *localStore) notify(ctx context.Context, kind, ref string) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishSync(ctx, kind, ref); err != nil {
		slog.WarnContext(ctx, "Failed to publish sync message, worker sweep will catch up",
			"kind", kind,
			"ref", ref,
			"error", err)
	}
}

func (s *localStore) Close() error {
	if s.amqpClient != nil {
		s.amqpClient.Close()
	}
	return s.SQLiteRepository.Close()
}
