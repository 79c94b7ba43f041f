// Package storagemock provides a hand-rolled Storage test double: a
// struct of optional func fields, each with a sensible default when
// unset.
package storagemock

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"workflow-core/storage"
)

type StorageMock struct {
	GetGraphMock    func(ctx context.Context, id uuid.UUID) (*storage.GraphRecord, error)
	SaveGraphMock   func(ctx context.Context, rec *storage.GraphRecord) error
	DeleteGraphMock func(ctx context.Context, id uuid.UUID) error
}

func (m *StorageMock) GetGraph(ctx context.Context, id uuid.UUID) (*storage.GraphRecord, error) {
	if m != nil && m.GetGraphMock != nil {
		return m.GetGraphMock(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *StorageMock) SaveGraph(ctx context.Context, rec *storage.GraphRecord) error {
	if m != nil && m.SaveGraphMock != nil {
		return m.SaveGraphMock(ctx, rec)
	}
	return nil
}

func (m *StorageMock) DeleteGraph(ctx context.Context, id uuid.UUID) error {
	if m != nil && m.DeleteGraphMock != nil {
		return m.DeleteGraphMock(ctx, id)
	}
	return nil
}
