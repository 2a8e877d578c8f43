package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/baraus/tutorhub/internal/apperror"
	"github.com/baraus/tutorhub/internal/model"
)

type fakeConnectionRepo struct {
	conns  []model.Connection
	nextID int64
}

func (f *fakeConnectionRepo) Create(ctx context.Context, conn *model.Connection) error {
	f.nextID++
	conn.ID = f.nextID
	conn.CreatedAt = time.Now()
	f.conns = append(f.conns, *conn)
	return nil
}

func (f *fakeConnectionRepo) List(ctx context.Context) ([]model.Connection, error) {
	return f.conns, nil
}

func (f *fakeConnectionRepo) Count(ctx context.Context) (int, error) {
	return len(f.conns), nil
}

func newTestConnectionService() (*ConnectionService, *fakeConnectionRepo) {
	repo := &fakeConnectionRepo{}
	return NewConnectionService(repo, newFakeSubjectRepo(), testLogger()), repo
}

func TestCreateConnection(t *testing.T) {
	svc, _ := newTestConnectionService()
	ctx := context.Background()

	// Subject 0 means "no subject given"
	if _, err := svc.Create(ctx, 7, 0); err != nil {
		t.Fatalf("Create(subject=0) error = %v", err)
	}
	if _, err := svc.Create(ctx, 7, 2); err != nil {
		t.Fatalf("Create(subject=2) error = %v", err)
	}

	_, err := svc.Create(ctx, 7, 99)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Create(unknown subject) error = %v, want ErrValidation", err)
	}
}

func TestListConnections_Total(t *testing.T) {
	svc, _ := newTestConnectionService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, int64(i+1), 0); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if list.Total != 3 || len(list.Connections) != 3 {
		t.Errorf("List() total=%d rows=%d, want 3/3", list.Total, len(list.Connections))
	}
}
