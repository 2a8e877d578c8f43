package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/baraus/tutorhub/internal/apperror"
	"github.com/baraus/tutorhub/internal/model"
	"github.com/baraus/tutorhub/internal/repository"
)

// ConnectionService records and reports contact events.
type ConnectionService struct {
	connections repository.ConnectionRepository
	subjects    repository.SubjectRepository
	logger      *slog.Logger
}

func NewConnectionService(
	connections repository.ConnectionRepository,
	subjects repository.SubjectRepository,
	logger *slog.Logger,
) *ConnectionService {
	return &ConnectionService{
		connections: connections,
		subjects:    subjects,
		logger:      logger,
	}
}

// ConnectionList is the public listing payload: the rows plus the
// running total the landing page shows off.
type ConnectionList struct {
	Total       int                `json:"total"`
	Connections []model.Connection `json:"connections"`
}

// List returns every recorded connection and the total count.
func (s *ConnectionService) List(ctx context.Context) (*ConnectionList, error) {
	conns, err := s.connections.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/connection: listing connections: %w", err)
	}
	total, err := s.connections.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/connection: counting connections: %w", err)
	}
	return &ConnectionList{Total: total, Connections: conns}, nil
}

// Create records that the authenticated user asked for contact details,
// optionally tied to a subject (0 = unspecified). A subject ID that
// isn't in the taxonomy is rejected rather than stored dangling.
func (s *ConnectionService) Create(ctx context.Context, userID, subjectID int64) (*model.Connection, error) {
	if subjectID != 0 {
		if _, err := s.subjects.GetByID(ctx, subjectID); err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return nil, apperror.ValidationFailed("subject_id", "unknown subject")
			}
			return nil, fmt.Errorf("service/connection: checking subject %d: %w", subjectID, err)
		}
	}

	conn := &model.Connection{
		UserID:    userID,
		SubjectID: subjectID,
	}
	if err := s.connections.Create(ctx, conn); err != nil {
		return nil, fmt.Errorf("service/connection: creating connection: %w", err)
	}

	s.logger.Info("connection recorded",
		slog.Int64("connectionID", conn.ID),
		slog.Int64("userID", userID),
	)

	return conn, nil
}
