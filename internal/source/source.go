// Package source abstracts where messages are read from: the local store or
// a remote integrations service. The pipeline only reads; messages are owned
// by their store.
package source

import (
	"context"

	"github.com/google/uuid"

	"briefdesk/internal/model"
	"briefdesk/internal/repository"
)

// Filter narrows a List call.
type Filter struct {
	Channel string
	Sender  string
	Limit   int
}

// MessageSource is the read-side capability the pipeline depends on.
// GetByID returns (nil, nil) when the message is absent.
type MessageSource interface {
	List(ctx context.Context, f Filter) ([]model.Message, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Message, error)
}

// RepoSource adapts the local message repository to the MessageSource
// interface.
type RepoSource struct {
	repo *repository.MessageRepository
}

func NewRepoSource(repo *repository.MessageRepository) *RepoSource {
	return &RepoSource{repo: repo}
}

func (s *RepoSource) List(ctx context.Context, f Filter) ([]model.Message, error) {
	return s.repo.List(ctx, repository.MessageFilter{
		Channel: f.Channel,
		Sender:  f.Sender,
		Limit:   f.Limit,
	})
}

func (s *RepoSource) GetByID(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	msg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return msg, nil
}
