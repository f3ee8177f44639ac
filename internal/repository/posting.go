package repository

import (
	"context"

	"github.com/honeycarbs/skillgraph/internal/domain"
)

// PostingRepository loads the posting corpus an analysis session runs on
type PostingRepository interface {
	LoadPostings(ctx context.Context, filter domain.PostingFilter) ([]domain.Posting, error)
}

// PostingWriter stores postings, replacing existing ones with the same ID
type PostingWriter interface {
	UpsertPostings(ctx context.Context, postings []domain.Posting) error
}
