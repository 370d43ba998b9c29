package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/conduit/internal/repository"
)

// TagService exposes the distinct tags in use across all articles.
type TagService struct {
	articles repository.ArticleRepository
	logger   *slog.Logger
}

func NewTagService(articles repository.ArticleRepository, logger *slog.Logger) *TagService {
	return &TagService{articles: articles, logger: logger}
}

// List returns every distinct tag.
func (s *TagService) List(ctx context.Context) ([]string, error) {
	tags, err := s.articles.Tags(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}
