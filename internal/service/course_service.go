package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/OfficialEseosa/panther-watch/internal/banner"
	"github.com/OfficialEseosa/panther-watch/internal/dto"
)

const termsCacheTTL = time.Hour

// CourseService fronts the registration system's search API for the
// clients. Searches pass through; the term list changes a few times a
// year and is served from cache.
type CourseService interface {
	Search(ctx context.Context, req *dto.CourseSearchRequest) (*dto.CourseSearchResponse, error)
	Terms(ctx context.Context, offset, max int) ([]dto.Term, error)
}

type courseService struct {
	banner banner.Client
	cache  Cache
	logger *zap.Logger
}

// NewCourseService creates the CourseService.
func NewCourseService(bannerClient banner.Client, cache Cache, logger *zap.Logger) CourseService {
	return &courseService{
		banner: bannerClient,
		cache:  cache,
		logger: logger,
	}
}

func (s *courseService) Search(ctx context.Context, req *dto.CourseSearchRequest) (*dto.CourseSearchResponse, error) {
	resp, err := s.banner.Search(ctx, req)
	if err != nil {
		s.logger.Error("course search failed",
			zap.String("term", req.Term),
			zap.String("subject", req.Subject),
			zap.Error(err))
		return nil, err
	}
	return resp, nil
}

func (s *courseService) Terms(ctx context.Context, offset, max int) ([]dto.Term, error) {
	key := fmt.Sprintf("banner:terms:%d:%d", offset, max)
	if raw, err := s.cache.GetString(ctx, key); err == nil && raw != "" {
		var terms []dto.Term
		if err := json.Unmarshal([]byte(raw), &terms); err == nil {
			return terms, nil
		}
	}

	terms, err := s.banner.GetTerms(ctx, offset, max)
	if err != nil {
		s.logger.Error("fetch terms failed", zap.Error(err))
		return nil, err
	}

	if payload, err := json.Marshal(terms); err == nil {
		if err := s.cache.SetString(ctx, key, string(payload), termsCacheTTL); err != nil {
			s.logger.Warn("terms cache write failed", zap.Error(err))
		}
	}
	return terms, nil
}
