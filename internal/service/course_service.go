package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campushq/enroll-api/internal/models"
	"github.com/campushq/enroll-api/internal/repository"
	appErrors "github.com/campushq/enroll-api/pkg/errors"
)

const courseListCacheKey = "courses:list"

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Seed(ctx context.Context, courses []models.Course) error
}

type courseCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CourseService serves catalog reads and the operational seed. The catalog is
// read-only here; seat accounting belongs to the enrollment workflow.
type CourseService struct {
	repo     courseRepository
	cache    courseCache
	metrics  *MetricsService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCourseService constructs CourseService. The cache may be nil.
func NewCourseService(repo courseRepository, cache courseCache, metrics *MetricsService, cacheTTL time.Duration, logger *zap.Logger) *CourseService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, cache: cache, metrics: metrics, cacheTTL: cacheTTL, logger: logger}
}

// List returns all courses with their computed available slots.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	var cached []models.Course
	if s.cacheGet(ctx, courseListCacheKey, &cached) {
		return cached, nil
	}

	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to fetch courses")
	}

	s.cacheSet(ctx, courseListCacheKey, courses)
	return courses, nil
}

// Get returns a single course with its computed available slots.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to fetch course details")
	}
	return course, nil
}

// Seed bootstraps the catalog with the fixture set. It refuses to touch a
// non-empty catalog.
func (s *CourseService) Seed(ctx context.Context, fixtures []models.Course) ([]string, error) {
	if err := s.repo.Seed(ctx, fixtures); err != nil {
		if errors.Is(err, repository.ErrCoursesExist) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "Database already contains courses. Clear existing data first.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to seed database")
	}

	s.InvalidateCatalog(ctx)

	summaries := make([]string, 0, len(fixtures))
	for _, course := range fixtures {
		summaries = append(summaries, fmt.Sprintf("%s: %s", course.Code, course.Name))
	}
	s.logger.Info("course catalog seeded", zap.Int("count", len(fixtures)))
	return summaries, nil
}

// InvalidateCatalog drops cached catalog reads. Called after any write that
// moves seat counts.
func (s *CourseService) InvalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, courseListCacheKey); err != nil {
		s.logger.Warn("course cache invalidation failed", zap.Error(err))
	}
}

func (s *CourseService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	start := time.Now()
	err := s.cache.Get(ctx, key, dest)
	if err != nil {
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("course cache read failed", zap.String("key", key), zap.Error(err))
		}
		s.metrics.RecordCacheOperation(false, time.Since(start))
		return false
	}
	s.metrics.RecordCacheOperation(true, time.Since(start))
	return true
}

func (s *CourseService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("course cache write failed", zap.String("key", key), zap.Error(err))
	}
}
