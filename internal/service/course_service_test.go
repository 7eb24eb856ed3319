package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/enroll-api/internal/models"
	"github.com/campushq/enroll-api/internal/repository"
	appErrors "github.com/campushq/enroll-api/pkg/errors"
)

type mockCourseRepo struct {
	courses   []models.Course
	listCalls int
	seedErr   error
	seeded    []models.Course
}

func (m *mockCourseRepo) List(ctx context.Context) ([]models.Course, error) {
	m.listCalls++
	return m.courses, nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	for i := range m.courses {
		if m.courses[i].ID == id {
			return &m.courses[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) Seed(ctx context.Context, courses []models.Course) error {
	if m.seedErr != nil {
		return m.seedErr
	}
	m.seeded = courses
	return nil
}

type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

func catalogFixture() []models.Course {
	return []models.Course{
		{ID: "c-1", Code: "CS101", Name: "Intro", Capacity: 50, EnrolledCount: 12, AvailableSlots: 38},
		{ID: "c-2", Code: "CS201", Name: "DSA", Capacity: 40, EnrolledCount: 40, AvailableSlots: 0},
	}
}

func TestCourseServiceList(t *testing.T) {
	repo := &mockCourseRepo{courses: catalogFixture()}
	svc := NewCourseService(repo, nil, nil, 0, nil)

	courses, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, 38, courses[0].AvailableSlots)
	assert.Equal(t, 0, courses[1].AvailableSlots)
}

func TestCourseServiceListCachesCatalog(t *testing.T) {
	repo := &mockCourseRepo{courses: catalogFixture()}
	svc := NewCourseService(repo, newMemoryCache(), nil, time.Minute, nil)
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)
	courses, err := svc.List(ctx)
	require.NoError(t, err)

	require.Len(t, courses, 2)
	assert.Equal(t, "CS101", courses[0].Code)
	assert.Equal(t, 1, repo.listCalls)
}

func TestCourseServiceInvalidateCatalogForcesReload(t *testing.T) {
	repo := &mockCourseRepo{courses: catalogFixture()}
	svc := NewCourseService(repo, newMemoryCache(), nil, time.Minute, nil)
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)
	svc.InvalidateCatalog(ctx)
	_, err = svc.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, repo.listCalls)
}

func TestCourseServiceGet(t *testing.T) {
	repo := &mockCourseRepo{courses: catalogFixture()}
	svc := NewCourseService(repo, nil, nil, 0, nil)

	course, err := svc.Get(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, "CS101", course.Code)
}

func TestCourseServiceGetMissing(t *testing.T) {
	svc := NewCourseService(&mockCourseRepo{}, nil, nil, 0, nil)

	_, err := svc.Get(context.Background(), "ghost")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "Course not found", appErr.Message)
}

func TestCourseServiceSeed(t *testing.T) {
	repo := &mockCourseRepo{}
	cache := newMemoryCache()
	cache.entries[courseListCacheKey] = []byte("[]")
	svc := NewCourseService(repo, cache, nil, time.Minute, nil)

	summaries, err := svc.Seed(context.Background(), []models.Course{
		{Code: "CS101", Name: "Intro"},
		{Code: "CS201", Name: "DSA"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"CS101: Intro", "CS201: DSA"}, summaries)
	assert.Len(t, repo.seeded, 2)
	_, stale := cache.entries[courseListCacheKey]
	assert.False(t, stale)
}

func TestCourseServiceSeedRefusesNonEmptyCatalog(t *testing.T) {
	repo := &mockCourseRepo{seedErr: repository.ErrCoursesExist}
	svc := NewCourseService(repo, nil, nil, 0, nil)

	_, err := svc.Seed(context.Background(), []models.Course{{Code: "CS101", Name: "Intro"}})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "Database already contains courses. Clear existing data first.", appErr.Message)
}
