package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rockyhaque/uplift-orbit-server/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockJobRepository is a mock of the JobRepository interface
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) List(ctx context.Context) ([]models.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Job), args.Error(1)
}

func (m *MockJobRepository) ListPage(ctx context.Context, q models.JobPageQuery) ([]models.Job, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Job), args.Error(1)
}

func (m *MockJobRepository) Count(ctx context.Context, filter, search string) (int64, error) {
	args := m.Called(ctx, filter, search)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobRepository) GetByBuyerEmail(ctx context.Context, email string) ([]models.Job, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Job), args.Error(1)
}

func (m *MockJobRepository) Create(ctx context.Context, job *models.Job) (primitive.ObjectID, error) {
	args := m.Called(ctx, job)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockJobRepository) Update(ctx context.Context, id primitive.ObjectID, job *models.Job) (*models.JobUpdateResult, error) {
	args := m.Called(ctx, id, job)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobUpdateResult), args.Error(1)
}

func (m *MockJobRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobRepository) IncrementBidCount(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestGetJob(t *testing.T) {
	jobID := primitive.NewObjectID()

	tests := []struct {
		name           string
		idParam        string
		mockSetup      func(m *MockJobRepository)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "Success",
			idParam: jobID.Hex(),
			mockSetup: func(m *MockJobRepository) {
				m.On("GetByID", mock.Anything, jobID).
					Return(&models.Job{ID: jobID, Title: "Logo Design"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "Logo Design",
		},
		{
			name:           "Invalid ID",
			idParam:        "not-a-hex-id",
			mockSetup:      func(m *MockJobRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:    "Absent job is a 200 null",
			idParam: jobID.Hex(),
			mockSetup: func(m *MockJobRepository) {
				m.On("GetByID", mock.Anything, jobID).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "null",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockRepo := new(MockJobRepository)
			s := &Server{jobRepo: mockRepo}
			app.Get("/job/:id", s.GetJob)
			tt.mockSetup(mockRepo)

			req := httptest.NewRequest(http.MethodGet, "/job/"+tt.idParam, nil)
			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedBody != "" {
				body := readBody(t, resp)
				assert.Contains(t, body, tt.expectedBody)
			}
		})
	}
}

func TestCreateJob(t *testing.T) {
	insertedID := primitive.NewObjectID()

	tests := []struct {
		name           string
		body           string
		mockSetup      func(m *MockJobRepository)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Success",
			body: `{"title":"Logo Design","category":"Design","deadline":"2025-01-01","buyer":{"email":"a@x.com"}}`,
			mockSetup: func(m *MockJobRepository) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(job *models.Job) bool {
					return job.Title == "Logo Design" && job.Buyer.Email == "a@x.com"
				})).Return(insertedID, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   insertedID.Hex(),
		},
		{
			name:           "Missing title",
			body:           `{"category":"Design","buyer":{"email":"a@x.com"}}`,
			mockSetup:      func(m *MockJobRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing buyer email",
			body:           `{"title":"Logo Design"}`,
			mockSetup:      func(m *MockJobRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Malformed body",
			body:           `{not json`,
			mockSetup:      func(m *MockJobRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockRepo := new(MockJobRepository)
			s := &Server{jobRepo: mockRepo}
			app.Post("/job", s.CreateJob)
			tt.mockSetup(mockRepo)

			req := httptest.NewRequest(http.MethodPost, "/job", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedBody != "" {
				assert.Contains(t, readBody(t, resp), tt.expectedBody)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUpdateJob(t *testing.T) {
	jobID := primitive.NewObjectID()

	app := fiber.New()
	mockRepo := new(MockJobRepository)
	s := &Server{jobRepo: mockRepo}
	app.Put("/job/:id", s.UpdateJob)

	mockRepo.On("Update", mock.Anything, jobID, mock.MatchedBy(func(job *models.Job) bool {
		return job.Title == "Updated"
	})).Return(&models.JobUpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil)

	req := httptest.NewRequest(http.MethodPut, "/job/"+jobID.Hex(),
		strings.NewReader(`{"title":"Updated"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `"acknowledged":true`)
	assert.Contains(t, body, `"matchedCount":1`)
	assert.Contains(t, body, `"modifiedCount":1`)
}

func TestUpdateJobUpsertsMissingID(t *testing.T) {
	jobID := primitive.NewObjectID()
	upsertedID := primitive.NewObjectID()

	app := fiber.New()
	mockRepo := new(MockJobRepository)
	s := &Server{jobRepo: mockRepo}
	app.Put("/job/:id", s.UpdateJob)

	// No match: the store inserts a fresh document under its own id.
	mockRepo.On("Update", mock.Anything, jobID, mock.Anything).
		Return(&models.JobUpdateResult{Acknowledged: true, UpsertedID: upsertedID.Hex()}, nil)

	req := httptest.NewRequest(http.MethodPut, "/job/"+jobID.Hex(),
		strings.NewReader(`{"title":"Fresh"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), upsertedID.Hex())
}

func TestDeleteJob(t *testing.T) {
	jobID := primitive.NewObjectID()

	tests := []struct {
		name         string
		deletedCount int64
	}{
		{name: "Existing job", deletedCount: 1},
		{name: "Nonexistent id reports zero", deletedCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockRepo := new(MockJobRepository)
			s := &Server{jobRepo: mockRepo}
			app.Delete("/job/:id", s.DeleteJob)

			mockRepo.On("Delete", mock.Anything, jobID).Return(tt.deletedCount, nil)

			req := httptest.NewRequest(http.MethodDelete, "/job/"+jobID.Hex(), nil)
			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			body := readBody(t, resp)
			assert.Contains(t, body, `"acknowledged":true`)
			if tt.deletedCount == 0 {
				assert.Contains(t, body, `"deletedCount":0`)
			}
		})
	}
}

func TestGetPagedJobs(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockJobRepository)
	s := &Server{jobRepo: mockRepo}
	app.Get("/allJobs", s.GetPagedJobs)

	expected := models.JobPageQuery{Page: 2, Size: 5, Filter: "Design", Sort: "asc", Search: "logo"}
	mockRepo.On("ListPage", mock.Anything, expected).
		Return([]models.Job{{Title: "Logo Design"}}, nil)

	req := httptest.NewRequest(http.MethodGet,
		"/allJobs?page=2&size=5&filter=Design&sort=asc&search=logo", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockRepo.AssertExpectations(t)
}

func TestGetPagedJobsDefaults(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockJobRepository)
	s := &Server{jobRepo: mockRepo}
	app.Get("/allJobs", s.GetPagedJobs)

	// Absent or nonsense paging parameters fall back to sane defaults.
	mockRepo.On("ListPage", mock.Anything, models.JobPageQuery{Page: 1, Size: defaultPageSize}).
		Return([]models.Job{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/allJobs?page=-3&size=0", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockRepo.AssertExpectations(t)
}

func TestGetJobsCount(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockJobRepository)
	s := &Server{jobRepo: mockRepo}
	app.Get("/jobsCount", s.GetJobsCount)

	mockRepo.On("Count", mock.Anything, "Design", "logo").Return(int64(42), nil)

	req := httptest.NewRequest(http.MethodGet, "/jobsCount?filter=Design&search=logo", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"count":42`)
}

func TestGetJobs(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockJobRepository)
	s := &Server{jobRepo: mockRepo}
	app.Get("/jobs", s.GetJobs)

	mockRepo.On("List", mock.Anything).
		Return([]models.Job{{Title: "One"}, {Title: "Two"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "One")
	assert.Contains(t, body, "Two")
}
