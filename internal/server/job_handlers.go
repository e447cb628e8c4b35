package server

import (
	"github.com/rockyhaque/uplift-orbit-server/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageSize = 6
	maxPageSize     = 100
)

// GetJobs handles GET /jobs
func (s *Server) GetJobs(c *fiber.Ctx) error {
	jobs, err := s.jobRepo.List(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(jobs)
}

// GetJob handles GET /job/:id
func (s *Server) GetJob(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return nil
	}

	job, err := s.jobRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	// An absent job is a 200 null body; "not found" handling belongs to the caller.
	return c.JSON(job)
}

// CreateJob handles POST /job
func (s *Server) CreateJob(c *fiber.Ctx) error {
	var job models.Job
	if err := c.BodyParser(&job); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if job.Title == "" || job.Buyer.Email == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title and buyer email are required"))
	}

	id, err := s.jobRepo.Create(c.Context(), &job)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"acknowledged": true,
		"insertedId":   id.Hex(),
	})
}

// GetJobsByOwner handles GET /jobs/:email (requires auth + email match)
func (s *Server) GetJobsByOwner(c *fiber.Ctx) error {
	email, err := requireOwnEmail(c)
	if err != nil {
		return nil
	}

	jobs, err := s.jobRepo.GetByBuyerEmail(c.Context(), email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(jobs)
}

// UpdateJob handles PUT /job/:id
func (s *Server) UpdateJob(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return nil
	}

	var job models.Job
	if parseErr := c.BodyParser(&job); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.jobRepo.Update(c.Context(), id, &job)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(result)
}

// DeleteJob handles DELETE /job/:id
func (s *Server) DeleteJob(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return nil
	}

	deleted, err := s.jobRepo.Delete(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	// Deleting a nonexistent id is not an error; the count just reports zero.
	return c.JSON(models.JobDeleteResult{Acknowledged: true, DeletedCount: deleted})
}

// GetPagedJobs handles GET /allJobs?page&size&filter&sort&search
func (s *Server) GetPagedJobs(c *fiber.Ctx) error {
	q := models.JobPageQuery{
		Page:   c.QueryInt("page", 1),
		Size:   c.QueryInt("size", defaultPageSize),
		Filter: c.Query("filter"),
		Sort:   c.Query("sort"),
		Search: c.Query("search"),
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 {
		q.Size = defaultPageSize
	}
	if q.Size > maxPageSize {
		q.Size = maxPageSize
	}

	jobs, err := s.jobRepo.ListPage(c.Context(), q)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(jobs)
}

// GetJobsCount handles GET /jobsCount?filter&search
// Shares the predicate builder with GetPagedJobs so the page math stays honest.
func (s *Server) GetJobsCount(c *fiber.Ctx) error {
	count, err := s.jobRepo.Count(c.Context(), c.Query("filter"), c.Query("search"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"count": count})
}
