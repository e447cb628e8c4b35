package server

import (
	"errors"

	"github.com/rockyhaque/uplift-orbit-server/internal/middleware"
	"github.com/rockyhaque/uplift-orbit-server/internal/models"
	"github.com/rockyhaque/uplift-orbit-server/internal/repository"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const duplicateProposalMessage = "You have already made a proposal for this job!"

// CreateBid handles POST /bid
func (s *Server) CreateBid(c *fiber.Ctx) error {
	ctx := c.Context()

	var bid models.Bid
	if err := c.BodyParser(&bid); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	// Bidders attach free-form fields (portfolio links, cover notes); keep
	// them on the document rather than dropping everything outside the
	// typed set.
	bid.CaptureExtra(c.Body())

	if bid.Email == "" || bid.JobID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email and jobId are required"))
	}
	jobOID, err := primitive.ObjectIDFromHex(bid.JobID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid job ID"))
	}

	// Fast duplicate check for the friendly error; the unique index below is
	// the authoritative guard.
	exists, err := s.bidRepo.HasBidForJob(ctx, bid.Email, bid.JobID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if exists {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewConflictError(duplicateProposalMessage))
	}

	id, err := s.bidRepo.Create(ctx, &bid)
	if errors.Is(err, repository.ErrDuplicateBid) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewConflictError(duplicateProposalMessage))
	}
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	// Denormalized counter on the parent job. The increment is a separate
	// write with no cross-step isolation; on failure the bid stands and the
	// counter drifts until the next successful increment.
	if incErr := s.jobRepo.IncrementBidCount(ctx, jobOID); incErr != nil {
		middleware.Logger.WarnContext(c.UserContext(), "bid count increment failed",
			"job_id", bid.JobID, "error", incErr.Error())
	}

	return c.JSON(fiber.Map{
		"acknowledged": true,
		"insertedId":   id.Hex(),
	})
}

// GetMyBids handles GET /mybids/:email (requires auth + email match)
func (s *Server) GetMyBids(c *fiber.Ctx) error {
	email, err := requireOwnEmail(c)
	if err != nil {
		return nil
	}

	bids, err := s.bidRepo.GetByBidderEmail(c.Context(), email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(bids)
}

// GetBidRequests handles GET /bidRequests/:email (requires auth + email match)
// Lists incoming proposals for jobs owned by the given email.
func (s *Server) GetBidRequests(c *fiber.Ctx) error {
	email, err := requireOwnEmail(c)
	if err != nil {
		return nil
	}

	bids, err := s.bidRepo.GetByOwnerEmail(c.Context(), email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(bids)
}

// UpdateBidStatus handles PATCH /bid/:id
func (s *Server) UpdateBidStatus(c *fiber.Ctx) error {
	id, err := parseObjectID(c, "id")
	if err != nil {
		return nil
	}

	var update models.BidStatusUpdate
	if parseErr := c.BodyParser(&update); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if update.Status == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Status is required"))
	}

	result, err := s.bidRepo.UpdateStatus(c.Context(), id, update)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(result)
}
