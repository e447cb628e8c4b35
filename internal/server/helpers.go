package server

import (
	"errors"

	"github.com/rockyhaque/uplift-orbit-server/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseObjectID extracts a route parameter as a MongoDB ObjectID.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func parseObjectID(c *fiber.Ctx, param string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Params(param))
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return primitive.NilObjectID, errResponseWritten
	}
	return id, nil
}

// requireOwnEmail checks that the authenticated identity matches the :email
// path parameter. Authorization on top of authentication: a valid session for
// a different user yields 403.
// On mismatch it writes the response and returns errResponseWritten.
func requireOwnEmail(c *fiber.Ctx) (string, error) {
	tokenEmail, _ := c.Locals("userEmail").(string)
	email := c.Params("email")
	if tokenEmail == "" || tokenEmail != email {
		_ = models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Forbidden Access!"))
		return "", errResponseWritten
	}
	return email, nil
}
