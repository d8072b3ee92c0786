package middleware

import (
	"strings"

	"github.com/fernandwill/jobsphere/internal/auth"
	"github.com/fernandwill/jobsphere/internal/repository"
	"github.com/fernandwill/jobsphere/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SessionCookie is the HTTP-only cookie holding the session token.
const SessionCookie = "jobsphere_session"

// UserIDKey is the request-local key the authenticated user id is stored
// under.
const UserIDKey = "userID"

// Auth validates the session token (cookie or bearer header), checks the
// user still exists, and loads the user id into request locals. Requests
// without a valid session get a 401.
func Auth(jwtManager *auth.JWTManager, users *repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookie)
		if token == "" {
			header := c.Get(fiber.HeaderAuthorization)
			if strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimPrefix(header, "Bearer ")
			}
		}
		if token == "" {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusUnauthorized,
				Message: "Unauthenticated",
			})
		}

		userID, err := jwtManager.ValidateToken(token)
		if err != nil {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusUnauthorized,
				Message: "Unauthenticated",
			}, err)
		}

		if _, err := users.FindByID(userID); err != nil {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusUnauthorized,
				Message: "Unauthenticated",
			}, err)
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// UserID reads the authenticated user id set by Auth.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(UserIDKey).(uuid.UUID)
	return id, ok
}
