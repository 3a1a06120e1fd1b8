package middleware

import (
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/token"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const localsUserKey = "currentUser"

// UserResolver resolves a verified token subject to a user record.
type UserResolver interface {
	FindByID(id uuid.UUID) (*models.User, error)
}

// Protected enforces a valid credential on the route. The token is taken
// from the session cookie first, then from the Authorization bearer header.
// A verified subject that no longer resolves to a user is rejected exactly
// like an invalid token.
func Protected(cfg *config.Config, users UserResolver) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		TokenLookup: "cookie:" + cfg.CookieName + ",header:" + fiber.HeaderAuthorization,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return Reject(c, "Unauthorized")
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			userID, err := UserID(c)
			if err != nil {
				return Reject(c, "Unauthorized")
			}
			user, err := users.FindByID(userID)
			if err != nil {
				return Reject(c, "User not found")
			}
			c.Locals(localsUserKey, user)
			return c.Next()
		},
	})
}

// OptionalUser attaches the user when a valid credential is present and
// passes through anonymously otherwise. Used by public pages that
// personalize when logged in.
func OptionalUser(codec *token.Codec, users UserResolver, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := ExtractToken(c, cookieName)
		if !ok {
			return c.Next()
		}
		userID, err := codec.Verify(raw)
		if err != nil {
			return c.Next()
		}
		if user, err := users.FindByID(userID); err == nil {
			c.Locals(localsUserKey, user)
		}
		return c.Next()
	}
}

// ExtractToken locates a credential: session cookie first, then the
// Authorization header in exact "Bearer <token>" form. Absence is a normal
// state, not an error.
func ExtractToken(c *fiber.Ctx, cookieName string) (string, bool) {
	if raw := c.Cookies(cookieName); raw != "" {
		return raw, true
	}
	if raw, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer "); ok && raw != "" {
		return raw, true
	}
	return "", false
}

// IsAPIRequest classifies the request origin: API paths and JSON clients get
// structured failures, browser navigation gets redirects.
func IsAPIRequest(c *fiber.Ctx) bool {
	if strings.HasPrefix(c.Path(), "/api") {
		return true
	}
	return strings.Contains(c.Get(fiber.HeaderContentType), "application/json")
}

// Reject produces the channel-appropriate failure response.
func Reject(c *fiber.Ctx, message string) error {
	if IsAPIRequest(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: message,
		})
	}
	return c.Redirect("/login", fiber.StatusFound)
}

// UserID extracts the subject user id from the verified JWT in context.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("invalid token in context")
	}

	sub, err := tok.Claims.GetSubject()
	if err != nil || sub == "" {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}

// CurrentUser returns the resolved identity attached by Protected or
// OptionalUser, or nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localsUserKey).(*models.User)
	return user
}
