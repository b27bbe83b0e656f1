package middleware

import (
	"strings"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/pkg/auth"
	"github.com/ev-station-service/internal/pkg/errors"
	"github.com/ev-station-service/internal/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

const actorKey = "actor"

// TokenValidator проверяет JWT и возвращает claims
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// Authenticate требует валидный Bearer токен и кладёт Actor в c.Locals
func Authenticate(tokens TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := bearerToken(c)
		if !ok {
			return utils.SendError(c, errors.ErrUnauthorized)
		}

		claims, err := tokens.ValidateToken(raw)
		if err != nil {
			return utils.SendError(c, errors.ErrInvalidToken)
		}

		c.Locals(actorKey, domain.Actor{UserID: claims.UserID, Role: domain.Role(claims.Role)})
		return c.Next()
	}
}

// OptionalAuth пропускает запросы без токена; невалидный токен считается отсутствующим
func OptionalAuth(tokens TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if raw, ok := bearerToken(c); ok {
			if claims, err := tokens.ValidateToken(raw); err == nil {
				c.Locals(actorKey, domain.Actor{UserID: claims.UserID, Role: domain.Role(claims.Role)})
			}
		}
		return c.Next()
	}
}

// RequireRole пропускает только указанные роли; ставится после Authenticate
func RequireRole(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromCtx(c)
		if !ok {
			return utils.SendError(c, errors.ErrUnauthorized)
		}
		for _, r := range roles {
			if actor.Role == r {
				return c.Next()
			}
		}
		return utils.SendError(c, errors.ErrForbidden.WithMessage("User role "+string(actor.Role)+" is not authorized to access this route"))
	}
}

// ActorFromCtx возвращает аутентифицированного пользователя запроса
func ActorFromCtx(c *fiber.Ctx) (domain.Actor, bool) {
	actor, ok := c.Locals(actorKey).(domain.Actor)
	return actor, ok && actor.UserID != ""
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
