package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const flashTTL = 5 * time.Minute

type flashClaims struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	jwt.RegisteredClaims
}

func (handler *Handler) setFlash(c *fiber.Ctx, category string, message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		clearFlashCookie(c)
		return
	}

	now := time.Now()
	claims := flashClaims{
		Category: category,
		Message:  message,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(flashTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(handler.flashKey)
	if err != nil {
		handler.logger.Warn().Err(err).Msg("sign flash cookie")
		return
	}

	c.Cookie(&fiber.Cookie{
		Name:     flashCookieName,
		Value:    signed,
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  now.Add(flashTTL),
	})
}

// popFlash returns the pending flash message and clears it. Tampered or
// expired cookies yield an empty payload.
func (handler *Handler) popFlash(c *fiber.Ctx) FlashPayload {
	raw := strings.TrimSpace(c.Cookies(flashCookieName))
	if raw == "" {
		return FlashPayload{}
	}
	clearFlashCookie(c)

	claims := flashClaims{}
	_, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return handler.flashKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return FlashPayload{}
	}
	return FlashPayload{Category: claims.Category, Message: strings.TrimSpace(claims.Message)}
}

func clearFlashCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}
