package handler

import (
	"time"

	"github.com/fernandwill/jobsphere/internal/auth"
	"github.com/fernandwill/jobsphere/internal/middleware"
	"github.com/fernandwill/jobsphere/internal/repository"
	"github.com/fernandwill/jobsphere/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	stateCookie     = "jobsphere_oauth_state"
	sessionLifetime = 30 * 24 * time.Hour
)

type AuthHandler struct {
	providers  map[string]*auth.Provider
	jwtManager *auth.JWTManager
	userRepo   *repository.UserRepository
	log        *zap.Logger
}

func NewAuthHandler(providers map[string]*auth.Provider, jwtManager *auth.JWTManager, userRepo *repository.UserRepository, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		providers:  providers,
		jwtManager: jwtManager,
		userRepo:   userRepo,
		log:        log,
	}
}

func (h *AuthHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/auth/:provider/redirect", h.Redirect)
	app.Get("/auth/:provider/callback", h.Callback)
	app.Post("/logout", h.Logout)
}

func (h *AuthHandler) Redirect(c *fiber.Ctx) error {
	provider, ok := h.providers[c.Params("provider")]
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "unsupported provider",
		})
	}

	state := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(10 * time.Minute),
	})

	return c.Redirect(provider.Config.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	provider, ok := h.providers[c.Params("provider")]
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "unsupported provider",
		})
	}

	if c.Query("state") == "" || c.Query("state") != c.Cookies(stateCookie) {
		h.log.Warn("oauth callback with mismatched state", zap.String("provider", provider.Name))
		return c.Redirect("/", fiber.StatusTemporaryRedirect)
	}

	token, err := provider.Config.Exchange(c.Context(), c.Query("code"))
	if err != nil {
		h.log.Warn("oauth code exchange failed", zap.String("provider", provider.Name), zap.Error(err))
		return c.Redirect("/", fiber.StatusTemporaryRedirect)
	}

	profile, providerID, err := provider.FetchUser(c.Context(), token)
	if err != nil {
		h.log.Warn("oauth userinfo fetch failed", zap.String("provider", provider.Name), zap.Error(err))
		return c.Redirect("/", fiber.StatusTemporaryRedirect)
	}

	user, err := h.userRepo.UpsertByProvider(provider.Name, providerID, profile)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to sign in",
		}, err)
	}

	session, err := h.jwtManager.GenerateToken(user.ID)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to create session",
		}, err)
	}

	c.ClearCookie(stateCookie)
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(sessionLifetime),
	})

	return c.Redirect("/", fiber.StatusTemporaryRedirect)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.ClearCookie(middleware.SessionCookie)
	return c.Redirect("/", fiber.StatusTemporaryRedirect)
}
