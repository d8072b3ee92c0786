package handler

import (
	"errors"

	"github.com/fernandwill/jobsphere/internal/dto"
	"github.com/fernandwill/jobsphere/internal/middleware"
	"github.com/fernandwill/jobsphere/internal/report"
	"github.com/fernandwill/jobsphere/internal/usecase"
	"github.com/fernandwill/jobsphere/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const timelineLimit = 10

type ApplicationHandler struct {
	uc   *usecase.ApplicationUsecase
	auth fiber.Handler
}

func NewApplicationHandler(uc *usecase.ApplicationUsecase, auth fiber.Handler) *ApplicationHandler {
	return &ApplicationHandler{uc: uc, auth: auth}
}

func (h *ApplicationHandler) RegisterRoutes(app *fiber.App) {
	applications := app.Group("/api/applications", h.auth)
	applications.Get("/", h.Index)
	applications.Post("/", h.Store)
	applications.Patch("/:id", h.Update)
	applications.Put("/:id", h.Update)
}

// Index returns the caller's applications plus the dashboard report meta
// (pipeline, activity timeline, status counts).
func (h *ApplicationHandler) Index(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusUnauthorized,
			Message: "Unauthenticated",
		})
	}

	applications, err := h.uc.ListByUser(userID)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list applications",
		}, err)
	}

	builder := report.NewBuilder(applications)

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success list applications",
		Data:    dto.NewApplicationDTOs(applications),
		Meta: fiber.Map{
			"pipeline": builder.Pipeline(),
			"activity": builder.Timeline(timelineLimit),
			"counts":   builder.Counts(),
		},
	})
}

func (h *ApplicationHandler) Store(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusUnauthorized,
			Message: "Unauthenticated",
		})
	}

	var req dto.ApplicationCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ValidationErrorResponse(c, map[string]string{
			"_request": "The request body must be valid JSON.",
		})
	}
	if err := util.Validator().Struct(req); err != nil {
		return util.ValidationErrorResponse(c, util.ValidationMessages(err))
	}

	application, err := h.uc.Create(userID, req)
	if err != nil {
		var formErr *util.FormError
		if errors.As(err, &formErr) {
			return util.ValidationErrorResponse(c, formErr.Errors)
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to create application",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Application created",
		Data:    dto.NewApplicationDTO(*application),
	})
}

func (h *ApplicationHandler) Update(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusUnauthorized,
			Message: "Unauthenticated",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "application not found",
		})
	}

	var req dto.ApplicationUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ValidationErrorResponse(c, map[string]string{
			"_request": "The request body must be valid JSON.",
		})
	}
	if err := util.Validator().Struct(req); err != nil {
		return util.ValidationErrorResponse(c, util.ValidationMessages(err))
	}

	application, err := h.uc.Update(userID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusNotFound,
				Message: "application not found",
			})
		case errors.Is(err, usecase.ErrForbidden):
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusForbidden,
				Message: "Forbidden",
			})
		}
		var formErr *util.FormError
		if errors.As(err, &formErr) {
			return util.ValidationErrorResponse(c, formErr.Errors)
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to update application",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Application updated",
		Data:    dto.NewApplicationDTO(*application),
	})
}
