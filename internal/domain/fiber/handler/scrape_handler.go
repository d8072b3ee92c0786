package handler

import (
	"errors"
	"time"

	"github.com/fernandwill/jobsphere/internal/dto"
	"github.com/fernandwill/jobsphere/internal/middleware"
	"github.com/fernandwill/jobsphere/internal/usecase"
	"github.com/fernandwill/jobsphere/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	recentScrapeLimit  = 10
	embeddedResultsCap = 5
)

type ScrapeHandler struct {
	uc *usecase.ScrapeUsecase
}

func NewScrapeHandler(uc *usecase.ScrapeUsecase) *ScrapeHandler {
	return &ScrapeHandler{uc: uc}
}

func (h *ScrapeHandler) RegisterRoutes(app *fiber.App) {
	scrapes := app.Group("/api/scrapes")
	scrapes.Get("/", h.Index)
	scrapes.Post("/", middleware.RateLimiter(10, time.Minute), h.Store)
	scrapes.Get("/:id", h.Show)
}

func (h *ScrapeHandler) Index(c *fiber.Ctx) error {
	requests, err := h.uc.Recent(recentScrapeLimit)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list scrape requests",
		}, err)
	}

	data := make([]dto.ScrapeRequestDTO, 0, len(requests))
	for _, request := range requests {
		data = append(data, dto.NewScrapeRequestDTO(request, embeddedResultsCap))
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success list scrape requests",
		Data:    data,
	})
}

func (h *ScrapeHandler) Store(c *fiber.Ctx) error {
	var req dto.ScrapeCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ValidationErrorResponse(c, map[string]string{
			"keyword": "The keyword field is required.",
		})
	}
	if err := util.Validator().Struct(req); err != nil {
		return util.ValidationErrorResponse(c, util.ValidationMessages(err))
	}

	request, err := h.uc.Submit(req.Keyword)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to queue scrape request",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusAccepted,
		Message: "Scrape request queued",
		Data:    dto.NewScrapeRequestDTO(*request, 0),
	})
}

func (h *ScrapeHandler) Show(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "scrape request not found",
		})
	}

	request, err := h.uc.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusNotFound,
				Message: "scrape request not found",
			})
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to load scrape request",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get scrape request",
		Data:    dto.NewScrapeRequestDTO(*request, -1),
	})
}
