package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"examprep/internal/api"
	"examprep/internal/logger"

	"github.com/gin-gonic/gin"
)

const ctxItemKey = "catalog_item"

// SetItem attaches a resolved item to the request so downstream handlers do not reload it.
func SetItem(c *gin.Context, item *Item) {
	c.Set(ctxItemKey, item)
}

func ItemFrom(c *gin.Context) (*Item, bool) {
	v, ok := c.Get(ctxItemKey)
	if !ok {
		return nil, false
	}
	item, ok := v.(*Item)
	return item, ok && item != nil
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func mustItem(c *gin.Context, want ItemType) (*Item, bool) {
	item, ok := ItemFrom(c)
	if !ok || item.Type != want {
		logger.Error("content handler reached without a resolved item", "path", c.FullPath())
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "internal server error")
		return nil, false
	}
	return item, true
}

// @Summary      List exam plans
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} catalog.Item
// @Failure      500 {object} api.ErrorResponse
// @Router       /exam-plans [get]
func (h *Handler) ListExamPlans(c *gin.Context) {
	plans, err := h.service.ListExamPlans(c.Request.Context())
	if err != nil {
		logger.Error("list exam plans failed", "error", err)
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "Failed to fetch exam plans")
		return
	}
	c.JSON(http.StatusOK, plans)
}

// @Summary      Exam plan detail
// @Description  Requires an active purchase of the plan unless it is free.
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        planID path int true "Exam plan ID"
// @Success      200 {object} catalog.PlanDetail
// @Failure      403 {object} api.DenyResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /exam-plans/{planID} [get]
func (h *Handler) GetExamPlan(c *gin.Context) {
	plan, ok := mustItem(c, ItemExamPlan)
	if !ok {
		return
	}

	detail, err := h.service.GetPlanDetail(c.Request.Context(), plan)
	if err != nil {
		logger.Error("load plan detail failed", "plan_id", plan.ID, "error", err)
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "Failed to load exam plan")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// @Summary      Note content
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        noteID path int true "Note ID"
// @Success      200 {object} catalog.NoteContent
// @Failure      403 {object} api.DenyResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /notes/{noteID}/content [get]
func (h *Handler) GetNoteContent(c *gin.Context) {
	note, ok := mustItem(c, ItemNote)
	if !ok {
		return
	}

	content, err := h.service.GetNoteContent(c.Request.Context(), note.ID)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			api.Error(c, http.StatusNotFound, api.CodeNotFound, "Note not found")
			return
		}
		logger.Error("load note content failed", "note_id", note.ID, "error", err)
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "Failed to load note")
		return
	}
	c.JSON(http.StatusOK, content)
}

// @Summary      Test series sections
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        seriesID path int true "Test series ID"
// @Success      200 {array} catalog.Section
// @Failure      403 {object} api.DenyResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /test-series/{seriesID}/sections [get]
func (h *Handler) ListSections(c *gin.Context) {
	series, ok := mustItem(c, ItemTestSeries)
	if !ok {
		return
	}

	sections, err := h.service.ListSections(c.Request.Context(), series.ID)
	if err != nil {
		logger.Error("list sections failed", "series_id", series.ID, "error", err)
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "Failed to load sections")
		return
	}
	c.JSON(http.StatusOK, sections)
}

// @Summary      Section questions
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        seriesID path int true "Test series ID"
// @Param        sectionID path int true "Section ID"
// @Success      200 {array} catalog.QuestionView
// @Failure      403 {object} api.DenyResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /test-series/{seriesID}/sections/{sectionID}/questions [get]
func (h *Handler) ListQuestions(c *gin.Context) {
	series, ok := mustItem(c, ItemTestSeries)
	if !ok {
		return
	}

	sectionID, err := strconv.Atoi(c.Param("sectionID"))
	if err != nil || sectionID <= 0 {
		api.Error(c, http.StatusBadRequest, api.CodeInvalidRequest, "Invalid section ID")
		return
	}

	questions, err := h.service.ListQuestions(c.Request.Context(), series.ID, sectionID)
	if err != nil {
		logger.Error("list questions failed", "series_id", series.ID, "section_id", sectionID, "error", err)
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "Failed to load questions")
		return
	}
	c.JSON(http.StatusOK, questions)
}

// @Summary      Create catalog item
// @Description  Admin-only: create an exam plan, note or test series.
// @Tags         admin,catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body catalog.CreateItemRequest true "Item payload"
// @Success      201 {object} catalog.Item
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/exam-plans [post]
// @Router       /admin/notes [post]
// @Router       /admin/test-series [post]
func (h *Handler) CreateItem(itemType ItemType) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateItemRequest
		if !api.BindJSON(c, &req) {
			return
		}

		item, err := h.service.CreateItem(c.Request.Context(), itemType, req)
		if err != nil {
			switch {
			case errors.Is(err, ErrParentNotFound):
				api.Error(c, http.StatusNotFound, api.CodeNotFound, err.Error())
			case errors.Is(err, ErrParentRequired), errors.Is(err, ErrParentNotForSale),
				errors.Is(err, ErrInvalidPricing), errors.Is(err, ErrInvalidItemType):
				api.Error(c, http.StatusBadRequest, api.CodeInvalidRequest, err.Error())
			default:
				logger.Error("create catalog item failed", "type", itemType, "error", err)
				api.Error(c, http.StatusInternalServerError, api.CodeInternal, "Failed to create item")
			}
			return
		}

		logger.Info("catalog item created", "type", itemType, "id", item.ID)
		c.JSON(http.StatusCreated, item)
	}
}

// @Summary      List catalog items
// @Tags         admin,catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} catalog.Item
// @Router       /admin/exam-plans [get]
// @Router       /admin/notes [get]
// @Router       /admin/test-series [get]
func (h *Handler) ListItems(itemType ItemType) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := h.service.ListItems(c.Request.Context(), itemType)
		if err != nil {
			logger.Error("list catalog items failed", "type", itemType, "error", err)
			api.Error(c, http.StatusInternalServerError, api.CodeInternal, "Failed to fetch items")
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// @Summary      Activate or deactivate an item
// @Tags         admin,catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Item ID"
// @Param        request body catalog.UpdateStatusRequest true "Status payload"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/exam-plans/{id}/status [patch]
// @Router       /admin/notes/{id}/status [patch]
// @Router       /admin/test-series/{id}/status [patch]
func (h *Handler) UpdateStatus(itemType ItemType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			api.Error(c, http.StatusBadRequest, api.CodeInvalidRequest, "Invalid item ID")
			return
		}

		var req UpdateStatusRequest
		if !api.BindJSON(c, &req) {
			return
		}

		if err := h.service.UpdateStatus(c.Request.Context(), itemType, id, req.Status); err != nil {
			switch {
			case errors.Is(err, ErrItemNotFound):
				api.Error(c, http.StatusNotFound, api.CodeNotFound, "Item not found")
			case errors.Is(err, ErrInvalidStatus):
				api.Error(c, http.StatusBadRequest, api.CodeInvalidRequest, err.Error())
			default:
				logger.Error("update item status failed", "type", itemType, "id", id, "error", err)
				api.Error(c, http.StatusInternalServerError, api.CodeInternal, "Failed to update status")
			}
			return
		}

		c.JSON(http.StatusOK, api.MessageResponse{Message: "status updated"})
	}
}

// @Summary      Add a section to a test series
// @Tags         admin,catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Test series ID"
// @Param        request body catalog.AddSectionRequest true "Section payload"
// @Success      201 {object} catalog.Section
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/test-series/{id}/sections [post]
func (h *Handler) AddSection(c *gin.Context) {
	seriesID, err := strconv.Atoi(c.Param("id"))
	if err != nil || seriesID <= 0 {
		api.Error(c, http.StatusBadRequest, api.CodeInvalidRequest, "Invalid test series ID")
		return
	}

	var req AddSectionRequest
	if !api.BindJSON(c, &req) {
		return
	}

	section, err := h.service.AddSection(c.Request.Context(), seriesID, req)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			api.Error(c, http.StatusNotFound, api.CodeNotFound, "Test series not found")
			return
		}
		logger.Error("add section failed", "series_id", seriesID, "error", err)
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "Failed to add section")
		return
	}
	c.JSON(http.StatusCreated, section)
}

// @Summary      Add a question to a section
// @Tags         admin,catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Test series ID"
// @Param        sectionID path int true "Section ID"
// @Param        request body catalog.AddQuestionRequest true "Question payload"
// @Success      201 {object} catalog.Question
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/test-series/{id}/sections/{sectionID}/questions [post]
func (h *Handler) AddQuestion(c *gin.Context) {
	seriesID, err := strconv.Atoi(c.Param("id"))
	if err != nil || seriesID <= 0 {
		api.Error(c, http.StatusBadRequest, api.CodeInvalidRequest, "Invalid test series ID")
		return
	}
	sectionID, err := strconv.Atoi(c.Param("sectionID"))
	if err != nil || sectionID <= 0 {
		api.Error(c, http.StatusBadRequest, api.CodeInvalidRequest, "Invalid section ID")
		return
	}

	var req AddQuestionRequest
	if !api.BindJSON(c, &req) {
		return
	}

	question, err := h.service.AddQuestion(c.Request.Context(), seriesID, sectionID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSectionNotFound):
			api.Error(c, http.StatusNotFound, api.CodeNotFound, "Section not found")
		case errors.Is(err, ErrInvalidQuestion):
			api.Error(c, http.StatusBadRequest, api.CodeInvalidRequest, err.Error())
		default:
			logger.Error("add question failed", "section_id", sectionID, "error", err)
			api.Error(c, http.StatusInternalServerError, api.CodeInternal, "Failed to add question")
		}
		return
	}
	c.JSON(http.StatusCreated, question)
}
