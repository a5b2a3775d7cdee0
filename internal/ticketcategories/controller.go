package ticketcategories

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tiketin/internal/shared/utils/response"
	"tiketin/pkg/logger"
)

type Controller interface {
	ListTicketCategories(c *gin.Context)
	CreateTicketCategory(c *gin.Context)
	GetTicketCategoryDraft(c *gin.Context)
	UpdateTicketCategory(c *gin.Context)
	DeleteTicketCategory(c *gin.Context)
	ValidateTicketCategory(c *gin.Context)
	GetSuggestions(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// ListTicketCategories godoc
// @Summary      List ticket categories of an event
// @Tags         ticket-categories
// @Produce      json
// @Param        eventId  path  string  true  "Event ID"
// @Success      200  {object}  response.StandardApiResponse{data=[]TicketCategoryResponse}
// @Failure      404  {object}  response.StandardApiResponse
// @Router       /events/{eventId}/ticket-categories [get]
func (ctrl *controller) ListTicketCategories(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "eventId", "Invalid event ID")
	if !ok {
		return
	}

	categories, err := ctrl.service.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Ticket categories retrieved successfully", categories, nil)
}

// CreateTicketCategory godoc
// @Summary      Create a ticket category
// @Tags         ticket-categories
// @Accept       json
// @Produce      json
// @Param        eventId  path  string  true  "Event ID"
// @Param        draft    body  Draft   true  "Ticket category form values"
// @Success      201  {object}  response.StandardApiResponse{data=TicketCategoryResponse}
// @Failure      409  {object}  response.StandardApiResponse
// @Failure      422  {object}  response.StandardApiResponse{errors=ValidationError}
// @Router       /events/{eventId}/ticket-categories [post]
func (ctrl *controller) CreateTicketCategory(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "eventId", "Invalid event ID")
	if !ok {
		return
	}

	var draft Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.BindingErrors(err))
		return
	}

	category, err := ctrl.service.Create(c.Request.Context(), eventID, draft)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Ticket category created successfully", category, nil)
}

// GetTicketCategoryDraft godoc
// @Summary      Get a ticket category as editable form values
// @Tags         ticket-categories
// @Produce      json
// @Param        eventId     path  string  true  "Event ID"
// @Param        categoryId  path  string  true  "Ticket category ID"
// @Success      200  {object}  response.StandardApiResponse{data=Draft}
// @Failure      404  {object}  response.StandardApiResponse
// @Router       /events/{eventId}/ticket-categories/{categoryId}/draft [get]
func (ctrl *controller) GetTicketCategoryDraft(c *gin.Context) {
	eventID, categoryID, ok := parseCategoryParams(c)
	if !ok {
		return
	}

	draft, err := ctrl.service.GetDraft(c.Request.Context(), eventID, categoryID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Ticket category retrieved successfully", draft, nil)
}

// UpdateTicketCategory godoc
// @Summary      Update a ticket category
// @Tags         ticket-categories
// @Accept       json
// @Produce      json
// @Param        eventId     path  string  true  "Event ID"
// @Param        categoryId  path  string  true  "Ticket category ID"
// @Param        draft       body  Draft   true  "Ticket category form values"
// @Success      200  {object}  response.StandardApiResponse{data=TicketCategoryResponse}
// @Failure      409  {object}  response.StandardApiResponse
// @Failure      422  {object}  response.StandardApiResponse{errors=ValidationError}
// @Router       /events/{eventId}/ticket-categories/{categoryId} [put]
func (ctrl *controller) UpdateTicketCategory(c *gin.Context) {
	eventID, categoryID, ok := parseCategoryParams(c)
	if !ok {
		return
	}

	var draft Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.BindingErrors(err))
		return
	}

	category, err := ctrl.service.Update(c.Request.Context(), eventID, categoryID, draft)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Ticket category updated successfully", category, nil)
}

// DeleteTicketCategory godoc
// @Summary      Delete a ticket category without sales
// @Tags         ticket-categories
// @Produce      json
// @Param        eventId     path  string  true  "Event ID"
// @Param        categoryId  path  string  true  "Ticket category ID"
// @Success      200  {object}  response.StandardApiResponse
// @Failure      409  {object}  response.StandardApiResponse
// @Router       /events/{eventId}/ticket-categories/{categoryId} [delete]
func (ctrl *controller) DeleteTicketCategory(c *gin.Context) {
	eventID, categoryID, ok := parseCategoryParams(c)
	if !ok {
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), eventID, categoryID); err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Ticket category deleted successfully", nil, nil)
}

// ValidateTicketCategory godoc
// @Summary      Check a draft against the sales window rules without saving it
// @Tags         ticket-categories
// @Accept       json
// @Produce      json
// @Param        request  body  ValidateRequest  true  "Draft and event bounds"
// @Success      200  {object}  response.StandardApiResponse{data=ValidationResponse}
// @Failure      404  {object}  response.StandardApiResponse
// @Router       /ticket-categories/validate [post]
func (ctrl *controller) ValidateTicketCategory(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.BindingErrors(err))
		return
	}

	result, err := ctrl.service.Preview(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Ticket category is valid"
	if !result.Valid {
		message = result.Message
	}
	response.RespondJSON(c, "success", http.StatusOK, message, result, nil)
}

// GetSuggestions godoc
// @Summary      Suggested ticket category names
// @Tags         ticket-categories
// @Produce      json
// @Success      200  {object}  response.StandardApiResponse{data=[]string}
// @Router       /ticket-categories/suggestions [get]
func (ctrl *controller) GetSuggestions(c *gin.Context) {
	suggestions, err := ctrl.service.Suggestions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Suggestions retrieved successfully", suggestions, nil)
}

func parseUUIDParam(c *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, message, nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func parseCategoryParams(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	eventID, ok := parseUUIDParam(c, "eventId", "Invalid event ID")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	categoryID, ok := parseUUIDParam(c, "categoryId", "Invalid ticket category ID")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return eventID, categoryID, true
}

func respondError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, verr.Message, nil, verr)
	case errors.Is(err, ErrEventNotFound), errors.Is(err, ErrTicketCategoryNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrDuplicateName), errors.Is(err, ErrQuotaBelowSold),
		errors.Is(err, ErrCategoryHasSales), errors.Is(err, ErrEventClosed):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		logger.GetDefault().LogHTTPError(c, err, http.StatusInternalServerError)
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Internal server error", nil, nil)
	}
}
