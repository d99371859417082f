package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/mentorlink/internal/app/models/dto"
	"github.com/yigit/mentorlink/internal/app/services"
	"github.com/yigit/mentorlink/internal/middleware"
)

// RequestController handles the mentorship request lifecycle
type RequestController struct {
	requestService services.RequestService
}

// NewRequestController creates a new RequestController
func NewRequestController(requestService services.RequestService) *RequestController {
	return &RequestController{
		requestService: requestService,
	}
}

// ListRequests godoc
// @Summary List my requests
// @Description Students see their sent requests, mentors their received ones, admins all
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.RequestResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Router /requests [get]
func (c *RequestController) ListRequests(ctx *gin.Context) {
	identity, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	requests, err := c.requestService.ListRequests(ctx.Request.Context(), identity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewRequestListResponse(requests)))
}

// CreateRequest godoc
// @Summary Send a mentorship request
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRequestRequest true "Request"
// @Success 201 {object} dto.APIResponse{data=dto.RequestResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Only students can send requests"
// @Failure 409 {object} dto.ErrorResponse "A live request already exists"
// @Router /requests [post]
func (c *RequestController) CreateRequest(ctx *gin.Context) {
	identity, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	var req dto.CreateRequestRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	request, err := c.requestService.CreateRequest(ctx.Request.Context(), identity, req.MentorID, req.Message)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewRequestResponse(request)))
}

// UpdateRequestStatus godoc
// @Summary Accept or reject a request
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body dto.UpdateRequestStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=dto.RequestResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Request already decided"
// @Router /requests/{id}/status [patch]
func (c *RequestController) UpdateRequestStatus(ctx *gin.Context) {
	identity, ok := callerIdentity(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "request")
	if !ok {
		return
	}

	var req dto.UpdateRequestStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	request, err := c.requestService.UpdateRequestStatus(ctx.Request.Context(), identity, id, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewRequestResponse(request)))
}
