package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/mentorlink/internal/app/models/dto"
	"github.com/yigit/mentorlink/internal/app/services"
	"github.com/yigit/mentorlink/internal/middleware"
)

// MentorController handles mentor discovery
type MentorController struct {
	mentorService services.MentorService
}

// NewMentorController creates a new MentorController
func NewMentorController(mentorService services.MentorService) *MentorController {
	return &MentorController{
		mentorService: mentorService,
	}
}

// ListMentors godoc
// @Summary List mentors
// @Description Case-insensitive substring filters on university and expertise
// @Tags mentors
// @Produce json
// @Security BearerAuth
// @Param university query string false "University filter"
// @Param expertise query string false "Expertise filter"
// @Success 200 {object} dto.APIResponse{data=[]dto.MentorResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /mentors [get]
func (c *MentorController) ListMentors(ctx *gin.Context) {
	var req dto.MentorFilterRequest
	if !middleware.BindQuery(ctx, &req) {
		return
	}

	mentors, err := c.mentorService.ListMentors(ctx.Request.Context(), req.ToFilter())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewMentorListResponse(mentors)))
}

// TopMentors godoc
// @Summary Top rated mentors
// @Tags mentors
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of mentors (default 3, max 50)"
// @Success 200 {object} dto.APIResponse{data=[]dto.MentorResponse}
// @Router /mentors/top [get]
func (c *MentorController) TopMentors(ctx *gin.Context) {
	var req dto.TopMentorsRequest
	if !middleware.BindQuery(ctx, &req) {
		return
	}

	mentors, err := c.mentorService.TopMentors(ctx.Request.Context(), req.Limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewMentorListResponse(mentors)))
}

// Facets godoc
// @Summary Mentor filter values
// @Tags mentors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.MentorFacets}
// @Router /mentors/facets [get]
func (c *MentorController) Facets(ctx *gin.Context) {
	facets, err := c.mentorService.Facets(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(facets))
}

// GetMentor godoc
// @Summary Get a mentor
// @Tags mentors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mentor user ID"
// @Success 200 {object} dto.APIResponse{data=dto.MentorResponse}
// @Failure 404 {object} dto.ErrorResponse "Mentor not found"
// @Router /mentors/{id} [get]
func (c *MentorController) GetMentor(ctx *gin.Context) {
	id, ok := pathID(ctx, "mentor")
	if !ok {
		return
	}

	mentor, err := c.mentorService.GetMentor(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewMentorResponse(*mentor)))
}
