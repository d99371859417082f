// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/mentorlink/internal/app/models"
	"github.com/yigit/mentorlink/internal/app/models/dto"
	"github.com/yigit/mentorlink/internal/middleware"
	"github.com/yigit/mentorlink/internal/pkg/apperrors"
	"github.com/yigit/mentorlink/internal/pkg/helpers"
)

// Controllers groups the HTTP handlers
type Controllers struct {
	Auth    *AuthController
	Mentor  *MentorController
	Request *RequestController
	Message *MessageController
}

// callerIdentity returns the authenticated caller or writes a 401.
func callerIdentity(ctx *gin.Context) (models.Identity, bool) {
	identity, ok := middleware.GetIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewUnauthorizedError("Authentication required"))
		return models.Identity{}, false
	}
	return identity, true
}

// pathID parses the :id path parameter or writes a 400.
func pathID(ctx *gin.Context, what string) (int64, bool) {
	id, ok := helpers.ParseIDParam(ctx, "id")
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+what+" ID").WithField("id")
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}
