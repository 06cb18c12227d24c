package controller

import (
	"errors"
	"training_portal_backend/internal/repository"
	"training_portal_backend/internal/service"
	"training_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentRepo       *repository.EnrollmentRepository
	CertificationService *service.CertificationService
}

func NewEnrollmentController(enrollmentRepo *repository.EnrollmentRepository, certificationService *service.CertificationService) *EnrollmentController {
	return &EnrollmentController{
		EnrollmentRepo:       enrollmentRepo,
		CertificationService: certificationService,
	}
}

// @Summary List the caller's enrollments
// @Tags enrollments
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /enrollments [get]
func (c *EnrollmentController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollments, err := c.EnrollmentRepo.ListByUser(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

type ProgressRequest struct {
	Percentage *int `json:"percentage" binding:"required"`
}

// @Summary Report video watch progress for an enrollment
// @Description Progress is monotonic; lower values are ignored and 100 marks the course completed.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "enrollment id"
// @Param body body ProgressRequest true "progress percentage 0-100"
// @Success 200 {object} util.Response
// @Router /enrollments/{id}/progress [put]
func (c *EnrollmentController) UpdateProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollmentID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid enrollment id")
		return
	}

	var req ProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.CertificationService.SubmitProgress(user.UserID, enrollmentID, *req.Percentage)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidProgress):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrNotEnrolled):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrStorageUnavailable):
			util.ServiceUnavailable(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, enrollment)
}
