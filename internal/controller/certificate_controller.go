package controller

import (
	"errors"
	"training_portal_backend/internal/service"
	"training_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificationService *service.CertificationService
}

func NewCertificateController(certificationService *service.CertificationService) *CertificateController {
	return &CertificateController{CertificationService: certificationService}
}

// @Summary Request the certificate for a completed course
// @Description Idempotent: repeated requests return the one stored certificate for the pair.
// @Tags certificates
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /courses/{id}/certificate [post]
func (c *CertificateController) Request(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	cert, err := c.CertificationService.RequestCertificate(user.UserID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNotEligible):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrCertificateIssuance), errors.Is(err, util.ErrStorageUnavailable):
			util.ServiceUnavailable(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, cert)
}

// @Summary List the caller's certificates
// @Tags certificates
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /certificates [get]
func (c *CertificateController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	certs, err := c.CertificationService.ListCertificates(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, certs)
}

// @Summary Verify a certificate by its public code
// @Tags certificates
// @Produce json
// @Param code path string true "verification code"
// @Success 200 {object} util.Response
// @Router /certificates/verify/{code} [get]
func (c *CertificateController) Verify(ctx *gin.Context) {
	code := ctx.Param("code")
	if code == "" {
		util.BadRequest(ctx, "missing verification code")
		return
	}

	cert, err := c.CertificationService.VerifyCertificate(ctx.Request.Context(), code)
	if err != nil {
		if errors.Is(err, util.ErrCertificateNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, cert)
}
