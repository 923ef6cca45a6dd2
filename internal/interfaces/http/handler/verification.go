package handler

import (
	verificationapp "github.com/creditcore/backend/internal/application/verification"
	"github.com/creditcore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// VerificationHandler handles salary verification API endpoints
type VerificationHandler struct {
	BaseHandler
	verificationService *verificationapp.Service
}

// NewVerificationHandler creates a new VerificationHandler
func NewVerificationHandler(verificationService *verificationapp.Service) *VerificationHandler {
	return &VerificationHandler{
		verificationService: verificationService,
	}
}

// Verify godoc
// @ID           verifySalary
// @Summary      Run a salary certificate enquiry
// @Description  Query the salary verification provider, archive the raw response and persist the certificate
// @Tags         verification
// @Accept       json
// @Produce      json
// @Param        request body verification.VerifyRequest true "Enquiry parameters"
// @Success      200 {object} APIResponse[verification.VerifyResponse]
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /verification/salary [post]
func (h *VerificationHandler) Verify(c *gin.Context) {
	var req verificationapp.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.verificationService.Verify(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// GetLatest godoc
// @ID           getLatestCertificate
// @Summary      Get the latest salary certificate
// @Description  Retrieve the most recent stored salary certificate for a national ID
// @Tags         verification
// @Produce      json
// @Param        nationalId path string true "National ID"
// @Success      200 {object} APIResponse[verification.CertificateResponse]
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /verification/salary/{nationalId} [get]
func (h *VerificationHandler) GetLatest(c *gin.Context) {
	nationalID := c.Param("nationalId")
	if nationalID == "" {
		h.BadRequest(c, "National ID is required")
		return
	}

	certificate, err := h.verificationService.GetLatest(c.Request.Context(), nationalID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, certificate)
}
