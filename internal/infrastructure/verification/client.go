// Package verification implements the salary certificate provider client.
package verification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	verificationapp "github.com/creditcore/backend/internal/application/verification"
	domainverification "github.com/creditcore/backend/internal/domain/verification"
	infraconfig "github.com/creditcore/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	// enquiryPath is the provider endpoint for salary certificate enquiries
	enquiryPath = "/umock/simah-report/api/v2/enquiry/consumer/salarycertificate"

	// maxResponseSize limits the response body size to prevent memory exhaustion
	maxResponseSize = 10 * 1024 * 1024
)

// Ensure HTTPCertificateClient implements CertificateClient
var _ verificationapp.CertificateClient = (*HTTPCertificateClient)(nil)

// HTTPCertificateClient calls the external salary certificate provider
// over HTTP
type HTTPCertificateClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPCertificateClient creates a new provider client from configuration
func NewHTTPCertificateClient(cfg *infraconfig.VerificationConfig, logger *zap.Logger) (*HTTPCertificateClient, error) {
	if cfg == nil {
		return nil, errors.New("verification configuration is required")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("verification provider base URL is required")
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTPCertificateClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// GetSalaryCertificate posts an enquiry to the provider and decodes the
// employment records from the response
func (c *HTTPCertificateClient) GetSalaryCertificate(ctx context.Context, nationalID, dateOfBirth string) (*verificationapp.EnquiryResult, error) {
	reqBody, err := json.Marshal(enquiryRequest{
		NationalID:  nationalID,
		DateOfBirth: dateOfBirth,
	})
	if err != nil {
		return nil, fmt.Errorf("verification: failed to marshal request: %w", err)
	}

	url := c.baseURL + enquiryPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("verification: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verification: provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("verification: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.logger.Warn("salary certificate enquiry rejected",
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("verification: provider returned status %d", resp.StatusCode)
	}

	var wire enquiryResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("verification: failed to parse response: %w", err)
	}

	return &verificationapp.EnquiryResult{
		Success:    wire.IsSuccess,
		Message:    wire.Message,
		Employment: toEmploymentInfo(wire.Data.PrivateSector.EmploymentStatusInfo),
		Raw:        body,
	}, nil
}

// toEmploymentInfo maps the wire records onto domain employment records
func toEmploymentInfo(records []employmentStatusInfo) []domainverification.EmploymentInfo {
	result := make([]domainverification.EmploymentInfo, len(records))
	for i, r := range records {
		result[i] = domainverification.EmploymentInfo{
			FullName:                     r.FullName,
			BasicWage:                    r.BasicWage,
			HousingAllowance:             r.HousingAllowance,
			OtherAllowance:               r.OtherAllowance,
			FullWage:                     r.FullWage,
			EmployerName:                 r.EmployerName,
			DateOfJoining:                r.DateOfJoining,
			WorkingMonths:                r.WorkingMonths,
			EmploymentStatus:             r.EmploymentStatus,
			SalaryStartingDate:           r.SalaryStartingDate,
			EstablishmentActivity:        r.EstablishmentActivity,
			CommercialRegistrationNumber: r.CommercialRegistrationNumber,
			LegalEntity:                  r.LegalEntity,
			DateOfBirth:                  r.DateOfBirth,
			Nationality:                  r.Nationality,
			GOSINumber:                   r.GOSINumber,
		}
	}
	return result
}
