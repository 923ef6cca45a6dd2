package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/creditcore/backend/internal/domain/verification"
	"github.com/creditcore/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Provider sandbox profile used when the caller does not supply one
const (
	defaultNationalID  = "1234567890"
	defaultDateOfBirth = "1990-01-01"
)

// EnquiryResult is the decoded provider response for a certificate enquiry
type EnquiryResult struct {
	Success    bool
	Message    string
	Employment []verification.EmploymentInfo
	Raw        []byte
}

// CertificateClient fetches salary certificates from the external provider
type CertificateClient interface {
	GetSalaryCertificate(ctx context.Context, nationalID, dateOfBirth string) (*EnquiryResult, error)
}

// ResponseArchiver stores raw provider responses for audit purposes
type ResponseArchiver interface {
	Store(ctx context.Context, key string, data []byte, contentType string) error
}

// Service handles salary certificate verification
type Service struct {
	client   CertificateClient
	repo     verification.Repository
	archiver ResponseArchiver
	logger   *zap.Logger
}

// NewService creates a new verification Service.
// The archiver may be nil, in which case raw responses are not retained.
func NewService(client CertificateClient, repo verification.Repository, archiver ResponseArchiver, logger *zap.Logger) *Service {
	return &Service{
		client:   client,
		repo:     repo,
		archiver: archiver,
		logger:   logger,
	}
}

// Verify fetches a salary certificate from the provider and persists the
// first employment record when the enquiry succeeds
func (s *Service) Verify(ctx context.Context, req VerifyRequest) (_ *VerifyResponse, err error) {
	nationalID := req.NationalID
	if nationalID == "" {
		nationalID = defaultNationalID
	}
	dateOfBirth := req.DateOfBirth
	if dateOfBirth == "" {
		dateOfBirth = defaultDateOfBirth
	}

	ctx, span := telemetry.StartSpan(ctx, "verification.verify",
		attribute.String(telemetry.SpanAttrNationalID, nationalID))
	defer func() { telemetry.EndSpan(span, err) }()

	result, err := s.client.GetSalaryCertificate(ctx, nationalID, dateOfBirth)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Bool(telemetry.SpanAttrVerificationResult, result.Success))

	if !result.Success || len(result.Employment) == 0 {
		s.logger.Info("salary certificate enquiry returned no employment record",
			zap.String("national_id", nationalID),
			zap.String("provider_message", result.Message))
		return &VerifyResponse{Success: result.Success, Message: result.Message}, nil
	}

	certificate := verification.NewSalaryCertificate(nationalID, result.Employment[0])
	certificate.ArchiveKey = s.archiveRawResponse(ctx, nationalID, result.Raw)

	if err = s.repo.Save(ctx, certificate); err != nil {
		return nil, err
	}

	view := ToCertificateResponse(certificate)
	return &VerifyResponse{
		Success:     true,
		Message:     result.Message,
		Certificate: &view,
	}, nil
}

// GetLatest returns the most recent certificate stored for a national ID
func (s *Service) GetLatest(ctx context.Context, nationalID string) (*CertificateResponse, error) {
	certificate, err := s.repo.FindLatestByNationalID(ctx, nationalID)
	if err != nil {
		return nil, err
	}

	view := ToCertificateResponse(certificate)
	return &view, nil
}

// archiveRawResponse best-effort stores the raw provider payload.
// Archival failures must not fail the enquiry; they are logged and the
// certificate is stored without an archive reference.
func (s *Service) archiveRawResponse(ctx context.Context, nationalID string, raw []byte) string {
	if s.archiver == nil || len(raw) == 0 {
		return ""
	}

	key := fmt.Sprintf("salary-certificates/%s/%d.json", nationalID, time.Now().UnixNano())
	if err := s.archiver.Store(ctx, key, raw, "application/json"); err != nil {
		s.logger.Warn("failed to archive salary certificate response",
			zap.String("national_id", nationalID),
			zap.Error(err))
		return ""
	}
	return key
}
