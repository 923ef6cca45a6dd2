package verification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	infraconfig "github.com/creditcore/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleEnquiryResponse = `{
	"message": "Success",
	"isSuccess": true,
	"data": {
		"privateSector": {
			"employmentStatusInfo": [{
				"fullName": "Ahmed Al-Saud",
				"basicWage": "12000.50",
				"housingAllowance": "2000",
				"otherAllowance": "500",
				"fullWage": "14500.50",
				"employerName": "Acme Trading Co",
				"dateOfJoining": "2018-03-01",
				"workingMonths": "72",
				"employmentStatus": "Active",
				"salaryStartingDate": "2018-03-01",
				"establishmentActivity": "Retail",
				"commercialRegistrationNumber": "CR-445566",
				"legalEntity": "LLC",
				"dateOfBirth": "1990-01-01",
				"nationality": "SA",
				"gosiNumber": "G-112233"
			}]
		}
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPCertificateClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewHTTPCertificateClient(&infraconfig.VerificationConfig{
		BaseURL:        server.URL,
		TimeoutSeconds: 5,
	}, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestHTTPCertificateClient_GetSalaryCertificate(t *testing.T) {
	t.Run("decodes a successful enquiry", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, enquiryPath, r.URL.Path)

			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "1234567890", req["nationalId"])
			assert.Equal(t, "1990-01-01", req["dateOfBirth"])

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(sampleEnquiryResponse))
		})

		result, err := client.GetSalaryCertificate(context.Background(), "1234567890", "1990-01-01")
		require.NoError(t, err)

		assert.True(t, result.Success)
		assert.Equal(t, "Success", result.Message)
		require.Len(t, result.Employment, 1)

		emp := result.Employment[0]
		assert.Equal(t, "Ahmed Al-Saud", emp.FullName)
		assert.Equal(t, "14500.50", emp.FullWage)
		assert.Equal(t, "Acme Trading Co", emp.EmployerName)
		assert.Equal(t, "G-112233", emp.GOSINumber)
		assert.JSONEq(t, sampleEnquiryResponse, string(result.Raw))
	})

	t.Run("unsuccessful enquiry carries provider message", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"message":"No record found","isSuccess":false,"data":{"privateSector":{"employmentStatusInfo":[]}}}`))
		})

		result, err := client.GetSalaryCertificate(context.Background(), "0000000000", "1990-01-01")
		require.NoError(t, err)

		assert.False(t, result.Success)
		assert.Equal(t, "No record found", result.Message)
		assert.Empty(t, result.Employment)
	})

	t.Run("provider errors are surfaced", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		})

		_, err := client.GetSalaryCertificate(context.Background(), "1234567890", "1990-01-01")
		assert.ErrorContains(t, err, "status 502")
	})

	t.Run("malformed payload is rejected", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{not json`))
		})

		_, err := client.GetSalaryCertificate(context.Background(), "1234567890", "1990-01-01")
		assert.ErrorContains(t, err, "failed to parse")
	})

	t.Run("requires a base URL", func(t *testing.T) {
		_, err := NewHTTPCertificateClient(&infraconfig.VerificationConfig{}, zap.NewNop())
		assert.Error(t, err)
	})
}
