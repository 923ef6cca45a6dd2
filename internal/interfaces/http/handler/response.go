package handler

import "github.com/creditcore/backend/internal/interfaces/http/dto"

// APIResponse is the response envelope referenced by the OpenAPI
// annotations. Handlers build the actual payload through the dto
// package; this type only exists so swag can render typed data fields.
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}
