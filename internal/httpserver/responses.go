package httpserver

import (
	"github.com/Skotchmaster/catalog/internal/models"
	"github.com/Skotchmaster/catalog/internal/transport"
)

// Response shapes, used by the API docs and by the handler tests.

type MessageResponse struct {
	Message string `json:"message"`
}

type StatusMessageResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type FailureResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Status  int    `json:"status"`
}

type ValidationResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

type ProductListResponse struct {
	Products []transport.ProductResource `json:"products"`
	Meta     transport.PageMeta          `json:"meta"`
	Status   int                         `json:"status"`
}

type ProductSearchResponse struct {
	Products []transport.ProductResource `json:"products"`
	Total    int64                       `json:"total"`
	Status   int                         `json:"status"`
}

type ProductDetailResponse struct {
	Data transport.ProductDetailResource `json:"data"`
}

type ProductWriteResponse struct {
	Product *transport.ProductResource `json:"product,omitempty"`
	Message string                     `json:"message"`
	Status  int                        `json:"status"`
}

type RegisterResponse struct {
	Message string                   `json:"message"`
	Data    transport.RegisteredUser `json:"data"`
	Status  int                      `json:"status"`
}

type TokenResponse = transport.TokenResponse

type UserResponse = models.User
