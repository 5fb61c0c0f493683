package transport

import (
	"time"

	"github.com/Skotchmaster/catalog/internal/models"
)

const TimeLayout = "2006-01-02 15:04:05"

// ProductResource is the product shape used by list, create and update responses.
type ProductResource struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CreatedAt   string  `json:"createdAt"`
}

// ProductDetailResource is returned by the single product endpoint.
type ProductDetailResource struct {
	ProductResource
	UpdatedAt string `json:"updatedAt"`
}

func NewProductResource(p *models.Product) ProductResource {
	return ProductResource{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CreatedAt:   formatTime(p.CreatedAt),
	}
}

func NewProductResources(items []models.Product) []ProductResource {
	out := make([]ProductResource, 0, len(items))
	for i := range items {
		out = append(out, NewProductResource(&items[i]))
	}
	return out
}

func NewProductDetailResource(p *models.Product) ProductDetailResource {
	return ProductDetailResource{
		ProductResource: NewProductResource(p),
		UpdatedAt:       formatTime(p.UpdatedAt),
	}
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

// RegisteredUser is the registration response. It exposes the stored
// password hash, unlike every other user representation.
type RegisteredUser struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewRegisteredUser(u *models.User) RegisteredUser {
	return RegisteredUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.PasswordHash,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *models.User `json:"user"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimeLayout)
}
