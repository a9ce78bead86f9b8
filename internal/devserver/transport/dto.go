package transport

import "github.com/Skotchmaster/storefront/internal/devserver/models"

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type ProductRequest struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Description string   `json:"description"`
}

type CartRequest struct {
	ProductID string `json:"productId"`
}

type Creator struct {
	Email string `json:"email"`
}

type ProductResponse struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	CreatedBy   *Creator `json:"createdBy,omitempty"`
}

type CartResponse struct {
	Cart []ProductResponse `json:"cart"`
}

func FromProduct(p models.Product) ProductResponse {
	out := ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
	}
	if p.CreatedByEmail != "" {
		out.CreatedBy = &Creator{Email: p.CreatedByEmail}
	}
	return out
}

func FromProducts(ps []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, FromProduct(p))
	}
	return out
}
