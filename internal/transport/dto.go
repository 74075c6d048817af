package transport

import (
	"github.com/Skotchmaster/mockshop/internal/models"
	"github.com/Skotchmaster/mockshop/internal/payment"
)

type SignupRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	ID       string `json:"id"`
	Username string `json:"username"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type AddToCartRequest struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type UserResponse struct {
	ID       string             `json:"id"`
	Username string             `json:"username"`
	Email    string             `json:"email"`
	Name     models.Name        `json:"name"`
	Cart     []models.CartEntry `json:"cart"`
}

type PaymentIntentRequest struct {
	Items []payment.Item `json:"items"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}
