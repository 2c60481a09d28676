package transport

import (
	"time"

	"github.com/Skotchmaster/scrap_market/services/market/internal/models"
)

type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"required,max=1000"`
	ContactPhone    string `json:"contact_phone"    validate:"required,max=20"`
	PaymentMethod   string `json:"payment_method"   validate:"required,oneof=cash_on_delivery credit_card bank_transfer"`
	Notes           string `json:"notes"            validate:"max=2000"`
}

type CheckoutResponse struct {
	Message string             `json:"message"`
	OrderID uint               `json:"order_id"`
	Status  models.OrderStatus `json:"status"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"  validate:"required,oneof=pending processing shipped delivered cancelled"`
	ItemID *uint  `json:"item_id" validate:"omitempty,gt=0"`
}

type UpdateStatusResponse struct {
	Message string             `json:"message"`
	Status  models.OrderStatus `json:"status"`
}

type AddToCartRequest struct {
	Quantity uint `json:"quantity" validate:"omitempty,min=1,max=1000"`
}

type UpdateCartRequest struct {
	Quantity uint `json:"quantity" validate:"required,min=1,max=1000"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CartLine struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       Money     `json:"price"`
	Quantity    uint      `json:"quantity"`
	Subtotal    Money     `json:"subtotal"`
	Images      []string  `json:"images"`
	AddedAt     time.Time `json:"added_at"`
}

type CartResponse struct {
	Items []CartLine `json:"items"`
	Total Money      `json:"total"`
}

type ProductResponse struct {
	ID          uint      `json:"product_id"`
	SellerID    uint      `json:"seller_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       Money     `json:"price"`
	Category    *string   `json:"category"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type WishlistEntry struct {
	ID      uint            `json:"id"`
	AddedAt time.Time       `json:"added_at"`
	Product ProductResponse `json:"product"`
}

type RecommendedProduct struct {
	ProductResponse
	Reason string `json:"recommendation_reason"`
}

type RecommendationsFallback struct {
	Message         string               `json:"message"`
	Recommendations []RecommendedProduct `json:"recommendations"`
}

type OrderItemView struct {
	ID        uint               `json:"id"`
	ProductID uint               `json:"product_id"`
	Name      string             `json:"name"`
	Price     Money              `json:"price"`
	Quantity  uint               `json:"quantity"`
	Subtotal  Money              `json:"subtotal"`
	Status    models.OrderStatus `json:"status"`
	ImagePath *string            `json:"image_path"`
}

type OrderView struct {
	OrderID         uint                 `json:"order_id"`
	BuyerID         uint                 `json:"user_id,omitempty"`
	TotalAmount     Money                `json:"total_amount"`
	Status          models.OrderStatus   `json:"status"`
	ShippingAddress string               `json:"shipping_address"`
	ContactPhone    string               `json:"contact_phone"`
	PaymentMethod   models.PaymentMethod `json:"payment_method"`
	Notes           string               `json:"notes,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	Items           []OrderItemView      `json:"items"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type ProductPage struct {
	Data []ProductResponse `json:"data"`
	Meta PageMeta          `json:"meta"`
}

type CreateReviewRequest struct {
	Comment string `json:"comment" validate:"required,max=5000"`
	Rating  int    `json:"rating"  validate:"required,min=1,max=5"`
}

type ReviewResponse struct {
	Message string         `json:"message"`
	Review  *models.Review `json:"comment"`
}

type PurchaseView struct {
	ProductID    uint               `json:"product_id"`
	Name         string             `json:"name"`
	Category     *string            `json:"category"`
	SellerID     uint               `json:"seller_id"`
	Quantity     uint               `json:"quantity"`
	Price        Money              `json:"price"`
	PurchaseDate time.Time          `json:"purchase_date"`
	Status       models.OrderStatus `json:"status"`
}
