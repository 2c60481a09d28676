package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentCreditCard     PaymentMethod = "credit_card"
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCashOnDelivery, PaymentCreditCard, PaymentBankTransfer:
		return true
	}
	return false
}

type Category struct {
	ID   uint   `gorm:"primaryKey"          json:"id"`
	Name string `gorm:"size:100;not null"   json:"name"`
}

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"       json:"id"`
	UserID      uint            `gorm:"index;not null"                 json:"user_id"`
	CategoryID  *uint           `gorm:"index"                          json:"category_id"`
	Category    *Category       `                                      json:"category,omitempty"`
	Name        string          `gorm:"size:255;not null"              json:"name"`
	Description string          `gorm:"type:text"                      json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"    json:"price"`
	Images      []ProductImage  `                                      json:"images,omitempty"`
	CreatedAt   time.Time       `                                      json:"created_at"`
	UpdatedAt   time.Time       `                                      json:"updated_at"`
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey"         json:"id"`
	ProductID uint   `gorm:"index;not null"     json:"product_id"`
	ImagePath string `gorm:"size:255;not null"  json:"image_path"`
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey"                                   json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_cart_user_product;not null"   json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_user_product;not null"   json:"product_id"`
	Product   *Product  `                                                    json:"-"`
	Quantity  uint      `gorm:"default:1;check:quantity>0"                   json:"quantity"`
	CreatedAt time.Time `                                                    json:"added_at"`
}

type WishlistItem struct {
	ID        uint      `gorm:"primaryKey"                                       json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_wishlist_user_product;not null"   json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_wishlist_user_product;not null"   json:"product_id"`
	Product   *Product  `                                                        json:"product,omitempty"`
	CreatedAt time.Time `                                                        json:"created_at"`
}

type Order struct {
	ID              uint            `gorm:"primaryKey"                                            json:"order_id"`
	UserID          uint            `gorm:"not null;uniqueIndex:idx_orders_user_idem,priority:1"  json:"user_id"`
	IdempotencyKey  *string         `gorm:"size:64;uniqueIndex:idx_orders_user_idem,priority:2"   json:"-"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null"                           json:"total_amount"`
	Status          OrderStatus     `gorm:"size:20;not null;default:pending;index"                json:"status"`
	ShippingAddress string          `gorm:"type:text;not null"                                    json:"shipping_address"`
	ContactPhone    string          `gorm:"size:20;not null"                                      json:"contact_phone"`
	PaymentMethod   PaymentMethod   `gorm:"size:20;not null"                                      json:"payment_method"`
	Notes           string          `gorm:"type:text"                                             json:"notes"`
	Items           []OrderItem     `                                                             json:"items,omitempty"`
	CreatedAt       time.Time       `                                                             json:"created_at"`
	UpdatedAt       time.Time       `                                                             json:"updated_at"`
}

// OrderItem keeps the unit price the buyer paid. It never follows later catalog changes.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey"                                json:"id"`
	OrderID   uint            `gorm:"index;not null"                            json:"order_id"`
	ProductID uint            `gorm:"index;not null"                            json:"product_id"`
	Product   *Product        `                                                 json:"-"`
	Quantity  uint            `gorm:"not null;check:quantity>0"                 json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null"               json:"price"`
	Status    OrderStatus     `gorm:"size:20;not null;default:pending"          json:"status"`
	CreatedAt time.Time       `                                                 json:"created_at"`
	UpdatedAt time.Time       `                                                 json:"updated_at"`
}

type Review struct {
	ID        uint      `gorm:"primaryKey"                          json:"id"`
	ProductID uint      `gorm:"index;not null"                      json:"product_id"`
	UserID    uint      `gorm:"index;not null"                      json:"user_id"`
	Comment   string    `gorm:"type:text;not null"                  json:"comment"`
	Rating    uint8     `gorm:"not null;check:rating BETWEEN 1 AND 5" json:"rating"`
	CreatedAt time.Time `                                           json:"created_at"`
}

// All lists every table the service owns, in dependency order.
func All() []any {
	return []any{
		&Category{},
		&Product{},
		&ProductImage{},
		&CartItem{},
		&WishlistItem{},
		&Order{},
		&OrderItem{},
		&Review{},
	}
}
