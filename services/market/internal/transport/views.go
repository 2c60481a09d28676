package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/scrap_market/services/market/internal/models"
)

func ImageURL(base, path string) string {
	return base + "/images/" + path
}

func NewProductResponse(p models.Product, imageBase string) ProductResponse {
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, ImageURL(imageBase, img.ImagePath))
	}

	var category *string
	if p.Category != nil {
		name := p.Category.Name
		category = &name
	}

	return ProductResponse{
		ID:          p.ID,
		SellerID:    p.UserID,
		Name:        p.Name,
		Description: p.Description,
		Price:       NewMoney(p.Price),
		Category:    category,
		Images:      images,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func newOrderItemView(it models.OrderItem, imageBase string) OrderItemView {
	v := OrderItemView{
		ID:        it.ID,
		ProductID: it.ProductID,
		Price:     NewMoney(it.Price),
		Quantity:  it.Quantity,
		Subtotal:  NewMoney(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))),
		Status:    it.Status,
	}
	if it.Product != nil {
		v.Name = it.Product.Name
		if len(it.Product.Images) > 0 {
			url := ImageURL(imageBase, it.Product.Images[0].ImagePath)
			v.ImagePath = &url
		}
	}
	return v
}

// NewOrderView renders the order as the buyer sees it.
func NewOrderView(o models.Order, imageBase string) OrderView {
	items := make([]OrderItemView, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, newOrderItemView(it, imageBase))
	}
	return OrderView{
		OrderID:         o.ID,
		TotalAmount:     NewMoney(o.TotalAmount),
		Status:          o.Status,
		ShippingAddress: o.ShippingAddress,
		ContactPhone:    o.ContactPhone,
		PaymentMethod:   o.PaymentMethod,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		Items:           items,
	}
}

// NewSellerOrderView totals only the items that were loaded, which for sellers are their own.
func NewSellerOrderView(o models.Order, imageBase string) OrderView {
	v := NewOrderView(o, imageBase)
	v.BuyerID = o.UserID

	total := NewMoney(decimal.Zero)
	for _, it := range v.Items {
		total = total.Add(it.Subtotal)
	}
	v.TotalAmount = total
	return v
}
