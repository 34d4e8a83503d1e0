package product

import (
	"errors"
	"time"

	"github.com/irsalhamdi/secondhand-market/validate"
	"github.com/shopspring/decimal"
)

func init() {
	// Clients treat prices as numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

var ErrNotFound = errors.New("product not found")

type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like-new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
	ConditionPoor    Condition = "poor"
)

var Conditions = []Condition{ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor}

// Categories are the ones offered by the listing form. Product.Category
// itself is not restricted to them.
var Categories = []string{
	"Electronics",
	"Furniture",
	"Clothing",
	"Books",
	"Sports",
	"Home & Garden",
	"Toys",
	"Automotive",
	"Other",
}

// PlaceholderImage is used for listings created without pictures.
const PlaceholderImage = "https://images.unsplash.com/photo-1560472354-b33ff0c44a43?w=400&h=300&fit=crop"

type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Images      []string        `json:"images"`
	SellerID    string          `json:"sellerId"`
	SellerName  string          `json:"sellerName"`
	Condition   Condition       `json:"condition"`
	IsAvailable bool            `json:"isAvailable"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type ProductNew struct {
	Title       string           `json:"title" validate:"required,max=120"`
	Description string           `json:"description" validate:"required,max=5000"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Category    string           `json:"category" validate:"required,max=60"`
	Images      []string         `json:"images" validate:"omitempty,max=10,dive,url"`
	Condition   Condition        `json:"condition" validate:"omitempty,oneof=new like-new good fair poor"`
	IsAvailable *bool            `json:"isAvailable"`
}

type ProductUp struct {
	Title       *string          `json:"title" validate:"omitempty,min=1,max=120"`
	Description *string          `json:"description" validate:"omitempty,min=1,max=5000"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Category    *string          `json:"category" validate:"omitempty,min=1,max=60"`
	Images      []string         `json:"images" validate:"omitempty,max=10,dive,url"`
	Condition   *Condition       `json:"condition" validate:"omitempty,oneof=new like-new good fair poor"`
	IsAvailable *bool            `json:"isAvailable"`
}

// MaxPrice is the largest price a listing can carry.
var MaxPrice = decimal.RequireFromString("9999999999.99")

// CheckPrice refuses fractions of a cent and prices above MaxPrice.
func CheckPrice(price decimal.Decimal) error {
	if !price.Equal(price.Round(2)) {
		return &validate.FieldError{Field: "price", Message: "price must have at most 2 decimal places"}
	}
	if price.GreaterThan(MaxPrice) {
		return &validate.FieldError{Field: "price", Message: "price must be " + MaxPrice.String() + " or less"}
	}
	return nil
}

// Seller is the signed-in user creating a listing.
type Seller struct {
	ID   string
	Name string
}

// New builds a listing owned by seller. Missing optional fields get the
// listing form defaults: condition good, placeholder picture, available.
func New(pn ProductNew, seller Seller, id string, now time.Time) Product {
	p := Product{
		ID:          id,
		Title:       pn.Title,
		Description: pn.Description,
		Category:    pn.Category,
		Images:      append([]string(nil), pn.Images...),
		SellerID:    seller.ID,
		SellerName:  seller.Name,
		Condition:   pn.Condition,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if pn.Price != nil {
		p.Price = *pn.Price
	}
	if p.Condition == "" {
		p.Condition = ConditionGood
	}
	if len(p.Images) == 0 {
		p.Images = []string{PlaceholderImage}
	}
	if pn.IsAvailable != nil {
		p.IsAvailable = *pn.IsAvailable
	}
	return p
}

// Merge applies the fields set in up and refreshes UpdatedAt.
func (p Product) Merge(up ProductUp, now time.Time) Product {
	if up.Title != nil {
		p.Title = *up.Title
	}
	if up.Description != nil {
		p.Description = *up.Description
	}
	if up.Price != nil {
		p.Price = *up.Price
	}
	if up.Category != nil {
		p.Category = *up.Category
	}
	if up.Images != nil {
		p.Images = append([]string(nil), up.Images...)
	}
	if up.Condition != nil {
		p.Condition = *up.Condition
	}
	if up.IsAvailable != nil {
		p.IsAvailable = *up.IsAvailable
	}
	p.UpdatedAt = now
	return p
}

// Clone returns p with its own copy of Images.
func (p Product) Clone() Product {
	p.Images = append([]string(nil), p.Images...)
	return p
}
