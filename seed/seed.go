// Package seed holds the demo data set the marketplace starts with.
package seed

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/irsalhamdi/secondhand-market/core/cart"
	"github.com/irsalhamdi/secondhand-market/core/product"
	"github.com/irsalhamdi/secondhand-market/core/purchase"
	"github.com/irsalhamdi/secondhand-market/identity"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var raw []byte

const dateLayout = "2006-01-02"

type yamlUser struct {
	ID        string `yaml:"id"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	Username  string `yaml:"username"`
	FullName  string `yaml:"fullName"`
	Phone     string `yaml:"phone"`
	Address   string `yaml:"address"`
	Avatar    string `yaml:"avatar"`
	CreatedAt string `yaml:"createdAt"`
}

type yamlProduct struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Price       string   `yaml:"price"`
	Category    string   `yaml:"category"`
	Images      []string `yaml:"images"`
	SellerID    string   `yaml:"sellerId"`
	SellerName  string   `yaml:"sellerName"`
	Condition   string   `yaml:"condition"`
	CreatedAt   string   `yaml:"createdAt"`
}

type yamlPurchase struct {
	ID     string `yaml:"id"`
	UserID string `yaml:"userId"`
	Date   string `yaml:"date"`
	Status string `yaml:"status"`
	Items  []struct {
		ID        string `yaml:"id"`
		ProductID string `yaml:"productId"`
		Quantity  int    `yaml:"quantity"`
	} `yaml:"items"`
}

type document struct {
	Users     []yamlUser     `yaml:"users"`
	Products  []yamlProduct  `yaml:"products"`
	Purchases []yamlPurchase `yaml:"purchases"`
}

// Data is the decoded demo data set.
type Data struct {
	Accounts  []identity.Account
	Products  []product.Product
	Purchases []purchase.Purchase
}

// Load decodes the embedded data set. Every call returns fresh values.
func Load() (Data, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Data{}, fmt.Errorf("decoding seed data: %w", err)
	}

	var d Data

	for _, u := range doc.Users {
		created, err := time.Parse(dateLayout, u.CreatedAt)
		if err != nil {
			return Data{}, fmt.Errorf("user[%s] createdAt: %w", u.ID, err)
		}
		d.Accounts = append(d.Accounts, identity.Account{
			Identity: identity.Identity{
				ID:        u.ID,
				Email:     u.Email,
				CreatedAt: created,
				Profile: identity.Profile{
					Username: u.Username,
					FullName: u.FullName,
					Phone:    u.Phone,
					Address:  u.Address,
					Avatar:   u.Avatar,
				},
			},
			Password: u.Password,
		})
	}

	byID := make(map[string]product.Product, len(doc.Products))
	for _, yp := range doc.Products {
		price, err := decimal.NewFromString(yp.Price)
		if err != nil {
			return Data{}, fmt.Errorf("product[%s] price: %w", yp.ID, err)
		}
		created, err := time.Parse(dateLayout, yp.CreatedAt)
		if err != nil {
			return Data{}, fmt.Errorf("product[%s] createdAt: %w", yp.ID, err)
		}

		p := product.Product{
			ID:          yp.ID,
			Title:       yp.Title,
			Description: yp.Description,
			Price:       price,
			Category:    yp.Category,
			Images:      yp.Images,
			SellerID:    yp.SellerID,
			SellerName:  yp.SellerName,
			Condition:   product.Condition(yp.Condition),
			IsAvailable: true,
			CreatedAt:   created,
			UpdatedAt:   created,
		}
		byID[p.ID] = p
		d.Products = append(d.Products, p)
	}

	for _, yp := range doc.Purchases {
		date, err := time.Parse(dateLayout, yp.Date)
		if err != nil {
			return Data{}, fmt.Errorf("purchase[%s] date: %w", yp.ID, err)
		}

		c := cart.Cart{UserID: yp.UserID}
		for _, it := range yp.Items {
			p, ok := byID[it.ProductID]
			if !ok {
				return Data{}, fmt.Errorf("purchase[%s]: unknown product[%s]", yp.ID, it.ProductID)
			}
			c.Items = append(c.Items, cart.Item{ID: it.ID, Product: p.Clone(), Quantity: it.Quantity})
		}

		pu := purchase.New(yp.ID, c, date)
		pu.Status = purchase.Status(yp.Status)
		d.Purchases = append(d.Purchases, pu)
	}

	return d, nil
}
