package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/irsalhamdi/secondhand-market/database"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type dbProduct struct {
	ID          string          `db:"product_id"`
	Title       string          `db:"title"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Category    string          `db:"category"`
	Images      pq.StringArray  `db:"images"`
	SellerID    string          `db:"seller_id"`
	SellerName  string          `db:"seller_name"`
	Condition   Condition       `db:"condition"`
	IsAvailable bool            `db:"is_available"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func toDB(p Product) dbProduct {
	images := pq.StringArray(p.Images)
	if images == nil {
		images = pq.StringArray{}
	}
	return dbProduct{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Images:      images,
		SellerID:    p.SellerID,
		SellerName:  p.SellerName,
		Condition:   p.Condition,
		IsAvailable: p.IsAvailable,
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	}
}

func (d dbProduct) toProduct() Product {
	images := []string(d.Images)
	if images == nil {
		images = []string{}
	}
	return Product{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Category:    d.Category,
		Images:      images,
		SellerID:    d.SellerID,
		SellerName:  d.SellerName,
		Condition:   d.Condition,
		IsAvailable: d.IsAvailable,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toProducts(rows []dbProduct) []Product {
	out := make([]Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toProduct())
	}
	return out
}

const columns = `product_id, title, description, price, category, images, seller_id,
	seller_name, condition, is_available, created_at, updated_at`

func Fetch(ctx context.Context, db sqlx.QueryerContext, id string) (Product, error) {
	q := `SELECT ` + columns + ` FROM products WHERE product_id = $1`

	var row dbProduct
	if err := sqlx.GetContext(ctx, db, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return row.toProduct(), nil
}

func FetchAll(ctx context.Context, db sqlx.QueryerContext) ([]Product, error) {
	q := `SELECT ` + columns + ` FROM products ORDER BY created_at DESC, product_id`

	var rows []dbProduct
	if err := sqlx.SelectContext(ctx, db, &rows, q); err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

func FetchBySeller(ctx context.Context, db sqlx.QueryerContext, sellerID string) ([]Product, error) {
	q := `SELECT ` + columns + ` FROM products WHERE seller_id = $1 ORDER BY created_at DESC, product_id`

	var rows []dbProduct
	if err := sqlx.SelectContext(ctx, db, &rows, q, sellerID); err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

func Create(ctx context.Context, db sqlx.ExtContext, p Product) error {
	q := `
	INSERT INTO products (` + columns + `)
	VALUES (:product_id, :title, :description, :price, :category, :images, :seller_id,
		:seller_name, :condition, :is_available, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, toDB(p)); err != nil {
		return err
	}
	return nil
}

func Update(ctx context.Context, db sqlx.ExtContext, p Product) error {
	q := `
	UPDATE products SET
		title = :title,
		description = :description,
		price = :price,
		category = :category,
		images = :images,
		condition = :condition,
		is_available = :is_available,
		updated_at = :updated_at
	WHERE product_id = :product_id`

	res, err := sqlx.NamedExecContext(ctx, db, q, toDB(p))
	if err != nil {
		return err
	}
	return expectOne(res)
}

func Delete(ctx context.Context, db sqlx.ExtContext, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM products WHERE product_id = $1`, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DBStore is the Postgres catalog.
type DBStore struct {
	db *sqlx.DB
}

func NewDBStore(db *sqlx.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) QueryAll(ctx context.Context) ([]Product, error) {
	return FetchAll(ctx, s.db)
}

func (s *DBStore) QueryByID(ctx context.Context, id string) (Product, error) {
	return Fetch(ctx, s.db, id)
}

func (s *DBStore) QueryBySeller(ctx context.Context, sellerID string) ([]Product, error) {
	return FetchBySeller(ctx, s.db, sellerID)
}

func (s *DBStore) Create(ctx context.Context, p Product) error {
	return Create(ctx, s.db, p)
}

func (s *DBStore) Update(ctx context.Context, p Product) error {
	return Update(ctx, s.db, p)
}

func (s *DBStore) Delete(ctx context.Context, id string) error {
	return Delete(ctx, s.db, id)
}

// Seed inserts products when the catalog table is empty and reports how
// many were written.
func (s *DBStore) Seed(ctx context.Context, products []Product) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, s.db, &n, `SELECT count(*) FROM products`); err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	err := database.Transaction(ctx, s.db, func(tx sqlx.ExtContext) error {
		for _, p := range products {
			if err := Create(ctx, tx, p); err != nil {
				return fmt.Errorf("inserting product[%s]: %w", p.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(products), nil
}
