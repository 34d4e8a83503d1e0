package purchase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/irsalhamdi/secondhand-market/core/cart"
	"github.com/irsalhamdi/secondhand-market/core/product"
	"github.com/irsalhamdi/secondhand-market/database"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type dbPurchase struct {
	ID           string          `db:"purchase_id"`
	UserID       string          `db:"user_id"`
	TotalAmount  decimal.Decimal `db:"total_amount"`
	PurchaseDate time.Time       `db:"purchase_date"`
	Status       Status          `db:"status"`
}

type dbItem struct {
	PurchaseID string         `db:"purchase_id"`
	ItemID     string         `db:"item_id"`
	Position   int            `db:"position"`
	Product    types.JSONText `db:"product"`
	Quantity   int            `db:"quantity"`
}

// Create stores the purchase and its items atomically.
func Create(ctx context.Context, db *sqlx.DB, p Purchase) error {
	row := dbPurchase{
		ID:           p.ID,
		UserID:       p.UserID,
		TotalAmount:  p.TotalAmount,
		PurchaseDate: p.PurchaseDate.UTC(),
		Status:       p.Status,
	}

	return database.Transaction(ctx, db, func(tx sqlx.ExtContext) error {
		const q = `
		INSERT INTO purchases (purchase_id, user_id, total_amount, purchase_date, status)
		VALUES (:purchase_id, :user_id, :total_amount, :purchase_date, :status)`

		if _, err := sqlx.NamedExecContext(ctx, tx, q, row); err != nil {
			return fmt.Errorf("inserting purchase: %w", err)
		}

		for i, it := range p.Items {
			snap, err := json.Marshal(it.Product)
			if err != nil {
				return fmt.Errorf("encoding product[%s]: %w", it.Product.ID, err)
			}

			item := dbItem{
				PurchaseID: p.ID,
				ItemID:     it.ID,
				Position:   i,
				Product:    types.JSONText(snap),
				Quantity:   it.Quantity,
			}

			const qi = `
			INSERT INTO purchase_items (purchase_id, item_id, position, product, quantity)
			VALUES (:purchase_id, :item_id, :position, :product, :quantity)`

			if _, err := sqlx.NamedExecContext(ctx, tx, qi, item); err != nil {
				return fmt.Errorf("inserting item[%s]: %w", it.ID, err)
			}
		}

		return nil
	})
}

func FetchByUser(ctx context.Context, db sqlx.QueryerContext, userID string) ([]Purchase, error) {
	const q = `
	SELECT purchase_id, user_id, total_amount, purchase_date, status
	FROM purchases
	WHERE user_id = $1
	ORDER BY purchase_date DESC, purchase_id`

	var rows []dbPurchase
	if err := sqlx.SelectContext(ctx, db, &rows, q, userID); err != nil {
		return nil, fmt.Errorf("selecting purchases: %w", err)
	}

	if len(rows) == 0 {
		return []Purchase{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}

	const qi = `
	SELECT purchase_id, item_id, position, product, quantity
	FROM purchase_items
	WHERE purchase_id = ANY($1)
	ORDER BY purchase_id, position`

	var items []dbItem
	if err := sqlx.SelectContext(ctx, db, &items, qi, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("selecting purchase items: %w", err)
	}

	byPurchase := make(map[string][]cart.Item, len(rows))
	for _, it := range items {
		var p product.Product
		if err := it.Product.Unmarshal(&p); err != nil {
			return nil, fmt.Errorf("decoding item[%s]: %w", it.ItemID, err)
		}
		byPurchase[it.PurchaseID] = append(byPurchase[it.PurchaseID], cart.Item{
			ID:       it.ItemID,
			Product:  p,
			Quantity: it.Quantity,
		})
	}

	out := make([]Purchase, 0, len(rows))
	for _, r := range rows {
		its := byPurchase[r.ID]
		if its == nil {
			its = []cart.Item{}
		}
		out = append(out, Purchase{
			ID:           r.ID,
			UserID:       r.UserID,
			Items:        its,
			TotalAmount:  r.TotalAmount,
			PurchaseDate: r.PurchaseDate,
			Status:       r.Status,
		})
	}
	return out, nil
}

// DBStore is the Postgres purchase history.
type DBStore struct {
	db *sqlx.DB
}

func NewDBStore(db *sqlx.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) QueryByUser(ctx context.Context, userID string) ([]Purchase, error) {
	return FetchByUser(ctx, s.db, userID)
}

func (s *DBStore) Create(ctx context.Context, p Purchase) error {
	return Create(ctx, s.db, p)
}
