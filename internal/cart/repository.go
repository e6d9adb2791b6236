package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"grocery-planner/internal/catalog"
	"grocery-planner/internal/database"
)

// Repository handles persistence of carts.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new cart repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Add puts qty units of p into the user's cart. Adding a product that is
// already in the cart increases its quantity and refreshes the snapshot.
func (r *Repository) Add(ctx context.Context, userID string, p catalog.Product, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	snapshot, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal product snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO cart_lines (user_id, product_id, product, quantity, added_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, product_id) DO UPDATE SET quantity = quantity + excluded.quantity, product = excluded.product`,
		userID, p.ID, string(snapshot), qty, database.FormatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to add cart line: %w", err)
	}
	return nil
}

// SetQuantity replaces a line's quantity. It returns false if the product is
// not in the cart.
func (r *Repository) SetQuantity(ctx context.Context, userID string, productID, qty int) (bool, error) {
	if qty <= 0 {
		return false, ErrInvalidQuantity
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE cart_lines SET quantity = ? WHERE user_id = ? AND product_id = ?`, qty, userID, productID)
	if err != nil {
		return false, fmt.Errorf("failed to update cart line: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to update cart line: %w", err)
	}
	return n > 0, nil
}

// Remove deletes one line. It returns false if the product was not in the cart.
func (r *Repository) Remove(ctx context.Context, userID string, productID int) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_lines WHERE user_id = ? AND product_id = ?`, userID, productID)
	if err != nil {
		return false, fmt.Errorf("failed to remove cart line: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to remove cart line: %w", err)
	}
	return n > 0, nil
}

// Get loads the user's cart. A user without lines gets an empty cart.
func (r *Repository) Get(ctx context.Context, userID string) (*Cart, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT product, quantity, added_at FROM cart_lines WHERE user_id = ? ORDER BY added_at, product_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	defer rows.Close()

	c := &Cart{UserID: userID}
	for rows.Next() {
		var snapshot, addedAt string
		var line Line
		if err := rows.Scan(&snapshot, &line.Quantity, &addedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		if err := json.Unmarshal([]byte(snapshot), &line.Product); err != nil {
			return nil, fmt.Errorf("failed to unmarshal product snapshot: %w", err)
		}
		line.AddedAt = database.ParseTime(addedAt)
		c.Lines = append(c.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return c, nil
}

// Clear empties the user's cart and returns how many lines were removed.
func (r *Repository) Clear(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_lines WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}
	return res.RowsAffected()
}

// MaxProductID is the highest product id referenced by any cart, or 0. New
// sessions start their id counter above it so ids are never reused.
func (r *Repository) MaxProductID(ctx context.Context) (int, error) {
	var maxID sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `SELECT MAX(product_id) FROM cart_lines`).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("failed to read max product id: %w", err)
	}
	return int(maxID.Int64), nil
}
