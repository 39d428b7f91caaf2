package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Stash errors callers branch on.
var (
	ErrStashNotFound     = errors.New("stash item not found")
	ErrInsufficientStash = errors.New("not enough in stash")
)

// StashItem is the on-hand quantity for one strain/product pairing.
// Amount is grams of product, or a THC-mass equivalent in mg for
// mg-dosed products (edibles, tinctures, capsules).
type StashItem struct {
	ID          int64
	UserID      string
	ProductType string
	Strain      string
	Amount      float64
	THCPercent  *float64
	Notes       string
	CreatedAt   int64
	UpdatedAt   int64
}

const stashColumns = `id, user_id, product_type, COALESCE(strain, ''), amount, thc_percent,
	COALESCE(notes, ''), created_at, updated_at`

func scanStashItem(row interface{ Scan(...any) error }) (StashItem, error) {
	var it StashItem
	err := row.Scan(&it.ID, &it.UserID, &it.ProductType, &it.Strain, &it.Amount,
		&it.THCPercent, &it.Notes, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

// ListStash returns all of a user's stash items, ordered by type then strain.
func (db *DB) ListStash(userID string) ([]StashItem, error) {
	rows, err := db.Query(
		"SELECT "+stashColumns+" FROM stash_items WHERE user_id = ? ORDER BY product_type, strain",
		userID)
	if err != nil {
		return nil, fmt.Errorf("query stash: %w", err)
	}
	defer rows.Close()

	var items []StashItem
	for rows.Next() {
		it, err := scanStashItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stash item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stash: %w", err)
	}
	return items, nil
}

// GetStashItem returns the item matching product type and strain (empty
// strain matches rows without one), or nil when absent.
func (db *DB) GetStashItem(userID, productType, strain string) (*StashItem, error) {
	q := "SELECT " + stashColumns + " FROM stash_items WHERE user_id = ? AND product_type = ?"
	args := []any{userID, productType}
	if strain == "" {
		q += " AND strain IS NULL"
	} else {
		q += " AND strain = ?"
		args = append(args, strain)
	}

	it, err := scanStashItem(db.QueryRow(q, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get stash item: %w", err)
	}
	return &it, nil
}

// AddStash adds to an existing item or creates one. A provided
// concentration overwrites the stored one.
func (db *DB) AddStash(userID, productType, strain string, amount float64, thcPercent *float64, notes string) (*StashItem, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %g", amount)
	}
	if _, err := db.GetOrCreateUser(userID); err != nil {
		return nil, err
	}

	existing, err := db.GetStashItem(userID, productType, strain)
	if err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	if existing != nil {
		existing.Amount += amount
		if thcPercent != nil {
			existing.THCPercent = thcPercent
		}
		if notes != "" {
			existing.Notes = notes
		}
		_, err = db.Exec(`
			UPDATE stash_items SET amount = ?, thc_percent = ?, notes = ?, updated_at = ?
			WHERE id = ?
		`, existing.Amount, existing.THCPercent, nullStr(existing.Notes), now, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("update stash item: %w", err)
		}
		existing.UpdatedAt = now
		return existing, nil
	}

	result, err := db.Exec(`
		INSERT INTO stash_items (user_id, product_type, strain, amount, thc_percent, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, userID, productType, nullStr(strain), amount, thcPercent, nullStr(notes), now, now)
	if err != nil {
		return nil, fmt.Errorf("insert stash item: %w", err)
	}

	id, _ := result.LastInsertId()
	return &StashItem{
		ID: id, UserID: userID, ProductType: productType, Strain: strain,
		Amount: amount, THCPercent: thcPercent, Notes: notes,
		CreatedAt: now, UpdatedAt: now,
	}, nil
}

// SetStash sets the exact amount for an item, creating it if needed.
func (db *DB) SetStash(userID, productType, strain string, amount float64, thcPercent *float64) (*StashItem, error) {
	if amount < 0 {
		return nil, fmt.Errorf("amount must be non-negative, got %g", amount)
	}
	if _, err := db.GetOrCreateUser(userID); err != nil {
		return nil, err
	}

	existing, err := db.GetStashItem(userID, productType, strain)
	if err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	if existing == nil {
		result, err := db.Exec(`
			INSERT INTO stash_items (user_id, product_type, strain, amount, thc_percent, notes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, NULL, ?, ?)
		`, userID, productType, nullStr(strain), amount, thcPercent, now, now)
		if err != nil {
			return nil, fmt.Errorf("insert stash item: %w", err)
		}
		id, _ := result.LastInsertId()
		return &StashItem{
			ID: id, UserID: userID, ProductType: productType, Strain: strain,
			Amount: amount, THCPercent: thcPercent, CreatedAt: now, UpdatedAt: now,
		}, nil
	}

	existing.Amount = amount
	if thcPercent != nil {
		existing.THCPercent = thcPercent
	}
	_, err = db.Exec(`
		UPDATE stash_items SET amount = ?, thc_percent = ?, updated_at = ? WHERE id = ?
	`, existing.Amount, existing.THCPercent, now, existing.ID)
	if err != nil {
		return nil, fmt.Errorf("update stash item: %w", err)
	}
	existing.UpdatedAt = now
	return existing, nil
}

// RemoveStash deducts an amount, deleting the row when it reaches zero.
// Returns the item with its remaining amount (0 when deleted).
func (db *DB) RemoveStash(userID, productType, strain string, amount float64) (*StashItem, error) {
	item, err := db.GetStashItem(userID, productType, strain)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrStashNotFound, productType, strain)
	}
	if item.Amount < amount {
		return nil, fmt.Errorf("%w: have %g, want %g", ErrInsufficientStash, item.Amount, amount)
	}

	item.Amount -= amount
	if item.Amount <= 0 {
		item.Amount = 0
		if _, err := db.Exec("DELETE FROM stash_items WHERE id = ?", item.ID); err != nil {
			return nil, fmt.Errorf("delete empty stash item: %w", err)
		}
		return item, nil
	}

	_, err = db.Exec(`
		UPDATE stash_items SET amount = ?, updated_at = ? WHERE id = ?
	`, item.Amount, time.Now().UnixMilli(), item.ID)
	if err != nil {
		return nil, fmt.Errorf("update stash item: %w", err)
	}
	return item, nil
}
