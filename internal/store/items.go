package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avashist/upkeep/internal/model"
)

// CreateItem creates a new inventory item.
func CreateItem(ctx context.Context, db *sql.DB, itemID, category, itemType, location string) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (item_id, category, type, location) VALUES (?, ?, ?, ?)`,
		itemID, category, itemType, location,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

const itemColumns = `id, item_id, category, type, location, temporary_location, condition, photo_mime, created_at, updated_at, deleted_at`

func scanItem(row *sql.Row) (*model.Item, error) {
	item := &model.Item{}
	var tempLocation, photoMime sql.NullString
	err := row.Scan(&item.ID, &item.ItemID, &item.Category, &item.Type, &item.Location,
		&tempLocation, &item.Condition, &photoMime, &item.CreatedAt, &item.UpdatedAt, &item.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	item.TemporaryLocation = tempLocation.String
	item.PhotoMime = photoMime.String
	return item, nil
}

// GetItem returns an item by internal ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	))
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// GetItemByItemID returns an active item by its asset tag.
func GetItemByItemID(ctx context.Context, db *sql.DB, itemID string) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE item_id = ? AND deleted_at IS NULL`, itemID,
	))
	if err != nil {
		return nil, fmt.Errorf("getting item by item id: %w", err)
	}
	return item, nil
}

// ListItems returns all non-deleted items, optionally filtered by condition.
func ListItems(ctx context.Context, db *sql.DB, condition string) ([]model.Item, error) {
	var rows *sql.Rows
	var err error

	if condition != "" {
		rows, err = db.QueryContext(ctx,
			`SELECT `+itemColumns+` FROM items
			 WHERE deleted_at IS NULL AND condition = ? ORDER BY item_id`, condition,
		)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT `+itemColumns+` FROM items WHERE deleted_at IS NULL ORDER BY item_id`,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var tempLocation, photoMime sql.NullString
		if err := rows.Scan(&item.ID, &item.ItemID, &item.Category, &item.Type, &item.Location,
			&tempLocation, &item.Condition, &photoMime, &item.CreatedAt, &item.UpdatedAt, &item.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.TemporaryLocation = tempLocation.String
		item.PhotoMime = photoMime.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem updates an item's metadata.
func UpdateItem(ctx context.Context, db *sql.DB, itemID, category, itemType, location, condition string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET category = ?, type = ?, location = ?, condition = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE item_id = ? AND deleted_at IS NULL`,
		category, itemType, location, condition, itemID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// SetItemPlacement overwrites an item's home location and condition.
// This is the incharge path of the scanner update.
func SetItemPlacement(ctx context.Context, db *sql.DB, itemID, location, condition string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET location = ?, condition = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE item_id = ? AND deleted_at IS NULL`,
		location, condition, itemID,
	)
	if err != nil {
		return fmt.Errorf("setting item placement: %w", err)
	}
	return nil
}

// SetItemTemporaryLocation records where a bearer has taken an item.
// This is the ordinary-user path of the scanner update; the home location
// and condition are left untouched.
func SetItemTemporaryLocation(ctx context.Context, db *sql.DB, itemID, temporaryLocation string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET temporary_location = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE item_id = ? AND deleted_at IS NULL`,
		temporaryLocation, itemID,
	)
	if err != nil {
		return fmt.Errorf("setting item temporary location: %w", err)
	}
	return nil
}

// DeleteItem soft-deletes an item.
func DeleteItem(ctx context.Context, db *sql.DB, itemID string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET deleted_at = CURRENT_TIMESTAMP WHERE item_id = ? AND deleted_at IS NULL`,
		itemID,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// SetItemPhoto sets an item's condition photo.
func SetItemPhoto(ctx context.Context, db *sql.DB, itemID string, photo []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET photo = ?, photo_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE item_id = ? AND deleted_at IS NULL`,
		photo, mime, itemID,
	)
	if err != nil {
		return fmt.Errorf("setting item photo: %w", err)
	}
	return nil
}

// GetItemPhoto returns an item's photo data and MIME type.
func GetItemPhoto(ctx context.Context, db *sql.DB, itemID string) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM items WHERE item_id = ?`, itemID,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item photo: %w", err)
	}
	return photo, mime.String, nil
}
