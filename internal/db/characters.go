package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/thesavant42/schwifty-ng/internal/models"
)

// ErrNoCharacter is returned when a character id is not cached
var ErrNoCharacter = errors.New("character not cached")

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// GetCharacter returns a cached character by id
func (db *DB) GetCharacter(ctx context.Context, id int) (models.Character, error) {
	c, err := scanCharacter(db.conn.QueryRowContext(ctx, selectCharacterByID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Character{}, ErrNoCharacter
	}
	if err != nil {
		return models.Character{}, fmt.Errorf("failed to get character %d: %w", id, err)
	}
	return c, nil
}

// AllCharacters returns every cached character ordered by id
func (db *DB) AllCharacters(ctx context.Context) ([]models.Character, error) {
	return db.queryCharacters(ctx, "all characters", selectAllCharacters)
}

// SearchCharacters returns cached characters whose name contains query, ignoring case.
// An empty query matches everything.
func (db *DB) SearchCharacters(ctx context.Context, query string) ([]models.Character, error) {
	return db.queryCharacters(ctx, "search characters", searchCharactersByName, escapeLike(strings.TrimSpace(query)))
}

// FavoriteCharacters returns the favorites ordered by name
func (db *DB) FavoriteCharacters(ctx context.Context) ([]models.Character, error) {
	return db.queryCharacters(ctx, "favorite characters", selectFavoriteCharacters)
}

// FavoriteIDs returns the set of favorite character ids
func (db *DB) FavoriteIDs(ctx context.Context) (map[int]bool, error) {
	rows, err := db.conn.QueryContext(ctx, selectFavoriteIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorite ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite id: %w", err)
		}
		ids[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate favorite ids: %w", err)
	}
	return ids, nil
}

// CountCharacters returns the number of cached characters
func (db *DB) CountCharacters(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, countCharacters).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count characters: %w", err)
	}
	return count, nil
}

// CountFavorites returns the number of favorite characters
func (db *DB) CountFavorites(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, countFavoriteCharacters).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}

// ReplaceCharacters swaps the cached listing for records.
// Favorites are local-only data and survive the replace.
func (db *DB) ReplaceCharacters(ctx context.Context, records []models.Character) error {
	return db.writeTx(ctx, "replace characters", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteNonFavoriteCharacters); err != nil {
			return fmt.Errorf("failed to clear characters: %w", err)
		}
		return upsertAll(ctx, tx, records)
	})
}

// UpsertCharacters inserts or updates records without touching favorite flags
func (db *DB) UpsertCharacters(ctx context.Context, records []models.Character) error {
	if len(records) == 0 {
		return nil
	}
	return db.writeTx(ctx, "upsert characters", func(tx *sql.Tx) error {
		return upsertAll(ctx, tx, records)
	})
}

// UpsertCharacter inserts or updates a single record without touching its favorite flag
func (db *DB) UpsertCharacter(ctx context.Context, c models.Character) error {
	return db.UpsertCharacters(ctx, []models.Character{c})
}

// DeleteCharacter removes a cached character
func (db *DB) DeleteCharacter(ctx context.Context, id int) error {
	return db.writeTx(ctx, "delete character", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteCharacterByID, id); err != nil {
			return fmt.Errorf("failed to delete character %d: %w", id, err)
		}
		return nil
	})
}

// SetFavorite sets the favorite flag of a cached character
func (db *DB) SetFavorite(ctx context.Context, id int, favorite bool) error {
	return db.writeTx(ctx, "set favorite", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, updateFavoriteFlag, favorite, id)
		if err != nil {
			return fmt.Errorf("failed to update favorite %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNoCharacter
		}
		return nil
	})
}

// ToggleFavorite flips the favorite flag of c and returns the new value.
// A character that is not cached yet is stored as a favorite.
func (db *DB) ToggleFavorite(ctx context.Context, c models.Character) (bool, error) {
	var favorite bool
	err := db.writeTx(ctx, "toggle favorite", func(tx *sql.Tx) error {
		var current bool
		err := tx.QueryRowContext(ctx, selectFavoriteFlag, c.ID).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			if err := upsertAll(ctx, tx, []models.Character{c}); err != nil {
				return err
			}
		} else if err != nil {
			return fmt.Errorf("failed to read favorite %d: %w", c.ID, err)
		}

		favorite = !current
		if _, err := tx.ExecContext(ctx, updateFavoriteFlag, favorite, c.ID); err != nil {
			return fmt.Errorf("failed to update favorite %d: %w", c.ID, err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return favorite, nil
}

// ClearCharacters deletes every cached character, favorites included
func (db *DB) ClearCharacters(ctx context.Context) error {
	return db.writeTx(ctx, "clear characters", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteAllCharacters); err != nil {
			return fmt.Errorf("failed to delete characters: %w", err)
		}
		return nil
	})
}

// writeTx runs fn in a transaction and publishes a change after commit
func (db *DB) writeTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		db.logger.Error("Write failed", "op", op, "error", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	db.logger.Debug("Write committed", "op", op)
	db.notify()
	return nil
}

func (db *DB) queryCharacters(ctx context.Context, what, query string, args ...any) ([]models.Character, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", what, err)
	}
	defer rows.Close()

	var characters []models.Character
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", what, err)
		}
		characters = append(characters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", what, err)
	}
	return characters, nil
}

func upsertAll(ctx context.Context, tx *sql.Tx, records []models.Character) error {
	stmt, err := tx.PrepareContext(ctx, upsertCharacter)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		origin, err := json.Marshal(r.Origin)
		if err != nil {
			return fmt.Errorf("failed to encode origin for %d: %w", r.ID, err)
		}
		location, err := json.Marshal(r.Location)
		if err != nil {
			return fmt.Errorf("failed to encode location for %d: %w", r.ID, err)
		}

		_, err = stmt.ExecContext(ctx,
			r.ID,
			r.Name,
			r.Status,
			r.Species,
			r.Type,
			r.Gender,
			string(origin),
			string(location),
			r.Image,
			r.URL,
			r.Created,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert character %d: %w", r.ID, err)
		}
	}
	return nil
}

func scanCharacter(row rowScanner) (models.Character, error) {
	var c models.Character
	var status, species, typ, gender, origin, location, image, url, created sql.NullString
	err := row.Scan(
		&c.ID,
		&c.Name,
		&status,
		&species,
		&typ,
		&gender,
		&origin,
		&location,
		&image,
		&url,
		&created,
		&c.Favorite,
	)
	if err != nil {
		return models.Character{}, err
	}

	c.Status = status.String
	c.Species = species.String
	c.Type = typ.String
	c.Gender = gender.String
	c.Image = image.String
	c.URL = url.String
	c.Created = created.String

	if err := decodePlace(origin, &c.Origin); err != nil {
		return models.Character{}, fmt.Errorf("failed to decode origin for %d: %w", c.ID, err)
	}
	if err := decodePlace(location, &c.Location); err != nil {
		return models.Character{}, fmt.Errorf("failed to decode location for %d: %w", c.ID, err)
	}
	return c, nil
}

// decodePlace reads an origin/location column stored as JSON text
func decodePlace(raw sql.NullString, dst *models.Place) error {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw.String), dst)
}

// escapeLike escapes LIKE wildcards so the query is matched literally
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
