package db

// schemaVersion is stored in PRAGMA user_version
const schemaVersion = 2

// migrations[i] upgrades a database from version i to i+1
var migrations = []string{
	createCharactersTable,
	addFavoriteColumn,
}

const createCharactersTable = `
CREATE TABLE IF NOT EXISTS characters (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    status TEXT,
    species TEXT,
    type TEXT,
    gender TEXT,
    origin TEXT,
    location TEXT,
    image TEXT,
    url TEXT,
    created TEXT,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_characters_name ON characters(name);
`

// Favorites are local-only, added after the first release
const addFavoriteColumn = `
ALTER TABLE characters ADD COLUMN is_favorite INTEGER NOT NULL DEFAULT 0;

CREATE INDEX IF NOT EXISTS idx_characters_favorite ON characters(is_favorite);
`

const characterColumns = `id, name, status, species, type, gender, origin, location, image, url, created, is_favorite`

// Upsert keeps is_favorite untouched for existing rows
const upsertCharacter = `
INSERT INTO characters (
    id, name, status, species, type, gender,
    origin, location, image, url, created
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    name = excluded.name,
    status = excluded.status,
    species = excluded.species,
    type = excluded.type,
    gender = excluded.gender,
    origin = excluded.origin,
    location = excluded.location,
    image = excluded.image,
    url = excluded.url,
    created = excluded.created,
    updated_at = CURRENT_TIMESTAMP
`

const selectAllCharacters = `
SELECT ` + characterColumns + ` FROM characters ORDER BY id ASC
`

const selectCharacterByID = `
SELECT ` + characterColumns + ` FROM characters WHERE id = ?
`

const searchCharactersByName = `
SELECT ` + characterColumns + ` FROM characters
WHERE unicode_lower(name) LIKE '%' || unicode_lower(?) || '%' ESCAPE '\'
ORDER BY id ASC
`

const selectFavoriteCharacters = `
SELECT ` + characterColumns + ` FROM characters WHERE is_favorite = 1 ORDER BY name ASC, id ASC
`

const selectFavoriteIDs = `
SELECT id FROM characters WHERE is_favorite = 1
`

const selectFavoriteFlag = `
SELECT is_favorite FROM characters WHERE id = ?
`

const updateFavoriteFlag = `
UPDATE characters SET is_favorite = ? WHERE id = ?
`

const countCharacters = `
SELECT COUNT(*) FROM characters
`

const countFavoriteCharacters = `
SELECT COUNT(*) FROM characters WHERE is_favorite = 1
`

const deleteCharacterByID = `
DELETE FROM characters WHERE id = ?
`

const deleteNonFavoriteCharacters = `
DELETE FROM characters WHERE is_favorite = 0
`

const deleteAllCharacters = `
DELETE FROM characters
`
