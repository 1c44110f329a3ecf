package emeraldconv

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// DefinitionDB is the sqlite catalog written next to the converted
// maps: lookup tables for the distinct metadata values seen during the
// session plus per-map and per-conversion rows.
type DefinitionDB struct {
	db *sql.DB
}

// OpenDefinitionDB opens (creating if needed) the catalog at file.
func OpenDefinitionDB(file string) (*DefinitionDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	for _, stmt := range []string{
		"CREATE TABLE IF NOT EXISTS weather (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE)",
		"CREATE TABLE IF NOT EXISTS battle_scene (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE)",
		"CREATE TABLE IF NOT EXISTS region_section (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE)",
		"CREATE TABLE IF NOT EXISTS map (id INTEGER PRIMARY KEY NOT NULL, map_id TEXT NOT NULL UNIQUE, name TEXT, music TEXT, width INTEGER, height INTEGER, weather_id INTEGER, battle_scene_id INTEGER, region_section_id INTEGER, FOREIGN KEY(weather_id) REFERENCES weather(id), FOREIGN KEY(battle_scene_id) REFERENCES battle_scene(id), FOREIGN KEY(region_section_id) REFERENCES region_section(id))",
		"CREATE TABLE IF NOT EXISTS conversion (id INTEGER PRIMARY KEY NOT NULL, map_id TEXT NOT NULL, success INTEGER NOT NULL, error TEXT, duration_ms INTEGER, layer_count INTEGER, tile_count INTEGER)",
	} {
		if _, err = db.Exec(stmt); err != nil {
			return nil, err
		}
	}

	return &DefinitionDB{db: db}, nil
}

// Close closes the underlying database.
func (d *DefinitionDB) Close() error {
	return d.db.Close()
}

// addLookup inserts name into a lookup table if new and returns its id.
func (d *DefinitionDB) addLookup(table, name string) (sql.NullInt64, error) {
	var id sql.NullInt64
	if name == "" {
		return id, nil
	}

	switch err := d.db.QueryRow("SELECT id FROM "+table+" WHERE name = ?", name).Scan(&id.Int64); err {
	case sql.ErrNoRows:
		result, err := d.db.Exec("INSERT INTO "+table+" (name) VALUES (?)", name)
		if err != nil {
			return id, err
		}
		id.Int64, err = result.LastInsertId()
		if err != nil {
			return id, err
		}
		id.Valid = true
		return id, nil
	case nil:
		id.Valid = true
		return id, nil
	default:
		return id, err
	}
}

// addMap upserts one converted map's metadata row.
func (d *DefinitionDB) addMap(m committedMap) error {
	weather, err := d.addLookup("weather", m.meta.Weather)
	if err != nil {
		return err
	}
	battleScene, err := d.addLookup("battle_scene", m.meta.BattleScene)
	if err != nil {
		return err
	}
	regionSection, err := d.addLookup("region_section", m.meta.RegionMapSection)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(
		"INSERT OR REPLACE INTO map (map_id, name, music, width, height, weather_id, battle_scene_id, region_section_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		m.meta.ID, m.meta.Name, m.meta.Music, m.layout.Width, m.layout.Height,
		weather, battleScene, regionSection)
	return err
}

// addConversion records one conversion outcome.
func (d *DefinitionDB) addConversion(r ConversionResult) error {
	var msg sql.NullString
	if r.Err != nil {
		msg.String = r.Err.Error()
		msg.Valid = true
	}

	_, err := d.db.Exec(
		"INSERT INTO conversion (map_id, success, error, duration_ms, layer_count, tile_count) VALUES (?, ?, ?, ?, ?, ?)",
		r.MapID, r.Success, msg, r.Duration.Milliseconds(), r.LayerCount, r.TileCount)
	return err
}

// Lookup returns the distinct names recorded in one of the lookup
// tables, sorted.
func (d *DefinitionDB) Lookup(table string) ([]string, error) {
	switch table {
	case "weather", "battle_scene", "region_section":
	default:
		return nil, fmt.Errorf("emeraldconv: no lookup table %q", table)
	}

	rows, err := d.db.Query("SELECT name FROM " + table + " ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GenerateDefinitions aggregates the session's converted metadata into
// the catalog under the output root. Purely aggregative; it reads
// nothing back from the input tree.
func (c *Converter) GenerateDefinitions() error {
	c.mu.Lock()
	converted := make([]committedMap, len(c.converted))
	copy(converted, c.converted)
	results := make([]ConversionResult, len(c.results))
	copy(results, c.results)
	c.mu.Unlock()

	if err := os.MkdirAll(c.cfg.Output, 0o755); err != nil {
		return err
	}

	db, err := OpenDefinitionDB(filepath.Join(c.cfg.Output, "definitions.db"))
	if err != nil {
		return err
	}
	defer db.Close()

	for _, m := range converted {
		if err := db.addMap(m); err != nil {
			return err
		}
	}
	for _, r := range results {
		if err := db.addConversion(r); err != nil {
			return err
		}
	}

	return nil
}
