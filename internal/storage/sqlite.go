package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"trekdata/internal/models"
)

// DB wraps the seed database.
type DB struct {
	conn *sql.DB
}

// OpenDB opens the sqlite database at path, creating the file if needed.
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()

		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Init creates the treks table if it does not exist.
func (d *DB) Init() error {
	createTreks := `
	CREATE TABLE IF NOT EXISTS treks (
		"id" INTEGER PRIMARY KEY,
		"name" TEXT NOT NULL,
		"region" TEXT,
		"distance_km" REAL,
		"duration_days" INTEGER,
		"difficulty" TEXT,
		"image_filename" TEXT,
		"description" TEXT,
		"updated_at" DATETIME NOT NULL
	);`

	if _, err := d.conn.Exec(createTreks); err != nil {
		return fmt.Errorf("failed to create treks table: %w", err)
	}

	return nil
}

// UpsertTreks inserts or updates treks by id and reports how many of each.
func (d *DB) UpsertTreks(treks []models.Trek) (int, int, error) {
	stmt, err := d.conn.Prepare(`
		INSERT INTO treks(id, name, region, distance_km, duration_days, difficulty, image_filename, description, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			region = excluded.region,
			distance_km = excluded.distance_km,
			duration_days = excluded.duration_days,
			difficulty = excluded.difficulty,
			image_filename = excluded.image_filename,
			description = excluded.description,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	inserted, updated := 0, 0
	now := time.Now().UTC()

	for _, trek := range treks {
		var exists int
		if err := d.conn.QueryRow("SELECT COUNT(*) FROM treks WHERE id = ?", trek.ID).Scan(&exists); err != nil {
			return inserted, updated, fmt.Errorf("failed to check trek %d: %w", trek.ID, err)
		}

		_, err := stmt.Exec(
			trek.ID,
			trek.Name,
			trek.Region,
			trek.DistanceKm,
			trek.DurationDays,
			trek.Difficulty,
			trek.ImageFilename,
			trek.Description,
			now,
		)
		if err != nil {
			return inserted, updated, fmt.Errorf("failed to upsert trek %d: %w", trek.ID, err)
		}

		if exists > 0 {
			updated++
		} else {
			inserted++
		}
	}

	return inserted, updated, nil
}

// ListTreks returns all stored treks ordered by id.
func (d *DB) ListTreks() ([]models.Trek, error) {
	query := `
		SELECT id, name, region, distance_km, duration_days, difficulty, image_filename, description
		FROM treks
		ORDER BY id
	`

	rows, err := d.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query treks: %w", err)
	}
	defer rows.Close()

	var treks []models.Trek

	for rows.Next() {
		var t models.Trek
		if err := rows.Scan(
			&t.ID,
			&t.Name,
			&t.Region,
			&t.DistanceKm,
			&t.DurationDays,
			&t.Difficulty,
			&t.ImageFilename,
			&t.Description,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trek: %w", err)
		}

		treks = append(treks, t)
	}

	return treks, rows.Err()
}

// CountTreks returns the number of stored treks.
func (d *DB) CountTreks() (int, error) {
	var count int
	if err := d.conn.QueryRow("SELECT COUNT(*) FROM treks").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count treks: %w", err)
	}

	return count, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.conn.Close()
}
