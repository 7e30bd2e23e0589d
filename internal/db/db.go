package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a pgx connection pool for encounter persistence.
type DB struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and returns a DB handle.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (d *DB) Close() {
	d.pool.Close()
}

// EncounterRecord is one persisted combat summary: the deterministic
// CombatResults projection the save/undo layer replays from.
type EncounterRecord struct {
	ID           int64
	AttackerNID  string
	DefenderNID  string
	AttackerHP   int
	DefenderHP   int
	AttackerDead bool
	DefenderDead bool
	ExpGained    int
	StrikeCount  int
	RNGMode      string
	CreatedAt    time.Time
}

// SaveEncounter inserts an encounter record and returns its ID.
func (d *DB) SaveEncounter(ctx context.Context, rec EncounterRecord) (int64, error) {
	var id int64
	err := d.pool.QueryRow(ctx,
		`INSERT INTO encounters
		   (attacker_nid, defender_nid, attacker_hp, defender_hp,
		    attacker_dead, defender_dead, exp_gained, strike_count, rng_mode, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		rec.AttackerNID, rec.DefenderNID, rec.AttackerHP, rec.DefenderHP,
		rec.AttackerDead, rec.DefenderDead, rec.ExpGained, rec.StrikeCount,
		rec.RNGMode, time.Now(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("saving encounter %s vs %s: %w", rec.AttackerNID, rec.DefenderNID, err)
	}
	return id, nil
}

// ListEncounters returns the most recent encounter records, newest first.
func (d *DB) ListEncounters(ctx context.Context, limit int) ([]EncounterRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.pool.Query(ctx,
		`SELECT id, attacker_nid, defender_nid, attacker_hp, defender_hp,
		        attacker_dead, defender_dead, exp_gained, strike_count, rng_mode, created_at
		 FROM encounters
		 ORDER BY id DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing encounters: %w", err)
	}
	defer rows.Close()

	var out []EncounterRecord
	for rows.Next() {
		var rec EncounterRecord
		if err := rows.Scan(
			&rec.ID, &rec.AttackerNID, &rec.DefenderNID, &rec.AttackerHP, &rec.DefenderHP,
			&rec.AttackerDead, &rec.DefenderDead, &rec.ExpGained, &rec.StrikeCount,
			&rec.RNGMode, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning encounter row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating encounters: %w", err)
	}
	return out, nil
}

// GetEncounter retrieves a single encounter record by ID.
// Returns nil, nil if the record does not exist.
func (d *DB) GetEncounter(ctx context.Context, id int64) (*EncounterRecord, error) {
	var rec EncounterRecord
	err := d.pool.QueryRow(ctx,
		`SELECT id, attacker_nid, defender_nid, attacker_hp, defender_hp,
		        attacker_dead, defender_dead, exp_gained, strike_count, rng_mode, created_at
		 FROM encounters WHERE id = $1`, id,
	).Scan(
		&rec.ID, &rec.AttackerNID, &rec.DefenderNID, &rec.AttackerHP, &rec.DefenderHP,
		&rec.AttackerDead, &rec.DefenderDead, &rec.ExpGained, &rec.StrikeCount,
		&rec.RNGMode, &rec.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying encounter %d: %w", id, err)
	}
	return &rec, nil
}
