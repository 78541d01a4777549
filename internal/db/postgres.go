package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gachipet/internal/models"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ErrNotFound is returned when a lookup matches no rows.
var ErrNotFound = errors.New("not found")

type PostgresDB struct {
	pool *pgxpool.Pool
}

func NewPostgresDB(cfg struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	ConnLifetime time.Duration
}) (*PostgresDB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode, cfg.MaxOpenConns,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DB connection string: %w", err)
	}

	// Set connection pool parameters
	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnLifetime
	poolConfig.MaxConnIdleTime = 15 * time.Minute

	// Connect with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection works
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresDB{pool: pool}, nil
}

func (db *PostgresDB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the tables if they do not exist yet.
func (db *PostgresDB) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(255) UNIQUE NOT NULL,
			health INTEGER NOT NULL DEFAULT 20,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS turns (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			user_message TEXT NOT NULL,
			bot_response TEXT NOT NULL,
			state_tag VARCHAR(50) NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_turns_user_ts ON turns (user_id, timestamp)`,
		`CREATE TABLE IF NOT EXISTS food_events (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			food_name VARCHAR(255) NOT NULL,
			category VARCHAR(100) NOT NULL,
			health_score INTEGER NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_food_events_user_ts ON food_events (user_id, timestamp)`,
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// GetOrCreateUser returns the user with the given username, creating it
// with full health on first contact.
func (db *PostgresDB) GetOrCreateUser(ctx context.Context, username string) (*models.User, error) {
	query := `
        INSERT INTO users (username)
        VALUES ($1)
        ON CONFLICT (username) DO UPDATE
        SET username = EXCLUDED.username
        RETURNING id, username, health, created_at
    `

	var user models.User
	err := db.pool.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.Health, &user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create user: %w", err)
	}

	return &user, nil
}

// UpdateUserHealth overwrites the stored health value. Last write wins;
// concurrent feeds for the same user are not serialized.
func (db *PostgresDB) UpdateUserHealth(ctx context.Context, userID int64, health int) error {
	query := `
        UPDATE users
        SET health = $2
        WHERE id = $1
    `

	_, err := db.pool.Exec(ctx, query, userID, health)
	if err != nil {
		return fmt.Errorf("failed to update user health: %w", err)
	}
	return err
}

func (db *PostgresDB) SaveTurn(ctx context.Context, turn *models.Turn) error {
	query := `
        INSERT INTO turns (user_id, user_message, bot_response, state_tag)
        VALUES ($1, $2, $3, $4)
        RETURNING id, timestamp
    `

	err := db.pool.QueryRow(ctx, query,
		turn.UserID, turn.UserMessage, turn.BotResponse, turn.StateTag,
	).Scan(&turn.ID, &turn.Timestamp)

	return err
}

// RecentTurns returns the limit most recent turns whose state_tag is in
// tags, newest first.
func (db *PostgresDB) RecentTurns(ctx context.Context, userID int64, tags []string, limit int) ([]models.Turn, error) {
	query := `
        SELECT id, user_id, user_message, bot_response, state_tag, timestamp
        FROM turns
        WHERE user_id = $1 AND state_tag = ANY($2)
        ORDER BY timestamp DESC
        LIMIT $3
    `

	rows, err := db.pool.Query(ctx, query, userID, tags, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []models.Turn
	for rows.Next() {
		var t models.Turn
		if err := rows.Scan(&t.ID, &t.UserID, &t.UserMessage, &t.BotResponse, &t.StateTag, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, t)
	}

	return turns, rows.Err()
}

func (db *PostgresDB) SaveFoodEvent(ctx context.Context, event *models.FoodEvent) error {
	query := `
        INSERT INTO food_events (user_id, food_name, category, health_score, confidence)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, timestamp
    `

	err := db.pool.QueryRow(ctx, query,
		event.UserID, event.FoodName, event.Category, event.HealthScore, event.Confidence,
	).Scan(&event.ID, &event.Timestamp)

	return err
}

// LastFoodEvent returns the most recent food event for the user, or
// ErrNotFound when the user has never fed the pet.
func (db *PostgresDB) LastFoodEvent(ctx context.Context, userID int64) (*models.FoodEvent, error) {
	query := `
        SELECT id, user_id, food_name, category, health_score, confidence, timestamp
        FROM food_events
        WHERE user_id = $1
        ORDER BY timestamp DESC
        LIMIT 1
    `

	var event models.FoodEvent
	err := db.pool.QueryRow(ctx, query, userID).Scan(
		&event.ID, &event.UserID, &event.FoodName, &event.Category,
		&event.HealthScore, &event.Confidence, &event.Timestamp,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last food event: %w", err)
	}

	return &event, nil
}
