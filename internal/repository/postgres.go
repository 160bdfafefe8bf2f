// Package repository содержит реализацию доступа к данным в PostgreSQL.
// Сервис хранит локально только привязку пользователей Telegram и отзывы
// на позиции заказов; остальные данные живут на бэкенде витрины.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/gvmbt/pvndora-storefront/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrReviewExists возвращается при повторном отзыве на ту же позицию заказа.
var ErrReviewExists = errors.New("review already exists for this item")

// PostgresRepository предоставляет доступ к хранилищу данных в PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository создаёт репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{pool: pool}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// UpsertUser сохраняет либо обновляет пользователя Telegram при входе.
func (r *PostgresRepository) UpsertUser(ctx context.Context, user model.TelegramUser) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (telegram_id, first_name, last_name, username, photo_url, is_premium, last_seen_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())
		 ON CONFLICT (telegram_id) DO UPDATE SET
		   first_name = EXCLUDED.first_name,
		   last_name = EXCLUDED.last_name,
		   username = EXCLUDED.username,
		   photo_url = EXCLUDED.photo_url,
		   is_premium = EXCLUDED.is_premium,
		   last_seen_at = now()`,
		user.ID, user.FirstName, user.LastName, user.Username, user.PhotoURL, user.IsPremium,
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// CreateReview сохраняет отзыв на позицию заказа. На одну позицию допускается
// единственный отзыв.
func (r *PostgresRepository) CreateReview(ctx context.Context, userID int64, orderID, itemID string, rating int, text string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO item_reviews (order_item_id, order_id, telegram_id, rating, review_text)
		 VALUES ($1, $2, $3, $4, $5)`,
		itemID, orderID, userID, rating, text,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: %s", ErrReviewExists, itemID)
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// GetReviewedItems возвращает множество позиций из itemIDs, на которые
// пользователь уже оставил отзыв.
func (r *PostgresRepository) GetReviewedItems(ctx context.Context, userID int64, itemIDs []string) (map[string]bool, error) {
	reviewed := make(map[string]bool, len(itemIDs))
	if len(itemIDs) == 0 {
		return reviewed, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT order_item_id FROM item_reviews WHERE telegram_id = $1 AND order_item_id = ANY($2)`,
		userID, itemIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("select reviews: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID string
		if err := rows.Scan(&itemID); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviewed[itemID] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return reviewed, nil
}
