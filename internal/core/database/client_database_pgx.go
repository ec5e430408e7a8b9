package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core"
	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, databaseURL string) (core.DbClient, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Sensible pool settings for an API service; adjust as needed.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// CreateDocument inserts the row in StatusProcessing before the background
// pipeline is scheduled, so a concurrent status query never sees a missing
// record.
func (c *DatabaseClient) CreateDocument(ctx context.Context, doc *models.Document) error {
	if doc == nil {
		return errors.New("nil document")
	}
	if doc.Status == "" {
		doc.Status = models.StatusProcessing
	}
	const q = `
		INSERT INTO agent_documents (id, agent_id, file_name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
	`
	_, err := c.db.ExecContext(ctx, q, doc.ID, doc.AgentID, doc.FileName, doc.Status)
	return err
}

func (c *DatabaseClient) GetDocumentByID(ctx context.Context, id int64) (*models.Document, error) {
	const q = `
		SELECT id, agent_id, file_name, status, created_at, updated_at
		FROM agent_documents
		WHERE id = $1
	`
	var d models.Document
	err := c.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.AgentID, &d.FileName, &d.Status, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", core.ErrDocumentNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *DatabaseClient) ListDocumentsByAgent(ctx context.Context, agentID int64) ([]models.Document, error) {
	const q = `
		SELECT id, agent_id, file_name, status, created_at, updated_at
		FROM agent_documents
		WHERE agent_id = $1
		ORDER BY created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, q, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(
			&d.ID, &d.AgentID, &d.FileName, &d.Status, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateDocumentStatus is the pipeline's only relational mutation: the
// terminal flip to ready or error, or the synchronous flip to processing.
func (c *DatabaseClient) UpdateDocumentStatus(ctx context.Context, id int64, status string) error {
	const q = `
		UPDATE agent_documents
		SET status = $2, updated_at = now()
		WHERE id = $1
	`
	res, err := c.db.ExecContext(ctx, q, id, status)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %d", core.ErrDocumentNotFound, id)
	}
	return nil
}
