package credentials

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/relate15/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/relate15/internal/dbx"
)

// Durable keeps the token in the local metadata table.
type Durable struct {
	db  *sql.DB
	now func() time.Time
}

func NewDurable(db *sql.DB) *Durable {
	return &Durable{db: db, now: time.Now}
}

func (d *Durable) Load(ctx context.Context) (string, error) {
	token, _, err := metadata.NewSQLiteRepository(d.db).Get(ctx, metadata.KeyToken)
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	return token, nil
}

// Save writes the token and the time it was saved in one transaction.
func (d *Durable) Save(ctx context.Context, token string) error {
	if token == "" {
		return d.Clear(ctx)
	}
	return dbx.WithTx(ctx, d.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, metadata.KeyToken, token); err != nil {
			return err
		}
		return repo.Set(ctx, metadata.KeyTokenSavedAt, d.now().UTC().Format(time.RFC3339))
	})
}

func (d *Durable) Clear(ctx context.Context) error {
	repo := metadata.NewSQLiteRepository(d.db)
	if err := repo.Delete(ctx, metadata.KeyToken, metadata.KeyTokenSavedAt); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

func (d *Durable) SaveUserID(ctx context.Context, id string) error {
	if err := metadata.NewSQLiteRepository(d.db).Set(ctx, metadata.KeyLastUserID, id); err != nil {
		return fmt.Errorf("save user id: %w", err)
	}
	return nil
}

// Info reads the whole metadata table in one query.
func (d *Durable) Info(ctx context.Context) (Info, error) {
	m, err := metadata.NewSQLiteRepository(d.db).List(ctx)
	if err != nil {
		return Info{}, fmt.Errorf("read credential info: %w", err)
	}

	info := Info{
		HasToken:   m[metadata.KeyToken] != "",
		LastUserID: m[metadata.KeyLastUserID],
	}
	if v := m[metadata.KeyTokenSavedAt]; v != "" && info.HasToken {
		at, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return Info{}, fmt.Errorf("parse saved_at: %w", err)
		}
		info.SavedAt = at
	}
	return info, nil
}
