package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-structure-sync/internal/logging"
	"github.com/goliatone/go-structure-sync/pkg/interfaces"
)

// DefaultKey names the row holding the menu link snapshot.
const DefaultKey = "menus"

var ErrDatabaseRequired = errors.New("snapshot: bun store requires a database")

// Model is the config table row holding one encoded snapshot.
type Model struct {
	bun.BaseModel `bun:"table:config_snapshots"`

	Name      string    `bun:",pk"`
	Version   int       `bun:"version,notnull"`
	Data      string    `bun:"data,notnull"`
	CreatedAt time.Time `bun:"created_at"`
	UpdatedAt time.Time `bun:"updated_at"`
}

// BunStore persists the snapshot as a JSON document in a key/value table.
type BunStore struct {
	db     *bun.DB
	key    string
	logger interfaces.Logger
}

// NewBunStore stores the snapshot under key, or DefaultKey when key is blank.
func NewBunStore(db *bun.DB, key string, logger interfaces.Logger) *BunStore {
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultKey
	}
	return &BunStore{db: db, key: key, logger: logging.Ensure(logger)}
}

// EnsureSchema creates the config table when missing.
func (s *BunStore) EnsureSchema(ctx context.Context) error {
	if s.db == nil {
		return ErrDatabaseRequired
	}
	_, err := s.db.NewCreateTable().Model((*Model)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (s *BunStore) Write(ctx context.Context, snap *Snapshot) error {
	if s.db == nil {
		return ErrDatabaseRequired
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	var existing Model
	err = s.db.NewSelect().Model(&existing).Where("name = ?", s.key).Scan(ctx)
	created := false
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			created = true
		} else {
			return err
		}
	}

	now := time.Now().UTC()
	model := Model{Name: s.key, Version: Version, Data: string(data), UpdatedAt: now}
	if snap != nil && snap.Version > 0 {
		model.Version = snap.Version
	}
	if created {
		model.CreatedAt = now
		if _, err := s.db.NewInsert().Model(&model).Exec(ctx); err != nil {
			return err
		}
	} else {
		model.CreatedAt = existing.CreatedAt
		if _, err := s.db.NewUpdate().
			Model(&model).
			Column("version", "data", "updated_at").
			WherePK().
			Exec(ctx); err != nil {
			return err
		}
	}
	s.logger.Debug("snapshot.bun.written", "key", s.key, "records", snap.Len())
	return nil
}

func (s *BunStore) Read(ctx context.Context) (*Snapshot, error) {
	if s.db == nil {
		return nil, ErrDatabaseRequired
	}
	var model Model
	if err := s.db.NewSelect().Model(&model).Where("name = ?", s.key).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return Unmarshal([]byte(model.Data), FormatJSON)
}

func (s *BunStore) Clear(ctx context.Context) error {
	if s.db == nil {
		return ErrDatabaseRequired
	}
	_, err := s.db.NewDelete().Model((*Model)(nil)).Where("name = ?", s.key).Exec(ctx)
	return err
}
