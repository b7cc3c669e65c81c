package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/pipeline"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/registry"
)

// ErrNotFound is returned when the requested analysis does not exist
var ErrNotFound = errors.New("analysis not found")

// DefaultListLimit bounds the analyses listing
const DefaultListLimit = 50

// Store interface defines methods for analysis and session persistence
type Store interface {
	InsertAnalysis(ctx context.Context, result *pipeline.Result) error
	ListAnalyses(ctx context.Context, limit int) ([]*pipeline.Result, error)
	GetAnalysis(ctx context.Context, id string) (*pipeline.Result, error)
	UpsertSessionDoc(ctx context.Context, sessionID, url, hostname string) error
	AppendSessionEvent(ctx context.Context, sessionID string, event registry.Event) error
	Close() error
}

// MySqlStore handles persistence using GORM
type MySqlStore struct {
	db *gorm.DB
}

// NewMySqlStore creates a new store with GORM connection
func NewMySqlStore(databaseURL string) (*MySqlStore, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &MySqlStore{db: db}

	// Auto-migrate tables
	if err := db.AutoMigrate(&Analysis{}, &SessionDoc{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	return store, nil
}

// InsertAnalysis persists a finished analysis result
func (s *MySqlStore) InsertAnalysis(ctx context.Context, result *pipeline.Result) error {
	record := fromResult(result)

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}

	return nil
}

// ListAnalyses retrieves the most recent analyses, newest first
func (s *MySqlStore) ListAnalyses(ctx context.Context, limit int) ([]*pipeline.Result, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var records []Analysis
	err := s.db.WithContext(ctx).Order("timestamp DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}

	results := make([]*pipeline.Result, 0, len(records))
	for i := range records {
		results = append(results, toResult(&records[i]))
	}

	return results, nil
}

// GetAnalysis retrieves one analysis by id
func (s *MySqlStore) GetAnalysis(ctx context.Context, id string) (*pipeline.Result, error) {
	var record Analysis
	err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	return toResult(&record), nil
}

// UpsertSessionDoc creates the session document if it does not exist yet.
// The insert resolves conflicts in one statement, so two concurrent
// first-contact calls for the same session both succeed.
func (s *MySqlStore) UpsertSessionDoc(ctx context.Context, sessionID, url, hostname string) error {
	doc := SessionDoc{
		SessionID: sessionID,
		URL:       url,
		Hostname:  hostname,
		StartTime: time.Now().UTC(),
		Events:    EventList{},
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("failed to upsert session doc: %w", err)
	}
	return nil
}

// AppendSessionEvent appends one event to the session document with push
// semantics: prior events are never replaced. The document row is locked for
// the read so concurrent appends serialize instead of overwriting each other.
func (s *MySqlStore) AppendSessionEvent(ctx context.Context, sessionID string, event registry.Event) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc SessionDoc
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&doc, "session_id = ?", sessionID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load session doc: %w", err)
		}

		doc.Events = append(doc.Events, event)
		doc.UpdatedAt = time.Now().UTC()

		if err := tx.Save(&doc).Error; err != nil {
			return fmt.Errorf("failed to append session event: %w", err)
		}
		return nil
	})
}

// GetDB returns the underlying GORM database connection
func (s *MySqlStore) GetDB() *gorm.DB {
	return s.db
}

// Close closes the database connection
func (s *MySqlStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	return sqlDB.Close()
}
