// Package sqlite provides a SQLite-backed avatar profile store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/controlkit/internal/platform/assets/gravatar"
	sqlitemigrate "github.com/louisbranch/controlkit/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/controlkit/internal/services/controls/storage"
	"github.com/louisbranch/controlkit/internal/services/controls/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const profileColumns = `profile_id, email, size, default_image,
		        default_image_behavior, rating, created_at, updated_at`

// Store persists avatar profiles in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite profile store and applies embedded migrations.
func Open(path string) (*Store, error) {
	return OpenContext(context.Background(), path)
}

// OpenContext is Open with a context bounding the migration run.
func OpenContext(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutProfile inserts or replaces one profile. CreatedAt is kept from the
// first write; UpdatedAt is set to the current time unless provided.
func (s *Store) PutProfile(ctx context.Context, profile storage.AvatarProfile) (storage.AvatarProfile, error) {
	if err := ctx.Err(); err != nil {
		return storage.AvatarProfile{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.AvatarProfile{}, fmt.Errorf("storage is not configured")
	}
	profile = profile.Normalize()
	if err := profile.Validate(); err != nil {
		return storage.AvatarProfile{}, err
	}

	updatedAt := profile.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = s.now().UTC()
	}
	createdAt := profile.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = updatedAt
	}

	var size sql.NullInt64
	if profile.Size != nil {
		size = sql.NullInt64{Int64: int64(*profile.Size), Valid: true}
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`INSERT INTO avatar_profiles (
		   profile_id,
		   email,
		   size,
		   default_image,
		   default_image_behavior,
		   rating,
		   created_at,
		   updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(profile_id) DO UPDATE SET
		   email = excluded.email,
		   size = excluded.size,
		   default_image = excluded.default_image,
		   default_image_behavior = excluded.default_image_behavior,
		   rating = excluded.rating,
		   updated_at = excluded.updated_at
		 RETURNING `+profileColumns,
		profile.ProfileID,
		profile.Email,
		size,
		profile.DefaultImage,
		int(profile.DefaultImageBehavior),
		int(profile.Rating),
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	stored, err := scanProfile(row)
	if err != nil {
		if isCheckViolation(err) {
			return storage.AvatarProfile{}, storage.ErrSizeOutOfRange
		}
		return storage.AvatarProfile{}, fmt.Errorf("put avatar profile: %w", err)
	}
	return stored, nil
}

// GetProfile returns one profile by id.
func (s *Store) GetProfile(ctx context.Context, profileID string) (storage.AvatarProfile, error) {
	if err := ctx.Err(); err != nil {
		return storage.AvatarProfile{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.AvatarProfile{}, fmt.Errorf("storage is not configured")
	}
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return storage.AvatarProfile{}, storage.ErrProfileIDRequired
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+profileColumns+`
		   FROM avatar_profiles
		  WHERE profile_id = ?`,
		profileID,
	)
	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.AvatarProfile{}, storage.ErrNotFound
		}
		return storage.AvatarProfile{}, fmt.Errorf("get avatar profile: %w", err)
	}
	return profile, nil
}

// DeleteProfile removes one profile by id.
func (s *Store) DeleteProfile(ctx context.Context, profileID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return storage.ErrProfileIDRequired
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM avatar_profiles WHERE profile_id = ?`, profileID)
	if err != nil {
		return fmt.Errorf("delete avatar profile: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete avatar profile: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListProfiles returns one page of profiles ordered by id.
func (s *Store) ListProfiles(ctx context.Context, pageSize int, pageToken string) (storage.AvatarProfilePage, error) {
	if err := ctx.Err(); err != nil {
		return storage.AvatarProfilePage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.AvatarProfilePage{}, fmt.Errorf("storage is not configured")
	}
	if pageSize <= 0 {
		return storage.AvatarProfilePage{}, fmt.Errorf("page size must be greater than zero")
	}
	pageToken = strings.TrimSpace(pageToken)

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+profileColumns+`
		   FROM avatar_profiles
		  WHERE profile_id > ?
		  ORDER BY profile_id ASC
		  LIMIT ?`,
		pageToken,
		pageSize+1,
	)
	if err != nil {
		return storage.AvatarProfilePage{}, fmt.Errorf("list avatar profiles: %w", err)
	}
	defer rows.Close()

	page := storage.AvatarProfilePage{
		Profiles: make([]storage.AvatarProfile, 0, pageSize),
	}
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return storage.AvatarProfilePage{}, fmt.Errorf("list avatar profiles: %w", err)
		}
		page.Profiles = append(page.Profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return storage.AvatarProfilePage{}, fmt.Errorf("list avatar profiles: %w", err)
	}
	if len(page.Profiles) > pageSize {
		page.NextPageToken = page.Profiles[pageSize-1].ProfileID
		page.Profiles = page.Profiles[:pageSize]
	}
	return page, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (storage.AvatarProfile, error) {
	var (
		profile   storage.AvatarProfile
		size      sql.NullInt64
		behavior  int
		rating    int
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(
		&profile.ProfileID,
		&profile.Email,
		&size,
		&profile.DefaultImage,
		&behavior,
		&rating,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.AvatarProfile{}, err
	}
	if size.Valid {
		profile.Size = gravatar.SizePtr(int(size.Int64))
	}
	profile.DefaultImageBehavior = gravatar.DefaultImageBehavior(behavior)
	profile.Rating = gravatar.Rating(rating)
	profile.CreatedAt = fromMillis(createdAt)
	profile.UpdatedAt = fromMillis(updatedAt)
	return profile, nil
}

func isCheckViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_CHECK
	}
	return false
}

var _ storage.ProfileStore = (*Store)(nil)
