package services

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/isdelr/fittrack-be/internal/database"
	"github.com/isdelr/fittrack-be/internal/models"
	"github.com/rs/zerolog/log"
)

const (
	backupPrefix = "fittrack_"
	backupSuffix = ".zip"
	// maxBackupEntrySize bounds how much of an archived document is read on restore.
	maxBackupEntrySize = 256 << 20
)

// BackupServiceProvider defines the interface for backup services.
type BackupServiceProvider interface {
	CreateBackup(ctx context.Context) (models.Backup, error)
	ListBackups(ctx context.Context) ([]models.Backup, error)
	PruneBackups(ctx context.Context, retain int) (int, error)
	RestoreBackup(ctx context.Context, name string) error
}

// BackupService snapshots the document store into zip archives.
type BackupService struct {
	store      *database.Store
	backupPath string
	now        func() time.Time
}

// NewBackupService creates a new BackupService. The backup directory is created if missing.
func NewBackupService(store *database.Store, backupPath string) (*BackupService, error) {
	if err := os.MkdirAll(backupPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	return &BackupService{
		store:      store,
		backupPath: backupPath,
		now:        time.Now,
	}, nil
}

// CreateBackup writes the current document into a new zip archive.
func (s *BackupService) CreateBackup(ctx context.Context) (models.Backup, error) {
	data, err := s.store.Snapshot()
	if err != nil {
		return models.Backup{}, fmt.Errorf("could not read document: %w", err)
	}
	if _, err := database.Decode(data); err != nil {
		return models.Backup{}, err
	}

	name := backupPrefix + s.now().UTC().Format("20060102150405.000000") + backupSuffix
	backup := models.Backup{
		Name: name,
		Path: filepath.Join(s.backupPath, name),
	}

	if err := writeArchive(backup.Path, filepath.Base(s.store.Path()), data); err != nil {
		os.Remove(backup.Path) // Clean up partial file
		return models.Backup{}, err
	}

	fi, err := os.Stat(backup.Path)
	if err != nil {
		return models.Backup{}, fmt.Errorf("could not get backup file info: %w", err)
	}
	backup.Size = fi.Size()
	backup.CreatedAt = fi.ModTime().UTC()

	log.Ctx(ctx).Info().Str("backup", backup.Name).Int64("size", backup.Size).Msg("Backup created")
	return backup, nil
}

func writeArchive(path, entryName string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create backup file: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create(entryName)
	if err != nil {
		return fmt.Errorf("could not add document to archive: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("could not write document to archive: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("could not finalize archive: %w", err)
	}
	return f.Close()
}

// ListBackups returns all backups, newest first.
func (s *BackupService) ListBackups(ctx context.Context) ([]models.Backup, error) {
	entries, err := os.ReadDir(s.backupPath)
	if err != nil {
		return nil, fmt.Errorf("could not read backup directory: %w", err)
	}

	backups := []models.Backup{}
	for _, e := range entries {
		if e.IsDir() || !isBackupName(e.Name()) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		backups = append(backups, models.Backup{
			Name:      e.Name(),
			Path:      filepath.Join(s.backupPath, e.Name()),
			Size:      fi.Size(),
			CreatedAt: fi.ModTime().UTC(),
		})
	}

	// Names embed the creation time, so they order the same way as creation.
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Name > backups[j].Name
	})
	return backups, nil
}

// PruneBackups deletes all but the newest retain backups and reports how many were removed.
func (s *BackupService) PruneBackups(ctx context.Context, retain int) (int, error) {
	if retain < 1 {
		return 0, nil
	}
	backups, err := s.ListBackups(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, b := range backups[min(retain, len(backups)):] {
		if err := os.Remove(b.Path); err != nil && !os.IsNotExist(err) {
			log.Ctx(ctx).Warn().Err(err).Str("backup", b.Name).Msg("Could not delete old backup")
			continue
		}
		removed++
	}
	return removed, nil
}

// RestoreBackup replaces the document with the one stored in the named backup.
func (s *BackupService) RestoreBackup(ctx context.Context, name string) error {
	if !isBackupName(name) || filepath.Base(name) != name {
		return fmt.Errorf("%w: backup name", ErrInvalidValue)
	}
	path := filepath.Join(s.backupPath, name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: backup %s", ErrNotFound, name)
		}
		return err
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("failed to open backup archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, ".json") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("failed to open archived document: %w", err)
		}
		data, err := io.ReadAll(io.LimitReader(rc, maxBackupEntrySize))
		rc.Close()
		if err != nil {
			return fmt.Errorf("failed to read archived document: %w", err)
		}

		doc, err := database.Decode(data)
		if err != nil {
			return err
		}
		if err := s.store.Save(doc); err != nil {
			return err
		}
		log.Ctx(ctx).Warn().Str("backup", name).Msg("Document restored from backup")
		return nil
	}
	return fmt.Errorf("%w: archive %s holds no document", ErrInvalidValue, name)
}

func isBackupName(name string) bool {
	return strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, backupSuffix)
}
