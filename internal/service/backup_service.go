package service

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"sort"
	"time"

	"github.com/ray/bizdesk/internal/api/metrics"
	"github.com/ray/bizdesk/internal/domain"
	"gorm.io/gorm"
)

// backupNamePattern guards the download path against traversal: only names
// this service itself generates are served back.
var backupNamePattern = regexp.MustCompile(`^backup-\d{8}-\d{6}\.zip$`)

// BackupService dumps every entity table as a JSON file inside a zip
// archive on local disk.
type BackupService struct {
	db  *gorm.DB
	dir string
}

func NewBackupService(db *gorm.DB, dir string) *BackupService {
	return &BackupService{db: db, dir: dir}
}

type BackupInfo struct {
	Name      string         `json:"name"`
	Size      int64          `json:"size"`
	CreatedAt time.Time      `json:"createdAt"`
	Counts    map[string]int `json:"counts,omitempty"`
}

// Create writes a new archive and returns its metadata, including a
// per-entity row count.
func (s *BackupService) Create(ctx context.Context) (*BackupInfo, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, err
	}

	name := fmt.Sprintf("backup-%s.zip", time.Now().Format("20060102-150405"))
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	counts := make(map[string]int)

	dump := func(entity string, slice any) error {
		if err := s.db.WithContext(ctx).Find(slice).Error; err != nil {
			return err
		}
		data, err := json.MarshalIndent(slice, "", "  ")
		if err != nil {
			return err
		}
		w, err := zw.Create(entity + ".json")
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		counts[entity] = sliceLen(slice)
		return nil
	}

	var (
		users        []domain.User
		customers    []domain.Customer
		products     []domain.Product
		appointments []domain.Appointment
		invoices     []domain.Invoice
		promotions   []domain.Promotion
		settings     []domain.Setting
	)

	steps := []struct {
		entity string
		slice  any
	}{
		{"users", &users},
		{"customers", &customers},
		{"products", &products},
		{"appointments", &appointments},
		{"invoices", &invoices},
		{"promotions", &promotions},
		{"settings", &settings},
	}

	for _, step := range steps {
		if err := dump(step.entity, step.slice); err != nil {
			zw.Close()
			os.Remove(path)
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		os.Remove(path)
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	metrics.BackupsCreatedTotal.Inc()

	return &BackupInfo{
		Name:      name,
		Size:      stat.Size(),
		CreatedAt: stat.ModTime(),
		Counts:    counts,
	}, nil
}

// List returns existing archives, newest first.
func (s *BackupService) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, err
	}

	backups := make([]BackupInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !backupNamePattern.MatchString(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Name:      entry.Name(),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Open returns a reader over an existing archive. Names that this service
// did not generate are rejected.
func (s *BackupService) Open(name string) (*os.File, error) {
	if !backupNamePattern.MatchString(name) {
		return nil, domain.ErrNotFound
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func sliceLen(slice any) int {
	return reflect.ValueOf(slice).Elem().Len()
}
