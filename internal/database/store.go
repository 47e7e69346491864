// Package database persists the JSON document holding all users and workouts.
package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/isdelr/fittrack-be/internal/models"
	"github.com/rs/zerolog/log"
)

// ErrCorruptDocument is returned when the document file exists but cannot be read or parsed.
var ErrCorruptDocument = errors.New("document store is corrupt or unreadable")

// Options tune store behaviour.
type Options struct {
	// FailOpen makes Load return an empty document instead of ErrCorruptDocument.
	FailOpen bool
}

// Stats summarizes the persisted document.
type Stats struct {
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Users    int    `json:"users"`
	Workouts int    `json:"workouts"`
}

// Store owns the document file. All load-mutate-save sequences go through
// Update, which holds a single mutex for the whole cycle.
type Store struct {
	path     string
	failOpen bool
	mu       sync.Mutex
}

// New creates a store for the document at path. Call Initialize before use.
func New(path string, opts Options) *Store {
	return &Store{path: path, failOpen: opts.FailOpen}
}

// Path returns the document file location.
func (s *Store) Path() string {
	return s.path
}

// Initialize creates an empty document if none exists yet. Safe to call on every start.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat document: %w", err)
	}

	log.Info().Str("path", s.path).Msg("Creating empty document store")
	return s.save(models.NewDocument())
}

// Load returns a fresh copy of the persisted document.
func (s *Store) Load() (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save replaces the persisted document.
func (s *Store) Save(doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(doc)
}

// View loads the document and passes it to fn. Changes made by fn are discarded.
func (s *Store) View(fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	return fn(doc)
}

// Update loads the document, lets fn mutate it and saves the result.
// Nothing is written when fn returns an error.
func (s *Store) Update(fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(doc)
}

// Snapshot returns the raw bytes of the persisted document.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return encode(models.NewDocument())
	}
	return data, err
}

// Stats reports file size and collection counts.
func (s *Store) Stats() (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{Path: s.path}
	if fi, err := os.Stat(s.path); err == nil {
		st.Size = fi.Size()
	}
	doc, err := s.load()
	if err != nil {
		return st, err
	}
	st.Users = len(doc.Users)
	st.Workouts = len(doc.Workouts)
	return st, nil
}

func (s *Store) load() (*models.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.NewDocument(), nil
		}
		return s.corrupt(err)
	}

	doc := &models.Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return s.corrupt(err)
	}
	doc.Normalize()
	return doc, nil
}

func (s *Store) corrupt(cause error) (*models.Document, error) {
	if s.failOpen {
		log.Warn().Err(cause).Str("path", s.path).Msg("Document unreadable, continuing with an empty document")
		return models.NewDocument(), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, cause)
}

// save writes to a temp file in the same directory and renames it over the
// document so readers never observe a partial write.
func (s *Store) save(doc *models.Document) error {
	doc.Normalize()
	data, err := encode(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close document: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace document: %w", err)
	}
	return nil
}

func encode(doc *models.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses raw document bytes, e.g. from a backup archive.
func Decode(data []byte) (*models.Document, error) {
	doc := &models.Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	doc.Normalize()
	return doc, nil
}
