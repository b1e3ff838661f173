// Package saves stores game snapshots as JSON files, one per slot.
package saves

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/renameio/v2"
	"github.com/google/uuid"

	"knights_gambit/internal/game"
)

// AutosaveID names the single slot that Autosave overwrites.
const AutosaveID = "autosave"

const fileExt = ".json"

var ErrSlotNotFound = errors.New("save slot not found")

// Slot describes a stored snapshot without its board.
type Slot struct {
	ID            string      `json:"id"`
	SavedAt       time.Time   `json:"savedAt"`
	Autosave      bool        `json:"autosave"`
	CurrentPlayer game.Color  `json:"currentPlayer"`
	Moves         int         `json:"moves"`
	GameOver      bool        `json:"gameOver"`
	Winner        game.Winner `json:"winner"`
}

func slotOf(id string, snap game.Snapshot) Slot {
	return Slot{
		ID:            id,
		SavedAt:       snap.Timestamp,
		Autosave:      id == AutosaveID,
		CurrentPlayer: snap.CurrentPlayer,
		Moves:         len(snap.MoveHistory),
		GameOver:      snap.GameOver,
		Winner:        snap.Winner,
	}
}

// Store manages a directory of slots. It is safe for concurrent use.
type Store struct {
	mu  sync.RWMutex
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create saves dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes snap to a fresh slot.
func (s *Store) Save(snap game.Snapshot) (Slot, error) {
	return s.write(uuid.NewString(), snap)
}

// Autosave overwrites the autosave slot.
func (s *Store) Autosave(snap game.Snapshot) (Slot, error) {
	return s.write(AutosaveID, snap)
}

func (s *Store) Load(id string) (game.Snapshot, error) {
	path, err := s.pathOf(id)
	if err != nil {
		return game.Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return readSnapshot(path)
}

func (s *Store) LoadAutosave() (game.Snapshot, error) { return s.Load(AutosaveID) }

// List returns every readable slot, newest first. Unreadable files are
// logged and skipped.
func (s *Store) List() ([]Slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	slots := make([]Slot, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		id := strings.TrimSuffix(name, fileExt)
		if !validID(id) {
			continue
		}
		snap, err := readSnapshot(filepath.Join(s.dir, name))
		if err != nil {
			log.Printf("saves: skipping %s: %v", name, err)
			continue
		}
		slots = append(slots, slotOf(id, snap))
	}
	slices.SortFunc(slots, func(a, b Slot) int {
		if c := b.SavedAt.Compare(a.SavedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return slots, nil
}

func (s *Store) Delete(id string) error {
	path, err := s.pathOf(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSlotNotFound, id)
		}
		return err
	}
	return nil
}

func (s *Store) write(id string, snap game.Snapshot) (Slot, error) {
	if err := snap.Validate(); err != nil {
		return Slot{}, err
	}
	var buf bytes.Buffer
	if err := game.EncodeSnapshot(&buf, snap); err != nil {
		return Slot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := renameio.WriteFile(filepath.Join(s.dir, id+fileExt), buf.Bytes(), 0o644); err != nil {
		return Slot{}, fmt.Errorf("write slot %s: %w", id, err)
	}
	return slotOf(id, snap), nil
}

// pathOf maps an id to its file. Anything other than the autosave name or a
// uuid is reported as not found, which also keeps ids out of other directories.
func (s *Store) pathOf(id string) (string, error) {
	if !validID(id) {
		return "", fmt.Errorf("%w: %s", ErrSlotNotFound, id)
	}
	return filepath.Join(s.dir, id+fileExt), nil
}

func validID(id string) bool {
	if id == AutosaveID {
		return true
	}
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.String() == id
}

func readSnapshot(path string) (game.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return game.Snapshot{}, fmt.Errorf("%w: %s", ErrSlotNotFound, strings.TrimSuffix(filepath.Base(path), fileExt))
		}
		return game.Snapshot{}, err
	}
	defer f.Close()
	return game.DecodeSnapshot(f)
}
