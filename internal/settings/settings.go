// Package settings persists the player's preferences as a single JSON record.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/renameio/v2"
	"golang.org/x/exp/maps"
)

var ErrInvalidSettings = errors.New("invalid settings")

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
	Expert       Difficulty = "expert"
)

type TimeControl string

const (
	Blitz     TimeControl = "blitz"
	Rapid     TimeControl = "rapid"
	Classical TimeControl = "classical"
	Unlimited TimeControl = "unlimited"
)

type AnimationSpeed string

const (
	Slow   AnimationSpeed = "slow"
	Normal AnimationSpeed = "normal"
	Fast   AnimationSpeed = "fast"
)

var (
	difficulties    = []Difficulty{Beginner, Intermediate, Advanced, Expert}
	timeControls    = []TimeControl{Blitz, Rapid, Classical, Unlimited}
	animationSpeeds = []AnimationSpeed{Slow, Normal, Fast}
)

// Settings is the stored record. ID never changes once written.
type Settings struct {
	ID             int            `json:"Id"`
	Difficulty     Difficulty     `json:"difficulty"`
	TimeControl    TimeControl    `json:"timeControl"`
	PlayerName     string         `json:"playerName"`
	AutoSave       bool           `json:"autoSave"`
	ShowHints      bool           `json:"showHints"`
	AnimationSpeed AnimationSpeed `json:"animationSpeed"`
	UpdatedAt      *time.Time     `json:"updatedAt,omitempty"`
}

func Defaults() Settings {
	return Settings{
		ID:             1,
		Difficulty:     Intermediate,
		TimeControl:    Rapid,
		PlayerName:     "",
		AutoSave:       true,
		ShowHints:      true,
		AnimationSpeed: Normal,
	}
}

func (s Settings) Validate() error {
	if !slices.Contains(difficulties, s.Difficulty) {
		return fmt.Errorf("%w: difficulty %q", ErrInvalidSettings, s.Difficulty)
	}
	if !slices.Contains(timeControls, s.TimeControl) {
		return fmt.Errorf("%w: timeControl %q", ErrInvalidSettings, s.TimeControl)
	}
	if !slices.Contains(animationSpeeds, s.AnimationSpeed) {
		return fmt.Errorf("%w: animationSpeed %q", ErrInvalidSettings, s.AnimationSpeed)
	}
	return nil
}

// Store keeps the record in one file. It is safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

func (s *Store) Path() string { return s.path }

// Get returns the stored record layered over the defaults. A missing file
// yields the defaults; an unreadable or corrupt one is logged and ignored.
func (s *Store) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked()
}

// Update merges patch over the current record, keeps the ID, stamps
// updatedAt and writes the result. Keys outside the record are dropped.
func (s *Store) Update(patch map[string]any) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.getLocked()
	fields, err := toFields(current)
	if err != nil {
		return Settings{}, err
	}
	maps.Copy(fields, patch)

	next, err := fromFields(fields)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	next.ID = current.ID
	if err := next.Validate(); err != nil {
		return Settings{}, err
	}
	return s.writeLocked(next)
}

// Reset writes the defaults back, stamped with the current time.
func (s *Store) Reset() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(Defaults())
}

func (s *Store) getLocked() Settings {
	fields, err := toFields(Defaults())
	if err != nil {
		return Defaults()
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("settings: read %s: %v", s.path, err)
		}
		return Defaults()
	}
	var stored map[string]any
	if err := json.Unmarshal(data, &stored); err != nil {
		log.Printf("settings: ignoring corrupt %s: %v", s.path, err)
		return Defaults()
	}

	merged := maps.Clone(fields)
	maps.Copy(merged, stored)
	out, err := fromFields(merged)
	if err == nil {
		err = out.Validate()
	}
	if err != nil {
		log.Printf("settings: ignoring %s: %v", s.path, err)
		return Defaults()
	}
	return out
}

func (s *Store) writeLocked(next Settings) (Settings, error) {
	now := s.now().UTC()
	next.UpdatedAt = &now
	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return Settings{}, err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return Settings{}, fmt.Errorf("save settings: %w", err)
	}
	if err := renameio.WriteFile(s.path, data, 0o644); err != nil {
		return Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return next, nil
}

func toFields(v Settings) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func fromFields(fields map[string]any) (Settings, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return Settings{}, err
	}
	var out Settings
	if err := json.Unmarshal(data, &out); err != nil {
		return Settings{}, err
	}
	return out, nil
}
