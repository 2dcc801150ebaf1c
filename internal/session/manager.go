// Package session persists chat transcripts so a conversation can be resumed.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/billie-coop/genomechat/internal/chat"
)

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("session not found")

const defaultTitle = "New Chat"

// Session represents a saved chat.
type Session struct {
	Created     time.Time      `json:"created"`
	LastUpdated time.Time      `json:"last_updated"`
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Messages    []chat.Message `json:"messages"`
}

// Manager stores sessions as JSON files, one per session.
type Manager struct {
	sessionsPath string
	now          func() time.Time
}

// NewManager creates a manager rooted at dataDir (normally .gfm).
func NewManager(dataDir string) *Manager {
	return &Manager{
		sessionsPath: filepath.Join(dataDir, "sessions"),
		now:          time.Now,
	}
}

// Initialize creates the sessions directory.
func (m *Manager) Initialize() error {
	if err := os.MkdirAll(m.sessionsPath, 0o755); err != nil {
		return fmt.Errorf("failed to create sessions directory: %w", err)
	}
	return nil
}

// NewSession creates an unsaved session with a fresh ID.
func (m *Manager) NewSession() *Session {
	now := m.now()
	return &Session{
		ID:          uuid.NewString(),
		Title:       defaultTitle,
		Messages:    []chat.Message{},
		Created:     now,
		LastUpdated: now,
	}
}

// Save replaces the session's messages and writes it to disk.
func (m *Manager) Save(s *Session, messages []chat.Message) error {
	s.Messages = messages
	s.LastUpdated = m.now()

	if s.Title == defaultTitle {
		for _, msg := range messages {
			if msg.Role == chat.RoleUser {
				s.Title = generateTitle(msg.Content)
				break
			}
		}
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", s.ID, err)
	}
	if err := os.WriteFile(m.path(s.ID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write session %s: %w", s.ID, err)
	}
	return nil
}

// Load reads a session by ID. "last" selects the most recently updated one.
func (m *Manager) Load(id string) (*Session, error) {
	if id == "last" {
		sessions, err := m.List()
		if err != nil {
			return nil, err
		}
		if len(sessions) == 0 {
			return nil, ErrNotFound
		}
		return sessions[0], nil
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid session id %q: %w", id, err)
	}

	data, err := os.ReadFile(m.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", id, err)
	}
	return &s, nil
}

// List returns all sessions sorted by last updated, newest first.
// Unreadable files are skipped.
func (m *Manager) List() ([]*Session, error) {
	entries, err := os.ReadDir(m.sessionsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil // No sessions yet
		}
		return nil, err
	}

	sessions := make([]*Session, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(m.sessionsPath, entry.Name()))
		if err != nil {
			continue
		}

		var s Session
		if err := json.Unmarshal(data, &s); err != nil {
			continue
		}
		sessions = append(sessions, &s)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LastUpdated.After(sessions[j].LastUpdated)
	})
	return sessions, nil
}

func (m *Manager) path(id string) string {
	return filepath.Join(m.sessionsPath, id+".json")
}

func generateTitle(firstMessage string) string {
	title := strings.ReplaceAll(strings.TrimSpace(firstMessage), "\n", " ")
	if r := []rune(title); len(r) > 50 {
		title = string(r[:47]) + "..."
	}
	return title
}
