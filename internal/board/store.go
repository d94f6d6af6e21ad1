// Package board implements the workspace's kanban task board: cards moving
// between todo, in-progress and done columns, with a change feed for
// connected clients.
package board

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CardStatus is the board column a card sits in.
type CardStatus string

const (
	StatusTodo       CardStatus = "todo"
	StatusInProgress CardStatus = "in-progress"
	StatusDone       CardStatus = "done"
)

// ValidStatus reports whether s names a board column.
func ValidStatus(s CardStatus) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// Card is one board entry.
type Card struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      CardStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Change describes a board mutation for change listeners.
type Change string

const (
	ChangeAdded   Change = "added"
	ChangeUpdated Change = "updated"
	ChangeDeleted Change = "deleted"
)

// Patch holds optional card field updates.
type Patch struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Status      *CardStatus `json:"status"`
}

// Store is the in-memory board state. Safe for concurrent use. Mutations
// invoke the change listener with a snapshot, outside the lock.
type Store struct {
	mu       sync.RWMutex
	cards    map[string]*Card
	onChange func(Change, Card)
	now      func() time.Time
}

// NewStore creates an empty board.
func NewStore() *Store {
	return &Store{
		cards: make(map[string]*Card),
		now:   time.Now,
	}
}

// OnChange installs the change listener. It must not block.
func (s *Store) OnChange(fn func(Change, Card)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *Store) notify(change Change, snapshot Card) {
	s.mu.RLock()
	fn := s.onChange
	s.mu.RUnlock()
	if fn != nil {
		fn(change, snapshot)
	}
}

// Add creates a card in the given column and returns a snapshot.
func (s *Store) Add(title, description string, status CardStatus) (Card, error) {
	if title == "" {
		return Card{}, fmt.Errorf("card title cannot be empty")
	}
	if !ValidStatus(status) {
		return Card{}, fmt.Errorf("invalid card status: %q", status)
	}

	now := s.now()
	c := &Card{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.cards[c.ID] = c
	snapshot := *c
	s.mu.Unlock()

	s.notify(ChangeAdded, snapshot)
	return snapshot, nil
}

// Update applies a patch to a card and returns the new snapshot.
func (s *Store) Update(cardID string, patch Patch) (Card, error) {
	if patch.Status != nil && !ValidStatus(*patch.Status) {
		return Card{}, fmt.Errorf("invalid card status: %q", *patch.Status)
	}

	s.mu.Lock()
	c, exists := s.cards[cardID]
	if !exists {
		s.mu.Unlock()
		return Card{}, fmt.Errorf("card not found: %s", cardID)
	}
	if patch.Title != nil {
		c.Title = *patch.Title
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	c.UpdatedAt = s.now()
	snapshot := *c
	s.mu.Unlock()

	s.notify(ChangeUpdated, snapshot)
	return snapshot, nil
}

// Move changes a card's column, optionally patching other fields in the same
// mutation.
func (s *Store) Move(cardID string, status CardStatus, patch Patch) (Card, error) {
	patch.Status = &status
	return s.Update(cardID, patch)
}

// Delete removes a card.
func (s *Store) Delete(cardID string) error {
	s.mu.Lock()
	c, exists := s.cards[cardID]
	if !exists {
		s.mu.Unlock()
		return fmt.Errorf("card not found: %s", cardID)
	}
	snapshot := *c
	delete(s.cards, cardID)
	s.mu.Unlock()

	s.notify(ChangeDeleted, snapshot)
	return nil
}

// Get returns a snapshot of one card.
func (s *Store) Get(cardID string) (Card, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, exists := s.cards[cardID]
	if !exists {
		return Card{}, false
	}
	return *c, true
}

// List returns snapshots of all cards, newest first.
func (s *Store) List() []Card {
	s.mu.RLock()
	cards := make([]Card, 0, len(s.cards))
	for _, c := range s.cards {
		cards = append(cards, *c)
	}
	s.mu.RUnlock()

	sort.Slice(cards, func(i, j int) bool {
		return cards[i].CreatedAt.After(cards[j].CreatedAt)
	})
	return cards
}
