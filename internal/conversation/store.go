package conversation

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/wolfman30/naturesvirtue-bot/internal/language"
)

// DefaultMaxMessages is the number of turns kept per sender.
const DefaultMaxMessages = 10

// ErrNotFound is returned when a sender has no conversation.
var ErrNotFound = errors.New("conversation: not found")

type state struct {
	history   []ChatMessage
	language  language.Tag
	startTime time.Time
}

// Conversation is a read-only copy of one sender's state.
type Conversation struct {
	SenderID  string
	History   []ChatMessage
	Language  language.Tag
	StartTime time.Time
}

// Summary is the per-sender row returned by SnapshotAll.
type Summary struct {
	Phone        string       `json:"phone"`
	Language     language.Tag `json:"language"`
	MessageCount int          `json:"messageCount"`
	StartTime    time.Time    `json:"startTime"`
	LastMessage  *ChatMessage `json:"lastMessage,omitempty"`
}

// Store keeps bounded, volatile conversation history per sender. It is safe
// for concurrent use; Acquire serializes whole read-modify-write sequences
// for one sender without blocking other senders.
type Store struct {
	mu          sync.RWMutex
	states      map[string]*state
	maxMessages int
	now         func() time.Time
	senders     keyedMutex
}

// NewStore creates a store keeping at most maxMessages turns per sender.
func NewStore(maxMessages int) *Store {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	return &Store{
		states:      make(map[string]*state),
		maxMessages: maxMessages,
		now:         time.Now,
		senders:     keyedMutex{locks: make(map[string]*refLock)},
	}
}

// WithClock overrides the time source used for start timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	if now != nil {
		s.now = now
	}
	return s
}

// Acquire blocks until the caller holds the sequencing lock for senderID.
// The returned func releases it and must be called exactly once.
func (s *Store) Acquire(senderID string) (release func()) {
	return s.senders.lock(senderID)
}

// GetOrCreate returns the sender's conversation, creating an empty English
// one on first contact.
func (s *Store) GetOrCreate(senderID string) Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.getOrCreateLocked(senderID)
	return st.copyOut(senderID)
}

// History returns a copy of the sender's turns, oldest first.
func (s *Store) History(senderID string) []ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[senderID]
	if !ok || len(st.history) == 0 {
		return nil
	}
	out := make([]ChatMessage, len(st.history))
	copy(out, st.history)
	return out
}

// Append adds a turn and drops the oldest turns beyond the bound.
func (s *Store) Append(senderID, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.getOrCreateLocked(senderID)
	st.history = append(st.history, ChatMessage{Role: role, Content: content})
	if over := len(st.history) - s.maxMessages; over > 0 {
		kept := make([]ChatMessage, s.maxMessages)
		copy(kept, st.history[over:])
		st.history = kept
	}
}

// SetLanguage overwrites the sender's language. Unsupported tags are stored as English.
func (s *Store) SetLanguage(senderID string, tag language.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreateLocked(senderID).language = tag.OrDefault()
}

// Language returns the sender's stored language, or English when unknown.
func (s *Store) Language(senderID string) language.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.states[senderID]; ok {
		return st.language
	}
	return language.English
}

// Remove deletes the sender's state and reports whether it existed. It waits
// for the sender's sequencing lock, so an event in flight finishes first.
// Callers holding Acquire for senderID must not call it.
func (s *Store) Remove(senderID string) bool {
	release := s.senders.lock(senderID)
	defer release()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.states[senderID]; !ok {
		return false
	}
	delete(s.states, senderID)
	return true
}

// Delete is Remove with ErrNotFound for unknown senders.
func (s *Store) Delete(senderID string) error {
	if !s.Remove(senderID) {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of active conversations.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

// SnapshotAll lists every conversation ordered by start time.
func (s *Store) SnapshotAll() []Summary {
	s.mu.RLock()
	out := make([]Summary, 0, len(s.states))
	for id, st := range s.states {
		sum := Summary{
			Phone:        id,
			Language:     st.language,
			MessageCount: len(st.history),
			StartTime:    st.startTime,
		}
		if n := len(st.history); n > 0 {
			last := st.history[n-1]
			sum.LastMessage = &last
		}
		out = append(out, sum)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].Phone < out[j].Phone
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

// Reset drops every conversation.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = make(map[string]*state)
}

func (s *Store) getOrCreateLocked(senderID string) *state {
	st, ok := s.states[senderID]
	if !ok {
		st = &state{
			language:  language.English,
			startTime: s.now(),
		}
		s.states[senderID] = st
	}
	return st
}

func (st *state) copyOut(senderID string) Conversation {
	c := Conversation{
		SenderID:  senderID,
		Language:  st.language,
		StartTime: st.startTime,
	}
	if len(st.history) > 0 {
		c.History = make([]ChatMessage, len(st.history))
		copy(c.History, st.history)
	}
	return c
}

// keyedMutex hands out one mutex per key and forgets keys nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()
			k.mu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(k.locks, key)
			}
			k.mu.Unlock()
		})
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
