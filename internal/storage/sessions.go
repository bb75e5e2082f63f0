package storage

import (
	"sync"

	"github.com/aliskhannn/learnhub/internal/service"
)

// QuizEntry is an active quiz and the chat message that renders it.
type QuizEntry struct {
	Session   *service.QuizSession
	ChatID    int64
	MessageID int
}

// DeckEntry is an active flashcard session and its chat message.
type DeckEntry struct {
	Session   *service.FlashcardSession
	ChatID    int64
	MessageID int
}

// SessionStorage keeps in-memory sessions by user ID. One quiz and one
// flashcard session per user.
type SessionStorage struct {
	mu      sync.RWMutex
	quizzes map[int64]*QuizEntry
	decks   map[int64]*DeckEntry
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		quizzes: make(map[int64]*QuizEntry),
		decks:   make(map[int64]*DeckEntry),
	}
}

// StoreQuiz saves a quiz for userID. A previous quiz is closed.
func (s *SessionStorage) StoreQuiz(userID int64, entry *QuizEntry) {
	s.mu.Lock()
	prev := s.quizzes[userID]
	s.quizzes[userID] = entry
	s.mu.Unlock()

	if prev != nil && prev.Session != entry.Session {
		prev.Session.Close()
	}
}

// GetQuiz retrieves a copy of the quiz entry of a user.
func (s *SessionStorage) GetQuiz(userID int64) (QuizEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.quizzes[userID]
	if !ok {
		return QuizEntry{}, false
	}
	return *e, true
}

// SetQuizMessage records the message that renders the user's quiz.
func (s *SessionStorage) SetQuizMessage(userID int64, messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.quizzes[userID]; ok {
		e.MessageID = messageID
	}
}

// DeleteQuiz removes and closes the quiz of a user.
func (s *SessionStorage) DeleteQuiz(userID int64) {
	s.mu.Lock()
	e := s.quizzes[userID]
	delete(s.quizzes, userID)
	s.mu.Unlock()

	if e != nil {
		e.Session.Close()
	}
}

// StoreDeck saves a flashcard session for userID.
func (s *SessionStorage) StoreDeck(userID int64, entry *DeckEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decks[userID] = entry
}

// GetDeck retrieves a copy of the flashcard entry of a user.
func (s *SessionStorage) GetDeck(userID int64) (DeckEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.decks[userID]
	if !ok {
		return DeckEntry{}, false
	}
	return *e, true
}

// SetDeckMessage records the message that renders the user's deck.
func (s *SessionStorage) SetDeckMessage(userID int64, messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.decks[userID]; ok {
		e.MessageID = messageID
	}
}

// CloseAll stops every running quiz countdown. Used on shutdown.
func (s *SessionStorage) CloseAll() {
	s.mu.Lock()
	entries := make([]*QuizEntry, 0, len(s.quizzes))
	for id, e := range s.quizzes {
		entries = append(entries, e)
		delete(s.quizzes, id)
	}
	s.decks = make(map[int64]*DeckEntry)
	s.mu.Unlock()

	for _, e := range entries {
		e.Session.Close()
	}
}

// Len returns the number of active quiz and flashcard sessions.
func (s *SessionStorage) Len() (quizzes, decks int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.quizzes), len(s.decks)
}
