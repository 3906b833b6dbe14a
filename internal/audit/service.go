// Package audit records user-visible mutations of the exchange.
package audit

import (
	"context"
	"log"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/mrlokans/bookexchange/internal/database/audit"
	"github.com/mrlokans/bookexchange/internal/entities"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Origin describes who triggered an event and from where.
type Origin struct {
	UserID    uint
	IPAddress string
	RequestID string
}

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
	wg   sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.LogEvent(context.Background(), event); err != nil {
			log.Printf("[AUDIT] Failed to log event %s: %v", event.Action, err)
		}
	}()
}

// Wait blocks until every pending LogAsync write has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// LogBook records a book mutation such as "book_create" or "book_delete".
func (s *Service) LogBook(origin Origin, action string, book *entities.Book) {
	genres := make([]string, 0, len(book.Genres))
	for _, g := range book.Genres {
		genres = append(genres, g.Name)
	}

	event := newEvent(origin, entities.AuditEventBook, action, "book", book.ID)
	event.Description = truncate(describeAction(action)+": "+book.Title, 500)
	event.Metadata = encodeMetadata(map[string]any{
		"title":     book.Title,
		"available": book.Available,
		"genres":    genres,
	})

	s.LogAsync(event)
}

// LogInterest records an interest mutation such as "interest_create".
func (s *Service) LogInterest(origin Origin, action string, interest *entities.BookInterest) {
	event := newEvent(origin, entities.AuditEventInterest, action, "book_interest", interest.ID)
	event.Description = describeAction(action)
	event.Metadata = encodeMetadata(map[string]any{
		"book_id":            interest.BookID,
		"interested_user_id": interest.InterestedUserID,
		"chosen_by_owner":    interest.ChosenByOwner,
	})

	s.LogAsync(event)
}

// LogAuth records an authentication event.
func (s *Service) LogAuth(origin Origin, action string, success bool) {
	event := newEvent(origin, entities.AuditEventAuth, action, "user", origin.UserID)
	event.Description = describeAction(action)
	if !success {
		event.Status = entities.AuditStatusFailed
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, userID uint, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, userID, eventType, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

func newEvent(origin Origin, eventType entities.AuditEventType, action, entityType string, entityID uint) *entities.AuditEvent {
	event := &entities.AuditEvent{
		UserID:     origin.UserID,
		EventType:  eventType,
		Action:     action,
		EntityType: entityType,
		IPAddress:  origin.IPAddress,
		RequestID:  origin.RequestID,
		Status:     entities.AuditStatusSuccess,
	}
	if entityID > 0 {
		event.EntityID = &entityID
	}
	return event
}

var actionDescriptions = map[string]string{
	ActionBookCreate:      "Listed book",
	ActionBookUpdate:      "Updated book",
	ActionBookDelete:      "Deleted book",
	ActionInterestCreate:  "Expressed interest in a book",
	ActionInterestChoose:  "Chose a recipient",
	ActionUserRegister:    "Registered account",
	ActionTokenIssue:      "Issued API token",
	ActionTokenRevoke:     "Revoked API token",
	ActionSessionLogin:    "Logged in",
	ActionSessionLogout:   "Logged out",
	ActionSessionLoginErr: "Failed login",
}

func describeAction(action string) string {
	if d, ok := actionDescriptions[action]; ok {
		return d
	}
	return action
}

func encodeMetadata(data map[string]any) string {
	b, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return string(b)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
