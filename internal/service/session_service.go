package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Shamsmedhat/her-power-gym-backend/internal/authz"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/domain"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrOnlyComplete         = ValidationError("you can only mark sessions as completed")
	ErrInvalidStatus        = ValidationError("status must be pending, completed, or canceled")
	ErrMissingSessionFields = ValidationError("session client, coach, and date are required")
)

const defaultStatusReason = "Status updated"

// CreateSessionInput is the payload for scheduling a training session.
type CreateSessionInput struct {
	Client string              `json:"client"`
	Coach  string              `json:"coach"`
	Date   time.Time           `json:"date"`
	Status domain.SessionStatus `json:"status,omitempty"`
	Notes  string              `json:"notes,omitempty"`
}

// UpdateSessionInput carries the updatable session fields; nil means
// unchanged. Reason annotates a status change when one happens.
type UpdateSessionInput struct {
	Date   *time.Time            `json:"date,omitempty"`
	Status *domain.SessionStatus `json:"status,omitempty"`
	Notes  *string               `json:"notes,omitempty"`
	Reason string                `json:"reason,omitempty"`
}

type SessionService interface {
	List(ctx context.Context, actor authz.Actor) ([]domain.Session, error)
	Get(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (*domain.Session, error)
	Create(ctx context.Context, actor authz.Actor, input CreateSessionInput) (*domain.Session, error)
	Update(ctx context.Context, actor authz.Actor, id primitive.ObjectID, input UpdateSessionInput) (*domain.Session, error)
	Delete(ctx context.Context, actor authz.Actor, id primitive.ObjectID) error
	UpdateStatus(ctx context.Context, actor authz.Actor, id primitive.ObjectID, status domain.SessionStatus, reason string) (*domain.Session, error)
	ByClient(ctx context.Context, actor authz.Actor, clientID primitive.ObjectID) ([]domain.Session, error)
}

// sessionService implements the SessionService interface.
type sessionService struct {
	sessionRepo repository.SessionRepository
	clientRepo  repository.ClientRepository
	userRepo    repository.UserRepository
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(sessionRepo repository.SessionRepository, clientRepo repository.ClientRepository, userRepo repository.UserRepository) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		clientRepo:  clientRepo,
		userRepo:    userRepo,
	}
}

// List returns sessions visible to the actor: everything for admins, own
// sessions for coaches.
func (s *sessionService) List(ctx context.Context, actor authz.Actor) ([]domain.Session, error) {
	if err := authz.Authorize(actor, authz.SessionList, authz.Target{}); err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleCoach {
		return s.sessionRepo.GetByCoachID(ctx, actor.ID)
	}
	return s.sessionRepo.GetAll(ctx)
}

// Get returns one session for its coach, its client, or an admin.
func (s *sessionService) Get(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	target := authz.Target{CoachID: session.CoachID, ClientID: session.ClientID}
	if err := authz.Authorize(actor, authz.SessionRead, target); err != nil {
		return nil, err
	}
	return session, nil
}

// Create schedules a session after validating both references.
func (s *sessionService) Create(ctx context.Context, actor authz.Actor, input CreateSessionInput) (*domain.Session, error) {
	if err := authz.Authorize(actor, authz.SessionCreate, authz.Target{}); err != nil {
		return nil, err
	}

	clientID, err := primitive.ObjectIDFromHex(input.Client)
	if err != nil {
		return nil, ErrMissingSessionFields
	}
	coachID, err := primitive.ObjectIDFromHex(input.Coach)
	if err != nil {
		return nil, ErrMissingSessionFields
	}
	if input.Date.IsZero() {
		return nil, ErrMissingSessionFields
	}
	if input.Status != "" && !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	coach, err := s.userRepo.GetByID(ctx, coachID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}
	if !coach.IsCoach() {
		return nil, ErrCoachNotFound
	}

	session := &domain.Session{
		ClientID: clientID,
		CoachID:  coachID,
		Date:     input.Date,
		Status:   input.Status,
		Notes:    input.Notes,
	}
	id, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, err
	}
	session.ID = id
	return session, nil
}

// Update edits a session. Admins may change any field and set any status;
// the session's coach or client may only drive the status to completed.
// Every status change is appended to the audit history, never overwritten.
func (s *sessionService) Update(ctx context.Context, actor authz.Actor, id primitive.ObjectID, input UpdateSessionInput) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	target := authz.Target{CoachID: session.CoachID, ClientID: session.ClientID}
	if err := authz.Authorize(actor, authz.SessionUpdate, target); err != nil {
		return nil, err
	}

	if !actor.IsAdminTier() {
		// Non-admin participants only get the completed transition; any
		// other field edit stays admin territory.
		if input.Date != nil || input.Notes != nil {
			return nil, authz.ErrForbidden
		}
		if input.Status != nil && *input.Status != domain.SessionCompleted {
			return nil, ErrOnlyComplete
		}
	}

	if input.Date != nil {
		session.Date = *input.Date
	}
	if input.Notes != nil {
		session.Notes = *input.Notes
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		if *input.Status != session.Status {
			reason := input.Reason
			if reason == "" {
				reason = defaultStatusReason
			}
			session.StatusChangeHistory = append(session.StatusChangeHistory, domain.StatusChange{
				Status:    *input.Status,
				ChangedBy: actor.ID,
				ChangedAt: time.Now().UTC(),
				Reason:    reason,
			})
			session.Status = *input.Status
		}
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Delete removes a session.
func (s *sessionService) Delete(ctx context.Context, actor authz.Actor, id primitive.ObjectID) error {
	if err := authz.Authorize(actor, authz.SessionDelete, authz.Target{}); err != nil {
		return err
	}
	return s.sessionRepo.Delete(ctx, id)
}

// UpdateStatus is the completed-only transition endpoint for the session's
// coach or client. The history entry and the status field are written in
// one atomic document update.
func (s *sessionService) UpdateStatus(ctx context.Context, actor authz.Actor, id primitive.ObjectID, status domain.SessionStatus, reason string) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	target := authz.Target{CoachID: session.CoachID, ClientID: session.ClientID}
	if err := authz.Authorize(actor, authz.SessionComplete, target); err != nil {
		return nil, err
	}
	if status != domain.SessionCompleted {
		return nil, ErrOnlyComplete
	}

	if reason == "" {
		reason = fmt.Sprintf("Marked as completed by %s", actor.Role)
	}
	change := domain.StatusChange{
		Status:    status,
		ChangedBy: actor.ID,
		ChangedAt: time.Now().UTC(),
		Reason:    reason,
	}
	return s.sessionRepo.SetStatus(ctx, id, change)
}

// ByClient lists a client's sessions for the client, their coach, or an
// admin.
func (s *sessionService) ByClient(ctx context.Context, actor authz.Actor, clientID primitive.ObjectID) ([]domain.Session, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	target := authz.Target{CoachID: client.AssignedCoachID(), ClientID: client.ID}
	if err := authz.Authorize(actor, authz.ClientSessionsRead, target); err != nil {
		return nil, err
	}
	return s.sessionRepo.GetByClientID(ctx, clientID)
}
