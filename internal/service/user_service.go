package service

import (
	"context"
	"errors"
	"time"

	"github.com/Shamsmedhat/her-power-gym-backend/internal/authz"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/domain"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrOnlySuperAdmin    = errors.New("only super admin can create admin users")
	ErrRoleChangeDenied  = errors.New("only super admin can change user roles")
	ErrSalaryRequired    = ValidationError("salary is required for coach users")
	ErrInvalidStaffRole  = ValidationError("role must be super admin, admin, or coach")
	ErrMissingUserFields = ValidationError("name, phone, password, and role are required")
)

// CreateUserInput is the payload for registering a new staff member.
type CreateUserInput struct {
	Name     string       `json:"name"`
	Phone    string       `json:"phone"`
	Password string       `json:"password"`
	Role     domain.Role  `json:"role"`
	Salary   *float64     `json:"salary,omitempty"`
	DaysOff  []string     `json:"daysOff,omitempty"`
}

// UpdateUserInput carries the updatable staff fields; nil means unchanged.
type UpdateUserInput struct {
	Name   *string      `json:"name,omitempty"`
	Phone  *string      `json:"phone,omitempty"`
	Role   *domain.Role `json:"role,omitempty"`
	Salary *float64     `json:"salary,omitempty"`
}

type UserService interface {
	List(ctx context.Context, actor authz.Actor) ([]domain.User, error)
	Get(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (*domain.User, error)
	Create(ctx context.Context, actor authz.Actor, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, actor authz.Actor, id primitive.ObjectID, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, actor authz.Actor, id primitive.ObjectID) error
	UpdateDaysOff(ctx context.Context, actor authz.Actor, id primitive.ObjectID, daysOff []string) (*domain.User, error)
	MyClients(ctx context.Context, actor authz.Actor) ([]domain.Client, error)
	MySessions(ctx context.Context, actor authz.Actor) ([]domain.Session, error)
}

// userService implements the UserService interface.
type userService struct {
	userRepo    repository.UserRepository
	clientRepo  repository.ClientRepository
	sessionRepo repository.SessionRepository
}

// NewUserService creates a new instance of userService.
func NewUserService(userRepo repository.UserRepository, clientRepo repository.ClientRepository, sessionRepo repository.SessionRepository) UserService {
	return &userService{
		userRepo:    userRepo,
		clientRepo:  clientRepo,
		sessionRepo: sessionRepo,
	}
}

// List returns every staff user.
func (s *userService) List(ctx context.Context, actor authz.Actor) ([]domain.User, error) {
	if err := authz.Authorize(actor, authz.UserList, authz.Target{}); err != nil {
		return nil, err
	}
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// Get returns one user. Staff may always read their own profile.
func (s *userService) Get(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (*domain.User, error) {
	if err := authz.Authorize(actor, authz.UserRead, authz.Target{UserID: id}); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// Create registers a new staff member with a generated userId.
func (s *userService) Create(ctx context.Context, actor authz.Actor, input CreateUserInput) (*domain.User, error) {
	if err := authz.Authorize(actor, authz.UserCreate, authz.Target{}); err != nil {
		return nil, err
	}
	if input.Name == "" || input.Phone == "" || input.Password == "" || input.Role == "" {
		return nil, ErrMissingUserFields
	}
	if !input.Role.IsStaff() {
		return nil, ErrInvalidStaffRole
	}
	if !authz.CanAssignRole(actor, input.Role) {
		return nil, ErrOnlySuperAdmin
	}
	if input.Role == domain.RoleCoach && input.Salary == nil {
		return nil, ErrSalaryRequired
	}

	userID, err := generateUniqueID(ctx, rolePrefix(input.Role), input.Phone, s.userRepo.UserIDExists)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Name:         input.Name,
		Phone:        input.Phone,
		PasswordHash: string(hash),
		Role:         input.Role,
		UserID:       userID,
		Salary:       input.Salary,
		DaysOff:      input.DaysOff,
	}

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id
	user.PasswordHash = ""
	return user, nil
}

// Update modifies a user's profile. Staff may update their own profile; any
// role change is reserved for the super admin.
func (s *userService) Update(ctx context.Context, actor authz.Actor, id primitive.ObjectID, input UpdateUserInput) (*domain.User, error) {
	if err := authz.Authorize(actor, authz.UserUpdate, authz.Target{UserID: id}); err != nil {
		return nil, err
	}
	if input.Role != nil && !authz.CanChangeRole(actor) {
		return nil, ErrRoleChangeDenied
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Role != nil {
		if !input.Role.IsStaff() {
			return nil, ErrInvalidStaffRole
		}
		user.Role = *input.Role
	}
	if input.Salary != nil {
		user.Salary = input.Salary
	}
	if user.Role == domain.RoleCoach && user.Salary == nil {
		return nil, ErrSalaryRequired
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// Delete removes a staff user. Self-deletion is always denied.
func (s *userService) Delete(ctx context.Context, actor authz.Actor, id primitive.ObjectID) error {
	if err := authz.Authorize(actor, authz.UserDelete, authz.Target{UserID: id}); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}

// UpdateDaysOff replaces a coach's days off, appending the audit entry.
// Coaches may only touch their own; admins may update any coach's.
func (s *userService) UpdateDaysOff(ctx context.Context, actor authz.Actor, id primitive.ObjectID, daysOff []string) (*domain.User, error) {
	if err := authz.Authorize(actor, authz.UserDaysOff, authz.Target{UserID: id}); err != nil {
		return nil, err
	}

	change := domain.DaysOffChange{
		DaysOff:   daysOff,
		ChangedBy: actor.ID,
		ChangedAt: time.Now().UTC(),
	}
	user, err := s.userRepo.AppendDaysOff(ctx, id, change)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// MyClients returns the clients whose private plan is assigned to the
// calling coach.
func (s *userService) MyClients(ctx context.Context, actor authz.Actor) ([]domain.Client, error) {
	if actor.Role != domain.RoleCoach {
		return nil, authz.ErrForbidden
	}
	return s.clientRepo.GetByCoachID(ctx, actor.ID)
}

// MySessions returns the calling coach's sessions.
func (s *userService) MySessions(ctx context.Context, actor authz.Actor) ([]domain.Session, error) {
	if actor.Role != domain.RoleCoach {
		return nil, authz.ErrForbidden
	}
	return s.sessionRepo.GetByCoachID(ctx, actor.ID)
}
