package user

import (
	"context"
	"net/url"
	"strings"

	"go-otta/internal/domain"
	"go-otta/internal/ledger"
	"go-otta/internal/shared/contextutil"
	usererrors "go-otta/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Replicator queues a newly added user for outbound sync.
type Replicator interface {
	EnqueueUser(u domain.User)
}

type Service interface {
	GetAll(ctx context.Context) ([]UserResponse, error)
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, id string) error

	GetSession(ctx context.Context) (*UserResponse, error)
	StartSession(ctx context.Context, userID string) (UserResponse, error)
	EndSession(ctx context.Context) error

	GetTheme(ctx context.Context) (ThemeResponse, error)
	SetTheme(ctx context.Context, theme string) (ThemeResponse, error)
}

type service struct {
	repo       ledger.Repository
	replicator Replicator
	newID      func() string
	logger     *zap.Logger
}

func NewService(repo ledger.Repository, replicator Replicator, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, replicator: replicator, newID: uuid.NewString, logger: l}
}

func avatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}

func (s *service) GetAll(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(users), nil
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	users, err := s.repo.GetUsers(ctx)
	if err != nil {
		return UserResponse{}, err
	}
	email := strings.TrimSpace(req.Email)
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			log.Warn("create user rejected: duplicate email", zap.String("email", email))
			return UserResponse{}, usererrors.ErrUserAlreadyExists
		}
	}

	name := strings.TrimSpace(req.Name)
	u := domain.User{
		ID:         s.newID(),
		Name:       name,
		Email:      email,
		Role:       domain.Role(req.Role),
		Department: strings.TrimSpace(req.Department),
		Avatar:     avatarURL(name),
	}
	if err := s.repo.AddUser(ctx, u); err != nil {
		log.Error("create user failed", zap.Error(err))
		return UserResponse{}, err
	}
	if s.replicator != nil {
		s.replicator.EnqueueUser(u)
	}

	log.Info("user created", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return mapToResponse(u), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	log := contextutil.GetLogger(ctx, s.logger)

	session, err := s.repo.GetSession(ctx)
	if err != nil {
		return err
	}
	if session != nil && session.ID == id {
		return usererrors.ErrRemoveSessionUser
	}
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	if err := s.repo.RemoveUser(ctx, id); err != nil {
		log.Error("remove user failed", zap.String("user_id", id), zap.Error(err))
		return err
	}
	log.Info("user removed", zap.String("user_id", id))
	return nil
}

func (s *service) GetSession(ctx context.Context) (*UserResponse, error) {
	u, err := s.repo.GetSession(ctx)
	if err != nil || u == nil {
		return nil, err
	}
	resp := mapToResponse(*u)
	return &resp, nil
}

// StartSession stores a snapshot of the registry entry; later registry
// edits do not change an open session.
func (s *service) StartSession(ctx context.Context, userID string) (UserResponse, error) {
	u, err := s.find(ctx, userID)
	if err != nil {
		return UserResponse{}, err
	}
	if err := s.repo.SaveSession(ctx, u); err != nil {
		return UserResponse{}, err
	}
	contextutil.GetLogger(ctx, s.logger).Info("session started", zap.String("user_id", u.ID))
	return mapToResponse(u), nil
}

func (s *service) EndSession(ctx context.Context) error {
	return s.repo.ClearSession(ctx)
}

func (s *service) GetTheme(ctx context.Context) (ThemeResponse, error) {
	t, err := s.repo.GetTheme(ctx)
	if err != nil {
		return ThemeResponse{}, err
	}
	return ThemeResponse{Theme: string(t)}, nil
}

func (s *service) SetTheme(ctx context.Context, theme string) (ThemeResponse, error) {
	if err := s.repo.SaveTheme(ctx, domain.Theme(theme)); err != nil {
		return ThemeResponse{}, err
	}
	return ThemeResponse{Theme: theme}, nil
}

func (s *service) find(ctx context.Context, id string) (domain.User, error) {
	users, err := s.repo.GetUsers(ctx)
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, usererrors.ErrUserNotFound
}
