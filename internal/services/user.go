package services

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursebridge-backend/internal/data/repos"
	types "github.com/yungbote/coursebridge-backend/internal/domain"
	domainagg "github.com/yungbote/coursebridge-backend/internal/domain/aggregates"
	"github.com/yungbote/coursebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/coursebridge-backend/internal/platform/logger"
)

type CreateUserInput struct {
	Email     string
	FirstName string
	LastName  string
}

type UserService interface {
	Create(dbc dbctx.Context, in CreateUserInput) (*types.User, error)
	GetProfile(dbc dbctx.Context, userID uuid.UUID) (*types.User, error)
	UpdateName(dbc dbctx.Context, userID uuid.UUID, firstName, lastName string) (*types.User, error)
}

type userService struct {
	db    *gorm.DB
	log   *logger.Logger
	users repos.UserRepo
}

func NewUserService(db *gorm.DB, baseLog *logger.Logger, users repos.UserRepo) UserService {
	return &userService{
		db:    db,
		log:   baseLog.With("service", "UserService"),
		users: users,
	}
}

func (s *userService) Create(dbc dbctx.Context, in CreateUserInput) (*types.User, error) {
	const op = "Accounts.User.Create"
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, domainagg.InvalidArgument(op, "invalid email address")
	}
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if first == "" || last == "" {
		return nil, domainagg.InvalidArgument(op, "first and last name are required")
	}

	u := &types.User{ID: uuid.New(), Email: email, FirstName: first, LastName: last}
	err := inTx(dbc, s.db, func(inner dbctx.Context) error {
		exists, err := s.users.EmailExists(inner, email)
		if err != nil {
			return err
		}
		if exists {
			return domainagg.Conflict(op, "a user with this email already exists")
		}
		_, err = s.users.Create(inner, []*types.User{u})
		return err
	})
	if err != nil {
		return nil, read(op, err)
	}
	s.log.Info("user created", "user_id", u.ID)
	return u, nil
}

func (s *userService) GetProfile(dbc dbctx.Context, userID uuid.UUID) (*types.User, error) {
	const op = "Accounts.User.GetProfile"
	u, err := s.users.GetByID(dbc, userID)
	if err != nil {
		return nil, read(op, err)
	}
	if u == nil {
		return nil, domainagg.NotFound(op, "user %s not found", userID)
	}
	return u, nil
}

func (s *userService) UpdateName(dbc dbctx.Context, userID uuid.UUID, firstName, lastName string) (*types.User, error) {
	const op = "Accounts.User.UpdateName"
	first := strings.TrimSpace(firstName)
	last := strings.TrimSpace(lastName)
	if first == "" || last == "" {
		return nil, domainagg.InvalidArgument(op, "first and last name are required")
	}
	var updated *types.User
	err := inTx(dbc, s.db, func(inner dbctx.Context) error {
		u, err := s.users.GetByID(inner, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return domainagg.NotFound(op, "user %s not found", userID)
		}
		if err := s.users.UpdateName(inner, userID, first, last); err != nil {
			return err
		}
		updated, err = s.users.GetByID(inner, userID)
		return err
	})
	if err != nil {
		return nil, read(op, err)
	}
	return updated, nil
}
