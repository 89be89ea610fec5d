package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"social-graph/metrics"
	"social-graph/model"
	"social-graph/repo"
	"social-graph/util"
)

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) (bool, error)
}

type TokenIssuer interface {
	GenerateToken(id, username string) (string, error)
}

type SignupInput struct {
	Name     string `json:"name" validate:"max=100"`
	Username string `json:"username" validate:"required,alphanum,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type ProfileInput struct {
	Name       string `json:"name" validate:"max=100"`
	Username   string `json:"username" validate:"required,alphanum,min=3,max=30"`
	Email      string `json:"email" validate:"required,email"`
	Bio        string `json:"bio" validate:"max=160"`
	Location   string `json:"location" validate:"max=100"`
	WebsiteURL string `json:"website_url" validate:"omitempty,url"`
}

// AccountService handles signup, login and profile edits. It is the only
// place password hashes are produced or checked.
type AccountService struct {
	users  repo.UserStore
	hasher PasswordHasher
	tokens TokenIssuer
	logger *zap.Logger
	now    func() time.Time
}

func NewAccountService(users repo.UserStore, hasher PasswordHasher, tokens TokenIssuer, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *AccountService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := util.ValidateStruct(in); err != nil {
		return nil, invalid("%v", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	now := s.now()
	u := &model.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, storeError("signup", err)
	}

	metrics.RegisterSuccess.Inc()
	s.logger.Info("user signed up", zap.String("user_id", u.ID), zap.String("username", u.Username))
	return u, nil
}

// Login returns a signed token for the account with this email. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, invalid("email and password are required")
	}

	u, err := s.users.UserByEmail(ctx, email)
	if errors.Is(err, repo.ErrUserNotFound) {
		metrics.LoginFailure.WithLabelValues("unknown_user").Inc()
		return "", nil, ErrUnauthenticated
	}
	if err != nil {
		return "", nil, storeError("login", err)
	}

	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		metrics.LoginFailure.WithLabelValues("bad_password").Inc()
		return "", nil, ErrUnauthenticated
	}

	token, err := s.tokens.GenerateToken(u.ID, u.Username)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := util.ValidateStruct(in); err != nil {
		return nil, invalid("%v", err)
	}

	u, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return nil, storeError("update profile", err)
	}
	u.Name = strings.TrimSpace(in.Name)
	u.Username = in.Username
	u.Email = in.Email
	u.Bio = strings.TrimSpace(in.Bio)
	u.Location = strings.TrimSpace(in.Location)
	u.WebsiteURL = strings.TrimSpace(in.WebsiteURL)
	u.UpdatedAt = s.now()

	if err := s.users.UpdateUser(ctx, u); err != nil {
		return nil, storeError("update profile", err)
	}
	return u, nil
}

func (s *AccountService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if len(next) < 6 {
		return invalid("new password must be at least 6 characters")
	}
	u, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return storeError("change password", err)
	}
	ok, err := s.hasher.Verify(current, u.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthenticated
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	return storeError("change password", s.users.UpdatePassword(ctx, userID, hash))
}
