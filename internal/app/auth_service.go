package app

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"taskdeck/internal/model"
	"taskdeck/internal/pkg/jwtutil"
	"taskdeck/internal/pkg/passhash"
	"taskdeck/internal/repository"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	ErrUsernameExists = errors.New("username already exists")

	// ErrInvalidCredential covers both unknown usernames and wrong passwords
	// so the response cannot be used to enumerate accounts.
	ErrInvalidCredential = errors.New("invalid username or password")
)

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	Create(user *model.User) error
	GetByUsername(username string) (*model.User, error)
	GetByID(id uint) (*model.User, error)
}

// AuthEventPublisher pushes audit records onto the broker. Publishing is
// best effort: a broker outage must not fail a signup or login.
type AuthEventPublisher interface {
	Publish(ctx context.Context, event model.AuthEvent) error
}

type AuthService struct {
	users         UserStore
	hasher        *passhash.Hasher
	publisher     AuthEventPublisher
	jwtSecret     string
	jwtExpiration time.Duration
}

type SignupInput struct {
	Username string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResult struct {
	Token string
	User  *model.User
}

func NewAuthService(
	users UserStore,
	hasher *passhash.Hasher,
	publisher AuthEventPublisher,
	jwtSecret string,
	jwtExpiration time.Duration,
) *AuthService {
	return &AuthService{
		users:         users,
		hasher:        hasher,
		publisher:     publisher,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Signup creates the credential record: fresh random salt, Argon2id digest,
// single insert. Duplicates surface from the storage unique index.
func (s *AuthService) Signup(input SignupInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	password := input.Password

	if len(username) < 2 || len(password) < 8 {
		return nil, ErrInvalidInput
	}

	salt, err := passhash.GenerateSalt()
	if err != nil {
		return nil, err
	}
	digest, err := s.hasher.Hash(password, salt)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: digest,
		Salt:         salt,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUsernameExists
		}
		return nil, err
	}

	s.publish(model.AuthEvent{
		UserID:   user.ID,
		Username: user.Username,
		Action:   model.AuthActionSignup,
	})
	return user, nil
}

// Login re-derives the digest with the stored salt and compares in constant
// time. On match it issues a bearer token carrying the user identity.
func (s *AuthService) Login(input LoginInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	password := input.Password
	if username == "" || password == "" {
		return nil, ErrInvalidCredential
	}

	user, err := s.users.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.publish(model.AuthEvent{Username: username, Action: model.AuthActionLoginFailed})
		return nil, ErrInvalidCredential
	}

	ok, err := s.hasher.Verify(password, user.Salt, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.publish(model.AuthEvent{UserID: user.ID, Username: user.Username, Action: model.AuthActionLoginFailed})
		return nil, ErrInvalidCredential
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	s.publish(model.AuthEvent{UserID: user.ID, Username: user.Username, Action: model.AuthActionLogin})
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	return s.users.GetByID(id)
}

func (s *AuthService) publish(event model.AuthEvent) {
	if s.publisher == nil {
		return
	}
	event.CreatedAt = time.Now()
	if err := s.publisher.Publish(context.Background(), event); err != nil {
		log.Printf("publish auth event failed: %v", err)
	}
}
