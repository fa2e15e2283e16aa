package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"poultry-market-backend/internal/domains/user/model"
	"poultry-market-backend/internal/domains/user/repository"
)

const (
	roleUser = "user"

	defaultBcryptCost = 12

	defaultListLimit = 50
	maxListLimit     = 200
)

type ServiceInterface interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, role string, req model.UpdateProfileRequest) (*model.User, error)
	GetSummary(ctx context.Context, userID uuid.UUID) (*model.UserSummary, error)
	// ListUsers is the admin directory view with per-user activity counts.
	ListUsers(ctx context.Context, limit, offset int) ([]model.AdminUserView, int64, error)
}

// TokenIssuer signs access tokens (pkg/jwt.Manager).
type TokenIssuer interface {
	GenerateAccessToken(userID, role string) (string, error)
	AccessTTL() time.Duration
}

// ListingCounter counts active listings per seller.
type ListingCounter interface {
	CountActiveBySellers(ctx context.Context, sellerIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

// MessageCounter counts messages sent or received per user.
type MessageCounter interface {
	CountByParticipants(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type userService struct {
	repo       repository.Repository
	tokens     TokenIssuer
	listings   ListingCounter
	messages   MessageCounter
	bcryptCost int
	now        func() time.Time
}

// NewUserService wires the directory. listings and messages may be nil, in
// which case the admin view reports zero activity.
func NewUserService(
	repo repository.Repository,
	tokens TokenIssuer,
	listings ListingCounter,
	messages MessageCounter,
) ServiceInterface {
	return &userService{
		repo:       repo,
		tokens:     tokens,
		listings:   listings,
		messages:   messages,
		bcryptCost: defaultBcryptCost,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account with a bcrypt password hash and logs it in.
func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.Location = strings.TrimSpace(req.Location)
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidProfileError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Location:     req.Location,
		Role:         roleUser,
		CreatedAt:    s.now(),
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return nil, model.NewEmailTakenError()
		}
		return nil, model.NewDirectoryUnavailableError(err)
	}

	return s.issue(user)
}

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidLoginError(err)
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewInvalidCredentialsError()
		}
		return nil, model.NewDirectoryUnavailableError(err)
	}
	if user.PasswordHash == "" {
		return nil, model.NewInvalidCredentialsError()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.NewInvalidCredentialsError()
	}

	return s.issue(user)
}

func (s *userService) issue(user *model.User) (*model.AuthResponse, error) {
	token, err := s.tokens.GenerateAccessToken(user.ID.String(), user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &model.AuthResponse{
		Token:     token,
		ExpiresAt: s.now().Add(s.tokens.AccessTTL()),
		UserID:    user.ID.String(),
		User:      user,
	}, nil
}

// UpdateProfile registers the caller in the directory on first use.
func (s *userService) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	role string,
	req model.UpdateProfileRequest,
) (*model.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.Location = strings.TrimSpace(req.Location)
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidProfileError(err)
	}
	if role == "" {
		role = roleUser
	}

	user, err := s.repo.Upsert(ctx, &model.User{
		ID:        userID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Location:  req.Location,
		Role:      role,
		CreatedAt: s.now(),
	})
	if err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return nil, model.NewEmailTakenError()
		}
		return nil, model.NewDirectoryUnavailableError(err)
	}
	return user, nil
}

func (s *userService) GetSummary(ctx context.Context, userID uuid.UUID) (*model.UserSummary, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewUserNotFoundError()
		}
		return nil, model.NewDirectoryUnavailableError(err)
	}
	summary := user.Summary()
	return &summary, nil
}

func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]model.AdminUserView, int64, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	users, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, model.NewDirectoryUnavailableError(err)
	}

	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	listingCounts := map[uuid.UUID]int64{}
	if s.listings != nil && len(ids) > 0 {
		if listingCounts, err = s.listings.CountActiveBySellers(ctx, ids); err != nil {
			return nil, 0, model.NewDirectoryUnavailableError(err)
		}
	}
	messageCounts := map[uuid.UUID]int64{}
	if s.messages != nil && len(ids) > 0 {
		if messageCounts, err = s.messages.CountByParticipants(ctx, ids); err != nil {
			return nil, 0, model.NewDirectoryUnavailableError(err)
		}
	}

	views := make([]model.AdminUserView, len(users))
	for i, u := range users {
		views[i] = model.AdminUserView{
			User:         u,
			ListingCount: listingCounts[u.ID],
			MessageCount: messageCounts[u.ID],
		}
	}
	return views, total, nil
}
