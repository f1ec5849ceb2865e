package usecase

import (
	"context"
	"strings"
	"time"

	"stackvault/internal/entity"
	"stackvault/internal/repo/persistent"
	"stackvault/pkg/logger"
)

const defaultAuthProvider = "password"

type UserUseCase interface {
	UpsertUser(ctx context.Context, profile entity.UserProfile) (*entity.User, bool, error)
	GetUser(ctx context.Context, email string) (*entity.User, error)
	ListUsers(ctx context.Context) ([]*entity.User, error)
	UpdateRole(ctx context.Context, userID string, role entity.Role) error
	// IssueToken signs an API token for an existing user. When an identity
	// verifier is configured the email is taken from the verified idToken.
	IssueToken(ctx context.Context, email, idToken string) (string, *entity.User, error)
}

type userUseCase struct {
	userRepo  persistent.UserRepository
	tokens    TokenIssuer
	verifier  IdentityVerifier
	publisher EventPublisher
	logger    *logger.Logger
	now       func() time.Time
}

func NewUserUseCase(
	userRepo persistent.UserRepository,
	tokens TokenIssuer,
	verifier IdentityVerifier,
	publisher EventPublisher,
	logger *logger.Logger,
) UserUseCase {
	return &userUseCase{
		userRepo:  userRepo,
		tokens:    tokens,
		verifier:  verifier,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (uc *userUseCase) UpsertUser(ctx context.Context, profile entity.UserProfile) (*entity.User, bool, error) {
	profile.Email = strings.TrimSpace(profile.Email)
	if profile.Email == "" {
		return nil, false, entity.Validation("Email is required")
	}
	if profile.AuthProvider == "" {
		profile.AuthProvider = defaultAuthProvider
	}

	user, created, err := uc.userRepo.Upsert(ctx, profile, uc.now().UTC())
	if err != nil {
		return nil, false, err
	}

	if created {
		uc.logger.Info("Registered user %s via %s", user.Email, user.AuthProvider)
		publish(ctx, uc.publisher, uc.logger, EventUserCreated, map[string]interface{}{
			"email": user.Email,
		})
	}
	return user, created, nil
}

func (uc *userUseCase) GetUser(ctx context.Context, email string) (*entity.User, error) {
	return uc.userRepo.GetByEmail(ctx, email)
}

func (uc *userUseCase) ListUsers(ctx context.Context) ([]*entity.User, error) {
	return uc.userRepo.List(ctx)
}

func (uc *userUseCase) UpdateRole(ctx context.Context, userID string, role entity.Role) error {
	if !validID(userID) {
		return entity.Validation("Invalid user ID")
	}
	if !role.Valid() {
		return entity.Validation("Invalid role")
	}

	if err := uc.userRepo.UpdateRole(ctx, userID, role, uc.now().UTC()); err != nil {
		return err
	}

	publish(ctx, uc.publisher, uc.logger, EventUserRoleChanged, map[string]interface{}{
		"userId": userID,
		"role":   role,
	})
	return nil
}

func (uc *userUseCase) IssueToken(ctx context.Context, email, idToken string) (string, *entity.User, error) {
	if uc.verifier != nil {
		if idToken == "" {
			return "", nil, entity.Validation("idToken is required")
		}
		verified, err := uc.verifier.VerifyEmail(ctx, idToken)
		if err != nil {
			uc.logger.Warn("Rejected identity token: %v", err)
			return "", nil, entity.NewError(entity.ErrUnauthorized, "Invalid identity token")
		}
		email = verified
	}

	if strings.TrimSpace(email) == "" {
		return "", nil, entity.Validation("Email is required")
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	token, err := uc.tokens.GenerateToken(user.Email, string(user.Role))
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
