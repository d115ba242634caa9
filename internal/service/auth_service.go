package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"artmarket/internal/core/auth"
	"artmarket/internal/core/events"
	"artmarket/internal/core/mailer"
	"artmarket/internal/domain"
	"artmarket/pkg/utils"
)

const msgInvalidCredentials = "Invalid credentials"

type AuthOptions struct {
	BcryptCost  int
	ResetTTL    time.Duration
	FrontendURL string
}

type AuthService struct {
	users   domain.UserRepository
	jwt     *auth.JWTer
	revoker auth.Revoker
	mail    mailer.Mailer
	events  events.Publisher
	log     *zap.Logger
	opts    AuthOptions

	now       func() time.Time
	dummyOnce sync.Once
	dummy     string
}

func NewAuthService(
	users domain.UserRepository,
	jwt *auth.JWTer,
	revoker auth.Revoker,
	mail mailer.Mailer,
	pub events.Publisher,
	log *zap.Logger,
	opts AuthOptions,
) *AuthService {
	if revoker == nil {
		revoker = auth.NopRevoker{}
	}
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.ResetTTL <= 0 {
		opts.ResetTTL = 10 * time.Minute
	}
	return &AuthService{
		users: users, jwt: jwt, revoker: revoker, mail: mail,
		events: pub, log: log, opts: opts, now: time.Now,
	}
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Bio      string `json:"bio"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Session is what register, login and reset hand back to the client.
type Session struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := strings.TrimSpace(in.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.E(domain.ErrConflict, "User already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := utils.HashPassword(in.Password, s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         domain.RoleArtist,
		IsActive:     false,
		Bio:          in.Bio,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Wrap(domain.ErrConflict, "User already exists", err)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.events.Publish(ctx, events.New(events.UserRegistered, u.ID, u.ID, map[string]string{"email": u.Email}))
	return s.session(u)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	u, err := s.users.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if errors.Is(err, domain.ErrNotFound) {
		// same bcrypt work as a real mismatch so unknown emails are not faster
		utils.CheckPassword(in.Password, s.dummyHash())
		return nil, domain.E(domain.ErrUnauthorized, msgInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !utils.CheckPassword(in.Password, u.PasswordHash) {
		return nil, domain.E(domain.ErrUnauthorized, msgInvalidCredentials)
	}
	return s.session(u)
}

func (s *AuthService) Profile(ctx context.Context, uid string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, uid)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.E(domain.ErrNotFound, "User not found")
	}
	return u, err
}

func (s *AuthService) UpdateProfile(ctx context.Context, uid string, p domain.ProfileUpdate) (*domain.User, error) {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, domain.E(domain.ErrValidation, "Please add a name")
		}
		p.Name = &name
	}
	if err := s.users.UpdateProfile(ctx, uid, p); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.E(domain.ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.Profile(ctx, uid)
}

// ForgotPassword stores the digest of a fresh reset token and mails the raw
// token. If the mail cannot be sent the stored pair is cleared again.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.E(domain.ErrNotFound, "There is no user with that email")
	}
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}

	raw, digest, err := utils.NewResetToken()
	if err != nil {
		return fmt.Errorf("reset token: %w", err)
	}
	if err := s.users.SetResetToken(ctx, u.ID, digest, s.now().Add(s.opts.ResetTTL)); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	resetURL := strings.TrimRight(s.opts.FrontendURL, "/") + "/reset-password/" + raw
	err = s.mail.Send(ctx, mailer.Message{
		To:      u.Email,
		Subject: "Password Reset Token",
		Text: "You are receiving this email because you (or someone else) has requested the reset of a password.\n\n" +
			"Please follow this link within " + s.opts.ResetTTL.String() + " to choose a new password:\n\n" + resetURL + "\n",
	})
	if err != nil {
		if cerr := s.users.ClearResetToken(context.WithoutCancel(ctx), u.ID); cerr != nil {
			s.log.Error("reset token rollback failed", zap.String("user_id", u.ID), zap.Error(cerr))
		} else {
			s.log.Warn("reset email failed, token rolled back", zap.String("user_id", u.ID), zap.Error(err))
		}
		return domain.Wrap(domain.ErrInternal, "Email could not be sent", err)
	}
	s.events.Publish(ctx, events.New(events.PasswordResetIssued, u.ID, u.ID, nil))
	return nil
}

// ResetPassword consumes a reset token. The final UPDATE is conditional on the
// digest still being stored and unexpired, so a token works at most once.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, password string) (*Session, error) {
	if len(password) < 6 {
		return nil, domain.E(domain.ErrValidation, "Password must be at least 6 characters")
	}
	digest := utils.DigestToken(rawToken)
	now := s.now()

	u, err := s.users.FindByResetToken(ctx, digest, now)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.E(domain.ErrValidation, "Invalid token")
	}
	if err != nil {
		return nil, fmt.Errorf("lookup reset token: %w", err)
	}

	hash, err := utils.HashPassword(password, s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	ok, err := s.users.ConsumeResetToken(ctx, u.ID, digest, hash, now)
	if err != nil {
		return nil, fmt.Errorf("consume reset token: %w", err)
	}
	if !ok {
		return nil, domain.E(domain.ErrValidation, "Invalid token")
	}
	u.PasswordHash = hash
	u.ResetPasswordToken, u.ResetPasswordExpire = nil, nil
	return s.session(u)
}

// Logout deny-lists the token id until the token would have expired anyway.
// With the no-op revoker this leaves logout to the client.
func (s *AuthService) Logout(ctx context.Context, id *auth.Identity) error {
	if id == nil || id.TokenID == "" {
		return nil
	}
	if err := s.revoker.Revoke(ctx, id.TokenID, id.ExpiresAt.Sub(s.now())); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Resolve turns a bearer token into the caller's identity. The user row is
// read on every call so role and activation changes apply immediately.
func (s *AuthService) Resolve(ctx context.Context, token string) (*auth.Identity, error) {
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, domain.Wrap(domain.ErrUnauthorized, "Not authorized to access this route", err)
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, domain.E(domain.ErrUnauthorized, "Token has been revoked")
	}
	u, err := s.users.FindByID(ctx, claims.UID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.E(domain.ErrUnauthorized, "Not authorized to access this route")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	id := &auth.Identity{
		UserID:   u.ID,
		Role:     u.Role,
		IsActive: u.IsActive,
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

func (s *AuthService) session(u *domain.User) (*Session, error) {
	tok, err := s.jwt.Issue(u.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: tok, User: u}, nil
}

func (s *AuthService) dummyHash() string {
	s.dummyOnce.Do(func() {
		s.dummy, _ = utils.HashPassword(utils.NewID(), s.opts.BcryptCost)
	})
	return s.dummy
}
