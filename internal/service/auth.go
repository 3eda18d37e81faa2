package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"aqarat_backend/internal/model"
	"aqarat_backend/pkg/cache"
	"aqarat_backend/pkg/email"
	"aqarat_backend/pkg/oauth"
	"aqarat_backend/pkg/utils/jwt"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const oauthStateTTL = 10 * time.Minute

// GoogleProvider is the part of the Google client the auth flows use.
type GoogleProvider interface {
	AuthCodeURL(state string) string
	Profile(ctx context.Context, code string) (*oauth.Profile, error)
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

// ClientInfo describes the device a login came from.
type ClientInfo struct {
	IP        string
	UserAgent string
}

type AuthResult struct {
	Token string
	User  *model.User
}

type AuthService struct {
	db          *gorm.DB
	cache       cache.Store
	tokens      *jwt.Issuer
	mailer      email.Sender
	google      GoogleProvider
	frontendURL string
	usersBound  int
	now         func() time.Time
}

type AuthConfig struct {
	FrontendURL string
	// AdminUserPagesBound is the range of admin user pages forgotten on login
	// and logout.
	AdminUserPagesBound int
}

// NewAuthService wires the auth flows. google may be nil when Google sign-in
// is not configured.
func NewAuthService(db *gorm.DB, store cache.Store, tokens *jwt.Issuer, mailer email.Sender, google GoogleProvider, cfg AuthConfig) *AuthService {
	if cfg.AdminUserPagesBound < 1 {
		cfg.AdminUserPagesBound = cache.DefaultAdminUserPagesBound
	}
	return &AuthService{
		db:          db,
		cache:       store,
		tokens:      tokens,
		mailer:      mailer,
		google:      google,
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
		usersBound:  cfg.AdminUserPagesBound,
		now:         time.Now,
	}
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	if err := s.ensureUnique(ctx, 0, in.Email, in.Phone); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	phone := in.Phone
	u := model.User{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    &phone,
		Address:  in.Address,
		Password: string(hash),
		Role:     model.RoleUser,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.GenerateToken(u.ID, string(u.Role), u.TokenVersion)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendWelcomeEmail(ctx, u.Email, u.Name); err != nil {
		log.Warn().Err(err).Uint("user_id", u.ID).Msg("welcome email failed")
	}
	return &AuthResult{Token: token, User: &u}, nil
}

// Login checks the password, revokes previously issued tokens and returns a
// fresh one.
func (s *AuthService) Login(ctx context.Context, emailAddr, password string, client ClientInfo) (*AuthResult, error) {
	var u model.User
	err := s.db.WithContext(ctx).Where("email = ?", emailAddr).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if !u.HasPassword() || bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.startSession(ctx, &u, model.LoginMethodPassword, client)
}

// startSession bumps the token version, records the login and issues a
// token for the new version.
func (s *AuthService) startSession(ctx context.Context, u *model.User, method string, client ClientInfo) (*AuthResult, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(u).Update("token_version", gorm.Expr("token_version + 1")).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.User{}).Select("token_version").Where("id = ?", u.ID).Scan(&u.TokenVersion).Error; err != nil {
			return err
		}
		return tx.Create(&model.LoginHistory{
			UserID: u.ID,
			Method: method,
			Device: truncate(client.UserAgent, 100),
			IP:     truncate(client.IP, 50),
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	token, err := s.tokens.GenerateToken(u.ID, string(u.Role), u.TokenVersion)
	if err != nil {
		return nil, err
	}

	forgetRange(ctx, s.cache, cache.NSAdminUsers, s.usersBound)
	return &AuthResult{Token: token, User: u}, nil
}

// Logout revokes every token issued to the user.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	res := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		Update("token_version", gorm.Expr("token_version + 1"))
	if res.Error != nil {
		return fmt.Errorf("logout: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	forgetRange(ctx, s.cache, cache.NSAdminUsers, s.usersBound)
	return nil
}

// GoogleAuthURL returns the consent URL with a one-time state kept in the
// cache store.
func (s *AuthService) GoogleAuthURL(ctx context.Context) (string, error) {
	if s.google == nil {
		return "", ErrOAuthDisabled
	}
	state, err := randomToken(16)
	if err != nil {
		return "", err
	}
	if err := s.cache.Put(ctx, oauthStateKey(state), []byte("1"), oauthStateTTL); err != nil {
		return "", fmt.Errorf("store oauth state: %w", err)
	}
	return s.google.AuthCodeURL(state), nil
}

// GoogleCallback finishes the sign-in: the account is matched by email and
// created when missing.
func (s *AuthService) GoogleCallback(ctx context.Context, state, code string, client ClientInfo) (*AuthResult, error) {
	if s.google == nil {
		return nil, ErrOAuthDisabled
	}

	_, ok, err := s.cache.Get(ctx, oauthStateKey(state))
	if err != nil || !ok || state == "" {
		return nil, fmt.Errorf("%w: unknown state", ErrOAuthFailed)
	}
	// A state that cannot be consumed would stay replayable until it expires.
	if err := s.cache.Forget(ctx, oauthStateKey(state)); err != nil {
		return nil, fmt.Errorf("%w: consume state: %v", ErrOAuthFailed, err)
	}

	profile, err := s.google.Profile(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOAuthFailed, err)
	}

	var u model.User
	err = s.db.WithContext(ctx).Where("email = ?", profile.Email).First(&u).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		verified := s.now()
		u = model.User{
			Name:            truncate(profile.Name, 30),
			Email:           profile.Email,
			GoogleID:        profile.ID,
			Role:            model.RoleUser,
			EmailVerifiedAt: &verified,
		}
		if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
			return nil, fmt.Errorf("create google user: %w", err)
		}
	case err != nil:
		return nil, err
	default:
		if err := s.db.WithContext(ctx).Model(&u).Update("google_id", profile.ID).Error; err != nil {
			return nil, err
		}
	}

	return s.startSession(ctx, &u, model.LoginMethodGoogle, client)
}

// ForgotPassword stores a hashed reset token and mails the reset link. The
// token row is only kept when the mail was accepted.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", emailAddr).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}

	token, err := randomToken(30)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s&email=%s", s.frontendURL, token, url.QueryEscape(emailAddr))

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := model.PasswordResetToken{Email: emailAddr, TokenHash: string(hash), CreatedAt: s.now()}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"token_hash", "created_at"}),
		}).Create(&row).Error
		if err != nil {
			return err
		}
		if err := s.mailer.SendPasswordResetEmail(ctx, emailAddr, link); err != nil {
			return fmt.Errorf("send reset email: %w", err)
		}
		return nil
	})
}

// ResetPassword sets a new password when token matches the stored hash and
// is younger than model.PasswordResetTTL. All existing sessions are revoked.
func (s *AuthService) ResetPassword(ctx context.Context, emailAddr, token, password string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.PasswordResetToken
		err := tx.Where("email = ?", emailAddr).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		if err != nil {
			return err
		}
		if row.Expired(s.now()) {
			return ErrResetTokenExpired
		}
		if bcrypt.CompareHashAndPassword([]byte(row.TokenHash), []byte(token)) != nil {
			return ErrInvalidResetToken
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		res := tx.Model(&model.User{}).Where("email = ?", emailAddr).Updates(map[string]any{
			"password":      string(hash),
			"token_version": gorm.Expr("token_version + 1"),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return tx.Where("email = ?", emailAddr).Delete(&model.PasswordResetToken{}).Error
	})
	if err != nil {
		return err
	}

	if err := s.mailer.SendPasswordChangedEmail(ctx, emailAddr); err != nil {
		log.Warn().Err(err).Msg("password changed email failed")
	}
	return nil
}

// ensureUnique returns ErrEmailTaken or ErrPhoneTaken when another user
// (not selfID) already uses the value. Empty values are not checked.
func (s *AuthService) ensureUnique(ctx context.Context, selfID uint, emailAddr, phone string) error {
	return ensureUnique(s.db.WithContext(ctx), selfID, emailAddr, phone)
}

func ensureUnique(db *gorm.DB, selfID uint, emailAddr, phone string) error {
	taken := func(column, value string) (bool, error) {
		if value == "" {
			return false, nil
		}
		var n int64
		err := db.Model(&model.User{}).Where(column+" = ? AND id <> ?", value, selfID).Count(&n).Error
		return n > 0, err
	}

	if ok, err := taken("email", emailAddr); err != nil {
		return err
	} else if ok {
		return ErrEmailTaken
	}
	if ok, err := taken("phone", phone); err != nil {
		return err
	} else if ok {
		return ErrPhoneTaken
	}
	return nil
}

func oauthStateKey(state string) string {
	return "oauth_state:" + state
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
