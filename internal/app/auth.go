// internal/app/auth.go
package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/robotica-events/robojudge/internal/models"
	"github.com/robotica-events/robojudge/internal/store"
)

const (
	timeFormat    = "2006-01-02 15:04:05"
	sessionKeyTpl = "session:%s" // session:${token}
	tokenPrefix   = "rj-"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Auth verifies passwords against the identity store and keeps issued
// session tokens in redis. Login resolves to an explicit Principal that
// handlers pass into the core operations. With enable_auth = false the
// redis part is skipped and principals come from trusted request headers.
type Auth struct {
	enabled     bool
	redis       *redis.Client
	store       store.EventStore
	tokenHeader string
	ttl         time.Duration
}

func NewAuth(config *Config, eventStore store.EventStore) (*Auth, error) {
	auth := &Auth{
		enabled:     config.Server.EnableAuth,
		store:       eventStore,
		tokenHeader: config.Auth.TokenHeader,
		ttl:         time.Duration(config.Auth.SessionTTLHours) * time.Hour,
	}

	if !config.Server.EnableAuth {
		return auth, nil
	}

	opt, err := redis.ParseURL(config.Auth.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	auth.redis = client
	return auth, nil
}

func (a *Auth) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func generateToken() (string, error) {
	randomBytes := make([]byte, 12)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return tokenPrefix + hex.EncodeToString(randomBytes), nil
}

// Login checks email+password against admins first, then staff, and issues
// a session token on success.
func (a *Auth) Login(ctx context.Context, email, password string) (*models.SessionInfo, error) {
	principal, hash, err := a.lookupAccount(email)
	if err != nil {
		return nil, err
	}
	if principal == nil {
		return nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &models.SessionInfo{
		Token:       token,
		Principal:   *principal,
		CreatedTime: now,
	}

	if !a.enabled {
		return session, nil
	}

	key := fmt.Sprintf(sessionKeyTpl, token)
	pipe := a.redis.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"kind":             string(principal.Kind),
		"id":               principal.ID,
		"email":            principal.Email,
		"category":         string(principal.Category),
		"created_dttm_utc": now.Format(timeFormat),
	})
	pipe.Expire(ctx, key, a.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	logger.Debug.Printf("Session issued for %s (%s)", principal.Email, principal.Kind)
	return session, nil
}

func (a *Auth) lookupAccount(email string) (*models.Principal, string, error) {
	admin, err := a.store.GetAdminByEmail(email)
	if err != nil {
		return nil, "", err
	}
	if admin != nil {
		return &models.Principal{
			Kind:  models.PrincipalAdmin,
			ID:    admin.ID,
			Email: admin.Email,
		}, admin.PasswordHash, nil
	}

	staff, err := a.store.GetStaffByEmail(email)
	if err != nil {
		return nil, "", err
	}
	if staff != nil {
		return &models.Principal{
			Kind:     models.PrincipalStaff,
			ID:       staff.ID,
			Email:    staff.Email,
			Category: staff.Category,
		}, staff.PasswordHash, nil
	}

	return nil, "", nil
}

func (a *Auth) Logout(ctx context.Context, token string) error {
	if !a.enabled {
		return nil
	}
	key := fmt.Sprintf(sessionKeyTpl, token)
	return a.redis.Del(ctx, key).Err()
}

// Authenticate resolves the request's bearer token to a Principal. When auth
// is disabled, the caller-supplied identity headers are trusted instead.
func (a *Auth) Authenticate(r *http.Request) (*models.Principal, error) {
	if !a.enabled {
		return a.principalFromHeaders(r)
	}

	authHeader := r.Header.Get(a.tokenHeader)
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, ErrInvalidToken
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	key := fmt.Sprintf(sessionKeyTpl, token)
	fields, err := a.redis.HGetAll(r.Context(), key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrInvalidToken
	}

	id, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session %s: %w", key, err)
	}

	return &models.Principal{
		Kind:     models.PrincipalKind(fields["kind"]),
		ID:       id,
		Email:    fields["email"],
		Category: models.Category(fields["category"]),
	}, nil
}

// Header-trust mode for deployments that terminate auth upstream.
func (a *Auth) principalFromHeaders(r *http.Request) (*models.Principal, error) {
	role := r.Header.Get("X-Robojudge-Role")
	switch models.PrincipalKind(role) {
	case models.PrincipalAdmin:
		return &models.Principal{Kind: models.PrincipalAdmin}, nil
	case models.PrincipalStaff:
		id, _ := strconv.ParseInt(r.Header.Get("X-Robojudge-Staff-ID"), 10, 64)
		category := models.Category(r.Header.Get("X-Robojudge-Category"))
		if !category.Valid() {
			return nil, ErrInvalidToken
		}
		return &models.Principal{
			Kind:     models.PrincipalStaff,
			ID:       id,
			Category: category,
		}, nil
	}
	return nil, ErrInvalidToken
}
