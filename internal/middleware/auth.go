package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gvmbt/pvndora-storefront/internal/model"
)

type contextKey string

const userKey contextKey = "telegramUser"

const (
	authHeaderPrefix = "tma "
	initDataTTL      = 24 * time.Hour
)

// AuthMiddleware проверяет подпись initData Telegram WebApp.
type AuthMiddleware struct {
	// secret — HMAC-SHA256("WebAppData", токен бота), по алгоритму Telegram.
	secret []byte
}

// NewAuthMiddleware создаёт middleware для проверки initData по токену бота.
func NewAuthMiddleware(botToken string) *AuthMiddleware {
	mac := hmac.New(sha256.New, []byte("WebAppData"))
	mac.Write([]byte(botToken))

	return &AuthMiddleware{
		secret: mac.Sum(nil),
	}
}

// Middleware проверяет заголовок Authorization ("tma <initData>") и кладёт
// личность пользователя Telegram в контекст запроса.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, authHeaderPrefix) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		user, ok := a.parseInitData(strings.TrimPrefix(header, authHeaderPrefix), time.Now())
		if !ok {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// parseInitData проверяет подпись и свежесть initData и извлекает пользователя.
func (a *AuthMiddleware) parseInitData(initData string, now time.Time) (*model.TelegramUser, bool) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, false
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return nil, false
	}

	pairs := make([]string, 0, len(values))
	for key := range values {
		if key == "hash" {
			continue
		}
		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)

	mac := hmac.New(sha256.New, a.secret)
	mac.Write([]byte(strings.Join(pairs, "\n")))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(gotHash)) {
		return nil, false
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, false
	}
	if now.Sub(time.Unix(authDate, 0)) > initDataTTL {
		return nil, false
	}

	var user model.TelegramUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil {
		return nil, false
	}
	if user.ID == 0 {
		return nil, false
	}

	return &user, true
}

// WithUser кладёт пользователя Telegram в контекст запроса.
func WithUser(ctx context.Context, user *model.TelegramUser) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext извлекает пользователя Telegram из контекста запроса.
func GetUserFromContext(ctx context.Context) (*model.TelegramUser, bool) {
	user, ok := ctx.Value(userKey).(*model.TelegramUser)
	return user, ok
}
