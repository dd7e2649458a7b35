package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL - срок жизни выдаваемого сессионного токена.
const DefaultTokenTTL = 24 * time.Hour

// Session - установленная сессия пользователя.
type Session struct {
	UserID    string `json:"userId"`
	Token     string `json:"token"`
	Anonymous bool   `json:"anonymous"`
}

// Service выполняет анонимный вход и вход по токену начальной загрузки.
// Неудачный вход по токену один раз откатывается к анонимному входу.
type Service struct {
	secret   []byte
	tokenTTL time.Duration
}

// NewService создаёт сервис идентификации с HMAC-секретом из конфигурации.
func NewService(secret string, tokenTTL time.Duration) *Service {
	if tokenTTL == 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &Service{secret: []byte(secret), tokenTTL: tokenTTL}
}

// SignInAnonymous создаёт анонимную сессию со свежим идентификатором.
func (s *Service) SignInAnonymous() (*Session, error) {
	userID := uuid.New().String()
	token, err := s.issueToken(userID, true)
	if err != nil {
		return nil, err
	}
	return &Session{UserID: userID, Token: token, Anonymous: true}, nil
}

// SignInWithToken устанавливает сессию по переданному токену.
// При любой ошибке разбора или проверки выполняется анонимный вход.
func (s *Service) SignInWithToken(token string) (*Session, error) {
	userID, err := s.VerifyToken(token)
	if err != nil {
		return s.SignInAnonymous()
	}

	reissued, err := s.issueToken(userID, false)
	if err != nil {
		return nil, err
	}
	return &Session{UserID: userID, Token: reissued, Anonymous: false}, nil
}

// VerifyToken проверяет подпись и срок действия токена и возвращает
// идентификатор пользователя.
func (s *Service) VerifyToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return sub, nil
}

func (s *Service) issueToken(userID string, anonymous bool) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
		"anm": anonymous,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
