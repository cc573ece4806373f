package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dufutao1/EarthLord-sub000/internal/db"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// Seams for error-path tests.
var (
	hashPasswordFn    = bcrypt.GenerateFromPassword
	parseWithClaimsFn = jwt.ParseWithClaims
	signTokenFn       = (*Service).signTokenImpl
)

type Service struct {
	secret []byte
	db     db.Querier
}

type Claims struct {
	PlayerID string `json:"player_id"`
	jwt.RegisteredClaims
}

func NewService(secret string, q db.Querier) *Service {
	return &Service{
		secret: []byte(secret),
		db:     q,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (Player, TokenResponse, error) {
	if req.Email == "" || req.Username == "" || req.Password == "" {
		return Player{}, TokenResponse{}, errors.New("email, username, password required")
	}
	hash, err := hashPasswordFn([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Player{}, TokenResponse{}, err
	}

	player := Player{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		AvatarURL:    req.AvatarURL,
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO players (id, email, username, password_hash, display_name, avatar_url)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at
	`, player.ID, player.Email, player.Username, player.PasswordHash, player.DisplayName, player.AvatarURL)
	if err := row.Scan(&player.CreatedAt, &player.UpdatedAt); err != nil {
		return Player{}, TokenResponse{}, err
	}

	tokens, err := s.GenerateTokens(ctx, player.ID)
	if err != nil {
		return Player{}, TokenResponse{}, err
	}
	return player, tokens, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (Player, TokenResponse, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, username, password_hash, display_name, avatar_url, created_at, updated_at
		FROM players WHERE email = $1
	`, req.Email)

	var player Player
	if err := row.Scan(&player.ID, &player.Email, &player.Username, &player.PasswordHash, &player.DisplayName, &player.AvatarURL, &player.CreatedAt, &player.UpdatedAt); err != nil {
		return Player{}, TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(player.PasswordHash), []byte(req.Password)); err != nil {
		return Player{}, TokenResponse{}, errors.New("invalid credentials")
	}

	tokens, err := s.GenerateTokens(ctx, player.ID)
	if err != nil {
		return Player{}, TokenResponse{}, err
	}
	return player, tokens, nil
}

func (s *Service) GenerateTokens(ctx context.Context, playerID string) (TokenResponse, error) {
	access, err := signTokenFn(s, playerID, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	refresh, err := signTokenFn(s, playerID, refreshTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	if err := s.saveRefreshToken(ctx, refresh, playerID, refreshTokenTTL); err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) ValidateRefreshToken(ctx context.Context, token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}

	playerID, expiresAt, err := s.lookupRefreshToken(ctx, token)
	if err != nil || playerID != claims.PlayerID || time.Now().After(expiresAt) {
		return "", errors.New("refresh token invalid")
	}
	return claims.PlayerID, nil
}

func (s *Service) ValidateAccessToken(token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}
	return claims.PlayerID, nil
}

func (s *Service) signToken(playerID string, ttl time.Duration) (string, error) {
	return signTokenFn(s, playerID, ttl)
}

func (s *Service) signTokenImpl(playerID string, ttl time.Duration) (string, error) {
	claims := Claims{
		PlayerID: playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := parseWithClaimsFn(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

func (s *Service) saveRefreshToken(ctx context.Context, token, playerID string, ttl time.Duration) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO refresh_tokens (id, player_id, token, expires_at)
		VALUES ($1,$2,$3,$4)
	`, uuid.NewString(), playerID, token, time.Now().Add(ttl))
	return err
}

func (s *Service) lookupRefreshToken(ctx context.Context, token string) (string, time.Time, error) {
	row := s.db.QueryRow(ctx, `
		SELECT player_id, expires_at
		FROM refresh_tokens
		WHERE token = $1 AND revoked_at IS NULL
	`, token)
	var playerID string
	var expiresAt time.Time
	if err := row.Scan(&playerID, &expiresAt); err != nil {
		return "", time.Time{}, err
	}
	return playerID, expiresAt, nil
}
