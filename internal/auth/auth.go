package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"wispgate/internal/structs"
	"wispgate/pkg/config"
	"wispgate/pkg/db"
	"wispgate/pkg/logger"
	userRepo "wispgate/pkg/repository/postgres/users_repo"
	"wispgate/pkg/utils"
)

var Module = fx.Provide(New)

// Service owns gateway accounts and their bearer tokens. It is local to
// the gateway: CRM clients are a separate notion, linked only through the
// optional client_id claim.
type Service interface {
	Login(ctx context.Context, username, password string) (structs.TokenResponse, error)
	Register(ctx context.Context, req structs.RegisterRequest) (structs.MeResponse, error)
	Verify(token string) (structs.Claims, error)
}

type Params struct {
	fx.In

	Logger logger.Logger
	Config config.IConfig
	DB     db.Querier `optional:"true"`
}

type service struct {
	logger logger.Logger
	tokens *Tokens
	store  UserStore
}

func New(p Params) Service {
	ttl := time.Duration(p.Config.GetInt("jwt.expiration")) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}

	var store UserStore
	if p.DB != nil {
		store = userRepo.New(p.Logger, p.DB)
	} else {
		store = NewMemoryStore()
	}

	return &service{
		logger: p.Logger,
		tokens: NewTokens(p.Config.GetString("jwt.secret"), ttl),
		store:  store,
	}
}

var errBadCredentials = structs.NewAPIError(http.StatusUnauthorized, "Credenciales incorrectas")

func (s *service) Login(ctx context.Context, username, password string) (structs.TokenResponse, error) {
	user, err := s.store.Lookup(ctx, username)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			return structs.TokenResponse{}, errBadCredentials
		}
		s.logger.Error(ctx, "err looking up user", zap.Error(err))
		return structs.TokenResponse{}, err
	}

	if !utils.CompareInBcrypt(user.PasswordHash, password) {
		return structs.TokenResponse{}, errBadCredentials
	}

	token, err := s.tokens.Issue(structs.Claims{
		Subject:  user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
		ClientID: user.ClientID,
	}, s.tokens.TTL())
	if err != nil {
		s.logger.Error(ctx, "err issuing token", zap.Error(err))
		return structs.TokenResponse{}, err
	}

	return structs.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokens.TTL().Seconds()),
	}, nil
}

func (s *service) Register(ctx context.Context, req structs.RegisterRequest) (structs.MeResponse, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return structs.MeResponse{}, err
	}

	user := structs.User{
		Username:     req.Username,
		PasswordHash: hash,
		Email:        req.Email,
		IsAdmin:      req.IsAdmin,
		ClientID:     req.ClientID,
	}

	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, structs.ErrUserExists) {
			return structs.MeResponse{}, structs.NewAPIError(http.StatusConflict, "El usuario ya existe")
		}
		s.logger.Error(ctx, "err creating user", zap.Error(err))
		return structs.MeResponse{}, err
	}

	return structs.MeResponse{
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
		ClientID: user.ClientID,
	}, nil
}

func (s *service) Verify(token string) (structs.Claims, error) {
	return s.tokens.Verify(token)
}
