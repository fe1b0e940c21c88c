package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Bcardoso2/frigo-galeno-api/internal/config"
	"github.com/Bcardoso2/frigo-galeno-api/internal/dto"
	"github.com/Bcardoso2/frigo-galeno-api/internal/model"
	"github.com/Bcardoso2/frigo-galeno-api/internal/repository"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CriarUsuario(ctx context.Context, req dto.CriarUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, incluirInativos bool) ([]dto.UsuarioResponse, error)
	AtualizarUsuario(ctx context.Context, id uuid.UUID, req dto.AtualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	DesativarUsuario(ctx context.Context, id uuid.UUID) error
	ReativarUsuario(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByLogin(ctx, req.Login)
	if err != nil {
		return nil, ErrCredenciaisInvalidas
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredenciaisInvalidas
	}
	return s.montarLoginResponse(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrCredenciaisInvalidas
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrCredenciaisInvalidas
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrCredenciaisInvalidas
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrCredenciaisInvalidas
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Ativo {
		return nil, ErrCredenciaisInvalidas
	}
	return s.montarLoginResponse(user)
}

func (s *authService) CriarUsuario(ctx context.Context, req dto.CriarUsuarioRequest) (*dto.UsuarioResponse, error) {
	if _, err := s.repo.FindByLogin(ctx, req.Login); err == nil {
		return nil, ErrEntradaInvalida
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Login:        req.Login,
		Nome:         req.Nome,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Ativo:        true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := usuarioResponse(user)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context, incluirInativos bool) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx, incluirInativos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = usuarioResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) AtualizarUsuario(ctx context.Context, id uuid.UUID, req dto.AtualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrUsuarioNaoEncontrado
	}
	if req.Nome != nil {
		user.Nome = *req.Nome
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), 12)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := usuarioResponse(user)
	return &resp, nil
}

func (s *authService) DesativarUsuario(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *authService) ReativarUsuario(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reativar(ctx, id)
}

func (s *authService) montarLoginResponse(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         usuarioResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"login":   user.Login,
		"role":    user.Role,
		"exp":     time.Now().Add(duration).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func usuarioResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:    u.ID.String(),
		Login: u.Login,
		Nome:  u.Nome,
		Email: u.Email,
		Role:  u.Role,
		Ativo: u.Ativo,
	}
}
