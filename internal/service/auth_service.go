package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Berdoom/Nidec-01/internal/config"
	"github.com/Berdoom/Nidec-01/internal/dto"
	"github.com/Berdoom/Nidec-01/internal/model"
	"github.com/Berdoom/Nidec-01/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrCredenciales is the single error every failed login path returns; the
// response never distinguishes unknown user from wrong password.
var ErrCredenciales = errors.New("usuario o contraseña incorrectos")

type AuthService interface {
	Login(ctx context.Context, actor dto.Actor, req dto.LoginRequest) (*dto.LoginResponse, error)
	Perfil(ctx context.Context, username string) (*dto.UsuarioResponse, error)
}

type authService struct {
	usuarios repository.UsuarioRepository
	bitacora BitacoraService
	cfg      *config.Config
}

func NewAuthService(usuarios repository.UsuarioRepository, bitacora BitacoraService, cfg *config.Config) AuthService {
	return &authService{usuarios: usuarios, bitacora: bitacora, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, actor dto.Actor, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.usuarios.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.bitacora.Registrar(ctx, actor,
			"Intento de inicio de sesión fallido",
			fmt.Sprintf("Usuario inexistente: '%s'", req.Username),
			"", model.CategoriaSeguridad, model.SeveridadWarning)
		return nil, ErrCredenciales
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.bitacora.Registrar(ctx, actor,
			"Intento de inicio de sesión fallido",
			fmt.Sprintf("Contraseña incorrecta para '%s'", req.Username),
			"", model.CategoriaSeguridad, model.SeveridadWarning)
		return nil, ErrCredenciales
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	s.bitacora.Registrar(ctx, dto.Actor{Username: user.Username, IP: actor.IP},
		"Inicio de sesión", "", "", model.CategoriaAutenticacion, model.SeveridadInfo)

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		User:        usuarioToResponse(user),
	}, nil
}

func (s *authService) Perfil(ctx context.Context, username string) (*dto.UsuarioResponse, error) {
	user, err := s.usuarios.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUsuarioNoExiste
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

// The token only carries identity. Authorization is re-derived per request
// from the database, so no permission claims are embedded here.
func (s *authService) generateToken(user *model.Usuario) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"exp":      time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	resp := dto.UsuarioResponse{
		ID:             u.ID.String(),
		Username:       u.Username,
		NombreCompleto: u.NombreCompleto,
		Cargo:          u.Cargo,
	}
	if u.Rol != nil {
		resp.Rol = u.Rol.Nombre
	}
	if u.Turno != nil {
		resp.Turno = u.Turno.Nombre
	}
	return resp
}
