package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Berdoom/Nidec-01/internal/config"
	"github.com/Berdoom/Nidec-01/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Acceso is the authorization snapshot of one user, derived from the current
// database state of their role. Handlers check this snapshot — never the JWT
// claims — so permission and visibility edits take effect on the next request
// (bounded by the snapshot TTL), not at the next login.
type Acceso struct {
	UserID       string   `json:"user_id"`
	Username     string   `json:"username"`
	Rol          string   `json:"rol"`
	Superusuario bool     `json:"superusuario"`
	Permisos     []string `json:"permisos"`
	Visibles     []string `json:"visibles"`
	Turno        string   `json:"turno"`
}

// Tiene reports whether the user holds a permission. Superuser roles pass
// every check.
func (a *Acceso) Tiene(permiso string) bool {
	if a.Superusuario {
		return true
	}
	for _, p := range a.Permisos {
		if p == permiso {
			return true
		}
	}
	return false
}

// PuedeVer reports whether the user may see the production data of a group
// role (IHP, FHP, ...).
func (a *Acceso) PuedeVer(grupo string) bool {
	if a.Superusuario {
		return true
	}
	for _, v := range a.Visibles {
		if v == grupo {
			return true
		}
	}
	return false
}

// GruposVisibles filters the known production groups down to what the user
// may see, preserving catalog order.
func (a *Acceso) GruposVisibles(grupos []string) []string {
	var out []string
	for _, g := range grupos {
		if a.PuedeVer(g) {
			out = append(out, g)
		}
	}
	return out
}

var ErrUsuarioNoExiste = errors.New("usuario no existe")

type AccesoService interface {
	Resolver(ctx context.Context, username string) (*Acceso, error)
	Invalidar(ctx context.Context, usernames ...string)
	InvalidarTodo(ctx context.Context)
}

type accesoService struct {
	usuarios repository.UsuarioRepository
	rdb      *redis.Client
	ttl      time.Duration
}

// NewAccesoService builds the snapshot resolver. rdb may be nil (tests, or a
// deployment without redis); resolution then always hits the database.
func NewAccesoService(usuarios repository.UsuarioRepository, rdb *redis.Client, cfg *config.Config) AccesoService {
	return &accesoService{
		usuarios: usuarios,
		rdb:      rdb,
		ttl:      time.Duration(cfg.AccessCacheTTL) * time.Second,
	}
}

const accesoGenKey = "acceso:gen"

func (s *accesoService) generacion(ctx context.Context) int64 {
	if s.rdb == nil {
		return 0
	}
	gen, err := s.rdb.Get(ctx, accesoGenKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Msg("redis no disponible para snapshots de acceso")
	}
	return gen
}

func (s *accesoService) clave(ctx context.Context, username string) string {
	return fmt.Sprintf("acceso:v%d:%s", s.generacion(ctx), username)
}

func (s *accesoService) Resolver(ctx context.Context, username string) (*Acceso, error) {
	var key string
	if s.rdb != nil {
		key = s.clave(ctx, username)
		if raw, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var a Acceso
			if json.Unmarshal(raw, &a) == nil {
				return &a, nil
			}
		}
	}

	u, err := s.usuarios.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Rol == nil {
		return nil, ErrUsuarioNoExiste
	}

	a := &Acceso{
		UserID:       u.ID.String(),
		Username:     u.Username,
		Rol:          u.Rol.Nombre,
		Superusuario: u.Rol.Superusuario,
	}
	for _, p := range u.Rol.Permisos {
		a.Permisos = append(a.Permisos, p.Nombre)
	}
	for _, v := range u.Rol.Visibles {
		a.Visibles = append(a.Visibles, v.Nombre)
	}
	if u.Turno != nil {
		a.Turno = u.Turno.Nombre
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(a); err == nil {
			if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
				log.Warn().Err(err).Msg("no se pudo cachear el snapshot de acceso")
			}
		}
	}
	return a, nil
}

// Invalidar drops the cached snapshots of specific users, after a mutation
// that only affects them (user edited, role reassigned).
func (s *accesoService) Invalidar(ctx context.Context, usernames ...string) {
	if s.rdb == nil {
		return
	}
	for _, u := range usernames {
		if err := s.rdb.Del(ctx, s.clave(ctx, u)).Err(); err != nil {
			log.Warn().Err(err).Str("username", u).Msg("no se pudo invalidar snapshot de acceso")
		}
	}
}

// InvalidarTodo bumps the snapshot generation so every cached snapshot becomes
// unreachable at once. Role-level mutations (permissions, visibility, role
// deleted) use it because the affected user set is unknown.
func (s *accesoService) InvalidarTodo(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Incr(ctx, accesoGenKey).Err(); err != nil {
		log.Warn().Err(err).Msg("no se pudo invalidar los snapshots de acceso")
	}
}
