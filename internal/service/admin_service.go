package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Berdoom/Nidec-01/internal/dto"
	"github.com/Berdoom/Nidec-01/internal/model"
	"github.com/Berdoom/Nidec-01/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

type AdminService interface {
	ListarUsuarios(ctx context.Context, f dto.UsuarioFiltro) ([]dto.UsuarioResponse, error)
	CrearUsuario(ctx context.Context, actor dto.Actor, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ActualizarUsuario(ctx context.Context, actor dto.Actor, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	EliminarUsuario(ctx context.Context, actor dto.Actor, id uuid.UUID) error

	ListarRoles(ctx context.Context) ([]dto.RolResponse, error)
	CrearRol(ctx context.Context, actor dto.Actor, req dto.CrearRolRequest) (*dto.RolResponse, error)
	EliminarRol(ctx context.Context, actor dto.Actor, id uuid.UUID) error
	ListarPermisos(ctx context.Context) ([]dto.PermisoResponse, error)
	AsignarPermisos(ctx context.Context, actor dto.Actor, rolID uuid.UUID, req dto.AsignarPermisosRequest) (*dto.RolResponse, error)
	AsignarAccesos(ctx context.Context, actor dto.Actor, rolID uuid.UUID, req dto.AsignarAccesosRequest) (*dto.RolResponse, error)

	ListarTurnos(ctx context.Context) ([]dto.TurnoResponse, error)
	CrearTurno(ctx context.Context, actor dto.Actor, req dto.CrearTurnoRequest) (*dto.TurnoResponse, error)
	EliminarTurno(ctx context.Context, actor dto.Actor, id uuid.UUID) error
}

type adminService struct {
	usuarios repository.UsuarioRepository
	roles    repository.RolRepository
	turnos   repository.TurnoRepository
	acceso   AccesoService
	bitacora BitacoraService
}

func NewAdminService(
	usuarios repository.UsuarioRepository,
	roles repository.RolRepository,
	turnos repository.TurnoRepository,
	acceso AccesoService,
	bitacora BitacoraService,
) AdminService {
	return &adminService{
		usuarios: usuarios,
		roles:    roles,
		turnos:   turnos,
		acceso:   acceso,
		bitacora: bitacora,
	}
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

func (s *adminService) ListarUsuarios(ctx context.Context, f dto.UsuarioFiltro) ([]dto.UsuarioResponse, error) {
	users, err := s.usuarios.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		out[i] = usuarioToResponse(&users[i])
	}
	return out, nil
}

func (s *adminService) CrearUsuario(ctx context.Context, actor dto.Actor, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	username := strings.TrimSpace(req.Username)
	if existing, err := s.usuarios.FindByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: el usuario '%s' ya existe", ErrConflicto, username)
	}

	rol, turnoID, err := s.resolverRolYTurno(ctx, req.RolID, req.TurnoID)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		ID:             uuid.New(),
		Username:       username,
		PasswordHash:   string(hash),
		NombreCompleto: req.NombreCompleto,
		Cargo:          req.Cargo,
		RolID:          rol.ID,
		TurnoID:        turnoID,
	}
	if err := s.usuarios.Create(ctx, user); err != nil {
		return nil, err
	}
	user.Rol = rol

	s.bitacora.Registrar(ctx, actor, "Usuario creado",
		fmt.Sprintf("Usuario '%s' con rol '%s'", user.Username, rol.Nombre),
		"", model.CategoriaSistema, model.SeveridadInfo)

	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *adminService) ActualizarUsuario(ctx context.Context, actor dto.Actor, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.usuarios.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario", ErrNoEncontrado)
	}

	username := strings.TrimSpace(req.Username)
	if username != user.Username {
		if existing, err := s.usuarios.FindByUsername(ctx, username); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, fmt.Errorf("%w: el usuario '%s' ya existe", ErrConflicto, username)
		}
	}

	rol, turnoID, err := s.resolverRolYTurno(ctx, req.RolID, req.TurnoID)
	if err != nil {
		return nil, err
	}

	anterior := user.Username
	user.Username = username
	user.NombreCompleto = req.NombreCompleto
	user.Cargo = req.Cargo
	user.RolID = rol.ID
	user.TurnoID = turnoID
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.usuarios.Update(ctx, user); err != nil {
		return nil, err
	}
	// Releer con asociaciones para responder rol y turno actuales.
	user, err = s.usuarios.FindByID(ctx, id)
	if err != nil || user == nil {
		return nil, err
	}

	s.acceso.Invalidar(ctx, anterior, user.Username)
	s.bitacora.Registrar(ctx, actor, "Usuario actualizado",
		fmt.Sprintf("Usuario '%s'", user.Username),
		"", model.CategoriaSistema, model.SeveridadInfo)

	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *adminService) EliminarUsuario(ctx context.Context, actor dto.Actor, id uuid.UUID) error {
	user, err := s.usuarios.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: usuario", ErrNoEncontrado)
	}
	if user.Username == actor.Username {
		return fmt.Errorf("%w: no puedes eliminar tu propia cuenta", ErrProtegido)
	}
	if err := s.usuarios.Delete(ctx, id); err != nil {
		return err
	}
	s.acceso.Invalidar(ctx, user.Username)
	s.bitacora.Registrar(ctx, actor, "Usuario eliminado",
		fmt.Sprintf("Usuario '%s'", user.Username),
		"", model.CategoriaSistema, model.SeveridadWarning)
	return nil
}

func (s *adminService) resolverRolYTurno(ctx context.Context, rolID, turnoID string) (*model.Rol, *uuid.UUID, error) {
	rid, err := uuid.Parse(rolID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: rol_id", ErrInvalido)
	}
	rol, err := s.roles.FindByID(ctx, rid)
	if err != nil {
		return nil, nil, err
	}
	if rol == nil {
		return nil, nil, fmt.Errorf("%w: rol", ErrNoEncontrado)
	}

	var tid *uuid.UUID
	if turnoID != "" {
		parsed, err := uuid.Parse(turnoID)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: turno_id", ErrInvalido)
		}
		turno, err := s.turnos.FindByID(ctx, parsed)
		if err != nil {
			return nil, nil, err
		}
		if turno == nil {
			return nil, nil, fmt.Errorf("%w: turno", ErrNoEncontrado)
		}
		tid = &parsed
	}
	return rol, tid, nil
}

// ── Roles y permisos ──────────────────────────────────────────────────────────

func (s *adminService) ListarRoles(ctx context.Context) ([]dto.RolResponse, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RolResponse, len(roles))
	for i := range roles {
		n, err := s.usuarios.CountByRol(ctx, roles[i].ID)
		if err != nil {
			return nil, err
		}
		out[i] = rolToResponse(&roles[i], n)
	}
	return out, nil
}

func (s *adminService) CrearRol(ctx context.Context, actor dto.Actor, req dto.CrearRolRequest) (*dto.RolResponse, error) {
	nombre := strings.ToUpper(strings.TrimSpace(req.Nombre))
	if nombre == "" {
		return nil, fmt.Errorf("%w: nombre de rol vacío", ErrInvalido)
	}
	if existing, err := s.roles.FindByNombre(ctx, nombre); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: el rol '%s' ya existe", ErrConflicto, nombre)
	}

	rol := &model.Rol{ID: uuid.New(), Nombre: nombre}
	if err := s.roles.Create(ctx, rol); err != nil {
		return nil, err
	}
	// Todo rol se ve a sí mismo.
	if err := s.roles.ReplaceVisibles(ctx, rol, []*model.Rol{rol}); err != nil {
		return nil, err
	}
	rol.Visibles = []*model.Rol{rol}

	s.bitacora.Registrar(ctx, actor, "Rol creado", fmt.Sprintf("Rol '%s'", nombre),
		"", model.CategoriaSistema, model.SeveridadInfo)

	resp := rolToResponse(rol, 0)
	return &resp, nil
}

func (s *adminService) EliminarRol(ctx context.Context, actor dto.Actor, id uuid.UUID) error {
	rol, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if rol == nil {
		return fmt.Errorf("%w: rol", ErrNoEncontrado)
	}
	if model.RolesProtegidos[rol.Nombre] {
		return fmt.Errorf("%w: el rol '%s' no puede eliminarse", ErrProtegido, rol.Nombre)
	}
	n, err := s.usuarios.CountByRol(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: el rol '%s' tiene %d usuario(s) asignado(s)", ErrConflicto, rol.Nombre, n)
	}
	if err := s.roles.Delete(ctx, id); err != nil {
		return err
	}
	s.acceso.InvalidarTodo(ctx)
	s.bitacora.Registrar(ctx, actor, "Rol eliminado", fmt.Sprintf("Rol '%s'", rol.Nombre),
		"", model.CategoriaSistema, model.SeveridadWarning)
	return nil
}

func (s *adminService) ListarPermisos(ctx context.Context) ([]dto.PermisoResponse, error) {
	permisos, err := s.roles.ListPermisos(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PermisoResponse, len(permisos))
	for i, p := range permisos {
		out[i] = dto.PermisoResponse{ID: p.ID.String(), Nombre: p.Nombre, Descripcion: p.Descripcion}
	}
	return out, nil
}

func (s *adminService) AsignarPermisos(ctx context.Context, actor dto.Actor, rolID uuid.UUID, req dto.AsignarPermisosRequest) (*dto.RolResponse, error) {
	rol, err := s.roles.FindByID(ctx, rolID)
	if err != nil {
		return nil, err
	}
	if rol == nil {
		return nil, fmt.Errorf("%w: rol", ErrNoEncontrado)
	}

	ids, err := parseUUIDs(req.PermisoIDs)
	if err != nil {
		return nil, err
	}
	permisos, err := s.roles.FindPermisosPorIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(permisos) != len(ids) {
		return nil, fmt.Errorf("%w: permiso", ErrNoEncontrado)
	}
	if err := s.roles.ReplacePermisos(ctx, rol, permisos); err != nil {
		return nil, err
	}
	rol.Permisos = permisos

	s.acceso.InvalidarTodo(ctx)
	s.bitacora.Registrar(ctx, actor, "Permisos de rol actualizados",
		fmt.Sprintf("Rol '%s': %d permiso(s)", rol.Nombre, len(permisos)),
		"", model.CategoriaSeguridad, model.SeveridadInfo)

	n, err := s.usuarios.CountByRol(ctx, rol.ID)
	if err != nil {
		return nil, err
	}
	resp := rolToResponse(rol, n)
	return &resp, nil
}

// AsignarAccesos replaces a role's visibility list. The role itself is always
// re-added: a group must never stop seeing its own data.
func (s *adminService) AsignarAccesos(ctx context.Context, actor dto.Actor, rolID uuid.UUID, req dto.AsignarAccesosRequest) (*dto.RolResponse, error) {
	rol, err := s.roles.FindByID(ctx, rolID)
	if err != nil {
		return nil, err
	}
	if rol == nil {
		return nil, fmt.Errorf("%w: rol", ErrNoEncontrado)
	}

	ids, err := parseUUIDs(req.RolIDs)
	if err != nil {
		return nil, err
	}
	visibles, err := s.roles.FindPorIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(visibles) != len(ids) {
		return nil, fmt.Errorf("%w: rol visible", ErrNoEncontrado)
	}

	refs := make([]*model.Rol, 0, len(visibles)+1)
	verseASiMismo := false
	for i := range visibles {
		if visibles[i].ID == rol.ID {
			verseASiMismo = true
		}
		refs = append(refs, &visibles[i])
	}
	if !verseASiMismo {
		refs = append(refs, rol)
	}
	if err := s.roles.ReplaceVisibles(ctx, rol, refs); err != nil {
		return nil, err
	}
	rol.Visibles = refs

	s.acceso.InvalidarTodo(ctx)
	s.bitacora.Registrar(ctx, actor, "Accesos de rol actualizados",
		fmt.Sprintf("Rol '%s' ahora ve %d rol(es)", rol.Nombre, len(refs)),
		"", model.CategoriaSeguridad, model.SeveridadInfo)

	n, err := s.usuarios.CountByRol(ctx, rol.ID)
	if err != nil {
		return nil, err
	}
	resp := rolToResponse(rol, n)
	return &resp, nil
}

// ── Turnos ────────────────────────────────────────────────────────────────────

func (s *adminService) ListarTurnos(ctx context.Context) ([]dto.TurnoResponse, error) {
	turnos, err := s.turnos.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TurnoResponse, len(turnos))
	for i, t := range turnos {
		out[i] = dto.TurnoResponse{ID: t.ID.String(), Nombre: t.Nombre}
	}
	return out, nil
}

func (s *adminService) CrearTurno(ctx context.Context, actor dto.Actor, req dto.CrearTurnoRequest) (*dto.TurnoResponse, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return nil, fmt.Errorf("%w: nombre de turno vacío", ErrInvalido)
	}
	if existing, err := s.turnos.FindByNombre(ctx, nombre); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: el turno '%s' ya existe", ErrConflicto, nombre)
	}
	turno := &model.Turno{ID: uuid.New(), Nombre: nombre}
	if err := s.turnos.Create(ctx, turno); err != nil {
		return nil, err
	}
	s.bitacora.Registrar(ctx, actor, "Turno creado", fmt.Sprintf("Turno '%s'", nombre),
		"", model.CategoriaSistema, model.SeveridadInfo)
	return &dto.TurnoResponse{ID: turno.ID.String(), Nombre: turno.Nombre}, nil
}

func (s *adminService) EliminarTurno(ctx context.Context, actor dto.Actor, id uuid.UUID) error {
	turno, err := s.turnos.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if turno == nil {
		return fmt.Errorf("%w: turno", ErrNoEncontrado)
	}
	if turno.Nombre == model.TurnoNA {
		return fmt.Errorf("%w: el turno '%s' no puede eliminarse", ErrProtegido, model.TurnoNA)
	}
	n, err := s.usuarios.CountByTurno(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: el turno '%s' tiene %d usuario(s) asignado(s)", ErrConflicto, turno.Nombre, n)
	}
	if err := s.turnos.Delete(ctx, id); err != nil {
		return err
	}
	s.bitacora.Registrar(ctx, actor, "Turno eliminado", fmt.Sprintf("Turno '%s'", turno.Nombre),
		"", model.CategoriaSistema, model.SeveridadWarning)
	return nil
}

func rolToResponse(rol *model.Rol, usuarios int64) dto.RolResponse {
	resp := dto.RolResponse{
		ID:           rol.ID.String(),
		Nombre:       rol.Nombre,
		Superusuario: rol.Superusuario,
		Usuarios:     usuarios,
	}
	for _, p := range rol.Permisos {
		resp.Permisos = append(resp.Permisos, p.Nombre)
	}
	for _, v := range rol.Visibles {
		resp.Visibles = append(resp.Visibles, v.Nombre)
	}
	return resp
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]bool)
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("%w: id '%s'", ErrInvalido, r)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}
