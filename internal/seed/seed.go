// Package seed initializes the catalog data the application assumes present:
// permissions, base roles, shifts, default users and the Rotores board
// columns. Every step is idempotent, so it runs on each startup.
package seed

import (
	"context"
	"fmt"

	"github.com/Berdoom/Nidec-01/internal/model"
	"github.com/Berdoom/Nidec-01/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// Base roles. ADMIN and ARTISAN carry the superuser flag; IHP_ROTORES is the
// combined role for the IHP crew that also runs the Rotores board.
var rolesBase = []string{"ADMIN", "IHP", "FHP", "PROGRAMA_LM", "PROGRAMA_ROTORES", "ARTISAN", "IHP_ROTORES"}

// rolesSuper bypass every permission check via Rol.Superusuario.
var rolesSuper = map[string]bool{"ADMIN": true, "ARTISAN": true}

var turnosBase = []string{"Turno A", "Turno B", "Turno C", model.TurnoNA}

// permisosPorRol is re-applied on every boot so the base roles always carry
// / their intended permissions, even after manual meddling. ARTISAN is absent:
// its Superusuario flag makes explicit grants redundant. ADMIN also carries
// the flag; its list exists so the permission screens show something concrete.
var permisosPorRol = map[string][]string{
	"ADMIN": {
		model.PermAdminAccess, model.PermDashboardAdmin, model.PermDashboardGroup,
		model.PermCaptura, model.PermRegistro, model.PermReportes,
		model.PermLMView, model.PermLMEdit, model.PermLMAdmin,
		model.PermRotoresView, model.PermRotoresEdit, model.PermRotoresAdmin,
		model.PermUsersManage, model.PermRolesManage, model.PermLogsView,
		model.PermActionsCenter,
	},
	"IHP": {
		model.PermDashboardGroup, model.PermCaptura, model.PermRegistro,
		model.PermReportes, model.PermLMView, model.PermRotoresView,
	},
	"FHP": {
		model.PermDashboardGroup, model.PermCaptura, model.PermRegistro,
		model.PermReportes, model.PermLMView, model.PermRotoresView,
	},
	"PROGRAMA_LM":      {model.PermLMView, model.PermLMEdit},
	"PROGRAMA_ROTORES": {model.PermRotoresView, model.PermRotoresEdit},
	"IHP_ROTORES": {
		model.PermDashboardGroup, model.PermCaptura, model.PermRegistro,
		model.PermReportes, model.PermRotoresView, model.PermRotoresEdit,
	},
}

var visiblesPorRol = map[string][]string{
	"IHP_ROTORES": {"IHP", "PROGRAMA_ROTORES"},
}

var columnasRotores = []string{"Rotor", "Lamina", "Flecha", "Comentarios"}

type Seeder struct {
	usuarios  repository.UsuarioRepository
	roles     repository.RolRepository
	turnos    repository.TurnoRepository
	programas repository.ProgramaRepository
}

func New(
	usuarios repository.UsuarioRepository,
	roles repository.RolRepository,
	turnos repository.TurnoRepository,
	programas repository.ProgramaRepository,
) *Seeder {
	return &Seeder{usuarios: usuarios, roles: roles, turnos: turnos, programas: programas}
}

func (s *Seeder) Run(ctx context.Context) error {
	if err := s.permisos(ctx); err != nil {
		return fmt.Errorf("seed permisos: %w", err)
	}
	if err := s.rolesYTurnos(ctx); err != nil {
		return fmt.Errorf("seed roles y turnos: %w", err)
	}
	if err := s.asignaciones(ctx); err != nil {
		return fmt.Errorf("seed asignaciones: %w", err)
	}
	if err := s.visibilidad(ctx); err != nil {
		return fmt.Errorf("seed visibilidad: %w", err)
	}
	if err := s.columnas(ctx); err != nil {
		return fmt.Errorf("seed columnas rotores: %w", err)
	}
	if err := s.usuariosDefecto(ctx); err != nil {
		return fmt.Errorf("seed usuarios: %w", err)
	}
	log.Info().Msg("catálogo base verificado")
	return nil
}

func (s *Seeder) permisos(ctx context.Context) error {
	for nombre, descripcion := range model.CatalogoPermisos {
		existing, err := s.roles.FindPermisoPorNombre(ctx, nombre)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		p := &model.Permiso{ID: uuid.New(), Nombre: nombre, Descripcion: descripcion}
		if err := s.roles.SavePermiso(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) rolesYTurnos(ctx context.Context) error {
	for _, nombre := range rolesBase {
		existing, err := s.roles.FindByNombre(ctx, nombre)
		if err != nil {
			return err
		}
		super := rolesSuper[nombre]
		if existing == nil {
			rol := &model.Rol{ID: uuid.New(), Nombre: nombre, Superusuario: super}
			if err := s.roles.Create(ctx, rol); err != nil {
				return err
			}
			continue
		}
		if existing.Superusuario != super {
			existing.Superusuario = super
			if err := s.roles.Update(ctx, existing); err != nil {
				return err
			}
		}
	}
	for _, nombre := range turnosBase {
		existing, err := s.turnos.FindByNombre(ctx, nombre)
		if err != nil {
			return err
		}
		if existing == nil {
			if err := s.turnos.Create(ctx, &model.Turno{ID: uuid.New(), Nombre: nombre}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) asignaciones(ctx context.Context) error {
	for rolNombre, permisoNombres := range permisosPorRol {
		rol, err := s.roles.FindByNombre(ctx, rolNombre)
		if err != nil {
			return err
		}
		if rol == nil {
			continue
		}
		var permisos []model.Permiso
		for _, pn := range permisoNombres {
			p, err := s.roles.FindPermisoPorNombre(ctx, pn)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("permiso '%s' no sembrado", pn)
			}
			permisos = append(permisos, *p)
		}
		if err := s.roles.ReplacePermisos(ctx, rol, permisos); err != nil {
			return err
		}
	}
	return nil
}

// visibilidad: every role sees itself; ADMIN and ARTISAN see everything; the
// combined roles see their configured extras.
func (s *Seeder) visibilidad(ctx context.Context) error {
	todos, err := s.roles.List(ctx)
	if err != nil {
		return err
	}
	porNombre := make(map[string]*model.Rol, len(todos))
	for i := range todos {
		porNombre[todos[i].Nombre] = &todos[i]
	}

	for i := range todos {
		rol := &todos[i]
		quiere := map[string]bool{rol.Nombre: true}
		if rol.Nombre == "ADMIN" || rol.Nombre == "ARTISAN" {
			for _, r := range todos {
				quiere[r.Nombre] = true
			}
		}
		for _, extra := range visiblesPorRol[rol.Nombre] {
			quiere[extra] = true
		}

		// Conserva lo que un admin haya concedido a mano.
		for _, v := range rol.Visibles {
			quiere[v.Nombre] = true
		}

		var refs []*model.Rol
		for nombre := range quiere {
			if ref, ok := porNombre[nombre]; ok {
				refs = append(refs, ref)
			}
		}
		if err := s.roles.ReplaceVisibles(ctx, rol, refs); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) columnas(ctx context.Context) error {
	existentes, err := s.programas.ListColumnas(ctx, model.ProgramaRotores)
	if err != nil {
		return err
	}
	if len(existentes) > 0 {
		return nil
	}
	for i, nombre := range columnasRotores {
		col := &model.Columna{
			ID:               uuid.New(),
			Programa:         model.ProgramaRotores,
			Nombre:           nombre,
			Orden:            (i + 1) * 10,
			Ancho:            180,
			EditablePorGrupo: true,
		}
		if err := s.programas.CreateColumna(ctx, col); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) usuariosDefecto(ctx context.Context) error {
	na, err := s.turnos.FindByNombre(ctx, model.TurnoNA)
	if err != nil {
		return err
	}
	var naID *uuid.UUID
	if na != nil {
		naID = &na.ID
	}

	admin, err := s.roles.FindByNombre(ctx, "ADMIN")
	if err != nil {
		return err
	}
	if admin != nil {
		n, err := s.usuarios.CountByRol(ctx, admin.ID)
		if err != nil {
			return err
		}
		if n == 0 {
			if err := s.crearUsuario(ctx, "admin", "password", "Administrador", "System Admin", admin.ID, naID); err != nil {
				return err
			}
			log.Warn().Msg("usuario 'admin' por defecto creado — cambiar la contraseña")
		}
	}

	artisan, err := s.roles.FindByNombre(ctx, "ARTISAN")
	if err != nil {
		return err
	}
	if artisan != nil {
		existing, err := s.usuarios.FindByUsername(ctx, "GCL1909")
		if err != nil {
			return err
		}
		if existing == nil {
			if err := s.crearUsuario(ctx, "GCL1909", "1909", "Usuario Maestro", "Artisan", artisan.ID, naID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) crearUsuario(ctx context.Context, username, password, nombre, cargo string, rolID uuid.UUID, turnoID *uuid.UUID) error {
	existing, err := s.usuarios.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}
	return s.usuarios.Create(ctx, &model.Usuario{
		ID:             uuid.New(),
		Username:       username,
		PasswordHash:   string(hash),
		NombreCompleto: nombre,
		Cargo:          cargo,
		RolID:          rolID,
		TurnoID:        turnoID,
	})
}
