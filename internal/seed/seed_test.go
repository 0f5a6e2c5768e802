package seed

import (
	"context"
	"testing"

	"github.com/Berdoom/Nidec-01/internal/dto"
	"github.com/Berdoom/Nidec-01/internal/model"
	"github.com/Berdoom/Nidec-01/internal/repository"
	"github.com/Berdoom/Nidec-01/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeRolRepo is an in-memory RolRepository for seeding tests.
type fakeRolRepo struct {
	roles    []*model.Rol
	permisos []*model.Permiso
}

func (r *fakeRolRepo) Create(_ context.Context, rol *model.Rol) error {
	r.roles = append(r.roles, rol)
	return nil
}

func (r *fakeRolRepo) Update(_ context.Context, rol *model.Rol) error {
	for i, existing := range r.roles {
		if existing.ID == rol.ID {
			r.roles[i] = rol
		}
	}
	return nil
}

func (r *fakeRolRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Rol, error) {
	for _, rol := range r.roles {
		if rol.ID == id {
			return rol, nil
		}
	}
	return nil, nil
}

func (r *fakeRolRepo) FindByNombre(_ context.Context, nombre string) (*model.Rol, error) {
	for _, rol := range r.roles {
		if rol.Nombre == nombre {
			return rol, nil
		}
	}
	return nil, nil
}

func (r *fakeRolRepo) FindPorIDs(_ context.Context, ids []uuid.UUID) ([]model.Rol, error) {
	var out []model.Rol
	for _, id := range ids {
		for _, rol := range r.roles {
			if rol.ID == id {
				out = append(out, *rol)
			}
		}
	}
	return out, nil
}

func (r *fakeRolRepo) List(_ context.Context) ([]model.Rol, error) {
	out := make([]model.Rol, len(r.roles))
	for i, rol := range r.roles {
		out[i] = *rol
	}
	return out, nil
}

func (r *fakeRolRepo) Delete(_ context.Context, id uuid.UUID) error {
	var keep []*model.Rol
	for _, rol := range r.roles {
		if rol.ID != id {
			keep = append(keep, rol)
		}
	}
	r.roles = keep
	return nil
}

func (r *fakeRolRepo) ReplacePermisos(_ context.Context, rol *model.Rol, permisos []model.Permiso) error {
	for _, existing := range r.roles {
		if existing.ID == rol.ID {
			existing.Permisos = permisos
		}
	}
	return nil
}

func (r *fakeRolRepo) ReplaceVisibles(_ context.Context, rol *model.Rol, visibles []*model.Rol) error {
	for _, existing := range r.roles {
		if existing.ID == rol.ID {
			existing.Visibles = visibles
		}
	}
	return nil
}

func (r *fakeRolRepo) SavePermiso(_ context.Context, p *model.Permiso) error {
	r.permisos = append(r.permisos, p)
	return nil
}

func (r *fakeRolRepo) ListPermisos(_ context.Context) ([]model.Permiso, error) {
	out := make([]model.Permiso, len(r.permisos))
	for i, p := range r.permisos {
		out[i] = *p
	}
	return out, nil
}

func (r *fakeRolRepo) FindPermisoPorNombre(_ context.Context, nombre string) (*model.Permiso, error) {
	for _, p := range r.permisos {
		if p.Nombre == nombre {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeRolRepo) FindPermisosPorIDs(_ context.Context, ids []uuid.UUID) ([]model.Permiso, error) {
	var out []model.Permiso
	for _, id := range ids {
		for _, p := range r.permisos {
			if p.ID == id {
				out = append(out, *p)
			}
		}
	}
	return out, nil
}

var _ repository.RolRepository = (*fakeRolRepo)(nil)

type fakeTurnoRepo struct {
	turnos []*model.Turno
}

func (r *fakeTurnoRepo) Create(_ context.Context, t *model.Turno) error {
	r.turnos = append(r.turnos, t)
	return nil
}

func (r *fakeTurnoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Turno, error) {
	for _, t := range r.turnos {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTurnoRepo) FindByNombre(_ context.Context, nombre string) (*model.Turno, error) {
	for _, t := range r.turnos {
		if t.Nombre == nombre {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTurnoRepo) List(_ context.Context) ([]model.Turno, error) {
	out := make([]model.Turno, len(r.turnos))
	for i, t := range r.turnos {
		out[i] = *t
	}
	return out, nil
}

func (r *fakeTurnoRepo) Delete(_ context.Context, id uuid.UUID) error {
	var keep []*model.Turno
	for _, t := range r.turnos {
		if t.ID != id {
			keep = append(keep, t)
		}
	}
	r.turnos = keep
	return nil
}

var _ repository.TurnoRepository = (*fakeTurnoRepo)(nil)

type fakeUsuarioRepo struct {
	usuarios []*model.Usuario
}

func (r *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	r.usuarios = append(r.usuarios, u)
	return nil
}

func (r *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUsuarioRepo) List(_ context.Context, _ dto.UsuarioFiltro) ([]model.Usuario, error) {
	out := make([]model.Usuario, len(r.usuarios))
	for i, u := range r.usuarios {
		out[i] = *u
	}
	return out, nil
}

func (r *fakeUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	for i, existing := range r.usuarios {
		if existing.ID == u.ID {
			r.usuarios[i] = u
		}
	}
	return nil
}

func (r *fakeUsuarioRepo) Delete(_ context.Context, id uuid.UUID) error {
	var keep []*model.Usuario
	for _, u := range r.usuarios {
		if u.ID != id {
			keep = append(keep, u)
		}
	}
	r.usuarios = keep
	return nil
}

func (r *fakeUsuarioRepo) CountByRol(_ context.Context, rolID uuid.UUID) (int64, error) {
	var n int64
	for _, u := range r.usuarios {
		if u.RolID == rolID {
			n++
		}
	}
	return n, nil
}

func (r *fakeUsuarioRepo) CountByTurno(_ context.Context, turnoID uuid.UUID) (int64, error) {
	var n int64
	for _, u := range r.usuarios {
		if u.TurnoID != nil && *u.TurnoID == turnoID {
			n++
		}
	}
	return n, nil
}

var _ repository.UsuarioRepository = (*fakeUsuarioRepo)(nil)

// fakeProgramaRepo implements only what seeding touches; the rest of the
// interface returns zero values.
type fakeProgramaRepo struct {
	columnas []*model.Columna
}

func (r *fakeProgramaRepo) DB() *gorm.DB { return nil }

func (r *fakeProgramaRepo) ListOrdenes(_ context.Context, _ string, _ dto.OrdenFiltro) ([]model.Orden, int64, error) {
	return nil, 0, nil
}

func (r *fakeProgramaRepo) FindOrdenPorID(_ context.Context, _ uuid.UUID) (*model.Orden, error) {
	return nil, nil
}

func (r *fakeProgramaRepo) FindOrdenPorClave(_ context.Context, _, _ string) (*model.Orden, error) {
	return nil, nil
}

func (r *fakeProgramaRepo) ClavesRepetidas(_ context.Context, _ string) (map[string]bool, map[string]bool, error) {
	return nil, nil, nil
}

func (r *fakeProgramaRepo) CreateOrden(_ *gorm.DB, _ *model.Orden) error        { return nil }
func (r *fakeProgramaRepo) UpdateOrden(_ context.Context, _ *model.Orden) error { return nil }
func (r *fakeProgramaRepo) DeleteOrden(_ context.Context, _ uuid.UUID) error    { return nil }

func (r *fakeProgramaRepo) ListColumnas(_ context.Context, programa string) ([]model.Columna, error) {
	var out []model.Columna
	for _, c := range r.columnas {
		if c.Programa == programa {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeProgramaRepo) FindColumnaPorID(_ context.Context, _ uuid.UUID) (*model.Columna, error) {
	return nil, nil
}

func (r *fakeProgramaRepo) FindColumnaPorNombre(_ context.Context, _, _ string) (*model.Columna, error) {
	return nil, nil
}

func (r *fakeProgramaRepo) CreateColumna(_ context.Context, c *model.Columna) error {
	r.columnas = append(r.columnas, c)
	return nil
}

func (r *fakeProgramaRepo) UpdateColumna(_ context.Context, _ *model.Columna) error { return nil }
func (r *fakeProgramaRepo) DeleteColumna(_ context.Context, _ uuid.UUID) error      { return nil }

func (r *fakeProgramaRepo) MaxOrdenColumna(_ context.Context, _ string) (int, error) { return 0, nil }

func (r *fakeProgramaRepo) FindCelda(_ *gorm.DB, _, _ uuid.UUID) (*model.Celda, error) {
	return nil, nil
}

func (r *fakeProgramaRepo) SaveCelda(_ *gorm.DB, _ *model.Celda) error { return nil }
func (r *fakeProgramaRepo) DeleteCelda(_ *gorm.DB, _ uuid.UUID) error  { return nil }

var _ repository.ProgramaRepository = (*fakeProgramaRepo)(nil)

func buildSeeder() (*Seeder, *fakeUsuarioRepo, *fakeRolRepo, *fakeTurnoRepo, *fakeProgramaRepo) {
	usuarios := &fakeUsuarioRepo{}
	roles := &fakeRolRepo{}
	turnos := &fakeTurnoRepo{}
	programas := &fakeProgramaRepo{}
	return New(usuarios, roles, turnos, programas), usuarios, roles, turnos, programas
}

func TestRun_RolesSuperusuario(t *testing.T) {
	seeder, _, roles, _, _ := buildSeeder()
	require.NoError(t, seeder.Run(context.Background()))

	for nombre, esperado := range map[string]bool{
		"ADMIN":       true,
		"ARTISAN":     true,
		"IHP":         false,
		"FHP":         false,
		"IHP_ROTORES": false,
	} {
		rol, err := roles.FindByNombre(context.Background(), nombre)
		require.NoError(t, err)
		require.NotNil(t, rol, nombre)
		assert.Equal(t, esperado, rol.Superusuario, nombre)
	}

	// El flag es lo que abre el borrado maestro: ADMIN no lo tiene en su
	// lista explícita pero lo pasa por ser superusuario.
	admin, _ := roles.FindByNombre(context.Background(), "ADMIN")
	snap := &service.Acceso{Superusuario: admin.Superusuario}
	for _, p := range admin.Permisos {
		snap.Permisos = append(snap.Permisos, p.Nombre)
	}
	assert.NotContains(t, snap.Permisos, model.PermBorradoMaestro)
	assert.True(t, snap.Tiene(model.PermBorradoMaestro))
}

func TestRun_RestauraFlagManipulado(t *testing.T) {
	seeder, _, roles, _, _ := buildSeeder()
	require.NoError(t, seeder.Run(context.Background()))

	admin, _ := roles.FindByNombre(context.Background(), "ADMIN")
	admin.Superusuario = false
	ihp, _ := roles.FindByNombre(context.Background(), "IHP")
	ihp.Superusuario = true

	require.NoError(t, seeder.Run(context.Background()))
	assert.True(t, admin.Superusuario)
	assert.False(t, ihp.Superusuario)
}

func TestRun_EsIdempotente(t *testing.T) {
	seeder, usuarios, roles, turnos, programas := buildSeeder()
	require.NoError(t, seeder.Run(context.Background()))
	require.NoError(t, seeder.Run(context.Background()))

	assert.Len(t, roles.roles, len(rolesBase))
	assert.Len(t, roles.permisos, len(model.CatalogoPermisos))
	assert.Len(t, turnos.turnos, len(turnosBase))
	assert.Len(t, programas.columnas, len(columnasRotores))
	assert.Len(t, usuarios.usuarios, 2) // admin + GCL1909
}

func TestRun_VisibilidadReflexivaYGlobal(t *testing.T) {
	seeder, _, roles, _, _ := buildSeeder()
	require.NoError(t, seeder.Run(context.Background()))

	visibles := func(nombre string) []string {
		rol, _ := roles.FindByNombre(context.Background(), nombre)
		var out []string
		for _, v := range rol.Visibles {
			out = append(out, v.Nombre)
		}
		return out
	}

	assert.Contains(t, visibles("IHP"), "IHP")
	assert.ElementsMatch(t, rolesBase, visibles("ADMIN"))
	assert.ElementsMatch(t, rolesBase, visibles("ARTISAN"))
	assert.ElementsMatch(t, []string{"IHP_ROTORES", "IHP", "PROGRAMA_ROTORES"}, visibles("IHP_ROTORES"))
}
