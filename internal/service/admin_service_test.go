package service

import (
	"context"
	"testing"

	"github.com/Berdoom/Nidec-01/internal/config"
	"github.com/Berdoom/Nidec-01/internal/dto"
	"github.com/Berdoom/Nidec-01/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adminFixture struct {
	svc      AdminService
	usuarios *stubUsuarioRepo
	roles    *stubRolRepo
	turnos   *stubTurnoRepo
	rolIHP   *model.Rol
	turnoA   *model.Turno
}

func buildAdminSvc() *adminFixture {
	usuarios := newStubUsuarioRepo()
	roles := newStubRolRepo()
	turnos := newStubTurnoRepo()
	bitacora, _ := nuevaBitacora()
	acceso := NewAccesoService(usuarios, nil, &config.Config{AccessCacheTTL: 300})

	rolIHP := &model.Rol{ID: uuid.New(), Nombre: "IHP"}
	roles.roles[rolIHP.ID] = rolIHP
	turnoA := &model.Turno{ID: uuid.New(), Nombre: "Turno A"}
	turnos.turnos[turnoA.ID] = turnoA

	return &adminFixture{
		svc:      NewAdminService(usuarios, roles, turnos, acceso, bitacora),
		usuarios: usuarios,
		roles:    roles,
		turnos:   turnos,
		rolIHP:   rolIHP,
		turnoA:   turnoA,
	}
}

func TestCrearUsuario(t *testing.T) {
	f := buildAdminSvc()

	resp, err := f.svc.CrearUsuario(context.Background(), actorPrueba, dto.CrearUsuarioRequest{
		Username:       "operador1",
		Password:       "clave123",
		NombreCompleto: "Operador Uno",
		Cargo:          "Supervisor",
		RolID:          f.rolIHP.ID.String(),
		TurnoID:        f.turnoA.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "operador1", resp.Username)
	assert.Equal(t, "IHP", resp.Rol)

	almacenado, _ := f.usuarios.FindByUsername(context.Background(), "operador1")
	require.NotNil(t, almacenado)
	assert.NotEqual(t, "clave123", almacenado.PasswordHash)
	assert.NotEmpty(t, almacenado.PasswordHash)
}

func TestCrearUsuario_Duplicado(t *testing.T) {
	f := buildAdminSvc()
	req := dto.CrearUsuarioRequest{
		Username: "operador1", Password: "clave123", NombreCompleto: "Op", Cargo: "Sup",
		RolID: f.rolIHP.ID.String(),
	}
	_, err := f.svc.CrearUsuario(context.Background(), actorPrueba, req)
	require.NoError(t, err)

	_, err = f.svc.CrearUsuario(context.Background(), actorPrueba, req)
	assert.ErrorIs(t, err, ErrConflicto)
}

func TestCrearUsuario_RolInexistente(t *testing.T) {
	f := buildAdminSvc()
	_, err := f.svc.CrearUsuario(context.Background(), actorPrueba, dto.CrearUsuarioRequest{
		Username: "x", Password: "clave123", NombreCompleto: "X", Cargo: "X",
		RolID: uuid.NewString(),
	})
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestEliminarUsuario_PropiaCuenta(t *testing.T) {
	f := buildAdminSvc()
	resp, err := f.svc.CrearUsuario(context.Background(), actorPrueba, dto.CrearUsuarioRequest{
		Username: actorPrueba.Username, Password: "clave123", NombreCompleto: "Yo", Cargo: "Admin",
		RolID: f.rolIHP.ID.String(),
	})
	require.NoError(t, err)

	err = f.svc.EliminarUsuario(context.Background(), actorPrueba, uuid.MustParse(resp.ID))
	assert.ErrorIs(t, err, ErrProtegido)
}

func TestCrearRol_NormalizaYSeVeASiMismo(t *testing.T) {
	f := buildAdminSvc()

	resp, err := f.svc.CrearRol(context.Background(), actorPrueba, dto.CrearRolRequest{Nombre: "  calidad "})
	require.NoError(t, err)
	assert.Equal(t, "CALIDAD", resp.Nombre)
	assert.Contains(t, resp.Visibles, "CALIDAD")

	_, err = f.svc.CrearRol(context.Background(), actorPrueba, dto.CrearRolRequest{Nombre: "CALIDAD"})
	assert.ErrorIs(t, err, ErrConflicto)
}

func TestEliminarRol_Protegido(t *testing.T) {
	f := buildAdminSvc()
	err := f.svc.EliminarRol(context.Background(), actorPrueba, f.rolIHP.ID)
	assert.ErrorIs(t, err, ErrProtegido)
}

func TestEliminarRol_ConUsuarios(t *testing.T) {
	f := buildAdminSvc()
	resp, err := f.svc.CrearRol(context.Background(), actorPrueba, dto.CrearRolRequest{Nombre: "CALIDAD"})
	require.NoError(t, err)
	rolID := uuid.MustParse(resp.ID)

	_, err = f.svc.CrearUsuario(context.Background(), actorPrueba, dto.CrearUsuarioRequest{
		Username: "inspector", Password: "clave123", NombreCompleto: "I", Cargo: "I",
		RolID: resp.ID,
	})
	require.NoError(t, err)

	err = f.svc.EliminarRol(context.Background(), actorPrueba, rolID)
	assert.ErrorIs(t, err, ErrConflicto)
}

func TestEliminarRol_SinUsuarios(t *testing.T) {
	f := buildAdminSvc()
	resp, err := f.svc.CrearRol(context.Background(), actorPrueba, dto.CrearRolRequest{Nombre: "TEMPORAL"})
	require.NoError(t, err)

	err = f.svc.EliminarRol(context.Background(), actorPrueba, uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.NotContains(t, f.roles.roles, uuid.MustParse(resp.ID))
}

func TestAsignarPermisos(t *testing.T) {
	f := buildAdminSvc()
	p1 := &model.Permiso{ID: uuid.New(), Nombre: model.PermCaptura}
	p2 := &model.Permiso{ID: uuid.New(), Nombre: model.PermReportes}
	f.roles.permisos[p1.ID] = p1
	f.roles.permisos[p2.ID] = p2

	resp, err := f.svc.AsignarPermisos(context.Background(), actorPrueba, f.rolIHP.ID,
		dto.AsignarPermisosRequest{PermisoIDs: []string{p1.ID.String(), p2.ID.String()}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{model.PermCaptura, model.PermReportes}, resp.Permisos)
}

func TestAsignarPermisos_IDDesconocido(t *testing.T) {
	f := buildAdminSvc()
	_, err := f.svc.AsignarPermisos(context.Background(), actorPrueba, f.rolIHP.ID,
		dto.AsignarPermisosRequest{PermisoIDs: []string{uuid.NewString()}})
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestAsignarAccesos_SiempreSeVeASiMismo(t *testing.T) {
	f := buildAdminSvc()
	otro := &model.Rol{ID: uuid.New(), Nombre: "FHP"}
	f.roles.roles[otro.ID] = otro

	// La petición sólo nombra a FHP; IHP se re-agrega solo.
	resp, err := f.svc.AsignarAccesos(context.Background(), actorPrueba, f.rolIHP.ID,
		dto.AsignarAccesosRequest{RolIDs: []string{otro.ID.String()}})
	require.NoError(t, err)
	assert.Contains(t, resp.Visibles, "FHP")
	assert.Contains(t, resp.Visibles, "IHP")
}

func TestCrearTurno_Duplicado(t *testing.T) {
	f := buildAdminSvc()
	_, err := f.svc.CrearTurno(context.Background(), actorPrueba, dto.CrearTurnoRequest{Nombre: "Turno A"})
	assert.ErrorIs(t, err, ErrConflicto)

	resp, err := f.svc.CrearTurno(context.Background(), actorPrueba, dto.CrearTurnoRequest{Nombre: "Turno D"})
	require.NoError(t, err)
	assert.Equal(t, "Turno D", resp.Nombre)
}

func TestEliminarTurno_NAProtegido(t *testing.T) {
	f := buildAdminSvc()
	na := &model.Turno{ID: uuid.New(), Nombre: model.TurnoNA}
	f.turnos.turnos[na.ID] = na

	err := f.svc.EliminarTurno(context.Background(), actorPrueba, na.ID)
	assert.ErrorIs(t, err, ErrProtegido)
}

func TestEliminarTurno_EnUso(t *testing.T) {
	f := buildAdminSvc()
	_, err := f.svc.CrearUsuario(context.Background(), actorPrueba, dto.CrearUsuarioRequest{
		Username: "operador1", Password: "clave123", NombreCompleto: "Op", Cargo: "Sup",
		RolID: f.rolIHP.ID.String(), TurnoID: f.turnoA.ID.String(),
	})
	require.NoError(t, err)

	err = f.svc.EliminarTurno(context.Background(), actorPrueba, f.turnoA.ID)
	assert.ErrorIs(t, err, ErrConflicto)
}

func TestActualizarUsuario_CambioDeUsernameDuplicado(t *testing.T) {
	f := buildAdminSvc()
	_, err := f.svc.CrearUsuario(context.Background(), actorPrueba, dto.CrearUsuarioRequest{
		Username: "operador1", Password: "clave123", NombreCompleto: "Op1", Cargo: "Sup",
		RolID: f.rolIHP.ID.String(),
	})
	require.NoError(t, err)
	resp2, err := f.svc.CrearUsuario(context.Background(), actorPrueba, dto.CrearUsuarioRequest{
		Username: "operador2", Password: "clave123", NombreCompleto: "Op2", Cargo: "Sup",
		RolID: f.rolIHP.ID.String(),
	})
	require.NoError(t, err)

	_, err = f.svc.ActualizarUsuario(context.Background(), actorPrueba, uuid.MustParse(resp2.ID),
		dto.ActualizarUsuarioRequest{Username: "operador1", RolID: f.rolIHP.ID.String()})
	assert.ErrorIs(t, err, ErrConflicto)
}
