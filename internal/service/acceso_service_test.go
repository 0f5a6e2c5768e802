package service

import (
	"context"
	"testing"

	"github.com/Berdoom/Nidec-01/internal/config"
	"github.com/Berdoom/Nidec-01/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUsuarioConRol(repo *stubUsuarioRepo, username string, rol *model.Rol, turno *model.Turno) *model.Usuario {
	u := &model.Usuario{
		ID:       uuid.New(),
		Username: username,
		RolID:    rol.ID,
		Rol:      rol,
	}
	if turno != nil {
		u.TurnoID = &turno.ID
		u.Turno = turno
	}
	repo.usuarios[u.ID] = u
	return u
}

func TestResolver_SnapshotDesdeRol(t *testing.T) {
	usuarios := newStubUsuarioRepo()
	visible := &model.Rol{ID: uuid.New(), Nombre: "IHP"}
	rol := &model.Rol{
		ID:     uuid.New(),
		Nombre: "IHP_ROTORES",
		Permisos: []model.Permiso{
			{ID: uuid.New(), Nombre: model.PermCaptura},
			{ID: uuid.New(), Nombre: model.PermDashboardGroup},
		},
		Visibles: []*model.Rol{visible},
	}
	turno := &model.Turno{ID: uuid.New(), Nombre: "Turno B"}
	seedUsuarioConRol(usuarios, "operador1", rol, turno)

	svc := NewAccesoService(usuarios, nil, &config.Config{AccessCacheTTL: 300})
	a, err := svc.Resolver(context.Background(), "operador1")
	require.NoError(t, err)

	assert.Equal(t, "IHP_ROTORES", a.Rol)
	assert.Equal(t, "Turno B", a.Turno)
	assert.False(t, a.Superusuario)
	assert.True(t, a.Tiene(model.PermCaptura))
	assert.False(t, a.Tiene(model.PermBorradoMaestro))
	assert.True(t, a.PuedeVer("IHP"))
	assert.False(t, a.PuedeVer("FHP"))
}

func TestResolver_UsuarioInexistente(t *testing.T) {
	svc := NewAccesoService(newStubUsuarioRepo(), nil, &config.Config{AccessCacheTTL: 300})
	_, err := svc.Resolver(context.Background(), "fantasma")
	assert.ErrorIs(t, err, ErrUsuarioNoExiste)
}

func TestAcceso_SuperusuarioPasaTodo(t *testing.T) {
	a := &Acceso{Username: "GCL1909", Rol: "ARTISAN", Superusuario: true}

	// Sin permisos ni visibilidades explícitas, el superusuario pasa igual.
	assert.True(t, a.Tiene(model.PermBorradoMaestro))
	assert.True(t, a.Tiene(model.PermUsersManage))
	assert.True(t, a.PuedeVer("IHP"))
	assert.True(t, a.PuedeVer("FHP"))
	assert.Equal(t, model.Grupos, a.GruposVisibles(model.Grupos))
}

func TestGruposVisibles_PreservaOrden(t *testing.T) {
	a := &Acceso{Visibles: []string{"FHP"}}
	assert.Equal(t, []string{"FHP"}, a.GruposVisibles(model.Grupos))

	a = &Acceso{Visibles: []string{"FHP", "IHP"}}
	// El orden del catálogo manda, no el de la lista del rol.
	assert.Equal(t, []string{"IHP", "FHP"}, a.GruposVisibles(model.Grupos))
}

func TestInvalidar_SinRedisNoFalla(t *testing.T) {
	svc := NewAccesoService(newStubUsuarioRepo(), nil, &config.Config{AccessCacheTTL: 300})
	// Sin cliente redis ambas invalidaciones son no-ops seguras.
	svc.Invalidar(context.Background(), "alguien")
	svc.InvalidarTodo(context.Background())
}
