package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Berdoom/Nidec-01/internal/model"
	"github.com/Berdoom/Nidec-01/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secretoPrueba = "secreto-de-prueba"

// stubAcceso resolves every username to a fixed snapshot.
type stubAcceso struct {
	snap *service.Acceso
	err  error
}

func (s *stubAcceso) Resolver(_ context.Context, _ string) (*service.Acceso, error) {
	return s.snap, s.err
}
func (s *stubAcceso) Invalidar(_ context.Context, _ ...string) {}
func (s *stubAcceso) InvalidarTodo(_ context.Context)          {}

func tokenPara(t *testing.T, username string, exp time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id":  "11111111-1111-1111-1111-111111111111",
		"username": username,
		"exp":      time.Now().Add(exp).Unix(),
		"iat":      time.Now().Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretoPrueba))
	require.NoError(t, err)
	return tok
}

func routerProtegido(acceso service.AccesoService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWTAuth(secretoPrueba, acceso)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"usuario": GetAcceso(c).Username})
	})
	r.GET("/protegido", handlers...)
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_SinToken(t *testing.T) {
	r := routerProtegido(&stubAcceso{})
	w := doGet(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_TokenValido(t *testing.T) {
	snap := &service.Acceso{Username: "operador1", Permisos: []string{model.PermCaptura}}
	r := routerProtegido(&stubAcceso{snap: snap})

	w := doGet(r, tokenPara(t, "operador1", time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "operador1")
}

func TestJWTAuth_TokenExpirado(t *testing.T) {
	r := routerProtegido(&stubAcceso{snap: &service.Acceso{Username: "operador1"}})
	w := doGet(r, tokenPara(t, "operador1", -time.Minute))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_UsuarioEliminado(t *testing.T) {
	// Token firmado y vigente, pero el usuario ya no existe: se rechaza como
	// cualquier token inválido.
	r := routerProtegido(&stubAcceso{err: service.ErrUsuarioNoExiste})
	w := doGet(r, tokenPara(t, "exempleado", time.Hour))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequirePermiso(t *testing.T) {
	snap := &service.Acceso{Username: "operador1", Permisos: []string{model.PermCaptura}}
	r := routerProtegido(&stubAcceso{snap: snap}, RequirePermiso(model.PermUsersManage))
	w := doGet(r, tokenPara(t, "operador1", time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)

	r = routerProtegido(&stubAcceso{snap: snap}, RequirePermiso(model.PermCaptura))
	w = doGet(r, tokenPara(t, "operador1", time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermiso_Superusuario(t *testing.T) {
	snap := &service.Acceso{Username: "GCL1909", Superusuario: true}
	r := routerProtegido(&stubAcceso{snap: snap}, RequirePermiso(model.PermBorradoMaestro))
	w := doGet(r, tokenPara(t, "GCL1909", time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAlguno(t *testing.T) {
	snap := &service.Acceso{Username: "operador1", Permisos: []string{model.PermRegistro}}
	r := routerProtegido(&stubAcceso{snap: snap}, RequireAlguno(model.PermCaptura, model.PermRegistro))
	w := doGet(r, tokenPara(t, "operador1", time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)

	r = routerProtegido(&stubAcceso{snap: snap}, RequireAlguno(model.PermUsersManage, model.PermRolesManage))
	w = doGet(r, tokenPara(t, "operador1", time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
