package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Berdoom/Nidec-01/internal/apierror"
	"github.com/Berdoom/Nidec-01/internal/dto"
	"github.com/Berdoom/Nidec-01/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ClaimsKey = "claims"
	AccesoKey = "acceso"
)

// JWTClaims carry identity only. Permissions are deliberately absent: they are
// re-derived from the database on every request, so admin edits bite without
// waiting for tokens to expire.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token and resolves the caller's authorization
// snapshot. A token whose user no longer exists is rejected like any other
// invalid token.
func JWTAuth(secret string, acceso service.AccesoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}

		snap, err := acceso.Resolver(c.Request.Context(), claims.Username)
		if err != nil {
			if errors.Is(err, service.ErrUsuarioNoExiste) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(AccesoKey, snap)
		c.Next()
	}
}

// RequirePermiso rejects callers whose snapshot lacks the permission.
// Superuser roles pass implicitly via Acceso.Tiene.
func RequirePermiso(permiso string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetAcceso(c).Tiene(permiso) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
			return
		}
		c.Next()
	}
}

// RequireAlguno passes when the caller holds at least one of the permissions.
func RequireAlguno(permisos ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		a := GetAcceso(c)
		for _, p := range permisos {
			if a.Tiene(p) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
	}
}

// GetAcceso retrieves the authorization snapshot set by JWTAuth.
func GetAcceso(c *gin.Context) *service.Acceso {
	snap, _ := c.MustGet(AccesoKey).(*service.Acceso)
	return snap
}

// GetActor builds the audit identity of the current request.
func GetActor(c *gin.Context) dto.Actor {
	actor := dto.Actor{IP: c.ClientIP()}
	if snap, ok := c.Get(AccesoKey); ok {
		if a, ok := snap.(*service.Acceso); ok {
			actor.Username = a.Username
		}
	}
	return actor
}
