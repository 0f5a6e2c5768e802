package router

import (
	"time"

	"github.com/Berdoom/Nidec-01/internal/config"
	"github.com/Berdoom/Nidec-01/internal/handler"
	"github.com/Berdoom/Nidec-01/internal/middleware"
	"github.com/Berdoom/Nidec-01/internal/model"
	"github.com/Berdoom/Nidec-01/internal/repository"
	"github.com/Berdoom/Nidec-01/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))

	reloj := service.NewReloj(cfg.Timezone)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	rolRepo := repository.NewRolRepository(db)
	turnoRepo := repository.NewTurnoRepository(db)
	produccionRepo := repository.NewProduccionRepository(db)
	programaRepo := repository.NewProgramaRepository(db)
	solicitudRepo := repository.NewSolicitudRepository(db)
	bitacoraRepo := repository.NewBitacoraRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	bitacoraSvc := service.NewBitacoraService(bitacoraRepo)
	accesoSvc := service.NewAccesoService(usuarioRepo, rdb, cfg)
	authSvc := service.NewAuthService(usuarioRepo, bitacoraSvc, cfg)
	adminSvc := service.NewAdminService(usuarioRepo, rolRepo, turnoRepo, accesoSvc, bitacoraSvc)
	dashboardSvc := service.NewDashboardService(produccionRepo)
	capturaSvc := service.NewCapturaService(produccionRepo, solicitudRepo, dashboardSvc, bitacoraSvc)
	reportesSvc := service.NewReportesService(dashboardSvc)
	programaSvc := service.NewProgramaService(programaRepo, bitacoraSvc)
	accionesSvc := service.NewAccionesService(produccionRepo, solicitudRepo, bitacoraSvc, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	capturaH := handler.NewCapturaHandler(capturaSvc, reloj)
	dashboardH := handler.NewDashboardHandler(dashboardSvc, reloj)
	reportesH := handler.NewReportesHandler(reportesSvc, reloj)
	programaH := handler.NewProgramaHandler(programaSvc)
	accionesH := handler.NewAccionesHandler(accionesSvc)
	adminH := handler.NewAdminHandler(adminSvc)
	bitacoraH := handler.NewBitacoraHandler(bitacoraSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	jwtMW := middleware.JWTAuth(cfg.JWTSecret, accesoSvc)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/auth/perfil", authH.Perfil)

		// Dashboards. La visibilidad por grupo se verifica dentro del handler.
		v1.GET("/dashboard/admin", middleware.RequirePermiso(model.PermDashboardAdmin), dashboardH.Admin)
		v1.GET("/dashboard/:grupo", middleware.RequireAlguno(model.PermDashboardGroup, model.PermDashboardAdmin), dashboardH.Grupo)

		// Captura y registro
		v1.GET("/captura/:grupo", middleware.RequireAlguno(model.PermCaptura, model.PermRegistro), capturaH.Datos)
		v1.POST("/captura/:grupo", middleware.RequirePermiso(model.PermCaptura), capturaH.Guardar)
		v1.POST("/captura/razon", middleware.RequirePermiso(model.PermCaptura), capturaH.GuardarRazon)
		v1.POST("/solicitudes", middleware.RequirePermiso(model.PermCaptura), capturaH.CrearSolicitud)

		// Reportes
		v1.GET("/reportes/:grupo", middleware.RequirePermiso(model.PermReportes), reportesH.Reporte)
		v1.GET("/reportes/:grupo/rango", middleware.RequirePermiso(model.PermReportes), reportesH.Rango)
		v1.GET("/reportes/:grupo/export", middleware.RequirePermiso(model.PermReportes), reportesH.Exportar)

		// Programas LM / Rotores — el nivel requerido se resuelve por tablero
		// dentro del handler, no por middleware.
		prog := v1.Group("/programas/:codigo")
		{
			prog.GET("/ordenes", programaH.Listar)
			prog.GET("/export", programaH.Exportar)
			prog.POST("/ordenes", programaH.CrearOrden)
			prog.PUT("/ordenes/:id", programaH.EditarOrden)
			prog.DELETE("/ordenes/:id", programaH.EliminarOrden)
			prog.POST("/ordenes/:id/status", programaH.CambiarStatus)
			prog.POST("/celdas", programaH.ActualizarCelda)
			prog.POST("/columnas", programaH.CrearColumna)
			prog.DELETE("/columnas/:id", programaH.EliminarColumna)
			prog.POST("/columnas/reorden", programaH.ReordenarColumnas)
			prog.POST("/columnas/ancho", programaH.CambiarAncho)
			prog.POST("/columnas/:id/editable", programaH.AlternarEditable)
		}

		// Centro de acciones
		v1.GET("/acciones/pendientes", accionesH.Pendientes)
		acciones := v1.Group("/acciones", middleware.RequirePermiso(model.PermActionsCenter))
		{
			acciones.GET("", accionesH.Listar)
			acciones.POST("/desviaciones/:id", accionesH.ActualizarDesviacion)
			acciones.POST("/solicitudes/:id", accionesH.ResolverSolicitud)
		}

		// Bitácora
		v1.GET("/bitacora", middleware.RequirePermiso(model.PermLogsView), bitacoraH.Listar)
		v1.GET("/bitacora/catalogos", middleware.RequirePermiso(model.PermLogsView), bitacoraH.Catalogos)

		// Administración
		admin := v1.Group("/admin", middleware.RequirePermiso(model.PermAdminAccess))
		{
			usuarios := admin.Group("/usuarios", middleware.RequirePermiso(model.PermUsersManage))
			{
				usuarios.GET("", adminH.ListarUsuarios)
				usuarios.POST("", adminH.CrearUsuario)
				usuarios.PUT("/:id", adminH.ActualizarUsuario)
				usuarios.DELETE("/:id", adminH.EliminarUsuario)
			}

			roles := admin.Group("/roles", middleware.RequirePermiso(model.PermRolesManage))
			{
				roles.GET("", adminH.ListarRoles)
				roles.POST("", adminH.CrearRol)
				roles.DELETE("/:id", adminH.EliminarRol)
				roles.POST("/:id/permisos", adminH.AsignarPermisos)
				roles.POST("/:id/accesos", adminH.AsignarAccesos)
			}
			admin.GET("/permisos", middleware.RequirePermiso(model.PermRolesManage), adminH.ListarPermisos)

			turnos := admin.Group("/turnos", middleware.RequirePermiso(model.PermUsersManage))
			{
				turnos.GET("", adminH.ListarTurnos)
				turnos.POST("", adminH.CrearTurno)
				turnos.DELETE("/:id", adminH.EliminarTurno)
			}

			admin.POST("/borrado-maestro", middleware.RequirePermiso(model.PermBorradoMaestro), capturaH.BorradoMaestro)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
