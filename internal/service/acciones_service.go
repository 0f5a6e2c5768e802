package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/Berdoom/Nidec-01/internal/dto"
	"github.com/Berdoom/Nidec-01/internal/model"
	"github.com/Berdoom/Nidec-01/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Valid resolution statuses per queue.
var (
	statusDesviacion = map[string]bool{model.StatusNuevo: true, "Revisada": true, "Atendida": true}
	statusSolicitud  = map[string]bool{model.StatusPendiente: true, "Aprobada": true, "Rechazada": true}
)

type AccionesService interface {
	// Listar merges deviation reasons and correction requests into one queue,
	// newest first. The filter is persisted per user so the screen reopens
	// where the admin left it.
	Listar(ctx context.Context, username string, f dto.AccionesFiltro) ([]dto.AccionItem, error)
	ActualizarDesviacion(ctx context.Context, actor dto.Actor, id uuid.UUID, req dto.ActualizarStatusDesviacionRequest) error
	ResolverSolicitud(ctx context.Context, actor dto.Actor, id uuid.UUID, req dto.ResolverSolicitudRequest) error
	// Pendientes is the badge count: new deviations plus pending corrections.
	Pendientes(ctx context.Context) (int64, error)
	FiltroGuardado(ctx context.Context, username string) dto.AccionesFiltro
}

type accionesService struct {
	produccion  repository.ProduccionRepository
	solicitudes repository.SolicitudRepository
	bitacora    BitacoraService
	rdb         *redis.Client
}

func NewAccionesService(
	produccion repository.ProduccionRepository,
	solicitudes repository.SolicitudRepository,
	bitacora BitacoraService,
	rdb *redis.Client,
) AccionesService {
	return &accionesService{
		produccion:  produccion,
		solicitudes: solicitudes,
		bitacora:    bitacora,
		rdb:         rdb,
	}
}

func filtroKey(username string) string { return "acciones:filtro:" + username }

func (s *accionesService) guardarFiltro(ctx context.Context, username string, f dto.AccionesFiltro) {
	if s.rdb == nil || username == "" {
		return
	}
	raw, err := json.Marshal(f)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, filtroKey(username), raw, 30*24*time.Hour).Err(); err != nil {
		log.Warn().Err(err).Msg("no se pudo guardar el filtro del centro de acciones")
	}
}

func (s *accionesService) FiltroGuardado(ctx context.Context, username string) dto.AccionesFiltro {
	f := dto.AccionesFiltro{Tipo: dto.TipoTodos, Status: dto.StatusPendientes}
	if s.rdb == nil || username == "" {
		return f
	}
	raw, err := s.rdb.Get(ctx, filtroKey(username)).Bytes()
	if err != nil {
		return f
	}
	_ = json.Unmarshal(raw, &f)
	return f
}

func (s *accionesService) Listar(ctx context.Context, username string, f dto.AccionesFiltro) ([]dto.AccionItem, error) {
	if f.Tipo == "" {
		f.Tipo = dto.TipoTodos
	}
	if f.Status == "" {
		f.Status = dto.StatusPendientes
	}
	s.guardarFiltro(ctx, username, f)

	var desde, hasta *time.Time
	if f.FechaInicio != "" {
		if d, err := ParseFecha(f.FechaInicio); err == nil {
			desde = &d
		}
	}
	if f.FechaFin != "" {
		if d, err := ParseFecha(f.FechaFin); err == nil {
			hasta = &d
		}
	}

	// Traduce el meta-filtro de status al status concreto de cada cola.
	// ok=false significa que el status pedido pertenece a la otra cola y esta
	// no aporta elementos.
	statusPara := func(validos map[string]bool, pendiente string) (string, bool) {
		switch f.Status {
		case dto.StatusPendientes:
			return pendiente, true
		case "Todos":
			return "", true
		}
		if validos[f.Status] {
			return f.Status, true
		}
		return "", false
	}

	var items []dto.AccionItem

	if f.Tipo == dto.TipoTodos || f.Tipo == dto.TipoDesviacion {
		if status, ok := statusPara(statusDesviacion, model.StatusNuevo); ok {
			pronosticos, err := s.produccion.PronosticosConRazon(ctx, desde, hasta, f.Grupo, status)
			if err != nil {
				return nil, err
			}
			for _, p := range pronosticos {
				items = append(items, dto.AccionItem{
					ID:          p.ID.String(),
					Tipo:        "Desviación",
					Timestamp:   p.FechaRazon,
					FechaEvento: p.Fecha.Format("2006-01-02"),
					Grupo:       p.Grupo,
					Area:        p.Area,
					Turno:       p.Turno,
					Usuario:     p.UsuarioRazon,
					Detalles:    p.RazonDesviacion,
					Status:      p.Status,
				})
			}
		}
	}

	if f.Tipo == dto.TipoTodos || f.Tipo == dto.TipoCorreccion {
		if status, ok := statusPara(statusSolicitud, model.StatusPendiente); ok {
			solicitudes, err := s.solicitudes.List(ctx, desde, hasta, f.Grupo, status)
			if err != nil {
				return nil, err
			}
			for _, sol := range solicitudes {
				ts := sol.Timestamp
				items = append(items, dto.AccionItem{
					ID:          sol.ID.String(),
					Tipo:        fmt.Sprintf("Corrección (%s)", sol.TipoError),
					Timestamp:   &ts,
					FechaEvento: sol.FechaProblema.Format("2006-01-02"),
					Grupo:       sol.Grupo,
					Area:        sol.Area,
					Turno:       sol.Turno,
					Usuario:     sol.UsuarioSolicitante,
					Detalles:    sol.Descripcion,
					Status:      sol.Status,
				})
			}
		}
	}

	// Más reciente primero; elementos sin marca de tiempo al final.
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Timestamp, items[j].Timestamp
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.After(*b)
	})
	return items, nil
}

func (s *accionesService) ActualizarDesviacion(ctx context.Context, actor dto.Actor, id uuid.UUID, req dto.ActualizarStatusDesviacionRequest) error {
	if !statusDesviacion[req.Status] {
		return fmt.Errorf("%w: status '%s'", ErrInvalido, req.Status)
	}
	p, err := s.produccion.FindPronosticoPorID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil || p.RazonDesviacion == "" {
		return fmt.Errorf("%w: desviación", ErrNoEncontrado)
	}
	anterior := p.Status
	p.Status = req.Status
	err = runTx(ctx, s.produccion.DB(), func(tx *gorm.DB) error {
		return s.produccion.SavePronostico(tx, p)
	})
	if err != nil {
		return err
	}
	s.bitacora.Registrar(ctx, actor, "Status de desviación actualizado",
		fmt.Sprintf("%s %s %s/%s: %s → %s", p.Grupo, p.Fecha.Format("2006-01-02"), p.Area, p.Turno, anterior, req.Status),
		p.Grupo, model.CategoriaDatos, model.SeveridadInfo)
	return nil
}

// ResolverSolicitud stamps the resolution atomically with the status change:
// acting admin, notes and timestamp land in the same update.
func (s *accionesService) ResolverSolicitud(ctx context.Context, actor dto.Actor, id uuid.UUID, req dto.ResolverSolicitudRequest) error {
	if !statusSolicitud[req.Status] || req.Status == model.StatusPendiente {
		return fmt.Errorf("%w: status '%s'", ErrInvalido, req.Status)
	}
	sol, err := s.solicitudes.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if sol == nil {
		return fmt.Errorf("%w: solicitud", ErrNoEncontrado)
	}
	ahora := time.Now().UTC()
	sol.Status = req.Status
	sol.AdminUsername = actor.Username
	sol.AdminNotas = req.Notas
	sol.FechaResolucion = &ahora
	if err := s.solicitudes.Update(ctx, sol); err != nil {
		return err
	}
	s.bitacora.Registrar(ctx, actor, "Solicitud de corrección resuelta",
		fmt.Sprintf("%s %s (%s) → %s", sol.Grupo, sol.FechaProblema.Format("2006-01-02"), sol.TipoError, req.Status),
		sol.Grupo, model.CategoriaDatos, model.SeveridadInfo)
	return nil
}

func (s *accionesService) Pendientes(ctx context.Context) (int64, error) {
	desviaciones, err := s.produccion.CountPronosticosNuevos(ctx)
	if err != nil {
		return 0, err
	}
	solicitudes, err := s.solicitudes.CountPendientes(ctx)
	if err != nil {
		return 0, err
	}
	return desviaciones + solicitudes, nil
}
