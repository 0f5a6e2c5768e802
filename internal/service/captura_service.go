package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Berdoom/Nidec-01/internal/dto"
	"github.com/Berdoom/Nidec-01/internal/model"
	"github.com/Berdoom/Nidec-01/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CapturaService interface {
	// GuardarCaptura applies one capture-sheet submission atomically: either
	// every forecast, hourly value and Output row lands, or none do.
	GuardarCaptura(ctx context.Context, actor dto.Actor, grupo string, req dto.GuardarCapturaRequest) error
	GuardarRazon(ctx context.Context, actor dto.Actor, req dto.RazonDesviacionRequest) error
	CrearSolicitud(ctx context.Context, actor dto.Actor, req dto.SolicitudCorreccionRequest) error
	DatosCaptura(ctx context.Context, fecha time.Time, grupo string) (*dto.DashboardGrupoResponse, error)
	BorradoMaestro(ctx context.Context, actor dto.Actor, grupo, fecha string) error
}

type capturaService struct {
	produccion  repository.ProduccionRepository
	solicitudes repository.SolicitudRepository
	dashboard   DashboardService
	bitacora    BitacoraService
}

func NewCapturaService(
	produccion repository.ProduccionRepository,
	solicitudes repository.SolicitudRepository,
	dashboard DashboardService,
	bitacora BitacoraService,
) CapturaService {
	return &capturaService{
		produccion:  produccion,
		solicitudes: solicitudes,
		dashboard:   dashboard,
		bitacora:    bitacora,
	}
}

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode with fake repositories).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *capturaService) GuardarCaptura(ctx context.Context, actor dto.Actor, grupo string, req dto.GuardarCapturaRequest) error {
	if !model.GrupoValido(grupo) {
		return fmt.Errorf("%w: grupo '%s'", ErrInvalido, grupo)
	}
	fecha, err := ParseFecha(req.Fecha)
	if err != nil {
		return fmt.Errorf("%w: fecha", ErrInvalido)
	}

	areas := make(map[string]bool)
	for _, a := range model.AreasCapturables(grupo) {
		areas[a] = true
	}
	for _, p := range req.Pronosticos {
		if !areas[p.Area] {
			return fmt.Errorf("%w: área '%s' no pertenece a %s", ErrInvalido, p.Area, grupo)
		}
		if _, ok := model.HorasTurno[p.Turno]; !ok {
			return fmt.Errorf("%w: turno '%s'", ErrInvalido, p.Turno)
		}
	}
	for _, p := range req.Producciones {
		if !areas[p.Area] {
			return fmt.Errorf("%w: área '%s' no pertenece a %s", ErrInvalido, p.Area, grupo)
		}
		if _, ok := model.TurnoDeHora(p.Hora); !ok {
			return fmt.Errorf("%w: hora '%s'", ErrInvalido, p.Hora)
		}
	}

	ahora := time.Now().UTC()
	var cambios []string

	err = runTx(ctx, s.produccion.DB(), func(tx *gorm.DB) error {
		for _, entrada := range req.Pronosticos {
			p, err := s.produccion.FindPronostico(tx, fecha, grupo, entrada.Area, entrada.Turno)
			if err != nil {
				return err
			}
			valor := entrada.Valor
			if p == nil {
				p = &model.Pronostico{
					ID: uuid.New(), Fecha: fecha, Grupo: grupo,
					Area: entrada.Area, Turno: entrada.Turno,
					ValorPronostico: &valor, Status: model.StatusNuevo,
				}
				cambios = append(cambios, fmt.Sprintf("Pronóstico %s/%s: %d", entrada.Area, entrada.Turno, valor))
				if err := s.produccion.SavePronostico(tx, p); err != nil {
					return err
				}
				continue
			}
			if p.ValorPronostico != nil && *p.ValorPronostico == valor {
				continue
			}
			anterior := 0
			if p.ValorPronostico != nil {
				anterior = *p.ValorPronostico
			}
			p.ValorPronostico = &valor
			cambios = append(cambios, fmt.Sprintf("Pronóstico %s/%s: %d → %d", entrada.Area, entrada.Turno, anterior, valor))
			if err := s.produccion.SavePronostico(tx, p); err != nil {
				return err
			}
		}

		for _, entrada := range req.Producciones {
			c, err := s.produccion.FindCaptura(tx, fecha, grupo, entrada.Area, entrada.Hora)
			if err != nil {
				return err
			}
			valor := entrada.Valor
			if c == nil {
				c = &model.ProduccionCaptura{
					ID: uuid.New(), Fecha: fecha, Grupo: grupo,
					Area: entrada.Area, Hora: entrada.Hora,
				}
				cambios = append(cambios, fmt.Sprintf("Producción %s/%s: %d", entrada.Area, entrada.Hora, valor))
			} else {
				if c.ValorProducido != nil && *c.ValorProducido == valor {
					continue
				}
				anterior := 0
				if c.ValorProducido != nil {
					anterior = *c.ValorProducido
				}
				cambios = append(cambios, fmt.Sprintf("Producción %s/%s: %d → %d", entrada.Area, entrada.Hora, anterior, valor))
			}
			c.ValorProducido = &valor
			c.UsuarioCaptura = actor.Username
			c.FechaCaptura = ahora
			if err := s.produccion.SaveCaptura(tx, c); err != nil {
				return err
			}
		}

		if req.Output != nil {
			o, err := s.produccion.FindOutput(tx, fecha, grupo)
			if err != nil {
				return err
			}
			if o == nil {
				o = &model.OutputData{ID: uuid.New(), Fecha: fecha, Grupo: grupo}
			}
			modificado := false
			if req.Output.Pronostico != nil && o.Pronostico != *req.Output.Pronostico {
				cambios = append(cambios, fmt.Sprintf("Output pronóstico: %d → %d", o.Pronostico, *req.Output.Pronostico))
				o.Pronostico = *req.Output.Pronostico
				modificado = true
			}
			if req.Output.Producido != nil && o.Output != *req.Output.Producido {
				cambios = append(cambios, fmt.Sprintf("Output producido: %d → %d", o.Output, *req.Output.Producido))
				o.Output = *req.Output.Producido
				modificado = true
			}
			if modificado {
				o.UsuarioCaptura = actor.Username
				o.FechaCaptura = ahora
				if err := s.produccion.SaveOutput(tx, o); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Sin cambios reales no se ensucia la bitácora.
	if len(cambios) > 0 {
		s.bitacora.Registrar(ctx, actor, "Captura de producción guardada",
			fmt.Sprintf("%s %s: %s", grupo, req.Fecha, strings.Join(cambios, "; ")),
			grupo, model.CategoriaDatos, model.SeveridadInfo)
	}
	return nil
}

// GuardarRazon attaches (or replaces) the deviation reason of one forecast.
// Re-submitting resets Status to Nuevo so the action center surfaces it again.
func (s *capturaService) GuardarRazon(ctx context.Context, actor dto.Actor, req dto.RazonDesviacionRequest) error {
	if !model.GrupoValido(req.Grupo) {
		return fmt.Errorf("%w: grupo '%s'", ErrInvalido, req.Grupo)
	}
	fecha, err := ParseFecha(req.Fecha)
	if err != nil {
		return fmt.Errorf("%w: fecha", ErrInvalido)
	}
	razon := strings.TrimSpace(req.Razon)
	if razon == "" {
		return fmt.Errorf("%w: razón vacía", ErrInvalido)
	}

	return runTx(ctx, s.produccion.DB(), func(tx *gorm.DB) error {
		p, err := s.produccion.FindPronostico(tx, fecha, req.Grupo, req.Area, req.Turno)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: no hay pronóstico para %s/%s/%s", ErrNoEncontrado, req.Grupo, req.Area, req.Turno)
		}
		ahora := time.Now().UTC()
		p.RazonDesviacion = razon
		p.UsuarioRazon = actor.Username
		p.FechaRazon = &ahora
		p.Status = model.StatusNuevo
		if err := s.produccion.SavePronostico(tx, p); err != nil {
			return err
		}
		s.bitacora.Registrar(ctx, actor, "Razón de desviación registrada",
			fmt.Sprintf("%s %s %s/%s", req.Grupo, req.Fecha, req.Area, req.Turno),
			req.Grupo, model.CategoriaDatos, model.SeveridadInfo)
		return nil
	})
}

func (s *capturaService) CrearSolicitud(ctx context.Context, actor dto.Actor, req dto.SolicitudCorreccionRequest) error {
	if !model.GrupoValido(req.Grupo) {
		return fmt.Errorf("%w: grupo '%s'", ErrInvalido, req.Grupo)
	}
	fecha, err := ParseFecha(req.FechaProblema)
	if err != nil {
		return fmt.Errorf("%w: fecha", ErrInvalido)
	}
	sol := &model.SolicitudCorreccion{
		ID:                 uuid.New(),
		Timestamp:          time.Now().UTC(),
		UsuarioSolicitante: actor.Username,
		FechaProblema:      fecha,
		Grupo:              req.Grupo,
		Area:               req.Area,
		Turno:              req.Turno,
		TipoError:          req.TipoError,
		Descripcion:        req.Descripcion,
		Status:             model.StatusPendiente,
	}
	if err := s.solicitudes.Create(ctx, sol); err != nil {
		return err
	}
	s.bitacora.Registrar(ctx, actor, "Solicitud de corrección creada",
		fmt.Sprintf("%s %s: %s", req.Grupo, req.FechaProblema, req.TipoError),
		req.Grupo, model.CategoriaDatos, model.SeveridadInfo)
	return nil
}

// DatosCaptura returns the current state of one group's sheet; the capture
// screen and the registro (read-only) screen render the same shape.
func (s *capturaService) DatosCaptura(ctx context.Context, fecha time.Time, grupo string) (*dto.DashboardGrupoResponse, error) {
	if !model.GrupoValido(grupo) {
		return nil, fmt.Errorf("%w: grupo '%s'", ErrInvalido, grupo)
	}
	return s.dashboard.Grupo(ctx, grupo, fecha)
}

// BorradoMaestro wipes every capture, forecast and Output row of one group on
// one date. The activity log is append-only and survives intact as the record
// of who pulled the trigger.
func (s *capturaService) BorradoMaestro(ctx context.Context, actor dto.Actor, grupo, fecha string) error {
	grupo = strings.ToUpper(strings.TrimSpace(grupo))
	if !model.GrupoValido(grupo) {
		return fmt.Errorf("%w: grupo '%s'", ErrInvalido, grupo)
	}
	dia, err := ParseFecha(fecha)
	if err != nil {
		return fmt.Errorf("%w: fecha", ErrInvalido)
	}
	if err := s.produccion.BorrarDia(ctx, grupo, dia); err != nil {
		return err
	}
	s.bitacora.Registrar(ctx, actor, "Borrado Masivo de Datos",
		fmt.Sprintf("Se eliminaron todos los datos del grupo %s para la fecha %s", grupo, fecha),
		grupo, model.CategoriaSeguridad, model.SeveridadCritical)
	return nil
}
