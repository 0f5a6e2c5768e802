package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Berdoom/Nidec-01/internal/dto"
	"github.com/Berdoom/Nidec-01/internal/model"
	"github.com/Berdoom/Nidec-01/internal/repository"
)

type DashboardService interface {
	Admin(ctx context.Context, fecha time.Time) (*dto.DashboardAdminResponse, error)
	Grupo(ctx context.Context, grupo string, fecha time.Time) (*dto.DashboardGrupoResponse, error)
	// ResumenDia exposes the raw numeric summary of one group+date; reports
	// build their series from it.
	ResumenDia(ctx context.Context, grupo string, fecha time.Time) (dto.ResumenGrupo, error)
}

type dashboardService struct {
	produccion repository.ProduccionRepository
}

func NewDashboardService(produccion repository.ProduccionRepository) DashboardService {
	return &dashboardService{produccion: produccion}
}

// Eficiencia is produced over forecast as a percentage; 0 when there is no
// usable forecast, never a division error.
func Eficiencia(producido, pronostico int64) float64 {
	if pronostico <= 0 {
		return 0
	}
	return float64(producido) / float64(pronostico) * 100
}

func (s *dashboardService) ResumenDia(ctx context.Context, grupo string, fecha time.Time) (dto.ResumenGrupo, error) {
	t, err := s.produccion.Totales(ctx, grupo, fecha, fecha)
	if err != nil {
		return dto.ResumenGrupo{}, err
	}
	return dto.ResumenGrupo{
		Pronostico: t.Pronostico(),
		Producido:  t.Producido(),
		Eficiencia: Eficiencia(t.Producido(), t.Pronostico()),
	}, nil
}

// tendencia compares today's efficiency against yesterday's.
func tendencia(hoy, ayer dto.ResumenGrupo) string {
	if ayer.Pronostico == 0 && ayer.Producido == 0 {
		return "stable"
	}
	switch {
	case hoy.Eficiencia > ayer.Eficiencia:
		return "up"
	case hoy.Eficiencia < ayer.Eficiencia:
		return "down"
	}
	return "stable"
}

func (s *dashboardService) resumenConTendencia(ctx context.Context, grupo string, fecha time.Time) (dto.ResumenGrupo, dto.ResumenGrupoResponse, error) {
	hoy, err := s.ResumenDia(ctx, grupo, fecha)
	if err != nil {
		return dto.ResumenGrupo{}, dto.ResumenGrupoResponse{}, err
	}
	ayer, err := s.ResumenDia(ctx, grupo, fecha.AddDate(0, 0, -1))
	if err != nil {
		return dto.ResumenGrupo{}, dto.ResumenGrupoResponse{}, err
	}
	resp := dto.NuevoResumenGrupoResponse(hoy)
	resp.Tendencia = tendencia(hoy, ayer)
	return hoy, resp, nil
}

// desempeno assembles the area → shift → hour breakdown of one group+date.
// Every capturable area appears with every shift, values filled where data
// exists, so the sheet renders complete even on an empty day.
func (s *dashboardService) desempeno(ctx context.Context, grupo string, fecha time.Time) (dto.DesempenoGrupo, error) {
	pronosticos, err := s.produccion.PronosticosDeFecha(ctx, fecha, grupo)
	if err != nil {
		return nil, err
	}
	capturas, err := s.produccion.CapturasDeFecha(ctx, fecha, grupo)
	if err != nil {
		return nil, err
	}

	out := dto.DesempenoGrupo{}
	for _, area := range model.AreasCapturables(grupo) {
		porTurno := dto.DesempenoArea{}
		for _, turno := range model.NombresTurnos {
			horas := make(map[string]*dto.HoraDato, len(model.HorasTurno[turno]))
			for _, h := range model.HorasTurno[turno] {
				horas[h] = &dto.HoraDato{}
			}
			porTurno[turno] = &dto.TurnoDesempeno{Horas: horas}
		}
		out[area] = porTurno
	}

	for _, p := range pronosticos {
		if td := buscarTurno(out, p.Area, p.Turno); td != nil {
			td.Pronostico = p.ValorPronostico
			td.RazonDesviacion = p.RazonDesviacion
		}
	}

	for _, c := range capturas {
		turno, ok := model.TurnoDeHora(c.Hora)
		if !ok {
			continue
		}
		td := buscarTurno(out, c.Area, turno)
		if td == nil || c.ValorProducido == nil {
			continue
		}
		v := *c.ValorProducido
		td.Horas[c.Hora] = &dto.HoraDato{Valor: &v}
		td.Producido += v
	}

	// Segunda pasada: eficiencia, meta por hora y clase de cada celda.
	for _, porTurno := range out {
		for turno, td := range porTurno {
			td.MetaPorHora = model.MetaPorHora(td.Pronostico, turno)
			if td.Pronostico != nil {
				td.Eficiencia = dto.Redondear1(Eficiencia(int64(td.Producido), int64(*td.Pronostico)))
			}
			if td.MetaPorHora <= 0 {
				continue
			}
			for _, h := range td.Horas {
				if h.Valor == nil {
					continue
				}
				if float64(*h.Valor) >= td.MetaPorHora {
					h.Clase = dto.ClaseHoraMeta
				} else {
					h.Clase = dto.ClaseHoraDebajo
				}
			}
		}
	}
	return out, nil
}

func buscarTurno(g dto.DesempenoGrupo, area, turno string) *dto.TurnoDesempeno {
	porTurno, ok := g[area]
	if !ok {
		return nil
	}
	return porTurno[turno]
}

func (s *dashboardService) output(ctx context.Context, grupo string, fecha time.Time) (dto.OutputResponse, error) {
	o, err := s.produccion.OutputDeFecha(ctx, fecha, grupo)
	if err != nil {
		return dto.OutputResponse{}, err
	}
	if o == nil {
		return dto.OutputResponse{}, nil
	}
	return dto.OutputResponse{Pronostico: o.Pronostico, Output: o.Output}, nil
}

func (s *dashboardService) Grupo(ctx context.Context, grupo string, fecha time.Time) (*dto.DashboardGrupoResponse, error) {
	if !model.GrupoValido(grupo) {
		return nil, fmt.Errorf("%w: grupo '%s'", ErrInvalido, grupo)
	}
	_, resumen, err := s.resumenConTendencia(ctx, grupo, fecha)
	if err != nil {
		return nil, err
	}
	desempeno, err := s.desempeno(ctx, grupo, fecha)
	if err != nil {
		return nil, err
	}
	output, err := s.output(ctx, grupo, fecha)
	if err != nil {
		return nil, err
	}
	return &dto.DashboardGrupoResponse{
		Fecha:     fecha.Format("2006-01-02"),
		Grupo:     grupo,
		Resumen:   resumen,
		Desempeno: desempeno,
		Output:    output,
		Areas:     model.AreasDeGrupo(grupo),
	}, nil
}

// Admin aggregates every group. The global card sums the raw numbers of the
// groups and derives its own efficiency; it never averages the per-group
// percentages.
func (s *dashboardService) Admin(ctx context.Context, fecha time.Time) (*dto.DashboardAdminResponse, error) {
	resp := &dto.DashboardAdminResponse{
		Fecha:     fecha.Format("2006-01-02"),
		Grupos:    map[string]dto.ResumenGrupoResponse{},
		Desempeno: map[string]dto.DesempenoGrupo{},
		Output:    map[string]dto.OutputResponse{},
	}

	var global dto.ResumenGrupo
	for _, grupo := range model.Grupos {
		raw, card, err := s.resumenConTendencia(ctx, grupo, fecha)
		if err != nil {
			return nil, err
		}
		resp.Grupos[grupo] = card
		global.Pronostico += raw.Pronostico
		global.Producido += raw.Producido

		desempeno, err := s.desempeno(ctx, grupo, fecha)
		if err != nil {
			return nil, err
		}
		resp.Desempeno[grupo] = desempeno

		output, err := s.output(ctx, grupo, fecha)
		if err != nil {
			return nil, err
		}
		resp.Output[grupo] = output
	}

	global.Eficiencia = Eficiencia(global.Producido, global.Pronostico)
	resp.Global = dto.NuevoResumenGrupoResponse(global)
	return resp, nil
}
