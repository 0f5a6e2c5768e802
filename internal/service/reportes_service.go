package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Berdoom/Nidec-01/internal/dto"
	"github.com/Berdoom/Nidec-01/internal/infra"
	"github.com/Berdoom/Nidec-01/internal/model"
)

type ReportesService interface {
	// Reporte builds the fixed report page: the day itself, the trailing week
	// and the current month to date.
	Reporte(ctx context.Context, grupo string, fecha time.Time) (*dto.ReporteResponse, error)
	// Rango builds an arbitrary date-range series with a numeric grand total.
	Rango(ctx context.Context, grupo string, desde, hasta time.Time) (*dto.RangoReporteResponse, error)
	// ExportarExcel renders a date-range report as an xlsx download, one row
	// per day plus the totals row.
	ExportarExcel(ctx context.Context, grupo string, desde, hasta time.Time) ([]byte, string, error)
}

type reportesService struct {
	dashboard DashboardService
}

func NewReportesService(dashboard DashboardService) ReportesService {
	return &reportesService{dashboard: dashboard}
}

const maxDiasRango = 92

func (s *reportesService) serie(ctx context.Context, grupo string, desde, hasta time.Time) ([]dto.PuntoSerie, error) {
	var out []dto.PuntoSerie
	for d := desde; !d.After(hasta); d = d.AddDate(0, 0, 1) {
		r, err := s.dashboard.ResumenDia(ctx, grupo, d)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.PuntoSerie{
			Fecha:      d.Format("2006-01-02"),
			Pronostico: r.Pronostico,
			Producido:  r.Producido,
			Eficiencia: dto.Redondear2(r.Eficiencia),
		})
	}
	return out, nil
}

func (s *reportesService) Reporte(ctx context.Context, grupo string, fecha time.Time) (*dto.ReporteResponse, error) {
	if !model.GrupoValido(grupo) {
		return nil, fmt.Errorf("%w: grupo '%s'", ErrInvalido, grupo)
	}

	dia, err := s.dashboard.ResumenDia(ctx, grupo, fecha)
	if err != nil {
		return nil, err
	}
	semanal, err := s.serie(ctx, grupo, fecha.AddDate(0, 0, -6), fecha)
	if err != nil {
		return nil, err
	}
	inicioMes := time.Date(fecha.Year(), fecha.Month(), 1, 0, 0, 0, 0, time.UTC)
	mensual, err := s.serie(ctx, grupo, inicioMes, fecha)
	if err != nil {
		return nil, err
	}

	return &dto.ReporteResponse{
		Grupo:   grupo,
		Fecha:   fecha.Format("2006-01-02"),
		Semanal: semanal,
		Mensual: mensual,
		Dia: dto.PuntoSerie{
			Fecha:      fecha.Format("2006-01-02"),
			Pronostico: dia.Pronostico,
			Producido:  dia.Producido,
			Eficiencia: dto.Redondear2(dia.Eficiencia),
		},
	}, nil
}

func (s *reportesService) Rango(ctx context.Context, grupo string, desde, hasta time.Time) (*dto.RangoReporteResponse, error) {
	if !model.GrupoValido(grupo) {
		return nil, fmt.Errorf("%w: grupo '%s'", ErrInvalido, grupo)
	}
	if hasta.Before(desde) {
		return nil, fmt.Errorf("%w: rango de fechas invertido", ErrInvalido)
	}
	if int(hasta.Sub(desde).Hours()/24) > maxDiasRango {
		return nil, fmt.Errorf("%w: el rango no puede exceder %d días", ErrInvalido, maxDiasRango)
	}

	serie, err := s.serie(ctx, grupo, desde, hasta)
	if err != nil {
		return nil, err
	}

	// El total acumula los números crudos; la eficiencia del rango se deriva de
	// las sumas, nunca del promedio de porcentajes diarios.
	var total dto.PuntoSerie
	for _, p := range serie {
		total.Pronostico += p.Pronostico
		total.Producido += p.Producido
	}
	total.Fecha = fmt.Sprintf("%s / %s", desde.Format("2006-01-02"), hasta.Format("2006-01-02"))
	total.Eficiencia = dto.Redondear2(Eficiencia(total.Producido, total.Pronostico))

	return &dto.RangoReporteResponse{Grupo: grupo, Serie: serie, Total: total}, nil
}

func (s *reportesService) ExportarExcel(ctx context.Context, grupo string, desde, hasta time.Time) ([]byte, string, error) {
	rango, err := s.Rango(ctx, grupo, desde, hasta)
	if err != nil {
		return nil, "", err
	}

	libro, err := infra.NewLibroTabular(
		fmt.Sprintf("Reporte %s", grupo),
		[]string{"Fecha", "Pronóstico", "Producido", "Eficiencia (%)"},
		[]float64{16, 14, 14, 16},
	)
	if err != nil {
		return nil, "", err
	}
	for _, p := range rango.Serie {
		if err := libro.AgregarFila([]any{p.Fecha, p.Pronostico, p.Producido, p.Eficiencia}); err != nil {
			return nil, "", err
		}
	}
	if err := libro.AgregarFila([]any{"Total", rango.Total.Pronostico, rango.Total.Producido, rango.Total.Eficiencia}); err != nil {
		return nil, "", err
	}

	raw, err := libro.Bytes()
	if err != nil {
		return nil, "", err
	}
	nombre := fmt.Sprintf("reporte_%s_%s_%s.xlsx", strings.ToLower(grupo), desde.Format("20060102"), hasta.Format("20060102"))
	return raw, nombre, nil
}
