package service

import (
	"context"
	"time"

	"github.com/Berdoom/Nidec-01/internal/dto"
	"github.com/Berdoom/Nidec-01/internal/model"
	"github.com/Berdoom/Nidec-01/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LimiteBitacora caps the log viewer query; the table grows without bound and
// is never paginated client-side.
const LimiteBitacora = 500

type BitacoraService interface {
	// Registrar appends one audit entry. It never returns an error: a failure
	// to write the log must not abort the business operation that caused it,
	// so failures are reported to the process log only.
	Registrar(ctx context.Context, actor dto.Actor, accion, detalles, areaGrupo, categoria, severidad string)
	Listar(ctx context.Context, f dto.BitacoraFiltro) ([]dto.RegistroActividadResponse, error)
}

type bitacoraService struct {
	repo repository.BitacoraRepository
}

func NewBitacoraService(repo repository.BitacoraRepository) BitacoraService {
	return &bitacoraService{repo: repo}
}

func (s *bitacoraService) Registrar(ctx context.Context, actor dto.Actor, accion, detalles, areaGrupo, categoria, severidad string) {
	if categoria == "" {
		categoria = model.CategoriaGeneral
	}
	if severidad == "" {
		severidad = model.SeveridadInfo
	}
	username := actor.Username
	if username == "" {
		username = model.ActorSistema
	}
	reg := &model.RegistroActividad{
		ID:        uuid.New(),
		Timestamp: time.Now().UTC(),
		Username:  username,
		Accion:    accion,
		Detalles:  detalles,
		AreaGrupo: areaGrupo,
		IPAddress: actor.IP,
		Categoria: categoria,
		Severidad: severidad,
	}
	if err := s.repo.Create(ctx, reg); err != nil {
		log.Error().Err(err).
			Str("accion", accion).
			Str("username", username).
			Msg("no se pudo escribir el registro de actividad")
	}
}

func (s *bitacoraService) Listar(ctx context.Context, f dto.BitacoraFiltro) ([]dto.RegistroActividadResponse, error) {
	regs, err := s.repo.List(ctx, f, LimiteBitacora)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RegistroActividadResponse, len(regs))
	for i, r := range regs {
		out[i] = dto.RegistroActividadResponse{
			ID:        r.ID.String(),
			Timestamp: r.Timestamp,
			Username:  r.Username,
			Accion:    r.Accion,
			Detalles:  r.Detalles,
			AreaGrupo: r.AreaGrupo,
			IPAddress: r.IPAddress,
			Categoria: r.Categoria,
			Severidad: r.Severidad,
		}
	}
	return out, nil
}
