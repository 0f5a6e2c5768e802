package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Berdoom/Nidec-01/internal/dto"
	"github.com/Berdoom/Nidec-01/internal/infra"
	"github.com/Berdoom/Nidec-01/internal/model"
	"github.com/Berdoom/Nidec-01/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgramaService drives both order boards. Every method takes the program
// code; the Tablero descriptor resolved from it parameterizes the behavior
// that differs between LM and Rotores.
type ProgramaService interface {
	Listado(ctx context.Context, codigo string, f dto.OrdenFiltro) (*dto.ListadoOrdenesResponse, error)
	CrearOrden(ctx context.Context, actor dto.Actor, codigo string, req dto.CrearOrdenRequest) (*dto.OrdenResponse, error)
	EditarOrden(ctx context.Context, actor dto.Actor, codigo string, id uuid.UUID, req dto.EditarOrdenRequest) error
	EliminarOrden(ctx context.Context, actor dto.Actor, codigo string, id uuid.UUID) error
	// CambiarStatus toggles Pendiente ⇄ Aprobada and returns the new status.
	CambiarStatus(ctx context.Context, actor dto.Actor, codigo string, id uuid.UUID) (string, error)
	ActualizarCelda(ctx context.Context, actor dto.Actor, codigo string, esAdmin bool, req dto.ActualizarCeldaRequest) error

	CrearColumna(ctx context.Context, actor dto.Actor, codigo string, req dto.CrearColumnaRequest) (*dto.ColumnaResponse, error)
	EliminarColumna(ctx context.Context, actor dto.Actor, codigo string, id uuid.UUID) error
	ReordenarColumnas(ctx context.Context, actor dto.Actor, codigo string, req dto.ReordenarColumnasRequest) error
	CambiarAncho(ctx context.Context, codigo string, req dto.AnchoColumnaRequest) error
	AlternarEditableColumna(ctx context.Context, actor dto.Actor, codigo string, id uuid.UUID) (bool, error)

	ExportarExcel(ctx context.Context, codigo string, f dto.OrdenFiltro) ([]byte, string, error)
}

type programaService struct {
	repo     repository.ProgramaRepository
	bitacora BitacoraService
}

func NewProgramaService(repo repository.ProgramaRepository, bitacora BitacoraService) ProgramaService {
	return &programaService{repo: repo, bitacora: bitacora}
}

func (s *programaService) tablero(codigo string) (model.Tablero, error) {
	t, ok := model.TableroPorCodigo(codigo)
	if !ok {
		return model.Tablero{}, fmt.Errorf("%w: programa '%s'", ErrNoEncontrado, codigo)
	}
	return t, nil
}

func (s *programaService) Listado(ctx context.Context, codigo string, f dto.OrdenFiltro) (*dto.ListadoOrdenesResponse, error) {
	t, err := s.tablero(codigo)
	if err != nil {
		return nil, err
	}

	// Sin status ni búsqueda explícita el tablero muestra lo pendiente.
	if f.Status == "" && f.Clave == "" && f.Secundaria == "" {
		f.Status = model.StatusPendiente
	}

	ordenes, total, err := s.repo.ListOrdenes(ctx, codigo, f)
	if err != nil {
		return nil, err
	}
	columnas, err := s.repo.ListColumnas(ctx, codigo)
	if err != nil {
		return nil, err
	}

	var claves, secundarias map[string]bool
	if t.DetectaDuplicados && f.Status == model.StatusPendiente {
		claves, secundarias, err = s.repo.ClavesRepetidas(ctx, codigo)
		if err != nil {
			return nil, err
		}
	}

	resp := &dto.ListadoOrdenesResponse{
		Ordenes:  make([]dto.OrdenResponse, len(ordenes)),
		Columnas: make([]dto.ColumnaResponse, len(columnas)),
	}
	for i := range ordenes {
		o := ordenToResponse(&ordenes[i])
		o.Duplicada = claves[ordenes[i].Clave] || (ordenes[i].Secundaria != "" && secundarias[ordenes[i].Secundaria])
		resp.Ordenes[i] = o
	}
	for i, c := range columnas {
		resp.Columnas[i] = columnaToResponse(&c)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	pages := int((total + dto.PaginasPrograma - 1) / dto.PaginasPrograma)
	resp.Paginacion = dto.Paginacion{Page: page, PerPage: dto.PaginasPrograma, Total: total, Pages: pages}
	return resp, nil
}

func (s *programaService) CrearOrden(ctx context.Context, actor dto.Actor, codigo string, req dto.CrearOrdenRequest) (*dto.OrdenResponse, error) {
	t, err := s.tablero(codigo)
	if err != nil {
		return nil, err
	}
	clave := strings.TrimSpace(req.Clave)
	if clave == "" {
		return nil, fmt.Errorf("%w: clave vacía", ErrInvalido)
	}
	if existing, err := s.repo.FindOrdenPorClave(ctx, codigo, clave); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: %s '%s' ya existe", ErrConflicto, t.EtiquetaClave, clave)
	}
	cantidad := req.Cantidad
	if cantidad < 1 {
		cantidad = 1
	}
	orden := &model.Orden{
		ID:         uuid.New(),
		Programa:   codigo,
		Clave:      clave,
		Secundaria: strings.TrimSpace(req.Secundaria),
		Cantidad:   cantidad,
		Timestamp:  time.Now().UTC(),
		Status:     model.StatusPendiente,
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CreateOrden(tx, orden)
	})
	if err != nil {
		return nil, err
	}
	s.bitacora.Registrar(ctx, actor, "Orden creada",
		fmt.Sprintf("%s '%s' (cantidad %d)", t.EtiquetaClave, clave, cantidad),
		t.GrupoBitacora, model.CategoriaDatos, model.SeveridadInfo)
	resp := ordenToResponse(orden)
	return &resp, nil
}

// EditarOrden updates a row. Renaming the business key to one already used by
// a different row is rejected without mutating anything.
func (s *programaService) EditarOrden(ctx context.Context, actor dto.Actor, codigo string, id uuid.UUID, req dto.EditarOrdenRequest) error {
	t, err := s.tablero(codigo)
	if err != nil {
		return err
	}
	orden, err := s.ordenDe(ctx, codigo, id)
	if err != nil {
		return err
	}
	clave := strings.TrimSpace(req.Clave)
	if clave == "" {
		return fmt.Errorf("%w: clave vacía", ErrInvalido)
	}
	if clave != orden.Clave {
		if other, err := s.repo.FindOrdenPorClave(ctx, codigo, clave); err != nil {
			return err
		} else if other != nil && other.ID != orden.ID {
			return fmt.Errorf("%w: %s '%s' ya existe", ErrConflicto, t.EtiquetaClave, clave)
		}
		orden.Clave = clave
	}
	orden.Secundaria = strings.TrimSpace(req.Secundaria)
	orden.Cantidad = req.Cantidad
	if err := s.repo.UpdateOrden(ctx, orden); err != nil {
		return err
	}
	s.bitacora.Registrar(ctx, actor, "Orden editada",
		fmt.Sprintf("%s '%s'", t.EtiquetaClave, orden.Clave),
		t.GrupoBitacora, model.CategoriaDatos, model.SeveridadInfo)
	return nil
}

func (s *programaService) EliminarOrden(ctx context.Context, actor dto.Actor, codigo string, id uuid.UUID) error {
	t, err := s.tablero(codigo)
	if err != nil {
		return err
	}
	orden, err := s.ordenDe(ctx, codigo, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteOrden(ctx, id); err != nil {
		return err
	}
	s.bitacora.Registrar(ctx, actor, "Orden eliminada",
		fmt.Sprintf("%s '%s'", t.EtiquetaClave, orden.Clave),
		t.GrupoBitacora, model.CategoriaDatos, model.SeveridadWarning)
	return nil
}

func (s *programaService) CambiarStatus(ctx context.Context, actor dto.Actor, codigo string, id uuid.UUID) (string, error) {
	t, err := s.tablero(codigo)
	if err != nil {
		return "", err
	}
	orden, err := s.ordenDe(ctx, codigo, id)
	if err != nil {
		return "", err
	}
	if orden.Status == model.StatusPendiente {
		orden.Status = model.StatusAprobada
	} else {
		orden.Status = model.StatusPendiente
	}
	if err := s.repo.UpdateOrden(ctx, orden); err != nil {
		return "", err
	}
	s.bitacora.Registrar(ctx, actor, "Status de orden cambiado",
		fmt.Sprintf("%s '%s' → %s", t.EtiquetaClave, orden.Clave, orden.Status),
		t.GrupoBitacora, model.CategoriaDatos, model.SeveridadInfo)
	return orden.Status, nil
}

// ActualizarCelda writes one cell. Nil request fields leave the stored value
// or style untouched; a cell that ends up with no value and no style is
// deleted instead of stored empty.
func (s *programaService) ActualizarCelda(ctx context.Context, actor dto.Actor, codigo string, esAdmin bool, req dto.ActualizarCeldaRequest) error {
	t, err := s.tablero(codigo)
	if err != nil {
		return err
	}
	ordenID, err := uuid.Parse(req.OrdenID)
	if err != nil {
		return fmt.Errorf("%w: orden_id", ErrInvalido)
	}
	columnaID, err := uuid.Parse(req.ColumnaID)
	if err != nil {
		return fmt.Errorf("%w: columna_id", ErrInvalido)
	}

	orden, err := s.ordenDe(ctx, codigo, ordenID)
	if err != nil {
		return err
	}
	columna, err := s.columnaDe(ctx, codigo, columnaID)
	if err != nil {
		return err
	}
	if t.FlagEdicionColumnas && !esAdmin && !columna.EditablePorGrupo {
		return fmt.Errorf("%w: la columna '%s' es de solo lectura para tu rol", ErrSinPermiso, columna.Nombre)
	}

	var estilos string
	if req.Estilos != nil {
		raw, err := json.Marshal(req.Estilos)
		if err != nil {
			return fmt.Errorf("%w: estilos", ErrInvalido)
		}
		if len(req.Estilos) > 0 {
			estilos = string(raw)
		}
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		celda, err := s.repo.FindCelda(tx, ordenID, columnaID)
		if err != nil {
			return err
		}
		if celda == nil {
			celda = &model.Celda{ID: uuid.New(), OrdenID: ordenID, ColumnaID: columnaID}
		}
		if req.Valor != nil {
			celda.Valor = *req.Valor
		}
		if req.Estilos != nil {
			celda.Estilos = estilos
		}

		if celda.Valor == "" && celda.Estilos == "" {
			if err := s.repo.DeleteCelda(tx, celda.ID); err != nil {
				return err
			}
		} else if err := s.repo.SaveCelda(tx, celda); err != nil {
			return err
		}

		s.bitacora.Registrar(ctx, actor, "Celda actualizada",
			fmt.Sprintf("%s '%s', columna '%s'", t.EtiquetaClave, orden.Clave, columna.Nombre),
			t.GrupoBitacora, model.CategoriaDatos, model.SeveridadInfo)
		return nil
	})
}

func (s *programaService) CrearColumna(ctx context.Context, actor dto.Actor, codigo string, req dto.CrearColumnaRequest) (*dto.ColumnaResponse, error) {
	t, err := s.tablero(codigo)
	if err != nil {
		return nil, err
	}
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return nil, fmt.Errorf("%w: nombre de columna vacío", ErrInvalido)
	}
	if existing, err := s.repo.FindColumnaPorNombre(ctx, codigo, nombre); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: la columna '%s' ya existe", ErrConflicto, nombre)
	}
	max, err := s.repo.MaxOrdenColumna(ctx, codigo)
	if err != nil {
		return nil, err
	}
	col := &model.Columna{
		ID:               uuid.New(),
		Programa:         codigo,
		Nombre:           nombre,
		Orden:            max + 10,
		Ancho:            180,
		EditablePorGrupo: true,
	}
	if err := s.repo.CreateColumna(ctx, col); err != nil {
		return nil, err
	}
	s.bitacora.Registrar(ctx, actor, "Columna creada", fmt.Sprintf("Columna '%s'", nombre),
		t.GrupoBitacora, model.CategoriaDatos, model.SeveridadInfo)
	resp := columnaToResponse(col)
	return &resp, nil
}

func (s *programaService) EliminarColumna(ctx context.Context, actor dto.Actor, codigo string, id uuid.UUID) error {
	t, err := s.tablero(codigo)
	if err != nil {
		return err
	}
	col, err := s.columnaDe(ctx, codigo, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteColumna(ctx, id); err != nil {
		return err
	}
	s.bitacora.Registrar(ctx, actor, "Columna eliminada", fmt.Sprintf("Columna '%s'", col.Nombre),
		t.GrupoBitacora, model.CategoriaDatos, model.SeveridadWarning)
	return nil
}

func (s *programaService) ReordenarColumnas(ctx context.Context, actor dto.Actor, codigo string, req dto.ReordenarColumnasRequest) error {
	t, err := s.tablero(codigo)
	if err != nil {
		return err
	}
	for i, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("%w: id '%s'", ErrInvalido, raw)
		}
		// IDs que ya no existen se ignoran: la secuencia llega del navegador
		// y puede traer columnas borradas por otro admin.
		col, err := s.columnaDe(ctx, codigo, id)
		if errors.Is(err, ErrNoEncontrado) {
			continue
		}
		if err != nil {
			return err
		}
		col.Orden = (i + 1) * 10
		if err := s.repo.UpdateColumna(ctx, col); err != nil {
			return err
		}
	}
	s.bitacora.Registrar(ctx, actor, "Columnas reordenadas",
		fmt.Sprintf("%d columna(s)", len(req.IDs)),
		t.GrupoBitacora, model.CategoriaDatos, model.SeveridadInfo)
	return nil
}

// CambiarAncho persists a drag-resize. It fires on every drag end, so it
// deliberately skips the activity log.
func (s *programaService) CambiarAncho(ctx context.Context, codigo string, req dto.AnchoColumnaRequest) error {
	if _, err := s.tablero(codigo); err != nil {
		return err
	}
	id, err := uuid.Parse(req.ColumnaID)
	if err != nil {
		return fmt.Errorf("%w: columna_id", ErrInvalido)
	}
	col, err := s.columnaDe(ctx, codigo, id)
	if err != nil {
		return err
	}
	col.Ancho = req.Ancho
	return s.repo.UpdateColumna(ctx, col)
}

func (s *programaService) AlternarEditableColumna(ctx context.Context, actor dto.Actor, codigo string, id uuid.UUID) (bool, error) {
	t, err := s.tablero(codigo)
	if err != nil {
		return false, err
	}
	col, err := s.columnaDe(ctx, codigo, id)
	if err != nil {
		return false, err
	}
	col.EditablePorGrupo = !col.EditablePorGrupo
	if err := s.repo.UpdateColumna(ctx, col); err != nil {
		return false, err
	}
	s.bitacora.Registrar(ctx, actor, "Editabilidad de columna cambiada",
		fmt.Sprintf("Columna '%s' editable_por_grupo=%t", col.Nombre, col.EditablePorGrupo),
		t.GrupoBitacora, model.CategoriaDatos, model.SeveridadInfo)
	return col.EditablePorGrupo, nil
}

// ExportarExcel renders the filtered board as an xlsx download, dynamic
// columns included, without pagination.
func (s *programaService) ExportarExcel(ctx context.Context, codigo string, f dto.OrdenFiltro) ([]byte, string, error) {
	t, err := s.tablero(codigo)
	if err != nil {
		return nil, "", err
	}
	columnas, err := s.repo.ListColumnas(ctx, codigo)
	if err != nil {
		return nil, "", err
	}

	encabezados := []string{t.EtiquetaClave, t.EtiquetaSecundaria, "Cantidad", "Status", "Registrado"}
	anchos := []float64{22, 22, 12, 14, 20}
	for _, c := range columnas {
		encabezados = append(encabezados, c.Nombre)
		anchos = append(anchos, float64(c.Ancho)/8)
	}

	libro, err := infra.NewLibroTabular(fmt.Sprintf("Programa %s", codigo), encabezados, anchos)
	if err != nil {
		return nil, "", err
	}

	// Exportar completo: páginas de 15 en 15 hasta agotar.
	for page := 1; ; page++ {
		f.Page = page
		ordenes, total, err := s.repo.ListOrdenes(ctx, codigo, f)
		if err != nil {
			return nil, "", err
		}
		for i := range ordenes {
			o := &ordenes[i]
			fila := []any{o.Clave, o.Secundaria, o.Cantidad, o.Status, o.Timestamp.Format("2006-01-02 15:04")}
			porColumna := make(map[uuid.UUID]string, len(o.Celdas))
			for _, celda := range o.Celdas {
				porColumna[celda.ColumnaID] = celda.Valor
			}
			for _, c := range columnas {
				fila = append(fila, porColumna[c.ID])
			}
			if err := libro.AgregarFila(fila); err != nil {
				return nil, "", err
			}
		}
		if int64(page*dto.PaginasPrograma) >= total || len(ordenes) == 0 {
			break
		}
	}

	raw, err := libro.Bytes()
	if err != nil {
		return nil, "", err
	}
	nombre := fmt.Sprintf("programa_%s_%s.xlsx", strings.ToLower(codigo), time.Now().Format("20060102_150405"))
	return raw, nombre, nil
}

func (s *programaService) ordenDe(ctx context.Context, codigo string, id uuid.UUID) (*model.Orden, error) {
	orden, err := s.repo.FindOrdenPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if orden == nil || orden.Programa != codigo {
		return nil, fmt.Errorf("%w: orden", ErrNoEncontrado)
	}
	return orden, nil
}

func (s *programaService) columnaDe(ctx context.Context, codigo string, id uuid.UUID) (*model.Columna, error) {
	col, err := s.repo.FindColumnaPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if col == nil || col.Programa != codigo {
		return nil, fmt.Errorf("%w: columna", ErrNoEncontrado)
	}
	return col, nil
}

func ordenToResponse(o *model.Orden) dto.OrdenResponse {
	resp := dto.OrdenResponse{
		ID:         o.ID.String(),
		Clave:      o.Clave,
		Secundaria: o.Secundaria,
		Cantidad:   o.Cantidad,
		Timestamp:  o.Timestamp,
		Status:     o.Status,
		Celdas:     make(map[string]dto.CeldaResponse, len(o.Celdas)),
	}
	for _, c := range o.Celdas {
		resp.Celdas[c.ColumnaID.String()] = dto.CeldaResponse{Valor: c.Valor, Estilos: c.Estilos}
	}
	return resp
}

func columnaToResponse(c *model.Columna) dto.ColumnaResponse {
	return dto.ColumnaResponse{
		ID:               c.ID.String(),
		Nombre:           c.Nombre,
		Orden:            c.Orden,
		Ancho:            c.Ancho,
		EditablePorGrupo: c.EditablePorGrupo,
	}
}
