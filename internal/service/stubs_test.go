package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Berdoom/Nidec-01/internal/dto"
	"github.com/Berdoom/Nidec-01/internal/model"
	"github.com/Berdoom/Nidec-01/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubProduccionRepo is an in-memory ProduccionRepository. DB() returns nil so
// runTx executes callbacks directly, without a real transaction.
type stubProduccionRepo struct {
	pronosticos []*model.Pronostico
	capturas    []*model.ProduccionCaptura
	outputs     []*model.OutputData
	borrado     bool
}

func newStubProduccionRepo() *stubProduccionRepo { return &stubProduccionRepo{} }

func (r *stubProduccionRepo) DB() *gorm.DB { return nil }

func mismaFecha(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func (r *stubProduccionRepo) Totales(_ context.Context, grupo string, desde, hasta time.Time) (repository.TotalesGrupo, error) {
	var t repository.TotalesGrupo
	enRango := func(f time.Time) bool { return !f.Before(desde) && !f.After(hasta) }
	for _, p := range r.pronosticos {
		if p.Grupo == grupo && enRango(p.Fecha) && p.ValorPronostico != nil {
			t.PronosticoAreas += int64(*p.ValorPronostico)
		}
	}
	for _, c := range r.capturas {
		if c.Grupo == grupo && enRango(c.Fecha) && c.ValorProducido != nil {
			t.ProducidoAreas += int64(*c.ValorProducido)
		}
	}
	for _, o := range r.outputs {
		if o.Grupo == grupo && enRango(o.Fecha) {
			t.PronosticoOut += int64(o.Pronostico)
			t.ProducidoOut += int64(o.Output)
		}
	}
	return t, nil
}

func (r *stubProduccionRepo) PronosticosDeFecha(_ context.Context, fecha time.Time, grupo string) ([]model.Pronostico, error) {
	var out []model.Pronostico
	for _, p := range r.pronosticos {
		if mismaFecha(p.Fecha, fecha) && (grupo == "" || p.Grupo == grupo) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProduccionRepo) CapturasDeFecha(_ context.Context, fecha time.Time, grupo string) ([]model.ProduccionCaptura, error) {
	var out []model.ProduccionCaptura
	for _, c := range r.capturas {
		if mismaFecha(c.Fecha, fecha) && (grupo == "" || c.Grupo == grupo) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubProduccionRepo) OutputDeFecha(_ context.Context, fecha time.Time, grupo string) (*model.OutputData, error) {
	for _, o := range r.outputs {
		if mismaFecha(o.Fecha, fecha) && o.Grupo == grupo {
			return o, nil
		}
	}
	return nil, nil
}

func (r *stubProduccionRepo) FindPronostico(_ *gorm.DB, fecha time.Time, grupo, area, turno string) (*model.Pronostico, error) {
	for _, p := range r.pronosticos {
		if mismaFecha(p.Fecha, fecha) && p.Grupo == grupo && p.Area == area && p.Turno == turno {
			return p, nil
		}
	}
	return nil, nil
}

func (r *stubProduccionRepo) SavePronostico(_ *gorm.DB, p *model.Pronostico) error {
	for i, existing := range r.pronosticos {
		if existing.ID == p.ID {
			r.pronosticos[i] = p
			return nil
		}
	}
	r.pronosticos = append(r.pronosticos, p)
	return nil
}

func (r *stubProduccionRepo) FindCaptura(_ *gorm.DB, fecha time.Time, grupo, area, hora string) (*model.ProduccionCaptura, error) {
	for _, c := range r.capturas {
		if mismaFecha(c.Fecha, fecha) && c.Grupo == grupo && c.Area == area && c.Hora == hora {
			return c, nil
		}
	}
	return nil, nil
}

func (r *stubProduccionRepo) SaveCaptura(_ *gorm.DB, c *model.ProduccionCaptura) error {
	for i, existing := range r.capturas {
		if existing.ID == c.ID {
			r.capturas[i] = c
			return nil
		}
	}
	r.capturas = append(r.capturas, c)
	return nil
}

func (r *stubProduccionRepo) FindOutput(_ *gorm.DB, fecha time.Time, grupo string) (*model.OutputData, error) {
	for _, o := range r.outputs {
		if mismaFecha(o.Fecha, fecha) && o.Grupo == grupo {
			return o, nil
		}
	}
	return nil, nil
}

func (r *stubProduccionRepo) SaveOutput(_ *gorm.DB, o *model.OutputData) error {
	for i, existing := range r.outputs {
		if existing.ID == o.ID {
			r.outputs[i] = o
			return nil
		}
	}
	r.outputs = append(r.outputs, o)
	return nil
}

func (r *stubProduccionRepo) FindPronosticoPorID(_ context.Context, id uuid.UUID) (*model.Pronostico, error) {
	for _, p := range r.pronosticos {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *stubProduccionRepo) PronosticosConRazon(_ context.Context, desde, hasta *time.Time, grupo, status string) ([]model.Pronostico, error) {
	var out []model.Pronostico
	for _, p := range r.pronosticos {
		if p.RazonDesviacion == "" {
			continue
		}
		if grupo != "" && p.Grupo != grupo {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		if desde != nil && p.FechaRazon != nil && p.FechaRazon.Before(*desde) {
			continue
		}
		if hasta != nil && p.FechaRazon != nil && p.FechaRazon.After(hasta.AddDate(0, 0, 1)) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProduccionRepo) CountPronosticosNuevos(_ context.Context) (int64, error) {
	var n int64
	for _, p := range r.pronosticos {
		if p.RazonDesviacion != "" && p.Status == model.StatusNuevo {
			n++
		}
	}
	return n, nil
}

func (r *stubProduccionRepo) BorrarDia(_ context.Context, grupo string, fecha time.Time) error {
	var pronosticos []*model.Pronostico
	for _, p := range r.pronosticos {
		if !(p.Grupo == grupo && mismaFecha(p.Fecha, fecha)) {
			pronosticos = append(pronosticos, p)
		}
	}
	r.pronosticos = pronosticos
	var capturas []*model.ProduccionCaptura
	for _, c := range r.capturas {
		if !(c.Grupo == grupo && mismaFecha(c.Fecha, fecha)) {
			capturas = append(capturas, c)
		}
	}
	r.capturas = capturas
	var outputs []*model.OutputData
	for _, o := range r.outputs {
		if !(o.Grupo == grupo && mismaFecha(o.Fecha, fecha)) {
			outputs = append(outputs, o)
		}
	}
	r.outputs = outputs
	r.borrado = true
	return nil
}

var _ repository.ProduccionRepository = (*stubProduccionRepo)(nil)

// stubProgramaRepo is an in-memory ProgramaRepository for board tests.
type stubProgramaRepo struct {
	ordenes  []*model.Orden
	columnas []*model.Columna
	celdas   []*model.Celda
}

func newStubProgramaRepo() *stubProgramaRepo { return &stubProgramaRepo{} }

func (r *stubProgramaRepo) DB() *gorm.DB { return nil }

func (r *stubProgramaRepo) ListOrdenes(_ context.Context, programa string, f dto.OrdenFiltro) ([]model.Orden, int64, error) {
	var filtradas []*model.Orden
	for _, o := range r.ordenes {
		if o.Programa != programa {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.Clave != "" && !strings.Contains(strings.ToLower(o.Clave), strings.ToLower(f.Clave)) {
			continue
		}
		if f.Secundaria != "" && !strings.Contains(strings.ToLower(o.Secundaria), strings.ToLower(f.Secundaria)) {
			continue
		}
		filtradas = append(filtradas, o)
	}
	sort.SliceStable(filtradas, func(i, j int) bool {
		return filtradas[i].Timestamp.Before(filtradas[j].Timestamp)
	})
	total := int64(len(filtradas))
	page := f.Page
	if page < 1 {
		page = 1
	}
	desde := (page - 1) * dto.PaginasPrograma
	if desde >= len(filtradas) {
		return nil, total, nil
	}
	hasta := desde + dto.PaginasPrograma
	if hasta > len(filtradas) {
		hasta = len(filtradas)
	}
	out := make([]model.Orden, 0, hasta-desde)
	for _, o := range filtradas[desde:hasta] {
		copia := *o
		copia.Celdas = nil
		for _, c := range r.celdas {
			if c.OrdenID == o.ID {
				copia.Celdas = append(copia.Celdas, *c)
			}
		}
		out = append(out, copia)
	}
	return out, total, nil
}

func (r *stubProgramaRepo) FindOrdenPorID(_ context.Context, id uuid.UUID) (*model.Orden, error) {
	for _, o := range r.ordenes {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, nil
}

func (r *stubProgramaRepo) FindOrdenPorClave(_ context.Context, programa, clave string) (*model.Orden, error) {
	for _, o := range r.ordenes {
		if o.Programa == programa && o.Clave == clave {
			return o, nil
		}
	}
	return nil, nil
}

func (r *stubProgramaRepo) ClavesRepetidas(_ context.Context, programa string) (map[string]bool, map[string]bool, error) {
	claves := map[string]int{}
	secundarias := map[string]int{}
	for _, o := range r.ordenes {
		if o.Programa != programa || o.Status != model.StatusPendiente {
			continue
		}
		claves[o.Clave]++
		if o.Secundaria != "" {
			secundarias[o.Secundaria]++
		}
	}
	repetidas := func(m map[string]int) map[string]bool {
		out := map[string]bool{}
		for k, n := range m {
			if n > 1 {
				out[k] = true
			}
		}
		return out
	}
	return repetidas(claves), repetidas(secundarias), nil
}

func (r *stubProgramaRepo) CreateOrden(_ *gorm.DB, o *model.Orden) error {
	r.ordenes = append(r.ordenes, o)
	return nil
}

func (r *stubProgramaRepo) UpdateOrden(_ context.Context, o *model.Orden) error {
	for i, existing := range r.ordenes {
		if existing.ID == o.ID {
			r.ordenes[i] = o
		}
	}
	return nil
}

func (r *stubProgramaRepo) DeleteOrden(_ context.Context, id uuid.UUID) error {
	var keep []*model.Orden
	for _, o := range r.ordenes {
		if o.ID != id {
			keep = append(keep, o)
		}
	}
	r.ordenes = keep
	var celdas []*model.Celda
	for _, c := range r.celdas {
		if c.OrdenID != id {
			celdas = append(celdas, c)
		}
	}
	r.celdas = celdas
	return nil
}

func (r *stubProgramaRepo) ListColumnas(_ context.Context, programa string) ([]model.Columna, error) {
	var out []model.Columna
	for _, c := range r.columnas {
		if c.Programa == programa {
			out = append(out, *c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Orden < out[j].Orden })
	return out, nil
}

func (r *stubProgramaRepo) FindColumnaPorID(_ context.Context, id uuid.UUID) (*model.Columna, error) {
	for _, c := range r.columnas {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *stubProgramaRepo) FindColumnaPorNombre(_ context.Context, programa, nombre string) (*model.Columna, error) {
	for _, c := range r.columnas {
		if c.Programa == programa && c.Nombre == nombre {
			return c, nil
		}
	}
	return nil, nil
}

func (r *stubProgramaRepo) CreateColumna(_ context.Context, c *model.Columna) error {
	r.columnas = append(r.columnas, c)
	return nil
}

func (r *stubProgramaRepo) UpdateColumna(_ context.Context, c *model.Columna) error {
	for i, existing := range r.columnas {
		if existing.ID == c.ID {
			r.columnas[i] = c
		}
	}
	return nil
}

func (r *stubProgramaRepo) DeleteColumna(_ context.Context, id uuid.UUID) error {
	var keep []*model.Columna
	for _, c := range r.columnas {
		if c.ID != id {
			keep = append(keep, c)
		}
	}
	r.columnas = keep
	var celdas []*model.Celda
	for _, c := range r.celdas {
		if c.ColumnaID != id {
			celdas = append(celdas, c)
		}
	}
	r.celdas = celdas
	return nil
}

func (r *stubProgramaRepo) MaxOrdenColumna(_ context.Context, programa string) (int, error) {
	max := 0
	for _, c := range r.columnas {
		if c.Programa == programa && c.Orden > max {
			max = c.Orden
		}
	}
	return max, nil
}

func (r *stubProgramaRepo) FindCelda(_ *gorm.DB, ordenID, columnaID uuid.UUID) (*model.Celda, error) {
	for _, c := range r.celdas {
		if c.OrdenID == ordenID && c.ColumnaID == columnaID {
			return c, nil
		}
	}
	return nil, nil
}

func (r *stubProgramaRepo) SaveCelda(_ *gorm.DB, c *model.Celda) error {
	for i, existing := range r.celdas {
		if existing.ID == c.ID {
			r.celdas[i] = c
			return nil
		}
	}
	r.celdas = append(r.celdas, c)
	return nil
}

func (r *stubProgramaRepo) DeleteCelda(_ *gorm.DB, id uuid.UUID) error {
	var keep []*model.Celda
	for _, c := range r.celdas {
		if c.ID != id {
			keep = append(keep, c)
		}
	}
	r.celdas = keep
	return nil
}

var _ repository.ProgramaRepository = (*stubProgramaRepo)(nil)

// stubSolicitudRepo is an in-memory SolicitudRepository.
type stubSolicitudRepo struct {
	solicitudes []*model.SolicitudCorreccion
}

func (r *stubSolicitudRepo) Create(_ context.Context, s *model.SolicitudCorreccion) error {
	r.solicitudes = append(r.solicitudes, s)
	return nil
}

func (r *stubSolicitudRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SolicitudCorreccion, error) {
	for _, s := range r.solicitudes {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (r *stubSolicitudRepo) Update(_ context.Context, s *model.SolicitudCorreccion) error {
	for i, existing := range r.solicitudes {
		if existing.ID == s.ID {
			r.solicitudes[i] = s
		}
	}
	return nil
}

func (r *stubSolicitudRepo) List(_ context.Context, desde, hasta *time.Time, grupo, status string) ([]model.SolicitudCorreccion, error) {
	var out []model.SolicitudCorreccion
	for _, s := range r.solicitudes {
		if grupo != "" && s.Grupo != grupo {
			continue
		}
		if status != "" && s.Status != status {
			continue
		}
		if desde != nil && s.Timestamp.Before(*desde) {
			continue
		}
		if hasta != nil && s.Timestamp.After(hasta.AddDate(0, 0, 1)) {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSolicitudRepo) CountPendientes(_ context.Context) (int64, error) {
	var n int64
	for _, s := range r.solicitudes {
		if s.Status == model.StatusPendiente {
			n++
		}
	}
	return n, nil
}

var _ repository.SolicitudRepository = (*stubSolicitudRepo)(nil)

// stubBitacoraRepo captures appended log entries for assertion.
type stubBitacoraRepo struct {
	registros []model.RegistroActividad
}

func (r *stubBitacoraRepo) Create(_ context.Context, reg *model.RegistroActividad) error {
	r.registros = append(r.registros, *reg)
	return nil
}

func (r *stubBitacoraRepo) List(_ context.Context, _ dto.BitacoraFiltro, limit int) ([]model.RegistroActividad, error) {
	if limit > 0 && len(r.registros) > limit {
		return r.registros[:limit], nil
	}
	return r.registros, nil
}

var _ repository.BitacoraRepository = (*stubBitacoraRepo)(nil)

// nuevaBitacora builds a real BitacoraService over the capture stub.
func nuevaBitacora() (BitacoraService, *stubBitacoraRepo) {
	repo := &stubBitacoraRepo{}
	return NewBitacoraService(repo), repo
}

// stubUsuarioRepo is an in-memory UsuarioRepository.
type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	return r.usuarios[id], nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *stubUsuarioRepo) List(_ context.Context, _ dto.UsuarioFiltro) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.usuarios, id)
	return nil
}

func (r *stubUsuarioRepo) CountByRol(_ context.Context, rolID uuid.UUID) (int64, error) {
	var n int64
	for _, u := range r.usuarios {
		if u.RolID == rolID {
			n++
		}
	}
	return n, nil
}

func (r *stubUsuarioRepo) CountByTurno(_ context.Context, turnoID uuid.UUID) (int64, error) {
	var n int64
	for _, u := range r.usuarios {
		if u.TurnoID != nil && *u.TurnoID == turnoID {
			n++
		}
	}
	return n, nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// stubRolRepo is an in-memory RolRepository plus permission catalog.
type stubRolRepo struct {
	roles    map[uuid.UUID]*model.Rol
	permisos map[uuid.UUID]*model.Permiso
}

func newStubRolRepo() *stubRolRepo {
	return &stubRolRepo{
		roles:    make(map[uuid.UUID]*model.Rol),
		permisos: make(map[uuid.UUID]*model.Permiso),
	}
}

func (r *stubRolRepo) Create(_ context.Context, rol *model.Rol) error {
	r.roles[rol.ID] = rol
	return nil
}

func (r *stubRolRepo) Update(_ context.Context, rol *model.Rol) error {
	r.roles[rol.ID] = rol
	return nil
}

func (r *stubRolRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Rol, error) {
	return r.roles[id], nil
}

func (r *stubRolRepo) FindByNombre(_ context.Context, nombre string) (*model.Rol, error) {
	for _, rol := range r.roles {
		if rol.Nombre == nombre {
			return rol, nil
		}
	}
	return nil, nil
}

func (r *stubRolRepo) FindPorIDs(_ context.Context, ids []uuid.UUID) ([]model.Rol, error) {
	var out []model.Rol
	for _, id := range ids {
		if rol, ok := r.roles[id]; ok {
			out = append(out, *rol)
		}
	}
	return out, nil
}

func (r *stubRolRepo) List(_ context.Context) ([]model.Rol, error) {
	var out []model.Rol
	for _, rol := range r.roles {
		out = append(out, *rol)
	}
	return out, nil
}

func (r *stubRolRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.roles, id)
	return nil
}

func (r *stubRolRepo) ReplacePermisos(_ context.Context, rol *model.Rol, permisos []model.Permiso) error {
	rol.Permisos = permisos
	r.roles[rol.ID] = rol
	return nil
}

func (r *stubRolRepo) ReplaceVisibles(_ context.Context, rol *model.Rol, visibles []*model.Rol) error {
	rol.Visibles = visibles
	r.roles[rol.ID] = rol
	return nil
}

func (r *stubRolRepo) SavePermiso(_ context.Context, p *model.Permiso) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.permisos[p.ID] = p
	return nil
}

func (r *stubRolRepo) ListPermisos(_ context.Context) ([]model.Permiso, error) {
	var out []model.Permiso
	for _, p := range r.permisos {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubRolRepo) FindPermisoPorNombre(_ context.Context, nombre string) (*model.Permiso, error) {
	for _, p := range r.permisos {
		if p.Nombre == nombre {
			return p, nil
		}
	}
	return nil, nil
}

func (r *stubRolRepo) FindPermisosPorIDs(_ context.Context, ids []uuid.UUID) ([]model.Permiso, error) {
	var out []model.Permiso
	for _, id := range ids {
		if p, ok := r.permisos[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

var _ repository.RolRepository = (*stubRolRepo)(nil)

// stubTurnoRepo is an in-memory TurnoRepository.
type stubTurnoRepo struct {
	turnos map[uuid.UUID]*model.Turno
}

func newStubTurnoRepo() *stubTurnoRepo {
	return &stubTurnoRepo{turnos: make(map[uuid.UUID]*model.Turno)}
}

func (r *stubTurnoRepo) Create(_ context.Context, t *model.Turno) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.turnos[t.ID] = t
	return nil
}

func (r *stubTurnoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Turno, error) {
	return r.turnos[id], nil
}

func (r *stubTurnoRepo) FindByNombre(_ context.Context, nombre string) (*model.Turno, error) {
	for _, t := range r.turnos {
		if t.Nombre == nombre {
			return t, nil
		}
	}
	return nil, nil
}

func (r *stubTurnoRepo) List(_ context.Context) ([]model.Turno, error) {
	var out []model.Turno
	for _, t := range r.turnos {
		out = append(out, *t)
	}
	return out, nil
}

func (r *stubTurnoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.turnos, id)
	return nil
}

var _ repository.TurnoRepository = (*stubTurnoRepo)(nil)
