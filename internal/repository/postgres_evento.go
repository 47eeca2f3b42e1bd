package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var eventoSortColumns = []string{"id", "nombre", "precio", "created_at"}

type PostgresEventoRepository struct {
	db *pgxpool.Pool
}

func NewPostgresEventoRepository(db *pgxpool.Pool) *PostgresEventoRepository {
	return &PostgresEventoRepository{
		db: db,
	}
}

const eventoColumns = `
	e.id, e.nombre, e.descripcion, e.cupo, e.precio,
	s.id, s.nombre, s.es_principal, s.direccion, s.aclaraciones, s.bodega_id, s.latitude, s.longitude,
	ee.id, ee.nombre, ce.id, ce.nombre,
	vm.valor_medio, vm.cantidad_valoraciones
`

const eventoJoins = `
	FROM eventos e
	JOIN sucursales s ON s.id = e.sucursal_id
	LEFT JOIN estado_eventos ee ON ee.id = e.estado_id
	LEFT JOIN categoria_eventos ce ON ce.id = e.categoria_id
	LEFT JOIN valoracion_media vm ON vm.evento_id = e.id
`

func (p *PostgresEventoRepository) GetAll(ctx context.Context, filters domain.EventoFilters) ([]domain.Evento, *domain.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) OVER(), %s
		%s
		WHERE e.deleted_at IS NULL
			AND ($1::int IS NULL OR e.sucursal_id = $1)
			AND ($2::int IS NULL OR e.categoria_id = $2)
			AND ($3::int IS NULL OR e.estado_id = $3)
			AND ($4::int IS NULL OR s.bodega_id = $4)
			AND ($5::numeric IS NULL OR e.precio >= $5::numeric)
			AND ($6::numeric IS NULL OR e.precio <= $6::numeric)
			AND ($7::float8 IS NULL OR COALESCE(vm.valor_medio, 0) >= $7)
			AND ($8 = '' OR e.nombre ILIKE '%%' || $8 || '%%')
			AND (($9::timestamptz IS NULL AND $10::timestamptz IS NULL) OR EXISTS (
				SELECT 1 FROM instancia_eventos ie
				WHERE ie.evento_id = e.id
					AND ie.deleted_at IS NULL
					AND ($9::timestamptz IS NULL OR ie.fecha >= $9)
					AND ($10::timestamptz IS NULL OR ie.fecha <= $10)
			))
		ORDER BY e.%s %s, e.id ASC
		LIMIT $11 OFFSET $12`,
		eventoColumns,
		eventoJoins,
		filters.SafeSortColumn(eventoSortColumns, "id"),
		filters.SortDirection())

	rows, err := p.db.Query(
		ctx,
		query,
		filters.SucursalID,
		filters.CategoriaID,
		filters.EstadoID,
		filters.BodegaID,
		decimalArg(filters.PrecioMinimo),
		decimalArg(filters.PrecioMaximo),
		filters.PuntuacionMinima,
		filters.Name,
		filters.FechaDesde,
		filters.FechaHasta,
		filters.Limit(),
		filters.Offset(),
	)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	totalRecords := 0
	eventos := make([]domain.Evento, 0)

	for rows.Next() {
		var scanner eventoScanner

		dest := append([]any{&totalRecords}, scanner.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, err
		}

		eventos = append(eventos, scanner.evento())
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	if err := p.attachMultimedia(ctx, eventos); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, filters.Page, filters.PageSize)

	return eventos, metadata, nil
}

func (p *PostgresEventoRepository) GetById(ctx context.Context, id int) (*domain.Evento, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE e.id = $1 AND e.deleted_at IS NULL`, eventoColumns, eventoJoins)

	var scanner eventoScanner

	err := p.db.QueryRow(ctx, query, id).Scan(scanner.dest()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	evento := scanner.evento()

	instancias, err := p.retrieveInstancias(ctx, evento.ID)
	if err != nil {
		return nil, err
	}
	evento.Instancias = instancias

	eventos := []domain.Evento{evento}
	if err := p.attachMultimedia(ctx, eventos); err != nil {
		return nil, err
	}

	return &eventos[0], nil
}

func (p *PostgresEventoRepository) GetByInstanciaId(ctx context.Context, instanciaId int) (*domain.Evento, error) {
	var eventoId int

	query := `SELECT evento_id FROM instancia_eventos WHERE id = $1 AND deleted_at IS NULL`

	err := p.db.QueryRow(ctx, query, instanciaId).Scan(&eventoId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return p.GetById(ctx, eventoId)
}

func (p *PostgresEventoRepository) retrieveInstancias(ctx context.Context, eventoId int) ([]domain.InstanciaEvento, error) {
	query := `
		SELECT id, fecha, estado, evento_id
		FROM instancia_eventos
		WHERE evento_id = $1 AND deleted_at IS NULL
		ORDER BY fecha, id
	`

	rows, err := p.db.Query(ctx, query, eventoId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	instancias := make([]domain.InstanciaEvento, 0)

	for rows.Next() {
		var instancia domain.InstanciaEvento

		err := rows.Scan(&instancia.ID, &instancia.Date, &instancia.Estado, &instancia.EventoID)
		if err != nil {
			return nil, err
		}

		instancias = append(instancias, instancia)
	}

	return instancias, rows.Err()
}

func (p *PostgresEventoRepository) attachMultimedia(ctx context.Context, eventos []domain.Evento) error {
	if len(eventos) == 0 {
		return nil
	}

	index := make(map[int]int, len(eventos))
	ids := make([]int, len(eventos))
	for i, e := range eventos {
		index[e.ID] = i
		ids[i] = e.ID
		eventos[i].Multimedia = make([]domain.Multimedia, 0)
	}

	query := `
		SELECT id, url, es_portada, evento_id
		FROM multimedia
		WHERE evento_id = ANY($1)
		ORDER BY es_portada DESC, id
	`

	rows, err := p.db.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			m        domain.Multimedia
			eventoId int
		)

		if err := rows.Scan(&m.ID, &m.URL, &m.IsCover, &eventoId); err != nil {
			return err
		}

		i := index[eventoId]
		eventos[i].Multimedia = append(eventos[i].Multimedia, m)
	}

	return rows.Err()
}

func (p *PostgresEventoRepository) GetCategorias(ctx context.Context) ([]domain.Categoria, error) {
	rows, err := p.db.Query(ctx, `SELECT id, nombre FROM categoria_eventos ORDER BY nombre`)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Categoria, error) {
		var c domain.Categoria
		err := row.Scan(&c.ID, &c.Name)
		return c, err
	})
}

func (p *PostgresEventoRepository) GetEstados(ctx context.Context) ([]domain.EstadoEvento, error) {
	rows, err := p.db.Query(ctx, `SELECT id, nombre FROM estado_eventos ORDER BY id`)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.EstadoEvento, error) {
		var e domain.EstadoEvento
		err := row.Scan(&e.ID, &e.Name)
		return e, err
	})
}

// eventoScanner holds the nullable columns of eventoColumns while scanning.
type eventoScanner struct {
	base        domain.Evento
	sucursal    domain.Sucursal
	precio      pgtype.Numeric
	estadoId    *int
	estadoName  *string
	catId       *int
	catName     *string
	ratingAvg   pgtype.Numeric
	ratingCount *int
}

func (s *eventoScanner) dest() []any {
	return []any{
		&s.base.ID,
		&s.base.Name,
		&s.base.Description,
		&s.base.Capacity,
		&s.precio,
		&s.sucursal.ID,
		&s.sucursal.Name,
		&s.sucursal.IsMain,
		&s.sucursal.Address,
		&s.sucursal.Instructions,
		&s.sucursal.BodegaID,
		&s.sucursal.Latitude,
		&s.sucursal.Longitude,
		&s.estadoId,
		&s.estadoName,
		&s.catId,
		&s.catName,
		&s.ratingAvg,
		&s.ratingCount,
	}
}

func (s *eventoScanner) evento() domain.Evento {
	e := s.base
	e.Price = toDecimal(s.precio)

	sucursal := s.sucursal
	e.Sucursal = &sucursal

	if s.estadoId != nil {
		e.Estado = &domain.EstadoEvento{ID: *s.estadoId, Name: *s.estadoName}
	}

	if s.catId != nil {
		e.Categoria = &domain.Categoria{ID: *s.catId, Name: *s.catName}
	}

	if s.ratingCount != nil {
		e.Rating = &domain.ValoracionMedia{
			Average: toDecimal(s.ratingAvg),
			Count:   *s.ratingCount,
		}
	}

	return e
}

func (p *PostgresEventoRepository) FinalizePastInstancias(ctx context.Context, before time.Time) (int64, error) {
	query := `
		UPDATE instancia_eventos
		SET estado = 'FINALIZADA'
		WHERE estado = 'ACTIVA' AND fecha < $1 AND deleted_at IS NULL
	`

	result, err := p.db.Exec(ctx, query, before)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected(), nil
}
