package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var recorridoSortColumns = []string{"id", "created_at", "updated_at", "name"}

type PostgresRecorridoRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRecorridoRepository(db *pgxpool.Pool) *PostgresRecorridoRepository {
	return &PostgresRecorridoRepository{
		db: db,
	}
}

func (p *PostgresRecorridoRepository) GetAllByUserId(
	ctx context.Context,
	userId int,
	filters domain.RecorridoFilters) ([]domain.Recorrido, *domain.Metadata, error) {

	query := fmt.Sprintf(`
		SELECT COUNT(*) OVER(), id, user_id, name, estado, last_optimization, created_at, updated_at
		FROM recorridos
		WHERE user_id = $1
			AND deleted_at IS NULL
			AND ($2::text IS NULL OR estado = $2)
		ORDER BY %s %s, id DESC
		LIMIT $3 OFFSET $4`,
		filters.SafeSortColumn(recorridoSortColumns, "id"), filters.SortDirection())

	var estado *string
	if filters.Estado != nil {
		s := string(*filters.Estado)
		estado = &s
	}

	rows, err := p.db.Query(ctx, query, userId, estado, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	totalRecords := 0
	recorridos := make([]domain.Recorrido, 0)

	for rows.Next() {
		var recorrido domain.Recorrido

		err := rows.Scan(
			&totalRecords,
			&recorrido.ID,
			&recorrido.UserID,
			&recorrido.Name,
			&recorrido.Estado,
			&recorrido.LastOptimization,
			&recorrido.CreatedAt,
			&recorrido.UpdatedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		recorridos = append(recorridos, recorrido)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	ids := make([]int, len(recorridos))
	for i, r := range recorridos {
		ids[i] = r.ID
	}

	reservas, err := p.retrieveReservas(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	for i := range recorridos {
		recorridos[i].Reservas = reservas[recorridos[i].ID]
	}

	metadata := domain.NewMetadata(totalRecords, filters.Page, filters.PageSize)

	return recorridos, metadata, nil
}

func (p *PostgresRecorridoRepository) GetByIdAndUserId(ctx context.Context, id, userId int) (*domain.Recorrido, error) {
	query := `
		SELECT id, user_id, name, estado, last_optimization, created_at, updated_at
		FROM recorridos
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	var recorrido domain.Recorrido

	err := p.db.QueryRow(ctx, query, id, userId).Scan(
		&recorrido.ID,
		&recorrido.UserID,
		&recorrido.Name,
		&recorrido.Estado,
		&recorrido.LastOptimization,
		&recorrido.CreatedAt,
		&recorrido.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	reservas, err := p.retrieveReservas(ctx, []int{recorrido.ID})
	if err != nil {
		return nil, err
	}

	recorrido.Reservas = reservas[recorrido.ID]

	return &recorrido, nil
}

// retrieveReservas loads the reservas of the given recorridos in creation
// order, keyed by recorrido id.
func (p *PostgresRecorridoRepository) retrieveReservas(ctx context.Context, recorridoIds []int) (map[int][]domain.Reserva, error) {
	result := make(map[int][]domain.Reserva, len(recorridoIds))
	for _, id := range recorridoIds {
		result[id] = make([]domain.Reserva, 0)
	}

	if len(recorridoIds) == 0 {
		return result, nil
	}

	query := `
		SELECT
			rv.id, rv.precio, rv.cantidad_gente, rv.instancia_evento_id, rv.recorrido_id, rv.created_at,
			ie.fecha, ie.estado, ie.evento_id,
			e.nombre, e.descripcion, e.precio,
			s.id, s.nombre, s.direccion, s.bodega_id, s.latitude, s.longitude
		FROM reservas rv
		JOIN instancia_eventos ie ON ie.id = rv.instancia_evento_id
		JOIN eventos e ON e.id = ie.evento_id
		JOIN sucursales s ON s.id = e.sucursal_id
		WHERE rv.recorrido_id = ANY($1) AND rv.deleted_at IS NULL
		ORDER BY rv.id
	`

	rows, err := p.db.Query(ctx, query, recorridoIds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			reserva     domain.Reserva
			evento      domain.Evento
			sucursal    domain.Sucursal
			precio      pgtype.Numeric
			eventoPrice pgtype.Numeric
		)

		err := rows.Scan(
			&reserva.ID,
			&precio,
			&reserva.PeopleCount,
			&reserva.InstanciaEventoID,
			&reserva.RecorridoID,
			&reserva.CreatedAt,
			&reserva.InstanciaEvento.Date,
			&reserva.InstanciaEvento.Estado,
			&reserva.InstanciaEvento.EventoID,
			&evento.Name,
			&evento.Description,
			&eventoPrice,
			&sucursal.ID,
			&sucursal.Name,
			&sucursal.Address,
			&sucursal.BodegaID,
			&sucursal.Latitude,
			&sucursal.Longitude,
		)
		if err != nil {
			return nil, err
		}

		reserva.Price = toDecimal(precio)
		reserva.InstanciaEvento.ID = reserva.InstanciaEventoID

		evento.ID = reserva.InstanciaEvento.EventoID
		evento.Price = toDecimal(eventoPrice)
		evento.Sucursal = &sucursal
		reserva.InstanciaEvento.Evento = &evento

		result[reserva.RecorridoID] = append(result[reserva.RecorridoID], reserva)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (p *PostgresRecorridoRepository) UpdateName(ctx context.Context, id, userId int, name string) error {
	query := `
		UPDATE recorridos
		SET name = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3 AND deleted_at IS NULL
	`

	result, err := p.db.Exec(ctx, query, name, id, userId)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresRecorridoRepository) Cancel(ctx context.Context, id, userId int) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		estado, err := lockRecorrido(ctx, tx, id, userId)
		if err != nil {
			return err
		}

		if estado == domain.EstadoRecorridoCancelado {
			return domain.ErrRecorridoCancelled
		}

		return setEstado(ctx, tx, id, domain.EstadoRecorridoCancelado)
	})
}

func (p *PostgresRecorridoRepository) Confirm(ctx context.Context, id, userId int) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		estado, err := lockRecorrido(ctx, tx, id, userId)
		if err != nil {
			return err
		}

		switch estado {
		case domain.EstadoRecorridoPendiente:
			return setEstado(ctx, tx, id, domain.EstadoRecorridoConfirmado)
		case domain.EstadoRecorridoCancelado:
			return domain.ErrRecorridoCancelled
		default:
			return domain.ErrRecorridoNotPending
		}
	})
}

func lockRecorrido(ctx context.Context, tx pgx.Tx, id, userId int) (domain.EstadoRecorrido, error) {
	query := `
		SELECT estado
		FROM recorridos
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		FOR UPDATE
	`

	var estado domain.EstadoRecorrido

	err := tx.QueryRow(ctx, query, id, userId).Scan(&estado)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrRecordNotFound
		}

		return "", err
	}

	return estado, nil
}

func setEstado(ctx context.Context, tx pgx.Tx, id int, estado domain.EstadoRecorrido) error {
	query := `
		UPDATE recorridos
		SET estado = $1, updated_at = NOW()
		WHERE id = $2
	`

	_, err := tx.Exec(ctx, query, estado, id)
	return err
}
