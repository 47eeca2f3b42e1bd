package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const defaultRecorridoName = "Mi recorrido"

type PostgresReservaRepository struct {
	db *pgxpool.Pool
}

func NewPostgresReservaRepository(db *pgxpool.Pool) *PostgresReservaRepository {
	return &PostgresReservaRepository{
		db: db,
	}
}

// lockedInstancia is an instancia row held with FOR UPDATE for the rest of
// the transaction, together with the evento fields pricing depends on.
type lockedInstancia struct {
	instancia domain.InstanciaEvento
	capacity  int
	price     decimal.Decimal
}

func (p *PostgresReservaRepository) Create(ctx context.Context, userId int, input domain.NewReserva) (*domain.Reserva, error) {
	var reserva *domain.Reserva

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		recorridoId, err := p.pendingRecorrido(ctx, tx, userId, input)
		if err != nil {
			return err
		}

		locked, err := lockInstancia(ctx, tx, input.InstanciaEventoID)
		if err != nil {
			return err
		}

		if err := checkCapacity(ctx, tx, locked, 0, input.PeopleCount); err != nil {
			return err
		}

		price := locked.price.Mul(decimal.NewFromInt(int64(input.PeopleCount)))

		query := `
			INSERT INTO reservas (precio, cantidad_gente, instancia_evento_id, recorrido_id)
			VALUES ($1::numeric, $2, $3, $4)
			RETURNING id, created_at
		`

		reserva = &domain.Reserva{
			Price:             price,
			PeopleCount:       input.PeopleCount,
			InstanciaEventoID: input.InstanciaEventoID,
			RecorridoID:       recorridoId,
			InstanciaEvento:   locked.instancia,
		}

		err = tx.QueryRow(ctx, query, price.String(), input.PeopleCount, input.InstanciaEventoID, recorridoId).
			Scan(&reserva.ID, &reserva.CreatedAt)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrInvalidInstance
			}

			return err
		}

		return touchRecorrido(ctx, tx, recorridoId)
	})
	if err != nil {
		return nil, err
	}

	return reserva, nil
}

// pendingRecorrido returns the recorrido the new reserva belongs to, creating
// one when the input names none.
func (p *PostgresReservaRepository) pendingRecorrido(
	ctx context.Context,
	tx pgx.Tx,
	userId int,
	input domain.NewReserva) (int, error) {

	if input.RecorridoID != nil {
		estado, err := lockRecorrido(ctx, tx, *input.RecorridoID, userId)
		if err != nil {
			return 0, err
		}

		if estado != domain.EstadoRecorridoPendiente {
			return 0, domain.ErrRecorridoNotPending
		}

		return *input.RecorridoID, nil
	}

	name := input.Name
	if name == "" {
		name = defaultRecorridoName
	}

	query := `
		INSERT INTO recorridos (user_id, name)
		VALUES ($1, $2)
		RETURNING id
	`

	var id int
	if err := tx.QueryRow(ctx, query, userId, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create recorrido: %w", err)
	}

	return id, nil
}

func (p *PostgresReservaRepository) UpdatePeopleCount(ctx context.Context, id, userId, peopleCount int) (*domain.Reserva, error) {
	var reserva *domain.Reserva

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		current, err := lockReserva(ctx, tx, id, userId)
		if err != nil {
			return err
		}

		locked, err := lockInstancia(ctx, tx, current.InstanciaEventoID)
		if err != nil {
			return err
		}

		if err := checkCapacity(ctx, tx, locked, id, peopleCount); err != nil {
			return err
		}

		price := locked.price.Mul(decimal.NewFromInt(int64(peopleCount)))

		query := `
			UPDATE reservas
			SET precio = $1::numeric, cantidad_gente = $2, updated_at = NOW()
			WHERE id = $3
		`

		if _, err := tx.Exec(ctx, query, price.String(), peopleCount, id); err != nil {
			return err
		}

		current.Price = price
		current.PeopleCount = peopleCount
		current.InstanciaEvento = locked.instancia
		reserva = current

		return touchRecorrido(ctx, tx, current.RecorridoID)
	})
	if err != nil {
		return nil, err
	}

	return reserva, nil
}

func (p *PostgresReservaRepository) Delete(ctx context.Context, id, userId int) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		current, err := lockReserva(ctx, tx, id, userId)
		if err != nil {
			return err
		}

		query := `
			UPDATE reservas
			SET deleted_at = NOW()
			WHERE id = $1
		`

		if _, err := tx.Exec(ctx, query, id); err != nil {
			return err
		}

		return touchRecorrido(ctx, tx, current.RecorridoID)
	})
}

// lockReserva locks a live reserva owned by the user and ensures its
// recorrido can still be edited.
func lockReserva(ctx context.Context, tx pgx.Tx, id, userId int) (*domain.Reserva, error) {
	query := `
		SELECT rv.id, rv.precio, rv.cantidad_gente, rv.instancia_evento_id, rv.recorrido_id, rv.created_at, r.estado
		FROM reservas rv
		JOIN recorridos r ON r.id = rv.recorrido_id
		WHERE rv.id = $1 AND r.user_id = $2 AND rv.deleted_at IS NULL AND r.deleted_at IS NULL
		FOR UPDATE OF rv, r
	`

	var (
		reserva domain.Reserva
		precio  pgtype.Numeric
		estado  domain.EstadoRecorrido
	)

	err := tx.QueryRow(ctx, query, id, userId).Scan(
		&reserva.ID,
		&precio,
		&reserva.PeopleCount,
		&reserva.InstanciaEventoID,
		&reserva.RecorridoID,
		&reserva.CreatedAt,
		&estado,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	if estado != domain.EstadoRecorridoPendiente {
		return nil, domain.ErrRecorridoNotPending
	}

	reserva.Price = toDecimal(precio)

	return &reserva, nil
}

func lockInstancia(ctx context.Context, tx pgx.Tx, instanciaId int) (*lockedInstancia, error) {
	query := `
		SELECT ie.id, ie.fecha, ie.estado, ie.evento_id, e.cupo, e.precio
		FROM instancia_eventos ie
		JOIN eventos e ON e.id = ie.evento_id
		WHERE ie.id = $1 AND ie.deleted_at IS NULL AND e.deleted_at IS NULL
		FOR UPDATE OF ie
	`

	var (
		locked lockedInstancia
		precio pgtype.Numeric
	)

	err := tx.QueryRow(ctx, query, instanciaId).Scan(
		&locked.instancia.ID,
		&locked.instancia.Date,
		&locked.instancia.Estado,
		&locked.instancia.EventoID,
		&locked.capacity,
		&precio,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidInstance
		}

		return nil, err
	}

	if locked.instancia.Estado != domain.EstadoInstanciaActiva {
		return nil, domain.ErrInvalidInstance
	}

	locked.price = toDecimal(precio)

	return &locked, nil
}

// checkCapacity verifies the instancia can hold peopleCount more people,
// ignoring the reserva being edited (excludeReservaId, 0 for none).
func checkCapacity(ctx context.Context, tx pgx.Tx, locked *lockedInstancia, excludeReservaId, peopleCount int) error {
	query := `
		SELECT COALESCE(SUM(rv.cantidad_gente), 0)
		FROM reservas rv
		JOIN recorridos r ON r.id = rv.recorrido_id
		WHERE rv.instancia_evento_id = $1
			AND rv.id <> $2
			AND rv.deleted_at IS NULL
			AND r.deleted_at IS NULL
			AND r.estado <> 'CANCELADO'
	`

	var reserved int
	if err := tx.QueryRow(ctx, query, locked.instancia.ID, excludeReservaId).Scan(&reserved); err != nil {
		return err
	}

	if reserved+peopleCount > locked.capacity {
		return domain.ErrNoCapacity
	}

	return nil
}

func touchRecorrido(ctx context.Context, tx pgx.Tx, id int) error {
	_, err := tx.Exec(ctx, `UPDATE recorridos SET updated_at = NOW() WHERE id = $1`, id)
	return err
}
