package repository

import (
	"context"

	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresValoracionRepository struct {
	db *pgxpool.Pool
}

func NewPostgresValoracionRepository(db *pgxpool.Pool) *PostgresValoracionRepository {
	return &PostgresValoracionRepository{
		db: db,
	}
}

// Create stores the valoracion and refreshes the evento's rating summary in
// the same transaction.
func (p *PostgresValoracionRepository) Create(ctx context.Context, valoracion *domain.Valoracion) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO valoraciones (user_id, evento_id, puntuacion, comentario)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at
		`

		err := tx.QueryRow(
			ctx,
			query,
			valoracion.UserID,
			valoracion.EventoID,
			valoracion.Score,
			valoracion.Comment,
		).Scan(&valoracion.ID, &valoracion.CreatedAt)
		if err != nil {
			switch {
			case isUniqueViolation(err):
				return domain.ErrAlreadyRated
			case isForeignKeyViolation(err):
				return domain.ErrRecordNotFound
			default:
				return err
			}
		}

		query = `
			INSERT INTO valoracion_media (evento_id, valor_medio, cantidad_valoraciones, updated_at)
			SELECT evento_id, ROUND(AVG(puntuacion), 2), COUNT(*), NOW()
			FROM valoraciones
			WHERE evento_id = $1
			GROUP BY evento_id
			ON CONFLICT (evento_id) DO UPDATE
			SET valor_medio = EXCLUDED.valor_medio,
				cantidad_valoraciones = EXCLUDED.cantidad_valoraciones,
				updated_at = EXCLUDED.updated_at
		`

		_, err = tx.Exec(ctx, query, valoracion.EventoID)
		return err
	})
}
