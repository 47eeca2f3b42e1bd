package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var bodegaSortColumns = []string{"id", "nombre"}

type PostgresBodegaRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBodegaRepository(db *pgxpool.Pool) *PostgresBodegaRepository {
	return &PostgresBodegaRepository{
		db: db,
	}
}

func (p *PostgresBodegaRepository) GetAll(ctx context.Context, filters domain.BodegaFilters) ([]domain.Bodega, *domain.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) OVER(), id, nombre, descripcion
		FROM bodegas
		WHERE deleted_at IS NULL AND ($1 = '' OR nombre ILIKE '%%' || $1 || '%%')
		ORDER BY %s %s, id ASC
		LIMIT $2 OFFSET $3`,
		filters.SafeSortColumn(bodegaSortColumns, "id"), filters.SortDirection())

	rows, err := p.db.Query(ctx, query, filters.Name, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	totalRecords := 0
	bodegas := make([]domain.Bodega, 0)

	for rows.Next() {
		var bodega domain.Bodega

		if err := rows.Scan(&totalRecords, &bodega.ID, &bodega.Name, &bodega.Description); err != nil {
			return nil, nil, err
		}

		bodegas = append(bodegas, bodega)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	if err := p.attachSucursales(ctx, bodegas); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, filters.Page, filters.PageSize)

	return bodegas, metadata, nil
}

func (p *PostgresBodegaRepository) GetById(ctx context.Context, id int) (*domain.Bodega, error) {
	query := `
		SELECT id, nombre, descripcion
		FROM bodegas
		WHERE id = $1 AND deleted_at IS NULL
	`

	var bodega domain.Bodega

	err := p.db.QueryRow(ctx, query, id).Scan(&bodega.ID, &bodega.Name, &bodega.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	bodegas := []domain.Bodega{bodega}
	if err := p.attachSucursales(ctx, bodegas); err != nil {
		return nil, err
	}

	return &bodegas[0], nil
}

func (p *PostgresBodegaRepository) attachSucursales(ctx context.Context, bodegas []domain.Bodega) error {
	if len(bodegas) == 0 {
		return nil
	}

	index := make(map[int]int, len(bodegas))
	ids := make([]int, len(bodegas))
	for i, b := range bodegas {
		index[b.ID] = i
		ids[i] = b.ID
		bodegas[i].Sucursales = make([]domain.Sucursal, 0)
	}

	query := `
		SELECT id, nombre, es_principal, direccion, aclaraciones, bodega_id, latitude, longitude
		FROM sucursales
		WHERE bodega_id = ANY($1) AND deleted_at IS NULL
		ORDER BY es_principal DESC, id
	`

	rows, err := p.db.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.Sucursal

		err := rows.Scan(&s.ID, &s.Name, &s.IsMain, &s.Address, &s.Instructions, &s.BodegaID, &s.Latitude, &s.Longitude)
		if err != nil {
			return err
		}

		i := index[s.BodegaID]
		bodegas[i].Sucursales = append(bodegas[i].Sucursales, s)
	}

	return rows.Err()
}
