package repository

import (
	"context"
	"fmt"

	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

var faqSortColumns = []string{"id", "created_at"}

type PostgresFaqRepository struct {
	db *pgxpool.Pool
}

func NewPostgresFaqRepository(db *pgxpool.Pool) *PostgresFaqRepository {
	return &PostgresFaqRepository{
		db: db,
	}
}

func (p *PostgresFaqRepository) GetAll(ctx context.Context, filters domain.FaqFilters) ([]domain.Faq, *domain.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) OVER(), f.id, f.question, f.answer, f.created_at, fr.id, fr.name, fr.label
		FROM faqs f
		JOIN faq_recipients fr ON fr.id = f.recipient_id
		WHERE f.deleted_at IS NULL AND ($1 = '' OR fr.name = $1 OR fr.name = 'both')
		ORDER BY f.%s %s, f.id ASC
		LIMIT $2 OFFSET $3`,
		filters.SafeSortColumn(faqSortColumns, "id"), filters.SortDirection())

	rows, err := p.db.Query(ctx, query, filters.Recipient, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	totalRecords := 0
	faqs := make([]domain.Faq, 0)

	for rows.Next() {
		var faq domain.Faq

		err := rows.Scan(
			&totalRecords,
			&faq.ID,
			&faq.Question,
			&faq.Answer,
			&faq.CreatedAt,
			&faq.Recipient.ID,
			&faq.Recipient.Name,
			&faq.Recipient.Label,
		)
		if err != nil {
			return nil, nil, err
		}

		faqs = append(faqs, faq)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, filters.Page, filters.PageSize)

	return faqs, metadata, nil
}
