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

type PostgresPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPaymentRepository(db *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{
		db: db,
	}
}

func (p *PostgresPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (
			user_id,
			recorrido_id,
			amount,
			currency,
			status
		)
		VALUES ($1, $2, $3::numeric, $4, $5)
		RETURNING id, created_at
	`

	err := p.db.QueryRow(
		ctx,
		query,
		payment.UserID,
		payment.RecorridoID,
		payment.Amount.String(),
		payment.Currency,
		payment.Status,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil && isForeignKeyViolation(err) {
		return domain.ErrRecordNotFound
	}

	return err
}

func (p *PostgresPaymentRepository) SetCheckoutSessionId(ctx context.Context, paymentId int, checkoutSessionId string) error {
	query := `
		UPDATE payments
		SET stripe_checkout_session_id = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := p.db.Exec(ctx, query, checkoutSessionId, paymentId)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}

	return nil
}

func (p *PostgresPaymentRepository) Complete(ctx context.Context, checkoutSessionId string) (*domain.Payment, error) {
	var (
		payment   domain.Payment
		unsettled error
	)

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE payments
			SET status = 'completed', payment_date = NOW(), updated_at = NOW()
			WHERE stripe_checkout_session_id = $1 AND status = 'pending'
			RETURNING id, user_id, recorrido_id, stripe_checkout_session_id, amount, currency, status, payment_date, created_at, updated_at
		`

		var amount pgtype.Numeric

		err := tx.QueryRow(ctx, query, checkoutSessionId).Scan(
			&payment.ID,
			&payment.UserID,
			&payment.RecorridoID,
			&payment.CheckoutSessionId,
			&amount,
			&payment.Currency,
			&payment.Status,
			&payment.PaymentDate,
			&payment.CreatedAt,
			&payment.UpdatedAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrPaymentNotFound
			}

			return err
		}

		payment.Amount = toDecimal(amount)

		err = confirmPaidRecorrido(ctx, tx, payment)
		if !errors.Is(err, domain.ErrRecordNotFound) &&
			!errors.Is(err, domain.ErrRecorridoNotPending) &&
			!errors.Is(err, domain.ErrAmountMismatch) {
			return err
		}

		// a captured payment stays completed and is flagged for a refund
		unsettled = fmt.Errorf("%w: %w", domain.ErrPaymentUnsettled, err)

		msg := unsettled.Error()
		payment.ErrorMsg = &msg

		_, err = tx.Exec(ctx, `UPDATE payments SET error_message = $1 WHERE id = $2`, msg, payment.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &payment, unsettled
}

// confirmPaidRecorrido confirms the recorrido a payment was made for, as long
// as it is still pending and its total matches the amount paid.
func confirmPaidRecorrido(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	estado, err := lockRecorrido(ctx, tx, payment.RecorridoID, payment.UserID)
	if err != nil {
		return err
	}

	if estado != domain.EstadoRecorridoPendiente {
		return domain.ErrRecorridoNotPending
	}

	query := `
		SELECT COALESCE(SUM(precio), 0)
		FROM reservas
		WHERE recorrido_id = $1 AND deleted_at IS NULL
	`

	var total pgtype.Numeric

	err = tx.QueryRow(ctx, query, payment.RecorridoID).Scan(&total)
	if err != nil {
		return err
	}

	if !toDecimal(total).Equal(payment.Amount) {
		return domain.ErrAmountMismatch
	}

	return setEstado(ctx, tx, payment.RecorridoID, domain.EstadoRecorridoConfirmado)
}

func (p *PostgresPaymentRepository) UpdateStatus(
	ctx context.Context,
	checkoutSessionId string,
	status domain.PaymentStatus,
	errMsg string) error {

	query := `
		UPDATE payments
		SET status = $1, error_message = NULLIF($2, ''), updated_at = NOW()
		WHERE stripe_checkout_session_id = $3
	`

	result, err := p.db.Exec(ctx, query, status, errMsg, checkoutSessionId)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}

	return nil
}

// ExpirePending cancels checkout attempts that were never completed.
func (p *PostgresPaymentRepository) ExpirePending(ctx context.Context, createdBefore time.Time) ([]domain.Payment, error) {
	query := `
		UPDATE payments
		SET status = 'canceled', error_message = 'checkout expired', updated_at = NOW()
		WHERE status = 'pending' AND created_at < $1
		RETURNING id, user_id, recorrido_id, stripe_checkout_session_id, amount, currency, status
	`

	rows, err := p.db.Query(ctx, query, createdBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]domain.Payment, 0)

	for rows.Next() {
		var (
			payment domain.Payment
			amount  pgtype.Numeric
		)

		err := rows.Scan(
			&payment.ID,
			&payment.UserID,
			&payment.RecorridoID,
			&payment.CheckoutSessionId,
			&amount,
			&payment.Currency,
			&payment.Status,
		)
		if err != nil {
			return nil, err
		}

		payment.Amount = toDecimal(amount)
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}
