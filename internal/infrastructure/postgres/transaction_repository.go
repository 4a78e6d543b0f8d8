package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/sonar-shubham/radiant-salon/internal/domain/errors"
	"github.com/sonar-shubham/radiant-salon/internal/domain/payment"
)

const transactionColumns = `id, salon_id, appointment_id, client_id, amount, currency, type, payment_method,
	razorpay_order_id, razorpay_payment_id, razorpay_refund_id, status, notes, last_error,
	created_at, updated_at, completed_at`

// TransactionRepository implements payment.Repository using PostgreSQL.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

func (r *TransactionRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// Create inserts a new transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx *payment.Transaction) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO transactions (`+transactionColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		tx.ID, tx.SalonID, tx.AppointmentID, tx.ClientID, minorUnitsToNumeric(tx.Amount), tx.Currency,
		string(tx.Type), string(tx.Method), tx.RazorpayOrderID, tx.RazorpayPaymentID, tx.RazorpayRefundID,
		string(tx.Status), tx.Notes, tx.LastError, tx.CreatedAt, tx.UpdatedAt, tx.CompletedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.NewDomainError("duplicate_transaction", "a transaction already exists for this gateway reference", domainErrors.ErrInvalidInput)
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*payment.Transaction, error) {
	return scanTransaction(r.db(ctx).QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
}

// GetByIDForUpdate locks the row until the surrounding transaction ends.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*payment.Transaction, error) {
	return scanTransaction(r.db(ctx).QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, id))
}

func (r *TransactionRepository) GetByOrderID(ctx context.Context, orderID string) (*payment.Transaction, error) {
	return scanTransaction(r.db(ctx).QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE razorpay_order_id = $1 AND type = 'payment'`, orderID))
}

func (r *TransactionRepository) GetByPaymentID(ctx context.Context, paymentID string) (*payment.Transaction, error) {
	return scanTransaction(r.db(ctx).QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE razorpay_payment_id = $1 AND type = 'payment'`, paymentID))
}

// Update persists status, method and gateway references.
func (r *TransactionRepository) Update(ctx context.Context, tx *payment.Transaction) error {
	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE transactions SET
		  status=$1, payment_method=$2, razorpay_payment_id=$3, razorpay_refund_id=$4,
		  notes=$5, last_error=$6, updated_at=$7, completed_at=$8
		 WHERE id=$9`,
		string(tx.Status), string(tx.Method), tx.RazorpayPaymentID, tx.RazorpayRefundID,
		tx.Notes, tx.LastError, tx.UpdatedAt, tx.CompletedAt, tx.ID,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrTransactionNotFound
	}
	return nil
}

// List lists a salon's transactions, newest first.
func (r *TransactionRepository) List(ctx context.Context, f payment.ListFilter) ([]*payment.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE salon_id = $1`
	args := []any{f.SalonID}
	argIdx := 2

	if f.ClientID != "" {
		query += fmt.Sprintf(" AND client_id = $%d", argIdx)
		args = append(args, f.ClientID)
		argIdx++
	}
	if f.AppointmentID != "" {
		query += fmt.Sprintf(" AND appointment_id = $%d", argIdx)
		args = append(args, f.AppointmentID)
		argIdx++
	}
	if f.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, string(*f.Status))
		argIdx++
	}
	if f.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, string(*f.Type))
		argIdx++
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*payment.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func scanTransaction(s scanner) (*payment.Transaction, error) {
	tx := &payment.Transaction{}
	var (
		amount string
		typ    string
		method string
		status string
		notes  *string
	)
	err := s.Scan(
		&tx.ID, &tx.SalonID, &tx.AppointmentID, &tx.ClientID, &amount, &tx.Currency, &typ, &method,
		&tx.RazorpayOrderID, &tx.RazorpayPaymentID, &tx.RazorpayRefundID, &status, &notes, &tx.LastError,
		&tx.CreatedAt, &tx.UpdatedAt, &tx.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}

	if tx.Amount, err = numericToMinorUnits(amount); err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}
	tx.Type = payment.TransactionType(typ)
	tx.Method = payment.Method(method)
	tx.Status = payment.TransactionStatus(status)
	if notes != nil {
		tx.Notes = *notes
	}
	return tx, nil
}
