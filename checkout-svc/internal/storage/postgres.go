package storage

import (
	"context"
	"database/sql"
	"fmt"

	"sf-dashboard-pos/checkout-svc/internal/domain"
	"sf-dashboard-pos/checkout-svc/internal/service"
)

// SaleJournal is the local ledger of every order the checkout saga touched.
type SaleJournal struct {
	DB *sql.DB
}

func NewSaleJournal(db *sql.DB) *SaleJournal {
	return &SaleJournal{DB: db}
}

func (j *SaleJournal) EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sale_journal (
			order_number   TEXT PRIMARY KEY,
			register_id    TEXT NOT NULL,
			branch_id      BIGINT NOT NULL,
			employee_id    BIGINT NOT NULL,
			payment_method TEXT NOT NULL,
			total          NUMERIC(12, 2) NOT NULL,
			paid_amount    NUMERIC(12, 2) NOT NULL,
			status         TEXT NOT NULL,
			note           TEXT NOT NULL DEFAULT '',
			updated_at     TIMESTAMPTZ NOT NULL
		)`,
		"CREATE INDEX IF NOT EXISTS sale_journal_status_idx ON sale_journal (status, updated_at)",
	}
	for _, stmt := range statements {
		if _, err := j.DB.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}

// Record inserts the entry or moves an existing one to its new status.
func (j *SaleJournal) Record(ctx context.Context, entry *domain.JournalEntry) error {
	_, err := j.DB.ExecContext(ctx, `
		INSERT INTO sale_journal (order_number, register_id, branch_id, employee_id, payment_method, total, paid_amount, status, note, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (order_number) DO UPDATE
		SET status = EXCLUDED.status, note = EXCLUDED.note, updated_at = EXCLUDED.updated_at
	`, entry.OrderNumber, entry.RegisterID, entry.BranchID, entry.EmployeeID, string(entry.PaymentMethod),
		entry.Total, entry.PaidAmount, string(entry.Status), entry.Note, entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("record order %s: %w", entry.OrderNumber, err)
	}
	return nil
}

func (j *SaleJournal) ListByStatus(ctx context.Context, status domain.SaleStatus) ([]domain.JournalEntry, error) {
	rows, err := j.DB.QueryContext(ctx, `
		SELECT order_number, register_id, branch_id, employee_id, payment_method, total, paid_amount, status, note, updated_at
		FROM sale_journal
		WHERE status = $1
		ORDER BY updated_at DESC
	`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		var e domain.JournalEntry
		if err := rows.Scan(&e.OrderNumber, &e.RegisterID, &e.BranchID, &e.EmployeeID, &e.PaymentMethod,
			&e.Total, &e.PaidAmount, &e.Status, &e.Note, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

var _ service.SaleJournal = (*SaleJournal)(nil)
