package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/acceso-residencial/internal/application/access"
	"github.com/tu-usuario/acceso-residencial/internal/domain/repository"
)

// Verificar en tiempo de compilación que TxRunner implementa el puerto del canje.
var _ access.ApprovalTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunApproval inicia una transacción con los repos del canje de token (flip del
// registro intermedio + inserción del pre-registro derivado) y hace Commit o Rollback.
func (r *TxRunner) RunApproval(ctx context.Context, fn func(
	intRepo repository.IntermediateRegistrationRepository,
	preRepo repository.PreRegistrationRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	intRepo := NewIntermediateRegistrationRepository(tx)
	preRepo := NewPreRegistrationRepository(tx)

	if err := fn(intRepo, preRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
