package repositories

import "context"

// TransactionManager runs a unit of work atomically.
// Repository calls made with the ctx passed to fn join the transaction; a nested
// RunInTx joins the outer one instead of opening a second.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
