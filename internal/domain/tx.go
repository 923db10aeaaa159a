package domain

import "context"

type TxManager interface {
	// RunInTx executes fn inside a single transaction. Repository calls made
	// with the context passed to fn join that transaction and observe
	// read-your-writes consistency. If fn returns an error the transaction is
	// rolled back and the error returned unchanged.
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
