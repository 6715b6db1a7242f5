package gormrepo

import (
	"context"

	"gorm.io/gorm"
)

// A save or load touches every civilization's queue row plus the game's turn
// marker, so the open transaction rides the context: TxManager stashes it and
// the queue/report repos pick it up instead of their base handle.

type savepointKey struct{}

func withSaveTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, savepointKey{}, tx)
}

// sessionDB returns the transaction bound to ctx, or the repo's own handle
// when the call runs outside a save/load transaction.
func sessionDB(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(savepointKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return base
}
