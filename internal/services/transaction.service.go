package services

import (
	"context"
	"fmt"
	"kaudio/internal/database"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// TransactionService is the only place kaudio opens a database transaction.
// Activity writes and catalog cascades hand the callback's *gorm.DB to their
// repositories so counters commit together with the rows they summarize.
type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

// Execute commits when fn returns nil. An error from fn is returned unchanged
// after rollback so callers can still match ErrConflict or ErrNotFound. A
// panic inside fn becomes an error, unless the rollback itself fails, in which
// case the process panics rather than continue with half-applied counters.
func (ts *TransactionService) Execute(
	ctx context.Context,
	fn func(context.Context, *gorm.DB) error,
) (err error) {
	log := ts.log.Function("Execute").TraceFromContext(ctx)

	tx := ts.db.SQLWithContext(ctx).Begin()
	if tx.Error != nil {
		return log.Err("could not open unit of work", tx.Error)
	}

	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}

		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			log.Er("unit of work left open after panic", rollbackErr, "panic", recovered)
			panic(fmt.Sprintf("rollback after panic failed: %v (panic: %v)", rollbackErr, recovered))
		}

		err = log.ErrMsg(fmt.Sprintf("unit of work panicked and was rolled back: %v", recovered))
	}()

	if err = fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			return log.Error("rollback failed", "rollbackError", rollbackErr, "cause", err)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return log.Err("could not commit unit of work", err)
	}

	return nil
}
