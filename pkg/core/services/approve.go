package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dotuffour/retreat-portal/pkg/core/model"
	"github.com/dotuffour/retreat-portal/pkg/store"
)

// ApproveStore defines the store operation approval needs.
type ApproveStore interface {
	Confirm(ctx context.Context, ref store.Ref) error
}

// Approve marks the referenced record's payment as confirmed. The
// transition is one-way; repeating it yields the same end state and no
// error.
func Approve(ctx context.Context, st ApproveStore, logger *zap.Logger, ref store.Ref) error {
	if ref.ID == "" && ref.Position == 0 {
		return fmt.Errorf("%w: approve requires an id or a row position", model.ErrValidation)
	}

	if err := st.Confirm(ctx, ref); err != nil {
		return err
	}

	logger.Info("Payment confirmed",
		zap.String("id", ref.ID),
		zap.Int("position", ref.Position))

	return nil
}
