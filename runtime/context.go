package runtime

import (
	"context"

	"github.com/brimdata/zscript"
	"go.uber.org/zap"
)

// Context provides the state shared by every query of a Runtime: the type
// context in which values are created, the logger, and cancellation.
type Context struct {
	context.Context
	Zctx   *zscript.Context
	Logger *zap.Logger
	cancel context.CancelFunc
}

func NewContext(ctx context.Context, zctx *zscript.Context, logger *zap.Logger) *Context {
	ctx, cancel := context.WithCancel(ctx)
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{
		Context: ctx,
		Zctx:    zctx,
		Logger:  logger,
		cancel:  cancel,
	}
}

func DefaultContext() *Context {
	return NewContext(context.Background(), zscript.NewContext(), nil)
}

// Cancel cancels the context.  Queries evaluated afterward fail with the
// context's error.
func (c *Context) Cancel() {
	c.cancel()
}
