package writer

import (
	"context"
	"io"

	"github.com/pingcap-inc/dwsink/pkg/coreinterfaces"
	"github.com/pingcap-inc/dwsink/pkg/protocol"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// Run drives consumer with every message read from r until EOF. The consumer
// is always closed; it is told about failures so that it can discard buffers.
func Run(ctx context.Context, consumer coreinterfaces.Consumer, r *protocol.MessageReader) (err error) {
	defer func() {
		if cerr := consumer.Close(ctx, err != nil); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err = consumer.Start(ctx); err != nil {
		return errors.Trace(err)
	}
	count := 0
	for {
		select {
		case <-ctx.Done():
			return errors.Trace(ctx.Err())
		default:
		}
		msg, err := r.Next()
		if err == io.EOF {
			log.Info("Input stream finished", zap.Int("messages", count))
			return nil
		}
		if err != nil {
			return errors.Trace(err)
		}
		count++
		if err := consumer.Accept(ctx, msg); err != nil {
			return errors.Trace(err)
		}
	}
}
