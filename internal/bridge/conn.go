package bridge

import (
	"context"
	"encoding/json"
	"net"

	"github.com/yanun0323/logs"

	"main/internal/model"
	"main/internal/obs"
)

// TickHandler processes one inbound tick to completion. Ticks from one
// connection are delivered strictly in wire-arrival order; the handler
// returns before the next frame is read.
type TickHandler interface {
	HandleTick(ctx context.Context, tick model.Tick) error
}

const readBufferSize = 4096

// readConn drains conn frame by frame until it closes or ctx is done.
// A frame that fails to parse is logged and discarded; it never
// terminates the connection.
func readConn(ctx context.Context, conn net.Conn, handler TickHandler) error {
	framer := &Framer{}
	buf := make([]byte, readBufferSize)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := conn.Read(buf)
		if n > 0 {
			for _, frame := range framer.Push(buf[:n]) {
				var tick model.Tick
				if unmarshalErr := json.Unmarshal(frame, &tick); unmarshalErr != nil {
					obs.FrameErrorsTotal.Inc()
					logs.Errorf("discard malformed frame, err: %+v", unmarshalErr)
					continue
				}
				if handleErr := handler.HandleTick(ctx, tick); handleErr != nil {
					logs.Errorf("%s: handle tick, err: %+v", tick.Symbol, handleErr)
				}
			}
		}
		if err != nil {
			return err
		}
	}
}
