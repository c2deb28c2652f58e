package cli

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// openInput returns the file named by args, or stdin when there is none or it is "-".
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), "stdin", nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("failed to open input: %w", err)
	}
	return f, args[0], nil
}

// dial connects to a register. The connection is closed when ctx is done so
// that blocked reads return.
func dial(ctx context.Context, addr string, timeout time.Duration) (net.Conn, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	return &stoppableConn{Conn: conn, stop: stop}, nil
}

type stoppableConn struct {
	net.Conn
	stop func() bool
}

func (c *stoppableConn) Close() error {
	c.stop()
	return c.Conn.Close()
}
