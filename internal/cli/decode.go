package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/moffa90/go-posnet/document"
	"github.com/moffa90/go-posnet/internal/logging"
	"github.com/moffa90/go-posnet/internal/metrics"
	"github.com/moffa90/go-posnet/stream"
)

type decodeOptions struct {
	addr        string
	pretty      bool
	maxCapacity int
	metricsAddr string
}

func decodeCmd(a *app) *cobra.Command {
	var opts decodeOptions

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode wire frames into JSON documents",
		Long: `Decode reads SYN-escaped POSNET frames and prints one JSON document per frame.

Input is the named file, stdin, or a register connection when --addr (or
device.address in the configuration) is set. Dropped bytes, cancelled frames
and frames that fail to decode are logged and skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDecode(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "register address (host:port) to read from")
	cmd.Flags().BoolVarP(&opts.pretty, "pretty", "p", false, "indent documents")
	cmd.Flags().IntVar(&opts.maxCapacity, "max-capacity", 0, "reader buffer limit in bytes (default from configuration)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	return cmd
}

func (a *app) runDecode(cmd *cobra.Command, args []string, opts decodeOptions) error {
	ctx := cmd.Context()

	src, name, err := a.openSource(ctx, cmd, args, opts.addr)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	maxCapacity := a.cfg.Reader.MaxCapacity
	if opts.maxCapacity != 0 {
		maxCapacity = opts.maxCapacity
	}
	r := stream.NewReader(src, stream.WithLogger(logging.NewAdapter(a.log)))
	if err := r.SetMaxCapacity(maxCapacity); err != nil {
		return err
	}

	collector := metrics.New()
	enc := document.NewEncoder(cmd.OutOrStdout())
	if opts.pretty {
		enc.SetIndent("", "  ")
	}

	a.log.Info().Str("source", name).Int("max_capacity", maxCapacity).Msg("decoding")

	metricsAddr := a.cfg.Metrics.Addr
	if opts.metricsAddr != "" {
		metricsAddr = opts.metricsAddr
	}
	if metricsAddr == "" {
		return a.decodeLoop(ctx, r, enc, collector, name)
	}

	ln, err := net.Listen("tcp", metricsAddr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	srv := metricsServer(collector)
	a.log.Info().Str("addr", ln.Addr().String()).Msg("serving metrics")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		defer shutdown(srv)
		return a.decodeLoop(gctx, r, enc, collector, name)
	})
	return g.Wait()
}

// decodeLoop prints every frame of r until the source is exhausted or ctx is done.
func (a *app) decodeLoop(ctx context.Context, r *stream.Reader, enc *document.Encoder, collector *metrics.Collector, name string) error {
	var frames, skipped int
	for {
		res, err := r.Next()
		collector.Observe(res, err)

		var decodeErr *stream.DecodeError
		switch {
		case err == nil:
			if err := enc.Encode(res.Frame); err != nil {
				return fmt.Errorf("frame %d: %w", frames, err)
			}
			frames++
		case errors.Is(err, io.EOF), ctx.Err() != nil:
			a.log.Info().
				Int("frames", frames).
				Int("skipped", skipped).
				Msg("input exhausted")
			return nil
		case errors.Is(err, stream.ErrCancelled), errors.As(err, &decodeErr):
			skipped++
		default:
			return fmt.Errorf("read %s: %w", name, err)
		}
	}
}

// openSource picks the decode input: a named file, a register connection or stdin.
func (a *app) openSource(ctx context.Context, cmd *cobra.Command, args []string, addr string) (io.ReadCloser, string, error) {
	if len(args) > 0 {
		return openInput(cmd, args)
	}
	if addr == "" {
		addr = a.cfg.Device.Address
	}
	if addr == "" {
		return openInput(cmd, nil)
	}

	conn, err := dial(ctx, addr, a.cfg.Device.DialTimeout)
	if err != nil {
		return nil, "", err
	}
	return conn, addr, nil
}

func metricsServer(collector *metrics.Collector) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	return &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
