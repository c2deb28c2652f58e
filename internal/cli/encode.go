package cli

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-posnet/document"
	"github.com/moffa90/go-posnet/internal/logging"
	"github.com/moffa90/go-posnet/protocol"
	"github.com/moffa90/go-posnet/stream"
)

type encodeOptions struct {
	output string
	addr   string
	hex    bool
	await  bool
}

func encodeCmd(a *app) *cobra.Command {
	var opts encodeOptions

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode JSON documents into wire frames",
		Long: `Encode reads JSON documents from the named file or stdin and writes each
frame SYN-escaped, ready for the wire.

Every document is checked against the frame it describes: Crc, FldNum and FLen
must match. With --addr the frames are sent to a register; --await then reads
one response per request and prints it as a JSON document.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEncode(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write frames to this file instead of stdout")
	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "register address (host:port) to send frames to")
	cmd.Flags().BoolVar(&opts.hex, "hex", false, "write one hex line per frame")
	cmd.Flags().BoolVar(&opts.await, "await", false, "print the register response to each frame (requires --addr)")
	cmd.MarkFlagsMutuallyExclusive("output", "addr")
	cmd.MarkFlagsMutuallyExclusive("hex", "addr")

	return cmd
}

func (a *app) runEncode(cmd *cobra.Command, args []string, opts encodeOptions) error {
	if opts.await && opts.addr == "" {
		return errors.New("--await requires --addr")
	}

	in, name, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	dec := document.NewDecoder(in, protocol.DefaultCodec)

	if opts.addr != "" {
		return a.sendFrames(cmd, dec, opts)
	}

	out := cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	bw := bufio.NewWriter(out)
	w := stream.NewWriter(bw, stream.WithLogger(logging.NewAdapter(a.log)))

	n := 0
	for {
		f, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		if opts.hex {
			line := hex.EncodeToString(stream.AppendEscaped(nil, f.Bytes()))
			if _, err := fmt.Fprintln(bw, line); err != nil {
				return err
			}
		} else if err := w.WriteFrame(f); err != nil {
			return err
		}
		n++
	}

	if err := bw.Flush(); err != nil {
		return err
	}
	a.log.Info().Int("frames", n).Str("source", name).Msg("encoded")
	return nil
}

// sendFrames writes every decoded frame to a register connection.
func (a *app) sendFrames(cmd *cobra.Command, dec *document.Decoder, opts encodeOptions) error {
	conn, err := dial(cmd.Context(), opts.addr, a.cfg.Device.DialTimeout)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch := stream.NewChannel(conn,
		stream.WithLogger(logging.NewAdapter(a.log)),
		stream.WithMaxCapacity(a.cfg.Reader.MaxCapacity),
	)
	enc := document.NewEncoder(cmd.OutOrStdout())

	for n := 0; ; n++ {
		f, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			a.log.Info().Int("frames", n).Str("addr", opts.addr).Msg("sent")
			return nil
		}
		if err != nil {
			return err
		}

		if !opts.await {
			if err := ch.Send(f); err != nil {
				return fmt.Errorf("send frame %d: %w", n, err)
			}
			continue
		}

		res, err := ch.Exchange(f)
		if err != nil {
			return fmt.Errorf("frame %d: %w", n, err)
		}
		if err := enc.Encode(res.Frame); err != nil {
			return err
		}
	}
}
