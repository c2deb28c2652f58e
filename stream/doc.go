// Package stream moves POSNET frames over a byte stream.
//
// # Overview
//
// On the wire a frame is delimited by SYN-prefixed control bytes and every SYN
// inside the frame is doubled:
//
//	SYN STX [frame bytes, SYN doubled] SYN ETX
//
// Only a byte that follows a SYN carries control meaning. A bare STX, ETX or
// CAN is ordinary data, which is why binary fields may contain any value.
//
// # Reading
//
// A Reader de-escapes one frame per call and parses it with the protocol codec:
//
//	r := stream.NewReader(conn)
//	res, err := r.Next()
//	switch {
//	case errors.Is(err, stream.ErrCancelled):
//	    // the register sent SYN CAN
//	case err != nil:
//	    return err
//	}
//	fmt.Println(res.Frame.Command())
//
// Bytes the reader drops on the way, because a new frame started early or the
// buffer grew past its capacity, are reported in Result.Discards:
//
//	for _, d := range res.Discards {
//	    log.Printf("%s: %d bytes", d.Reason, len(d.Data))
//	}
//
// # Writing
//
//	w := stream.NewWriter(conn)
//	frame, _ := protocol.Encode(protocol.FlagNone, 1, protocol.CmdCashRegStatusGet)
//	err := w.WriteFrame(frame)
//
// # Logging
//
// Provide a Logger to see discards and decoded frames:
//
//	r := stream.NewReader(conn, stream.WithLogger(myLogger))
//
// # Thread Safety
//
// A Reader must be used from a single goroutine; only SetMaxCapacity and
// MaxCapacity may be called concurrently. Writer calls are serialized.
package stream
