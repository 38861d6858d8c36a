package quiclink

import (
	"encoding/binary"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

const maxFrameSize = 4 << 10

var ErrFrameTooLarge = errors.New("frame too large")

// command is the request sent for each hardware call.
type command struct {
	Op   string `json:"op"`
	Args []int  `json:"args,omitempty"`
}

// ack is the robot's answer to a command.
type ack struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// writeFrame writes a 4 byte big endian length followed by the JSON body.
func writeFrame(w io.Writer, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encode frame")
	}
	if len(body) > maxFrameSize {
		return ErrFrameTooLarge
	}
	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, uint32(len(body)))
	if _, err := w.Write(header); err != nil {
		return errors.Wrap(err, "write frame header")
	}
	if _, err := w.Write(body); err != nil {
		return errors.Wrap(err, "write frame body")
	}
	return nil
}

func readFrame(r io.Reader, v any) error {
	header := make([]byte, 4)
	if _, err := io.ReadFull(r, header); err != nil {
		return errors.Wrap(err, "read frame header")
	}
	n := binary.BigEndian.Uint32(header)
	if n > maxFrameSize {
		return ErrFrameTooLarge
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return errors.Wrap(err, "read frame body")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrap(err, "decode frame")
	}
	return nil
}
