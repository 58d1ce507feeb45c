// Package transport encodes the frames exchanged between a parent solver and
// its workers.
//
// Request frame (parent -> worker):
//
//	[Magic:4 "CPRQ"][Version:1][Compression:1][RawSize:4][PayloadSize:4][Payload]
//
// The raw body is [Depth:4][N:4][N x (X:8, Y:8)], little endian. Result frame
// (worker -> parent) is fixed size: [Distance:8][Workers:8].
package transport

import (
	"bytes"
	"closest-pair/internal/domain"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the algorithm applied to a request body.
type Compression uint8

const (
	CompressionNone Compression = 0
	CompressionLZ4  Compression = 1
	CompressionZSTD Compression = 2
)

const (
	version        = 1
	headerSize     = 14
	pointSize      = 16
	bodyHeaderSize = 8

	// ResultSize is the exact length of a result frame.
	ResultSize = 16
)

var magic = [4]byte{'C', 'P', 'R', 'Q'}

var (
	ErrBadMagic           = errors.New("bad request magic")
	ErrUnsupportedVersion = errors.New("unsupported request version")
	ErrUnknownCompression = errors.New("unknown compression")
	ErrCorruptRequest     = errors.New("corrupt request body")
	ErrShortResult        = errors.New("worker exited without a complete result")
)

// ParseCompression maps a config value to a Compression.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCompression, name)
	}
}

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// Codec writes request frames with a fixed compression. Any codec can read
// any frame, the compression is recorded in the header.
type Codec struct {
	Compression Compression
}

func NewCodec(c Compression) *Codec {
	return &Codec{Compression: c}
}

// EncodeRequest serializes req into w.
func (c *Codec) EncodeRequest(w io.Writer, req *domain.SubproblemRequest) error {
	raw := make([]byte, bodyHeaderSize+len(req.Points)*pointSize)
	binary.LittleEndian.PutUint32(raw[0:], uint32(req.Depth))       //nolint:gosec
	binary.LittleEndian.PutUint32(raw[4:], uint32(len(req.Points))) //nolint:gosec
	off := bodyHeaderSize
	for _, p := range req.Points {
		binary.LittleEndian.PutUint64(raw[off:], math.Float64bits(p.X))
		binary.LittleEndian.PutUint64(raw[off+8:], math.Float64bits(p.Y))
		off += pointSize
	}

	payload, used, err := compress(raw, c.Compression)
	if err != nil {
		return err
	}

	var header [headerSize]byte
	copy(header[0:4], magic[:])
	header[4] = version
	header[5] = byte(used)
	binary.LittleEndian.PutUint32(header[6:], uint32(len(raw)))      //nolint:gosec
	binary.LittleEndian.PutUint32(header[10:], uint32(len(payload))) //nolint:gosec

	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// DecodeRequest reads one request frame from r.
func (c *Codec) DecodeRequest(r io.Reader) (*domain.SubproblemRequest, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read request header: %w", err)
	}
	if !bytes.Equal(header[0:4], magic[:]) {
		return nil, ErrBadMagic
	}
	if header[4] != version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, header[4])
	}
	used := Compression(header[5])
	rawSize := binary.LittleEndian.Uint32(header[6:])
	payloadSize := binary.LittleEndian.Uint32(header[10:])

	payload := make([]byte, payloadSize)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read request payload: %w", err)
	}

	raw, err := decompress(payload, used, int(rawSize))
	if err != nil {
		return nil, err
	}
	if len(raw) < bodyHeaderSize {
		return nil, ErrCorruptRequest
	}

	depth := binary.LittleEndian.Uint32(raw[0:])
	n := int(binary.LittleEndian.Uint32(raw[4:]))
	if len(raw) != bodyHeaderSize+n*pointSize {
		return nil, fmt.Errorf("%w: %d points in %d bytes", ErrCorruptRequest, n, len(raw))
	}

	points := make([]domain.Point, n)
	off := bodyHeaderSize
	for i := range points {
		points[i].X = math.Float64frombits(binary.LittleEndian.Uint64(raw[off:]))
		points[i].Y = math.Float64frombits(binary.LittleEndian.Uint64(raw[off+8:]))
		off += pointSize
	}

	return &domain.SubproblemRequest{Depth: int(depth), Points: points}, nil
}

// EncodeResult writes the fixed size result frame.
func EncodeResult(w io.Writer, res *domain.Result) error {
	var buf [ResultSize]byte
	binary.LittleEndian.PutUint64(buf[0:], math.Float64bits(res.Distance))
	binary.LittleEndian.PutUint64(buf[8:], uint64(res.Workers)) //nolint:gosec
	_, err := w.Write(buf[:])
	return err
}

// DecodeResult reads exactly one result frame. A worker that closed its end
// before writing the whole frame yields ErrShortResult.
func DecodeResult(r io.Reader) (*domain.Result, error) {
	var buf [ResultSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrShortResult
		}
		return nil, err
	}
	return &domain.Result{
		Distance: math.Float64frombits(binary.LittleEndian.Uint64(buf[0:])),
		Workers:  int(binary.LittleEndian.Uint64(buf[8:])), //nolint:gosec
	}, nil
}

// compress returns the payload and the algorithm actually used. Bodies that
// do not shrink are stored uncompressed.
func compress(raw []byte, c Compression) ([]byte, Compression, error) {
	var out []byte
	switch c {
	case CompressionNone:
		return raw, CompressionNone, nil
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, buf, nil)
		if err != nil {
			return nil, 0, err
		}
		out = buf[:n]
	case CompressionZSTD:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			return nil, 0, err
		}
		out = enc.EncodeAll(raw, nil)
		if err := enc.Close(); err != nil {
			return nil, 0, err
		}
	default:
		return nil, 0, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}

	if len(out) == 0 || len(out) >= len(raw) {
		return raw, CompressionNone, nil
	}
	return out, c, nil
}

func decompress(payload []byte, c Compression, rawSize int) ([]byte, error) {
	switch c {
	case CompressionNone:
		if len(payload) != rawSize {
			return nil, ErrCorruptRequest
		}
		return payload, nil
	case CompressionLZ4:
		raw := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(payload, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptRequest, err)
		}
		if n != rawSize {
			return nil, ErrCorruptRequest
		}
		return raw, nil
	case CompressionZSTD:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		raw, err := dec.DecodeAll(payload, make([]byte, 0, rawSize))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptRequest, err)
		}
		if len(raw) != rawSize {
			return nil, ErrCorruptRequest
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}
}
