package transport

import (
	"bytes"
	"closest-pair/internal/domain"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridRequest(n int) *domain.SubproblemRequest {
	points := make([]domain.Point, n)
	for i := range points {
		points[i] = domain.Point{X: float64(i), Y: float64(i % 7)}
	}
	return &domain.SubproblemRequest{Depth: 3, Points: points}
}

func TestRequestRoundTrip(t *testing.T) {
	// The grid compresses well, so lz4 and zstd are really exercised.
	req := gridRequest(4096)

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewCodec(c).EncodeRequest(&buf, req))
			assert.Equal(t, byte(c), buf.Bytes()[5])

			got, err := (&Codec{}).DecodeRequest(&buf)
			require.NoError(t, err)
			assert.Equal(t, req, got)
			assert.Zero(t, buf.Len(), "decoder must consume exactly one frame")
		})
	}
}

func TestIncompressibleBodyIsStoredRaw(t *testing.T) {
	req := &domain.SubproblemRequest{Depth: 1, Points: []domain.Point{{X: math.Pi, Y: math.E}}}

	var buf bytes.Buffer
	require.NoError(t, NewCodec(CompressionZSTD).EncodeRequest(&buf, req))
	assert.Equal(t, byte(CompressionNone), buf.Bytes()[5])

	got, err := NewCodec(CompressionNone).DecodeRequest(&buf)
	require.NoError(t, err)
	assert.Equal(t, req, got)
}

func TestDecodeRequestErrors(t *testing.T) {
	var valid bytes.Buffer
	require.NoError(t, NewCodec(CompressionNone).EncodeRequest(&valid, gridRequest(4)))
	frame := valid.Bytes()

	t.Run("bad magic", func(t *testing.T) {
		bad := bytes.Clone(frame)
		bad[0] = 'X'
		_, err := (&Codec{}).DecodeRequest(bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrBadMagic)
	})

	t.Run("unsupported version", func(t *testing.T) {
		bad := bytes.Clone(frame)
		bad[4] = 9
		_, err := (&Codec{}).DecodeRequest(bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("unknown compression", func(t *testing.T) {
		bad := bytes.Clone(frame)
		bad[5] = 7
		_, err := (&Codec{}).DecodeRequest(bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrUnknownCompression)
	})

	t.Run("truncated payload", func(t *testing.T) {
		_, err := (&Codec{}).DecodeRequest(bytes.NewReader(frame[:len(frame)-3]))
		assert.Error(t, err)
	})

	t.Run("point count mismatch", func(t *testing.T) {
		bad := bytes.Clone(frame)
		bad[headerSize+4] = 5
		_, err := (&Codec{}).DecodeRequest(bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrCorruptRequest)
	})
}

func TestResultFrame(t *testing.T) {
	var buf bytes.Buffer
	in := &domain.Result{Distance: math.Sqrt2, Workers: 1 << 20}
	require.NoError(t, EncodeResult(&buf, in))
	assert.Equal(t, ResultSize, buf.Len())

	out, err := DecodeResult(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeResultShort(t *testing.T) {
	_, err := DecodeResult(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrShortResult)

	_, err = DecodeResult(bytes.NewReader(make([]byte, ResultSize-1)))
	assert.ErrorIs(t, err, ErrShortResult)
}

func TestParseCompression(t *testing.T) {
	c, err := ParseCompression("")
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, c)

	c, err = ParseCompression("zstd")
	require.NoError(t, err)
	assert.Equal(t, CompressionZSTD, c)

	_, err = ParseCompression("gzip")
	assert.ErrorIs(t, err, ErrUnknownCompression)
}
