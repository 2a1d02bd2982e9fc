package record_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/kvignite/internal/record"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	records := []record.Record{
		record.Set("a", "1"),
		record.Set("b", "2"),
		record.Remove("a"),
		record.Set("c", "a value with spaces and \"quotes\""),
	}

	var buf bytes.Buffer
	var totalWritten int64
	for _, r := range records {
		encoded, err := record.Encode(r)
		require.NoError(t, err)
		n, err := buf.Write(encoded)
		require.NoError(t, err)
		totalWritten += int64(n)
	}

	dec := record.NewDecoder(&buf)
	var got []record.Record
	var consumedTotal int64
	for {
		r, n, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		require.Greater(t, n, int64(0))
		consumedTotal += n
		got = append(got, r)
	}

	require.Equal(t, records, got)
	require.Equal(t, totalWritten, consumedTotal, "consumed byte accounting should match total input written")
}

func TestDecodeAll(t *testing.T) {
	r1, err := record.Encode(record.Set("k1", "v1"))
	require.NoError(t, err)
	r2, err := record.Encode(record.Remove("k1"))
	require.NoError(t, err)

	all, err := record.DecodeAll(append(r1, r2...))
	require.NoError(t, err)
	require.Equal(t, []record.Record{record.Set("k1", "v1"), record.Remove("k1")}, all)
}

func TestDecodeTruncatedTail(t *testing.T) {
	full, err := record.Encode(record.Set("key", "value"))
	require.NoError(t, err)

	torn := full[:len(full)-1]
	dec := record.NewDecoder(bytes.NewReader(torn))
	_, _, err = dec.Next()
	require.Error(t, err)
	require.True(t, errors.Is(err, record.ErrTruncated))
	require.True(t, errors.Is(err, record.ErrCorrupt))
}

func TestDecodeCorruptMidStream(t *testing.T) {
	dec := record.NewDecoder(bytes.NewReader([]byte("not json at all")))
	_, _, err := dec.Next()
	require.Error(t, err)
	require.True(t, errors.Is(err, record.ErrCorrupt))
	require.False(t, errors.Is(err, record.ErrTruncated))
}

func TestCleanEndOfStream(t *testing.T) {
	dec := record.NewDecoder(bytes.NewReader(nil))
	_, _, err := dec.Next()
	require.True(t, errors.Is(err, io.EOF))
}
