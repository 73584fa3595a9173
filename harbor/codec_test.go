/*
 * MIT License
 *
 * Copyright (c) 2022-2025  Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package harbor

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/tochemey/gosky/address"
)

func TestCodec(t *testing.T) {
	t.Run("With a small payload", func(t *testing.T) {
		env := &Envelope{
			Source:      address.Must(1, 10),
			Destination: address.Must(2, 20),
			Type:        7,
			Session:     42,
			Payload:     []byte("hello"),
		}
		data := Marshal(env)
		decoded, err := Unmarshal(data)
		require.NoError(t, err)
		assert.Equal(t, env, decoded)
	})
	t.Run("With a compressed payload", func(t *testing.T) {
		payload := bytes.Repeat([]byte("gosky "), 1000)
		env := &Envelope{
			Source:      address.Must(3, 1),
			Destination: address.Must(4, 1),
			Session:     -5,
			Payload:     payload,
		}
		data := Marshal(env)
		assert.Less(t, len(data), len(payload))

		decoded, err := Unmarshal(data)
		require.NoError(t, err)
		assert.Equal(t, payload, decoded.Payload)
		assert.Equal(t, int32(-5), decoded.Session)
	})
	t.Run("With an empty payload", func(t *testing.T) {
		decoded, err := Unmarshal(Marshal(&Envelope{Destination: address.Must(1, 1)}))
		require.NoError(t, err)
		assert.Empty(t, decoded.Payload)
		assert.Equal(t, address.Must(1, 1), decoded.Destination)
	})
	t.Run("With unknown fields", func(t *testing.T) {
		data := Marshal(&Envelope{Type: 3})
		data = protowire.AppendTag(data, 99, protowire.BytesType)
		data = protowire.AppendBytes(data, []byte("future"))
		decoded, err := Unmarshal(data)
		require.NoError(t, err)
		assert.EqualValues(t, 3, decoded.Type)
	})
	t.Run("With truncated input", func(t *testing.T) {
		data := Marshal(&Envelope{Payload: []byte("truncated")})
		_, err := Unmarshal(data[:len(data)-3])
		assert.ErrorIs(t, err, ErrMalformedEnvelope)
	})
	t.Run("With a corrupted compressed payload", func(t *testing.T) {
		var data []byte
		data = protowire.AppendTag(data, fieldPayload, protowire.BytesType)
		data = protowire.AppendBytes(data, []byte("not zstd"))
		data = protowire.AppendTag(data, fieldCompressed, protowire.VarintType)
		data = protowire.AppendVarint(data, 1)
		_, err := Unmarshal(data)
		assert.ErrorIs(t, err, ErrMalformedEnvelope)
	})
	t.Run("With a payload decompressing past the limit", func(t *testing.T) {
		huge := make([]byte, MaxPayloadSize+1)
		var data []byte
		data = protowire.AppendTag(data, fieldPayload, protowire.BytesType)
		data = protowire.AppendBytes(data, encoder.EncodeAll(huge, nil))
		data = protowire.AppendTag(data, fieldCompressed, protowire.VarintType)
		data = protowire.AppendVarint(data, 1)
		assert.Less(t, len(data), CompressionThreshold*64)

		_, err := Unmarshal(data)
		assert.ErrorIs(t, err, ErrMalformedEnvelope)
	})
	t.Run("With over-wide varints", func(t *testing.T) {
		for _, field := range []protowire.Number{fieldSource, fieldDestination, fieldType} {
			var data []byte
			data = protowire.AppendTag(data, field, protowire.VarintType)
			data = protowire.AppendVarint(data, math.MaxUint32+1)
			_, err := Unmarshal(data)
			assert.ErrorIs(t, err, ErrMalformedEnvelope, "field %d", field)
		}

		var data []byte
		data = protowire.AppendTag(data, fieldSession, protowire.VarintType)
		data = protowire.AppendVarint(data, protowire.EncodeZigZag(math.MaxInt32+1))
		_, err := Unmarshal(data)
		assert.ErrorIs(t, err, ErrMalformedEnvelope)

		decoded, err := Unmarshal(Marshal(&Envelope{Type: math.MaxUint32, Session: math.MinInt32}))
		require.NoError(t, err)
		assert.EqualValues(t, uint32(math.MaxUint32), decoded.Type)
		assert.EqualValues(t, int32(math.MinInt32), decoded.Session)
	})
}
