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
	"errors"
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/tochemey/gosky/address"
)

const (
	// CompressionThreshold is the payload size from which payloads are compressed.
	CompressionThreshold = 1024
	// MaxPayloadSize bounds the decompressed size of an inbound payload.
	MaxPayloadSize = 16 << 20
)

// envelope field numbers
const (
	fieldSource      protowire.Number = 1
	fieldDestination protowire.Number = 2
	fieldType        protowire.Number = 3
	fieldSession     protowire.Number = 4
	fieldPayload     protowire.Number = 5
	fieldCompressed  protowire.Number = 6
)

// ErrMalformedEnvelope is returned when bytes do not decode to an Envelope.
var ErrMalformedEnvelope = errors.New("malformed harbor envelope")

var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest), zstd.WithEncoderConcurrency(1))
	decoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1), zstd.WithDecoderMaxMemory(MaxPayloadSize))
)

// Marshal encodes env in protobuf wire format. Payloads of at least
// CompressionThreshold bytes are zstd compressed.
func Marshal(env *Envelope) []byte {
	payload := env.Payload
	compressed := false
	if len(payload) >= CompressionThreshold {
		payload = encoder.EncodeAll(payload, make([]byte, 0, len(payload)/2))
		compressed = true
	}

	buf := make([]byte, 0, 32+len(payload))
	buf = protowire.AppendTag(buf, fieldSource, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(env.Source))
	buf = protowire.AppendTag(buf, fieldDestination, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(env.Destination))
	buf = protowire.AppendTag(buf, fieldType, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(env.Type))
	buf = protowire.AppendTag(buf, fieldSession, protowire.VarintType)
	buf = protowire.AppendVarint(buf, protowire.EncodeZigZag(int64(env.Session)))
	if len(payload) > 0 {
		buf = protowire.AppendTag(buf, fieldPayload, protowire.BytesType)
		buf = protowire.AppendBytes(buf, payload)
	}
	if compressed {
		buf = protowire.AppendTag(buf, fieldCompressed, protowire.VarintType)
		buf = protowire.AppendVarint(buf, protowire.EncodeBool(true))
	}
	return buf
}

// Unmarshal decodes an Envelope produced by Marshal. Unknown fields are skipped.
func Unmarshal(data []byte) (*Envelope, error) {
	env := new(Envelope)
	compressed := false

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == fieldPayload && typ == protowire.BytesType:
			value, m := protowire.ConsumeBytes(data)
			if m < 0 {
				return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, protowire.ParseError(m))
			}
			env.Payload = append([]byte(nil), value...)
			data = data[m:]
		case typ == protowire.VarintType && num >= fieldSource && num <= fieldCompressed:
			value, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, protowire.ParseError(m))
			}
			data = data[m:]
			if num != fieldSession && num != fieldCompressed && value > math.MaxUint32 {
				return nil, fmt.Errorf("%w: field %d overflows 32 bits", ErrMalformedEnvelope, num)
			}
			switch num {
			case fieldSource:
				env.Source = address.ID(value)
			case fieldDestination:
				env.Destination = address.ID(value)
			case fieldType:
				env.Type = uint32(value)
			case fieldSession:
				session := protowire.DecodeZigZag(value)
				if session < math.MinInt32 || session > math.MaxInt32 {
					return nil, fmt.Errorf("%w: session overflows 32 bits", ErrMalformedEnvelope)
				}
				env.Session = int32(session)
			case fieldCompressed:
				compressed = protowire.DecodeBool(value)
			}
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, protowire.ParseError(m))
			}
			data = data[m:]
		}
	}

	if compressed {
		payload, err := decoder.DecodeAll(env.Payload, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
		}
		env.Payload = payload
	}
	return env, nil
}
