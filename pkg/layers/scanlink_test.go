/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package layers

import (
	"encoding/binary"
	"testing"

	"github.com/google/gopacket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serializeFrame(t *testing.T, frameType FrameType, scanID uint32, payload []byte) []byte {
	t.Helper()
	sl := &ScanLinkLayer{
		Type:    frameType,
		ScanID:  scanID,
		Payload: payload,
	}
	buf := gopacket.NewSerializeBuffer()
	err := sl.SerializeTo(buf, gopacket.SerializeOptions{ComputeChecksums: true})
	require.NoError(t, err)
	return buf.Bytes()
}

func TestScanLinkLayerRoundTrip(t *testing.T) {
	payload := []byte{0, 1, 2, SampleFormatPacked10, 0x01, 0x08, 0x30, 0x00, 0x01, 0x05, 0x18, 0x70, 0x00, 0x02, 0x00, 0x00}
	data := serializeFrame(t, TypeData, 42, payload)
	require.Len(t, data, FrameMinSize+len(payload))

	sl := &ScanLinkLayer{}
	require.NoError(t, sl.DecodeFromBytes(data, gopacket.NilDecodeFeedback))
	assert.Equal(t, TypeData, sl.Type)
	assert.Equal(t, uint32(42), sl.ScanID)
	assert.Equal(t, uint32(len(payload)), sl.PayloadSize)
	assert.Equal(t, payload, sl.Payload)
}

func TestScanLinkLayerScanID24Bits(t *testing.T) {
	data := serializeFrame(t, TypeData, 0x00ABCDEF, []byte{0, 0, 0, 0})
	sl := &ScanLinkLayer{}
	require.NoError(t, sl.DecodeFromBytes(data, gopacket.NilDecodeFeedback))
	assert.Equal(t, uint32(0x00ABCDEF), sl.ScanID)
	// type byte sits in the low byte of the word
	assert.Equal(t, TypeData, sl.Type)
}

func TestScanLinkLayerRejectsBadPreamble(t *testing.T) {
	data := serializeFrame(t, TypeData, 1, []byte{0, 0, 0, 0})
	data[0] ^= 0xff
	sl := &ScanLinkLayer{}
	err := sl.DecodeFromBytes(data, gopacket.NilDecodeFeedback)
	require.Error(t, err)
	assert.IsType(t, ErrBadPreamble{}, err)
}

func TestScanLinkLayerRejectsBadChecksum(t *testing.T) {
	data := serializeFrame(t, TypeData, 1, []byte{0, 0, 0, 0})
	data[len(data)-1] ^= 0xff
	sl := &ScanLinkLayer{}
	err := sl.DecodeFromBytes(data, gopacket.NilDecodeFeedback)
	require.Error(t, err)
	assert.IsType(t, ErrBadChecksum{}, err)
}

func TestScanLinkLayerRejectsCorruptPayload(t *testing.T) {
	data := serializeFrame(t, TypeData, 1, []byte{1, 2, 3, 4})
	data[13] ^= 0x01
	sl := &ScanLinkLayer{}
	err := sl.DecodeFromBytes(data, gopacket.NilDecodeFeedback)
	require.Error(t, err)
	assert.IsType(t, ErrBadChecksum{}, err)
}

func TestScanLinkLayerRejectsUnknownType(t *testing.T) {
	data := serializeFrame(t, FrameType(0x7f), 1, []byte{0, 0, 0, 0})
	sl := &ScanLinkLayer{}
	err := sl.DecodeFromBytes(data, gopacket.NilDecodeFeedback)
	require.Error(t, err)
	assert.IsType(t, ErrUnknownFrameType{}, err)
}

func TestScanLinkLayerRejectsTruncated(t *testing.T) {
	data := serializeFrame(t, TypeData, 1, []byte{0, 0, 0, 0})
	sl := &ScanLinkLayer{}
	err := sl.DecodeFromBytes(data[:len(data)-1], gopacket.NilDecodeFeedback)
	require.Error(t, err)
	assert.IsType(t, ErrFrameTooShort{}, err)
}

func TestScanLinkLayerMinimalFrame(t *testing.T) {
	// the empty-payload frame is the minimal well-formed frame
	data := serializeFrame(t, TypeConfigJSON, 0, nil)
	require.Len(t, data, FrameMinSize)
	assert.Equal(t, FramePreamble, binary.LittleEndian.Uint32(data[0:4]))
	crc, err := Checksum(data[4:12])
	require.NoError(t, err)
	assert.Equal(t, crc, binary.LittleEndian.Uint32(data[12:16]))
}

func TestScanLinkLayerDecodesCapturedFrame(t *testing.T) {
	// the annotated probe capture from scanlink_sample.go
	data := []byte{
		0x1d, 0xfc, 0xcf, 0x1a, 0x10, 0x2a, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x01, 0x02, 0x07, 0x0a,
		0x01, 0x04, 0x10, 0x40, 0x00, 0x01, 0x04, 0x10, 0x40, 0x00, 0x00, 0x00, 0x68, 0x87, 0xb0, 0xcf,
	}
	sl := &ScanLinkLayer{}
	require.NoError(t, sl.DecodeFromBytes(data, gopacket.NilDecodeFeedback))
	assert.Equal(t, TypeData, sl.Type)
	assert.Equal(t, uint32(0x2a), sl.ScanID)

	p, err := DecodeDataPacket(sl.ScanID, sl.Payload)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), p.AngleIndex)
	assert.Equal(t, uint8(2), p.StepIndex)
	assert.Equal(t, uint8(7), p.ChannelIndex)
	assert.Equal(t, []int16{-511, -511, -511, -511, -511, -511, -511, -511}, p.Samples)
}
