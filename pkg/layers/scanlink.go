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

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/sonavio/go-uscan/pkg/log"
)

const (
	// ScanLinkLayerNum identifies the layer
	ScanLinkLayerNum = 2001
	// FramePreamble is the magic marker in the beginning of each ScanLink
	// frame, little-endian on the wire
	FramePreamble uint32 = 0x1ACFFC1D
	// FrameHeaderSize is type/scanID word + payloadSize word
	FrameHeaderSize = 8
	// FrameMinSize is preamble + header + CRC, i.e. a frame with an empty payload
	FrameMinSize = 16
	// BenchScanID is reserved for bench/self-test traffic. Frames carrying
	// it are decoded but never reach session logic.
	BenchScanID uint32 = 0
	// ChannelCount is fixed in the canonical protocol, there is no
	// variable channel-count mode
	ChannelCount = 64
)

type FrameType uint8

const (
	// TypeConfigLegacyV1 is the oldest fixed-offset metadata record with
	// per-angle text labels
	TypeConfigLegacyV1 FrameType = 0x01
	// TypeConfigLegacyV2 replaced angle labels with delay-profile indexes
	TypeConfigLegacyV2 FrameType = 0x02
	// TypeConfigJSON is the current firmware metadata encoding
	TypeConfigJSON FrameType = 0x03
	// TypeData carries one channel's samples for one (angle, step) pair
	TypeData FrameType = 0x10
)

var frameTypeNames = map[FrameType]string{
	TypeConfigLegacyV1: "ConfigLegacyV1",
	TypeConfigLegacyV2: "ConfigLegacyV2",
	TypeConfigJSON:     "ConfigJSON",
	TypeData:           "Data",
}

// Known reports whether the type byte belongs to the known set. Anything
// else is treated by the frame scanner exactly like a checksum failure.
func (t FrameType) Known() bool {
	_, ok := frameTypeNames[t]
	return ok
}

// IsConfig reports whether the type produces a ScanConfig
func (t FrameType) IsConfig() bool {
	return t == TypeConfigLegacyV1 || t == TypeConfigLegacyV2 || t == TypeConfigJSON
}

func (t FrameType) String() string {
	if name, ok := frameTypeNames[t]; ok {
		return name
	}
	return "UnknownFrameType"
}

// ScanLinkLayer is one complete ScanLink frame:
//
//	offset  0.. 3  preamble, constant marker
//	offset  4.. 7  type (1 byte) | scanId (24 bits)
//	offset  8..11  payloadSize (uint32)
//	offset 12..    payload
//	last 4 bytes   CRC over bytes [4 .. 12+payloadSize-1]
//
// All multi-byte integers are little-endian.
type ScanLinkLayer struct {
	layers.BaseLayer
	Type        FrameType
	ScanID      uint32 // 24 bits
	PayloadSize uint32
	Crc         uint32
	Payload     []byte
}

var ScanLinkLayerType = gopacket.RegisterLayerType(ScanLinkLayerNum,
	gopacket.LayerTypeMetadata{Name: "ScanLinkLayerType", Decoder: gopacket.DecodeFunc(DecodeScanLinkLayer)})

// LayerType returns the type of the ScanLink layer in the layer catalog
func (sl *ScanLinkLayer) LayerType() gopacket.LayerType {
	return ScanLinkLayerType
}

// FrameLength returns the total frame size in bytes for a given payload size
func FrameLength(payloadSize uint32) int {
	return FrameMinSize + int(payloadSize)
}

// DecodeFromBytes attempts to decode data as one complete ScanLink frame,
// preamble first, CRC last. The frame scanner is responsible for locating
// frame boundaries in the stream; here data must hold exactly the frame.
func (sl *ScanLinkLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < FrameMinSize {
		df.SetTruncated()
		return ErrFrameTooShort{Length: len(data)}
	}

	if preamble := binary.LittleEndian.Uint32(data[0:4]); preamble != FramePreamble {
		return ErrBadPreamble{Got: preamble}
	}

	// type is the lowest byte of the second word, scanId the upper 24 bits
	typeScanID := binary.LittleEndian.Uint32(data[4:8])
	sl.Type = FrameType(typeScanID & 0xff)
	sl.ScanID = typeScanID >> 8
	sl.PayloadSize = binary.LittleEndian.Uint32(data[8:12])

	total := FrameLength(sl.PayloadSize)
	if len(data) < total {
		df.SetTruncated()
		return ErrFrameTooShort{Length: len(data)}
	}

	if !sl.Type.Known() {
		return ErrUnknownFrameType{Type: uint8(sl.Type)}
	}

	// CRC covers the header words and the payload, not the preamble
	sl.Crc = binary.LittleEndian.Uint32(data[total-4 : total])
	computed, err := Checksum(data[4 : total-4])
	if err != nil {
		return err
	}
	if computed != sl.Crc {
		return ErrBadChecksum{Want: computed, Got: sl.Crc}
	}

	sl.Payload = data[12 : total-4]
	sl.BaseLayer = layers.BaseLayer{
		Contents: data[0:12],
		Payload:  sl.Payload,
	}

	log.Debug("ScanLinkLayer.DecodeFromBytes: type: %s scanId: %d payloadSize: %d",
		sl.Type, sl.ScanID, sl.PayloadSize)
	return nil
}

// SerializeTo serializes the frame into bytes and writes them to the
// SerializeBuffer. With opts.ComputeChecksums the CRC field is filled in,
// otherwise sl.Crc is written as is.
func (sl *ScanLinkLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	total := FrameLength(uint32(len(sl.Payload)))
	buf, err := b.AppendBytes(total)
	if err != nil {
		return err
	}

	binary.LittleEndian.PutUint32(buf[0:4], FramePreamble)
	binary.LittleEndian.PutUint32(buf[4:8], sl.ScanID<<8|uint32(uint8(sl.Type)))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(sl.Payload)))
	copy(buf[12:total-4], sl.Payload)

	crc := sl.Crc
	if opts.ComputeChecksums {
		crc, err = Checksum(buf[4 : total-4])
		if err != nil {
			return err
		}
	}
	binary.LittleEndian.PutUint32(buf[total-4:total], crc)
	return nil
}

func DecodeScanLinkLayer(data []byte, p gopacket.PacketBuilder) error {
	sl := &ScanLinkLayer{}
	err := sl.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(sl)
	return nil
}
