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
	"fmt"

	"github.com/sonavio/go-uscan/pkg/log"
)

const (
	// DataHeaderSize is angleIndex + stepIndex + channelIndex + sampleFormat
	DataHeaderSize = 4
	// SampleFormatPacked10 is the only sample format current firmware
	// emits. The field is informational, the decoder does not dispatch
	// on it.
	SampleFormatPacked10 uint8 = 0x0a
)

// DataPacket is one channel's worth of samples for one (angle, step) pair
type DataPacket struct {
	ScanID       uint32
	AngleIndex   uint8
	StepIndex    uint8
	ChannelIndex uint8
	SampleFormat uint8
	Samples      []int16
}

// DecodeDataPacket decodes a data frame payload:
//
//	0  angleIndex
//	1  stepIndex
//	2  channelIndex
//	3  sampleFormat
//	4.. bit-packed sample chunk
//
// The sample chunk is consumed in 10-byte groups; alignment padding at the
// end of the payload falls into a partial group and is dropped by
// UnpackSamples.
func DecodeDataPacket(scanID uint32, payload []byte) (*DataPacket, error) {
	if len(payload) < DataHeaderSize {
		return nil, fmt.Errorf("ScanLink data payload too short: %d bytes. Must at least have the data header.", len(payload))
	}

	p := &DataPacket{
		ScanID:       scanID,
		AngleIndex:   payload[0],
		StepIndex:    payload[1],
		ChannelIndex: payload[2],
		SampleFormat: payload[3],
		Samples:      UnpackSamples(payload[DataHeaderSize:]),
	}

	log.Debug("DecodeDataPacket: scanId: %d angle: %d step: %d channel: %d samples: %d",
		p.ScanID, p.AngleIndex, p.StepIndex, p.ChannelIndex, len(p.Samples))
	return p, nil
}
