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
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sonavio/go-uscan/pkg/log"
)

// AngleDescriptor is one steering angle of a scan plan
type AngleDescriptor struct {
	Label     string
	StepCount int
}

// ScanConfig is the decoded description of a planned scan. Immutable once
// decoded; owned by the session it starts.
type ScanConfig struct {
	Name          string
	WindowStartUS uint32
	WindowEndUS   uint32
	Angles        []AngleDescriptor
	TotalSteps    int

	// Legacy scalar fields, only populated by the fixed-offset decoders.
	RepeatCount      uint16
	TailPad          uint16
	TxStartDelayNs   uint32
	AdcClockHz       uint32
	DdsClockHz       uint32
	BaselineChannels bool
}

func (c *ScanConfig) AngleCount() int {
	return len(c.Angles)
}

// ConfigDecoder is the common contract of all metadata encodings: payload in,
// ScanConfig out. Legacy decoders can be retired without touching the
// framing/checksum core.
type ConfigDecoder func(payload []byte) (*ScanConfig, error)

var configDecoders = map[FrameType]ConfigDecoder{
	TypeConfigLegacyV1: DecodeScanConfigLegacyV1,
	TypeConfigLegacyV2: DecodeScanConfigLegacyV2,
	TypeConfigJSON:     DecodeScanConfigJSON,
}

// DecodeScanConfig dispatches on the frame type byte
func DecodeScanConfig(t FrameType, payload []byte) (*ScanConfig, error) {
	decode, ok := configDecoders[t]
	if !ok {
		return nil, ErrUnknownFrameType{Type: uint8(t)}
	}
	cfg, err := decode(payload)
	if err != nil {
		return nil, err
	}
	if cfg.TotalSteps == 0 {
		return nil, errors.New("Scan config declares no steps")
	}
	return cfg, nil
}

type scanConfigDoc struct {
	Name   string `json:"name"`
	Window struct {
		StartUS uint32 `json:"start_us"`
		EndUS   uint32 `json:"end_us"`
	} `json:"window"`
	Angles []struct {
		Label string            `json:"label"`
		Steps []json.RawMessage `json:"steps"`
	} `json:"angles"`
}

// DecodeScanConfigJSON decodes the current firmware metadata encoding: a
// JSON document in the frame payload. The firmware NUL-pads the payload to a
// 32-bit boundary, the padding is stripped before unmarshalling. Step
// objects are opaque, only their count matters here.
func DecodeScanConfigJSON(payload []byte) (*ScanConfig, error) {
	doc := &scanConfigDoc{}
	if err := json.Unmarshal(bytes.TrimRight(payload, "\x00"), doc); err != nil {
		return nil, fmt.Errorf("Error while parsing scan config document: %w", err)
	}

	cfg := &ScanConfig{
		Name:          doc.Name,
		WindowStartUS: doc.Window.StartUS,
		WindowEndUS:   doc.Window.EndUS,
	}
	for _, angle := range doc.Angles {
		cfg.Angles = append(cfg.Angles, AngleDescriptor{
			Label:     angle.Label,
			StepCount: len(angle.Steps),
		})
		cfg.TotalSteps += len(angle.Steps)
	}

	log.Debug("DecodeScanConfigJSON: name: %s angles: %d totalSteps: %d",
		cfg.Name, cfg.AngleCount(), cfg.TotalSteps)
	return cfg, nil
}

// Fixed-offset tables of the legacy binary metadata records. Both variants
// start with a 32-byte NUL-padded name and a 16-entry angle table; they
// differ in the angle record stride and in what sits next to the step count.
const (
	legacyNameSize    = 32
	legacyMaxAngles   = 16
	legacyTableOffset = 36

	legacyV1AngleStride = 24
	legacyV1LabelSize   = 16
	legacyV1TableEnd    = legacyTableOffset + legacyMaxAngles*legacyV1AngleStride // 420

	legacyV2AngleStride = 8
	legacyV2TableEnd    = legacyTableOffset + legacyMaxAngles*legacyV2AngleStride // 164
)

func trimName(raw []byte) string {
	return string(bytes.TrimRight(raw, "\x00"))
}

// decodeLegacyTail reads the trailing scalar fields shared by both legacy
// variants. Older firmware captures truncate right after the angle table, so
// every field is optional.
func decodeLegacyTail(cfg *ScanConfig, payload []byte, off int) {
	if len(payload) >= off+2 {
		cfg.RepeatCount = binary.LittleEndian.Uint16(payload[off : off+2])
	}
	if len(payload) >= off+4 {
		cfg.TailPad = binary.LittleEndian.Uint16(payload[off+2 : off+4])
	}
	if len(payload) >= off+8 {
		cfg.TxStartDelayNs = binary.LittleEndian.Uint32(payload[off+4 : off+8])
	}
	if len(payload) >= off+12 {
		cfg.AdcClockHz = binary.LittleEndian.Uint32(payload[off+8 : off+12])
	}
	if len(payload) >= off+16 {
		cfg.DdsClockHz = binary.LittleEndian.Uint32(payload[off+12 : off+16])
	}
	if len(payload) >= off+17 {
		cfg.BaselineChannels = payload[off+16] != 0
	}
}

// DecodeScanConfigLegacyV1 decodes the oldest metadata record. Angle records
// are 24 bytes: step count, then a 16-byte text label.
func DecodeScanConfigLegacyV1(payload []byte) (*ScanConfig, error) {
	if len(payload) < legacyV1TableEnd {
		return nil, fmt.Errorf("Legacy v1 scan config too short: %d bytes. Must be at least %d.",
			len(payload), legacyV1TableEnd)
	}

	cfg := &ScanConfig{Name: trimName(payload[0:legacyNameSize])}
	angleCount := int(binary.LittleEndian.Uint16(payload[legacyNameSize : legacyNameSize+2]))
	if angleCount > legacyMaxAngles {
		angleCount = legacyMaxAngles
	}

	for i := 0; i < angleCount; i++ {
		rec := legacyTableOffset + i*legacyV1AngleStride
		stepCount := int(binary.LittleEndian.Uint16(payload[rec : rec+2]))
		if stepCount == 0 {
			continue
		}
		cfg.Angles = append(cfg.Angles, AngleDescriptor{
			Label:     trimName(payload[rec+2 : rec+2+legacyV1LabelSize]),
			StepCount: stepCount,
		})
		cfg.TotalSteps += stepCount
	}

	decodeLegacyTail(cfg, payload, legacyV1TableEnd)

	log.Debug("DecodeScanConfigLegacyV1: name: %s angles: %d totalSteps: %d",
		cfg.Name, cfg.AngleCount(), cfg.TotalSteps)
	return cfg, nil
}

// DecodeScanConfigLegacyV2 decodes the second metadata iteration. Angle
// records are 8 bytes: step count, then a delay-profile index which stands
// in for the label.
func DecodeScanConfigLegacyV2(payload []byte) (*ScanConfig, error) {
	if len(payload) < legacyV2TableEnd {
		return nil, fmt.Errorf("Legacy v2 scan config too short: %d bytes. Must be at least %d.",
			len(payload), legacyV2TableEnd)
	}

	cfg := &ScanConfig{Name: trimName(payload[0:legacyNameSize])}
	angleCount := int(binary.LittleEndian.Uint16(payload[legacyNameSize : legacyNameSize+2]))
	if angleCount > legacyMaxAngles {
		angleCount = legacyMaxAngles
	}

	for i := 0; i < angleCount; i++ {
		rec := legacyTableOffset + i*legacyV2AngleStride
		stepCount := int(binary.LittleEndian.Uint16(payload[rec : rec+2]))
		if stepCount == 0 {
			continue
		}
		profile := binary.LittleEndian.Uint16(payload[rec+2 : rec+4])
		cfg.Angles = append(cfg.Angles, AngleDescriptor{
			Label:     fmt.Sprintf("profile-%d", profile),
			StepCount: stepCount,
		})
		cfg.TotalSteps += stepCount
	}

	decodeLegacyTail(cfg, payload, legacyV2TableEnd)

	log.Debug("DecodeScanConfigLegacyV2: name: %s angles: %d totalSteps: %d",
		cfg.Name, cfg.AngleCount(), cfg.TotalSteps)
	return cfg, nil
}
