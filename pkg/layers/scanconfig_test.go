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

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeScanConfigJSON(t *testing.T) {
	doc := `{
		"name": "weld-seam-12",
		"window": {"start_us": 10, "end_us": 90},
		"angles": [
			{"label": "A0", "steps": [0.0, 0.5, 1.0]},
			{"label": "A1", "steps": [0.0, 0.5]}
		]
	}`
	// firmware pads the payload with NULs to a 32-bit boundary
	payload := []byte(doc)
	for len(payload)%4 != 0 {
		payload = append(payload, 0)
	}

	cfg, err := DecodeScanConfig(TypeConfigJSON, payload)
	require.NoError(t, err)

	want := &ScanConfig{
		Name:          "weld-seam-12",
		WindowStartUS: 10,
		WindowEndUS:   90,
		Angles: []AngleDescriptor{
			{Label: "A0", StepCount: 3},
			{Label: "A1", StepCount: 2},
		},
		TotalSteps: 5,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("ScanConfig mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeScanConfigJSONRejectsGarbage(t *testing.T) {
	_, err := DecodeScanConfig(TypeConfigJSON, []byte("not json\x00\x00"))
	require.Error(t, err)
}

func TestDecodeScanConfigRejectsEmptyPlan(t *testing.T) {
	_, err := DecodeScanConfig(TypeConfigJSON, []byte(`{"name":"empty","angles":[]}`))
	require.Error(t, err)
}

func legacyV1Payload(name string, steps [][2]interface{}) []byte {
	payload := make([]byte, legacyV1TableEnd)
	copy(payload[0:legacyNameSize], name)
	binary.LittleEndian.PutUint16(payload[legacyNameSize:legacyNameSize+2], uint16(len(steps)))
	for i, s := range steps {
		rec := legacyTableOffset + i*legacyV1AngleStride
		binary.LittleEndian.PutUint16(payload[rec:rec+2], uint16(s[0].(int)))
		copy(payload[rec+2:rec+2+legacyV1LabelSize], s[1].(string))
	}
	return payload
}

func TestDecodeScanConfigLegacyV1(t *testing.T) {
	payload := legacyV1Payload("legacy-plan", [][2]interface{}{
		{3, "left"},
		{0, "skipped"},
		{2, "right"},
	})

	cfg, err := DecodeScanConfig(TypeConfigLegacyV1, payload)
	require.NoError(t, err)

	assert.Equal(t, "legacy-plan", cfg.Name)
	// zero-step records do not survive decoding
	want := []AngleDescriptor{
		{Label: "left", StepCount: 3},
		{Label: "right", StepCount: 2},
	}
	assert.Equal(t, want, cfg.Angles)
	assert.Equal(t, 5, cfg.TotalSteps)
}

func TestDecodeScanConfigLegacyV1Tail(t *testing.T) {
	payload := legacyV1Payload("tailed", [][2]interface{}{{1, "a"}})
	tail := make([]byte, 17)
	binary.LittleEndian.PutUint16(tail[0:2], 4)              // repeatCount
	binary.LittleEndian.PutUint32(tail[4:8], 1500)           // txStartDelayNs
	binary.LittleEndian.PutUint32(tail[8:12], 40_000_000)    // adcClockHz
	binary.LittleEndian.PutUint32(tail[12:16], 200_000_000)  // ddsClockHz
	tail[16] = 1                                             // baselineChannels
	payload = append(payload, tail...)

	cfg, err := DecodeScanConfig(TypeConfigLegacyV1, payload)
	require.NoError(t, err)
	assert.Equal(t, uint16(4), cfg.RepeatCount)
	assert.Equal(t, uint32(1500), cfg.TxStartDelayNs)
	assert.Equal(t, uint32(40_000_000), cfg.AdcClockHz)
	assert.Equal(t, uint32(200_000_000), cfg.DdsClockHz)
	assert.True(t, cfg.BaselineChannels)
}

func TestDecodeScanConfigLegacyV1Truncated(t *testing.T) {
	payload := legacyV1Payload("short", [][2]interface{}{{1, "a"}})
	_, err := DecodeScanConfig(TypeConfigLegacyV1, payload[:legacyV1TableEnd-1])
	require.Error(t, err)
}

func legacyV2Payload(name string, steps [][2]uint16) []byte {
	payload := make([]byte, legacyV2TableEnd)
	copy(payload[0:legacyNameSize], name)
	binary.LittleEndian.PutUint16(payload[legacyNameSize:legacyNameSize+2], uint16(len(steps)))
	for i, s := range steps {
		rec := legacyTableOffset + i*legacyV2AngleStride
		binary.LittleEndian.PutUint16(payload[rec:rec+2], s[0])
		binary.LittleEndian.PutUint16(payload[rec+2:rec+4], s[1])
	}
	return payload
}

func TestDecodeScanConfigLegacyV2(t *testing.T) {
	payload := legacyV2Payload("plan-v2", [][2]uint16{
		{4, 7},
		{2, 3},
	})

	cfg, err := DecodeScanConfig(TypeConfigLegacyV2, payload)
	require.NoError(t, err)

	assert.Equal(t, "plan-v2", cfg.Name)
	// v2 has no labels, the delay-profile index stands in
	want := []AngleDescriptor{
		{Label: "profile-7", StepCount: 4},
		{Label: "profile-3", StepCount: 2},
	}
	assert.Equal(t, want, cfg.Angles)
	assert.Equal(t, 6, cfg.TotalSteps)
}

func TestDecodeScanConfigLegacyV2Truncated(t *testing.T) {
	payload := legacyV2Payload("short", [][2]uint16{{1, 0}})
	_, err := DecodeScanConfig(TypeConfigLegacyV2, payload[:legacyV2TableEnd-2])
	require.Error(t, err)
}

func TestDecodeScanConfigLegacyAngleCountClamped(t *testing.T) {
	payload := legacyV2Payload("clamped", nil)
	binary.LittleEndian.PutUint16(payload[legacyNameSize:legacyNameSize+2], 1000)
	for i := 0; i < legacyMaxAngles; i++ {
		rec := legacyTableOffset + i*legacyV2AngleStride
		binary.LittleEndian.PutUint16(payload[rec:rec+2], 1)
	}

	cfg, err := DecodeScanConfig(TypeConfigLegacyV2, payload)
	require.NoError(t, err)
	assert.Equal(t, legacyMaxAngles, cfg.AngleCount())
}

func TestDecodeScanConfigUnknownType(t *testing.T) {
	_, err := DecodeScanConfig(TypeData, nil)
	require.Error(t, err)
	assert.IsType(t, ErrUnknownFrameType{}, err)
}
