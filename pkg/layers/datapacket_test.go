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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDataPacket(t *testing.T) {
	payload := []byte{3, 7, 21, SampleFormatPacked10}
	payload = append(payload, 0x01, 0x08, 0x30, 0x00, 0x01, 0x05, 0x18, 0x70, 0x00, 0x02)

	p, err := DecodeDataPacket(9, payload)
	require.NoError(t, err)
	assert.Equal(t, uint32(9), p.ScanID)
	assert.Equal(t, uint8(3), p.AngleIndex)
	assert.Equal(t, uint8(7), p.StepIndex)
	assert.Equal(t, uint8(21), p.ChannelIndex)
	assert.Equal(t, SampleFormatPacked10, p.SampleFormat)
	assert.Equal(t, []int16{-511, -510, -509, -508, -507, -506, -505, -504}, p.Samples)
}

func TestDecodeDataPacketHeaderOnly(t *testing.T) {
	p, err := DecodeDataPacket(1, []byte{0, 0, 0, SampleFormatPacked10})
	require.NoError(t, err)
	assert.Empty(t, p.Samples)
}

func TestDecodeDataPacketTooShort(t *testing.T) {
	_, err := DecodeDataPacket(1, []byte{0, 0, 0})
	require.Error(t, err)
}
