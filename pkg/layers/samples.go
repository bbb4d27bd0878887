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
)

const (
	// SampleGroupSize is the raw size of one bit-packed group
	SampleGroupSize = 10
	// SamplesPerGroup is how many 10-bit samples one group encodes
	SamplesPerGroup = 8
	// sampleZero is the offset-binary midpoint. The ADC emits unsigned
	// 10-bit readings; subtracting 512 recenters them around zero. This is
	// a fixed correction, not two's-complement sign extension.
	sampleZero = 512

	sampleMask = 0x3ff
)

// UnpackSamples expands bit-packed 10-bit sample groups into signed
// integers. Each 10-byte group holds 8 samples, 4 per 5-byte half: within a
// half, sample i is the low 10 bits of the 16-bit little-endian value at
// byte position i, shifted right by 2*i. A trailing partial group is
// discarded, not carried over to a future chunk.
func UnpackSamples(chunk []byte) []int16 {
	groups := len(chunk) / SampleGroupSize
	samples := make([]int16, 0, groups*SamplesPerGroup)

	for g := 0; g < groups; g++ {
		group := chunk[g*SampleGroupSize : (g+1)*SampleGroupSize]
		for _, base := range [2]int{0, 5} {
			for i := 0; i < 4; i++ {
				raw := binary.LittleEndian.Uint16(group[base+i:base+i+2]) >> (2 * i) & sampleMask
				samples = append(samples, int16(raw)-sampleZero)
			}
		}
	}
	return samples
}

// PackSamples is the inverse of UnpackSamples. The sample count must be a
// multiple of SamplesPerGroup, anything beyond the last full group is not
// representable on the wire and is dropped.
func PackSamples(samples []int16) []byte {
	groups := len(samples) / SamplesPerGroup
	chunk := make([]byte, groups*SampleGroupSize)

	for g := 0; g < groups; g++ {
		group := chunk[g*SampleGroupSize : (g+1)*SampleGroupSize]
		next := samples[g*SamplesPerGroup:]
		for h, base := range [2]int{0, 5} {
			for i := 0; i < 4; i++ {
				raw := uint16(next[h*4+i]+sampleZero) & sampleMask
				packed := binary.LittleEndian.Uint16(group[base+i:base+i+2]) | raw<<(2*i)
				binary.LittleEndian.PutUint16(group[base+i:base+i+2], packed)
			}
		}
	}
	return chunk
}
