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

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestUnpackSamples(t *testing.T) {
	tests := []struct {
		name  string
		chunk []byte
		want  []int16
	}{
		{
			name:  "consecutive raw values",
			chunk: []byte{0x01, 0x08, 0x30, 0x00, 0x01, 0x05, 0x18, 0x70, 0x00, 0x02},
			want:  []int16{-511, -510, -509, -508, -507, -506, -505, -504},
		},
		{
			name:  "full range",
			chunk: []byte{0x00, 0xfe, 0x0f, 0xc0, 0x7f, 0x64, 0x72, 0xa6, 0xaf, 0x41},
			want:  []int16{0, 511, -512, -1, 100, -100, 250, -250},
		},
		{
			name:  "uniform raw value 2",
			chunk: []byte{0x02, 0x08, 0x20, 0x80, 0x00, 0x02, 0x08, 0x20, 0x80, 0x00},
			want:  []int16{-510, -510, -510, -510, -510, -510, -510, -510},
		},
		{
			name:  "all zero bytes decode to the offset-binary floor",
			chunk: make([]byte, SampleGroupSize),
			want:  []int16{-512, -512, -512, -512, -512, -512, -512, -512},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UnpackSamples(tt.chunk)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("UnpackSamples mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnpackSamplesDiscardsPartialGroup(t *testing.T) {
	chunk := []byte{0x01, 0x08, 0x30, 0x00, 0x01, 0x05, 0x18, 0x70, 0x00, 0x02}
	// trailing bytes short of a full group must not produce samples
	padded := append(append([]byte{}, chunk...), 0xff, 0xff, 0xff)
	assert.Equal(t, UnpackSamples(chunk), UnpackSamples(padded))
}

func TestUnpackSamplesEmpty(t *testing.T) {
	assert.Empty(t, UnpackSamples(nil))
	assert.Empty(t, UnpackSamples(make([]byte, SampleGroupSize-1)))
}

func TestPackSamplesRoundTrip(t *testing.T) {
	samples := []int16{0, 511, -512, -1, 100, -100, 250, -250, 1, 2, 3, 4, 5, 6, 7, 8}
	got := UnpackSamples(PackSamples(samples))
	if diff := cmp.Diff(samples, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPackSamplesDropsPartialGroup(t *testing.T) {
	samples := make([]int16, SamplesPerGroup+3)
	assert.Len(t, PackSamples(samples), SampleGroupSize)
}
