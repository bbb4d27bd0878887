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
	// ChecksumPoly is the CRC-32 generator polynomial used by the probe
	// firmware. The firmware feeds the STM32 hardware CRC unit, which is
	// the forward (non-reflected) variant: MSB first, no input or output
	// bit reversal and no final inversion. This is NOT the reflected
	// IEEE 802.3 crc32 from the standard library.
	ChecksumPoly uint32 = 0x04C11DB7
	// ChecksumInit is the initial value of the CRC register
	ChecksumInit uint32 = 0xFFFFFFFF
)

// ChecksumWords computes the ScanLink CRC over a sequence of 32-bit words.
func ChecksumWords(words []uint32) uint32 {
	crc := ChecksumInit
	for _, w := range words {
		crc ^= w
		for i := 0; i < 32; i++ {
			if crc&0x80000000 != 0 {
				crc = (crc << 1) ^ ChecksumPoly
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// Checksum computes the ScanLink CRC over a byte range, consumed as
// successive little-endian 32-bit words. The length of data must be a
// multiple of 4 bytes.
func Checksum(data []byte) (uint32, error) {
	if len(data)%4 != 0 {
		return 0, ErrChecksumInput{Length: len(data)}
	}
	crc := ChecksumInit
	for off := 0; off < len(data); off += 4 {
		crc ^= binary.LittleEndian.Uint32(data[off : off+4])
		for i := 0; i < 32; i++ {
			if crc&0x80000000 != 0 {
				crc = (crc << 1) ^ ChecksumPoly
			} else {
				crc <<= 1
			}
		}
	}
	return crc, nil
}
