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
)

// ErrChecksumInput returned when a checksum is requested over a byte range
// that is not a whole number of 32-bit words
type ErrChecksumInput struct {
	Length int
}

func (e ErrChecksumInput) Error() string {
	return fmt.Sprintf("Checksum input must be a multiple of 4 bytes, got %d", e.Length)
}

// ErrFrameTooShort returned when a buffer does not hold a complete frame
type ErrFrameTooShort struct {
	Length int
}

func (e ErrFrameTooShort) Error() string {
	return fmt.Sprintf("ScanLink frame too short: %d bytes. Must be at least %d.", e.Length, FrameMinSize)
}

// ErrBadPreamble returned when the frame does not start with the preamble marker
type ErrBadPreamble struct {
	Got uint32
}

func (e ErrBadPreamble) Error() string {
	return fmt.Sprintf("Wrong ScanLink preamble: 0x%08x. Must be 0x%08x.", e.Got, FramePreamble)
}

// ErrBadChecksum returned when the trailing CRC disagrees with the computed one
type ErrBadChecksum struct {
	Want uint32
	Got  uint32
}

func (e ErrBadChecksum) Error() string {
	return fmt.Sprintf("Wrong ScanLink checksum: computed 0x%08x, frame carries 0x%08x", e.Want, e.Got)
}

// ErrUnknownFrameType returned for type bytes outside the known set
type ErrUnknownFrameType struct {
	Type uint8
}

func (e ErrUnknownFrameType) Error() string {
	return fmt.Sprintf("Unknown ScanLink frame type: 0x%02x", e.Type)
}
