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

package scanstream

import (
	"fmt"

	"github.com/sonavio/go-uscan/pkg/layers"
)

// ChecksumError reported when a located frame fails CRC validation. The
// frame is discarded via byte-skip resynchronization and its data is lost.
type ChecksumError struct {
	Computed uint32
	Received uint32
}

func (e ChecksumError) Error() string {
	return fmt.Sprintf("Frame checksum mismatch: computed 0x%08x, received 0x%08x", e.Computed, e.Received)
}

// ProtocolError reported when a data frame arrives without a matching open
// session. The frame is dropped.
type ProtocolError struct {
	ScanID uint32
	What   string
}

func (e ProtocolError) Error() string {
	return fmt.Sprintf("Protocol error: scan %d: %s", e.ScanID, e.What)
}

// DecodeError reported when a frame payload fails to parse. The frame is
// dropped; for metadata frames no session is opened or replaced.
type DecodeError struct {
	Type layers.FrameType
	Err  error
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("Error while decoding %s payload: %s", e.Type, e.Err)
}

func (e DecodeError) Unwrap() error {
	return e.Err
}
