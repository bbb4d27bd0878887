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

package srv

import (
	"context"
	"io"
	"time"

	"github.com/sonavio/go-uscan/pkg/config"
)

// ChunkSource is an ordered byte-chunk source: a serial port or a TCP
// socket. Reads return chunks of arbitrary, non-guaranteed size.
type ChunkSource interface {
	io.ReadCloser
}

// Server is the common embed of the daemon servers
type Server struct {
	context.Context
	*config.Config
}

// Now returns the current time in milliseconds since the epoch
func Now() uint64 {
	return uint64(time.Now().UnixNano()) * uint64(time.Nanosecond) / uint64(time.Millisecond)
}
