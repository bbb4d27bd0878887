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
	"github.com/sonavio/go-uscan/pkg/layers"
)

// Handler receives decode events. All calls happen synchronously inside
// Decoder.Append, on the caller's goroutine; handlers must not block.
type Handler interface {
	// ConfigDecoded fires when a metadata frame opens a new session
	ConfigDecoded(scanID uint32, cfg *layers.ScanConfig)
	// PacketDecoded fires for every successfully decoded data frame,
	// before session bookkeeping
	PacketDecoded(p *layers.DataPacket)
	// Progress fires after every accepted insert
	Progress(scanID uint32, received, expected int)
	// ScanComplete fires exactly once per session, when the insert count
	// first reaches the expected total
	ScanComplete(scan *CompleteScan)
	// ParseError fires for checksum, protocol and decode errors. All of
	// them are local: the decoder keeps accepting bytes.
	ParseError(err error)
}

// HandlerFuncs adapts plain functions to Handler. Nil fields are ignored so
// callers subscribe only to the events they care about.
type HandlerFuncs struct {
	OnConfig   func(scanID uint32, cfg *layers.ScanConfig)
	OnPacket   func(p *layers.DataPacket)
	OnProgress func(scanID uint32, received, expected int)
	OnComplete func(scan *CompleteScan)
	OnError    func(err error)
}

func (h HandlerFuncs) ConfigDecoded(scanID uint32, cfg *layers.ScanConfig) {
	if h.OnConfig != nil {
		h.OnConfig(scanID, cfg)
	}
}

func (h HandlerFuncs) PacketDecoded(p *layers.DataPacket) {
	if h.OnPacket != nil {
		h.OnPacket(p)
	}
}

func (h HandlerFuncs) Progress(scanID uint32, received, expected int) {
	if h.OnProgress != nil {
		h.OnProgress(scanID, received, expected)
	}
}

func (h HandlerFuncs) ScanComplete(scan *CompleteScan) {
	if h.OnComplete != nil {
		h.OnComplete(scan)
	}
}

func (h HandlerFuncs) ParseError(err error) {
	if h.OnError != nil {
		h.OnError(err)
	}
}
