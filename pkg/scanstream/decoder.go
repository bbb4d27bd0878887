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
	"encoding/binary"

	"github.com/google/gopacket"

	"github.com/sonavio/go-uscan/pkg/layers"
	"github.com/sonavio/go-uscan/pkg/log"
)

const (
	// MaxPayloadSize guards against a corrupted size word stalling the
	// scanner while it waits for gigabytes that will never arrive. The
	// probe never emits payloads anywhere near this.
	MaxPayloadSize = 1 << 20
)

// Decoder reconstructs scans from a continuous, possibly fragmented
// ScanLink byte stream. It is push driven and single threaded: Append may
// synchronously invoke handler callbacks before returning, and all calls
// into the decoder must be externally serialized. Each Decoder instance
// owns its own buffer and session, so independent streams can be decoded
// concurrently by separate instances.
type Decoder struct {
	buf     []byte
	handler Handler
	session *Session
}

func NewDecoder(h Handler) *Decoder {
	if h == nil {
		h = HandlerFuncs{}
	}
	return &Decoder{handler: h}
}

// Session returns the open session, or nil. Exposed for status reporting.
func (d *Decoder) Session() *Session {
	return d.session
}

// Buffered returns how many bytes are currently held waiting for a
// complete frame.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}

// Reset clears the byte buffer and discards any open session. The transport
// owner must call it when the underlying connection is dropped or restarted.
func (d *Decoder) Reset() {
	if d.session != nil {
		log.Debug("Reset: discarding session: scanId: %d inserted: %d/%d",
			d.session.ScanID, d.session.Inserted(), d.session.Expected())
	}
	d.buf = nil
	d.session = nil
}

// Append adds a chunk of raw bytes to the accumulator and extracts as many
// complete, validated frames as the buffer now holds. Chunks may split
// frames at arbitrary offsets; delivery order is the caller's contract.
func (d *Decoder) Append(chunk []byte) {
	d.buf = append(d.buf, chunk...)

	for len(d.buf) >= layers.FrameMinSize {
		if binary.LittleEndian.Uint32(d.buf[0:4]) != layers.FramePreamble {
			// byte-level resynchronization
			d.buf = d.buf[1:]
			continue
		}

		payloadSize := binary.LittleEndian.Uint32(d.buf[8:12])
		if payloadSize > MaxPayloadSize {
			log.Debug("Append: implausible payload size %d, resyncing", payloadSize)
			d.buf = d.buf[1:]
			continue
		}
		total := layers.FrameLength(payloadSize)
		if len(d.buf) < total {
			// frame spans multiple appends, await more data
			return
		}

		frame := &layers.ScanLinkLayer{}
		if err := frame.DecodeFromBytes(d.buf[:total], gopacket.NilDecodeFeedback); err != nil {
			// A bad checksum is surfaced; an unrecognized type byte is
			// treated identically but stays a silent framing error.
			// Either way only one byte is dropped, not the whole frame.
			if crcErr, ok := err.(layers.ErrBadChecksum); ok {
				log.Warning("Append: %s", crcErr)
				d.handler.ParseError(ChecksumError{Computed: crcErr.Want, Received: crcErr.Got})
			} else {
				log.Debug("Append: framing error: %s", err)
			}
			d.buf = d.buf[1:]
			continue
		}

		d.buf = d.buf[total:]
		d.dispatch(frame)
	}
}

// dispatch routes one validated frame through payload decoding and session
// bookkeeping
func (d *Decoder) dispatch(frame *layers.ScanLinkLayer) {
	if frame.Type.IsConfig() {
		d.handleConfig(frame)
		return
	}
	d.handleData(frame)
}

func (d *Decoder) handleConfig(frame *layers.ScanLinkLayer) {
	cfg, err := layers.DecodeScanConfig(frame.Type, frame.Payload)
	if err != nil {
		if frame.ScanID == layers.BenchScanID {
			log.Debug("handleConfig: bench frame decode error: %s", err)
			return
		}
		log.Warning("handleConfig: %s: %s", frame.Type, err)
		d.handler.ParseError(DecodeError{Type: frame.Type, Err: err})
		return
	}

	// Bench/self-test traffic is fully decoded for diagnostics but never
	// reaches session logic.
	if frame.ScanID == layers.BenchScanID {
		log.Debug("handleConfig: bench config: name: %s angles: %d", cfg.Name, cfg.AngleCount())
		return
	}

	if d.session != nil && !d.session.Complete() {
		// Superseded sessions vanish silently, there is no aborted event.
		log.Debug("handleConfig: superseding incomplete session: scanId: %d inserted: %d/%d",
			d.session.ScanID, d.session.Inserted(), d.session.Expected())
	}
	d.session = NewSession(frame.ScanID, cfg)

	log.Info("Open session: scanId: %d name: %s angles: %d totalSteps: %d expected: %d",
		frame.ScanID, cfg.Name, cfg.AngleCount(), cfg.TotalSteps, d.session.Expected())
	d.handler.ConfigDecoded(frame.ScanID, cfg)
}

func (d *Decoder) handleData(frame *layers.ScanLinkLayer) {
	packet, err := layers.DecodeDataPacket(frame.ScanID, frame.Payload)
	if err != nil {
		if frame.ScanID == layers.BenchScanID {
			log.Debug("handleData: bench frame decode error: %s", err)
			return
		}
		log.Warning("handleData: %s", err)
		d.handler.ParseError(DecodeError{Type: frame.Type, Err: err})
		return
	}

	if frame.ScanID == layers.BenchScanID {
		log.Debug("handleData: bench packet: angle: %d step: %d channel: %d",
			packet.AngleIndex, packet.StepIndex, packet.ChannelIndex)
		return
	}

	d.handler.PacketDecoded(packet)

	if d.session == nil {
		d.handler.ParseError(ProtocolError{ScanID: frame.ScanID, What: "data without matching metadata"})
		return
	}
	if d.session.ScanID != frame.ScanID {
		d.handler.ParseError(ProtocolError{
			ScanID: frame.ScanID,
			What:   "data does not belong to the open session",
		})
		return
	}

	d.session.Insert(packet)
	d.handler.Progress(d.session.ScanID, d.session.Inserted(), d.session.Expected())

	if d.session.Complete() {
		scan := d.session.Assemble()
		log.Info("Close session: scanId: %d angles: %d inserted: %d",
			scan.ScanID, len(scan.Angles), d.session.Inserted())
		d.session = nil
		d.handler.ScanComplete(scan)
	}
}
