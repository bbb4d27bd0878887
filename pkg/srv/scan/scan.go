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

package scan

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/sonavio/go-uscan/pkg/config"
	"github.com/sonavio/go-uscan/pkg/layers"
	"github.com/sonavio/go-uscan/pkg/log"
	"github.com/sonavio/go-uscan/pkg/scanstream"
	"github.com/sonavio/go-uscan/pkg/srv"
)

const (
	ReadBufferSize   = 65536
	ReconnectBackoff = 2 * time.Second
)

// ScanServer owns the probe transport and one stream decoder. It reads byte
// chunks from the probe (TCP or serial), pushes them through the decoder
// and routes completed scans to the writer and the registry. A transport
// drop maps to a decoder reset, as required by the protocol: frame state
// never survives a reconnect.
type ScanServer struct {
	srv.Server
	api     *ApiServer
	state   *State
	writer  *Writer
	metrics *Metrics

	// mu serializes decoder access between the read loop and the API
	mu        sync.Mutex
	decoder   *scanstream.Decoder
	connected bool
}

func NewScanServer(ctx context.Context, cfg *config.Config) (*ScanServer, error) {
	log.Info("Initializing scan server: probe: %s", probeTarget(cfg))

	state, err := NewState(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s := &ScanServer{
		Server: srv.Server{
			Context: ctx,
			Config:  cfg,
		},
		state:   state,
		writer:  NewWriter(),
		metrics: NewMetrics(),
	}
	s.decoder = scanstream.NewDecoder(scanstream.HandlerFuncs{
		OnConfig:   s.onConfig,
		OnPacket:   s.onPacket,
		OnProgress: s.onProgress,
		OnComplete: s.onComplete,
		OnError:    s.onParseError,
	})

	apiServer, err := NewApiServer(ctx, cfg, s)
	if err != nil {
		state.Close()
		return nil, err
	}
	s.api = apiServer

	return s, nil
}

func probeTarget(cfg *config.Config) string {
	if cfg.Probe.SerialPort != "" {
		return cfg.Probe.SerialPort
	}
	return fmt.Sprintf("%s:%d", cfg.Probe.Address, cfg.Probe.Port)
}

// dial opens the byte-chunk source: a serial port when configured, a TCP
// connection otherwise
func (s *ScanServer) dial() (srv.ChunkSource, error) {
	if s.Config.Probe.SerialPort != "" {
		return serial.Open(s.Config.Probe.SerialPort, &serial.Mode{
			BaudRate: s.Config.Probe.BaudRate,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		})
	}
	return net.Dial("tcp", fmt.Sprintf("%s:%d", s.Config.Probe.Address, s.Config.Probe.Port))
}

func (s *ScanServer) Run() error {
	go func() {
		if err := s.api.Run(); err != nil {
			log.Error("API server stopped: %s", err)
		}
	}()

	defer s.state.Close()

	for {
		select {
		case <-s.Context.Done():
			return s.Context.Err()
		default:
		}

		source, err := s.dial()
		if err != nil {
			log.Error("Error while connecting to probe %s: %s", probeTarget(s.Config), err)
			s.metrics.ProbeReconnects.Inc()
			select {
			case <-s.Context.Done():
				return s.Context.Err()
			case <-time.After(ReconnectBackoff):
			}
			continue
		}

		log.Info("Connected to probe: %s", probeTarget(s.Config))
		s.setConnected(true)
		s.readLoop(source)
		s.setConnected(false)
		source.Close()

		// the byte stream is gone, so is any half-received frame
		s.ResetDecoder()
		s.metrics.ProbeReconnects.Inc()
	}
}

func (s *ScanServer) readLoop(source srv.ChunkSource) {
	buffer := make([]byte, ReadBufferSize)
	for {
		n, err := source.Read(buffer)
		if n > 0 {
			s.metrics.BytesReceived.Add(float64(n))
			s.appendChunk(buffer[:n])
		}
		if err != nil {
			log.Warning("Probe read error: %s", err)
			return
		}
		select {
		case <-s.Context.Done():
			return
		default:
		}
	}
}

func (s *ScanServer) setConnected(up bool) {
	s.mu.Lock()
	s.connected = up
	s.mu.Unlock()
	if up {
		s.metrics.ProbeConnected.Set(1)
	} else {
		s.metrics.ProbeConnected.Set(0)
	}
}

func (s *ScanServer) appendChunk(chunk []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decoder.Append(chunk)
}

// ResetDecoder clears the decoder buffer and discards any open session
func (s *ScanServer) ResetDecoder() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decoder.Reset()
}

// SessionStatus is the open session part of a status report
type SessionStatus struct {
	ScanID   uint32 `json:"scanId"`
	Name     string `json:"name"`
	Inserted int    `json:"inserted"`
	Expected int    `json:"expected"`
}

// Status is what the API reports about the decoder
type Status struct {
	Probe     string         `json:"probe"`
	Connected bool           `json:"connected"`
	Buffered  int            `json:"buffered"`
	Session   *SessionStatus `json:"session,omitempty"`
}

func (s *ScanServer) Status() *Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := &Status{
		Probe:     probeTarget(s.Config),
		Connected: s.connected,
		Buffered:  s.decoder.Buffered(),
	}
	if session := s.decoder.Session(); session != nil {
		status.Session = &SessionStatus{
			ScanID:   session.ScanID,
			Name:     session.Config.Name,
			Inserted: session.Inserted(),
			Expected: session.Expected(),
		}
	}
	return status
}

func (s *ScanServer) Scans() ([]*ScanSummary, error) {
	return s.state.GetAllScanSummaries()
}

func (s *ScanServer) Persist(dir, prefix string) {
	s.writer.Persist(dir, prefix)
}

func (s *ScanServer) Flush() {
	s.writer.Flush()
}

// Decoder event handlers. They run synchronously inside appendChunk, under
// the server mutex.

func (s *ScanServer) onConfig(scanID uint32, cfg *layers.ScanConfig) {
	s.metrics.ConfigsDecoded.Inc()
	s.metrics.ScanProgress.Set(0)
	log.Info("Scan config: scanId: %d name: %s angles: %d steps: %d",
		scanID, cfg.Name, cfg.AngleCount(), cfg.TotalSteps)
}

func (s *ScanServer) onPacket(p *layers.DataPacket) {
	s.metrics.PacketsDecoded.Inc()
}

func (s *ScanServer) onProgress(scanID uint32, received, expected int) {
	s.metrics.ScanProgress.Set(float64(received))
}

func (s *ScanServer) onComplete(scan *scanstream.CompleteScan) {
	s.metrics.ScansCompleted.Inc()
	s.metrics.ScanProgress.Set(0)

	file, err := s.writer.Write(scan)
	if err != nil {
		log.Error("Error while writing scan %d: %s", scan.ScanID, err)
	}

	summary := &ScanSummary{
		ScanID:      scan.ScanID,
		Name:        scan.Config.Name,
		AngleCount:  scan.Config.AngleCount(),
		TotalSteps:  scan.Config.TotalSteps,
		CompletedAt: srv.Now(),
		File:        file,
	}
	if err := s.state.SetScanSummary(summary); err != nil {
		log.Error("Error while recording scan %d: %s", scan.ScanID, err)
	}
}

func (s *ScanServer) onParseError(err error) {
	switch err.(type) {
	case scanstream.ChecksumError:
		s.metrics.ChecksumErrors.Inc()
	case scanstream.ProtocolError:
		s.metrics.ProtocolErrors.Inc()
	case scanstream.DecodeError:
		s.metrics.DecodeErrors.Inc()
	}
	log.Warning("Parse error: %s", err)
}
