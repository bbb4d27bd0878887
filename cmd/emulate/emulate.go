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

package emulate

import (
	"encoding/json"
	"fmt"
	"math"
	"net"

	"github.com/google/gopacket"
	"github.com/spf13/cobra"

	"github.com/sonavio/go-uscan/pkg/layers"
	"github.com/sonavio/go-uscan/pkg/log"
)

const (
	AddressOptionName = "address"
	PortOptionName    = "port"
	AnglesOptionName  = "angles"
	StepsOptionName   = "steps"
	SamplesOptionName = "samples"

	DefaultPort    = 5020
	DefaultAngles  = 2
	DefaultSteps   = 4
	DefaultSamples = 64
)

// emulator serves synthetic probe traffic. Each accepted connection gets a
// burst of bench frames followed by one complete scan, then the connection
// is closed.
type emulator struct {
	angles  int
	steps   int
	samples int
	scanID  uint32
}

type metadataWindow struct {
	StartUS float64 `json:"start_us"`
	EndUS   float64 `json:"end_us"`
}

type metadataAngle struct {
	Label string    `json:"label"`
	Steps []float64 `json:"steps"`
}

type metadataDoc struct {
	Name   string          `json:"name"`
	Window metadataWindow  `json:"window"`
	Angles []metadataAngle `json:"angles"`
}

// frame serializes one ScanLink frame with a computed CRC. The payload is
// NUL padded to a 32-bit boundary first, the way firmware aligns it for the
// word-wise CRC.
func frame(t layers.FrameType, scanID uint32, payload []byte) ([]byte, error) {
	for len(payload)%4 != 0 {
		payload = append(payload, 0)
	}
	sl := &layers.ScanLinkLayer{
		Type:    t,
		ScanID:  scanID,
		Payload: payload,
	}
	buf := gopacket.NewSerializeBuffer()
	if err := sl.SerializeTo(buf, gopacket.SerializeOptions{ComputeChecksums: true}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *emulator) configPayload(name string) ([]byte, error) {
	doc := metadataDoc{
		Name:   name,
		Window: metadataWindow{StartUS: 10, EndUS: 90},
	}
	for a := 0; a < e.angles; a++ {
		angle := metadataAngle{Label: fmt.Sprintf("angle-%d", a)}
		for s := 0; s < e.steps; s++ {
			angle.Steps = append(angle.Steps, float64(s)*0.5)
		}
		doc.Angles = append(doc.Angles, angle)
	}
	return json.Marshal(doc)
}

func (e *emulator) dataPayload(angle, step, channel int) []byte {
	samples := make([]int16, e.samples)
	for i := range samples {
		phase := float64(i)/8 + float64(channel)/4
		samples[i] = int16(200 * math.Sin(phase) * math.Exp(-float64(i)/float64(e.samples)))
	}
	payload := make([]byte, layers.DataHeaderSize, layers.DataHeaderSize+len(samples)/layers.SamplesPerGroup*layers.SampleGroupSize)
	payload[0] = uint8(angle)
	payload[1] = uint8(step)
	payload[2] = uint8(channel)
	payload[3] = layers.SampleFormatPacked10
	return append(payload, layers.PackSamples(samples)...)
}

// scanFrames builds a full scan: the config frame, then one data frame per
// (angle, step, channel)
func (e *emulator) scanFrames(scanID uint32, name string) ([][]byte, error) {
	payload, err := e.configPayload(name)
	if err != nil {
		return nil, err
	}
	configFrame, err := frame(layers.TypeConfigJSON, scanID, payload)
	if err != nil {
		return nil, err
	}
	frames := [][]byte{configFrame}
	for a := 0; a < e.angles; a++ {
		for s := 0; s < e.steps; s++ {
			for c := 0; c < layers.ChannelCount; c++ {
				dataFrame, err := frame(layers.TypeData, scanID, e.dataPayload(a, s, c))
				if err != nil {
					return nil, err
				}
				frames = append(frames, dataFrame)
			}
		}
	}
	return frames, nil
}

func (e *emulator) serve(conn net.Conn) error {
	defer conn.Close()

	// bench chatter first, the decoder must swallow it without a session
	benchFrames, err := e.scanFrames(layers.BenchScanID, "bench")
	if err != nil {
		return err
	}
	// then the real scan
	e.scanID++
	frames, err := e.scanFrames(e.scanID, fmt.Sprintf("emulated-%d", e.scanID))
	if err != nil {
		return err
	}

	for _, f := range benchFrames[:2] {
		if _, err := conn.Write(f); err != nil {
			return err
		}
	}
	for _, f := range frames {
		if _, err := conn.Write(f); err != nil {
			return err
		}
	}
	log.Info("Sent scan: scanId: %d frames: %d", e.scanID, len(frames))
	return nil
}

// NewCommand creates a cobra command object for serving synthetic probe traffic
func NewCommand() *cobra.Command {
	var address string
	var port, angles, steps, samples int
	cmd := &cobra.Command{
		Use:   "emulate",
		Short: "Serve synthetic probe traffic over TCP",
		RunE: func(cmd *cobra.Command, args []string) error {
			listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", address, port))
			if err != nil {
				return err
			}
			defer listener.Close()
			log.Info("Emulating probe on: %s angles: %d steps: %d samples: %d",
				listener.Addr(), angles, steps, samples)

			e := &emulator{
				angles:  angles,
				steps:   steps,
				samples: samples,
			}
			for {
				conn, err := listener.Accept()
				if err != nil {
					return err
				}
				log.Info("Probe client connected: %s", conn.RemoteAddr())
				if err := e.serve(conn); err != nil {
					log.Warning("Error while serving probe client: %s", err)
				}
			}
		},
	}
	cmd.Flags().StringVar(&address, AddressOptionName, "", "Address to bind. E.g. 192.168.3.10")
	cmd.Flags().IntVar(&port, PortOptionName, DefaultPort, "Port number to bind")
	cmd.Flags().IntVar(&angles, AnglesOptionName, DefaultAngles, "Angles per scan")
	cmd.Flags().IntVar(&steps, StepsOptionName, DefaultSteps, "Steps per angle")
	cmd.Flags().IntVar(&samples, SamplesOptionName, DefaultSamples, "Samples per channel")

	return cmd
}
