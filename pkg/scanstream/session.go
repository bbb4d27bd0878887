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

// SampleKey is the composite index identifying a data packet's slot within
// a session
type SampleKey struct {
	Angle   uint8
	Step    uint8
	Channel uint8
}

// Session is one in-flight scan's accumulated data. At most one session is
// open per decoder at any time.
type Session struct {
	ScanID   uint32
	Config   *layers.ScanConfig
	samples  map[SampleKey][]int16
	inserted int
	expected int
}

func NewSession(scanID uint32, cfg *layers.ScanConfig) *Session {
	return &Session{
		ScanID:   scanID,
		Config:   cfg,
		samples:  make(map[SampleKey][]int16),
		expected: cfg.TotalSteps * layers.ChannelCount,
	}
}

// Insert stores a packet's samples under its composite key. A repeated key
// overwrites the prior samples and leaves the insert count unchanged.
// Returns true if the key was new.
func (s *Session) Insert(p *layers.DataPacket) bool {
	key := SampleKey{Angle: p.AngleIndex, Step: p.StepIndex, Channel: p.ChannelIndex}
	_, exists := s.samples[key]
	s.samples[key] = p.Samples
	if !exists {
		s.inserted++
	}
	return !exists
}

func (s *Session) Inserted() int {
	return s.inserted
}

func (s *Session) Expected() int {
	return s.expected
}

// Complete reports whether the session has reached its expected total
func (s *Session) Complete() bool {
	return s.inserted >= s.expected
}

// CompleteScan is the finished result handed to the caller. The decoder
// does not retain it after emission.
type CompleteScan struct {
	ScanID uint32
	Config *layers.ScanConfig
	Angles []AngleResult
}

type AngleResult struct {
	Index int
	Label string
	Steps []StepResult
}

type StepResult struct {
	Index    int
	Channels []ChannelResult
}

type ChannelResult struct {
	Channel int
	Samples []int16
}

// Assemble folds the flat sample map into the nested angle/step/channel
// result, iterating angles and their declared steps in configuration order.
// Channels missing from the map are omitted; a step with no recovered
// channels and an angle with no recovered steps are omitted entirely.
func (s *Session) Assemble() *CompleteScan {
	scan := &CompleteScan{
		ScanID: s.ScanID,
		Config: s.Config,
	}

	for angleIdx, angle := range s.Config.Angles {
		angleResult := AngleResult{Index: angleIdx, Label: angle.Label}
		for step := 0; step < angle.StepCount; step++ {
			stepResult := StepResult{Index: step}
			for ch := 0; ch < layers.ChannelCount; ch++ {
				key := SampleKey{Angle: uint8(angleIdx), Step: uint8(step), Channel: uint8(ch)}
				samples, ok := s.samples[key]
				if !ok {
					continue
				}
				stepResult.Channels = append(stepResult.Channels, ChannelResult{
					Channel: ch,
					Samples: samples,
				})
			}
			if len(stepResult.Channels) > 0 {
				angleResult.Steps = append(angleResult.Steps, stepResult)
			}
		}
		if len(angleResult.Steps) > 0 {
			scan.Angles = append(scan.Angles, angleResult)
		}
	}

	return scan
}
