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
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
	"sigs.k8s.io/yaml"

	"github.com/sonavio/go-uscan/pkg/config"
	"github.com/sonavio/go-uscan/pkg/log"
)

const (
	ScansBucket = "scans"
)

// ScanSummary is what the registry keeps about a completed scan. The full
// result lives in the output file, if persisting was enabled when the scan
// completed.
type ScanSummary struct {
	ScanID      uint32 `json:"scanId"`
	Name        string `json:"name"`
	AngleCount  int    `json:"angleCount"`
	TotalSteps  int    `json:"totalSteps"`
	CompletedAt uint64 `json:"completedAt"` // milliseconds since epoch
	File        string `json:"file,omitempty"`
}

// State is the bbolt-backed registry of completed scans
type State struct {
	context.Context
	DB *bbolt.DB
}

func NewState(ctx context.Context, cfg *config.Config) (*State, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.RegistryDBPath()), 0755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(cfg.RegistryDBPath(), 0600, nil)
	if err != nil {
		return nil, err
	}
	s := &State{
		Context: ctx,
		DB:      db,
	}
	if err := s.createBucket(ScansBucket); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close ...
func (s *State) Close() {
	s.DB.Close()
}

func (s *State) createBucket(name string) error {
	return s.DB.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(name))
		return err
	})
}

func summaryKey(summary *ScanSummary) []byte {
	return []byte(fmt.Sprintf("%016d_%06d", summary.CompletedAt, summary.ScanID))
}

// SetScanSummary records a completed scan
func (s *State) SetScanSummary(summary *ScanSummary) error {
	log.Debug("Setting scan summary: scanId: %d name: %s", summary.ScanID, summary.Name)
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(ScansBucket))
		if b == nil {
			return fmt.Errorf("Bucket not found: %s", ScansBucket)
		}
		data, err := yaml.Marshal(summary)
		if err != nil {
			return err
		}
		return b.Put(summaryKey(summary), data)
	})
}

// GetAllScanSummaries returns every recorded scan in completion order
func (s *State) GetAllScanSummaries() ([]*ScanSummary, error) {
	var summaries []*ScanSummary
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(ScansBucket))
		if b == nil {
			return fmt.Errorf("Bucket not found: %s", ScansBucket)
		}
		return b.ForEach(func(_, v []byte) error {
			summary := &ScanSummary{}
			if err := yaml.Unmarshal(v, summary); err != nil {
				log.Error("Error while unmarshalling scan summary: %s", err)
				return err
			}
			summaries = append(summaries, summary)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return summaries, nil
}
