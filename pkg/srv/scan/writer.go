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
	"encoding/json"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/sonavio/go-uscan/pkg/log"
	"github.com/sonavio/go-uscan/pkg/scanstream"
)

// Writer persists completed scans as JSON files. While no persist target is
// set, results are discarded after the registry summary is recorded.
type Writer struct {
	dir    string
	prefix string
}

func NewWriter() *Writer {
	return &Writer{}
}

// Persist directs subsequent completed scans into dir
func (w *Writer) Persist(dir, prefix string) {
	log.Info("Persist scans to: %s prefix: %s", dir, prefix)
	w.dir = dir
	w.prefix = prefix
}

// Flush stops persisting
func (w *Writer) Flush() {
	log.Info("Flush scan writer")
	w.dir = ""
	w.prefix = ""
}

func (w *Writer) filename(scan *scanstream.CompleteScan) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%06d_%s.json", scan.Config.Name, scan.ScanID, timestamp)
	if w.prefix != "" {
		filename = fmt.Sprintf("%s_%s", w.prefix, filename)
	}
	return path.Join(w.dir, filename)
}

// Write stores one completed scan. Returns the output path, or "" when
// persisting is disabled.
func (w *Writer) Write(scan *scanstream.CompleteScan) (string, error) {
	if w.dir == "" {
		return "", nil
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", err
	}
	data, err := json.Marshal(scan)
	if err != nil {
		return "", err
	}
	filename := w.filename(scan)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	log.Info("Wrote scan: scanId: %d file: %s", scan.ScanID, filename)
	return filename, nil
}
