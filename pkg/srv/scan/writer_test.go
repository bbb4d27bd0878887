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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonavio/go-uscan/pkg/layers"
	"github.com/sonavio/go-uscan/pkg/scanstream"
)

func completeScan() *scanstream.CompleteScan {
	return &scanstream.CompleteScan{
		ScanID: 42,
		Config: &layers.ScanConfig{
			Name:       "writer-test",
			Angles:     []layers.AngleDescriptor{{Label: "a", StepCount: 1}},
			TotalSteps: 1,
		},
		Angles: []scanstream.AngleResult{
			{
				Index: 0,
				Label: "a",
				Steps: []scanstream.StepResult{
					{
						Index: 0,
						Channels: []scanstream.ChannelResult{
							{Channel: 0, Samples: []int16{-1, 0, 1}},
						},
					},
				},
			},
		},
	}
}

func TestWriterDisabledByDefault(t *testing.T) {
	w := NewWriter()
	file, err := w.Write(completeScan())
	require.NoError(t, err)
	assert.Empty(t, file)
}

func TestWriterWrite(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter()
	w.Persist(dir, "bench")

	file, err := w.Write(completeScan())
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(file))
	assert.Contains(t, filepath.Base(file), "bench_writer-test_000042_")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	got := &scanstream.CompleteScan{}
	require.NoError(t, json.Unmarshal(data, got))
	assert.Equal(t, completeScan(), got)
}

func TestWriterFlush(t *testing.T) {
	w := NewWriter()
	w.Persist(t.TempDir(), "")
	w.Flush()

	file, err := w.Write(completeScan())
	require.NoError(t, err)
	assert.Empty(t, file)
}
