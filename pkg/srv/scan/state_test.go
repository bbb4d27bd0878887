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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonavio/go-uscan/pkg/config"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	cfg := &config.Config{DataDir: t.TempDir()}
	state, err := NewState(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(state.Close)
	return state
}

func TestStateRoundTrip(t *testing.T) {
	state := newTestState(t)

	summaries := []*ScanSummary{
		{ScanID: 12, Name: "first", AngleCount: 2, TotalSteps: 6, CompletedAt: 1000, File: "/tmp/first.json"},
		{ScanID: 13, Name: "second", AngleCount: 1, TotalSteps: 1, CompletedAt: 2000},
	}
	for _, s := range summaries {
		require.NoError(t, state.SetScanSummary(s))
	}

	got, err := state.GetAllScanSummaries()
	require.NoError(t, err)
	assert.Equal(t, summaries, got)
}

func TestStateCompletionOrder(t *testing.T) {
	state := newTestState(t)

	// inserted out of order, listed by completion time
	require.NoError(t, state.SetScanSummary(&ScanSummary{ScanID: 2, Name: "late", CompletedAt: 9000}))
	require.NoError(t, state.SetScanSummary(&ScanSummary{ScanID: 1, Name: "early", CompletedAt: 1000}))

	got, err := state.GetAllScanSummaries()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "early", got[0].Name)
	assert.Equal(t, "late", got[1].Name)
}

func TestStateEmpty(t *testing.T) {
	state := newTestState(t)
	got, err := state.GetAllScanSummaries()
	require.NoError(t, err)
	assert.Empty(t, got)
}
