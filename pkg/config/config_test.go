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

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.filepath = filepath.Join(t.TempDir(), ConfigFile)
	return cfg
}

func TestConfigPersistLoad(t *testing.T) {
	cfg := testConfig(t)
	cfg.LogLevel = "debug"
	cfg.Probe.SerialPort = "/dev/ttyUSB0"
	cfg.Probe.BaudRate = 115200
	require.NoError(t, cfg.Persist(false))

	loaded := NewDefaultConfig()
	loaded.filepath = cfg.filepath
	require.NoError(t, loaded.Load())

	assert.Equal(t, "debug", loaded.LogLevel)
	assert.Equal(t, "/dev/ttyUSB0", loaded.Probe.SerialPort)
	assert.Equal(t, 115200, loaded.Probe.BaudRate)
	assert.Equal(t, DefaultApiPort, loaded.Api.Port)
}

func TestConfigPersistRefusesOverwrite(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, cfg.Persist(false))

	err := cfg.Persist(false)
	require.Error(t, err)
	assert.IsType(t, ErrConfigFileExists{}, err)

	assert.NoError(t, cfg.Persist(true))
}

func TestConfigLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, cfg.Load())
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultProbeAddress, cfg.Probe.Address)
}

func TestConfigRegistryDBPath(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.DataDir = "/var/lib/go-uscan"
	assert.Equal(t, filepath.Join("/var/lib/go-uscan", RegistryDBFile), cfg.RegistryDBPath())
}
