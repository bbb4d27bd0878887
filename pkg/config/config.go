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
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"
)

// ProbeConfig describes how to reach the probe. If SerialPort is set the
// serial transport is used, otherwise Address:Port over TCP.
type ProbeConfig struct {
	Address    string `json:"address,omitempty"`
	Port       int    `json:"port,omitempty"`
	SerialPort string `json:"serialPort,omitempty"`
	BaudRate   int    `json:"baudRate,omitempty"`
}

type ApiConfig struct {
	IP   string `json:"ip,omitempty"`
	Port int    `json:"port,omitempty"`
}

type Config struct {
	LogLevel string       `json:"logLevel,omitempty"`
	DataDir  string       `json:"dataDir,omitempty"`
	Probe    *ProbeConfig `json:"probe,omitempty"`
	Api      *ApiConfig   `json:"api,omitempty"`
	filepath string
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(&c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	return os.WriteFile(c.filepath, data, 0644)
}

// Load reads the config file if it exists. A missing file is not an error,
// the defaults are kept in that case.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

// RegistryDBPath is the path of the bbolt database where completed scan
// summaries are kept.
func (c *Config) RegistryDBPath() string {
	return filepath.Join(c.DataDir, RegistryDBFile)
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, DataSubdir)
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		DataDir:  DefaultDataDir(),
		Probe: &ProbeConfig{
			Address:  DefaultProbeAddress,
			Port:     DefaultProbePort,
			BaudRate: DefaultBaudRate,
		},
		Api: &ApiConfig{
			IP:   DefaultApiIP,
			Port: DefaultApiPort,
		},
		filepath: DefaultConfigPath(),
	}
}
