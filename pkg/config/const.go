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

const (
	ConfigDir      = ".go-uscan"
	ConfigFile     = "config"
	DataSubdir     = "data"
	RegistryDBFile = "registry.db"

	DefaultLogLevel     = "info"
	DefaultProbeAddress = "192.168.3.10"
	DefaultProbePort    = 5020
	DefaultBaudRate     = 921600
	DefaultApiIP        = "127.0.0.1"
	DefaultApiPort      = 8003
)
