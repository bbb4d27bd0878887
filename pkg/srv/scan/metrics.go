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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the decoder and transport counters exported at /metrics
type Metrics struct {
	BytesReceived   prometheus.Counter
	PacketsDecoded  prometheus.Counter
	ConfigsDecoded  prometheus.Counter
	ChecksumErrors  prometheus.Counter
	ProtocolErrors  prometheus.Counter
	DecodeErrors    prometheus.Counter
	ScansCompleted  prometheus.Counter
	ScanProgress    prometheus.Gauge
	ProbeConnected  prometheus.Gauge
	ProbeReconnects prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		BytesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "uscan_bytes_received_total",
			Help: "Total raw bytes read from the probe transport",
		}),
		PacketsDecoded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "uscan_data_packets_decoded_total",
			Help: "Total data packets decoded from the stream",
		}),
		ConfigsDecoded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "uscan_configs_decoded_total",
			Help: "Total metadata frames that opened a session",
		}),
		ChecksumErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "uscan_checksum_errors_total",
			Help: "Frames discarded due to CRC mismatch",
		}),
		ProtocolErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "uscan_protocol_errors_total",
			Help: "Data frames dropped for lack of a matching session",
		}),
		DecodeErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "uscan_decode_errors_total",
			Help: "Frame payloads that failed to parse",
		}),
		ScansCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "uscan_scans_completed_total",
			Help: "Scans assembled to completion",
		}),
		ScanProgress: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "uscan_scan_progress_packets",
			Help: "Inserted packet count of the open session",
		}),
		ProbeConnected: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "uscan_probe_connected",
			Help: "1 while the probe transport is up",
		}),
		ProbeReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Name: "uscan_probe_reconnects_total",
			Help: "Transport reconnect attempts",
		}),
	}
}
