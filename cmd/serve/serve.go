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

package serve

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sonavio/go-uscan/pkg/config"
	"github.com/sonavio/go-uscan/pkg/srv/scan"
)

const (
	AddressOptionName = "address"
	PortOptionName    = "port"
	SerialOptionName  = "serial"
	BaudOptionName    = "baud"
)

// NewCommand creates a cobra command object for running the scan server
func NewCommand() *cobra.Command {
	var address, serialPort string
	var port, baudRate int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start scan server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if address != "" {
				cfg.Probe.Address = address
			}
			if port != 0 {
				cfg.Probe.Port = port
			}
			if serialPort != "" {
				cfg.Probe.SerialPort = serialPort
			}
			if baudRate != 0 {
				cfg.Probe.BaudRate = baudRate
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server, err := scan.NewScanServer(ctx, cfg)
			if err != nil {
				return err
			}
			if err := server.Run(); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&address, AddressOptionName, "", "Probe address. E.g. 192.168.3.10")
	cmd.Flags().IntVar(&port, PortOptionName, 0, "Probe port number. E.g. 5020")
	cmd.Flags().StringVar(&serialPort, SerialOptionName, "", "Probe serial port. E.g. /dev/ttyUSB0")
	cmd.Flags().IntVar(&baudRate, BaudOptionName, 0, "Serial baud rate. E.g. 921600")

	return cmd
}
