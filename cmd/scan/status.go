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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sonavio/go-uscan/pkg/command"
	"github.com/sonavio/go-uscan/pkg/config"
)

func NewStatusCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show decoder status",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			status, err := apiClient.Status()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "probe: %s connected: %t buffered: %d\n",
				status.Probe, status.Connected, status.Buffered)
			if status.Session != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "session: scanId: %d name: %s progress: %d/%d\n",
					status.Session.ScanID, status.Session.Name,
					status.Session.Inserted, status.Session.Expected)
			}
			return nil
		},
	}
	return cmd
}
