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
	"time"

	"github.com/spf13/cobra"

	"github.com/sonavio/go-uscan/pkg/command"
	"github.com/sonavio/go-uscan/pkg/config"
)

func NewListCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List completed scans",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			summaries, err := apiClient.Scans()
			if err != nil {
				return err
			}
			for _, summary := range summaries {
				completed := time.UnixMilli(int64(summary.CompletedAt)).UTC().Format(time.RFC3339)
				fmt.Fprintf(cmd.OutOrStdout(), "scanId: %d name: %s angles: %d steps: %d completed: %s file: %s\n",
					summary.ScanID, summary.Name, summary.AngleCount, summary.TotalSteps,
					completed, summary.File)
			}
			return nil
		},
	}
	return cmd
}
