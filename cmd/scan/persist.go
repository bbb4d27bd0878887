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
	"github.com/spf13/cobra"

	"github.com/sonavio/go-uscan/pkg/command"
	"github.com/sonavio/go-uscan/pkg/config"
)

const (
	DirOptionName        = "dir"
	FilePrefixOptionName = "file-prefix"
)

func NewPersistCommand() *cobra.Command {
	var dir, filePrefix string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "persist",
		Short: "Persist completed scans to a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			return apiClient.Persist(dir, filePrefix)
		},
	}
	cmd.Flags().StringVar(&dir, DirOptionName, "", "Directory where scan files are written")
	cmd.Flags().StringVar(&filePrefix, FilePrefixOptionName, "", "Prefix for scan file names")
	cmd.MarkFlagRequired(DirOptionName)

	return cmd
}
