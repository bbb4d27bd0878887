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

package decode

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sonavio/go-uscan/pkg/log"
	"github.com/sonavio/go-uscan/pkg/scanstream"
	"github.com/sonavio/go-uscan/pkg/srv/scan"
)

const (
	OutOptionName        = "out"
	FilePrefixOptionName = "file-prefix"

	readChunkSize = 65536
)

// NewCommand creates a cobra command object for decoding a raw capture file.
// Completed scans are printed as JSON, or written to a directory when --out
// is given.
func NewCommand() *cobra.Command {
	var outDir, filePrefix string
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode a raw capture file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			writer := scan.NewWriter()
			if outDir != "" {
				writer.Persist(outDir, filePrefix)
			}

			completed := 0
			decoder := scanstream.NewDecoder(scanstream.HandlerFuncs{
				OnComplete: func(s *scanstream.CompleteScan) {
					completed++
					if outDir != "" {
						if _, err := writer.Write(s); err != nil {
							log.Error("Error while writing scan %d: %s", s.ScanID, err)
						}
						return
					}
					data, err := json.Marshal(s)
					if err != nil {
						log.Error("Error while encoding scan %d: %s", s.ScanID, err)
						return
					}
					fmt.Fprintln(cmd.OutOrStdout(), string(data))
				},
				OnError: func(err error) {
					log.Warning("Parse error: %s", err)
				},
			})

			buffer := make([]byte, readChunkSize)
			for {
				n, err := file.Read(buffer)
				if n > 0 {
					decoder.Append(buffer[:n])
				}
				if err == io.EOF {
					break
				}
				if err != nil {
					return err
				}
			}

			if session := decoder.Session(); session != nil {
				log.Warning("Capture ended with an incomplete scan: scanId: %d progress: %d/%d",
					session.ScanID, session.Inserted(), session.Expected())
			}
			log.Info("Decoded %d complete scans", completed)
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, OutOptionName, "", "Directory where scan files are written")
	cmd.Flags().StringVar(&filePrefix, FilePrefixOptionName, "", "Prefix for scan file names")

	return cmd
}
