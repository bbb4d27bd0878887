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

package command

import (
	"errors"
	"fmt"

	"github.com/imroc/req"

	"github.com/sonavio/go-uscan/pkg/config"
	"github.com/sonavio/go-uscan/pkg/srv/scan"
)

// ApiClient talks to a running go-uscan daemon
type ApiClient struct {
	*config.Config
	ApiPrefix string
}

func NewApiClient(cfg *config.Config) *ApiClient {
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: fmt.Sprintf("http://%s:%d/api", cfg.Api.IP, cfg.Api.Port),
	}
}

// Status fetches the decoder status
func (c *ApiClient) Status() (*scan.Status, error) {
	r, err := req.Get(fmt.Sprintf("%s/status", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	status := &scan.Status{}
	if err := r.ToJSON(status); err != nil {
		return nil, err
	}
	return status, nil
}

// Scans fetches the completed scan registry
func (c *ApiClient) Scans() ([]*scan.ScanSummary, error) {
	r, err := req.Get(fmt.Sprintf("%s/scans", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	var summaries []*scan.ScanSummary
	if err := r.ToJSON(&summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Reset clears the daemon's decode buffer and discards any open session
func (c *ApiClient) Reset() error {
	r, err := req.Post(fmt.Sprintf("%s/reset", c.ApiPrefix))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}

// Persist directs completed scans into a directory
func (c *ApiClient) Persist(dir, prefix string) error {
	persist := &scan.Persist{
		Dir:        dir,
		FilePrefix: prefix,
	}
	r, err := req.Post(fmt.Sprintf("%s/persist", c.ApiPrefix), req.BodyJSON(persist))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}

// Flush stops persisting completed scans
func (c *ApiClient) Flush() error {
	r, err := req.Get(fmt.Sprintf("%s/flush", c.ApiPrefix))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}
