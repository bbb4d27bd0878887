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
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sonavio/go-uscan/pkg/config"
	"github.com/sonavio/go-uscan/pkg/log"
)

type Persist struct {
	Dir        string
	FilePrefix string
}

type ApiServer struct {
	context.Context
	*config.Config
	*mux.Router
	scan *ScanServer
}

func NewApiServer(ctx context.Context, cfg *config.Config, scan *ScanServer) (*ApiServer, error) {
	log.Info("Initializing API server with address: %s port: %d", cfg.Api.IP, cfg.Api.Port)

	s := &ApiServer{
		Context: ctx,
		Config:  cfg,
		scan:    scan,
	}
	return s, nil
}

// Start
func (s *ApiServer) Run() error {
	log.Debug("Starting API server: address: %s port: %d", s.Config.Api.IP, s.Config.Api.Port)
	s.configureRouter()
	httpServer := &http.Server{
		Handler: handlers.CombinedLoggingHandler(os.Stderr, s.Router),
		Addr:    fmt.Sprintf("%s:%d", s.Config.Api.IP, s.Config.Api.Port),
	}
	return httpServer.ListenAndServe()
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	s.Router.Handle("/metrics", promhttp.Handler())
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	subRouter.HandleFunc("/status", s.handleStatus()).Methods("GET")
	subRouter.HandleFunc("/scans", s.handleScans()).Methods("GET")
	subRouter.HandleFunc("/reset", s.handleReset()).Methods("POST")
	subRouter.HandleFunc("/persist", s.handlePersist()).Methods("POST")
	subRouter.HandleFunc("/flush", s.handleFlush()).Methods("GET")
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Error while encoding API response: %s", err)
	}
}

func (s *ApiServer) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.scan.Status())
	}
}

func (s *ApiServer) handleScans() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summaries, err := s.scan.Scans()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, summaries)
	}
}

func (s *ApiServer) handleReset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling reset request")
		s.scan.ResetDecoder()
	}
}

func (s *ApiServer) handlePersist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		persist := &Persist{}
		err := json.NewDecoder(r.Body).Decode(persist)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		log.Debug("Handling persist request: dir: %s filePrefix: %s", persist.Dir, persist.FilePrefix)
		s.scan.Persist(persist.Dir, persist.FilePrefix)
	}
}

func (s *ApiServer) handleFlush() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling flush request")
		s.scan.Flush()
	}
}
