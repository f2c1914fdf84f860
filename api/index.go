// Package handler is the serverless entrypoint. The service graph is built on
// the first request and reused while the instance stays warm.
package handler

import (
	"net/http"
	"purohit/config"
	"purohit/di"
	"purohit/shared/logger"
	"sync"

	transport "purohit/transport/http"
)

var (
	server *transport.HTTP
	once   sync.Once
)

func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()
		logger.Configure(cfg)

		server = di.InitializeService()
	})

	r.RequestURI = r.URL.String()

	server.ServeHTTP(w, r)
}
