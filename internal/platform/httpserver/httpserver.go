package httpserver

import (
	"net/http"
	"time"
)

// New builds the chancery API server. Per-request deadlines live in the
// router's timeout middleware; these bounds only guard the connection layer
// against slow or idle clients.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
