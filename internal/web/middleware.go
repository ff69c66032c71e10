package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// HTTPProtocolMiddleware prevents HTTP/3 QUIC protocol issues in cloud environments
// This middleware adds headers to prevent browsers from attempting HTTP/3 connections
// which can cause net::ERR_QUIC_PROTOCOL_ERROR in complex proxy setups
func HTTPProtocolMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Disable HTTP/3 QUIC protocol advertising globally
		w.Header().Set("Alt-Svc", "clear")

		// Long-lived SSE streams need HTTP/1.1 keep-alive semantics
		if strings.HasPrefix(r.URL.Path, "/events") {
			w.Header().Set("Connection", "keep-alive")
			w.Header().Set("X-Force-HTTP1", "true")
		}

		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs every request once it has been served
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("module", "http").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request served")
	})
}

// WrapWithMiddleware wraps a handler with the protocol and logging middleware
func WrapWithMiddleware(handler http.Handler) http.Handler {
	return RequestLogger(HTTPProtocolMiddleware(handler))
}
