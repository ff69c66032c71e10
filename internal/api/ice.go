package api

import (
	"net/http"
	"strings"

	"github.com/navikt/huddle/internal/config"
	"github.com/pion/webrtc/v4"
)

// ICEServersResponse is the peer connection configuration handed to browsers
type ICEServersResponse struct {
	ICEServers []webrtc.ICEServer `json:"iceServers"`
}

// ICEServersFromConfig builds one ICE server per configured URL. The shared
// credentials only apply to turn: and turns: URLs.
func ICEServersFromConfig(cfg config.ICEConfig) []webrtc.ICEServer {
	servers := make([]webrtc.ICEServer, 0, len(cfg.URLs))
	for _, url := range cfg.URLs {
		server := webrtc.ICEServer{URLs: []string{url}}
		if isTURN(url) {
			if cfg.Username != "" {
				server.Username = cfg.Username
			}
			if cfg.Credential != "" {
				server.Credential = cfg.Credential
			}
		}
		servers = append(servers, server)
	}
	return servers
}

func isTURN(url string) bool {
	return strings.HasPrefix(url, "turn:") || strings.HasPrefix(url, "turns:")
}

// ICEServersHandler serves GET /api/ice-servers
func ICEServersHandler(cfg config.ICEConfig) http.HandlerFunc {
	servers := ICEServersFromConfig(cfg)
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, ICEServersResponse{ICEServers: servers})
	}
}
