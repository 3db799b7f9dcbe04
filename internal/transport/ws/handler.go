package ws

import (
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/vedran77/ripple/internal/lib/sl"
	"github.com/vedran77/ripple/internal/lib/token"
	"github.com/vedran77/ripple/internal/repository"
)

// ServeWS returns an HTTP handler that upgrades to WebSocket.
// Auth is done via ?token=xxx query param (WebSocket can't send headers);
// the token goes through the same whitelist and signature checks as a
// bearer header.
func ServeWS(hub *Hub, tokenRepo repository.TokenRepository, accessSecret string, logger *slog.Logger) http.HandlerFunc {
	secret := []byte(accessSecret)
	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr := r.URL.Query().Get("token")
		if tokenStr == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		entry, err := tokenRepo.Get(r.Context(), tokenStr)
		if err != nil || entry == nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		if entry.Expired(time.Now()) {
			if err := tokenRepo.Delete(r.Context(), tokenStr); err != nil {
				logger.Error("deleting expired token", sl.Err(err))
			}
			http.Error(w, "token expired", http.StatusUnauthorized)
			return
		}

		userID, err := token.Verify(tokenStr, secret)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true, // Allow any origin (dev mode)
		})
		if err != nil {
			logger.Error("ws accept failed", sl.Err(err))
			return
		}

		client := NewClient(hub, conn, userID, logger)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
