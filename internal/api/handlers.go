package api

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"catcharena/internal/server"
)

// routerHandlers holds the dependencies the join/connect_webrtc
// handlers need. Kept minimal and unexported — NewRouter is the only
// thing that constructs one.
type routerHandlers struct {
	joinCh      chan<- server.JoinMessage
	joinTimeout time.Duration
}

// joinRequestBody is the wire shape of POST /join's body (spec.md §6):
// `{ "game_id": <string|null>, "player_name": <string> }`.
type joinRequestBody struct {
	GameID     *string `json:"game_id"`
	PlayerName string  `json:"player_name"`
}

// joinOkBody is the success payload nested under "Ok" in the response.
type joinOkBody struct {
	GameID       string `json:"game_id"`
	GameSettings settingsBody `json:"game_settings"`
	YourToken    string `json:"your_token"`
	YourPlayerID uint32 `json:"your_player_id"`
}

type settingsBody struct {
	MapWidth   float64 `json:"map_width"`
	MapHeight  float64 `json:"map_height"`
	MaxPlayers int     `json:"max_players"`
}

// handleJoin implements POST /join. The HTTP goroutine never touches a
// Game: it posts a JoinMessage onto the runner's channel and blocks on
// its one-shot reply, exactly the rendezvous spec.md §5 describes.
func (h *routerHandlers) handleJoin(w http.ResponseWriter, r *http.Request) {
	var body joinRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJoinErr(w, "InvalidPlayerName")
		return
	}
	if strings.TrimSpace(body.PlayerName) == "" {
		writeJoinErr(w, "InvalidPlayerName")
		return
	}

	var gameID *uuid.UUID
	if body.GameID != nil {
		id, err := uuid.Parse(*body.GameID)
		if err != nil {
			writeJoinErr(w, "InvalidGameId")
			return
		}
		gameID = &id
	}

	reply := make(chan server.JoinReplyOrError, 1)
	msg := server.JoinMessage{
		Request: server.JoinRequest{GameID: gameID, PlayerName: body.PlayerName},
		Reply:   reply,
	}

	select {
	case h.joinCh <- msg:
	case <-time.After(h.joinTimeout):
		writeJoinErr(w, "FullGame")
		return
	}

	select {
	case res := <-reply:
		if res.Err != nil {
			RecordConnectionRejected("full_game")
			writeJoinErr(w, "FullGame")
			return
		}
		writeJSON(w, map[string]interface{}{
			"Ok": joinOkBody{
				GameID: res.Result.GameID.String(),
				GameSettings: settingsBody{
					MapWidth:   res.Result.Settings.MapSize.X,
					MapHeight:  res.Result.Settings.MapSize.Y,
					MaxPlayers: res.Result.Settings.MaxPlayers,
				},
				YourToken:    res.Result.Token.String(),
				YourPlayerID: uint32(res.Result.PlayerID),
			},
		})
	case <-time.After(h.joinTimeout):
		writeJoinErr(w, "FullGame")
	}
}

func writeJoinErr(w http.ResponseWriter, kind string) {
	writeJSON(w, map[string]interface{}{"Err": kind})
}

// handleConnectWebRTC implements POST /connect_webrtc. Real SDP/ICE
// negotiation is out of scope (spec.md §1); this stub reads and ignores
// the offer and returns a fixed, syntactically valid SDP answer so the
// documented interface (body in,
// answer out, CORS open) is honored end to end without a WebRTC stack.
func (h *routerHandlers) handleConnectWebRTC(w http.ResponseWriter, r *http.Request) {
	offer, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "invalid offer", http.StatusBadRequest)
		return
	}
	_ = offer

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/sdp")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("v=0\r\no=- 0 0 IN IP4 0.0.0.0\r\ns=-\r\nt=0 0\r\n"))
}

// gzipAwareFileHandler serves static assets from fs, preferring a
// path+".gz" sibling (served with Content-Encoding: gzip) when one
// exists and the client sent Accept-Encoding: gzip (spec.md §6).
func gzipAwareFileHandler(fs http.FileSystem) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path
		if name == "/" || name == "" {
			name = "/index.html"
		}

		if strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			if f, err := fs.Open(name + ".gz"); err == nil {
				defer f.Close()
				w.Header().Set("Content-Encoding", "gzip")
				w.Header().Set("Content-Type", contentTypeFor(name))
				io.Copy(w, f)
				return
			}
		}

		f, err := fs.Open(name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer f.Close()
		http.ServeContent(w, r, name, time.Time{}, f)
	}
}

func contentTypeFor(name string) string {
	switch filepath.Ext(name) {
	case ".js":
		return "application/javascript"
	case ".wasm":
		return "application/wasm"
	case ".html":
		return "text/html; charset=utf-8"
	case ".ttf":
		return "font/ttf"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}
