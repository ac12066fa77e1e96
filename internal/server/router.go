package server

import (
	"database/sql"
	"net/http"
)

// Setup wires the REST API and the websocket feed onto one handler.
func Setup(db *sql.DB, hub *Hub) http.Handler {
	mux := http.NewServeMux()

	// WebSocket change feed
	wsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value(UserIDKey).(string)
		ServeWs(hub, w, r, userID)
	})
	mux.Handle("/ws", AuthMiddleware(wsHandler))

	// REST API
	users := NewUserRepository(db)
	notes := NewNoteRepository(db)
	authHandler := NewAuthHandler(users)
	noteHandler := NewNoteHandler(notes, hub)
	auth := AuthMiddleware

	mux.Handle("/api/auth/register", http.HandlerFunc(authHandler.Register))
	mux.Handle("/api/auth/login", http.HandlerFunc(authHandler.Login))
	mux.Handle("/api/auth/logout", http.HandlerFunc(authHandler.Logout))
	// Me stays outside AuthMiddleware: it answers 200 either way and reports
	// the session status in the body.
	mux.Handle("/api/auth/me", http.HandlerFunc(authHandler.Me))
	mux.Handle("/api/notes", auth(http.HandlerFunc(noteHandler.Collection)))
	mux.Handle("/api/notes/", auth(http.HandlerFunc(noteHandler.Item)))

	return CORSMiddleware(mux)
}
