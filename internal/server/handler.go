package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"stickpad/internal/board"
	"stickpad/pkg/logger"
)

type NoteHandler struct {
	Notes *NoteRepository
	Hub   *Hub
}

func NewNoteHandler(notes *NoteRepository, hub *Hub) *NoteHandler {
	return &NoteHandler{Notes: notes, Hub: hub}
}

// Collection handles /api/notes: list for GET, create for POST.
func (h *NoteHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *NoteHandler) list(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(UserIDKey).(string)

	notes, err := h.Notes.ListByOwner(userID)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notes)
}

func (h *NoteHandler) create(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(UserIDKey).(string)

	var n board.Note
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Identity and timestamps are server-assigned.
	n.ID = uuid.NewString()
	now := time.Now().UTC()
	n.CreatedAt, n.UpdatedAt = now, now
	if !n.Color.Valid() {
		n.Color = board.DefaultColor
	}
	if n.Size.Width <= 0 || n.Size.Height <= 0 {
		n.Size = board.Size{Width: board.DefaultWidth, Height: board.DefaultHeight}
	}
	if err := n.Validate(); err != nil {
		http.Error(w, "Invalid note: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Notes.Create(userID, n); err != nil {
		http.Error(w, "Failed to create note", http.StatusInternalServerError)
		return
	}
	h.Hub.Publish(NoteEvent{Type: NoteCreatedType, OwnerID: userID, Note: &n})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(n)
}

// Item handles /api/notes/{id}: update for PUT, delete for DELETE.
func (h *NoteHandler) Item(w http.ResponseWriter, r *http.Request) {
	noteID := r.URL.Path[len("/api/notes/"):]
	if noteID == "" {
		http.Error(w, "Missing note id", http.StatusBadRequest)
		return
	}

	userID := r.Context().Value(UserIDKey).(string)

	n, ownerID, err := h.Notes.Get(noteID)
	if err == ErrNoteNotFound {
		http.Error(w, "Note not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if ownerID != userID {
		http.Error(w, "Note belongs to another user", http.StatusForbidden)
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.update(w, r, n)
	case http.MethodDelete:
		h.delete(w, userID, noteID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *NoteHandler) update(w http.ResponseWriter, r *http.Request, n board.Note) {
	var p board.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Position != nil {
		n.Position = *p.Position
	}
	if p.Size != nil {
		n.Size = *p.Size
	}
	if p.Color != nil && p.Color.Valid() {
		n.Color = *p.Color
	}
	if p.ZIndex != nil {
		n.ZIndex = *p.ZIndex
	}
	n.UpdatedAt = time.Now().UTC()

	if err := n.Validate(); err != nil {
		http.Error(w, "Invalid note: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Notes.Update(n); err != nil {
		http.Error(w, "Failed to update note", http.StatusInternalServerError)
		return
	}

	userID := r.Context().Value(UserIDKey).(string)
	h.Hub.Publish(NoteEvent{Type: NoteUpdatedType, OwnerID: userID, Note: &n})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(n)
}

func (h *NoteHandler) delete(w http.ResponseWriter, userID, noteID string) {
	if err := h.Notes.Delete(noteID); err != nil {
		http.Error(w, "Failed to delete note", http.StatusInternalServerError)
		return
	}
	logger.Sugar.Infof("Deleted note %s for user %s", noteID, userID)
	h.Hub.Publish(NoteEvent{Type: NoteDeletedType, OwnerID: userID, NoteID: noteID})

	w.WriteHeader(http.StatusNoContent)
}
