package server

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"stickpad/internal/board"
	"stickpad/pkg/logger"
)

var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrNoteNotFound  = errors.New("note not found")
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(id, username, passwordHash string) error {
	_, err := r.DB.Exec(`INSERT INTO users (id, username, password_hash, created_at) VALUES ($1, $2, $3, NOW())`,
		id, username, passwordHash)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrUsernameTaken
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to create user %s: %v", username, err)
	}
	return err
}

func (r *UserRepository) GetByUsername(username string) (User, error) {
	var u User
	err := r.DB.QueryRow(`SELECT id, username, password_hash, created_at FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil && err != sql.ErrNoRows {
		logger.Sugar.Errorf("Failed to get user %s: %v", username, err)
	}
	return u, err
}

func (r *UserRepository) GetByID(id string) (User, error) {
	var u User
	err := r.DB.QueryRow(`SELECT id, username, password_hash, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil && err != sql.ErrNoRows {
		logger.Sugar.Errorf("Failed to get user by id %s: %v", id, err)
	}
	return u, err
}

type NoteRepository struct {
	DB *sql.DB
}

func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{DB: db}
}

const noteColumns = `id, title, content, position_x, position_y, width, height, color, z_index, created_at, updated_at`

func scanNote(row interface{ Scan(...any) error }) (board.Note, error) {
	var n board.Note
	var color string
	err := row.Scan(&n.ID, &n.Title, &n.Content,
		&n.Position.X, &n.Position.Y, &n.Size.Width, &n.Size.Height,
		&color, &n.ZIndex, &n.CreatedAt, &n.UpdatedAt)
	n.Color = board.Color(color)
	return n, err
}

func (r *NoteRepository) ListByOwner(ownerID string) ([]board.Note, error) {
	rows, err := r.DB.Query(`SELECT `+noteColumns+` FROM notes WHERE owner_id = $1 ORDER BY z_index ASC, created_at ASC`, ownerID)
	if err != nil {
		logger.Sugar.Errorf("Failed to list notes for user %s: %v", ownerID, err)
		return nil, err
	}
	defer rows.Close()

	notes := []board.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			logger.Sugar.Errorf("Failed to scan note row: %v", err)
			continue
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *NoteRepository) Create(ownerID string, n board.Note) error {
	_, err := r.DB.Exec(`INSERT INTO notes (id, owner_id, title, content, position_x, position_y, width, height, color, z_index, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		n.ID, ownerID, n.Title, n.Content,
		n.Position.X, n.Position.Y, n.Size.Width, n.Size.Height,
		string(n.Color), n.ZIndex, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		logger.Sugar.Errorf("Failed to create note %s: %v", n.ID, err)
	}
	return err
}

// Get returns a note and its owner. ErrNoteNotFound when the id is unknown.
func (r *NoteRepository) Get(noteID string) (board.Note, string, error) {
	var ownerID string
	row := r.DB.QueryRow(`SELECT owner_id, `+noteColumns+` FROM notes WHERE id = $1`, noteID)
	var n board.Note
	var color string
	err := row.Scan(&ownerID, &n.ID, &n.Title, &n.Content,
		&n.Position.X, &n.Position.Y, &n.Size.Width, &n.Size.Height,
		&color, &n.ZIndex, &n.CreatedAt, &n.UpdatedAt)
	if err == sql.ErrNoRows {
		return board.Note{}, "", ErrNoteNotFound
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to get note %s: %v", noteID, err)
		return board.Note{}, "", err
	}
	n.Color = board.Color(color)
	return n, ownerID, nil
}

func (r *NoteRepository) Update(n board.Note) error {
	_, err := r.DB.Exec(`UPDATE notes SET title = $1, content = $2, position_x = $3, position_y = $4,
		width = $5, height = $6, color = $7, z_index = $8, updated_at = $9 WHERE id = $10`,
		n.Title, n.Content, n.Position.X, n.Position.Y,
		n.Size.Width, n.Size.Height, string(n.Color), n.ZIndex, n.UpdatedAt, n.ID)
	if err != nil {
		logger.Sugar.Errorf("Failed to update note %s: %v", n.ID, err)
	}
	return err
}

func (r *NoteRepository) Delete(noteID string) error {
	_, err := r.DB.Exec(`DELETE FROM notes WHERE id = $1`, noteID)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete note %s: %v", noteID, err)
	}
	return err
}
