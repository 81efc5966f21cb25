package httpserver

import (
	"time"

	"github.com/Skotchmaster/neuronotes/internal/domain"
)

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type noteRequest struct {
	Title   string   `json:"title" validate:"required,max=100"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags"`
}

type userView struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type tokenView struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type noteView struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

type summaryView struct {
	Summary string `json:"summary"`
}

type tagsView struct {
	Tags []string `json:"tags"`
}

type messageView struct {
	Message string `json:"message"`
}

func toUserView(u *domain.User) userView {
	return userView{ID: u.ID, Username: u.Username}
}

func toNoteView(n domain.Note) noteView {
	return noteView{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Tags:      n.Tags.Clone(),
		CreatedAt: n.CreatedAt.UTC(),
	}
}

func toNoteViews(notes []domain.Note) []noteView {
	out := make([]noteView, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteView(n))
	}
	return out
}
