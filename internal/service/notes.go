package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Skotchmaster/neuronotes/internal/domain"
	"github.com/Skotchmaster/neuronotes/internal/logging"
	"github.com/Skotchmaster/neuronotes/internal/nlp"
	"github.com/Skotchmaster/neuronotes/internal/repo"
)

type NoteRepo interface {
	CreateNote(ctx context.Context, note domain.Note) (domain.Note, error)
	ListNotes(ctx context.Context) ([]domain.Note, error)
	GetNote(ctx context.Context, id uint) (domain.Note, error)
	UpdateNote(ctx context.Context, id uint, title, content string, tags domain.Tags) (domain.Note, error)
	UpdateTags(ctx context.Context, id uint, tags domain.Tags) (domain.Note, error)
	DeleteNote(ctx context.Context, id uint) error
}

// NoteScorer scores notes against a query, one score per note in input
// order. It replaces Ranker when the scoring needs more than the note text.
type NoteScorer interface {
	ScoreNotes(ctx context.Context, query string, notes []domain.Note) ([]float64, error)
}

type NoteService struct {
	Repo       NoteRepo
	Summarizer nlp.Summarizer
	Extractor  nlp.KeywordExtractor
	Ranker     nlp.Ranker
	// Scorer and Index are optional.
	Scorer    NoteScorer
	Index     NoteIndex
	Events    EventPublisher
	NoteTopic string
	Now       func() time.Time
}

type NoteInput struct {
	Title   string
	Content string
	Tags    domain.Tags
}

func (s *NoteService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (in NoteInput) validate() error {
	n := utf8.RuneCountInString(in.Title)
	if strings.TrimSpace(in.Title) == "" || n > domain.MaxTitleLength {
		return ErrValidation
	}
	if strings.TrimSpace(in.Content) == "" {
		return ErrValidation
	}
	for _, tag := range in.Tags {
		if !utf8.ValidString(tag) {
			return ErrValidation
		}
	}
	return nil
}

func (s *NoteService) Create(ctx context.Context, in NoteInput) (domain.Note, error) {
	l := logging.FromContext(ctx).With("svc", "notes.create")

	if err := in.validate(); err != nil {
		return domain.Note{}, err
	}
	note, err := s.Repo.CreateNote(ctx, domain.Note{
		Title:     in.Title,
		Content:   in.Content,
		Tags:      in.Tags.Clone(),
		CreatedAt: s.now(),
	})
	if err != nil {
		l.Error("create_note_error", "status", 500, "error", err)
		return domain.Note{}, err
	}

	s.index(ctx, note)
	s.emit(ctx, "note_created", note.ID, map[string]any{"title": note.Title, "tags": note.Tags})
	return note, nil
}

func (s *NoteService) List(ctx context.Context) ([]domain.Note, error) {
	notes, err := s.Repo.ListNotes(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_notes_error", "svc", "notes.list", "status", 500, "error", err)
		return nil, err
	}
	return notes, nil
}

func (s *NoteService) Get(ctx context.Context, id uint) (domain.Note, error) {
	note, err := s.Repo.GetNote(ctx, id)
	if err != nil {
		return domain.Note{}, s.mapRepoErr(ctx, "get_note_error", id, err)
	}
	return note, nil
}

func (s *NoteService) Update(ctx context.Context, id uint, in NoteInput) (domain.Note, error) {
	if err := in.validate(); err != nil {
		return domain.Note{}, err
	}
	note, err := s.Repo.UpdateNote(ctx, id, in.Title, in.Content, in.Tags.Clone())
	if err != nil {
		return domain.Note{}, s.mapRepoErr(ctx, "update_note_error", id, err)
	}

	s.index(ctx, note)
	s.emit(ctx, "note_updated", note.ID, map[string]any{"title": note.Title, "tags": note.Tags})
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteNote(ctx, id); err != nil {
		return s.mapRepoErr(ctx, "delete_note_error", id, err)
	}

	if s.Index != nil {
		if err := s.Index.DeleteNote(ctx, id); err != nil {
			logging.FromContext(ctx).Error("index_delete_failed", "note_id", id, "error", err)
		}
	}
	s.emit(ctx, "note_deleted", id, nil)
	return nil
}

// Summarize returns a short summary of the note content. The result is not
// stored.
func (s *NoteService) Summarize(ctx context.Context, id uint) (string, error) {
	l := logging.FromContext(ctx).With("svc", "notes.summarize", "note_id", id)

	note, err := s.Repo.GetNote(ctx, id)
	if err != nil {
		return "", s.mapRepoErr(ctx, "summarize_error", id, err)
	}
	summary, err := s.Summarizer.Summarize(ctx, note.Content, nlp.SummaryMinLength, nlp.SummaryMaxLength)
	if err != nil {
		l.Error("summarize_error", "status", 502, "error", err)
		return "", errors.Join(ErrNLP, err)
	}
	return summary, nil
}

// AutoTag replaces the note tags with keywords extracted from its content.
func (s *NoteService) AutoTag(ctx context.Context, id uint) (domain.Tags, error) {
	l := logging.FromContext(ctx).With("svc", "notes.autotag", "note_id", id)

	note, err := s.Repo.GetNote(ctx, id)
	if err != nil {
		return nil, s.mapRepoErr(ctx, "autotag_error", id, err)
	}
	keywords, err := s.Extractor.Extract(ctx, note.Content, nlp.DefaultKeywords)
	if err != nil && !errors.Is(err, nlp.ErrEmptyText) {
		l.Error("autotag_error", "status", 502, "error", err)
		return nil, errors.Join(ErrNLP, err)
	}

	updated, err := s.Repo.UpdateTags(ctx, id, domain.Tags(keywords).Clone())
	if err != nil {
		return nil, s.mapRepoErr(ctx, "autotag_error", id, err)
	}

	s.index(ctx, updated)
	s.emit(ctx, "note_tagged", id, map[string]any{"tags": updated.Tags})
	return updated.Tags, nil
}

// Search ranks every note against query and returns those with a positive
// score, best first. Ties keep the store order.
func (s *NoteService) Search(ctx context.Context, query string) ([]domain.Note, error) {
	l := logging.FromContext(ctx).With("svc", "notes.search")

	if query == "" {
		return nil, ErrValidation
	}
	notes, err := s.Repo.ListNotes(ctx)
	if err != nil {
		l.Error("search_error", "status", 500, "error", err)
		return nil, err
	}
	if len(notes) == 0 {
		return []domain.Note{}, nil
	}

	scores, err := s.score(ctx, query, notes)
	if err != nil {
		l.Error("search_error", "status", 502, "error", err)
		return nil, errors.Join(ErrNLP, err)
	}
	if len(scores) != len(notes) {
		l.Error("search_error", "status", 502, "reason", "ranker returned wrong number of scores")
		return nil, ErrNLP
	}

	type hit struct {
		note  domain.Note
		score float64
	}
	hits := make([]hit, 0, len(notes))
	for i, n := range notes {
		if scores[i] > 0 {
			hits = append(hits, hit{note: n, score: scores[i]})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	out := make([]domain.Note, len(hits))
	for i, h := range hits {
		out[i] = h.note
	}
	return out, nil
}

func (s *NoteService) score(ctx context.Context, query string, notes []domain.Note) ([]float64, error) {
	if s.Scorer != nil {
		return s.Scorer.ScoreNotes(ctx, query, notes)
	}
	docs := make([]string, len(notes))
	for i, n := range notes {
		docs[i] = n.Text()
	}
	return s.Ranker.Rank(ctx, query, docs)
}

func (s *NoteService) mapRepoErr(ctx context.Context, event string, id uint, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		logging.FromContext(ctx).Warn(event, "status", 404, "reason", "note not found", "note_id", id)
		return ErrNotFound
	}
	logging.FromContext(ctx).Error(event, "status", 500, "note_id", id, "error", err)
	return err
}

func (s *NoteService) index(ctx context.Context, note domain.Note) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexNote(ctx, note); err != nil {
		logging.FromContext(ctx).Error("index_note_failed", "note_id", note.ID, "error", err)
	}
}

func (s *NoteService) emit(ctx context.Context, typ string, id uint, fields map[string]any) {
	event := map[string]any{"type": typ, "note_id": id}
	for k, v := range fields {
		event[k] = v
	}
	publish(ctx, s.Events, s.NoteTopic, id, event)
}
