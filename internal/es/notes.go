package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/Skotchmaster/neuronotes/internal/domain"
)

// NoteIndex keeps a copy of every note in an Elasticsearch index and scores
// notes with full text queries against that copy.
type NoteIndex struct {
	Client *elasticsearch.Client
	Index  string
}

func NewNoteIndex(client *elasticsearch.Client, index string) *NoteIndex {
	return &NoteIndex{Client: client, Index: index}
}

type noteDoc struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

var indexMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"id":         map[string]any{"type": "long"},
			"title":      map[string]any{"type": "text"},
			"content":    map[string]any{"type": "text"},
			"tags":       map[string]any{"type": "keyword"},
			"created_at": map[string]any{"type": "date"},
		},
	},
}

// EnsureIndex creates the index when it does not exist yet.
func (x *NoteIndex) EnsureIndex(ctx context.Context) error {
	res, err := x.Client.Indices.Exists([]string{x.Index}, x.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es: index exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, err := encode(indexMapping)
	if err != nil {
		return err
	}
	res, err = x.Client.Indices.Create(x.Index,
		x.Client.Indices.Create.WithContext(ctx),
		x.Client.Indices.Create.WithBody(body),
	)
	if err != nil {
		return fmt.Errorf("es: create index: %w", err)
	}
	return checkResponse(res, "create index")
}

func (x *NoteIndex) IndexNote(ctx context.Context, note domain.Note) error {
	tags := note.Tags.Clone()
	body, err := encode(noteDoc{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		Tags:      tags,
		CreatedAt: note.CreatedAt,
	})
	if err != nil {
		return err
	}
	res, err := x.Client.Index(x.Index, body,
		x.Client.Index.WithContext(ctx),
		x.Client.Index.WithDocumentID(docID(note.ID)),
		x.Client.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("es: index note %d: %w", note.ID, err)
	}
	return checkResponse(res, "index note")
}

// DeleteNote removes the document. A missing document is not an error.
func (x *NoteIndex) DeleteNote(ctx context.Context, id uint) error {
	res, err := x.Client.Delete(x.Index, docID(id),
		x.Client.Delete.WithContext(ctx),
		x.Client.Delete.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("es: delete note %d: %w", id, err)
	}
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil
	}
	return checkResponse(res, "delete note")
}

// ScoreNotes runs query as a multi_match over title and content, restricted
// to the given notes. Notes without a hit score 0.
func (x *NoteIndex) ScoreNotes(ctx context.Context, query string, notes []domain.Note) ([]float64, error) {
	scores := make([]float64, len(notes))
	if len(notes) == 0 {
		return scores, nil
	}

	ids := make([]string, len(notes))
	for i, n := range notes {
		ids[i] = docID(n.ID)
	}
	body, err := encode(map[string]any{
		"size":    len(notes),
		"_source": false,
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  query,
						"fields": []string{"title", "content"},
					},
				},
				"filter": map[string]any{
					"ids": map[string]any{"values": ids},
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	res, err := x.Client.Search(
		x.Client.Search.WithContext(ctx),
		x.Client.Search.WithIndex(x.Index),
		x.Client.Search.WithBody(body),
	)
	if err != nil {
		return nil, fmt.Errorf("es: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("es: search: %s: %s", res.Status(), strings.TrimSpace(string(msg)))
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID    string  `json:"_id"`
				Score float64 `json:"_score"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("es: decode search response: %w", err)
	}

	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	for _, h := range r.Hits.Hits {
		if i, ok := pos[h.ID]; ok && h.Score > 0 {
			scores[i] = h.Score
		}
	}
	return scores, nil
}

func docID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func encode(v any) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("es: encode body: %w", err)
	}
	return &buf, nil
}

func checkResponse(res *esapi.Response, op string) error {
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("es: %s: %s: %s", op, res.Status(), strings.TrimSpace(string(msg)))
	}
	return nil
}
