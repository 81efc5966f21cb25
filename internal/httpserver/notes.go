package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/neuronotes/internal/logging"
	"github.com/Skotchmaster/neuronotes/internal/service"
)

type NotesHTTP struct {
	Svc *service.NoteService
}

func noteID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid note id")
	}
	return uint(id), nil
}

func (h *NotesHTTP) bindNote(c echo.Context, handler string) (service.NoteInput, error) {
	l := logging.FromContext(c.Request().Context()).With("handler", handler)

	var req noteRequest
	if err := c.Bind(&req); err != nil {
		l.Warn(handler+"_error", "status", 400, "error", err)
		return service.NoteInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn(handler+"_error", "status", 400, "error", err)
		return service.NoteInput{}, echo.NewHTTPError(http.StatusBadRequest, "title (max 100 characters) and content are required")
	}
	return service.NoteInput{Title: req.Title, Content: req.Content, Tags: req.Tags}, nil
}

func (h *NotesHTTP) Create(c echo.Context) error {
	in, err := h.bindNote(c, "create_note")
	if err != nil {
		return err
	}
	note, err := h.Svc.Create(c.Request().Context(), in)
	if err != nil {
		return mapError(err, "")
	}
	return c.JSON(http.StatusOK, toNoteView(note))
}

func (h *NotesHTTP) List(c echo.Context) error {
	notes, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return mapError(err, "")
	}
	return c.JSON(http.StatusOK, toNoteViews(notes))
}

func (h *NotesHTTP) Get(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}
	note, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err, "")
	}
	return c.JSON(http.StatusOK, toNoteView(note))
}

func (h *NotesHTTP) Update(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}
	in, err := h.bindNote(c, "update_note")
	if err != nil {
		return err
	}
	note, err := h.Svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return mapError(err, "")
	}
	return c.JSON(http.StatusOK, toNoteView(note))
}

func (h *NotesHTTP) Delete(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return mapError(err, "")
	}
	return c.JSON(http.StatusOK, messageView{Message: "Note deleted"})
}

func (h *NotesHTTP) Summarize(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}
	summary, err := h.Svc.Summarize(c.Request().Context(), id)
	if err != nil {
		return mapError(err, "")
	}
	return c.JSON(http.StatusOK, summaryView{Summary: summary})
}

func (h *NotesHTTP) AutoTag(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}
	tags, err := h.Svc.AutoTag(c.Request().Context(), id)
	if err != nil {
		return mapError(err, "")
	}
	return c.JSON(http.StatusOK, tagsView{Tags: tags.Clone()})
}

func (h *NotesHTTP) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}
	notes, err := h.Svc.Search(c.Request().Context(), q)
	if err != nil {
		return mapError(err, "")
	}
	return c.JSON(http.StatusOK, toNoteViews(notes))
}
