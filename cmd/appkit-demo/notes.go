package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kbukum/appkit/database"
	"github.com/kbukum/appkit/errors"
	"github.com/kbukum/appkit/kafka"
	"github.com/kbukum/appkit/logger"
	"github.com/kbukum/appkit/observability"
	"github.com/kbukum/appkit/redis"
	"github.com/kbukum/appkit/server"
)

const (
	noteCreatedTopic = "notes.created"
	noteCacheTTL     = 5 * time.Minute
)

// Note is the row stored in the notes table.
type Note struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type createNoteRequest struct {
	Title string `json:"title" binding:"required,max=200"`
	Body  string `json:"body"`
}

// notesAPI serves the notes routes. cache, events and metrics are nil when
// the matching component is not running.
type notesAPI struct {
	db      *database.DB
	cache   *redis.TypedStore[Note]
	events  *kafka.Producer
	metrics *observability.Metrics
	log     *logger.Logger
}

func (a *notesAPI) routes(g *gin.RouterGroup) {
	g.GET("", a.list)
	g.POST("", a.create)
	g.GET("/:id", a.get)
}

func errNoteNotFound(id string) *errors.AppError {
	return &errors.AppError{
		Code:       "NOTE_NOT_FOUND",
		Message:    "note " + id + " does not exist",
		HTTPStatus: http.StatusNotFound,
	}
}

func errInvalidNote(err error) *errors.AppError {
	return &errors.AppError{
		Code:       "INVALID_NOTE",
		Message:    err.Error(),
		HTTPStatus: http.StatusBadRequest,
		Cause:      err,
	}
}

func (a *notesAPI) create(c *gin.Context) {
	ctx, span := observability.StartSpan(c.Request.Context(), "notes.create")
	defer span.End()
	start := time.Now()

	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.metrics.RecordError(ctx, "validation", "notes")
		server.RespondWithError(c, errInvalidNote(err))
		return
	}

	note := Note{ID: uuid.NewString(), Title: req.Title, Body: req.Body, CreatedAt: time.Now().UTC()}
	if err := a.db.WithContext(ctx).Create(&note).Error; err != nil {
		observability.SetSpanError(ctx, err)
		a.metrics.RecordOperation(ctx, "notes.create", "error", time.Since(start))
		server.RespondWithError(c, err)
		return
	}
	observability.SetSpanAttribute(ctx, "note.id", note.ID)

	a.cacheNote(ctx, &note)
	a.publish(ctx, &note)
	a.metrics.RecordOperation(ctx, "notes.create", "ok", time.Since(start))
	server.RespondCreated(c, note)
}

func (a *notesAPI) get(c *gin.Context) {
	ctx, span := observability.StartSpan(c.Request.Context(), "notes.get")
	defer span.End()
	id := c.Param("id")

	if a.cache != nil {
		if cached, err := a.cache.Load(ctx, id); err == nil && cached != nil {
			observability.SetSpanAttribute(ctx, "cache.hit", true)
			server.RespondOK(c, cached)
			return
		}
	}

	var note Note
	err := a.db.WithContext(ctx).First(&note, "id = ?", id).Error
	switch {
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		server.RespondWithError(c, errNoteNotFound(id))
	case err != nil:
		server.RespondWithError(c, err)
	default:
		a.cacheNote(ctx, &note)
		server.RespondOK(c, note)
	}
}

func (a *notesAPI) list(c *gin.Context) {
	var notes []Note
	if err := a.db.WithContext(c.Request.Context()).Order("created_at").Find(&notes).Error; err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, notes)
}

func (a *notesAPI) cacheNote(ctx context.Context, note *Note) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Save(ctx, note.ID, note, noteCacheTTL); err != nil {
		a.log.Warn("Failed to cache note", logger.ErrorFields("cache", err))
	}
}

// publish is best effort: a failed event does not fail the request.
func (a *notesAPI) publish(ctx context.Context, note *Note) {
	if a.events == nil {
		return
	}
	payload, err := json.Marshal(note)
	if err == nil {
		err = a.events.SendWithKey(ctx, noteCreatedTopic, note.ID, payload)
	}
	if err != nil {
		a.metrics.RecordError(ctx, "publish", "notes")
		a.log.Warn("Failed to publish note event", logger.ErrorFields("publish", err))
	}
}
