package handlers

import (
	_ "embed"
	"errors"
	"io"
	"net/http"

	"vedalipi/middleware"
	"vedalipi/service"
	"vedalipi/session"
	"vedalipi/version"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
)

const ServiceName = "vedalipi"

//go:embed web/index.html
var indexHTML []byte

// Handlers serves the upload page, the processing pipeline and the chat.
type Handlers struct {
	pipeline       *service.Pipeline
	responder      *service.Responder
	store          *session.Store
	maxUploadBytes int64
	info           version.Info
}

// NewHandlers creates the HTTP handlers. info is served by Version.
func NewHandlers(pipeline *service.Pipeline, responder *service.Responder, store *session.Store, maxUploadBytes int64, info version.Info) *Handlers {
	return &Handlers{
		pipeline:       pipeline,
		responder:      responder,
		store:          store,
		maxUploadBytes: maxUploadBytes,
		info:           info,
	}
}

// ProcessResponse is the body of a successful /process call.
type ProcessResponse struct {
	SanskritText       string `json:"sanskrit_text"`
	TransliteratedText string `json:"transliterated_text"`
	EnglishText        string `json:"english_text"`
	Interpretation     string `json:"interpretation"`
}

type chatRequest struct {
	Message *string `json:"message"`
}

// ChatResponse is the body of a /chatbot reply.
type ChatResponse struct {
	Response string `json:"response"`
}

// Index serves the single-page UI.
func (h *Handlers) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// Process runs an uploaded page image through the pipeline and stores the
// result as the session's chat context.
func (h *Handlers) Process(c *gin.Context) {
	if c.Request.ContentLength > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		case c.Request.MultipartForm != nil && len(c.Request.MultipartForm.Value["file"]) > 0:
			// A file input submitted without a selection arrives as a plain value.
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		}
		return
	}
	if header.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}

	f, err := header.Open()
	if err != nil {
		log.WithError(err).Error("Failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer f.Close()

	image, err := io.ReadAll(f)
	if err != nil {
		log.WithError(err).Error("Failed to read uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	sessionID := middleware.SessionID(c)
	logger := log.WithFields(log.Fields{
		"session_id": sessionID,
		"filename":   header.Filename,
		"bytes":      len(image),
	})

	res, err := h.pipeline.Process(c.Request.Context(), image)
	if err != nil {
		logger.WithError(err).Error("process.failed")
		body := gin.H{"error": err.Error()}
		var se *service.StageError
		if errors.As(err, &se) {
			body["stage"] = se.Stage
		}
		c.JSON(http.StatusInternalServerError, body)
		return
	}

	h.store.Set(sessionID, res.SessionContext())
	h.store.Set(session.Latest, res.SessionContext())
	logger.WithField("interpretation_missing", res.InterpretationMissing).Info("process.ok")

	c.JSON(http.StatusOK, ProcessResponse{
		SanskritText:       res.SourceText,
		TransliteratedText: res.RomanizedText,
		EnglishText:        res.TranslatedText,
		Interpretation:     res.Interpretation,
	})
}

// Chatbot answers a question about the document last processed in this
// session. Clients without a session cookie get the most recent document
// processed by anyone. Model failures are reported inside the response text.
func (h *Handlers) Chatbot(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No message provided"})
		return
	}

	sessionID := middleware.SessionID(c)
	if middleware.SessionIssued(c) {
		sessionID = session.Latest
	}
	sc := h.store.Get(sessionID)
	if sc.IsEmpty() {
		log.WithField("session_id", sessionID).Debug("chat.no_context")
	}

	c.JSON(http.StatusOK, ChatResponse{
		Response: h.responder.Reply(c.Request.Context(), sc, *req.Message),
	})
}

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": ServiceName,
	})
}

// Version reports build information.
func (h *Handlers) Version(c *gin.Context) {
	c.JSON(http.StatusOK, h.info)
}
