// Package gingenparse exposes the genparse engine over HTTP for services
// that proxy model output, using Gin handlers.
package gingenparse

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/appcanvas/genparse/pkg/genparse"
	"github.com/appcanvas/genparse/pkg/genparse/schema"
)

// ParseRequest is the JSON body accepted by the parse and status endpoints.
type ParseRequest struct {
	// Text is the raw model output. Preferred over a raw text/plain body.
	Text string `json:"text" binding:"required"`
}

// ErrorResponse is the JSON error body for rejected requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FormatResponse is the body returned by the format endpoint.
type FormatResponse struct {
	Format genparse.Format `json:"format"`
}

// StatusResponse pairs per-file progress with the continuation prompt a
// caller would send to resume an interrupted generation.
type StatusResponse struct {
	Files        []genparse.FileStatus `json:"files"`
	Truncated    bool                  `json:"truncated"`
	Continuation string                `json:"continuation,omitempty"`
}

// API holds parse options shared by every handler it creates.
type API struct {
	opts []genparse.Option
}

// New creates an API. Options apply to every request handled.
func New(opts ...genparse.Option) *API {
	return &API{opts: opts}
}

// Register mounts the endpoints on a router group:
//
//	POST /parse   - full parse result for a response text
//	GET  /format  - format detection only
//	POST /status  - per-file progress plus a continuation prompt
//	GET  /schema  - JSON schema of the structured response envelope
func (a *API) Register(r gin.IRoutes) {
	r.POST("/parse", a.ParseHandler())
	r.GET("/format", a.FormatHandler())
	r.POST("/status", a.StatusHandler())
	r.GET("/schema", a.SchemaHandler())
}

// ParseHandler returns a handler that parses the submitted text and renders
// the full result.
func (a *API) ParseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		text, ok := a.readText(c)
		if !ok {
			return
		}
		res, err := genparse.Parse(text, a.opts...)
		if err != nil {
			a.renderParseError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// FormatHandler returns a handler that runs only format detection. The text
// comes from the "text" query parameter or, when absent, the request body.
func (a *API) FormatHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		text := c.Query("text")
		if text == "" {
			body, err := io.ReadAll(c.Request.Body)
			if err == nil {
				text = string(body)
			}
		}
		c.JSON(http.StatusOK, FormatResponse{Format: genparse.DetectFormat(text)})
	}
}

// StatusHandler returns a handler that reports per-file streaming progress
// for the submitted text.
func (a *API) StatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		text, ok := a.readText(c)
		if !ok {
			return
		}
		res, err := genparse.Parse(text, a.opts...)
		if err != nil {
			a.renderParseError(c, err)
			return
		}
		statuses := genparse.FileStatuses(res)
		if statuses == nil {
			statuses = []genparse.FileStatus{}
		}
		c.JSON(http.StatusOK, StatusResponse{
			Files:        statuses,
			Truncated:    res.Truncated,
			Continuation: genparse.ContinuationPrompt(res),
		})
	}
}

// SchemaHandler returns a handler serving the response envelope schema.
func (a *API) SchemaHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := schema.EnvelopeSchema()
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

func (a *API) readText(c *gin.Context) (string, bool) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "body must be JSON with a non-empty \"text\" field"})
		return "", false
	}
	return req.Text, true
}

func (a *API) renderParseError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, genparse.ErrInputTooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
