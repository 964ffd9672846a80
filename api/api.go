// Package api exposes the HTTP surface of the poster service: photo
// upload, live preview, export, and the thin proxies for the mailing
// list, geocoding and quote providers.
package api

import (
	"embed"
	"encoding/json"
	"image"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"CineCanvas/config"
	"CineCanvas/geocode"
	"CineCanvas/mailchimp"
	"CineCanvas/poster"
	"CineCanvas/quote"
	"CineCanvas/store"
)

// ServerInfo describes the running service.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ApiResult is the standard JSON response envelope.
type ApiResult struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Ok creates a successful API result.
func Ok(data interface{}) ApiResult {
	return ApiResult{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

// Error creates an error API result.
func Error(code int, message string) ApiResult {
	return ApiResult{
		Code:    code,
		Message: message,
		Data:    nil,
	}
}

// WriteOk marshals data into a successful JSON response.
func WriteOk(writer http.ResponseWriter, data interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	result, err := json.Marshal(Ok(data))
	if err != nil {
		errorJson, _ := json.Marshal(Error(http.StatusInternalServerError, "Internal server error during response marshalling"))
		writer.WriteHeader(http.StatusInternalServerError)
		_, _ = writer.Write(errorJson)
		return
	}
	_, _ = writer.Write(result)
}

// WriteError marshals an error into a JSON response with the given
// HTTP status code.
func WriteError(writer http.ResponseWriter, code int, message string) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(code)
	result, err := json.Marshal(Error(code, message))
	if err != nil {
		fallbackErrorJson, _ := json.Marshal(Error(http.StatusInternalServerError, "Internal server error"))
		_, _ = writer.Write(fallbackErrorJson)
		return
	}
	_, _ = writer.Write(result)
}

// WriteImage writes PNG bytes with the correct headers.
func WriteImage(writer http.ResponseWriter, data []byte) {
	writer.Header().Set("Content-Type", "image/png")
	writer.Header().Set("Content-Length", strconv.Itoa(len(data)))
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write(data)
}

// WriteHtml writes HTML content.
func WriteHtml(writer http.ResponseWriter, content []byte) {
	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.Header().Set("Content-Length", strconv.Itoa(len(content)))
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write(content)
}

// ApiContext holds the dependencies of the API handlers, plus the
// studio state: the uploaded photograph's decoded pixels, the palette
// extracted from it, and the inputs of the last preview request. The
// image and palette are read-only to renders once set.
type ApiContext struct {
	Cfg       config.Config
	Log       zerolog.Logger
	Info      ServerInfo
	Renderer  *poster.Renderer
	Previewer *poster.Previewer
	Mailchimp *mailchimp.Client
	Geocode   *geocode.Client
	Quote     *quote.Client
	Store     *store.Store
	Static    embed.FS

	mu         sync.Mutex
	srcImage   image.Image
	pal        poster.Palette
	lastInputs poster.Inputs
}

// NewApiContext creates the handler context. Provider clients may be
// nil when their credentials are not configured; the matching
// endpoints then answer with a structured error.
func NewApiContext(cfg config.Config, log zerolog.Logger, info ServerInfo, renderer *poster.Renderer, previewer *poster.Previewer, staticFs embed.FS) *ApiContext {
	return &ApiContext{
		Cfg:       cfg,
		Log:       log,
		Info:      info,
		Renderer:  renderer,
		Previewer: previewer,
		Static:    staticFs,
	}
}

// RegisterRoutes registers all API routes on the given mux router.
func (ac *ApiContext) RegisterRoutes(r *mux.Router) {
	r.Use(requestLogger(ac.Log))

	r.HandleFunc("/api/v1/server", ac.serverInfoHandler).Methods("GET")
	r.HandleFunc("/api/v1/image", ac.uploadImageHandler).Methods("POST")
	r.HandleFunc("/api/v1/poster/preview", ac.previewRenderHandler).Methods("POST")
	r.HandleFunc("/api/v1/poster/preview.png", ac.previewImageHandler).Methods("GET")
	r.HandleFunc("/api/v1/poster/export", ac.exportHandler).Methods("POST")
	r.HandleFunc("/api/v1/subscribe", ac.subscribeHandler).Methods("POST")
	r.HandleFunc("/api/v1/geocode", ac.geocodeHandler).Methods("GET")
	r.HandleFunc("/api/v1/quote", ac.quoteHandler).Methods("GET")

	r.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		indexFile, _ := url.JoinPath("static", "index.html")
		content, err := ac.Static.ReadFile(indexFile)
		if err != nil {
			WriteHtml(w, []byte("404 Not Found"))
			return
		}
		WriteHtml(w, content)
	})
}

// requestLogger logs method, path, status and latency for every request.
func requestLogger(l zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)
			l.Info().Msgf("%s %s %d %s", r.Method, r.URL.Path, rw.status, time.Since(start))
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (ac *ApiContext) serverInfoHandler(writer http.ResponseWriter, request *http.Request) {
	WriteOk(writer, ac.Info)
}
