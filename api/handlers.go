package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/disintegration/imaging"

	"CineCanvas/geocode"
	"CineCanvas/mailchimp"
	"CineCanvas/palette"
	"CineCanvas/poster"
)

const (
	maxUploadBytes = 32 << 20
	maxTitleLen    = 16
	maxQuoteLen    = 385
)

// uploadImageHandler decodes an uploaded photograph, extracts its
// palette and kicks off a fresh preview render. A decode failure
// leaves the prior image and palette untouched.
func (ac *ApiContext) uploadImageHandler(writer http.ResponseWriter, request *http.Request) {
	if err := request.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(writer, http.StatusBadRequest, "Invalid upload")
		return
	}
	file, _, err := request.FormFile("image")
	if err != nil {
		WriteError(writer, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		WriteError(writer, http.StatusBadRequest, "Could not decode image; please upload a valid image file")
		return
	}

	pal, err := palette.Extract(img)
	if err != nil {
		ac.Log.Error().Err(err).Msg("palette extraction failed")
		WriteError(writer, http.StatusInternalServerError, "Failed to extract color palette")
		return
	}

	ac.mu.Lock()
	ac.srcImage = img
	ac.pal = pal
	in := ac.lastInputs
	ac.mu.Unlock()

	ac.Previewer.Update(in, pal, img)
	WriteOk(writer, pal)
}

// previewRenderHandler schedules a preview render for new inputs.
// Validation failures refuse the render with no partial side effects.
func (ac *ApiContext) previewRenderHandler(writer http.ResponseWriter, request *http.Request) {
	in, ok := ac.decodeInputs(writer, request)
	if !ok {
		return
	}

	ac.mu.Lock()
	ac.lastInputs = in
	img, pal := ac.srcImage, ac.pal
	ac.mu.Unlock()

	ac.Previewer.Update(in, pal, img)
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusAccepted)
	WriteOk(writer, map[string]string{"status": "rendering"})
}

// previewImageHandler serves the latest published preview.
func (ac *ApiContext) previewImageHandler(writer http.ResponseWriter, request *http.Request) {
	data, ready := ac.Previewer.Current()
	if len(data) == 0 {
		WriteError(writer, http.StatusNotFound, "No preview rendered yet")
		return
	}
	writer.Header().Set("X-Download-Ready", fmt.Sprintf("%t", ready))
	WriteImage(writer, data)
}

// exportHandler renders the poster synchronously at the requested
// quality tier and returns it as a downloadable file.
func (ac *ApiContext) exportHandler(writer http.ResponseWriter, request *http.Request) {
	quality := poster.Quality(request.URL.Query().Get("quality"))
	switch quality {
	case "":
		quality = poster.QualityHigh
	case poster.QualityLow, poster.QualityHigh:
	default:
		WriteError(writer, http.StatusBadRequest, "Quality must be low or high")
		return
	}

	in, ok := ac.decodeInputs(writer, request)
	if !ok {
		return
	}

	ac.mu.Lock()
	img, pal := ac.srcImage, ac.pal
	ac.mu.Unlock()

	rendered, err := ac.Renderer.Render(request.Context(), in, pal, quality, img)
	if err != nil {
		ac.Log.Error().Err(err).Msg("export render failed")
		WriteError(writer, http.StatusInternalServerError, "Export failed")
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, rendered); err != nil {
		WriteError(writer, http.StatusInternalServerError, "Export encoding failed")
		return
	}
	writer.Header().Set("Content-Disposition", `attachment; filename="poster.png"`)
	WriteImage(writer, buf.Bytes())
}

// subscribeHandler forwards an email capture to the mailing-list
// service. "Member Exists" is a soft rejection surfaced verbatim.
func (ac *ApiContext) subscribeHandler(writer http.ResponseWriter, request *http.Request) {
	var body struct {
		EmailAddress string `json:"email_address"`
	}
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		WriteError(writer, http.StatusBadRequest, "Invalid request body")
		return
	}
	email := strings.TrimSpace(body.EmailAddress)
	if email == "" {
		WriteError(writer, http.StatusBadRequest, "Email is required")
		return
	}
	if ac.Mailchimp == nil {
		WriteError(writer, http.StatusInternalServerError, "Mailing list API key is not set")
		return
	}

	if ac.Store != nil {
		if exists, err := ac.Store.Exists(email); err == nil && exists {
			WriteError(writer, http.StatusBadRequest, "Email is already subscribed")
			return
		}
	}

	member, err := ac.Mailchimp.Subscribe(request.Context(), email)
	if err != nil {
		if errors.Is(err, mailchimp.ErrMemberExists) {
			WriteError(writer, http.StatusBadRequest, "Email is already subscribed")
			return
		}
		ac.Log.Error().Err(err).Msg("subscribe failed")
		WriteError(writer, http.StatusInternalServerError, fmt.Sprintf("An error occurred: %v", err))
		return
	}

	if ac.Store != nil {
		if err := ac.Store.Record(email); err != nil {
			ac.Log.Error().Err(err).Msg("failed to record subscriber")
		}
	}
	WriteOk(writer, member)
}

// geocodeHandler proxies autocomplete and place resolution.
func (ac *ApiContext) geocodeHandler(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query().Get("query")
	if query == "" {
		WriteError(writer, http.StatusBadRequest, "Query parameter is required")
		return
	}
	if ac.Geocode == nil {
		WriteError(writer, http.StatusInternalServerError, "Maps API key is not set")
		return
	}

	if request.URL.Query().Get("autocomplete") != "" {
		suggestions, err := ac.Geocode.Autocomplete(request.Context(), query)
		if err != nil {
			ac.Log.Error().Err(err).Msg("autocomplete failed")
			WriteError(writer, http.StatusInternalServerError, "Failed to process location request")
			return
		}
		WriteOk(writer, suggestions)
		return
	}

	location, err := ac.Geocode.Resolve(request.Context(), query)
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			WriteError(writer, http.StatusNotFound, "Location not found")
			return
		}
		ac.Log.Error().Err(err).Msg("geocode failed")
		WriteError(writer, http.StatusInternalServerError, "Failed to process location request")
		return
	}
	WriteOk(writer, location)
}

// quoteHandler proxies the inspirational quote provider.
func (ac *ApiContext) quoteHandler(writer http.ResponseWriter, request *http.Request) {
	if ac.Quote == nil {
		WriteError(writer, http.StatusInternalServerError, "Quote API key is not set")
		return
	}
	q, err := ac.Quote.Inspirational(request.Context())
	if err != nil {
		ac.Log.Error().Err(err).Msg("quote fetch failed")
		WriteError(writer, http.StatusInternalServerError, "Failed to fetch quote")
		return
	}
	WriteOk(writer, q)
}

// decodeInputs parses and validates a poster inputs body. On failure it
// writes the error response and reports false.
func (ac *ApiContext) decodeInputs(writer http.ResponseWriter, request *http.Request) (poster.Inputs, bool) {
	var in poster.Inputs
	if err := json.NewDecoder(request.Body).Decode(&in); err != nil {
		WriteError(writer, http.StatusBadRequest, "Invalid request body")
		return in, false
	}
	if in.Title == "" {
		WriteError(writer, http.StatusBadRequest, "Title is required")
		return in, false
	}
	if utf8.RuneCountInString(in.Title) > maxTitleLen {
		WriteError(writer, http.StatusBadRequest, fmt.Sprintf("Title must be at most %d characters", maxTitleLen))
		return in, false
	}
	if utf8.RuneCountInString(in.Quote) > maxQuoteLen {
		WriteError(writer, http.StatusBadRequest, fmt.Sprintf("Quote must be at most %d characters", maxQuoteLen))
		return in, false
	}
	if len(in.LogoRefs) == 0 {
		in.LogoRefs = ac.Cfg.LogoRefs
	}
	return in, true
}
