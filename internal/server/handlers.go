package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mgpai22/capline/internal/caption"
	"github.com/mgpai22/capline/internal/session"
	"github.com/mgpai22/capline/internal/source"
	"github.com/mgpai22/capline/internal/timecode"
)

type handler struct {
	srv          *Server
	probeTimeout time.Duration
}

type stateResponse struct {
	VideoURL string        `json:"video_url"`
	Source   source.Source `json:"source"`
	EmbedURL string        `json:"embed_url,omitempty"`
	Caption  string        `json:"caption"`
	Error    string        `json:"error"`
	Position float64       `json:"position"`
	Time     string        `json:"time"`
	Playing  bool          `json:"playing"`
	Mounted  bool          `json:"mounted"`
	Captions int           `json:"captions"`
}

type captionResponse struct {
	Index     int     `json:"index"`
	Text      string  `json:"text"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Start     string  `json:"start"`
	End       string  `json:"end"`
	Line      string  `json:"line"`
}

func toCaptionResponse(e caption.Entry) captionResponse {
	return captionResponse{
		Index:     e.Index,
		Text:      e.Text,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		Start:     timecode.Format(e.StartTime),
		End:       timecode.Format(e.EndTime),
		Line:      e.String(),
	}
}

func errorJSON(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"error": err.Error()})
}

// caller holds srv.mu
func (h *handler) snapshot() stateResponse {
	st := h.srv.ctrl.State()
	resp := stateResponse{
		VideoURL: st.VideoURL,
		Source:   st.Source,
		EmbedURL: st.Source.EmbedURL(),
		Caption:  st.Caption,
		Error:    st.Error,
		Position: st.Position,
		Time:     timecode.Format(st.Position),
		Captions: st.Captions.Len(),
	}
	if media := h.srv.ctrl.Media(); media != nil {
		resp.Mounted = true
		resp.Playing = media.Playing()
	}
	return resp
}

// State returns the whole session
func (h *handler) State(c echo.Context) error {
	h.srv.mu.Lock()
	defer h.srv.mu.Unlock()
	return c.JSON(http.StatusOK, h.snapshot())
}

// Classify runs the URL classifier without touching the session
func (h *handler) Classify(c echo.Context) error {
	url := c.QueryParam("url")
	if url == "" {
		return errorJSON(c, http.StatusBadRequest, errors.New("url query parameter is required"))
	}

	src, err := source.Resolve(url)
	resp := map[string]any{"source": src, "resolved": err == nil}
	if err != nil {
		resp["error"] = err.Error()
	}
	return c.JSON(http.StatusOK, resp)
}

type loadVideoRequest struct {
	URL string `json:"url"`
}

// LoadVideo switches the session to a new video URL
func (h *handler) LoadVideo(c echo.Context) error {
	var req loadVideoRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}

	h.srv.mu.Lock()
	err := h.srv.ctrl.LoadVideo(req.URL)
	var unresolved *source.UnresolvedVideoIDError
	if errors.As(err, &unresolved) {
		resp := h.snapshot()
		h.srv.mu.Unlock()
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{
			"error": err.Error(),
			"state": resp,
		})
	}
	if err != nil {
		h.srv.mu.Unlock()
		return errorJSON(c, http.StatusInternalServerError, err)
	}
	media := h.srv.ctrl.Media()
	src := h.srv.ctrl.State().Source
	h.srv.mu.Unlock()

	// the session stays available while probing; ApplyProbe drops the
	// result if another load replaced media in the meantime
	if media != nil && h.srv.prober != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.probeTimeout)
		info, perr := h.srv.prober.Probe(ctx, src)
		cancel()

		h.srv.mu.Lock()
		h.srv.ctrl.ApplyProbe(media, info, perr)
		h.srv.mu.Unlock()
	}

	h.srv.mu.Lock()
	defer h.srv.mu.Unlock()
	return c.JSON(http.StatusOK, h.snapshot())
}

// ListCaptions returns the track in insertion order
func (h *handler) ListCaptions(c echo.Context) error {
	h.srv.mu.Lock()
	track := h.srv.ctrl.State().Captions.Snapshot()
	h.srv.mu.Unlock()

	entries := track.Entries()
	out := make([]captionResponse, len(entries))
	for i, e := range entries {
		out[i] = toCaptionResponse(e)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"captions": out,
		"lines":    track.Lines(),
	})
}

type addCaptionRequest struct {
	Text  string `json:"text"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// AddCaption validates and inserts one caption
func (h *handler) AddCaption(c echo.Context) error {
	var req addCaptionRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}

	h.srv.mu.Lock()
	entry, err := h.srv.ctrl.OnAddCaptionRequested(req.Text, req.Start, req.End)
	h.srv.mu.Unlock()

	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, toCaptionResponse(entry))
	case errors.Is(err, session.ErrEmptyField),
		errors.Is(err, timecode.ErrMalformedTime),
		errors.Is(err, caption.ErrInvalidRange),
		errors.Is(err, caption.ErrEmptyText):
		return errorJSON(c, http.StatusBadRequest, err)
	default:
		return errorJSON(c, http.StatusInternalServerError, err)
	}
}

type tickRequest struct {
	Position *float64 `json:"position"`
}

// Tick reports a playback position from an external player. When media is
// mounted the position goes through the element so the clock handles it;
// otherwise the controller is ticked directly.
func (h *handler) Tick(c echo.Context) error {
	var req tickRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}
	if req.Position == nil || *req.Position < 0 {
		return errorJSON(c, http.StatusBadRequest, errors.New("position must be a non-negative number of seconds"))
	}

	h.srv.mu.Lock()
	defer h.srv.mu.Unlock()

	if media := h.srv.ctrl.Media(); media != nil {
		media.Seek(*req.Position)
	} else {
		h.srv.ctrl.OnTick(*req.Position)
	}

	st := h.srv.ctrl.State()
	return c.JSON(http.StatusOK, map[string]any{
		"caption":  st.Caption,
		"position": st.Position,
		"time":     timecode.Format(st.Position),
	})
}

type failRequest struct {
	Message string `json:"message"`
}

// Fail reports that the external player could not play the media
func (h *handler) Fail(c echo.Context) error {
	var req failRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err)
	}
	if req.Message == "" {
		req.Message = "media error"
	}

	h.srv.mu.Lock()
	defer h.srv.mu.Unlock()

	media := h.srv.ctrl.Media()
	if media == nil {
		return errorJSON(c, http.StatusConflict, errors.New("no video is loaded"))
	}
	media.Fail(errors.New(req.Message))
	return c.JSON(http.StatusOK, h.snapshot())
}
