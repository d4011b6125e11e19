package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// speechToText forwards the uploaded recording to the speech service and
// relays its JSON response unchanged.
func (h *Handler) speechToText(c *gin.Context) {
	file, err := c.FormFile("audio")
	if err != nil {
		respondError(c, http.StatusBadRequest, "audio file is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		h.logger.Errorf("open uploaded audio: %v", err)
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	defer src.Close()

	data, err := h.speech.SpeechToText(c.Request.Context(), file.Filename, file.Header.Get("Content-Type"), src)
	if err != nil {
		h.logger.Errorf("speech-to-text: %v", err)
		respondError(c, http.StatusBadGateway, "speech service unavailable")
		return
	}

	respondData(c, http.StatusOK, "Transcription successful", data)
}

func (h *Handler) analyzeSpeech(c *gin.Context) {
	text := c.PostForm("text")
	if text == "" {
		respondError(c, http.StatusBadRequest, "text is required")
		return
	}

	var (
		data json.RawMessage
		err  error
	)
	if file, ferr := c.FormFile("audio"); ferr == nil {
		src, oerr := file.Open()
		if oerr != nil {
			h.logger.Errorf("open uploaded audio: %v", oerr)
			respondError(c, http.StatusInternalServerError, "internal server error")
			return
		}
		defer src.Close()
		data, err = h.speech.Analyze(c.Request.Context(), text, file.Filename, file.Header.Get("Content-Type"), src)
	} else {
		data, err = h.speech.Analyze(c.Request.Context(), text, "", "", nil)
	}
	if err != nil {
		h.logger.Errorf("analyze speech: %v", err)
		respondError(c, http.StatusBadGateway, "speech service unavailable")
		return
	}

	respondData(c, http.StatusOK, "Analysis successful", data)
}
