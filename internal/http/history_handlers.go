package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listHistory(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	items, err := h.history.List(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]HistoryResponse, len(items))
	for i := range items {
		resp[i] = h.historyToResponse(c.Request.Context(), items[i])
	}
	respondData(c, http.StatusOK, "History retrieved successfully", resp)
}

func (h *Handler) getHistory(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	history, err := h.history.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	respondData(c, http.StatusOK, "History retrieved successfully", h.historyToResponse(c.Request.Context(), *history))
}

// saveHistory persists one practice session: the audio recording goes to
// object storage, the transcription and correction to the database. Posting
// again for the same stored recording amends the existing row.
func (h *Handler) saveHistory(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	original := c.PostForm("originalParagraph")
	corrected := c.PostForm("correctedParagraph")
	analysis := c.PostForm("grammarAnalysis")

	audioKey := c.PostForm("fileAudio")
	if file, err := c.FormFile("audio"); err == nil {
		if !h.storageReady(c) {
			return
		}
		audioKey, err = h.uploadFormFile(c.Request.Context(), file)
		if err != nil {
			h.logger.Errorf("upload history audio: %v", err)
			respondError(c, http.StatusInternalServerError, "internal server error")
			return
		}
	}

	history, err := h.history.Save(c.Request.Context(), userID, audioKey, original, corrected, analysis)
	if err != nil {
		h.fail(c, err)
		return
	}

	respondData(c, http.StatusCreated, "History saved successfully", h.historyToResponse(c.Request.Context(), *history))
}

func (h *Handler) deleteHistory(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	audioKey, err := h.history.Delete(c.Request.Context(), userID, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.removeObject(c.Request.Context(), audioKey)

	respondData(c, http.StatusOK, "History deleted successfully", nil)
}
