package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *Handler) createArticle(c *gin.Context) {
	if !h.storageReady(c) {
		return
	}

	title := c.PostForm("title")
	content := c.PostForm("content")
	articleURL := c.PostForm("urlArticle")

	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "image file is required")
		return
	}

	key, err := h.uploadFormFile(c.Request.Context(), file)
	if err != nil {
		h.logger.Errorf("upload article image: %v", err)
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	article, err := h.articles.Create(c.Request.Context(), title, content, articleURL, key)
	if err != nil {
		h.removeObject(c.Request.Context(), key)
		h.fail(c, err)
		return
	}

	respondData(c, http.StatusCreated, "Article created successfully", h.articleToResponse(c.Request.Context(), *article))
}

func (h *Handler) updateArticle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	title := c.PostForm("title")
	content := c.PostForm("content")
	articleURL := c.PostForm("urlArticle")

	var newKey string
	if file, err := c.FormFile("image"); err == nil {
		if !h.storageReady(c) {
			return
		}
		newKey, err = h.uploadFormFile(c.Request.Context(), file)
		if err != nil {
			h.logger.Errorf("upload article image: %v", err)
			respondError(c, http.StatusInternalServerError, "internal server error")
			return
		}
	}

	article, replaced, err := h.articles.Update(c.Request.Context(), id, title, content, articleURL, newKey)
	if err != nil {
		h.removeObject(c.Request.Context(), newKey)
		h.fail(c, err)
		return
	}
	h.removeObject(c.Request.Context(), replaced)

	respondData(c, http.StatusOK, "Article updated successfully", h.articleToResponse(c.Request.Context(), *article))
}

func (h *Handler) listArticles(c *gin.Context) {
	articles, err := h.articles.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]ArticleResponse, len(articles))
	for i := range articles {
		resp[i] = h.articleToResponse(c.Request.Context(), articles[i])
	}
	respondData(c, http.StatusOK, "Articles retrieved successfully", resp)
}

func (h *Handler) getArticle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	article, err := h.articles.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	respondData(c, http.StatusOK, "Article retrieved successfully", h.articleToResponse(c.Request.Context(), *article))
}

func (h *Handler) deleteArticle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	imageKey, err := h.articles.Delete(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.removeObject(c.Request.Context(), imageKey)

	respondData(c, http.StatusOK, "Article deleted successfully", nil)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
