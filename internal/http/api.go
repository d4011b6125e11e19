package http

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"speech-coach/internal/auth"
	"speech-coach/internal/domain"
	"speech-coach/internal/service"
	"speech-coach/internal/speech"
	"speech-coach/internal/storage"
)

const presignExpiry = 15 * time.Minute

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	articles  service.ArticleService
	history   service.HistoryService
	speech    *speech.Client
	storage   storage.Service
	bucket    string
	keyPrefix string
	codec     *auth.Codec
	logger    *logrus.Logger
}

func NewHandler(
	users service.UserService,
	articles service.ArticleService,
	history service.HistoryService,
	speechClient *speech.Client,
	store storage.Service,
	bucket, keyPrefix string,
	codec *auth.Codec,
	logger *logrus.Logger,
) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:     users,
		articles:  articles,
		history:   history,
		speech:    speechClient,
		storage:   store,
		bucket:    bucket,
		keyPrefix: strings.Trim(keyPrefix, "/"),
		codec:     codec,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		users := api.Group("/users")
		{
			users.POST("/register", h.register)
			users.POST("/login", h.login)
			users.POST("/refresh", h.requireRefresh(), h.refresh)
			users.GET("/logout", h.requireAccess(), h.logout)
			users.GET("/current", h.requireAccess(), h.currentUser)
			users.PUT("/update", h.requireAccess(), h.updateUser)
			users.DELETE("/delete", h.requireAccess(), h.deleteUser)
			users.POST("/uploadPhotos", h.requireAccess(), h.uploadProfilePhoto)
		}

		articles := api.Group("/articles", h.requireAccess())
		{
			articles.POST("/create", h.createArticle)
			articles.PUT("/update/:id", h.updateArticle)
			articles.GET("/getAll", h.listArticles)
			articles.GET("/getArticle/:id", h.getArticle)
			articles.DELETE("/delete/:id", h.deleteArticle)
		}

		history := api.Group("/history", h.requireAccess())
		{
			history.GET("", h.listHistory)
			history.POST("/save", h.saveHistory)
			history.GET("/:id", h.getHistory)
			history.DELETE("/:id", h.deleteHistory)
		}

		models := api.Group("/models", h.requireAccess())
		{
			models.POST("/speech-to-text", h.speechToText)
			models.POST("/analyze-speech", h.analyzeSpeech)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// respondError writes the single error envelope every endpoint uses. Internal
// details stay in the server log, never in the body.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func respondData(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{"success": true, "message": message, "data": data})
}

// fail maps service errors onto the response taxonomy. Anything unrecognized
// becomes an opaque 500.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrEmailTaken):
		respondError(c, http.StatusConflict, service.ErrEmailTaken.Error())
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, service.ErrUserNotFound.Error())
	case errors.Is(err, service.ErrArticleNotFound):
		respondError(c, http.StatusNotFound, service.ErrArticleNotFound.Error())
	case errors.Is(err, service.ErrHistoryNotFound):
		respondError(c, http.StatusNotFound, service.ErrHistoryNotFound.Error())
	default:
		h.logger.Errorf("request failed: %v", err)
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

// objectKey derives a random storage key preserving the upload's extension.
func (h *Handler) objectKey(filename string) string {
	key := uuid.NewString() + strings.ToLower(path.Ext(filename))
	if h.keyPrefix != "" {
		return h.keyPrefix + "/" + key
	}
	return key
}

// uploadFormFile streams a multipart file into object storage and returns
// the stored key.
func (h *Handler) uploadFormFile(ctx context.Context, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	key := h.objectKey(file.Filename)
	contentType := file.Header.Get("Content-Type")
	if err := h.storage.UploadObject(ctx, h.bucket, key, contentType, src); err != nil {
		return "", err
	}
	return key, nil
}

// objectURL resolves a stored key into a presigned URL. A missing key or a
// presign failure degrades to an empty URL rather than failing the request.
func (h *Handler) objectURL(ctx context.Context, key string) string {
	if key == "" || h.storage == nil || h.bucket == "" {
		return ""
	}
	url, err := h.storage.GetObjectURL(ctx, h.bucket, key, presignExpiry)
	if err != nil {
		h.logger.Warnf("presign %s: %v", key, err)
		return ""
	}
	return url
}

// removeObject deletes a stored object, logging instead of failing: the row
// mutation already committed and a stray object is not worth a 500.
func (h *Handler) removeObject(ctx context.Context, key string) {
	if key == "" || h.storage == nil || h.bucket == "" {
		return
	}
	if err := h.storage.DeleteObject(ctx, h.bucket, key); err != nil {
		h.logger.Warnf("delete object %s: %v", key, err)
	}
}

func (h *Handler) storageReady(c *gin.Context) bool {
	if h.storage == nil || h.bucket == "" {
		respondError(c, http.StatusInternalServerError, "storage service not configured")
		return false
	}
	return true
}

type UserResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	ProfileImage    string `json:"profileImage,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

func (h *Handler) userToResponse(ctx context.Context, user *domain.User) UserResponse {
	return UserResponse{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		ProfileImage:    user.ProfileImage,
		ProfileImageURL: h.objectURL(ctx, user.ProfileImage),
		CreatedAt:       user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       user.UpdatedAt.Format(time.RFC3339),
	}
}

type ArticleResponse struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	ArticleURL string `json:"urlArticle"`
	Image      string `json:"image"`
	ImageURL   string `json:"imageUrl,omitempty"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

func (h *Handler) articleToResponse(ctx context.Context, article domain.Article) ArticleResponse {
	return ArticleResponse{
		ID:         article.ID,
		Title:      article.Title,
		Content:    article.Content,
		ArticleURL: article.ArticleURL,
		Image:      article.ImageKey,
		ImageURL:   h.objectURL(ctx, article.ImageKey),
		CreatedAt:  article.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  article.UpdatedAt.Format(time.RFC3339),
	}
}

type HistoryResponse struct {
	ID                 int64  `json:"id"`
	UserID             int64  `json:"userId"`
	FileAudio          string `json:"fileAudio"`
	FileAudioURL       string `json:"fileAudioUrl,omitempty"`
	OriginalParagraph  string `json:"originalParagraph"`
	CorrectedParagraph string `json:"correctedParagraph"`
	GrammarAnalysis    string `json:"grammarAnalysis,omitempty"`
	CreatedAt          string `json:"createdAt"`
	UpdatedAt          string `json:"updatedAt"`
}

func (h *Handler) historyToResponse(ctx context.Context, history domain.History) HistoryResponse {
	return HistoryResponse{
		ID:                 history.ID,
		UserID:             history.UserID,
		FileAudio:          history.AudioKey,
		FileAudioURL:       h.objectURL(ctx, history.AudioKey),
		OriginalParagraph:  history.OriginalParagraph,
		CorrectedParagraph: history.CorrectedParagraph,
		GrammarAnalysis:    history.GrammarAnalysis,
		CreatedAt:          history.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          history.UpdatedAt.Format(time.RFC3339),
	}
}
