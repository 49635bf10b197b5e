package api

import (
	"net/http"

	"go-media-library/internal/api/handlers"
	"go-media-library/internal/api/middleware"
	"go-media-library/internal/config"
	"go-media-library/internal/models"
	"go-media-library/internal/notify"
	"go-media-library/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes wires the HTTP surface onto the router.
func SetupRoutes(router *gin.Engine, cfg *config.Config, db *gorm.DB, store storage.Storage) {
	h := handlers.New(cfg, db, store)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	authorized := router.Group("/api")
	authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		folders := authorized.Group("/folders")
		{
			folders.POST("", h.CreateFolder)
			folders.GET("", h.ListFolders)
			folders.GET("/:id", h.GetFolder)
			folders.PUT("/:id", h.UpdateFolder)
			folders.DELETE("/:id", h.DeleteFolder)
		}

		images := authorized.Group("/images")
		{
			images.POST("", h.UploadImage)
			images.GET("", h.ListImages)
			images.GET("/:id", h.GetImage)
			images.GET("/:id/transform", h.TransformImage)
			images.DELETE("/:id", h.DeleteMedia(models.KindImage))
		}

		documents := authorized.Group("/documents")
		{
			documents.POST("", h.UploadDocument)
			documents.GET("", h.ListDocuments)
			documents.POST("/cleanup", h.CleanupExpiredDocuments)
			documents.GET("/:id", h.GetDocument)
			documents.GET("/:id/download", h.DownloadDocument)
			documents.DELETE("/:id", h.DeleteMedia(models.KindDocument))
		}

		videos := authorized.Group("/videos")
		{
			videos.POST("", h.UploadVideo)
			videos.POST("/remote", h.CreateRemoteVideo)
			videos.GET("/:id", h.GetVideo)
			videos.DELETE("/:id", h.DeleteMedia(models.KindVideo))
		}

		audio := authorized.Group("/audio")
		{
			audio.POST("", h.UploadAudio)
			audio.GET("/:id", h.GetAudio)
			audio.DELETE("/:id", h.DeleteMedia(models.KindAudio))
		}

		taxonomy := authorized.Group("/taxonomy")
		{
			taxonomy.GET("/categories", h.ListCategories)
			taxonomy.POST("/categories", h.CreateCategory)
			taxonomy.DELETE("/categories/:id", h.DeleteCategory)
			taxonomy.GET("/predefined-tags", h.ListPredefinedTags)
			taxonomy.GET("/tags/popular", h.PopularTags)
			taxonomy.GET("/tags/related", h.RelatedTags)
			taxonomy.POST("/suggest-category", h.SuggestCategory)
		}

		authorized.POST("/batch", h.HandleBatchOperation)

		tagging := authorized.Group("/media/:kind/:id")
		{
			tagging.POST("/tags", h.TagItem)
			tagging.DELETE("/tags/:tag", h.UntagItem)
			tagging.GET("/suggest-tags", h.SuggestTags)
		}

		export := authorized.Group("/export")
		{
			export.GET("/images", h.ExportImages)
			export.GET("/documents", h.ExportDocuments)
		}

		authorized.GET("/ws", func(c *gin.Context) {
			notify.GetManager().Serve(c)
		})
	}
}
