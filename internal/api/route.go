package api

import (
	"Inkstone/internal/api/middleware"
	"Inkstone/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		diaryGroup := apiGroup.Group("/diaries")
		{
			diaryGroup.GET("/counts", group.DiaryStatHandler.GetCounts)
			diaryGroup.GET("/member/:user_id/book/:book_id/popular", group.DiaryStatHandler.GetPopularRanked)
			diaryGroup.GET("/book/:book_id/popular", group.DiaryStatHandler.GetPopularFeed)
			diaryGroup.GET("/book/:book_id/recent", group.DiaryStatHandler.GetRecentFeed)

			// 内部运维入口：手动补数
			diaryGroup.POST("/stats/reconcile", group.DiaryStatHandler.Reconcile)
		}
	}

	return r
}
