package handler

import (
	"github.com/bloghub/backend/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the route table. Post list/detail reads are
// read-through (anonymous allowed); every write and every comment
// operation requires a bearer access token.
func NewRouter(log *zap.Logger, authSvc *service.AuthService, blogSvc *service.BlogService) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(log), gin.Recovery())

	auth := NewAuthHandler(authSvc)
	posts := NewPostHandler(blogSvc)
	comments := NewCommentHandler(blogSvc)

	router.GET("/", Root)
	router.GET("/ping", Ping)

	router.POST("/register/", auth.Register)
	router.POST("/login/", auth.Login)
	router.POST("/token/refresh/", auth.Refresh)
	router.POST("/logout/", RequireAuth(authSvc), auth.Logout)

	blog := router.Group("/blog")
	{
		blog.GET("/posts/", OptionalAuth(authSvc), posts.List)
		blog.POST("/posts/", RequireAuth(authSvc), posts.Create)
		blog.GET("/posts/filter/", RequireAuth(authSvc), posts.Filter)
		blog.GET("/posts/:id/", OptionalAuth(authSvc), posts.Get)
		blog.PUT("/posts/:id/", RequireAuth(authSvc), posts.Update)
		blog.PATCH("/posts/:id/", RequireAuth(authSvc), posts.Patch)
		blog.DELETE("/posts/:id/", RequireAuth(authSvc), posts.Delete)

		blog.GET("/posts/:id/comments/", RequireAuth(authSvc), comments.ListByPost)
		blog.POST("/posts/:id/comments/", RequireAuth(authSvc), comments.Create)
		blog.GET("/comments/:id/", RequireAuth(authSvc), comments.Get)
		blog.PUT("/comments/:id/", RequireAuth(authSvc), comments.Update)
		blog.DELETE("/comments/:id/", RequireAuth(authSvc), comments.Delete)
	}

	return router
}
