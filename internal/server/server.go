package server

import (
	"net/http"
	"time"

	"anoa.com/bloggerplatform/internal/config"
	"anoa.com/bloggerplatform/internal/middleware"

	commentHttp "anoa.com/bloggerplatform/internal/modules/comment/delivery/http"
	commentRepo "anoa.com/bloggerplatform/internal/modules/comment/repository"
	commentService "anoa.com/bloggerplatform/internal/modules/comment/service"

	postHttp "anoa.com/bloggerplatform/internal/modules/post/delivery/http"
	postRepo "anoa.com/bloggerplatform/internal/modules/post/repository"
	postService "anoa.com/bloggerplatform/internal/modules/post/service"

	reactionCache "anoa.com/bloggerplatform/internal/modules/reaction/cache"
	reactionHttp "anoa.com/bloggerplatform/internal/modules/reaction/delivery/http"
	reactionRepo "anoa.com/bloggerplatform/internal/modules/reaction/repository"
	reactionService "anoa.com/bloggerplatform/internal/modules/reaction/service"

	userRepo "anoa.com/bloggerplatform/internal/modules/user/repository"

	"anoa.com/bloggerplatform/pkg/lock"
	"anoa.com/bloggerplatform/pkg/log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

// NewReactionService builds the reaction core. redisClient may be nil, in
// which case the newest-likes cache is disabled and locking stays in-process.
func NewReactionService(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) reactionService.ReactionService {
	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.LockBackend == "redis" && redisClient != nil {
		locker = lock.NewRedisLocker(redisClient, cfg.LockTTL)
	}

	var newestLikes reactionCache.NewestLikesCache
	if redisClient != nil && cfg.NewestLikesCacheTTL > 0 {
		newestLikes = reactionCache.NewRedisNewestLikesCache(redisClient, cfg.NewestLikesCacheTTL)
	}

	return reactionService.NewReactionService(
		db,
		reactionRepo.NewReactionRepository(db),
		reactionRepo.NewCounterRepository(db),
		userRepo.NewUserRepository(db),
		locker,
		newestLikes,
	)
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	reactionSvc := NewReactionService(cfg, db, redisClient)
	reactionHandler := reactionHttp.NewReactionHandler(reactionSvc)

	postSvc := postService.NewPostService(postRepo.NewPostRepository(db), reactionSvc)
	postHandler := postHttp.NewPostHandler(postSvc)

	commentSvc := commentService.NewCommentService(commentRepo.NewCommentRepository(db), reactionSvc)
	commentHandler := commentHttp.NewCommentHandler(commentSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(log.GinMiddleware(log.L()))

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Public routes, caller identified when a token is present
	public := api.Group("")
	public.Use(authMiddleware.OptionalAuth())
	{
		public.GET("/posts/:post_id", postHandler.GetPostByID)
		public.GET("/comments/:comment_id", commentHandler.GetCommentByID)
	}

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.PUT("/posts/:post_id/like-status", reactionHandler.SetPostLikeStatus)
		protected.PUT("/comments/:comment_id/like-status", reactionHandler.SetCommentLikeStatus)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "PUT", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
