package router

import (
	"oqunet/internal/config"
	"oqunet/internal/handler"
	"oqunet/internal/middleware"
	"oqunet/internal/pkg"
	"oqunet/internal/repository/redis"
	"oqunet/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func InitRouter(db *gorm.DB, cfg config.Config, producer *pkg.KafkaProducer) *gin.Engine {
	r := gin.Default()

	bookSvc := service.NewBookService(db)
	bookSvc.SetEventProducer(producer)

	messageSvc := service.NewMessageService(db)
	messageSvc.SetMailer(pkg.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})

	userSvc := service.NewUserService(db)
	if redis.Client != nil {
		userSvc.SetSessionStore(&redis.SessionRepository{})
	}

	user := handler.NewUserHandler(userSvc)
	community := handler.NewCommunityHandler(service.NewCommunityService(db))
	book := handler.NewBookHandler(bookSvc)
	message := handler.NewMessageHandler(messageSvc)
	search := handler.NewSearchHandler(service.NewSearchService(db))

	auth := middleware.AuthMiddleware(db)

	userGroup := r.Group("/api/users")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		userGroup.GET("/", auth, user.List)
		userGroup.PUT("/profile", auth, user.UpdateProfile)
		userGroup.POST("/logout", auth, user.Logout)
		userGroup.POST("/join-community", auth, community.Join)
		userGroup.POST("/leave-community", auth, community.Leave)
		userGroup.POST("/add", auth, middleware.AdminOnly(), user.Add)
		userGroup.DELETE("/delete/:id", auth, user.Delete)
	}

	communityGroup := r.Group("/api/communities")
	{
		communityGroup.GET("/public", community.ListPublic)
		communityGroup.GET("/", auth, community.List)
		communityGroup.POST("/create", auth, community.Create)
		communityGroup.POST("/add", auth, middleware.AdminOnly(), community.Add)
		communityGroup.DELETE("/delete/:id", auth, community.Delete)
		communityGroup.GET("/:communityId/members", auth, community.Members)
		communityGroup.DELETE("/:communityId/members/:userId", auth, community.RemoveMember)
	}

	bookGroup := r.Group("/api/books")
	bookGroup.Use(auth)
	{
		bookGroup.GET("/", book.List)
		bookGroup.GET("/community/:communityId", book.ListByCommunity)
		bookGroup.GET("/:id/history", book.History)
		bookGroup.POST("/borrow", book.Borrow)
		bookGroup.POST("/return-my-book", book.ReturnMyBook)
		bookGroup.POST("/add", book.Add)
		bookGroup.DELETE("/delete/:id", book.Delete)
		bookGroup.POST("/assign", middleware.AdminOnly(), book.Assign)
		bookGroup.POST("/return", middleware.AdminOnly(), book.AdminReturn)
	}

	messageGroup := r.Group("/api/messages")
	messageGroup.Use(auth)
	{
		messageGroup.GET("/", message.MyMessages)
		messageGroup.GET("/unread-count", message.UnreadCount)
		messageGroup.PUT("/:messageId/read", message.MarkAsRead)
		messageGroup.POST("/send", message.Send)
	}

	searchGroup := r.Group("/api/search")
	searchGroup.Use(auth)
	{
		searchGroup.GET("/books", search.Books)
		searchGroup.GET("/users", middleware.AdminOnly(), search.Users)
		searchGroup.GET("/genres", search.Genres)
	}

	return r
}
