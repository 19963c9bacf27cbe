package api

import (
	"math/rand"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/lanpahub/lanpa-api/docs"
	v1 "github.com/lanpahub/lanpa-api/internal/api/handler/v1"
	"github.com/lanpahub/lanpa-api/internal/api/middleware"
	"github.com/lanpahub/lanpa-api/internal/config"
	"github.com/lanpahub/lanpa-api/internal/repository"
	"github.com/lanpahub/lanpa-api/internal/repository/dao"
	"github.com/lanpahub/lanpa-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	lanpaRepo := repository.NewLanpaRepository(dao.NewLanpaDAO(db))
	gameRepo := repository.NewGameRepository(dao.NewGameDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	invRepo := repository.NewInvitationRepository(dao.NewInvitationDAO(db))
	nominationRepo := repository.NewNominationRepository(dao.NewNominationDAO(db))
	notificationRepo := repository.NewNotificationRepository(dao.NewNotificationDAO(db))

	// One guard and one fanout shared by every service that needs them.
	guard := service.NewMembershipGuard(lanpaRepo)
	fanout := service.NewNotificationService(notificationRepo)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	authHandler := v1.NewAuthHandler(conf.API, service.NewAuthService(userRepo))
	userHandler := v1.NewUserHandler(service.NewUserService(userRepo))
	gameHandler := v1.NewGameHandler(service.NewGameService(gameRepo))
	lanpaHandler := v1.NewLanpaHandler(
		service.NewLanpaService(lanpaRepo, gameRepo, userRepo, invRepo, guard, fanout, rng))
	nominationHandler := v1.NewNominationHandler(
		service.NewNominationService(nominationRepo, gameRepo, lanpaRepo, guard, fanout))
	notificationHandler := v1.NewNotificationHandler(fanout)

	s.MountHandlers(authHandler, userHandler, gameHandler, lanpaHandler, nominationHandler, notificationHandler)

	return s
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	gameHandler *v1.GameHandler,
	lanpaHandler *v1.LanpaHandler,
	nominationHandler *v1.NominationHandler,
	notificationHandler *v1.NotificationHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.GET("/users/me", userHandler.HandleGetMe)
		authed.GET("/users/me/punishments", nominationHandler.HandleGetMyPunishments)
		authed.GET("/users/:id", userHandler.HandleGetUser)

		authed.GET("/games", gameHandler.HandleGetGames)
		authed.POST("/games", gameHandler.HandleCreateGame)
		authed.GET("/games/:id", gameHandler.HandleGetGame)
		authed.GET("/punishments", gameHandler.HandleGetPunishments)
		authed.POST("/punishments", gameHandler.HandleCreatePunishment)

		authed.GET("/lanpas", lanpaHandler.HandleGetLanpas)
		authed.POST("/lanpas", lanpaHandler.HandleCreateLanpa)
		authed.GET("/lanpas/:id", lanpaHandler.HandleGetLanpa)
		authed.PATCH("/lanpas/:id", lanpaHandler.HandleUpdateLanpa)
		authed.POST("/lanpas/:id/transition", lanpaHandler.HandleTransition)
		authed.POST("/lanpas/:id/history", lanpaHandler.HandleMarkHistory)
		authed.GET("/lanpas/:id/members", lanpaHandler.HandleGetMembers)
		authed.POST("/lanpas/:id/members", lanpaHandler.HandleInviteMember)
		authed.POST("/lanpas/:id/members/respond", lanpaHandler.HandleRespondInvite)
		authed.GET("/lanpas/:id/suggestions", lanpaHandler.HandleGetSuggestions)
		authed.POST("/lanpas/:id/suggestions", lanpaHandler.HandleSuggestGame)
		authed.GET("/lanpas/:id/votes", lanpaHandler.HandleGetVoteResults)
		authed.PUT("/lanpas/:id/votes", lanpaHandler.HandleVoteGame)
		authed.PUT("/lanpas/:id/selected-game", lanpaHandler.HandleSelectGame)
		authed.GET("/lanpas/:id/invitations", lanpaHandler.HandleGetInvitations)
		authed.POST("/lanpas/:id/invitations", lanpaHandler.HandleCreateInvitation)
		authed.POST("/invitations/:token/redeem", lanpaHandler.HandleRedeemInvitation)

		authed.GET("/lanpas/:id/nominations", nominationHandler.HandleGetNominations)
		authed.POST("/lanpas/:id/nominations", nominationHandler.HandleCreateNomination)
		authed.PUT("/nominations/:id/votes", nominationHandler.HandleNominationVote)
		authed.POST("/nominations/:id/finalize", nominationHandler.HandleFinalizeNomination)

		authed.GET("/notifications", notificationHandler.HandleGetNotifications)
		authed.POST("/notifications/:id/read", notificationHandler.HandleMarkNotificationRead)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "lanpa API"
	docs.SwaggerInfo.Description = "LAN party coordination backend."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
