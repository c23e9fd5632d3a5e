package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/vietanh2810/gametables-api/docs"
	v1 "github.com/vietanh2810/gametables-api/internal/api/handler/v1"
	"github.com/vietanh2810/gametables-api/internal/api/middleware"
	"github.com/vietanh2810/gametables-api/internal/config"
	"github.com/vietanh2810/gametables-api/internal/i18n"
	"github.com/vietanh2810/gametables-api/internal/repository"
	"github.com/vietanh2810/gametables-api/internal/repository/dao"
	"github.com/vietanh2810/gametables-api/internal/service"
)

const moderatePermission = "tables.moderate"

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	// Tables drives the lifecycle jobs run by the scheduler.
	Tables *service.TableService
}

type handlers struct {
	auth         *v1.AuthHandler
	registration *v1.RegistrationHandler
	table        *v1.TableHandler
	creation     *v1.CreationHandler
}

type services struct {
	users *service.UserService
	authz service.Authorizer
}

func NewServer(conf *config.AppConfig, db *gorm.DB, events service.EventDispatcher) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	messages := i18n.New(conf.I18n.DefaultLocale)

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	tableDAO := dao.NewTableDAO(db)
	tableRepo := repository.NewTableRepository(tableDAO)
	participantRepo := repository.NewParticipantRepository(dao.NewParticipantDAO(db), tableDAO)
	membershipRepo := repository.NewMembershipRepository(dao.NewMembershipDAO(db))
	eventConfigRepo := repository.NewEventConfigRepository(dao.NewEventConfigDAO(db))
	store := repository.NewRegistrationStore(dao.NewTableLock(db), participantRepo, tableRepo)

	authz := service.NewGrantAuthorizer()
	eligibility := service.NewEligibilityService(participantRepo,
		service.WithMembershipProvider(membershipRepo),
		service.WithTranslator(messages.Default()),
	)
	registrationSvc := service.NewRegistrationService(store, eligibility, events)
	creationSvc := service.NewCreationService(userRepo, authz, messages.Default())
	eventCreationSvc := service.NewEventCreationService(eventConfigRepo, tableRepo, creationSvc)
	eventConfigSvc := service.NewEventConfigService(eventConfigRepo)
	s.Tables = service.NewTableService(store, tableRepo, creationSvc, eventCreationSvc)

	h := handlers{
		auth:         v1.NewAuthHandler(conf.API, service.NewAuthService(userRepo)),
		registration: v1.NewRegistrationHandler(registrationSvc, messages),
		table:        v1.NewTableHandler(s.Tables, conf.Creation, messages),
		creation:     v1.NewCreationHandler(creationSvc, eventCreationSvc, eventConfigSvc, conf.Creation, messages),
	}
	s.MountHandlers(h, services{
		users: service.NewUserService(userRepo),
		authz: authz,
	})

	return s
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.RequestLogger())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers, svc services) {
	const basePath = "/api/v1"

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", h.auth.HandleSignup)
		auth.POST("/auth/login", h.auth.HandleLogin)
	}

	public := s.Router.Group(basePath, authenticator.OptionalJWT())
	{
		public.GET("/tables/:tableID/eligibility", h.registration.HandleEligibility)
		public.POST("/tables/:tableID/guests", h.registration.HandleRegisterGuest)
		public.POST("/guests/cancel/:token", h.registration.HandleCancelByToken)
		public.POST("/tables", h.table.HandleCreate)
		public.GET("/creation/eligibility", h.creation.HandleCreationEligibility)
		public.GET("/events/:eventID/creation/eligibility", h.creation.HandleEventCreationEligibility)
	}

	members := s.Router.Group(basePath, authenticator.VerifyJWT())
	{
		members.POST("/tables/:tableID/participants", h.registration.HandleRegister)
		members.DELETE("/participants/:participantID", h.registration.HandleCancel)
	}

	moderators := s.Router.Group(basePath,
		authenticator.VerifyJWT(),
		middleware.RequirePermission(svc.users, svc.authz, moderatePermission),
	)
	{
		moderators.POST("/participants/:participantID/confirm", h.registration.HandleConfirm)
		moderators.POST("/participants/:participantID/reject", h.registration.HandleReject)
		moderators.POST("/participants/:participantID/no-show", h.registration.HandleNoShow)
		moderators.POST("/tables/:tableID/publish", h.table.HandlePublish)
		moderators.POST("/tables/:tableID/transition", h.table.HandleTransition)
		moderators.GET("/events/:eventID/config", h.creation.HandleGetEventConfig)
		moderators.PUT("/events/:eventID/config", h.creation.HandlePutEventConfig)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Game tables API"
	docs.SwaggerInfo.Description = "Registration, waiting lists and creation rules for game tables."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
