package gateway

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	apiv1 "github.com/beam-cloud/mailchat/pkg/api/v1"
	"github.com/beam-cloud/mailchat/pkg/auth"
	"github.com/beam-cloud/mailchat/pkg/chat"
	"github.com/beam-cloud/mailchat/pkg/common"
	"github.com/beam-cloud/mailchat/pkg/gmail"
	"github.com/beam-cloud/mailchat/pkg/llm"
	"github.com/beam-cloud/mailchat/pkg/oauth"
	"github.com/beam-cloud/mailchat/pkg/repository"
	"github.com/beam-cloud/mailchat/pkg/session"
	"github.com/beam-cloud/mailchat/pkg/types"
)

type Gateway struct {
	Config      types.AppConfig
	RedisClient *common.RedisClient
	httpServer  *http.Server
	echo        *echo.Echo
	ctx         context.Context
	cancelFunc  context.CancelFunc

	baseRouteGroup *echo.Group

	emailCache  repository.EmailCacheRepository
	sessionRepo repository.SessionRepository
	chatService *chat.Service
	cookies     *session.Manager
	googleOAuth *oauth.GoogleClient
}

func NewGateway() (*Gateway, error) {
	configManager, err := common.NewConfigManager[types.AppConfig]()
	if err != nil {
		return nil, err
	}
	config := configManager.GetConfig()

	// Setup logging
	if config.PrettyLogs {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	var redisClient *common.RedisClient
	var emailCache repository.EmailCacheRepository
	var sessionRepo repository.SessionRepository

	// Local mode: skip Redis, keep everything in process memory
	if config.IsLocalMode() {
		log.Info().Msg("running in local mode - using in-memory stores")
		emailCache = repository.NewEmailMemoryRepository(config.Chat.CacheTTL)
		sessionRepo = repository.NewSessionMemoryRepository(config.Chat.SessionTTL)
	} else {
		redisClient, err = common.NewRedisClient(config.Database.Redis, common.WithClientName("MailchatGateway"))
		if err != nil {
			return nil, err
		}
		emailCache = repository.NewEmailRedisRepository(redisClient)
		sessionRepo = repository.NewSessionRedisRepository(redisClient)
	}

	fetcher := gmail.NewFetcher(gmail.NewClient())
	summarizer := llm.NewSummarizer(llm.NewClient(config.LLM), llm.SummarizerOptions{
		LargeThreshold: config.Chat.LargeThreshold,
		ChunkSize:      config.Chat.ChunkSize,
		Pacer:          common.NewPacer(config.Chat.ChunkDelay),
	})

	ctx, cancel := context.WithCancel(context.Background())
	gateway := &Gateway{
		Config:      config,
		RedisClient: redisClient,
		ctx:         ctx,
		cancelFunc:  cancel,
		emailCache:  emailCache,
		sessionRepo: sessionRepo,
		chatService: chat.NewService(emailCache, fetcher, summarizer, config.Chat),
		cookies:     session.NewManager(config.OAuth.SessionSecret, config.Chat.SessionTTL),
		googleOAuth: oauth.NewGoogleClient(config.OAuth),
	}

	return gateway, nil
}

func (g *Gateway) initHTTP() error {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Pre(middleware.RemoveTrailingSlash())

	// Configure logging middleware
	if g.Config.Gateway.HTTP.EnablePrettyLogs {
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
			Format: "${time_rfc3339} ${method} ${uri} ${status} ${latency_human}\n",
		}))
	}

	// CORS
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     g.Config.Gateway.HTTP.CORS.AllowedOrigins,
		AllowHeaders:     g.Config.Gateway.HTTP.CORS.AllowedHeaders,
		AllowMethods:     g.Config.Gateway.HTTP.CORS.AllowedMethods,
		AllowCredentials: true,
	}))

	e.Use(middleware.Recover())

	g.echo = e
	g.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", g.Config.Gateway.HTTP.Host, g.Config.Gateway.HTTP.Port),
		Handler: e,
	}

	g.baseRouteGroup = e.Group(apiv1.HttpServerBaseRoute)

	return nil
}

func (g *Gateway) registerServices() error {
	// Health check works without Redis in local mode
	apiv1.NewHealthGroup(g.baseRouteGroup.Group("/health"), g.RedisClient)

	sessionMiddleware := auth.SessionMiddleware(g.cookies, g.sessionRepo, g.googleOAuth)

	chatGroup := g.baseRouteGroup.Group("/chat")
	chatGroup.Use(sessionMiddleware)
	apiv1.NewChatGroup(chatGroup, g.chatService, g.sessionRepo, g.cookies)

	authGroup := g.baseRouteGroup.Group("/auth")
	authGroup.Use(sessionMiddleware)
	apiv1.NewAuthGroup(authGroup, g.googleOAuth, g.sessionRepo, g.cookies)

	if !g.googleOAuth.IsConfigured() {
		log.Warn().Msg("google oauth not configured - mailbox features disabled")
	}

	log.Info().Msg("chat, auth, and health APIs registered")
	return nil
}

// StartAsync starts the gateway server without blocking.
// Use this when embedding the gateway in another process (e.g., CLI).
func (g *Gateway) StartAsync() error {
	err := g.initHTTP()
	if err != nil {
		return fmt.Errorf("failed to initialize http server: %w", err)
	}

	err = g.registerServices()
	if err != nil {
		return fmt.Errorf("failed to register services: %w", err)
	}

	// Start HTTP server
	go func() {
		addr := fmt.Sprintf("%s:%d", g.Config.Gateway.HTTP.Host, g.Config.Gateway.HTTP.Port)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			log.Error().Err(err).Msg("failed to listen on http")
			return
		}

		if err := g.httpServer.Serve(lis); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("http server error")
		}
	}()

	log.Info().
		Str("host", g.Config.Gateway.HTTP.Host).
		Int("port", g.Config.Gateway.HTTP.Port).
		Msg("gateway http server running")

	return nil
}

// Addr returns the gateway's HTTP address
func (g *Gateway) Addr() string {
	return fmt.Sprintf("http://localhost:%d", g.Config.Gateway.HTTP.Port)
}

// Shutdown gracefully shuts down the gateway (exported for external use)
func (g *Gateway) Shutdown() {
	g.shutdown()
}

func (g *Gateway) Start() error {
	if err := g.StartAsync(); err != nil {
		return err
	}

	terminationSignal := make(chan os.Signal, 1)
	signal.Notify(terminationSignal, os.Interrupt, syscall.SIGTERM)
	<-terminationSignal

	log.Info().Msg("termination signal received. shutting down...")
	g.shutdown()

	return nil
}

func (g *Gateway) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), g.Config.Gateway.ShutdownTimeout)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return g.httpServer.Shutdown(ctx)
	})

	if g.RedisClient != nil {
		eg.Go(func() error {
			return g.RedisClient.Close()
		})
	}

	g.cancelFunc()

	if err := eg.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to shutdown gateway gracefully")
	}

	log.Info().Msg("gateway stopped")
}
