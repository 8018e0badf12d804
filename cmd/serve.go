package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"scriptgo/domain/model"
	"scriptgo/infrastructure/cache"
	"scriptgo/infrastructure/clients/llm"
	"scriptgo/infrastructure/configuration"
	"scriptgo/infrastructure/logger"
	"scriptgo/infrastructure/mailer"
	"scriptgo/infrastructure/persistence"
	"scriptgo/infrastructure/pubsub"
	"scriptgo/infrastructure/realtime"
	"scriptgo/infrastructure/servicebus"
	httpHandler "scriptgo/interfaces/http"
	"scriptgo/server"
	"scriptgo/usecase"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	portFlag        = "port"
	serveVendorFlag = "vendor"
	skipMigrateFlag = "skip-migrate"
)

const (
	heartbeatInterval = 25 * time.Second
	sweepInterval     = time.Minute
	maxSubscriberIdle = 2 * time.Minute
)

var serveFlags = map[string]cobraflags.Flag{
	portFlag: &cobraflags.StringFlag{
		Name:  portFlag,
		Value: "",
		Usage: "HTTP port. Overrides app.port, APP_PORT and PORT",
	},
	serveVendorFlag: &cobraflags.StringFlag{
		Name:  serveVendorFlag,
		Value: "",
		Usage: "Database vendor (postgres, mssql, mysql)",
	},
	skipMigrateFlag: &cobraflags.BoolFlag{
		Name:  skipMigrateFlag,
		Value: false,
		Usage: "Skip the schema bootstrap on start",
	},
}

func NewServeCommand() *cobra.Command {
	cobraflags.RegisterMap(rootCmd, serveFlags)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the email worker",
		RunE:  serveCommand,
	}
	cobraflags.RegisterMap(serveCmd, serveFlags)
	return serveCmd
}

func serveCommand(cmd *cobra.Command, _ []string) error {
	app := configuration.C.App
	if v := serveFlags[portFlag].GetString(); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid --port %q: %w", v, err)
		}
		app.Port = p
	}
	skip, err := cmd.Flags().GetBool(skipMigrateFlag)
	if err != nil {
		return fmt.Errorf("--%s: %w", skipMigrateFlag, err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	store, err := openScriptStore(configuredVendor(serveFlags[serveVendorFlag].GetString()), !skip)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Database initialization failed")
		return err
	}
	defer store.Close()
	logger.GetLogger().WithField("vendor", store.vendor).Info("Database connected.")

	mongoCfg := configuration.C.Database.Mongo
	mongoDb, err := persistence.NewMongoDb(mongoCfg.Host, mongoCfg.Port, mongoCfg.User, mongoCfg.Password, mongoCfg.Name)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("MongoDB not available - continuing without generation log")
		mongoDb = nil
	} else if err := mongoDb.Ping(ctx, nil); err != nil {
		logger.GetLogger().WithField("error", err).Warn("MongoDB ping failed - continuing without generation log")
		_ = mongoDb.Disconnect(context.Background())
		mongoDb = nil
	} else {
		logger.GetLogger().Info("MongoDB connected successfully")
		defer func() { _ = mongoDb.Disconnect(context.Background()) }()
	}

	redisCfg := configuration.C.RedisClient
	redisClient, _ := cache.NewCache(ctx, fmt.Sprintf("%s:%s", redisCfg.Host, redisCfg.Port), redisCfg.Username, redisCfg.Password)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	llmCfg := configuration.C.LLM
	providers := llm.NewProviders(ctx, llmCfg, app.SiteURL)
	timeout := time.Duration(llmCfg.TimeoutSeconds) * time.Second
	scriptDispatcher := llm.NewDispatcher(timeout, llm.BuildTargets(providers, llmCfg.ScriptChain)...)
	plannerDispatcher := llm.NewDispatcher(timeout, llm.BuildTargets(providers, llmCfg.PlannerChain)...)
	logger.GetLogger().WithFields(map[string]interface{}{
		"providers":      len(providers),
		"scriptTargets":  len(scriptDispatcher.Targets()),
		"plannerTargets": len(plannerDispatcher.Targets()),
	}).Info("LLM chains configured")

	mail := mailer.NewMailer(configuration.C.Email)
	queue, inline, err := emailQueue(ctx, g, mail)
	if err != nil {
		return err
	}

	hub := realtime.NewScriptHub(heartbeatInterval, app.AllowedOrigins)
	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if n := hub.SweepStale(maxSubscriberIdle); n > 0 {
					logger.GetLogger().WithField("removed", n).Info("Swept stale event subscribers")
				}
			}
		}
	})

	deps := usecase.ScriptDeps{
		Scripts:       store.scripts,
		Cache:         cache.NewScriptCache(redisClient, time.Duration(redisCfg.TTLSeconds)*time.Second),
		GenerationLog: persistence.NewGenerationLogRepository(mongoDb, mongoCfg.Name),
		Generator:     scriptDispatcher,
		Hub:           hub,
		Notifier:      usecase.NewNotifier(queue),
		Composer:      mailer.NewComposer(app.SiteURL),
		Temperature:   llmCfg.Temperature,
	}
	plannerDeps := deps
	plannerDeps.Generator = plannerDispatcher

	router := server.InitiateRouter(
		server.RouterConfig{SecretKey: app.SecretKey, AllowedOrigins: app.AllowedOrigins},
		httpHandler.NewHealthHandler(store.db),
		httpHandler.NewScriptHandler(usecase.NewScriptUsecase(deps)),
		httpHandler.NewPlannerHandler(usecase.NewPlannerUsecase(plannerDeps)),
		hub,
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.GetLogger().WithFields(map[string]interface{}{"port": app.Port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		if err := listen(httpServer, app); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.GetLogger().Info("Application shutdown requested")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	if inline != nil {
		inline.Wait()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		return err
	}
	return nil
}

func listen(srv *http.Server, app configuration.App) error {
	if !app.TLSEnabled {
		return srv.ListenAndServe()
	}
	if app.TLSCertFile == "" || app.TLSKeyFile == "" {
		logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
		return srv.ListenAndServe()
	}
	logger.GetLogger().WithFields(map[string]interface{}{"cert": app.TLSCertFile, "key": app.TLSKeyFile}).Info("Serving HTTPS")
	return srv.ListenAndServeTLS(app.TLSCertFile, app.TLSKeyFile)
}

// emailQueue selects the delivery backend from notify.queue. Broker backends also get
// a consumer in the errgroup; the inline queue is returned separately so shutdown can drain it.
func emailQueue(ctx context.Context, g *errgroup.Group, mail mailer.IMailer) (usecase.IEmailQueue, *mailer.InlineQueue, error) {
	deliver := func(ctx context.Context, msg model.EmailMessage) error {
		return mailer.Deliver(ctx, mail, msg)
	}

	switch configuration.C.Notify.Queue {
	case "pubsub":
		cfg := configuration.C.Pubsub
		client, err := pubsub.NewPubSub(ctx, cfg.ProjectID)
		if err != nil {
			return nil, nil, fmt.Errorf("pubsub: %w", err)
		}
		q := pubsub.NewEmailPubSub(client, cfg.Topic, cfg.Subscription)
		g.Go(func() error {
			defer client.Close()
			return q.Consume(ctx, deliver)
		})
		logger.GetLogger().WithField("topic", cfg.Topic).Info("Email queue: Google Pub/Sub")
		return q, nil, nil
	case "servicebus":
		cfg := configuration.C.ServiceBus
		client, err := servicebus.NewServiceBus(ctx, cfg.Namespace)
		if err != nil {
			return nil, nil, fmt.Errorf("service bus: %w", err)
		}
		q := servicebus.NewEmailServiceBus(client, cfg.Queue)
		g.Go(func() error {
			defer client.Close(context.Background())
			return q.Consume(ctx, deliver)
		})
		logger.GetLogger().WithField("queue", cfg.Queue).Info("Email queue: Azure Service Bus")
		return q, nil, nil
	}
	inline := mailer.NewInlineQueue(mail)
	logger.GetLogger().Info("Email queue: inline")
	return inline, inline, nil
}
