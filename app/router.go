package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bitwise74/portal-api/app/application"
	"bitwise74/portal-api/app/cron"
	"bitwise74/portal-api/app/root"
	"bitwise74/portal-api/app/user"
	"bitwise74/portal-api/aws"
	"bitwise74/portal-api/cloudflare"
	"bitwise74/portal-api/db"
	"bitwise74/portal-api/internal"
	"bitwise74/portal-api/internal/service"
	"bitwise74/portal-api/internal/store"
	"bitwise74/portal-api/pkg/middleware"
	"bitwise74/portal-api/pkg/security"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

// NewDeps builds every dependency from the loaded configuration
func NewDeps(ctx context.Context) (*internal.Deps, error) {
	d := &internal.Deps{
		CronSecret: viper.GetString("cron.secret"),
	}

	gdb, err := db.New(viper.GetString("db.driver"), viper.GetString("db.dsn"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	d.DB = gdb
	d.Repo = store.New(gdb)

	hasher, err := security.NewHasher(viper.GetString("security.password_hash"), viper.GetInt("security.bcrypt_cost"))
	if err != nil {
		return nil, err
	}

	mailer := service.NewSMTPMailer(service.SMTPConfig{
		Host:     viper.GetString("mail.host"),
		Port:     viper.GetInt("mail.port"),
		Username: viper.GetString("mail.username"),
		Password: viper.GetString("mail.password"),
		From:     viper.GetString("mail.sender_address"),
		SiteName: viper.GetString("mail.site_name"),
	})

	attempts, err := newAttemptLimiter(ctx)
	if err != nil {
		return nil, err
	}

	assets, err := newAssetStore(ctx)
	if err != nil {
		return nil, err
	}

	d.Registrar = service.NewRegistrar(d.Repo, hasher, security.NumericCode{Length: viper.GetInt("verification.code_length")}, mailer)
	d.Verifier = service.NewVerifier(d.Repo, mailer, attempts)
	d.Sweeper = service.NewSweeper(d.Repo, assets, viper.GetDuration("cleanup.retention"))
	d.Applications = service.NewApplications(d.Repo)

	return d, nil
}

func newAttemptLimiter(ctx context.Context) (service.AttemptLimiter, error) {
	limit := viper.GetInt("verification.max_attempts")
	window := viper.GetDuration("verification.lockout")

	addr := viper.GetString("redis.addr")
	if addr == "" {
		zap.L().Debug("No redis configured, counting verification attempts in memory")
		return service.NewMemoryAttempts(limit, window), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: viper.GetString("redis.password"),
		DB:       viper.GetInt("redis.db"),
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis, %w", err)
	}

	return service.NewRedisAttempts(rdb, limit, window), nil
}

func newAssetStore(ctx context.Context) (service.AssetStore, error) {
	switch viper.GetString("storage.type") {
	case "s3":
		s3, err := aws.NewS3(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
		}
		return s3, nil
	case "r2":
		r2, err := cloudflare.NewR2(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize R2 client, %w", err)
		}
		return r2, nil
	}

	zap.L().Warn("No storage configured, swept images will be kept as orphaned assets")
	return nil, nil
}

// NewRouter builds the HTTP routes. Background work started for the router
// stops once ctx is done
func NewRouter(ctx context.Context, d *internal.Deps) *gin.Engine {
	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     corsOrigins(),
			AllowMethods:     []string{"GET", "POST", "PUT", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true

	turnstile := middleware.NewTurnstileMiddleware()
	cronAuth := middleware.NewBearerSecretMiddleware(d.CronSecret)

	main := router.Group("/api")

	if rps := viper.GetInt("security.rate_limit"); rps > 0 {
		rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: rps,
			Burst:             rps * 2,
		})
		go rl.Cleanup(ctx)

		main.Use(rl.Handler())
	}

	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", func(c *gin.Context) { root.Heartbeat(c, d) })
	}

	signup := main.Group("/signup", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/signup		-> Registers a user or resends the verification code
		signup.POST("", turnstile, func(c *gin.Context) { user.UserSignup(c, d) })

		// PUT /api/signup		-> Verifies an email with the mailed code
		signup.PUT("", func(c *gin.Context) { user.UserVerify(c, d) })
	}

	applications := main.Group("/applications", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/applications/pending	-> Stores an application that isn't submitted yet
		applications.POST("/pending", func(c *gin.Context) { application.PendingCreate(c, d) })
	}

	{
		// GET /api/cron/cleanup-pending-applications	-> Sweeps abandoned applications
		main.GET("/cron/cleanup-pending-applications", cronAuth, func(c *gin.Context) { cron.CleanupPendingApplications(c, d) })
	}

	// GET /metrics			-> Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// corsOrigins accepts both a list and a comma separated string
func corsOrigins() []string {
	var out []string

	for _, o := range viper.GetStringSlice("host.cors_origins") {
		for _, s := range strings.Split(o, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}

	if len(out) == 0 {
		out = []string{"http://localhost:5173"}
	}

	return out
}

func MakeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	if lvl, err := zapcore.ParseLevel(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}
