package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"toolstore/internal/cache"
	"toolstore/internal/config"
	"toolstore/internal/http/handlers"
	applog "toolstore/internal/log"
	"toolstore/internal/mail"
	"toolstore/internal/media"
	"toolstore/internal/metrics"
	"toolstore/internal/oauth"
	"toolstore/internal/payment"
	"toolstore/internal/repos"
	"toolstore/internal/repos/mongostore"
	"toolstore/internal/store"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	st, err := openStore(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	deps := handlers.NewDeps(st, cfg, collaborators(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if n, err := deps.Auth.SeedAdmins(ctx); err != nil {
		log.Printf("[warn] admin seed failed: %v", err)
	} else {
		log.Printf("[auth] %d admin account(s) promoted", n)
	}
	if cfg.PendingSweepInterval > 0 {
		go sweepPending(ctx, deps, cfg.PendingSweepInterval)
	}

	var limitStore fiber.Storage
	if cfg.RedisURL != "" {
		rs, err := cache.NewStoreFromURL(cfg.RedisURL, "toolstore:limiter:")
		if err != nil {
			log.Printf("[warn] redis unavailable, rate limits are per-process: %v", err)
		} else {
			defer rs.Close()
			limitStore = rs
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      "toolstore",
		BodyLimit:    handlers.MaxImageSize + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(metrics.Middleware())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Storage:    limitStore,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return p == "/health" || p == "/metrics"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))
	authLimit := limiter.New(limiter.Config{
		Max:        10,
		Expiration: 10 * time.Minute,
		Storage:    limitStore,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|auth"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.auth.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
		},
	})

	app.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })
	app.Get("/metrics", metrics.Handler())
	handlers.Routes(app, deps, authLimit)
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Route not found"})
	})

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("[warn] shutdown: %v", err)
		}
	}()

	log.Printf("[http] listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func openStore(cfg config.Config) (store.Store, error) {
	if cfg.DBDriver == "mongo" {
		ms, err := mongostore.NewStore(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		log.Printf("[db] mongo database %s", cfg.MongoDB)
		return ms, nil
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	log.Printf("[db] sqlite %s", cfg.DBDSN)
	return repos.NewStore(db), nil
}

// collaborators enables each outside service only when it is configured.
func collaborators(cfg config.Config) handlers.Collaborators {
	ext := handlers.Collaborators{
		Mail: mail.New(mail.SMTPConfig{
			Host: cfg.SMTP.Host,
			Port: cfg.SMTP.Port,
			User: cfg.SMTP.User,
			Pass: cfg.SMTP.Pass,
			From: cfg.SMTP.From,
		}),
	}
	if cfg.RazorpayKeyID != "" && cfg.RazorpayKeySecret != "" {
		ext.Payments = payment.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	} else {
		log.Printf("[payment] razorpay keys not set; issuing offline order ids")
	}
	if cfg.GoogleClientID != "" {
		ext.Google = oauth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL)
	}
	if strings.TrimSpace(cfg.MinIO.Endpoint) != "" {
		ms, err := media.New(media.Config{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
			PublicURL: cfg.MinIO.PublicURL,
		})
		if err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err = ms.EnsureBucket(ctx)
			cancel()
		}
		if err != nil {
			log.Printf("[warn] image storage disabled: %v", err)
		} else {
			ext.Images = ms
		}
	}
	return ext
}

func sweepPending(ctx context.Context, deps *handlers.Deps, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := deps.Auth.SweepExpired(ctx)
			if err != nil {
				applog.Error(nil, "pending.sweep.fail", err, nil)
				continue
			}
			if n > 0 {
				applog.Info(nil, "pending.sweep", map[string]any{"deleted": n})
			}
		}
	}
}
