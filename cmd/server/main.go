package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"presentation-orchestrator/internal/platform/config"
	"presentation-orchestrator/internal/platform/health"
	"presentation-orchestrator/internal/platform/logger"
	"presentation-orchestrator/internal/platform/metrics"
	"presentation-orchestrator/internal/player"
	"presentation-orchestrator/internal/presentation"
	"presentation-orchestrator/internal/viewport"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = config.Load()

	port := config.GetEnv("PORT", "8080")
	presFile := config.GetEnv("PRESENTATION_FILE", "presentation.yaml")
	publicURL := config.GetEnv("PUBLIC_URL", "")
	logLevel := config.GetEnv("LOG_LEVEL", "info")
	logFormat := config.GetEnv("LOG_FORMAT", "json")
	tickMs := config.GetEnvInt("TICK_MS", 16)

	log := logger.New(logLevel, logFormat)

	pres, err := presentation.Load(presFile)
	if err != nil {
		log.Error("presentation load failed", "file", presFile, "error", err)
		os.Exit(1)
	}

	vp, err := viewport.New(pres.Layers)
	if err != nil {
		log.Error("viewport setup failed", "error", err)
		os.Exit(1)
	}

	p, err := player.New(pres, vp, time.Duration(tickMs)*time.Millisecond, log)
	if err != nil {
		log.Error("player setup failed", "error", err)
		os.Exit(1)
	}

	met := metrics.New()
	h := player.NewHandler(p, pres, log, met, publicURL)

	// Count frame changes as they settle, independent of any connected
	// remote.
	frameEvents := p.Events().Subscribe(16)
	go func() {
		for range frameEvents {
			met.IncFrameChanges()
		}
	}()

	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		met.Handler(func() {
			met.SetPlaying(p.Playing())
			met.SetSubscribers(p.Events().Len())
		}).ServeHTTP(w, req)
	})
	r.Get("/healthz", health.Handler().ServeHTTP)
	r.Get("/presentation", h.GetPresentation)
	r.Get("/remote/qr.png", h.RemoteQR)
	r.Route("/playback", func(r chi.Router) {
		r.Get("/", h.GetStatus)
		r.Get("/events", h.Events)
		r.Post("/play", h.Play)
		r.Post("/pause", h.Pause)
		r.Post("/resume", h.Resume)
		r.Post("/jump", h.Jump)
		r.Post("/move", h.Move)
		r.Post("/preview", h.Preview)
		r.Post("/blank", h.Blank)
	})

	// Start at the first frame, playing; auto-advance takes over if the
	// frame has a timeout.
	p.PlayFrom(0)

	addr := ":" + port
	srv := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting",
			"port", port,
			"presentation", presFile,
			"frames", pres.FrameCount(),
			"log_level", logLevel,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutdown signal received, draining connections")
		p.Pause()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
