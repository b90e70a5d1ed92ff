package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/audiocorpus/speechapi/internal/api/handlers"
	"github.com/audiocorpus/speechapi/internal/api/middleware"
	"github.com/audiocorpus/speechapi/internal/audio"
	"github.com/audiocorpus/speechapi/internal/cache"
	"github.com/audiocorpus/speechapi/internal/config"
	"github.com/audiocorpus/speechapi/internal/inference"
	"github.com/audiocorpus/speechapi/internal/media"
	"github.com/audiocorpus/speechapi/internal/transcribe"
)

type Router struct {
	mux      *chi.Mux
	redis    *redis.Client
	cfg      *config.Config
	provider inference.Provider
}

func NewRouter(rdb *redis.Client, provider inference.Provider, cfg *config.Config) *Router {
	return &Router{
		mux:      chi.NewRouter(),
		redis:    rdb,
		cfg:      cfg,
		provider: provider,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(10, 20)
	r.Use(rl.Limit)

	// Initialize services
	pipeline := &audio.Pipeline{
		Codec: audio.Codec{
			FFmpegPath: rt.cfg.Audio.FFmpegPath,
			TempDir:    rt.cfg.Audio.TempDir,
		},
		TargetSampleRate:  rt.cfg.Audio.TargetSampleRate,
		MaxSegmentSeconds: rt.cfg.Audio.MaxSegmentSeconds,
		TempDir:           rt.cfg.Audio.TempDir,
	}

	var transcriptCache *cache.Cache
	if rt.redis != nil && rt.cfg.Cache.Enabled {
		transcriptCache = cache.New(rt.redis)
	}
	svc := transcribe.NewService(pipeline, rt.provider, transcriptCache, rt.cfg.Cache.TTL())

	health := handlers.NewHealthHandler(rt.redis, rt.cfg.Audio.FFmpegPath)
	r.Get("/", health.Root)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	transcribeH := handlers.NewTranscribeHandler(svc, rt.cfg.Audio.TempDir, rt.cfg.MaxUploadBytes())
	r.Post("/transcribe/", transcribeH.Transcribe)

	mediaH := handlers.NewMediaHandler(media.NewStore(rt.cfg.Audio.MediaDir))
	r.Get("/media/{fileName}", mediaH.Get)

	return r
}
