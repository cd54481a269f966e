package main

import (
	"log"
	"os"
	"time"

	"proposalgen/internal/api"
	"proposalgen/internal/config"
	"proposalgen/internal/ingest"
	"proposalgen/internal/pipeline"
	"proposalgen/internal/service/render"
	"proposalgen/internal/service/research"
	"proposalgen/internal/service/strategy"
	"proposalgen/internal/service/transcribe"
	"proposalgen/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := os.Getenv("PROPOSALGEN_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	files, err := ingest.NewStore(cfg.BasicConfig.TempDir)
	if err != nil {
		log.Fatalf("init temp storage: %v", err)
	}

	pool := worker.NewPool(
		cfg.BasicConfig.MinWorkers,
		cfg.BasicConfig.MaxWorkers,
		cfg.BasicConfig.QueueSize,
		time.Duration(cfg.BasicConfig.WorkerIdleTimeout)*time.Minute,
	)
	defer pool.Stop()

	var (
		transcriber pipeline.Transcriber
		researcher  pipeline.Researcher
		strategist  pipeline.Strategist
		renderer    pipeline.Renderer
	)
	if cfg.BasicConfig.DryRun {
		log.Printf("dry-run mode: remote providers replaced with fixed responses")
		transcriber = transcribe.NewFixed()
		researcher = research.NewFixed()
		strategist = strategy.NewFixed()
		renderer = render.NewFixed()
	} else {
		transcriber = transcribe.NewGroqClient(cfg.Provider("groq"))
		researcher = research.NewService(cfg.Provider("apify"))
		strategist, err = strategy.NewLLMStrategist(cfg)
		if err != nil {
			log.Fatalf("init strategist: %v", err)
		}
		renderer = render.NewPDFMonkeyClient(cfg.Provider("pdfmonkey"))
	}

	pipe := pipeline.New(pipeline.Options{
		Files:       files,
		Transcriber: transcriber,
		Researcher:  researcher,
		Strategist:  strategist,
		Renderer:    renderer,
		Pool:        pool,
		Parallel:    true,
	})

	handlers := api.NewHandler(pipe, cfg.BasicConfig.ServiceName)
	router := gin.Default()
	handlers.RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":8000"
	}
	if err := router.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
