package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/joseph-ayodele/catalog-cards/internal/common"
	"github.com/joseph-ayodele/catalog-cards/internal/export"
	"github.com/joseph-ayodele/catalog-cards/internal/extract"
	"github.com/joseph-ayodele/catalog-cards/internal/llm"
	"github.com/joseph-ayodele/catalog-cards/internal/llm/providers"
	"github.com/joseph-ayodele/catalog-cards/internal/pipeline"
	"github.com/joseph-ayodele/catalog-cards/internal/render"
	"github.com/joseph-ayodele/catalog-cards/internal/repository"
	"github.com/joseph-ayodele/catalog-cards/internal/structure"
	"github.com/joseph-ayodele/catalog-cards/internal/translate"
)

// app holds what every command shares: config, logger and the optional
// history store.
type app struct {
	cfg    *common.Config
	logger *slog.Logger
	db     *repository.DB
	runs   repository.ConversionRunRepository
}

func newApp(ctx context.Context, envFile string, noHistory bool) (*app, error) {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg := common.LoadConfig(files...)

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: common.ParseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	if noHistory {
		return a, nil
	}

	db, err := repository.Open(ctx, repository.Config{
		DSN:         cfg.Database.DSN,
		MaxConns:    4,
		DialTimeout: cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		// history is optional for conversions
		logger.Warn("history store unavailable", "error", err)
		return a, nil
	}
	a.db = db
	a.runs = repository.NewConversionRunRepository(db, logger)
	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		repository.Close(a.db, a.logger)
	}
}

func (a *app) credentials() llm.Credentials {
	p := a.cfg.Providers
	return llm.Credentials{
		DeepSeek:    p.DeepSeek,
		Anthropic:   p.Anthropic,
		HuggingFace: p.HuggingFace,
		Google:      p.Google,
		OpenAI:      p.OpenAI,
	}
}

func (a *app) models() providers.Models {
	m := a.cfg.Models
	return providers.Models{
		DeepSeek:    m.DeepSeek,
		Anthropic:   m.Anthropic,
		HuggingFace: m.HuggingFace,
		Google:      m.Google,
		OpenAI:      m.OpenAI,
	}
}

// gateway builds the completion backend for the configured credentials.
// With no usable credentials it reports ProviderNone.
func (a *app) gateway() (*llm.Gateway, error) {
	p, err := providers.Select(a.credentials(), a.models(), nil)
	if err != nil {
		return nil, err
	}
	return llm.NewGateway(p, llm.GatewayConfig{
		Timeout:         a.cfg.LLM.Timeout,
		RequestsPerMin:  a.cfg.LLM.RequestsPerMin,
		BreakerFailures: a.cfg.LLM.BreakerFailures,
		BreakerCooldown: a.cfg.LLM.BreakerCooldown,
	}, a.logger), nil
}

type converterOptions struct {
	useAI     bool
	useVision bool
	progress  extract.ProgressFunc
	summary   io.Writer
}

func (a *app) converter(opts converterOptions) (*pipeline.Converter, error) {
	gw, err := a.gateway()
	if err != nil {
		return nil, err
	}

	exOpts := []extract.Option{}
	if opts.progress != nil {
		exOpts = append(exOpts, extract.WithProgress(opts.progress))
	}
	ex := extract.NewExtractor(extract.Config{
		PdfToText:     a.cfg.Extract.PdfToText,
		ImagesDir:     a.cfg.Extract.ImagesDir,
		DPI:           a.cfg.Extract.DPI,
		Workers:       a.cfg.Extract.Workers,
		Tesseract:     a.cfg.Extract.Tesseract,
		TesseractLang: a.cfg.Extract.TesseractLang,
	}, a.logger, exOpts...)

	st := structure.NewStructurer(gw, structure.Options{
		UseAI:     opts.useAI,
		UseVision: opts.useVision,
		Timeout:   a.cfg.LLM.Timeout,
	}, a.logger)
	tr := translate.New(gw, translate.Config{
		Timeout:       a.cfg.LLM.Timeout,
		HelperTimeout: a.cfg.LLM.HelperTimeout,
	}, a.logger)

	return pipeline.NewConverter(a.logger,
		pipeline.NewExtractStage(ex, a.runs, a.logger),
		pipeline.NewStructureStage(st, tr, a.logger),
		render.NewRenderer(a.logger),
		export.NewService(a.logger),
		a.runs,
		opts.summary,
	), nil
}
