package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/catalog-cards/constants"
	"github.com/joseph-ayodele/catalog-cards/internal/async"
	"github.com/joseph-ayodele/catalog-cards/internal/ingest"
	"github.com/joseph-ayodele/catalog-cards/internal/pipeline"
)

func newWatchCmd(root *rootFlags) *cobra.Command {
	var (
		noAI     bool
		noVision bool
		noJSON   bool
		lang     string
		debounce time.Duration
		workers  int
	)
	cmd := &cobra.Command{
		Use:   "watch <dir>...",
		Short: "Convert every PDF dropped into the given directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			language, ok := constants.ParseLanguage(lang)
			if !ok {
				return fmt.Errorf("unsupported language %q (choose %s)", lang, strings.Join(constants.LanguagesAsStringSlice(), ", "))
			}

			a, err := newApp(cmd.Context(), root.envFile, root.noHistory)
			if err != nil {
				return err
			}
			defer a.close()

			conv, err := a.converter(converterOptions{useAI: !noAI, useVision: !noAI && !noVision})
			if err != nil {
				return err
			}

			convert := func(ctx context.Context, path string) error {
				res, err := conv.Convert(ctx, path, pipeline.Options{
					OutputDir: a.cfg.Output.Dir,
					SaveJSON:  !noJSON,
					Language:  language,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d products)\n", path, res.Paths.HTML, len(res.Catalog.Products))
				return nil
			}

			uc := ingest.NewUsecase(convert, a.logger)
			q := async.NewProcessorQueue(cmd.Context(), func(ctx context.Context, path string) error {
				_, err := uc.IngestPath(ctx, path)
				return err
			}, a.logger, async.WithWorkers(workers), async.WithProcessTimeout(a.cfg.LLM.Timeout*3))
			defer q.Shutdown(context.Background())

			a.logger.Info("watch.start", "roots", args, "output_dir", a.cfg.Output.Dir, "workers", workers)
			return uc.Watch(cmd.Context(), args, debounce, q)
		},
	}
	cmd.Flags().BoolVar(&noAI, "no-ai", false, "disable AI analysis (use rules only)")
	cmd.Flags().BoolVar(&noVision, "no-vision", false, "disable vision AI (use text AI only)")
	cmd.Flags().BoolVar(&noJSON, "no-json", false, "do not save intermediate JSON files")
	cmd.Flags().StringVar(&lang, "lang", string(constants.English), "output language (english, persian, chinese)")
	cmd.Flags().IntVar(&workers, "workers", 1, "conversions to run at once")
	cmd.Flags().DurationVar(&debounce, "debounce", 2*time.Second, "wait this long after the last write before converting")
	return cmd
}
