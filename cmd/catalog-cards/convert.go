package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/catalog-cards/constants"
	"github.com/joseph-ayodele/catalog-cards/internal/pipeline"
)

type convertFlags struct {
	output   string
	noAI     bool
	noVision bool
	aiOnly   bool
	noJSON   bool
	lang     string
	xlsx     string
}

func newConvertCmd(root *rootFlags) *cobra.Command {
	f := &convertFlags{}
	cmd := &cobra.Command{
		Use:   "convert <pdf>",
		Short: "Convert one PDF catalog into a shopping page",
		Example: `  catalog-cards convert catalog.pdf
  catalog-cards convert catalog.pdf -o product.html
  catalog-cards convert catalog.pdf --no-ai
  catalog-cards convert catalog.pdf --ai-only --lang persian`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, ok := constants.ParseLanguage(f.lang)
			if !ok {
				return fmt.Errorf("unsupported language %q (choose %s)", f.lang, strings.Join(constants.LanguagesAsStringSlice(), ", "))
			}

			a, err := newApp(cmd.Context(), root.envFile, root.noHistory)
			if err != nil {
				return err
			}
			defer a.close()

			pdfPath := args[0]
			useAI := !f.noAI
			useVision := useAI && !f.noVision && !f.aiOnly

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Input: %s\nAI Enabled: %t\nVision AI: %t\nLanguage: %s\n\n", pdfPath, useAI, useVision, lang)

			conv, err := a.converter(converterOptions{
				useAI:     useAI,
				useVision: useVision,
				progress:  pageProgress(),
				summary:   out,
			})
			if err != nil {
				return err
			}

			_, err = conv.Convert(cmd.Context(), pdfPath, pipeline.Options{
				Output:    f.output,
				OutputDir: a.cfg.Output.Dir,
				SaveJSON:  !f.noJSON,
				Language:  lang,
				XLSXPath:  f.xlsx,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output HTML file path")
	cmd.Flags().BoolVar(&f.noAI, "no-ai", false, "disable AI analysis (use rules only)")
	cmd.Flags().BoolVar(&f.noVision, "no-vision", false, "disable vision AI (use text AI only)")
	cmd.Flags().BoolVar(&f.aiOnly, "ai-only", false, "use AI without vision")
	cmd.Flags().BoolVar(&f.noJSON, "no-json", false, "do not save intermediate JSON files")
	cmd.Flags().StringVar(&f.lang, "lang", string(constants.English), "output language (english, persian, chinese)")
	cmd.Flags().StringVar(&f.xlsx, "xlsx", "", "also export products to this XLSX file")
	return cmd
}

// pageProgress draws a bar on stderr once the page count is known.
func pageProgress() func(done, total int) {
	var (
		once sync.Once
		mu   sync.Mutex
		bar  *progressbar.ProgressBar
	)
	return func(done, total int) {
		once.Do(func() {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("Extracting pages"),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetItsString("pages"),
				progressbar.OptionOnCompletion(func() { fmt.Fprint(os.Stderr, "\n") }),
			)
		})
		mu.Lock()
		defer mu.Unlock()
		_ = bar.Set(done)
	}
}
