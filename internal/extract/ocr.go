package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// runs of box-drawing and pipe characters tesseract emits for table rules
var reBoxNoise = regexp.MustCompile(`[|│┃─━┼]{3,}`)

// ocrImage runs tesseract on a rendered page, for scanned pages that carry
// no text layer.
func (e *Extractor) ocrImage(ctx context.Context, imagePath string) (string, error) {
	args := []string{imagePath, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 512))
	}
	txt := reBoxNoise.ReplaceAllString(string(out), "")
	return strings.TrimSpace(strings.ReplaceAll(txt, "\f", "")), nil
}
