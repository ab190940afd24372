package visualize

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Out-of-vocabulary words render with this fixed dim blue.
var oovColor = [3]uint8{26, 26, 255}

const (
	matchedAlpha        = 0.5
	oovHighlightedAlpha = 0.2
)

type explainerOptions struct {
	fontSize     string
	fileName     string
	metaInf      string
	posColormap  string
	negColormap  string
	highlightOOV bool
	logger       *zap.Logger
}

// ExplainerOption configures BuildExplainer and RenderExplainer.
type ExplainerOption func(*explainerOptions)

// WithFontSize sets the CSS font size of the document (default "12pt").
func WithFontSize(size string) ExplainerOption {
	return func(o *explainerOptions) { o.fontSize = size }
}

// WithFileName sets the output file path without extension (default
// "rendered"); BuildExplainer appends ".html".
func WithFileName(name string) ExplainerOption {
	return func(o *explainerOptions) { o.fileName = name }
}

// WithMetaInf prepends a free-form header line to the document, e.g. the
// true class of the explained sample.
func WithMetaInf(info string) ExplainerOption {
	return func(o *explainerOptions) { o.metaInf = info }
}

// WithPosColormap names the colormap for non-negative weights (default
// "Reds").
func WithPosColormap(name string) ExplainerOption {
	return func(o *explainerOptions) { o.posColormap = name }
}

// WithNegColormap names the colormap for negative weights (default "Blues").
func WithNegColormap(name string) ExplainerOption {
	return func(o *explainerOptions) { o.negColormap = name }
}

// WithHighlightOOV makes out-of-vocabulary words visible with a faint
// background instead of a fully transparent one.
func WithHighlightOOV(highlight bool) ExplainerOption {
	return func(o *explainerOptions) { o.highlightOOV = highlight }
}

// WithExplainerLogger attaches a logger; the default discards everything.
func WithExplainerLogger(logger *zap.Logger) ExplainerOption {
	return func(o *explainerOptions) { o.logger = logger }
}

func newExplainerOptions(opts []ExplainerOption) *explainerOptions {
	o := &explainerOptions{
		fontSize:    "12pt",
		fileName:    "rendered",
		posColormap: "Reds",
		negColormap: "Blues",
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// BuildExplainer renders text as an HTML document with each listed word
// background-colored by its relevance weight and writes it to
// "<FileName>.html" (UTF-8). Words absent from wts pass through
// unhighlighted; listed words with nil weights are treated as
// out-of-vocabulary.
func BuildExplainer(text string, wts RelevanceTable, opts ...ExplainerOption) error {
	o := newExplainerOptions(opts)

	doc, err := renderExplainer(text, wts, o)
	if err != nil {
		return err
	}

	path := o.fileName + ".html"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write explainer: %w", err)
	}
	o.logger.Info("wrote explainer document", zap.String("path", path))
	return nil
}

// RenderExplainer returns the HTML document BuildExplainer would write,
// without touching the filesystem.
func RenderExplainer(text string, wts RelevanceTable, opts ...ExplainerOption) (string, error) {
	return renderExplainer(text, wts, newExplainerOptions(opts))
}

func renderExplainer(text string, wts RelevanceTable, o *explainerOptions) (string, error) {
	posMap, err := ColormapByName(o.posColormap)
	if err != nil {
		return "", fmt.Errorf("positive colormap: %w", err)
	}
	negMap, err := ColormapByName(o.negColormap)
	if err != nil {
		return "", fmt.Errorf("negative colormap: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(`<body><div style="background-color:#F5F5F5; white-space: pre-wrap; font-size: `)
	sb.WriteString(o.fontSize)
	sb.WriteString(`; font-family: Verdana;">`)
	if o.metaInf != "" {
		sb.WriteString(o.metaInf)
		sb.WriteString("\n\n")
	}

	// Cursor into text; advances monotonically so each byte of the input
	// is emitted exactly once.
	cursor := 0
	for _, wr := range AssignWordRelevance(text, wts) {
		idx := indexWord(text, wr.Word, cursor)
		if idx < 0 {
			// Earlier match consumed this word's only occurrence.
			continue
		}
		sb.WriteString(text[cursor:idx])
		cursor = idx + len(wr.Word)

		r, g, b, alpha := wordColor(wr, posMap, negMap, o.highlightOOV)
		fmt.Fprintf(&sb, `<span style="background-color: rgba(%d, %d, %d, %.1f)">%s</span>`,
			r, g, b, alpha, wr.Word)
	}
	sb.WriteString(text[cursor:])
	sb.WriteString(`</div></body>`)

	return sb.String(), nil
}

func wordColor(wr WordRelevance, posMap, negMap *Colormap, highlightOOV bool) (r, g, b uint8, alpha float64) {
	if wr.Weight == nil {
		alpha = 0.0
		if highlightOOV {
			alpha = oovHighlightedAlpha
		}
		return oovColor[0], oovColor[1], oovColor[2], alpha
	}

	wt := *wr.Weight
	if wt < 0 {
		r, g, b = negMap.SampleRGB(-wt)
	} else {
		r, g, b = posMap.SampleRGB(wt)
	}
	return r, g, b, matchedAlpha
}
