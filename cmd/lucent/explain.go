package main

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lucent-ml/lucent/attribution"
	"github.com/lucent-ml/lucent/autodiff"
	"github.com/lucent-ml/lucent/backend/cpu"
	"github.com/lucent-ml/lucent/internal/config"
	"github.com/lucent-ml/lucent/nn"
	"github.com/lucent-ml/lucent/tensor"
	"github.com/lucent-ml/lucent/visualize"
)

var (
	explainText   string
	explainMethod string
)

// explainCmd scores a demo model over the words of the given text and
// renders the results.
var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Attribute a demo model's prediction to the words of a text",
	Long: `Builds a small randomly initialized feed-forward model over the distinct
words of the given text, attributes its prediction back to each word with
the configured method, and renders the scores as an HTML highlight
document (and optionally a word cloud).

The model is a stand-in: training real models is out of scope, but the
attribution and rendering pipeline is the production one.`,
	RunE: runExplain,
}

func init() {
	explainCmd.Flags().StringVarP(&explainText, "text", "t", "the quick brown fox jumps over the lazy dog", "text to explain")
	explainCmd.Flags().StringVarP(&explainMethod, "method", "m", "", "attribution method: lrp, ig or gradient (overrides config)")
}

func runExplain(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if explainMethod != "" {
		cfg.Attribution.Method = explainMethod
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	words := tokenize(explainText)
	if len(words) == 0 {
		return fmt.Errorf("no words to explain in %q", explainText)
	}

	engine := autodiff.New(cpu.New())
	model := demoModel(len(words), engine)
	forward := func(x *tensor.RawTensor) *tensor.RawTensor {
		return model.Forward(tensor.New[float32](x, engine)).Raw()
	}

	input := tensor.Ones[float32](tensor.Shape{1, len(words)}, engine)

	method, err := buildMethod(cfg)
	if err != nil {
		return err
	}

	req := attribution.NewRequest(forward, input.Raw())
	logger.Info("attributing",
		zap.String("method", method.Name()),
		zap.String("run_id", req.ID.String()),
		zap.Int("features", len(words)))

	scores, err := method.Attribute(engine, req)
	if err != nil {
		return err
	}

	wts := make(map[string]float64, len(words))
	for i, score := range scores.AsFloat32() {
		wts[words[i]] = float64(score)
		logger.Debug("relevance", zap.String("word", words[i]), zap.Float64("weight", float64(score)))
	}

	if err := visualize.BuildExplainer(explainText, visualize.TableFromMap(wts),
		visualize.WithFontSize(cfg.Render.FontSize),
		visualize.WithFileName(cfg.Render.OutputFile),
		visualize.WithPosColormap(cfg.Render.PosColormap),
		visualize.WithNegColormap(cfg.Render.NegColormap),
		visualize.WithHighlightOOV(cfg.Render.HighlightOOV),
		visualize.WithExplainerLogger(logger),
	); err != nil {
		return err
	}

	if cfg.Render.WordCloud {
		opts := []visualize.CloudOption{
			visualize.WithPosColor(cfg.Render.PosColor),
			visualize.WithNegColor(cfg.Render.NegColor),
			visualize.WithThreshold(cfg.Render.Threshold),
			visualize.WithCloudLogger(logger),
		}
		if cfg.Render.MaskFile != "" {
			opts = append(opts, visualize.WithMaskFile(cfg.Render.MaskFile))
		}
		if _, err := visualize.GenerateWordCloud(wts, opts...); err != nil {
			return err
		}
	}

	fmt.Printf("explained %d words with %s, see %s.html\n", len(words), method.Name(), cfg.Render.OutputFile)
	return nil
}

func buildMethod(cfg *config.Config) (attribution.Method, error) {
	switch cfg.Attribution.Method {
	case "lrp":
		return attribution.NewLRP(cfg.Attribution.Epsilon)
	case "ig":
		return attribution.NewIntegratedGradients(attribution.WithSteps(cfg.Attribution.Steps))
	case "gradient":
		return attribution.NewRawGradient(), nil
	default:
		return nil, fmt.Errorf("unknown attribution method %q", cfg.Attribution.Method)
	}
}

type demoEngine = *autodiff.Engine[*cpu.Backend]

// demoModel builds a small feed-forward network with one input feature per
// word.
func demoModel(features int, engine demoEngine) *nn.Sequential[demoEngine] {
	hidden := max(4, features/2)
	return nn.NewSequential[demoEngine](
		nn.NewLinear(features, hidden, engine),
		nn.NewReLU[demoEngine](),
		nn.NewLinear(hidden, 1, engine),
		nn.NewSigmoid[demoEngine](),
	)
}

// tokenize returns the distinct words of text in first-occurrence order.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(fields))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		words = append(words, f)
	}
	return words
}
