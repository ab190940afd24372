package visualize

import (
	"fmt"
	"image"
	_ "image/jpeg" // mask decoding
	_ "image/png"  // mask decoding
	"math"
	"math/rand"
	"os"
	"sort"

	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Nudge applied to exact-zero weights before rendering. Frequency-based
// cloud layouts divide by the weight mass, and an all-zero run turns that
// into a division by zero. This is a renderer-compatibility shim, not part
// of the relevance semantics.
const zeroWeightNudge = 1e-9

const wordCloudFile = "word_cloud.png"

const (
	defaultCloudWidth  = 800
	defaultCloudHeight = 400
	minFontSize        = 14.0
	maxFontSize        = 72.0
)

var cssColors = map[string]string{
	"blue":   "#0000ff",
	"red":    "#ff0000",
	"yellow": "#ffff00",
	"green":  "#008000",
	"orange": "#ffa500",
	"purple": "#800080",
	"black":  "#000000",
	"grey":   "#808080",
	"gray":   "#808080",
	"white":  "#ffffff",
}

type cloudOptions struct {
	posColor   string
	negColor   string
	threshold  float64
	saveToFile bool
	maskFile   string
	width      int
	height     int
	logger     *zap.Logger
}

// CloudOption configures GenerateWordCloud.
type CloudOption func(*cloudOptions)

// WithPosColor names the color of the positive bucket (default "blue").
func WithPosColor(name string) CloudOption {
	return func(o *cloudOptions) { o.posColor = name }
}

// WithNegColor names the color of the negative bucket (default "red").
func WithNegColor(name string) CloudOption {
	return func(o *cloudOptions) { o.negColor = name }
}

// WithThreshold sets the bucket split point (default 0.1): words with
// weight < threshold land in the negative bucket.
func WithThreshold(threshold float64) CloudOption {
	return func(o *cloudOptions) { o.threshold = threshold }
}

// WithSaveToFile controls writing word_cloud.png (default true).
func WithSaveToFile(save bool) CloudOption {
	return func(o *cloudOptions) { o.saveToFile = save }
}

// WithMaskFile constrains the cloud to the non-white area of an image file.
func WithMaskFile(path string) CloudOption {
	return func(o *cloudOptions) { o.maskFile = path }
}

// WithCloudSize sets the canvas size in pixels; ignored when a mask is used
// because the mask dictates the canvas.
func WithCloudSize(width, height int) CloudOption {
	return func(o *cloudOptions) { o.width, o.height = width, height }
}

// WithCloudLogger attaches a logger; the default discards everything.
func WithCloudLogger(logger *zap.Logger) CloudOption {
	return func(o *cloudOptions) { o.logger = logger }
}

// Cloud is a rendered word-cloud image.
type Cloud struct {
	img image.Image
}

// Image returns the rendered image.
func (c *Cloud) Image() image.Image {
	return c.img
}

// Save writes the cloud to path as a PNG.
func (c *Cloud) Save(path string) error {
	if err := gg.SavePNG(path, c.img); err != nil {
		return fmt.Errorf("save word cloud: %w", err)
	}
	return nil
}

// ColorBuckets partitions words into the two color buckets used by the
// word cloud: weight < threshold goes to negColor, the rest to posColor.
// Bucket order is positive first, which is also the lookup order when a
// word is colored.
func ColorBuckets(wts map[string]float64, posColor, negColor string, threshold float64) map[string][]string {
	buckets := map[string][]string{posColor: {}, negColor: {}}
	for _, word := range sortedWords(wts) {
		if wts[word] < threshold {
			buckets[negColor] = append(buckets[negColor], word)
		} else {
			buckets[posColor] = append(buckets[posColor], word)
		}
	}
	return buckets
}

// GenerateWordCloud renders the weighted words as a word cloud, sized by
// weight magnitude and colored by bucket (see ColorBuckets). It writes
// word_cloud.png unless disabled and returns the rendered Cloud.
func GenerateWordCloud(wts map[string]float64, opts ...CloudOption) (*Cloud, error) {
	o := &cloudOptions{
		posColor:   "blue",
		negColor:   "red",
		threshold:  0.1,
		saveToFile: true,
		width:      defaultCloudWidth,
		height:     defaultCloudHeight,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if len(wts) == 0 {
		return nil, fmt.Errorf("word cloud: no words to render")
	}

	buckets := ColorBuckets(wts, o.posColor, o.negColor, o.threshold)
	bucketOrder := []string{o.posColor, o.negColor}

	// Nudge after bucketing so the split still sees the true zero.
	weights := make(map[string]float64, len(wts))
	for word, wt := range wts {
		if wt == 0 {
			wt = zeroWeightNudge
		}
		weights[word] = wt
	}

	var mask image.Image
	if o.maskFile != "" {
		f, err := os.Open(o.maskFile)
		if err != nil {
			return nil, fmt.Errorf("word cloud mask: %w", err)
		}
		defer f.Close()
		mask, _, err = image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("word cloud mask: %w", err)
		}
		bounds := mask.Bounds()
		o.width, o.height = bounds.Dx(), bounds.Dy()
	}

	colorFor := func(word string, rng *rand.Rand) colorful.Color {
		name := "yellow"
		for _, bucketName := range bucketOrder {
			if containsWord(buckets[bucketName], word) {
				name = bucketName
				break
			}
		}
		return shadeOf(name, rng)
	}

	img, err := layoutCloud(weights, mask, o, colorFor)
	if err != nil {
		return nil, err
	}

	cloud := &Cloud{img: img}
	if o.saveToFile {
		if err := cloud.Save(wordCloudFile); err != nil {
			return nil, err
		}
		o.logger.Info("wrote word cloud", zap.String("path", wordCloudFile), zap.Int("words", len(weights)))
	}
	return cloud, nil
}

// layoutCloud places words center-out on an archimedean spiral, largest
// weight first, skipping positions that collide with placed words or fall
// outside the mask.
func layoutCloud(weights map[string]float64, mask image.Image, o *cloudOptions, colorFor func(string, *rand.Rand) colorful.Color) (image.Image, error) {
	ctx := gg.NewContext(o.width, o.height)
	ctx.SetRGB(1, 1, 1)
	ctx.Clear()

	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("word cloud font: %w", err)
	}

	maxMag := 0.0
	for _, wt := range weights {
		maxMag = math.Max(maxMag, math.Abs(wt))
	}

	words := sortedWords(weights)
	sort.SliceStable(words, func(i, j int) bool {
		return math.Abs(weights[words[i]]) > math.Abs(weights[words[j]])
	})

	// Fixed seed keeps repeated renders of the same table identical.
	rng := rand.New(rand.NewSource(0))

	var placed []image.Rectangle
	for _, word := range words {
		size := minFontSize
		if maxMag > 0 {
			size += (maxFontSize - minFontSize) * math.Abs(weights[word]) / maxMag
		}

		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: size, DPI: 72})
		if err != nil {
			return nil, fmt.Errorf("word cloud font face: %w", err)
		}
		ctx.SetFontFace(face)
		w, h := ctx.MeasureString(word)

		rect, ok := placeOnSpiral(int(w), int(h), o.width, o.height, mask, placed, rng)
		if !ok {
			// Canvas is full; smaller words will not fit either area-wise,
			// but try them anyway since their boxes are narrower.
			continue
		}
		placed = append(placed, rect)

		c := colorFor(word, rng)
		ctx.SetRGB(c.R, c.G, c.B)
		ctx.DrawString(word, float64(rect.Min.X), float64(rect.Max.Y)-h*0.2)
	}

	return ctx.Image(), nil
}

// placeOnSpiral walks an archimedean spiral from the canvas center until a
// w x h box fits without collisions.
func placeOnSpiral(w, h, width, height int, mask image.Image, placed []image.Rectangle, rng *rand.Rand) (image.Rectangle, bool) {
	cx, cy := float64(width)/2, float64(height)/2
	start := rng.Float64() * 2 * math.Pi

	const maxTurns = 40
	for t := 0.0; t < maxTurns*2*math.Pi; t += 0.35 {
		r := 3 * t
		x := int(cx + r*math.Cos(t+start) - float64(w)/2)
		y := int(cy + r*math.Sin(t+start) - float64(h)/2)

		rect := image.Rect(x-2, y-2, x+w+2, y+h+2)
		if rect.Min.X < 0 || rect.Min.Y < 0 || rect.Max.X > width || rect.Max.Y > height {
			continue
		}
		if mask != nil && !maskAllows(mask, rect) {
			continue
		}
		if overlapsAny(rect, placed) {
			continue
		}
		return rect, true
	}
	return image.Rectangle{}, false
}

func overlapsAny(rect image.Rectangle, placed []image.Rectangle) bool {
	for _, p := range placed {
		if rect.Overlaps(p) {
			return true
		}
	}
	return false
}

// maskAllows reports whether the rect lies entirely in the drawable region
// of the mask. Near-white mask pixels mark excluded area.
func maskAllows(mask image.Image, rect image.Rectangle) bool {
	bounds := mask.Bounds()
	points := []image.Point{
		rect.Min,
		{rect.Max.X - 1, rect.Min.Y},
		{rect.Min.X, rect.Max.Y - 1},
		{rect.Max.X - 1, rect.Max.Y - 1},
		{(rect.Min.X + rect.Max.X) / 2, (rect.Min.Y + rect.Max.Y) / 2},
	}
	for _, pt := range points {
		px := bounds.Min.X + pt.X
		py := bounds.Min.Y + pt.Y
		r, g, b, _ := mask.At(px, py).RGBA()
		if r >= 0xfa00 && g >= 0xfa00 && b >= 0xfa00 {
			return false
		}
	}
	return true
}

// shadeOf returns a random darker shade of the named color, so repeated
// words in one bucket stay visually distinct.
func shadeOf(name string, rng *rand.Rand) colorful.Color {
	hex, ok := cssColors[name]
	if !ok {
		hex = cssColors["yellow"]
	}
	base, err := colorful.Hex(hex)
	if err != nil {
		base = colorful.Color{R: 1, G: 1, B: 0}
	}

	h, s, _ := base.Hsl()
	l := 0.25 + 0.3*rng.Float64()
	return colorful.Hsl(h, s, l).Clamped()
}

func sortedWords(wts map[string]float64) []string {
	words := make([]string, 0, len(wts))
	for word := range wts {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}

func containsWord(words []string, word string) bool {
	for _, w := range words {
		if w == word {
			return true
		}
	}
	return false
}
