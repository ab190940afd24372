package visualize_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucent-ml/lucent/internal/visualize"
)

func wt(v float64) *float64 { return &v }

func TestAssignWordRelevance_TextOrder(t *testing.T) {
	table := visualize.RelevanceTable{
		{Word: "sat", Weight: wt(-0.3)},
		{Word: "cat", Weight: wt(0.8)},
	}

	pairs := visualize.AssignWordRelevance("the cat sat", table)
	require.Len(t, pairs, 2)
	assert.Equal(t, "cat", pairs[0].Word)
	assert.Equal(t, "sat", pairs[1].Word)
}

func TestAssignWordRelevance_SkipsMissingWords(t *testing.T) {
	table := visualize.RelevanceTable{
		{Word: "dog", Weight: wt(1.0)},
		{Word: "cat", Weight: wt(0.8)},
	}

	pairs := visualize.AssignWordRelevance("the cat sat", table)
	require.Len(t, pairs, 1)
	assert.Equal(t, "cat", pairs[0].Word)
}

func TestAssignWordRelevance_WordBoundaries(t *testing.T) {
	table := visualize.RelevanceTable{{Word: "cat", Weight: wt(0.8)}}

	pairs := visualize.AssignWordRelevance("the catalog sat", table)
	assert.Empty(t, pairs, "cat must not match inside catalog")
}

func TestRenderExplainer_WordAlignment(t *testing.T) {
	table := visualize.TableFromMap(map[string]float64{"cat": 0.8})

	doc, err := visualize.RenderExplainer("the cat sat", table)
	require.NoError(t, err)

	reds, err := visualize.ColormapByName("Reds")
	require.NoError(t, err)
	r, g, b := reds.SampleRGB(0.8)
	span := fmt.Sprintf(`<span style="background-color: rgba(%d, %d, %d, 0.5)">cat</span>`, r, g, b)

	assert.Contains(t, doc, "the "+span+" sat")
	assert.Equal(t, 1, strings.Count(doc, "<span"), "only listed words are wrapped")
	assert.True(t, strings.HasSuffix(doc, "</div></body>"))
}

func TestRenderExplainer_NegativeWeightUsesNegColormap(t *testing.T) {
	table := visualize.TableFromMap(map[string]float64{"bad": -0.6})

	doc, err := visualize.RenderExplainer("a bad day", table)
	require.NoError(t, err)

	blues, err := visualize.ColormapByName("Blues")
	require.NoError(t, err)
	r, g, b := blues.SampleRGB(0.6)
	assert.Contains(t, doc, fmt.Sprintf("rgba(%d, %d, %d, 0.5)", r, g, b))
}

func TestRenderExplainer_OOV(t *testing.T) {
	table := visualize.RelevanceTable{{Word: "cat", Weight: nil}}

	doc, err := visualize.RenderExplainer("the cat sat", table)
	require.NoError(t, err)
	assert.Contains(t, doc, `rgba(26, 26, 255, 0.0)`)

	doc, err = visualize.RenderExplainer("the cat sat", table, visualize.WithHighlightOOV(true))
	require.NoError(t, err)
	assert.Contains(t, doc, `rgba(26, 26, 255, 0.2)`)
}

func TestRenderExplainer_MetaInfAndFontSize(t *testing.T) {
	table := visualize.TableFromMap(map[string]float64{"cat": 0.5})

	doc, err := visualize.RenderExplainer("the cat sat", table,
		visualize.WithMetaInf("class: positive"),
		visualize.WithFontSize("14pt"))
	require.NoError(t, err)

	assert.Contains(t, doc, "class: positive\n\n")
	assert.Contains(t, doc, "font-size: 14pt;")
}

func TestBuildExplainer_WritesFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "explained")

	table := visualize.TableFromMap(map[string]float64{"cat": 0.8})
	require.NoError(t, visualize.BuildExplainer("the cat sat", table, visualize.WithFileName(out)))

	content, err := os.ReadFile(out + ".html")
	require.NoError(t, err)
	assert.Contains(t, string(content), "cat</span>")
}

func TestColorBuckets(t *testing.T) {
	wts := map[string]float64{"good": 0.9, "bad": -0.5, "neutral": 0.0}

	buckets := visualize.ColorBuckets(wts, "blue", "red", 0.1)
	assert.ElementsMatch(t, []string{"good"}, buckets["blue"])
	assert.ElementsMatch(t, []string{"bad", "neutral"}, buckets["red"])
}

func TestGenerateWordCloud_RendersImage(t *testing.T) {
	wts := map[string]float64{"good": 0.9, "bad": -0.5, "neutral": 0.0}

	cloud, err := visualize.GenerateWordCloud(wts,
		visualize.WithSaveToFile(false),
		visualize.WithCloudSize(320, 200))
	require.NoError(t, err)

	img := cloud.Image()
	require.NotNil(t, img)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestGenerateWordCloud_SaveToFile(t *testing.T) {
	wts := map[string]float64{"word": 1.0}

	cloud, err := visualize.GenerateWordCloud(wts, visualize.WithSaveToFile(false))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cloud.png")
	require.NoError(t, cloud.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestGenerateWordCloud_EmptyInput(t *testing.T) {
	_, err := visualize.GenerateWordCloud(map[string]float64{})
	assert.Error(t, err)
}

func TestShowInNotebook(t *testing.T) {
	dir := t.TempDir()

	htmlPath := filepath.Join(dir, "doc.html")
	require.NoError(t, os.WriteFile(htmlPath, []byte("<body>ok</body>"), 0o644))

	pngPath := filepath.Join(dir, "img.png")
	require.NoError(t, os.WriteFile(pngPath, []byte{0x89, 'P', 'N', 'G'}, 0o644))

	doc, err := visualize.ShowInNotebook(htmlPath)
	require.NoError(t, err)
	assert.Equal(t, "text/html", doc.MIME())
	assert.Equal(t, []byte("<body>ok</body>"), doc.Bytes())
	assert.IsType(t, &visualize.HTMLDocument{}, doc)

	img, err := visualize.ShowInNotebook(pngPath)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIME())
	assert.IsType(t, &visualize.ImageFile{}, img)

	_, err = visualize.ShowInNotebook(filepath.Join(dir, "file.xyz"))
	assert.ErrorIs(t, err, visualize.ErrUnsupportedFileType)
}

func TestColormapByName(t *testing.T) {
	_, err := visualize.ColormapByName("Viridis")
	assert.Error(t, err)

	reds, err := visualize.ColormapByName("reds")
	require.NoError(t, err)
	assert.Equal(t, "Reds", reds.Name())

	// Sample clamps out-of-range intensities.
	assert.Equal(t, reds.Sample(0), reds.Sample(-1))
	assert.Equal(t, reds.Sample(1), reds.Sample(2))
}
