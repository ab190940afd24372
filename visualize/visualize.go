// Copyright 2026 The Lucent Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package visualize renders relevance scores as human-readable artifacts:
// an HTML document highlighting words by weight, a word-cloud image, and
// notebook display wrappers.
package visualize

import (
	"github.com/lucent-ml/lucent/internal/visualize"
)

// WordRelevance pairs a word with its relevance weight; nil marks an
// out-of-vocabulary word.
type WordRelevance = visualize.WordRelevance

// RelevanceTable is an ordered list of word/weight pairs.
type RelevanceTable = visualize.RelevanceTable

// TableFromMap builds a RelevanceTable from a word to weight map.
func TableFromMap(wts map[string]float64) RelevanceTable {
	return visualize.TableFromMap(wts)
}

// AssignWordRelevance aligns listed words to their first occurrence in
// text, in text order.
func AssignWordRelevance(text string, wts RelevanceTable) []WordRelevance {
	return visualize.AssignWordRelevance(text, wts)
}

// Colormap maps a normalized intensity in [0, 1] to a color.
type Colormap = visualize.Colormap

// ColormapByName looks up a named sequential colormap (Reds, Blues, Greens,
// Oranges, Purples, Greys).
func ColormapByName(name string) (*Colormap, error) {
	return visualize.ColormapByName(name)
}

// HTML explainer

// ExplainerOption configures BuildExplainer and RenderExplainer.
type ExplainerOption = visualize.ExplainerOption

// Explainer options.
var (
	WithFontSize        = visualize.WithFontSize
	WithFileName        = visualize.WithFileName
	WithMetaInf         = visualize.WithMetaInf
	WithPosColormap     = visualize.WithPosColormap
	WithNegColormap     = visualize.WithNegColormap
	WithHighlightOOV    = visualize.WithHighlightOOV
	WithExplainerLogger = visualize.WithExplainerLogger
)

// BuildExplainer writes an HTML document highlighting the listed words in
// text by their relevance weights.
func BuildExplainer(text string, wts RelevanceTable, opts ...ExplainerOption) error {
	return visualize.BuildExplainer(text, wts, opts...)
}

// RenderExplainer returns the HTML document BuildExplainer would write.
func RenderExplainer(text string, wts RelevanceTable, opts ...ExplainerOption) (string, error) {
	return visualize.RenderExplainer(text, wts, opts...)
}

// Word cloud

// Cloud is a rendered word-cloud image.
type Cloud = visualize.Cloud

// CloudOption configures GenerateWordCloud.
type CloudOption = visualize.CloudOption

// Word-cloud options.
var (
	WithPosColor    = visualize.WithPosColor
	WithNegColor    = visualize.WithNegColor
	WithThreshold   = visualize.WithThreshold
	WithSaveToFile  = visualize.WithSaveToFile
	WithMaskFile    = visualize.WithMaskFile
	WithCloudSize   = visualize.WithCloudSize
	WithCloudLogger = visualize.WithCloudLogger
)

// GenerateWordCloud renders the weighted words as a word cloud colored by
// weight bucket.
func GenerateWordCloud(wts map[string]float64, opts ...CloudOption) (*Cloud, error) {
	return visualize.GenerateWordCloud(wts, opts...)
}

// Notebook display

// Renderable is a displayable artifact for notebook front-ends.
type Renderable = visualize.Renderable

// HTMLDocument is a rendered HTML explainer ready for inline display.
type HTMLDocument = visualize.HTMLDocument

// ImageFile is a rendered image ready for inline display.
type ImageFile = visualize.ImageFile

// ErrUnsupportedFileType is returned by ShowInNotebook for extensions it
// cannot render.
var ErrUnsupportedFileType = visualize.ErrUnsupportedFileType

// ShowInNotebook loads a rendered artifact for notebook display by file
// extension (.html, .png, .jpeg, .jpg).
func ShowInNotebook(path string) (Renderable, error) {
	return visualize.ShowInNotebook(path)
}
