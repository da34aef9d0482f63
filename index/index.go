// Copyright 2025 Aphorium Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package index provides full-text search over quote text, backed by Bleve.
// Each quote is indexed with the analyzer of its own language, so English
// queries are stemmed with the English stemmer and Russian queries with the
// Russian one.
package index

import (
	"context"
	"errors"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/lang/ru"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/aphorium/aphorium/core"
)

// Hit is one search result: a quote ID with its relevance score.
type Hit struct {
	Id    core.ID
	Score float64
}

// Index is a language-aware full-text index over quote text.
type Index struct {
	idx bleve.Index
}

// quoteDoc is the indexed representation of a quote. The Lang field selects
// the document mapping, which selects the analyzer.
type quoteDoc struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

// Open opens the index at path, creating it if it doesn't exist.
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, buildMapping())
	}
	if err != nil {
		return nil, err
	}
	return &Index{idx: idx}, nil
}

// NewMemory creates an in-memory index for testing.
func NewMemory() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, err
	}
	return &Index{idx: idx}, nil
}

func buildMapping() mapping.IndexMapping {
	m := bleve.NewIndexMapping()
	m.TypeField = "lang"

	for lang, analyzer := range map[string]string{
		string(core.LanguageEN): en.AnalyzerName,
		string(core.LanguageRU): ru.AnalyzerName,
	} {
		doc := bleve.NewDocumentMapping()

		text := bleve.NewTextFieldMapping()
		text.Analyzer = analyzer
		doc.AddFieldMappingsAt("text", text)

		langField := bleve.NewKeywordFieldMapping()
		doc.AddFieldMappingsAt("lang", langField)

		m.AddDocumentMapping(lang, doc)
	}

	return m
}

// IndexQuote adds or replaces a quote in the index.
func (i *Index) IndexQuote(quote *core.Quote) error {
	return i.idx.Index(docID(quote.Id), quoteDoc{
		Text: quote.Text,
		Lang: string(quote.Language),
	})
}

// DeleteQuote removes a quote from the index. Deleting a quote that was never
// indexed is not an error.
func (i *Index) DeleteQuote(id core.ID) error {
	return i.idx.Delete(docID(id))
}

// Search runs a full-text query restricted to one language and returns up to
// limit hits, ordered by relevance descending.
func (i *Index) Search(ctx context.Context, query string, lang core.Language, limit int) ([]Hit, error) {
	match := bleve.NewMatchQuery(query)
	match.SetField("text")

	langTerm := bleve.NewTermQuery(string(lang))
	langTerm.SetField("lang")

	req := bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery(match, langTerm), limit, 0, false)

	res, err := i.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		hits = append(hits, Hit{Id: core.ID(id), Score: hit.Score})
	}
	return hits, nil
}

// Close closes the underlying index.
func (i *Index) Close() error {
	return i.idx.Close()
}

func docID(id core.ID) string {
	return strconv.FormatUint(uint64(id), 10)
}
