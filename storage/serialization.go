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

package storage

import (
	"github.com/aphorium/aphorium/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalAuthor serializes an Author to bytes.
func MarshalAuthor(author *core.Author) []byte {
	buf := make([]byte, core.AuthorMUS.Size(*author))
	core.AuthorMUS.Marshal(*author, buf)
	return buf
}

// UnmarshalAuthor deserializes an Author from bytes.
func UnmarshalAuthor(data []byte) (*core.Author, error) {
	author, _, err := core.AuthorMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// MarshalSource serializes a Source to bytes.
func MarshalSource(source *core.Source) []byte {
	buf := make([]byte, core.SourceMUS.Size(*source))
	core.SourceMUS.Marshal(*source, buf)
	return buf
}

// UnmarshalSource deserializes a Source from bytes.
func UnmarshalSource(data []byte) (*core.Source, error) {
	source, _, err := core.SourceMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &source, nil
}

// MarshalQuote serializes a Quote to bytes.
func MarshalQuote(quote *core.Quote) []byte {
	buf := make([]byte, core.QuoteMUS.Size(*quote))
	core.QuoteMUS.Marshal(*quote, buf)
	return buf
}

// UnmarshalQuote deserializes a Quote from bytes.
func UnmarshalQuote(data []byte) (*core.Quote, error) {
	quote, _, err := core.QuoteMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// MarshalTranslationLink serializes a TranslationLink to bytes.
func MarshalTranslationLink(link *core.TranslationLink) []byte {
	buf := make([]byte, core.TranslationLinkMUS.Size(*link))
	core.TranslationLinkMUS.Marshal(*link, buf)
	return buf
}

// UnmarshalTranslationLink deserializes a TranslationLink from bytes.
func UnmarshalTranslationLink(data []byte) (*core.TranslationLink, error) {
	link, _, err := core.TranslationLinkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &link, nil
}
