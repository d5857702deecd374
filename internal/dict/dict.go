//
//
// Tencent is pleased to support the open source community by making tRPC available.
//
// Copyright (C) 2023 THL A29 Limited, a Tencent company.
// All rights reserved.
//
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the  Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.
//
//

// Package dict is the word list behind the translate service.
package dict

import (
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Unknown is the reply for a word the dictionary does not contain.
const Unknown = "None"

// Dictionary maps words to translations. It is read-only after Load.
type Dictionary struct {
	words map[string]string
}

// New creates a dictionary from words.
func New(words map[string]string) *Dictionary {
	d := &Dictionary{words: make(map[string]string, len(words))}
	for k, v := range words {
		d.words[strings.TrimSpace(k)] = v
	}
	return d
}

// Load reads a YAML mapping of word to translation, e.g.
//
//	apple: 苹果
//	banana: 香蕉
func Load(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read dictionary %s", path)
	}
	return Parse(data)
}

// Parse decodes a YAML mapping of word to translation.
func Parse(data []byte) (*Dictionary, error) {
	var words map[string]string
	if err := yaml.Unmarshal(data, &words); err != nil {
		return nil, errors.Wrap(err, "decode dictionary")
	}
	return New(words), nil
}

// Translate returns the translation of word, ignoring surrounding space,
// or Unknown.
func (d *Dictionary) Translate(word string) string {
	if v, ok := d.words[strings.TrimSpace(word)]; ok {
		return v
	}
	return Unknown
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.words)
}

// Words returns "word: translation" lines sorted by word.
func (d *Dictionary) Words() []string {
	lines := make([]string, 0, len(d.words))
	for k, v := range d.words {
		lines = append(lines, k+": "+v)
	}
	sort.Strings(lines)
	return lines
}
