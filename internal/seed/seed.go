// Package seed loads catalog contents from YAML documents.
//
// A document lists magazines, authors and articles. Magazines and authors
// carry a key that articles use to refer to them:
//
//	magazines:
//	  - key: sensors
//	    name: Sensors
//	    category: Internet of Things
//	authors:
//	  - key: alex
//	    name: Alexander O'niel
//	articles:
//	  - author: alex
//	    magazine: sensors
//	    title: The mind of a programmer
//
// Unknown fields are rejected. Validate checks the document's own structure
// (keys present, unique and resolvable); field values are validated by the
// catalog itself when the document is applied.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is a parsed seed file.
type Document struct {
	Magazines []MagazineSpec `yaml:"magazines"`
	Authors   []AuthorSpec   `yaml:"authors"`
	Articles  []ArticleSpec  `yaml:"articles"`
}

// MagazineSpec describes one magazine.
type MagazineSpec struct {
	Key      string `yaml:"key"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

// AuthorSpec describes one author.
type AuthorSpec struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

// ArticleSpec describes one article by the keys of its author and magazine.
type ArticleSpec struct {
	Author   string `yaml:"author"`
	Magazine string `yaml:"magazine"`
	Title    string `yaml:"title"`
}

// ErrInvalidDocument is wrapped by every structural problem Validate reports.
var ErrInvalidDocument = errors.New("invalid seed document")

// Load decodes a single YAML document from r. An empty input yields an
// empty Document.
func Load(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, fmt.Errorf("parsing seed YAML: %w", err)
	}
	return &doc, nil
}

// LoadFile reads and decodes the seed file at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	doc, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Validate reports every missing key, duplicate key and unresolved
// reference in the document, joined into one error.
func (d *Document) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidDocument, fmt.Sprintf(format, args...)))
	}

	magazines := make(map[string]bool, len(d.Magazines))
	for i, m := range d.Magazines {
		switch {
		case m.Key == "":
			fail("magazines[%d]: key is required", i)
		case magazines[m.Key]:
			fail("magazines[%d]: duplicate key %q", i, m.Key)
		default:
			magazines[m.Key] = true
		}
	}

	authors := make(map[string]bool, len(d.Authors))
	for i, a := range d.Authors {
		switch {
		case a.Key == "":
			fail("authors[%d]: key is required", i)
		case authors[a.Key]:
			fail("authors[%d]: duplicate key %q", i, a.Key)
		default:
			authors[a.Key] = true
		}
	}

	for i, art := range d.Articles {
		if !authors[art.Author] {
			fail("articles[%d]: unknown author %q", i, art.Author)
		}
		if !magazines[art.Magazine] {
			fail("articles[%d]: unknown magazine %q", i, art.Magazine)
		}
	}

	return errors.Join(errs...)
}
