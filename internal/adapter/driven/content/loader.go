// Package content loads blog posts from markdown files with YAML front matter.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/mydashboard/internal/domain/model"
)

var frontMatterDelim = []byte("---")

// dateLayouts are the accepted front matter date formats, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type frontMatter struct {
	Title   string   `yaml:"title"`
	Date    string   `yaml:"date"`
	Excerpt string   `yaml:"excerpt"`
	Tags    []string `yaml:"tags"`
}

// LoadDir reads every *.md file in dir as a post whose slug is the file name.
// A missing directory yields no posts. Posts are returned newest first.
func LoadDir(dir string) ([]model.Post, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.Post{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read content dir %s: %w", dir, err)
	}

	posts := []model.Post{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		post, err := Parse(strings.TrimSuffix(e.Name(), ".md"), data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		posts = append(posts, post)
	}

	slices.SortStableFunc(posts, func(a, b model.Post) int {
		return b.Date.Compare(a.Date)
	})
	return posts, nil
}

// Parse splits a markdown document into front matter and body. A document
// without front matter is all body.
func Parse(slug string, data []byte) (model.Post, error) {
	post := model.Post{Slug: slug, Tags: []string{}}

	meta, body, ok := splitFrontMatter(data)
	if ok {
		var fm frontMatter
		if err := yaml.Unmarshal(meta, &fm); err != nil {
			return model.Post{}, fmt.Errorf("front matter: %w", err)
		}
		post.Title = fm.Title
		post.Excerpt = fm.Excerpt
		if fm.Tags != nil {
			post.Tags = fm.Tags
		}
		if fm.Date != "" {
			d, err := parseDate(fm.Date)
			if err != nil {
				return model.Post{}, err
			}
			post.Date = d
		}
	}
	post.Content = strings.TrimSpace(string(body))

	if post.Title == "" {
		post.Title = slug
	}
	return post, nil
}

func splitFrontMatter(data []byte) (meta, body []byte, ok bool) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if !bytes.HasPrefix(data, frontMatterDelim) {
		return nil, data, false
	}
	rest := data[len(frontMatterDelim):]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || len(bytes.TrimSpace(rest[:nl])) != 0 {
		return nil, data, false
	}
	rest = rest[nl+1:]

	for off := 0; off < len(rest); {
		end := bytes.IndexByte(rest[off:], '\n')
		line := rest[off:]
		next := len(rest)
		if end >= 0 {
			line = rest[off : off+end]
			next = off + end + 1
		}
		if bytes.Equal(bytes.TrimRight(line, " \t\r"), frontMatterDelim) {
			return rest[:off], rest[next:], true
		}
		off = next
	}
	return nil, data, false
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
