package main

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"inkblog/internal/content"
	"inkblog/internal/models"
	"inkblog/internal/utils"

	"gopkg.in/yaml.v3"
)

// FrontMatter defines the structure of the YAML front matter in Markdown files.
type FrontMatter struct {
	Title     string `yaml:"title"`
	Slug      string `yaml:"slug"`
	Excerpt   string `yaml:"excerpt"`
	Draft     bool   `yaml:"draft"`
	Published *bool  `yaml:"published"`
}

var (
	frontMatterRegex = regexp.MustCompile(`(?s)^---\r?\n(.*?)\r?\n---\r?\n?`)

	errNoFrontMatter = errors.New("no front matter")
)

// parseMarkdownPost turns a markdown document with front matter into a
// create request. The body is rendered to HTML; sanitizing happens in the
// pipeline.
func parseMarkdownPost(doc string) (models.PostInput, error) {
	matches := frontMatterRegex.FindStringSubmatch(doc)
	if len(matches) < 2 {
		return models.PostInput{}, errNoFrontMatter
	}

	var fm FrontMatter
	if err := yaml.Unmarshal([]byte(matches[1]), &fm); err != nil {
		return models.PostInput{}, fmt.Errorf("invalid front matter: %w", err)
	}

	body := strings.TrimSpace(doc[len(matches[0]):])
	html, err := utils.RenderMarkdown(body)
	if err != nil {
		return models.PostInput{}, fmt.Errorf("failed to render markdown: %w", err)
	}

	excerpt := strings.TrimSpace(fm.Excerpt)
	if excerpt == "" {
		if intro := utils.SplitMore(body); intro != "" {
			introHTML, err := utils.RenderMarkdown(intro)
			if err == nil {
				excerpt = content.PlainText(introHTML)
			}
		}
	}

	published := !fm.Draft
	if fm.Published != nil {
		published = *fm.Published
	}

	return models.PostInput{
		Title:     fm.Title,
		Slug:      fm.Slug,
		Content:   html,
		Excerpt:   excerpt,
		Published: published,
	}, nil
}
