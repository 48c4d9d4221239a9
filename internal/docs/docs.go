// Package docs embeds on-demand documentation topics served by the docs
// subcommand (for humans and agents alike).
package docs

import (
	"embed"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed content/*.md
var contentFS embed.FS

func Topics() []string {
	entries, err := fs.Glob(contentFS, "content/*.md")
	if err != nil {
		return []string{}
	}
	var topics []string
	for _, path := range entries {
		base := filepath.Base(path)
		topic := strings.TrimSuffix(base, filepath.Ext(base))
		if topic != "" {
			topics = append(topics, topic)
		}
	}
	sort.Strings(topics)
	return topics
}

func Get(topic string) (string, bool) {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		return "", false
	}
	b, err := contentFS.ReadFile(filepath.Join("content", topic+".md"))
	if err != nil {
		return "", false
	}
	return string(b), true
}
