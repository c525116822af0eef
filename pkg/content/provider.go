// Package content acquires display-ready headline text for the ticker.
package content

import (
	"context"
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/tickerlive/newscast/pkg/config"
	"github.com/tickerlive/newscast/pkg/logger"
)

// Provider yields fresh headlines once per cycle.
type Provider interface {
	Headlines(ctx context.Context) ([]string, error)
}

// RSS pulls titles from a list of RSS/Atom feeds. Feeds that fail or
// time out are skipped, there is no retry. Titles are de-duplicated and
// capped per feed and in total.
type RSS struct {
	conf   config.Content
	client *http.Client
	log    *logger.Logger
}

func NewRSS(conf config.Content, log *logger.Logger) *RSS {
	return &RSS{conf: conf, client: &http.Client{Timeout: 10 * time.Second}, log: log}
}

// feed covers both RSS (<channel><item>) and Atom (<entry>) documents,
// title extraction only.
type feed struct {
	Channel struct {
		Items []item `xml:"item"`
	} `xml:"channel"`
	Entries []item `xml:"entry"`
}

type item struct {
	Title string `xml:"title"`
}

func (r *RSS) Headlines(ctx context.Context) ([]string, error) {
	var items []string
	seen := map[string]struct{}{}
	for _, url := range r.conf.Feeds {
		titles, err := r.fetch(ctx, url)
		if err != nil {
			r.log.Warn().Err(err).Str("feed", url).Msg("feed skipped")
			continue
		}
		if len(titles) > r.conf.PerFeed {
			titles = titles[:r.conf.PerFeed]
		}
		for _, t := range titles {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			items = append(items, t)
			if len(items) >= r.conf.MaxItems {
				return items, nil
			}
		}
	}
	return items, nil
}

func (r *RSS) fetch(ctx context.Context, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var f feed
	if err := xml.NewDecoder(res.Body).Decode(&f); err != nil {
		return nil, err
	}
	return titles(f), nil
}

func titles(f feed) (out []string) {
	for _, it := range f.Channel.Items {
		out = append(out, it.Title)
	}
	for _, it := range f.Entries {
		out = append(out, it.Title)
	}
	return
}
