package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/tickerlive/newscast/pkg/config"
	"github.com/tickerlive/newscast/pkg/logger"
)

var testLog = logger.New(false)

func init() { logger.SetGlobalLevel(logger.Disabled) }

const rssDoc = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>World</title>
    <item><title>First story</title></item>
    <item><title>  Second story  </title></item>
    <item><title>First story</title></item>
    <item><title></title></item>
    <item><title>Third story</title></item>
  </channel>
</rss>`

const atomDoc = `<?xml version="1.0"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Tech</title>
  <entry><title>Atom story</title></entry>
  <entry><title>Second story</title></entry>
</feed>`

func serve(doc string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(doc))
	}))
}

func TestHeadlines(t *testing.T) {
	rss := serve(rssDoc)
	defer rss.Close()
	atom := serve(atomDoc)
	defer atom.Close()
	broken := serve("this is not xml")
	defer broken.Close()

	conf := config.Content{
		Feeds:    []string{rss.URL, broken.URL, atom.URL},
		MaxItems: 40,
		PerFeed:  10,
	}
	got, err := NewRSS(conf, testLog).Headlines(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// trimmed, de-duplicated across feeds, broken feed skipped
	want := []string{"First story", "Second story", "Third story", "Atom story"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestHeadlinesCaps(t *testing.T) {
	rss := serve(rssDoc)
	defer rss.Close()

	tests := []struct {
		name     string
		maxItems int
		perFeed  int
		want     int
	}{
		{name: "total cap", maxItems: 2, perFeed: 10, want: 2},
		{name: "per feed cap", maxItems: 40, perFeed: 1, want: 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			conf := config.Content{Feeds: []string{rss.URL}, MaxItems: test.maxItems, PerFeed: test.perFeed}
			got, err := NewRSS(conf, testLog).Headlines(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != test.want {
				t.Errorf("%v items, want %v", len(got), test.want)
			}
		})
	}
}

func TestHeadlinesAllFeedsDown(t *testing.T) {
	dead := serve("")
	dead.Close() // connection refused from now on

	conf := config.Content{Feeds: []string{dead.URL}, MaxItems: 40, PerFeed: 10}
	got, err := NewRSS(conf, testLog).Headlines(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %v from dead feeds", got)
	}
}
