// Command probe fetches the endpoint once and prints what the sanitizer and
// the grouping make of it. Useful for checking a new endpoint by hand.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/h0rv/fetchlist/internal/fetch"
	"github.com/h0rv/fetchlist/internal/present"
	"github.com/h0rv/fetchlist/internal/sanitize"
)

func main() {
	baseURL := flag.String("base-url", fetch.DefaultBaseURL, "endpoint base URL")
	path := flag.String("path", fetch.DefaultPath, "endpoint resource path")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	flag.Parse()

	client, err := fetch.New(*baseURL, *path, fetch.WithHTTPClient(&http.Client{Timeout: *timeout}))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	raw, err := client.Fetch(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Endpoint: %s\n", client.URL())
	fmt.Printf("Raw records: %d\n", len(raw))

	records := sanitize.Sanitize(raw, &sanitize.RoundRobin{})
	fmt.Printf("Named records: %d (dropped %d)\n\n", len(records), len(raw)-len(records))

	view := present.Present(records, present.FilterInput{})
	fmt.Printf("Groups (%d):\n", len(view.Groups))
	for _, g := range view.Groups {
		first, last := g.Records[0].Name, g.Records[len(g.Records)-1].Name
		fmt.Printf("  List %d: %d items (%s .. %s)\n", g.ListID, len(g.Records), first, last)
	}
}
