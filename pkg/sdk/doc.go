// Package docqa embeds the docqa retrieval engine in a Go program.
//
// A Client scans a directory of markdown, text and PDF files on every call and
// ranks excerpts against a free-text question using keyword heuristics and a
// topic catalog:
//
//	client, _ := docqa.New(ctx, docqa.WithDirectory("./uploads"))
//	defer client.Close()
//
//	resp, _ := client.Retrieve(ctx, `"health insurance" dental`, docqa.WithMaxResults(3))
//	for _, r := range resp.Results {
//	    fmt.Println(r.Source, r.RelevanceScore)
//	}
//
// Extracted PDF text can be cached across calls with WithMemoryCache,
// WithLevelDBCache or WithRedisCache.
package docqa
