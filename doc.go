// Copyright 2026 The parley Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package parley is a convenience layer over a generic HTTP transport:
it prepares an outbound request from loosely typed inputs, dispatches
it through a shared transport, and offers typed helpers to inspect and
decode the response.

For quick calls, use the one-shot helpers. Send posts structured
content as JSON and returns the finished Exchange for inspection:

	x, err := parley.Send("https://api.example.com/items",
		struct {
			Name string `json:"name"`
		}{Name: "x"})
	...
	x, err := parley.Get("https://api.example.com/items/1")
	...
	x, err := parley.PostForm("https://example.com/form",
		url.Values{"key": {"Value"}, "id": {"123"}})

Talk goes one step further and decodes the JSON response into a typed
value:

	reply, err := parley.Talk[Item]("https://api.example.com/items", item)
	...
	fmt.Println(reply.Value.Name)

For more control, configure an Exchange and send it yourself. An
Exchange embeds a request.Builder, so the declarative request fields
and the query and header methods are available directly on it:

	x := parley.New("https://api.example.com/search", nil)
	x.Method = "GET"
	x.AddQuery("tag", "a").AddQuery("tag", "b")
	if _, err := x.Send(); err != nil {
		...
	}
	var result SearchResult
	if err := x.DecodeJSON(&result); err != nil {
		...
	}

Every Exchange dispatches through a Transport, by default the shared
DefaultSession. Configure a Session to control ambient headers, rate
limiting, timeouts, or the underlying HTTP client:

	session := &parley.Session{
		HTTPDoer:  &http.Client{}, // see package "net/http"
		UserAgent: "exampled/1.0",
		Limiter:   rate.NewLimiter(rate.Limit(20), 1),
		Timeout:   10 * time.Second,
	}
	x := parley.New(url, content, parley.WithTransport(session))

To hook into the details of sending, install a handler into the
appropriate handler chain:

	handlers := &parley.HandlerGroup{}
	handlers.PushBack(parley.BeforeDispatch, parley.HandlerFunc(
		func(_ parley.Event, x *parley.Exchange) {
			log.Printf("sending %s", x.Request().URL.String())
		}))
	x := parley.New(url, content, parley.WithHandlers(handlers))

Blocking and non-blocking dispatch differ only in goroutine
mechanics, never in protocol behavior: SendAsync and TalkAsync run the
same send routine on a new goroutine and hand back a Pending or
PendingReply to wait on.
*/
package parley
