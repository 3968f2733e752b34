// Copyright 2026 The parley Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package parley

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var httpServer = httptest.NewUnstartedServer(http.HandlerFunc(serverHandler))
var httpsServer = httptest.NewUnstartedServer(http.HandlerFunc(serverHandler))
var http2Server = httptest.NewUnstartedServer(http.HandlerFunc(serverHandler))
var servers = []*httptest.Server{httpServer, httpsServer, http2Server}

func TestMain(m *testing.M) {
	httpServer.Start()
	defer httpServer.Close()
	httpsServer.StartTLS()
	defer httpsServer.Close()
	http2Server.EnableHTTP2 = true
	http2Server.StartTLS()
	defer http2Server.Close()
	waitForServerStart(httpServer)
	waitForServerStart(httpsServer)
	waitForServerStart(http2Server)
	os.Exit(m.Run())
}

func waitForServerStart(server *httptest.Server) {
	s := &Session{
		HTTPDoer: server.Client(),
		Timeout:  2 * time.Second,
	}
	deadline := time.Now().Add(10 * time.Second)
	for {
		x := (&serverInstruction{StatusCode: 200}).toExchange(s, server)
		_, err := x.Send()
		if err == nil && x.Response.StatusCode == 200 {
			return
		}
		if time.Now().After(deadline) {
			panic(fmt.Sprintf("Test server startup failed with error %v", err))
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func serverName(server *httptest.Server) string {
	switch server {
	case httpServer:
		return "http"
	case httpsServer:
		return "https"
	case http2Server:
		return "http2"
	default:
		panic("unknown server")
	}
}

func TestRoundTrip(t *testing.T) {
	t.Run("happy path", testRoundTripHappyPath)
	t.Run("status is not an error", testRoundTripStatus)
	t.Run("default transport", testRoundTripDefaultTransport)
	t.Run("header stamping", testRoundTripHeaderStamping)
	t.Run("session timeout", testRoundTripTimeout)
	t.Run("context cancel", testRoundTripCancel)
	t.Run("rate limit", testRoundTripRateLimit)
	t.Run("talk", testRoundTripTalk)
}

func testRoundTripHappyPath(t *testing.T) {
	t.Parallel()

	for _, server := range servers {
		t.Run(serverName(server), func(t *testing.T) {
			s := &Session{HTTPDoer: server.Client()}
			x := (&serverInstruction{
				StatusCode: 200,
				Body: []bodyChunk{
					{Data: []byte("two heads are ")},
					{Data: []byte("better than one")},
				},
			}).toExchange(s, server)

			sent, err := x.Send()

			require.NoError(t, err)
			assert.Same(t, x, sent)
			require.NotNil(t, x.Response)
			assert.Equal(t, 200, x.Response.StatusCode)
			assert.Equal(t, "two heads are better than one", x.BodyText())
			assert.NoError(t, x.CheckSuccess())
			assert.Greater(t, x.Response.Duration, time.Duration(0))
		})
	}
}

func testRoundTripStatus(t *testing.T) {
	t.Parallel()

	instructions := []serverInstruction{
		{
			StatusCode: 404,
			Body:       []bodyChunk{{Data: []byte("the thingy was not in the place")}},
		},
		{
			StatusCode: 503,
			Body:       []bodyChunk{{Data: []byte("ain't no service in these parts")}},
		},
	}

	for _, inst := range instructions {
		inst := inst
		t.Run(strconv.Itoa(inst.StatusCode), func(t *testing.T) {
			s := &Session{HTTPDoer: httpServer.Client()}
			x := inst.toExchange(s, httpServer)

			_, err := x.Send()

			require.NoError(t, err)
			require.NotNil(t, x.Response)
			assert.NoError(t, x.Err)
			assert.Equal(t, inst.StatusCode, x.Response.StatusCode)
			assert.Equal(t, inst.Body[0].Data, x.BodyBytes())
			var statusErr *StatusError
			require.ErrorAs(t, x.CheckSuccess(), &statusErr)
			assert.Equal(t, inst.StatusCode, statusErr.StatusCode)
		})
	}
}

func testRoundTripDefaultTransport(t *testing.T) {
	t.Parallel()

	// Transport is left nil, so the send goes through DefaultSession
	// and the process-wide HTTP client.
	x := (&serverInstruction{StatusCode: 200}).toExchange(nil, httpServer)

	_, err := x.Send()

	require.NoError(t, err)
	require.NotNil(t, x.Response)
	assert.Equal(t, 200, x.Response.StatusCode)
	assert.Empty(t, x.BodyBytes())
}

func testRoundTripHeaderStamping(t *testing.T) {
	t.Parallel()

	t.Run("request id", func(t *testing.T) {
		s := &Session{
			HTTPDoer:        httpServer.Client(),
			RequestIDHeader: "X-Request-Id",
		}
		x := (&serverInstruction{
			StatusCode: 200,
			EchoHeader: "X-Request-Id",
		}).toExchange(s, httpServer)

		_, err := x.Send()

		require.NoError(t, err)
		echoed := x.Response.Header.Get("X-Echo")
		require.NotEmpty(t, echoed)
		_, err = uuid.Parse(echoed)
		assert.NoError(t, err)
		// The ID the server saw is the one retained on the request.
		assert.Equal(t, echoed, x.Request().Header.Get("X-Request-Id"))
	})
	t.Run("user agent", func(t *testing.T) {
		s := &Session{
			HTTPDoer:  httpServer.Client(),
			UserAgent: "parley-e2e/1.0",
		}
		x := (&serverInstruction{
			StatusCode: 200,
			EchoHeader: "User-Agent",
		}).toExchange(s, httpServer)

		_, err := x.Send()

		require.NoError(t, err)
		assert.Equal(t, "parley-e2e/1.0", x.Response.Header.Get("X-Echo"))
	})
}

func testRoundTripTimeout(t *testing.T) {
	t.Parallel()

	s := &Session{
		HTTPDoer: httpServer.Client(),
		Timeout:  50 * time.Millisecond,
	}
	x := (&serverInstruction{
		StatusCode:  200,
		HeaderPause: 3 * time.Second,
	}).toExchange(s, httpServer)

	_, err := x.Send()

	require.Error(t, err)
	assert.Same(t, err, x.Err)
	assert.Nil(t, x.Response)
	var dispatchErr *DispatchError
	require.ErrorAs(t, err, &dispatchErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func testRoundTripCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{HTTPDoer: httpServer.Client()}
	x := (&serverInstruction{
		StatusCode:  200,
		HeaderPause: 3 * time.Second,
	}).toExchange(s, httpServer).WithContext(ctx)

	p := x.SendAsync()
	cancel()
	_, err := p.Wait()

	require.Error(t, err)
	assert.Nil(t, x.Response)
	var dispatchErr *DispatchError
	require.ErrorAs(t, err, &dispatchErr)
	assert.ErrorIs(t, err, context.Canceled)
}

func testRoundTripRateLimit(t *testing.T) {
	t.Parallel()

	s := &Session{
		HTTPDoer: httpServer.Client(),
		Limiter:  rate.NewLimiter(rate.Every(25*time.Millisecond), 1),
	}

	start := time.Now()
	for i := 0; i < 3; i++ {
		x := (&serverInstruction{StatusCode: 200}).toExchange(s, httpServer)
		_, err := x.Send()
		require.NoError(t, err)
	}

	// The first token is free; the next two must wait out the refill
	// interval.
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func testRoundTripTalk(t *testing.T) {
	t.Parallel()

	doc := `{"city":"brigadoon","temp_c":16,"outlook":"misty"}`
	inst := &serverInstruction{
		StatusCode: 200,
		Body:       []bodyChunk{{Data: []byte(doc)}},
	}

	reply, err := Talk[weatherReport](httpServer.URL, string(inst.toJSON()),
		WithTransport(&Session{HTTPDoer: httpServer.Client()}))

	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.Equal(t, weatherReport{City: "brigadoon", TempC: 16, Outlook: "misty"}, reply.Value)
	assert.Equal(t, 200, reply.Exchange.Response.StatusCode)
}

type bodyChunk struct {
	Pause time.Duration
	Data  []byte
}

// A serverInstruction is sent as the request body and tells the test
// server what response to produce: how long to sit on the headers,
// what status code to return, how to pace out the body, and which
// request header to echo back in the X-Echo response header.
type serverInstruction struct {
	HeaderPause time.Duration
	StatusCode  int
	Body        []bodyChunk
	EchoHeader  string
}

func (i *serverInstruction) toJSON() []byte {
	b, err := json.Marshal(i)
	if err != nil {
		panic(err)
	}

	return b
}

func (i *serverInstruction) toExchange(s *Session, server *httptest.Server) *Exchange {
	x := &Exchange{}
	if s != nil {
		x.Transport = s
	}
	x.Method = "POST"
	x.URL = server.URL
	x.Content = i.toJSON()
	return x
}

func (i *serverInstruction) fromRequest(req *http.Request) error {
	b, err := io.ReadAll(req.Body)
	_ = req.Body.Close()

	if err != nil {
		return err
	}

	return json.Unmarshal(b, i)
}

func serverHandler(w http.ResponseWriter, req *http.Request) {
	// Decode the instruction.
	var i serverInstruction
	err := i.fromRequest(req)
	if err != nil {
		w.WriteHeader(400)
		_, _ = io.WriteString(w, fmt.Sprintf("failed to read request: %s", err.Error()))
		return
	}

	// Validate the instruction.
	if i.StatusCode == 0 {
		w.WriteHeader(400)
		_, _ = io.WriteString(w, fmt.Sprintf("bad StatusCode in instruction: %v", i))
		return
	}

	// Get the Flusher, panicking if it's not available.
	f, ok := w.(http.Flusher)
	if !ok {
		panic("w does not implement Flusher")
	}

	// Determine the content length of the response.
	contentLength := 0
	for _, chunk := range i.Body {
		contentLength += len(chunk.Data)
	}

	// Create the response headers.
	header := w.Header()
	header.Add("Content-Length", strconv.Itoa(contentLength))
	if i.EchoHeader != "" {
		header.Set("X-Echo", req.Header.Get(i.EchoHeader))
	}

	// Sleep for the duration indicated by the pause field. This is done
	// to allow the client to play with timeouts.
	time.Sleep(i.HeaderPause)

	// Return the HTTP response stipulated by the client.
	w.WriteHeader(i.StatusCode)
	f.Flush()

	// Write the response in chunks, pausing before each chunk.
	for _, chunk := range i.Body {
		data := chunk.Data
		if len(data) == 0 {
			time.Sleep(chunk.Pause)
			continue
		}
		pause := chunk.Pause

		// Divide the chunk pause by the chunk length to get the pause
		// amount per byte.
		ppb := chunk.Pause / time.Duration(len(data))

		// Write the chunk one byte at a time, flushing and pausing
		// after each byte is written. The pause, again, is to allow the
		// client to play with timeouts.
		for j := range data {
			b := data[j : j+1]
			_, err = w.Write(b)
			if err != nil {
				return
			}
			f.Flush()
			time.Sleep(ppb)
			pause -= ppb
		}

		// Pause for any unconsumed time in the chunk pause.
		if pause > 0 {
			time.Sleep(pause)
		}
	}
}
