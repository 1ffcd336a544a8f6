package llmclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStream starts an httptest server that speaks just enough of the
// OpenAI streaming SSE wire format to drive Client.Stream end to end.
func fakeStream(t *testing.T, chunks []string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)

		for _, c := range chunks {
			fmt.Fprintf(w, "data: {\"id\":\"1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"gpt-4\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q},\"finish_reason\":null}]}\n\n", c)
			flusher.Flush()
		}

		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
	}))
}

func newTestClient(baseURL string) *Client {
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = baseURL

	return &Client{inner: openai.NewClientWithConfig(cfg)}
}

func TestClientStreamDeliversEveryChunkInOrder(t *testing.T) {
	srv := fakeStream(t, []string{"hello", " world", "!"})
	defer srv.Close()

	c := newTestClient(srv.URL + "/v1")

	var got []string
	err := c.Stream(context.Background(), Request{Model: "gpt-4", Prompt: "hi"}, func(chunk string) {
		got = append(got, chunk)
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"hello", " world", "!"}, got)
}

func TestClientStreamSkipsEmptyDeltas(t *testing.T) {
	srv := fakeStream(t, []string{"", "only"})
	defer srv.Close()

	c := newTestClient(srv.URL + "/v1")

	var got []string
	err := c.Stream(context.Background(), Request{Model: "gpt-4", Prompt: "hi"}, func(chunk string) {
		got = append(got, chunk)
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, got)
}
