package restyutil

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	messages map[string]string
}

func (o *memoryOutput) Write(id string, contents string) {
	o.messages[id] = contents
}

// the dump must fire whenever an output is configured, even when debug
// logging is off
func TestInstrumentClientDumpsWithoutDebugLogging(t *testing.T) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	output := &memoryOutput{messages: map[string]string{}}
	client := resty.New()
	InstrumentClient(client, nil, output)

	_, err := client.R().Get(server.URL)
	require.NoError(t, err)

	require.Len(t, output.messages, 1)
	message := output.messages["1"]
	require.Contains(t, message, "---- REQUEST ----")
	require.Contains(t, message, "---- RESPONSE ----")
	require.Contains(t, message, "<html>ok</html>")
}
