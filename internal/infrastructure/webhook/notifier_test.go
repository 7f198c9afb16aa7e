package webhook_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/auditoria-soat/internal/application/envio"
	"github.com/jhoicas/auditoria-soat/internal/infrastructure/webhook"
)

func TestNotify_EnviaJSON(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := webhook.New(srv.URL, time.Second)
	err := n.Notify(context.Background(), envio.Notification{Bucket: "envios", FilePath: "1100100001/1_ENV.zip"})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"bucket": "envios", "file_path": "1100100001/1_ENV.zip"}, got)
}

func TestNotify_RespuestaNo2xxEsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := webhook.New(srv.URL, time.Second).Notify(context.Background(), envio.Notification{})

	assert.ErrorContains(t, err, "500")
}

func TestNotify_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	err := webhook.New(srv.URL, 50*time.Millisecond).Notify(context.Background(), envio.Notification{})

	assert.Error(t, err)
}

func TestNotify_SinURLNoHaceNada(t *testing.T) {
	assert.NoError(t, webhook.New("", 0).Notify(context.Background(), envio.Notification{}))
}
