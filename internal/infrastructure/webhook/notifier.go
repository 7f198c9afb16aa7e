// Package webhook avisa a un sistema externo que un envío quedó almacenado.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/auditoria-soat/internal/application/envio"
)

var _ envio.Notifier = (*Notifier)(nil)

// Notifier hace POST JSON {"bucket", "file_path"} a la URL configurada.
type Notifier struct {
	url    string
	client *http.Client
}

// New construye el notificador. Con url vacía Notify no hace nada.
func New(url string, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Notifier{url: url, client: &http.Client{Timeout: timeout}}
}

// Notify envía la notificación. Cualquier respuesta fuera de 2xx es un error.
func (n *Notifier) Notify(ctx context.Context, msg envio.Notification) error {
	if n.url == "" {
		return nil
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("webhook: serializar: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook: respuesta %d", resp.StatusCode)
	}
	return nil
}
