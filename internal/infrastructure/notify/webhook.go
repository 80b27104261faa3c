// Package notify implementa los sumideros posteriores al commit del flujo de
// traslados: la notificación saliente por webhook y la auditoría en BD.
// Ambos son best-effort: su fallo se registra en log y nada más.
package notify

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jhoicas/Traslados-api/internal/application/transfer"
	"github.com/jhoicas/Traslados-api/pkg/logger"
)

var _ transfer.Notifier = (*WebhookNotifier)(nil)

// WebhookNotifier publica el resumen de cada paso del flujo como JSON POST.
type WebhookNotifier struct {
	url    string
	client *http.Client
	log    *logger.Logger
}

// NewWebhookNotifier construye el notificador. URL vacía lo deja inerte.
func NewWebhookNotifier(url string, timeout time.Duration, log *logger.Logger) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Notify envía el resumen en una goroutine propia: el caller ya hizo commit y
// no debe esperar por el webhook.
func (n *WebhookNotifier) Notify(s transfer.Summary) {
	if n.url == "" {
		return
	}
	go n.post(s)
}

func (n *WebhookNotifier) post(s transfer.Summary) {
	body, err := json.Marshal(s)
	if err != nil {
		n.log.Error().Err(err).Str("transfer", s.Number).Msg("notify: marshal resumen")
		return
	}
	req, err := http.NewRequest(http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		n.log.Error().Err(err).Str("transfer", s.Number).Msg("notify: construir request")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		n.log.Warn().Err(err).Str("transfer", s.Number).Msg("notify: webhook inalcanzable")
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		n.log.Warn().Int("status", resp.StatusCode).Str("transfer", s.Number).Msg("notify: webhook rechazó el resumen")
	}
}
