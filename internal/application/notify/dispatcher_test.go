package notify_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiecl/barcode-inventory-management/internal/application/notify"
	"github.com/fiecl/barcode-inventory-management/pkg/logger"
	"github.com/fiecl/barcode-inventory-management/pkg/metrics"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeMailer struct {
	mu       sync.Mutex
	sent     []string
	attempts map[string]int
	failFor  map[string]int // destinatario -> fallos antes de aceptar (-1 = siempre)
	block    chan struct{}
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{attempts: map[string]int{}, failFor: map[string]int{}}
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[to]++
	if n, ok := m.failFor[to]; ok && (n < 0 || m.attempts[to] <= n) {
		return errors.New("smtp: 550 mailbox unavailable")
	}
	m.sent = append(m.sent, to)
	return nil
}

func (m *fakeMailer) sentTo() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]string(nil), m.sent...)
	sort.Strings(out)
	return out
}

type fakeRecipients struct {
	mu     sync.Mutex
	emails []string
	err    error
}

func (r *fakeRecipients) ListEmails(context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.emails...), r.err
}

func (r *fakeRecipients) add(email string) {
	r.mu.Lock()
	r.emails = append(r.emails, email)
	r.mu.Unlock()
}

func testConfig() notify.Config {
	return notify.Config{Workers: 1, QueueSize: 8, Concurrency: 2, MaxAttempts: 3, SendTimeout: time.Second, BaseBackoff: time.Millisecond}
}

func alert() notify.ThresholdAlert {
	return notify.ThresholdAlert{Barcode: "12345678", Name: "Widget", Quantity: 5, Threshold: 5}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestDispatcher_EnviaUnCorreoPorDestinatario(t *testing.T) {
	mailer := newFakeMailer()
	recips := &fakeRecipients{emails: []string{"a@example.com", "b@example.com"}}
	d := notify.NewDispatcher(testConfig(), mailer, recips, logger.Nop(), metrics.New())
	d.Start(context.Background())

	require.True(t, d.Enqueue(alert()))
	d.Stop()

	assert.Equal(t, []string{"a@example.com", "b@example.com"}, mailer.sentTo())
}

func TestDispatcher_FalloDeUnDestinatarioNoAfectaAOtros(t *testing.T) {
	mailer := newFakeMailer()
	mailer.failFor["roto@example.com"] = -1
	recips := &fakeRecipients{emails: []string{"roto@example.com", "ok@example.com"}}
	d := notify.NewDispatcher(testConfig(), mailer, recips, logger.Nop(), metrics.New())
	d.Start(context.Background())

	d.Enqueue(alert())
	d.Stop()

	assert.Equal(t, []string{"ok@example.com"}, mailer.sentTo())
	assert.Equal(t, 3, mailer.attempts["roto@example.com"], "los intentos por destinatario están acotados")
}

// timeoutMailer simula un envío abandonado por timeout cuyo resultado no se conoce.
type timeoutMailer struct {
	mu       sync.Mutex
	attempts int
}

func (m *timeoutMailer) Send(context.Context, string, string, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	return fmt.Errorf("smtp: %w: %w", notify.ErrDeliveryUnknown, context.DeadlineExceeded)
}

func TestDispatcher_EnvioDeResultadoDesconocido_NoSeReintenta(t *testing.T) {
	mailer := &timeoutMailer{}
	recips := &fakeRecipients{emails: []string{"a@example.com"}}
	d := notify.NewDispatcher(testConfig(), mailer, recips, logger.Nop(), metrics.New())
	d.Start(context.Background())

	d.Enqueue(alert())
	d.Stop()

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	assert.Equal(t, 1, mailer.attempts, "un correo que pudo haber salido no se vuelve a enviar")
}

func TestDispatcher_ReintentaHastaExito(t *testing.T) {
	mailer := newFakeMailer()
	mailer.failFor["a@example.com"] = 2
	recips := &fakeRecipients{emails: []string{"a@example.com"}}
	d := notify.NewDispatcher(testConfig(), mailer, recips, logger.Nop(), metrics.New())
	d.Start(context.Background())

	d.Enqueue(alert())
	d.Stop()

	assert.Equal(t, []string{"a@example.com"}, mailer.sentTo())
	assert.Equal(t, 3, mailer.attempts["a@example.com"])
}

// Los destinatarios se resuelven al despachar, no al encolar.
func TestDispatcher_ResuelveDestinatariosAlDespachar(t *testing.T) {
	mailer := newFakeMailer()
	recips := &fakeRecipients{emails: []string{"a@example.com"}}
	d := notify.NewDispatcher(testConfig(), mailer, recips, logger.Nop(), metrics.New())

	require.True(t, d.Enqueue(alert()))
	recips.add("nuevo@example.com")

	d.Start(context.Background())
	d.Stop()

	assert.Equal(t, []string{"a@example.com", "nuevo@example.com"}, mailer.sentTo())
}

func TestDispatcher_CadaRondaEsIndependiente(t *testing.T) {
	mailer := newFakeMailer()
	recips := &fakeRecipients{emails: []string{"a@example.com"}}
	d := notify.NewDispatcher(testConfig(), mailer, recips, logger.Nop(), metrics.New())
	d.Start(context.Background())

	d.Enqueue(alert())
	d.Enqueue(alert())
	d.Stop()

	assert.Len(t, mailer.sentTo(), 2, "sin deduplicación: dos rondas, dos correos")
}

func TestDispatcher_EnqueueNoBloqueaConColaLlena(t *testing.T) {
	mailer := newFakeMailer()
	mailer.block = make(chan struct{})
	recips := &fakeRecipients{emails: []string{"a@example.com"}}
	cfg := testConfig()
	cfg.QueueSize = 1
	d := notify.NewDispatcher(cfg, mailer, recips, logger.Nop(), metrics.New())
	d.Start(context.Background())

	done := make(chan int)
	go func() {
		accepted := 0
		for i := 0; i < 10; i++ {
			if d.Enqueue(alert()) {
				accepted++
			}
		}
		done <- accepted
	}()

	select {
	case accepted := <-done:
		assert.Less(t, accepted, 10, "con la cola llena las rondas se descartan")
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue bloqueó al llamador")
	}

	close(mailer.block)
	d.Stop()
}

func TestDispatcher_ErrorAlListarDestinatarios_NoEnvia(t *testing.T) {
	mailer := newFakeMailer()
	recips := &fakeRecipients{err: errors.New("db caída")}
	d := notify.NewDispatcher(testConfig(), mailer, recips, logger.Nop(), metrics.New())
	d.Start(context.Background())

	d.Enqueue(alert())
	d.Stop()

	assert.Empty(t, mailer.sentTo())
}

func TestDispatcher_EnqueueTrasStop_Falso(t *testing.T) {
	d := notify.NewDispatcher(testConfig(), newFakeMailer(), &fakeRecipients{}, logger.Nop(), metrics.New())
	d.Start(context.Background())
	d.Stop()

	assert.False(t, d.Enqueue(alert()))
}

func TestCompose_IncluyeDatosDelProducto(t *testing.T) {
	reorder := 20
	a := alert()
	a.ReorderQuantity = &reorder

	subject, body := notify.Compose(a)

	assert.Equal(t, "Alerta de reposición: Widget", subject)
	assert.Contains(t, body, "Cantidad actual: 5")
	assert.Contains(t, body, "Umbral: 5")
	assert.Contains(t, body, "12345678")
	assert.Contains(t, body, "Cantidad sugerida de pedido: 20")
}
