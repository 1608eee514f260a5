// Package notify despacha las alertas de reposición fuera del camino de la petición:
// el libro encola una ronda y un pool de workers la entrega, un correo por destinatario.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"github.com/fiecl/barcode-inventory-management/pkg/logger"
	"github.com/fiecl/barcode-inventory-management/pkg/metrics"
)

// Config parámetros del despachador.
type Config struct {
	Workers     int
	QueueSize   int
	Concurrency int // envíos simultáneos dentro de una ronda
	MaxAttempts int // intentos por destinatario, incluido el primero
	SendTimeout time.Duration
	BaseBackoff time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 64
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 1
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = 15 * time.Second
	}
	if c.BaseBackoff <= 0 {
		c.BaseBackoff = 500 * time.Millisecond
	}
	return c
}

// Dispatcher cola en memoria + workers. Enqueue nunca bloquea al llamador.
type Dispatcher struct {
	cfg        Config
	mailer     Mailer
	recipients RecipientLister
	log        *logger.Logger
	metrics    *metrics.Metrics

	queue  chan ThresholdAlert
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
	once   sync.Once
}

// NewDispatcher construye el despachador; Start lanza los workers.
func NewDispatcher(cfg Config, mailer Mailer, recipients RecipientLister, log *logger.Logger, m *metrics.Metrics) *Dispatcher {
	cfg = cfg.withDefaults()
	return &Dispatcher{
		cfg:        cfg,
		mailer:     mailer,
		recipients: recipients,
		log:        log.Named("notify"),
		metrics:    m,
		queue:      make(chan ThresholdAlert, cfg.QueueSize),
	}
}

// Start lanza los workers. ctx gobierna los envíos en curso; para un apagado ordenado usar Stop.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
}

// Enqueue programa una ronda de alerta. Devuelve false si la cola está llena o cerrada;
// en ese caso la ronda se descarta y se registra.
func (d *Dispatcher) Enqueue(alert ThresholdAlert) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn().Str("barcode", alert.Barcode).Msg("despachador detenido, alerta descartada")
		return false
	}
	select {
	case d.queue <- alert:
		return true
	default:
		d.metrics.QueueDropped.Inc()
		d.log.Error().Str("barcode", alert.Barcode).Int("queue_size", d.cfg.QueueSize).
			Msg("cola de alertas llena, ronda descartada")
		return false
	}
}

// Stop cierra la cola y espera a que los workers terminen las rondas pendientes.
func (d *Dispatcher) Stop() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})
	d.wg.Wait()
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()
	for alert := range d.queue {
		d.deliver(ctx, alert)
	}
	d.log.Debug().Int("worker", id).Msg("worker de alertas finalizado")
}

// deliver resuelve los destinatarios en este momento (no al encolar) y envía un correo a cada uno.
// El fallo de un destinatario no impide los envíos a los demás.
func (d *Dispatcher) deliver(ctx context.Context, alert ThresholdAlert) {
	emails, err := d.recipients.ListEmails(ctx)
	if err != nil {
		d.log.Error().Err(err).Str("barcode", alert.Barcode).Msg("no se pudo obtener la lista de destinatarios")
		return
	}
	if len(emails) == 0 {
		d.log.Info().Str("barcode", alert.Barcode).Msg("sin destinatarios configurados, alerta omitida")
		return
	}

	subject, body := Compose(alert)

	var g errgroup.Group
	g.SetLimit(d.cfg.Concurrency)
	for _, to := range emails {
		g.Go(func() error {
			if err := d.send(ctx, to, subject, body); err != nil {
				d.metrics.Notifications.WithLabelValues("failed").Inc()
				d.log.Error().Err(err).Str("barcode", alert.Barcode).Str("recipient", to).
					Msg("envío de alerta fallido")
				return nil
			}
			d.metrics.Notifications.WithLabelValues("sent").Inc()
			d.log.Info().Str("barcode", alert.Barcode).Str("recipient", to).
				Int("quantity", alert.Quantity).Int("threshold", alert.Threshold).
				Msg("alerta de reposición enviada")
			return nil
		})
	}
	_ = g.Wait()
}

func (d *Dispatcher) send(ctx context.Context, to, subject, body string) error {
	b := retry.WithMaxRetries(uint64(d.cfg.MaxAttempts-1), retry.NewExponential(d.cfg.BaseBackoff))
	attempt := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		sendCtx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
		defer cancel()
		if err := d.mailer.Send(sendCtx, to, subject, body); err != nil {
			if errors.Is(err, ErrDeliveryUnknown) {
				return err
			}
			d.log.Warn().Err(err).Str("recipient", to).Int("attempt", attempt).Msg("reintentando envío")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("enviar a %s tras %d intentos: %w", to, attempt, err)
	}
	return nil
}
