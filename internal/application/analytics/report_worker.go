package analytics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
)

const dequeueTimeout = 5 * time.Second

// interruptedReason error que queda en los reportes cortados por un reinicio.
const interruptedReason = "generación interrumpida por reinicio del worker"

// ReportWorker consume la cola y genera los archivos de reporte.
type ReportWorker struct {
	reportRepo repository.ReportRepository
	queue      ReportQueue
	builder    *ReportBuilder
	renderers  map[string]ReportRenderer
	dir        string
	log        *logger.Logger
	now        func() time.Time
}

// NewReportWorker construye el worker. renderers se indexa por formato (pdf, excel, csv).
func NewReportWorker(
	reportRepo repository.ReportRepository,
	queue ReportQueue,
	builder *ReportBuilder,
	renderers map[string]ReportRenderer,
	dir string,
	log *logger.Logger,
) *ReportWorker {
	if log == nil {
		log = logger.Nop()
	}
	return &ReportWorker{
		reportRepo: reportRepo,
		queue:      queue,
		builder:    builder,
		renderers:  renderers,
		dir:        dir,
		log:        log.Component("report_worker"),
		now:        time.Now,
	}
}

// RecoverInterrupted marca como failed los reportes que quedaron en processing cuando
// el proceso anterior se detuvo a mitad de la generación.
func (w *ReportWorker) RecoverInterrupted(ctx context.Context) (int, error) {
	n, err := w.reportRepo.FailProcessing(ctx, interruptedReason)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		w.log.Warn().Int("count", n).Msg("reportes interrumpidos marcados como fallidos")
	}
	return n, nil
}

// Run procesa reportes hasta que ctx se cancele. Antes de leer la cola recupera los
// reportes interrumpidos.
func (w *ReportWorker) Run(ctx context.Context) {
	if _, err := w.RecoverInterrupted(ctx); err != nil {
		w.log.Error().Err(err).Msg("no se pudieron recuperar los reportes interrumpidos")
	}
	w.log.Info().Str("dir", w.dir).Msg("worker de reportes iniciado")
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("worker de reportes detenido")
			return
		default:
		}

		id, err := w.queue.Dequeue(ctx, dequeueTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				continue
			}
			w.log.Error().Err(err).Msg("error leyendo la cola de reportes")
			time.Sleep(time.Second)
			continue
		}
		if id == "" {
			continue
		}
		if err := w.Process(ctx, id); err != nil {
			w.log.Error().Err(err).Str("report_id", id).Msg("reporte fallido")
		}
	}
}

// Process genera un reporte: processing → completed, o failed con el error.
func (w *ReportWorker) Process(ctx context.Context, id string) error {
	r, err := w.reportRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("reporte %s no existe", id)
	}
	if r.Status != entity.ReportStatusPending {
		w.log.Warn().Str("report_id", id).Str("status", r.Status).Msg("reporte ya procesado, se omite")
		return nil
	}

	r.Status = entity.ReportStatusProcessing
	if err := w.reportRepo.Update(ctx, r); err != nil {
		return err
	}

	path, genErr := w.generate(ctx, r)
	if genErr != nil {
		r.Status = entity.ReportStatusFailed
		r.Error = genErr.Error()
	} else {
		now := w.now()
		r.Status = entity.ReportStatusCompleted
		r.FilePath = path
		r.CompletedAt = &now
		r.Error = ""
	}
	if err := w.reportRepo.Update(ctx, r); err != nil {
		return err
	}
	if genErr != nil {
		return genErr
	}
	w.log.Info().Str("report_id", id).Str("path", path).Msg("reporte generado")
	return nil
}

func (w *ReportWorker) generate(ctx context.Context, r *entity.Report) (string, error) {
	renderer, ok := w.renderers[r.Format]
	if !ok {
		return "", fmt.Errorf("formato %q sin renderizador", r.Format)
	}
	doc, err := w.builder.Build(ctx, r)
	if err != nil {
		return "", fmt.Errorf("armar reporte: %w", err)
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("crear directorio de reportes: %w", err)
	}

	path := filepath.Join(w.dir, r.ID+"."+renderer.Extension())
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("crear archivo: %w", err)
	}
	if err := renderer.Render(f, doc); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("renderizar %s: %w", r.Format, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
