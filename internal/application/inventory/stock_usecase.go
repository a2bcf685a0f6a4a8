package inventory

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Laboratorio-api/internal/application/dto"
	"github.com/jhoicas/Laboratorio-api/internal/application/ports"
	"github.com/jhoicas/Laboratorio-api/internal/domain"
	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Laboratorio-api/internal/domain/inventory"
	"github.com/jhoicas/Laboratorio-api/internal/domain/repository"
)

const (
	batchNotesPrefix = "Ajuste masivo de stock"
	maxExportRows    = 10000
	dateLayout       = "2006-01-02"
)

// MovementInput entrada para registrar un movimiento en el libro.
type MovementInput struct {
	MaterialID int64
	Type       string
	Quantity   int64 // magnitud para in/out/return; stock destino para adjust
	UserID     *int64
	RequestID  *int64
	Notes      string
}

// StockUseCase motor del libro de inventario: cada cambio de stock deja exactamente una entrada
// y ambas escrituras ocurren en la misma transacción con la fila del material bloqueada.
type StockUseCase struct {
	txRunner     TxRunner
	transactions repository.TransactionRepository
	exporter     ports.LedgerExporter
	metrics      ports.MetricsRecorder
	clock        ports.Clock
	log          zerolog.Logger
}

// NewStockUseCase construye el caso de uso. exporter puede ser nil (exportación deshabilitada).
func NewStockUseCase(
	txRunner TxRunner,
	transactions repository.TransactionRepository,
	exporter ports.LedgerExporter,
	metrics ports.MetricsRecorder,
	clock ports.Clock,
	log zerolog.Logger,
) *StockUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &StockUseCase{
		txRunner:     txRunner,
		transactions: transactions,
		exporter:     exporter,
		metrics:      metrics,
		clock:        clock,
		log:          log,
	}
}

// AdjustStock fija el stock de un material a un valor absoluto (movimiento adjust).
func (uc *StockUseCase) AdjustStock(ctx context.Context, materialID, quantity int64, userID *int64, notes string) (*dto.TransactionResponse, error) {
	return uc.Record(ctx, MovementInput{
		MaterialID: materialID,
		Type:       entity.TransactionTypeAdjust,
		Quantity:   quantity,
		UserID:     userID,
		Notes:      notes,
	})
}

// Record valida la entrada y aplica el movimiento de forma atómica:
// SELECT FOR UPDATE del material, cálculo, inserción de la entrada y actualización del stock.
func (uc *StockUseCase) Record(ctx context.Context, in MovementInput) (*dto.TransactionResponse, error) {
	if in.MaterialID <= 0 {
		return nil, domain.Validation("material_id es obligatorio")
	}
	if !entity.IsValidTransactionType(in.Type) {
		return nil, domain.Validation("tipo de movimiento inválido: %q", in.Type)
	}
	// Valida la cantidad antes de abrir la transacción; el stock se revisa con la fila bloqueada.
	if err := domaininv.ValidateQuantity(in.Type, in.Quantity); err != nil {
		return nil, err
	}

	var entry *entity.Transaction
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		if in.RequestID != nil {
			req, err := r.Requisitions.GetByID(ctx, *in.RequestID)
			if err != nil {
				return err
			}
			if req == nil {
				return domain.NotFound("solicitud %d no encontrada", *in.RequestID)
			}
		}
		m, err := r.Materials.GetByIDForUpdate(ctx, in.MaterialID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.NotFound("material %d no encontrado", in.MaterialID)
		}
		mv, err := domaininv.Apply(in.Type, m.StockQuantity, in.Quantity)
		if err != nil {
			return err
		}
		now := uc.clock()
		entry = &entity.Transaction{
			MaterialID:     m.ID,
			Type:           in.Type,
			Quantity:       mv.Quantity,
			BeforeQuantity: mv.Before,
			AfterQuantity:  mv.After,
			UserID:         in.UserID,
			RequestID:      in.RequestID,
			Notes:          in.Notes,
			CreatedAt:      now,
		}
		if err := r.Transactions.Create(ctx, entry); err != nil {
			return err
		}
		return r.Materials.UpdateStock(ctx, m.ID, mv.After, now)
	})
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			uc.log.Error().Err(err).Int64("material_id", in.MaterialID).Str("type", in.Type).Msg("error registrando movimiento")
		}
		return nil, err
	}

	uc.metrics.LedgerEntry(entry.Type)
	uc.log.Info().
		Int64("material_id", entry.MaterialID).
		Str("type", entry.Type).
		Int64("before", entry.BeforeQuantity).
		Int64("after", entry.AfterQuantity).
		Msg("stock actualizado")
	out := ToTransactionResponse(entry)
	return &out, nil
}

// BatchAdjustStock aplica ajustes independientes, cada uno en su propia transacción.
// Un fallo no revierte los ítems ya aplicados.
func (uc *StockUseCase) BatchAdjustStock(ctx context.Context, in dto.BatchUpdateStockRequest, userID *int64) (*dto.BatchUpdateStockResponse, error) {
	if len(in.Updates) == 0 {
		return nil, domain.Validation("la lista de actualizaciones está vacía")
	}
	out := &dto.BatchUpdateStockResponse{Results: make([]dto.BatchItemResult, 0, len(in.Updates))}
	for _, item := range in.Updates {
		res := dto.BatchItemResult{MaterialID: item.MaterialID}
		switch {
		case ctx.Err() != nil:
			res.Message = "operación cancelada"
		case item.MaterialID == nil || item.StockQuantity == nil:
			res.Message = "material_id y stock_quantity son obligatorios"
		default:
			_, err := uc.AdjustStock(ctx, *item.MaterialID, *item.StockQuantity, userID, batchNotes(item.Notes))
			if err != nil {
				res.Message = domain.MessageOf(err)
			} else {
				res.Success = true
				res.Message = "stock actualizado"
			}
		}
		if res.Success {
			out.UpdatedCount++
		} else {
			out.FailedCount++
		}
		out.Results = append(out.Results, res)
	}
	uc.log.Info().Int("updated", out.UpdatedCount).Int("failed", out.FailedCount).Msg("ajuste masivo de stock")
	return out, nil
}

// ListTransactions devuelve el libro filtrado, más reciente primero.
func (uc *StockUseCase) ListTransactions(ctx context.Context, q dto.TransactionListQuery) (*dto.PageResult[dto.TransactionResponse], error) {
	q.Normalize()
	filter, err := uc.buildFilter(q)
	if err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = q.Limit, q.Offset()
	list, total, err := uc.transactions.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		items = append(items, ToTransactionResponse(t))
	}
	return &dto.PageResult[dto.TransactionResponse]{Items: items, Pagination: dto.NewPagination(q.PageRequest, total)}, nil
}

// ExportTransactions renderiza hasta maxExportRows entradas del filtro con el exportador configurado.
func (uc *StockUseCase) ExportTransactions(ctx context.Context, q dto.TransactionListQuery) (*dto.ExportFile, error) {
	if uc.exporter == nil {
		return nil, domain.InvalidState("exportación no disponible")
	}
	filter, err := uc.buildFilter(q)
	if err != nil {
		return nil, err
	}
	filter.Limit = maxExportRows
	list, _, err := uc.transactions.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	rows := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		rows = append(rows, ToTransactionResponse(t))
	}

	var buf bytes.Buffer
	if err := uc.exporter.WriteTransactions(&buf, rows); err != nil {
		return nil, fmt.Errorf("exportar movimientos: %w", err)
	}
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("movimientos_%s.%s", uc.clock().Format("20060102_150405"), uc.exporter.FileExtension()),
		ContentType: uc.exporter.ContentType(),
		Content:     buf.Bytes(),
	}, nil
}

// buildFilter interpreta start_date/end_date (YYYY-MM-DD) en la zona local; end_date es inclusivo.
func (uc *StockUseCase) buildFilter(q dto.TransactionListQuery) (repository.TransactionFilter, error) {
	f := repository.TransactionFilter{MaterialID: q.MaterialID, Type: q.TransactionType}
	if f.Type != "" && !entity.IsValidTransactionType(f.Type) {
		return f, domain.Validation("tipo de movimiento inválido: %q", f.Type)
	}
	loc := uc.clock().Location()
	if s := strings.TrimSpace(q.StartDate); s != "" {
		from, err := time.ParseInLocation(dateLayout, s, loc)
		if err != nil {
			return f, domain.Validation("start_date inválida, formato esperado YYYY-MM-DD")
		}
		f.From = &from
	}
	if s := strings.TrimSpace(q.EndDate); s != "" {
		day, err := time.ParseInLocation(dateLayout, s, loc)
		if err != nil {
			return f, domain.Validation("end_date inválida, formato esperado YYYY-MM-DD")
		}
		to := day.AddDate(0, 0, 1).Add(-time.Nanosecond)
		f.To = &to
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return f, domain.Validation("start_date no puede ser posterior a end_date")
	}
	return f, nil
}

func batchNotes(notes string) string {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return batchNotesPrefix
	}
	return batchNotesPrefix + ": " + notes
}
