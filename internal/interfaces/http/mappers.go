package http

import (
	"time"

	"github.com/tulsipower/production-monitor/internal/application/dto"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
)

// Conversión entity → dto compartida por los handlers.

func toRecordResponse(r *entity.ProductionRecord) dto.RecordResponse {
	return dto.RecordResponse{
		ID:             r.ID,
		Date:           r.Date,
		Shift:          r.Shift,
		Stage:          r.Stage,
		InputQty:       r.InputQty,
		OutputQty:      r.OutputQty,
		ScrapQty:       r.ScrapQty,
		InputSizeMM:    r.InputSizeMM,
		OutputSizeMM:   r.OutputSizeMM,
		Efficiency:     r.Efficiency,
		LossPercentage: r.LossPercentage,
		OperatorName:   r.OperatorName,
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt,
	}
}

func toStageInventoryResponse(inv *entity.StageInventory) dto.StageInventoryResponse {
	return dto.StageInventoryResponse{
		Stage:         inv.Stage,
		CurrentStock:  inv.CurrentStock,
		WireSizeMM:    inv.WireSizeMM,
		WireSWG:       inv.WireSizeSWG,
		MinStockLevel: inv.MinStockLevel,
		MaxStockLevel: inv.MaxStockLevel,
		StockStatus:   inv.StockStatus(),
		Utilization:   inv.Utilization(),
		LastUpdated:   inv.LastUpdated,
	}
}

func toTransactionResponse(txn *entity.InventoryTransaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:          txn.ID,
		Stage:       txn.Stage,
		Type:        txn.Type,
		Quantity:    txn.Quantity,
		StockBefore: txn.StockBefore,
		StockAfter:  txn.StockAfter,
		Notes:       txn.Notes,
		CreatedBy:   txn.CreatedBy,
		Timestamp:   txn.Timestamp,
	}
	if txn.ProductionRecordID != "" {
		id := txn.ProductionRecordID
		resp.ProductionRecordID = &id
	}
	return resp
}

func toMovementResponse(mov *entity.MaterialMovement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:            mov.ID,
		FromStage:     mov.FromStage,
		ToStage:       mov.ToStage,
		Quantity:      mov.Quantity,
		ScrapQuantity: mov.ScrapQuantity,
		WireSizeMM:    mov.WireSizeMM,
		MovementDate:  mov.MovementDate,
		Notes:         mov.Notes,
	}
	resp.WireSWG = mov.WireSizeSWG
	if mov.BatchID != "" {
		id := mov.BatchID
		resp.BatchID = &id
	}
	if mov.BatchNumber != "" {
		num := mov.BatchNumber
		resp.BatchNumber = &num
	}
	return resp
}

func toBatchResponse(b *entity.Batch) dto.BatchResponse {
	received := time.Time{}
	if b.ReceivedDate != nil {
		received = *b.ReceivedDate
	}
	return dto.BatchResponse{
		ID:                b.ID,
		BatchNumber:       b.BatchNumber,
		LotNumber:         b.LotNumber,
		MaterialType:      b.MaterialType,
		SupplierName:      b.SupplierName,
		Quantity:          b.Quantity,
		RemainingQuantity: b.RemainingQuantity,
		CurrentStage:      b.CurrentStage,
		CurrentStatus:     b.CurrentStatus,
		StageSequence:     b.StageSequence,
		Progress:          b.Progress(),
		HoldHistory:       b.HoldHistory,
		OrderID:           b.OrderID,
		ReceivedDate:      received,
		Notes:             b.Notes,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

func toJourneyEventResponse(e *entity.BatchJourneyEvent) dto.JourneyEventResponse {
	return dto.JourneyEventResponse{
		ID:            e.ID,
		FromStage:     e.FromStage,
		ToStage:       e.ToStage,
		Quantity:      e.Quantity,
		ScrapQuantity: e.ScrapQuantity,
		Operator:      e.Operator,
		Notes:         e.Notes,
		MovementDate:  e.MovementDate,
	}
}

func toOrderResponse(o *entity.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:                   o.ID,
		OrderNumber:          o.OrderNumber,
		CustomerName:         o.CustomerName,
		ProductSpecification: o.ProductSpecification,
		TargetWireSizeMM:     o.TargetWireSizeMM,
		OrderedQuantity:      o.OrderedQuantity,
		CompletedQuantity:    o.CompletedQuantity,
		CompletionPercentage: o.CompletionPercentage(),
		Status:               o.Status,
		CurrentStage:         o.CurrentStage,
		Priority:             o.Priority,
		OrderDate:            o.OrderDate,
		ExpectedDeliveryDate: o.ExpectedDeliveryDate,
		ActualDeliveryDate:   o.ActualDeliveryDate,
		Notes:                o.Notes,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}
