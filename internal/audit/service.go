package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"mealprogram-backend/internal/database"
	"mealprogram-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Audit writes are best-effort: callers discard the error so a failed trail
// entry never rolls back the domain change. The failure still has to land in
// the log, so the package carries its own logger.
var logger = zap.NewNop()

// SetLogger installs the process logger; called once from main.
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

func logWriteFailure(opts LogOptions, err error) {
	logger.Error("audit log write failed",
		zap.String("entity_type", opts.EntityType),
		zap.Uint("entity_id", opts.EntityID),
		zap.String("action", string(opts.Action)),
		zap.Error(err))
}

type LogOptions struct {
	SchoolID    *uint
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	// jsonb rejects the empty string, use the JSON null literal instead
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		SchoolID:    opts.SchoolID,
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
		IsUndone:    false,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		logWriteFailure(opts, err)
		return fmt.Errorf("could not write audit log: %w", err)
	}

	return nil
}

// UndoLog reverses a ledger creation: the entry is deleted and its stock
// adjustment rolled back in one transaction. Only "create" actions on ledger
// entities can be undone; everything else was either destructive (and the
// data is gone) or reference data better fixed by editing it.
func UndoLog(logID uint, userID uint, userName string) error {
	var entry models.AuditLog
	if err := database.DB.First(&entry, "id = ?", logID).Error; err != nil {
		return fmt.Errorf("audit log not found: %w", err)
	}

	if entry.IsUndone {
		return fmt.Errorf("this action was already undone")
	}
	if entry.Action != models.AuditActionCreate {
		return fmt.Errorf("only create actions can be undone")
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		switch entry.EntityType {
		case "consumption_log":
			var cl models.ConsumptionLog
			if err := tx.First(&cl, "id = ?", entry.EntityID).Error; err != nil {
				return fmt.Errorf("consumption log not found: %w", err)
			}
			if err := tx.Delete(&cl).Error; err != nil {
				return err
			}
			return tx.Model(&models.Ingredient{}).
				Where("id = ?", cl.IngredientID).
				Update("current_stock", gorm.Expr("current_stock + ?", cl.AmountUsed)).Error

		case "supply_log":
			var sl models.SupplyLog
			if err := tx.First(&sl, "id = ?", entry.EntityID).Error; err != nil {
				return fmt.Errorf("supply log not found: %w", err)
			}
			if err := tx.Delete(&sl).Error; err != nil {
				return err
			}
			return tx.Model(&models.Ingredient{}).
				Where("id = ?", sl.IngredientID).
				Update("current_stock", gorm.Expr("current_stock - ?", sl.AmountAdded)).Error

		case "waste_log":
			return tx.Delete(&models.WasteLog{}, "id = ?", entry.EntityID).Error

		default:
			return fmt.Errorf("entity type %q cannot be undone", entry.EntityType)
		}
	})
	if err != nil {
		return err
	}

	now := time.Now()
	entry.IsUndone = true
	entry.UndoneBy = &userID
	entry.UndoneAt = &now
	if err := database.DB.Save(&entry).Error; err != nil {
		return fmt.Errorf("could not mark log as undone: %w", err)
	}

	undoEntry := models.AuditLog{
		SchoolID:    entry.SchoolID,
		UserID:      userID,
		UserName:    userName,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Undone: %s", entry.Description),
		BeforeData:  entry.AfterData,
		AfterData:   entry.BeforeData,
	}
	if err := database.DB.Create(&undoEntry).Error; err != nil {
		return fmt.Errorf("could not write undo log: %w", err)
	}

	return nil
}
