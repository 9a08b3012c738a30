package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
	"github.com/mateusmacedo/go-bff/pkg/application"
)

// OpenJournalDB abre a conexão postgres do diário e cria a tabela quando
// necessário.
func OpenJournalDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open journal database: %w", err)
	}
	if err = db.AutoMigrate(&domain.CheckoutEntry{}); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return db, nil
}

type gormCheckoutJournal struct {
	db     *gorm.DB
	logger application.AppLogger
}

func NewGormCheckoutJournal(db *gorm.DB, logger application.AppLogger) domain.CheckoutJournal {
	return &gormCheckoutJournal{
		db:     db,
		logger: logger,
	}
}

func (r *gormCheckoutJournal) Save(ctx context.Context, entry domain.CheckoutEntry) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&entry).Error
	if err != nil {
		application.LogError(ctx, r.logger, "failed to save checkout entry", err, map[string]interface{}{
			"checkout_id": entry.ID,
			"step":        entry.Step,
		})
		return err
	}

	application.LogDebug(ctx, r.logger, "checkout entry saved", map[string]interface{}{
		"checkout_id": entry.ID,
		"step":        entry.Step,
		"outcome":     entry.Outcome,
	})
	return nil
}

func (r *gormCheckoutJournal) FindByID(ctx context.Context, id string) (domain.CheckoutEntry, error) {
	var entry domain.CheckoutEntry

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.CheckoutEntry{}, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
	}
	if err != nil {
		application.LogError(ctx, r.logger, "failed to find checkout entry", err, map[string]interface{}{
			"checkout_id": id,
		})
		return domain.CheckoutEntry{}, err
	}
	return entry, nil
}

func (r *gormCheckoutJournal) FindUnresolved(ctx context.Context) ([]domain.CheckoutEntry, error) {
	entries := []domain.CheckoutEntry{}

	err := r.db.WithContext(ctx).
		Where("outcome = ?", domain.OutcomeUnresolved).
		Order("updated_at").
		Find(&entries).Error
	if err != nil {
		application.LogError(ctx, r.logger, "failed to find unresolved checkouts", err, nil)
		return nil, err
	}

	application.LogInfo(ctx, r.logger, "unresolved checkouts found", map[string]interface{}{
		"count": len(entries),
	})
	return entries, nil
}
