package repository

import (
	"context"
	"fmt"
	"staybook/infras/otel"
	"staybook/infras/postgres"
	"staybook/internal/domains/booking/model"
	"staybook/shared"
	"staybook/shared/constant"
	gDto "staybook/shared/dto"
	"staybook/shared/failure"
	gRepo "staybook/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// insertion order; seq is a BIGSERIAL the model never writes.
const orderByInsertion = model.TableName + ".seq"

type postgresImpl struct {
	gRepo.Repository[model.Booking]
	otel otel.Otel
}

func NewPostgres(db *postgres.Connection, otel otel.Otel) Booking {
	return &postgresImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (p *postgresImpl) Insert(ctx context.Context, booking model.Booking) error {
	if err := booking.Validate(); err != nil {
		return err
	}

	return p.Repository.Insert(ctx, booking) //nolint:wrapcheck
}

func (p *postgresImpl) Get(ctx context.Context, id string) (model.Booking, error) {
	booking, err := p.Repository.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return booking, err //nolint:wrapcheck
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found")
	}

	return booking, nil
}

func (p *postgresImpl) GetAll(ctx context.Context, filter gDto.FilterGroup) ([]model.Booking, error) {
	return p.Repository.GetAll(ctx, filter, orderByInsertion) //nolint:wrapcheck
}

func (p *postgresImpl) Mutate(ctx context.Context, id string, fn func(booking *model.Booking) error) (res model.Booking, err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Mutate")
	defer scope.End()

	scope.SetAttribute(constant.OtelBookingIDAttributeKey, id)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	err = p.WithTx(ctx, func(sqltx *sqlx.Tx) error {
		current, err := p.GetForUpdateTx(ctx, sqltx, filter)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if current.ID == constant.Empty {
			return failure.NotFound("booking not found")
		}

		res = current

		updated := current
		if err := fn(&updated); err != nil {
			return err
		}

		if err := updated.Validate(); err != nil {
			return err //nolint:wrapcheck
		}

		if err := p.UpdateTx(ctx, sqltx, updated.MutableFields(), filter); err != nil {
			log.Error().Err(err).Str("id", id).Msg("failed to update booking")

			return fmt.Errorf("failed to update booking: %w", err)
		}

		res = updated

		return nil
	})

	return res, err //nolint:wrapcheck
}
