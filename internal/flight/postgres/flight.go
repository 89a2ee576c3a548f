package postgres

import (
	"context"
	"errors"

	flightDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/flight"
	"github.com/frahmantamala/travel-booking/internal/flight"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FlightRepository struct {
	db *gorm.DB
}

func NewFlightRepository(db *gorm.DB) flight.RepositoryAPI {
	return &FlightRepository{db: db}
}

func (r *FlightRepository) List(ctx context.Context) ([]*flight.Flight, error) {
	var models []flightDatamodel.Flight
	if err := r.db.WithContext(ctx).Order("departure_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*flight.Flight, 0, len(models))
	for i := range models {
		out = append(out, flight.FromDataModel(&models[i]))
	}
	return out, nil
}

func (r *FlightRepository) GetByID(ctx context.Context, id string) (*flight.Flight, error) {
	var m flightDatamodel.Flight
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, flight.ErrFlightNotFound
		}
		return nil, err
	}
	return flight.FromDataModel(&m), nil
}

func (r *FlightRepository) Upsert(ctx context.Context, flights []*flight.Flight) error {
	if len(flights) == 0 {
		return nil
	}
	models := make([]*flightDatamodel.Flight, 0, len(flights))
	for _, f := range flights {
		models = append(models, flight.ToDataModel(f))
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&models).Error
}
