package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"fleet/internal/domain"
	internalRedis "fleet/internal/redis"
	"fleet/internal/repository"
)

// AssetService deletes trucks, trailers and tires together with the records
// that belong to them, refusing while a trip in progress still uses the asset.
type AssetService struct {
	tx         repository.Transactor
	truckCache internalRedis.TruckCacheInterface
}

// NewAssetService creates a new AssetService.
func NewAssetService(tx repository.Transactor, truckCache internalRedis.TruckCacheInterface) *AssetService {
	return &AssetService{tx: tx, truckCache: truckCache}
}

// DeleteTruck removes a truck, its tires and every maintenance of the truck
// or of those tires.
func (s *AssetService) DeleteTruck(ctx context.Context, id string) (*domain.Truck, error) {
	var truck *domain.Truck
	var tires, maintenances int64

	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		truck, err = repos.Trucks.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrTruckNotFound)
		}

		active, err := repos.Trips.CountInProgressByTruck(ctx, id)
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrAssetInUse
		}

		// Maintenances reference tires, so they go first.
		if maintenances, err = repos.Maintenances.DeleteByTruckID(ctx, id); err != nil {
			return err
		}
		if tires, err = repos.Tires.DeleteByTruckID(ctx, id); err != nil {
			return err
		}
		return notFoundAs(repos.Trucks.Delete(ctx, id), ErrTruckNotFound)
	})
	if err != nil {
		return nil, err
	}

	if s.truckCache != nil {
		if err := s.truckCache.InvalidateTrucks(ctx, id); err != nil {
			logrus.WithError(err).WithField("truck_id", id).Warn("failed to invalidate truck cache")
		}
	}

	logrus.WithContext(ctx).WithFields(logrus.Fields{
		"truck_id":     id,
		"tires":        tires,
		"maintenances": maintenances,
	}).Info("truck deleted")

	return truck, nil
}

// DeleteTrailer removes a trailer.
func (s *AssetService) DeleteTrailer(ctx context.Context, id string) (*domain.Trailer, error) {
	var trailer *domain.Trailer

	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		trailer, err = repos.Trailers.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrTrailerNotFound)
		}

		active, err := repos.Trips.CountInProgressByTrailer(ctx, id)
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrAssetInUse
		}

		return notFoundAs(repos.Trailers.Delete(ctx, id), ErrTrailerNotFound)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithContext(ctx).WithField("trailer_id", id).Info("trailer deleted")
	return trailer, nil
}

// DeleteTire removes a tire and its maintenances.
func (s *AssetService) DeleteTire(ctx context.Context, id string) (*domain.Tire, error) {
	var tire *domain.Tire
	var maintenances int64

	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		tire, err = repos.Tires.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrTireNotFound)
		}

		if maintenances, err = repos.Maintenances.DeleteByTireID(ctx, id); err != nil {
			return err
		}
		return notFoundAs(repos.Tires.Delete(ctx, id), ErrTireNotFound)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithContext(ctx).WithFields(logrus.Fields{
		"tire_id":      id,
		"maintenances": maintenances,
	}).Info("tire deleted")

	return tire, nil
}
