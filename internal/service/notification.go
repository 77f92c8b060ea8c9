package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"fleet/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationTripCreated         NotificationType = "TRIP_CREATED"
	NotificationTripStarted         NotificationType = "TRIP_STARTED"
	NotificationTripFinished        NotificationType = "TRIP_FINISHED"
	NotificationTripCancelled       NotificationType = "TRIP_CANCELLED"
	NotificationTripDeleted         NotificationType = "TRIP_DELETED"
	NotificationMaintenanceAlert    NotificationType = "MAINTENANCE_ALERT"
	NotificationMaintenanceStarted  NotificationType = "MAINTENANCE_STARTED"
	NotificationMaintenanceFinished NotificationType = "MAINTENANCE_FINISHED"
)

// Notification represents a fleet event pushed to connected dashboards.
type Notification struct {
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Data      map[string]any   `json:"data"`
	CreatedAt time.Time        `json:"createdAt"`
}

// Broadcaster fans a payload out to every connected client.
type Broadcaster interface {
	Broadcast(message []byte)
}

// NotificationService logs fleet events and relays them to the websocket hub.
type NotificationService struct {
	hub Broadcaster
}

// NewNotificationService creates a new NotificationService. hub may be nil.
func NewNotificationService(hub Broadcaster) *NotificationService {
	return &NotificationService{hub: hub}
}

// NotifyTripCreated announces a newly planned trip.
func (s *NotificationService) NotifyTripCreated(ctx context.Context, trip *domain.Trip) {
	s.send(ctx, Notification{
		Type:    NotificationTripCreated,
		Title:   "Trip Created",
		Message: fmt.Sprintf("Trip %s → %s planned", trip.Origin, trip.Destination),
		Data:    tripData(trip),
	})
}

// NotifyTripStarted announces that a driver left.
func (s *NotificationService) NotifyTripStarted(ctx context.Context, trip *domain.Trip) {
	s.send(ctx, Notification{
		Type:    NotificationTripStarted,
		Title:   "Trip Started",
		Message: fmt.Sprintf("Trip %s → %s is under way", trip.Origin, trip.Destination),
		Data:    tripData(trip),
	})
}

// NotifyTripFinished announces a completed trip and the distance driven.
func (s *NotificationService) NotifyTripFinished(ctx context.Context, trip *domain.Trip) {
	data := tripData(trip)
	data["distance"] = trip.Distance()
	s.send(ctx, Notification{
		Type:    NotificationTripFinished,
		Title:   "Trip Completed",
		Message: fmt.Sprintf("Trip %s → %s completed (%.0f km)", trip.Origin, trip.Destination, trip.Distance()),
		Data:    data,
	})
}

// NotifyTripCancelled announces a cancelled trip.
func (s *NotificationService) NotifyTripCancelled(ctx context.Context, trip *domain.Trip) {
	s.send(ctx, Notification{
		Type:    NotificationTripCancelled,
		Title:   "Trip Cancelled",
		Message: fmt.Sprintf("Trip %s → %s was cancelled", trip.Origin, trip.Destination),
		Data:    tripData(trip),
	})
}

// NotifyTripDeleted announces a removed trip.
func (s *NotificationService) NotifyTripDeleted(ctx context.Context, trip *domain.Trip) {
	s.send(ctx, Notification{
		Type:    NotificationTripDeleted,
		Title:   "Trip Deleted",
		Message: fmt.Sprintf("Trip %s → %s was deleted", trip.Origin, trip.Destination),
		Data:    tripData(trip),
	})
}

// NotifyMaintenanceAlerts announces the alerts raised on a truck.
func (s *NotificationService) NotifyMaintenanceAlerts(ctx context.Context, truck *domain.Truck, alerts []domain.MaintenanceAlert) {
	if len(alerts) == 0 {
		return
	}
	s.send(ctx, Notification{
		Type:    NotificationMaintenanceAlert,
		Title:   "Maintenance Alert",
		Message: fmt.Sprintf("Truck %s has %d maintenance alert(s)", truck.Plate, len(alerts)),
		Data: map[string]any{
			"truckId": truck.ID,
			"plate":   truck.Plate,
			"alerts":  alerts,
		},
	})
}

// NotifyMaintenanceStarted announces that a truck entered the workshop.
func (s *NotificationService) NotifyMaintenanceStarted(ctx context.Context, m *domain.Maintenance) {
	s.send(ctx, Notification{
		Type:    NotificationMaintenanceStarted,
		Title:   "Maintenance Started",
		Message: fmt.Sprintf("%s maintenance started", m.Type),
		Data:    maintenanceData(m),
	})
}

// NotifyMaintenanceFinished announces completed maintenance work.
func (s *NotificationService) NotifyMaintenanceFinished(ctx context.Context, m *domain.Maintenance) {
	s.send(ctx, Notification{
		Type:    NotificationMaintenanceFinished,
		Title:   "Maintenance Finished",
		Message: fmt.Sprintf("%s maintenance finished", m.Type),
		Data:    maintenanceData(m),
	})
}

func tripData(trip *domain.Trip) map[string]any {
	return map[string]any{
		"tripId":    trip.ID,
		"driverId":  trip.DriverID,
		"truckId":   trip.TruckID,
		"trailerId": trip.TrailerID,
		"status":    trip.Status,
	}
}

func maintenanceData(m *domain.Maintenance) map[string]any {
	return map[string]any{
		"maintenanceId": m.ID,
		"type":          m.Type,
		"truckId":       m.TruckID,
		"tireId":        m.TireID,
		"status":        m.Status,
	}
}

// send logs the notification and broadcasts it. Delivery never fails the caller.
func (s *NotificationService) send(ctx context.Context, n Notification) {
	if s == nil {
		return
	}
	n.CreatedAt = time.Now().UTC()

	logrus.WithContext(ctx).WithFields(logrus.Fields{
		"type":  n.Type,
		"title": n.Title,
	}).Info(n.Message)

	if s.hub == nil {
		return
	}

	payload, err := json.Marshal(n)
	if err != nil {
		logrus.WithError(err).WithField("type", n.Type).Error("failed to encode notification")
		return
	}
	s.hub.Broadcast(payload)
}
