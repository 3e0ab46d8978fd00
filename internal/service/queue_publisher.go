// Package service holds application services that sit between the
// HTTP handlers and external systems.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/aerovia/airline-reservation/internal/model"
	"github.com/aerovia/airline-reservation/internal/queue"
)

// PublishBookingConfirmed publishes a BookingConfirmedEvent to the
// booking.confirmed queue.  Messages are persistent and the queue
// declare is idempotent.  Errors are logged and returned so the
// booking path can ignore them: a lost event never fails a committed
// reservation.
func PublishBookingConfirmed(ctx context.Context, event queue.BookingConfirmedEvent) error {
	conn, err := amqp.Dial(queue.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.BookingQueueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.BookingQueueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

// NewBookingEvent assembles the confirmation event from the committed
// booking rows and their flight.
func NewBookingEvent(bookings []model.Booking, flight *model.Flight) queue.BookingConfirmedEvent {
	seats := make([]string, 0, len(bookings))
	var reference string
	var userID uint64
	for _, b := range bookings {
		seats = append(seats, b.SeatNumber)
		reference = b.BookingReference
		userID = b.UserID
	}
	return queue.BookingConfirmedEvent{
		BookingReference: reference,
		UserID:           userID,
		FlightID:         flight.ID,
		FlightNumber:     flight.FlightNumber,
		DepartureCity:    flight.DepartureCity,
		ArrivalCity:      flight.ArrivalCity,
		DepartureTime:    flight.DepartureTime.UTC().Format(time.RFC3339),
		Seats:            seats,
		TotalPrice:       flight.Price * float64(len(bookings)),
		ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
	}
}
