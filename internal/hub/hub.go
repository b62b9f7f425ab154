// Package hub implements the driver/user matching and session
// coordination service: a connection registry, the active pool, the ride
// ledger and the protocol dispatcher that ties them together.
package hub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/example/ride-hub/internal/archive"
	"github.com/example/ride-hub/internal/eta"
	"github.com/example/ride-hub/internal/events"
	"github.com/example/ride-hub/internal/models"
	"github.com/example/ride-hub/internal/observability"
	"github.com/example/ride-hub/internal/payments"
	"github.com/example/ride-hub/internal/presence"
	"github.com/example/ride-hub/internal/profiles"
	"github.com/example/ride-hub/internal/protocol"
)

const defaultReminderDelay = 30 * time.Second

// Config wires the hub's collaborators. Events, Presence and Payments are
// optional; nil disables them. Archive defaults to in-memory.
type Config struct {
	Logger        *slog.Logger
	Profiles      *profiles.Directory
	ETA           eta.Estimator
	Archive       archive.RideArchive
	Events        *events.Producer
	Presence      *presence.Mirror
	Payments      *payments.StripeClient
	ReminderDelay time.Duration
}

// Hub owns all coordination state. A single mutex is held for the full
// handling of each inbound message, which restores the run-to-completion
// guarantee the protocol depends on: no pool or ledger mutation is ever
// observed half-done. The reminder timer is the only path that runs
// outside a message handler, and it takes the same mutex.
type Hub struct {
	mu sync.Mutex

	log      *slog.Logger
	registry *Registry
	pool     *Pool
	ledger   *Ledger
	engine   *Engine
	profiles *profiles.Directory

	archive  archive.RideArchive
	events   *events.Producer
	presence *presence.Mirror
	payments *payments.StripeClient

	reminderDelay time.Duration
}

func New(cfg Config) *Hub {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Profiles == nil {
		cfg.Profiles = profiles.NewSeedDirectory()
	}
	if cfg.ETA == nil {
		cfg.ETA = eta.NewRandomEstimator(3, 8, time.Now().UnixNano())
	}
	if cfg.Archive == nil {
		cfg.Archive = archive.NewMemoryArchive()
	}
	if cfg.ReminderDelay <= 0 {
		cfg.ReminderDelay = defaultReminderDelay
	}

	h := &Hub{
		log:           cfg.Logger,
		registry:      NewRegistry(),
		pool:          NewPool(),
		ledger:        NewLedger(),
		profiles:      cfg.Profiles,
		archive:       cfg.Archive,
		events:        cfg.Events,
		presence:      cfg.Presence,
		payments:      cfg.Payments,
		reminderDelay: cfg.ReminderDelay,
	}
	h.engine = &Engine{
		Pool:     h.pool,
		Registry: h.registry,
		Ledger:   h.ledger,
		ETA:      cfg.ETA,
		Log:      cfg.Logger,
	}
	return h
}

// ServeConn runs the read loop for one WebSocket connection and blocks
// until the peer goes away.
func (h *Hub) ServeConn(conn *websocket.Conn) {
	sess := newSession(conn)
	h.log.Info("connection opened", "connection_id", sess.ID)
	_ = sess.Send(protocol.NewConnectionEstablished(sess.ID))
	defer func() {
		sess.markClosed()
		_ = conn.Close()
		h.cleanup(sess)
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		h.dispatch(sess, raw)
	}
}

// dispatch decodes one frame and handles it to completion under the hub
// mutex. A bad frame yields an error reply to the sender and nothing else:
// it never closes the connection or touches other clients.
func (h *Hub) dispatch(sess *Session, raw []byte) {
	msg, err := protocol.Decode(raw)
	if err != nil {
		observability.MessageErrors.Inc()
		var unknown *protocol.UnknownTypeError
		if errors.As(err, &unknown) {
			h.log.Warn("unknown message type", "connection_id", sess.ID, "msg_type", unknown.Type)
			_ = sess.Send(protocol.NewError(unknown.Error()))
			return
		}
		h.log.Warn("malformed message", "connection_id", sess.ID, "error", err)
		_ = sess.Send(protocol.NewError("error processing message"))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	switch m := msg.(type) {
	case protocol.DriverRegister:
		observability.MessagesTotal.WithLabelValues(protocol.TypeDriverRegister).Inc()
		h.handleDriverRegister(sess, m)
	case protocol.UserRegister:
		observability.MessagesTotal.WithLabelValues(protocol.TypeUserRegister).Inc()
		h.handleUserRegister(sess, m)
	case protocol.MatcherRegister:
		observability.MessagesTotal.WithLabelValues(protocol.TypeMatcherRegister).Inc()
		h.handleMatcherRegister(sess)
	case protocol.DriverStatus:
		observability.MessagesTotal.WithLabelValues(protocol.TypeDriverStatus).Inc()
		h.handleDriverStatus(sess, m)
	case protocol.MatchRequest:
		observability.MessagesTotal.WithLabelValues(protocol.TypeMatchRequest).Inc()
		h.handleMatchRequest(sess, m)
	case protocol.BookingResponse:
		observability.MessagesTotal.WithLabelValues(protocol.TypeBookingResponse).Inc()
		h.handleBookingResponse(sess, m)
	}
}

func (h *Hub) handleDriverRegister(sess *Session, m protocol.DriverRegister) {
	tmpl, ok := h.profiles.Driver(m.DriverID)
	if !ok {
		h.sendError(sess, fmt.Sprintf("Driver with ID %s not found in profile directory", m.DriverID))
		return
	}

	h.registry.RegisterDriver(m.DriverID, sess)
	h.pool.AddDriver(tmpl)
	h.log.Info("driver registered", "driver_id", m.DriverID, "connection_id", sess.ID)

	h.mirrorDriverAvailable(m.DriverID)
	_ = sess.Send(protocol.NewRegistrationSuccess("Driver registered successfully", h.registry.Counts()))
	h.pushPool(nil)
}

func (h *Hub) handleUserRegister(sess *Session, m protocol.UserRegister) {
	tmpl, ok := h.profiles.User(m.UserID)
	if !ok {
		h.sendError(sess, fmt.Sprintf("User with ID %s not found in profile directory", m.UserID))
		return
	}

	h.registry.RegisterUser(m.UserID, sess)
	h.pool.AddUser(tmpl)
	h.log.Info("user registered", "user_id", m.UserID, "connection_id", sess.ID)

	_ = sess.Send(protocol.NewRegistrationSuccess("User registered successfully", h.registry.Counts()))
	h.pushPool(nil)
}

func (h *Hub) handleMatcherRegister(sess *Session) {
	h.registry.RegisterObserver(sess)
	h.log.Info("matcher registered", "connection_id", sess.ID)
	h.pushPool(nil)
}

func (h *Hub) handleDriverStatus(sess *Session, m protocol.DriverStatus) {
	if sess.role != RoleDriver {
		h.sendError(sess, "Only drivers can update status")
		return
	}

	driverID := sess.clientID
	if !h.pool.SetDriverAvailability(driverID, m.IsAvailable, m.Location, h.profiles.Driver) {
		h.sendError(sess, "Driver data not found")
		return
	}

	status := "unavailable"
	if m.IsAvailable {
		status = "available"
		h.mirrorDriverAvailable(driverID)
	} else {
		h.mirrorDriverOffline(driverID)
	}
	h.log.Info("driver status updated", "driver_id", driverID, "status", status)

	h.pushPool(nil)
	_ = sess.Send(protocol.StatusUpdated{Type: protocol.TypeStatusUpdated, Status: status})
}

func (h *Hub) handleMatchRequest(sess *Session, m protocol.MatchRequest) {
	if sess.role != RoleObserver {
		h.sendError(sess, "Only matcher can request matches")
		return
	}

	ride, err := h.engine.Match(m.UserID, m.DriverID)
	if err != nil {
		reason := "not_in_pool"
		if errors.Is(err, ErrNotConnected) {
			reason = "not_connected"
		}
		observability.MatchFailures.WithLabelValues(reason).Inc()
		h.log.Info("match failed", "user_id", m.UserID, "driver_id", m.DriverID, "error", err)
		_ = sess.Send(protocol.MatchResult{
			Type:    protocol.TypeMatchResult,
			Success: false,
			Message: "Match failed: " + err.Error(),
		})
		return
	}

	observability.MatchesTotal.Inc()
	h.log.Info("booking proposed", "ride_id", ride.ID, "user_id", m.UserID, "driver_id", m.DriverID)
	h.archiveSave(ride)
	h.publishEvent(events.RideRequested, ride)

	_ = sess.Send(protocol.MatchResult{
		Type:    protocol.TypeMatchResult,
		Success: true,
		Message: "Match request sent",
		RideID:  ride.ID,
	})
}

func (h *Hub) handleBookingResponse(sess *Session, m protocol.BookingResponse) {
	ride, ok := h.ledger.Get(m.RideID)
	if !ok {
		h.sendError(sess, "Ride not found")
		return
	}

	// Replay of a response to an already-settled ride: re-ack and change
	// nothing, so client retries cannot double-process a booking.
	if ride.Status.Terminal() {
		_ = sess.Send(protocol.BookingProcessed{Type: protocol.TypeBookingProcessed, RideID: ride.ID, Status: ride.Status})
		return
	}

	observability.BookingResponses.WithLabelValues(m.Response).Inc()

	switch m.Response {
	case protocol.ResponseAccept:
		if !h.acceptBooking(sess, ride) {
			return
		}
	case protocol.ResponseReject:
		h.rejectBooking(ride)
	case protocol.ResponseRemind:
		h.scheduleReminder(ride)
	default:
		h.sendError(sess, fmt.Sprintf("unknown booking response: %s", m.Response))
		return
	}

	_ = sess.Send(protocol.BookingProcessed{Type: protocol.TypeBookingProcessed, RideID: ride.ID, Status: ride.Status})
}

// acceptBooking settles the ride and removes both parties from the pool.
// When the driver dropped off between proposal and acceptance the user is
// restored to the pool and told; the driver side is gone and cannot be.
// Returns false when the caller should not receive the processed ack.
func (h *Hub) acceptBooking(sess *Session, ride *models.Ride) bool {
	_, _ = h.ledger.Transition(ride.ID, models.RideAccepted)
	h.pool.RemoveUser(ride.User.ID)
	h.pool.RemoveDriver(ride.Driver.ID)

	if !h.registry.DriverConnected(ride.Driver.ID) {
		h.log.Warn("accept with disconnected driver", "ride_id", ride.ID, "driver_id", ride.Driver.ID)
		h.sendError(sess, "Driver is no longer connected, cannot complete booking")
		h.pool.AddUser(ride.User)
		h.archiveUpdate(ride)
		h.pushPool(nil)
		return false
	}

	delivered := h.registry.SendToClient(ride.Driver.ID, protocol.RideAccepted{
		Type:          protocol.TypeRideAccepted,
		RideID:        ride.ID,
		User:          protocol.RiderSummary{ID: ride.User.ID, Name: ride.User.Name, Rating: ride.User.Rating},
		Pickup:        ride.PickupLocation,
		Destination:   ride.DropLocation,
		EstimatedFare: ride.EstimatedFare,
		Timestamp:     time.Now().UTC(),
	})
	if !delivered {
		h.log.Warn("ride_accepted delivery failed", "ride_id", ride.ID, "driver_id", ride.Driver.ID)
	}

	h.log.Info("booking accepted", "ride_id", ride.ID, "user_id", ride.User.ID, "driver_id", ride.Driver.ID)
	h.archiveUpdate(ride)
	h.publishEvent(events.RideAccepted, ride)
	h.holdFare(ride)
	h.pushPool(&protocol.MatchInfo{
		RideID: ride.ID,
		Status: string(models.RideAccepted),
		User:   ride.User.ID,
		Driver: ride.Driver.ID,
	})
	return true
}

func (h *Hub) rejectBooking(ride *models.Ride) {
	_, _ = h.ledger.Transition(ride.ID, models.RideRejected)

	// The driver goes back to work if still around; the user stays out
	// and has to re-register to request again.
	if h.registry.DriverConnected(ride.Driver.ID) {
		h.pool.AddDriver(ride.Driver)
		h.log.Info("driver returned to pool after rejection", "driver_id", ride.Driver.ID)
	}

	h.archiveUpdate(ride)
	h.publishEvent(events.RideRejected, ride)

	if obs := h.registry.Observer(); obs != nil {
		_ = obs.Send(protocol.MatchRejected{
			Type:       protocol.TypeMatchRejected,
			RideID:     ride.ID,
			UserID:     ride.User.ID,
			DriverID:   ride.Driver.ID,
			ActivePool: h.pool.Snapshot(),
		})
	}
	h.refreshGauges()
}

func (h *Hub) scheduleReminder(ride *models.Ride) {
	_, _ = h.ledger.Transition(ride.ID, models.RideRemind)
	h.archiveUpdate(ride)
	h.publishEvent(events.ReminderScheduled, ride)

	rideID := ride.ID
	time.AfterFunc(h.reminderDelay, func() { h.fireReminder(rideID) })
	h.log.Info("reminder scheduled", "ride_id", rideID, "delay", h.reminderDelay)
}

// fireReminder runs on the timer goroutine, so it re-checks everything
// under the hub mutex: the ride may have been accepted or rejected and the
// user may have left since the reminder was scheduled.
func (h *Hub) fireReminder(rideID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ride, ok := h.ledger.Get(rideID)
	if !ok || ride.Status != models.RideRemind {
		observability.RemindersDropped.Inc()
		return
	}
	if !h.registry.UserConnected(ride.User.ID) {
		observability.RemindersDropped.Inc()
		h.log.Info("reminder dropped, user gone", "ride_id", rideID, "user_id", ride.User.ID)
		return
	}

	h.registry.SendToClient(ride.User.ID, protocol.BookingReminder{
		Type:       protocol.TypeBookingReminder,
		RideID:     ride.ID,
		DriverID:   ride.Driver.ID,
		DriverName: ride.Driver.Name,
		PickupTime: ride.ScheduledTime,
	})
	observability.RemindersSent.Inc()
}

// cleanup runs when a transport closes: the session leaves the registry,
// its pool entry goes away, and the observer gets a fresh snapshot. A
// session whose client id was since rebound to a newer connection leaves
// the newer binding and its pool entry untouched.
func (h *Hub) cleanup(sess *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.log.Info("connection closed", "connection_id", sess.ID, "role", string(sess.role), "client_id", sess.clientID)

	current := h.registry.currentBinding(sess)
	h.registry.Unregister(sess)
	if current {
		switch sess.role {
		case RoleDriver:
			h.pool.RemoveDriver(sess.clientID)
			h.mirrorDriverOffline(sess.clientID)
		case RoleUser:
			h.pool.RemoveUser(sess.clientID)
		}
	}

	h.pushPool(nil)
}

// pushPool refreshes gauges and, when an observer is registered, sends it
// a full pool snapshot.
func (h *Hub) pushPool(info *protocol.MatchInfo) {
	h.refreshGauges()
	obs := h.registry.Observer()
	if obs == nil {
		return
	}
	view := h.pool.Snapshot()
	_ = obs.Send(protocol.PoolUpdate{
		Type:             protocol.TypePoolUpdate,
		AvailableDrivers: view.AvailableDrivers,
		AvailableUsers:   view.AvailableUsers,
		Connections:      h.registry.Counts(),
		MatchInfo:        info,
	})
}

func (h *Hub) refreshGauges() {
	counts := h.registry.Counts()
	observability.ConnectionsByRole.WithLabelValues(string(RoleDriver)).Set(float64(counts.DriversCount))
	observability.ConnectionsByRole.WithLabelValues(string(RoleUser)).Set(float64(counts.UsersCount))
	observers := 0.0
	if h.registry.Observer() != nil {
		observers = 1
	}
	observability.ConnectionsByRole.WithLabelValues(string(RoleObserver)).Set(observers)
	observability.PoolDrivers.Set(float64(h.pool.DriverCount()))
	observability.PoolUsers.Set(float64(h.pool.UserCount()))
}

func (h *Hub) sendError(sess *Session, msg string) {
	observability.MessageErrors.Inc()
	_ = sess.Send(protocol.NewError(msg))
}

func (h *Hub) archiveSave(ride *models.Ride) {
	if err := h.archive.SaveRide(ride); err != nil {
		h.log.Warn("ride archive save failed", "ride_id", ride.ID, "error", err)
	}
}

func (h *Hub) archiveUpdate(ride *models.Ride) {
	if err := h.archive.UpdateRide(ride); err != nil {
		h.log.Warn("ride archive update failed", "ride_id", ride.ID, "error", err)
	}
}

func (h *Hub) publishEvent(kind string, ride *models.Ride) {
	if h.events == nil {
		return
	}
	ev := events.RideEvent{Event: kind, RideID: ride.ID, UserID: ride.User.ID, DriverID: ride.Driver.ID}
	if err := h.events.Publish(ev); err != nil {
		h.log.Warn("event publish failed", "event", kind, "ride_id", ride.ID, "error", err)
	}
}

// holdFare places a best-effort payment hold off the hub goroutine; the
// booking never waits on Stripe.
func (h *Hub) holdFare(ride *models.Ride) {
	if h.payments == nil {
		return
	}
	amount := int64(ride.EstimatedFare * 100)
	rideID := ride.ID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		id, err := h.payments.HoldFare(ctx, amount, "inr")
		if err != nil {
			h.log.Warn("fare hold failed", "ride_id", rideID, "error", err)
			return
		}
		h.log.Info("fare held", "ride_id", rideID, "payment_intent", id)
	}()
}

func (h *Hub) mirrorDriverAvailable(driverID string) {
	if h.presence == nil {
		return
	}
	rec, ok := h.pool.Driver(driverID)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.presence.DriverAvailable(ctx, &rec); err != nil {
		h.log.Warn("presence mirror failed", "driver_id", driverID, "error", err)
	}
}

func (h *Hub) mirrorDriverOffline(driverID string) {
	if h.presence == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.presence.DriverOffline(ctx, driverID); err != nil {
		h.log.Warn("presence mirror failed", "driver_id", driverID, "error", err)
	}
}
