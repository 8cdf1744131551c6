package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mlevasseur/stationnement/internal/domain"
	"github.com/mlevasseur/stationnement/internal/kafka"
	"github.com/mlevasseur/stationnement/internal/repository"
	"github.com/mlevasseur/stationnement/internal/tariff"
)

type SessionUseCase interface {
	StartSession(ctx context.Context, input StartSessionInput) (*domain.Session, error)
	CloseSession(ctx context.Context, sessionID string, departedAt time.Time) (*domain.Session, error)
	QueryStatus(ctx context.Context, sessionID string) (domain.SessionStatus, error)
	QueryCost(ctx context.Context, sessionID string) (domain.Cents, error)
	ListHistory(ctx context.Context, userID int64) ([]HistoryEntry, error)
	NotifyExpiredSessions(ctx context.Context) ([]domain.Session, error)
}

type Cache interface {
	ClaimGrace(ctx context.Context, vehicleID int64, bucket, sessionID string, ttl time.Duration) (bool, error)
	AcquireStartLock(ctx context.Context, vehicleID int64, ttl time.Duration) (bool, error)
	ReleaseStartLock(ctx context.Context, vehicleID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type StartSessionInput struct {
	VehicleID  int64              `json:"vehicle_id"`
	Kind       domain.SessionKind `json:"kind"`
	ZoneID     domain.ZoneID      `json:"zone_id"`
	FacilityID int64              `json:"facility_id"`
	// Declared duration, voirie only.
	PlannedHours   int `json:"planned_hours"`
	PlannedMinutes int `json:"planned_minutes"`
}

// HistoryEntry carries the formatted fields the history screen renders.
type HistoryEntry struct {
	SessionID string `json:"session_id"`
	Date      string `json:"date"`
	Kind      string `json:"kind"`
	Vehicle   string `json:"vehicle"`
	Location  string `json:"location"`
	Duration  string `json:"duration"`
	Cost      string `json:"cost"`
	Status    string `json:"status"`
}

type SessionService struct {
	sessions            repository.SessionRepository
	vehicles            repository.VehicleRepository
	catalog             *tariff.Catalog
	cache               Cache
	producer            Producer
	sessionsTopic       string
	notificationsTopic  string
	startLockTTL        time.Duration
	halfDayBoundaryHour int
}

type SessionServiceOption func(*SessionService)

func WithNotificationsTopic(topic string) SessionServiceOption {
	return func(s *SessionService) {
		s.notificationsTopic = topic
	}
}

func WithHalfDayBoundaryHour(hour int) SessionServiceOption {
	return func(s *SessionService) {
		s.halfDayBoundaryHour = hour
	}
}

func NewSessionService(
	sessions repository.SessionRepository,
	vehicles repository.VehicleRepository,
	catalog *tariff.Catalog,
	cache Cache,
	producer Producer,
	sessionsTopic string,
	startLockTTL time.Duration,
	opts ...SessionServiceOption,
) *SessionService {
	service := &SessionService{
		sessions:            sessions,
		vehicles:            vehicles,
		catalog:             catalog,
		cache:               cache,
		producer:            producer,
		sessionsTopic:       sessionsTopic,
		startLockTTL:        startLockTTL,
		halfDayBoundaryHour: 12,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *SessionService) StartSession(ctx context.Context, input StartSessionInput) (*domain.Session, error) {
	now := time.Now()

	session := &domain.Session{
		ID:        uuid.NewString(),
		VehicleID: input.VehicleID,
		Kind:      input.Kind,
		Status:    domain.SessionStatusActive,
		CreatedAt: now,
	}

	var zone *domain.Zone
	switch input.Kind {
	case domain.SessionKindOnStreet:
		z, err := s.catalog.ZoneFor(input.ZoneID)
		if err != nil {
			return nil, err
		}
		planned := time.Duration(input.PlannedHours)*time.Hour + time.Duration(input.PlannedMinutes)*time.Minute
		if planned <= 0 {
			return nil, errors.New("planned duration must be positive")
		}
		zone = z
		session.ZoneID = z.ID
		session.PlannedDuration = planned
	case domain.SessionKindOffStreet:
		facility, err := s.catalog.FacilityFor(input.FacilityID)
		if err != nil {
			return nil, err
		}
		session.FacilityID = facility.ID
		session.ZoneID = facility.ZoneID
		session.ArrivedAt = now
	default:
		return nil, fmt.Errorf("unknown session kind %q", input.Kind)
	}

	if s.cache != nil {
		ok, err := s.cache.AcquireStartLock(ctx, input.VehicleID, s.startLockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrVehicleAlreadyActive
		}
		defer func() {
			_ = s.cache.ReleaseStartLock(ctx, input.VehicleID)
		}()
	}

	if err := s.sessions.CreateActive(ctx, session); err != nil {
		return nil, err
	}

	// Declare-and-pay: the voirie cost is settled right after the insert,
	// so a refused start never consumes the vehicle's half-day grace.
	if session.Kind == domain.SessionKindOnStreet {
		cost, err := s.priceSession(ctx, session, zone, tariff.ResolvedDuration{Value: session.PlannedDuration}, now)
		if err != nil {
			return nil, err
		}
		if cost != session.CostCents {
			if err := s.sessions.SaveCost(ctx, session.ID, cost); err != nil {
				return nil, err
			}
			session.CostCents = cost
		}
	}

	if err := s.publish(ctx, "session_started", session); err != nil {
		fmt.Printf("WARNING: Failed to publish session_started event for session %s: %v\n", session.ID, err)
	}
	return session, nil
}

func (s *SessionService) CloseSession(ctx context.Context, sessionID string, departedAt time.Time) (*domain.Session, error) {
	current, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if current.Closed() || current.Status != domain.SessionStatusActive {
		return nil, domain.ErrSessionNotActive
	}
	if departedAt.Before(current.StartedAt()) {
		return nil, domain.ErrInvalidInterval
	}

	zone, err := s.catalog.ZoneFor(current.ZoneID)
	if err != nil {
		return nil, err
	}

	// Voirie keeps the cost paid at creation; parking is priced on the
	// observed interval. A voirie close past the zone maximum adds the
	// majoration unless the declared duration already carried it.
	cost := current.CostCents
	if current.Kind == domain.SessionKindOffStreet {
		resolved := tariff.ResolvedDuration{Value: departedAt.Sub(current.ArrivedAt)}
		cost, err = s.priceSession(ctx, current, zone, resolved, current.ArrivedAt)
		if err != nil {
			return nil, err
		}
	} else if !zone.FreeWithDisc && current.PlannedDuration <= zone.MaxDuration && departedAt.Sub(current.StartedAt()) > zone.MaxDuration {
		cost += zone.OveragePenalty
	}

	updated, err := s.sessions.RecordDeparture(ctx, sessionID, departedAt, cost)
	if err != nil {
		return nil, err
	}

	if err := s.publish(ctx, "session_closed", updated); err != nil {
		fmt.Printf("WARNING: Failed to publish session_closed event for session %s: %v\n", updated.ID, err)
	}
	return updated, nil
}

// QueryStatus recomputes the status on every read. A session past its
// allotted time with no recorded close reads EXPIRED even though the
// stored row still says ACTIVE.
func (s *SessionService) QueryStatus(ctx context.Context, sessionID string) (domain.SessionStatus, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return "", err
	}
	zone, err := s.catalog.ZoneFor(session.ZoneID)
	if err != nil {
		return "", err
	}
	return tariff.StatusAt(session, zone, time.Now()), nil
}

func (s *SessionService) QueryCost(ctx context.Context, sessionID string) (domain.Cents, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	resolved, err := tariff.ResolveDuration(session)
	if err != nil {
		return 0, err
	}
	if resolved.InProgress {
		return 0, domain.ErrCannotPriceOpenSession
	}
	// Costs are settled when they become known (creation for voirie,
	// close for parking); the stored amount is authoritative afterwards,
	// so repeated queries never touch the grace flag again.
	return session.CostCents, nil
}

func (s *SessionService) ListHistory(ctx context.Context, userID int64) ([]HistoryEntry, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.vehicles.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	descriptors := make(map[int64]string, len(vehicles))
	for i := range vehicles {
		descriptors[vehicles[i].ID] = vehicles[i].Descriptor()
	}

	now := time.Now()
	entries := make([]HistoryEntry, 0, len(sessions))
	for i := range sessions {
		session := &sessions[i]
		zone, err := s.catalog.ZoneFor(session.ZoneID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, s.historyEntry(session, zone, descriptors[session.VehicleID], now))
	}
	return entries, nil
}

// NotifyExpiredSessions is the worker sweep: publish a one-shot expiry
// notification for overdue sessions. Persisted status is left alone so a
// late close still transitions to FINISHED.
func (s *SessionService) NotifyExpiredSessions(ctx context.Context) ([]domain.Session, error) {
	now := time.Now()
	var notified []domain.Session
	for _, zone := range s.catalog.Zones() {
		overdue, err := s.sessions.ListOverdueUnnotified(ctx, zone.ID, now.Add(-zone.MaxDuration))
		if err != nil {
			return nil, err
		}
		for i := range overdue {
			session := &overdue[i]
			if err := s.publishExpired(ctx, session); err != nil {
				fmt.Printf("WARNING: Failed to publish session_expired event for session %s: %v\n", session.ID, err)
				continue
			}
			if err := s.sessions.MarkExpiryNotified(ctx, session.ID); err != nil {
				return nil, err
			}
			notified = append(notified, *session)
		}
	}
	return notified, nil
}

// priceSession runs the tariff engine with the Rouge grace applied on
// top: the first qualifying stay of the vehicle's half-day is free, and
// the claim is keyed by session id so re-pricing the same session never
// burns a second slot.
func (s *SessionService) priceSession(ctx context.Context, session *domain.Session, zone *domain.Zone, resolved tariff.ResolvedDuration, at time.Time) (domain.Cents, error) {
	if tariff.GraceApplies(zone, resolved) && s.cache != nil {
		bucket := tariff.HalfDayBucket(at, s.halfDayBoundaryHour)
		granted, err := s.cache.ClaimGrace(ctx, session.VehicleID, bucket, session.ID, 24*time.Hour)
		if err != nil {
			return 0, err
		}
		if granted {
			return 0, nil
		}
	}
	return tariff.Price(zone, resolved)
}

func (s *SessionService) historyEntry(session *domain.Session, zone *domain.Zone, vehicle string, now time.Time) HistoryEntry {
	kind := "Voirie"
	location := zone.ID.Label()
	if session.Kind == domain.SessionKindOffStreet {
		kind = "Parking"
		if facility, err := s.catalog.FacilityFor(session.FacilityID); err == nil {
			location = facility.Name
		}
	}

	duration := "en cours"
	cost := "-"
	if resolved, err := tariff.ResolveDuration(session); err == nil && !resolved.InProgress {
		duration = formatDuration(resolved.Value)
		cost = session.CostCents.Format()
	}

	return HistoryEntry{
		SessionID: session.ID,
		Date:      session.CreatedAt.Format("02/01/2006"),
		Kind:      kind,
		Vehicle:   vehicle,
		Location:  location,
		Duration:  duration,
		Cost:      cost,
		Status:    statusLabel(tariff.StatusAt(session, zone, now)),
	}
}

func statusLabel(status domain.SessionStatus) string {
	switch status {
	case domain.SessionStatusActive:
		return "En cours"
	case domain.SessionStatusFinished:
		return "Terminé"
	case domain.SessionStatusExpired:
		return "Expiré"
	default:
		return string(status)
	}
}

func formatDuration(d time.Duration) string {
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	return fmt.Sprintf("%dh%02d", h, m)
}

func (s *SessionService) publish(ctx context.Context, eventType string, session *domain.Session) error {
	return s.publishEvent(ctx, kafka.SessionEvent{
		Type:       eventType,
		SessionID:  session.ID,
		VehicleID:  session.VehicleID,
		Kind:       string(session.Kind),
		ZoneID:     string(session.ZoneID),
		FacilityID: session.FacilityID,
		Status:     string(session.Status),
		CostCents:  int64(session.CostCents),
		OccurredAt: time.Now(),
	})
}

func (s *SessionService) publishExpired(ctx context.Context, session *domain.Session) error {
	return s.publishEvent(ctx, kafka.SessionEvent{
		Type:       "session_expired",
		SessionID:  session.ID,
		VehicleID:  session.VehicleID,
		Kind:       string(session.Kind),
		ZoneID:     string(session.ZoneID),
		FacilityID: session.FacilityID,
		Status:     string(domain.SessionStatusExpired),
		CostCents:  int64(session.CostCents),
		OccurredAt: time.Now(),
	})
}

func (s *SessionService) publishEvent(ctx context.Context, event kafka.SessionEvent) error {
	if s.producer == nil || s.sessionsTopic == "" {
		return nil
	}
	if err := s.producer.Publish(ctx, s.sessionsTopic, event.SessionID, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, event.SessionID, event)
	}
	return nil
}

var _ SessionUseCase = (*SessionService)(nil)
