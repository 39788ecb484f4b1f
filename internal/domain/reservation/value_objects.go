package reservation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"stayhub/internal/pkg/clock"
)

var ErrInvalidStayPeriod = errors.New("checkout must be after checkin")

// StayPeriod is a half-open date interval [checkin, checkout). Checkout day
// is exclusive so a departure and an arrival on the same day do not conflict.
type StayPeriod struct {
	checkin  time.Time
	checkout time.Time
}

// NewStayPeriod normalizes both dates to midnight UTC and requires at least
// one night. Past dates are accepted here; whether a stay may start in the
// past is a creation rule, not an interval property.
func NewStayPeriod(checkin, checkout time.Time) (StayPeriod, error) {
	in := clock.Midnight(checkin)
	out := clock.Midnight(checkout)
	if !out.After(in) {
		return StayPeriod{}, ErrInvalidStayPeriod
	}
	return StayPeriod{checkin: in, checkout: out}, nil
}

func (p StayPeriod) Checkin() time.Time {
	return p.checkin
}

func (p StayPeriod) Checkout() time.Time {
	return p.checkout
}

func (p StayPeriod) Nights() int {
	return int(p.checkout.Sub(p.checkin).Hours() / 24)
}

// Overlaps applies the half-open predicate: A and B share a night iff
// A.checkin < B.checkout && B.checkin < A.checkout.
func (p StayPeriod) Overlaps(other StayPeriod) bool {
	return p.checkin.Before(other.checkout) && other.checkin.Before(p.checkout)
}

// StartedBy reports whether the stay has begun as of the given day.
func (p StayPeriod) StartedBy(today time.Time) bool {
	return !clock.Midnight(today).Before(p.checkin)
}

// EndedBy reports whether the checkout date has passed as of the given day.
func (p StayPeriod) EndedBy(today time.Time) bool {
	return !clock.Midnight(today).Before(p.checkout)
}

// ToDaterange renders the period as a postgres daterange literal, matching
// the half-open convention used by the storage-level exclusion constraint.
func (p StayPeriod) ToDaterange() string {
	return fmt.Sprintf("[%s,%s)", p.checkin.Format(time.DateOnly), p.checkout.Format(time.DateOnly))
}

type Money struct {
	cents int64
}

func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Dollars() float64 {
	return float64(m.cents) / 100.0
}

type CancelReason struct {
	value string
}

const ReasonPaymentTimeout = "payment timeout"

var ErrEmptyCancelReason = errors.New("cancellation reason is required")

func NewCancelReason(value string) (CancelReason, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return CancelReason{}, ErrEmptyCancelReason
	}
	return CancelReason{value: trimmed}, nil
}

func (r CancelReason) String() string {
	return r.value
}
