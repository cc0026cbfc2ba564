package store

import (
	"fmt"

	"github.com/banshee-data/signal.report/internal/audit"
	"github.com/banshee-data/signal.report/internal/signal"
)

// Repository provides domain-level access to persisted signals.
type Repository interface {
	Save(sig *signal.Signal) error
	Get(id string) (*signal.Signal, error)
}

// SignalRepository persists signals with audit and trace supervision.
// Signals are treated as critical data: every save and load is audited, and
// failures leave a trace record.
type SignalRepository struct {
	ctx     Context
	auditor audit.Auditor
	tracer  audit.Tracer
}

// NewSignalRepository creates a supervised repository over ctx.
func NewSignalRepository(ctx Context, auditor audit.Auditor, tracer audit.Tracer) *SignalRepository {
	return &SignalRepository{ctx: ctx, auditor: auditor, tracer: tracer}
}

// Save persists the signal, auditing before and after.
func (r *SignalRepository) Save(sig *signal.Signal) error {
	r.audit(sig, "before save")
	if err := r.ctx.Persist(sig); err != nil {
		r.audit(sig, "save failed")
		r.trace(sig, "save", err.Error())
		return fmt.Errorf("failed to save signal: %w", err)
	}
	r.audit(sig, "saved")
	return nil
}

// Get recovers the signal stored under id, auditing the access.
func (r *SignalRepository) Get(id string) (*signal.Signal, error) {
	r.audit(idStringer(id), "before load")
	sig, err := r.ctx.Recover(id)
	if err != nil {
		r.trace(idStringer(id), "load", err.Error())
		return nil, fmt.Errorf("failed to load signal %s: %w", id, err)
	}
	r.audit(sig, "loaded")
	return sig, nil
}

// audit and trace failures must not mask the repository operation itself;
// they are reported through the tracer/auditor error paths only.
func (r *SignalRepository) audit(entity fmt.Stringer, note string) {
	if r.auditor == nil {
		return
	}
	_ = r.auditor.Audit(entity, note)
}

func (r *SignalRepository) trace(entity fmt.Stringer, action, message string) {
	if r.tracer == nil {
		return
	}
	_ = r.tracer.Trace(entity, action, message)
}

type idStringer string

func (s idStringer) String() string { return "signal " + string(s) }

// PlainRepository persists signals without supervision, for data that does
// not warrant an audit trail.
type PlainRepository struct {
	ctx Context
}

// NewPlainRepository creates an unsupervised repository over ctx.
func NewPlainRepository(ctx Context) *PlainRepository {
	return &PlainRepository{ctx: ctx}
}

func (r *PlainRepository) Save(sig *signal.Signal) error {
	return r.ctx.Persist(sig)
}

func (r *PlainRepository) Get(id string) (*signal.Signal, error) {
	return r.ctx.Recover(id)
}
