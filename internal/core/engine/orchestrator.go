package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hide0128/finder/internal/ailink"
	"github.com/hide0128/finder/internal/core"
	"github.com/hide0128/finder/internal/metrics"
)

// Lookuper resolves one candidate name to company info.
type Lookuper interface {
	Lookup(ctx context.Context, name string) (*core.CompanyInfo, error)
}

// LookupFunc adapts a function to Lookuper.
type LookupFunc func(ctx context.Context, name string) (*core.CompanyInfo, error)

// Lookup calls f.
func (f LookupFunc) Lookup(ctx context.Context, name string) (*core.CompanyInfo, error) {
	return f(ctx, name)
}

// DomainVerifier checks a looked-up domain against its registry.
type DomainVerifier interface {
	Verify(ctx context.Context, domain string) core.DomainStatus
}

// Orchestrator fans a batch of candidates out to a Lookuper and waits for
// every lookup to settle. A failing or panicking lookup never affects the
// others.
type Orchestrator struct {
	Lookuper Lookuper

	// Concurrency caps in-flight lookups; zero means one goroutine per name.
	Concurrency int
	// Timeout bounds each lookup; zero means no deadline.
	Timeout time.Duration
	// Limiter, when set, paces lookup starts.
	Limiter *rate.Limiter
	// Verifier, when set, checks each found domain after lookup.
	Verifier DomainVerifier
	// UnknownSentinel is the provider's "no information" marker.
	UnknownSentinel string

	Logger *logging.Logger
	Clock  func() time.Time
}

// Outcome holds one settled result per candidate, in candidate order.
type Outcome struct {
	BatchID string              `json:"batch_id"`
	Results []core.LookupResult `json:"results"`
}

// Successes returns results that produced company info, in input order.
func (o Outcome) Successes() []core.LookupResult {
	out := make([]core.LookupResult, 0, len(o.Results))
	for _, r := range o.Results {
		if r.Succeeded() {
			out = append(out, r)
		}
	}
	return out
}

// Failures returns results that ended in error, in input order.
func (o Outcome) Failures() []core.LookupResult {
	out := make([]core.LookupResult, 0)
	for _, r := range o.Results {
		if r.Error != "" {
			out = append(out, r)
		}
	}
	return out
}

// TimeoutError reports a lookup cut off by the orchestrator's per-lookup timeout.
type TimeoutError struct {
	Name  string
	After time.Duration
	Err   error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("「%s」の検索が%sでタイムアウトしました。", e.Name, e.After)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// Search runs one lookup per name and returns once all of them have settled.
func (o *Orchestrator) Search(ctx context.Context, names []string) (Outcome, error) {
	if o == nil || o.Lookuper == nil {
		return Outcome{}, fmt.Errorf("lookup provider is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	outcome := Outcome{
		BatchID: uuid.NewString(),
		Results: make([]core.LookupResult, len(names)),
	}
	if len(names) == 0 {
		return outcome, nil
	}

	p := pool.New()
	if o.Concurrency > 0 {
		p = p.WithMaxGoroutines(o.Concurrency)
	}

	for i, name := range names {
		p.Go(func() {
			// Each goroutine owns exactly one slot.
			outcome.Results[i] = o.settle(ctx, i, name)
		})
	}
	p.Wait()

	return outcome, nil
}

func (o *Orchestrator) settle(ctx context.Context, index int, name string) core.LookupResult {
	start := o.now()
	result := core.LookupResult{Index: index, Name: name}

	var info *core.CompanyInfo
	var err error
	var pc panics.Catcher
	pc.Try(func() {
		info, err = o.lookupOne(ctx, name)
	})
	if r := pc.Recovered(); r != nil {
		metrics.RecordPanic()
		err = r.AsError()
	}

	result.Duration = o.now().Sub(start)
	result.CompletedAt = o.now()

	switch {
	case err != nil:
		result.Error = failureReason(err)
		o.logFailure(index, name, err)
	case info != nil:
		info.CompanyName = name
		result.Info = info
		if o.Verifier != nil {
			result.DomainStatus = o.verify(ctx, info.Domain)
		}
	}

	metrics.RecordLookup(result.Succeeded(), result.Duration)
	return result
}

func (o *Orchestrator) lookupOne(ctx context.Context, name string) (*core.CompanyInfo, error) {
	if o.Limiter != nil {
		if err := o.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	info, err := o.Lookuper.Lookup(ctx, name)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && o.Timeout > 0 {
		// A provider error already carries a user-facing message.
		var lookupErr *ailink.LookupError
		if errors.As(err, &lookupErr) {
			return nil, err
		}
		return nil, &TimeoutError{Name: name, After: o.Timeout, Err: err}
	}
	return info, err
}

func (o *Orchestrator) verify(ctx context.Context, domain string) core.DomainStatus {
	domain = strings.TrimSpace(domain)
	if core.IsUnknown(domain, o.UnknownSentinel) {
		return core.DomainStatusSkipped
	}
	return o.Verifier.Verify(ctx, domain)
}

func (o *Orchestrator) logFailure(index int, name string, err error) {
	if o.Logger == nil {
		return
	}
	o.Logger.Warn("Lookup failed",
		zap.Int("index", index),
		zap.String("name", name),
		zap.Error(err))
}

func (o *Orchestrator) now() time.Time {
	if o != nil && o.Clock != nil {
		return o.Clock()
	}
	return time.Now().UTC()
}

func failureReason(err error) string {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return unknownErrorMessage
	}
	return msg
}
