// Package readiness implements the wait-for-port primitive used after
// launching a database container: repeatedly probe a local TCP port at a
// fixed interval until it accepts a connection or a bounded attempt budget
// is exhausted.
//
// The probe is a plain TCP connect-and-close against localhost; no protocol
// payload is sent or expected. Individual failed probes are never surfaced
// to the caller — they are converted into retries until the final attempt,
// at which point they become part of the TimeoutError.
package readiness

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxAttempts is the default probe budget. Together with
	// DefaultInterval this gives roughly a 20 second startup window,
	// which covers MySQL and MariaDB first-boot initialization on most
	// machines.
	DefaultMaxAttempts = 20

	// DefaultInterval is the default pause between failed probes.
	// The interval is constant — no exponential backoff. Backoff buys
	// nothing for short-lived local service startup and makes elapsed
	// time harder to predict.
	DefaultInterval = 1 * time.Second

	// DefaultDialTimeout bounds each individual connect probe. Connects
	// to localhost either succeed or are refused almost instantly, so a
	// short timeout is sufficient and keeps a hung probe from eating
	// into the attempt budget's wall-clock expectations.
	DefaultDialTimeout = 500 * time.Millisecond
)

// Sentinel errors returned by Wait for invalid configuration. Callers can
// match these with errors.Is through wrapped error chains. They are
// reported before any probing begins and are never retried.
var (
	// ErrInvalidPort indicates a port outside the valid TCP range (1-65535).
	ErrInvalidPort = errors.New("port must be in range 1-65535")

	// ErrAttemptsNotPositive indicates a zero or negative attempt budget.
	// A non-positive budget is rejected rather than treated as "never ready".
	ErrAttemptsNotPositive = errors.New("max attempts must be positive")

	// ErrIntervalNotPositive indicates a zero or negative probe interval.
	ErrIntervalNotPositive = errors.New("interval must be positive")
)

// TimeoutError is the terminal failure returned when the probe budget is
// exhausted without a successful connection. It carries the attempt count
// and target port for diagnostics, and is distinguishable from validation
// errors via errors.As.
type TimeoutError struct {
	// Port is the TCP port that never became connectable.
	Port int

	// Attempts is the number of probes performed (always equal to the
	// configured budget).
	Attempts int
}

// Error satisfies the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("port %d not ready after %d attempts", e.Port, e.Attempts)
}

// DialFunc performs a single connectivity probe against the given address.
// A nil return means the endpoint accepted a connection. Implementations
// must close any connection they open — the probe tests reachability only.
//
// The production implementation is a TCP dial; tests substitute fakes to
// control probe outcomes without real sockets.
type DialFunc func(ctx context.Context, addr string) error

// tcpProbe is the default DialFunc: open a TCP connection and immediately
// close it.
func tcpProbe(ctx context.Context, addr string) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return conn.Close()
}

// Config configures a single wait operation. Name is used only for
// labeling in log output; Port is the probe target on localhost.
//
// MaxAttempts and Interval must be set explicitly and positive — a zero
// budget is a validation error, not "never ready". The Default* constants
// are the caller-facing defaults; the CLI applies them as flag defaults.
type Config struct {
	// Name labels the service being waited on in verbose output.
	// It is never parsed.
	Name string

	// Port is the local TCP port to probe (1-65535).
	Port int

	// MaxAttempts is the probe budget. Must be positive.
	MaxAttempts int

	// Interval is the fixed pause between failed probes. Must be positive.
	Interval time.Duration

	// DialTimeout bounds each individual probe. Defaults to
	// DefaultDialTimeout when zero.
	DialTimeout time.Duration

	// Dial overrides the probe implementation. Defaults to a TCP
	// connect-and-close. Intended for tests.
	Dial DialFunc

	// Logf, when non-nil, receives per-attempt progress messages.
	// The CLI wires its verbose logger here.
	Logf func(format string, args ...interface{})
}

// withDefaults returns a copy of the config with the probe mechanics
// defaulted. MaxAttempts and Interval are deliberately not defaulted
// here — they are required inputs validated below.
func (c Config) withDefaults() Config {
	if c.DialTimeout == 0 {
		c.DialTimeout = DefaultDialTimeout
	}
	if c.Dial == nil {
		c.Dial = tcpProbe
	}
	return c
}

// validate checks the config. Invalid inputs are terminal — they are
// reported before any probe is attempted and never retried.
func (c Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("wait for %q: port %d: %w", c.Name, c.Port, ErrInvalidPort)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("wait for %q: %w", c.Name, ErrAttemptsNotPositive)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("wait for %q: %w", c.Name, ErrIntervalNotPositive)
	}
	return nil
}

// Wait blocks until localhost:cfg.Port accepts a TCP connection, or until
// cfg.MaxAttempts probes have failed, or until ctx is cancelled.
//
// The loop makes the first probe immediately: a port that is already
// listening returns success after exactly one probe and zero sleeps. A
// failed probe is followed by a fixed-interval pause, except after the
// final attempt — a budget of N performs N probes and at most N-1 sleeps.
//
// Terminal outcomes are mutually exclusive:
//   - nil: the port accepted a connection.
//   - *TimeoutError: the budget was exhausted (carries port and attempts).
//   - the context error, wrapped: ctx was cancelled during a probe or an
//     inter-attempt pause. Distinguishable from exhaustion via errors.Is
//     against context.Canceled / context.DeadlineExceeded.
func Wait(ctx context.Context, cfg Config) error {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return err
	}

	addr := net.JoinHostPort("localhost", fmt.Sprintf("%d", cfg.Port))

	// The timer is created once and reset per pause, rather than using
	// time.Sleep, so cancellation during the pause is observed promptly.
	timer := time.NewTimer(cfg.Interval)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		// Bail out before probing if the caller has already cancelled.
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("wait for %q on port %d: %w", cfg.Name, cfg.Port, err)
		}

		probeCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
		err := cfg.Dial(probeCtx, addr)
		cancel()

		if err == nil {
			if cfg.Logf != nil {
				cfg.Logf("%s ready on port %d (attempt %d)", cfg.Name, cfg.Port, attempt)
			}
			return nil
		}

		// A cancelled context surfaces through the dial error as well;
		// report it as cancellation, not as a failed probe.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("wait for %q on port %d: %w", cfg.Name, cfg.Port, ctxErr)
		}

		if cfg.Logf != nil {
			cfg.Logf("%s not ready on port %d (attempt %d/%d)", cfg.Name, cfg.Port, attempt, cfg.MaxAttempts)
		}

		// The final failed attempt terminates without a pause.
		if attempt == cfg.MaxAttempts {
			break
		}

		timer.Reset(cfg.Interval)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return fmt.Errorf("wait for %q on port %d: %w", cfg.Name, cfg.Port, ctx.Err())
		case <-timer.C:
		}
	}

	return &TimeoutError{Port: cfg.Port, Attempts: cfg.MaxAttempts}
}

// WaitAll waits for multiple services concurrently. Each config gets its
// own independent waiter with its own counter and probe socket; there is
// no ordering guarantee between them. The call returns when every waiter
// has succeeded, or with the first terminal failure (remaining waiters
// are cancelled via the shared group context).
func WaitAll(ctx context.Context, cfgs ...Config) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, cfg := range cfgs {
		cfg := cfg
		g.Go(func() error {
			return Wait(gctx, cfg)
		})
	}
	return g.Wait()
}
