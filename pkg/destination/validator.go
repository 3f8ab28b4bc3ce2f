package destination

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pingcap-inc/dwsink/pkg/coreinterfaces"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// ProbeTablePrefix prefixes the throwaway table used to verify write permission.
const ProbeTablePrefix = "_airbyte_connection_test_"

const defaultConnectTimeout = 30 * time.Second

// ValidationState is the state of a single connection check.
//
//	Idle -> Connecting -> Probing -> Succeeded
//	           |             |
//	           +-------------+----> Failed
type ValidationState int

const (
	StateIdle ValidationState = iota
	StateConnecting
	StateProbing
	StateSucceeded
	StateFailed
)

func (s ValidationState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateProbing:
		return "probing"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("ValidationState(%d)", int(s))
	}
}

// Validator confirms that a destination is reachable and writable.
// It holds no per-call state and is safe for concurrent use.
type Validator struct {
	// ConnectTimeout bounds opening the connection and the catalog probe.
	ConnectTimeout time.Duration
}

func NewValidator() *Validator {
	return &Validator{ConnectTimeout: defaultConnectTimeout}
}

// ValidateConnection runs a check with the default validator.
func ValidateConnection(
	ctx context.Context,
	desc *coreinterfaces.ConnectionDescriptor,
	driver coreinterfaces.Driver,
	naming coreinterfaces.NamingTransformer,
	ops coreinterfaces.SQLOperations,
) ConnectionStatus {
	return NewValidator().Validate(ctx, desc, driver, naming, ops)
}

// Validate connects, lists catalogs, then creates and drops a uniquely named
// table in the target schema. Every failure, including a panic, is reported as
// a Failed status. The connection is closed before Validate returns.
func (v *Validator) Validate(
	ctx context.Context,
	desc *coreinterfaces.ConnectionDescriptor,
	driver coreinterfaces.Driver,
	naming coreinterfaces.NamingTransformer,
	ops coreinterfaces.SQLOperations,
) (status ConnectionStatus) {
	p := &probe{validator: v, desc: desc, driver: driver, naming: naming, ops: ops, state: StateIdle}
	defer func() {
		if r := recover(); r != nil {
			status = p.fail(errors.Errorf("unexpected panic: %v", r))
		}
	}()
	if err := p.run(ctx); err != nil {
		return p.fail(err)
	}
	p.transition(StateSucceeded)
	return Succeeded()
}

type probe struct {
	validator *Validator
	desc      *coreinterfaces.ConnectionDescriptor
	driver    coreinterfaces.Driver
	naming    coreinterfaces.NamingTransformer
	ops       coreinterfaces.SQLOperations
	state     ValidationState
}

func (p *probe) transition(to ValidationState) {
	log.Debug("connection check state changed",
		zap.Stringer("from", p.state), zap.Stringer("to", to), zap.String("url", p.desc.URL))
	p.state = to
}

func (p *probe) fail(err error) ConnectionStatus {
	p.transition(StateFailed)
	status := FailedWith(err, p.desc.PasswordOrEmpty())
	log.Error("Exception while checking connection",
		zap.Stringer("descriptor", p.desc), zap.String("class", ErrorClass(err)),
		zap.String("message", status.Message))
	return status
}

func (p *probe) run(ctx context.Context) error {
	timeout := p.validator.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	p.transition(StateConnecting)
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	db, err := p.connect(connectCtx, timeout)
	if err != nil {
		return ErrConnectivity.GenWithStackByArgs(err.Error())
	}
	defer p.closeDB(db)

	p.transition(StateProbing)
	catalogs, err := p.driver.ListCatalogs(connectCtx, db)
	if err != nil {
		return ErrConnectivity.GenWithStackByArgs(err.Error())
	}
	log.Debug("catalog probe finished", zap.Int("catalogs", len(catalogs)))

	outputSchema := p.naming.Identifier(p.desc.Schema)
	return AttemptCreateAndDropTable(ctx, db, outputSchema, p.naming, p.ops)
}

type connectResult struct {
	db  *sql.DB
	err error
}

// connect opens and pings a connection. It returns once ctx is done even when
// the driver ignores ctx during its handshake; a connection that completes
// after that is closed in the background.
func (p *probe) connect(ctx context.Context, timeout time.Duration) (*sql.DB, error) {
	done := make(chan connectResult, 1)
	go func() {
		var r connectResult
		defer func() {
			if rec := recover(); rec != nil {
				r = connectResult{err: errors.Errorf("unexpected panic: %v", rec)}
			}
			done <- r
		}()
		r.db, r.err = OpenDB(ctx, p.driver, p.desc)
		if r.err != nil {
			return
		}
		if r.err = r.db.PingContext(ctx); r.err != nil {
			p.closeDB(r.db)
			r.db = nil
		}
	}()

	select {
	case r := <-done:
		return r.db, r.err
	case <-ctx.Done():
		go func() {
			if r := <-done; r.db != nil {
				p.closeDB(r.db)
			}
		}()
		return nil, errors.Annotatef(ctx.Err(), "no response from %s within %s", p.desc.URL, timeout)
	}
}

func (p *probe) closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		log.Warn("failed to close connection", zap.String("url", p.desc.URL), zap.Error(err))
	}
}

// AttemptCreateAndDropTable verifies write permission on schemaName by creating
// a table with a random name and dropping it again.
func AttemptCreateAndDropTable(
	ctx context.Context,
	db *sql.DB,
	schemaName string,
	naming coreinterfaces.NamingTransformer,
	ops coreinterfaces.SQLOperations,
) error {
	suffix, err := RandomSuffix()
	if err != nil {
		return errors.Trace(err)
	}
	tableName := naming.Identifier(ProbeTablePrefix + suffix)
	if err := ops.CreateSchemaIfNotExists(ctx, db, schemaName); err != nil {
		return ErrPermission.GenWithStackByArgs(schemaName, err.Error())
	}
	if err := ops.CreateTableIfNotExists(ctx, db, schemaName, tableName); err != nil {
		return ErrPermission.GenWithStackByArgs(schemaName, err.Error())
	}
	if err := ops.DropTableIfExists(ctx, db, schemaName, tableName); err != nil {
		return ErrPermission.GenWithStackByArgs(schemaName, err.Error())
	}
	return nil
}

// RandomSuffix returns 32 hex digits drawn from a random 128-bit value.
func RandomSuffix() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", errors.Annotate(err, "failed to generate probe table name")
	}
	return hex.EncodeToString(id[:]), nil
}

// OpenDB renders the DSN and opens a connection handle. It does not ping.
func OpenDB(ctx context.Context, driver coreinterfaces.Driver, desc *coreinterfaces.ConnectionDescriptor) (*sql.DB, error) {
	dsn, err := driver.DSN(ctx, desc)
	if err != nil {
		return nil, errors.Annotate(err, "failed to build data source name")
	}
	db, err := sql.Open(driver.Name(), dsn)
	if err != nil {
		return nil, errors.Annotatef(err, "failed to open %s connection", driver.Name())
	}
	return db, nil
}
