package destination

import (
	"context"
	"database/sql"
	"time"

	"github.com/pingcap-inc/dwsink/pkg/coreinterfaces"
	"github.com/pingcap-inc/dwsink/pkg/protocol"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// VendorProfile binds the vendor specific capabilities of a destination.
// It is a plain value built once at startup; the validator and the writer
// factory never depend on which vendor they serve.
type VendorProfile struct {
	// Name identifies the destination, e.g. "redshift".
	Name string

	Driver coreinterfaces.Driver
	Naming coreinterfaces.NamingTransformer
	SQLOps coreinterfaces.SQLOperations

	// ToDescriptor maps a raw configuration into a descriptor. It must not do I/O.
	ToDescriptor func(cfg RawConfig) (*coreinterfaces.ConnectionDescriptor, error)
	// DefaultProperties returns the vendor's connection properties. May be nil.
	DefaultProperties func(cfg RawConfig) map[string]string
	// Precedence decides how DefaultProperties and the user's extra parameters merge.
	Precedence PropertyPrecedence

	// Fields describe the configuration for the connector specification.
	Fields           []Field
	DocumentationURL string
}

// WriterParams is everything a write pipeline is constructed from.
type WriterParams struct {
	DB      *sql.DB
	SQLOps  coreinterfaces.SQLOperations
	Naming  coreinterfaces.NamingTransformer
	Config  RawConfig
	Schema  string
	Catalog *protocol.ConfiguredCatalog
	Sink    protocol.OutputSink
}

// WriterFactory builds the write pipeline. The returned Consumer owns params.DB.
type WriterFactory func(ctx context.Context, params WriterParams) (coreinterfaces.Consumer, error)

// CheckObserver is notified after every check.
type CheckObserver func(destination string, status ConnectionStatus, elapsed time.Duration)

// Destination is the fixed contract exposed to the orchestrator.
type Destination struct {
	profile   VendorProfile
	newWriter WriterFactory
	validator *Validator
	observers []CheckObserver
}

type Option func(d *Destination)

// WithValidator replaces the default validator.
func WithValidator(v *Validator) Option {
	return func(d *Destination) {
		d.validator = v
	}
}

// WithCheckObserver registers an observer of check results.
func WithCheckObserver(o CheckObserver) Option {
	return func(d *Destination) {
		d.observers = append(d.observers, o)
	}
}

func New(profile VendorProfile, newWriter WriterFactory, opts ...Option) *Destination {
	d := &Destination{
		profile:   profile,
		newWriter: newWriter,
		validator: NewValidator(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Destination) Name() string {
	return d.profile.Name
}

func (d *Destination) Profile() VendorProfile {
	return d.profile
}

// Descriptor builds the connection descriptor for cfg: the vendor's descriptor,
// with the vendor's properties and the user's extra parameters merged according
// to the vendor's precedence.
func (d *Destination) Descriptor(cfg RawConfig) (*coreinterfaces.ConnectionDescriptor, error) {
	desc, err := d.profile.ToDescriptor(cfg)
	if err != nil {
		return nil, errors.Trace(err)
	}
	userProps, err := ParseParametersFromConfig(cfg, ExtraParamsKey)
	if err != nil {
		return nil, errors.Trace(err)
	}
	vendorProps := make(map[string]string)
	if d.profile.DefaultProperties != nil {
		for k, v := range d.profile.DefaultProperties(cfg) {
			vendorProps[k] = v
		}
	}
	for k, v := range desc.Properties {
		vendorProps[k] = v
	}
	merged, overridden := MergeProperties(d.profile.Precedence, vendorProps, userProps)
	if len(overridden) > 0 {
		log.Warn("Ignored connection parameters pinned by destination",
			zap.String("destination", d.profile.Name), zap.Strings("keys", overridden))
	}
	desc.Properties = merged
	if desc.Schema == "" {
		return nil, ErrConfiguration.GenWithStackByArgs("destination schema resolved to an empty name")
	}
	return desc, nil
}

// Check validates that cfg points at a reachable, writable schema. It never
// returns an error; every failure is a Failed status.
func (d *Destination) Check(ctx context.Context, cfg RawConfig) (status ConnectionStatus) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Error("Unexpected panic while checking connection",
				zap.String("destination", d.profile.Name), zap.Any("panic", r))
			status = Failed(FailurePrefix + "unexpected internal error")
		}
		for _, o := range d.observers {
			o(d.profile.Name, status, time.Since(start))
		}
	}()

	desc, err := d.Descriptor(cfg)
	if err != nil {
		log.Error("Invalid destination configuration",
			zap.String("destination", d.profile.Name), zap.String("class", ErrorClass(err)), zap.Error(err))
		password, _, _ := cfg.OptionalString("password")
		return FailedWith(err, password)
	}
	return d.validator.Validate(ctx, desc, d.profile.Driver, d.profile.Naming, d.profile.SQLOps)
}

// OpenWriter opens a connection scoped to the returned Consumer and hands it to
// the write pipeline. It does not validate the connection; call Check first
// for a pre-flight check.
func (d *Destination) OpenWriter(
	ctx context.Context,
	cfg RawConfig,
	catalog *protocol.ConfiguredCatalog,
	sink protocol.OutputSink,
) (coreinterfaces.Consumer, error) {
	if d.newWriter == nil {
		return nil, errors.Errorf("destination %s has no write pipeline", d.profile.Name)
	}
	desc, err := d.Descriptor(cfg)
	if err != nil {
		return nil, errors.Trace(err)
	}
	db, err := OpenDB(ctx, d.profile.Driver, desc)
	if err != nil {
		return nil, errors.Trace(err)
	}
	consumer, err := d.newWriter(ctx, WriterParams{
		DB:      db,
		SQLOps:  d.profile.SQLOps,
		Naming:  d.profile.Naming,
		Config:  cfg,
		Schema:  desc.Schema,
		Catalog: catalog,
		Sink:    sink,
	})
	if err != nil {
		db.Close()
		return nil, errors.Annotate(err, "failed to create write pipeline")
	}
	log.Info("Write pipeline opened", zap.String("destination", d.profile.Name), zap.Stringer("descriptor", desc))
	return consumer, nil
}
