package destination

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/pingcap-inc/dwsink/pkg/coreinterfaces"
	"github.com/pingcap-inc/dwsink/pkg/protocol"
	"github.com/pingcap/errors"
	"github.com/stretchr/testify/require"
)

func fakeProfile(ops coreinterfaces.SQLOperations) VendorProfile {
	return VendorProfile{
		Name:   "fake",
		Driver: &fakeDriver{name: "dwsink-noop"},
		Naming: lowerNaming(),
		SQLOps: ops,
		ToDescriptor: func(cfg RawConfig) (*coreinterfaces.ConnectionDescriptor, error) {
			host, err := cfg.RequiredString("host")
			if err != nil {
				return nil, err
			}
			password, err := cfg.OptionalPassword("password")
			if err != nil {
				return nil, err
			}
			schema, err := cfg.StringOrDefault("schema", "public")
			if err != nil {
				return nil, err
			}
			return &coreinterfaces.ConnectionDescriptor{
				Username:   "user",
				Password:   password,
				URL:        "fake://" + host,
				Schema:     schema,
				Properties: map[string]string{"application": "dwsink"},
			}, nil
		},
		DefaultProperties: func(RawConfig) map[string]string {
			return map[string]string{"ssl": "true"}
		},
		Precedence: VendorPropertiesWin,
		Fields:     []Field{{Name: "host", Title: "Host", Required: true}, {Name: "password", Secret: true}},
	}
}

func TestDescriptorMergesProperties(t *testing.T) {
	d := New(fakeProfile(&recordingOps{}), nil)
	desc, err := d.Descriptor(RawConfig{"host": "h", ExtraParamsKey: "ssl=false&timeout=5"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"ssl": "true", "application": "dwsink", "timeout": "5"}, desc.Properties)
	require.Equal(t, "fake://h", desc.URL)

	_, err = d.Descriptor(RawConfig{"host": "h", ExtraParamsKey: "ssl"})
	require.True(t, ErrMalformedParameter.Equal(err))
}

func TestCheck(t *testing.T) {
	ops := &recordingOps{}
	var observed []ConnectionStatus
	d := New(fakeProfile(ops), nil, WithCheckObserver(func(dest string, status ConnectionStatus, elapsed time.Duration) {
		require.Equal(t, "fake", dest)
		require.GreaterOrEqual(t, elapsed, time.Duration(0))
		observed = append(observed, status)
	}))
	ctx := context.Background()

	status := d.Check(ctx, RawConfig{"host": "h", "password": "secret"})
	require.True(t, status.IsSucceeded(), status.Message)
	require.Len(t, ops.created, 1)

	status = d.Check(ctx, RawConfig{"password": "secret"})
	require.False(t, status.IsSucceeded())
	require.Contains(t, status.Message, "host")

	status = d.Check(ctx, RawConfig{"host": "h", "password": "secret", ExtraParamsKey: "a=1&b"})
	require.False(t, status.IsSucceeded())
	require.True(t, strings.HasPrefix(status.Message, FailurePrefix))
	require.Contains(t, status.Message, "a=1&b")

	status = d.Check(ctx, RawConfig{"host": "h", "schema": "!!!"})
	require.True(t, status.IsSucceeded(), status.Message)

	require.Len(t, observed, 4)
	require.Equal(t, "fake", d.Name())
}

func TestCheckRecoversPanic(t *testing.T) {
	profile := fakeProfile(&recordingOps{})
	profile.ToDescriptor = func(RawConfig) (*coreinterfaces.ConnectionDescriptor, error) {
		panic("unexpected")
	}
	status := New(profile, nil).Check(context.Background(), RawConfig{})
	require.False(t, status.IsSucceeded())
	require.True(t, strings.HasPrefix(status.Message, FailurePrefix))
}

type fakeConsumer struct {
	db *sql.DB
}

func (c *fakeConsumer) Start(context.Context) error                     { return nil }
func (c *fakeConsumer) Accept(context.Context, *protocol.Message) error { return nil }
func (c *fakeConsumer) Close(context.Context, bool) error               { return c.db.Close() }

func TestOpenWriter(t *testing.T) {
	ctx := context.Background()
	catalog := &protocol.ConfiguredCatalog{}
	var got WriterParams
	d := New(fakeProfile(&recordingOps{}), func(_ context.Context, params WriterParams) (coreinterfaces.Consumer, error) {
		got = params
		return &fakeConsumer{db: params.DB}, nil
	})
	consumer, err := d.OpenWriter(ctx, RawConfig{"host": "h", "schema": "Sales"}, catalog, protocol.NewJSONSink(&strings.Builder{}))
	require.NoError(t, err)
	require.NotNil(t, got.DB)
	require.Equal(t, "Sales", got.Schema)
	require.Same(t, catalog, got.Catalog)
	require.NoError(t, consumer.Close(ctx, false))

	failing := New(fakeProfile(&recordingOps{}), func(context.Context, WriterParams) (coreinterfaces.Consumer, error) {
		return nil, errors.New("no pipeline today")
	})
	_, err = failing.OpenWriter(ctx, RawConfig{"host": "h"}, catalog, nil)
	require.ErrorContains(t, err, "no pipeline today")

	_, err = New(fakeProfile(&recordingOps{}), nil).OpenWriter(ctx, RawConfig{"host": "h"}, catalog, nil)
	require.Error(t, err)
}

func TestSpecification(t *testing.T) {
	spec := New(fakeProfile(&recordingOps{}), nil).Specification()
	props := spec.ConnectionSpecification.Properties
	require.Contains(t, props, "host")
	require.Contains(t, props, ExtraParamsKey)
	require.True(t, props["password"].IsSecret)
	require.Equal(t, "string", props["host"].Type)
	require.Equal(t, []string{"host"}, spec.ConnectionSpecification.Required)
	msg := &protocol.Message{Type: protocol.MessageTypeSpec, Spec: spec}
	require.NoError(t, msg.Validate())
}
