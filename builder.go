package dirauth

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/facilitydir/dirauth/registration"
	"github.com/facilitydir/dirauth/session"
	"github.com/facilitydir/dirauth/sms"
)

// Service bundles the built managers with their shared audit and metrics
// plumbing. Construct it once at startup through [Builder.Build].
type Service struct {
	config        Config
	sessions      *SessionManager
	registrations *RegistrationManager
	metrics       *metricsRecorder
	audit         *auditDispatcher
}

// Sessions returns the session manager.
func (s *Service) Sessions() *SessionManager { return s.sessions }

// Registrations returns the registration manager.
func (s *Service) Registrations() *RegistrationManager { return s.registrations }

// MetricsSnapshot returns a point-in-time copy of the service counters.
func (s *Service) MetricsSnapshot() MetricsSnapshot { return s.metrics.snapshot() }

// AuditDropped reports audit events shed under backpressure.
func (s *Service) AuditDropped() uint64 { return s.audit.Dropped() }

// Close stops the audit dispatcher, draining queued events first.
func (s *Service) Close() { s.audit.Close() }

// Builder assembles a [Service]. Zero or one call to each WithX, then Build.
type Builder struct {
	config   Config
	redis    redis.UniversalClient
	gateway  sms.Gateway
	sink     AuditSink
	codeSink CodeSink

	built bool
}

// New starts a builder with [DefaultConfig].
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis sets the Redis client shared by the session and registration
// stores.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithSMS sets the SMS gateway used by the registration flows.
func (b *Builder) WithSMS(gateway sms.Gateway) *Builder {
	b.gateway = gateway
	return b
}

// WithAuditSink sets the destination for audit events.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.sink = sink
	return b
}

// WithCodeSink installs the test/dev-only code observer. Never set this in
// production: it is the only path besides SMS that can see a live code.
func (b *Builder) WithCodeSink(sink CodeSink) *Builder {
	b.codeSink = sink
	return b
}

// Build validates the configuration and wires the managers. The builder is
// single-use.
func (b *Builder) Build() (*Service, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.gateway == nil {
		return nil, errors.New("sms gateway required")
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	metrics := newMetricsRecorder()
	dispatcher := newAuditDispatcher(b.config.Audit, b.sink)

	svc := &Service{
		config:  b.config,
		metrics: metrics,
		audit:   dispatcher,
	}
	svc.sessions = &SessionManager{
		store:   session.NewStore(b.redis, b.config.Session.RedisPrefix),
		metrics: metrics,
		audit:   dispatcher,
	}
	svc.registrations = &RegistrationManager{
		store:    registration.NewStore(b.redis),
		gateway:  b.gateway,
		conf:     b.config,
		metrics:  metrics,
		audit:    dispatcher,
		codeSink: b.codeSink,
		generate: defaultGenerate,
	}

	b.built = true
	return svc, nil
}
