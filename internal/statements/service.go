package statements

import (
	"context"
	"strings"
	"sync"

	"github.com/dhima/dbutils/internal/logging"
	"github.com/dhima/dbutils/internal/models"
	"github.com/dhima/dbutils/pkg/clock"
	"github.com/dhima/dbutils/pkg/dbutils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service validates statement requests and forwards them to a Handle.
type Service struct {
	handle    Handle
	publisher EventPublisher
	logger    logging.Logger
	clock     clock.Clock
	readOnly  bool

	mu    sync.Mutex
	stats models.Stats
}

// Option customizes a Service.
type Option func(*Service)

// WithReadOnly rejects every mutation with ErrReadOnly.
func WithReadOnly(readOnly bool) Option {
	return func(s *Service) { s.readOnly = readOnly }
}

// WithClock overrides the clock used to stamp mutation events.
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// NewService builds a Service. publisher may be nil.
func NewService(handle Handle, publisher EventPublisher, logger logging.Logger, opts ...Option) *Service {
	s := &Service{
		handle:    handle,
		publisher: publisher,
		logger:    logger.With(zap.String("component", "statements")),
		clock:     clock.UTC{},
		stats: models.Stats{
			Queries:   make(map[models.QueryKind]int64),
			Mutations: make(map[models.MutationKind]int64),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var queryVerbs = map[string]bool{
	"SELECT": true, "WITH": true, "SHOW": true, "DESCRIBE": true, "DESC": true, "EXPLAIN": true,
}

var mutationVerbs = map[models.MutationKind][]string{
	models.MutationKindInsert: {"INSERT", "REPLACE"},
	models.MutationKindUpdate: {"UPDATE"},
	models.MutationKindDelete: {"DELETE"},
}

// Query runs a read statement and returns its rows. Nothing the statement
// writes is ever committed.
func (s *Service) Query(ctx context.Context, kind models.QueryKind, req models.StatementRequest) (*models.QueryResponse, error) {
	if err := validateSQL(req.SQL); err != nil {
		return nil, err
	}
	if verb := leadingVerb(req.SQL); !queryVerbs[verb] {
		return nil, NewValidationError("statement must be a query, got %q", verb)
	}

	switch kind {
	case models.QueryKindAll, models.QueryKindOne:
	case models.QueryKindN:
		if req.N < 1 {
			return nil, NewValidationError("n must be at least 1")
		}
	default:
		return nil, NewValidationError("unknown query kind %q", kind)
	}

	resp := &models.QueryResponse{Kind: kind}
	read := func(q dbutils.Querier) error {
		var err error
		switch kind {
		case models.QueryKindAll:
			resp.Rows, err = q.SelectAll(ctx, req.SQL, req.Args...)
			resp.Count = len(resp.Rows)
		case models.QueryKindN:
			resp.Rows, err = q.SelectN(ctx, req.SQL, req.N, req.Args...)
			resp.Count = len(resp.Rows)
		case models.QueryKindOne:
			resp.Row, err = q.SelectOne(ctx, req.SQL, req.Args...)
			if resp.Row != nil {
				resp.Count = 1
			}
		}
		return err
	}

	// A leading SELECT or WITH does not make a statement read-only.
	err := s.handle.ReadOnly(ctx, read)

	s.mu.Lock()
	if err != nil {
		s.stats.Failures++
	} else {
		s.stats.Queries[kind]++
	}
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Mutate runs a write statement in its own transaction. The resulting event
// is published after commit; a publish failure is logged, not returned.
func (s *Service) Mutate(ctx context.Context, kind models.MutationKind, requestID string, req models.StatementRequest) (*models.MutationResponse, error) {
	verbs, ok := mutationVerbs[kind]
	if !ok {
		return nil, NewValidationError("unknown mutation kind %q", kind)
	}
	if s.readOnly {
		return nil, ErrReadOnly
	}
	if err := validateSQL(req.SQL); err != nil {
		return nil, err
	}
	verb := leadingVerb(req.SQL)
	if !contains(verbs, verb) {
		return nil, NewValidationError("%s requires a %s statement, got %q", kind, strings.Join(verbs, " or "), verb)
	}

	var (
		n   int64
		err error
	)
	switch kind {
	case models.MutationKindInsert:
		n, err = s.handle.Insert(ctx, req.SQL, req.Args...)
	case models.MutationKindUpdate:
		n, err = s.handle.Update(ctx, req.SQL, req.Args...)
	case models.MutationKindDelete:
		n, err = s.handle.Delete(ctx, req.SQL, req.Args...)
	}

	s.mu.Lock()
	if err != nil {
		s.stats.Failures++
	} else {
		s.stats.Mutations[kind]++
		s.stats.RowsAffected += n
	}
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}

	s.publish(ctx, models.MutationEvent{
		ID:           uuid.New().String(),
		RequestID:    requestID,
		Operation:    kind,
		RowsAffected: n,
		OccurredAt:   s.clock.Now(),
	})

	return &models.MutationResponse{Operation: kind, RowsAffected: n}, nil
}

// Ping checks the underlying connection.
func (s *Service) Ping(ctx context.Context) error {
	return s.handle.Ping(ctx)
}

// Stats returns a copy of the statement counters.
func (s *Service) Stats() models.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.stats
	out.Queries = make(map[models.QueryKind]int64, len(s.stats.Queries))
	for k, v := range s.stats.Queries {
		out.Queries[k] = v
	}
	out.Mutations = make(map[models.MutationKind]int64, len(s.stats.Mutations))
	for k, v := range s.stats.Mutations {
		out.Mutations[k] = v
	}
	return out
}

func (s *Service) publish(ctx context.Context, event models.MutationEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.mu.Lock()
		s.stats.PublishFails++
		s.mu.Unlock()

		s.logger.Error("failed to publish mutation event",
			zap.Error(err),
			zap.String("event_id", event.ID),
			zap.String("operation", string(event.Operation)),
			zap.String("request_id", event.RequestID),
		)
	}
}

func validateSQL(sql string) error {
	if strings.TrimSpace(sql) == "" {
		return NewValidationError("sql is required")
	}
	return nil
}

// leadingVerb returns the upper-cased first keyword of a statement.
func leadingVerb(sql string) string {
	sql = strings.TrimLeft(sql, " \t\r\n(")
	end := strings.IndexFunc(sql, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '('
	})
	if end >= 0 {
		sql = sql[:end]
	}
	return strings.ToUpper(sql)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
