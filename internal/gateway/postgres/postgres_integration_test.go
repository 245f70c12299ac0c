//go:build integration

package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"shutterops/internal/gateway"
	"shutterops/internal/gateway/postgres"
	"shutterops/pkg/platform/sentinel"
	"shutterops/pkg/testutil/containers"
)

type PostgresGatewaySuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *postgres.Store
}

func TestPostgresGatewaySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresGatewaySuite))
}

func (s *PostgresGatewaySuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = postgres.New(s.pg.Pool)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresGatewaySuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateAll(context.Background()))
}

func (s *PostgresGatewaySuite) TestCreateAndGet() {
	ctx := context.Background()

	doc := gateway.Doc{"id": "u1", "email": "jane@co.com", "full_name": "Jane"}
	s.Require().NoError(s.store.Create(ctx, gateway.Users, doc))

	got, err := s.store.Get(ctx, gateway.Users, "u1")
	s.Require().NoError(err)
	s.Equal("jane@co.com", got["email"])

	_, err = s.store.Get(ctx, gateway.Users, "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresGatewaySuite) TestCreateConflict() {
	ctx := context.Background()

	doc := gateway.Doc{"id": "u1", "email": "jane@co.com"}
	s.Require().NoError(s.store.Create(ctx, gateway.Users, doc))
	s.ErrorIs(s.store.Create(ctx, gateway.Users, doc), sentinel.ErrConflict)

	s.ErrorIs(s.store.Create(ctx, gateway.Users, gateway.Doc{"email": "no-id@co.com"}),
		sentinel.ErrInvalidState)
}

func (s *PostgresGatewaySuite) TestCollectionsAreIsolated() {
	ctx := context.Background()

	s.Require().NoError(s.store.Create(ctx, gateway.Users, gateway.Doc{"id": "x"}))
	s.Require().NoError(s.store.Create(ctx, gateway.Staff, gateway.Doc{"id": "x"}))

	users, err := s.store.List(ctx, gateway.Users)
	s.Require().NoError(err)
	s.Len(users, 1)
}

func (s *PostgresGatewaySuite) TestUpdateShallowMerge() {
	ctx := context.Background()

	s.Require().NoError(s.store.Create(ctx, gateway.Staff, gateway.Doc{
		"id": "s1", "company_email": "jane@co.com", "preferred_name": "Janie",
	}))

	s.Require().NoError(s.store.Update(ctx, gateway.Staff, "s1", gateway.Doc{
		"user_id": "u1", "preferred_name": "Jane",
	}))

	got, err := s.store.Get(ctx, gateway.Staff, "s1")
	s.Require().NoError(err)
	s.Equal("u1", got["user_id"])
	s.Equal("Jane", got["preferred_name"])
	s.Equal("jane@co.com", got["company_email"], "untouched fields survive the merge")

	s.ErrorIs(s.store.Update(ctx, gateway.Staff, "missing", gateway.Doc{"user_id": "u1"}),
		sentinel.ErrNotFound)
}

func (s *PostgresGatewaySuite) TestFilterPushesPredicatesDown() {
	ctx := context.Background()

	s.Require().NoError(s.store.Create(ctx, gateway.Staff, gateway.Doc{
		"id": "s1", "user_id": "u1", "company_email": "a@co.com",
	}))
	s.Require().NoError(s.store.Create(ctx, gateway.Staff, gateway.Doc{
		"id": "s2", "user_id": "u2", "company_email": "b@co.com",
	}))

	docs, err := s.store.Filter(ctx, gateway.Staff, gateway.Predicate{Field: "user_id", Equals: "u2"})
	s.Require().NoError(err)
	s.Require().Len(docs, 1)
	s.Equal("s2", docs[0].ID())

	docs, err = s.store.Filter(ctx, gateway.Staff,
		gateway.Predicate{Field: "user_id", Equals: "u2"},
		gateway.Predicate{Field: "company_email", Equals: "a@co.com"},
	)
	s.Require().NoError(err)
	s.Empty(docs)
}

func (s *PostgresGatewaySuite) TestBulkCreateIsAtomic() {
	ctx := context.Background()

	s.Require().NoError(s.store.Create(ctx, gateway.Staff, gateway.Doc{"id": "s2"}))

	// s2 collides inside the transaction, so s1 must not survive either.
	err := s.store.BulkCreate(ctx, gateway.Staff, []gateway.Doc{
		{"id": "s1", "company_email": "a@co.com"},
		{"id": "s2", "company_email": "b@co.com"},
	})
	s.Require().Error(err)

	_, err = s.store.Get(ctx, gateway.Staff, "s1")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
