// Package profiles owns the non-financial client documents: address, risk
// appetite, and investment preferences, stored as JSON in Redis with a
// lowercase-name index and per-risk-level sets.
package profiles

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"wealth-advisor/internal/common/database"
	"wealth-advisor/internal/common/errors"
	"wealth-advisor/internal/common/logger"
)

const (
	clientKeyPrefix = "profiles:client:"
	nameKeyPrefix   = "profiles:name:"
	riskKeyPrefix   = "profiles:risk:"
	allKey          = "profiles:all"
)

// Profile is a client's non-financial document.
type Profile struct {
	ClientID              string   `json:"clientId"`
	Name                  string   `json:"name"`
	Address               string   `json:"address"`
	RiskAppetite          string   `json:"riskAppetite"`
	InvestmentPreferences []string `json:"investmentPreferences"`
}

// ClientRef is the projection returned by risk-appetite lookups.
type ClientRef struct {
	ClientID string `json:"clientId"`
	Name     string `json:"name"`
}

// Store reads and writes profile documents.
type Store struct {
	rdb    *database.RedisClient
	logger logger.Logger
}

func NewStore(rdb *database.RedisClient, log logger.Logger) *Store {
	return &Store{rdb: rdb, logger: log}
}

// FindOneByName returns the single profile whose name matches exactly,
// ignoring case. Missing profiles surface as a PROFILE_NOT_FOUND error.
func (s *Store) FindOneByName(ctx context.Context, clientName string) (*Profile, error) {
	client := s.rdb.GetClient()

	clientID, err := client.Get(ctx, nameKeyPrefix+strings.ToLower(clientName)).Result()
	if err == redis.Nil {
		return nil, errors.NewProfileNotFoundError(clientName)
	}
	if err != nil {
		return nil, errors.NewDatabaseConnectionFailedError(err)
	}

	return s.getByID(ctx, clientID)
}

// FindByRiskAppetite returns {clientId, name} pairs for every profile in the
// given risk bucket. The level must already be title-cased by the caller.
func (s *Store) FindByRiskAppetite(ctx context.Context, riskLevel string) ([]ClientRef, error) {
	client := s.rdb.GetClient()

	ids, err := client.SMembers(ctx, riskKeyPrefix+riskLevel).Result()
	if err != nil {
		return nil, errors.NewDatabaseConnectionFailedError(err)
	}

	refs := make([]ClientRef, 0, len(ids))
	for _, id := range ids {
		profile, err := s.getByID(ctx, id)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ClientRef{ClientID: profile.ClientID, Name: profile.Name})
	}

	// SMembers order is unspecified; keep output stable for callers.
	sort.Slice(refs, func(i, j int) bool { return refs[i].ClientID < refs[j].ClientID })
	return refs, nil
}

// Save stores a profile document and maintains the name and risk indexes.
func (s *Store) Save(ctx context.Context, profile Profile) error {
	doc, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshaling profile %s: %w", profile.ClientID, err)
	}

	client := s.rdb.GetClient()
	pipe := client.TxPipeline()
	pipe.Set(ctx, clientKeyPrefix+profile.ClientID, doc, 0)
	pipe.Set(ctx, nameKeyPrefix+strings.ToLower(profile.Name), profile.ClientID, 0)
	pipe.SAdd(ctx, riskKeyPrefix+profile.RiskAppetite, profile.ClientID)
	pipe.SAdd(ctx, allKey, profile.ClientID)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.NewDatabaseConnectionFailedError(err)
	}
	return nil
}

// Ping reports whether the underlying store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) getByID(ctx context.Context, clientID string) (*Profile, error) {
	doc, err := s.rdb.Get(ctx, clientKeyPrefix+clientID)
	if err == redis.Nil {
		return nil, errors.NewProfileNotFoundError(clientID)
	}
	if err != nil {
		return nil, errors.NewDatabaseConnectionFailedError(err)
	}

	var profile Profile
	if err := json.Unmarshal([]byte(doc), &profile); err != nil {
		return nil, fmt.Errorf("unmarshaling profile %s: %w", clientID, err)
	}
	return &profile, nil
}
