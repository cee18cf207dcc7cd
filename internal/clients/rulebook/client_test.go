package rulebook_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/hearthforge/rulebook-api/internal/clients/rulebook"
	"github.com/hearthforge/rulebook-api/internal/errors"
	"github.com/hearthforge/rulebook-api/internal/pkg/clock"
)

// scriptedFetcher returns canned payloads per key, optionally failing a
// number of times first.
type scriptedFetcher struct {
	mu        sync.Mutex
	payloads  map[string][]byte
	failures  map[string]int
	transient bool
	calls     map[string]int
}

func newScriptedFetcher() *scriptedFetcher {
	return &scriptedFetcher{
		payloads:  make(map[string][]byte),
		failures:  make(map[string]int),
		transient: true,
		calls:     make(map[string]int),
	}
}

func (f *scriptedFetcher) Fetch(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[key]++
	if f.failures[key] > 0 {
		f.failures[key]--
		if f.transient {
			return nil, errors.Unavailable("scripted transient failure")
		}
		return nil, errors.Internal("scripted hard failure")
	}

	payload, ok := f.payloads[key]
	if !ok {
		return nil, errors.NotFoundf("no payload for %q", key)
	}
	return payload, nil
}

func (f *scriptedFetcher) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

const backgroundsPayload = `{"background":[
	{"name":"Acolyte","source":"PHB"},
	{"name":"Soldier","source":"PHB"}
]}`

const backgroundsFluffPayload = `{"backgroundFluff":[
	{"name":"Acolyte","source":"PHB","entries":["You have spent your life in service."]}
]}`

type ClientTestSuite struct {
	suite.Suite
	ctx     context.Context
	fetcher *scriptedFetcher
	clock   *clock.Fake
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.fetcher = newScriptedFetcher()
	s.fetcher.payloads["backgrounds"] = []byte(backgroundsPayload)
	s.fetcher.payloads["fluff-backgrounds"] = []byte(backgroundsFluffPayload)
	s.clock = clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
}

func (s *ClientTestSuite) newClient(cacheSize int) rulebook.Client {
	client, err := rulebook.New(&rulebook.Config{
		Fetcher:   s.fetcher,
		CacheSize: cacheSize,
		Clock:     s.clock,
	})
	s.Require().NoError(err)
	return client
}

func (s *ClientTestSuite) TestLoadReturnsEntitiesAndFluff() {
	client := s.newClient(0)

	result, err := client.Load(s.ctx, "backgrounds", nil)
	s.Require().NoError(err)

	s.Require().Len(result.Entities, 2)
	s.Assert().Equal("Acolyte", result.Entities[0]["name"])

	fluff, ok := result.FluffIndex[rulebook.FluffIndexKey("Acolyte", "PHB")]
	s.Require().True(ok)
	s.Assert().Equal("Acolyte", fluff["name"])
}

func (s *ClientTestSuite) TestLoadRetriesTransientFailures() {
	s.fetcher.failures["backgrounds"] = 2

	client := s.newClient(0)
	result, err := client.Load(s.ctx, "backgrounds", &rulebook.LoadOptions{MaxRetries: 3})

	s.Require().NoError(err)
	s.Assert().Len(result.Entities, 2)
	s.Assert().Equal(3, s.fetcher.callCount("backgrounds"))
}

func (s *ClientTestSuite) TestLoadSurfacesErrorAfterRetriesExhaust() {
	s.fetcher.failures["backgrounds"] = 10

	client := s.newClient(0)
	_, err := client.Load(s.ctx, "backgrounds", &rulebook.LoadOptions{MaxRetries: 2})

	s.Require().Error(err)
	s.Assert().True(errors.IsUnavailable(err))
	s.Assert().Equal(2, s.fetcher.callCount("backgrounds"))
}

func (s *ClientTestSuite) TestHardFailuresAreNotRetried() {
	s.fetcher.failures["backgrounds"] = 10
	s.fetcher.transient = false

	client := s.newClient(0)
	_, err := client.Load(s.ctx, "backgrounds", &rulebook.LoadOptions{MaxRetries: 5})

	s.Require().Error(err)
	s.Assert().Equal(1, s.fetcher.callCount("backgrounds"))
}

func (s *ClientTestSuite) TestMalformedPayloadIsDataLoss() {
	s.fetcher.payloads["backgrounds"] = []byte(`{"background": "not an array"}`)

	client := s.newClient(0)
	_, err := client.Load(s.ctx, "backgrounds", nil)

	s.Require().Error(err)
	s.Assert().True(errors.IsDataLoss(err))
	s.Assert().Equal(1, s.fetcher.callCount("backgrounds"))
}

func (s *ClientTestSuite) TestEmptyPayloadIsDataLoss() {
	s.fetcher.payloads["backgrounds"] = []byte(``)

	client := s.newClient(0)
	_, err := client.Load(s.ctx, "backgrounds", nil)

	s.Require().Error(err)
	s.Assert().True(errors.IsDataLoss(err))
}

func (s *ClientTestSuite) TestFluffFailureDegradesToEmpty() {
	delete(s.fetcher.payloads, "fluff-backgrounds")

	client := s.newClient(0)
	result, err := client.Load(s.ctx, "backgrounds", nil)

	s.Require().NoError(err)
	s.Assert().Len(result.Entities, 2)
	s.Assert().NotNil(result.FluffIndex)
	s.Assert().Empty(result.FluffIndex)
}

func (s *ClientTestSuite) TestSecondLoadHitsCache() {
	client := s.newClient(0)

	_, err := client.Load(s.ctx, "backgrounds", nil)
	s.Require().NoError(err)
	result, err := client.Load(s.ctx, "backgrounds", nil)
	s.Require().NoError(err)

	s.Assert().Len(result.Entities, 2)
	s.Assert().Equal(1, s.fetcher.callCount("backgrounds"))
}

func (s *ClientTestSuite) TestStaleEntryRefetches() {
	client := s.newClient(0)

	_, err := client.Load(s.ctx, "backgrounds", nil)
	s.Require().NoError(err)

	s.clock.Advance(90 * time.Minute) // past the 1h primary TTL

	_, err = client.Load(s.ctx, "backgrounds", nil)
	s.Require().NoError(err)
	s.Assert().Equal(2, s.fetcher.callCount("backgrounds"))
}

func (s *ClientTestSuite) TestForceRefreshBypassesCache() {
	client := s.newClient(0)

	_, err := client.Load(s.ctx, "backgrounds", nil)
	s.Require().NoError(err)
	_, err = client.Load(s.ctx, "backgrounds", &rulebook.LoadOptions{ForceRefresh: true})
	s.Require().NoError(err)

	s.Assert().Equal(2, s.fetcher.callCount("backgrounds"))
}

func (s *ClientTestSuite) TestInvalidateDropsCachedEntry() {
	client := s.newClient(0)

	_, err := client.Load(s.ctx, "backgrounds", nil)
	s.Require().NoError(err)

	client.Invalidate("backgrounds")

	_, err = client.Load(s.ctx, "backgrounds", nil)
	s.Require().NoError(err)
	s.Assert().Equal(2, s.fetcher.callCount("backgrounds"))
}

func (s *ClientTestSuite) TestLRUEvictsLeastRecentlyUsed() {
	// A resource and its fluff share one cache entry, so a bound of 1
	// holds exactly one resource; loading races evicts backgrounds.
	s.fetcher.payloads["races"] = []byte(`{"race":[{"name":"Dwarf","source":"PHB"}]}`)

	client := s.newClient(1)

	_, err := client.Load(s.ctx, "backgrounds", nil)
	s.Require().NoError(err)
	_, err = client.Load(s.ctx, "races", nil)
	s.Require().NoError(err)

	_, err = client.Load(s.ctx, "backgrounds", nil)
	s.Require().NoError(err)
	s.Assert().Equal(2, s.fetcher.callCount("backgrounds"))
}

func (s *ClientTestSuite) TestCacheBoundCountsResourceKeys() {
	// Two resources fit a bound of 2 even with fluff loaded alongside.
	s.fetcher.payloads["races"] = []byte(`{"race":[{"name":"Dwarf","source":"PHB"}]}`)

	client := s.newClient(2)

	_, err := client.Load(s.ctx, "backgrounds", nil)
	s.Require().NoError(err)
	_, err = client.Load(s.ctx, "races", nil)
	s.Require().NoError(err)

	result, err := client.Load(s.ctx, "backgrounds", nil)
	s.Require().NoError(err)
	s.Assert().Equal(1, s.fetcher.callCount("backgrounds"))
	s.Assert().NotEmpty(result.FluffIndex, "fluff survives alongside the cached primary")
}

func (s *ClientTestSuite) TestDecodeSkipsMetadataFields() {
	// Unknown resource key: the decoder must not pick a _-prefixed array.
	s.fetcher.payloads["monsters"] = []byte(`{
		"_meta":[{"edition":"2014"}],
		"monster":[{"name":"Goblin","source":"MM"}]
	}`)

	client := s.newClient(0)
	result, err := client.Load(s.ctx, "monsters", nil)

	s.Require().NoError(err)
	s.Require().Len(result.Entities, 1)
	s.Assert().Equal("Goblin", result.Entities[0]["name"])
}

func (s *ClientTestSuite) TestChunks() {
	items := []int{1, 2, 3, 4, 5}

	var chunks [][]int
	for chunk := range rulebook.Chunks(items, 2) {
		chunks = append(chunks, chunk)
	}

	s.Require().Len(chunks, 3)
	s.Assert().Equal([]int{1, 2}, chunks[0])
	s.Assert().Equal([]int{3, 4}, chunks[1])
	s.Assert().Equal([]int{5}, chunks[2])
}

func (s *ClientTestSuite) TestChunksNonPositiveSizeYieldsAll() {
	var chunks [][]int
	for chunk := range rulebook.Chunks([]int{1, 2, 3}, 0) {
		chunks = append(chunks, chunk)
	}

	s.Require().Len(chunks, 1)
	s.Assert().Len(chunks[0], 3)
}
