package sources_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/hearthforge/rulebook-api/internal/entities/rules"
	"github.com/hearthforge/rulebook-api/internal/errors"
	"github.com/hearthforge/rulebook-api/internal/sources"
	sourcesmock "github.com/hearthforge/rulebook-api/internal/sources/mock"
)

type staticProvider struct {
	sources []rules.Source
	err     error
	calls   int
}

func (p *staticProvider) Sources(_ context.Context) ([]rules.Source, error) {
	p.calls++
	return p.sources, p.err
}

type CatalogTestSuite struct {
	suite.Suite
	ctx      context.Context
	provider *staticProvider
	catalog  *sources.Catalog
	warnings []string
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogTestSuite))
}

func (s *CatalogTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.warnings = nil
	s.provider = &staticProvider{
		sources: []rules.Source{
			{
				ID:        "phb",
				Name:      "Player's Handbook",
				Group:     rules.GroupCore,
				IsCore:    true,
				IsDefault: true,
				Contents:  []rules.ContentSection{{Name: "Classes"}, {Name: "Spells"}},
			},
			{
				ID:       "scag",
				Name:     "Sword Coast Adventurer's Guide",
				Group:    rules.GroupSetting,
				Contents: []rules.ContentSection{{Name: "Backgrounds"}},
			},
			{
				ID:       "tftyp",
				Name:     "Tales of the Yawning Portal",
				Group:    rules.GroupSupplement,
				Contents: []rules.ContentSection{{Name: "Adventure Hooks"}},
			},
			{
				ID:       "sais",
				Name:     "Spelljammer: Adventures in Space",
				Group:    rules.GroupSetting,
				Contents: []rules.ContentSection{{Name: "Races"}},
			},
			{
				ID:       "xge",
				Name:     "Xanathar's Guide to Everything",
				Group:    rules.GroupSupplement,
				Contents: []rules.ContentSection{{Name: "Adventures", Headers: []string{"Subclasses"}}},
			},
		},
	}

	catalog, err := sources.New(&sources.Config{
		Provider: s.provider,
		Notify:   func(msg string) { s.warnings = append(s.warnings, msg) },
	})
	s.Require().NoError(err)
	s.catalog = catalog
}

func (s *CatalogTestSuite) TestInitializeFiltersByKeywordAndBanList() {
	s.Require().NoError(s.catalog.Initialize(s.ctx))

	// keyword match in a section name
	s.Assert().True(s.catalog.IsValidSource("PHB"))
	s.Assert().True(s.catalog.IsValidSource("scag"))
	// keyword match in a header
	s.Assert().True(s.catalog.IsValidSource("XGE"))
	// no matching keyword anywhere
	s.Assert().False(s.catalog.IsValidSource("TFTYP"))
	// banned even though its contents match
	s.Assert().False(s.catalog.IsValidSource("SAIS"))
}

func (s *CatalogTestSuite) TestKeywordMatchesWithinSectionTitles() {
	s.provider.sources = append(s.provider.sources, rules.Source{
		ID:       "hb1",
		Name:     "Homebrew Compendium",
		Group:    rules.GroupHomebrew,
		Contents: []rules.ContentSection{{Name: "Spells and Rituals"}},
	})
	s.Require().NoError(s.catalog.Initialize(s.ctx))

	// the keyword appears inside a longer section title
	s.Assert().True(s.catalog.IsValidSource("HB1"))
}

func (s *CatalogTestSuite) TestInitializeIsIdempotent() {
	s.Require().NoError(s.catalog.Initialize(s.ctx))
	s.Require().NoError(s.catalog.Initialize(s.ctx))
	s.Assert().Equal(1, s.provider.calls)
}

func (s *CatalogTestSuite) TestDefaultsSeedAllowedSet() {
	s.Require().NoError(s.catalog.Initialize(s.ctx))

	s.Assert().True(s.catalog.IsSourceAllowed("PHB"))
	s.Assert().False(s.catalog.IsSourceAllowed("SCAG"))
}

func (s *CatalogTestSuite) TestUpdateAllowedSourcesRequiresCore() {
	s.Require().NoError(s.catalog.Initialize(s.ctx))

	ok := s.catalog.UpdateAllowedSources(map[string]bool{"SCAG": true})

	s.Assert().False(ok)
	s.Require().Len(s.warnings, 1)
	s.Assert().Contains(s.warnings[0], "core source")
	// no partial state change
	s.Assert().True(s.catalog.IsSourceAllowed("PHB"))
	s.Assert().False(s.catalog.IsSourceAllowed("SCAG"))
}

func (s *CatalogTestSuite) TestUpdateAllowedSourcesSwapsAndInvalidates() {
	s.Require().NoError(s.catalog.Initialize(s.ctx))

	invalidated := 0
	s.catalog.OnInvalidate(func() { invalidated++ })

	ok := s.catalog.UpdateAllowedSources(map[string]bool{"phb": true, "scag": true})

	s.Assert().True(ok)
	s.Assert().True(s.catalog.IsSourceAllowed("SCAG"))
	s.Assert().Equal(1, invalidated)
	s.Assert().Empty(s.warnings)
}

func (s *CatalogTestSuite) TestSortedForDisplay() {
	s.Require().NoError(s.catalog.Initialize(s.ctx))

	order := s.catalog.SortedForDisplay()
	s.Require().NotEmpty(order)

	// PHB is pinned first; the setting book sorts before the supplement.
	s.Assert().Equal("PHB", order[0].ID)
	ids := make([]string, 0, len(order))
	for _, src := range order {
		ids = append(ids, src.ID)
	}
	s.Assert().Equal([]string{"PHB", "SCAG", "XGE"}, ids)
}

func (s *CatalogTestSuite) TestInitializePropagatesProviderFailure() {
	ctrl := gomock.NewController(s.T())
	provider := sourcesmock.NewMockProvider(ctrl)
	provider.EXPECT().
		Sources(gomock.Any()).
		Return(nil, errors.Unavailable("upstream unreachable"))

	catalog, err := sources.New(&sources.Config{Provider: provider})
	s.Require().NoError(err)

	err = catalog.Initialize(s.ctx)
	s.Require().Error(err)
	s.Assert().True(errors.IsUnavailable(err))
}

func (s *CatalogTestSuite) TestGetSourceDetails() {
	s.Require().NoError(s.catalog.Initialize(s.ctx))

	src, err := s.catalog.GetSourceDetails("phb")
	s.Require().NoError(err)
	s.Assert().Equal("Player's Handbook", src.Name)

	_, err = s.catalog.GetSourceDetails("NOPE")
	s.Assert().Error(err)
}
