package errors_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/hearthforge/rulebook-api/internal/errors"
)

type ValidationTestSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationTestSuite))
}

func (s *ValidationTestSuite) TestBuildReturnsNilWithoutErrors() {
	vb := errors.NewValidationBuilder()
	s.Assert().NoError(vb.Build())
}

func (s *ValidationTestSuite) TestRequiredField() {
	vb := errors.NewValidationBuilder()
	vb.RequiredField("name")

	err := vb.Build()
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))
	s.Assert().Contains(err.Error(), "name")
}

func (s *ValidationTestSuite) TestValidateRequired() {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("source", "  ", vb)
	errors.ValidateRequired("name", "Acolyte", vb)

	err := vb.Build()
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "source")
	s.Assert().NotContains(err.Error(), "Acolyte")
}

func (s *ValidationTestSuite) TestValidateRange() {
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("level", 25, 1, 20, vb)

	err := vb.Build()
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "between 1 and 20")
}

func (s *ValidationTestSuite) TestMetaCarriesFieldErrors() {
	vb := errors.NewValidationBuilder()
	vb.Field("allowedSources", "must contain a core source")

	err := vb.Build()
	s.Require().Error(err)

	meta := errors.GetMeta(err)
	s.Require().NotNil(meta)
	s.Assert().Contains(meta, "validation_errors")
}
