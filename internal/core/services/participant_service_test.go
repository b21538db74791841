package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/group_ledger/internal/apperrors"
	"github.com/SscSPs/group_ledger/internal/audit"
	"github.com/SscSPs/group_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/group_ledger/internal/core/ports/services"
	"github.com/SscSPs/group_ledger/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ParticipantServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	mockRepo *MockParticipantRepository
	auditor  *recordingPublisher
	service  portssvc.ParticipantSvcFacade
}

func (suite *ParticipantServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockRepo = new(MockParticipantRepository)
	suite.auditor = &recordingPublisher{}
	suite.service = services.NewParticipantService(suite.mockRepo, suite.auditor)
}

func TestParticipantServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ParticipantServiceTestSuite))
}

func (suite *ParticipantServiceTestSuite) TestRegister_New() {
	suite.mockRepo.On("FindParticipant", suite.ctx, "g1", "972501").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveParticipant", suite.ctx, mock.MatchedBy(func(p domain.Participant) bool {
		return p.ParticipantID == "972501" && p.DisplayName == "Dana" && p.IsActive && p.CreatedBy == "bot"
	})).Return(nil).Once()

	p, err := suite.service.Register(suite.ctx, "g1", "972501", "  Dana ", "bot")

	suite.Require().NoError(err)
	suite.Equal("Dana", p.DisplayName)
	suite.False(p.CreatedAt.IsZero())
	suite.Equal([]string{audit.TypeParticipantChanged}, suite.auditor.types)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ParticipantServiceTestSuite) TestRegister_IsIdempotent() {
	existing := &domain.Participant{GroupID: "g1", ParticipantID: "972501", DisplayName: "Dana", MentionOptOut: true, IsActive: true}
	suite.mockRepo.On("FindParticipant", suite.ctx, "g1", "972501").Return(existing, nil)

	p, err := suite.service.Register(suite.ctx, "g1", "972501", "", "bot")
	suite.Require().NoError(err)
	suite.Equal("Dana", p.DisplayName)

	p, err = suite.service.Register(suite.ctx, "g1", "972501", "Dana", "bot")
	suite.Require().NoError(err)
	suite.True(p.MentionOptOut)

	suite.mockRepo.AssertNotCalled(suite.T(), "SaveParticipant", mock.Anything, mock.Anything)
}

func (suite *ParticipantServiceTestSuite) TestRegister_UpdatesNameAndReactivates() {
	existing := &domain.Participant{GroupID: "g1", ParticipantID: "972501", DisplayName: "Dana", MentionOptOut: true, IsActive: false}
	suite.mockRepo.On("FindParticipant", suite.ctx, "g1", "972501").Return(existing, nil).Once()
	suite.mockRepo.On("SaveParticipant", suite.ctx, mock.MatchedBy(func(p domain.Participant) bool {
		return p.DisplayName == "Dana K" && p.IsActive && p.MentionOptOut && p.LastUpdatedBy == "admin"
	})).Return(nil).Once()

	p, err := suite.service.Register(suite.ctx, "g1", "972501", "Dana K", "admin")

	suite.Require().NoError(err)
	suite.True(p.IsActive)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ParticipantServiceTestSuite) TestRegister_RequiresIDs() {
	_, err := suite.service.Register(suite.ctx, "g1", " ", "Dana", "bot")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.Register(suite.ctx, "", "972501", "Dana", "bot")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ParticipantServiceTestSuite) TestRegister_RejectsControlCharactersInIDs() {
	_, err := suite.service.Register(suite.ctx, "a\x00x", "972501", "Dana", "bot")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.Register(suite.ctx, "g1", "9725\n01", "Dana", "bot")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.Resolve(suite.ctx, "g1", "x\x00bob")
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockRepo.AssertNotCalled(suite.T(), "FindParticipant", mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveParticipant", mock.Anything, mock.Anything)
}

func (suite *ParticipantServiceTestSuite) TestSetOptOut() {
	suite.mockRepo.On("FindParticipant", suite.ctx, "g1", "972501").
		Return(&domain.Participant{GroupID: "g1", ParticipantID: "972501", IsActive: true}, nil).Once()
	suite.mockRepo.On("SaveParticipant", suite.ctx, mock.MatchedBy(func(p domain.Participant) bool { return p.MentionOptOut })).Return(nil).Once()

	p, err := suite.service.SetOptOut(suite.ctx, "g1", "972501", true, "bot")

	suite.Require().NoError(err)
	suite.True(p.MentionOptOut)
	suite.Equal("972501", p.Label())
}

func (suite *ParticipantServiceTestSuite) TestSetOptOut_UnknownParticipant() {
	suite.mockRepo.On("FindParticipant", suite.ctx, "g1", "nobody").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.SetOptOut(suite.ctx, "g1", "nobody", true, "bot")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ParticipantServiceTestSuite) TestDeactivate() {
	suite.mockRepo.On("FindParticipant", suite.ctx, "g1", "972501").
		Return(&domain.Participant{GroupID: "g1", ParticipantID: "972501", IsActive: true}, nil).Once()
	suite.mockRepo.On("SaveParticipant", suite.ctx, mock.MatchedBy(func(p domain.Participant) bool { return !p.IsActive })).Return(nil).Once()

	suite.Require().NoError(suite.service.Deactivate(suite.ctx, "g1", "972501", "bot"))
	suite.mockRepo.AssertExpectations(suite.T())
}
