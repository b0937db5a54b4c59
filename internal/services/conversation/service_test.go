package conversation

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/casetrail/evidence-api/internal/models"
	"github.com/casetrail/evidence-api/internal/services/inference"
	"github.com/casetrail/evidence-api/internal/services/sessions"
	apperrors "github.com/casetrail/evidence-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) AppendExchange(ctx context.Context, user, assistant *models.Turn) error {
	args := m.Called(ctx, user, assistant)
	if args.Error(0) == nil && assistant.UUID == "" {
		assistant.UUID = "assistant-uuid"
	}
	return args.Error(0)
}

func (m *MockRepository) ResolveTurn(ctx context.Context, turnUUID string, findings *models.TurnFindings) (*models.Turn, error) {
	args := m.Called(ctx, turnUUID, findings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Turn), args.Error(1)
}

func (m *MockRepository) FailTurn(ctx context.Context, turnUUID string, reason string) (*models.Turn, error) {
	args := m.Called(ctx, turnUUID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Turn), args.Error(1)
}

func (m *MockRepository) ListTurns(ctx context.Context, sessionID uint) ([]models.Turn, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]models.Turn), args.Error(1)
}

// MockSessionService is a mock implementation of sessions.Service
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) CreateSession(ctx context.Context, ownerID, caseNumber string) (*models.EvidenceSession, error) {
	args := m.Called(ctx, ownerID, caseNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EvidenceSession), args.Error(1)
}

func (m *MockSessionService) GetSessionByUUID(ctx context.Context, ownerID, uuid string) (*models.EvidenceSession, error) {
	args := m.Called(ctx, ownerID, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EvidenceSession), args.Error(1)
}

func (m *MockSessionService) ListSessions(ctx context.Context, ownerID string) ([]models.EvidenceSession, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]models.EvidenceSession), args.Error(1)
}

func (m *MockSessionService) DeleteSession(ctx context.Context, ownerID, uuid string) error {
	args := m.Called(ctx, ownerID, uuid)
	return args.Error(0)
}

func (m *MockSessionService) ResetSession(ctx context.Context, ownerID, uuid string) (*models.EvidenceSession, error) {
	args := m.Called(ctx, ownerID, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EvidenceSession), args.Error(1)
}

func (m *MockSessionService) AttachEvidence(ctx context.Context, session *models.EvidenceSession, video sessions.AttachedVideo, progress sessions.ProgressFunc) error {
	args := m.Called(ctx, session, video, progress)
	if args.Error(0) == nil {
		session.Status = models.SessionStatusAnalyzing
		session.VideoReference = "stored/" + video.Name
		session.VideoName = video.Name
	}
	return args.Error(0)
}

func (m *MockSessionService) BeginFollowUp(ctx context.Context, session *models.EvidenceSession) error {
	args := m.Called(ctx, session)
	if args.Error(0) == nil {
		session.Status = models.SessionStatusAnalyzing
	}
	return args.Error(0)
}

func (m *MockSessionService) CompleteAnalysis(ctx context.Context, session *models.EvidenceSession, events models.TimelineEvents) error {
	args := m.Called(ctx, session, events)
	return args.Error(0)
}

func (m *MockSessionService) FailAnalysis(ctx context.Context, session *models.EvidenceSession, reason string) error {
	args := m.Called(ctx, session, reason)
	return args.Error(0)
}

// MockAnalyzer is a mock implementation of inference.Analyzer
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, req inference.AnalysisRequest) (*inference.AnalysisResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inference.AnalysisResult), args.Error(1)
}

func testVideo() *sessions.AttachedVideo {
	return &sessions.AttachedVideo{
		Name: "lobby.mp4",
		Size: 4,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte("data"))), nil
		},
	}
}

func readySession() *models.EvidenceSession {
	session := &models.EvidenceSession{
		OwnerID:        "investigator-1",
		Status:         models.SessionStatusReady,
		VideoName:      "lobby.mp4",
		VideoReference: "stored/lobby.mp4",
		Fingerprint:    "abc123",
		StorageKey:     "abc123.mp4",
	}
	session.ID = 1
	session.UUID = "session-uuid"
	return session
}

func TestServiceImpl_SubmitPrompt(t *testing.T) {
	ctx := context.Background()

	t.Run("follow-up resolves with findings", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockSessions := new(MockSessionService)
		mockAnalyzer := new(MockAnalyzer)
		service := NewService(mockRepo, mockSessions, mockAnalyzer)

		session := readySession()
		findings := models.TimelineEvents{
			{FromTime: 12, ToTime: 18, Summary: "Person enters lobby", Confidence: 0.92},
		}

		mockSessions.On("GetSessionByUUID", ctx, "investigator-1", "session-uuid").Return(session, nil)
		mockRepo.On("AppendExchange", ctx, mock.AnythingOfType("*models.Turn"), mock.AnythingOfType("*models.Turn")).Return(nil)
		mockSessions.On("BeginFollowUp", ctx, session).Return(nil)
		mockAnalyzer.On("Analyze", ctx, mock.MatchedBy(func(req inference.AnalysisRequest) bool {
			return req.Prompt == "who enters?" && req.EvidenceReference == "stored/lobby.mp4"
		})).Return(&inference.AnalysisResult{Summary: "One person enters.", Events: findings}, nil)
		mockSessions.On("CompleteAnalysis", ctx, session, findings).Return(nil)

		resolved := &models.Turn{
			Role:     models.TurnRoleAssistant,
			State:    models.TurnStateResolved,
			Findings: &models.TurnFindings{Summary: "One person enters.", Events: findings},
		}
		mockRepo.On("ResolveTurn", ctx, "assistant-uuid", mock.AnythingOfType("*models.TurnFindings")).Return(resolved, nil)

		turn, err := service.SubmitPrompt(ctx, "investigator-1", "session-uuid", PromptSubmission{Text: "who enters?"})
		require.NoError(t, err)
		assert.Equal(t, models.TurnStateResolved, turn.State)
		require.NotNil(t, turn.Findings)
		assert.Len(t, turn.Findings.Events, 1)

		mockRepo.AssertExpectations(t)
		mockSessions.AssertExpectations(t)
		mockAnalyzer.AssertExpectations(t)
	})

	t.Run("attached video routes through upload", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockSessions := new(MockSessionService)
		mockAnalyzer := new(MockAnalyzer)
		service := NewService(mockRepo, mockSessions, mockAnalyzer)

		session := &models.EvidenceSession{OwnerID: "investigator-1", Status: models.SessionStatusIdle}
		session.ID = 2
		session.UUID = "fresh-session"

		mockSessions.On("GetSessionByUUID", ctx, "investigator-1", "fresh-session").Return(session, nil)
		mockRepo.On("AppendExchange", ctx, mock.Anything, mock.Anything).Return(nil)
		mockSessions.On("AttachEvidence", ctx, session, mock.AnythingOfType("sessions.AttachedVideo"), mock.Anything).Return(nil)
		mockAnalyzer.On("Analyze", ctx, mock.Anything).Return(&inference.AnalysisResult{Summary: "Nothing notable."}, nil)
		mockSessions.On("CompleteAnalysis", ctx, session, mock.Anything).Return(nil)
		mockRepo.On("ResolveTurn", ctx, "assistant-uuid", mock.Anything).
			Return(&models.Turn{State: models.TurnStateResolved}, nil)

		_, err := service.SubmitPrompt(ctx, "investigator-1", "fresh-session", PromptSubmission{
			Text:  "anything happen?",
			Video: testVideo(),
		})
		require.NoError(t, err)
		mockSessions.AssertCalled(t, "AttachEvidence", ctx, session, mock.Anything, mock.Anything)
		mockSessions.AssertNotCalled(t, "BeginFollowUp", mock.Anything, mock.Anything)
	})

	t.Run("rejects empty prompt", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockSessions := new(MockSessionService)
		service := NewService(mockRepo, mockSessions, new(MockAnalyzer))

		mockSessions.On("GetSessionByUUID", ctx, "investigator-1", "session-uuid").Return(readySession(), nil)

		_, err := service.SubmitPrompt(ctx, "investigator-1", "session-uuid", PromptSubmission{Text: "   "})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeMissingField, apperrors.GetCode(err))
		mockRepo.AssertNotCalled(t, "AppendExchange", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects prompt with no evidence anywhere", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockSessions := new(MockSessionService)
		service := NewService(mockRepo, mockSessions, new(MockAnalyzer))

		bare := &models.EvidenceSession{OwnerID: "investigator-1", Status: models.SessionStatusIdle}
		bare.ID = 3
		bare.UUID = "bare-session"
		mockSessions.On("GetSessionByUUID", ctx, "investigator-1", "bare-session").Return(bare, nil)

		_, err := service.SubmitPrompt(ctx, "investigator-1", "bare-session", PromptSubmission{Text: "who enters?"})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeMissingEvidence, apperrors.GetCode(err))
		mockRepo.AssertNotCalled(t, "AppendExchange", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects second prompt while one is pending", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockSessions := new(MockSessionService)
		service := NewService(mockRepo, mockSessions, new(MockAnalyzer))

		session := readySession()
		mockSessions.On("GetSessionByUUID", ctx, "investigator-1", "session-uuid").Return(session, nil)
		mockRepo.On("AppendExchange", ctx, mock.Anything, mock.Anything).Return(ErrPendingExchange)

		_, err := service.SubmitPrompt(ctx, "investigator-1", "session-uuid", PromptSubmission{Text: "and then?"})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeConflict, apperrors.GetCode(err))
		mockSessions.AssertNotCalled(t, "BeginFollowUp", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "FailTurn", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("analysis failure settles the pending turn as failed", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockSessions := new(MockSessionService)
		mockAnalyzer := new(MockAnalyzer)
		service := NewService(mockRepo, mockSessions, mockAnalyzer)

		session := readySession()
		mockSessions.On("GetSessionByUUID", ctx, "investigator-1", "session-uuid").Return(session, nil)
		mockRepo.On("AppendExchange", ctx, mock.Anything, mock.Anything).Return(nil)
		mockSessions.On("BeginFollowUp", ctx, session).Return(nil)
		mockAnalyzer.On("Analyze", ctx, mock.Anything).Return(nil, apperrors.InferenceFailure(assert.AnError))
		mockSessions.On("FailAnalysis", ctx, session, "analysis failed").Return(nil)
		mockRepo.On("FailTurn", ctx, "assistant-uuid", mock.AnythingOfType("string")).
			Return(&models.Turn{State: models.TurnStateFailed}, nil)

		_, err := service.SubmitPrompt(ctx, "investigator-1", "session-uuid", PromptSubmission{Text: "and then?"})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInferenceFailure, apperrors.GetCode(err))

		mockRepo.AssertCalled(t, "FailTurn", ctx, "assistant-uuid", mock.AnythingOfType("string"))
		mockRepo.AssertNotCalled(t, "ResolveTurn", mock.Anything, mock.Anything, mock.Anything)
	})
}

// fixedSessionService hands each caller an independent copy of one
// session, the way concurrent requests each load their own row.
type fixedSessionService struct {
	base models.EvidenceSession
}

func (s *fixedSessionService) CreateSession(ctx context.Context, ownerID, caseNumber string) (*models.EvidenceSession, error) {
	return nil, nil
}

func (s *fixedSessionService) GetSessionByUUID(ctx context.Context, ownerID, uuid string) (*models.EvidenceSession, error) {
	copied := s.base
	return &copied, nil
}

func (s *fixedSessionService) ListSessions(ctx context.Context, ownerID string) ([]models.EvidenceSession, error) {
	return nil, nil
}

func (s *fixedSessionService) DeleteSession(ctx context.Context, ownerID, uuid string) error {
	return nil
}

func (s *fixedSessionService) ResetSession(ctx context.Context, ownerID, uuid string) (*models.EvidenceSession, error) {
	return nil, nil
}

func (s *fixedSessionService) AttachEvidence(ctx context.Context, session *models.EvidenceSession, video sessions.AttachedVideo, progress sessions.ProgressFunc) error {
	return nil
}

func (s *fixedSessionService) BeginFollowUp(ctx context.Context, session *models.EvidenceSession) error {
	session.Status = models.SessionStatusAnalyzing
	return nil
}

func (s *fixedSessionService) CompleteAnalysis(ctx context.Context, session *models.EvidenceSession, events models.TimelineEvents) error {
	return nil
}

func (s *fixedSessionService) FailAnalysis(ctx context.Context, session *models.EvidenceSession, reason string) error {
	return nil
}

// gateAnalyzer holds every analysis until the release channel closes
type gateAnalyzer struct {
	release chan struct{}
}

func (g *gateAnalyzer) Analyze(ctx context.Context, req inference.AnalysisRequest) (*inference.AnalysisResult, error) {
	<-g.release
	return &inference.AnalysisResult{
		Summary: "One person enters.",
		Events: models.TimelineEvents{
			{FromTime: 12, ToTime: 18, Summary: "Person enters lobby", Confidence: 0.92},
		},
	}, nil
}

func TestServiceImpl_SubmitPrompt_ConcurrentSubmissions(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "conversation.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.EvidenceSession{}, &models.Turn{}, &models.Bookmark{}))

	row := &models.EvidenceSession{
		OwnerID:        "investigator-1",
		Status:         models.SessionStatusReady,
		VideoName:      "lobby.mp4",
		VideoReference: "stored/lobby.mp4",
		Fingerprint:    "abc123",
		StorageKey:     "abc123.mp4",
	}
	require.NoError(t, db.Create(row).Error)

	repo := NewRepository(db)
	analyzer := &gateAnalyzer{release: make(chan struct{})}
	service := NewService(repo, &fixedSessionService{base: *row}, analyzer)

	ctx := context.Background()
	const callers = 4
	type outcome struct {
		turn *models.Turn
		err  error
	}
	results := make(chan outcome, callers)
	for i := 0; i < callers; i++ {
		go func(n int) {
			turn, err := service.SubmitPrompt(ctx, "investigator-1", row.UUID, PromptSubmission{
				Text: fmt.Sprintf("prompt %d", n),
			})
			results <- outcome{turn: turn, err: err}
		}(i)
	}

	// while one submission is held inside analysis, the other three
	// must come back as conflicts
	for i := 0; i < callers-1; i++ {
		res := <-results
		require.Error(t, res.err)
		assert.Equal(t, apperrors.ErrCodeConflict, apperrors.GetCode(res.err))
	}

	close(analyzer.release)
	winner := <-results
	require.NoError(t, winner.err)
	assert.Equal(t, models.TurnStateResolved, winner.turn.State)

	turns, err := repo.ListTurns(ctx, row.ID)
	require.NoError(t, err)
	require.Len(t, turns, 2, "only the winning submission writes turns")
	assert.Equal(t, models.TurnStateResolved, turns[1].State)
}

func TestServiceImpl_ListTurns(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	mockSessions := new(MockSessionService)
	service := NewService(mockRepo, mockSessions, new(MockAnalyzer))

	session := readySession()
	mockSessions.On("GetSessionByUUID", ctx, "investigator-1", "session-uuid").Return(session, nil)
	mockRepo.On("ListTurns", ctx, uint(1)).Return([]models.Turn{
		{Role: models.TurnRoleUser, Text: "who enters?"},
		{Role: models.TurnRoleAssistant, Text: "One person enters."},
	}, nil)

	turns, err := service.ListTurns(ctx, "investigator-1", "session-uuid")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, models.TurnRoleUser, turns[0].Role)
}
