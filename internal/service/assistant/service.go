package assistant

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/analyzer"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/court"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/models"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/service/ai"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/service/catalog"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/session"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/speech"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/worker"
)

// Answer is the response for one visitor question.
type Answer struct {
	SessionID  string             `json:"session_id"`
	Reply      string             `json:"reply"`
	SpeechText string             `json:"speech_text"`
	Source     string             `json:"source"` // "assistant" or "directory"
	Analysis   *analyzer.Analysis `json:"analysis,omitempty"`
}

// Service orchestrates one ask: classify the question, pull matching records,
// run the model through the dispatcher, and shape the reply for speech.
// College and court conversations live in separate stores so one surface
// cannot read the other's transcripts.
type Service struct {
	sessions      *session.Manager
	courtSessions *session.Manager
	catalog       *catalog.Service
	gen           ai.Generator
	dispatch      *worker.Dispatcher
}

func NewService(sessions, courtSessions *session.Manager, cat *catalog.Service, gen ai.Generator, dispatch *worker.Dispatcher) *Service {
	return &Service{
		sessions:      sessions,
		courtSessions: courtSessions,
		catalog:       cat,
		gen:           gen,
		dispatch:      dispatch,
	}
}

// Ask answers a college question.
func (s *Service) Ask(ctx context.Context, sessionID, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question must not be empty")
	}

	sess, _ := s.sessions.GetOrCreate(sessionID)

	analysis := analyzer.Analyze(question)
	facts := s.fetchFacts(ctx, analyzer.FetchStrategy(analysis))
	systemPrompt := s.collegePrompt(ctx, facts)

	reply, err := s.generate(ctx, s.sessions, sess.ID, question, systemPrompt)
	if err != nil {
		return nil, err
	}
	return &Answer{
		SessionID:  sess.ID,
		Reply:      reply,
		SpeechText: speech.Normalize(reply),
		Source:     "assistant",
		Analysis:   &analysis,
	}, nil
}

// AskCourt answers a courthouse question. Wayfinding questions that the
// static directory can resolve never reach the model.
func (s *Service) AskCourt(ctx context.Context, sessionID, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question must not be empty")
	}

	sess, _ := s.courtSessions.GetOrCreate(sessionID)

	if info := court.Lookup(question); info != nil {
		// Record the exchange so a follow-up question has context.
		if err := s.courtSessions.AddMessage(sess.ID, models.RoleUser, question); err != nil {
			zap.L().Warn("record user turn failed", zap.String("session_id", sess.ID), zap.Error(err))
		}
		if err := s.courtSessions.AddMessage(sess.ID, models.RoleAssistant, info.Answer); err != nil {
			zap.L().Warn("record directory turn failed", zap.String("session_id", sess.ID), zap.Error(err))
		}
		return &Answer{
			SessionID:  sess.ID,
			Reply:      info.Answer,
			SpeechText: speech.Normalize(info.Answer),
			Source:     "directory",
		}, nil
	}

	analysis := analyzer.AnalyzeCourt(question)
	limit := 10
	if analysis.NeedsDetailedInfo {
		limit = 25
	}
	systemPrompt := s.courtPrompt(ctx, s.courtFacts(ctx, limit))

	reply, err := s.generate(ctx, s.courtSessions, sess.ID, question, systemPrompt)
	if err != nil {
		return nil, err
	}
	return &Answer{
		SessionID:  sess.ID,
		Reply:      reply,
		SpeechText: speech.Normalize(reply),
		Source:     "assistant",
	}, nil
}

type genResult struct {
	reply string
	err   error
}

// generate records the user turn, runs the model through the dispatcher so
// per-session order and global concurrency hold, and records the reply.
func (s *Service) generate(ctx context.Context, store *session.Manager, sessionID, question, systemPrompt string) (string, error) {
	if err := store.AddMessage(sessionID, models.RoleUser, question); err != nil {
		return "", fmt.Errorf("record user turn: %w", err)
	}
	history := toPointerHistory(store.History(sessionID, systemPrompt))

	resCh := make(chan genResult, 1)
	job := worker.Job{
		SessionID: sessionID,
		Run: func() {
			reply, err := s.gen.Generate(ai.WithToolSession(ctx, sessionID), history)
			resCh <- genResult{reply: reply, err: err}
		},
	}
	if err := s.dispatch.Submit(job); err != nil {
		return "", err
	}

	select {
	case res := <-resCh:
		if res.err != nil {
			return "", fmt.Errorf("assistant reply: %w", res.err)
		}
		if err := store.AddMessage(sessionID, models.RoleAssistant, res.reply); err != nil {
			zap.L().Warn("record assistant turn failed", zap.String("session_id", sessionID), zap.Error(err))
		}
		return res.reply, nil
	case <-ctx.Done():
		s.dispatch.CancelSession(sessionID)
		return "", ctx.Err()
	}
}

// History exposes a session transcript without the system prompt. Session
// ids are unique across both stores, so checking each in turn is safe.
func (s *Service) History(sessionID string) ([]models.Message, error) {
	msgs, err := s.sessions.Messages(sessionID)
	if err == nil {
		return msgs, nil
	}
	return s.courtSessions.Messages(sessionID)
}

// EndSession drops a session and any work still queued for it.
func (s *Service) EndSession(sessionID string) {
	s.dispatch.CancelSession(sessionID)
	s.sessions.Remove(sessionID)
	s.courtSessions.Remove(sessionID)
}
