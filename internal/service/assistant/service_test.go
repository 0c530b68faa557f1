package assistant

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/models"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/service/catalog"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/session"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/storage"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/worker"
)

type stubGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	history []*models.Message
	calls   int
}

func (g *stubGenerator) Generate(ctx context.Context, history []*models.Message) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.history = history
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func (g *stubGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func (g *stubGenerator) lastHistory() []*models.Message {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.history
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.Migrate(db, "sqlite3"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, gen *stubGenerator) (*Service, *catalog.Service) {
	t.Helper()
	cat := catalog.NewService(newTestDB(t), nil)
	sessions := session.NewManager(session.Options{})
	courtSessions := session.NewManager(session.Options{})
	dispatch := worker.NewDispatcher(1, 2, 16, time.Minute)
	return NewService(sessions, courtSessions, cat, gen, dispatch), cat
}

func TestAskFeedsRecordsToModel(t *testing.T) {
	gen := &stubGenerator{reply: "The B.Tech CSE fee is Rs. 85000 per year."}
	svc, cat := newTestService(t, gen)
	ctx := context.Background()

	if _, err := cat.CreateCourse(ctx, &models.Course{
		Name: "Computer Science Engineering", Code: "CSE", Duration: "4 years", Fees: 85000,
	}); err != nil {
		t.Fatalf("seed course: %v", err)
	}

	ans, err := svc.Ask(ctx, "", "what is the fee for the cse course")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if ans.SessionID == "" {
		t.Fatal("answer must carry a session id")
	}
	if ans.Source != "assistant" {
		t.Fatalf("source = %q", ans.Source)
	}

	history := gen.lastHistory()
	if len(history) < 2 || history[0].Role != models.RoleSystem {
		t.Fatalf("model history = %+v", history)
	}
	if !strings.Contains(history[0].Content, "Computer Science Engineering") {
		t.Fatal("system prompt should include the seeded course")
	}

	// The spoken form reads abbreviations and numbers out in full.
	if strings.Contains(ans.SpeechText, "Rs.") || strings.Contains(ans.SpeechText, "85000") {
		t.Fatalf("speech text not normalized: %q", ans.SpeechText)
	}
	if !strings.Contains(ans.SpeechText, "rupees") {
		t.Fatalf("speech text = %q", ans.SpeechText)
	}
}

func TestAskKeepsSessionAcrossTurns(t *testing.T) {
	gen := &stubGenerator{reply: "Sure."}
	svc, _ := newTestService(t, gen)
	ctx := context.Background()

	first, err := svc.Ask(ctx, "", "hello")
	if err != nil {
		t.Fatalf("first ask: %v", err)
	}
	second, err := svc.Ask(ctx, first.SessionID, "and the hostel?")
	if err != nil {
		t.Fatalf("second ask: %v", err)
	}
	if second.SessionID != first.SessionID {
		t.Fatalf("session id changed: %q -> %q", first.SessionID, second.SessionID)
	}

	history, err := svc.History(first.SessionID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 4 {
		t.Fatalf("history length = %d, want 4", len(history))
	}
	if history[0].Role != models.RoleUser || history[1].Role != models.RoleAssistant {
		t.Fatalf("history roles = %v %v", history[0].Role, history[1].Role)
	}
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	gen := &stubGenerator{reply: "x"}
	svc, _ := newTestService(t, gen)

	if _, err := svc.Ask(context.Background(), "", "   "); err == nil {
		t.Fatal("blank question should be rejected")
	}
	if gen.callCount() != 0 {
		t.Fatal("model must not be called for a blank question")
	}
}

func TestAskSurfacesModelFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("provider down")}
	svc, _ := newTestService(t, gen)

	if _, err := svc.Ask(context.Background(), "", "hello"); err == nil {
		t.Fatal("model failure should surface to the caller")
	}
}

func TestAskCourtDirectoryShortCircuit(t *testing.T) {
	gen := &stubGenerator{reply: "should not be used"}
	svc, _ := newTestService(t, gen)
	ctx := context.Background()

	ans, err := svc.AskCourt(ctx, "", "where do I get a certified copy of the judgment")
	if err != nil {
		t.Fatalf("ask court: %v", err)
	}
	if ans.Source != "directory" {
		t.Fatalf("source = %q, want directory", ans.Source)
	}
	if !strings.Contains(ans.Reply, "104") {
		t.Fatalf("reply = %q, want room 104", ans.Reply)
	}
	if gen.callCount() != 0 {
		t.Fatal("directory answers must not reach the model")
	}

	// The exchange still lands in the transcript for follow-ups.
	history, err := svc.History(ans.SessionID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
}

func TestAskCourtFallsThroughToModel(t *testing.T) {
	gen := &stubGenerator{reply: "Hearings resume at 10:30 AM."}
	svc, cat := newTestService(t, gen)
	ctx := context.Background()

	if _, err := cat.CreateCourtOffice(ctx, &models.CourtOffice{
		Name: "Copying Section", RoomNumber: "104", Building: "Main Building",
		Floor: "Ground", Services: "certified copies",
	}); err != nil {
		t.Fatalf("seed office: %v", err)
	}

	ans, err := svc.AskCourt(ctx, "", "when does the honorable judge usually sit")
	if err != nil {
		t.Fatalf("ask court: %v", err)
	}
	if ans.Source != "assistant" {
		t.Fatalf("source = %q, want assistant", ans.Source)
	}
	if gen.callCount() != 1 {
		t.Fatalf("model calls = %d, want 1", gen.callCount())
	}
	history := gen.lastHistory()
	if !strings.Contains(history[0].Content, "Copying Section") {
		t.Fatal("court prompt should include the office directory")
	}
}
