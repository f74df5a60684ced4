package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/tharun242005/EMPATH-AI/internal/classifier"
	"github.com/tharun242005/EMPATH-AI/internal/generator"
	"github.com/tharun242005/EMPATH-AI/internal/memory"
	"github.com/tharun242005/EMPATH-AI/internal/models"
)

type fakeClassifier struct {
	result *models.ClassificationResult
	err    error
	ready  bool
}

func (f *fakeClassifier) Classify(ctx context.Context, text string) (*models.ClassificationResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeClassifier) HealthCheck(ctx context.Context) (*classifier.HealthResponse, error) {
	if !f.ready {
		return nil, errors.New("connection refused")
	}
	return &classifier.HealthResponse{
		Status:                "healthy",
		EmotionModelLoaded:    true,
		HarassmentModelLoaded: true,
	}, nil
}

type fakeGenerator struct {
	reply    string
	webUsed  bool
	requests []generator.Request
}

func (f *fakeGenerator) Generate(ctx context.Context, req generator.Request) generator.Outcome {
	f.requests = append(f.requests, req)
	return generator.Outcome{Reply: f.reply, WebUsed: f.webUsed}
}

type fakeAnnotator struct {
	annotations []string
}

func (f *fakeAnnotator) Annotate(ctx context.Context, message string, tier models.Severity) []string {
	if tier == models.SeverityLow {
		return nil
	}
	return f.annotations
}

type fakeDispatcher struct {
	triggers int
	lastTier models.Severity
}

func (f *fakeDispatcher) Trigger(sessionKey, message string, tier models.Severity, score float64) {
	f.triggers++
	f.lastTier = tier
}

func lowResult(emotion string, score float64) *models.ClassificationResult {
	return &models.ClassificationResult{
		Emotion: emotion,
		Score:   score,
		Tier:    models.SeverityFromScore(score),
	}
}

func newTestService(cls *fakeClassifier, gen *fakeGenerator, ann Annotator, disp *fakeDispatcher) *Service {
	cfg := Config{
		Classifier: cls,
		Generator:  gen,
		Memory:     memory.NewStore(),
	}
	if ann != nil {
		cfg.Annotator = ann
	}
	if disp != nil {
		cfg.Dispatcher = disp
	}
	return NewService(cfg, zap.NewNop())
}

func TestChatLowSeverityPath(t *testing.T) {
	cls := &fakeClassifier{result: lowResult(models.EmotionAnxiety, 0.1), ready: true}
	gen := &fakeGenerator{reply: "Exams are stressful, be kind to yourself."}
	disp := &fakeDispatcher{}
	svc := newTestService(cls, gen, &fakeAnnotator{annotations: []string{"⚖️ IPC Section 503: x — y"}}, disp)

	resp, err := svc.Chat(context.Background(), models.ChatRequest{
		Message:   "I'm anxious about my exam tomorrow",
		SessionID: "u1",
	})
	if err != nil {
		t.Fatal(err)
	}

	if resp.HarassmentDetected {
		t.Error("low score flagged as harassment")
	}
	if resp.HarassmentLevel != models.SeverityLow {
		t.Errorf("tier = %v, want Low", resp.HarassmentLevel)
	}
	if strings.Contains(resp.Reply, "IPC") {
		t.Error("low severity reply must not carry legal annotations")
	}
	if disp.triggers != 0 {
		t.Errorf("alert triggered %d times for low severity", disp.triggers)
	}
	if resp.WebEnabled {
		t.Error("web reported enabled without fetch")
	}
}

func TestChatHighSeverityAnnotatesAndAlerts(t *testing.T) {
	cls := &fakeClassifier{result: lowResult(models.EmotionFear, 0.85), ready: true}
	gen := &fakeGenerator{reply: "That is frightening, your safety comes first."}
	disp := &fakeDispatcher{}
	ann := &fakeAnnotator{annotations: []string{
		"⚖️ IPC Section 354D: Stalking — Following repeatedly.",
		"⚖️ IPC Section 503: Criminal Intimidation — Threats.",
	}}
	svc := newTestService(cls, gen, ann, disp)

	resp, err := svc.Chat(context.Background(), models.ChatRequest{
		Message:   "He follows me home and threatens me",
		SessionID: "u1",
	})
	if err != nil {
		t.Fatal(err)
	}

	if !resp.HarassmentDetected {
		t.Error("harassment not flagged at 0.85")
	}
	if resp.HarassmentLevel != models.SeverityHigh {
		t.Errorf("tier = %v, want High", resp.HarassmentLevel)
	}
	if !strings.Contains(resp.Reply, "354D") || !strings.Contains(resp.Reply, "503") {
		t.Errorf("annotations missing from reply: %q", resp.Reply)
	}
	if disp.triggers != 1 {
		t.Errorf("alert triggered %d times, want exactly 1", disp.triggers)
	}
	if disp.lastTier != models.SeverityHigh {
		t.Errorf("alert tier = %v", disp.lastTier)
	}
}

func TestChatAnnotationDedupe(t *testing.T) {
	cls := &fakeClassifier{result: lowResult(models.EmotionFear, 0.7), ready: true}
	// Reply already cites 354D; only 503 should be appended.
	gen := &fakeGenerator{reply: "Under IPC 354D this counts as stalking."}
	ann := &fakeAnnotator{annotations: []string{
		"⚖️ IPC Section 354D: Stalking — Following repeatedly.",
		"⚖️ IPC Section 503: Criminal Intimidation — Threats.",
	}}
	svc := newTestService(cls, gen, ann, nil)

	resp, err := svc.Chat(context.Background(), models.ChatRequest{Message: "He stalks and threatens me"})
	if err != nil {
		t.Fatal(err)
	}

	if strings.Count(resp.Reply, "354D") != 1 {
		t.Errorf("354D duplicated in reply: %q", resp.Reply)
	}
	if !strings.Contains(resp.Reply, "503") {
		t.Errorf("503 annotation missing: %q", resp.Reply)
	}
}

func TestChatEmptyMessage(t *testing.T) {
	svc := newTestService(&fakeClassifier{ready: true}, &fakeGenerator{}, nil, nil)

	if _, err := svc.Chat(context.Background(), models.ChatRequest{Message: "   "}); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("err = %v, want ErrEmptyMessage", err)
	}
}

func TestChatNotReady(t *testing.T) {
	svc := newTestService(&fakeClassifier{ready: false}, &fakeGenerator{}, nil, nil)

	if _, err := svc.Chat(context.Background(), models.ChatRequest{Message: "hello"}); !errors.Is(err, ErrNotReady) {
		t.Errorf("err = %v, want ErrNotReady", err)
	}
}

// A classifier that passed its health check but fails mid-request means the
// model service went away; the request maps to not-ready, not a generic fault.
func TestChatClassifierFailureMapsToNotReady(t *testing.T) {
	cls := &fakeClassifier{err: errors.New("connection reset"), ready: true}
	svc := newTestService(cls, &fakeGenerator{}, nil, nil)

	_, err := svc.Chat(context.Background(), models.ChatRequest{Message: "hello"})
	if !errors.Is(err, ErrNotReady) {
		t.Errorf("err = %v, want ErrNotReady", err)
	}
}

func TestChatRecordsMemoryAndLimitsContext(t *testing.T) {
	cls := &fakeClassifier{result: lowResult(models.EmotionCalm, 0.0), ready: true}
	gen := &fakeGenerator{reply: "noted"}
	svc := newTestService(cls, gen, nil, nil)

	for i := 0; i < 8; i++ {
		if _, err := svc.Chat(context.Background(), models.ChatRequest{Message: "turn", SessionID: "u1"}); err != nil {
			t.Fatal(err)
		}
	}

	last := gen.requests[len(gen.requests)-1]
	if len(last.History) != memory.ContextTurns {
		t.Errorf("history length = %d, want %d", len(last.History), memory.ContextTurns)
	}
}

func TestTriggerSupportEscalatesSeverity(t *testing.T) {
	// Detection says High even though the caller only claimed Low.
	cls := &fakeClassifier{result: lowResult(models.EmotionFear, 0.9), ready: true}
	gen := &fakeGenerator{reply: "You deserve to be safe."}
	svc := newTestService(cls, gen, nil, nil)

	resp, err := svc.TriggerSupport(context.Background(), models.SupportRequest{
		Message:  "you are worthless and I will find you",
		Severity: "Low",
	})
	if err != nil {
		t.Fatal(err)
	}

	if resp.Severity != models.SeverityHigh {
		t.Errorf("severity = %v, want High", resp.Severity)
	}
	req := gen.requests[0]
	if !req.IsHarassment {
		t.Error("support generation must force the harassment flag")
	}
	if req.Score < 0.6 {
		t.Errorf("support score = %v, want at least 0.6", req.Score)
	}
	if !strings.HasPrefix(req.Message, "I received a notification that says: ") {
		t.Errorf("message not reframed: %q", req.Message)
	}
}

func TestTriggerSupportKeepsProvidedSeverity(t *testing.T) {
	cls := &fakeClassifier{result: lowResult(models.EmotionSad, 0.1), ready: true}
	gen := &fakeGenerator{reply: "I'm here."}
	svc := newTestService(cls, gen, nil, nil)

	resp, err := svc.TriggerSupport(context.Background(), models.SupportRequest{
		Message:  "subtle put-down",
		Severity: "Medium",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Severity != models.SeverityMedium {
		t.Errorf("severity = %v, want provided Medium", resp.Severity)
	}
}

func TestTriggerSupportClassifierErrorFallsBack(t *testing.T) {
	cls := &fakeClassifier{err: errors.New("down"), ready: true}
	svc := newTestService(cls, &fakeGenerator{}, nil, nil)

	resp, err := svc.TriggerSupport(context.Background(), models.SupportRequest{
		Message:  "something awful",
		Severity: "High",
	})
	if err != nil {
		t.Fatalf("support path must not fail: %v", err)
	}
	if resp.Reply == "" {
		t.Fatal("fallback reply empty")
	}
	if resp.Severity != models.SeverityHigh {
		t.Errorf("severity = %v, want provided High", resp.Severity)
	}
	if resp.Emotion != "distress" {
		t.Errorf("emotion = %q, want distress", resp.Emotion)
	}
}

func TestResetMessages(t *testing.T) {
	cls := &fakeClassifier{result: lowResult(models.EmotionCalm, 0.0), ready: true}
	svc := newTestService(cls, &fakeGenerator{reply: "ok"}, nil, nil)

	if msg := svc.Reset("ghost"); !strings.Contains(msg, "No conversation history") {
		t.Errorf("reset unknown session: %q", msg)
	}

	if _, err := svc.Chat(context.Background(), models.ChatRequest{Message: "hi", SessionID: "u1"}); err != nil {
		t.Fatal(err)
	}
	if msg := svc.Reset("u1"); !strings.Contains(msg, "reset for user u1") {
		t.Errorf("reset known session: %q", msg)
	}
}

func TestHealthReflectsClassifier(t *testing.T) {
	svc := newTestService(&fakeClassifier{ready: true}, &fakeGenerator{}, nil, nil)
	if h := svc.Health(context.Background()); h.Status != "healthy" || !h.ModelsLoaded {
		t.Errorf("health = %+v", h)
	}

	svc = newTestService(&fakeClassifier{ready: false}, &fakeGenerator{}, nil, nil)
	if h := svc.Health(context.Background()); h.Status != "degraded" || h.ModelsLoaded {
		t.Errorf("health = %+v", h)
	}
}
