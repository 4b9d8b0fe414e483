package handler_test

// In-memory stand-ins for the MySQL repositories, the classification
// client and the queue publisher. They honour the same contracts the real
// implementations do (atomic create, confidence range check, newest-first
// history, first-recorded tie-break) so the handlers can be exercised
// end-to-end without external services.

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/emotion-detection-service/internal/auth"
	"github.com/iliyamo/emotion-detection-service/internal/classifier"
	"github.com/iliyamo/emotion-detection-service/internal/config"
	"github.com/iliyamo/emotion-detection-service/internal/handler"
	"github.com/iliyamo/emotion-detection-service/internal/model"
	"github.com/iliyamo/emotion-detection-service/internal/queue"
	"github.com/iliyamo/emotion-detection-service/internal/repository"
	"github.com/iliyamo/emotion-detection-service/internal/router"
)

type memCredentials struct {
	mu    sync.Mutex
	users map[string]string // username -> bcrypt hash
}

func newMemCredentials() *memCredentials {
	return &memCredentials{users: map[string]string{}}
}

func (m *memCredentials) Create(_ context.Context, username, password string, cost int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; ok {
		return repository.ErrUsernameExists
	}
	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return err
	}
	m.users[username] = hash
	return nil
}

func (m *memCredentials) Verify(_ context.Context, username, password string) (bool, error) {
	m.mu.Lock()
	hash, ok := m.users[username]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return auth.VerifyPassword(hash, password), nil
}

type memPrediction struct {
	username   string
	text       string
	emotion    string
	confidence float64
	createdAt  time.Time
}

type memPredictions struct {
	mu   sync.Mutex
	recs []memPrediction
}

func (m *memPredictions) Record(_ context.Context, username, text, emotion string, confidence float64) error {
	if confidence < 0 || confidence > 1 {
		return repository.ErrInvalidConfidence
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, memPrediction{
		username:   username,
		text:       text,
		emotion:    emotion,
		confidence: confidence,
		createdAt:  time.Now().UTC(),
	})
	return nil
}

// Statistics mirrors the SQL aggregation: counts per emotion, highest
// count wins, ties broken by whichever emotion was recorded first.
func (m *memPredictions) Statistics(_ context.Context) (model.StatisticsSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := model.StatisticsSnapshot{EmotionsCount: map[string]int64{}}
	firstSeen := map[string]int{}
	for i, r := range m.recs {
		if _, ok := firstSeen[r.emotion]; !ok {
			firstSeen[r.emotion] = i
		}
		snap.EmotionsCount[r.emotion]++
		snap.TotalPredictions++
	}
	for emotion, cnt := range snap.EmotionsCount {
		if snap.MostCommonEmotion == nil {
			e := emotion
			snap.MostCommonEmotion = &e
			continue
		}
		cur := *snap.MostCommonEmotion
		if cnt > snap.EmotionsCount[cur] ||
			(cnt == snap.EmotionsCount[cur] && firstSeen[emotion] < firstSeen[cur]) {
			e := emotion
			snap.MostCommonEmotion = &e
		}
	}
	return snap, nil
}

func (m *memPredictions) History(_ context.Context, username string) ([]model.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := []model.HistoryEntry{}
	for i := len(m.recs) - 1; i >= 0; i-- {
		if r := m.recs[i]; r.username == username {
			entries = append(entries, model.HistoryEntry{Text: r.text, Emotion: r.emotion, Timestamp: r.createdAt})
		}
	}
	return entries, nil
}

func (m *memPredictions) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recs)
}

type stubClassifier struct {
	res classifier.Result
	err error
}

func (s *stubClassifier) Classify(context.Context, string) (classifier.Result, error) {
	if s.err != nil {
		return classifier.Result{}, s.err
	}
	return s.res, nil
}

type stubPublisher struct {
	mu     sync.Mutex
	events []queue.FineTuneRequestedEvent
	err    error
}

func (s *stubPublisher) PublishFineTuneRequested(_ context.Context, ev queue.FineTuneRequestedEvent) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
	return nil
}

// testApp bundles a fully wired Echo instance with handles to the fakes
// behind it.
type testApp struct {
	e           *echo.Echo
	users       *memCredentials
	predictions *memPredictions
	classifier  *stubClassifier
	publisher   *stubPublisher
	issuer      *auth.Issuer
}

func newTestApp() *testApp {
	cfg := config.Config{
		BcryptCost:   bcrypt.MinCost,
		ModelTimeout: time.Second,
	}
	app := &testApp{
		users:       newMemCredentials(),
		predictions: &memPredictions{},
		classifier:  &stubClassifier{res: classifier.Result{Emotion: "joy", Confidence: 0.9}},
		publisher:   &stubPublisher{},
		issuer:      auth.NewIssuer("test-secret", time.Hour),
	}
	a := handler.NewAuthHandler(cfg, app.users, app.issuer)
	p := handler.NewPredictionHandler(cfg, app.predictions, app.classifier, app.publisher)

	app.e = echo.New()
	router.Register(app.e, a, p, app.issuer, nil)
	return app
}

func (a *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, http.NoBody)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) signup(username, password string) *httptest.ResponseRecorder {
	return a.request(http.MethodPost, "/signup", `{"username":"`+username+`","password":"`+password+`"}`, "")
}

func (a *testApp) login(username, password string) *httptest.ResponseRecorder {
	return a.request(http.MethodPost, "/login", `{"username":"`+username+`","password":"`+password+`"}`, "")
}

// token signs up (ignoring conflicts) and returns a valid bearer token for
// the user.
func (a *testApp) token(username string) string {
	_ = a.signup(username, "pw")
	tok, _, err := a.issuer.Issue(username)
	if err != nil {
		panic(err)
	}
	return tok
}
