package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/emotion-detection-service/internal/classifier"
)

// Full happy path through the wired router: signup, login with the same
// credentials, predict with the issued token, then read the result back
// through statistics and history.
func TestEndToEndFlow(t *testing.T) {
	t.Parallel()

	app := newTestApp()
	app.classifier.res = classifier.Result{Emotion: "joy", Confidence: 0.9}

	require.Equal(t, http.StatusOK, app.signup("aran", "pw").Code)

	loginRec := app.login("aran", "pw")
	require.Equal(t, http.StatusOK, loginRec.Code)
	var tokResp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(loginRec.Body.Bytes(), &tokResp))
	require.NotEmpty(t, tokResp.AccessToken)

	predictRec := app.request(http.MethodPost, "/predict", `{"text":"great news"}`, tokResp.AccessToken)
	require.Equal(t, http.StatusOK, predictRec.Code)
	assert.JSONEq(t, `{"username":"aran","text":"great news","emotion":"joy","confidence":0.9}`, predictRec.Body.String())
	assert.Equal(t, 1, app.predictions.count())

	statsRec := app.request(http.MethodGet, "/statistics", "", tokResp.AccessToken)
	require.Equal(t, http.StatusOK, statsRec.Code)
	assert.JSONEq(t, `{"total_predictions":1,"emotions_count":{"joy":1},"most_common_emotion":"joy"}`, statsRec.Body.String())

	historyRec := app.request(http.MethodGet, "/history", "", tokResp.AccessToken)
	require.Equal(t, http.StatusOK, historyRec.Code)
	assert.Contains(t, historyRec.Body.String(), "great news")
}

// The same flow with a failing classifier must leave no trace in the
// store.
func TestEndToEndFlow_ClassifierDown(t *testing.T) {
	t.Parallel()

	app := newTestApp()
	app.classifier.err = classifier.ErrUnavailable

	require.Equal(t, http.StatusOK, app.signup("aran", "pw").Code)
	tok := app.token("aran")

	rec := app.request(http.MethodPost, "/predict", `{"text":"anything"}`, tok)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, 0, app.predictions.count())

	statsRec := app.request(http.MethodGet, "/statistics", "", tok)
	require.Equal(t, http.StatusOK, statsRec.Code)
	assert.JSONEq(t, `{"total_predictions":0,"emotions_count":{},"most_common_emotion":null}`, statsRec.Body.String())
}
