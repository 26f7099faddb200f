package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kart-io/support-desk/internal/model"
	"github.com/kart-io/support-desk/internal/supportdesk/biz"
	"github.com/kart-io/support-desk/internal/supportdesk/store"
	apierrors "github.com/kart-io/support-desk/pkg/errors"
	"github.com/kart-io/support-desk/pkg/llm"
	jsonutil "github.com/kart-io/support-desk/pkg/utils/json"
)

type scriptedChat struct {
	responses []string
	calls     int
}

func (s *scriptedChat) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	return s.ChatJSON(ctx, messages)
}

func (s *scriptedChat) ChatJSON(context.Context, []llm.Message) (string, error) {
	if s.calls >= len(s.responses) {
		return "", assert.AnError
	}
	resp := s.responses[s.calls]
	s.calls++
	return resp, nil
}

func (s *scriptedChat) Name() string { return "scripted" }

type staticEmbedder struct{}

func (staticEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 2, 3}
	}
	return out, nil
}

func (staticEmbedder) EmbedSingle(context.Context, string) ([]float32, error) {
	return []float32{1, 2, 3}, nil
}

func (staticEmbedder) Name() string { return "static" }

type emptyVectorStore struct{}

func (emptyVectorStore) EnsureCollection(context.Context) error { return nil }
func (emptyVectorStore) Reset(context.Context) error            { return nil }
func (emptyVectorStore) Insert(context.Context, []*store.DocChunk) (int, error) {
	return 0, nil
}
func (emptyVectorStore) Search(context.Context, []float32, int) ([]*store.RetrievedChunk, error) {
	return nil, nil
}

func setupRouter(t *testing.T, chat *scriptedChat) (*gin.Engine, store.Factory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	factory, err := store.NewFactory(db)
	require.NoError(t, err)

	complaintSvc := biz.NewComplaintService(factory.Complaints())
	botSvc := biz.NewBotService(
		chat,
		staticEmbedder{},
		emptyVectorStore{},
		factory.Conversations(),
		factory.UserDetails(),
		complaintSvc,
		nil,
		"Cyfuture",
		5,
	)

	engine := gin.New()
	root := NewRootHandler("Cyfuture")
	engine.GET("/", root.Welcome)
	engine.GET("/healthz", root.Healthz)
	engine.POST("/chatbot", NewChatbotHandler(botSvc).Chat)
	complaints := NewComplaintHandler(complaintSvc)
	engine.POST("/complaints", complaints.Create)
	engine.GET("/complaints/:complaint_id", complaints.Get)

	return engine, factory
}

func doRequest(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestWelcome(t *testing.T) {
	engine, _ := setupRouter(t, &scriptedChat{})

	w := doRequest(engine, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, jsonutil.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Welcome to the Cyfuture AI Bot!", body["Response"])
}

func TestCreateAndGetComplaint(t *testing.T) {
	engine, _ := setupRouter(t, &scriptedChat{})

	w := doRequest(engine, http.MethodPost, "/complaints", `{
		"name": "Alice",
		"phone_number": "555-0100",
		"email": "alice@example.com",
		"complaint_details": "No signal since Monday"
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		ComplaintID string `json:"complaint_id"`
		Message     string `json:"message"`
	}
	require.NoError(t, jsonutil.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Complaint created successfully", created.Message)
	require.NotEmpty(t, created.ComplaintID)

	w = doRequest(engine, http.MethodGet, "/complaints/"+created.ComplaintID, "")
	require.Equal(t, http.StatusOK, w.Code)

	var complaint model.Complaint
	require.NoError(t, jsonutil.Unmarshal(w.Body.Bytes(), &complaint))
	assert.Equal(t, "Alice", complaint.Name)
	assert.Equal(t, model.ComplaintStatusPending, complaint.Status)
}

func TestCreateComplaintValidation(t *testing.T) {
	engine, _ := setupRouter(t, &scriptedChat{})

	w := doRequest(engine, http.MethodPost, "/complaints", `{"name": "Alice"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body ErrorResponse
	require.NoError(t, jsonutil.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apierrors.ErrDeskInvalidRequest.Code, body.Code)
}

func TestGetUnknownComplaintIsSoft(t *testing.T) {
	engine, _ := setupRouter(t, &scriptedChat{})

	w := doRequest(engine, http.MethodGet, "/complaints/nope", "")
	require.Equal(t, http.StatusOK, w.Code)

	var complaint model.Complaint
	require.NoError(t, jsonutil.Unmarshal(w.Body.Bytes(), &complaint))
	assert.Equal(t, model.ComplaintStatusNotFound, complaint.Status)
	assert.Equal(t, "Unknown", complaint.Name)
}

func TestChatbotFollowupTurn(t *testing.T) {
	chat := &scriptedChat{responses: []string{
		`{"category": "complaint_or_query"}`,
		`{"followup_flag": true, "followup_question": "What is your name?", "user_info": {}}`,
	}}
	engine, _ := setupRouter(t, chat)

	w := doRequest(engine, http.MethodPost, "/chatbot", `{"user_id": "u1", "user_text": "my internet is down"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		BotResponse struct {
			Response         string `json:"response"`
			ComplaintDetails any    `json:"complaint_details"`
		} `json:"bot_response"`
	}
	require.NoError(t, jsonutil.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "What is your name?", body.BotResponse.Response)
	assert.Nil(t, body.BotResponse.ComplaintDetails)
}

func TestChatbotStatusFollowupIsBareString(t *testing.T) {
	chat := &scriptedChat{responses: []string{
		`{"category": "status"}`,
		`{"followup_flag": true, "followup_question": "Please share your complaint ID.", "complaint_id": ""}`,
	}}
	engine, _ := setupRouter(t, chat)

	w := doRequest(engine, http.MethodPost, "/chatbot", `{"user_id": "u1", "user_text": "where is my complaint"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, jsonutil.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Please share your complaint ID.", body["bot_response"])
}

func TestChatbotValidation(t *testing.T) {
	engine, _ := setupRouter(t, &scriptedChat{})

	w := doRequest(engine, http.MethodPost, "/chatbot", `{"user_id": "u1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatbotMalformedModelOutput(t *testing.T) {
	chat := &scriptedChat{responses: []string{`garbage`}}
	engine, _ := setupRouter(t, chat)

	w := doRequest(engine, http.MethodPost, "/chatbot", `{"user_id": "u1", "user_text": "hi"}`)
	assert.Equal(t, apierrors.ErrMalformedModelOutput.HTTPStatus(), w.Code)

	var body ErrorResponse
	require.NoError(t, jsonutil.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apierrors.ErrMalformedModelOutput.Code, body.Code)
}
