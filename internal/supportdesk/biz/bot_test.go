package biz

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kart-io/support-desk/internal/model"
	"github.com/kart-io/support-desk/internal/supportdesk/store"
	apierrors "github.com/kart-io/support-desk/pkg/errors"
	"github.com/kart-io/support-desk/pkg/llm"
)

// fakeChat replays scripted JSON responses and records the prompts it saw.
type fakeChat struct {
	responses []string
	calls     [][]llm.Message
	errs      []error
}

func (f *fakeChat) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	return f.ChatJSON(ctx, messages)
}

func (f *fakeChat) ChatJSON(_ context.Context, messages []llm.Message) (string, error) {
	idx := len(f.calls)
	f.calls = append(f.calls, messages)
	if idx < len(f.errs) && f.errs[idx] != nil {
		return "", f.errs[idx]
	}
	if idx >= len(f.responses) {
		return "", assert.AnError
	}
	return f.responses[idx], nil
}

func (f *fakeChat) Name() string { return "fake" }

type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls += len(texts)
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedSingle(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeEmbedder) Name() string { return "fake" }

type fakeVectorStore struct {
	chunks    []*store.RetrievedChunk
	inserted  []*store.DocChunk
	resets    int
	lastTopK  int
	searchErr error
}

func (f *fakeVectorStore) EnsureCollection(context.Context) error { return nil }

func (f *fakeVectorStore) Reset(context.Context) error {
	f.resets++
	f.inserted = nil
	return nil
}

func (f *fakeVectorStore) Insert(_ context.Context, chunks []*store.DocChunk) (int, error) {
	f.inserted = append(f.inserted, chunks...)
	return len(chunks), nil
}

func (f *fakeVectorStore) Search(_ context.Context, _ []float32, topK int) ([]*store.RetrievedChunk, error) {
	f.lastTopK = topK
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.chunks, nil
}

func newTestFactory(t *testing.T) store.Factory {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	factory, err := store.NewFactory(db)
	require.NoError(t, err)
	return factory
}

func newTestBot(t *testing.T, chat *fakeChat, vectors *fakeVectorStore) (*BotService, store.Factory) {
	factory := newTestFactory(t)
	if vectors == nil {
		vectors = &fakeVectorStore{}
	}
	bot := NewBotService(
		chat,
		&fakeEmbedder{},
		vectors,
		factory.Conversations(),
		factory.UserDetails(),
		NewComplaintService(factory.Complaints()),
		nil,
		"Cyfuture",
		5,
	)
	return bot, factory
}

func TestHandleTurn_StatusFollowup(t *testing.T) {
	chat := &fakeChat{responses: []string{
		`{"category": "status"}`,
		`{"followup_flag": true, "followup_question": "Could you share your complaint ID?", "complaint_id": ""}`,
	}}
	bot, factory := newTestBot(t, chat, nil)

	reply, err := bot.HandleTurn(context.Background(), &model.ChatRequest{
		UserID:   "u1",
		UserText: "what is the status of my complaint",
	})
	require.NoError(t, err)

	// A status follow-up is a bare string, not a reply object.
	assert.Equal(t, "Could you share your complaint ID?", reply)

	// Status turns leave no trace in the conversation history.
	records, err := factory.Conversations().Recent(context.Background(), "u1", 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHandleTurn_StatusResolved(t *testing.T) {
	ctx := context.Background()
	chat := &fakeChat{responses: []string{
		`{"category": "status"}`,
		`{"followup_flag": false, "followup_question": "", "complaint_id": "known-id"}`,
	}}
	bot, factory := newTestBot(t, chat, nil)

	require.NoError(t, factory.Complaints().Create(ctx, &model.Complaint{
		ComplaintID:      "known-id",
		Name:             "Alice",
		ComplaintDetails: "Slow internet",
		Status:           model.ComplaintStatusPending,
	}))

	reply, err := bot.HandleTurn(ctx, &model.ChatRequest{UserID: "u1", UserText: "status of known-id"})
	require.NoError(t, err)

	botReply, ok := reply.(*model.BotReply)
	require.True(t, ok)
	assert.Equal(t, "Here is the status of your complaint:", botReply.Response)

	complaint, ok := botReply.ComplaintDetails.(*model.Complaint)
	require.True(t, ok)
	assert.Equal(t, "Alice", complaint.Name)
	assert.Equal(t, model.ComplaintStatusPending, complaint.Status)
}

func TestHandleTurn_StatusUnknownComplaint(t *testing.T) {
	chat := &fakeChat{responses: []string{
		`{"category": "status"}`,
		`{"followup_flag": false, "followup_question": "", "complaint_id": "missing-id"}`,
	}}
	bot, _ := newTestBot(t, chat, nil)

	reply, err := bot.HandleTurn(context.Background(), &model.ChatRequest{UserID: "u1", UserText: "status of missing-id"})
	require.NoError(t, err)

	botReply := reply.(*model.BotReply)
	complaint := botReply.ComplaintDetails.(*model.Complaint)
	assert.Equal(t, "Unknown", complaint.Name)
	assert.Equal(t, model.ComplaintStatusNotFound, complaint.Status)
	assert.Equal(t, "No details available for this complaint ID.", complaint.ComplaintDetails)
}

func TestHandleTurn_ComplaintFollowup(t *testing.T) {
	ctx := context.Background()
	chat := &fakeChat{responses: []string{
		`{"category": "complaint_or_query"}`,
		`{"followup_flag": true, "followup_question": "May I have your phone number?", "user_info": {"name": "Bob"}}`,
	}}
	bot, factory := newTestBot(t, chat, nil)

	reply, err := bot.HandleTurn(ctx, &model.ChatRequest{UserID: "u1", UserText: "I'm Bob, my router is broken"})
	require.NoError(t, err)

	botReply := reply.(*model.BotReply)
	assert.Equal(t, "May I have your phone number?", botReply.Response)
	assert.Nil(t, botReply.ComplaintDetails)

	// Extracted slots persist even on follow-up turns.
	detail, err := factory.UserDetails().Latest(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "Bob", detail.Name)
	assert.Empty(t, detail.PhoneNumber)

	records, err := factory.Conversations().Recent(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].FollowupFlag)
	assert.Equal(t, "May I have your phone number?", records[0].Response)
	assert.Empty(t, records[0].ComplaintDetails)
}

func TestHandleTurn_ComplaintResolved(t *testing.T) {
	ctx := context.Background()
	chat := &fakeChat{responses: []string{
		`{"category": "complaint_or_query"}`,
		`{"followup_flag": false, "followup_question": "", "user_info": {
			"name": "Bob", "phone_number": "123", "email": "bob@example.com",
			"complaint_details": "Router keeps rebooting",
			"response": "Your ticket has been raised."}}`,
	}}
	vectors := &fakeVectorStore{chunks: []*store.RetrievedChunk{
		{Content: "Reboot loops usually mean firmware issues.", Score: 0.9},
	}}
	bot, factory := newTestBot(t, chat, vectors)

	reply, err := bot.HandleTurn(ctx, &model.ChatRequest{UserID: "u1", UserText: "Everything is provided"})
	require.NoError(t, err)

	botReply := reply.(*model.BotReply)
	assert.Equal(t, "Your ticket has been raised.", botReply.Response)

	receipt, ok := botReply.ComplaintDetails.(*ComplaintReceipt)
	require.True(t, ok)
	assert.NotEmpty(t, receipt.ComplaintID)
	assert.Equal(t, "Complaint created successfully", receipt.Message)

	// Retrieval used the configured top-K.
	assert.Equal(t, 5, vectors.lastTopK)

	// The ticket landed in the store with Pending status.
	complaint, err := factory.Complaints().Get(ctx, receipt.ComplaintID)
	require.NoError(t, err)
	require.NotNil(t, complaint)
	assert.Equal(t, model.ComplaintStatusPending, complaint.Status)
	assert.Equal(t, "Router keeps rebooting", complaint.ComplaintDetails)

	records, err := factory.Conversations().Recent(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 0, records[0].FollowupFlag)
	assert.Equal(t, "Router keeps rebooting", records[0].ComplaintDetails)

	// Retrieved context made it into the system prompt.
	system := chat.calls[1][0].Content
	assert.Contains(t, system, "Reboot loops usually mean firmware issues.")
}

func TestHandleTurn_TranscriptFeedsPrompts(t *testing.T) {
	ctx := context.Background()
	chat := &fakeChat{responses: []string{
		`{"category": "complaint_or_query"}`,
		`{"followup_flag": true, "followup_question": "What is your email?", "user_info": {}}`,
	}}
	bot, factory := newTestBot(t, chat, nil)

	require.NoError(t, factory.Conversations().Create(ctx, &model.ConversationRecord{
		UserID:   "u1",
		UserText: "my router is broken",
		Response: "May I have your name?",
	}))

	_, err := bot.HandleTurn(ctx, &model.ChatRequest{UserID: "u1", UserText: "I'm Bob"})
	require.NoError(t, err)

	intentSystem := chat.calls[0][0].Content
	assert.Contains(t, intentSystem, "User: my router is broken")
	assert.Contains(t, intentSystem, "Bot (You): May I have your name?")
	assert.Contains(t, intentSystem, "User: I'm Bob")
}

func TestHandleTurn_NoHistorySentinel(t *testing.T) {
	chat := &fakeChat{responses: []string{
		`{"category": "complaint_or_query"}`,
		`{"followup_flag": true, "followup_question": "What is your name?", "user_info": {}}`,
	}}
	bot, _ := newTestBot(t, chat, nil)

	_, err := bot.HandleTurn(context.Background(), &model.ChatRequest{UserID: "fresh", UserText: "hello"})
	require.NoError(t, err)

	assert.Contains(t, chat.calls[0][0].Content, "No previous conversations found.")
}

func TestHandleTurn_KnownDetailsEnrichMessage(t *testing.T) {
	ctx := context.Background()
	chat := &fakeChat{responses: []string{
		`{"category": "complaint_or_query"}`,
		`{"followup_flag": true, "followup_question": "What is your email?", "user_info": {"name": "Bob", "phone_number": "123"}}`,
	}}
	bot, factory := newTestBot(t, chat, nil)

	require.NoError(t, factory.UserDetails().Create(ctx, &model.UserDetail{
		UserID:      "u1",
		Name:        "Bob",
		PhoneNumber: "123",
	}))

	_, err := bot.HandleTurn(ctx, &model.ChatRequest{UserID: "u1", UserText: "my bill is wrong"})
	require.NoError(t, err)

	userMessage := chat.calls[1][1].Content
	assert.Equal(t, "I'm Bob, my phone number is 123.\nComplaint/Query: my bill is wrong", userMessage)
}

func TestHandleTurn_MalformedIntent(t *testing.T) {
	chat := &fakeChat{responses: []string{`not json at all`}}
	bot, _ := newTestBot(t, chat, nil)

	_, err := bot.HandleTurn(context.Background(), &model.ChatRequest{UserID: "u1", UserText: "hi"})
	require.Error(t, err)
	assert.True(t, apierrors.IsCode(err, apierrors.ErrMalformedModelOutput.Code))
}

func TestHandleTurn_UnexpectedIntentCategory(t *testing.T) {
	chat := &fakeChat{responses: []string{`{"category": "smalltalk"}`}}
	bot, _ := newTestBot(t, chat, nil)

	_, err := bot.HandleTurn(context.Background(), &model.ChatRequest{UserID: "u1", UserText: "hi"})
	require.Error(t, err)
	assert.True(t, apierrors.IsCode(err, apierrors.ErrMalformedModelOutput.Code))
}

func TestHandleTurn_MissingFinalResponse(t *testing.T) {
	chat := &fakeChat{responses: []string{
		`{"category": "complaint_or_query"}`,
		`{"followup_flag": false, "followup_question": "", "user_info": {"name": "Bob", "phone_number": "123", "email": "b@x.com", "complaint_details": "router broken", "response": ""}}`,
	}}
	bot, _ := newTestBot(t, chat, nil)

	_, err := bot.HandleTurn(context.Background(), &model.ChatRequest{UserID: "u1", UserText: "done"})
	require.Error(t, err)
	assert.True(t, apierrors.IsCode(err, apierrors.ErrMalformedModelOutput.Code))
}

// recordingComplaintStore captures ticket writes so tests can assert
// none happened.
type recordingComplaintStore struct {
	created []*model.Complaint
}

func (r *recordingComplaintStore) Create(_ context.Context, complaint *model.Complaint) error {
	r.created = append(r.created, complaint)
	return nil
}

func (r *recordingComplaintStore) Get(context.Context, string) (*model.Complaint, error) {
	return nil, nil
}

func TestHandleTurn_MissingUserInfoKeys(t *testing.T) {
	tests := []struct {
		name     string
		userInfo string
	}{
		{"no name", `{"phone_number": "123", "email": "b@x.com", "complaint_details": "router broken", "response": "done"}`},
		{"no phone_number", `{"name": "Bob", "email": "b@x.com", "complaint_details": "router broken", "response": "done"}`},
		{"no email", `{"name": "Bob", "phone_number": "123", "complaint_details": "router broken", "response": "done"}`},
		{"no complaint_details", `{"name": "Bob", "phone_number": "123", "email": "b@x.com", "response": "done"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			chat := &fakeChat{responses: []string{
				`{"category": "complaint_or_query"}`,
				`{"followup_flag": false, "followup_question": "", "user_info": ` + tt.userInfo + `}`,
			}}
			factory := newTestFactory(t)
			tickets := &recordingComplaintStore{}
			bot := NewBotService(
				chat,
				&fakeEmbedder{},
				&fakeVectorStore{},
				factory.Conversations(),
				factory.UserDetails(),
				NewComplaintService(tickets),
				nil,
				"Cyfuture",
				5,
			)

			_, err := bot.HandleTurn(ctx, &model.ChatRequest{UserID: "u1", UserText: "my router is broken"})
			require.Error(t, err)
			assert.True(t, apierrors.IsCode(err, apierrors.ErrMalformedModelOutput.Code))

			records, err := factory.Conversations().Recent(ctx, "u1", 10)
			require.NoError(t, err)
			assert.Empty(t, records, "rejected turn must not be recorded")
			assert.Empty(t, tickets.created, "rejected turn must not raise a ticket")
		})
	}
}

// An empty-string answer the model did supply is a default for the
// detail row, not a contract violation.
func TestHandleTurn_EmptyUserInfoValuesAccepted(t *testing.T) {
	ctx := context.Background()
	chat := &fakeChat{responses: []string{
		`{"category": "complaint_or_query"}`,
		`{"followup_flag": false, "followup_question": "", "user_info": {"name": "Bob", "phone_number": "", "email": "", "complaint_details": "router broken", "response": "Your ticket has been raised."}}`,
	}}
	bot, factory := newTestBot(t, chat, nil)

	reply, err := bot.HandleTurn(ctx, &model.ChatRequest{UserID: "u1", UserText: "that is all"})
	require.NoError(t, err)

	botReply, ok := reply.(*model.BotReply)
	require.True(t, ok)
	assert.Equal(t, "Your ticket has been raised.", botReply.Response)

	detail, err := factory.UserDetails().Latest(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "Bob", detail.Name)
	assert.Empty(t, detail.PhoneNumber)
	assert.Empty(t, detail.Email)
}

func TestHandleTurn_LLMFailure(t *testing.T) {
	chat := &fakeChat{errs: []error{assert.AnError}}
	bot, _ := newTestBot(t, chat, nil)

	_, err := bot.HandleTurn(context.Background(), &model.ChatRequest{UserID: "u1", UserText: "hi"})
	require.Error(t, err)
	assert.True(t, apierrors.IsCode(err, apierrors.ErrUpstreamLLM.Code))
}

func TestHandleTurn_VectorStoreFailure(t *testing.T) {
	chat := &fakeChat{responses: []string{`{"category": "complaint_or_query"}`}}
	vectors := &fakeVectorStore{searchErr: assert.AnError}
	bot, _ := newTestBot(t, chat, vectors)

	_, err := bot.HandleTurn(context.Background(), &model.ChatRequest{UserID: "u1", UserText: "hi"})
	require.Error(t, err)
	assert.True(t, apierrors.IsCode(err, apierrors.ErrUpstreamVectorStore.Code))
}

func TestEnrichUserInput(t *testing.T) {
	tests := []struct {
		name   string
		detail *model.UserDetail
		want   string
	}{
		{"nil detail", nil, "help me"},
		{"empty detail", &model.UserDetail{}, "help me"},
		{
			"full detail",
			&model.UserDetail{Name: "Bob", PhoneNumber: "123", Email: "b@x.com"},
			"I'm Bob, my phone number is 123, my email is b@x.com.\nComplaint/Query: help me",
		},
		{
			"email only",
			&model.UserDetail{Email: "b@x.com"},
			"my email is b@x.com.\nComplaint/Query: help me",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, enrichUserInput("help me", tt.detail))
		})
	}
}
