package biz

import (
	"context"
	"fmt"
	"strings"

	"github.com/kart-io/logger"

	"github.com/kart-io/support-desk/internal/model"
	"github.com/kart-io/support-desk/internal/supportdesk/store"
	apierrors "github.com/kart-io/support-desk/pkg/errors"
	"github.com/kart-io/support-desk/pkg/llm"
	jsonutil "github.com/kart-io/support-desk/pkg/utils/json"
)

// Intent categories emitted by the classifier.
const (
	intentStatus         = "status"
	intentComplaintQuery = "complaint_or_query"
)

// transcriptWindow is the number of past turns fed back into the prompts.
const transcriptWindow = 2

const noHistorySentinel = "No previous conversations found."

// intentDecision is the classifier's structured output.
type intentDecision struct {
	Category string `json:"category"`
}

// statusDecision is the complaint ID extractor's structured output.
type statusDecision struct {
	FollowupFlag     bool   `json:"followup_flag"`
	FollowupQuestion string `json:"followup_question"`
	ComplaintID      string `json:"complaint_id"`
}

// chatDecision is the slot-filling agent's structured output.
type chatDecision struct {
	FollowupFlag     bool         `json:"followup_flag"`
	FollowupQuestion string       `json:"followup_question"`
	UserInfo         chatUserInfo `json:"user_info"`
}

// chatUserInfo holds the extracted slots. The contact and complaint fields
// are pointers so a key the model left out entirely is distinguishable from
// one it answered with an empty string.
type chatUserInfo struct {
	Name             *string `json:"name"`
	PhoneNumber      *string `json:"phone_number"`
	Email            *string `json:"email"`
	ComplaintDetails *string `json:"complaint_details"`
	Response         string  `json:"response"`
}

// missingKey reports the first required slot absent from the model output.
func (u *chatUserInfo) missingKey() (string, bool) {
	switch {
	case u.Name == nil:
		return "name", true
	case u.PhoneNumber == nil:
		return "phone_number", true
	case u.Email == nil:
		return "email", true
	case u.ComplaintDetails == nil:
		return "complaint_details", true
	}
	return "", false
}

func strValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// ComplaintReceipt is what a final turn reports back about the ticket it raised.
type ComplaintReceipt struct {
	ComplaintID string `json:"complaint_id"`
	Message     string `json:"message"`
}

// BotService runs the conversational support flow: intent classification,
// knowledge retrieval, slot filling and ticket creation.
type BotService struct {
	chat          llm.ChatProvider
	embedder      llm.EmbeddingProvider
	vectors       store.VectorStore
	conversations store.ConversationStore
	userDetails   store.UserDetailStore
	complaints    *ComplaintService
	cache         EmbeddingCache
	company       string
	topK          int
}

// NewBotService creates the chatbot service.
func NewBotService(
	chat llm.ChatProvider,
	embedder llm.EmbeddingProvider,
	vectors store.VectorStore,
	conversations store.ConversationStore,
	userDetails store.UserDetailStore,
	complaints *ComplaintService,
	cache EmbeddingCache,
	company string,
	topK int,
) *BotService {
	if cache == nil {
		cache = NewNoopEmbeddingCache()
	}
	return &BotService{
		chat:          chat,
		embedder:      embedder,
		vectors:       vectors,
		conversations: conversations,
		userDetails:   userDetails,
		complaints:    complaints,
		cache:         cache,
		company:       company,
		topK:          topK,
	}
}

// HandleTurn processes one user message and produces the bot's reply.
// The reply is either a bare string (a follow-up question on the status
// path) or a *model.BotReply.
func (s *BotService) HandleTurn(ctx context.Context, req *model.ChatRequest) (any, error) {
	transcript, err := s.buildTranscript(ctx, req.UserID, req.UserText)
	if err != nil {
		return nil, err
	}

	intent, err := s.classifyIntent(ctx, req, transcript)
	if err != nil {
		return nil, err
	}
	logger.Infow("Intent detected", "user_id", req.UserID, "intent", intent)

	if intent == intentStatus {
		return s.handleStatusTurn(ctx, req)
	}
	return s.handleComplaintTurn(ctx, req, transcript)
}

// buildTranscript renders the recent conversation history for the prompts.
func (s *BotService) buildTranscript(ctx context.Context, userID, userText string) (string, error) {
	records, err := s.conversations.Recent(ctx, userID, transcriptWindow)
	if err != nil {
		logger.Errorw("Failed to fetch conversation history", "user_id", userID, "error", err)
		return "", apierrors.ErrUpstreamDatabase.WithCause(err)
	}
	if len(records) == 0 {
		return noHistorySentinel, nil
	}

	var b strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&b, "User: %s\nBot (You): %s\n\n", rec.UserText, rec.Response)
	}
	fmt.Fprintf(&b, "User: %s", userText)
	return strings.TrimSpace(b.String()), nil
}

func (s *BotService) classifyIntent(ctx context.Context, req *model.ChatRequest, transcript string) (string, error) {
	raw, err := s.chat.ChatJSON(ctx, intentMessages(s.company, req.UserText, transcript))
	if err != nil {
		logger.Errorw("Intent classification failed", "user_id", req.UserID, "error", err)
		return "", apierrors.ErrUpstreamLLM.WithCause(err)
	}

	var decision intentDecision
	if err := jsonutil.Unmarshal([]byte(raw), &decision); err != nil {
		return "", apierrors.ErrMalformedModelOutput.WithCause(err)
	}
	if decision.Category != intentStatus && decision.Category != intentComplaintQuery {
		return "", apierrors.ErrMalformedModelOutput.WithMessagef("unexpected intent category %q", decision.Category)
	}
	return decision.Category, nil
}

// handleStatusTurn resolves a complaint status request. Status turns are not
// recorded in the conversation history, so they never displace the complaint
// context the slot-filling prompts rely on.
func (s *BotService) handleStatusTurn(ctx context.Context, req *model.ChatRequest) (any, error) {
	raw, err := s.chat.ChatJSON(ctx, statusMessages(s.company, req.UserText))
	if err != nil {
		logger.Errorw("Complaint ID extraction failed", "user_id", req.UserID, "error", err)
		return nil, apierrors.ErrUpstreamLLM.WithCause(err)
	}

	var decision statusDecision
	if err := jsonutil.Unmarshal([]byte(raw), &decision); err != nil {
		return nil, apierrors.ErrMalformedModelOutput.WithCause(err)
	}

	if decision.FollowupFlag {
		return decision.FollowupQuestion, nil
	}

	complaint, err := s.complaints.Get(ctx, decision.ComplaintID)
	if err != nil {
		return nil, err
	}
	return &model.BotReply{
		Response:         "Here is the status of your complaint:",
		ComplaintDetails: complaint,
	}, nil
}

func (s *BotService) handleComplaintTurn(ctx context.Context, req *model.ChatRequest, transcript string) (any, error) {
	detail, err := s.userDetails.Latest(ctx, req.UserID)
	if err != nil {
		logger.Errorw("Failed to fetch user details", "user_id", req.UserID, "error", err)
		return nil, apierrors.ErrUpstreamDatabase.WithCause(err)
	}

	embedding, err := s.embedQuery(ctx, req)
	if err != nil {
		return nil, err
	}

	chunks, err := s.vectors.Search(ctx, embedding, s.topK)
	if err != nil {
		logger.Errorw("Knowledge base search failed", "user_id", req.UserID, "error", err)
		return nil, apierrors.ErrUpstreamVectorStore.WithCause(err)
	}

	var contextBuilder strings.Builder
	for _, chunk := range chunks {
		contextBuilder.WriteString(chunk.Content)
		contextBuilder.WriteString("\n\n")
	}

	userInput := enrichUserInput(req.UserText, detail)

	raw, err := s.chat.ChatJSON(ctx, chatbotMessages(s.company, userInput, contextBuilder.String(), transcript))
	if err != nil {
		logger.Errorw("Chat completion failed", "user_id", req.UserID, "error", err)
		return nil, apierrors.ErrUpstreamLLM.WithCause(err)
	}

	var decision chatDecision
	if err := jsonutil.Unmarshal([]byte(raw), &decision); err != nil {
		return nil, apierrors.ErrMalformedModelOutput.WithCause(err)
	}

	// Every turn records whatever slots the model has extracted so far.
	if err := s.userDetails.Create(ctx, &model.UserDetail{
		UserID:      req.UserID,
		Name:        strValue(decision.UserInfo.Name),
		PhoneNumber: strValue(decision.UserInfo.PhoneNumber),
		Email:       strValue(decision.UserInfo.Email),
	}); err != nil {
		logger.Errorw("Failed to save user details", "user_id", req.UserID, "error", err)
		return nil, apierrors.ErrUpstreamDatabase.WithCause(err)
	}

	if decision.FollowupFlag {
		if err := s.conversations.Create(ctx, &model.ConversationRecord{
			UserID:       req.UserID,
			UserText:     req.UserText,
			Response:     decision.FollowupQuestion,
			FollowupFlag: 1,
		}); err != nil {
			logger.Errorw("Failed to save conversation", "user_id", req.UserID, "error", err)
			return nil, apierrors.ErrUpstreamDatabase.WithCause(err)
		}
		return &model.BotReply{
			Response:         decision.FollowupQuestion,
			ComplaintDetails: nil,
		}, nil
	}

	// A final turn must carry every slot. A missing key means the model
	// broke the contract, not that the user declined to answer.
	if key, missing := decision.UserInfo.missingKey(); missing {
		return nil, apierrors.ErrMalformedModelOutput.WithMessagef("model omitted user_info key %q", key)
	}
	if decision.UserInfo.Response == "" {
		return nil, apierrors.ErrMalformedModelOutput.WithMessage("model omitted the final response")
	}

	if err := s.conversations.Create(ctx, &model.ConversationRecord{
		UserID:           req.UserID,
		UserText:         req.UserText,
		ComplaintDetails: strValue(decision.UserInfo.ComplaintDetails),
		Response:         decision.UserInfo.Response,
		FollowupFlag:     0,
	}); err != nil {
		logger.Errorw("Failed to save conversation", "user_id", req.UserID, "error", err)
		return nil, apierrors.ErrUpstreamDatabase.WithCause(err)
	}

	complaintID, err := s.complaints.Create(ctx, &model.NewComplaintRequest{
		Name:             strValue(decision.UserInfo.Name),
		PhoneNumber:      strValue(decision.UserInfo.PhoneNumber),
		Email:            strValue(decision.UserInfo.Email),
		ComplaintDetails: strValue(decision.UserInfo.ComplaintDetails),
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("Ticket raised from conversation", "user_id", req.UserID, "complaint_id", complaintID)

	return &model.BotReply{
		Response: decision.UserInfo.Response,
		ComplaintDetails: &ComplaintReceipt{
			ComplaintID: complaintID,
			Message:     "Complaint created successfully",
		},
	}, nil
}

func (s *BotService) embedQuery(ctx context.Context, req *model.ChatRequest) ([]float32, error) {
	if embedding, ok := s.cache.Get(ctx, req.UserText); ok {
		return embedding, nil
	}

	embedding, err := s.embedder.EmbedSingle(ctx, req.UserText)
	if err != nil {
		logger.Errorw("Failed to embed query", "user_id", req.UserID, "error", err)
		return nil, apierrors.ErrUpstreamLLM.WithCause(err)
	}
	s.cache.Set(ctx, req.UserText, embedding)
	return embedding, nil
}

// enrichUserInput prefixes the message with the details already on file so the
// model does not re-ask for slots it has.
func enrichUserInput(userText string, detail *model.UserDetail) string {
	if detail == nil || !detail.HasAny() {
		return userText
	}

	var parts []string
	if detail.Name != "" {
		parts = append(parts, fmt.Sprintf("I'm %s", detail.Name))
	}
	if detail.PhoneNumber != "" {
		parts = append(parts, fmt.Sprintf("my phone number is %s", detail.PhoneNumber))
	}
	if detail.Email != "" {
		parts = append(parts, fmt.Sprintf("my email is %s", detail.Email))
	}
	return fmt.Sprintf("%s.\nComplaint/Query: %s", strings.Join(parts, ", "), userText)
}
