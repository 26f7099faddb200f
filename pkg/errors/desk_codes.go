package errors

import "google.golang.org/grpc/codes"

// Support desk service code: 20 (business service range 20-79).

var (
	// Request errors (category 01).
	ErrDeskInvalidRequest = Register(New(MakeCode(ServiceSupportDesk, CategoryRequest, 1), 400, codes.InvalidArgument, "Invalid request parameters", "请求参数无效"))
	ErrDeskEmptyMessage   = Register(New(MakeCode(ServiceSupportDesk, CategoryRequest, 2), 400, codes.InvalidArgument, "Message text must not be empty", "消息内容不能为空"))

	// Resource errors (category 04).
	ErrDeskComplaintNotFound = Register(New(MakeCode(ServiceSupportDesk, CategoryResource, 1), 404, codes.NotFound, "Complaint not found", "投诉工单不存在"))

	// Conversation pipeline errors (category 07).
	ErrMalformedModelOutput = Register(New(MakeCode(ServiceSupportDesk, CategoryInternal, 1), 502, codes.Internal, "Model returned malformed output", "模型输出格式错误"))
	ErrDeskIndexFailed      = Register(New(MakeCode(ServiceSupportDesk, CategoryInternal, 2), 500, codes.Internal, "Document indexing failed", "文档索引失败"))

	// Upstream errors.
	ErrUpstreamLLM         = Register(New(MakeCode(ServiceUpstreamLLM, CategoryNetwork, 1), 502, codes.Unavailable, "LLM upstream request failed", "LLM 上游请求失败"))
	ErrUpstreamVectorStore = Register(New(MakeCode(ServiceUpstreamVector, CategoryNetwork, 1), 502, codes.Unavailable, "Vector store request failed", "向量库请求失败"))
	ErrUpstreamDatabase    = Register(New(MakeCode(ServiceSupportDesk, CategoryDatabase, 1), 500, codes.Internal, "Support desk database error", "支持台数据库错误"))
)
