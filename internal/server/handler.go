package server

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/oyaguma3/ppp-radius-server/internal/acct"
	"github.com/oyaguma3/ppp-radius-server/internal/auth"
	radiuspkg "github.com/oyaguma3/ppp-radius-server/internal/radius"
	"layeh.com/radius"
)

// AuthHandler はAuthenticationポート（1812）のRADIUSハンドラ。
// layeh.com/radius.Handlerインターフェースの実装。
type AuthHandler struct {
	processor auth.Processor
}

// NewAuthHandler は新しいAuthHandlerを生成する
func NewAuthHandler(processor auth.Processor) *AuthHandler {
	return &AuthHandler{processor: processor}
}

// ServeRADIUS はRADIUSリクエストを処理する
func (h *AuthHandler) ServeRADIUS(w radius.ResponseWriter, r *radius.Request) {
	traceID := uuid.New().String()
	srcIP := extractIP(r.RemoteAddr)

	if r.Code != radius.CodeAccessRequest {
		slog.Warn("未対応のRADIUS Code",
			"event_id", "PKT_UNKNOWN_CODE",
			"trace_id", traceID,
			"src_ip", srcIP,
			"code", r.Code,
		)
		return // 応答なし
	}

	// 1. 属性抽出（User-Name欠落等は破棄）
	attrs, err := radiuspkg.ExtractAccessAttributes(r.Packet)
	if err != nil {
		slog.Warn("属性抽出失敗",
			"event_id", "RADIUS_PARSE_ERR",
			"trace_id", traceID,
			"src_ip", srcIP,
			"reason", err.Error(),
		)
		return // パケット破棄
	}

	// 2. 認証処理
	ctx := context.Background()
	result, err := h.processor.Process(ctx, &auth.Request{
		TraceID: traceID,
		SrcIP:   srcIP,
		Packet:  r.Packet,
		Attrs:   attrs,
	})
	if err != nil {
		// ストア障害はRejectに変換する
		slog.Error("認証処理エラー",
			"event_id", "SYS_ERR",
			"trace_id", traceID,
			"src_ip", srcIP,
			"error", err.Error(),
		)
		h.write(w, radiuspkg.BuildAccessReject(r.Packet, attrs.UserName), traceID)
		return
	}

	// 3. 応答生成・送信。拒否理由は応答に載せずログにのみ残す。
	if !result.Accept {
		slog.Info("認証拒否",
			"event_id", "AUTH_NG",
			"trace_id", traceID,
			"src_ip", srcIP,
			"username", attrs.UserName,
			"method", string(result.Method),
			"reason", result.Reason,
		)
		h.write(w, radiuspkg.BuildAccessReject(r.Packet, attrs.UserName), traceID)
		return
	}

	response, err := radiuspkg.BuildAccessAccept(r.Packet, attrs.UserName, result.Profile, result.Success)
	if err != nil {
		slog.Error("応答生成失敗",
			"event_id", "SYS_ERR",
			"trace_id", traceID,
			"error", err.Error(),
		)
		h.write(w, radiuspkg.BuildAccessReject(r.Packet, attrs.UserName), traceID)
		return
	}

	slog.Info("認証成功",
		"event_id", "AUTH_OK",
		"trace_id", traceID,
		"src_ip", srcIP,
		"username", attrs.UserName,
		"method", string(result.Method),
	)
	h.write(w, response, traceID)
}

func (h *AuthHandler) write(w radius.ResponseWriter, response *radius.Packet, traceID string) {
	if err := w.Write(response); err != nil {
		slog.Error("RADIUS応答送信失敗",
			"event_id", "PKT_SEND_ERR",
			"trace_id", traceID,
			"error", err,
		)
	}
}

// AcctHandler はAccountingポート（1813）のRADIUSハンドラ。
type AcctHandler struct {
	processor acct.AccountingProcessor
}

// NewAcctHandler は新しいAcctHandlerを生成する
func NewAcctHandler(processor acct.AccountingProcessor) *AcctHandler {
	return &AcctHandler{processor: processor}
}

// ServeRADIUS はRADIUSリクエストを処理する
func (h *AcctHandler) ServeRADIUS(w radius.ResponseWriter, r *radius.Request) {
	traceID := uuid.New().String()
	srcIP := extractIP(r.RemoteAddr)

	if r.Code != radius.CodeAccountingRequest {
		slog.Warn("未対応のRADIUS Code",
			"event_id", "PKT_UNKNOWN_CODE",
			"trace_id", traceID,
			"src_ip", srcIP,
			"code", r.Code,
		)
		return
	}

	// 1. Request Authenticator検証（RFC 2866）
	if !radiuspkg.VerifyAccountingAuthenticator(r.Packet, r.Secret) {
		slog.Warn("Authenticator検証失敗",
			"event_id", "RADIUS_AUTH_ERR",
			"trace_id", traceID,
			"src_ip", srcIP,
		)
		return // パケット破棄
	}

	// 2. 属性抽出
	attrs, err := radiuspkg.ExtractAccountingAttributes(r.Packet)
	if err != nil {
		slog.Warn("属性抽出失敗",
			"event_id", "RADIUS_PARSE_ERR",
			"trace_id", traceID,
			"src_ip", srcIP,
			"reason", err.Error(),
		)
		return // パケット破棄
	}

	// 3. Accounting処理。ストア障害でもNASの再送を止めるためAckは返す。
	if err := h.processor.Process(context.Background(), attrs, srcIP, traceID); err != nil {
		slog.Error("Accounting処理エラー",
			"event_id", "SYS_ERR",
			"trace_id", traceID,
			"error", err.Error(),
		)
	}

	// 4. Accounting-Response生成・送信
	response := radiuspkg.BuildAccountingResponse(r.Packet)
	if err := w.Write(response); err != nil {
		slog.Error("RADIUS応答送信失敗",
			"event_id", "PKT_SEND_ERR",
			"trace_id", traceID,
			"error", err,
		)
	}
}
