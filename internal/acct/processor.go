package acct

import (
	"context"
	"log/slog"
	"time"

	"github.com/oyaguma3/ppp-radius-server/internal/model"
	radiuspkg "github.com/oyaguma3/ppp-radius-server/internal/radius"
	"github.com/oyaguma3/ppp-radius-server/internal/store"
)

// Processor はAccounting処理のメインロジック。
type Processor struct {
	users    store.UserStore
	sessions store.SessionStore
	records  store.AccountingStore
}

// NewProcessor は新しいProcessorを生成する。
func NewProcessor(users store.UserStore, sessions store.SessionStore, records store.AccountingStore) *Processor {
	return &Processor{
		users:    users,
		sessions: sessions,
		records:  records,
	}
}

// Process はAcct-Status-Typeに応じた処理を行う。
// ログ行の追記はstatus typeによらず必ず行い、セッション更新の失敗は
// エラーとして返すが応答可否には影響させない（呼び出し側が常にAckする）。
func (p *Processor) Process(ctx context.Context, attrs *radiuspkg.AccountingAttributes, srcIP, traceID string) error {
	// 1. 追記専用ログへ記録（status typeによらず全リクエスト）
	rec := &model.AccountingRecord{
		SessionID:    attrs.AcctSessionID,
		Username:     attrs.UserName,
		StatusType:   attrs.AcctStatusType,
		NasIP:        srcIP,
		FramedIP:     attrs.FramedIPAddress,
		SessionTime:  int64(attrs.SessionTime),
		InputOctets:  attrs.TotalInputOctets(),
		OutputOctets: attrs.TotalOutputOctets(),
	}
	if err := p.records.Append(ctx, rec); err != nil {
		slog.Error("accounting log append failed",
			"event_id", "DB_WRITE_ERR",
			"trace_id", traceID,
			"error", err.Error(),
		)
	}

	// 2. Status-Type別のセッション更新
	switch attrs.AcctStatusType {
	case radiuspkg.AcctStatusTypeStart:
		return p.processStart(ctx, attrs, srcIP, traceID)
	case radiuspkg.AcctStatusTypeInterim:
		return p.processInterim(ctx, attrs, srcIP, traceID)
	case radiuspkg.AcctStatusTypeStop:
		return p.processStop(ctx, attrs, srcIP, traceID)
	default:
		// Accounting-On/Off等はログのみ残してAckする
		slog.Info("accounting status ignored",
			"event_id", "ACCT_OTHER",
			"trace_id", traceID,
			"src_ip", srcIP,
			"status_type", radiuspkg.StatusTypeName(attrs.AcctStatusType),
			"acct_session_id", attrs.AcctSessionID,
		)
		return nil
	}
}

// processStart はAcct-Start処理を行う。
func (p *Processor) processStart(ctx context.Context, attrs *radiuspkg.AccountingAttributes, srcIP, traceID string) error {
	// 1. ユーザー解決（未登録でも処理は継続する）
	if attrs.UserName != "" {
		if _, err := p.users.FindByUsername(ctx, attrs.UserName); err != nil {
			if err == store.ErrNotFound {
				slog.Warn("accounting for unknown user",
					"event_id", "ACCT_UNKNOWN_USER",
					"trace_id", traceID,
					"src_ip", srcIP,
					"username", attrs.UserName,
				)
			} else {
				slog.Error("user lookup failed",
					"event_id", "DB_READ_ERR",
					"trace_id", traceID,
					"error", err.Error(),
				)
			}
		}
	}

	// 2. セッションupsert（既存session_idは再開扱い）
	now := time.Now()
	err := p.sessions.Start(ctx, &model.Session{
		SessionID:  attrs.AcctSessionID,
		Username:   attrs.UserName,
		NasIP:      srcIP,
		FramedIP:   attrs.FramedIPAddress,
		MacAddress: attrs.CallingStationID,
		StartTime:  now,
	})
	if err != nil {
		slog.Error("session start failed",
			"event_id", "DB_WRITE_ERR",
			"trace_id", traceID,
			"error", err.Error(),
		)
		return err
	}

	slog.Info("accounting start",
		"event_id", "ACCT_START",
		"trace_id", traceID,
		"src_ip", srcIP,
		"username", attrs.UserName,
		"acct_session_id", attrs.AcctSessionID,
	)
	return nil
}

// processInterim はAcct-Interim処理を行う。
func (p *Processor) processInterim(ctx context.Context, attrs *radiuspkg.AccountingAttributes, srcIP, traceID string) error {
	// Start欠落時はストア側がセッションを作成する
	err := p.sessions.UpdateInterim(ctx, &model.Session{
		SessionID:    attrs.AcctSessionID,
		Username:     attrs.UserName,
		NasIP:        srcIP,
		FramedIP:     attrs.FramedIPAddress,
		MacAddress:   attrs.CallingStationID,
		UpdateTime:   time.Now(),
		SessionTime:  int64(attrs.SessionTime),
		InputOctets:  attrs.TotalInputOctets(),
		OutputOctets: attrs.TotalOutputOctets(),
	})
	if err != nil {
		slog.Error("session update failed",
			"event_id", "DB_WRITE_ERR",
			"trace_id", traceID,
			"error", err.Error(),
		)
		return err
	}

	slog.Info("accounting interim",
		"event_id", "ACCT_INTERIM",
		"trace_id", traceID,
		"src_ip", srcIP,
		"username", attrs.UserName,
		"acct_session_id", attrs.AcctSessionID,
		"input_octets", attrs.TotalInputOctets(),
		"output_octets", attrs.TotalOutputOctets(),
	)
	return nil
}

// processStop はAcct-Stop処理を行う。
func (p *Processor) processStop(ctx context.Context, attrs *radiuspkg.AccountingAttributes, srcIP, traceID string) error {
	err := p.sessions.Stop(ctx, attrs.AcctSessionID, &store.SessionStopData{
		StopTime:       time.Now(),
		SessionTime:    int64(attrs.SessionTime),
		InputOctets:    attrs.TotalInputOctets(),
		OutputOctets:   attrs.TotalOutputOctets(),
		TerminateCause: radiuspkg.TerminateCauseName(attrs.TerminateCause),
	})
	if err != nil {
		slog.Error("session stop failed",
			"event_id", "DB_WRITE_ERR",
			"trace_id", traceID,
			"error", err.Error(),
		)
		return err
	}

	slog.Info("accounting stop",
		"event_id", "ACCT_STOP",
		"trace_id", traceID,
		"src_ip", srcIP,
		"username", attrs.UserName,
		"acct_session_id", attrs.AcctSessionID,
		"session_time", attrs.SessionTime,
		"input_octets", attrs.TotalInputOctets(),
		"output_octets", attrs.TotalOutputOctets(),
		"terminate_cause", radiuspkg.TerminateCauseName(attrs.TerminateCause),
	)
	return nil
}
